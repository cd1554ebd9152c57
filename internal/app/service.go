/**
 * @description
 * This file defines the `Service` struct that carries the member-portal's
 * business logic, its constructor, and the app-level sentinel errors surfaced
 * to the API layer. The individual use cases (auth, loans, deadline sweep, role
 * switching, events, donations, notifications) live in sibling files.
 *
 * @dependencies
 * - errors, log/slog, time: Standard Go libraries.
 * - internal/store: Data access contract.
 * - pkg/rabbitmq: Event publishing for notification fan-out.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myhainan/member-portal/internal/store"
	"github.com/myhainan/member-portal/pkg/rabbitmq"
)

var (
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidAmount            = errors.New("amount must be greater than zero")
	ErrMissingField             = errors.New("required field missing")
	ErrRoleNotHeld              = errors.New("user does not hold the requested role")
	ErrVerificationCodeRequired = errors.New("verification code required")
	ErrInvalidVerificationCode  = errors.New("invalid verification code format")
	ErrApplicationReviewed      = errors.New("loan application already reviewed")
	ErrLoanAlreadyCompleted     = errors.New("loan already completed")
	ErrEventNotOpen             = errors.New("event is not open for booking")
	ErrInvalidAttendees         = errors.New("attendee count must be greater than zero")
)

// EventCache caches the public approved-events listing. A nil cache disables
// caching entirely.
type EventCache interface {
	GetApprovedEvents(ctx context.Context) ([]byte, bool)
	SetApprovedEvents(ctx context.Context, payload []byte)
	Invalidate(ctx context.Context)
}

// Service provides the core business logic for the member-portal.
type Service struct {
	repo       store.Repository
	producer   rabbitmq.Publisher
	eventCache EventCache
	logger     *slog.Logger

	jwtSecret []byte
	tokenTTL  time.Duration

	// now is swapped in tests that exercise wall-clock behaviour.
	now func() time.Time
}

// NewService creates a new portal service instance.
func NewService(repo store.Repository, producer rabbitmq.Publisher, logger *slog.Logger, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		producer:  producer,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// SetEventCache attaches an optional cache for the approved-events listing.
func (s *Service) SetEventCache(cache EventCache) {
	s.eventCache = cache
}

// formatRM renders an amount in sen as ringgit with two decimals, e.g. "200.00".
func formatRM(sen int64) string {
	return fmt.Sprintf("%d.%02d", sen/100, sen%100)
}

// pointsForAmount converts a paid amount in sen into loyalty points:
// one point per ten ringgit, rounded down.
func pointsForAmount(sen int64) int64 {
	return sen / 1000
}

// firstOfNextMonth returns midnight UTC on the 1st of the month after ref.
func firstOfNextMonth(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
