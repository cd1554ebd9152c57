/**
 * @description
 * Role switching and verification. Switching to any role above `public`
 * requires a live verification: an association-issued code of the form
 * HNHG + four digits, valid for thirty days from entry. Within that window any
 * number of switches succeed without re-entering a code.
 *
 * The derived verification state is computed in exactly one place
 * (`VerificationStatus`) rather than by scattering wall-clock comparisons
 * across call sites.
 */

package app

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// VerificationWindow is how long a role verification stays valid.
const VerificationWindow = 30 * 24 * time.Hour

// verificationCodePattern matches HNHG followed by exactly four digits,
// case-insensitive, with an optional single space after the prefix.
var verificationCodePattern = regexp.MustCompile(`^(?i)HNHG ?\d{4}$`)

// VerificationStatus derives a user's verification state at the given instant.
func VerificationStatus(user *domain.User, now time.Time) domain.VerificationState {
	if user.VerificationCode == nil || user.VerificationExpiry == nil {
		return domain.VerificationUnverified
	}
	if user.VerificationExpiry.Before(now) {
		return domain.VerificationExpired
	}
	return domain.VerificationVerified
}

// NormalizeVerificationCode validates the code format and returns its
// canonical form (upper-case, space stripped). An empty string is returned for
// malformed input.
func NormalizeVerificationCode(code string) (string, bool) {
	if !verificationCodePattern.MatchString(strings.TrimSpace(code)) {
		return "", false
	}
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	return normalized, true
}

// SwitchRole changes the user's active role to target.
//
// Switching to `public`, or while a verification is live, succeeds without a
// code. Otherwise a well-formed code must be supplied; entering one issues a
// fresh thirty-day verification. A malformed code fails validation with no
// state change.
func (s *Service) SwitchRole(ctx context.Context, userID uuid.UUID, target domain.Role, code string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(target) {
		return nil, ErrRoleNotHeld
	}

	now := s.now()
	if target == domain.RolePublic || VerificationStatus(user, now) == domain.VerificationVerified {
		if err := s.repo.UpdateUserRoleState(ctx, userID, target, nil, nil); err != nil {
			return nil, err
		}
		user.ActiveRole = target
		return user, nil
	}

	if strings.TrimSpace(code) == "" {
		return nil, ErrVerificationCodeRequired
	}
	normalized, ok := NormalizeVerificationCode(code)
	if !ok {
		return nil, ErrInvalidVerificationCode
	}

	expiry := now.Add(VerificationWindow)
	if err := s.repo.UpdateUserRoleState(ctx, userID, target, &normalized, &expiry); err != nil {
		return nil, err
	}
	user.ActiveRole = target
	user.VerificationCode = &normalized
	user.VerificationExpiry = &expiry
	return user, nil
}
