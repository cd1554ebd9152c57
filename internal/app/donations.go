/**
 * @description
 * Donation recording and donor badge progression. Badges are derived from the
 * member's cumulative donations: bronze from RM 100, gold from RM 5000.
 */

package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

const (
	bronzeBadgeThreshold = 100 * 100  // RM 100 in sen
	goldBadgeThreshold   = 5000 * 100 // RM 5000 in sen
)

// badgeForTotal returns the badge earned at a cumulative donation total.
func badgeForTotal(totalSen int64) *domain.DonorBadge {
	switch {
	case totalSen >= goldBadgeThreshold:
		b := domain.BadgeGold
		return &b
	case totalSen >= bronzeBadgeThreshold:
		b := domain.BadgeBronze
		return &b
	default:
		return nil
	}
}

// Donate records a donation, advances the member's cumulative total and badge,
// and confirms by notification.
func (s *Service) Donate(ctx context.Context, userID uuid.UUID, amount int64, campaign string) (*domain.Donation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	donation := &domain.Donation{
		UserID:   userID,
		Amount:   amount,
		Campaign: campaign,
	}
	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	total := user.TotalDonations + amount
	if err := s.repo.UpdateUserDonationTotals(ctx, userID, total, badgeForTotal(total)); err != nil {
		s.logger.Warn("donation totals update failed", "user_id", userID, "error", err)
	}

	if err := s.Notify(ctx, userID,
		"Thank You for Your Donation",
		fmt.Sprintf("Your generous donation of RM %s has been received.", formatRM(amount)),
		domain.NotificationDonation,
	); err != nil {
		s.logger.Warn("donation notification failed", "donation_id", donation.ID, "error", err)
	}
	return donation, nil
}
