package app

import (
	"context"
	"errors"
	"testing"

	"github.com/myhainan/member-portal/internal/domain"
)

func TestBadgeForTotal(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  *domain.DonorBadge
	}{
		{"below bronze", 9999, nil},
		{"bronze threshold", 10000, badgePtr(domain.BadgeBronze)},
		{"between bronze and gold", 250000, badgePtr(domain.BadgeBronze)},
		{"gold threshold", 500000, badgePtr(domain.BadgeGold)},
		{"above gold", 1000000, badgePtr(domain.BadgeGold)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := badgeForTotal(tt.total)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected badge %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("expected badge %q, got %q", *tt.want, *got)
			}
		})
	}
}

func badgePtr(b domain.DonorBadge) *domain.DonorBadge { return &b }

func TestDonateAccumulatesTotalsAndBadges(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()

	userID, err := repo.CreateUser(ctx, &domain.User{Email: "donor@example.com", Name: "Donor"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// RM 60: no badge yet.
	if _, err := service.Donate(ctx, userID, 6000, "building fund"); err != nil {
		t.Fatalf("first donation failed: %v", err)
	}
	user, _ := repo.FindUserByID(ctx, userID)
	if user.DonorBadge != nil {
		t.Fatalf("expected no badge at RM 60, got %q", *user.DonorBadge)
	}

	// RM 60 more crosses the bronze threshold.
	if _, err := service.Donate(ctx, userID, 6000, "building fund"); err != nil {
		t.Fatalf("second donation failed: %v", err)
	}
	user, _ = repo.FindUserByID(ctx, userID)
	if user.TotalDonations != 12000 {
		t.Fatalf("expected total 12000 sen, got %d", user.TotalDonations)
	}
	if user.DonorBadge == nil || *user.DonorBadge != domain.BadgeBronze {
		t.Fatalf("expected bronze badge, got %v", user.DonorBadge)
	}

	// A large gift jumps straight to gold.
	if _, err := service.Donate(ctx, userID, 600000, "scholarships"); err != nil {
		t.Fatalf("third donation failed: %v", err)
	}
	user, _ = repo.FindUserByID(ctx, userID)
	if user.DonorBadge == nil || *user.DonorBadge != domain.BadgeGold {
		t.Fatalf("expected gold badge, got %v", user.DonorBadge)
	}

	if len(repo.donations) != 3 {
		t.Fatalf("expected 3 donation records, got %d", len(repo.donations))
	}
	if got := repo.notificationCount(userID); got != 3 {
		t.Fatalf("expected 3 thank-you notifications, got %d", got)
	}
}

func TestDonateRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()

	userID, err := repo.CreateUser(ctx, &domain.User{Email: "zero@example.com", Name: "Zero"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if _, err := service.Donate(ctx, userID, 0, "fund"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
