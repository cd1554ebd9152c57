/**
 * @description
 * Payment-deadline sweep. Scans every open loan against the monthly payment
 * cutoff (the 8th, end of day) and notifies the borrower plus every
 * admin-capable user when a payment is overdue.
 *
 * Key behaviour:
 * - A loan is overdue only once the reference time is past the 8th of its
 *   month, and only if the loan's due date fell on or before that cutoff.
 * - At most one overdue notice is sent per loan per billing month. The marker
 *   insert is atomic (ON CONFLICT DO NOTHING), so repeated sweeps in the same
 *   month cannot duplicate notifications even when they race.
 * - The simulation variant skips both the overdue predicate and the markers;
 *   it exists for manual testing and can be invoked repeatedly.
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// PaymentDeadlineDay is the day of the month loan payments are due by.
const PaymentDeadlineDay = 8

// monthDeadline returns the payment cutoff for ref's month: the 8th at the
// very end of the day, in ref's location.
func monthDeadline(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), PaymentDeadlineDay, 23, 59, 59, 999999999, ref.Location())
}

// IsPaymentOverdue reports whether a loan with the given due date is overdue
// relative to ref. A loan with no due date is never overdue.
func IsPaymentOverdue(nextPaymentDate *time.Time, ref time.Time) bool {
	if nextPaymentDate == nil {
		return false
	}
	deadline := monthDeadline(ref)
	return ref.After(deadline) && !nextPaymentDate.After(deadline)
}

// RunDeadlineSweep examines every open loan and sends overdue notices for the
// billing month containing ref. Safe to invoke any number of times per month.
func (s *Service) RunDeadlineSweep(ctx context.Context, ref time.Time) error {
	loans, err := s.repo.ListOpenLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open loans: %w", err)
	}

	adminIDs, err := s.repo.ListAdminUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admin users: %w", err)
	}

	year, month := ref.Year(), int(ref.Month())
	notified := 0
	for _, loan := range loans {
		if !IsPaymentOverdue(loan.NextPaymentDate, ref) {
			continue
		}
		fresh, err := s.repo.RecordDeadlineNotice(ctx, loan.ID, year, month)
		if err != nil {
			s.logger.Error("deadline marker insert failed", "loan_id", loan.ID, "error", err)
			continue
		}
		if !fresh {
			continue
		}
		s.sendOverdueNotices(ctx, loan, adminIDs, false)
		notified++
	}

	s.logger.Info("deadline sweep finished", "open_loans", len(loans), "notified", notified, "year", year, "month", month)
	return nil
}

// SimulateDeadlineSweep unconditionally sends overdue notices for every open
// loan without recording markers. Manual-testing aid only.
func (s *Service) SimulateDeadlineSweep(ctx context.Context) error {
	loans, err := s.repo.ListOpenLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open loans: %w", err)
	}
	adminIDs, err := s.repo.ListAdminUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admin users: %w", err)
	}
	for _, loan := range loans {
		s.sendOverdueNotices(ctx, loan, adminIDs, true)
	}
	s.logger.Info("simulated deadline sweep finished", "open_loans", len(loans))
	return nil
}

func (s *Service) sendOverdueNotices(ctx context.Context, loan domain.Loan, adminIDs []uuid.UUID, simulated bool) {
	ownerTitle := "Payment Overdue - Action Required"
	ownerMsg := fmt.Sprintf("Your monthly loan payment of RM %s was due on the 8th. Please make your payment as soon as possible.",
		formatRM(loan.MonthlyPayment))
	adminTitle := "Loan Payment Overdue Alert"
	adminMsg := fmt.Sprintf("Member loan payment (RM %s) is overdue. Loan ID: %s",
		formatRM(loan.MonthlyPayment), loan.ID)
	if simulated {
		ownerTitle += " (Simulated)"
		ownerMsg += " [SIMULATED]"
		adminTitle += " (Simulated)"
		adminMsg += " [SIMULATED]"
	}

	if err := s.Notify(ctx, loan.UserID, ownerTitle, ownerMsg, domain.NotificationLoan); err != nil {
		s.logger.Error("overdue notice to borrower failed", "loan_id", loan.ID, "user_id", loan.UserID, "error", err)
	}
	for _, adminID := range adminIDs {
		if err := s.Notify(ctx, adminID, adminTitle, adminMsg, domain.NotificationLoan); err != nil {
			s.logger.Error("overdue notice to admin failed", "loan_id", loan.ID, "admin_id", adminID, "error", err)
		}
	}
}
