/**
 * @description
 * Loan lifecycle logic: member applications, admin review, and payment
 * application. A loan is born from an accepted application and from then on is
 * mutated only by `ApplyPayment`.
 *
 * Key behaviour:
 * - Payments recompute the running totals on an in-memory snapshot and write
 *   the snapshot back in one statement. The remaining balance is clamped at
 *   zero; any excess over the final balance is forfeited.
 * - A completed loan carries no next payment date.
 * - Every payment awards the payer one loyalty point per ten ringgit paid,
 *   regardless of overpayment.
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// ApplyForLoan files a pending loan application for the member.
func (s *Service) ApplyForLoan(ctx context.Context, userID uuid.UUID, amount int64, purpose string) (*domain.LoanApplication, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	application := &domain.LoanApplication{
		UserID:  userID,
		Amount:  amount,
		Purpose: purpose,
	}
	if err := s.repo.CreateLoanApplication(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to create loan application: %w", err)
	}
	return application, nil
}

// PendingLoanApplications lists applications awaiting review.
func (s *Service) PendingLoanApplications(ctx context.Context) ([]domain.LoanApplication, error) {
	return s.repo.ListLoanApplicationsByStatus(ctx, domain.ApplicationPending)
}

// AcceptLoanApplication approves an application and creates the loan it funds.
// The repayment plan is derived from the application: the monthly payment is
// the requested amount spread over the given number of payments, and the first
// payment falls due on the 1st of the following month.
func (s *Service) AcceptLoanApplication(ctx context.Context, appID uuid.UUID, monthlyPayment int64) (*domain.Loan, error) {
	if monthlyPayment <= 0 {
		return nil, ErrInvalidAmount
	}
	application, err := s.repo.FindLoanApplicationByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, ErrApplicationReviewed
	}

	totalPayments := int(application.Amount / monthlyPayment)
	if application.Amount%monthlyPayment != 0 {
		totalPayments++
	}
	firstDue := firstOfNextMonth(s.now())

	loan := &domain.Loan{
		UserID:           application.UserID,
		Amount:           application.Amount,
		MonthlyPayment:   monthlyPayment,
		TotalPayments:    totalPayments,
		RemainingBalance: application.Amount,
		Purpose:          application.Purpose,
		Status:           domain.LoanApproved,
		NextPaymentDate:  &firstDue,
	}
	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	if err := s.repo.UpdateLoanApplicationStatus(ctx, appID, domain.ApplicationAccepted); err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	if err := s.Notify(ctx, loan.UserID,
		"Loan Application Approved",
		fmt.Sprintf("Your loan of RM %s has been approved. Monthly payment: RM %s.",
			formatRM(loan.Amount), formatRM(loan.MonthlyPayment)),
		domain.NotificationLoan,
	); err != nil {
		s.logger.Warn("loan approval notification failed", "loan_id", loan.ID, "error", err)
	}
	return loan, nil
}

// RejectLoanApplication declines a pending application.
func (s *Service) RejectLoanApplication(ctx context.Context, appID uuid.UUID) error {
	application, err := s.repo.FindLoanApplicationByID(ctx, appID)
	if err != nil {
		return err
	}
	if application.Status != domain.ApplicationPending {
		return ErrApplicationReviewed
	}
	if err := s.repo.UpdateLoanApplicationStatus(ctx, appID, domain.ApplicationRejected); err != nil {
		return err
	}
	if err := s.Notify(ctx, application.UserID,
		"Loan Application Rejected",
		"Unfortunately your loan application was not approved. Please contact your association for details.",
		domain.NotificationLoan,
	); err != nil {
		s.logger.Warn("loan rejection notification failed", "application_id", appID, "error", err)
	}
	return nil
}

// LoanForUser returns the member's current loan.
func (s *Service) LoanForUser(ctx context.Context, userID uuid.UUID) (*domain.Loan, error) {
	return s.repo.FindLoanByUserID(ctx, userID)
}

// applyPaymentToSnapshot recomputes a loan snapshot after a payment. Pure
// function so the payment math is testable without a store.
func applyPaymentToSnapshot(loan domain.Loan, amount int64, nowFn func() time.Time) domain.Loan {
	loan.TotalPaid += amount
	remaining := loan.Amount - loan.TotalPaid
	if remaining < 0 {
		remaining = 0
	}
	loan.RemainingBalance = remaining
	loan.PaymentsMade++
	if remaining == 0 {
		loan.Status = domain.LoanCompleted
		loan.NextPaymentDate = nil
	} else {
		next := firstOfNextMonth(nowFn())
		loan.NextPaymentDate = &next
	}
	return loan
}

// ApplyPayment applies a payment to the loan, updates its snapshot, and awards
// loyalty points to the payer. The snapshot write is a single synchronous store
// call with no retry.
func (s *Service) ApplyPayment(ctx context.Context, loanID uuid.UUID, amount int64) (*domain.Loan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domain.LoanCompleted {
		return nil, ErrLoanAlreadyCompleted
	}

	updated := applyPaymentToSnapshot(*loan, amount, s.now)
	if err := s.repo.UpdateLoanPaymentState(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	if points := pointsForAmount(amount); points > 0 {
		if err := s.repo.AddUserPoints(ctx, loan.UserID, points); err != nil {
			s.logger.Warn("loyalty point award failed", "user_id", loan.UserID, "points", points, "error", err)
		}
	}

	if updated.Status == domain.LoanCompleted {
		if err := s.Notify(ctx, loan.UserID,
			"Loan Fully Repaid",
			fmt.Sprintf("Congratulations! Your loan of RM %s is fully repaid.", formatRM(loan.Amount)),
			domain.NotificationLoan,
		); err != nil {
			s.logger.Warn("loan completion notification failed", "loan_id", loan.ID, "error", err)
		}
	}
	return &updated, nil
}
