/**
 * @description
 * This file defines the loan domain models: loan applications, the loans created
 * from accepted applications, and the deadline-notice markers that keep the
 * overdue sweep idempotent within a billing month.
 *
 * @notes
 * - Amounts are stored as `int64` in sen (the smallest currency unit) to avoid
 *   floating-point inaccuracies with money, matching the convention used for
 *   every other monetary field in the system.
 * - A loan is mutated only by payment application and is never deleted.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanApproved  LoanStatus = "approved"
	LoanCompleted LoanStatus = "completed"
)

// ApplicationStatus is the review state of a loan application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Loan represents an interest-free member loan. Maps to the `loans` table.
//
// Invariants maintained by the payment flow:
//   - RemainingBalance == max(0, Amount - TotalPaid)
//   - Status == LoanCompleted iff RemainingBalance == 0
//   - NextPaymentDate == nil iff the loan is completed
type Loan struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Amount           int64      `json:"amount"`          // in sen
	MonthlyPayment   int64      `json:"monthly_payment"` // in sen
	TotalPayments    int        `json:"total_payments"`
	PaymentsMade     int        `json:"payments_made"`
	TotalPaid        int64      `json:"total_paid"`        // in sen
	RemainingBalance int64      `json:"remaining_balance"` // in sen
	Purpose          string     `json:"purpose"`
	Status           LoanStatus `json:"status"`
	AppliedAt        time.Time  `json:"applied_at"`
	NextPaymentDate  *time.Time `json:"next_payment_date,omitempty"`
}

// LoanApplication is a member's request for a loan, reviewed by an admin.
type LoanApplication struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Amount    int64             `json:"amount"` // in sen
	Purpose   string            `json:"purpose"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"applied_at"`
}

// DeadlineNotice marks that an overdue notification was already sent for a loan
// in a given billing month. Append-only; never pruned.
type DeadlineNotice struct {
	LoanID uuid.UUID `json:"loan_id"`
	Year   int       `json:"year"`
	Month  int       `json:"month"`
}
