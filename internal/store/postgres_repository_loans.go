/**
 * @description
 * PostgreSQL queries for loan applications, loans and the deadline-notice
 * markers used by the overdue sweep.
 *
 * @notes
 * - `RecordDeadlineNotice` relies on `INSERT .. ON CONFLICT DO NOTHING` so that
 *   marker recording and the already-notified check are a single atomic
 *   statement; the sweep only emits notifications when the insert reports a new
 *   row. Markers are append-only and never pruned.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/myhainan/member-portal/internal/domain"
)

// CreateLoanApplication inserts a pending loan application.
func (r *PostgresRepository) CreateLoanApplication(ctx context.Context, app *domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (user_id, amount, purpose)
		VALUES ($1, $2, $3)
		RETURNING id, status, applied_at
	`
	return r.db.QueryRow(ctx, query, app.UserID, app.Amount, app.Purpose).
		Scan(&app.ID, &app.Status, &app.AppliedAt)
}

// FindLoanApplicationByID retrieves a loan application by id.
func (r *PostgresRepository) FindLoanApplicationByID(ctx context.Context, appID uuid.UUID) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	query := `SELECT id, user_id, amount, purpose, status, applied_at FROM loan_applications WHERE id = $1`
	err := r.db.QueryRow(ctx, query, appID).
		Scan(&app.ID, &app.UserID, &app.Amount, &app.Purpose, &app.Status, &app.AppliedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// UpdateLoanApplicationStatus moves an application to accepted or rejected.
func (r *PostgresRepository) UpdateLoanApplicationStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE loan_applications SET status = $2 WHERE id = $1`, appID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// ListLoanApplicationsByStatus returns applications in a given review state, oldest first.
func (r *PostgresRepository) ListLoanApplicationsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error) {
	query := `
		SELECT id, user_id, amount, purpose, status, applied_at
		FROM loan_applications WHERE status = $1 ORDER BY applied_at
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.LoanApplication
	for rows.Next() {
		var app domain.LoanApplication
		if err := rows.Scan(&app.ID, &app.UserID, &app.Amount, &app.Purpose, &app.Status, &app.AppliedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

const loanColumns = `id, user_id, amount, monthly_payment, total_payments, payments_made,
	total_paid, remaining_balance, purpose, status, applied_at, next_payment_date`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID, &loan.UserID, &loan.Amount, &loan.MonthlyPayment, &loan.TotalPayments,
		&loan.PaymentsMade, &loan.TotalPaid, &loan.RemainingBalance, &loan.Purpose,
		&loan.Status, &loan.AppliedAt, &loan.NextPaymentDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// CreateLoan inserts the loan created from an accepted application.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (user_id, amount, monthly_payment, total_payments, remaining_balance,
			purpose, status, next_payment_date)
		VALUES ($1, $2, $3, $4, $2, $5, $6, $7)
		RETURNING id, applied_at
	`
	return r.db.QueryRow(ctx, query,
		loan.UserID, loan.Amount, loan.MonthlyPayment, loan.TotalPayments,
		loan.Purpose, loan.Status, loan.NextPaymentDate,
	).Scan(&loan.ID, &loan.AppliedAt)
}

// FindLoanByID retrieves a loan by id.
func (r *PostgresRepository) FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return scanLoan(r.db.QueryRow(ctx, query, loanID))
}

// FindLoanByUserID retrieves a user's most recent loan.
func (r *PostgresRepository) FindLoanByUserID(ctx context.Context, userID uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY applied_at DESC LIMIT 1`
	return scanLoan(r.db.QueryRow(ctx, query, userID))
}

// ListOpenLoans returns approved loans that still carry a balance.
func (r *PostgresRepository) ListOpenLoans(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = 'approved' AND remaining_balance > 0`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}

// UpdateLoanPaymentState writes back the fields mutated by payment application.
func (r *PostgresRepository) UpdateLoanPaymentState(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET total_paid = $2, remaining_balance = $3, payments_made = $4, status = $5,
			next_payment_date = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		loan.ID, loan.TotalPaid, loan.RemainingBalance, loan.PaymentsMade, loan.Status,
		loan.NextPaymentDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// RecordDeadlineNotice records the overdue marker for a billing month and
// reports whether it was newly inserted.
func (r *PostgresRepository) RecordDeadlineNotice(ctx context.Context, loanID uuid.UUID, year int, month int) (bool, error) {
	query := `
		INSERT INTO loan_deadline_notices (loan_id, year, month)
		VALUES ($1, $2, $3)
		ON CONFLICT (loan_id, year, month) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, loanID, year, month)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
