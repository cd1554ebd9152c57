/**
 * @description
 * This file defines the `Repository` interface, the contract for all data access
 * required by the member-portal. Business logic in `internal/app` depends only on
 * this interface, so the PostgreSQL implementation can be swapped for stubs in
 * tests or for another store without touching the services.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For id handling.
 * - internal/domain: For the portal's domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) (uuid.UUID, error)
	FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserRoleState(ctx context.Context, userID uuid.UUID, activeRole domain.Role, code *string, expiry *time.Time) error
	AddUserPoints(ctx context.Context, userID uuid.UUID, points int64) error
	UpdateUserDonationTotals(ctx context.Context, userID uuid.UUID, totalDonations int64, badge *domain.DonorBadge) error
	// ListAdminUserIDs returns ids of every user whose role set contains an
	// admin-capable role (sub_admin or super_admin).
	ListAdminUserIDs(ctx context.Context) ([]uuid.UUID, error)

	// Loan application methods
	CreateLoanApplication(ctx context.Context, app *domain.LoanApplication) error
	FindLoanApplicationByID(ctx context.Context, appID uuid.UUID) (*domain.LoanApplication, error)
	UpdateLoanApplicationStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus) error
	ListLoanApplicationsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error)

	// Loan methods
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)
	FindLoanByUserID(ctx context.Context, userID uuid.UUID) (*domain.Loan, error)
	// ListOpenLoans returns loans with status `approved` and a positive
	// remaining balance.
	ListOpenLoans(ctx context.Context) ([]domain.Loan, error)
	UpdateLoanPaymentState(ctx context.Context, loan *domain.Loan) error
	// RecordDeadlineNotice inserts the (loan, year, month) marker and reports
	// whether it was newly recorded. A false return means an overdue notice was
	// already sent for that billing month.
	RecordDeadlineNotice(ctx context.Context, loanID uuid.UUID, year int, month int) (bool, error)

	// Event and booking methods
	CreateEvent(ctx context.Context, event *domain.Event) error
	FindEventByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	ListEventsByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Event, error)
	UpdateEventReview(ctx context.Context, eventID uuid.UUID, status domain.EventStatus, rejectionComment *string) error
	// ReserveEventSeats atomically increments the booked count, failing with
	// ErrEventFull when capacity would be exceeded.
	ReserveEventSeats(ctx context.Context, eventID uuid.UUID, attendees int) error
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// Donation methods
	CreateDonation(ctx context.Context, donation *domain.Donation) error

	// Association methods
	FindAssociationByID(ctx context.Context, assocID uuid.UUID) (*domain.Association, error)
	ListAssociations(ctx context.Context) ([]domain.Association, error)
	UpsertAssociation(ctx context.Context, assoc *domain.Association) error

	// Notification methods
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
}
