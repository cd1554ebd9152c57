package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
	"github.com/myhainan/member-portal/internal/store"
)

// fakeRepository is an in-memory store.Repository shared by the app-layer tests.
type fakeRepository struct {
	mu sync.Mutex

	users         map[uuid.UUID]*domain.User
	applications  map[uuid.UUID]*domain.LoanApplication
	loans         map[uuid.UUID]*domain.Loan
	notices       map[string]bool
	events        map[uuid.UUID]*domain.Event
	bookings      []domain.Booking
	donations     []domain.Donation
	associations  map[uuid.UUID]*domain.Association
	notifications []domain.Notification
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:        make(map[uuid.UUID]*domain.User),
		applications: make(map[uuid.UUID]*domain.LoanApplication),
		loans:        make(map[uuid.UUID]*domain.Loan),
		notices:      make(map[string]bool),
		events:       make(map[uuid.UUID]*domain.Event),
		associations: make(map[uuid.UUID]*domain.Association),
	}
}

func noticeKey(loanID uuid.UUID, year, month int) string {
	return fmt.Sprintf("%s-%d-%d", loanID, year, month)
}

func (f *fakeRepository) CreateUser(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return uuid.Nil, store.ErrEmailTaken
		}
	}
	id := uuid.New()
	copied := *user
	copied.ID = id
	copied.CreatedAt = time.Now()
	f.users[id] = &copied
	return id, nil
}

func (f *fakeRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeRepository) UpdateUserRoleState(ctx context.Context, userID uuid.UUID, activeRole domain.Role, code *string, expiry *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.ActiveRole = activeRole
	if code != nil {
		user.VerificationCode = code
		user.VerificationExpiry = expiry
	}
	return nil
}

func (f *fakeRepository) AddUserPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Points += points
	return nil
}

func (f *fakeRepository) UpdateUserDonationTotals(ctx context.Context, userID uuid.UUID, totalDonations int64, badge *domain.DonorBadge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.TotalDonations = totalDonations
	user.DonorBadge = badge
	return nil
}

func (f *fakeRepository) ListAdminUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id, user := range f.users {
		for _, role := range user.EffectiveRoles() {
			if role.IsAdmin() {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeRepository) CreateLoanApplication(ctx context.Context, app *domain.LoanApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app.ID = uuid.New()
	app.Status = domain.ApplicationPending
	app.AppliedAt = time.Now()
	copied := *app
	f.applications[app.ID] = &copied
	return nil
}

func (f *fakeRepository) FindLoanApplicationByID(ctx context.Context, appID uuid.UUID) (*domain.LoanApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[appID]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeRepository) UpdateLoanApplicationStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[appID]
	if !ok {
		return store.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (f *fakeRepository) ListLoanApplicationsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var apps []domain.LoanApplication
	for _, app := range f.applications {
		if app.Status == status {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (f *fakeRepository) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	loan.ID = uuid.New()
	loan.AppliedAt = time.Now()
	copied := *loan
	f.loans[loan.ID] = &copied
	return nil
}

func (f *fakeRepository) FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loan, ok := f.loans[loanID]
	if !ok {
		return nil, store.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (f *fakeRepository) FindLoanByUserID(ctx context.Context, userID uuid.UUID) (*domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, loan := range f.loans {
		if loan.UserID == userID {
			copied := *loan
			return &copied, nil
		}
	}
	return nil, store.ErrLoanNotFound
}

func (f *fakeRepository) ListOpenLoans(ctx context.Context) ([]domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var loans []domain.Loan
	for _, loan := range f.loans {
		if loan.Status == domain.LoanApproved && loan.RemainingBalance > 0 {
			loans = append(loans, *loan)
		}
	}
	return loans, nil
}

func (f *fakeRepository) UpdateLoanPaymentState(ctx context.Context, loan *domain.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.loans[loan.ID]
	if !ok {
		return store.ErrLoanNotFound
	}
	stored.TotalPaid = loan.TotalPaid
	stored.RemainingBalance = loan.RemainingBalance
	stored.PaymentsMade = loan.PaymentsMade
	stored.Status = loan.Status
	stored.NextPaymentDate = loan.NextPaymentDate
	return nil
}

func (f *fakeRepository) RecordDeadlineNotice(ctx context.Context, loanID uuid.UUID, year int, month int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := noticeKey(loanID, year, month)
	if f.notices[key] {
		return false, nil
	}
	f.notices[key] = true
	return true, nil
}

func (f *fakeRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeRepository) FindEventByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return nil, store.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeRepository) ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []domain.Event
	for _, event := range f.events {
		if event.Status == status {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (f *fakeRepository) ListEventsByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []domain.Event
	for _, event := range f.events {
		if event.CreatedBy == userID {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (f *fakeRepository) UpdateEventReview(ctx context.Context, eventID uuid.UUID, status domain.EventStatus, rejectionComment *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return store.ErrEventNotFound
	}
	event.Status = status
	event.RejectionComment = rejectionComment
	return nil
}

func (f *fakeRepository) ReserveEventSeats(ctx context.Context, eventID uuid.UUID, attendees int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return store.ErrEventNotFound
	}
	if event.Booked+attendees > event.Capacity {
		return store.ErrEventFull
	}
	event.Booked += attendees
	return nil
}

func (f *fakeRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeRepository) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []domain.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (f *fakeRepository) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	donation.ID = uuid.New()
	donation.CreatedAt = time.Now()
	f.donations = append(f.donations, *donation)
	return nil
}

func (f *fakeRepository) FindAssociationByID(ctx context.Context, assocID uuid.UUID) (*domain.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assoc, ok := f.associations[assocID]
	if !ok {
		return nil, store.ErrAssociationNotFound
	}
	copied := *assoc
	return &copied, nil
}

func (f *fakeRepository) ListAssociations(ctx context.Context) ([]domain.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var assocs []domain.Association
	for _, assoc := range f.associations {
		assocs = append(assocs, *assoc)
	}
	return assocs, nil
}

func (f *fakeRepository) UpsertAssociation(ctx context.Context, assoc *domain.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *assoc
	f.associations[assoc.ID] = &copied
	return nil
}

func (f *fakeRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeRepository) ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (f *fakeRepository) MarkNotificationRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotificationNotFound
}

// notificationCount tallies a user's notifications, optionally filtered by a
// title substring.
func (f *fakeRepository) notificationCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

func newTestService(repo *fakeRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, nil, logger, "test-secret", time.Hour)
}
