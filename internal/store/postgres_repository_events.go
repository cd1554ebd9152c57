/**
 * @description
 * PostgreSQL queries for events, bookings, donations and associations.
 *
 * @notes
 * - `ReserveEventSeats` guards capacity inside the UPDATE's WHERE clause so two
 *   concurrent bookings cannot oversell an event.
 * - Association committee rosters are stored as a jsonb column and marshalled
 *   through encoding/json; a NULL roster is read back as an empty slice.
 */

package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/myhainan/member-portal/internal/domain"
)

const eventColumns = `id, title, description, date, time, venue, price, capacity, booked,
	status, rejection_comment, created_by, association_id, created_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.Date, &event.Time, &event.Venue,
		&event.Price, &event.Capacity, &event.Booked, &event.Status, &event.RejectionComment,
		&event.CreatedBy, &event.AssociationID, &event.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *PostgresRepository) listEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// CreateEvent inserts a new event draft in pending state.
func (r *PostgresRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, time, venue, price, capacity, created_by, association_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, booked, created_at
	`
	return r.db.QueryRow(ctx, query,
		event.Title, event.Description, event.Date, event.Time, event.Venue,
		event.Price, event.Capacity, event.CreatedBy, event.AssociationID,
	).Scan(&event.ID, &event.Status, &event.Booked, &event.CreatedAt)
}

// FindEventByID retrieves an event by id.
func (r *PostgresRepository) FindEventByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRow(ctx, query, eventID))
}

// ListEventsByStatus returns events in the given review state, soonest first.
func (r *PostgresRepository) ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY date`
	return r.listEvents(ctx, query, status)
}

// ListEventsByCreator returns the events drafted by a user, newest first.
func (r *PostgresRepository) ListEventsByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY created_at DESC`
	return r.listEvents(ctx, query, userID)
}

// UpdateEventReview records the super-admin's approve/reject decision.
func (r *PostgresRepository) UpdateEventReview(ctx context.Context, eventID uuid.UUID, status domain.EventStatus, rejectionComment *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET status = $2, rejection_comment = $3 WHERE id = $1`,
		eventID, status, rejectionComment,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ReserveEventSeats increments the booked count if capacity allows.
func (r *PostgresRepository) ReserveEventSeats(ctx context.Context, eventID uuid.UUID, attendees int) error {
	query := `
		UPDATE events SET booked = booked + $2
		WHERE id = $1 AND status = 'approved' AND booked + $2 <= capacity
	`
	tag, err := r.db.Exec(ctx, query, eventID, attendees)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing event from a full one.
		if _, findErr := r.FindEventByID(ctx, eventID); findErr != nil {
			return findErr
		}
		return ErrEventFull
	}
	return nil
}

// CreateBooking inserts a ticket booking.
func (r *PostgresRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (event_id, user_id, attendees, total_price, qr_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		booking.EventID, booking.UserID, booking.Attendees, booking.TotalPrice,
		booking.QRCode, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)
}

// ListBookingsByUser returns a user's bookings joined with event details for
// pass rendering, newest booking first.
func (r *PostgresRepository) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	query := `
		SELECT b.id, b.event_id, b.user_id, b.attendees, b.total_price, b.qr_code, b.status,
			b.created_at, e.title, e.date, e.time, e.venue
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		err := rows.Scan(
			&b.ID, &b.EventID, &b.UserID, &b.Attendees, &b.TotalPrice, &b.QRCode, &b.Status,
			&b.CreatedAt, &b.EventTitle, &b.EventDate, &b.EventTime, &b.EventVenue,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CreateDonation inserts a donation record.
func (r *PostgresRepository) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (user_id, amount, campaign)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, donation.UserID, donation.Amount, donation.Campaign).
		Scan(&donation.ID, &donation.CreatedAt)
}

// FindAssociationByID retrieves an association and its committee roster.
func (r *PostgresRepository) FindAssociationByID(ctx context.Context, assocID uuid.UUID) (*domain.Association, error) {
	var assoc domain.Association
	var committee []byte
	query := `SELECT id, name, location, committee FROM associations WHERE id = $1`
	err := r.db.QueryRow(ctx, query, assocID).Scan(&assoc.ID, &assoc.Name, &assoc.Location, &committee)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAssociationNotFound
		}
		return nil, err
	}
	if len(committee) > 0 {
		if err := json.Unmarshal(committee, &assoc.Committee); err != nil {
			return nil, err
		}
	}
	return &assoc, nil
}

// ListAssociations returns all associations, name order.
func (r *PostgresRepository) ListAssociations(ctx context.Context) ([]domain.Association, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location, committee FROM associations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []domain.Association
	for rows.Next() {
		var assoc domain.Association
		var committee []byte
		if err := rows.Scan(&assoc.ID, &assoc.Name, &assoc.Location, &committee); err != nil {
			return nil, err
		}
		if len(committee) > 0 {
			if err := json.Unmarshal(committee, &assoc.Committee); err != nil {
				return nil, err
			}
		}
		assocs = append(assocs, assoc)
	}
	return assocs, rows.Err()
}

// UpsertAssociation creates or replaces an association record, including its
// committee roster.
func (r *PostgresRepository) UpsertAssociation(ctx context.Context, assoc *domain.Association) error {
	committee, err := json.Marshal(assoc.Committee)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO associations (id, name, location, committee)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $2, location = $3, committee = $4
	`
	_, err = r.db.Exec(ctx, query, assoc.ID, assoc.Name, assoc.Location, committee)
	return err
}
