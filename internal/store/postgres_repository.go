/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface
 * for users and notifications, plus the sentinel errors shared by the whole
 * store package. Loan, event, donation and association queries live in their
 * sibling files.
 *
 * @dependencies
 * - context, errors, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myhainan/member-portal/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrApplicationNotFound  = errors.New("loan application not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFull            = errors.New("event is fully booked")
	ErrAssociationNotFound  = errors.New("association not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, password_hash, roles, active_role, association_id,
	points, donor_badge, total_donations, verification_code, verification_expiry, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var roles []string
	var badge *string
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &roles, &user.ActiveRole,
		&user.AssociationID, &user.Points, &badge, &user.TotalDonations,
		&user.VerificationCode, &user.VerificationExpiry, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	for _, r := range roles {
		user.Roles = append(user.Roles, domain.Role(r))
	}
	if badge != nil {
		b := domain.DonorBadge(*badge)
		user.DonorBadge = &b
	}
	return &user, nil
}

// CreateUser inserts a new user record and returns its id.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role))
	}
	query := `
		INSERT INTO users (email, name, password_hash, roles, active_role, association_id)
		VALUES (lower(btrim($1)), $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		user.Email, user.Name, user.PasswordHash, roles, user.ActiveRole, user.AssociationID,
	).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == uniqueViolation {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, err
	}
	return id, nil
}

// FindUserByID retrieves a user from the database by their ID.
func (r *PostgresRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower(btrim($1))`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// UpdateUserRoleState persists the outcome of a role switch: the new active role
// and, when a fresh verification was issued, its code and expiry.
func (r *PostgresRepository) UpdateUserRoleState(ctx context.Context, userID uuid.UUID, activeRole domain.Role, code *string, expiry *time.Time) error {
	var tag pgconn.CommandTag
	var err error
	if code != nil {
		query := `UPDATE users SET active_role = $2, verification_code = $3, verification_expiry = $4 WHERE id = $1`
		tag, err = r.db.Exec(ctx, query, userID, activeRole, code, expiry)
	} else {
		query := `UPDATE users SET active_role = $2 WHERE id = $1`
		tag, err = r.db.Exec(ctx, query, userID, activeRole)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddUserPoints increments a user's loyalty point balance.
func (r *PostgresRepository) AddUserPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET points = points + $2 WHERE id = $1`, userID, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserDonationTotals stores the new cumulative donation amount and badge.
func (r *PostgresRepository) UpdateUserDonationTotals(ctx context.Context, userID uuid.UUID, totalDonations int64, badge *domain.DonorBadge) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET total_donations = $2, donor_badge = $3 WHERE id = $1`,
		userID, totalDonations, badge,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAdminUserIDs returns the ids of all users holding an admin-capable role.
func (r *PostgresRepository) ListAdminUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE roles && ARRAY['sub_admin','super_admin']::text[]`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateNotification appends a notification record for a user.
func (r *PostgresRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, read, created_at
	`
	return r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Message, n.Category).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
}

// ListNotificationsByUser returns a user's notifications, newest first.
func (r *PostgresRepository) ListNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, category, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flips the read flag on a notification owned by the user.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
