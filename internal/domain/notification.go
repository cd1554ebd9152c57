/**
 * @description
 * This file defines the notification model. Notifications are appended by any
 * component through the notifier and are immutable except for the read flag.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationCategory classifies a notification for the client's panel.
type NotificationCategory string

const (
	NotificationEvent    NotificationCategory = "event"
	NotificationDonation NotificationCategory = "donation"
	NotificationLoan     NotificationCategory = "loan"
	NotificationSystem   NotificationCategory = "system"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
}
