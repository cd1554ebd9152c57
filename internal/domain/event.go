/**
 * @description
 * This file defines the event and booking models. Events are drafted by
 * sub-editors, go through a pending/approved/rejected review flow owned by the
 * super-admin, and only approved events are visible to the public for booking.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the review state of an event.
type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

// Event represents a community event. Maps to the `events` table.
type Event struct {
	ID               uuid.UUID   `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Date             time.Time   `json:"date"`
	Time             string      `json:"time"`
	Venue            string      `json:"venue"`
	Price            int64       `json:"price"` // per attendee, in sen
	Capacity         int         `json:"capacity"`
	Booked           int         `json:"booked"`
	Status           EventStatus `json:"status"`
	RejectionComment *string     `json:"rejection_comment,omitempty"`
	CreatedBy        uuid.UUID   `json:"created_by"`
	AssociationID    *uuid.UUID  `json:"association_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Booking is a member's ticket purchase for an event.
type Booking struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	UserID     uuid.UUID `json:"user_id"`
	Attendees  int       `json:"attendees"`
	TotalPrice int64     `json:"total_price"` // in sen
	QRCode     string    `json:"qr_code"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	// Denormalized event fields for pass rendering.
	EventTitle string    `json:"event_title,omitempty"`
	EventDate  time.Time `json:"event_date,omitempty"`
	EventTime  string    `json:"event_time,omitempty"`
	EventVenue string    `json:"event_venue,omitempty"`
}
