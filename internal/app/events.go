/**
 * @description
 * Event drafting, review and ticket booking. Sub-editors draft events that
 * stay invisible to the public until the super-admin approves them. The public
 * approved-events listing is served through an optional cache that is
 * invalidated on every mutation, so clients see updates without re-polling the
 * store.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

// CreateEvent drafts a new event in pending state on behalf of a sub-editor.
func (s *Service) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if strings.TrimSpace(event.Title) == "" || event.Capacity <= 0 {
		return nil, fmt.Errorf("%w: title and a positive capacity", ErrMissingField)
	}
	event.Status = domain.EventPending
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// EventsByCreator lists the events a sub-editor has drafted.
func (s *Service) EventsByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	return s.repo.ListEventsByCreator(ctx, userID)
}

// PendingEvents lists events awaiting super-admin review.
func (s *Service) PendingEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEventsByStatus(ctx, domain.EventPending)
}

// ApprovedEvents lists publicly visible events, serving from the cache when
// one is attached and warm.
func (s *Service) ApprovedEvents(ctx context.Context) ([]domain.Event, error) {
	if s.eventCache != nil {
		if payload, ok := s.eventCache.GetApprovedEvents(ctx); ok {
			var events []domain.Event
			if err := json.Unmarshal(payload, &events); err == nil {
				return events, nil
			}
			s.logger.Warn("approved-events cache payload unreadable; falling back to store")
		}
	}

	events, err := s.repo.ListEventsByStatus(ctx, domain.EventApproved)
	if err != nil {
		return nil, err
	}
	if s.eventCache != nil {
		if payload, err := json.Marshal(events); err == nil {
			s.eventCache.SetApprovedEvents(ctx, payload)
		}
	}
	return events, nil
}

// ReviewEvent records the super-admin's decision. A rejection carries a
// comment shown to the drafting sub-editor.
func (s *Service) ReviewEvent(ctx context.Context, eventID uuid.UUID, approve bool, rejectionComment string) error {
	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	status := domain.EventApproved
	var comment *string
	title := "Event Approved"
	message := fmt.Sprintf("Your event %q has been approved and is now visible to the public.", event.Title)
	if !approve {
		status = domain.EventRejected
		if strings.TrimSpace(rejectionComment) != "" {
			comment = &rejectionComment
		}
		title = "Event Rejected"
		message = fmt.Sprintf("Your event %q was not approved. Reason: %s", event.Title, rejectionComment)
	}

	if err := s.repo.UpdateEventReview(ctx, eventID, status, comment); err != nil {
		return err
	}
	s.invalidateEventCache(ctx)

	if err := s.Notify(ctx, event.CreatedBy, title, message, domain.NotificationEvent); err != nil {
		s.logger.Warn("event review notification failed", "event_id", eventID, "error", err)
	}
	return nil
}

// BookEvent reserves seats on an approved event, records the booking and
// awards loyalty points on the ticket total.
func (s *Service) BookEvent(ctx context.Context, userID, eventID uuid.UUID, attendees int) (*domain.Booking, error) {
	if attendees <= 0 {
		return nil, ErrInvalidAttendees
	}
	event, err := s.repo.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventApproved {
		return nil, ErrEventNotOpen
	}

	if err := s.repo.ReserveEventSeats(ctx, eventID, attendees); err != nil {
		return nil, err
	}
	s.invalidateEventCache(ctx)

	booking := &domain.Booking{
		EventID:    eventID,
		UserID:     userID,
		Attendees:  attendees,
		TotalPrice: event.Price * int64(attendees),
		QRCode:     newBookingQRCode(),
		Status:     "active",
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if points := pointsForAmount(booking.TotalPrice); points > 0 {
		if err := s.repo.AddUserPoints(ctx, userID, points); err != nil {
			s.logger.Warn("loyalty point award failed", "user_id", userID, "points", points, "error", err)
		}
	}

	if err := s.Notify(ctx, userID,
		"Booking Confirmed",
		fmt.Sprintf("Your booking for %q (%d attendee(s)) is confirmed. Pass code: %s",
			event.Title, attendees, booking.QRCode),
		domain.NotificationEvent,
	); err != nil {
		s.logger.Warn("booking notification failed", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

// Bookings returns a member's bookings, newest first.
func (s *Service) Bookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.repo.ListBookingsByUser(ctx, userID)
}

func (s *Service) invalidateEventCache(ctx context.Context) {
	if s.eventCache != nil {
		s.eventCache.Invalidate(ctx)
	}
}

// newBookingQRCode builds the pass code printed on a member's ticket.
func newBookingQRCode() string {
	return "HNHG-EVT-" + strings.ToUpper(uuid.NewString()[:8])
}
