/**
 * @description
 * HTTP handlers for events and ticket bookings: the public approved listing,
 * the sub-editor drafting surface, the super-admin review queue, and member
 * bookings.
 */

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
)

type createEventRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	Time          string     `json:"time"`
	Venue         string     `json:"venue"`
	Price         int64      `json:"price"` // per attendee, in sen
	Capacity      int        `json:"capacity"`
	AssociationID *uuid.UUID `json:"association_id,omitempty"`
}

// CreateEventHandler drafts a new event for super-admin review.
func (h *PortalHandlers) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	event, err := h.service.CreateEvent(r.Context(), &domain.Event{
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Time:          req.Time,
		Venue:         req.Venue,
		Price:         req.Price,
		Capacity:      req.Capacity,
		CreatedBy:     userID,
		AssociationID: req.AssociationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// MyEventsHandler lists the events drafted by the authenticated sub-editor.
func (h *PortalHandlers) MyEventsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	events, err := h.service.EventsByCreator(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ApprovedEventsHandler lists events visible to the public.
func (h *PortalHandlers) ApprovedEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ApprovedEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// PendingEventsHandler lists events awaiting super-admin review.
func (h *PortalHandlers) PendingEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.PendingEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type reviewEventRequest struct {
	Approve          bool   `json:"approve"`
	RejectionComment string `json:"rejection_comment,omitempty"`
}

// ReviewEventHandler records the super-admin's approve/reject decision.
func (h *PortalHandlers) ReviewEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}
	var req reviewEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.ReviewEvent(r.Context(), eventID, req.Approve, req.RejectionComment); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bookEventRequest struct {
	Attendees int `json:"attendees"`
}

// BookEventHandler books tickets on an approved event.
func (h *PortalHandlers) BookEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}
	var req bookEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	booking, err := h.service.BookEvent(r.Context(), userID, eventID, req.Attendees)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// MyBookingsHandler lists the member's bookings for pass rendering.
func (h *PortalHandlers) MyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	bookings, err := h.service.Bookings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}
