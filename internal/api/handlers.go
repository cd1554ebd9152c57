/**
 * @description
 * This file contains the HTTP handlers for authentication, role switching and
 * notifications. Handlers parse incoming requests, call the application
 * service, and write JSON responses; they are the bridge between the web layer
 * and the business logic layer.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app, internal/domain: For service logic and models.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/domain"
)

// PortalHandlers holds the application service that handlers will use.
type PortalHandlers struct {
	service *app.Service
}

// NewPortalHandlers creates the handler set for the portal API.
func NewPortalHandlers(service *app.Service) *PortalHandlers {
	return &PortalHandlers{service: service}
}

type signUpRequest struct {
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	Name          string      `json:"name"`
	Role          domain.Role `json:"role"`
	AssociationID *uuid.UUID  `json:"association_id,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SignUpHandler registers a new member.
func (h *PortalHandlers) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Role, req.AssociationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// SignInHandler verifies credentials and returns a session token.
func (h *PortalHandlers) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// MeHandler returns the authenticated member's profile.
func (h *PortalHandlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	user, err := h.service.User(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type switchRoleRequest struct {
	Role             domain.Role `json:"role"`
	VerificationCode string      `json:"verification_code,omitempty"`
}

// SwitchRoleHandler toggles the member's active role, collecting a
// verification code when the thirty-day window has lapsed.
func (h *PortalHandlers) SwitchRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req switchRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, err := h.service.SwitchRole(r.Context(), userID, req.Role, req.VerificationCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListNotificationsHandler returns the member's notifications, newest first.
func (h *PortalHandlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	notifications, err := h.service.Notifications(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationReadHandler flips the read flag on one notification.
func (h *PortalHandlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid notification id", http.StatusBadRequest)
		return
	}
	if err := h.service.MarkNotificationRead(r.Context(), notificationID, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
