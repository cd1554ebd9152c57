/**
 * @description
 * JSON response helpers and the mapping from app/store sentinel errors to HTTP
 * status codes. Every failure is surfaced synchronously as a described JSON
 * body; nothing is retried.
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	// validation
	case errors.Is(err, app.ErrInvalidAmount),
		errors.Is(err, app.ErrMissingField),
		errors.Is(err, app.ErrInvalidAttendees),
		errors.Is(err, app.ErrInvalidVerificationCode),
		errors.Is(err, app.ErrVerificationCodeRequired):
		return http.StatusBadRequest
	// authorization
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrRoleNotHeld):
		return http.StatusForbidden
	// not found
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrLoanNotFound),
		errors.Is(err, store.ErrApplicationNotFound),
		errors.Is(err, store.ErrEventNotFound),
		errors.Is(err, store.ErrAssociationNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		return http.StatusNotFound
	// conflicts
	case errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrEventFull),
		errors.Is(err, app.ErrApplicationReviewed),
		errors.Is(err, app.ErrLoanAlreadyCompleted),
		errors.Is(err, app.ErrEventNotOpen):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
