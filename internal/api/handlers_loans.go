/**
 * @description
 * HTTP handlers for the loan surface: member applications and payments, plus
 * the admin review queue and the manual deadline-sweep triggers.
 */

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type loanApplicationRequest struct {
	Amount  int64  `json:"amount"` // in sen
	Purpose string `json:"purpose"`
}

// ApplyForLoanHandler files a loan application for the authenticated member.
func (h *PortalHandlers) ApplyForLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req loanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	application, err := h.service.ApplyForLoan(r.Context(), userID, req.Amount, req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, application)
}

// MyLoanHandler returns the member's current loan.
func (h *PortalHandlers) MyLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	loan, err := h.service.LoanForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

type loanPaymentRequest struct {
	Amount int64 `json:"amount"` // in sen
}

// PayLoanHandler applies a payment to the member's loan.
func (h *PortalHandlers) PayLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid loan id", http.StatusBadRequest)
		return
	}
	var req loanPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	loan, err := h.service.ApplyPayment(r.Context(), loanID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// PendingLoanApplicationsHandler lists applications awaiting review.
func (h *PortalHandlers) PendingLoanApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	applications, err := h.service.PendingLoanApplications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

type acceptApplicationRequest struct {
	MonthlyPayment int64 `json:"monthly_payment"` // in sen
}

// AcceptLoanApplicationHandler approves an application and creates the loan.
func (h *PortalHandlers) AcceptLoanApplicationHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid application id", http.StatusBadRequest)
		return
	}
	var req acceptApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	loan, err := h.service.AcceptLoanApplication(r.Context(), appID, req.MonthlyPayment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// RejectLoanApplicationHandler declines a pending application.
func (h *PortalHandlers) RejectLoanApplicationHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid application id", http.StatusBadRequest)
		return
	}
	if err := h.service.RejectLoanApplication(r.Context(), appID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunDeadlineSweepHandler triggers the overdue sweep immediately. The cron
// schedule runs the same sweep; this endpoint exists for operators.
func (h *PortalHandlers) RunDeadlineSweepHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RunDeadlineSweep(r.Context(), time.Now()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// SimulateDeadlineSweepHandler triggers the simulation variant, which notifies
// for every open loan without marking anything.
func (h *PortalHandlers) SimulateDeadlineSweepHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SimulateDeadlineSweep(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
