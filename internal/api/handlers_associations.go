/**
 * @description
 * HTTP handlers for donations, committee-roster management and the
 * super-admin's Excel roster export.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
	"github.com/myhainan/member-portal/internal/export"
)

type donateRequest struct {
	Amount   int64  `json:"amount"` // in sen
	Campaign string `json:"campaign"`
}

// DonateHandler records a donation for the authenticated member.
func (h *PortalHandlers) DonateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	donation, err := h.service.Donate(r.Context(), userID, req.Amount, req.Campaign)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, donation)
}

type saveRosterRequest struct {
	Name      string                   `json:"name"`
	Location  string                   `json:"location"`
	Committee []domain.CommitteeMember `json:"committee"`
}

// SaveCommitteeRosterHandler creates or replaces an association's roster.
func (h *PortalHandlers) SaveCommitteeRosterHandler(w http.ResponseWriter, r *http.Request) {
	assocID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid association id", http.StatusBadRequest)
		return
	}
	var req saveRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	assoc, err := h.service.SaveCommitteeRoster(r.Context(), assocID, req.Name, req.Location, req.Committee)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assoc)
}

// ListAssociationsHandler lists all associations.
func (h *PortalHandlers) ListAssociationsHandler(w http.ResponseWriter, r *http.Request) {
	assocs, err := h.service.Associations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if assocs == nil {
		assocs = []domain.Association{}
	}
	writeJSON(w, http.StatusOK, assocs)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCommitteeHandler streams one association's roster workbook.
func (h *PortalHandlers) ExportCommitteeHandler(w http.ResponseWriter, r *http.Request) {
	assocID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid association id", http.StatusBadRequest)
		return
	}
	assoc, err := h.service.Association(r.Context(), assocID)
	if err != nil {
		writeError(w, err)
		return
	}
	workbook, err := export.CommitteeWorkbook(assoc)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.CommitteeFileName(assoc.Name))
	if err := workbook.Write(w); err != nil {
		http.Error(w, "Failed to write workbook", http.StatusInternalServerError)
	}
}

// ExportConsolidatedHandler streams the all-associations workbook.
func (h *PortalHandlers) ExportConsolidatedHandler(w http.ResponseWriter, r *http.Request) {
	assocs, err := h.service.Associations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	workbook, err := export.ConsolidatedWorkbook(assocs)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.ConsolidatedFileName)
	if err := workbook.Write(w); err != nil {
		http.Error(w, "Failed to write workbook", http.StatusInternalServerError)
	}
}
