/**
 * @description
 * This file sets up the HTTP router for the member-portal. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies
 * the session and role-gating middleware.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/domain"
)

// PortalRoutes creates and returns the router for the member-portal API.
func PortalRoutes(h *PortalHandlers, service *app.Service) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Public routes.
	r.Post("/auth/signup", h.SignUpHandler)
	r.Post("/auth/signin", h.SignInHandler)
	r.Get("/events", h.ApprovedEventsHandler)

	// Routes for any authenticated member.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(service))

		r.Get("/me", h.MeHandler)
		r.Post("/me/role", h.SwitchRoleHandler)

		r.Get("/notifications", h.ListNotificationsHandler)
		r.Put("/notifications/{id}/read", h.MarkNotificationReadHandler)

		r.Post("/loans/applications", h.ApplyForLoanHandler)
		r.Get("/loans/mine", h.MyLoanHandler)
		r.Post("/loans/{id}/payments", h.PayLoanHandler)

		r.Post("/events/{id}/bookings", h.BookEventHandler)
		r.Get("/bookings", h.MyBookingsHandler)

		r.Post("/donations", h.DonateHandler)
	})

	// Sub-editor drafting surface.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(service))
		r.Use(RequireActiveRole(service, domain.RoleSubEditor, domain.RoleSuperAdmin))

		r.Post("/events", h.CreateEventHandler)
		r.Get("/events/mine", h.MyEventsHandler)
	})

	// Admin surface: loan review and the deadline sweep triggers.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(service))
		r.Use(RequireActiveRole(service, domain.RoleSubAdmin, domain.RoleSuperAdmin))

		r.Get("/loans/applications", h.PendingLoanApplicationsHandler)
		r.Post("/loans/applications/{id}/accept", h.AcceptLoanApplicationHandler)
		r.Post("/loans/applications/{id}/reject", h.RejectLoanApplicationHandler)
		r.Post("/loans/deadline-sweep", h.RunDeadlineSweepHandler)
		r.Post("/loans/deadline-sweep/simulate", h.SimulateDeadlineSweepHandler)
	})

	// Sub-admin roster management.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(service))
		r.Use(RequireActiveRole(service, domain.RoleSubAdmin, domain.RoleSuperAdmin))

		r.Put("/associations/{id}/committee", h.SaveCommitteeRosterHandler)
	})

	// Super-admin review and export surface.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(service))
		r.Use(RequireActiveRole(service, domain.RoleSuperAdmin))

		r.Get("/events/pending", h.PendingEventsHandler)
		r.Post("/events/{id}/review", h.ReviewEventHandler)

		r.Get("/associations", h.ListAssociationsHandler)
		r.Get("/associations/{id}/committee/export", h.ExportCommitteeHandler)
		r.Get("/associations/export", h.ExportConsolidatedHandler)
	})

	return r
}
