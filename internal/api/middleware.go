/**
 * @description
 * This file contains custom middleware for the HTTP router: bearer-token
 * session authentication and active-role gating for the admin surfaces.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - internal/app, internal/domain: Token parsing and role vocabulary.
 */

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware validates the Bearer session token and stores the user id in
// the request context.
func AuthMiddleware(service *app.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			userID, err := service.ParseToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActiveRole gates a route group on the caller's active role.
func RequireActiveRole(service *app.Service, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := userIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			user, err := service.User(r.Context(), userID)
			if err != nil {
				writeError(w, err)
				return
			}
			for _, role := range roles {
				if user.ActiveRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, app.ErrRoleNotHeld)
		})
	}
}

func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
