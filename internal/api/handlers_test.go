package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/domain"
	"github.com/myhainan/member-portal/internal/store"
)

// stubRepository embeds the repository interface so each test overrides only
// the calls its route exercises.
type stubRepository struct {
	store.Repository

	users         map[uuid.UUID]*domain.User
	usersByEmail  map[string]*domain.User
	notifications []domain.Notification
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		users:        make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]*domain.User),
	}
}

func (s *stubRepository) CreateUser(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	if _, exists := s.usersByEmail[user.Email]; exists {
		return uuid.Nil, store.ErrEmailTaken
	}
	id := uuid.New()
	copied := *user
	copied.ID = id
	s.users[id] = &copied
	s.usersByEmail[user.Email] = &copied
	return id, nil
}

func (s *stubRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *stubRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *stubRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.New()
	s.notifications = append(s.notifications, *n)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubRepository) {
	t.Helper()
	repo := newStubRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewService(repo, nil, logger, "test-secret", time.Hour)
	handlers := NewPortalHandlers(service)
	server := httptest.NewServer(PortalRoutes(handlers, service))
	t.Cleanup(server.Close)
	return server, repo
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func getWithToken(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", app.ErrInvalidAmount, http.StatusBadRequest},
		{"missing field", app.ErrMissingField, http.StatusBadRequest},
		{"verification code required", app.ErrVerificationCodeRequired, http.StatusBadRequest},
		{"invalid credentials", app.ErrInvalidCredentials, http.StatusUnauthorized},
		{"role not held", app.ErrRoleNotHeld, http.StatusForbidden},
		{"loan not found", store.ErrLoanNotFound, http.StatusNotFound},
		{"email taken", store.ErrEmailTaken, http.StatusConflict},
		{"event full", store.ErrEventFull, http.StatusConflict},
		{"loan already completed", app.ErrLoanAlreadyCompleted, http.StatusConflict},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSignUpSignInMeRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/signup", "", map[string]interface{}{
		"email":    "member@example.com",
		"password": "secret123",
		"name":     "Member",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from signup, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/auth/signin", "", map[string]string{
		"email":    "member@example.com",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from signin, got %d", resp.StatusCode)
	}
	var session struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	resp.Body.Close()
	if session.Token == "" {
		t.Fatal("expected a session token")
	}

	resp = getWithToken(t, server.URL+"/me", session.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", resp.StatusCode)
	}
	var me domain.User
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	resp.Body.Close()
	if me.Email != "member@example.com" {
		t.Fatalf("expected own profile, got %q", me.Email)
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/signup", "", map[string]string{
		"email":    "member@example.com",
		"password": "secret123",
		"name":     "Member",
	})
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/auth/signin", "", map[string]string{
		"email":    "member@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getWithToken(t, server.URL+"/me", tt.token)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestAdminRoutesGateOnActiveRole(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/signup", "", map[string]string{
		"email":    "public@example.com",
		"password": "secret123",
		"name":     "Public Member",
	})
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/auth/signin", "", map[string]string{
		"email":    "public@example.com",
		"password": "secret123",
	})
	var session struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	resp.Body.Close()

	// A public member may not reach the loan-review surface.
	resp = getWithToken(t, server.URL+"/loans/applications", session.Token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for public member on admin route, got %d", resp.StatusCode)
	}
}
