package app

import (
	"context"
	"errors"
	"testing"

	"github.com/myhainan/member-portal/internal/domain"
)

func TestSignUpAndSignIn(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()

	user, err := service.SignUp(ctx, "new@example.com", "secret123", "New Member", domain.RoleSubEditor, nil)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.ActiveRole != domain.RoleSubEditor {
		t.Fatalf("expected active role %q, got %q", domain.RoleSubEditor, user.ActiveRole)
	}
	if !user.HasRole(domain.RolePublic) {
		t.Fatal("expected role set to include public")
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password must not be stored in the clear")
	}
	if got := repo.notificationCount(user.ID); got != 1 {
		t.Fatalf("expected welcome notification, got %d", got)
	}

	signed, token, err := service.SignIn(ctx, "new@example.com", "secret123")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if signed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, signed.ID)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	parsedID, err := service.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if parsedID != user.ID {
		t.Fatalf("token carries wrong subject: expected %s, got %s", user.ID, parsedID)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.SignUp(ctx, "known@example.com", "correct-horse", "Known", domain.RolePublic, nil); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, err := service.SignIn(ctx, "known@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := service.SignIn(ctx, "unknown@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.SignUp(ctx, "", "pw", "Name", domain.RolePublic, nil); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for blank email, got %v", err)
	}
	if _, err := service.SignUp(ctx, "a@example.com", "", "Name", domain.RolePublic, nil); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for blank password, got %v", err)
	}
	if _, err := service.SignUp(ctx, "a@example.com", "pw", "   ", domain.RolePublic, nil); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for blank name, got %v", err)
	}
}

func TestParseTokenRejectsTamperedToken(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	user, err := service.SignUp(context.Background(), "t@example.com", "pw123456", "T", domain.RolePublic, nil)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	token, err := service.issueToken(user.ID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	other := newTestService(repo)
	other.jwtSecret = []byte("different-secret")
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
