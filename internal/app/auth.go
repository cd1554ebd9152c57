/**
 * @description
 * Member registration and sign-in. Passwords are stored as bcrypt hashes and
 * sessions are stateless HS256 JWTs carrying the user id as subject.
 */

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/myhainan/member-portal/internal/domain"
	"github.com/myhainan/member-portal/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// SignUp registers a new member. The role set always includes `public`; the
// requested role becomes the active one.
func (s *Service) SignUp(ctx context.Context, email, password, name string, role domain.Role, associationID *uuid.UUID) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: email, password and name", ErrMissingField)
	}
	if role == "" {
		role = domain.RolePublic
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := []domain.Role{role}
	if role != domain.RolePublic {
		roles = append(roles, domain.RolePublic)
	}

	user := &domain.User{
		Email:         email,
		Name:          strings.TrimSpace(name),
		PasswordHash:  string(hash),
		Roles:         roles,
		ActiveRole:    role,
		AssociationID: associationID,
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.Notify(ctx, id,
		"Welcome to the Community Portal!",
		"Thank you for joining our community. Explore events and start earning points!",
		domain.NotificationSystem,
	); err != nil {
		s.logger.Warn("welcome notification failed", "user_id", id, "error", err)
	}
	return user, nil
}

// SignIn verifies credentials and returns the user with a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if err == store.ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return user, token, nil
}

// User fetches a member by id.
func (s *Service) User(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

func (s *Service) issueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a session token and returns the user id it carries.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	return uuid.Parse(claims.Subject)
}
