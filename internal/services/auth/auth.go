// Package services contains the business logic for registration, login and
// bearer-token validation.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhire/job-board/internal/lib/jwt"
	"github.com/devhire/job-board/internal/lib/password"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
)

var (
	// ErrInvalidCredentials covers a wrong email or password. The two are
	// deliberately indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserDeactivated means the account exists but is soft-deleted.
	ErrUserDeactivated = errors.New("user is deactivated")
)

// UserRepository is the persistence contract the auth flow needs.
type UserRepository interface {
	// RegisterUser stores a new user and returns the generated uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail returns a user by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID returns a user by uid.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// UpdateLastLogin refreshes the last login timestamp.
	UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error
}

// AuthService handles registration, login and token validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register hashes the password, stores the user and issues a token. A
// hashing failure aborts the registration; nothing is written.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, role string) (string, *models.User, error) {
	const op = "auth.Register"

	if role == "" {
		role = models.RoleJobSeeker
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Email, created.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, created, nil
}

// Login verifies credentials and issues a token. The last-login refresh is
// best effort: its failure is logged but never fails the login.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%s: %w", op, ErrUserDeactivated)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.UID, now); err != nil {
		s.log.Warn("failed to update last login", slog.String("user_uid", user.UID), sl.Err(err))
	} else {
		user.LastLogin = &now
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken parses the token and re-checks the referenced user against
// the store. The live check runs on every request so deactivation takes
// effect immediately, even for unexpired tokens.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, jwt.ErrInvalidToken)
	}

	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, ErrUserDeactivated)
	}
	return user, nil
}
