// Package services contains the business logic for profile management.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhire/job-board/internal/lib/password"
	"github.com/devhire/job-board/internal/models"
)

// ErrWrongPassword means the supplied current password did not match.
var ErrWrongPassword = errors.New("current password is incorrect")

// UserRepository is the persistence contract for profile operations.
type UserRepository interface {
	// GetUserByUID returns a user by uid.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserProfile overwrites the name, profile and company of a user.
	UpdateUserProfile(ctx context.Context, userUID, name string, profile models.Profile, company models.Company) error
	// UpdateUserPassword replaces the stored password hash.
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
	// DeactivateUser soft-deletes an account.
	DeactivateUser(ctx context.Context, userUID string) error
}

// JobRepository gives access to the postings owned by a user.
type JobRepository interface {
	ListJobsByOwner(ctx context.Context, ownerUID string) ([]*models.Job, error)
}

// UserService handles profile reads and mutations for the calling user.
type UserService struct {
	users UserRepository
	jobs  JobRepository
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, jobs JobRepository) *UserService {
	return &UserService{
		users: users,
		jobs:  jobs,
	}
}

// Profile returns the user together with their posted jobs.
func (s *UserService) Profile(ctx context.Context, userUID string) (*models.User, []*models.Job, error) {
	const op = "user.Profile"

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	posted, err := s.jobs.ListJobsByOwner(ctx, userUID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, posted, nil
}

// UpdateProfile applies a partial update of name, profile and company.
// Keys absent from the request keep their current value.
func (s *UserService) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "user.UpdateProfile"

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Profile != nil {
		user.Profile = *upd.Profile
	}
	if upd.Company != nil {
		user.Company = *upd.Company
	}

	if err := s.users.UpdateUserProfile(ctx, userUID, user.Name, user.Profile, user.Company); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a fresh hash of
// the new one. The hash is recomputed only here, never on other updates.
func (s *UserService) ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error {
	const op = "user.ChangePassword"

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, userUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Deactivate soft-deletes the caller's own account. Every outstanding
// token for the account stops working immediately.
func (s *UserService) Deactivate(ctx context.Context, userUID string) error {
	const op = "user.Deactivate"

	if err := s.users.DeactivateUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
