// Package memory implements an ephemeral in-process store with the same
// contract as the PostgreSQL repository. It is selected at startup when the
// database health probe fails so the API can degrade gracefully instead of
// refusing to serve. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

// Store keeps users and jobs in mutex-guarded maps.
type Store struct {
	mu    sync.RWMutex
	users map[string]*models.User
	jobs  map[string]*models.Job
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users: make(map[string]*models.User),
		jobs:  make(map[string]*models.Job),
	}
}

// RegisterUser stores a new user and returns the generated uid.
func (s *Store) RegisterUser(_ context.Context, user models.User) (string, error) {
	const op = "memory.RegisterUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == email {
			return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
	}
	now := time.Now().UTC()
	user.UID = uuid.New().String()
	user.Email = email
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := user
	s.users[user.UID] = &copied
	return user.UID, nil
}

// GetUserByEmail returns a user by email, case-insensitively.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	const op = "memory.GetUserByEmail"
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByUID returns a user by uid.
func (s *Store) GetUserByUID(_ context.Context, userUID string) (*models.User, error) {
	const op = "memory.GetUserByUID"
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userUID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

// UpdateLastLogin refreshes the last login timestamp.
func (s *Store) UpdateLastLogin(_ context.Context, userUID string, at time.Time) error {
	const op = "memory.UpdateLastLogin"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.LastLogin = &at
	return nil
}

// UpdateUserProfile overwrites the name, profile and company of a user.
func (s *Store) UpdateUserProfile(_ context.Context, userUID, name string, profile models.Profile, company models.Company) error {
	const op = "memory.UpdateUserProfile"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.Name = name
	u.Profile = profile
	u.Company = company
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(_ context.Context, userUID, passwordHash string) error {
	const op = "memory.UpdateUserPassword"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// DeactivateUser soft-deletes an account.
func (s *Store) DeactivateUser(_ context.Context, userUID string) error {
	const op = "memory.DeactivateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateJob stores a new posting and returns the generated uid.
func (s *Store) CreateJob(_ context.Context, job models.Job) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	job.UID = uuid.New().String()
	job.IsActive = true
	job.CreatedAt = now
	job.UpdatedAt = now
	copied := job
	s.jobs[job.UID] = &copied
	return job.UID, nil
}

// GetJob returns a posting by uid regardless of its active flag.
func (s *Store) GetJob(_ context.Context, jobUID string) (*models.Job, error) {
	const op = "memory.GetJob"
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobUID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	copied := *j
	return &copied, nil
}

// UpdateJob overwrites every mutable field of a posting.
func (s *Store) UpdateJob(_ context.Context, job models.Job) error {
	const op = "memory.UpdateJob"
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[job.UID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	job.IsActive = existing.IsActive
	job.CreatedBy = existing.CreatedBy
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = time.Now().UTC()
	copied := job
	s.jobs[job.UID] = &copied
	return nil
}

// DeactivateJob soft-deletes a posting; repeating the call is a no-op.
func (s *Store) DeactivateJob(_ context.Context, jobUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[jobUID]; ok {
		j.IsActive = false
		j.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// ListJobs applies the filter set to the active postings and returns one
// page plus the total match count.
func (s *Store) ListJobs(_ context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Job
	for _, j := range s.jobs {
		if matchesFilter(j, filter) {
			copied := *j
			matched = append(matched, &copied)
		}
	}

	sortJobs(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// ListJobsByOwner returns the active postings created by the given user,
// newest first.
func (s *Store) ListJobsByOwner(_ context.Context, ownerUID string) ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Job
	for _, j := range s.jobs {
		if j.IsActive && j.CreatedBy == ownerUID {
			copied := *j
			result = append(result, &copied)
		}
	}
	sortJobs(result, "createdAt", "desc")
	return result, nil
}

// DeactivateExpiredJobs flips is_active on every active posting past its
// deadline and returns the owner contact info for each one.
func (s *Store) DeactivateExpiredJobs(_ context.Context, now time.Time) ([]models.ExpiredJobInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var swept []models.ExpiredJobInfo
	for _, j := range s.jobs {
		if !j.IsActive || !j.Expired(now) {
			continue
		}
		j.IsActive = false
		j.UpdatedAt = time.Now().UTC()
		info := models.ExpiredJobInfo{
			JobUID:   j.UID,
			Title:    j.Title,
			Company:  j.Company,
			Deadline: j.Deadline,
		}
		if owner, ok := s.users[j.CreatedBy]; ok {
			info.OwnerEmail = owner.Email
			info.OwnerName = owner.Name
		}
		swept = append(swept, info)
	}
	return swept, nil
}

func matchesFilter(j *models.Job, f models.JobFilter) bool {
	if !j.IsActive {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), needle) &&
			!strings.Contains(strings.ToLower(j.Company), needle) &&
			!strings.Contains(strings.ToLower(j.Description), needle) {
			return false
		}
	}
	if f.Location != "" && j.Location != f.Location {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(j.City), strings.ToLower(f.City)) {
		return false
	}
	if f.Type != "" && j.Type != f.Type {
		return false
	}
	if f.MinSalary != "" && !salaryPrefixMatch(j.Salary, f.MinSalary) {
		return false
	}
	return true
}

// salaryPrefixMatch mirrors the lexical "^[X-9]" comparison of the durable
// store: the leading digit of the salary string must be at least the
// leading digit of minSalary. Not a numeric comparison.
func salaryPrefixMatch(salary, minSalary string) bool {
	if salary == "" {
		return false
	}
	minDigit := rune(minSalary[0])
	if !unicode.IsDigit(minDigit) {
		return true
	}
	first := rune(salary[0])
	return unicode.IsDigit(first) && first >= minDigit
}

// sortJobs orders the slice the way the durable store does: the requested
// column first, then created_at descending and uid as tiebreakers. The
// tiebreakers keep page boundaries stable across calls when sort keys
// collide; without them ties surface in map-iteration order.
func sortJobs(jobs []*models.Job, sortBy, sortOrder string) {
	primary := func(a, b *models.Job) int {
		switch sortBy {
		case "title":
			return strings.Compare(a.Title, b.Title)
		case "company":
			return strings.Compare(a.Company, b.Company)
		case "salary":
			return strings.Compare(a.Salary, b.Salary)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.Slice(jobs, func(i, k int) bool {
		a, b := jobs[i], jobs[k]
		if c := primary(a, b); c != 0 {
			if sortOrder == "asc" {
				return c < 0
			}
			return c > 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.UID < b.UID
	})
}
