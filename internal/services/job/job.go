// Package services contains the business logic for job postings: lifecycle
// operations, the listing filter engine and read caching.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

var (
	// ErrForbidden means the caller is authenticated but does not own the
	// posting.
	ErrForbidden = errors.New("not the owner of this job")
	// ErrDeadlineFormat means the deadline string is not a valid RFC 3339
	// timestamp.
	ErrDeadlineFormat = errors.New("invalid deadline date format")
	// ErrDeadlinePast means the deadline is not strictly in the future.
	ErrDeadlinePast = errors.New("application deadline must be in the future")
)

const cacheTTL = time.Hour

// JobRepository is the persistence contract for postings.
type JobRepository interface {
	// CreateJob stores a new posting and returns the generated uid.
	CreateJob(ctx context.Context, job models.Job) (string, error)
	// GetJob returns a posting regardless of its active flag.
	GetJob(ctx context.Context, jobUID string) (*models.Job, error)
	// UpdateJob overwrites every mutable field of a posting.
	UpdateJob(ctx context.Context, job models.Job) error
	// DeactivateJob soft-deletes a posting.
	DeactivateJob(ctx context.Context, jobUID string) error
	// ListJobs returns one page of active postings and the total count.
	ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error)
}

// Cache stores single postings between reads.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Sweeper deactivates expired postings.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// JobService implements the posting lifecycle and the filter engine.
type JobService struct {
	repo    JobRepository
	cache   Cache
	sweeper Sweeper
	log     *slog.Logger
}

// NewJobService creates a new JobService.
func NewJobService(repo JobRepository, cache Cache, sweeper Sweeper, log *slog.Logger) *JobService {
	return &JobService{
		repo:    repo,
		cache:   cache,
		sweeper: sweeper,
		log:     log,
	}
}

// Create validates the deadline, persists the posting with the caller as
// owner and caches it.
func (s *JobService) Create(ctx context.Context, ownerUID string, req models.DummyJob) (*models.Job, error) {
	const op = "job.Create"

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	job := models.Job{
		Title:         req.Title,
		Company:       req.Company,
		Location:      req.Location,
		City:          req.City,
		Type:          req.Type,
		Experience:    req.Experience,
		Salary:        req.Salary,
		MonthlySalary: req.MonthlySalary,
		Description:   req.Description,
		Deadline:      deadline,
		CreatedBy:     ownerUID,
	}

	uid, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.GetJob(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new job", slog.String("job_uid", uid))
	s.cacheSet(created)
	return created, nil
}

// Read returns an active posting by uid, using the cache when possible.
// An inactive posting reads as not found.
func (s *JobService) Read(ctx context.Context, jobUID string) (*models.Job, error) {
	const op = "job.Read"

	cacheKey := jobCacheKey(jobUID)
	var cached *models.Job
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && cached != nil && cached.IsActive {
		return cached, nil
	}

	job, err := s.repo.GetJob(ctx, jobUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !job.IsActive {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	s.cacheSet(job)
	return job, nil
}

// Update overwrites a posting after re-running the create validations.
// Only the owner may update.
func (s *JobService) Update(ctx context.Context, jobUID, callerUID string, req models.DummyJob) (*models.Job, error) {
	const op = "job.Update"

	existing, err := s.repo.GetJob(ctx, jobUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing.CreatedBy != callerUID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	job := *existing
	job.Title = req.Title
	job.Company = req.Company
	job.Location = req.Location
	job.City = req.City
	job.Type = req.Type
	job.Experience = req.Experience
	job.Salary = req.Salary
	job.MonthlySalary = req.MonthlySalary
	job.Description = req.Description
	job.Deadline = deadline

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated job", slog.String("job_uid", jobUID))

	updated, err := s.repo.GetJob(ctx, jobUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.cacheSet(updated)
	return updated, nil
}

// Remove soft-deletes a posting. Only the owner may delete; deleting an
// already inactive posting succeeds silently.
func (s *JobService) Remove(ctx context.Context, jobUID, callerUID string) error {
	const op = "job.Remove"

	existing, err := s.repo.GetJob(ctx, jobUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if existing.CreatedBy != callerUID {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	cacheKey := jobCacheKey(jobUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if err := s.repo.DeactivateJob(ctx, jobUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List runs the filter query and returns one page with its pagination
// metadata. Every call opportunistically triggers an asynchronous sweep of
// expired postings; sweep failures never affect the response.
func (s *JobService) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, models.Pagination, error) {
	const op = "job.List"

	jobs, total, err := s.repo.ListJobs(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.sweeper.Sweep(sweepCtx); err != nil {
			s.log.Error("background sweep failed", sl.Err(err))
		}
	}()

	return jobs, models.NewPagination(filter, total), nil
}

func (s *JobService) cacheSet(job *models.Job) {
	cacheKey := jobCacheKey(job.UID)
	if err := s.cache.Set(cacheKey, job, cacheTTL); err != nil {
		s.log.Warn("failed to cache job", slog.String("key", cacheKey), sl.Err(err))
	}
}

func jobCacheKey(jobUID string) string {
	return fmt.Sprintf("job:%s", jobUID)
}

// parseDeadline parses an optional RFC 3339 deadline and requires it to be
// strictly in the future.
func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, ErrDeadlineFormat
	}
	if !deadline.After(time.Now()) {
		return nil, ErrDeadlinePast
	}
	return &deadline, nil
}
