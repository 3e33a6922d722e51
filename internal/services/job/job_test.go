package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

// fakeRepo is a minimal in-test JobRepository.
type fakeRepo struct {
	jobs map[string]*models.Job
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: map[string]*models.Job{}}
}

func (r *fakeRepo) CreateJob(_ context.Context, job models.Job) (string, error) {
	job.UID = "job-1"
	job.IsActive = true
	job.CreatedAt = time.Now().UTC()
	r.jobs[job.UID] = &job
	return job.UID, nil
}

func (r *fakeRepo) GetJob(_ context.Context, jobUID string) (*models.Job, error) {
	j, ok := r.jobs[jobUID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *j
	return &copied, nil
}

func (r *fakeRepo) UpdateJob(_ context.Context, job models.Job) error {
	existing, ok := r.jobs[job.UID]
	if !ok {
		return storage.ErrNotFound
	}
	job.CreatedBy = existing.CreatedBy
	job.IsActive = existing.IsActive
	r.jobs[job.UID] = &job
	return nil
}

func (r *fakeRepo) DeactivateJob(_ context.Context, jobUID string) error {
	if j, ok := r.jobs[jobUID]; ok {
		j.IsActive = false
	}
	return nil
}

func (r *fakeRepo) ListJobs(_ context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	var out []*models.Job
	for _, j := range r.jobs {
		if j.IsActive {
			copied := *j
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

// fakeSweeper records whether a sweep was requested.
type fakeSweeper struct {
	called chan struct{}
}

func (s *fakeSweeper) Sweep(context.Context) (int, error) {
	select {
	case s.called <- struct{}{}:
	default:
	}
	return 0, nil
}

// countingCache records sets and invalidations.
type countingCache struct {
	sets        int
	invalidated []string
}

func (c *countingCache) Get(string, any) (bool, error) { return false, nil }
func (c *countingCache) Set(string, any, time.Duration) error {
	c.sets++
	return nil
}
func (c *countingCache) Invalidate(key string) error {
	c.invalidated = append(c.invalidated, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validRequest() models.DummyJob {
	return models.DummyJob{
		Title:         "Go Developer",
		Company:       "Acme",
		Location:      "Remote",
		City:          "Berlin",
		Type:          "Full-time",
		Experience:    "2+ years",
		Salary:        "90000",
		MonthlySalary: "7500",
		Description:   "Build backend services.",
	}
}

func TestCreate_RejectsPastDeadline(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo, &countingCache{}, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	req := validRequest()
	req.Deadline = time.Now().Add(-24 * time.Hour).Format(time.RFC3339)

	_, err := svc.Create(context.Background(), "owner-1", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeadlinePast)
	assert.Empty(t, repo.jobs, "nothing must be persisted on validation failure")
}

func TestCreate_RejectsMalformedDeadline(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo, &countingCache{}, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	req := validRequest()
	req.Deadline = "next friday"

	_, err := svc.Create(context.Background(), "owner-1", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeadlineFormat)
}

func TestCreate_PersistsAndCaches(t *testing.T) {
	repo := newFakeRepo()
	cache := &countingCache{}
	svc := NewJobService(repo, cache, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	job, err := svc.Create(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "owner-1", job.CreatedBy)
	assert.True(t, job.IsActive)
	assert.Equal(t, 1, cache.sets)
}

func TestRead_InactiveReadsAsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo, &countingCache{}, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	job, err := svc.Create(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.DeactivateJob(context.Background(), job.UID))

	_, err = svc.Read(context.Background(), job.UID)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdate_OnlyOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo, &countingCache{}, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	job, err := svc.Create(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Title = "Senior Go Developer"

	_, err = svc.Update(context.Background(), job.UID, "intruder", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), job.UID, "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", updated.Title)
}

func TestRemove_OnlyOwnerAndInvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := &countingCache{}
	svc := NewJobService(repo, cache, &fakeSweeper{called: make(chan struct{}, 1)}, testLogger())

	job, err := svc.Create(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)

	err = svc.Remove(context.Background(), job.UID, "intruder")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Remove(context.Background(), job.UID, "owner-1"))
	assert.Contains(t, cache.invalidated, "job:"+job.UID)
	assert.False(t, repo.jobs[job.UID].IsActive)
}

func TestList_TriggersBackgroundSweep(t *testing.T) {
	repo := newFakeRepo()
	sweeper := &fakeSweeper{called: make(chan struct{}, 1)}
	svc := NewJobService(repo, &countingCache{}, sweeper, testLogger())

	_, err := svc.Create(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)

	jobs, pagination, err := svc.List(context.Background(), models.JobFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, pagination.TotalJobs)

	select {
	case <-sweeper.called:
	case <-time.After(2 * time.Second):
		t.Fatal("listing did not trigger a background sweep")
	}
}
