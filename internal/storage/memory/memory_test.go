package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

func seedJob(t *testing.T, s *Store, title, company, description, location, city, jobType, salary, owner string) string {
	t.Helper()
	uid, err := s.CreateJob(context.Background(), models.Job{
		Title:         title,
		Company:       company,
		Location:      location,
		City:          city,
		Type:          jobType,
		Experience:    "2+ years",
		Salary:        salary,
		MonthlySalary: "5000",
		Description:   description,
		CreatedBy:     owner,
	})
	require.NoError(t, err)
	return uid
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, models.User{Name: "Ada", Email: "Ada@Example.com", PasswordHash: "h", Role: "job-seeker"})
	require.NoError(t, err)

	// same address with different casing counts as a duplicate
	_, err = s.RegisterUser(ctx, models.User{Name: "Other", Email: "ada@example.com", PasswordHash: "h", Role: "employer"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid, err := s.RegisterUser(ctx, models.User{Name: "Ada", Email: "Ada@Example.com", PasswordHash: "h"})
	require.NoError(t, err)

	user, err := s.GetUserByEmail(ctx, "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, uid, user.UID)
	assert.True(t, user.IsActive)
}

func TestDeactivateUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid, err := s.RegisterUser(ctx, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	require.NoError(t, s.DeactivateUser(ctx, uid))

	user, err := s.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	assert.ErrorIs(t, s.DeactivateUser(ctx, "missing-uid"), storage.ErrNotFound)
}

func TestCreateJob_RoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid := seedJob(t, s, "Go Developer", "Acme", "Build services in Go", "Remote", "Berlin", "Full-time", "90000", "owner-1")

	job, err := s.GetJob(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Build services in Go", job.Description)
	assert.True(t, job.IsActive)
	assert.Equal(t, "owner-1", job.CreatedBy)
}

func TestDeactivateJob_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid := seedJob(t, s, "Go Developer", "Acme", "desc", "Remote", "Berlin", "Full-time", "90000", "owner-1")

	require.NoError(t, s.DeactivateJob(ctx, uid))
	job, err := s.GetJob(ctx, uid)
	require.NoError(t, err)
	assert.False(t, job.IsActive)

	// second call succeeds and leaves the flag unchanged
	require.NoError(t, s.DeactivateJob(ctx, uid))
	job, err = s.GetJob(ctx, uid)
	require.NoError(t, err)
	assert.False(t, job.IsActive)
}

func TestUpdateJob_PreservesOwnership(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid := seedJob(t, s, "Go Developer", "Acme", "desc", "Remote", "Berlin", "Full-time", "90000", "owner-1")

	job, err := s.GetJob(ctx, uid)
	require.NoError(t, err)

	updated := *job
	updated.Title = "Senior Go Developer"
	updated.CreatedBy = "intruder"
	require.NoError(t, s.UpdateJob(ctx, updated))

	job, err = s.GetJob(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", job.Title)
	assert.Equal(t, "owner-1", job.CreatedBy, "ownership must survive updates")
}

func TestListJobs_SearchFilter(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedJob(t, s, "React Developer", "Acme", "frontend work", "Remote", "Berlin", "Full-time", "70000", "o")
	seedJob(t, s, "Go Developer", "ReactLabs", "backend work", "Remote", "Berlin", "Full-time", "80000", "o")
	seedJob(t, s, "Designer", "Studio", "we use react daily", "Onsite", "Hamburg", "Part-time", "50000", "o")
	seedJob(t, s, "Accountant", "NumbersCo", "ledgers", "Onsite", "Hamburg", "Full-time", "60000", "o")

	jobs, total, err := s.ListJobs(ctx, models.JobFilter{Search: "react", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, jobs, 3)
}

func TestListJobs_LocationAndType(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedJob(t, s, "A", "c1", "d", "Remote", "Berlin", "Full-time", "70000", "o")
	seedJob(t, s, "B", "c2", "d", "Onsite", "Berlin", "Full-time", "70000", "o")
	seedJob(t, s, "C", "c3", "d", "Remote", "Berlin", "Contract", "70000", "o")

	jobs, total, err := s.ListJobs(ctx, models.JobFilter{Location: "Remote", Type: "Full-time", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, "A", jobs[0].Title)
}

func TestListJobs_MinSalaryLexical(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedJob(t, s, "Low", "c1", "d", "Remote", "Berlin", "Full-time", "45000", "o")
	seedJob(t, s, "High", "c2", "d", "Remote", "Berlin", "Full-time", "90000", "o")
	seedJob(t, s, "Mid", "c3", "d", "Remote", "Berlin", "Full-time", "60000", "o")

	// the comparison is on the leading digit, not the numeric value
	jobs, total, err := s.ListJobs(ctx, models.JobFilter{MinSalary: "50000", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	titles := []string{jobs[0].Title, jobs[1].Title}
	assert.ElementsMatch(t, []string{"High", "Mid"}, titles)
}

func TestListJobs_ExcludesInactive(t *testing.T) {
	s := New()
	ctx := context.Background()

	keep := seedJob(t, s, "Keep", "c1", "d", "Remote", "Berlin", "Full-time", "70000", "o")
	gone := seedJob(t, s, "Gone", "c2", "d", "Remote", "Berlin", "Full-time", "70000", "o")
	require.NoError(t, s.DeactivateJob(ctx, gone))

	jobs, total, err := s.ListJobs(ctx, models.JobFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, keep, jobs[0].UID)
}

func TestListJobs_StablePagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedJob(t, s, "Job", "c", "d", "Remote", "Berlin", "Full-time", "70000", "o")
	}

	filter := models.JobFilter{Page: 1, Limit: 2}
	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		filter.Page = page
		jobs, total, err := s.ListJobs(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		for _, j := range jobs {
			assert.False(t, seen[j.UID], "job %s appeared on two pages", j.UID)
			seen[j.UID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestListJobs_StablePaginationWithTiedSortKeys(t *testing.T) {
	s := New()
	ctx := context.Background()

	// identical titles force every comparison onto the tiebreakers
	for i := 0; i < 8; i++ {
		seedJob(t, s, "Engineer", "c", "d", "Remote", "Berlin", "Full-time", "70000", "o")
	}

	walk := func() []string {
		var uids []string
		for page := 1; page <= 4; page++ {
			jobs, total, err := s.ListJobs(ctx, models.JobFilter{
				SortBy: "title", SortOrder: "asc", Page: page, Limit: 2,
			})
			require.NoError(t, err)
			require.Equal(t, 8, total)
			for _, j := range jobs {
				uids = append(uids, j.UID)
			}
		}
		return uids
	}

	first := walk()
	require.Len(t, first, 8)

	seen := map[string]bool{}
	for _, uid := range first {
		assert.False(t, seen[uid], "job %s appeared on two pages", uid)
		seen[uid] = true
	}

	for i := 0; i < 20; i++ {
		require.Equal(t, first, walk(), "page walk order changed between calls")
	}
}

func TestListJobsByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedJob(t, s, "Mine", "c", "d", "Remote", "Berlin", "Full-time", "70000", "owner-1")
	seedJob(t, s, "Theirs", "c", "d", "Remote", "Berlin", "Full-time", "70000", "owner-2")
	inactive := seedJob(t, s, "MineGone", "c", "d", "Remote", "Berlin", "Full-time", "70000", "owner-1")
	require.NoError(t, s.DeactivateJob(ctx, inactive))

	jobs, err := s.ListJobsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Mine", jobs[0].Title)
}

func TestDeactivateExpiredJobs(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	ownerUID, err := s.RegisterUser(ctx, models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	expiredUID, err := s.CreateJob(ctx, models.Job{Title: "Expired", Company: "c", Deadline: &past, CreatedBy: ownerUID})
	require.NoError(t, err)
	liveUID, err := s.CreateJob(ctx, models.Job{Title: "Live", Company: "c", Deadline: &future, CreatedBy: ownerUID})
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, models.Job{Title: "Open-ended", Company: "c", CreatedBy: ownerUID})
	require.NoError(t, err)

	swept, err := s.DeactivateExpiredJobs(ctx, now)
	require.NoError(t, err)
	require.Len(t, swept, 1)
	assert.Equal(t, expiredUID, swept[0].JobUID)
	assert.Equal(t, "ada@example.com", swept[0].OwnerEmail)
	assert.Equal(t, "Ada", swept[0].OwnerName)

	job, err := s.GetJob(ctx, expiredUID)
	require.NoError(t, err)
	assert.False(t, job.IsActive)

	live, err := s.GetJob(ctx, liveUID)
	require.NoError(t, err)
	assert.True(t, live.IsActive)

	// second sweep under the same clock finds nothing
	swept, err = s.DeactivateExpiredJobs(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, swept)
}
