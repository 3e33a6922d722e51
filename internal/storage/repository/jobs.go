package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

const jobColumns = `uid, title, company, location, city, job_type, experience,
			      salary, monthly_salary, description, deadline, is_active,
			      created_by, created_at, updated_at`

// sortColumns whitelists the sortable fields. Anything else falls back to
// creation time so arbitrary input never reaches the ORDER BY clause.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"company":   "company",
	"salary":    "salary",
}

// CreateJob stores a new posting and returns the generated uid.
func (s *Storage) CreateJob(ctx context.Context, job models.Job) (string, error) {
	const op = "storage.CreateJob"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO jobs (title, company, location, city, job_type, experience,
			      salary, monthly_salary, description, deadline, is_active, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		job.Title, job.Company, job.Location, job.City, job.Type, job.Experience,
		job.Salary, job.MonthlySalary, job.Description, job.Deadline,
		job.CreatedBy).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetJob returns a posting by uid regardless of its active flag; callers
// decide whether an inactive record counts as found.
func (s *Storage) GetJob(ctx context.Context, jobUID string) (*models.Job, error) {
	const op = "storage.GetJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, jobUID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return job, nil
}

// UpdateJob overwrites every mutable field of a posting.
func (s *Storage) UpdateJob(ctx context.Context, job models.Job) error {
	const op = "storage.UpdateJob"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs
		      SET title = $1, company = $2, location = $3, city = $4, job_type = $5,
			      experience = $6, salary = $7, monthly_salary = $8, description = $9,
			      deadline = $10, updated_at = now()
		      WHERE uid = $11`
	res, err := s.DB.ExecContext(ctx, query,
		job.Title, job.Company, job.Location, job.City, job.Type, job.Experience,
		job.Salary, job.MonthlySalary, job.Description, job.Deadline, job.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(op, res)
}

// DeactivateJob soft-deletes a posting. Deactivating an already inactive
// record succeeds silently, which keeps deletion idempotent.
func (s *Storage) DeactivateJob(ctx context.Context, jobUID string) error {
	const op = "storage.DeactivateJob"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs SET is_active = FALSE, updated_at = now() WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, jobUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListJobs executes the filter query and returns one page of active
// postings plus the total match count for pagination.
func (s *Storage) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	const op = "storage.ListJobs"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	conds := []string{"is_active = TRUE"}
	var args []any
	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if filter.Search != "" {
		n := next("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if filter.Location != "" {
		conds = append(conds, fmt.Sprintf("location = $%d", next(filter.Location)))
	}
	if filter.City != "" {
		conds = append(conds, fmt.Sprintf("city ILIKE $%d", next("%"+filter.City+"%")))
	}
	if filter.Type != "" {
		conds = append(conds, fmt.Sprintf("job_type = $%d", next(filter.Type)))
	}
	// Salary is a display string, so this is a lexical prefix match on the
	// leading digit, not a numeric comparison. maxSalary is accepted but
	// not applied, matching the historical behavior of the API.
	if pattern, ok := salaryPrefixPattern(filter.MinSalary); ok {
		conds = append(conds, fmt.Sprintf("salary ~* $%d", next(pattern)))
	}

	where := strings.Join(conds, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	orderCol, ok := sortColumns[filter.SortBy]
	if !ok {
		orderCol = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}
	// Equal sort keys carry no ordering guarantee, so page boundaries would
	// drift between queries without a deterministic tiebreaker.
	orderBy := orderCol + " " + direction
	if orderCol != "created_at" {
		orderBy += ", created_at DESC"
	}
	orderBy += ", uid"

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, orderBy,
		next(filter.Limit), next(filter.Offset()))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, job)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListJobsByOwner returns every active posting created by the given user,
// newest first. Used to populate the profile response.
func (s *Storage) ListJobsByOwner(ctx context.Context, ownerUID string) ([]*models.Job, error) {
	const op = "storage.ListJobsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + `
			  FROM jobs
			  WHERE created_by = $1 AND is_active = TRUE
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivateExpiredJobs flips is_active on every active posting whose
// deadline has passed and returns the owner contact info for each one.
// Repeating the call under an unchanged clock finds nothing more to do.
func (s *Storage) DeactivateExpiredJobs(ctx context.Context, now time.Time) ([]models.ExpiredJobInfo, error) {
	const op = "storage.DeactivateExpiredJobs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs j
		      SET is_active = FALSE, updated_at = now()
		      FROM users u
		      WHERE j.created_by = u.uid
			      AND j.deadline < $1
			      AND j.is_active = TRUE
		      RETURNING j.uid, j.title, j.company, j.deadline, u.email, u.name`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var swept []models.ExpiredJobInfo
	for rows.Next() {
		var info models.ExpiredJobInfo
		var deadline sql.NullTime
		if err = rows.Scan(&info.JobUID, &info.Title, &info.Company, &deadline,
			&info.OwnerEmail, &info.OwnerName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if deadline.Valid {
			info.Deadline = &deadline.Time
		}
		swept = append(swept, info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return swept, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	j := &models.Job{}
	var deadline sql.NullTime
	var createdBy sql.NullString
	if err := row.Scan(&j.UID, &j.Title, &j.Company, &j.Location, &j.City, &j.Type,
		&j.Experience, &j.Salary, &j.MonthlySalary, &j.Description, &deadline,
		&j.IsActive, &createdBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	if deadline.Valid {
		j.Deadline = &deadline.Time
	}
	if createdBy.Valid {
		j.CreatedBy = createdBy.String
	}
	return j, nil
}

// salaryPrefixPattern builds the "^[X-9]" regex from the leading digit of
// the minSalary parameter. Only the first digit participates: "18" yields
// ^[1-9], never ^[18-9], so multi-digit values cannot widen the class with
// stray characters.
func salaryPrefixPattern(minSalary string) (string, bool) {
	if minSalary == "" {
		return "", false
	}
	r := rune(minSalary[0])
	if !unicode.IsDigit(r) {
		return "", false
	}
	return fmt.Sprintf("^[%c-9]", r), true
}
