package models

import (
	"fmt"
	"time"
)

// Job is a persisted job posting. Soft deletion flips IsActive; records are
// never physically removed by user action.
type Job struct {
	UID           string     `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	City          string     `json:"city"`
	Type          string     `json:"type"`
	Experience    string     `json:"experience"`
	Salary        string     `json:"salary"`
	MonthlySalary string     `json:"monthlySalary"`
	Description   string     `json:"description"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Expired reports whether the posting deadline has passed at the given time.
func (j *Job) Expired(now time.Time) bool {
	return j.Deadline != nil && j.Deadline.Before(now)
}

// PostedLabel renders the relative "posted" caption. It is recomputed from
// CreatedAt on every read and never stored.
func (j *Job) PostedLabel(now time.Time) string {
	minutes := int(now.Sub(j.CreatedAt).Minutes())
	switch {
	case minutes < 1:
		return "Just posted"
	case minutes < 60:
		return fmt.Sprintf("%dm Ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh Ago", minutes/60)
	default:
		return fmt.Sprintf("%dd Ago", minutes/1440)
	}
}

// JobView is the client-facing rendering of a Job with the derived fields
// attached.
type JobView struct {
	Job
	IsExpired  bool   `json:"isExpired"`
	PostedDate string `json:"postedDate"`
}

// ViewOf decorates a job with its derived fields for responses.
func ViewOf(j *Job, now time.Time) JobView {
	return JobView{
		Job:        *j,
		IsExpired:  j.Expired(now),
		PostedDate: j.PostedLabel(now),
	}
}

// ViewsOf decorates a page of jobs.
func ViewsOf(jobs []*Job, now time.Time) []JobView {
	views := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, ViewOf(j, now))
	}
	return views
}

// DummyJob receives job fields from a JSON request before validation.
// The deadline arrives as an RFC 3339 string so it can be parsed and
// range-checked explicitly.
type DummyJob struct {
	Title         string `json:"title" validate:"required,max=100"`
	Company       string `json:"company" validate:"required,max=50"`
	Location      string `json:"location" validate:"required,oneof=Onsite Remote Hybrid"`
	City          string `json:"city" validate:"required,max=50"`
	Type          string `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship"`
	Experience    string `json:"experience" validate:"required,max=20"`
	Salary        string `json:"salary" validate:"required,max=20"`
	MonthlySalary string `json:"monthlySalary" validate:"required,max=20"`
	Description   string `json:"description" validate:"required,max=2000"`
	Deadline      string `json:"deadline,omitempty" validate:"omitempty"`
}

// ExpiredJobInfo is the payload published for every posting the sweeper
// deactivates, carrying enough context for the notifier to email the owner.
type ExpiredJobInfo struct {
	JobUID     string     `json:"job_uid"`
	Title      string     `json:"title"`
	Company    string     `json:"company"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	OwnerEmail string     `json:"owner_email"`
	OwnerName  string     `json:"owner_name"`
}
