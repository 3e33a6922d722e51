// Package models contains the domain structures for users and job postings,
// plus the helper types used to receive data from JSON requests.
package models

import "time"

// Roles a user account can hold.
const (
	RoleJobSeeker = "job-seeker"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// User represents a registered account. The password hash is never
// serialized to clients.
type User struct {
	UID          string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Profile      Profile    `json:"profile"`
	Company      Company    `json:"company"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Profile holds the job-seeker side of an account.
type Profile struct {
	Avatar     string   `json:"avatar,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Location   string   `json:"location,omitempty"`
	Resume     string   `json:"resume,omitempty"`
	Portfolio  string   `json:"portfolio,omitempty"`
	Linkedin   string   `json:"linkedin,omitempty"`
	Github     string   `json:"github,omitempty"`
}

// Company holds the employer side of an account.
type Company struct {
	Name     string `json:"name,omitempty"`
	Website  string `json:"website,omitempty"`
	Size     string `json:"size,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// ProfileUpdate carries the partial profile fields a user may change.
// Nil means "leave as is".
type ProfileUpdate struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,max=50"`
	Profile *Profile `json:"profile,omitempty"`
	Company *Company `json:"company,omitempty"`
}
