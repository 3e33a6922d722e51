// Package storage defines the errors shared by every store implementation.
// The durable PostgreSQL store lives in the repository subpackage; the
// in-process fallback used when the database is unreachable lives in the
// memory subpackage. The two are selected once at startup and never mixed
// per request.
package storage

import "errors"

var (
	// ErrNotFound means no record matched a well-formed identifier.
	ErrNotFound = errors.New("record not found")
	// ErrUserExists means the email is already registered.
	ErrUserExists = errors.New("user already exists")
)
