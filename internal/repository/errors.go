// Package repository holds the MySQL data access code and the sentinel
// errors it shares with higher layers. Handlers translate ErrNotFound into
// an HTTP 404 response and ErrConflict into a 409.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested row does not exist, or exists
// but belongs to another user.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update would violate a unique
// key, such as a second daily income row for the same date.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
