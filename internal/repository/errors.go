// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import (
	"errors"
	"fmt"
)

// ErrInvalidTable is returned when a table name is not in the allow-list.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidTable = errors.New("invalid table")

// ErrConstraintViolation is returned when supplied fields do not fit the
// table: unknown column, wrong value kind, negative order, focal point
// outside [0,1] or an unknown icon.  Handlers answer 400.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrNotFound is returned by Get/Update when no row matches the id.
var ErrNotFound = errors.New("not found")

// ErrSingletonExists is returned when a second row is inserted into a
// singleton table.  It is also a constraint violation.
var ErrSingletonExists = fmt.Errorf("%w: singleton row already exists", ErrConstraintViolation)

// ErrEmailExists is returned when an admin account with the same email exists.
var ErrEmailExists = errors.New("email already exists")

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}
