// Package faults defines the failure taxonomy shared by the core engines.
//
// Every public operation surfaces one of these kinds so callers (and the
// HTTP boundary, which lives outside this service) can match with errors.Is
// without string inspection:
//
//   - ErrNotFound: a referenced identity does not resolve
//   - ErrConflict: an invariant such as "one invitation per member" or
//     "unique group code" would be violated
//   - ErrForbidden: an ownership check failed (acting party is not the
//     resource's leader/member)
//   - ErrInvariant: an internal consistency check failed, e.g. removing a
//     member who is not in the group
//   - ErrPersistence: the underlying store rejected a write
package faults

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrInvariant   = errors.New("invariant violation")
	ErrPersistence = errors.New("persistence failure")
)

// NotFound wraps ErrNotFound with the entity that failed to resolve.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Conflict wraps ErrConflict with the invariant that would be violated.
func Conflict(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}

// Forbidden wraps ErrForbidden with the failed ownership check.
func Forbidden(what string) error {
	return fmt.Errorf("%s: %w", what, ErrForbidden)
}

// Invariant wraps ErrInvariant with the consistency check that failed.
func Invariant(what string) error {
	return fmt.Errorf("%s: %w", what, ErrInvariant)
}

// Persistence wraps a store error as an ErrPersistence, keeping the cause
// in the chain so drivers' errors stay matchable too.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
