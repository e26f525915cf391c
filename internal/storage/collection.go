// Package storage persists record collections with whole-collection
// read-modify-write semantics.
package storage

import (
	"context"
	"errors"
)

// ErrConflict is returned when a compare-and-swap update keeps losing to
// concurrent writers.
var ErrConflict = errors.New("storage: concurrent update conflict")

// MutateFunc receives the current records and returns the records to persist.
// It may be called more than once for a single Update and must not have side
// effects beyond its return values. Returning an error aborts the update
// without writing.
type MutateFunc[T any] func(records []T) ([]T, error)

// Collection is an ordered set of records persisted as a unit.
type Collection[T any] interface {
	// Load returns all records. A missing backing store yields an empty slice.
	Load(ctx context.Context) ([]T, error)
	// Update runs fn against the current records and persists the result.
	// Updates to the same collection never interleave.
	Update(ctx context.Context, fn MutateFunc[T]) error
}
