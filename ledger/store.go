/*
store.go - Storage collaborator interface

PURPOSE:
  The engine receives its record list as an explicit parameter and
  never reaches into a shared store; this interface is how the service
  layer obtains that list and how the one mutation the engine model
  allows (appending an exclusion date) is delegated.

CONTRACT:
  - ListRecords returns records in stable insertion order. The service
    relies on that order for tie-breaking when merging occurrences.
  - Records with unparsable stored dates are returned with a zero Date
    rather than dropped, so the engine can count and report them as
    data-quality skips (partial-failure isolation).
  - AppendExclusion appends, never rewrites: cancelling one occurrence
    must not touch the series definition or past exclusions.

IMPLEMENTATIONS:
  - store/memory: map-backed, for tests and demos
  - store/sqlite: production persistence
*/
package ledger

import (
	"context"
	"errors"

	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrRecordNotFound is returned when a series id does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotRecurring is returned when an exclusion targets a
	// non-recurring record; one-shots are deleted, not excluded.
	ErrNotRecurring = errors.New("record is not recurring")

	// ErrDuplicateID is returned when creating a record whose id is
	// already taken.
	ErrDuplicateID = errors.New("record id already exists")
)

// =============================================================================
// STORE - Persistence of recurring records
// =============================================================================

// Store is the storage collaborator supplying raw records. Ownership
// and wallet/category filtering happen behind this interface; the
// engine never applies them itself.
type Store interface {
	// ListRecords returns all records in stable insertion order.
	ListRecords(ctx context.Context) ([]recur.RecurringRecord, error)

	// GetRecord returns one record by series id.
	GetRecord(ctx context.Context, id recur.SeriesID) (recur.RecurringRecord, error)

	// CreateRecord persists a new record. An empty id is assigned a
	// generated one; the stored record is returned.
	CreateRecord(ctx context.Context, rec recur.RecurringRecord) (recur.RecurringRecord, error)

	// UpdateRecord replaces an existing record's definition.
	UpdateRecord(ctx context.Context, rec recur.RecurringRecord) error

	// DeleteRecord removes a whole series.
	DeleteRecord(ctx context.Context, id recur.SeriesID) error

	// AppendExclusion adds one cancelled occurrence date to a series.
	// Appending the same date twice is a no-op, not an error.
	AppendExclusion(ctx context.Context, id recur.SeriesID, date recur.DayDate) error
}
