/*
errors.go - Centralized error types for the expansion engine

PURPOSE:
  All engine error types in one place. Callers wrap these with their
  own context; batch operations collect them instead of aborting.

ERROR CATEGORIES:
  1. Data-quality errors - unparsable or inconsistent record fields
  2. Bound errors        - the defensive iteration cap was hit

NOT ERRORS:
  An empty expansion (record's lifespan does not intersect the window)
  and an unbounded series (no series end, no window end) are legitimate
  outcomes handled by the generator, never reported here.

USAGE:
  if errors.Is(err, recur.ErrInvalidRecord) {
      skipped++
      continue
  }

SEE ALSO:
  - generator.go: produces these
  - aggregate.go: collects them into ExpansionReport
*/
package recur

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid calendar date")

	// ErrInvalidRecord is returned when a record cannot participate in
	// expansion (missing or unparsable date fields). The record is
	// skipped; the batch continues.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrBoundExceeded is returned when a configured iteration cap was
	// hit before the end of the clipped range. Occurrences returned
	// alongside it are valid but truncated.
	ErrBoundExceeded = errors.New("month iteration bound exceeded")

	// ErrBadOccurrenceID is returned when a composite occurrence id
	// does not have the seriesID::YYYY-MM-DD shape.
	ErrBadOccurrenceID = errors.New("malformed occurrence id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRecordError identifies which field of which series made a
// record unusable for expansion.
type InvalidRecordError struct {
	SeriesID SeriesID
	Field    string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %s: invalid %s", e.SeriesID, e.Field)
}

func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }

// BoundExceededError reports a truncated expansion: the series spanned
// more months than the configured cap allowed.
type BoundExceededError struct {
	SeriesID   SeriesID
	SpanMonths int
	Limit      int
}

func (e *BoundExceededError) Error() string {
	return fmt.Sprintf("record %s: expansion truncated at %d of %d months",
		e.SeriesID, e.Limit, e.SpanMonths)
}

func (e *BoundExceededError) Unwrap() error { return ErrBoundExceeded }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDataQuality returns true when the error means "skip this record,
// keep the batch" rather than a failure of the whole operation.
func IsDataQuality(err error) bool {
	return errors.Is(err, ErrInvalidRecord) || errors.Is(err, ErrInvalidDate)
}

// IsTruncated returns true when results were produced but cut short by
// the iteration bound.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrBoundExceeded)
}
