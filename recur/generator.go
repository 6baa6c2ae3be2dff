/*
generator.go - The occurrence expansion loop

PURPOSE:
  The core primitive of the engine: expand one record into its dated
  occurrences inside a query window. Everything else in this package
  (sums, breakdowns, materialized listings) is a consumer of Expand.

EXPANSION MODES:
  1. Non-recurring: one candidate at the record's own Date
  2. Empty clip:    nothing
  3. Unbounded:     one candidate pinned at the clipped From
  4. Bounded:       month-by-month cursor from From's month to To's
                    month, one clamped candidate per month

EVERY candidate is emitted iff it satisfies both window bounds
(inclusive, absent = satisfied) and is not in the exclusion set.

ITERATION BOUND:
  The loop budget is derived from the actual clipped span
  (MonthsBetween+1), so legitimately long windows are never silently
  truncated. An Expander may additionally set MaxMonths as a hard cap;
  hitting it returns the truncated occurrences together with a
  BoundExceededError so callers can report the correctness risk
  instead of silently under-counting.

SEE ALSO:
  - window.go:    Clip
  - calendar.go:  ClampDay, month cursor
  - aggregate.go: batch consumers with partial-failure isolation
*/
package recur

// =============================================================================
// EXPANDER - Configured expansion entry point
// =============================================================================

// Expander expands records into occurrences. The zero value is ready
// to use and never truncates.
type Expander struct {
	// MaxMonths caps the number of iterated months per series when
	// positive. 0 means the span-derived budget only.
	MaxMonths int
}

// DefaultExpander is used by the package-level convenience functions.
var DefaultExpander = Expander{}

// Expand is shorthand for DefaultExpander.Expand.
func Expand(rec RecurringRecord, w Window) ([]Occurrence, error) {
	return DefaultExpander.Expand(rec, w)
}

// Expand generates the record's occurrences inside the window, in
// ascending date order, at most one per month, none duplicated and
// none excluded.
//
// On ErrBoundExceeded the returned occurrences are valid but
// truncated. On ErrInvalidRecord no occurrences are returned; the
// caller should skip the record and keep going.
func (e Expander) Expand(rec RecurringRecord, w Window) ([]Occurrence, error) {
	if rec.Date.IsZero() {
		return nil, &InvalidRecordError{SeriesID: rec.ID, Field: "date"}
	}

	excluded := NewExclusionSet(rec.ExcludedDates)

	// Single-shot record: exactly one candidate at its own date.
	if !rec.Recurring {
		return emit(nil, rec, rec.Date, w, excluded), nil
	}

	clipped := Clip(rec, w)
	switch clipped.Outcome {
	case ClipEmpty:
		return nil, nil

	case ClipUnbounded:
		// No upper bound anywhere: mirror the single-shot case once a
		// concrete date is pinned at the clipped start.
		return emit(nil, rec, clipped.From, w, excluded), nil
	}

	// Bounded: one clamped candidate per month.
	span := MonthsBetween(clipped.From, clipped.To) + 1
	budget := span
	if e.MaxMonths > 0 && e.MaxMonths < budget {
		budget = e.MaxMonths
	}

	var occs []Occurrence
	cursor := clipped.From.FirstOfMonth()
	endCursor := clipped.To.FirstOfMonth()
	months := 0
	for cursor.BeforeOrEqual(endCursor) && months < budget {
		day := ClampDay(rec.EffectiveDay(), cursor.Year(), cursor.Month())
		candidate := NewDayDate(cursor.Year(), cursor.Month(), day)
		occs = emit(occs, rec, candidate, w, excluded)
		cursor = cursor.NextMonth()
		months++
	}

	if cursor.BeforeOrEqual(endCursor) {
		return occs, &BoundExceededError{SeriesID: rec.ID, SpanMonths: span, Limit: budget}
	}
	return occs, nil
}

// emit appends the candidate iff it passes the window and exclusion
// checks.
func emit(occs []Occurrence, rec RecurringRecord, candidate DayDate, w Window, excluded ExclusionSet) []Occurrence {
	if !w.Contains(candidate) {
		return occs
	}
	if excluded.Contains(candidate) {
		return occs
	}
	return append(occs, Occurrence{
		SeriesID: rec.ID,
		Date:     candidate,
		Amount:   rec.Amount,
	})
}
