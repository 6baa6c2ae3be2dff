/*
Package recur implements the recurring record expansion engine.

PURPOSE:
  Turns a single recurring financial record (a salary, rent, a
  subscription) into the concrete set of dated occurrences that fall
  inside a query window, respecting the record's own active lifespan,
  its nominal day-of-month, month-length clamping, and per-occurrence
  user exclusions.

  Every consumer (dashboards, reports, balance calculators, listings)
  must use this one engine; sums silently diverge the moment a caller
  reimplements month stepping locally.

KEY CONCEPTS IN THIS FILE (types.go):
  - RecurringRecord: one persisted entry, immutable to the engine
  - Occurrence:      one derived dated instance of a series
  - BreakdownEntry:  per-series audit view of an expansion
  - ExclusionSet:    O(1) membership over user-cancelled dates

DESIGN PRINCIPLES:
  1. Purity: expansion is a pure function of (record, window);
     identical inputs always yield identical occurrence sets
  2. Precision: amounts are decimal.Decimal, never binary floats
  3. Isolation: one malformed record never aborts a batch
  4. Calendar days, not instants: see calendar.go midday anchoring

SEE ALSO:
  - calendar.go:    DayDate and month arithmetic
  - window.go:      lifespan/window intersection
  - generator.go:   the expansion loop
  - aggregate.go:   sums and per-series breakdowns
  - materialize.go: record-shaped occurrence instances
*/
package recur

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SERIES - A recurring record definition
// =============================================================================

// SeriesID identifies a record. For recurring records it identifies the
// whole series, never an individual occurrence.
type SeriesID string

// RecurringRecord is one persisted financial entry as supplied by the
// storage collaborator. The engine only reads it.
//
// When Recurring is false the record represents exactly one occurrence
// on Date. When true, occurrences land monthly on DayOfMonth (falling
// back to Date's day), from SeriesStart (falling back to Date) until
// SeriesEnd inclusive (nil means open-ended).
type RecurringRecord struct {
	ID     SeriesID
	Amount decimal.Decimal

	// Descriptive fields, copied verbatim onto materialized occurrences.
	Kind        string
	Description string
	Category    string
	Wallet      string

	Recurring   bool
	Date        DayDate
	SeriesStart *DayDate
	SeriesEnd   *DayDate

	// DayOfMonth is the nominal day each occurrence should land on.
	// Values outside any given month are clamped; 0 or negative means
	// unset (use Date's day).
	DayOfMonth int

	// ExcludedDates holds individual occurrence dates the user has
	// cancelled for this series. Cancelling one future occurrence is
	// modeled as appending here, not as deleting the series.
	ExcludedDates []DayDate
}

// EffectiveStart returns the date the series became active:
// SeriesStart when present, otherwise the record's own Date.
func (r RecurringRecord) EffectiveStart() DayDate {
	if r.SeriesStart != nil && !r.SeriesStart.IsZero() {
		return *r.SeriesStart
	}
	return r.Date
}

// EffectiveDay returns the nominal day-of-month for occurrences:
// DayOfMonth when set, otherwise the day of the record's Date.
func (r RecurringRecord) EffectiveDay() int {
	if r.DayOfMonth > 0 {
		return r.DayOfMonth
	}
	return r.Date.Day()
}

// =============================================================================
// OCCURRENCE - One derived dated instance
// =============================================================================

// Occurrence is one concrete dated instance generated from a series.
// Never persisted; constructed fresh on every expansion.
//
// Invariant: within one expansion, no two occurrences of the same
// series share a date.
type Occurrence struct {
	SeriesID SeriesID
	Date     DayDate
	Amount   decimal.Decimal
}

// BreakdownEntry is the per-series audit view of an expansion: which
// dates a series contributed and the per-occurrence amount.
type BreakdownEntry struct {
	SeriesID SeriesID
	Amount   decimal.Decimal
	Dates    []DayDate
}

// =============================================================================
// EXCLUSION SET - User-cancelled occurrence dates
// =============================================================================

// ExclusionSet answers "has the user cancelled this date?" in O(1).
// Membership is at day granularity; time-of-day never participates.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds the set from a record's ExcludedDates.
// Zero-valued entries are ignored.
func NewExclusionSet(dates []DayDate) ExclusionSet {
	if len(dates) == 0 {
		return nil
	}
	set := make(ExclusionSet, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		set[d.ISO()] = struct{}{}
	}
	return set
}

// Contains reports whether the given day is excluded.
func (s ExclusionSet) Contains(d DayDate) bool {
	if s == nil {
		return false
	}
	_, ok := s[d.ISO()]
	return ok
}
