/*
materialize.go - Record-shaped occurrence instances for listings

PURPOSE:
  Listing endpoints must let a user act on ONE specific occurrence
  ("delete just this month's rent") even though the occurrence is
  derived, not stored. Materialize renders each occurrence as a full
  record-shaped instance with a stable composite identifier so a later
  exclude action can target exactly that occurrence.

OCCURRENCE ID:
  seriesID + "::" + YYYY-MM-DD. Reproducible: the same record and
  window always produce the same ids, so clients can key rows by it.

WRITE PATH:
  Expanded instances are flagged; callers must route "delete this one"
  through the append-to-excluded-dates path, never a row delete.

SEE ALSO:
  - generator.go: the underlying expansion
  - aggregate.go: the report/sum-oriented batch consumers
*/
package recur

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MATERIALIZED OCCURRENCE - Full record-shaped derived instance
// =============================================================================

// MaterializedOccurrence is one occurrence rendered with the source
// record's descriptive fields, suitable for display and targeted
// single-occurrence actions.
type MaterializedOccurrence struct {
	// OccurrenceID is the stable composite key seriesID::date.
	OccurrenceID string
	SeriesID     SeriesID

	Kind        string
	Description string
	Category    string
	Wallet      string

	// Date is the occurrence's own date, not the source record's.
	Date   DayDate
	Amount decimal.Decimal

	Recurring bool
	// Expanded marks a derived instance (not a persisted row). Writes
	// against it must go through the exclusion path.
	Expanded bool
}

const occurrenceIDSep = "::"

// OccurrenceIDFor builds the composite key for one occurrence.
func OccurrenceIDFor(id SeriesID, date DayDate) string {
	return string(id) + occurrenceIDSep + date.ISO()
}

// ParseOccurrenceID splits a composite key back into series id and
// date. The series id may itself contain "::"; the date is always the
// final segment.
func ParseOccurrenceID(s string) (SeriesID, DayDate, error) {
	i := strings.LastIndex(s, occurrenceIDSep)
	if i <= 0 {
		return "", DayDate{}, ErrBadOccurrenceID
	}
	date, err := ParseDayDate(s[i+len(occurrenceIDSep):])
	if err != nil {
		return "", DayDate{}, ErrBadOccurrenceID
	}
	return SeriesID(s[:i]), date, nil
}

// =============================================================================
// MATERIALIZE - Batch expansion into record-shaped instances
// =============================================================================

// Materialize is shorthand for DefaultExpander.Materialize.
func Materialize(records []RecurringRecord, w Window) ([]MaterializedOccurrence, ExpansionReport) {
	return DefaultExpander.Materialize(records, w)
}

// Materialize expands every record and renders each occurrence as a
// full instance. Output preserves input order across records and date
// order within a series; callers merging for display apply their own
// stable sort.
func (e Expander) Materialize(records []RecurringRecord, w Window) ([]MaterializedOccurrence, ExpansionReport) {
	var out []MaterializedOccurrence
	report := ExpansionReport{Records: len(records)}
	for _, rec := range records {
		occs, err := e.Expand(rec, w)
		report.observe(err)
		for _, occ := range occs {
			out = append(out, MaterializedOccurrence{
				OccurrenceID: OccurrenceIDFor(rec.ID, occ.Date),
				SeriesID:     rec.ID,
				Kind:         rec.Kind,
				Description:  rec.Description,
				Category:     rec.Category,
				Wallet:       rec.Wallet,
				Date:         occ.Date,
				Amount:       occ.Amount,
				Recurring:    rec.Recurring,
				Expanded:     rec.Recurring,
			})
		}
	}
	return out, report
}
