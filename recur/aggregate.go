/*
aggregate.go - Sums and per-series breakdowns over expansions

PURPOSE:
  Batch consumers of the generator. Sum feeds dashboards and balance
  calculators; Breakdown feeds audit and per-series report views.
  Both apply partial-failure isolation: a record with unusable dates
  is skipped and counted, never allowed to abort the batch.

NUMERIC SEMANTICS:
  Accumulation is decimal.Decimal end to end. No binary floating
  point ever touches an amount.

REPORTING:
  Every batch operation returns an ExpansionReport so callers can
  present partial results honestly ("3 records skipped") instead of
  failing the whole report or silently under-counting.

SEE ALSO:
  - generator.go:   per-record expansion
  - materialize.go: the listing-oriented batch consumer
*/
package recur

import "github.com/shopspring/decimal"

// =============================================================================
// EXPANSION REPORT - Data-quality outcome of a batch pass
// =============================================================================

// ExpansionReport summarizes what happened to a batch expansion.
type ExpansionReport struct {
	// Records is the number of input records considered.
	Records int
	// Skipped counts records dropped for data-quality reasons.
	Skipped int
	// Truncated counts series cut short by the iteration bound.
	Truncated int
	// Issues carries the individual record errors, in input order.
	Issues []error
}

// Partial reports whether any record was skipped or truncated.
func (r ExpansionReport) Partial() bool {
	return r.Skipped > 0 || r.Truncated > 0
}

func (r *ExpansionReport) observe(err error) {
	if err == nil {
		return
	}
	switch {
	case IsTruncated(err):
		r.Truncated++
	default:
		r.Skipped++
	}
	r.Issues = append(r.Issues, err)
}

// =============================================================================
// SUM - Total of all occurrence amounts in the window
// =============================================================================

// Sum is shorthand for DefaultExpander.Sum.
func Sum(records []RecurringRecord, w Window) (decimal.Decimal, ExpansionReport) {
	return DefaultExpander.Sum(records, w)
}

// Sum expands every record and totals the emitted amounts.
// Non-recurring records contribute once iff their date is in the
// window.
func (e Expander) Sum(records []RecurringRecord, w Window) (decimal.Decimal, ExpansionReport) {
	total := decimal.Zero
	report := ExpansionReport{Records: len(records)}
	for _, rec := range records {
		occs, err := e.Expand(rec, w)
		report.observe(err)
		for _, occ := range occs {
			total = total.Add(occ.Amount)
		}
	}
	return total, report
}

// =============================================================================
// BREAKDOWN - Per-series occurrence dates for audit views
// =============================================================================

// Breakdown is shorthand for DefaultExpander.Breakdown.
func Breakdown(records []RecurringRecord, w Window) ([]BreakdownEntry, ExpansionReport) {
	return DefaultExpander.Breakdown(records, w)
}

// Breakdown expands every record and groups occurrences by series,
// preserving input order across series and date order within one.
// Series with no occurrences in the window are omitted.
func (e Expander) Breakdown(records []RecurringRecord, w Window) ([]BreakdownEntry, ExpansionReport) {
	var entries []BreakdownEntry
	report := ExpansionReport{Records: len(records)}
	for _, rec := range records {
		occs, err := e.Expand(rec, w)
		report.observe(err)
		if len(occs) == 0 {
			continue
		}
		entry := BreakdownEntry{
			SeriesID: rec.ID,
			Amount:   rec.Amount,
			Dates:    make([]DayDate, 0, len(occs)),
		}
		for _, occ := range occs {
			entry.Dates = append(entry.Dates, occ.Date)
		}
		entries = append(entries, entry)
	}
	return entries, report
}
