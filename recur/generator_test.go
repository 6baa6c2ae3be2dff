/*
generator_test.go - Behavioral tests for occurrence expansion

Each behavioral test states its scenario with GIVEN/WHEN/THEN comments.
The concrete scenarios mirror real records: a salary on the 15th, a
subscription billed on the 31st, a one-off purchase.
*/
package recur_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/ledger-engine/recur"
)

func dates(occs []recur.Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Date.ISO())
	}
	return out
}

// =============================================================================
// CONCRETE SCENARIOS
// =============================================================================

func TestExpand_OpenEndedSalary_OneOccurrenceInWindow(t *testing.T) {
	// GIVEN: salary of 5000, active since 2025-01-01, no end, on the 15th
	// WHEN: expanding for [2025-09-01, 2025-09-16]
	// THEN: exactly one occurrence, 2025-09-15, amount 5000
	rec := monthlyRecord("salary", "2025-01-01", nil, 15, "5000")

	occs, err := recur.Expand(rec, window("2025-09-01", "2025-09-16"))
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, "2025-09-15", occs[0].Date.ISO())
	assert.Equal(t, recur.SeriesID("salary"), occs[0].SeriesID)
	assert.True(t, occs[0].Amount.Equal(decimal.RequireFromString("5000")))
}

func TestExpand_SubscriptionOn31st_ClampsToMonthEnd(t *testing.T) {
	// GIVEN: subscription of 29.90, Feb 2025 .. Feb 2026, nominal day 31
	// WHEN: expanding for September 2025
	// THEN: one occurrence clamped to 2025-09-30
	rec := monthlyRecord("netflix", "2025-02-01", strPtr("2026-02-01"), 31, "29.90")

	occs, err := recur.Expand(rec, window("2025-09-01", "2025-09-30"))
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, "2025-09-30", occs[0].Date.ISO(), "day 31 clamps to September's 30")
	assert.True(t, occs[0].Amount.Equal(decimal.RequireFromString("29.90")))
}

func TestExpand_NonRecurring_SingleOccurrenceInsideWindow(t *testing.T) {
	// GIVEN: one-off purchase of 100 on 2025-09-10
	// WHEN: expanding for [2025-09-01, 2025-09-16]
	// THEN: exactly that one occurrence
	rec := recur.RecurringRecord{
		ID:     "groceries",
		Amount: decimal.RequireFromString("100"),
		Date:   day("2025-09-10"),
	}

	occs, err := recur.Expand(rec, window("2025-09-01", "2025-09-16"))
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, "2025-09-10", occs[0].Date.ISO())
}

func TestExpand_NonRecurring_OutsideWindowEmitsNothing(t *testing.T) {
	rec := recur.RecurringRecord{
		ID:     "groceries",
		Amount: decimal.RequireFromString("100"),
		Date:   day("2025-10-02"),
	}

	occs, err := recur.Expand(rec, window("2025-09-01", "2025-09-16"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpand_ExcludedOccurrenceIsNeverEmitted(t *testing.T) {
	// GIVEN: the salary scenario with 2025-09-15 cancelled by the user
	// WHEN: expanding the same window
	// THEN: zero occurrences, even though the cadence would include it
	rec := monthlyRecord("salary", "2025-01-01", nil, 15, "5000")
	rec.ExcludedDates = []recur.DayDate{day("2025-09-15")}

	occs, err := recur.Expand(rec, window("2025-09-01", "2025-09-16"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

// =============================================================================
// CLAMPING AND BOUNDS
// =============================================================================

func TestExpand_February_ClampsTo28Or29(t *testing.T) {
	rec := monthlyRecord("rent", "2023-01-01", nil, 31, "1200")

	// Non-leap year.
	occs, err := recur.Expand(rec, window("2025-02-01", "2025-02-28"))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "2025-02-28", occs[0].Date.ISO())

	// Leap year.
	occs, err = recur.Expand(rec, window("2024-02-01", "2024-02-29"))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "2024-02-29", occs[0].Date.ISO())
}

func TestExpand_BoundaryDatesAreIncluded(t *testing.T) {
	// GIVEN: occurrences landing exactly on the window's start and end
	rec := monthlyRecord("r1", "2025-01-01", nil, 1, "10")
	occs, err := recur.Expand(rec, window("2025-03-01", "2025-04-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-04-01"}, dates(occs))
}

func TestExpand_MultipleMonths_AscendingOrderNoDuplicates(t *testing.T) {
	rec := monthlyRecord("rent", "2025-01-10", strPtr("2025-12-31"), 10, "1200")

	occs, err := recur.Expand(rec, window("2025-03-01", "2025-07-31"))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"2025-03-10", "2025-04-10", "2025-05-10", "2025-06-10", "2025-07-10"},
		dates(occs))

	seen := map[string]bool{}
	for _, o := range occs {
		assert.False(t, seen[o.Date.ISO()], "duplicate date %s", o.Date.ISO())
		seen[o.Date.ISO()] = true
	}
}

func TestExpand_PartialOverlap_FirstCandidateBeforeWindowDropped(t *testing.T) {
	// GIVEN: series starting mid-window-month with its nominal day before
	// the clipped start
	// WHEN: expanding from the 20th onward
	// THEN: the first month's candidate (the 10th) is outside and dropped
	rec := monthlyRecord("r1", "2025-01-10", strPtr("2025-12-31"), 10, "10")

	occs, err := recur.Expand(rec, window("2025-03-20", "2025-05-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-04-10", "2025-05-10"}, dates(occs))
}

func TestExpand_EmptyClipEmitsNothing(t *testing.T) {
	rec := monthlyRecord("r1", "2024-01-01", strPtr("2024-06-30"), 15, "10")
	occs, err := recur.Expand(rec, window("2025-01-01", "2025-12-31"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpand_UnboundedSeries_SingleOccurrenceAtClippedStart(t *testing.T) {
	// GIVEN: open-ended series queried with an open-ended window
	// THEN: single-occurrence fallback pinned at the clipped start
	rec := monthlyRecord("r1", "2025-01-01", nil, 15, "10")

	occs, err := recur.Expand(rec, recur.Window{Start: dayPtr("2025-06-01")})
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, "2025-06-01", occs[0].Date.ISO())
}

// =============================================================================
// DETERMINISM AND ITERATION BOUND
// =============================================================================

func TestExpand_Idempotent(t *testing.T) {
	rec := monthlyRecord("rent", "2025-01-10", strPtr("2025-12-31"), 10, "1200")
	rec.ExcludedDates = []recur.DayDate{day("2025-05-10")}
	w := window("2025-01-01", "2025-12-31")

	first, err := recur.Expand(rec, w)
	require.NoError(t, err)
	second, err := recur.Expand(rec, w)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical, order-stable output")
}

func TestExpand_LongWindowIsNotTruncated(t *testing.T) {
	// GIVEN: a three-year window (the old hardcoded 24-month cap would
	// have silently dropped the tail)
	rec := monthlyRecord("rent", "2020-01-01", nil, 1, "1200")

	occs, err := recur.Expand(rec, window("2023-01-01", "2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, occs, 36)
}

func TestExpand_MaxMonthsCap_TruncatesAndReports(t *testing.T) {
	// GIVEN: an expander with a 6-month hard cap over a 12-month span
	// THEN: 6 occurrences plus a BoundExceededError, never silence
	e := recur.Expander{MaxMonths: 6}
	rec := monthlyRecord("rent", "2025-01-01", nil, 1, "1200")

	occs, err := e.Expand(rec, window("2025-01-01", "2025-12-31"))

	assert.Len(t, occs, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, recur.ErrBoundExceeded)

	var bound *recur.BoundExceededError
	require.ErrorAs(t, err, &bound)
	assert.Equal(t, 12, bound.SpanMonths)
	assert.Equal(t, 6, bound.Limit)
}

func TestExpand_InvalidRecordIsRejectedNotPanicked(t *testing.T) {
	rec := recur.RecurringRecord{ID: "broken", Recurring: true}

	occs, err := recur.Expand(rec, window("2025-01-01", "2025-12-31"))

	assert.Empty(t, occs)
	require.Error(t, err)
	assert.ErrorIs(t, err, recur.ErrInvalidRecord)

	var invalid *recur.InvalidRecordError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, recur.SeriesID("broken"), invalid.SeriesID)
	assert.Equal(t, "date", invalid.Field)
}
