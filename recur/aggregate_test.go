package recur_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// SUM
// =============================================================================

func TestSum_MatchesPerRecordExpansion(t *testing.T) {
	// SPEC: sum(records, window) == Σ amount over expand(r, window)
	records := []recur.RecurringRecord{
		monthlyRecord("salary", "2025-01-01", nil, 15, "5000"),
		monthlyRecord("rent", "2025-01-01", strPtr("2025-12-31"), 1, "1200"),
		{ID: "oneoff", Amount: decimal.RequireFromString("99.50"), Date: day("2025-06-10")},
		{ID: "outside", Amount: decimal.RequireFromString("77"), Date: day("2024-06-10")},
	}
	w := window("2025-04-01", "2025-06-30")

	manual := decimal.Zero
	for _, rec := range records {
		occs, err := recur.Expand(rec, w)
		require.NoError(t, err)
		for _, occ := range occs {
			manual = manual.Add(occ.Amount)
		}
	}

	total, report := recur.Sum(records, w)

	assert.True(t, total.Equal(manual), "sum %s != manual %s", total, manual)
	// 3 salaries + 3 rents + 1 one-off
	assert.True(t, total.Equal(decimal.RequireFromString("18699.50")), "got %s", total)
	assert.Equal(t, 4, report.Records)
	assert.False(t, report.Partial())
}

func TestSum_DecimalAccumulationHasNoDrift(t *testing.T) {
	// 0.1 twelve times must be exactly 1.2, not 1.2000000000000002.
	rec := monthlyRecord("cents", "2025-01-01", strPtr("2025-12-31"), 5, "0.1")

	total, _ := recur.Sum([]recur.RecurringRecord{rec}, window("2025-01-01", "2025-12-31"))

	assert.True(t, total.Equal(decimal.RequireFromString("1.2")), "got %s", total)
}

func TestSum_SkipsBadRecordsAndReportsThem(t *testing.T) {
	// GIVEN: one good record and one with no usable date
	// THEN: the batch total still includes the good record, and the
	//       report carries the skip
	records := []recur.RecurringRecord{
		monthlyRecord("good", "2025-01-01", strPtr("2025-12-31"), 1, "10"),
		{ID: "broken", Recurring: true, Amount: decimal.New(1000, 0)},
	}

	total, report := recur.Sum(records, window("2025-01-01", "2025-03-31"))

	assert.True(t, total.Equal(decimal.New(30, 0)), "got %s", total)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.Partial())
	require.Len(t, report.Issues, 1)
	assert.ErrorIs(t, report.Issues[0], recur.ErrInvalidRecord)
}

func TestSum_CountsTruncatedSeries(t *testing.T) {
	e := recur.Expander{MaxMonths: 2}
	records := []recur.RecurringRecord{
		monthlyRecord("rent", "2025-01-01", nil, 1, "100"),
	}

	total, report := e.Sum(records, window("2025-01-01", "2025-12-31"))

	assert.True(t, total.Equal(decimal.New(200, 0)), "truncated but counted: got %s", total)
	assert.Equal(t, 1, report.Truncated)
	assert.True(t, report.Partial())
}

// =============================================================================
// BREAKDOWN
// =============================================================================

func TestBreakdown_GroupsPerSeriesInInputOrder(t *testing.T) {
	records := []recur.RecurringRecord{
		monthlyRecord("rent", "2025-01-01", strPtr("2025-12-31"), 1, "1200"),
		monthlyRecord("salary", "2025-01-01", nil, 15, "5000"),
		monthlyRecord("dormant", "2020-01-01", strPtr("2020-12-31"), 1, "10"),
	}

	entries, report := recur.Breakdown(records, window("2025-04-01", "2025-05-31"))

	require.Len(t, entries, 2, "series with no occurrences are omitted")
	assert.Equal(t, recur.SeriesID("rent"), entries[0].SeriesID)
	assert.Equal(t, recur.SeriesID("salary"), entries[1].SeriesID)

	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, 2, len(entries[0].Dates))
	assert.Equal(t, "2025-04-01", entries[0].Dates[0].ISO())
	assert.Equal(t, "2025-05-01", entries[0].Dates[1].ISO())

	assert.Equal(t, "2025-04-15", entries[1].Dates[0].ISO())
	assert.Equal(t, "2025-05-15", entries[1].Dates[1].ISO())

	assert.Equal(t, 3, report.Records)
	assert.False(t, report.Partial())
}

func TestBreakdown_ExclusionRemovesOnlyThatDate(t *testing.T) {
	rec := monthlyRecord("rent", "2025-01-01", strPtr("2025-12-31"), 1, "1200")
	rec.ExcludedDates = []recur.DayDate{day("2025-05-01")}

	entries, _ := recur.Breakdown([]recur.RecurringRecord{rec}, window("2025-04-01", "2025-06-30"))

	require.Len(t, entries, 1)
	assert.Equal(t, []string{"2025-04-01", "2025-06-01"}, func() []string {
		out := make([]string, 0, len(entries[0].Dates))
		for _, d := range entries[0].Dates {
			out = append(out, d.ISO())
		}
		return out
	}())
}
