// Package ledger implements the personal-finance domain on top of the
// recur expansion engine: record kinds, the storage collaborator
// interface, and the batch service that reports, lists and excludes
// occurrences with identical semantics for every caller.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// RECORD KINDS
// =============================================================================

// Kind classifies a record's contribution to the balance. Amounts are
// stored positive; the kind carries the sign.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == KindIncome || k == KindExpense }

// KindOf reads the kind off a record, defaulting unknown values to
// expense so a mislabeled record can never inflate the balance.
func KindOf(rec recur.RecurringRecord) Kind {
	if k := Kind(rec.Kind); k.Valid() {
		return k
	}
	return KindExpense
}

// =============================================================================
// SERVICE RESULT TYPES
// =============================================================================

// Summary is the windowed totals view consumed by dashboards and
// balance cards. Partial-result counters accompany the numbers so
// callers can flag incomplete data instead of hiding it.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal

	SkippedRecords  int
	TruncatedSeries int
}

// TransactionPage is one page of the materialized transaction listing.
type TransactionPage struct {
	Items    []recur.MaterializedOccurrence
	Page     int
	PageSize int
	// Total is the number of occurrences across all pages.
	Total int

	SkippedRecords int
}

// BreakdownReport is the per-series audit view, split by kind.
type BreakdownReport struct {
	Income  []recur.BreakdownEntry
	Expense []recur.BreakdownEntry

	SkippedRecords int
}
