/*
service.go - Batch expansion service over the storage collaborator

PURPOSE:
  The single place every caller (reports, dashboards, transaction
  listings, exclusion actions) goes through. Before this consolidation
  the month-stepping logic existed in five near-identical copies with
  subtly different clamping rules; any new caller must use this
  service, never reimplement expansion locally.

ORDERING:
  Occurrences from multiple series are merged with a STABLE sort by
  date; ties keep the store's insertion order. Identical queries return
  identical pages.

PARTIAL RESULTS:
  Records with unusable dates are skipped and counted, never fatal.
  The counters ride along on every result type.
*/
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// SERVICE
// =============================================================================

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Service ties the storage collaborator to the expansion engine.
type Service struct {
	store    Store
	expander recur.Expander
}

// NewService creates a service with a non-truncating expander.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewServiceWithExpander creates a service with a caller-configured
// expander (e.g. a hard month cap for defensive deployments).
func NewServiceWithExpander(store Store, expander recur.Expander) *Service {
	return &Service{store: store, expander: expander}
}

// =============================================================================
// SUMMARY - Windowed totals
// =============================================================================

// Summary expands all records in the window and totals them by kind.
func (s *Service) Summary(ctx context.Context, w recur.Window) (Summary, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list records: %w", err)
	}

	incomes, expenses := splitByKind(records)
	incomeTotal, incomeReport := s.expander.Sum(incomes, w)
	expenseTotal, expenseReport := s.expander.Sum(expenses, w)

	return Summary{
		Income:          incomeTotal,
		Expense:         expenseTotal,
		Balance:         incomeTotal.Sub(expenseTotal),
		SkippedRecords:  incomeReport.Skipped + expenseReport.Skipped,
		TruncatedSeries: incomeReport.Truncated + expenseReport.Truncated,
	}, nil
}

// BalanceAt returns the signed net of all occurrences up to and
// including the given day, across the full history. Used by the
// accumulated-balance dashboard line.
func (s *Service) BalanceAt(ctx context.Context, until recur.DayDate) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, recur.Window{End: &until})
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Balance, nil
}

// =============================================================================
// BREAKDOWN - Per-series audit view
// =============================================================================

// Breakdown expands all records in the window and groups occurrence
// dates per series, split by kind.
func (s *Service) Breakdown(ctx context.Context, w recur.Window) (BreakdownReport, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return BreakdownReport{}, fmt.Errorf("list records: %w", err)
	}

	incomes, expenses := splitByKind(records)
	incomeEntries, incomeReport := s.expander.Breakdown(incomes, w)
	expenseEntries, expenseReport := s.expander.Breakdown(expenses, w)

	return BreakdownReport{
		Income:         incomeEntries,
		Expense:        expenseEntries,
		SkippedRecords: incomeReport.Skipped + expenseReport.Skipped,
	}, nil
}

// =============================================================================
// TRANSACTION LISTING - Materialized, merged, paginated
// =============================================================================

// ListTransactions materializes every occurrence in the window, merges
// them across series with a stable date sort, and returns the
// requested page. Page numbering is 1-based; out-of-range pages return
// an empty item list with the correct Total.
func (s *Service) ListTransactions(ctx context.Context, w recur.Window, page, pageSize int) (TransactionPage, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return TransactionPage{}, fmt.Errorf("list records: %w", err)
	}

	occurrences, report := s.expander.Materialize(records, w)

	// Stable: ties keep insertion order from the store.
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	var items []recur.MaterializedOccurrence
	if start < len(occurrences) {
		if end > len(occurrences) {
			end = len(occurrences)
		}
		items = occurrences[start:end]
	}

	return TransactionPage{
		Items:          items,
		Page:           page,
		PageSize:       pageSize,
		Total:          len(occurrences),
		SkippedRecords: report.Skipped,
	}, nil
}

// =============================================================================
// EXCLUSION - Cancel one occurrence of a series
// =============================================================================

// ExcludeOccurrence cancels exactly one occurrence, identified by its
// composite id. The series definition is untouched; the next
// generation call simply stops emitting that date.
func (s *Service) ExcludeOccurrence(ctx context.Context, occurrenceID string) error {
	seriesID, date, err := recur.ParseOccurrenceID(occurrenceID)
	if err != nil {
		return err
	}
	return s.Exclude(ctx, seriesID, date)
}

// Exclude is the (seriesID, date) form of ExcludeOccurrence.
func (s *Service) Exclude(ctx context.Context, seriesID recur.SeriesID, date recur.DayDate) error {
	rec, err := s.store.GetRecord(ctx, seriesID)
	if err != nil {
		return err
	}
	if !rec.Recurring {
		return fmt.Errorf("%w: %s", ErrNotRecurring, seriesID)
	}
	if err := s.store.AppendExclusion(ctx, seriesID, date); err != nil {
		return fmt.Errorf("append exclusion: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func splitByKind(records []recur.RecurringRecord) (incomes, expenses []recur.RecurringRecord) {
	for _, rec := range records {
		if KindOf(rec) == KindIncome {
			incomes = append(incomes, rec)
		} else {
			expenses = append(expenses, rec)
		}
	}
	return incomes, expenses
}
