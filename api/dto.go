/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain
  types so the wire contract can evolve independently.

DATES ON THE WIRE:
  Always plain YYYY-MM-DD strings. Occurrences are calendar dates, not
  instants; serializing them with a timezone would reintroduce the
  off-by-one-day bugs the engine's midday anchoring exists to prevent.

AMOUNTS ON THE WIRE:
  decimal.Decimal marshals as a quoted decimal string, which keeps
  amounts exact through any JSON client.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// RecordDTO represents a stored record (series or one-shot).
type RecordDTO struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Wallet      string          `json:"wallet,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Recurring   bool            `json:"recurring"`
	Date        string          `json:"date"`
	SeriesStart string          `json:"series_start,omitempty"`
	SeriesEnd   string          `json:"series_end,omitempty"`
	DayOfMonth  int             `json:"day_of_month,omitempty"`
	Excluded    []string        `json:"excluded_dates,omitempty"`
}

// SaveRecordRequest is the create/update request body. The same shape
// serves both; create may omit the id.
type SaveRecordRequest struct {
	ID          string          `json:"id,omitempty"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Wallet      string          `json:"wallet"`
	Amount      decimal.Decimal `json:"amount"`
	Recurring   bool            `json:"recurring"`
	Date        string          `json:"date"`
	SeriesStart string          `json:"series_start,omitempty"`
	SeriesEnd   string          `json:"series_end,omitempty"`
	DayOfMonth  int             `json:"day_of_month,omitempty"`
}

// =============================================================================
// TRANSACTION LISTING TYPES
// =============================================================================

// TransactionDTO is one materialized occurrence in a listing.
type TransactionDTO struct {
	OccurrenceID string          `json:"occurrence_id"`
	SeriesID     string          `json:"series_id"`
	Kind         string          `json:"kind"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Wallet       string          `json:"wallet,omitempty"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Recurring    bool            `json:"recurring"`
	// Expanded marks derived instances: deleting one goes through the
	// exclude-occurrence endpoint, never a record delete.
	Expanded bool `json:"expanded"`
}

// TransactionPageDTO is one page of the merged listing.
type TransactionPageDTO struct {
	Items          []TransactionDTO `json:"items"`
	Page           int              `json:"page"`
	PageSize       int              `json:"page_size"`
	Total          int              `json:"total"`
	SkippedRecords int              `json:"skipped_records,omitempty"`
}

// ExcludeOccurrenceRequest cancels a single occurrence by date.
type ExcludeOccurrenceRequest struct {
	Date string `json:"date"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// SummaryDTO is the windowed totals response.
type SummaryDTO struct {
	Income          decimal.Decimal `json:"income"`
	Expense         decimal.Decimal `json:"expense"`
	Balance         decimal.Decimal `json:"balance"`
	SkippedRecords  int             `json:"skipped_records,omitempty"`
	TruncatedSeries int             `json:"truncated_series,omitempty"`
}

// BalanceDTO is the running-balance response.
type BalanceDTO struct {
	Until   string          `json:"until"`
	Balance decimal.Decimal `json:"balance"`
}

// BreakdownEntryDTO is one series' audit line.
type BreakdownEntryDTO struct {
	SeriesID string          `json:"series_id"`
	Amount   decimal.Decimal `json:"amount"`
	Dates    []string        `json:"occurrence_dates"`
}

// BreakdownDTO is the per-series audit response.
type BreakdownDTO struct {
	Income         []BreakdownEntryDTO `json:"income"`
	Expense        []BreakdownEntryDTO `json:"expense"`
	SkippedRecords int                 `json:"skipped_records,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRecordDTO(rec recur.RecurringRecord) RecordDTO {
	dto := RecordDTO{
		ID:          string(rec.ID),
		Kind:        rec.Kind,
		Description: rec.Description,
		Category:    rec.Category,
		Wallet:      rec.Wallet,
		Amount:      rec.Amount,
		Recurring:   rec.Recurring,
		DayOfMonth:  rec.DayOfMonth,
	}
	if !rec.Date.IsZero() {
		dto.Date = rec.Date.ISO()
	}
	if rec.SeriesStart != nil {
		dto.SeriesStart = rec.SeriesStart.ISO()
	}
	if rec.SeriesEnd != nil {
		dto.SeriesEnd = rec.SeriesEnd.ISO()
	}
	for _, d := range rec.ExcludedDates {
		dto.Excluded = append(dto.Excluded, d.ISO())
	}
	return dto
}

func toTransactionDTO(m recur.MaterializedOccurrence) TransactionDTO {
	return TransactionDTO{
		OccurrenceID: m.OccurrenceID,
		SeriesID:     string(m.SeriesID),
		Kind:         m.Kind,
		Description:  m.Description,
		Category:     m.Category,
		Wallet:       m.Wallet,
		Date:         m.Date.ISO(),
		Amount:       m.Amount,
		Recurring:    m.Recurring,
		Expanded:     m.Expanded,
	}
}

func toBreakdownEntryDTOs(entries []recur.BreakdownEntry) []BreakdownEntryDTO {
	out := make([]BreakdownEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := BreakdownEntryDTO{
			SeriesID: string(e.SeriesID),
			Amount:   e.Amount,
			Dates:    make([]string, 0, len(e.Dates)),
		}
		for _, d := range e.Dates {
			dto.Dates = append(dto.Dates, d.ISO())
		}
		out = append(out, dto)
	}
	return out
}

func toSummaryDTO(s ledger.Summary) SummaryDTO {
	return SummaryDTO{
		Income:          s.Income,
		Expense:         s.Expense,
		Balance:         s.Balance,
		SkippedRecords:  s.SkippedRecords,
		TruncatedSeries: s.TruncatedSeries,
	}
}
