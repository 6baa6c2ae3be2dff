/*
Package sqlite provides the SQLite-backed ledger.Store.

PURPOSE:
  Production persistence for recurring records. The same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

SCHEMA:
  records: one row per record (series or one-shot). Dates are stored
  as ISO-8601 day strings, amounts as decimal TEXT (never REAL - the
  engine's no-float rule extends to storage), excluded dates as a JSON
  array of day strings.

DATA QUALITY:
  A row whose date columns fail to parse is NOT dropped at load time:
  it is returned with a zero Date so the expansion engine can count and
  report it as a skipped record. One corrupt row must never abort a
  listing or a report. Unparsable entries inside excluded_dates are
  dropped individually.

WAL MODE:
  Opened with WAL for better concurrency: readers don't block, single
  writer, better crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - ledger/store.go: interface contract
  - store/memory:    in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/recur"
)

// Store implements ledger.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ ledger.Store = (*Store)(nil)

// New creates a store backed by the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		wallet TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		recurring INTEGER NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		series_start TEXT,
		series_end TEXT,
		day_of_month INTEGER NOT NULL DEFAULT 0,
		excluded_dates TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_recurring ON records(recurring);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// READS
// =============================================================================

const recordColumns = `id, kind, description, category, wallet, amount,
	recurring, date, series_start, series_end, day_of_month, excluded_dates`

// ListRecords returns all records in insertion order (rowid), so the
// service's stable sort tie-breaks on it. created_at is an audit
// column; its RFC3339Nano strings don't sort reliably.
func (s *Store) ListRecords(ctx context.Context) ([]recur.RecurringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []recur.RecurringRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) GetRecord(ctx context.Context, id recur.SeriesID) (recur.RecurringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, string(id))
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return recur.RecurringRecord{}, ledger.ErrRecordNotFound
	}
	if err != nil {
		return recur.RecurringRecord{}, err
	}
	return rec, nil
}

// =============================================================================
// WRITES
// =============================================================================

func (s *Store) CreateRecord(ctx context.Context, rec recur.RecurringRecord) (recur.RecurringRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = recur.SeriesID(uuid.NewString())
	}

	excluded, err := marshalExcluded(rec.ExcludedDates)
	if err != nil {
		return recur.RecurringRecord{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records
			(id, kind, description, category, wallet, amount, recurring,
			 date, series_start, series_end, day_of_month, excluded_dates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), rec.Kind, rec.Description, rec.Category, rec.Wallet,
		rec.Amount.String(), boolToInt(rec.Recurring),
		rec.Date.ISO(), dayOrNull(rec.SeriesStart), dayOrNull(rec.SeriesEnd),
		rec.DayOfMonth, excluded, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return recur.RecurringRecord{}, ledger.ErrDuplicateID
		}
		return recur.RecurringRecord{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateRecord(ctx context.Context, rec recur.RecurringRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	excluded, err := marshalExcluded(rec.ExcludedDates)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE records SET
			kind = ?, description = ?, category = ?, wallet = ?, amount = ?,
			recurring = ?, date = ?, series_start = ?, series_end = ?,
			day_of_month = ?, excluded_dates = ?
		WHERE id = ?`,
		rec.Kind, rec.Description, rec.Category, rec.Wallet, rec.Amount.String(),
		boolToInt(rec.Recurring), rec.Date.ISO(),
		dayOrNull(rec.SeriesStart), dayOrNull(rec.SeriesEnd),
		rec.DayOfMonth, excluded, string(rec.ID))
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteRecord(ctx context.Context, id recur.SeriesID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireRow(res)
}

// AppendExclusion reads the current exclusion list and writes it back
// with the date appended, inside one transaction.
func (s *Store) AppendExclusion(ctx context.Context, id recur.SeriesID, date recur.DayDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT excluded_dates FROM records WHERE id = ?`, string(id)).Scan(&raw)
	if err == sql.ErrNoRows {
		return ledger.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("read exclusions: %w", err)
	}

	var dates []string
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		// Corrupt column: rebuild from scratch rather than fail the user action.
		dates = nil
	}
	for _, existing := range dates {
		if existing == date.ISO() {
			return tx.Commit() // already excluded, no-op
		}
	}
	dates = append(dates, date.ISO())

	encoded, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("encode exclusions: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET excluded_dates = ? WHERE id = ?`,
		string(encoded), string(id)); err != nil {
		return fmt.Errorf("write exclusions: %w", err)
	}
	return tx.Commit()
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a row to a record. Unparsable date columns yield a
// zero-valued DayDate instead of an error so the expansion engine can
// report the record as a data-quality skip.
func scanRecord(row rowScanner) (recur.RecurringRecord, error) {
	var (
		id, kind, description, category, wallet string
		amountStr, dateStr, excludedRaw         string
		seriesStart, seriesEnd                  sql.NullString
		recurring, dayOfMonth                   int
	)
	err := row.Scan(&id, &kind, &description, &category, &wallet, &amountStr,
		&recurring, &dateStr, &seriesStart, &seriesEnd, &dayOfMonth, &excludedRaw)
	if err != nil {
		return recur.RecurringRecord{}, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		amount = decimal.Zero
	}

	rec := recur.RecurringRecord{
		ID:          recur.SeriesID(id),
		Kind:        kind,
		Description: description,
		Category:    category,
		Wallet:      wallet,
		Amount:      amount,
		Recurring:   recurring != 0,
		DayOfMonth:  dayOfMonth,
	}

	if d, err := recur.ParseDayDate(dateStr); err == nil {
		rec.Date = d
	}
	if seriesStart.Valid {
		if d, err := recur.ParseDayDate(seriesStart.String); err == nil {
			rec.SeriesStart = &d
		}
	}
	if seriesEnd.Valid {
		if d, err := recur.ParseDayDate(seriesEnd.String); err == nil {
			rec.SeriesEnd = &d
		}
	}

	var excludedStrs []string
	if err := json.Unmarshal([]byte(excludedRaw), &excludedStrs); err == nil {
		for _, s := range excludedStrs {
			if d, err := recur.ParseDayDate(s); err == nil {
				rec.ExcludedDates = append(rec.ExcludedDates, d)
			}
		}
	}
	return rec, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func marshalExcluded(dates []recur.DayDate) (string, error) {
	strs := make([]string, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			strs = append(strs, d.ISO())
		}
	}
	encoded, err := json.Marshal(strs)
	if err != nil {
		return "", fmt.Errorf("encode exclusions: %w", err)
	}
	return string(encoded), nil
}

func dayOrNull(d *recur.DayDate) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.ISO()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrRecordNotFound
	}
	return nil
}
