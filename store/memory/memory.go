// Package memory provides an in-memory ledger.Store for tests and
// demos.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	records map[recur.SeriesID]recur.RecurringRecord
	order   []recur.SeriesID
}

// Compile-time check.
var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{records: make(map[recur.SeriesID]recur.RecurringRecord)}
}

// ListRecords returns records in insertion order. The service's stable
// merge sort depends on this order for tie-breaking.
func (m *Store) ListRecords(_ context.Context) ([]recur.RecurringRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recur.RecurringRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneRecord(m.records[id]))
	}
	return out, nil
}

func (m *Store) GetRecord(_ context.Context, id recur.SeriesID) (recur.RecurringRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return recur.RecurringRecord{}, ledger.ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (m *Store) CreateRecord(_ context.Context, rec recur.RecurringRecord) (recur.RecurringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = recur.SeriesID(uuid.NewString())
	}
	if _, exists := m.records[rec.ID]; exists {
		return recur.RecurringRecord{}, ledger.ErrDuplicateID
	}
	m.records[rec.ID] = cloneRecord(rec)
	m.order = append(m.order, rec.ID)
	return rec, nil
}

func (m *Store) UpdateRecord(_ context.Context, rec recur.RecurringRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; !ok {
		return ledger.ErrRecordNotFound
	}
	m.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (m *Store) DeleteRecord(_ context.Context, id recur.SeriesID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ledger.ErrRecordNotFound
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AppendExclusion adds one cancelled date. Idempotent per date.
func (m *Store) AppendExclusion(_ context.Context, id recur.SeriesID, date recur.DayDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ledger.ErrRecordNotFound
	}
	for _, existing := range rec.ExcludedDates {
		if existing.Equal(date) {
			return nil
		}
	}
	rec.ExcludedDates = append(rec.ExcludedDates, date)
	m.records[id] = rec
	return nil
}

// cloneRecord copies slice-valued fields so callers can't mutate
// stored state through a returned record.
func cloneRecord(rec recur.RecurringRecord) recur.RecurringRecord {
	if len(rec.ExcludedDates) > 0 {
		excluded := make([]recur.DayDate, len(rec.ExcludedDates))
		copy(excluded, rec.ExcludedDates)
		rec.ExcludedDates = excluded
	}
	if rec.SeriesStart != nil {
		start := *rec.SeriesStart
		rec.SeriesStart = &start
	}
	if rec.SeriesEnd != nil {
		end := *rec.SeriesEnd
		rec.SeriesEnd = &end
	}
	return rec
}
