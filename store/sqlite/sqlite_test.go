package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/recur"
	"github.com/warp/ledger-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string) recur.RecurringRecord {
	start := recur.MustParseDayDate("2025-01-01")
	end := recur.MustParseDayDate("2025-12-31")
	return recur.RecurringRecord{
		ID:          recur.SeriesID(id),
		Kind:        "expense",
		Description: "Rent",
		Category:    "Housing",
		Wallet:      "checking",
		Amount:      decimal.RequireFromString("1200.50"),
		Recurring:   true,
		Date:        start,
		SeriesStart: &start,
		SeriesEnd:   &end,
		DayOfMonth:  31,
		ExcludedDates: []recur.DayDate{
			recur.MustParseDayDate("2025-05-31"),
		},
	}
}

func TestStore_CreateAndGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)
	assert.Equal(t, recur.SeriesID("rent"), created.ID)

	got, err := store.GetRecord(ctx, "rent")
	require.NoError(t, err)

	assert.Equal(t, "expense", got.Kind)
	assert.Equal(t, "Rent", got.Description)
	assert.Equal(t, "Housing", got.Category)
	assert.Equal(t, "checking", got.Wallet)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1200.50")), "amount %s", got.Amount)
	assert.True(t, got.Recurring)
	assert.Equal(t, "2025-01-01", got.Date.ISO())
	require.NotNil(t, got.SeriesStart)
	assert.Equal(t, "2025-01-01", got.SeriesStart.ISO())
	require.NotNil(t, got.SeriesEnd)
	assert.Equal(t, "2025-12-31", got.SeriesEnd.ISO())
	assert.Equal(t, 31, got.DayOfMonth)
	require.Len(t, got.ExcludedDates, 1)
	assert.Equal(t, "2025-05-31", got.ExcludedDates[0].ISO())
}

func TestStore_CreateGeneratesIDWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord("")
	rec.ID = ""
	created, err := store.CreateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestStore_CreateDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)
	_, err = store.CreateRecord(ctx, testRecord("rent"))
	assert.ErrorIs(t, err, ledger.ErrDuplicateID)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRecord(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrRecordNotFound)
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		rec := testRecord(id)
		_, err := store.CreateRecord(ctx, rec)
		require.NoError(t, err)
	}

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, recur.SeriesID("c"), records[0].ID)
	assert.Equal(t, recur.SeriesID("a"), records[1].ID)
	assert.Equal(t, recur.SeriesID("b"), records[2].ID)
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)

	rec := testRecord("rent")
	rec.Amount = decimal.RequireFromString("1350")
	rec.DayOfMonth = 5
	rec.SeriesEnd = nil
	require.NoError(t, store.UpdateRecord(ctx, rec))

	got, err := store.GetRecord(ctx, "rent")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1350")))
	assert.Equal(t, 5, got.DayOfMonth)
	assert.Nil(t, got.SeriesEnd)

	missing := testRecord("ghost")
	assert.ErrorIs(t, store.UpdateRecord(ctx, missing), ledger.ErrRecordNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)
	require.NoError(t, store.DeleteRecord(ctx, "rent"))

	_, err = store.GetRecord(ctx, "rent")
	assert.ErrorIs(t, err, ledger.ErrRecordNotFound)
	assert.ErrorIs(t, store.DeleteRecord(ctx, "rent"), ledger.ErrRecordNotFound)
}

func TestStore_AppendExclusion_PersistsAndDeduplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)

	sept := recur.MustParseDayDate("2025-09-30")
	require.NoError(t, store.AppendExclusion(ctx, "rent", sept))
	require.NoError(t, store.AppendExclusion(ctx, "rent", sept), "same date twice is a no-op")

	got, err := store.GetRecord(ctx, "rent")
	require.NoError(t, err)
	require.Len(t, got.ExcludedDates, 2, "seed exclusion plus the new one")
	assert.Equal(t, "2025-05-31", got.ExcludedDates[0].ISO())
	assert.Equal(t, "2025-09-30", got.ExcludedDates[1].ISO())

	assert.ErrorIs(t, store.AppendExclusion(ctx, "ghost", sept), ledger.ErrRecordNotFound)
}

func TestStore_WorksWithExpansionEngine(t *testing.T) {
	// Storage round trip feeding the engine: the persisted exclusion
	// must suppress exactly its occurrence.
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, testRecord("rent"))
	require.NoError(t, err)

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	occs, err := recur.Expand(records[0], recur.NewWindow(
		recur.MustParseDayDate("2025-04-01"), recur.MustParseDayDate("2025-06-30")))
	require.NoError(t, err)

	got := make([]string, 0, len(occs))
	for _, o := range occs {
		got = append(got, o.Date.ISO())
	}
	// Day 31 clamps to 30 in April and June; May 31 is excluded.
	assert.Equal(t, []string{"2025-04-30", "2025-06-30"}, got)
}
