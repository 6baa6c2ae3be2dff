/*
seed.go - Demo data loader for testing and demonstrations

PURPOSE:
  Populates the store with a realistic household: a salary, rent, a
  couple of subscriptions and some one-off purchases. Enough to make
  the transaction listing, summary and breakdown endpoints show
  interesting data, including a clamped day-31 series and a cancelled
  occurrence.

USAGE VIA API:
  POST /api/demo/seed

NOTE:
  Seeding does not clear existing data; records are created with fixed
  ids, so seeding twice reports a conflict. Only use in development.

SEE ALSO:
  - handlers.go: the rest of the handler set
*/
package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// DEMO RECORDS
// =============================================================================

func demoRecords() []recur.RecurringRecord {
	d := recur.MustParseDayDate

	salaryStart := d("2025-01-01")
	rentStart := d("2025-01-01")
	rentEnd := d("2025-12-31")
	gymStart := d("2025-03-01")

	return []recur.RecurringRecord{
		{
			ID:          "demo-salary",
			Kind:        "income",
			Description: "Monthly salary",
			Category:    "Salary",
			Wallet:      "checking",
			Amount:      decimal.RequireFromString("5000"),
			Recurring:   true,
			Date:        salaryStart,
			SeriesStart: &salaryStart,
			DayOfMonth:  15,
		},
		{
			ID:          "demo-rent",
			Kind:        "expense",
			Description: "Rent",
			Category:    "Housing",
			Wallet:      "checking",
			Amount:      decimal.RequireFromString("1200"),
			Recurring:   true,
			Date:        rentStart,
			SeriesStart: &rentStart,
			SeriesEnd:   &rentEnd,
			DayOfMonth:  1,
		},
		{
			// Billed on the 31st: exercises month-length clamping.
			ID:          "demo-streaming",
			Kind:        "expense",
			Description: "Streaming subscription",
			Category:    "Entertainment",
			Wallet:      "credit",
			Amount:      decimal.RequireFromString("29.90"),
			Recurring:   true,
			Date:        d("2025-02-01"),
			DayOfMonth:  31,
		},
		{
			// One occurrence cancelled by the user.
			ID:            "demo-gym",
			Kind:          "expense",
			Description:   "Gym membership",
			Category:      "Health",
			Wallet:        "checking",
			Amount:        decimal.RequireFromString("80"),
			Recurring:     true,
			Date:          gymStart,
			SeriesStart:   &gymStart,
			DayOfMonth:    5,
			ExcludedDates: []recur.DayDate{d("2025-08-05")},
		},
		{
			ID:          "demo-laptop",
			Kind:        "expense",
			Description: "Laptop",
			Category:    "Electronics",
			Wallet:      "credit",
			Amount:      decimal.RequireFromString("1899.99"),
			Date:        d("2025-06-12"),
		},
		{
			ID:          "demo-freelance",
			Kind:        "income",
			Description: "Freelance project",
			Category:    "Side income",
			Wallet:      "checking",
			Amount:      decimal.RequireFromString("850"),
			Date:        d("2025-07-03"),
		},
	}
}

// =============================================================================
// HANDLER
// =============================================================================

// SeedDemo loads the demo record set.
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	created, err := h.seedDemo(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, "Seeding failed (already seeded?)", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"records_created": created})
}

func (h *Handler) seedDemo(ctx context.Context) (int, error) {
	created := 0
	for _, rec := range demoRecords() {
		if _, err := h.Store.CreateRecord(ctx, rec); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
