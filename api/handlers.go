/*
handlers.go - HTTP API handlers for the recurring ledger

PURPOSE:
  Exposes the ledger service via REST. Handles HTTP request/response,
  JSON serialization, and delegates all expansion semantics to the
  service - handlers never step months themselves.

ENDPOINTS:
  Records:
    GET    /api/records                    List raw records
    POST   /api/records                    Create record
    GET    /api/records/{id}               Get record
    PUT    /api/records/{id}               Update record
    DELETE /api/records/{id}               Delete whole series

  Transactions (materialized occurrences):
    GET    /api/transactions               Merged, paginated listing
    POST   /api/transactions/{id}/exclude-occurrence
                                           Cancel one occurrence

  Reports:
    GET    /api/reports/summary            Windowed totals
    GET    /api/reports/balance            Running balance up to a day
    GET    /api/reports/breakdown          Per-series audit view

  Demo:
    POST   /api/demo/seed                  Load sample records

ERROR HANDLING:
  - 400: invalid input (dates, amounts, malformed ids)
  - 404: unknown record
  - 409: duplicate id, excluding a non-recurring record
  - 500: internal errors

SEE ALSO:
  - dto.go:    request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/recur"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   ledger.Store
	Service *ledger.Service
}

// NewHandler creates a handler over the given store.
func NewHandler(store ledger.Store) *Handler {
	return &Handler{
		Store:   store,
		Service: ledger.NewService(store),
	}
}

// =============================================================================
// RECORD CRUD
// =============================================================================

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := recur.SeriesID(chi.URLParam(r, "id"))
	rec, err := h.Store.GetRecord(r.Context(), id)
	if errors.Is(err, ledger.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := recordFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	created, err := h.Store.CreateRecord(r.Context(), rec)
	if errors.Is(err, ledger.ErrDuplicateID) {
		writeError(w, http.StatusConflict, "Record id already exists", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create record", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(created))
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	rec, err := recordFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	// Updating a series definition must not drop its exclusions.
	existing, err := h.Store.GetRecord(r.Context(), rec.ID)
	if errors.Is(err, ledger.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load record", err)
		return
	}
	rec.ExcludedDates = existing.ExcludedDates

	if err := h.Store.UpdateRecord(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := recur.SeriesID(chi.URLParam(r, "id"))
	err := h.Store.DeleteRecord(r.Context(), id)
	if errors.Is(err, ledger.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION LISTING AND EXCLUSION
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range (use YYYY-MM-DD)", err)
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 50)

	result, err := h.Service.ListTransactions(r.Context(), window, page, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	dto := TransactionPageDTO{
		Items:          make([]TransactionDTO, 0, len(result.Items)),
		Page:           result.Page,
		PageSize:       result.PageSize,
		Total:          result.Total,
		SkippedRecords: result.SkippedRecords,
	}
	for _, item := range result.Items {
		dto.Items = append(dto.Items, toTransactionDTO(item))
	}
	writeJSON(w, http.StatusOK, dto)
}

// ExcludeOccurrence cancels one occurrence of a recurring series. The
// body carries the date; the URL carries the series id. Clients that
// only hold the composite occurrence id can split it on "::".
func (h *Handler) ExcludeOccurrence(w http.ResponseWriter, r *http.Request) {
	seriesID := recur.SeriesID(chi.URLParam(r, "id"))

	var req ExcludeOccurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := recur.ParseDayDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	err = h.Service.Exclude(r.Context(), seriesID, date)
	switch {
	case errors.Is(err, ledger.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Record not found", nil)
	case errors.Is(err, ledger.ErrNotRecurring):
		writeError(w, http.StatusConflict, "Record is not recurring; delete it instead", nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to exclude occurrence", err)
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range (use YYYY-MM-DD)", err)
		return
	}

	summary, err := h.Service.Summary(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetBalance returns the running balance of the whole history up to
// (and including) the given day.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("until")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing 'until' query parameter", nil)
		return
	}
	until, err := recur.ParseDayDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	balance, err := h.Service.BalanceAt(r.Context(), until)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{Until: until.ISO(), Balance: balance})
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range (use YYYY-MM-DD)", err)
		return
	}

	breakdown, err := h.Service.Breakdown(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute breakdown", err)
		return
	}
	writeJSON(w, http.StatusOK, BreakdownDTO{
		Income:         toBreakdownEntryDTOs(breakdown.Income),
		Expense:        toBreakdownEntryDTOs(breakdown.Expense),
		SkippedRecords: breakdown.SkippedRecords,
	})
}

// =============================================================================
// REQUEST PARSING HELPERS
// =============================================================================

// parseWindow reads optional start/end query params. Absent params
// leave that side of the window unbounded.
func parseWindow(r *http.Request) (recur.Window, error) {
	var w recur.Window
	if s := r.URL.Query().Get("start"); s != "" {
		d, err := recur.ParseDayDate(s)
		if err != nil {
			return recur.Window{}, err
		}
		w.Start = &d
	}
	if s := r.URL.Query().Get("end"); s != "" {
		d, err := recur.ParseDayDate(s)
		if err != nil {
			return recur.Window{}, err
		}
		w.End = &d
	}
	return w, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func recordFromRequest(req SaveRecordRequest) (recur.RecurringRecord, error) {
	if !ledger.Kind(req.Kind).Valid() {
		return recur.RecurringRecord{}, errors.New("kind must be income or expense")
	}
	if req.Date == "" {
		return recur.RecurringRecord{}, errors.New("date is required")
	}
	date, err := recur.ParseDayDate(req.Date)
	if err != nil {
		return recur.RecurringRecord{}, errors.New("invalid date (use YYYY-MM-DD)")
	}

	rec := recur.RecurringRecord{
		ID:          recur.SeriesID(req.ID),
		Kind:        req.Kind,
		Description: req.Description,
		Category:    req.Category,
		Wallet:      req.Wallet,
		Amount:      req.Amount,
		Recurring:   req.Recurring,
		Date:        date,
		DayOfMonth:  req.DayOfMonth,
	}
	if req.SeriesStart != "" {
		d, err := recur.ParseDayDate(req.SeriesStart)
		if err != nil {
			return recur.RecurringRecord{}, errors.New("invalid series_start (use YYYY-MM-DD)")
		}
		rec.SeriesStart = &d
	}
	if req.SeriesEnd != "" {
		d, err := recur.ParseDayDate(req.SeriesEnd)
		if err != nil {
			return recur.RecurringRecord{}, errors.New("invalid series_end (use YYYY-MM-DD)")
		}
		rec.SeriesEnd = &d
	}
	return rec, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
