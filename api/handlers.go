/*
handlers.go - HTTP API handlers for the sentence calculator

PURPOSE:
  Exposes the calculation packages via REST API. Handles HTTP
  request/response, JSON serialization, input validation, and files every
  calculation in the history store.

ENDPOINTS:
  Catalog:
    GET    /api/fractions               Execution fraction catalog
    GET    /api/fines/fractions         Fine fraction catalog
    GET    /api/minimum-wages?date=     Minimum wage in force on a date

  Calculations:
    POST   /api/calculations/execution  Single fraction over a base
    POST   /api/calculations/batch      Several fractions, aggregate report
    POST   /api/dosimetry               Three-phase sentence fixing
    POST   /api/fines                   Fine (pena de multa)

  History:
    GET    /api/calculations            Filed calculations (?kind=&limit=)
    GET    /api/calculations/{id}       One filed calculation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (durations, fractions, enums)
  3. Call the pure calculation packages
  4. Render the memorial
  5. File a history record
  6. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with a machine-readable code:
  - 400: invalid_duration, invalid_fraction, unknown_fraction, invalid_mode,
         invalid_operation, invalid_date, invalid_body, empty_batch
  - 404: wage_not_found, not_found
  - 500: internal

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/dosimetry-engine/catalog"
	"github.com/warp/dosimetry-engine/dosimetry"
	"github.com/warp/dosimetry-engine/fine"
	"github.com/warp/dosimetry-engine/history"
	"github.com/warp/dosimetry-engine/penal"
	"github.com/warp/dosimetry-engine/report"
	"go.uber.org/zap"
)

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 50
	maxListLimit     = 500
)

var (
	errEmptyBatch  = errors.New("batch has no items")
	errInvalidBody = errors.New("invalid request body")
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   history.Store
	Catalog *catalog.Catalog
	Logger  *zap.Logger
	Metrics *Metrics

	now func() time.Time
}

// NewHandler creates a handler. A nil catalog selects the embedded one; a
// nil logger discards logs.
func NewHandler(store history.Store, cat *catalog.Catalog, logger *zap.Logger) *Handler {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Catalog: cat,
		Logger:  logger,
		Metrics: NewMetrics(),
		now:     time.Now,
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListFractions returns the execution fraction catalog.
func (h *Handler) ListFractions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFractionDTOs(h.Catalog.ExecutionFractions))
}

// ListFineFractions returns the fine fraction catalog.
func (h *Handler) ListFineFractions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFractionDTOs(h.Catalog.FineFractions))
}

// GetMinimumWage returns the wage in force on ?date=YYYY-MM-DD.
func (h *Handler) GetMinimumWage(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter is required", nil)
		return
	}

	wage, ok, err := h.Catalog.MinimumWages.LookupISO(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "wage_not_found", "No minimum wage for date", nil)
		return
	}
	writeJSON(w, http.StatusOK, toMinimumWageDTO(wage))
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// CalculateExecution applies one fraction to a base sentence.
// POST /api/calculations/execution
func (h *Handler) CalculateExecution(w http.ResponseWriter, r *http.Request) {
	var req ExecutionRequest
	raw, err := decodeBody(r, &req)
	if err != nil {
		h.clientError(w, history.KindExecution, err)
		return
	}

	mode, err := report.ParseMode(req.Mode)
	if err != nil {
		h.clientError(w, history.KindExecution, err)
		return
	}
	if err := req.Base.Validate(); err != nil {
		h.clientError(w, history.KindExecution, err)
		return
	}
	f, err := h.Catalog.Resolve(req.Fraction.Label, req.Fraction.Value)
	if err != nil {
		h.clientError(w, history.KindExecution, err)
		return
	}

	result := penal.CalculateExecution(req.Base, f)
	memorial := report.GenerateMemoryString(req.Base, f.String(), result, mode)

	resp := ExecutionResponse{
		Mode:     string(mode),
		Base:     toDurationDTO(req.Base),
		Fraction: toFractionDTO(f),
		Result:   toDurationDTO(result),
		Memorial: memorial,
	}
	if mode == report.ModeSubtraction {
		resp.Remaining = toDurationDTOPtr(penal.SubtractDuration(req.Base, result))
	}

	id, err := h.file(r.Context(), history.KindExecution, string(mode), raw, result, memorial)
	if err != nil {
		h.internalError(w, "Failed to file calculation", err)
		return
	}
	resp.ID = id

	writeJSON(w, http.StatusCreated, resp)
}

// CalculateBatch applies a fraction to each item and aggregates the totals.
// POST /api/calculations/batch
func (h *Handler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	raw, err := decodeBody(r, &req)
	if err != nil {
		h.clientError(w, history.KindBatch, err)
		return
	}

	mode, err := report.ParseMode(req.Mode)
	if err != nil {
		h.clientError(w, history.KindBatch, err)
		return
	}
	if len(req.Items) == 0 {
		h.clientError(w, history.KindBatch, errEmptyBatch)
		return
	}

	items := make([]report.CalculationItem, len(req.Items))
	dtos := make([]BatchItemDTO, len(req.Items))
	for i, in := range req.Items {
		if err := in.Base.Validate(); err != nil {
			h.clientError(w, history.KindBatch, fmt.Errorf("items[%d]: %w", i, err))
			return
		}
		f, err := h.Catalog.Resolve(in.Fraction.Label, in.Fraction.Value)
		if err != nil {
			h.clientError(w, history.KindBatch, fmt.Errorf("items[%d]: %w", i, err))
			return
		}

		id := in.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		items[i] = report.NewCalculationItem(id, in.Base, f)
		dtos[i] = BatchItemDTO{
			ID:       id,
			Base:     toDurationDTO(in.Base),
			Fraction: toFractionDTO(f),
			Result:   toDurationDTO(items[i].Result),
		}
	}

	totals := report.Aggregate(items)
	memorial := report.GenerateReport(items, mode)

	resp := BatchResponse{
		Mode:        string(mode),
		Items:       dtos,
		TotalBase:   toDurationDTO(totals.Base()),
		TotalResult: toDurationDTO(totals.Result()),
		Memorial:    memorial,
	}
	if mode == report.ModeSubtraction {
		resp.Remaining = toDurationDTOPtr(totals.Remaining())
	}

	id, err := h.file(r.Context(), history.KindBatch, string(mode), raw, totals.Result(), memorial)
	if err != nil {
		h.internalError(w, "Failed to file calculation", err)
		return
	}
	resp.ID = id

	writeJSON(w, http.StatusCreated, resp)
}

// CalculateDosimetry runs the three dosimetry phases.
// POST /api/dosimetry
func (h *Handler) CalculateDosimetry(w http.ResponseWriter, r *http.Request) {
	var req DosimetryRequest
	raw, err := decodeBody(r, &req)
	if err != nil {
		h.clientError(w, history.KindDosimetry, err)
		return
	}
	phase2, phase3, err := req.Inputs(h.Catalog)
	if err != nil {
		h.clientError(w, history.KindDosimetry, err)
		return
	}

	state := dosimetry.Calculate(req.BasePenalty, phase2, phase3)
	memorial := report.DosimetryMemorial(state)

	resp := DosimetryResponse{
		Phase1:   toDurationDTO(state.Phase1),
		Phase2:   toPhaseDTO(state.Phase2),
		Phase3:   toPhaseDTO(state.Phase3),
		Final:    toDurationDTO(state.Final()),
		Memorial: memorial,
	}

	id, err := h.file(r.Context(), history.KindDosimetry, "", raw, state.Final(), memorial)
	if err != nil {
		h.internalError(w, "Failed to file calculation", err)
		return
	}
	resp.ID = id

	writeJSON(w, http.StatusCreated, resp)
}

// CalculateFine prices a fine against the minimum wage on the offence date.
// POST /api/fines
func (h *Handler) CalculateFine(w http.ResponseWriter, r *http.Request) {
	var req FineRequest
	raw, err := decodeBody(r, &req)
	if err != nil {
		h.clientError(w, history.KindFine, err)
		return
	}

	f, err := h.Catalog.ResolveFine(req.Fraction.Label, req.Fraction.Value)
	if err != nil {
		h.clientError(w, history.KindFine, err)
		return
	}

	res, err := fine.Compute(h.Catalog.MinimumWages, req.Date, req.Days, f)
	if err != nil {
		h.clientError(w, history.KindFine, err)
		return
	}
	memorial := report.FineMemorial(res)

	resp := FineResponse{
		Date:        res.Date.Format(fine.DateLayout),
		Days:        res.Days,
		MinimumWage: toMinimumWageDTO(res.Wage),
		Fraction:    toFractionDTO(res.Fraction),
		DayValue:    res.DayValue,
		Total:       res.Total,
		Memorial:    memorial,
	}

	id, err := h.file(r.Context(), history.KindFine, "", raw, penal.Duration{}, memorial)
	if err != nil {
		h.internalError(w, "Failed to file calculation", err)
		return
	}
	resp.ID = id

	writeJSON(w, http.StatusCreated, resp)
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListCalculations returns filed calculations, newest first.
// GET /api/calculations?kind=dosimetry&limit=20
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	filter := history.Filter{
		Kind:  history.Kind(r.URL.Query().Get("kind")),
		Limit: defaultListLimit,
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", err)
			return
		}
		filter.Limit = min(limit, maxListLimit)
	}

	records, err := h.Store.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, "Failed to list calculations", err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalculation returns one filed calculation.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Calculation not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, "Failed to get calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(*rec))
}

// Health reports liveness, and store reachability when the store supports it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// file stores a history record and returns its ID.
func (h *Handler) file(ctx context.Context, kind history.Kind, mode string, input []byte, result penal.Duration, memorial string) (string, error) {
	rec := history.Record{
		ID:        history.NewID(),
		Kind:      kind,
		Mode:      mode,
		Input:     input,
		Result:    result,
		Report:    memorial,
		CreatedAt: h.now().UTC(),
	}
	if err := h.Store.Save(ctx, rec); err != nil {
		return "", err
	}

	h.Metrics.observe(string(kind))
	h.Logger.Debug("calculation filed",
		zap.String("id", rec.ID),
		zap.String("kind", string(kind)),
		zap.Int("result_days", penal.ToDays(result)))
	return rec.ID, nil
}

// decodeBody reads and decodes a JSON body, returning it compacted for filing.
func decodeBody(r *http.Request, v any) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return compact.Bytes(), nil
}

// clientError maps a validation failure to a 400 (or 404) with a stable code.
func (h *Handler) clientError(w http.ResponseWriter, kind history.Kind, err error) {
	h.Metrics.reject(string(kind))

	status, code := http.StatusBadRequest, "invalid_request"
	switch {
	case errors.Is(err, errInvalidBody):
		code = "invalid_body"
	case errors.Is(err, penal.ErrInvalidDuration):
		code = "invalid_duration"
	case errors.Is(err, penal.ErrInvalidFraction):
		code = "invalid_fraction"
	case errors.Is(err, catalog.ErrUnknownFraction):
		code = "unknown_fraction"
	case errors.Is(err, report.ErrInvalidMode):
		code = "invalid_mode"
	case errors.Is(err, dosimetry.ErrInvalidOperationType), errors.Is(err, dosimetry.ErrInvalidOperationTarget):
		code = "invalid_operation"
	case errors.Is(err, errEmptyBatch):
		code = "empty_batch"
	case errors.Is(err, fine.ErrInvalidDate):
		code = "invalid_date"
	case errors.Is(err, fine.ErrWageNotFound):
		status, code = http.StatusNotFound, "wage_not_found"
	}
	writeError(w, status, code, err.Error(), nil)
}

func (h *Handler) internalError(w http.ResponseWriter, message string, err error) {
	h.Logger.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", message, nil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
