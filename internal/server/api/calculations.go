// HTTP-хендлеры вычислений и истории
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/calc"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/middleware"
	servermodels "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

// исходы вычислений для метрики calckeeper_calc_calculations_total
const (
	outcomeOK             = "ok"
	outcomeDivisionByZero = "division_by_zero"
	outcomeInvalid        = "invalid"
	outcomeError          = "error"
)

func toRecord(c servermodels.Calculation) models.CalculationRecord {
	return models.CalculationRecord{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Operation: c.Operation,
		A:         models.Number(c.A),
		B:         models.Number(c.B),
		Result:    models.Number(c.Result),
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func calcOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, serr.ErrDivisionByZero):
		return outcomeDivisionByZero
	case errors.Is(err, serr.ErrUnsupportedOperation), errors.Is(err, serr.ErrInvalidInput):
		return outcomeInvalid
	default:
		return outcomeError
	}
}

// Calculate выполняет арифметическую операцию и сохраняет её в историю.
//
// @Summary      Calculate
// @Description  Supported operations: add, subtract, multiply, divide
// @Tags         calculations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CalculateRequest true "Operation and operands"
// @Success      200 {object} models.CalculationRecord
// @Failure      400 {object} ErrorResponse "Bad JSON or division by zero"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      422 {object} ErrorResponse "Unsupported operation or missing operand"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /calculate [post]
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, serr.ErrUnauthorized)
		return
	}

	var req models.CalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.A == nil || req.B == nil {
		h.Metrics.ObserveCalculation(metricOperation(req.Operation), outcomeInvalid)
		WriteError(w, serr.ErrInvalidInput)
		return
	}

	c, err := h.Svc.Calculations.Calculate(r.Context(), userID, req.Operation, *req.A, *req.B)
	h.Metrics.ObserveCalculation(metricOperation(req.Operation), calcOutcome(err))
	if err != nil {
		h.fail(w, r, "calculate", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecord(c))
}

// metricOperation ограничивает кардинальность label operation:
// для неизвестных операций пишется "unknown".
func metricOperation(raw string) string {
	op, err := calc.ParseOperation(raw)
	if err != nil {
		return "unknown"
	}
	return op.String()
}

// History возвращает страницу истории вычислений пользователя.
//
// @Summary      History
// @Description  Newest first. Next page cursor is returned in X-Next-Cursor header.
// @Tags         calculations
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int    false "Page size"
// @Param        cursor query string false "Cursor from X-Next-Cursor"
// @Success      200 {array} models.CalculationRecord
// @Header       200 {string} X-Next-Cursor "Cursor of the next page"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      422 {object} ErrorResponse "Invalid limit or cursor"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, serr.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			WriteError(w, serr.ErrInvalidInput)
			return
		}
		limit = n
	}

	page, err := h.Svc.Calculations.History(r.Context(), userID, limit, q.Get("cursor"))
	if err != nil {
		h.fail(w, r, "history", err)
		return
	}

	// пустая история — [], а не null
	out := make([]models.CalculationRecord, 0, len(page.Items))
	for _, c := range page.Items {
		out = append(out, toRecord(c))
	}

	if page.NextCursor != "" {
		w.Header().Set(models.NextCursorHeader, page.NextCursor)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCalculation возвращает одну запись истории пользователя.
//
// @Summary      Get calculation
// @Tags         calculations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Calculation ID"
// @Success      200 {object} models.CalculationRecord
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      422 {object} ErrorResponse "Invalid id"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /history/{id} [get]
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, serr.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, serr.ErrInvalidInput)
		return
	}

	c, err := h.Svc.Calculations.Get(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "get calculation", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecord(c))
}
