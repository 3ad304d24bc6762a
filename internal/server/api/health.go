package api

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthResponse — ответ /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health проверяет доступность Postgres и Redis.
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Stores != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.Stores.Ping(ctx); err != nil {
			if h.Log != nil {
				h.Log.Logger.Sugar().Warnw("health check failed", "error", err)
			}
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
