package handler

import (
	"log/slog"
	"net/http"

	"github.com/printmate/printmate/internal/service"
)

type HealthHandler struct {
	healthService *service.HealthService
	appName       string
}

func NewHealthHandler(healthService *service.HealthService, appName string) *HealthHandler {
	return &HealthHandler{healthService: healthService, appName: appName}
}

type healthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.healthService.Check(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Service: h.appName,
			Status:  "unavailable",
			Code:    http.StatusServiceUnavailable,
			Message: "Database unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Service: h.appName,
		Status:  "ok",
		Code:    http.StatusOK,
		Message: h.appName + " API is running",
	})
}

// NotFound is the JSON fallback for unknown API routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "Not found")
}
