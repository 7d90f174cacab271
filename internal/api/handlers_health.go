package api

import (
	"net/http"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/store"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	gw *store.Gateway
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gw *store.Gateway) *HealthHandler {
	return &HealthHandler{gw: gw}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status: "ok",
	}

	if err := h.gw.Ping(r.Context()); err != nil {
		resp.Store = models.ServiceCheck{Status: "error", Message: err.Error()}
		resp.Status = "degraded"
	} else if all, err := h.gw.LoadSessions(r.Context()); err != nil {
		resp.Store = models.ServiceCheck{Status: "error", Message: err.Error()}
		resp.Status = "degraded"
	} else {
		resp.Store = models.ServiceCheck{Status: "ok"}
		resp.SessionCount = len(all)
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
