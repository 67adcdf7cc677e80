package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// Pinger checks the store connection of a tenant
type Pinger interface {
	Ping(ctx context.Context, id tenant.ID) error
}

// HealthHandler reports whether the default tenant store is reachable
type HealthHandler struct {
	pinger        Pinger
	defaultTenant tenant.ID
	timeout       time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pinger Pinger, defaultTenant tenant.ID) *HealthHandler {
	return &HealthHandler{pinger: pinger, defaultTenant: defaultTenant, timeout: 5 * time.Second}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Check)
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx, h.defaultTenant); err != nil {
		model.Fail[any](http.StatusBadGateway, "store unreachable", model.Errors{"message": err.Error()}).WriteJSON(w, "")
		return
	}
	model.OK(http.StatusOK, "ok", map[string]string{"tenant": h.defaultTenant.String()}).WriteJSON(w, "health")
}
