package handler

import (
	"context"
	"net/http"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// DefaultService defines the chart default operations the handler needs
type DefaultService interface {
	Register(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) model.Result[*model.Default]
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Default]
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateDefaultRequest) model.Result[*model.Default]
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.DefaultSummary]
}

var defaultFilterFields = []string{"id", "user", "airqloud", "chartTitle"}

// DefaultHandler handles chart default endpoints
type DefaultHandler struct {
	defaults DefaultService
}

// NewDefaultHandler creates a new chart default handler
func NewDefaultHandler(defaults DefaultService) *DefaultHandler {
	return &DefaultHandler{defaults: defaults}
}

// RegisterRoutes registers chart default routes
func (h *DefaultHandler) RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware) {
	mux.Handle("POST /api/v1/users/defaults", auth(http.HandlerFunc(h.Register)))
	mux.Handle("GET /api/v1/users/defaults", auth(http.HandlerFunc(h.List)))
	mux.Handle("PUT /api/v1/users/defaults", auth(http.HandlerFunc(h.Modify)))
	mux.Handle("DELETE /api/v1/users/defaults", auth(http.HandlerFunc(h.Remove)))
}

// Register handles POST /api/v1/users/defaults
func (h *DefaultHandler) Register(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.CreateDefaultRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.defaults.Register(r.Context(), t, &req).WriteJSON(w, createdKey("default"))
}

// List handles GET /api/v1/users/defaults
func (h *DefaultHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.defaults.List(r.Context(), t, queryFilter(r, defaultFilterFields...), listOptions(r)).WriteJSON(w, "defaults")
}

// Modify handles PUT /api/v1/users/defaults
func (h *DefaultHandler) Modify(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, defaultFilterFields...)
	if !ok {
		return
	}
	var req model.UpdateDefaultRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.defaults.Modify(r.Context(), t, filter, &req).WriteJSON(w, updatedKey("default"))
}

// Remove handles DELETE /api/v1/users/defaults
func (h *DefaultHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, defaultFilterFields...)
	if !ok {
		return
	}
	h.defaults.Remove(r.Context(), t, filter).WriteJSON(w, removedKey("default"))
}
