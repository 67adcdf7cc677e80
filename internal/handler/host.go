package handler

import (
	"context"
	"net/http"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// HostService defines the host operations the handler needs
type HostService interface {
	Register(ctx context.Context, t tenant.ID, req *model.CreateHostRequest) model.Result[*model.Host]
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Host]
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateHostRequest) model.Result[*model.Host]
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.HostSummary]
}

var hostFilterFields = []string{"id", "site_id", "email", "phone_number", "network"}

// HostHandler handles incentive host endpoints
type HostHandler struct {
	hosts HostService
}

// NewHostHandler creates a new host handler
func NewHostHandler(hosts HostService) *HostHandler {
	return &HostHandler{hosts: hosts}
}

// RegisterRoutes registers host routes
func (h *HostHandler) RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware) {
	mux.Handle("POST /api/v1/incentives/hosts", auth(http.HandlerFunc(h.Register)))
	mux.Handle("GET /api/v1/incentives/hosts", auth(http.HandlerFunc(h.List)))
	mux.Handle("PUT /api/v1/incentives/hosts", auth(http.HandlerFunc(h.Modify)))
	mux.Handle("DELETE /api/v1/incentives/hosts", auth(http.HandlerFunc(h.Remove)))
}

// Register handles POST /api/v1/incentives/hosts
func (h *HostHandler) Register(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.CreateHostRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.hosts.Register(r.Context(), t, &req).WriteJSON(w, createdKey("host"))
}

// List handles GET /api/v1/incentives/hosts
func (h *HostHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.hosts.List(r.Context(), t, queryFilter(r, hostFilterFields...), listOptions(r)).WriteJSON(w, "hosts")
}

// Modify handles PUT /api/v1/incentives/hosts
func (h *HostHandler) Modify(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, hostFilterFields...)
	if !ok {
		return
	}
	var req model.UpdateHostRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.hosts.Modify(r.Context(), t, filter, &req).WriteJSON(w, updatedKey("host"))
}

// Remove handles DELETE /api/v1/incentives/hosts
func (h *HostHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, hostFilterFields...)
	if !ok {
		return
	}
	h.hosts.Remove(r.Context(), t, filter).WriteJSON(w, removedKey("host"))
}
