package handler

import (
	"context"
	"net/http"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// NetworkService defines the network operations the handler needs
type NetworkService interface {
	Register(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) model.Result[*model.Network]
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.NetworkView]
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateNetworkRequest) model.Result[*model.Network]
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.NetworkSummary]
	AssignUser(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network]
	UnassignUser(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network]
	SetManager(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network]
	AssignedUsers(ctx context.Context, t tenant.ID, networkID string) model.Result[[]*model.UserSummary]
}

var networkFilterFields = []string{"id", "net_acronym", "net_email", "net_status", "net_category"}

// NetworkHandler handles network endpoints
type NetworkHandler struct {
	networks NetworkService
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(networks NetworkService) *NetworkHandler {
	return &NetworkHandler{networks: networks}
}

// RegisterRoutes registers network routes
func (h *NetworkHandler) RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware) {
	mux.Handle("POST /api/v1/users/networks", auth(http.HandlerFunc(h.Register)))
	mux.HandleFunc("GET /api/v1/users/networks", h.List)
	mux.Handle("PUT /api/v1/users/networks", auth(http.HandlerFunc(h.Modify)))
	mux.Handle("DELETE /api/v1/users/networks", auth(http.HandlerFunc(h.Remove)))

	mux.Handle("PUT /api/v1/users/networks/{net_id}/assign-user/{user_id}", auth(http.HandlerFunc(h.AssignUser)))
	mux.Handle("PUT /api/v1/users/networks/{net_id}/unassign-user/{user_id}", auth(http.HandlerFunc(h.UnassignUser)))
	mux.Handle("PUT /api/v1/users/networks/{net_id}/set-manager/{user_id}", auth(http.HandlerFunc(h.SetManager)))
	mux.Handle("GET /api/v1/users/networks/{net_id}/assigned-users", auth(http.HandlerFunc(h.AssignedUsers)))
}

// Register handles POST /api/v1/users/networks
func (h *NetworkHandler) Register(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.RegisterNetworkRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.networks.Register(r.Context(), t, &req).WriteJSON(w, createdKey("network"))
}

// List handles GET /api/v1/users/networks
func (h *NetworkHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.networks.List(r.Context(), t, queryFilter(r, networkFilterFields...), listOptions(r)).WriteJSON(w, "networks")
}

// Modify handles PUT /api/v1/users/networks. The body may carry an action
// with net_users or net_manager to change membership.
func (h *NetworkHandler) Modify(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, networkFilterFields...)
	if !ok {
		return
	}
	var req model.UpdateNetworkRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.networks.Modify(r.Context(), t, filter, &req).WriteJSON(w, updatedKey("network"))
}

// Remove handles DELETE /api/v1/users/networks
func (h *NetworkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, networkFilterFields...)
	if !ok {
		return
	}
	h.networks.Remove(r.Context(), t, filter).WriteJSON(w, removedKey("network"))
}

// AssignUser handles PUT /api/v1/users/networks/{net_id}/assign-user/{user_id}
func (h *NetworkHandler) AssignUser(w http.ResponseWriter, r *http.Request) {
	h.member(w, r, h.networks.AssignUser)
}

// UnassignUser handles PUT /api/v1/users/networks/{net_id}/unassign-user/{user_id}
func (h *NetworkHandler) UnassignUser(w http.ResponseWriter, r *http.Request) {
	h.member(w, r, h.networks.UnassignUser)
}

// SetManager handles PUT /api/v1/users/networks/{net_id}/set-manager/{user_id}
func (h *NetworkHandler) SetManager(w http.ResponseWriter, r *http.Request) {
	h.member(w, r, h.networks.SetManager)
}

func (h *NetworkHandler) member(w http.ResponseWriter, r *http.Request, op func(context.Context, tenant.ID, string, string) model.Result[*model.Network]) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	op(r.Context(), t, r.PathValue("net_id"), r.PathValue("user_id")).WriteJSON(w, updatedKey("network"))
}

// AssignedUsers handles GET /api/v1/users/networks/{net_id}/assigned-users
func (h *NetworkHandler) AssignedUsers(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.networks.AssignedUsers(r.Context(), t, r.PathValue("net_id")).WriteJSON(w, "assigned_users")
}
