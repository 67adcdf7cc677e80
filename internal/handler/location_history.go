package handler

import (
	"context"
	"net/http"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// LocationHistoryService defines the location history operations the handler needs
type LocationHistoryService interface {
	Register(ctx context.Context, t tenant.ID, req *model.CreateLocationHistoryRequest) model.Result[*model.LocationHistory]
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.LocationHistory]
	ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) model.Result[[]*model.LocationHistory]
	Sync(ctx context.Context, t tenant.ID, firebaseUserID string, req *model.SyncLocationHistoryRequest) model.Result[[]*model.LocationHistory]
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateLocationHistoryRequest) model.Result[*model.LocationHistory]
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.LocationHistorySummary]
}

var locationHistoryFilterFields = []string{"id", "firebase_user_id", "place_id"}

const (
	locationHistoryKey  = "location_history"
	locationHistoryList = "location_histories"
)

// LocationHistoryHandler handles location history endpoints
type LocationHistoryHandler struct {
	histories LocationHistoryService
}

// NewLocationHistoryHandler creates a new location history handler
func NewLocationHistoryHandler(histories LocationHistoryService) *LocationHistoryHandler {
	return &LocationHistoryHandler{histories: histories}
}

// RegisterRoutes registers location history routes
func (h *LocationHistoryHandler) RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware) {
	const base = "/api/v1/users/locationHistory"
	mux.Handle("POST "+base, auth(http.HandlerFunc(h.Register)))
	mux.Handle("GET "+base, auth(http.HandlerFunc(h.List)))
	mux.Handle("PUT "+base, auth(http.HandlerFunc(h.Modify)))
	mux.Handle("DELETE "+base, auth(http.HandlerFunc(h.Remove)))
	mux.Handle("GET "+base+"/users/{firebase_user_id}", auth(http.HandlerFunc(h.ListByUser)))
	mux.Handle("POST "+base+"/syncLocationHistory/{firebase_user_id}", auth(http.HandlerFunc(h.Sync)))
}

// Register handles POST /api/v1/users/locationHistory
func (h *LocationHistoryHandler) Register(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.CreateLocationHistoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.histories.Register(r.Context(), t, &req).WriteJSON(w, createdKey(locationHistoryKey))
}

// List handles GET /api/v1/users/locationHistory
func (h *LocationHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.histories.List(r.Context(), t, queryFilter(r, locationHistoryFilterFields...), listOptions(r)).WriteJSON(w, locationHistoryList)
}

// ListByUser handles GET /api/v1/users/locationHistory/users/{firebase_user_id}
func (h *LocationHistoryHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.histories.ListByUser(r.Context(), t, r.PathValue("firebase_user_id")).WriteJSON(w, locationHistoryList)
}

// Sync handles POST /api/v1/users/locationHistory/syncLocationHistory/{firebase_user_id}
func (h *LocationHistoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.SyncLocationHistoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.histories.Sync(r.Context(), t, r.PathValue("firebase_user_id"), &req).WriteJSON(w, locationHistoryList)
}

// Modify handles PUT /api/v1/users/locationHistory
func (h *LocationHistoryHandler) Modify(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, locationHistoryFilterFields...)
	if !ok {
		return
	}
	var req model.UpdateLocationHistoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.histories.Modify(r.Context(), t, filter, &req).WriteJSON(w, updatedKey(locationHistoryKey))
}

// Remove handles DELETE /api/v1/users/locationHistory
func (h *LocationHistoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, locationHistoryFilterFields...)
	if !ok {
		return
	}
	h.histories.Remove(r.Context(), t, filter).WriteJSON(w, removedKey(locationHistoryKey))
}
