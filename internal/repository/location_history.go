package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// LocationHistoryRepository handles location history data access
type LocationHistoryRepository struct {
	entries table[model.LocationHistory]
}

// NewLocationHistoryRepository creates a new location history repository
func NewLocationHistoryRepository(router database.Router) *LocationHistoryRepository {
	entries := newTable[model.LocationHistory](router, "location_history")
	entries.order = "date_time DESC"
	return &LocationHistoryRepository{entries: entries}
}

func locationContent(req *model.CreateLocationHistoryRequest) content {
	data := content{
		"firebase_user_id": req.FirebaseUserID,
		"place_id":         req.PlaceID,
		"name":             req.Name,
		"location":         req.Location,
		"date_time":        timeOrNow(req.DateTime),
	}
	if req.Latitude != nil {
		data["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		data["longitude"] = *req.Longitude
	}
	data.opt("reference_site", req.ReferenceSite)
	return data
}

// Create records a location history entry
func (r *LocationHistoryRepository) Create(ctx context.Context, t tenant.ID, req *model.CreateLocationHistoryRequest) (*model.LocationHistory, error) {
	return r.entries.create(ctx, t, locationContent(req))
}

// List returns a page of entries
func (r *LocationHistoryRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.LocationHistory, error) {
	return r.entries.list(ctx, t, filter, opts)
}

// ListByUser returns every entry of a firebase user
func (r *LocationHistoryRepository) ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) ([]*model.LocationHistory, error) {
	db, err := r.entries.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM location_history WHERE firebase_user_id = $uid ORDER BY date_time DESC`
	result, err := db.Query(ctx, query, map[string]interface{}{"uid": firebaseUserID})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.LocationHistory](result)
}

// Upsert writes every entry keyed by (firebase_user_id, place_id) in
// one atomic batch. An existing entry with the same key is overwritten.
func (r *LocationHistoryRepository) Upsert(ctx context.Context, t tenant.ID, entries []*model.CreateLocationHistoryRequest) error {
	if len(entries) == 0 {
		return nil
	}

	db, err := r.entries.db(ctx, t)
	if err != nil {
		return err
	}

	batch := database.NewAtomicBatch()
	for _, e := range entries {
		batch.Add(`UPSERT location_history CONTENT $content WHERE firebase_user_id = $uid AND place_id = $place`,
			map[string]interface{}{
				"content": map[string]interface{}(locationContent(e)),
				"uid":     e.FirebaseUserID,
				"place":   e.PlaceID,
			})
	}
	return batch.Execute(ctx, db)
}

// Modify updates the first matching entry
func (r *LocationHistoryRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.LocationHistory, error) {
	return r.entries.modify(ctx, t, filter, update)
}

// Remove deletes the first matching entry
func (r *LocationHistoryRepository) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.LocationHistorySummary, error) {
	removed, err := r.entries.remove(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return removed.Summary(), nil
}
