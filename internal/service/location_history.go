package service

import (
	"context"
	"net/http"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// LocationHistoryRepository defines the interface for location history storage
type LocationHistoryRepository interface {
	Create(ctx context.Context, t tenant.ID, req *model.CreateLocationHistoryRequest) (*model.LocationHistory, error)
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.LocationHistory, error)
	ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) ([]*model.LocationHistory, error)
	Upsert(ctx context.Context, t tenant.ID, entries []*model.CreateLocationHistoryRequest) error
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.LocationHistory, error)
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.LocationHistorySummary, error)
}

// LocationHistoryService handles saved places of app users
type LocationHistoryService struct {
	entries LocationHistoryRepository
	limit   int
}

// NewLocationHistoryService creates a new location history service
func NewLocationHistoryService(repo LocationHistoryRepository, limit int) *LocationHistoryService {
	if limit <= 0 {
		limit = model.DefaultLocationHistoryLimit
	}
	return &LocationHistoryService{entries: repo, limit: limit}
}

// Register records an entry
func (s *LocationHistoryService) Register(ctx context.Context, t tenant.ID, req *model.CreateLocationHistoryRequest) model.Result[*model.LocationHistory] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.LocationHistory](errs)
	}

	entry, err := s.entries.Create(ctx, t, req)
	if err != nil {
		return ErrorResult[*model.LocationHistory](err, "location history")
	}
	return created("location history", entry)
}

// List returns a page of entries
func (s *LocationHistoryService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.LocationHistory] {
	entries, err := s.entries.List(ctx, t, filter, opts.Normalize(s.limit))
	if err != nil {
		return ErrorResult[[]*model.LocationHistory](err, "location history")
	}
	return listed("location histories", entries)
}

// ListByUser returns every entry of a firebase user
func (s *LocationHistoryService) ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) model.Result[[]*model.LocationHistory] {
	entries, err := s.entries.ListByUser(ctx, t, firebaseUserID)
	if err != nil {
		return ErrorResult[[]*model.LocationHistory](err, "location history")
	}
	return listed("location histories", entries)
}

// Sync stores the candidates the user does not have yet and returns the
// user's full set. Candidates are always attributed to firebaseUserID.
func (s *LocationHistoryService) Sync(ctx context.Context, t tenant.ID, firebaseUserID string, req *model.SyncLocationHistoryRequest) model.Result[[]*model.LocationHistory] {
	if firebaseUserID == "" {
		return invalid[[]*model.LocationHistory]([]model.FieldError{{Field: "firebase_user_id", Message: "firebase_user_id is required"}})
	}
	if errs := req.Validate(firebaseUserID); len(errs) > 0 {
		return invalid[[]*model.LocationHistory](errs)
	}

	existing, err := s.entries.ListByUser(ctx, t, firebaseUserID)
	if err != nil {
		return ErrorResult[[]*model.LocationHistory](err, "location history")
	}

	message := "location histories are already in sync"
	missing := missingEntries(existing, req.LocationHistories, firebaseUserID)
	if len(missing) > 0 {
		if err := s.entries.Upsert(ctx, t, missing); err != nil {
			return ErrorResult[[]*model.LocationHistory](err, "location history")
		}
		message = "location histories synchronized"
	}

	refreshed, err := s.entries.ListByUser(ctx, t, firebaseUserID)
	if err != nil {
		return ErrorResult[[]*model.LocationHistory](err, "location history")
	}
	if refreshed == nil {
		refreshed = []*model.LocationHistory{}
	}
	return model.OK(http.StatusOK, message, refreshed)
}

// missingEntries returns the candidates whose key is not stored yet, with
// duplicate candidates collapsed to the first one.
func missingEntries(existing []*model.LocationHistory, candidates []model.CreateLocationHistoryRequest, firebaseUserID string) []*model.CreateLocationHistoryRequest {
	stored := make(map[model.LocationKey]struct{}, len(existing))
	for _, e := range existing {
		stored[e.Key()] = struct{}{}
	}

	var missing []*model.CreateLocationHistoryRequest
	for i := range candidates {
		c := candidates[i]
		c.FirebaseUserID = firebaseUserID
		key := c.Key()
		if _, ok := stored[key]; ok {
			continue
		}
		stored[key] = struct{}{}
		missing = append(missing, &c)
	}
	return missing
}

// Modify updates the first entry matching filter
func (s *LocationHistoryService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateLocationHistoryRequest) model.Result[*model.LocationHistory] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.LocationHistory](errs)
	}
	update := req.Update()
	if update.IsEmpty() {
		return ErrorResult[*model.LocationHistory](ErrNothingToUpdate, "location history")
	}

	entry, err := s.entries.Modify(ctx, t, filter, update)
	if err != nil {
		return ErrorResult[*model.LocationHistory](err, "location history")
	}
	return modified("location history", entry)
}

// Remove deletes the first entry matching filter
func (s *LocationHistoryService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.LocationHistorySummary] {
	entry, err := s.entries.Remove(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.LocationHistorySummary](err, "location history")
	}
	return removed("location history", entry)
}
