package service

import (
	"context"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// DefaultRepository defines the interface for chart default storage
type DefaultRepository interface {
	Create(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) (*model.Default, error)
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Default, error)
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Default, error)
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.DefaultSummary, error)
}

// DefaultService handles per-user chart defaults
type DefaultService struct {
	defaults DefaultRepository
	limit    int
}

// NewDefaultService creates a new default service. limit <= 0 selects
// model.DefaultChartDefaultLimit.
func NewDefaultService(repo DefaultRepository, limit int) *DefaultService {
	if limit <= 0 {
		limit = model.DefaultChartDefaultLimit
	}
	return &DefaultService{defaults: repo, limit: limit}
}

// Register creates a default
func (s *DefaultService) Register(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) model.Result[*model.Default] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Default](errs)
	}

	d, err := s.defaults.Create(ctx, t, req)
	if err != nil {
		return ErrorResult[*model.Default](err, "default")
	}
	return created("default", d)
}

// List returns a page of defaults
func (s *DefaultService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Default] {
	defaults, err := s.defaults.List(ctx, t, filter, opts.Normalize(s.limit))
	if err != nil {
		return ErrorResult[[]*model.Default](err, "default")
	}
	return listed("defaults", defaults)
}

// Modify updates the first default matching filter
func (s *DefaultService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateDefaultRequest) model.Result[*model.Default] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Default](errs)
	}
	update := req.Update()
	if update.IsEmpty() {
		return ErrorResult[*model.Default](ErrNothingToUpdate, "default")
	}

	d, err := s.defaults.Modify(ctx, t, filter, update)
	if err != nil {
		return ErrorResult[*model.Default](err, "default")
	}
	return modified("default", d)
}

// Remove deletes the first default matching filter
func (s *DefaultService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.DefaultSummary] {
	d, err := s.defaults.Remove(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.DefaultSummary](err, "default")
	}
	return removed("default", d)
}
