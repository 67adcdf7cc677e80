package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// DefaultRepository handles chart default data access
type DefaultRepository struct {
	defaults table[model.Default]
}

// NewDefaultRepository creates a new chart default repository
func NewDefaultRepository(router database.Router) *DefaultRepository {
	return &DefaultRepository{defaults: newTable[model.Default](router, "user_default")}
}

// Create saves a chart default
func (r *DefaultRepository) Create(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) (*model.Default, error) {
	sites := req.Sites
	if sites == nil {
		sites = []string{}
	}

	data := content{
		"user":       req.User,
		"chartTitle": req.ChartTitle,
		"pollutant":  req.Pollutant,
		"frequency":  req.Frequency,
		"sites":      sites,
	}
	data.opt("startDate", req.StartDate)
	data.opt("endDate", req.EndDate)
	data.opt("chartType", req.ChartType)
	data.opt("chartSubTitle", req.ChartSubTitle)
	data.opt("airqloud", req.Airqloud)
	if req.Period != nil {
		data["period"] = *req.Period
	}

	return r.defaults.create(ctx, t, data)
}

// List returns a page of chart defaults
func (r *DefaultRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Default, error) {
	return r.defaults.list(ctx, t, filter, opts)
}

// Modify updates the first matching chart default
func (r *DefaultRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Default, error) {
	return r.defaults.modify(ctx, t, filter, update)
}

// Remove deletes the first matching chart default
func (r *DefaultRepository) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.DefaultSummary, error) {
	removed, err := r.defaults.remove(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return removed.Summary(), nil
}
