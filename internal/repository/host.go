package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// HostRepository handles host data access
type HostRepository struct {
	hosts table[model.Host]
}

// NewHostRepository creates a new host repository
func NewHostRepository(router database.Router) *HostRepository {
	return &HostRepository{hosts: newTable[model.Host](router, "host")}
}

// Create registers a host
func (r *HostRepository) Create(ctx context.Context, t tenant.ID, req *model.CreateHostRequest) (*model.Host, error) {
	data := content{
		"first_name":   req.FirstName,
		"last_name":    req.LastName,
		"phone_number": req.PhoneNumber,
		"email":        req.Email,
	}
	data.opt("site_id", req.SiteID)
	data.opt("network", req.Network)

	return r.hosts.create(ctx, t, data)
}

// List returns a page of hosts
func (r *HostRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Host, error) {
	return r.hosts.list(ctx, t, filter, opts)
}

// Modify updates the first matching host
func (r *HostRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Host, error) {
	return r.hosts.modify(ctx, t, filter, update)
}

// Remove deletes the first matching host
func (r *HostRepository) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.HostSummary, error) {
	removed, err := r.hosts.remove(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return removed.Summary(), nil
}
