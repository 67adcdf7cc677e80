package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// DeviceRepository handles device data access
type DeviceRepository struct {
	devices table[model.Device]
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(router database.Router) *DeviceRepository {
	return &DeviceRepository{devices: newTable[model.Device](router, "device")}
}

// List returns a page of devices
func (r *DeviceRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Device, error) {
	return r.devices.list(ctx, t, filter, opts)
}

// Modify updates the first matching device
func (r *DeviceRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Device, error) {
	return r.devices.modify(ctx, t, filter, update)
}

// SiteRepository handles site data access
type SiteRepository struct {
	sites table[model.Site]
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(router database.Router) *SiteRepository {
	return &SiteRepository{sites: newTable[model.Site](router, "site")}
}

// List returns a page of sites
func (r *SiteRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Site, error) {
	return r.sites.list(ctx, t, filter, opts)
}

// Modify updates the first matching site
func (r *SiteRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Site, error) {
	return r.sites.modify(ctx, t, filter, update)
}

// ActivityRepository handles activity data access
type ActivityRepository struct {
	activities table[model.Activity]
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(router database.Router) *ActivityRepository {
	activities := newTable[model.Activity](router, "activity")
	activities.order = "date DESC"
	return &ActivityRepository{activities: activities}
}

// List returns a page of activities
func (r *ActivityRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Activity, error) {
	return r.activities.list(ctx, t, filter, opts)
}

// Modify updates the first matching activity
func (r *ActivityRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Activity, error) {
	return r.activities.modify(ctx, t, filter, update)
}
