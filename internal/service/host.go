package service

import (
	"context"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// HostRepository defines the interface for host storage
type HostRepository interface {
	Create(ctx context.Context, t tenant.ID, req *model.CreateHostRequest) (*model.Host, error)
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Host, error)
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Host, error)
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.HostSummary, error)
}

// HostService handles incentive hosts
type HostService struct {
	hosts HostRepository
	limit int
}

// NewHostService creates a new host service
func NewHostService(repo HostRepository, limit int) *HostService {
	if limit <= 0 {
		limit = model.DefaultHostLimit
	}
	return &HostService{hosts: repo, limit: limit}
}

// Register creates a host
func (s *HostService) Register(ctx context.Context, t tenant.ID, req *model.CreateHostRequest) model.Result[*model.Host] {
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Host](errs)
	}

	host, err := s.hosts.Create(ctx, t, req)
	if err != nil {
		return ErrorResult[*model.Host](err, "host")
	}
	return created("host", host)
}

// List returns a page of hosts
func (s *HostService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Host] {
	hosts, err := s.hosts.List(ctx, t, filter, opts.Normalize(s.limit))
	if err != nil {
		return ErrorResult[[]*model.Host](err, "host")
	}
	return listed("hosts", hosts)
}

// Modify updates the first host matching filter
func (s *HostService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateHostRequest) model.Result[*model.Host] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Host](errs)
	}
	update := req.Update()
	if update.IsEmpty() {
		return ErrorResult[*model.Host](ErrNothingToUpdate, "host")
	}

	host, err := s.hosts.Modify(ctx, t, filter, update)
	if err != nil {
		return ErrorResult[*model.Host](err, "host")
	}
	return modified("host", host)
}

// Remove deletes the first host matching filter
func (s *HostService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.HostSummary] {
	host, err := s.hosts.Remove(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.HostSummary](err, "host")
	}
	return removed("host", host)
}
