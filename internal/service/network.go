package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// NetworkRepository defines the interface for network storage
type NetworkRepository interface {
	Create(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) (*model.Network, error)
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Network, error)
	GetByID(ctx context.Context, t tenant.ID, id string) (*model.Network, error)
	FindID(ctx context.Context, t tenant.ID, filter model.Filter) (string, error)
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Network, error)
	ApplyMembership(ctx context.Context, t tenant.ID, networkID string, update model.Update, member model.ArrayOp, userIDs []string) (*model.Network, error)
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.NetworkSummary, error)
}

// UserLookup resolves users referenced by networks
type UserLookup interface {
	GetByID(ctx context.Context, t tenant.ID, id string) (*model.User, error)
	Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.UserSummary, error)
}

// NetworkService handles networks and their membership
type NetworkService struct {
	networks NetworkRepository
	users    UserLookup
	limit    int
}

// NetworkServiceConfig holds configuration for the network service
type NetworkServiceConfig struct {
	NetworkRepo NetworkRepository
	UserRepo    UserLookup
	ListLimit   int
}

// NewNetworkService creates a new network service
func NewNetworkService(cfg NetworkServiceConfig) *NetworkService {
	limit := cfg.ListLimit
	if limit <= 0 {
		limit = model.DefaultNetworkLimit
	}
	return &NetworkService{
		networks: cfg.NetworkRepo,
		users:    cfg.UserRepo,
		limit:    limit,
	}
}

// ref qualifies a bare record key with its table
func ref(table, id string) string {
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	return table + ":" + id
}

func refs(table string, ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ref(table, id)
	}
	return out
}

// Register creates a network. A manager must be an existing user; they
// become the first member and get the network added to their networks in
// the same write.
func (s *NetworkService) Register(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) model.Result[*model.Network] {
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Network](errs)
	}

	if req.NetManager != "" {
		manager, err := s.users.GetByID(ctx, t, req.NetManager)
		if errors.Is(err, database.ErrNotFound) {
			return ErrorResult[*model.Network](ErrUserNotFound, "user")
		}
		if err != nil {
			return ErrorResult[*model.Network](err, "user")
		}
		req.NetManager = manager.ID
	}

	network, err := s.networks.Create(ctx, t, req)
	if err != nil {
		return ErrorResult[*model.Network](err, "network")
	}
	return created("network", network)
}

// List returns a page of networks with manager and users expanded
func (s *NetworkService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.NetworkView] {
	networks, err := s.networks.List(ctx, t, filter, opts.Normalize(s.limit))
	if err != nil {
		return ErrorResult[[]*model.NetworkView](err, "network")
	}

	var ids []string
	for _, n := range networks {
		ids = append(ids, n.NetManager)
		ids = append(ids, n.NetUsers...)
	}
	summaries, err := s.users.Summaries(ctx, t, uniqueIDs(ids))
	if err != nil {
		return ErrorResult[[]*model.NetworkView](err, "user")
	}

	views := make([]*model.NetworkView, 0, len(networks))
	for _, n := range networks {
		views = append(views, &model.NetworkView{
			Network:    n,
			NetManager: summaries[n.NetManager],
			NetUsers:   pick(summaries, n.NetUsers),
		})
	}
	return listed("networks", views)
}

// pick returns the summaries of ids in order, skipping unknown ids
func pick(summaries map[string]*model.UserSummary, ids []string) []*model.UserSummary {
	out := make([]*model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := summaries[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Modify updates the first network matching filter. Membership changes
// also update the affected users.
func (s *NetworkService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateNetworkRequest) model.Result[*model.Network] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.Network](errs)
	}
	req.NetUsers = refs("user", req.NetUsers)
	if req.NetManager != nil {
		manager := ref("user", *req.NetManager)
		req.NetManager = &manager
	}

	change, err := req.Membership()
	if err != nil {
		return invalid[*model.Network]([]model.FieldError{{Field: "action", Message: err.Error()}})
	}
	fields := req.Fields()

	if change == nil {
		if len(fields) == 0 {
			return ErrorResult[*model.Network](ErrNothingToUpdate, "network")
		}
		network, err := s.networks.Modify(ctx, t, filter, model.Update{Set: fields})
		if err != nil {
			return ErrorResult[*model.Network](err, "network")
		}
		return modified("network", network)
	}

	if pull, ok := change.(model.PullUsers); ok {
		slog.Warn("net_users given without an action, removing the listed users",
			"tenant", t, "users", pull.UserIDs)
	}

	id, err := s.networks.FindID(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.Network](err, "network")
	}
	network, err := s.apply(ctx, t, id, change, fields)
	if err != nil {
		return ErrorResult[*model.Network](err, "network")
	}
	return modified("network", network)
}

// apply runs a membership change on the network and its users
func (s *NetworkService) apply(ctx context.Context, t tenant.ID, networkID string, change model.MembershipChange, fields map[string]interface{}) (*model.Network, error) {
	update, err := model.NetworkUpdate(change)
	if err != nil {
		return nil, err
	}
	update = mergeSet(update, fields)

	member, userIDs, _ := model.MemberUpdate(change, networkID)
	return s.networks.ApplyMembership(ctx, t, networkID, update, member, userIDs)
}

// Remove deletes the first network matching filter
func (s *NetworkService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.NetworkSummary] {
	network, err := s.networks.Remove(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.NetworkSummary](err, "network")
	}
	return removed("network", network)
}

// AssignUser adds an existing user to a network
func (s *NetworkService) AssignUser(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return s.member(ctx, t, networkID, userID, func(uid string) model.MembershipChange {
		return model.AssignUsers{UserIDs: []string{uid}}
	})
}

// UnassignUser removes a user from a network
func (s *NetworkService) UnassignUser(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return s.member(ctx, t, networkID, userID, func(uid string) model.MembershipChange {
		return model.UnassignUsers{UserIDs: []string{uid}}
	})
}

// SetManager makes an existing user the network manager
func (s *NetworkService) SetManager(ctx context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return s.member(ctx, t, networkID, userID, func(uid string) model.MembershipChange {
		return model.SetManager{UserID: uid}
	})
}

func (s *NetworkService) member(ctx context.Context, t tenant.ID, networkID, userID string, change func(string) model.MembershipChange) model.Result[*model.Network] {
	user, err := s.users.GetByID(ctx, t, userID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrorResult[*model.Network](ErrUserNotFound, "user")
	}
	if err != nil {
		return ErrorResult[*model.Network](err, "user")
	}

	id, err := s.networks.FindID(ctx, t, model.Filter{"id": networkID})
	if errors.Is(err, database.ErrNotFound) {
		return ErrorResult[*model.Network](ErrNetworkNotFound, "network")
	}
	if err != nil {
		return ErrorResult[*model.Network](err, "network")
	}

	network, err := s.apply(ctx, t, id, change(user.ID), nil)
	if err != nil {
		return ErrorResult[*model.Network](err, "network")
	}
	return modified("network", network)
}

// AssignedUsers returns the members of a network in membership order
func (s *NetworkService) AssignedUsers(ctx context.Context, t tenant.ID, networkID string) model.Result[[]*model.UserSummary] {
	network, err := s.networks.GetByID(ctx, t, networkID)
	if err != nil {
		return ErrorResult[[]*model.UserSummary](err, "network")
	}

	summaries, err := s.users.Summaries(ctx, t, network.NetUsers)
	if err != nil {
		return ErrorResult[[]*model.UserSummary](err, "user")
	}
	return model.OK(http.StatusOK, "successfully retrieved the assigned users", pick(summaries, network.NetUsers))
}
