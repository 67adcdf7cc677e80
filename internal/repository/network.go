package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// NetworkRepository handles network data access
type NetworkRepository struct {
	networks table[model.Network]
	users    *UserRepository
}

// NewNetworkRepository creates a new network repository. Membership changes
// also update the users' networks array, so it needs the user repository.
func NewNetworkRepository(router database.Router, users *UserRepository) *NetworkRepository {
	return &NetworkRepository{
		networks: newTable[model.Network](router, "network"),
		users:    users,
	}
}

// Create creates a network. With a manager, the network and the manager's
// networks array are written in one atomic batch.
func (r *NetworkRepository) Create(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) (*model.Network, error) {
	users := []string{}
	if req.NetManager != "" {
		users = append(users, req.NetManager)
	}

	data := content{
		"net_email":   req.NetEmail,
		"net_name":    req.NetName,
		"net_acronym": req.NetAcronym,
		"net_status":  req.NetStatus,
		"net_users":   users,
	}
	data.opt("net_manager", req.NetManager)
	data.opt("net_phoneNumber", req.NetPhoneNumber)
	data.opt("net_category", req.NetCategory)
	data.opt("net_description", req.NetDescription)
	data.opt("net_website", req.NetWebsite)

	if req.NetManager == "" {
		return r.networks.create(ctx, t, data)
	}

	db, err := r.networks.db(ctx, t)
	if err != nil {
		return nil, err
	}

	id := r.networks.newID()
	member := model.ArrayOp{Field: "networks", Kind: model.AddToSet, Values: []string{id}}

	batch := database.NewAtomicBatch()
	batch.Add(r.networks.createStatement(id, data))
	batch.Add(r.users.membershipStatement(member, []string{req.NetManager}))
	if err := batch.Execute(ctx, db); err != nil {
		return nil, err
	}

	return r.networks.get(ctx, t, id)
}

// List returns a page of networks
func (r *NetworkRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Network, error) {
	return r.networks.list(ctx, t, filter, opts)
}

// GetByID retrieves a network by ID
func (r *NetworkRepository) GetByID(ctx context.Context, t tenant.ID, id string) (*model.Network, error) {
	return r.networks.get(ctx, t, id)
}

// FindID returns the id of the first matching network
func (r *NetworkRepository) FindID(ctx context.Context, t tenant.ID, filter model.Filter) (string, error) {
	return r.networks.findID(ctx, t, filter)
}

// Modify updates the first matching network
func (r *NetworkRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Network, error) {
	return r.networks.modify(ctx, t, filter, update)
}

// ApplyMembership updates the network and the affected users' networks
// array in one atomic batch, then returns the updated network.
func (r *NetworkRepository) ApplyMembership(ctx context.Context, t tenant.ID, networkID string, update model.Update, member model.ArrayOp, userIDs []string) (*model.Network, error) {
	db, err := r.networks.db(ctx, t)
	if err != nil {
		return nil, err
	}

	batch := database.NewAtomicBatch()
	batch.Add(r.networks.updateStatement(networkID, update))
	if len(userIDs) > 0 {
		batch.Add(r.users.membershipStatement(member, userIDs))
	}
	if err := batch.Execute(ctx, db); err != nil {
		return nil, err
	}

	return r.networks.get(ctx, t, networkID)
}

// Remove deletes the first matching network and pulls it from every user's
// networks array in one atomic batch. It returns the network's summary.
func (r *NetworkRepository) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.NetworkSummary, error) {
	id, err := r.networks.findID(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	network, err := r.networks.get(ctx, t, id)
	if err != nil {
		return nil, err
	}

	db, err := r.networks.db(ctx, t)
	if err != nil {
		return nil, err
	}

	batch := database.NewAtomicBatch()
	batch.Add(r.networks.removeStatement(id))
	batch.Add(r.users.detachStatement(id))
	if err := batch.Execute(ctx, db); err != nil {
		return nil, err
	}
	return network.Summary(), nil
}

// Summaries returns the summaries of the given networks keyed by id
func (r *NetworkRepository) Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.NetworkSummary, error) {
	out := make(map[string]*model.NetworkSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	db, err := r.networks.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := `SELECT * OMIT net_users FROM network WHERE <string> id INSIDE $ids`
	result, err := db.Query(ctx, query, map[string]interface{}{"ids": qualify("network", ids)})
	if err != nil {
		return nil, err
	}

	networks, err := decodeAll[model.Network](result)
	if err != nil {
		return nil, err
	}
	for _, n := range networks {
		out[n.ID] = n.Summary()
	}
	return out, nil
}
