package repository

import (
	"context"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// UserRepository handles user data access
type UserRepository struct {
	users table[model.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(router database.Router) *UserRepository {
	users := newTable[model.User](router, "user")
	users.omit = "password"
	return &UserRepository{users: users}
}

// Create creates a user. req must already be normalized; hash is the
// bcrypt hash of the password.
func (r *UserRepository) Create(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest, hash string) (*model.User, error) {
	networks := req.Networks
	if networks == nil {
		networks = []string{}
	}

	data := content{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"userName":  req.UserName,
		"email":     req.Email,
		"password":  hash,
		"role":      string(model.UserRoleUser),
		"networks":  networks,
		"verified":  false,
	}
	data.opt("organization", req.Organization)
	data.opt("long_organization", req.LongOrganization)
	data.opt("privilege", req.Privilege)
	data.opt("country", req.Country)
	data.opt("phoneNumber", req.PhoneNumber)
	data.opt("description", req.Description)
	data.opt("jobTitle", req.JobTitle)
	data.opt("website", req.Website)
	data.opt("category", req.Category)

	return r.users.create(ctx, t, data)
}

// List returns a page of users without their password
func (r *UserRepository) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.User, error) {
	return r.users.list(ctx, t, filter, opts)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, t tenant.ID, id string) (*model.User, error) {
	return r.users.get(ctx, t, id)
}

// Modify updates the first matching user
func (r *UserRepository) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.User, error) {
	return r.users.modify(ctx, t, filter, update)
}

// Remove deletes the first matching user and returns its summary
func (r *UserRepository) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.UserSummary, error) {
	removed, err := r.users.remove(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return removed.Summary(), nil
}

// Credentials looks up the password hash by email or user name
func (r *UserRepository) Credentials(ctx context.Context, t tenant.ID, login string) (*model.Credentials, error) {
	return r.credentials(ctx, t,
		`SELECT id, password FROM user WHERE email = $login OR userName = $login LIMIT 1`,
		map[string]interface{}{"login": login})
}

// CredentialsByID looks up the password hash of a user
func (r *UserRepository) CredentialsByID(ctx context.Context, t tenant.ID, userID string) (*model.Credentials, error) {
	return r.credentials(ctx, t,
		`SELECT id, password FROM type::record($id)`,
		map[string]interface{}{"id": recordID("user", userID)})
}

func (r *UserRepository) credentials(ctx context.Context, t tenant.ID, query string, vars map[string]interface{}) (*model.Credentials, error) {
	db, err := r.users.db(ctx, t)
	if err != nil {
		return nil, err
	}

	result, err := db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row, ok := normalize(result).(map[string]interface{})
	if !ok {
		return nil, database.ErrNotFound
	}
	id, _ := row["id"].(string)
	hash, _ := row["password"].(string)
	if id == "" {
		return nil, database.ErrNotFound
	}
	return &model.Credentials{UserID: id, Hash: hash}, nil
}

// SetPassword stores a new password hash
func (r *UserRepository) SetPassword(ctx context.Context, t tenant.ID, userID, hash string) error {
	_, err := r.users.modifyID(ctx, t, userID, model.Update{Set: map[string]interface{}{"password": hash}})
	return err
}

// Summaries returns the summaries of the given users keyed by id. Unknown
// ids are absent from the map.
func (r *UserRepository) Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.UserSummary, error) {
	out := make(map[string]*model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	db, err := r.users.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, firstName, lastName, userName, email FROM user WHERE <string> id INSIDE $ids`
	result, err := db.Query(ctx, query, map[string]interface{}{"ids": qualify("user", ids)})
	if err != nil {
		return nil, err
	}

	summaries, err := decodeAll[model.UserSummary](result)
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

// membershipStatement renders the update of the networks array of users
func (r *UserRepository) membershipStatement(op model.ArrayOp, userIDs []string) (string, map[string]interface{}) {
	set, vars := buildSet(model.Update{Arrays: []model.ArrayOp{op}})
	vars["members"] = qualify("user", userIDs)
	return `UPDATE user` + set + ` WHERE <string> id INSIDE $members`, vars
}

// detachStatement renders the removal of a network from every user that
// lists it
func (r *UserRepository) detachStatement(networkID string) (string, map[string]interface{}) {
	network := recordID("network", networkID)
	set, vars := buildSet(model.Update{Arrays: []model.ArrayOp{
		{Field: "networks", Kind: model.Pull, Values: []string{network}},
	}})
	vars["network"] = network
	return `UPDATE user` + set + ` WHERE networks CONTAINS $network`, vars
}

// qualify prefixes bare keys with the table name
func qualify(table string, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = recordID(table, id)
	}
	return out
}
