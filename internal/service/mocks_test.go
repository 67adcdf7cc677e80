package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// Mock implementations

var kcca = tenant.MustParse("kcca")

// matches reports whether every filter condition equals the record field
func matches(filter model.Filter, field func(string) interface{}) bool {
	for k, v := range filter {
		got := field(k)
		if k == "id" {
			if recordKey(fmt.Sprint(v)) != recordKey(fmt.Sprint(got)) {
				return false
			}
			continue
		}
		if fmt.Sprint(got) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// recordKey strips the table from a record id
func recordKey(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func applyArrays(current []string, op model.ArrayOp) []string {
	switch op.Kind {
	case model.Pull:
		drop := make(map[string]bool, len(op.Values))
		for _, v := range op.Values {
			drop[v] = true
		}
		out := []string{}
		for _, v := range current {
			if !drop[v] {
				out = append(out, v)
			}
		}
		return out
	default:
		out := append([]string{}, current...)
		for _, v := range op.Values {
			found := false
			for _, c := range out {
				if c == v {
					found = true
				}
			}
			if !found {
				out = append(out, v)
			}
		}
		return out
	}
}

type mockUserRepo struct {
	users     map[string]*model.User
	hashes    map[string]string
	order     []string
	tenants   []tenant.ID
	createErr error
	listErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*model.User),
		hashes: make(map[string]string),
	}
}

func (m *mockUserRepo) field(u *model.User) func(string) interface{} {
	return func(name string) interface{} {
		switch name {
		case "id":
			return u.ID
		case "email":
			return u.Email
		case "userName":
			return u.UserName
		default:
			return nil
		}
	}
}

func (m *mockUserRepo) first(filter model.Filter) *model.User {
	for _, id := range m.order {
		if u, ok := m.users[id]; ok && matches(filter, m.field(u)) {
			return u
		}
	}
	return nil
}

func (m *mockUserRepo) Create(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest, hash string) (*model.User, error) {
	m.tenants = append(m.tenants, t)
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, &database.DuplicateKeyError{Index: "userEmailIndex", Fields: []string{"email"}, Value: req.Email}
		}
	}
	networks := req.Networks
	if networks == nil {
		networks = []string{}
	}
	u := &model.User{
		ID:        "user:" + strings.SplitN(req.Email, "@", 2)[0],
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Email:     req.Email,
		Role:      model.UserRoleUser,
		Networks:  networks,
		CreatedOn: time.Now(),
		UpdatedOn: time.Now(),
	}
	m.users[u.ID] = u
	m.hashes[u.ID] = hash
	m.order = append(m.order, u.ID)
	return u, nil
}

func (m *mockUserRepo) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.User, error) {
	m.tenants = append(m.tenants, t)
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.User
	for _, id := range m.order {
		if u, ok := m.users[id]; ok && matches(filter, m.field(u)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, t tenant.ID, id string) (*model.User, error) {
	if u, ok := m.users[ref("user", id)]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func (m *mockUserRepo) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.User, error) {
	u := m.first(filter)
	if u == nil {
		return nil, database.ErrNotFound
	}
	if v, ok := update.Set["firstName"].(string); ok {
		u.FirstName = v
	}
	if v, ok := update.Set["email"].(string); ok {
		u.Email = v
	}
	return u, nil
}

func (m *mockUserRepo) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.UserSummary, error) {
	u := m.first(filter)
	if u == nil {
		return nil, database.ErrNotFound
	}
	delete(m.users, u.ID)
	return u.Summary(), nil
}

func (m *mockUserRepo) Credentials(ctx context.Context, t tenant.ID, login string) (*model.Credentials, error) {
	for _, id := range m.order {
		u, ok := m.users[id]
		if ok && (u.Email == login || u.UserName == login) {
			return &model.Credentials{UserID: u.ID, Hash: m.hashes[u.ID]}, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *mockUserRepo) CredentialsByID(ctx context.Context, t tenant.ID, userID string) (*model.Credentials, error) {
	id := ref("user", userID)
	if _, ok := m.users[id]; !ok {
		return nil, database.ErrNotFound
	}
	return &model.Credentials{UserID: id, Hash: m.hashes[id]}, nil
}

func (m *mockUserRepo) SetPassword(ctx context.Context, t tenant.ID, userID, hash string) error {
	m.hashes[ref("user", userID)] = hash
	return nil
}

func (m *mockUserRepo) Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.UserSummary, error) {
	out := make(map[string]*model.UserSummary)
	for _, id := range ids {
		if u, ok := m.users[ref("user", id)]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

// membership records one ApplyMembership call
type membership struct {
	NetworkID string
	Update    model.Update
	Member    model.ArrayOp
	UserIDs   []string
}

type mockNetworkRepo struct {
	networks map[string]*model.Network
	order    []string
	users    *mockUserRepo
	applied   []membership
	modified  []model.Update
	createErr error
}

func newMockNetworkRepo(users *mockUserRepo) *mockNetworkRepo {
	return &mockNetworkRepo{networks: make(map[string]*model.Network), users: users}
}

func (m *mockNetworkRepo) field(n *model.Network) func(string) interface{} {
	return func(name string) interface{} {
		switch name {
		case "id":
			return n.ID
		case "net_acronym":
			return n.NetAcronym
		default:
			return nil
		}
	}
}

func (m *mockNetworkRepo) first(filter model.Filter) *model.Network {
	for _, id := range m.order {
		if n, ok := m.networks[id]; ok && matches(filter, m.field(n)) {
			return n
		}
	}
	return nil
}

func (m *mockNetworkRepo) Create(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) (*model.Network, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, n := range m.networks {
		if n.NetAcronym == req.NetAcronym {
			return nil, &database.DuplicateKeyError{Index: "networkAcronymIndex", Fields: []string{"net_acronym"}, Value: req.NetAcronym}
		}
	}
	users := []string{}
	if req.NetManager != "" {
		users = append(users, req.NetManager)
	}
	n := &model.Network{
		ID:         "network:" + strings.ToLower(req.NetAcronym),
		NetEmail:   req.NetEmail,
		NetName:    req.NetName,
		NetAcronym: req.NetAcronym,
		NetStatus:  req.NetStatus,
		NetManager: req.NetManager,
		NetUsers:   users,
	}
	m.networks[n.ID] = n
	m.order = append(m.order, n.ID)
	if m.users != nil {
		if u, ok := m.users.users[req.NetManager]; ok {
			u.Networks = applyArrays(u.Networks, model.ArrayOp{Field: "networks", Kind: model.AddToSet, Values: []string{n.ID}})
		}
	}
	return n, nil
}

func (m *mockNetworkRepo) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Network, error) {
	var out []*model.Network
	for _, id := range m.order {
		if n, ok := m.networks[id]; ok && matches(filter, m.field(n)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNetworkRepo) GetByID(ctx context.Context, t tenant.ID, id string) (*model.Network, error) {
	if n, ok := m.networks[ref("network", id)]; ok {
		return n, nil
	}
	return nil, database.ErrNotFound
}

func (m *mockNetworkRepo) FindID(ctx context.Context, t tenant.ID, filter model.Filter) (string, error) {
	n := m.first(filter)
	if n == nil {
		return "", database.ErrNotFound
	}
	return n.ID, nil
}

func (m *mockNetworkRepo) apply(n *model.Network, update model.Update) {
	if v, ok := update.Set["net_manager"].(string); ok {
		n.NetManager = v
	}
	if v, ok := update.Set["net_name"].(string); ok {
		n.NetName = v
	}
	for _, op := range update.Arrays {
		if op.Field == "net_users" {
			n.NetUsers = applyArrays(n.NetUsers, op)
		}
	}
}

func (m *mockNetworkRepo) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Network, error) {
	n := m.first(filter)
	if n == nil {
		return nil, database.ErrNotFound
	}
	m.modified = append(m.modified, update)
	m.apply(n, update)
	return n, nil
}

func (m *mockNetworkRepo) ApplyMembership(ctx context.Context, t tenant.ID, networkID string, update model.Update, member model.ArrayOp, userIDs []string) (*model.Network, error) {
	n, ok := m.networks[networkID]
	if !ok {
		return nil, database.ErrNotFound
	}
	m.applied = append(m.applied, membership{NetworkID: networkID, Update: update, Member: member, UserIDs: userIDs})
	m.apply(n, update)
	if m.users != nil {
		for _, id := range userIDs {
			if u, ok := m.users.users[id]; ok {
				u.Networks = applyArrays(u.Networks, member)
			}
		}
	}
	return n, nil
}

func (m *mockNetworkRepo) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.NetworkSummary, error) {
	n := m.first(filter)
	if n == nil {
		return nil, database.ErrNotFound
	}
	delete(m.networks, n.ID)
	if m.users != nil {
		for _, u := range m.users.users {
			u.Networks = applyArrays(u.Networks, model.ArrayOp{Field: "networks", Kind: model.Pull, Values: []string{n.ID}})
		}
	}
	return n.Summary(), nil
}

func (m *mockNetworkRepo) Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.NetworkSummary, error) {
	out := make(map[string]*model.NetworkSummary)
	for _, id := range ids {
		if n, ok := m.networks[id]; ok {
			out[id] = n.Summary()
		}
	}
	return out, nil
}

type mockLocationRepo struct {
	entries   []*model.LocationHistory
	upserted  [][]*model.CreateLocationHistoryRequest
	listCalls int
	upsertErr error
	// onList runs after each ListByUser read
	onList func()
}

func (m *mockLocationRepo) Create(ctx context.Context, t tenant.ID, req *model.CreateLocationHistoryRequest) (*model.LocationHistory, error) {
	e := &model.LocationHistory{
		ID:             fmt.Sprintf("location_history:%d", len(m.entries)+1),
		FirebaseUserID: req.FirebaseUserID,
		PlaceID:        req.PlaceID,
		Name:           req.Name,
		Location:       req.Location,
	}
	if req.Latitude != nil {
		e.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		e.Longitude = *req.Longitude
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockLocationRepo) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.LocationHistory, error) {
	return m.entries, nil
}

func (m *mockLocationRepo) ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) ([]*model.LocationHistory, error) {
	m.listCalls++
	var out []*model.LocationHistory
	for _, e := range m.entries {
		if e.FirebaseUserID == firebaseUserID {
			out = append(out, e)
		}
	}
	if m.onList != nil {
		m.onList()
	}
	return out, nil
}

func (m *mockLocationRepo) Upsert(ctx context.Context, t tenant.ID, entries []*model.CreateLocationHistoryRequest) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, entries)
	for _, e := range entries {
		if _, err := m.Create(ctx, t, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockLocationRepo) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.LocationHistory, error) {
	for _, e := range m.entries {
		if matches(filter, func(name string) interface{} {
			if name == "id" {
				return e.ID
			}
			return nil
		}) {
			if v, ok := update.Set["name"].(string); ok {
				e.Name = v
			}
			return e, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *mockLocationRepo) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.LocationHistorySummary, error) {
	for i, e := range m.entries {
		if matches(filter, func(name string) interface{} {
			if name == "id" {
				return e.ID
			}
			return nil
		}) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e.Summary(), nil
		}
	}
	return nil, database.ErrNotFound
}
