package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/repository"
	"github.com/airqo/platform/api/internal/tenant"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in one tenant
type Factory struct {
	tenant    tenant.ID
	users     *repository.UserRepository
	networks  *repository.NetworkRepository
	locations *repository.LocationHistoryRepository
	hosts     *repository.HostRepository
}

// New creates a new fixture factory
func New(router database.Router, t tenant.ID) *Factory {
	users := repository.NewUserRepository(router)
	return &Factory{
		tenant:    t,
		users:     users,
		networks:  repository.NewNetworkRepository(router, users),
		locations: repository.NewLocationHistoryRepository(router),
		hosts:     repository.NewHostRepository(router),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email     string
	UserName  string
	Password  string
	FirstName string
	LastName  string
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Email:     fmt.Sprintf("user_%s@test.local", id),
		UserName:  fmt.Sprintf("user_%s", id),
		Password:  "testpass123",
		FirstName: "Test",
		LastName:  "User",
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	req := &model.RegisterUserRequest{
		FirstName: o.FirstName,
		LastName:  o.LastName,
		UserName:  o.UserName,
		Email:     o.Email,
	}
	req.Normalize()

	user, err := f.users.Create(ctx(t), f.tenant, req, string(hash))
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// ============================================================================
// Network Fixtures
// ============================================================================

// NetworkOpts customizes network creation
type NetworkOpts struct {
	Acronym string
	Email   string
	Manager string
}

// WithManager sets the network manager
func WithManager(userID string) func(*NetworkOpts) {
	return func(o *NetworkOpts) { o.Manager = userID }
}

// WithAcronym sets the network acronym
func WithAcronym(acronym string) func(*NetworkOpts) {
	return func(o *NetworkOpts) { o.Acronym = acronym }
}

// CreateNetwork creates a network with optional customizations
func (f *Factory) CreateNetwork(t *testing.T, opts ...func(*NetworkOpts)) *model.Network {
	t.Helper()

	id := randomID()
	o := &NetworkOpts{
		Acronym: strings.ToUpper(id[:6]),
		Email:   fmt.Sprintf("net_%s@test.local", id),
	}
	for _, fn := range opts {
		fn(o)
	}

	req := &model.RegisterNetworkRequest{
		NetEmail:   o.Email,
		NetName:    "Network " + o.Acronym,
		NetAcronym: o.Acronym,
		NetManager: o.Manager,
	}
	req.Normalize()

	network, err := f.networks.Create(ctx(t), f.tenant, req)
	if err != nil {
		t.Fatalf("fixtures: failed to create network: %v", err)
	}
	return network
}

// ============================================================================
// Location History Fixtures
// ============================================================================

// CreateLocationHistory records a place for a firebase user
func (f *Factory) CreateLocationHistory(t *testing.T, firebaseUserID, placeID string) *model.LocationHistory {
	t.Helper()

	lat, lng := 0.3476, 32.5825
	entry, err := f.locations.Create(ctx(t), f.tenant, &model.CreateLocationHistoryRequest{
		FirebaseUserID: firebaseUserID,
		PlaceID:        placeID,
		Name:           "Place " + placeID,
		Location:       "Kampala, Uganda",
		Latitude:       &lat,
		Longitude:      &lng,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create location history: %v", err)
	}
	return entry
}

// ============================================================================
// Host Fixtures
// ============================================================================

// CreateHost registers a host with unique email and phone number
func (f *Factory) CreateHost(t *testing.T) *model.Host {
	t.Helper()

	id := randomID()
	host, err := f.hosts.Create(ctx(t), f.tenant, &model.CreateHostRequest{
		FirstName:   "Host",
		LastName:    id,
		PhoneNumber: "+256" + id[:9],
		Email:       fmt.Sprintf("host_%s@test.local", id),
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create host: %v", err)
	}
	return host
}
