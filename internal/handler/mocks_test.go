package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock services
// ============================================================================

type mockUserService struct {
	registerFunc       func(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest) model.Result[*model.User]
	listFunc           func(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.UserView]
	modifyFunc         func(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateUserRequest) model.Result[*model.User]
	removeFunc         func(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.UserSummary]
	loginFunc          func(ctx context.Context, t tenant.ID, req *model.LoginRequest) model.Result[*model.LoginResult]
	updatePasswordFunc func(ctx context.Context, t tenant.ID, userID string, req *model.UpdatePasswordRequest) model.Result[*model.UserSummary]
}

func (m *mockUserService) Register(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest) model.Result[*model.User] {
	return m.registerFunc(ctx, t, req)
}

func (m *mockUserService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.UserView] {
	return m.listFunc(ctx, t, filter, opts)
}

func (m *mockUserService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateUserRequest) model.Result[*model.User] {
	return m.modifyFunc(ctx, t, filter, req)
}

func (m *mockUserService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.UserSummary] {
	return m.removeFunc(ctx, t, filter)
}

func (m *mockUserService) Login(ctx context.Context, t tenant.ID, req *model.LoginRequest) model.Result[*model.LoginResult] {
	return m.loginFunc(ctx, t, req)
}

func (m *mockUserService) UpdatePassword(ctx context.Context, t tenant.ID, userID string, req *model.UpdatePasswordRequest) model.Result[*model.UserSummary] {
	return m.updatePasswordFunc(ctx, t, userID, req)
}

type mockNetworkService struct {
	registerFunc      func(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) model.Result[*model.Network]
	listFunc          func(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.NetworkView]
	modifyFunc        func(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateNetworkRequest) model.Result[*model.Network]
	removeFunc        func(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.NetworkSummary]
	memberFunc        func(action string, t tenant.ID, networkID, userID string) model.Result[*model.Network]
	assignedUsersFunc func(ctx context.Context, t tenant.ID, networkID string) model.Result[[]*model.UserSummary]
}

func (m *mockNetworkService) Register(ctx context.Context, t tenant.ID, req *model.RegisterNetworkRequest) model.Result[*model.Network] {
	return m.registerFunc(ctx, t, req)
}

func (m *mockNetworkService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.NetworkView] {
	return m.listFunc(ctx, t, filter, opts)
}

func (m *mockNetworkService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateNetworkRequest) model.Result[*model.Network] {
	return m.modifyFunc(ctx, t, filter, req)
}

func (m *mockNetworkService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.NetworkSummary] {
	return m.removeFunc(ctx, t, filter)
}

func (m *mockNetworkService) AssignUser(_ context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return m.memberFunc(model.ActionAssignUser, t, networkID, userID)
}

func (m *mockNetworkService) UnassignUser(_ context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return m.memberFunc(model.ActionUnassignUser, t, networkID, userID)
}

func (m *mockNetworkService) SetManager(_ context.Context, t tenant.ID, networkID, userID string) model.Result[*model.Network] {
	return m.memberFunc(model.ActionSetManager, t, networkID, userID)
}

func (m *mockNetworkService) AssignedUsers(ctx context.Context, t tenant.ID, networkID string) model.Result[[]*model.UserSummary] {
	return m.assignedUsersFunc(ctx, t, networkID)
}

type mockLocationHistoryService struct {
	LocationHistoryService
	listByUserFunc func(ctx context.Context, t tenant.ID, firebaseUserID string) model.Result[[]*model.LocationHistory]
	syncFunc       func(ctx context.Context, t tenant.ID, firebaseUserID string, req *model.SyncLocationHistoryRequest) model.Result[[]*model.LocationHistory]
	removeFunc     func(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.LocationHistorySummary]
}

func (m *mockLocationHistoryService) ListByUser(ctx context.Context, t tenant.ID, firebaseUserID string) model.Result[[]*model.LocationHistory] {
	return m.listByUserFunc(ctx, t, firebaseUserID)
}

func (m *mockLocationHistoryService) Sync(ctx context.Context, t tenant.ID, firebaseUserID string, req *model.SyncLocationHistoryRequest) model.Result[[]*model.LocationHistory] {
	return m.syncFunc(ctx, t, firebaseUserID, req)
}

func (m *mockLocationHistoryService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.LocationHistorySummary] {
	return m.removeFunc(ctx, t, filter)
}

type mockHostService struct {
	HostService
	listFunc func(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Host]
}

func (m *mockHostService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.Host] {
	return m.listFunc(ctx, t, filter, opts)
}

type mockDefaultService struct {
	DefaultService
	registerFunc func(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) model.Result[*model.Default]
}

func (m *mockDefaultService) Register(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) model.Result[*model.Default] {
	return m.registerFunc(ctx, t, req)
}

// ============================================================================
// Test Helpers
// ============================================================================

// routes is implemented by every resource handler
type routes interface {
	RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware)
}

// passAuth stands in for the auth middleware and marks the caller as user:caller
func passAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, "user:caller")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newTestServer mounts h behind tenant resolution with airqo as default tenant
func newTestServer(t *testing.T, h routes) http.Handler {
	t.Helper()
	resolver, err := tenant.NewResolver("airqo", []string{"kcca"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, passAuth)
	return middleware.Tenant(resolver)(mux)
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
