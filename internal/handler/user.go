package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// UserService defines the user operations the handler needs
type UserService interface {
	Register(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest) model.Result[*model.User]
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.UserView]
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateUserRequest) model.Result[*model.User]
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.UserSummary]
	Login(ctx context.Context, t tenant.ID, req *model.LoginRequest) model.Result[*model.LoginResult]
	UpdatePassword(ctx context.Context, t tenant.ID, userID string, req *model.UpdatePasswordRequest) model.Result[*model.UserSummary]
}

// userFilterFields are the query parameters accepted as user filters
var userFilterFields = []string{"id", "email", "userName", "organization", "privilege"}

// LoginPath is where logins for every tenant are served
const LoginPath = "/api/v1/users/loginUser"

// UserHandler handles user endpoints
type UserHandler struct {
	users         UserService
	defaultTenant tenant.ID
}

// NewUserHandler creates a new user handler. Logins for tenants other than
// defaultTenant are redirected to the default tenant.
func NewUserHandler(users UserService, defaultTenant tenant.ID) *UserHandler {
	return &UserHandler{users: users, defaultTenant: defaultTenant}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, auth middleware.Middleware) {
	mux.HandleFunc("POST /api/v1/users", h.Register)
	mux.HandleFunc("POST "+LoginPath, h.Login)
	mux.HandleFunc("POST /api/v1/users/logout", h.Logout)
	mux.Handle("GET /api/v1/users", auth(http.HandlerFunc(h.List)))
	mux.Handle("PUT /api/v1/users", auth(http.HandlerFunc(h.Modify)))
	mux.Handle("DELETE /api/v1/users", auth(http.HandlerFunc(h.Remove)))
	mux.Handle("PUT /api/v1/users/updatePassword", auth(http.HandlerFunc(h.UpdatePassword)))
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req model.RegisterUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.users.Register(r.Context(), t, &req).WriteJSON(w, "user")
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	h.users.List(r.Context(), t, queryFilter(r, userFilterFields...), listOptions(r)).WriteJSON(w, "users")
}

// Modify handles PUT /api/v1/users. Changing role needs an admin token.
func (h *UserHandler) Modify(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, userFilterFields...)
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	if req.Role != nil {
		if claims := middleware.GetClaims(r.Context()); claims == nil || !claims.IsAdmin() {
			model.Fail[any](http.StatusForbidden, "admin role required to change a role", nil).WriteJSON(w, "")
			return
		}
	}
	h.users.Modify(r.Context(), t, filter, &req).WriteJSON(w, updatedKey("user"))
}

// Remove handles DELETE /api/v1/users
func (h *UserHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filter, ok := targetFilter(w, r, userFilterFields...)
	if !ok {
		return
	}
	h.users.Remove(r.Context(), t, filter).WriteJSON(w, removedKey("user"))
}

// Login handles POST /api/v1/users/loginUser
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	if t != h.defaultTenant {
		target := LoginPath + "?" + url.Values{"tenant": {h.defaultTenant.String()}}.Encode()
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.users.Login(r.Context(), t, &req).WriteJSON(w, "auth")
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	model.Fail[any](http.StatusNotImplemented, "logout is not implemented", nil).WriteJSON(w, "")
}

// UpdatePassword handles PUT /api/v1/users/updatePassword. The id query
// parameter selects the user; it defaults to the caller.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	t, ok := requestTenant(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("id")
	if userID == "" {
		userID = middleware.GetUserID(r.Context())
	}
	if userID == "" {
		model.NewBadRequest[any]([]model.FieldError{{Field: "id", Message: "id is required"}}).WriteJSON(w, "")
		return
	}

	var req model.UpdatePasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	h.users.UpdatePassword(r.Context(), t, userID, &req).WriteJSON(w, "user")
}
