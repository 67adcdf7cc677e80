package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/airqo/platform/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest, hash string) (*model.User, error)
	List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.User, error)
	GetByID(ctx context.Context, t tenant.ID, id string) (*model.User, error)
	Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.User, error)
	Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.UserSummary, error)
	Credentials(ctx context.Context, t tenant.ID, login string) (*model.Credentials, error)
	CredentialsByID(ctx context.Context, t tenant.ID, userID string) (*model.Credentials, error)
	SetPassword(ctx context.Context, t tenant.ID, userID, hash string) error
	Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.UserSummary, error)
}

// NetworkSummarizer resolves network ids into summaries
type NetworkSummarizer interface {
	Summaries(ctx context.Context, t tenant.ID, ids []string) (map[string]*model.NetworkSummary, error)
}

// TokenSigner issues access tokens
type TokenSigner interface {
	Sign(claims jwt.Claims) (string, error)
	GetExpiration() time.Duration
}

// UserService handles user accounts and authentication
type UserService struct {
	users      UserRepository
	networks   NetworkSummarizer
	tokens     TokenSigner
	bcryptCost int
	limit      int
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo    UserRepository
	NetworkRepo NetworkSummarizer
	Tokens      TokenSigner
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	// ListLimit defaults to model.DefaultUserLimit
	ListLimit int
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	limit := cfg.ListLimit
	if limit <= 0 {
		limit = model.DefaultUserLimit
	}
	return &UserService{
		users:      cfg.UserRepo,
		networks:   cfg.NetworkRepo,
		tokens:     cfg.Tokens,
		bcryptCost: cost,
		limit:      limit,
	}
}

// Register creates a user with a hashed password
func (s *UserService) Register(ctx context.Context, t tenant.ID, req *model.RegisterUserRequest) model.Result[*model.User] {
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.User](errs)
	}
	req.Networks = refs("network", req.Networks)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return ErrorResult[*model.User](err, "user")
	}

	user, err := s.users.Create(ctx, t, req, string(hash))
	if err != nil {
		return ErrorResult[*model.User](err, "user")
	}
	return created("user", user)
}

// List returns a page of users with their networks expanded
func (s *UserService) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) model.Result[[]*model.UserView] {
	users, err := s.users.List(ctx, t, filter, opts.Normalize(s.limit))
	if err != nil {
		return ErrorResult[[]*model.UserView](err, "user")
	}

	var ids []string
	for _, u := range users {
		ids = append(ids, u.Networks...)
	}
	summaries, err := s.networks.Summaries(ctx, t, uniqueIDs(ids))
	if err != nil {
		return ErrorResult[[]*model.UserView](err, "network")
	}

	views := make([]*model.UserView, 0, len(users))
	for _, u := range users {
		view := &model.UserView{User: u, Networks: make([]*model.NetworkSummary, 0, len(u.Networks))}
		for _, id := range u.Networks {
			if n, ok := summaries[id]; ok {
				view.Networks = append(view.Networks, n)
			} else {
				slog.Warn("user references a missing network", "tenant", t, "user", u.ID, "network", id)
			}
		}
		views = append(views, view)
	}
	return listed("users", views)
}

// Modify updates the first user matching filter
func (s *UserService) Modify(ctx context.Context, t tenant.ID, filter model.Filter, req *model.UpdateUserRequest) model.Result[*model.User] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.User](errs)
	}
	update := req.Update()
	if update.IsEmpty() {
		return ErrorResult[*model.User](ErrNothingToUpdate, "user")
	}

	user, err := s.users.Modify(ctx, t, filter, update)
	if err != nil {
		return ErrorResult[*model.User](err, "user")
	}
	return modified("user", user)
}

// Remove deletes the first user matching filter
func (s *UserService) Remove(ctx context.Context, t tenant.ID, filter model.Filter) model.Result[*model.UserSummary] {
	user, err := s.users.Remove(ctx, t, filter)
	if err != nil {
		return ErrorResult[*model.UserSummary](err, "user")
	}
	return removed("user", user)
}

// Login verifies credentials and issues an access token scoped to t
func (s *UserService) Login(ctx context.Context, t tenant.ID, req *model.LoginRequest) model.Result[*model.LoginResult] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.LoginResult](errs)
	}

	creds, err := s.users.Credentials(ctx, t, req.UserName)
	if errors.Is(err, database.ErrNotFound) {
		return ErrorResult[*model.LoginResult](ErrInvalidCredentials, "user")
	}
	if err != nil {
		return ErrorResult[*model.LoginResult](err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.Hash), []byte(req.Password)) != nil {
		return ErrorResult[*model.LoginResult](ErrInvalidCredentials, "user")
	}

	user, err := s.users.GetByID(ctx, t, creds.UserID)
	if err != nil {
		return ErrorResult[*model.LoginResult](err, "user")
	}

	token, err := s.tokens.Sign(jwt.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		Tenant:   t.String(),
		Role:     string(user.Role),
	})
	if err != nil {
		return ErrorResult[*model.LoginResult](err, "user")
	}

	return model.OK(http.StatusOK, "login successful", &model.LoginResult{
		User:      user.Summary(),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokens.GetExpiration().Seconds()),
	})
}

// UpdatePassword replaces the password of userID after checking the old one
func (s *UserService) UpdatePassword(ctx context.Context, t tenant.ID, userID string, req *model.UpdatePasswordRequest) model.Result[*model.UserSummary] {
	if errs := req.Validate(); len(errs) > 0 {
		return invalid[*model.UserSummary](errs)
	}

	creds, err := s.users.CredentialsByID(ctx, t, userID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrorResult[*model.UserSummary](ErrUserNotFound, "user")
	}
	if err != nil {
		return ErrorResult[*model.UserSummary](err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.Hash), []byte(req.OldPassword)) != nil {
		return ErrorResult[*model.UserSummary](ErrPasswordMismatch, "user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return ErrorResult[*model.UserSummary](err, "user")
	}
	if err := s.users.SetPassword(ctx, t, creds.UserID, string(hash)); err != nil {
		return ErrorResult[*model.UserSummary](err, "user")
	}

	user, err := s.users.GetByID(ctx, t, creds.UserID)
	if err != nil {
		return ErrorResult[*model.UserSummary](err, "user")
	}
	return model.OK(http.StatusOK, "password updated", user.Summary())
}
