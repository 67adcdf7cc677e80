package model

import (
	"strings"
	"time"
)

// UserRole represents the role of a user in a tenant
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User represents a user account. The password hash is never part of this
// type; see Credentials.
type User struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	UserName         string    `json:"userName"`
	Email            string    `json:"email"`
	Organization     string    `json:"organization,omitempty"`
	LongOrganization string    `json:"long_organization,omitempty"`
	Privilege        string    `json:"privilege,omitempty"`
	Role             UserRole  `json:"role,omitempty"`
	Country          string    `json:"country,omitempty"`
	PhoneNumber      string    `json:"phoneNumber,omitempty"`
	Description      string    `json:"description,omitempty"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	Website          string    `json:"website,omitempty"`
	Category         string    `json:"category,omitempty"`
	ProfilePicture   string    `json:"profilePicture,omitempty"`
	Networks         []string  `json:"networks"`
	Verified         bool      `json:"verified"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}

// Summary returns the safe projection of the user
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Email:     u.Email,
	}
}

// UserSummary is the safe projection of a user, used for removal results
// and relationship expansion.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
}

// UserView is a listed user with its networks expanded
type UserView struct {
	*User
	Networks []*NetworkSummary `json:"networks"`
}

// Credentials holds what login needs; it never leaves the service layer.
type Credentials struct {
	UserID string
	Hash   string
}

// Password constraints
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// RegisterUserRequest represents a request to create a user
type RegisterUserRequest struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	UserName         string   `json:"userName,omitempty"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	Organization     string   `json:"organization,omitempty"`
	LongOrganization string   `json:"long_organization,omitempty"`
	Privilege        string   `json:"privilege,omitempty"`
	Country          string   `json:"country,omitempty"`
	PhoneNumber      string   `json:"phoneNumber,omitempty"`
	Description      string   `json:"description,omitempty"`
	JobTitle         string   `json:"jobTitle,omitempty"`
	Website          string   `json:"website,omitempty"`
	Category         string   `json:"category,omitempty"`
	Networks         []string `json:"networks,omitempty"`
}

// Normalize lower-cases the email and defaults the user name to it
func (r *RegisterUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UserName = strings.TrimSpace(r.UserName)
	if r.UserName == "" {
		r.UserName = r.Email
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Validate validates the register user request
func (r *RegisterUserRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("firstName", r.FirstName)...)
	errs = append(errs, required("lastName", r.LastName)...)
	errs = append(errs, validEmail("email", r.Email)...)
	errs = append(errs, validatePassword("password", r.Password)...)
	errs = append(errs, maxLen("description", r.Description, 500)...)
	return errs
}

func validatePassword(field, password string) []FieldError {
	if password == "" {
		return required(field, password)
	}
	if len(password) < MinPasswordLength {
		return []FieldError{{Field: field, Message: "password must be at least 6 characters"}}
	}
	if len(password) > MaxPasswordLength {
		return []FieldError{{Field: field, Message: "password exceeds maximum length"}}
	}
	return nil
}

// UpdateUserRequest represents a partial user update. Password changes go
// through UpdatePasswordRequest.
type UpdateUserRequest struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	UserName         *string `json:"userName,omitempty"`
	Email            *string `json:"email,omitempty"`
	Organization     *string `json:"organization,omitempty"`
	LongOrganization *string `json:"long_organization,omitempty"`
	Privilege        *string `json:"privilege,omitempty"`
	Country          *string `json:"country,omitempty"`
	PhoneNumber      *string `json:"phoneNumber,omitempty"`
	Description      *string `json:"description,omitempty"`
	JobTitle         *string `json:"jobTitle,omitempty"`
	Website          *string `json:"website,omitempty"`
	Category         *string `json:"category,omitempty"`
	ProfilePicture   *string `json:"profilePicture,omitempty"`
	Verified         *bool   `json:"verified,omitempty"`
	// Role may only be changed by an admin caller
	Role *UserRole `json:"role,omitempty"`
}

// Validate validates the update user request
func (r *UpdateUserRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email != nil {
		errs = append(errs, validEmail("email", *r.Email)...)
	}
	if r.FirstName != nil {
		errs = append(errs, required("firstName", *r.FirstName)...)
	}
	if r.Description != nil {
		errs = append(errs, maxLen("description", *r.Description, 500)...)
	}
	if r.Role != nil && !r.Role.Valid() {
		errs = append(errs, FieldError{Field: "role", Message: "role must be one of user, admin"})
	}
	return errs
}

// Update translates the request into field assignments
func (r *UpdateUserRequest) Update() Update {
	s := setter{}
	s.str("firstName", r.FirstName)
	s.str("lastName", r.LastName)
	s.str("userName", r.UserName)
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		s.str("email", &email)
	}
	s.str("organization", r.Organization)
	s.str("long_organization", r.LongOrganization)
	s.str("privilege", r.Privilege)
	s.str("country", r.Country)
	s.str("phoneNumber", r.PhoneNumber)
	s.str("description", r.Description)
	s.str("jobTitle", r.JobTitle)
	s.str("website", r.Website)
	s.str("category", r.Category)
	s.str("profilePicture", r.ProfilePicture)
	s.boolean("verified", r.Verified)
	if r.Role != nil {
		role := string(*r.Role)
		s.str("role", &role)
	}
	return Update{Set: s}
}

// LoginRequest represents a login request. UserName may hold an email.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("userName", r.UserName)...)
	errs = append(errs, required("password", r.Password)...)
	return errs
}

// UpdatePasswordRequest represents a password change
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
}

// Validate validates the password change request
func (r *UpdatePasswordRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("old_password", r.OldPassword)...)
	errs = append(errs, validatePassword("password", r.Password)...)
	return errs
}

// LoginResult is returned by a successful login
type LoginResult struct {
	User      *UserSummary `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
}
