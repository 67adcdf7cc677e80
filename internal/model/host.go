package model

import (
	"strings"
	"time"
)

// Host is a person hosting a device at a site and receiving incentives
type Host struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	SiteID      string    `json:"site_id,omitempty"`
	Network     string    `json:"network,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Summary returns the projection returned after removal
func (h *Host) Summary() *HostSummary {
	return &HostSummary{
		ID:        h.ID,
		FirstName: h.FirstName,
		LastName:  h.LastName,
		Email:     h.Email,
		SiteID:    h.SiteID,
	}
}

// HostSummary is the safe projection of a host
type HostSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	SiteID    string `json:"site_id,omitempty"`
}

// CreateHostRequest represents a request to register a host
type CreateHostRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	SiteID      string `json:"site_id,omitempty"`
	Network     string `json:"network,omitempty"`
}

// Normalize trims input and lower-cases the email
func (r *CreateHostRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Validate validates the create host request
func (r *CreateHostRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("first_name", r.FirstName)...)
	errs = append(errs, required("last_name", r.LastName)...)
	errs = append(errs, required("phone_number", r.PhoneNumber)...)
	errs = append(errs, validEmail("email", r.Email)...)
	return errs
}

// UpdateHostRequest represents a partial host update
type UpdateHostRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	SiteID      *string `json:"site_id,omitempty"`
	Network     *string `json:"network,omitempty"`
}

// Validate validates the update host request
func (r *UpdateHostRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email != nil {
		errs = append(errs, validEmail("email", *r.Email)...)
	}
	if r.PhoneNumber != nil {
		errs = append(errs, required("phone_number", *r.PhoneNumber)...)
	}
	return errs
}

// Update translates the request into field assignments
func (r *UpdateHostRequest) Update() Update {
	s := setter{}
	s.str("first_name", r.FirstName)
	s.str("last_name", r.LastName)
	s.str("phone_number", r.PhoneNumber)
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		s.str("email", &email)
	}
	s.str("site_id", r.SiteID)
	s.str("network", r.Network)
	return Update{Set: s}
}
