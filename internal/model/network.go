package model

import (
	"strings"
	"time"
)

// Network status values
const (
	NetworkStatusActive   = "active"
	NetworkStatusInactive = "inactive"
)

// Network represents an organisation that groups users
type Network struct {
	ID             string    `json:"id"`
	NetEmail       string    `json:"net_email"`
	NetName        string    `json:"net_name"`
	NetAcronym     string    `json:"net_acronym"`
	NetStatus      string    `json:"net_status"`
	NetManager     string    `json:"net_manager,omitempty"`
	NetUsers       []string  `json:"net_users"`
	NetPhoneNumber string    `json:"net_phoneNumber,omitempty"`
	NetCategory    string    `json:"net_category,omitempty"`
	NetDescription string    `json:"net_description,omitempty"`
	NetWebsite     string    `json:"net_website,omitempty"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// Summary returns the safe projection of the network
func (n *Network) Summary() *NetworkSummary {
	return &NetworkSummary{
		ID:             n.ID,
		NetEmail:       n.NetEmail,
		NetName:        n.NetName,
		NetAcronym:     n.NetAcronym,
		NetStatus:      n.NetStatus,
		NetPhoneNumber: n.NetPhoneNumber,
		NetCategory:    n.NetCategory,
		NetDescription: n.NetDescription,
		NetWebsite:     n.NetWebsite,
	}
}

// NetworkSummary is the safe projection of a network
type NetworkSummary struct {
	ID             string `json:"id"`
	NetEmail       string `json:"net_email"`
	NetName        string `json:"net_name"`
	NetAcronym     string `json:"net_acronym"`
	NetStatus      string `json:"net_status"`
	NetPhoneNumber string `json:"net_phoneNumber,omitempty"`
	NetCategory    string `json:"net_category,omitempty"`
	NetDescription string `json:"net_description,omitempty"`
	NetWebsite     string `json:"net_website,omitempty"`
}

// NetworkView is a listed network with manager and users expanded
type NetworkView struct {
	*Network
	NetManager *UserSummary   `json:"net_manager,omitempty"`
	NetUsers   []*UserSummary `json:"net_users"`
}

// RegisterNetworkRequest represents a request to create a network
type RegisterNetworkRequest struct {
	NetEmail       string `json:"net_email"`
	NetName        string `json:"net_name"`
	NetAcronym     string `json:"net_acronym"`
	NetStatus      string `json:"net_status,omitempty"`
	NetManager     string `json:"net_manager,omitempty"`
	NetPhoneNumber string `json:"net_phoneNumber,omitempty"`
	NetCategory    string `json:"net_category,omitempty"`
	NetDescription string `json:"net_description,omitempty"`
	NetWebsite     string `json:"net_website,omitempty"`
}

// Normalize trims input and applies the inactive default status
func (r *RegisterNetworkRequest) Normalize() {
	r.NetEmail = strings.ToLower(strings.TrimSpace(r.NetEmail))
	r.NetName = strings.TrimSpace(r.NetName)
	r.NetAcronym = strings.TrimSpace(r.NetAcronym)
	if r.NetStatus == "" {
		r.NetStatus = NetworkStatusInactive
	}
}

// Validate validates the register network request
func (r *RegisterNetworkRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, validEmail("net_email", r.NetEmail)...)
	errs = append(errs, required("net_name", r.NetName)...)
	errs = append(errs, required("net_acronym", r.NetAcronym)...)
	errs = append(errs, oneOf("net_status", r.NetStatus, NetworkStatusActive, NetworkStatusInactive)...)
	errs = append(errs, maxLen("net_description", r.NetDescription, 500)...)
	return errs
}

// UpdateNetworkRequest represents a network update. Action selects how
// net_users and net_manager change.
type UpdateNetworkRequest struct {
	Action         string   `json:"action,omitempty"`
	NetUsers       []string `json:"net_users,omitempty"`
	NetManager     *string  `json:"net_manager,omitempty"`
	NetEmail       *string  `json:"net_email,omitempty"`
	NetName        *string  `json:"net_name,omitempty"`
	NetAcronym     *string  `json:"net_acronym,omitempty"`
	NetStatus      *string  `json:"net_status,omitempty"`
	NetPhoneNumber *string  `json:"net_phoneNumber,omitempty"`
	NetCategory    *string  `json:"net_category,omitempty"`
	NetDescription *string  `json:"net_description,omitempty"`
	NetWebsite     *string  `json:"net_website,omitempty"`
}

// Validate validates the update network request
func (r *UpdateNetworkRequest) Validate() []FieldError {
	var errs []FieldError
	if r.NetEmail != nil {
		errs = append(errs, validEmail("net_email", *r.NetEmail)...)
	}
	if r.NetStatus != nil {
		errs = append(errs, oneOf("net_status", *r.NetStatus, NetworkStatusActive, NetworkStatusInactive)...)
	}
	if _, err := r.Membership(); err != nil {
		errs = append(errs, FieldError{Field: "action", Message: err.Error()})
	}
	return errs
}

// Membership parses the membership change carried by the request
func (r *UpdateNetworkRequest) Membership() (MembershipChange, error) {
	manager := ""
	if r.NetManager != nil {
		manager = *r.NetManager
	}
	return ParseMembershipChange(r.Action, r.NetUsers, manager)
}

// Fields returns plain assignments. net_manager is only a plain field when
// no set-manager action is requested.
func (r *UpdateNetworkRequest) Fields() map[string]interface{} {
	s := setter{}
	if r.Action != ActionSetManager {
		s.str("net_manager", r.NetManager)
	}
	if r.NetEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*r.NetEmail))
		s.str("net_email", &email)
	}
	s.str("net_name", r.NetName)
	s.str("net_acronym", r.NetAcronym)
	s.str("net_status", r.NetStatus)
	s.str("net_phoneNumber", r.NetPhoneNumber)
	s.str("net_category", r.NetCategory)
	s.str("net_description", r.NetDescription)
	s.str("net_website", r.NetWebsite)
	return s
}
