package model

import (
	"errors"
	"fmt"
)

// Update actions accepted on network membership
const (
	ActionAssignUser   = "assign-user"
	ActionUnassignUser = "unassign-user"
	ActionSetManager   = "set-manager"
)

var (
	// ErrUnknownAction indicates an action outside the closed set
	ErrUnknownAction = errors.New("unknown update action")

	// ErrMissingUsers indicates a membership action without users
	ErrMissingUsers = errors.New("net_users must list at least one user")

	// ErrMissingManager indicates set-manager without a manager
	ErrMissingManager = errors.New("net_manager is required for set-manager")
)

// MembershipChange is the closed set of network membership updates:
// AssignUsers, UnassignUsers, SetManager and PullUsers.
type MembershipChange interface {
	membershipChange()
}

// AssignUsers adds users to the network without duplicates
type AssignUsers struct {
	UserIDs []string
}

// UnassignUsers removes users from the network
type UnassignUsers struct {
	UserIDs []string
}

// SetManager makes a user the network manager and a member
type SetManager struct {
	UserID string
}

// PullUsers is applied when net_users arrives without an action. Every
// listed user is removed.
type PullUsers struct {
	UserIDs []string
}

func (AssignUsers) membershipChange()   {}
func (UnassignUsers) membershipChange() {}
func (SetManager) membershipChange()    {}
func (PullUsers) membershipChange()     {}

// ParseMembershipChange maps a request action to a MembershipChange.
// It returns nil when the request carries no membership change.
func ParseMembershipChange(action string, users []string, manager string) (MembershipChange, error) {
	switch action {
	case "":
		if len(users) == 0 {
			return nil, nil
		}
		return PullUsers{UserIDs: users}, nil
	case ActionAssignUser:
		if len(users) == 0 {
			return nil, ErrMissingUsers
		}
		return AssignUsers{UserIDs: users}, nil
	case ActionUnassignUser:
		if len(users) == 0 {
			return nil, ErrMissingUsers
		}
		return UnassignUsers{UserIDs: users}, nil
	case ActionSetManager:
		if manager == "" && len(users) == 1 {
			manager = users[0]
		}
		if manager == "" {
			return nil, ErrMissingManager
		}
		return SetManager{UserID: manager}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// NetworkUpdate translates a membership change into the network-side update.
func NetworkUpdate(change MembershipChange) (Update, error) {
	switch c := change.(type) {
	case nil:
		return Update{}, nil
	case AssignUsers:
		return Update{Arrays: []ArrayOp{{Field: "net_users", Kind: AddToSet, Values: c.UserIDs}}}, nil
	case UnassignUsers:
		return Update{Arrays: []ArrayOp{{Field: "net_users", Kind: Pull, Values: c.UserIDs}}}, nil
	case PullUsers:
		return Update{Arrays: []ArrayOp{{Field: "net_users", Kind: Pull, Values: c.UserIDs}}}, nil
	case SetManager:
		return Update{
			Set:    map[string]interface{}{"net_manager": c.UserID},
			Arrays: []ArrayOp{{Field: "net_users", Kind: AddToSet, Values: []string{c.UserID}}},
		}, nil
	default:
		return Update{}, fmt.Errorf("%w: %T", ErrUnknownAction, change)
	}
}

// MemberUpdate returns the user-side change mirroring a membership change on
// networkID, and the users it applies to.
func MemberUpdate(change MembershipChange, networkID string) (ArrayOp, []string, bool) {
	switch c := change.(type) {
	case AssignUsers:
		return ArrayOp{Field: "networks", Kind: AddToSet, Values: []string{networkID}}, c.UserIDs, true
	case UnassignUsers:
		return ArrayOp{Field: "networks", Kind: Pull, Values: []string{networkID}}, c.UserIDs, true
	case PullUsers:
		return ArrayOp{Field: "networks", Kind: Pull, Values: []string{networkID}}, c.UserIDs, true
	case SetManager:
		return ArrayOp{Field: "networks", Kind: AddToSet, Values: []string{networkID}}, []string{c.UserID}, true
	default:
		return ArrayOp{}, nil, false
	}
}
