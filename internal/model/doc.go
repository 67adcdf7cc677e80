// Package model defines the domain entities, request types and the result
// envelope shared by every layer of the accounts API.
//
// # Result Envelope
//
// Every repository-backed operation resolves to a Result. Results are built
// only through OK and Fail, so a failure always carries errors:
//
//	model.OK(http.StatusCreated, "user created", user)
//	model.Fail[*model.User](http.StatusNotFound, "user not found", nil)
//
// # Updates
//
// Request types translate client input into an Update: plain field
// assignments plus ArrayOp changes to relationship arrays. Network
// membership changes form a closed set of MembershipChange variants:
//
//	AssignUsers    add-to-set on net_users
//	UnassignUsers  pull from net_users
//	SetManager     set net_manager and add-to-set the manager
//	PullUsers      net_users without an action; pull every listed user
//
// # Projections
//
// Remove operations return a Summary type (UserSummary, NetworkSummary, ...)
// that never carries credentials or relationship arrays.
package model
