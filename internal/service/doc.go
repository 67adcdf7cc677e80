// Package service implements the business rules of the accounts API.
//
// Services sit between HTTP handlers and repositories. Each one declares
// the repository interface it needs, composes records across models (for
// example expanding a network's users into summaries) and turns every
// outcome into a model.Result. Errors become results in exactly one place,
// ErrorResult in envelope.go.
//
// Services:
//   - UserService: registration, listing, login and password changes
//   - NetworkService: networks and their membership actions
//   - DefaultService: per-user chart defaults
//   - LocationHistoryService: saved places and their synchronisation
//   - HostService: incentive hosts
package service
