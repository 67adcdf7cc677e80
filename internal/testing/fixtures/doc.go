// Package fixtures provides test data factories for database-backed tests.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories insert through the
// repositories, so the records match what the API itself writes.
//
// Usage:
//
//	f := fixtures.New(tdb.Pool, tdb.Tenant)
//	manager := f.CreateUser(t)
//	network := f.CreateNetwork(t, fixtures.WithManager(manager.ID))
package fixtures
