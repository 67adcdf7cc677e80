// Package testdb provides database doubles and real test databases for the
// accounts API.
//
// # Scripted Fake
//
// Fake implements database.Database and database.Router. Queries are
// answered by stubs matched on a substring of the query text, and every call
// is recorded for assertions:
//
//	fake := testdb.NewFake().
//	    On("SELECT id FROM network", testdb.Row{"id": "network:aq"}).
//	    OnError("CREATE", &database.DuplicateKeyError{Fields: []string{"net_acronym"}})
//	repo := repository.NewNetworkRepository(fake, repository.NewUserRepository(fake))
//
// # Real Database
//
// New connects to the SurrealDB instance named by TEST_DB_HOST and skips the
// test when it is unset. Each TestDB gets its own namespace with the
// embedded migrations applied:
//
//	tdb := testdb.New(t)
//	defer tdb.Close()
//	repo := repository.NewUserRepository(tdb.Pool)
//	repo.List(tdb.Ctx(), tdb.Tenant, nil, opts)
package testdb
