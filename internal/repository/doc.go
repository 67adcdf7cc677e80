// Package repository implements the data access layer of the accounts API.
//
// Every repository is tenant-partitioned: methods take a tenant.ID and
// resolve that tenant's database through a database.Router before running
// any SurrealQL.
//
// # Operations
//
// Resources share one generic table implementation:
//
//   - register: CREATE ... CONTENT, returning the stored record
//   - list: SELECT with equality filters, ORDER BY, LIMIT and START
//   - modify: the first matching record only, returned after the update
//   - remove: the first matching record only, returned as a Summary
//
// A missing match on modify or remove is database.ErrNotFound. Unique index
// violations surface as *database.DuplicateKeyError.
//
// # Relationship Arrays
//
// model.ArrayOp values are rendered with array::union (add-to-set) and
// array::complement (pull), so repeated assignment never duplicates members.
//
// # Example Usage
//
//	repo := NewNetworkRepository(pool, NewUserRepository(pool))
//	network, err := repo.Modify(ctx, tenant.MustParse("airqo"),
//	    model.Filter{"net_acronym": "AQ"},
//	    model.Update{Set: map[string]interface{}{"net_status": "active"}})
//	if errors.Is(err, database.ErrNotFound) {
//	    // no network matched
//	}
package repository
