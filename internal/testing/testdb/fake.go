package testdb

import (
	"context"
	"strings"
	"sync"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/tenant"
)

// Row is one record returned by a stub
type Row map[string]interface{}

// Call is one recorded query
type Call struct {
	Tenant tenant.ID
	Query  string
	Vars   map[string]interface{}
}

type stub struct {
	match string
	rows  []Row
	err   error
	used  bool
}

// Fake is a scripted in-memory database. Each stub answers the first
// unanswered query containing its match text; unmatched queries return an
// empty result.
type Fake struct {
	// RouteErr, when set, fails every For and Ping call
	RouteErr error

	mu      sync.Mutex
	stubs   []*stub
	calls   []Call
	tenant  tenant.ID
	tenants []tenant.ID
}

// NewFake creates an empty fake
func NewFake() *Fake {
	return &Fake{}
}

// On answers the next query containing match with rows
func (f *Fake) On(match string, rows ...Row) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, &stub{match: match, rows: rows})
	return f
}

// OnError fails the next query containing match with err
func (f *Fake) OnError(match string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, &stub{match: match, err: err})
	return f
}

// For implements database.Router. It records the tenant and routes every
// tenant to the fake itself.
func (f *Fake) For(_ context.Context, id tenant.ID) (database.Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RouteErr != nil {
		return nil, f.RouteErr
	}
	f.tenant = id
	f.tenants = append(f.tenants, id)
	return f, nil
}

// Connect implements database.Database
func (f *Fake) Connect(context.Context) error { return nil }

// Close implements database.Database
func (f *Fake) Close() error { return nil }

// Ping implements database.Database
func (f *Fake) Ping(context.Context) error { return f.RouteErr }

// Query implements database.Database
func (f *Fake) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Tenant: f.tenant, Query: query, Vars: vars})

	for _, s := range f.stubs {
		if s.used || !strings.Contains(query, s.match) {
			continue
		}
		s.used = true
		if s.err != nil {
			return nil, s.err
		}
		return wrap(s.rows), nil
	}
	return wrap(nil), nil
}

// QueryOne implements database.Database
func (f *Fake) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := f.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return database.FirstRecord(results)
}

// Execute implements database.Database
func (f *Fake) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := f.Query(ctx, query, vars)
	return err
}

// Calls returns every recorded query
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Matching returns the recorded queries containing match
func (f *Fake) Matching(match string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if strings.Contains(c.Query, match) {
			out = append(out, c)
		}
	}
	return out
}

// Tenants returns the tenants routed so far, in order
func (f *Fake) Tenants() []tenant.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tenant.ID, len(f.tenants))
	copy(out, f.tenants)
	return out
}

// wrap builds the {status, result} response of a single statement
func wrap(rows []Row) []interface{} {
	result := make([]interface{}, len(rows))
	for i, r := range rows {
		result[i] = map[string]interface{}(r)
	}
	return []interface{}{map[string]interface{}{
		"status": "OK",
		"result": result,
	}}
}
