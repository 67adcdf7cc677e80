package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/tenant"
)

// TestDB provides an isolated database environment for testing.
// Each TestDB instance gets a unique namespace to ensure test isolation.
type TestDB struct {
	Pool      *database.Pool
	Tenant    tenant.ID
	Namespace string
	t         *testing.T
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns database config from environment or defaults
func getTestConfig() (database.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return database.Config{}, false
	}

	return database.Config{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New creates an isolated tenant database with migrations applied. The test
// is skipped when TEST_DB_HOST is not set.
func New(t *testing.T) *TestDB {
	t.Helper()

	cfg, ok := getTestConfig()
	if !ok {
		t.Skip("testdb: TEST_DB_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	pool := database.NewPool(database.PoolConfig{Base: cfg, Migrate: true})
	id := tenant.MustParse("airqo")

	if err := pool.Ping(ctx, id); err != nil {
		_ = pool.Close()
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	return &TestDB{
		Pool:      pool,
		Tenant:    id,
		Namespace: cfg.Namespace,
		t:         t,
	}
}

// Close removes the test namespace and closes every connection.
func (tdb *TestDB) Close() {
	if tdb.Pool == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if db, err := tdb.Pool.For(ctx, tdb.Tenant); err == nil {
		query := fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace)
		_ = db.Execute(ctx, query, nil) // Ignore errors on cleanup
	}

	_ = tdb.Pool.Close()
}

// Ctx returns a context with a reasonable timeout for test operations.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustExec executes a query on the test tenant and fails the test on error.
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	db, err := tdb.Pool.For(tdb.Ctx(), tdb.Tenant)
	if err != nil {
		tdb.t.Fatalf("testdb: %v", err)
	}
	if err := db.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}
