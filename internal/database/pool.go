package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/airqo/platform/api/internal/tenant"
)

//go:embed migrations/*.surql
var migrationFS embed.FS

// Migrations returns the embedded schema statements in file order.
func Migrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(migrationFS, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		out = append(out, string(content))
	}
	return out, nil
}

// Connector opens a connection for a tenant database.
type Connector func(ctx context.Context, cfg Config) (Database, error)

// PoolConfig holds configuration for the tenant pool
type PoolConfig struct {
	Base      Config
	Connector Connector
	Migrate   bool
}

// Pool routes tenants to their own database connection. Connections are
// opened lazily and kept for the life of the pool. Opening a tenant never
// holds the lock, so a slow dial only delays callers of that tenant.
type Pool struct {
	base    Config
	connect Connector
	migrate bool

	mu    sync.RWMutex
	conns map[tenant.ID]Database
	opens singleflight.Group
}

// NewPool creates a tenant pool. A nil Connector dials SurrealDB.
func NewPool(cfg PoolConfig) *Pool {
	connect := cfg.Connector
	if connect == nil {
		connect = dialSurreal
	}
	return &Pool{
		base:    cfg.Base,
		connect: connect,
		migrate: cfg.Migrate,
		conns:   make(map[tenant.ID]Database),
	}
}

func dialSurreal(ctx context.Context, cfg Config) (Database, error) {
	db := NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func (p *Pool) lookup(id tenant.ID) (Database, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	db, ok := p.conns[id]
	return db, ok
}

// For returns the database for a tenant, connecting on first use.
// Concurrent first calls for one tenant share a single dial; each caller
// still returns when its own ctx is done.
func (p *Pool) For(ctx context.Context, id tenant.ID) (Database, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: empty tenant", ErrConnection)
	}
	if db, ok := p.lookup(id); ok {
		return db, nil
	}

	// the shared dial outlives any single caller's cancellation
	dialCtx := context.WithoutCancel(ctx)
	ch := p.opens.DoChan(id.String(), func() (interface{}, error) {
		if db, ok := p.lookup(id); ok {
			return db, nil
		}
		db, err := p.open(dialCtx, id)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.conns[id] = db
		p.mu.Unlock()
		return db, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Database), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: tenant %s: %v", ErrConnection, id, ctx.Err())
	}
}

// open dials and migrates a tenant database
func (p *Pool) open(ctx context.Context, id tenant.ID) (Database, error) {
	cfg := p.base
	cfg.Database = id.String()

	db, err := p.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if p.migrate {
		if err := applyMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("tenant %s: %w", id, err)
		}
	}

	slog.Info("opened tenant database",
		slog.String("tenant", id.String()),
		slog.String("namespace", cfg.Namespace),
	)
	return db, nil
}

// Close closes every open tenant connection
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for id, db := range p.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, id)
	}
	return firstErr
}

// Ping checks the connection for a tenant
func (p *Pool) Ping(ctx context.Context, id tenant.ID) error {
	db, err := p.For(ctx, id)
	if err != nil {
		return err
	}
	return db.Ping(ctx)
}

func applyMigrations(ctx context.Context, db Database) error {
	migs, err := Migrations()
	if err != nil {
		return err
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
