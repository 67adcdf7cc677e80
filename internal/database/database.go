// Package database provides the database abstraction layer for the platform API.
//
// This package defines the Database interface that abstracts SurrealDB operations,
// allowing for clean separation between business logic and data access.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// # Tenancy
//
// Every tenant owns one SurrealDB database inside the configured namespace.
// Pool routes a tenant.ID to its connection, opening it and applying the
// embedded schema on first use.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation (see DuplicateKeyError)
//   - ErrValidation: Schema assertion failure (see SchemaError)
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() and errors.As() to check error types:
//
//	var dup *database.DuplicateKeyError
//	if errors.As(err, &dup) {
//	    // dup.Fields names the conflicting fields
//	}
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/airqo/platform/api/internal/tenant"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrValidation indicates a value rejected by a field assertion.
	ErrValidation = errors.New("schema validation failed")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// DuplicateKeyError reports a unique index violation and the fields it covers.
type DuplicateKeyError struct {
	Index  string
	Fields []string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s already contains %s", ErrDuplicate, strings.Join(e.Fields, ", "), e.Value)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicate
}

// SchemaError reports a field whose value failed a schema assertion.
type SchemaError struct {
	Field  string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: field %s: %s", ErrValidation, e.Field, e.Detail)
}

func (e *SchemaError) Unwrap() error {
	return ErrValidation
}

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Router resolves the database that holds a tenant's partition.
type Router interface {
	For(ctx context.Context, id tenant.ID) (Database, error)
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
