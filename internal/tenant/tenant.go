// Package tenant defines the validated tenant identifier that selects a
// logical data partition, and the resolver that turns a raw request value
// into one.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrInvalid indicates a tenant value that is not a valid identifier.
	ErrInvalid = errors.New("invalid tenant")

	// ErrNotAllowed indicates a valid tenant that is not in the allowlist.
	ErrNotAllowed = errors.New("tenant not allowed")
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,62}$`)

// ID is a lower-cased, validated tenant identifier.
// The zero value is not a valid tenant.
type ID string

// Parse normalizes and validates a raw tenant value.
func Parse(raw string) (ID, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if !idPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	return ID(v), nil
}

// MustParse is like Parse but panics on error. Use only for constants.
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identifier
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether id is unset
func (id ID) IsZero() bool {
	return id == ""
}

// Resolver resolves request tenant values, substituting the default when
// the value is absent.
type Resolver struct {
	def     ID
	allowed map[ID]struct{}
}

// NewResolver creates a resolver. An empty allowed list accepts any valid
// identifier. The default tenant is always allowed.
func NewResolver(defaultTenant string, allowed []string) (*Resolver, error) {
	def, err := Parse(defaultTenant)
	if err != nil {
		return nil, fmt.Errorf("default tenant: %w", err)
	}

	r := &Resolver{def: def}
	if len(allowed) > 0 {
		r.allowed = make(map[ID]struct{}, len(allowed)+1)
		r.allowed[def] = struct{}{}
		for _, a := range allowed {
			id, err := Parse(a)
			if err != nil {
				return nil, fmt.Errorf("allowed tenants: %w", err)
			}
			r.allowed[id] = struct{}{}
		}
	}
	return r, nil
}

// Default returns the configured default tenant
func (r *Resolver) Default() ID {
	return r.def
}

// IsDefault reports whether id is the default tenant
func (r *Resolver) IsDefault(id ID) bool {
	return id == r.def
}

// Allowed returns the allowlist in sorted order, or nil when any tenant is accepted.
func (r *Resolver) Allowed() []ID {
	if r.allowed == nil {
		return nil
	}
	out := make([]ID, 0, len(r.allowed))
	for id := range r.allowed {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve returns the tenant for a raw request value. Blank values resolve
// to the default tenant.
func (r *Resolver) Resolve(raw string) (ID, error) {
	if strings.TrimSpace(raw) == "" {
		return r.def, nil
	}

	id, err := Parse(raw)
	if err != nil {
		return "", err
	}
	if r.allowed != nil {
		if _, ok := r.allowed[id]; !ok {
			return "", fmt.Errorf("%w: %s", ErrNotAllowed, id)
		}
	}
	return id, nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying the tenant
func WithContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the tenant stored in ctx, if any
func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(contextKey{}).(ID)
	return id, ok && id != ""
}
