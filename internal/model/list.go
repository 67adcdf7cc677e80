package model

// MaxListLimit caps every paginated read
const MaxListLimit = 1000

// Default page sizes per resource
const (
	DefaultUserLimit            = 100
	DefaultNetworkLimit         = 100
	DefaultHostLimit            = 100
	DefaultLocationHistoryLimit = 50
	DefaultChartDefaultLimit    = 5
	DefaultRegistryLimit        = 100
)

// ListOptions holds pagination for list operations
type ListOptions struct {
	Skip  int
	Limit int
}

// Normalize applies the resource default limit and clamps out-of-range values.
func (o ListOptions) Normalize(defaultLimit int) ListOptions {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	return o
}

// Filter selects records by field equality. Keys are field names chosen by
// code, never by clients; values are bound as query variables.
type Filter map[string]interface{}

// Contains matches records whose array field contains the value
type Contains struct {
	Value interface{}
}

// IsEmpty reports whether the filter has no conditions
func (f Filter) IsEmpty() bool {
	return len(f) == 0
}

// With returns a copy of f with an extra condition. Empty string values are skipped.
func (f Filter) With(field string, value interface{}) Filter {
	if s, ok := value.(string); ok && s == "" {
		return f
	}
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[field] = value
	return out
}
