package model

// ArrayOpKind selects how an array-valued relationship field changes
type ArrayOpKind int

const (
	// AddToSet appends values not already present
	AddToSet ArrayOpKind = iota
	// Pull removes every occurrence of the values
	Pull
)

func (k ArrayOpKind) String() string {
	switch k {
	case AddToSet:
		return "add-to-set"
	case Pull:
		return "pull"
	default:
		return "unknown"
	}
}

// ArrayOp is one change to an array-valued field
type ArrayOp struct {
	Field  string
	Kind   ArrayOpKind
	Values []string
}

// Update is a translated modification: plain field assignments plus array
// operations. Field names come from request types, not from clients.
type Update struct {
	Set    map[string]interface{}
	Arrays []ArrayOp
}

// IsEmpty reports whether the update changes nothing
func (u Update) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Arrays) == 0
}

// setter collects non-nil optional request fields
type setter map[string]interface{}

func (s setter) str(field string, v *string) {
	if v != nil {
		s[field] = *v
	}
}

func (s setter) float(field string, v *float64) {
	if v != nil {
		s[field] = *v
	}
}

func (s setter) boolean(field string, v *bool) {
	if v != nil {
		s[field] = *v
	}
}

func (s setter) list(field string, v []string) {
	if v != nil {
		s[field] = v
	}
}
