package model

import "fmt"

// ChangeKind classifies one event of a change report
type ChangeKind int

const (
	FirstObservation ChangeKind = iota
	NewKey
	ChangedValue
	DeletedKey
	DeepChangeOnly
	Unchanged
)

func (k ChangeKind) String() string {
	switch k {
	case FirstObservation:
		return "first-observation"
	case NewKey:
		return "new-key"
	case ChangedValue:
		return "changed-value"
	case DeletedKey:
		return "deleted-key"
	case DeepChangeOnly:
		return "deep-change-only"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Shallow reports whether the kind is produced by the per-key comparison
func (k ChangeKind) Shallow() bool {
	return k == NewKey || k == ChangedValue || k == DeletedKey
}

// Change is a single classified difference
type Change struct {
	Kind  ChangeKind
	Block BlockName
	Key   string

	Value    any // NewKey
	OldValue any // ChangedValue
	NewValue any // ChangedValue

	SerializedOld string // DeepChangeOnly
	SerializedNew string // DeepChangeOnly
}

// Path returns "block.key", or "" for record level events
func (c Change) Path() string {
	if c.Key == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s", c.Block, c.Key)
}

// Report is the ordered list of changes found by one diff pass
type Report []Change

// Kinds returns the kind of every change in order
func (r Report) Kinds() []ChangeKind {
	kinds := make([]ChangeKind, len(r))
	for i, c := range r {
		kinds[i] = c.Kind
	}
	return kinds
}

// Shallow reports whether the report contains any per-key change
func (r Report) Shallow() bool {
	for _, c := range r {
		if c.Kind.Shallow() {
			return true
		}
	}
	return false
}

// Has reports whether the report contains a change of the given kind
func (r Report) Has(kind ChangeKind) bool {
	for _, c := range r {
		if c.Kind == kind {
			return true
		}
	}
	return false
}
