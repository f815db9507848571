package diff

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/pstuifzand/renderwatch/internal/model"
)

// canonicalRecord is the shape that gets serialized. Blocks become plain maps
// so the printer emits their keys sorted, independent of insertion order.
type canonicalRecord struct {
	Props map[string]any
	State map[string]any
}

// Serializer produces the canonical deep serialization used by the
// deep-change fallback and by diagnostic payloads
type Serializer struct {
	printer *spew.ConfigState
}

// NewSerializer creates a serializer with stable key order and two space indent
func NewSerializer() *Serializer {
	return &Serializer{
		printer: &spew.ConfigState{
			Indent:                  "  ",
			SortKeys:                true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
		},
	}
}

// Record serializes an observed record
func (s *Serializer) Record(r model.Record) string {
	return s.printer.Sdump(canonical(r))
}

// Snapshot serializes the blocks of a snapshot
func (s *Serializer) Snapshot(snap *model.Snapshot) string {
	return s.printer.Sdump(canonical(snap.Record()))
}

// Pair serializes an observed record together with a snapshot, the way the
// diagnostic payload shows them
func (s *Serializer) Pair(observed model.Record, snap *model.Snapshot) string {
	return s.printer.Sdump(struct {
		Observed canonicalRecord
		Snapshot canonicalRecord
	}{
		Observed: canonical(observed),
		Snapshot: canonical(snap.Record()),
	})
}

func canonical(r model.Record) canonicalRecord {
	return canonicalRecord{
		Props: r.Props.Map(),
		State: r.State.Map(),
	}
}
