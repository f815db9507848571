// Package diff classifies what changed in the data observed from a tracked
// instance since its previous invocation
package diff

import (
	"github.com/pstuifzand/renderwatch/internal/model"
)

// Options tune the diff engine
type Options struct {
	// PruneDeleted removes keys that disappeared from the snapshot after
	// reporting them. By default they stay so they are reported again on
	// every later invocation that still lacks them.
	PruneDeleted bool

	// FrozenBaseline compares an identity-unchanged record against the
	// serialization taken at the end of the previous diff instead of the
	// live snapshot. Values mutated in place under the same reference then
	// show up as DeepChangeOnly; with the live snapshot they never do,
	// because the snapshot holds the very same references.
	FrozenBaseline bool
}

// Engine compares observed records against snapshots
type Engine struct {
	opts       Options
	serializer *Serializer
}

// NewEngine creates a diff engine
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts:       opts,
		serializer: NewSerializer(),
	}
}

// Serializer returns the canonical serializer used by the engine
func (e *Engine) Serializer() *Serializer {
	return e.serializer
}

// Diff classifies the changes between snap and observed and updates snap to
// the observed data. observed is never modified.
func (e *Engine) Diff(snap *model.Snapshot, observed model.Record) model.Report {
	if isFirst(snap, observed) {
		for _, name := range model.Blocks {
			stored := snap.Block(name)
			current := observed.Block(name)
			for _, key := range current.Keys() {
				value, _ := current.Get(key)
				stored.Set(key, value)
			}
		}
		snap.MarkSeen()
		e.freeze(snap)
		return model.Report{{Kind: model.FirstObservation}}
	}

	var report model.Report
	for _, name := range model.Blocks {
		report = append(report, e.diffBlock(name, snap.Block(name), observed.Block(name))...)
	}

	if len(report) > 0 {
		e.freeze(snap)
		return report
	}

	// Nothing changed by identity, fall back to comparing serializations
	before := e.serializer.Snapshot(snap)
	if e.opts.FrozenBaseline && snap.Baseline() != "" {
		before = snap.Baseline()
	}
	after := e.serializer.Record(observed)
	e.freeze(snap)

	if before == after {
		return model.Report{{Kind: model.Unchanged}}
	}
	return model.Report{{
		Kind:          model.DeepChangeOnly,
		SerializedOld: before,
		SerializedNew: after,
	}}
}

func (e *Engine) freeze(snap *model.Snapshot) {
	if e.opts.FrozenBaseline {
		snap.SetBaseline(e.serializer.Snapshot(snap))
	}
}

// diffBlock compares one block and brings stored up to date
func (e *Engine) diffBlock(name model.BlockName, stored, current *model.Block) model.Report {
	var report model.Report

	for _, key := range current.Keys() {
		value, _ := current.Get(key)
		old, exists := stored.Get(key)
		if exists && model.Same(old, value) {
			continue
		}
		if !exists {
			report = append(report, model.Change{
				Kind:  model.NewKey,
				Block: name,
				Key:   key,
				Value: value,
			})
		} else {
			report = append(report, model.Change{
				Kind:     model.ChangedValue,
				Block:    name,
				Key:      key,
				OldValue: old,
				NewValue: value,
			})
		}
		stored.Set(key, value)
	}

	for _, key := range stored.Keys() {
		if current.Has(key) {
			continue
		}
		report = append(report, model.Change{
			Kind:  model.DeletedKey,
			Block: name,
			Key:   key,
		})
		if e.opts.PruneDeleted {
			stored.Delete(key)
		}
	}

	return report
}

// isFirst reports whether this is the first invocation carrying data: no
// first observation was made yet, nothing is recorded and either observed
// block has keys. A snapshot emptied by pruning stays seen.
func isFirst(snap *model.Snapshot, observed model.Record) bool {
	return !snap.Seen() && snap.Empty() && (observed.Props.Len() > 0 || observed.State.Len() > 0)
}
