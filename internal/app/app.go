// Package app wires the snapshot store, diff engine, location resolver and
// emitter into the debugger the CLI drives
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pstuifzand/renderwatch/internal/config"
	"github.com/pstuifzand/renderwatch/internal/diff"
	"github.com/pstuifzand/renderwatch/internal/emit"
	"github.com/pstuifzand/renderwatch/internal/locate"
	"github.com/pstuifzand/renderwatch/internal/model"
	"github.com/pstuifzand/renderwatch/internal/storage"
	"github.com/pstuifzand/renderwatch/internal/theme"
)

// Options configure a Debugger. Zero values select the defaults.
type Options struct {
	Config  *config.Config
	Sink    emit.Sink
	Fetcher locate.Fetcher
	Store   storage.Store
}

// Debugger reports what changed between invocations of tracked instances.
// All state lives in the Debugger; two Debuggers share nothing.
type Debugger struct {
	store    storage.Store
	engine   *diff.Engine
	emitter  *emit.Emitter
	resolver *locate.Resolver
	cache    *locate.SourceCache
	palette  *theme.Palette

	mu        sync.Mutex
	observed  int
	instances map[string]struct{}
	last      string // component and summary of the latest report
}

// New creates a debugger
func New(opts Options) *Debugger {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = locate.NewDefaultFetcher()
	}
	store := opts.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}

	engine := diff.NewEngine(diff.Options{
		PruneDeleted:   cfg.Diff.PruneDeleted,
		FrozenBaseline: cfg.Diff.FrozenBaseline,
	})
	palette := theme.NewPalette()
	cache := locate.NewSourceCache(fetcher)

	return &Debugger{
		store:     store,
		engine:    engine,
		emitter:   emit.NewEmitter(opts.Sink, palette, theme.FromOverrides(cfg.Colors), engine.Serializer(), cfg.EditorLinks()),
		resolver:  locate.NewResolver(cache, cfg.Resolver.Marker),
		cache:     cache,
		palette:   palette,
		instances: make(map[string]struct{}),
	}
}

// Observe diffs one invocation against the instance's snapshot and emits
// the result. Location resolution is started first but never waited for:
// the entries are written before the editor link is known.
func (d *Debugger) Observe(ctx context.Context, inv model.Invocation) model.Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	instance := inv.Instance
	if instance == "" {
		instance = inv.Component
	}
	snap := d.store.GetOrCreate(instance)
	d.instances[instance] = struct{}{}
	d.observed++

	pending := d.locate(ctx, inv)
	observed := model.NewRecord(inv.Observed.Props, inv.Observed.State)
	report := d.engine.Diff(snap, observed)
	d.emitter.Emit(inv.Component, inv.Details, report, snap, observed, pending)
	d.last = fmt.Sprintf("%s %s", inv.Component, diff.Summary(report))
	return report
}

func (d *Debugger) locate(ctx context.Context, inv model.Invocation) *locate.Pending {
	switch {
	case inv.Source != nil && inv.Source.File != "":
		return d.resolver.Known(inv.Source.File, inv.Source.Line)
	case inv.Frame != "":
		return d.resolver.Resolve(ctx, inv.Frame)
	}
	return locate.Settled(locate.Location{})
}

// Replay observes every invocation in a JSON Lines trace and returns how
// many were observed
func (d *Debugger) Replay(ctx context.Context, r io.Reader) (int, error) {
	reader := storage.NewTraceReader(r)
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		inv, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("replay: %w", err)
		}
		d.Observe(ctx, inv)
		count++
	}
}

// Status summarizes what the debugger has seen
func (d *Debugger) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	status := fmt.Sprintf("%d invocations, %d instances, %d labels, %d sources cached",
		d.observed, len(d.instances), d.palette.Len(), d.cache.Len())
	if d.last != "" {
		status += "; last: " + d.last
	}
	return status
}

// Wait blocks until every editor link started so far has settled. A fetch
// that never returns blocks Wait forever; callers that exit should bound it.
func (d *Debugger) Wait() {
	d.emitter.Wait()
}

// WaitContext is Wait bounded by ctx
func (d *Debugger) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
