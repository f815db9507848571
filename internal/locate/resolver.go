package locate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// DefaultMarker is the assignment babel's JSX source plugin writes at the
// top of every compiled module
const DefaultMarker = "_jsxFileName = "

// Location is a resolved source location. File is empty when it could not
// be determined; Line and Column are 0 when unknown.
type Location struct {
	File   string
	Line   int
	Column int
}

// Known reports whether the file was found
func (l Location) Known() bool {
	return l.File != ""
}

// Pending is a location that is being resolved in the background
type Pending struct {
	done chan struct{}
	loc  Location
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Settled returns a Pending that is already resolved to loc
func Settled(loc Location) *Pending {
	p := newPending()
	p.settle(loc)
	return p
}

func (p *Pending) settle(loc Location) {
	p.loc = loc
	close(p.done)
}

// Done is closed once the location is known
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result returns the location and whether resolution has finished
func (p *Pending) Result() (Location, bool) {
	select {
	case <-p.done:
		return p.loc, true
	default:
		return Location{}, false
	}
}

// Wait blocks until the location is resolved or ctx ends
func (p *Pending) Wait(ctx context.Context) (Location, error) {
	select {
	case <-p.done:
		return p.loc, nil
	case <-ctx.Done():
		return Location{}, ctx.Err()
	}
}

// Resolver turns stack frames into authored source locations
type Resolver struct {
	cache  *SourceCache
	marker string
}

// NewResolver creates a resolver reading sources through cache. An empty
// marker selects DefaultMarker.
func NewResolver(cache *SourceCache, marker string) *Resolver {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Resolver{
		cache:  cache,
		marker: marker,
	}
}

// Resolve starts resolving frame in the background. It never fails: any
// problem settles the Pending with an unknown location. Cancelling ctx does
// not stop a resolution that has started.
func (r *Resolver) Resolve(ctx context.Context, frame string) *Pending {
	p := newPending()
	ctx = context.WithoutCancel(ctx)
	go func() {
		loc, err := r.ResolveNow(ctx, frame)
		if err != nil {
			log.Printf("locate: %v", err)
		}
		p.settle(loc)
	}()
	return p
}

// Known returns a settled Pending for a location the host already knows
func (r *Resolver) Known(file string, line int) *Pending {
	return Settled(Location{File: file, Line: line})
}

// ResolveNow resolves frame synchronously. On error the returned location
// is unknown.
func (r *Resolver) ResolveNow(ctx context.Context, frame string) (Location, error) {
	f, err := ParseFrame(frame)
	if err != nil {
		return Location{}, err
	}

	text, err := r.cache.Text(ctx, f.URL)
	if err != nil {
		return Location{}, err
	}

	file, ok := findOriginalFile(strings.Split(text, "\n"), f.Line, r.marker)
	if !ok {
		return Location{}, fmt.Errorf("no %q marker at or above %s", strings.TrimSpace(r.marker), f)
	}
	return Location{File: file}, nil
}

// findOriginalFile scans backwards from index start for the first line that
// contains marker and decodes the string literal following it
func findOriginalFile(lines []string, start int, marker string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	if start >= len(lines) {
		start = len(lines) - 1
	}

	for i := start; i >= 0; i-- {
		idx := strings.Index(lines[i], marker)
		if idx < 0 {
			continue
		}
		if file, ok := decodeLiteral(lines[i][idx+len(marker):]); ok {
			return file, true
		}
	}
	return "", false
}

// decodeLiteral decodes the first double quoted string literal in s,
// handling escapes the way JSON does
func decodeLiteral(s string) (string, bool) {
	open := strings.IndexByte(s, '"')
	if open < 0 {
		return "", false
	}

	end := -1
	for i := open + 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", false
	}

	var decoded string
	if err := json.Unmarshal([]byte(s[open:end+1]), &decoded); err != nil {
		return "", false
	}
	return decoded, true
}
