// Package emit turns change reports into styled log entries and hands them to
// a sink
package emit

import (
	"fmt"
	"sync"
	"time"

	"github.com/pstuifzand/renderwatch/internal/diff"
	"github.com/pstuifzand/renderwatch/internal/locate"
	"github.com/pstuifzand/renderwatch/internal/model"
	"github.com/pstuifzand/renderwatch/internal/theme"
)

// Sink receives log entries. Write must not block for long; entries arrive
// on the caller's goroutine.
type Sink interface {
	Write(Entry)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Entry)

// Write calls f
func (f SinkFunc) Write(e Entry) {
	f(e)
}

// Emitter builds entries for change reports
type Emitter struct {
	palette    *theme.Palette
	theme      *theme.Theme
	serializer *diff.Serializer
	editor     locate.Editor
	sink       Sink

	wg sync.WaitGroup
}

// NewEmitter creates an emitter writing to sink
func NewEmitter(sink Sink, palette *theme.Palette, th *theme.Theme, serializer *diff.Serializer, editor locate.Editor) *Emitter {
	if th == nil {
		th = theme.Default()
	}
	if serializer == nil {
		serializer = diff.NewSerializer()
	}
	return &Emitter{
		palette:    palette,
		theme:      th,
		serializer: serializer,
		editor:     editor,
		sink:       sink,
	}
}

// Emit writes one entry per change in report and returns them. It takes the
// next render token from snap. When pending settles, the shared payload's
// editor link is filled in; entries already written are not rewritten.
func (e *Emitter) Emit(component, details string, report model.Report, snap *model.Snapshot, observed model.Record, pending *locate.Pending) []Entry {
	token := snap.NextToken()
	title := e.title(component, details, token)
	payload := &Payload{
		Observed:   observed,
		Snapshot:   snap,
		Serialized: e.serializer.Pair(observed, snap),
	}

	now := time.Now()
	entries := make([]Entry, 0, len(report))
	for _, change := range report {
		msg, args := diff.Message(change)
		entry := Entry{
			Time:      now,
			Level:     levelFor(change.Kind),
			Component: component,
			Token:     token,
			Title:     title,
			Message:   msg,
			Args:      args,
			Change:    change,
			Payload:   payload,
		}
		if e.sink != nil {
			e.sink.Write(entry)
		}
		entries = append(entries, entry)
	}

	if pending == nil {
		payload.resolve("")
		return entries
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		<-pending.Done()
		loc, _ := pending.Result()
		payload.resolve(e.editor.Link(loc))
	}()

	return entries
}

// Wait blocks until every editor link started by Emit has been settled
func (e *Emitter) Wait() {
	e.wg.Wait()
}

// title builds "component [details] #token", each part with its own color
func (e *Emitter) title(component, details string, token int) Title {
	segments := []Segment{e.segment(component)}
	if details != "" {
		segments = append(segments, e.segment(details))
	}
	segments = append(segments, Segment{
		Text:       fmt.Sprintf("#%d", token),
		Foreground: e.theme.Colors.CounterForeground,
		Background: e.theme.Colors.CounterBackground,
		CSS:        e.theme.CounterCSS(),
	})
	return Title{Segments: segments}
}

func (e *Emitter) segment(label string) Segment {
	id := e.palette.ColorFor(label)
	return Segment{
		Text:       label,
		Foreground: id.ForegroundHex(),
		Background: id.BackgroundHex(),
		CSS:        id.CSS(),
	}
}

// levelFor sends changes the identity check could not explain to the error
// channel
func levelFor(kind model.ChangeKind) Level {
	if kind == model.DeepChangeOnly {
		return LevelError
	}
	return LevelDebug
}
