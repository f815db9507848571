package emit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pstuifzand/renderwatch/internal/model"
)

// Level is the log channel an entry is written to
type Level int

const (
	LevelDebug Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Segment is one styled piece of a title
type Segment struct {
	Text       string
	Foreground string // #rrggbb
	Background string // #rrggbb
	CSS        string
}

// Title is the colored heading shared by all entries of one invocation
type Title struct {
	Segments []Segment
}

// Markup returns the console format string, e.g. "%cApp %cdetails %c#3"
func (t Title) Markup() string {
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = "%c" + s.Text
	}
	return strings.Join(parts, " ")
}

// Styles returns one CSS string per %c in Markup
func (t Title) Styles() []string {
	styles := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		styles[i] = s.CSS
	}
	return styles
}

// Text returns the unstyled title
func (t Title) Text() string {
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Payload is the debug data attached to every entry of one invocation. All
// entries share the same *Payload so the editor link added later is visible
// through any of them.
type Payload struct {
	Observed   model.Record
	Snapshot   *model.Snapshot
	Serialized string

	mu   sync.RWMutex
	link string
	done bool
}

// OpenInEditor returns the editor link, or "" while it is not known
func (p *Payload) OpenInEditor() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.link
}

// Resolved reports whether location resolution has finished, whether or
// not it produced a link
func (p *Payload) Resolved() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.done
}

func (p *Payload) resolve(link string) {
	p.mu.Lock()
	p.link = link
	p.done = true
	p.mu.Unlock()
}

// Entry is one structured log line
type Entry struct {
	Time      time.Time
	Level     Level
	Component string
	Token     int
	Title     Title
	Message   string
	Args      []any
	Change    model.Change
	Payload   *Payload
}

// Line renders the entry as plain text, e.g. "App #2 new key : props.x 1"
func (e Entry) Line() string {
	var b strings.Builder
	b.WriteString(e.Title.Text())
	b.WriteString(" ")
	b.WriteString(e.Message)
	for _, arg := range e.Args {
		fmt.Fprintf(&b, " %v", arg)
	}
	return b.String()
}
