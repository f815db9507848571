package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/renderwatch/internal/sink"
)

// refreshInterval is how often the viewer redraws, which picks up new
// entries and editor links that resolved in the meantime
const refreshInterval = 100 * time.Millisecond

// Viewer is the interactive log viewer over a memory sink
type Viewer struct {
	screen *Screen
	log    *sink.Memory
	view    *LogView
	help    *HelpScreen
	history *History

	query      string
	filtering  bool
	showDetail bool
	quit       bool
}

// NewViewer creates a viewer over log drawing on screen
func NewViewer(screen *Screen, log *sink.Memory, timeFormat string) *Viewer {
	return &Viewer{
		screen:     screen,
		log:        log,
		view:       NewLogView(timeFormat),
		help:       NewHelpScreen(DefaultKeyBindings),
		history:    NewHistory(100),
		showDetail: true,
	}
}

// SetHistory replaces the filter history, e.g. with one loaded from disk
func (v *Viewer) SetHistory(h *History) {
	if h != nil {
		v.history = h
	}
}

// Run shows the viewer until the user quits or ctx ends. The screen is
// closed when Run returns.
func (v *Viewer) Run(ctx context.Context) error {
	defer v.screen.Close()

	eventChan := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)

	// Start event polling goroutine
	go func() {
		for {
			event := v.screen.PollEvent()
			if event == nil {
				return
			}
			select {
			case eventChan <- event:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	v.Render()
	for !v.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			v.HandleEvent(ev)
			v.Render()
		case <-ticker.C:
			v.Render()
		}
	}
	return nil
}

// Done reports whether the user asked to quit
func (v *Viewer) Done() bool {
	return v.quit
}

// Query returns the active filter
func (v *Viewer) Query() string {
	return v.query
}

// View returns the entry list
func (v *Viewer) View() *LogView {
	return v.view
}

// HandleEvent processes one terminal event
func (v *Viewer) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch {
		case v.help.IsVisible():
			v.handleHelpKey(ev)
		case v.filtering:
			v.handleFilterKey(ev)
		default:
			v.handleKey(ev)
		}
	}
}

func (v *Viewer) handleHelpKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == '?' || ev.Rune() == 'q' {
		v.help.Hide()
	}
}

func (v *Viewer) handleFilterKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		v.filtering = false
		v.history.Add(v.query)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.filtering = false
		v.query = ""
		v.history.Reset()
	case tcell.KeyUp:
		if q, ok := v.history.Previous(v.query); ok {
			v.query = q
		}
	case tcell.KeyDown:
		if q, ok := v.history.Next(); ok {
			v.query = q
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(v.query); len(r) > 0 {
			v.query = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		v.query += string(ev.Rune())
	}
	v.view.End()
}

func (v *Viewer) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit = true
	case tcell.KeyUp:
		v.view.Move(-1)
	case tcell.KeyDown:
		v.view.Move(1)
	case tcell.KeyPgUp:
		v.view.Page(-1)
	case tcell.KeyPgDn:
		v.view.Page(1)
	case tcell.KeyHome:
		v.view.Home()
	case tcell.KeyEnd:
		v.view.End()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			v.quit = true
		case 'k':
			v.view.Move(-1)
		case 'j':
			v.view.Move(1)
		case 'g':
			v.view.Home()
		case 'G':
			v.view.End()
		case '/':
			v.filtering = true
		case 'c':
			v.query = ""
			v.view.End()
		case 'd':
			v.showDetail = !v.showDetail
		case '?':
			v.help.Toggle()
		}
	}
}

// Render draws the current state
func (v *Viewer) Render() {
	v.view.SetEntries(v.log.Filter(v.query))

	v.screen.Clear()
	width, height := v.screen.Size()
	if height < 3 {
		v.screen.Show()
		return
	}

	header := fmt.Sprintf(" renderwatch  %d/%d entries", v.view.Len(), v.log.Len())
	if v.view.Following() {
		header += "  [follow]"
	}
	v.screen.FillRow(0, v.screen.HeaderStyle())
	v.screen.DrawStringLimited(0, 0, header, width, v.screen.HeaderStyle())

	body := height - 2
	detail := 0
	if v.showDetail && body >= 8 {
		detail = body / 2
	}
	v.view.Render(v.screen, 1, body-detail, detail)

	v.screen.FillRow(height-1, v.screen.HeaderStyle())
	footer := " / filter  d details  ? help  q quit"
	if v.filtering {
		footer = " /" + v.query + "_"
	} else if v.query != "" {
		footer = fmt.Sprintf(" filter: %s  (c to clear)", v.query)
	}
	v.screen.DrawStringLimited(0, height-1, footer, width, v.screen.HeaderStyle())

	v.help.Render(v.screen)
	v.screen.Show()
}
