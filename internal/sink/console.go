// Package sink contains the places diagnostic entries can be written to
package sink

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"github.com/pstuifzand/renderwatch/internal/emit"
	"github.com/pstuifzand/renderwatch/internal/model"
	"github.com/pstuifzand/renderwatch/internal/theme"
)

// ColorMode selects whether the console emits color codes
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode accepts auto, on and off
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto, "":
		return ColorAuto, nil
	case ColorOn, "always":
		return ColorOn, nil
	case ColorOff, "never":
		return ColorOff, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, on or off)", s)
}

// Console writes one line per entry to a writer, with colored titles
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	levels   map[emit.Level]*color.Color
	verbose  bool
}

// NewConsole creates a console sink. In verbose mode error-level entries are
// followed by the serializations that differ.
func NewConsole(w io.Writer, mode ColorMode, th *theme.Theme, verbose bool) *Console {
	if th == nil {
		th = theme.Default()
	}

	renderer := lipgloss.NewRenderer(w)
	switch mode {
	case ColorOn:
		renderer.SetColorProfile(termenv.TrueColor)
	case ColorOff:
		renderer.SetColorProfile(termenv.Ascii)
	}

	levels := map[emit.Level]*color.Color{
		emit.LevelDebug: levelColor(th.Colors.Debug),
		emit.LevelError: levelColor(th.Colors.Error).Add(color.Bold),
	}
	for _, c := range levels {
		switch mode {
		case ColorOn:
			c.EnableColor()
		case ColorOff:
			c.DisableColor()
		default:
			if renderer.ColorProfile() == termenv.Ascii {
				c.DisableColor()
			}
		}
	}

	return &Console{
		w:        w,
		renderer: renderer,
		levels:   levels,
		verbose:  verbose,
	}
}

// Write prints the entry
func (c *Console) Write(e emit.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	b.WriteString(c.levels[e.Level].Sprintf("%-5s", e.Level))
	b.WriteString(" ")
	b.WriteString(c.title(e.Title))
	b.WriteString(" ")
	b.WriteString(e.Message)
	for _, arg := range e.Args {
		b.WriteString(" ")
		b.WriteString(formatArg(arg))
	}
	b.WriteString("\n")

	if c.verbose && e.Change.Kind == model.DeepChangeOnly {
		b.WriteString(indent("- ", e.Change.SerializedOld))
		b.WriteString(indent("+ ", e.Change.SerializedNew))
	}

	io.WriteString(c.w, b.String())
}

func (c *Console) title(t emit.Title) string {
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		style := c.renderer.NewStyle().
			Foreground(lipgloss.Color(s.Foreground)).
			Background(lipgloss.Color(s.Background)).
			Padding(0, 1)
		parts[i] = style.Render(s.Text)
	}
	return strings.Join(parts, "")
}

func levelColor(hex string) *color.Color {
	r, g, b, ok := theme.HexToRGB(hex)
	if !ok {
		return color.New(color.FgWhite)
	}
	return color.RGB(r, g, b)
}

// formatArg prints strings bare and everything else with %#v-like detail
func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%+v", arg)
}

func indent(prefix, text string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
