// Package ui is the interactive terminal viewer for diagnostic entries
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/renderwatch/internal/emit"
	"github.com/pstuifzand/renderwatch/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates and initializes a terminal screen with the given theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenWith(tcellScreen, t)
}

// NewScreenWith wraps an existing tcell screen, initializing it. Tests pass
// a simulation screen.
func NewScreenWith(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position and returns the column
// after the last character drawn
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	return x
}

// DrawStringLimited draws a string, truncating it if it exceeds maxWidth
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	return s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// FillRow paints a whole row with style
func (s *Screen) FillRow(y int, style tcell.Style) {
	for x := 0; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, resize, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync redraws everything, used after a resize
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	s.width, s.height = s.tcellScreen.Size()
	return s.width, s.height
}

// DefaultStyle returns the default terminal style
func DefaultStyle() tcell.Style {
	return tcell.StyleDefault
}

// StyleDim returns a dim style
func StyleDim() tcell.Style {
	return tcell.StyleDefault.Dim(true)
}

// HeaderStyle returns the style of the top and bottom bars
func (s *Screen) HeaderStyle() tcell.Style {
	return tcell.StyleDefault.Reverse(true).Bold(true)
}

// SelectedStyle returns the style of the selected row
func (s *Screen) SelectedStyle() tcell.Style {
	return tcell.StyleDefault.Reverse(true)
}

// LevelStyle returns the style of a level tag
func (s *Screen) LevelStyle(level emit.Level) tcell.Style {
	hex := s.Theme.Colors.Debug
	if level == emit.LevelError {
		hex = s.Theme.Colors.Error
	}
	style := tcell.StyleDefault.Foreground(theme.HexToColor(hex))
	if level == emit.LevelError {
		style = style.Bold(true)
	}
	return style
}

// LinkStyle returns the style of editor links
func (s *Screen) LinkStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(theme.HexToColor(s.Theme.Colors.Link)).Underline(true)
}

// SegmentStyle returns the style of one title segment
func (s *Screen) SegmentStyle(seg emit.Segment) tcell.Style {
	return theme.ColorPairToStyle(theme.HexToColor(seg.Foreground), theme.HexToColor(seg.Background))
}
