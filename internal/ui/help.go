package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// KeyBinding is one line of the help screen
type KeyBinding struct {
	Keys        string
	Description string
}

// DefaultKeyBindings lists the viewer's keys
var DefaultKeyBindings = []KeyBinding{
	{"j / ↓", "Next entry"},
	{"k / ↑", "Previous entry"},
	{"PgDn / PgUp", "Page down / up"},
	{"g / Home", "First entry"},
	{"G / End", "Newest entry, follow new ones"},
	{"/", "Filter entries (fuzzy), ↑/↓ recall earlier filters"},
	{"c", "Clear filter"},
	{"d", "Toggle detail pane"},
	{"?", "Toggle this help"},
	{"q / Esc", "Quit"},
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBinding
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen(keybindings []KeyBinding) *HelpScreen {
	return &HelpScreen{keybindings: keybindings}
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// Hide closes the help screen
func (h *HelpScreen) Hide() {
	h.visible = false
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the formatted keybindings
func (h *HelpScreen) Lines() []string {
	width := 0
	for _, kb := range h.keybindings {
		if w := StringWidth(kb.Keys); w > width {
			width = w
		}
	}

	var result []string
	for _, kb := range h.keybindings {
		result = append(result, fmt.Sprintf("  %s  %s", PadStringToWidth(kb.Keys, width), kb.Description))
	}
	return result
}

// Render renders the help screen as a box over the log
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	width, height := screen.Size()
	lines := h.Lines()

	boxWidth := width - 10
	boxHeight := len(lines) + 4
	if boxHeight > height-2 {
		boxHeight = height - 2
	}
	if boxWidth < 20 || boxHeight < 5 {
		return // Too small to render
	}
	startX, startY := 5, 1

	for y := startY; y < startY+boxHeight; y++ {
		for x := startX; x < startX+boxWidth; x++ {
			screen.SetCell(x, y, ' ', DefaultStyle())
		}
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, DefaultStyle())
	screen.DrawString(startX+2, startY, " Keybindings (? to close) ", screen.HeaderStyle())

	for i, line := range lines {
		y := startY + 2 + i
		if y >= startY+boxHeight-1 {
			break
		}
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, DefaultStyle())
	}
}

// drawBox draws a simple box border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	// Top border
	screen.SetCell(x, y, '┌', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y, '─', style)
	}
	screen.SetCell(x+width-1, y, '┐', style)

	// Bottom border
	screen.SetCell(x, y+height-1, '└', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y+height-1, '─', style)
	}
	screen.SetCell(x+width-1, y+height-1, '┘', style)

	// Side borders
	for i := 1; i < height-1; i++ {
		screen.SetCell(x, y+i, '│', style)
		screen.SetCell(x+width-1, y+i, '│', style)
	}
}
