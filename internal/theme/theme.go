// Package theme assigns stable colors to labels and holds the fixed colors
// used for badges and log levels
package theme

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Colors holds the fixed colors of the diagnostic output, as #rrggbb
type Colors struct {
	// Counter badge appended to every title
	CounterForeground string
	CounterBackground string

	// Log level tags
	Debug string
	Error string

	// Editor link in the viewer
	Link string
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns the built-in theme: white on red counter badge
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			CounterForeground: "#ffffff",
			CounterBackground: "#ff0000",
			Debug:             "#7dcfff", // Cyan
			Error:             "#f7768e", // Red
			Link:              "#7aa2f7", // Blue
		},
	}
}

// CounterCSS returns the console style for the counter badge
func (t *Theme) CounterCSS() string {
	return fmt.Sprintf("color: %s; background: %s; padding: 0 1em;",
		cssName(t.Colors.CounterForeground), cssName(t.Colors.CounterBackground))
}

// CounterStyle returns the counter badge as a tcell style
func (t *Theme) CounterStyle() tcell.Style {
	return ColorPairToStyle(ParseColorString(t.Colors.CounterForeground), ParseColorString(t.Colors.CounterBackground))
}

// IdentityStyle returns the tcell style of a label identity
func IdentityStyle(id Identity) tcell.Style {
	return ColorPairToStyle(HexToColor(id.ForegroundHex()), HexToColor(id.BackgroundHex()))
}

// cssName maps the default badge colors back to the names browsers print
func cssName(hex string) string {
	switch hex {
	case "#ffffff":
		return "white"
	case "#ff0000":
		return "red"
	case "#000000":
		return "black"
	}
	return hex
}
