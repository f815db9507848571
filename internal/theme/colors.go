package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	c, ok := parseHex(hexColor)
	if !ok {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// NormalizeHex returns the #rrggbb form of a color string in any format
// accepted by ParseColorString, or "" when it cannot be parsed
func NormalizeHex(colorStr string) string {
	colorStr = strings.TrimSpace(colorStr)
	if strings.HasPrefix(colorStr, "#") {
		if c, ok := parseHex(colorStr); ok {
			return c.Hex()
		}
		return ""
	}
	if r, g, b, ok := parseRGB(colorStr); ok {
		return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
	}
	return ""
}

// ParseColorString handles multiple color formats: #RRGGBB, #RGB, or rgb(r,g,b)
func ParseColorString(colorStr string) tcell.Color {
	colorStr = strings.TrimSpace(colorStr)

	if strings.HasPrefix(colorStr, "#") {
		return HexToColor(colorStr)
	}

	if r, g, b, ok := parseRGB(colorStr); ok {
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}

	return tcell.ColorDefault
}

// ColorPairToStyle creates a style with specific foreground and background colors
func ColorPairToStyle(fgColor, bgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor).Background(bgColor)
}

func parseHex(hexColor string) (colorful.Color, bool) {
	hexColor = strings.TrimPrefix(strings.TrimSpace(hexColor), "#")

	// Short form (#RGB)
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}
	if len(hexColor) != 6 {
		return colorful.Color{}, false
	}

	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func parseRGB(colorStr string) (int, int, int, bool) {
	if !strings.HasPrefix(colorStr, "rgb(") || !strings.HasSuffix(colorStr, ")") {
		return 0, 0, 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(colorStr, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	var rgb [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return 0, 0, 0, false
		}
		rgb[i] = v
	}
	return rgb[0], rgb[1], rgb[2], true
}

// HexToRGB splits a #RRGGBB or #RGB color into 0-255 components
func HexToRGB(hexColor string) (int, int, int, bool) {
	c, ok := parseHex(hexColor)
	if !ok {
		return 0, 0, 0, false
	}
	r, g, b := c.RGB255()
	return int(r), int(g), int(b), true
}
