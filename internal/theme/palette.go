package theme

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// HueStep is how far the hue cursor advances for every new label. With 360
// degrees this gives 12 distinct hues before the sequence repeats.
const HueStep = 210

// Foreground is the text color drawn on top of an identity background
type Foreground string

const (
	ForegroundBlack Foreground = "black"
	ForegroundWhite Foreground = "white"
)

// Identity is the stable visual identity of a label
type Identity struct {
	Hue        int
	Foreground Foreground
}

// Background returns the fully saturated, half lightness background color
func (id Identity) Background() colorful.Color {
	return colorful.Hsl(float64(id.Hue), 1, 0.5)
}

// BackgroundHex returns the background as #rrggbb
func (id Identity) BackgroundHex() string {
	return id.Background().Clamped().Hex()
}

// ForegroundHex returns the foreground as #rrggbb
func (id Identity) ForegroundHex() string {
	if id.Foreground == ForegroundWhite {
		return "#ffffff"
	}
	return "#000000"
}

// CSS returns the console style for a title segment
func (id Identity) CSS() string {
	return fmt.Sprintf("color: %s; background: hsl(%d, 100%%, 50%%); padding: 0 1em;", id.Foreground, id.Hue)
}

// Palette hands out identities to labels. The same label always gets the
// same identity for the lifetime of the palette.
type Palette struct {
	mu   sync.Mutex
	hues map[string]int
	next int
}

// NewPalette creates a palette whose first label gets hue 0
func NewPalette() *Palette {
	return &Palette{
		hues: make(map[string]int),
	}
}

// ColorFor returns the identity of label, allocating a hue on first use
func (p *Palette) ColorFor(label string) Identity {
	p.mu.Lock()
	hue, ok := p.hues[label]
	if !ok {
		hue = p.next
		p.next = (p.next + HueStep) % 360
		p.hues[label] = hue
	}
	p.mu.Unlock()

	return Identity{Hue: hue, Foreground: foregroundFor(hue)}
}

// Len returns the number of labels allocated so far
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.hues)
}

// foregroundFor picks white text for the blue-violet range where the
// background is too dark for black
func foregroundFor(hue int) Foreground {
	if hue > 200 && hue < 300 {
		return ForegroundWhite
	}
	return ForegroundBlack
}
