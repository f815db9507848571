package theme

import (
	"fmt"
	"log"
)

// Keys accepted in the [colors] section of the config file
const (
	KeyCounterForeground = "counter_foreground"
	KeyCounterBackground = "counter_background"
	KeyDebug             = "debug"
	KeyError             = "error"
	KeyLink              = "link"
)

// FromOverrides builds a theme from the config [colors] section, falling back
// to the default theme for missing or unparsable entries
func FromOverrides(overrides map[string]string) *Theme {
	t := Default()
	if len(overrides) == 0 {
		return t
	}

	fields := map[string]*string{
		KeyCounterForeground: &t.Colors.CounterForeground,
		KeyCounterBackground: &t.Colors.CounterBackground,
		KeyDebug:             &t.Colors.Debug,
		KeyError:             &t.Colors.Error,
		KeyLink:              &t.Colors.Link,
	}

	for key, value := range overrides {
		field, ok := fields[key]
		if !ok {
			log.Printf("theme: ignoring unknown color %q", key)
			continue
		}
		hex := NormalizeHex(value)
		if hex == "" {
			log.Printf("theme: ignoring %s: %v", key, fmt.Errorf("unparsable color %q", value))
			continue
		}
		*field = hex
	}

	t.Name = "custom"
	return t
}
