package grid

import (
	"fmt"
	"strings"
)

// BlankColor is what an unstarted cell persists as.
const BlankColor = "#ffffff"

// Ramp is the light-to-dark colour scale, one entry per stage.
type Ramp [Stages]string

func DefaultRamp() Ramp {
	return Ramp{"#b7efc5", "#6ede8a", "#25a244", "#1a7431", "#04471c"}
}

// ParseRamp builds a ramp from config values.
func ParseRamp(colors []string) (Ramp, error) {
	var r Ramp
	if len(colors) != Stages {
		return r, fmt.Errorf("ramp needs %d colours, got %d", Stages, len(colors))
	}
	seen := map[string]struct{}{}
	for i, c := range colors {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			return r, fmt.Errorf("ramp colour %d is empty", i+1)
		}
		if c == BlankColor {
			return r, fmt.Errorf("ramp colour %d collides with the blank colour", i+1)
		}
		if _, ok := seen[c]; ok {
			return r, fmt.Errorf("ramp colour %q repeats", c)
		}
		seen[c] = struct{}{}
		r[i] = c
	}
	return r, nil
}

func (r Ramp) Color(s Stage) string {
	if !s.Valid() {
		return BlankColor
	}
	return r[s]
}

// StageOf reverses Color. Anything not on the ramp is Unstarted.
func (r Ramp) StageOf(color string) Stage {
	color = strings.ToLower(strings.TrimSpace(color))
	for i, c := range r {
		if c == color {
			return Stage(i)
		}
	}
	return Unstarted
}
