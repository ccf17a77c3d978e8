// Package themes maps the UI theme preference to the palette used when
// rendering the shareable stats card.
package themes

import (
	"net/http"
	"strings"
)

// Theme is one of the three UI themes.
type Theme string

const (
	Light    Theme = "light"
	Dark     Theme = "dark"
	Monastic Theme = "monastic"
)

// CookieName is where the theming layer keeps the active theme.
const CookieName = "theme"

// Palette holds the colours for one theme, as hex strings.
type Palette struct {
	GradientFrom string
	GradientTo   string
	Text         string
	Accent       string
	Surface      string // tile background on the completion view; empty means default
}

var palettes = map[Theme]Palette{
	Light: {
		GradientFrom: "#f8fafc",
		GradientTo:   "#ffffff",
		Text:         "#334155",
		Accent:       "#64748b",
	},
	Dark: {
		GradientFrom: "#0f172a",
		GradientTo:   "#1e293b",
		Text:         "#f1f5f9",
		Accent:       "#cbd5e1",
		Surface:      "#0f172a",
	},
	Monastic: {
		GradientFrom: "#f0ebe0",
		GradientTo:   "#e8dfd0",
		Text:         "#2a1f15",
		Accent:       "#5d4e3a",
	},
}

// Parse normalizes v; anything unrecognized is Light.
func Parse(v string) Theme {
	switch t := Theme(strings.ToLower(strings.TrimSpace(v))); t {
	case Dark, Monastic:
		return t
	default:
		return Light
	}
}

// Palette returns the colours for t.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}

// FromRequest reads the theme cookie.
func FromRequest(r *http.Request) Theme {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Light
	}
	return Parse(c.Value)
}
