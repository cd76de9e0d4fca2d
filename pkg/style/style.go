// Package style holds the host-independent cell style used by the tree widget.
//
// A Style is a plain value so that tree labels can carry per-segment colors
// without importing any terminal library. Conversions to lipgloss live here;
// the tcell conversion lives next to the tcell surface in pkg/ui.
package style

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color is a terminal color: "" (terminal default), an ANSI palette index
// ("0".."255") or a hex triplet ("#rrggbb").
type Color string

// Reset is the terminal default color.
const Reset Color = ""

// ANSI palette shortcuts.
const (
	Black   Color = "0"
	Red     Color = "1"
	Green   Color = "2"
	Yellow  Color = "3"
	Blue    Color = "4"
	Magenta Color = "5"
	Cyan    Color = "6"
	White   Color = "7"
	Gray    Color = "8"
)

var colorNames = map[string]Color{
	"default": Reset,
	"reset":   Reset,
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"yellow":  Yellow,
	"blue":    Blue,
	"magenta": Magenta,
	"cyan":    Cyan,
	"white":   White,
	"gray":    Gray,
	"grey":    Gray,
}

// ParseColor accepts a color name, an ANSI index or a hex triplet.
// Hex colors come back as lowercase #rrggbb, #rgb included.
// It reports false for anything else.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reset, true
	}
	if c, ok := colorNames[strings.ToLower(s)]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 3 {
			return Reset, false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return Reset, false
		}
		hex = strings.ToLower(hex)
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return Color("#" + hex), true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return Reset, false
	}
	return Color(strconv.Itoa(n)), true
}

// IsReset reports whether the color is the terminal default.
func (c Color) IsReset() bool { return c == Reset }

// Modifier is a bit set of text attributes.
type Modifier uint8

const (
	Bold Modifier = 1 << iota
	Dim
	Italic
	Underline
	Reverse
)

// Has reports whether all bits of m are set.
func (m Modifier) Has(flag Modifier) bool { return m&flag == flag }

// Style is a foreground/background pair plus modifiers.
// The zero value draws with the terminal defaults.
type Style struct {
	Fg   Color
	Bg   Color
	Mods Modifier
}

// New returns a style with the given foreground.
func New(fg Color) Style { return Style{Fg: fg} }

// Foreground returns a copy with the foreground replaced.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy with the background replaced.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// Add returns a copy with the modifiers added.
func (s Style) Add(m Modifier) Style {
	s.Mods |= m
	return s
}

// Patch layers other on top of s: non-default colors replace, modifiers accumulate.
func (s Style) Patch(other Style) Style {
	if other.Fg != Reset {
		s.Fg = other.Fg
	}
	if other.Bg != Reset {
		s.Bg = other.Bg
	}
	s.Mods |= other.Mods
	return s
}

// IsZero reports whether the style has no effect.
func (s Style) IsZero() bool { return s == Style{} }

// Lipgloss converts the style for the given renderer.
// A nil renderer uses lipgloss' default renderer.
func (s Style) Lipgloss(r *lipgloss.Renderer) lipgloss.Style {
	var ls lipgloss.Style
	if r != nil {
		ls = r.NewStyle()
	} else {
		ls = lipgloss.NewStyle()
	}
	if s.Fg != Reset {
		ls = ls.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != Reset {
		ls = ls.Background(lipgloss.Color(s.Bg))
	}
	if s.Mods.Has(Bold) {
		ls = ls.Bold(true)
	}
	if s.Mods.Has(Dim) {
		ls = ls.Faint(true)
	}
	if s.Mods.Has(Italic) {
		ls = ls.Italic(true)
	}
	if s.Mods.Has(Underline) {
		ls = ls.Underline(true)
	}
	if s.Mods.Has(Reverse) {
		ls = ls.Reverse(true)
	}
	return ls
}
