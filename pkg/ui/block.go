package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/style"
)

// BorderKind selects the glyph set of a Block border.
type BorderKind int

const (
	BorderNone BorderKind = iota
	BorderNormal
	BorderRounded
	BorderThick
	BorderDouble
)

var borderNames = map[string]BorderKind{
	"none":    BorderNone,
	"normal":  BorderNormal,
	"rounded": BorderRounded,
	"thick":   BorderThick,
	"double":  BorderDouble,
}

// ParseBorderKind maps a config name such as "rounded" to its BorderKind.
func ParseBorderKind(name string) (BorderKind, error) {
	if name == "" {
		return BorderNone, nil
	}
	k, ok := borderNames[strings.ToLower(name)]
	if !ok {
		return BorderNone, fmt.Errorf("unknown border kind %q", name)
	}
	return k, nil
}

func (k BorderKind) String() string {
	for name, v := range borderNames {
		if v == k {
			return name
		}
	}
	return "none"
}

func (k BorderKind) glyphs() lipgloss.Border {
	switch k {
	case BorderNormal:
		return lipgloss.NormalBorder()
	case BorderRounded:
		return lipgloss.RoundedBorder()
	case BorderThick:
		return lipgloss.ThickBorder()
	case BorderDouble:
		return lipgloss.DoubleBorder()
	default:
		return lipgloss.HiddenBorder()
	}
}

// ParseAlign maps "left", "center" or "right" to a lipgloss position.
func ParseAlign(name string) (lipgloss.Position, error) {
	switch strings.ToLower(name) {
	case "", "left":
		return lipgloss.Left, nil
	case "center", "centre":
		return lipgloss.Center, nil
	case "right":
		return lipgloss.Right, nil
	}
	return lipgloss.Left, fmt.Errorf("unknown alignment %q", name)
}

// Block frames the tree with an optional border and title.
type Block struct {
	Borders     BorderKind
	BorderStyle style.Style
	Title       string
	TitleAlign  lipgloss.Position
	TitleStyle  style.Style
}

// Inner returns the part of area left for content.
func (b Block) Inner(area Rect) Rect {
	switch {
	case b.Borders != BorderNone:
		area.X++
		area.Y++
		area.W -= 2
		area.H -= 2
	case b.Title != "":
		area.Y++
		area.H--
	}
	area.W, area.H = max(area.W, 0), max(area.H, 0)
	return area
}

// Render draws the border and the title into area.
func (b Block) Render(s Surface, area Rect) {
	if area.Empty() {
		return
	}
	if b.Borders != BorderNone {
		b.drawBorder(s, area)
	}
	if b.Title == "" {
		return
	}
	x, avail := area.X, area.W
	if b.Borders != BorderNone {
		x, avail = area.X+1, area.W-2
	}
	if avail <= 0 {
		return
	}
	title := runewidth.Truncate(b.Title, avail, "")
	offset := int(float64(avail-runewidth.StringWidth(title)) * float64(b.TitleAlign))
	s.SetStringN(x+offset, area.Y, title, avail-offset, b.BorderStyle.Patch(b.TitleStyle))
}

func (b Block) drawBorder(s Surface, area Rect) {
	g := b.Borders.glyphs()
	st := b.BorderStyle
	right, bottom := area.Right()-1, area.Bottom()-1

	for x := area.X + 1; x < right; x++ {
		s.SetStringN(x, area.Y, g.Top, 1, st)
		if bottom > area.Y {
			s.SetStringN(x, bottom, g.Bottom, 1, st)
		}
	}
	for y := area.Y + 1; y < bottom; y++ {
		s.SetStringN(area.X, y, g.Left, 1, st)
		if right > area.X {
			s.SetStringN(right, y, g.Right, 1, st)
		}
	}
	s.SetStringN(area.X, area.Y, g.TopLeft, 1, st)
	if right > area.X {
		s.SetStringN(right, area.Y, g.TopRight, 1, st)
	}
	if bottom > area.Y {
		s.SetStringN(area.X, bottom, g.BottomLeft, 1, st)
		if right > area.X {
			s.SetStringN(right, bottom, g.BottomRight, 1, st)
		}
	}
}
