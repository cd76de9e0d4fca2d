package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Expansion glyphs drawn after each label.
const (
	GlyphOpen   = " ▼"
	GlyphClosed = " ▶"
	GlyphLeaf   = "  "
)

// Renderer draws the visible rows of a tree into a surface.
type Renderer struct {
	Style           style.Style
	HighlightStyle  style.Style
	HighlightSymbol string
	IndentSize      int
}

// Render draws root into area. Rows above the scroll offset are skipped, rows
// past the bottom of area are not drawn.
func (r Renderer) Render(s Surface, area Rect, root *tree.Node, state *NavState) {
	if area.Empty() || root == nil {
		return
	}
	s.SetStyle(area, r.Style)

	skip := RowsToSkip(state, root, area.H)
	symbolWidth := runewidth.StringWidth(r.HighlightSymbol)
	index, y := 0, area.Y
	root.Walk(func(n *tree.Node, depth int) bool {
		if y >= area.Bottom() {
			return false
		}
		index++
		if index > skip {
			r.drawRow(s, Rect{X: area.X, Y: y, W: area.W, H: 1}, n, depth, state, symbolWidth)
			y++
		}
		return state.IsOpen(n)
	})
}

func (r Renderer) drawRow(s Surface, row Rect, n *tree.Node, depth int, state *NavState, symbolWidth int) {
	selected := state.IsSelected(n)
	rowStyle := r.Style
	if selected {
		rowStyle = rowStyle.Patch(r.HighlightStyle)
		s.SetStyle(row, r.HighlightStyle)
	}

	// The root sits one indent in, so a selection symbol always has room.
	indent := (depth + 1) * r.IndentSize
	showSymbol := selected && r.HighlightSymbol != ""
	if showSymbol {
		indent = max(indent-symbolWidth-1, 0)
	}
	x, right := row.X+indent, row.Right()
	if x >= right {
		return
	}
	if showSymbol {
		x, _ = s.SetStringN(x, row.Y, r.HighlightSymbol+" ", right-x, rowStyle)
	}
	for _, sp := range n.Value().Spans() {
		if x >= right {
			return
		}
		st := rowStyle
		if sp.Style != nil {
			st = rowStyle.Patch(*sp.Style)
		}
		x, _ = s.SetStringN(x, row.Y, sp.Text, right-x, st)
	}
	if x < right {
		s.SetStringN(x, row.Y, expansionGlyph(n, state), right-x, rowStyle)
	}
}

func expansionGlyph(n *tree.Node, state *NavState) string {
	switch {
	case n.IsLeaf():
		return GlyphLeaf
	case state.IsOpen(n):
		return GlyphOpen
	default:
		return GlyphClosed
	}
}
