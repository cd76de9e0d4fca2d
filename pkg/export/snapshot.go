// Package export renders tree snapshots as SVG, PNG and markdown outlines.
package export

import (
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

// Options controls the image exports. Colors are #rrggbb.
type Options struct {
	Title      string
	IndentSize int
	// Selected is drawn highlighted when it is one of the rows.
	Selected string

	Foreground string
	Background string
	Highlight  string
	Muted      string
}

// DefaultOptions uses the browser's Dracula colors.
func DefaultOptions() Options {
	return Options{
		IndentSize: ui.DefaultIndentSize,
		Foreground: "#f8f8f2",
		Background: "#282a36",
		Highlight:  "#bd93f9",
		Muted:      "#6272a4",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.IndentSize <= 0 {
		o.IndentSize = d.IndentSize
	}
	if o.Foreground == "" {
		o.Foreground = d.Foreground
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.Highlight == "" {
		o.Highlight = d.Highlight
	}
	if o.Muted == "" {
		o.Muted = d.Muted
	}
	return o
}

// Snapshot returns the rows the widget would show for t. Expanded opens
// every node; otherwise only the root is open.
func Snapshot(t *tree.Tree, expanded bool) []ui.VisibleRow {
	if t == nil || t.Root() == nil {
		return nil
	}
	open := []string{t.Root().ID()}
	if expanded {
		open = open[:0]
		t.Walk(func(n *tree.Node, _ int) bool {
			if !n.IsLeaf() {
				open = append(open, n.ID())
			}
			return true
		})
	}
	var state ui.NavState
	state.Restore(t.Root(), "", open)
	return ui.VisibleRows(&state, t.Root())
}

// SavedSnapshot returns the rows of the browser view saved for key under
// stateDir, and its selection. Without saved state it is the collapsed
// Snapshot.
func SavedSnapshot(t *tree.Tree, stateDir, key string) ([]ui.VisibleRow, string) {
	vs, ok := ui.LoadViewState(stateDir, key)
	if !ok || t == nil || t.Root() == nil {
		return Snapshot(t, false), ""
	}
	var state ui.NavState
	state.Restore(t.Root(), vs.Selected, vs.Open)
	id, _ := state.Selected()
	return ui.VisibleRows(&state, t.Root()), id
}

// rowText is the label followed by the expansion glyph, as drawn by the
// widget. Expanded is true when the row's children follow it.
func rowText(rows []ui.VisibleRow, i int) string {
	r := rows[i]
	glyph := ui.GlyphLeaf
	if !r.Node.IsLeaf() {
		glyph = ui.GlyphClosed
		if i+1 < len(rows) && rows[i+1].Depth > r.Depth {
			glyph = ui.GlyphOpen
		}
	}
	return r.Node.Label() + glyph
}
