package ui

import "github.com/vanderheijden86/treeview/pkg/tree"

// VisibleRow is one row of the flattened view: a node whose ancestors are all
// open, with its depth below the root.
type VisibleRow struct {
	Node  *tree.Node
	Depth int
}

// VisibleRows lists the rows the view would draw with an unbounded height.
func VisibleRows(state *NavState, root *tree.Node) []VisibleRow {
	if root == nil {
		return nil
	}
	var rows []VisibleRow
	root.Walk(func(n *tree.Node, depth int) bool {
		rows = append(rows, VisibleRow{Node: n, Depth: depth})
		return state.IsOpen(n)
	})
	return rows
}

// RowsToSkip returns how many leading visible rows to skip so that the
// selected row sits in the middle of a viewport of the given height. The
// result is clamped so the last page stays full, and is 0 when nothing is
// selected, the selection is hidden, or everything fits.
func RowsToSkip(state *NavState, root *tree.Node, height int) int {
	selected, ok := state.Selected()
	if !ok || root == nil || height <= 0 {
		return 0
	}
	total, index := 0, 0
	root.Walk(func(n *tree.Node, _ int) bool {
		total++
		if index == 0 && n.ID() == selected {
			index = total
		}
		return state.IsOpen(n)
	})
	if index == 0 || total <= height {
		return 0
	}
	// A one-row viewport would otherwise start just below the selection.
	skip := min(index-height/2, index-1)
	if skip < 0 {
		skip = 0
	}
	if limit := total - height; skip > limit {
		skip = limit
	}
	return skip
}
