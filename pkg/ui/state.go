package ui

import (
	"sort"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// NavState is the navigation state of a tree view: the selected id and the set
// of expanded ids. It only holds ids, so it stays valid across tree rebuilds.
//
// Invariants kept by every operation:
//   - when a node is selected, all of its ancestors are open
//   - a leaf is never open
//
// Every operation except Select, TreeChanged and Restore is a no-op while
// nothing is selected. The zero value is ready to use.
type NavState struct {
	selected    string
	hasSelected bool
	open        map[string]struct{}
}

// Selected returns the selected id.
func (s *NavState) Selected() (string, bool) {
	return s.selected, s.hasSelected
}

// IsSelected reports whether n is the selected node.
func (s *NavState) IsSelected(n *tree.Node) bool {
	return s.hasSelected && n != nil && n.ID() == s.selected
}

// IsOpen reports whether n is expanded.
func (s *NavState) IsOpen(n *tree.Node) bool {
	if n == nil {
		return false
	}
	_, ok := s.open[n.ID()]
	return ok
}

// IsClosed reports whether n is collapsed.
func (s *NavState) IsClosed(n *tree.Node) bool { return !s.IsOpen(n) }

// OpenIDs returns the expanded ids, sorted.
func (s *NavState) OpenIDs() []string {
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *NavState) markOpen(id string) {
	if s.open == nil {
		s.open = make(map[string]struct{})
	}
	s.open[id] = struct{}{}
}

func (s *NavState) current(root *tree.Node) *tree.Node {
	if !s.hasSelected || root == nil {
		return nil
	}
	return root.Query(s.selected)
}

// Select makes id the selected node and opens every ancestor of it.
// It reports false, leaving the state untouched, when id is not in the tree.
func (s *NavState) Select(root *tree.Node, id string) bool {
	if root == nil {
		return false
	}
	route, ok := root.RouteByID(id)
	if !ok {
		return false
	}
	cur := root
	for _, i := range route {
		s.markOpen(cur.ID())
		cur = cur.Child(i)
	}
	s.selected = id
	s.hasSelected = true
	return true
}

// Open expands the selected node. Leaves and open nodes are left alone.
func (s *NavState) Open(root *tree.Node) {
	n := s.current(root)
	if n == nil || n.IsLeaf() {
		return
	}
	s.markOpen(n.ID())
}

// Close collapses the selected node together with every open descendant, so
// reopening it shows only its direct children.
func (s *NavState) Close(root *tree.Node) {
	n := s.current(root)
	if n == nil {
		return
	}
	n.Walk(func(d *tree.Node, _ int) bool {
		delete(s.open, d.ID())
		return true
	})
}

// MoveDown selects the next visible row: the first child of an open node,
// otherwise the next sibling of the nearest ancestor-or-self that has one.
// The selection stays put on the last row.
func (s *NavState) MoveDown(root *tree.Node) {
	if !s.hasSelected || root == nil {
		return
	}
	route, ok := root.RouteByID(s.selected)
	if !ok {
		return
	}
	n := root.QueryRoute(route)
	if s.IsOpen(n) && !n.IsLeaf() {
		s.selected = n.Child(0).ID()
		return
	}
	for len(route) > 0 {
		last := len(route) - 1
		parent := root.QueryRoute(route[:last])
		if next := parent.Child(route[last] + 1); next != nil {
			s.selected = next.ID()
			return
		}
		route = route[:last]
	}
}

// MoveUp selects the previous visible row: the deepest open descendant of the
// previous sibling, or the parent when there is no previous sibling.
// The root has no row above it.
func (s *NavState) MoveUp(root *tree.Node) {
	if !s.hasSelected || root == nil {
		return
	}
	route, ok := root.RouteByID(s.selected)
	if !ok || len(route) == 0 {
		return
	}
	last := len(route) - 1
	parent := root.QueryRoute(route[:last])
	if route[last] == 0 {
		s.selected = parent.ID()
		return
	}
	prev := parent.Child(route[last] - 1)
	for s.IsOpen(prev) && !prev.IsLeaf() {
		prev = prev.Child(len(prev.Children()) - 1)
	}
	s.selected = prev.ID()
}

// FirstSibling returns the first child of the selected node's parent, or nil
// at the root or without a selection.
func (s *NavState) FirstSibling(root *tree.Node) *tree.Node {
	parent := s.parent(root)
	if parent == nil {
		return nil
	}
	return parent.Child(0)
}

// LastSibling returns the last child of the selected node's parent, or nil
// at the root or without a selection.
func (s *NavState) LastSibling(root *tree.Node) *tree.Node {
	parent := s.parent(root)
	if parent == nil {
		return nil
	}
	return parent.Child(len(parent.Children()) - 1)
}

func (s *NavState) parent(root *tree.Node) *tree.Node {
	if !s.hasSelected || root == nil {
		return nil
	}
	return root.Parent(s.selected)
}

// TreeChanged reconciles the state with a replaced tree. Without preserve the
// state resets to the root with nothing open. With preserve the selection is
// kept when its id still exists (falling back to the root otherwise) and open
// ids that vanished or became leaves are dropped.
func (s *NavState) TreeChanged(root *tree.Node, preserve bool) {
	if !preserve {
		s.open = nil
		s.selectRoot(root)
		return
	}
	s.Restore(root, s.selected, s.OpenIDs())
}

// Restore applies a saved selection and open set to root, with the same
// filtering as TreeChanged. An unknown selection selects the root.
func (s *NavState) Restore(root *tree.Node, selected string, open []string) {
	if root == nil {
		s.open = nil
		s.selected, s.hasSelected = "", false
		return
	}
	branches := make(map[string]struct{})
	root.Walk(func(n *tree.Node, _ int) bool {
		if !n.IsLeaf() {
			branches[n.ID()] = struct{}{}
		}
		return true
	})
	s.open = nil
	for _, id := range open {
		if _, ok := branches[id]; ok {
			s.markOpen(id)
		}
	}
	s.selected, s.hasSelected = "", false
	if selected != "" && s.Select(root, selected) {
		return
	}
	s.selectRoot(root)
}

func (s *NavState) selectRoot(root *tree.Node) {
	if root == nil {
		s.selected, s.hasSelected = "", false
		return
	}
	s.selected = root.ID()
	s.hasSelected = true
}
