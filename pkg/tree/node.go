// Package tree implements the ordered, identity-keyed n-ary tree displayed by
// the tree widget.
//
// Every node carries a string id that must be unique across the whole tree.
// Uniqueness is a caller precondition and is not validated: with duplicates,
// lookups return the first match in pre-order.
//
// All traversals use explicit stacks so that deep, user-supplied trees (for
// example a scanned filesystem) cannot exhaust the goroutine stack.
package tree

import (
	"slices"
	"strings"

	"github.com/vanderheijden86/treeview/pkg/style"
)

// Span is one segment of a node label. A nil Style inherits the row style.
type Span struct {
	Text  string
	Style *style.Style
}

// Value is the payload of a node, rendered as one or more styled spans.
type Value interface {
	Spans() []Span
}

// Label is a plain, unstyled label.
type Label string

// Spans implements Value.
func (l Label) Spans() []Span { return []Span{{Text: string(l)}} }

// Spans is a multi-segment label whose segments are colored independently.
type Spans []Span

// Spans implements Value.
func (s Spans) Spans() []Span { return s }

// Styled is a shorthand for a single styled span.
func Styled(text string, st style.Style) Span {
	return Span{Text: text, Style: &st}
}

// Node is a tree vertex. A node exclusively owns its children; their order is
// the sibling order used for navigation.
type Node struct {
	id       string
	value    Value
	children []*Node
}

// NewNode creates a leaf node. A nil value renders the id.
func NewNode(id string, value Value) *Node {
	if value == nil {
		value = Label(id)
	}
	return &Node{id: id, value: value}
}

// NewLabelNode creates a leaf node with a plain label.
func NewLabelNode(id, label string) *Node {
	return NewNode(id, Label(label))
}

// ID returns the node id.
func (n *Node) ID() string { return n.id }

// Value returns the node payload.
func (n *Node) Value() Value {
	if n.value == nil {
		return Label(n.id)
	}
	return n.value
}

// SetValue replaces the node payload.
func (n *Node) SetValue(v Value) {
	if v == nil {
		v = Label(n.id)
	}
	n.value = v
}

// Label returns the concatenated text of all label spans.
func (n *Node) Label() string {
	spans := n.Value().Spans()
	if len(spans) == 1 {
		return spans[0].Text
	}
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// WithChild appends a child and returns n, for building trees inline.
func (n *Node) WithChild(child *Node) *Node {
	n.AddChild(child)
	return n
}

// AddChild appends a child.
func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.children = append(n.children, child)
	}
}

// RemoveChild removes the direct child with the given id.
func (n *Node) RemoveChild(id string) bool {
	for i, c := range n.children {
		if c.id == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// ClearChildren drops every child.
func (n *Node) ClearChildren() { n.children = nil }

// Walk visits n and its descendants in pre-order. depth is 0 for n.
// Returning false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		for i := len(f.node.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.children[i], f.depth + 1})
		}
	}
}

// Query returns the first node with the given id in pre-order, or nil.
func (n *Node) Query(id string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.id == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// QueryRoute follows a sequence of child indices starting at n.
// An empty route returns n itself.
func (n *Node) QueryRoute(route []int) *Node {
	cur := n
	for _, i := range route {
		cur = cur.Child(i)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// RouteByID returns the child indices leading from n to the node with id.
// The walk keeps a single path, so only the returned route is allocated
// apart from the path itself.
func (n *Node) RouteByID(id string) ([]int, bool) {
	if n.id == id {
		return nil, true
	}
	// path[i] is the node at depth i; route[i] is the index of path[i+1]
	// among the children of path[i].
	path := []*Node{n}
	var route []int
	next := 0
	for {
		top := path[len(path)-1]
		if next < len(top.children) {
			child := top.children[next]
			route = append(route, next)
			if child.id == id {
				return slices.Clone(route), true
			}
			path = append(path, child)
			next = 0
			continue
		}
		if len(route) == 0 {
			return nil, false
		}
		path = path[:len(path)-1]
		next = route[len(route)-1] + 1
		route = route[:len(route)-1]
	}
}

// Parent returns the parent of the node with id; nil for n itself or an absent id.
func (n *Node) Parent(id string) *Node {
	route, ok := n.RouteByID(id)
	if !ok || len(route) == 0 {
		return nil
	}
	return n.QueryRoute(route[:len(route)-1])
}

// Siblings returns the ids of the nodes sharing id's parent, excluding id.
// It reports false when id is absent. n itself has no siblings.
func (n *Node) Siblings(id string) ([]string, bool) {
	route, ok := n.RouteByID(id)
	if !ok {
		return nil, false
	}
	siblings := []string{}
	if len(route) == 0 {
		return siblings, true
	}
	parent := n.QueryRoute(route[:len(route)-1])
	for _, c := range parent.children {
		if c.id != id {
			siblings = append(siblings, c.id)
		}
	}
	return siblings, true
}

// Depth counts levels: 1 for a node without children.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, depth int) bool {
		if depth+1 > deepest {
			deepest = depth + 1
		}
		return true
	})
	return deepest
}

// Count returns the number of nodes including n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Truncate drops every node more than depth levels below n.
// Truncate(0) clears the direct children.
func (n *Node) Truncate(depth int) {
	if depth < 0 {
		depth = 0
	}
	n.Walk(func(node *Node, d int) bool {
		if d >= depth {
			node.children = nil
			return false
		}
		return true
	})
}

// Clone returns a deep copy of n. Values are shared.
func (n *Node) Clone() *Node {
	root := &Node{id: n.id, value: n.value}
	type frame struct {
		src, dst *Node
	}
	stack := []frame{{n, root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(f.src.children) == 0 {
			continue
		}
		f.dst.children = make([]*Node, len(f.src.children))
		for i, c := range f.src.children {
			dup := &Node{id: c.id, value: c.value}
			f.dst.children[i] = dup
			stack = append(stack, frame{c, dup})
		}
	}
	return root
}
