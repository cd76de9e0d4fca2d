package tree

// Tree owns a single root node.
type Tree struct {
	root *Node
}

// New wraps root in a tree. A nil root is replaced by an empty node with id "".
func New(root *Node) *Tree {
	if root == nil {
		root = NewLabelNode("", "")
	}
	return &Tree{root: root}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Query returns the node with id, or nil.
func (t *Tree) Query(id string) *Node { return t.root.Query(id) }

// QueryRoute returns the node at route, or nil.
func (t *Tree) QueryRoute(route []int) *Node { return t.root.QueryRoute(route) }

// RouteByID returns the positional route of id from the root.
func (t *Tree) RouteByID(id string) ([]int, bool) { return t.root.RouteByID(id) }

// Parent returns the parent of id; nil for the root or an absent id.
func (t *Tree) Parent(id string) *Node { return t.root.Parent(id) }

// Siblings returns the ids sharing id's parent, excluding id.
func (t *Tree) Siblings(id string) ([]string, bool) { return t.root.Siblings(id) }

// Depth counts levels, 1 for a lone root.
func (t *Tree) Depth() int { return t.root.Depth() }

// Count returns the total number of nodes.
func (t *Tree) Count() int { return t.root.Count() }

// Truncate drops every node more than depth levels below the root.
func (t *Tree) Truncate(depth int) { t.root.Truncate(depth) }

// Walk visits the tree in pre-order; see Node.Walk.
func (t *Tree) Walk(fn func(node *Node, depth int) bool) { t.root.Walk(fn) }

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree { return &Tree{root: t.root.Clone()} }
