package tree

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrEmpty is returned when there is nothing to build a tree from.
	ErrEmpty = errors.New("tree: no nodes")
	// ErrUnknownParent is returned when a record names a parent that does not exist.
	ErrUnknownParent = errors.New("tree: unknown parent")
	// ErrCycle is returned when parent links form a loop.
	ErrCycle = errors.New("tree: parent cycle")
	// ErrMultipleRoots is returned when more than one record has no parent.
	ErrMultipleRoots = errors.New("tree: multiple roots")
	// ErrDuplicateID is returned by Assemble when two records share an id.
	ErrDuplicateID = errors.New("tree: duplicate id")
)

// Record is the flat form of a node: its id, its label text and the id of
// its parent ("" for the root).
type Record struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Flatten lists the tree in pre-order. Nodes more than depth levels below the
// root are left out; a negative depth keeps everything.
func (t *Tree) Flatten(depth int) []Record {
	var records []Record
	parents := map[*Node]string{}
	t.root.Walk(func(n *Node, d int) bool {
		records = append(records, Record{ID: n.id, Label: n.Label(), Parent: parents[n]})
		if depth >= 0 && d >= depth {
			return false
		}
		for _, c := range n.children {
			parents[c] = n.id
		}
		return true
	})
	return records
}

// FromRecords rebuilds a tree from records in Flatten order: the first record
// is the root and every other record's parent must appear before it.
func FromRecords(records []Record) (*Tree, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	root := NewLabelNode(records[0].ID, records[0].Label)
	index := map[string]*Node{root.id: root}
	for _, r := range records[1:] {
		parent, ok := index[r.Parent]
		if !ok {
			return nil, fmt.Errorf("record %q: %w %q", r.ID, ErrUnknownParent, r.Parent)
		}
		node := NewLabelNode(r.ID, r.Label)
		parent.AddChild(node)
		index[r.ID] = node
	}
	return New(root), nil
}

// Assemble builds a tree from records in any order. Exactly one record must
// have an empty parent. Siblings keep their relative record order.
func Assemble(records []Record) (*Tree, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	ids := make(map[string]int64, len(records))
	for i, r := range records {
		if _, dup := ids[r.ID]; dup {
			return nil, fmt.Errorf("record %q: %w", r.ID, ErrDuplicateID)
		}
		ids[r.ID] = int64(i)
	}

	g := simple.NewDirectedGraph()
	for i := range records {
		g.AddNode(simple.Node(int64(i)))
	}

	rootIdx := -1
	for i, r := range records {
		if r.Parent == "" {
			if rootIdx >= 0 {
				return nil, fmt.Errorf("records %q and %q: %w", records[rootIdx].ID, r.ID, ErrMultipleRoots)
			}
			rootIdx = i
			continue
		}
		if r.Parent == r.ID {
			return nil, fmt.Errorf("record %q: %w", r.ID, ErrCycle)
		}
		p, ok := ids[r.Parent]
		if !ok {
			return nil, fmt.Errorf("record %q: %w %q", r.ID, ErrUnknownParent, r.Parent)
		}
		g.SetEdge(g.NewEdge(g.Node(p), g.Node(int64(i))))
	}
	if rootIdx < 0 {
		return nil, fmt.Errorf("no record without parent: %w", ErrCycle)
	}
	if _, err := topo.Sort(g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	nodes := make([]*Node, len(records))
	for i, r := range records {
		nodes[i] = NewLabelNode(r.ID, r.Label)
	}
	for i, r := range records {
		if i == rootIdx {
			continue
		}
		nodes[ids[r.Parent]].AddChild(nodes[i])
	}
	return New(nodes[rootIdx]), nil
}
