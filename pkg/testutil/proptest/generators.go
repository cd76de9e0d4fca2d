// Package proptest holds rapid generators for property-based tree tests.
package proptest

import (
	"strconv"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Tree draws a random tree with up to maxNodes nodes. Ids are "n0".."nK" in
// creation order, so they are unique; n0 is the root.
func Tree(maxNodes int) *rapid.Generator[*tree.Tree] {
	if maxNodes < 1 {
		maxNodes = 1
	}
	return rapid.Custom(func(t *rapid.T) *tree.Tree {
		count := rapid.IntRange(1, maxNodes).Draw(t, "nodes")
		nodes := make([]*tree.Node, count)
		nodes[0] = tree.NewLabelNode("n0", "n0")
		for i := 1; i < count; i++ {
			id := "n" + strconv.Itoa(i)
			nodes[i] = tree.NewLabelNode(id, id)
			parent := rapid.IntRange(0, i-1).Draw(t, "parent_"+id)
			nodes[parent].AddChild(nodes[i])
		}
		return tree.New(nodes[0])
	})
}

// NodeOf draws one node of t.
func NodeOf(t *rapid.T, tr *tree.Tree, label string) *tree.Node {
	var all []*tree.Node
	tr.Walk(func(n *tree.Node, _ int) bool {
		all = append(all, n)
		return true
	})
	return rapid.SampledFrom(all).Draw(t, label)
}

// Ancestors returns the ids of the ancestors of id, root first.
func Ancestors(tr *tree.Tree, id string) []string {
	route, ok := tr.RouteByID(id)
	if !ok {
		return nil
	}
	var ids []string
	cur := tr.Root()
	for _, i := range route {
		ids = append(ids, cur.ID())
		cur = cur.Child(i)
	}
	return ids
}
