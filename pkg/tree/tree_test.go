package tree_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

func TestQuery(t *testing.T) {
	tr := testutil.MockTree()

	if n := tr.Query("bA0!"); n == nil || n.ID() != "bA0!" {
		t.Fatalf("expected to find bA0!, got %v", n)
	}
	if n := tr.Query("/"); n != tr.Root() {
		t.Error("querying the root id should return the root")
	}
	if n := tr.Query("zz"); n != nil {
		t.Errorf("expected nil for absent id, got %q", n.ID())
	}
}

func TestQueryFirstMatchWins(t *testing.T) {
	// Duplicate ids are a caller error; lookups still resolve deterministically.
	root := tree.NewLabelNode("r", "r").
		WithChild(tree.NewLabelNode("x", "first").
			WithChild(tree.NewLabelNode("dup", "deep"))).
		WithChild(tree.NewLabelNode("dup", "shallow"))

	if got := root.Query("dup").Label(); got != "deep" {
		t.Errorf("expected pre-order first match 'deep', got %q", got)
	}
}

func TestQueryReturnsMutableNode(t *testing.T) {
	tr := testutil.MockTree()
	n := tr.Query("aC")
	n.AddChild(tree.NewLabelNode("aC1", "aC1"))

	if tr.Query("aC1") == nil {
		t.Error("child added through a queried node should be visible in the tree")
	}
}

func TestRoutes(t *testing.T) {
	tr := testutil.MockTree()

	route, ok := tr.RouteByID("bB2")
	if !ok {
		t.Fatal("expected a route to bB2")
	}
	if want := []int{1, 1, 2}; !reflect.DeepEqual(route, want) {
		t.Errorf("route = %v, want %v", route, want)
	}
	if n := tr.QueryRoute(route); n == nil || n.ID() != "bB2" {
		t.Errorf("QueryRoute(%v) did not return bB2", route)
	}

	if route, ok := tr.RouteByID("/"); !ok || len(route) != 0 {
		t.Errorf("root route = %v, %v; want empty, true", route, ok)
	}
	if _, ok := tr.RouteByID("nope"); ok {
		t.Error("absent id should have no route")
	}
	if n := tr.QueryRoute([]int{0, 9}); n != nil {
		t.Errorf("out of range route should return nil, got %q", n.ID())
	}
}

func TestParent(t *testing.T) {
	tr := testutil.MockTree()

	tests := []struct {
		id   string
		want string
	}{
		{"a", "/"},
		{"aA1", "aA"},
		{"bA0!", "bA0"},
		{"cA", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p := tr.Parent(tt.id)
			if p == nil {
				t.Fatalf("expected a parent for %s", tt.id)
			}
			if p.ID() != tt.want {
				t.Errorf("Parent(%s) = %s, want %s", tt.id, p.ID(), tt.want)
			}
		})
	}

	if tr.Parent("/") != nil {
		t.Error("root has no parent")
	}
	if tr.Parent("missing") != nil {
		t.Error("absent id has no parent")
	}
}

func TestSiblings(t *testing.T) {
	tr := testutil.MockTree()

	sib, ok := tr.Siblings("aB")
	if !ok {
		t.Fatal("expected siblings for aB")
	}
	if want := []string{"aA", "aC"}; !reflect.DeepEqual(sib, want) {
		t.Errorf("Siblings(aB) = %v, want %v", sib, want)
	}

	sib, ok = tr.Siblings("aC0")
	if !ok || len(sib) != 0 {
		t.Errorf("only child should have no siblings, got %v, %v", sib, ok)
	}

	sib, ok = tr.Siblings("/")
	if !ok || sib == nil || len(sib) != 0 {
		t.Errorf("root should have an empty sibling list, got %v, %v", sib, ok)
	}

	if _, ok := tr.Siblings("missing"); ok {
		t.Error("absent id should report false")
	}
}

func TestDepthAndCount(t *testing.T) {
	tr := testutil.MockTree()
	if got := tr.Depth(); got != 5 {
		t.Errorf("expected depth 5, got %d", got)
	}
	if got := tr.Count(); got != 30 {
		t.Errorf("expected 30 nodes, got %d", got)
	}

	lone := tree.New(tree.NewLabelNode("x", "x"))
	if lone.Depth() != 1 || lone.Count() != 1 {
		t.Errorf("lone root: depth %d count %d, want 1 1", lone.Depth(), lone.Count())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		depth     int
		wantDepth int
		wantCount int
	}{
		{0, 1, 1},
		{1, 2, 4},
		{2, 3, 10},
		{3, 4, 29},
		{10, 5, 30},
	}
	for _, tt := range tests {
		tr := testutil.MockTree()
		tr.Truncate(tt.depth)
		if tr.Depth() != tt.wantDepth {
			t.Errorf("Truncate(%d): depth %d, want %d", tt.depth, tr.Depth(), tt.wantDepth)
		}
		if tr.Count() != tt.wantCount {
			t.Errorf("Truncate(%d): count %d, want %d", tt.depth, tr.Count(), tt.wantCount)
		}
	}
}

func TestTruncateSubtree(t *testing.T) {
	tr := testutil.MockTree()
	tr.Query("b").Truncate(0)

	if !tr.Query("b").IsLeaf() {
		t.Error("Truncate(0) should clear the direct children")
	}
	if tr.Query("a").IsLeaf() {
		t.Error("truncating b must not touch a")
	}
}

func TestChildEditing(t *testing.T) {
	n := tree.NewLabelNode("p", "p")
	n.AddChild(tree.NewLabelNode("x", "x"))
	n.AddChild(tree.NewLabelNode("y", "y"))
	n.AddChild(nil)

	if len(n.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(n.Children()))
	}
	if !n.RemoveChild("x") {
		t.Error("expected x to be removed")
	}
	if n.RemoveChild("x") {
		t.Error("removing twice should report false")
	}
	if n.Child(0).ID() != "y" {
		t.Errorf("expected y to shift to index 0, got %s", n.Child(0).ID())
	}
	if n.Child(5) != nil || n.Child(-1) != nil {
		t.Error("out of range Child should be nil")
	}
	n.ClearChildren()
	if !n.IsLeaf() {
		t.Error("expected leaf after ClearChildren")
	}
}

func TestWalkPrune(t *testing.T) {
	tr := testutil.MockTree()
	var seen []string
	tr.Walk(func(n *tree.Node, depth int) bool {
		seen = append(seen, n.ID())
		return depth < 1
	})
	if want := []string{"/", "a", "b", "c"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("pruned walk = %v, want %v", seen, want)
	}
}

func TestWalkDeepChain(t *testing.T) {
	root := tree.NewLabelNode("0", "0")
	cur := root
	for i := 1; i < 100000; i++ {
		next := tree.NewLabelNode(strconv.Itoa(i), "")
		cur.AddChild(next)
		cur = next
	}
	if got := root.Depth(); got != 100000 {
		t.Errorf("expected depth 100000, got %d", got)
	}
}

// deepChain returns a single path of n nodes with ids "0".."n-1".
func deepChain(n int) *tree.Tree {
	root := tree.NewLabelNode("0", "0")
	cur := root
	for i := 1; i < n; i++ {
		next := tree.NewLabelNode(strconv.Itoa(i), "")
		cur.AddChild(next)
		cur = next
	}
	return tree.New(root)
}

func TestRouteByIDDeepChain(t *testing.T) {
	const n = 8000
	tr := deepChain(n)
	last := strconv.Itoa(n - 1)

	route, ok := tr.RouteByID(last)
	if !ok || len(route) != n-1 {
		t.Fatalf("route length = %d, %v; want %d, true", len(route), ok, n-1)
	}
	for i, idx := range route {
		if idx != 0 {
			t.Fatalf("route[%d] = %d, want 0", i, idx)
		}
	}
	if p := tr.Parent(last); p == nil || p.ID() != strconv.Itoa(n-2) {
		t.Errorf("parent of deepest node = %v", p)
	}

	// One path that grows by doubling plus the returned copy.
	allocs := testing.AllocsPerRun(5, func() { tr.RouteByID(last) })
	if allocs > 64 {
		t.Errorf("RouteByID allocated %.0f times on a chain of %d, want a bounded number", allocs, n)
	}
}

func TestRouteByIDBacktracks(t *testing.T) {
	tr := testutil.MockTree()
	want := map[string][]int{"a": {0}, "aC0": {0, 2, 0}, "bB4": {1, 1, 4}, "c": {2}}
	for id, w := range want {
		got, ok := tr.RouteByID(id)
		if !ok || !reflect.DeepEqual(got, w) {
			t.Errorf("RouteByID(%q) = %v, %v; want %v", id, got, ok, w)
		}
	}
}

func BenchmarkRouteByIDDeepChain(b *testing.B) {
	tr := deepChain(2000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tr.RouteByID("1999")
	}
}

func TestLabels(t *testing.T) {
	red := style.New(style.Red)
	n := tree.NewNode("id", tree.Spans{
		{Text: "foo"},
		tree.Styled("/bar", red),
	})
	if got := n.Label(); got != "foo/bar" {
		t.Errorf("expected concatenated label, got %q", got)
	}
	if sp := n.Value().Spans(); sp[1].Style == nil || sp[1].Style.Fg != style.Red {
		t.Error("expected second span to keep its style")
	}

	if got := tree.NewNode("plain", nil).Label(); got != "plain" {
		t.Errorf("nil value should render the id, got %q", got)
	}
}

func TestClone(t *testing.T) {
	tr := testutil.MockTree()
	dup := tr.Clone()
	dup.Query("a").ClearChildren()

	if tr.Query("aA") == nil {
		t.Error("editing the clone must not change the original")
	}
	if !reflect.DeepEqual(testutil.IDs(tr)[:1], testutil.IDs(dup)[:1]) {
		t.Error("clone should keep the root id")
	}
	if dup.Count() != tr.Count()-10 {
		t.Errorf("expected clone to lose 10 nodes, got %d vs %d", dup.Count(), tr.Count())
	}
}

func TestNewNilRoot(t *testing.T) {
	tr := tree.New(nil)
	if tr.Root() == nil || tr.Count() != 1 {
		t.Error("nil root should become an empty node")
	}
}
