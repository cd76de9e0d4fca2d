package ui

import (
	"reflect"
	"slices"
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/testutil/proptest"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

func selectedID(t *testing.T, s *NavState) string {
	t.Helper()
	id, ok := s.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	return id
}

// TestSelectOpensAncestors verifies selecting a deep node expands its path
func TestSelectOpensAncestors(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	if !s.Select(root, "bA0!") {
		t.Fatal("expected bA0! to be selectable")
	}
	if got := selectedID(t, &s); got != "bA0!" {
		t.Errorf("selected = %s, want bA0!", got)
	}
	if want := []string{"/", "b", "bA", "bA0"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}
}

// TestSelectUnknownID verifies unknown ids leave the state alone
func TestSelectUnknownID(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState
	s.Select(root, "a")

	if s.Select(root, "nope") {
		t.Error("selecting an unknown id should report false")
	}
	if got := selectedID(t, &s); got != "a" {
		t.Errorf("selection changed to %s", got)
	}
}

// TestZeroStateIsInert verifies commands without a selection do nothing
func TestZeroStateIsInert(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	s.MoveDown(root)
	s.MoveUp(root)
	s.Open(root)
	s.Close(root)

	if _, ok := s.Selected(); ok {
		t.Error("expected no selection")
	}
	if len(s.OpenIDs()) != 0 {
		t.Errorf("expected nothing open, got %v", s.OpenIDs())
	}
	if s.FirstSibling(root) != nil || s.LastSibling(root) != nil {
		t.Error("sibling jumps need a selection")
	}
}

// TestOpenClose verifies expansion rules for branches and leaves
func TestOpenClose(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	s.Select(root, "aA0")
	s.Open(root)
	if s.IsOpen(root.Query("aA0")) {
		t.Error("a leaf must never be open")
	}

	s.Select(root, "aB")
	s.Open(root)
	s.Open(root)
	if !s.IsOpen(root.Query("aB")) {
		t.Error("expected aB open")
	}
	if want := []string{"/", "a", "aB"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}

	s.Close(root)
	if !s.IsClosed(root.Query("aB")) {
		t.Error("expected aB closed")
	}
}

// TestCloseDropsNestedExpansion verifies close forgets open descendants
func TestCloseDropsNestedExpansion(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	s.Select(root, "bA0!")
	s.Select(root, "b")
	s.Close(root)
	if want := []string{"/"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}

	s.Open(root)
	if s.IsOpen(root.Query("bA")) {
		t.Error("reopening b should not bring back bA")
	}
}

// TestMoveDown covers descent, sibling steps and climbing out of subtrees
func TestMoveDown(t *testing.T) {
	tests := []struct {
		name  string
		tree  *tree.Tree
		start string
		open  []string
		want  string
	}{
		{"closed root stays", testutil.FilesystemTree(), "/", nil, "/"},
		{"open root enters", testutil.FilesystemTree(), "/", []string{"/"}, "/bin"},
		{"last child climbs", testutil.FilesystemTree(), "/bin/pwd", nil, "/home"},
		{"next sibling", testutil.MockTree(), "cA1", nil, "cA2"},
		{"climbs two levels", testutil.MockTree(), "bB5", nil, "c"},
		{"last row stays", testutil.MockTree(), "cA2", nil, "cA2"},
		{"closed branch skips children", testutil.MockTree(), "a", nil, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.tree.Root()
			var s NavState
			for _, id := range tt.open {
				s.Select(root, id)
				s.Open(root)
			}
			s.Select(root, tt.start)
			s.MoveDown(root)
			if got := selectedID(t, &s); got != tt.want {
				t.Errorf("MoveDown from %s = %s, want %s", tt.start, got, tt.want)
			}
		})
	}
}

// TestMoveUp covers parents, root and the deepest open descendant rule
func TestMoveUp(t *testing.T) {
	root := testutil.MockTree().Root()

	var s NavState
	s.Select(root, "a")
	s.MoveUp(root)
	if got := selectedID(t, &s); got != "/" {
		t.Errorf("MoveUp from a = %s, want /", got)
	}
	s.MoveUp(root)
	if got := selectedID(t, &s); got != "/" {
		t.Errorf("root should stay put, got %s", got)
	}

	s.Select(root, "bB5")
	s.Select(root, "c")
	s.MoveUp(root)
	if got := selectedID(t, &s); got != "bB5" {
		t.Errorf("MoveUp from c = %s, want bB5", got)
	}

	s.Select(root, "bA")
	s.Close(root)
	s.Select(root, "bB")
	s.MoveUp(root)
	if got := selectedID(t, &s); got != "bA" {
		t.Errorf("closed previous sibling should be selected itself, got %s", got)
	}
}

// TestSiblingJumps verifies first/last sibling lookups
func TestSiblingJumps(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	s.Select(root, "/")
	if s.FirstSibling(root) != nil || s.LastSibling(root) != nil {
		t.Error("the root has no siblings to jump to")
	}

	s.Select(root, "bB3")
	if n := s.FirstSibling(root); n == nil || n.ID() != "bB0" {
		t.Errorf("FirstSibling = %v, want bB0", n)
	}
	if n := s.LastSibling(root); n == nil || n.ID() != "bB5" {
		t.Errorf("LastSibling = %v, want bB5", n)
	}
}

// TestTreeChangedReset verifies a non-preserving change starts over
func TestTreeChangedReset(t *testing.T) {
	tr := testutil.MockTree()
	var s NavState
	s.Select(tr.Root(), "cA2")

	s.TreeChanged(tr.Root(), false)
	if got := selectedID(t, &s); got != "/" {
		t.Errorf("selected = %s, want /", got)
	}
	if len(s.OpenIDs()) != 0 {
		t.Errorf("expected nothing open, got %v", s.OpenIDs())
	}
}

// TestTreeChangedPreserve verifies vanished ids fall back and are dropped
func TestTreeChangedPreserve(t *testing.T) {
	tr := testutil.MockTree()
	root := tr.Root()
	var s NavState
	s.Select(root, "cA")
	s.Open(root)
	s.Select(root, "bB5")

	root.RemoveChild("c")
	tr.Query("b").RemoveChild("bB")
	s.TreeChanged(root, true)

	if got := selectedID(t, &s); got != "/" {
		t.Errorf("selected = %s, want /", got)
	}
	if want := []string{"/", "b"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}
}

// TestTreeChangedKeepsSelection verifies surviving ids are kept
func TestTreeChangedKeepsSelection(t *testing.T) {
	tr := testutil.MockTree()
	var s NavState
	s.Select(tr.Root(), "aB1")
	s.Select(tr.Root(), "bA0")
	s.Open(tr.Root())

	// bA0 loses its only child and so cannot stay open.
	next := tr.Clone()
	next.Query("bA0").ClearChildren()
	s.TreeChanged(next.Root(), true)

	if got := selectedID(t, &s); got != "bA0" {
		t.Errorf("selected = %s, want bA0", got)
	}
	if want := []string{"/", "a", "aB", "b", "bA"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}
}

// TestRestore verifies persisted snapshots are filtered like tree changes
func TestRestore(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState

	s.Restore(root, "aC0", []string{"gone", "bB", "bB0"})
	if got := selectedID(t, &s); got != "aC0" {
		t.Errorf("selected = %s, want aC0", got)
	}
	if want := []string{"/", "a", "aC", "bB"}; !reflect.DeepEqual(s.OpenIDs(), want) {
		t.Errorf("open = %v, want %v", s.OpenIDs(), want)
	}

	s.Restore(root, "gone", nil)
	if got := selectedID(t, &s); got != "/" {
		t.Errorf("unknown selection should fall back to the root, got %s", got)
	}
}

func checkInvariants(t *rapid.T, s *NavState, root *tree.Node) {
	id, ok := s.Selected()
	if !ok {
		t.Fatal("selection lost")
	}
	for _, a := range proptest.Ancestors(tree.New(root), id) {
		if !s.IsOpen(root.Query(a)) {
			t.Fatalf("ancestor %s of selected %s is closed", a, id)
		}
	}
	for _, o := range s.OpenIDs() {
		n := root.Query(o)
		if n == nil || n.IsLeaf() {
			t.Fatalf("open id %s is absent or a leaf", o)
		}
	}
}

// TestNavigationProperties drives random command sequences and checks the
// state invariants after each step.
func TestNavigationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := proptest.Tree(40).Draw(t, "tree")
		root := tr.Root()
		var s NavState
		s.Select(root, proptest.NodeOf(t, tr, "start").ID())

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 5).Draw(t, "op") {
			case 0:
				s.MoveDown(root)
			case 1:
				s.MoveUp(root)
			case 2:
				s.Open(root)
			case 3:
				s.Close(root)
			case 4:
				s.Select(root, proptest.NodeOf(t, tr, "target").ID())
			case 5:
				if n := s.FirstSibling(root); n != nil {
					s.Select(root, n.ID())
				}
			}
			checkInvariants(t, &s, root)
		}
	})
}

// TestMoveMatchesVisibleOrder checks MoveDown/MoveUp step through the
// flattened visible rows one at a time.
func TestMoveMatchesVisibleOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := proptest.Tree(40).Draw(t, "tree")
		root := tr.Root()
		var s NavState
		for _, id := range rapid.SliceOfN(rapid.IntRange(0, tr.Count()-1), 0, 10).Draw(t, "opened") {
			s.Select(root, "n"+strconv.Itoa(id))
			s.Open(root)
		}
		rows := VisibleRows(&s, root)
		i := rapid.IntRange(0, len(rows)-1).Draw(t, "row")
		s.Select(root, rows[i].Node.ID())

		s.MoveDown(root)
		want := rows[min(i+1, len(rows)-1)].Node.ID()
		if got, _ := s.Selected(); got != want {
			t.Fatalf("MoveDown from row %d = %s, want %s", i, got, want)
		}

		s.Select(root, rows[i].Node.ID())
		s.MoveUp(root)
		want = rows[max(i-1, 0)].Node.ID()
		if got, _ := s.Selected(); got != want {
			t.Fatalf("MoveUp from row %d = %s, want %s", i, got, want)
		}
	})
}

// TestOpenIdempotentProperty checks opening twice equals opening once.
func TestOpenIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := proptest.Tree(30).Draw(t, "tree")
		root := tr.Root()
		var once, twice NavState
		id := proptest.NodeOf(t, tr, "node").ID()
		once.Select(root, id)
		twice.Select(root, id)

		once.Open(root)
		twice.Open(root)
		twice.Open(root)
		if !slices.Equal(once.OpenIDs(), twice.OpenIDs()) {
			t.Fatalf("open sets differ: %v vs %v", once.OpenIDs(), twice.OpenIDs())
		}
	})
}
