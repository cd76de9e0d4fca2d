package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

func renderLines(r Renderer, w, h int, root *tree.Node, s *NavState) []string {
	buf := NewCellBuffer(w, h)
	r.Render(buf, buf.Area(), root, s)
	lines := buf.Lines()
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestRenderIndentAndGlyphs verifies indentation and expansion markers
func TestRenderIndentAndGlyphs(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState
	s.Select(root, "aC")
	s.Open(root)

	got := renderLines(Renderer{IndentSize: 2}, 16, 9, root, &s)
	assertLines(t, got, []string{
		"  / ▼",
		"    a ▼",
		"      aA ▶",
		"      aB ▶",
		"      aC ▼",
		"        aC0",
		"    b ▶",
		"    c ▶",
		"",
	})
}

// TestRenderHighlightSymbol verifies the marker replaces part of the indent
func TestRenderHighlightSymbol(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState
	s.Select(root, "b")

	r := Renderer{IndentSize: 4, HighlightSymbol: ">>"}
	got := renderLines(r, 12, 4, root, &s)
	assertLines(t, got, []string{
		"    / ▼",
		"        a ▶",
		"     >> b ▶",
		"        c ▶",
	})

	// The root label stays in its column when selected.
	s.Select(root, "/")
	got = renderLines(r, 12, 1, root, &s)
	assertLines(t, got, []string{" >> / ▼"})

	// A marker wider than the indent saturates at column zero.
	wide := Renderer{IndentSize: 1, HighlightSymbol: ">>"}
	got = renderLines(wide, 12, 1, root, &s)
	assertLines(t, got, []string{">> / ▼"})
}

// TestRenderLabelColumnIgnoresSymbol verifies a row's label starts in the same
// column whether or not it is selected
func TestRenderLabelColumnIgnoresSymbol(t *testing.T) {
	root := testutil.MockTree().Root()
	r := Renderer{IndentSize: 4, HighlightSymbol: ">"}
	for _, id := range []string{"/", "a", "b"} {
		var s NavState
		s.Select(root, "c")
		plain := renderLines(r, 20, 4, root, &s)

		s.Select(root, id)
		marked := renderLines(r, 20, 4, root, &s)
		for i := range plain {
			if strings.TrimLeft(plain[i], " >") == "" {
				continue
			}
			if got, want := len(marked[i])-len(strings.TrimLeft(marked[i], " >")), len(plain[i])-len(strings.TrimLeft(plain[i], " >")); got != want {
				t.Errorf("select %s: row %d label column = %d, want %d", id, i, got, want)
			}
		}
	}
}

// TestRenderSkipsRowsAboveSelection verifies the viewport follows the selection
func TestRenderSkipsRowsAboveSelection(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState
	openAll(&s, root)
	s.Select(root, "bB2")

	got := renderLines(Renderer{IndentSize: 1}, 10, 4, root, &s)
	// bB2 is row 22, so 20 rows are skipped.
	assertLines(t, got, []string{
		"    bB1",
		"    bB2",
		"    bB3",
		"    bB4",
	})
}

// TestRenderStyles verifies row, highlight and span styles are layered
func TestRenderStyles(t *testing.T) {
	red := style.New(style.Red)
	root := tree.NewLabelNode("r", "r").
		WithChild(tree.NewNode("x", tree.Spans{{Text: "ab"}, tree.Styled("cd", red)}))
	var s NavState
	s.Select(root, "x")

	r := Renderer{
		Style:          style.Style{Fg: style.White},
		HighlightStyle: style.Style{Fg: style.Black, Bg: style.Blue},
		IndentSize:     0,
	}
	buf := NewCellBuffer(8, 2)
	r.Render(buf, buf.Area(), root, &s)

	if c := buf.Cell(0, 0); c.Style.Fg != style.White || c.Style.Bg != style.Reset {
		t.Errorf("unselected row style = %+v", c.Style)
	}
	if c := buf.Cell(0, 1); c.Content != "a" || c.Style.Fg != style.Black || c.Style.Bg != style.Blue {
		t.Errorf("selected cell = %+v", c)
	}
	if c := buf.Cell(2, 1); c.Content != "c" || c.Style.Fg != style.Red || c.Style.Bg != style.Blue {
		t.Errorf("styled span cell = %+v, want red on blue", c)
	}
	if c := buf.Cell(7, 1); c.Style.Bg != style.Blue {
		t.Errorf("highlight should fill the row, got %+v", c.Style)
	}
}

// TestRenderClipsAndGuards verifies narrow and empty areas
func TestRenderClipsAndGuards(t *testing.T) {
	root := testutil.MockTree().Root()
	var s NavState
	s.Select(root, "a")
	s.Select(root, "/")

	got := renderLines(Renderer{IndentSize: 4}, 5, 2, root, &s)
	assertLines(t, got, []string{"    /", ""})

	buf := NewCellBuffer(4, 4)
	Renderer{}.Render(buf, Rect{X: 1, Y: 1, W: 0, H: 3}, root, &s)
	Renderer{}.Render(buf, Rect{X: 1, Y: 1, W: 3, H: 0}, root, &s)
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("empty area should draw nothing, got %q", buf.String())
	}
}

// TestRenderWideLabels verifies double-width labels use two cells
func TestRenderWideLabels(t *testing.T) {
	root := tree.NewLabelNode("r", "日本")
	var s NavState
	s.Select(root, "r")

	buf := NewCellBuffer(6, 1)
	Renderer{}.Render(buf, buf.Area(), root, &s)
	if got := buf.Line(0); got != "日本  " {
		t.Errorf("line = %q", got)
	}
	if buf.Cell(1, 0).Content != "" {
		t.Error("continuation cell should be empty")
	}
}

// TestCellBufferSetStringN verifies clipping and style patching
func TestCellBufferSetStringN(t *testing.T) {
	buf := NewCellBuffer(4, 2)
	buf.SetStyle(buf.Area(), style.New(style.Red))

	x, y := buf.SetStringN(1, 0, "abcdef", 2, style.Style{Bg: style.Blue})
	if x != 3 || y != 0 {
		t.Errorf("SetStringN returned (%d, %d), want (3, 0)", x, y)
	}
	if got := buf.Line(0); got != " ab " {
		t.Errorf("line = %q", got)
	}
	if c := buf.Cell(1, 0); c.Style.Fg != style.Red || c.Style.Bg != style.Blue {
		t.Errorf("patched style = %+v", c.Style)
	}

	x, _ = buf.SetStringN(3, 1, "日", 5, style.Style{})
	if x != 3 {
		t.Errorf("a wide rune that does not fit should not be written, x = %d", x)
	}
	if x, _ := buf.SetStringN(0, 5, "z", 1, style.Style{}); x != 0 {
		t.Errorf("out of range row should not advance, x = %d", x)
	}
}

// TestCellBufferRender verifies plain output on a color-less renderer
func TestCellBufferRender(t *testing.T) {
	buf := NewCellBuffer(5, 2)
	buf.SetStringN(0, 0, "ab", 5, style.New(style.Green))
	buf.SetStringN(0, 1, "cd", 5, style.Style{})

	out := buf.Render(lipgloss.NewRenderer(io.Discard))
	if out != buf.String() {
		t.Errorf("ascii render = %q, want %q", out, buf.String())
	}
}

// TestRectIntersect verifies rect clipping
func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 5}
	if got := a.Intersect(Rect{X: 8, Y: 3, W: 10, H: 10}); got != (Rect{X: 8, Y: 3, W: 2, H: 2}) {
		t.Errorf("intersect = %+v", got)
	}
	if got := a.Intersect(Rect{X: 20, Y: 0, W: 1, H: 1}); !got.Empty() {
		t.Errorf("disjoint intersect should be empty, got %+v", got)
	}
}

// TestBlock verifies border glyphs, title alignment and the inner area
func TestBlock(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  []string
		inner Rect
	}{
		{
			name:  "rounded left title",
			block: Block{Borders: BorderRounded, Title: "files"},
			want:  []string{"╭files───╮", "│        │", "╰────────╯"},
			inner: Rect{X: 1, Y: 1, W: 8, H: 1},
		},
		{
			name:  "centered title",
			block: Block{Borders: BorderNormal, Title: "files", TitleAlign: lipgloss.Center},
			want:  []string{"┌─files──┐", "│        │", "└────────┘"},
			inner: Rect{X: 1, Y: 1, W: 8, H: 1},
		},
		{
			name:  "right title without border",
			block: Block{Title: "tv", TitleAlign: lipgloss.Right},
			want:  []string{"        tv", "          ", "          "},
			inner: Rect{X: 0, Y: 1, W: 10, H: 2},
		},
		{
			name:  "long title is cut",
			block: Block{Borders: BorderDouble, Title: "a-very-long-title"},
			want:  []string{"╔a-very-l╗", "║        ║", "╚════════╝"},
			inner: Rect{X: 1, Y: 1, W: 8, H: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewCellBuffer(10, 3)
			tt.block.Render(buf, buf.Area())
			assertLines(t, buf.Lines(), tt.want)
			if got := tt.block.Inner(buf.Area()); got != tt.inner {
				t.Errorf("Inner = %+v, want %+v", got, tt.inner)
			}
		})
	}
}

// TestParseBorderAndAlign verifies config name parsing
func TestParseBorderAndAlign(t *testing.T) {
	if k, err := ParseBorderKind("Thick"); err != nil || k != BorderThick {
		t.Errorf("ParseBorderKind(Thick) = %v, %v", k, err)
	}
	if _, err := ParseBorderKind("wavy"); err == nil {
		t.Error("expected an error for an unknown border")
	}
	if BorderRounded.String() != "rounded" {
		t.Errorf("String() = %s", BorderRounded.String())
	}
	if p, err := ParseAlign("center"); err != nil || p != lipgloss.Center {
		t.Errorf("ParseAlign(center) = %v, %v", p, err)
	}
	if _, err := ParseAlign("middle"); err == nil {
		t.Error("expected an error for an unknown alignment")
	}
}
