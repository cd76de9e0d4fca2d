package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/style"
)

// Rect is a rectangular region in cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rect holds no cells.
func (r Rect) Empty() bool { return r.W < 1 || r.H < 1 }

// Right is the first column past the rect.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the rect.
func (r Rect) Bottom() int { return r.Y + r.H }

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Surface is the drawing target of the tree view. Styles are patched onto
// the cells they touch: unset colors keep what is already there.
type Surface interface {
	// Size returns the surface size in cells.
	Size() (width, height int)
	// SetStringN writes s at (x, y) using at most maxWidth cells and returns
	// the position right after the last written cell.
	SetStringN(x, y int, s string, maxWidth int, st style.Style) (int, int)
	// SetStyle patches st onto every cell of area.
	SetStyle(area Rect, st style.Style)
}

// Cell is one terminal cell. The cell right of a double-width character has
// empty content.
type Cell struct {
	Content string
	Style   style.Style
}

// CellBuffer is an in-memory Surface, used to build bubbletea views and in tests.
type CellBuffer struct {
	width, height int
	cells         []Cell
}

// NewCellBuffer returns a buffer of blank cells.
func NewCellBuffer(width, height int) *CellBuffer {
	width, height = max(width, 0), max(height, 0)
	b := &CellBuffer{width: width, height: height, cells: make([]Cell, width*height)}
	b.Reset()
	return b
}

// Reset blanks every cell.
func (b *CellBuffer) Reset() {
	for i := range b.cells {
		b.cells[i] = Cell{Content: " "}
	}
}

// Size implements Surface.
func (b *CellBuffer) Size() (int, int) { return b.width, b.height }

// Area returns the whole buffer as a rect.
func (b *CellBuffer) Area() Rect { return Rect{W: b.width, H: b.height} }

// Cell returns the cell at (x, y); out of range positions give a zero Cell.
func (b *CellBuffer) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

func (b *CellBuffer) at(x, y int) *Cell { return &b.cells[y*b.width+x] }

// SetStringN implements Surface.
func (b *CellBuffer) SetStringN(x, y int, s string, maxWidth int, st style.Style) (int, int) {
	if y < 0 || y >= b.height || x < 0 {
		return x, y
	}
	limit := min(x+maxWidth, b.width)
	prev := -1
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Combining marks join the previous cell.
			if prev >= 0 {
				b.at(prev, y).Content += string(r)
			}
			continue
		}
		if x+w > limit {
			break
		}
		c := b.at(x, y)
		c.Content = string(r)
		c.Style = c.Style.Patch(st)
		for i := 1; i < w; i++ {
			cont := b.at(x+i, y)
			cont.Content = ""
			cont.Style = cont.Style.Patch(st)
		}
		prev = x
		x += w
	}
	return x, y
}

// SetStyle implements Surface.
func (b *CellBuffer) SetStyle(area Rect, st style.Style) {
	area = area.Intersect(b.Area())
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			c := b.at(x, y)
			c.Style = c.Style.Patch(st)
		}
	}
}

// Line returns the text of row y without styles.
func (b *CellBuffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		sb.WriteString(b.at(x, y).Content)
	}
	return sb.String()
}

// Lines returns every row as plain text.
func (b *CellBuffer) Lines() []string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return lines
}

// String joins the plain rows with newlines.
func (b *CellBuffer) String() string { return strings.Join(b.Lines(), "\n") }

// Render returns the buffer as styled terminal output. Runs of cells sharing
// a style are rendered together.
func (b *CellBuffer) Render(r *lipgloss.Renderer) string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		var line, run strings.Builder
		var runStyle style.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle.IsZero() {
				line.WriteString(run.String())
			} else {
				line.WriteString(runStyle.Lipgloss(r).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < b.width; x++ {
			c := b.at(x, y)
			if c.Style != runStyle {
				flush()
				runStyle = c.Style
			}
			run.WriteString(c.Content)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
