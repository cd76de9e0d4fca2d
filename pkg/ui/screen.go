package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/vanderheijden86/treeview/pkg/style"
)

// TcellStyle converts a style for tcell.
func TcellStyle(st style.Style) tcell.Style {
	ts := tcell.StyleDefault.
		Foreground(tcellColor(st.Fg)).
		Background(tcellColor(st.Bg))
	if st.Mods.Has(style.Bold) {
		ts = ts.Bold(true)
	}
	if st.Mods.Has(style.Dim) {
		ts = ts.Dim(true)
	}
	if st.Mods.Has(style.Italic) {
		ts = ts.Italic(true)
	}
	if st.Mods.Has(style.Underline) {
		ts = ts.Underline(true)
	}
	if st.Mods.Has(style.Reverse) {
		ts = ts.Reverse(true)
	}
	return ts
}

func tcellColor(c style.Color) tcell.Color {
	if c.IsReset() {
		return tcell.ColorDefault
	}
	if strings.HasPrefix(string(c), "#") {
		return tcell.GetColor(string(c))
	}
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(n)
}

// ScreenSurface draws onto a tcell screen. Drawing goes to an in-memory
// buffer first so styles can be patched, and Show copies it to the screen.
type ScreenSurface struct {
	screen tcell.Screen
	buf    *CellBuffer
}

// NewScreenSurface wraps an initialized screen.
func NewScreenSurface(screen tcell.Screen) *ScreenSurface {
	w, h := screen.Size()
	return &ScreenSurface{screen: screen, buf: NewCellBuffer(w, h)}
}

// Begin starts a new frame, following any screen resize.
func (s *ScreenSurface) Begin() {
	w, h := s.screen.Size()
	if bw, bh := s.buf.Size(); bw != w || bh != h {
		s.buf = NewCellBuffer(w, h)
		return
	}
	s.buf.Reset()
}

// Area is the whole screen.
func (s *ScreenSurface) Area() Rect { return s.buf.Area() }

// Size implements Surface.
func (s *ScreenSurface) Size() (int, int) { return s.buf.Size() }

// SetStringN implements Surface.
func (s *ScreenSurface) SetStringN(x, y int, str string, maxWidth int, st style.Style) (int, int) {
	return s.buf.SetStringN(x, y, str, maxWidth, st)
}

// SetStyle implements Surface.
func (s *ScreenSurface) SetStyle(area Rect, st style.Style) { s.buf.SetStyle(area, st) }

// Show copies the frame to the screen and displays it.
func (s *ScreenSurface) Show() {
	w, h := s.buf.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := s.buf.Cell(x, y)
			if c.Content == "" {
				continue
			}
			runes := []rune(c.Content)
			s.screen.SetContent(x, y, runes[0], runes[1:], TcellStyle(c.Style))
		}
	}
	s.screen.Show()
}
