package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/treeview/pkg/ui"
)

const (
	pngLineHeight = 18
	pngPadding    = 10
)

// WritePNG rasterizes rows with the 7x13 bitmap font. The glyphs of
// characters the font lacks are drawn as boxes.
func WritePNG(w io.Writer, rows []ui.VisibleRow, opts Options) error {
	opts = opts.withDefaults()
	face := basicfont.Face7x13
	cell := face.Advance

	cols := 0
	for i, r := range rows {
		cols = max(cols, r.Depth*opts.IndentSize+runewidth.StringWidth(rowText(rows, i)))
	}
	top := pngPadding
	if opts.Title != "" {
		top += pngLineHeight
		cols = max(cols, runewidth.StringWidth(opts.Title))
	}
	width := cols*cell + 2*pngPadding
	height := top + len(rows)*pngLineHeight + pngPadding

	dc := gg.NewContext(width, height)
	dc.SetHexColor(opts.Background)
	dc.Clear()
	dc.SetFontFace(face)

	baseline := float64(face.Ascent) + float64(pngLineHeight-face.Height)/2
	if opts.Title != "" {
		dc.SetHexColor(opts.Highlight)
		dc.DrawString(opts.Title, pngPadding, pngPadding+baseline)
	}
	for i, r := range rows {
		y := float64(top + i*pngLineHeight)
		x := float64(pngPadding + r.Depth*opts.IndentSize*cell)
		if r.Node.ID() == opts.Selected {
			dc.SetHexColor(opts.Highlight)
			dc.DrawRectangle(0, y, float64(width), pngLineHeight)
			dc.Fill()
			dc.SetHexColor(opts.Background)
		} else {
			dc.SetHexColor(opts.Foreground)
		}
		dc.DrawString(rowText(rows, i), x, y+baseline)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
