package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/ui"
)

const (
	svgCellWidth  = 9
	svgLineHeight = 20
	svgPadding    = 12
)

// WriteSVG draws rows as monospace text, one row per line.
func WriteSVG(w io.Writer, rows []ui.VisibleRow, opts Options) error {
	opts = opts.withDefaults()

	cols := 0
	for i, r := range rows {
		cols = max(cols, r.Depth*opts.IndentSize+runewidth.StringWidth(rowText(rows, i)))
	}
	top := svgPadding
	if opts.Title != "" {
		top += svgLineHeight
		cols = max(cols, runewidth.StringWidth(opts.Title))
	}
	width := cols*svgCellWidth + 2*svgPadding
	height := top + len(rows)*svgLineHeight + svgPadding

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+opts.Background)
	canvas.Gstyle(fmt.Sprintf("font-family:monospace;font-size:%dpx;fill:%s", svgLineHeight*3/4, opts.Foreground))
	if opts.Title != "" {
		canvas.Text(svgPadding, svgPadding+svgLineHeight*3/4, opts.Title, "font-weight:bold;fill:"+opts.Highlight)
	}
	for i, r := range rows {
		y := top + i*svgLineHeight
		x := svgPadding + r.Depth*opts.IndentSize*svgCellWidth
		if r.Node.ID() == opts.Selected {
			canvas.Rect(0, y, width, svgLineHeight, "fill:"+opts.Highlight)
			canvas.Text(x, y+svgLineHeight*3/4, rowText(rows, i), "fill:"+opts.Background)
			continue
		}
		canvas.Text(x, y+svgLineHeight*3/4, rowText(rows, i))
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
