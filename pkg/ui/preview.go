package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// maxPreviewBytes limits how much of a file is read for the preview.
const maxPreviewBytes = 64 * 1024

// previewer renders the content shown next to the tree for a node.
type previewer struct {
	md    *glamour.TermRenderer
	width int
	last  string
}

// newPreviewer builds a markdown renderer that wraps at width.
func newPreviewer(width int) previewer {
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		md = nil
	}
	return previewer{md: md, width: width}
}

// Render describes n. Nodes whose id is a path on disk show the file or
// directory; other nodes show their place in the tree.
func (p previewer) Render(n *tree.Node) string {
	if n == nil {
		return "Nothing selected"
	}
	info, err := os.Stat(n.ID())
	if err != nil {
		return nodeSummary(n)
	}
	if info.IsDir() {
		return dirSummary(n, info)
	}
	return p.file(n.ID(), info)
}

func nodeSummary(n *tree.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nid: %s\n", n.Label(), n.ID())
	if n.IsLeaf() {
		b.WriteString("leaf\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s, %s below\n\n", plural(len(n.Children()), "child", "children"),
		plural(n.Count()-1, "node", "nodes"))
	for _, c := range n.Children() {
		b.WriteString("  " + c.Label() + "\n")
	}
	return b.String()
}

func dirSummary(n *tree.Node, info os.FileInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/\n\n", info.Name())
	entries, err := os.ReadDir(n.ID())
	if err != nil {
		fmt.Fprintf(&b, "unreadable: %v\n", err)
		return b.String()
	}
	fmt.Fprintf(&b, "%s, modified %s\n\n", plural(len(entries), "entry", "entries"),
		humanize.Time(info.ModTime()))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		b.WriteString("  " + name + "\n")
	}
	return b.String()
}

func (p previewer) file(path string, info os.FileInfo) string {
	header := fmt.Sprintf("%s  %s, modified %s\n\n", info.Name(),
		humanize.IBytes(uint64(info.Size())), humanize.Time(info.ModTime()))

	f, err := os.Open(path)
	if err != nil {
		return header + fmt.Sprintf("cannot open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxPreviewBytes))
	if err != nil {
		return header + fmt.Sprintf("cannot read: %v", err)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(trimPartialRune(data)) {
		return header + "binary file"
	}

	text := string(data)
	if info.Size() > maxPreviewBytes {
		text += "\n…"
	}
	if isMarkdown(path) && p.md != nil {
		if out, err := p.md.Render(text); err == nil {
			return header + out
		}
	}
	return header + strings.ReplaceAll(text, "\t", "    ")
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

// trimPartialRune drops a rune cut in half by the read limit.
func trimPartialRune(data []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
		r, size := utf8.DecodeLastRune(data)
		if r != utf8.RuneError || size != 1 {
			break
		}
		data = data[:len(data)-1]
	}
	return data
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
