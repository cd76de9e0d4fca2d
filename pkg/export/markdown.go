package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// WriteMarkdown writes root as a nested bullet list, two spaces of indent
// per level. Nodes deeper than depth are left out; a negative depth writes
// the whole tree.
func WriteMarkdown(w io.Writer, root *tree.Node, depth int) error {
	bw := bufio.NewWriter(w)
	if root != nil {
		root.Walk(func(n *tree.Node, d int) bool {
			if depth >= 0 && d > depth {
				return false
			}
			bw.WriteString(strings.Repeat("  ", d))
			bw.WriteString("- ")
			bw.WriteString(escapeMarkdown(n.Label()))
			bw.WriteString("\n")
			return true
		})
	}
	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }
