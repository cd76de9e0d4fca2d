package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

type dumpOptions struct {
	source  sourceFlags
	format  string
	noColor bool
}

func newDumpCmd() *cobra.Command {
	opts := &dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump [dir]",
		Short: "Print the tree as text, JSON or YAML",
		Long: `The dump command prints the tree without starting the browser.

The text format draws the tree with line art. The json and yaml formats
print one {id, label, parent} record per node in pre-order, the format
read back by --file with a .jsonl extension and by --sqlite.

--depth limits the output for --file and --sqlite trees too.

Example:
  tv dump
  tv dump ~/src --depth 1
  tv dump --format json > tree.json
  tv dump --file tree.yaml --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args, opts)
		},
	}
	opts.source.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func runDump(cmd *cobra.Command, args []string, opts *dumpOptions) error {
	switch opts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", opts.format)
	}

	target, err := opts.source.resolve(cmd, args)
	if err != nil {
		return err
	}
	t, err := target.source.Load(cmd.Context())
	if err != nil {
		return err
	}

	depth := -1
	if cmd.Flags().Changed("depth") {
		depth = opts.source.depth
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(t.Flatten(depth))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(t.Flatten(depth)); err != nil {
			return err
		}
		return enc.Close()
	}

	var styles textStyles
	if !opts.noColor && isTerminal(out) {
		styles = newTextStyles(lipgloss.NewRenderer(out))
	}
	return writeText(out, t.Root(), depth, styles)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// textStyles colors the text dump. The zero value prints plain text.
type textStyles struct {
	branch *lipgloss.Style
	leaf   *lipgloss.Style
	lines  *lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	theme := ui.DefaultTheme(r)
	branch := r.NewStyle().Foreground(theme.Primary).Bold(true)
	leaf := r.NewStyle().Foreground(theme.Subtext)
	lines := r.NewStyle().Foreground(theme.Muted)
	return textStyles{branch: &branch, leaf: &leaf, lines: &lines}
}

func render(st *lipgloss.Style, s string) string {
	if st == nil {
		return s
	}
	return st.Render(s)
}

// writeText prints root and its descendants down to depth (negative for all)
// with tree line art.
func writeText(w io.Writer, root *tree.Node, depth int, styles textStyles) error {
	var b strings.Builder
	var walk func(n *tree.Node, prefix string, level int)
	walk = func(n *tree.Node, prefix string, level int) {
		if depth >= 0 && level >= depth {
			return
		}
		children := n.Children()
		for i, c := range children {
			last := i == len(children)-1
			connector, indent := "├── ", "│   "
			if last {
				connector, indent = "└── ", "    "
			}
			b.WriteString(render(styles.lines, prefix+connector))
			b.WriteString(labelText(c, styles))
			b.WriteByte('\n')
			walk(c, prefix+indent, level+1)
		}
	}
	b.WriteString(labelText(root, styles))
	b.WriteByte('\n')
	walk(root, "", 0)

	_, err := io.WriteString(w, b.String())
	return err
}

func labelText(n *tree.Node, styles textStyles) string {
	if n.IsLeaf() {
		return render(styles.leaf, n.Label())
	}
	return render(styles.branch, n.Label())
}
