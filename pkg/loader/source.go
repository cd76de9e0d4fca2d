package loader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// DirSource scans a directory.
type DirSource struct {
	Root             string
	Options          ScanOptions
	RespectGitignore bool
}

// Load implements ui.TreeSource. The .gitignore is read again on every
// load so edits to it show up on the next rescan.
func (d DirSource) Load(ctx context.Context) (*tree.Tree, error) {
	opts := d.Options
	if d.RespectGitignore && opts.Ignore == nil {
		opts.Ignore = LoadIgnore(d.Root)
	}
	return ScanDir(ctx, d.Root, opts)
}

// Name is the absolute root path.
func (d DirSource) Name() string {
	if abs, err := filepath.Abs(d.Root); err == nil {
		return abs
	}
	return d.Root
}

// WatchPaths lists the root and every directory whose entries were read,
// empty ones included. Directories at MaxDepth are not listed: new entries
// there would not be scanned anyway.
func (d DirSource) WatchPaths(t *tree.Tree) []string {
	paths := []string{d.Name()}
	if t == nil {
		return paths
	}
	t.Walk(func(n *tree.Node, depth int) bool {
		if depth == 0 || depth >= d.Options.MaxDepth {
			return depth < d.Options.MaxDepth
		}
		if !n.IsLeaf() {
			paths = append(paths, n.ID())
		} else if info, err := os.Lstat(n.ID()); err == nil && info.IsDir() {
			paths = append(paths, n.ID())
		}
		return depth+1 < d.Options.MaxDepth
	})
	return paths
}

// WithRoot returns the same source rooted elsewhere.
func (d DirSource) WithRoot(root string) DirSource {
	d.Root = root
	return d
}

// FileSource reads a JSON, YAML or JSON-lines document.
type FileSource struct {
	Path string
}

// Load implements ui.TreeSource.
func (f FileSource) Load(context.Context) (*tree.Tree, error) { return tree.ReadFile(f.Path) }

// Name is the file path.
func (f FileSource) Name() string { return f.Path }

// WatchPaths watches the file itself.
func (f FileSource) WatchPaths(*tree.Tree) []string { return []string{f.Path} }

// SQLiteSource reads a tree table.
type SQLiteSource struct {
	Path  string
	Table string
}

// Load implements ui.TreeSource.
func (s SQLiteSource) Load(ctx context.Context) (*tree.Tree, error) {
	return LoadSQLite(ctx, s.Path, s.Table)
}

// Name combines the database path and table.
func (s SQLiteSource) Name() string {
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	return s.Path + "#" + table
}

// WatchPaths watches the database file.
func (s SQLiteSource) WatchPaths(*tree.Tree) []string { return []string{s.Path} }
