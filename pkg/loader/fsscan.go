package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// DefaultMaxDepth is how many directory levels below the root are scanned.
const DefaultMaxDepth = 3

// ScanOptions controls ScanDir.
type ScanOptions struct {
	// MaxDepth is the number of levels read below the root. 0 scans only
	// the root itself.
	MaxDepth int

	// ShowHidden keeps dot files and directories.
	ShowHidden bool

	// Ignore filters entries by their slash separated path relative to the
	// root, directories with a trailing slash. Nil keeps everything.
	Ignore Ignorer
}

// ScanDir builds a tree of root. Node ids are absolute paths and labels are
// base names. Directories come before files, each group sorted by name.
// Directories that cannot be read, or lie below MaxDepth, are leaves.
func ScanDir(ctx context.Context, root string, opts ScanOptions) (*tree.Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	if opts.Ignore == nil {
		opts.Ignore = nopIgnorer{}
	}

	s := scanner{ctx: ctx, root: abs, opts: opts}
	node := s.dir(abs, opts.MaxDepth)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tree.New(node), nil
}

type scanner struct {
	ctx  context.Context
	root string
	opts ScanOptions
}

func (s *scanner) dir(path string, depth int) *tree.Node {
	node := tree.NewLabelNode(path, filepath.Base(path))
	if depth <= 0 || s.ctx.Err() != nil {
		return node
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return node
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, e := range entries {
		name := e.Name()
		if !s.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		child := filepath.Join(path, name)
		rel, err := filepath.Rel(s.root, child)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if e.IsDir() {
			rel += "/"
		}
		if s.opts.Ignore.MatchesPath(rel) {
			continue
		}
		if e.IsDir() {
			node.AddChild(s.dir(child, depth-1))
		} else {
			node.AddChild(tree.NewLabelNode(child, name))
		}
	}
	return node
}
