package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

// sourceFlags selects what a command reads: a directory (the default), a
// tree document or a SQLite table.
type sourceFlags struct {
	configPath string
	depth      int
	hidden     bool
	sqlitePath string
	table      string
	filePath   string
}

func (f *sourceFlags) addFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Config file (default: nearest .tv/config.yaml)")
	fl.IntVar(&f.depth, "depth", loader.DefaultMaxDepth, "Directory levels to scan")
	fl.BoolVar(&f.hidden, "hidden", false, "Show hidden files and directories")
	fl.StringVar(&f.sqlitePath, "sqlite", "", "Read the tree from a SQLite database")
	fl.StringVar(&f.table, "table", loader.DefaultTable, "Table to read with --sqlite")
	fl.StringVar(&f.filePath, "file", "", "Read the tree from a JSON, YAML or JSON-lines file")
	cmd.MarkFlagsMutuallyExclusive("sqlite", "file")
}

// target is a resolved source plus the configuration that applies to it.
type target struct {
	dir    string
	cfg    *config.Config
	source ui.TreeSource

	// reroot is set for directory sources only.
	reroot func(dir string) ui.TreeSource
}

// resolve loads the configuration for the directory argument (default: the
// working directory) and applies the flags on top of it.
func (f *sourceFlags) resolve(cmd *cobra.Command, args []string) (*target, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	cfg, err := config.Load(f.configPath, abs)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("depth") {
		if f.depth < 0 {
			return nil, fmt.Errorf("--depth must not be negative, got %d", f.depth)
		}
		cfg.Browser.MaxDepth = f.depth
	}
	if cmd.Flags().Changed("hidden") {
		cfg.Browser.ShowHidden = f.hidden
	}

	t := &target{dir: abs, cfg: cfg}
	switch {
	case f.sqlitePath != "":
		t.source = loader.SQLiteSource{Path: f.sqlitePath, Table: f.table}
	case f.filePath != "":
		t.source = loader.FileSource{Path: f.filePath}
	default:
		if info, err := os.Stat(abs); err != nil {
			return nil, err
		} else if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory (use --file for tree documents)", dir)
		}
		src := loader.DirSource{
			Root: abs,
			Options: loader.ScanOptions{
				MaxDepth:   cfg.Browser.MaxDepth,
				ShowHidden: cfg.Browser.ShowHidden,
			},
			RespectGitignore: cfg.Browser.RespectGitignore,
		}
		t.source = src
		t.reroot = func(dir string) ui.TreeSource { return src.WithRoot(dir) }
	}
	return t, nil
}

// initLogging starts the log file. A relative log directory is taken
// relative to the browsed directory.
func (t *target) initLogging() error {
	opts := t.cfg.Log.LoggerOptions()
	if opts.LogDir == "" || opts.LogDir == config.StateDirName {
		opts.LogDir = config.StateDir(t.dir)
	} else if !filepath.IsAbs(opts.LogDir) {
		opts.LogDir = filepath.Join(t.dir, opts.LogDir)
	}
	return logger.Init(opts)
}
