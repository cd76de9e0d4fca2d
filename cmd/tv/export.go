package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

type exportOptions struct {
	source    sourceFlags
	svgPath   string
	pngPath   string
	mdPath    string
	collapsed bool
	saved     bool
	title     string
	serve     string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Render the tree as SVG, PNG or a markdown outline",
		Long: `The export command draws the tree the way the browser shows it, fully
expanded by default. --collapsed opens only the root and --saved uses the
selection and expansion last saved by the browser.

--serve starts a web page showing the SVG snapshot. The page reloads when
the tree changes on disk.

Example:
  tv export --svg tree.svg
  tv export ~/src --png tree.png --collapsed
  tv export --md OUTLINE.md --depth 2
  tv export --serve localhost:8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}
	opts.source.addFlags(cmd)
	fl := cmd.Flags()
	fl.StringVar(&opts.svgPath, "svg", "", "Write an SVG snapshot to this file")
	fl.StringVar(&opts.pngPath, "png", "", "Write a PNG snapshot to this file")
	fl.StringVar(&opts.mdPath, "md", "", "Write a markdown outline to this file")
	fl.BoolVar(&opts.collapsed, "collapsed", false, "Open only the root")
	fl.BoolVar(&opts.saved, "saved", false, "Use the browser's saved selection and expansion")
	fl.StringVar(&opts.title, "title", "", "Snapshot title (default: the source name)")
	fl.StringVar(&opts.serve, "serve", "", "Serve a live SVG page on this address")
	cmd.MarkFlagsMutuallyExclusive("collapsed", "saved")
	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *exportOptions) error {
	if opts.svgPath == "" && opts.pngPath == "" && opts.mdPath == "" && opts.serve == "" {
		return errors.New("nothing to export: use --svg, --png, --md or --serve")
	}

	target, err := opts.source.resolve(cmd, args)
	if err != nil {
		return err
	}
	snap := snapshotter{
		expanded: !opts.collapsed,
		saved:    opts.saved,
		stateDir: config.StateDir(target.dir),
		key:      target.source.Name(),
		opts:     export.DefaultOptions(),
	}
	snap.opts.Title = opts.title
	if snap.opts.Title == "" {
		snap.opts.Title = filepath.Base(target.source.Name())
	}
	if target.cfg.Tree.IndentSize > 0 {
		snap.opts.IndentSize = target.cfg.Tree.IndentSize
	}

	worker := ui.NewBackgroundWorker(ui.WorkerConfig{
		Source:        target.source,
		DebounceDelay: time.Duration(target.cfg.Browser.DebounceMS) * time.Millisecond,
		Watch:         opts.serve != "",
	})
	defer worker.Stop()

	t, err := worker.Load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.svgPath, func(w io.Writer) error { return snap.writeSVG(w, t) }},
		{opts.pngPath, func(w io.Writer) error {
			rows, pngOpts := snap.rows(t)
			return export.WritePNG(w, rows, pngOpts)
		}},
		{opts.mdPath, func(w io.Writer) error {
			depth := -1
			if cmd.Flags().Changed("depth") {
				depth = opts.source.depth
			}
			return export.WriteMarkdown(w, t.Root(), depth)
		}},
	}
	for _, wr := range writers {
		if wr.path == "" {
			continue
		}
		if err := writeFileWith(wr.path, wr.write); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", wr.path)
	}

	if opts.serve == "" {
		return nil
	}
	if err := target.initLogging(); err != nil {
		return err
	}
	defer logger.Close()
	return serveSnapshots(cmd.Context(), out, opts.serve, worker, t, snap)
}

// snapshotter picks the rows of an image export.
type snapshotter struct {
	expanded bool
	saved    bool
	stateDir string
	key      string
	opts     export.Options
}

func (s snapshotter) rows(t *tree.Tree) ([]ui.VisibleRow, export.Options) {
	opts := s.opts
	if s.saved {
		rows, selected := export.SavedSnapshot(t, s.stateDir, s.key)
		opts.Selected = selected
		return rows, opts
	}
	return export.Snapshot(t, s.expanded), opts
}

func (s snapshotter) writeSVG(w io.Writer, t *tree.Tree) error {
	rows, opts := s.rows(t)
	return export.WriteSVG(w, rows, opts)
}

func (s snapshotter) svg(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.writeSVG(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileWith writes path through a temp file in the same directory, so
// a failed export leaves any previous file intact.
func writeFileWith(path string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// hubSender re-renders the snapshot whenever the worker reloads the tree.
type hubSender struct {
	hub  *export.LiveReloadHub
	snap snapshotter
}

func (h hubSender) Send(msg tea.Msg) {
	switch msg := msg.(type) {
	case ui.TreeReloadedMsg:
		svg, err := h.snap.svg(msg.Tree)
		if err != nil {
			logger.Error("rendering snapshot", "error", err)
			return
		}
		h.hub.Publish(svg)
		logger.Info("published snapshot", "version", h.hub.Version(), "nodes", msg.Tree.Count())
	case ui.TreeReloadErrorMsg:
		logger.Warn("reload failed", "error", msg.Err)
	}
}

// serveSnapshots serves the live page on addr until ctx is done.
func serveSnapshots(ctx context.Context, out io.Writer, addr string, worker *ui.BackgroundWorker, t *tree.Tree, snap snapshotter) error {
	hub := export.NewLiveReloadHub(snap.opts.Title)
	svg, err := snap.svg(t)
	if err != nil {
		return err
	}
	hub.Publish(svg)

	worker.SetSender(hubSender{hub: hub, snap: snap})
	if err := worker.Start(); err != nil {
		logger.Warn("background rescans disabled", "error", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		hub.Stop()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 10 * time.Second}
	fmt.Fprintf(out, "serving http://%s (ctrl+c to stop)\n", ln.Addr())
	logger.Info("serving snapshot", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		hub.Stop()
		return err
	case <-ctx.Done():
	}

	// SSE handlers only return once the hub stops.
	hub.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
