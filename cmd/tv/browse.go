package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

const (
	backendBubbletea = "bubbletea"
	backendTcell     = "tcell"
)

type browseOptions struct {
	source  sourceFlags
	noWatch bool
	backend string
}

func runBrowse(cmd *cobra.Command, args []string, opts *browseOptions) error {
	if opts.backend != backendBubbletea && opts.backend != backendTcell {
		return fmt.Errorf("unknown backend %q (want %s or %s)", opts.backend, backendBubbletea, backendTcell)
	}

	target, err := opts.source.resolve(cmd, args)
	if err != nil {
		return err
	}
	if err := target.initLogging(); err != nil {
		return err
	}
	defer logger.Close()

	cfg := target.cfg
	worker := ui.NewBackgroundWorker(ui.WorkerConfig{
		Source:        target.source,
		DebounceDelay: time.Duration(cfg.Browser.DebounceMS) * time.Millisecond,
		Watch:         cfg.Browser.Watch && !opts.noWatch,
	})
	defer worker.Stop()

	logger.Info("loading tree", "source", target.source.Name(), "backend", opts.backend)
	t, err := worker.Load(cmd.Context())
	if err != nil {
		return err
	}

	if opts.backend == backendTcell {
		return runTcell(t, worker, target)
	}
	return runBubbletea(t, worker, target)
}

func runBubbletea(t *tree.Tree, worker *ui.BackgroundWorker, target *target) error {
	modelCfg := ui.ModelConfig{
		TreeOptions: target.cfg.Tree.Options(),
		Reroot:      target.reroot,
	}
	if target.cfg.Browser.PersistState {
		modelCfg.StateDir = config.StateDir(target.dir)
	}

	m := ui.NewModel(t, worker, modelCfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	worker.SetSender(p)
	if err := worker.Start(); err != nil {
		logger.Warn("background rescans disabled", "error", err)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
