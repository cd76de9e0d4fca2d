package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &browseOptions{}
	cmd := &cobra.Command{
		Use:   "tv [dir]",
		Short: "Browse a directory, tree document or tree table",
		Long: `tv shows a directory as a collapsible tree with a preview pane. The
tree is rescanned in the background when files change.

Instead of a directory, tv can browse a JSON, YAML or JSON-lines tree
document (--file) or a table of id/label/parent rows in a SQLite database
(--sqlite).

Example:
  tv
  tv ~/src/project --depth 5 --hidden
  tv --file tree.yaml
  tv --sqlite app.db --table categories
  tv --backend tcell`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args, opts)
		},
	}

	opts.source.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not rescan when files change")
	cmd.Flags().StringVar(&opts.backend, "backend", backendBubbletea, "Terminal backend (bubbletea, tcell)")

	cmd.AddCommand(
		newDumpCmd(),
		newExportCmd(),
		newStatsCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

// exitError ends the process with code after the command printed its
// own report.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
