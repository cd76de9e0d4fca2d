package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/drift"
)

type statsOptions struct {
	source       sourceFlags
	jsonOut      bool
	saveBaseline bool
	checkDrift   bool
}

func newStatsCmd() *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats [dir]",
		Short: "Show tree shape statistics",
		Long: `The stats command prints the node and leaf counts, the depth, fan-out
figures for non-leaf nodes and the number of nodes on each level.

--save-baseline records the tree in .tv/baseline.json. --drift compares the
tree against that baseline and exits with 1 on critical drift (a different
root) and 2 on warnings.

Example:
  tv stats
  tv stats ~/src --depth 6
  tv stats --sqlite app.db --json
  tv stats --save-baseline
  tv stats --drift`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}
	opts.source.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.saveBaseline, "save-baseline", false, "Save the tree as the drift baseline")
	cmd.Flags().BoolVar(&opts.checkDrift, "drift", false, "Compare the tree against the saved baseline")
	cmd.MarkFlagsMutuallyExclusive("save-baseline", "drift")
	return cmd
}

// statsReport is the JSON output of the stats command.
type statsReport struct {
	Source string `json:"source"`
	analysis.Stats
	Hash  string        `json:"hash"`
	Drift *drift.Result `json:"drift,omitempty"`
}

func runStats(cmd *cobra.Command, args []string, opts *statsOptions) error {
	target, err := opts.source.resolve(cmd, args)
	if err != nil {
		return err
	}
	t, err := target.source.Load(cmd.Context())
	if err != nil {
		return err
	}

	report := statsReport{
		Source: target.source.Name(),
		Stats:  analysis.ComputeStats(t),
		Hash:   analysis.ComputeTreeHash(t),
	}
	out := cmd.OutOrStdout()
	baselinePath := drift.Path(config.StateDir(target.dir))

	if opts.saveBaseline {
		if err := drift.New(t, report.Source).Save(baselinePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved baseline %s\n", baselinePath)
	}
	if opts.checkDrift {
		bl, err := drift.Load(baselinePath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no baseline at %s (run tv stats --save-baseline first)", baselinePath)
			}
			return err
		}
		report.Drift = drift.Compare(bl, t, report.Source, nil)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := printStats(out, report); err != nil {
		return err
	}

	if report.Drift != nil {
		if code := report.Drift.ExitCode(); code != 0 {
			return exitError{code: code}
		}
	}
	return nil
}

func printStats(w io.Writer, r statsReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Source:  %s\n", r.Source)
	fmt.Fprintf(&b, "Nodes:   %s\n", humanize.Comma(int64(r.Nodes)))
	fmt.Fprintf(&b, "Leaves:  %s\n", humanize.Comma(int64(r.Leaves)))
	fmt.Fprintf(&b, "Depth:   %d\n", r.Depth)
	fmt.Fprintf(&b, "Fan-out: mean %.2f, stddev %.2f, max %d\n", r.MeanFanout, r.StdDevFanout, r.MaxFanout)
	b.WriteString("\nNodes per level:\n")
	for level, n := range r.WidthPerLevel {
		fmt.Fprintf(&b, "  %3d  %s\n", level, humanize.Comma(int64(n)))
	}
	if r.Drift != nil {
		b.WriteString("\n")
		b.WriteString(r.Drift.Summary())
	}
	_, err := io.WriteString(w, b.String())
	return err
}
