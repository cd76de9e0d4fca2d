package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/style"
)

type initOptions struct {
	yes   bool
	force bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a .tv/config.yaml",
		Long: `The init command asks a few questions and writes .tv/config.yaml in the
directory (default: the working directory). It also adds .tv/ to the
directory's .gitignore.

Example:
  tv init
  tv init ~/src/project --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Write the defaults without asking")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config")
	return cmd
}

func runInit(cmd *cobra.Command, args []string, opts *initOptions) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	path := config.ConfigPath(dir)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if !opts.yes {
		if err := runInitForm(&cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted, nothing written")
				return nil
			}
			return err
		}
	}

	if err := config.WriteConfig(path, cfg); err != nil {
		return err
	}
	if err := loader.EnsureStateDirIgnored(dir); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// runInitForm edits cfg in place.
func runInitForm(cfg *config.Config) error {
	depth := strconv.Itoa(cfg.Browser.MaxDepth)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scan depth").
				Description("Directory levels read below the browsed directory").
				Value(&depth).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return errors.New("enter a number of levels, 0 or more")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Show hidden files?").
				Value(&cfg.Browser.ShowHidden),
			huh.NewConfirm().
				Title("Skip files matched by .gitignore?").
				Value(&cfg.Browser.RespectGitignore),
			huh.NewConfirm().
				Title("Rescan when files change?").
				Value(&cfg.Browser.Watch),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Borders").
				Options(huh.NewOptions("rounded", "normal", "thick", "double", "none")...).
				Value(&cfg.Tree.Borders),
			huh.NewInput().
				Title("Highlight color").
				Description("A color name, a palette index or #rrggbb").
				Value(&cfg.Tree.HighlightColor).
				Validate(func(s string) error {
					if _, ok := style.ParseColor(s); !ok {
						return fmt.Errorf("unknown color %q", s)
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Remember selection and expanded folders?").
				Value(&cfg.Browser.PersistState),
			huh.NewConfirm().
				Title("Write a debug log to .tv/?").
				Value(&cfg.Log.Enabled),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}
	cfg.Browser.MaxDepth, _ = strconv.Atoi(depth)
	return nil
}
