package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

// Config represents the tv configuration file (.tv/config.yaml)
type Config struct {
	// Tree configures the tree widget
	Tree TreeConfig `yaml:"tree" json:"tree"`

	// Browser configures the filesystem browser
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Log configures the rotating log file
	Log LogConfig `yaml:"log" json:"log"`
}

// TreeConfig holds the widget properties
type TreeConfig struct {
	IndentSize      int    `yaml:"indent_size" json:"indent_size"`
	ScrollStep      int    `yaml:"scroll_step" json:"scroll_step"`
	HighlightSymbol string `yaml:"highlight_symbol" json:"highlight_symbol"`
	HighlightColor  string `yaml:"highlight_color" json:"highlight_color"`
	Foreground      string `yaml:"foreground" json:"foreground"`
	Background      string `yaml:"background" json:"background"`
	InactiveColor   string `yaml:"inactive_color" json:"inactive_color"`

	// Borders is one of none, normal, rounded, thick or double
	Borders string `yaml:"borders" json:"borders"`
	Title   string `yaml:"title" json:"title"`

	// TitleAlign is one of left, center or right
	TitleAlign string `yaml:"title_align" json:"title_align"`
	Bold       bool   `yaml:"bold" json:"bold"`

	// PreserveState keeps selection and expansion when the tree is replaced
	PreserveState bool `yaml:"preserve_state" json:"preserve_state"`
}

// BrowserConfig controls how directories are scanned and watched
type BrowserConfig struct {
	// MaxDepth limits how deep a directory is scanned (default: 3)
	MaxDepth         int  `yaml:"max_depth" json:"max_depth"`
	ShowHidden       bool `yaml:"show_hidden" json:"show_hidden"`
	RespectGitignore bool `yaml:"respect_gitignore" json:"respect_gitignore"`
	Watch            bool `yaml:"watch" json:"watch"`

	// DebounceMS coalesces filesystem events (default: 200)
	DebounceMS   int  `yaml:"debounce_ms" json:"debounce_ms"`
	PersistState bool `yaml:"persist_state" json:"persist_state"`
}

// LogConfig configures pkg/logger
type LogConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
	Level   string `yaml:"level" json:"level"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		Tree: TreeConfig{
			IndentSize:      ui.DefaultIndentSize,
			ScrollStep:      ui.DefaultScrollStep,
			HighlightSymbol: "➤",
			HighlightColor:  "#bd93f9",
			InactiveColor:   "#6272a4",
			Borders:         "rounded",
			TitleAlign:      "left",
			PreserveState:   true,
		},
		Browser: BrowserConfig{
			MaxDepth:         3,
			RespectGitignore: true,
			Watch:            true,
			DebounceMS:       200,
			PersistState:     true,
		},
		Log: LogConfig{
			Dir:   StateDirName,
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Tree.IndentSize < 0 {
		return fmt.Errorf("tree.indent_size must not be negative, got %d", c.Tree.IndentSize)
	}
	if c.Tree.ScrollStep < 1 {
		return fmt.Errorf("tree.scroll_step must be at least 1, got %d", c.Tree.ScrollStep)
	}
	for name, value := range map[string]string{
		"tree.highlight_color": c.Tree.HighlightColor,
		"tree.foreground":      c.Tree.Foreground,
		"tree.background":      c.Tree.Background,
		"tree.inactive_color":  c.Tree.InactiveColor,
	} {
		if _, ok := style.ParseColor(value); !ok {
			return fmt.Errorf("%s: unknown color %q", name, value)
		}
	}
	if _, err := ui.ParseBorderKind(c.Tree.Borders); err != nil {
		return fmt.Errorf("tree.borders: %w", err)
	}
	if _, err := ui.ParseAlign(c.Tree.TitleAlign); err != nil {
		return fmt.Errorf("tree.title_align: %w", err)
	}
	if c.Browser.MaxDepth < 0 {
		return fmt.Errorf("browser.max_depth must not be negative, got %d", c.Browser.MaxDepth)
	}
	if c.Browser.DebounceMS < 0 {
		return fmt.Errorf("browser.debounce_ms must not be negative, got %d", c.Browser.DebounceMS)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Options turns the widget properties into TreeView options. The config is
// expected to be valid; unparsable values keep the widget defaults.
func (t TreeConfig) Options() []ui.Option {
	opts := []ui.Option{
		ui.WithIndentSize(t.IndentSize),
		ui.WithScrollStep(t.ScrollStep),
		ui.WithHighlightSymbol(t.HighlightSymbol),
		ui.WithPreserveState(t.PreserveState),
	}
	if c, ok := style.ParseColor(t.HighlightColor); ok {
		opts = append(opts, ui.WithHighlightColor(c))
	}
	if c, ok := style.ParseColor(t.Foreground); ok {
		opts = append(opts, ui.WithForeground(c))
	}
	if c, ok := style.ParseColor(t.Background); ok {
		opts = append(opts, ui.WithBackground(c))
	}
	if c, ok := style.ParseColor(t.InactiveColor); ok && !c.IsReset() {
		opts = append(opts, ui.WithInactiveStyle(style.New(c)))
	}
	if k, err := ui.ParseBorderKind(t.Borders); err == nil {
		opts = append(opts, ui.WithBorders(k))
	}
	if align, err := ui.ParseAlign(t.TitleAlign); err == nil && t.Title != "" {
		opts = append(opts, ui.WithTitle(t.Title, align))
	}
	if t.Bold {
		opts = append(opts, ui.WithModifiers(style.Bold))
	}
	return opts
}

// LoggerOptions converts the log section for logger.Init.
func (l LogConfig) LoggerOptions() logger.Options {
	level, _ := logger.ParseLevel(l.Level)
	return logger.Options{Enabled: l.Enabled, LogDir: l.Dir, Level: level}
}

// LoadConfig loads a configuration file. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

// Load returns the configuration at path, or the one found above dir when
// path is empty, or the defaults when there is none.
func Load(path, dir string) (*Config, error) {
	if path == "" {
		found, err := FindConfig(dir)
		if err != nil {
			cfg := DefaultConfig()
			if errors.Is(err, ErrNotFound) {
				return &cfg, nil
			}
			return nil, err
		}
		path = found
	}
	return LoadConfig(path)
}

const configHeader = "# tv configuration. See `tv init` to regenerate.\n"

// WriteConfig writes cfg to path, creating the directory as needed
func WriteConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
