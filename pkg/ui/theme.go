package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/style"
)

// Dracula palette.
const (
	colorPrimary   = "#bd93f9"
	colorSecondary = "#6272a4"
	colorSelection = "#44475a"
	colorText      = "#f8f8f2"
	colorSubtext   = "#bfbfbf"
	colorGreen     = "#50fa7b"
	colorCyan      = "#8be9fd"
	colorRed       = "#ff5555"
	colorOrange    = "#ffb86c"
)

// Theme holds the browser chrome styles. The tree rows themselves are styled
// by the TreeView options.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Highlight lipgloss.Color
	Muted     lipgloss.Color
	Subtext   lipgloss.Color
	Border    lipgloss.Color
	Success   lipgloss.Color
	Info      lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color

	Title    lipgloss.Style
	Status   lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultTheme builds the theme for a renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.Color(colorPrimary),
		Secondary: lipgloss.Color(colorSecondary),
		Highlight: lipgloss.Color(colorSelection),
		Muted:     lipgloss.Color(colorSecondary),
		Subtext:   lipgloss.Color(colorSubtext),
		Border:    lipgloss.Color(colorSecondary),
		Success:   lipgloss.Color(colorGreen),
		Info:      lipgloss.Color(colorCyan),
		Error:     lipgloss.Color(colorRed),
		Warning:   lipgloss.Color(colorOrange),
	}
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Status = r.NewStyle().Foreground(lipgloss.Color(colorText)).Background(t.Highlight).Padding(0, 1)
	t.Selected = r.NewStyle().Background(t.Highlight).Bold(true)
	t.Panel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
	return t
}

// TreeOptions returns the TreeView options matching the theme colors.
func (t Theme) TreeOptions() []Option {
	return []Option{
		WithHighlightColor(style.Color(t.Primary)),
		WithInactiveStyle(style.New(style.Color(t.Secondary))),
	}
}
