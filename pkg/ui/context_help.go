package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// newHelp returns a help model styled with the theme colors.
func newHelp(theme Theme) help.Model {
	h := help.New()
	r := theme.Renderer
	keyStyle := r.NewStyle().Foreground(theme.Primary).Bold(true)
	descStyle := r.NewStyle().Foreground(theme.Subtext)
	sepStyle := r.NewStyle().Foreground(theme.Muted)

	h.Styles.ShortKey = keyStyle
	h.Styles.ShortDesc = descStyle
	h.Styles.ShortSeparator = sepStyle
	h.Styles.FullKey = keyStyle
	h.Styles.FullDesc = descStyle
	h.Styles.FullSeparator = sepStyle
	h.Styles.Ellipsis = sepStyle
	return h
}

// RenderHelpModal renders the full key reference as a compact modal.
func RenderHelpModal(h help.Model, keys BrowserKeyMap, theme Theme, width int) string {
	r := theme.Renderer

	h.Width = 0
	body := h.FullHelpView(keys.FullHelp())
	modalWidth := lipgloss.Width(body) + 6
	if modalWidth > width-4 {
		modalWidth = width - 4
		h.Width = modalWidth - 6
		body = h.FullHelpView(keys.FullHelp())
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(modalWidth-6, 0))))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}
