package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// maxGotoResults caps the rows shown under the prompt.
const maxGotoResults = 10

// GotoMsg is sent when a node is picked from the goto prompt.
type GotoMsg struct {
	ID string
}

// GotoCancelledMsg is sent when the prompt is dismissed without a choice.
type GotoCancelledMsg struct{}

// gotoEntry is one searchable node.
type gotoEntry struct {
	id    string
	label string
}

// GotoModel is a prompt that fuzzy-filters every node id of a tree.
type GotoModel struct {
	entries []gotoEntry
	keys    []string // match targets, parallel to entries
	matches []int    // indices into entries, best first
	cursor  int
	width   int
	input   textinput.Model
	theme   Theme
}

// NewGotoModel indexes t for searching. Ids are matched, since they are
// unique; for filesystem trees they are the full paths.
func NewGotoModel(t *tree.Tree, theme Theme) GotoModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "go to: "
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	m := GotoModel{input: ti, theme: theme, width: 60}
	if t != nil {
		t.Walk(func(n *tree.Node, _ int) bool {
			m.entries = append(m.entries, gotoEntry{id: n.ID(), label: n.Label()})
			m.keys = append(m.keys, n.ID())
			return true
		})
	}
	m.applyFilter()
	return m
}

// SetWidth sets the prompt width.
func (m *GotoModel) SetWidth(w int) {
	m.width = w
	if w > 10 {
		m.input.Width = w - 10
	}
}

// Matches returns the ids currently listed, best match first.
func (m GotoModel) Matches() []string {
	ids := make([]string, len(m.matches))
	for i, idx := range m.matches {
		ids[i] = m.entries[idx].id
	}
	return ids
}

// Init implements tea.Model.
func (m GotoModel) Init() tea.Cmd { return textinput.Blink }

// Update handles keys while the prompt is open.
func (m GotoModel) Update(msg tea.Msg) (GotoModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "ctrl+c":
		return m, func() tea.Msg { return GotoCancelledMsg{} }
	case "enter":
		if m.cursor < len(m.matches) {
			id := m.entries[m.matches[m.cursor]].id
			return m, func() tea.Msg { return GotoMsg{ID: id} }
		}
		return m, func() tea.Msg { return GotoCancelledMsg{} }
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes matches for the current query. An empty query
// lists nodes in tree order.
func (m *GotoModel) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	m.matches = m.matches[:0]
	if query == "" {
		for i := range m.entries {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, match := range fuzzy.Find(query, m.keys) {
			m.matches = append(m.matches, match.Index)
		}
	}
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
}

// View renders the prompt box.
func (m GotoModel) View() string {
	r := m.theme.Renderer
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	labelStyle := r.NewStyle().Foreground(m.theme.Subtext)
	mutedStyle := r.NewStyle().Foreground(m.theme.Muted)
	inner := m.width - 4

	start := 0
	if m.cursor >= maxGotoResults {
		start = m.cursor - maxGotoResults + 1
	}
	end := min(start+maxGotoResults, len(m.matches))
	for i := start; i < end; i++ {
		e := m.entries[m.matches[i]]
		label := runewidth.Truncate(e.label, inner/2, "…")
		id := runewidth.Truncate(e.id, max(inner-runewidth.StringWidth(label)-4, 0), "…")
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("› " + label))
		} else {
			b.WriteString("  " + labelStyle.Render(label))
		}
		b.WriteString("  " + mutedStyle.Render(id) + "\n")
	}
	if len(m.matches) == 0 {
		b.WriteString(mutedStyle.Render("  no matches"))
		b.WriteString("\n")
	} else if len(m.matches) > maxGotoResults {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.matches))))
		b.WriteString("\n")
	}

	return r.NewStyle().
		Border(m.theme.Panel.GetBorderStyle()).
		BorderForeground(m.theme.Primary).
		Padding(0, 1).
		Width(m.width).
		Render(strings.TrimRight(b.String(), "\n"))
}
