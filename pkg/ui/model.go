package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// SplitViewThreshold is the width from which tree and preview are shown
// side by side.
const SplitViewThreshold = 80

type focus int

const (
	focusTree focus = iota
	focusPreview
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ModelConfig configures the browser Model.
type ModelConfig struct {
	// TreeOptions are applied to every TreeView the browser creates.
	TreeOptions []Option

	// StateDir enables view state persistence when set.
	StateDir string

	// Reroot returns the source for another directory. Nil disables
	// re-rooting with enter and backspace.
	Reroot func(dir string) TreeSource

	Renderer *lipgloss.Renderer
}

// rerootedMsg carries the tree of a new root.
type rerootedMsg struct {
	source TreeSource
	tree   *tree.Tree
	err    error
}

// Model is the browser: a tree pane, a preview pane and a status bar, kept
// current by a BackgroundWorker.
type Model struct {
	cfg    ModelConfig
	worker *BackgroundWorker
	source string

	tree      TreeModel
	preview   viewport.Model
	previewer previewer
	help      help.Model
	keys      BrowserKeyMap
	theme     Theme

	gotoPrompt GotoModel
	gotoOpen   bool
	showHelp   bool

	focused     focus
	isSplitView bool
	ready       bool
	width       int
	height      int

	status    string
	statusErr bool
}

// NewModel creates the browser for an already loaded tree. worker must not
// be nil and must have loaded t from its current source.
func NewModel(t *tree.Tree, worker *BackgroundWorker, cfg ModelConfig) Model {
	theme := DefaultTheme(cfg.Renderer)
	m := Model{
		cfg:       cfg,
		worker:    worker,
		keys:      DefaultBrowserKeyMap(),
		theme:     theme,
		help:      newHelp(theme),
		preview:   viewport.New(0, 0),
		previewer: newPreviewer(60),
	}
	if src := worker.Source(); src != nil {
		m.source = src.Name()
	}
	m.setTree(t)
	return m
}

// setTree replaces the tree model, for the first tree and after re-rooting.
func (m *Model) setTree(t *tree.Tree) {
	opts := append(append([]Option(nil), m.cfg.TreeOptions...), WithInitialNode(t.Root().ID()))
	view := NewTreeView(t, opts...)
	view.Perform(Do(ActionOpen))
	w, h := m.tree.Size()
	m.tree = NewTreeModel(view, m.theme.Renderer)
	m.tree.SetKeyMap(m.keys.Tree)
	m.tree.SetSize(w, h)
	if m.cfg.StateDir != "" {
		m.tree.EnablePersistence(m.cfg.StateDir, m.source)
	}
	m.setFocus(m.focused)
	m.updatePreview()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Tree returns the tree pane.
func (m Model) Tree() TreeModel { return m.tree }

// Source returns the name of the browsed source.
func (m Model) Source() string { return m.source }

// Status returns the status bar message.
func (m Model) Status() string { return m.status }

// TreeFocused reports whether the tree pane has focus.
func (m Model) TreeFocused() bool { return m.focused == focusTree }

// GotoOpen reports whether the goto prompt is shown.
func (m Model) GotoOpen() bool { return m.gotoOpen }

// HelpShown reports whether the key reference is shown.
func (m Model) HelpShown() bool { return m.showHelp }

// PreviewContent returns the unstyled preview text.
func (m Model) PreviewContent() string { return m.previewer.last }

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) setFocus(f focus) {
	m.focused = f
	if f == focusTree {
		m.tree.Focus()
	} else {
		m.tree.Blur()
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case TreeReloadedMsg:
		if msg.Source != m.source {
			return m, nil
		}
		m.tree.TreeView().ReplaceTree(msg.Tree, true)
		m.updatePreview()
		m.setStatus(fmt.Sprintf("reloaded, %d nodes", msg.Tree.Count()), false)
		return m, nil

	case TreeReloadErrorMsg:
		m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
		return m, nil

	case rerootedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("cannot open: %v", msg.err), true)
			return m, nil
		}
		m.source = msg.source.Name()
		m.setTree(msg.tree)
		m.setStatus("", false)
		return m, nil

	case SelectionChangedMsg:
		m.updatePreview()
		return m, nil

	case SubmitMsg:
		return m, m.submit(msg)

	case GotoMsg:
		m.gotoOpen = false
		if m.tree.TreeView().Select(msg.ID) {
			m.tree.saveState()
			m.updatePreview()
		}
		return m, nil

	case GotoCancelledMsg:
		m.gotoOpen = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gotoOpen {
		var cmd tea.Cmd
		m.gotoPrompt, cmd = m.gotoPrompt.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Goto):
		m.gotoPrompt = NewGotoModel(m.tree.TreeView().Tree(), m.theme)
		m.gotoPrompt.SetWidth(min(max(m.width-8, 20), 80))
		m.gotoOpen = true
		return m, m.gotoPrompt.Init()
	case key.Matches(msg, m.keys.Tab):
		if m.focused == focusTree {
			m.setFocus(focusPreview)
		} else {
			m.setFocus(focusTree)
		}
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.worker.ResetHash()
		m.worker.TriggerRefresh()
		m.setStatus("rescanning…", false)
		return m, nil
	case key.Matches(msg, m.keys.Parent):
		return m, m.rerootCmd(filepath.Dir(m.source))
	}

	if m.focused == focusPreview {
		if msg.String() == "esc" {
			m.setFocus(focusTree)
			m.layout()
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return m, cmd
}

// submit re-roots on directories and focuses the preview otherwise.
func (m *Model) submit(msg SubmitMsg) tea.Cmd {
	if !msg.OK {
		return nil
	}
	if info, err := os.Stat(msg.ID); err == nil && info.IsDir() && m.cfg.Reroot != nil {
		if msg.ID == m.source {
			return nil
		}
		return m.rerootCmd(msg.ID)
	}
	m.setFocus(focusPreview)
	m.layout()
	return nil
}

// rerootCmd loads dir off the UI thread.
func (m Model) rerootCmd(dir string) tea.Cmd {
	if m.cfg.Reroot == nil || dir == m.source {
		return nil
	}
	src := m.cfg.Reroot(dir)
	worker := m.worker
	return func() tea.Msg {
		t, err := worker.SetSource(context.Background(), src)
		return rerootedMsg{source: src, tree: t, err: err}
	}
}

func (m *Model) copySelection() {
	id := m.tree.SelectedID()
	if id == "" {
		return
	}
	if err := writeClipboard(id); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.setStatus(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	m.setStatus("copied "+id, false)
}

func (m *Model) updatePreview() {
	n := m.tree.TreeView().Tree().Query(m.tree.SelectedID())
	m.previewer.last = m.previewer.Render(n)
	m.preview.SetContent(m.previewer.last)
	m.preview.GotoTop()
}

// layout sizes the panes. Two rows are kept for the status and help bars.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	bodyHeight := max(m.height-2, 1)
	m.isSplitView = m.width >= SplitViewThreshold
	m.help.Width = m.width

	var treeWidth, previewWidth int
	switch {
	case m.isSplitView:
		treeWidth = m.width * 2 / 5
		previewWidth = m.width - treeWidth
	case m.focused == focusPreview:
		previewWidth = m.width
	default:
		treeWidth = m.width
	}
	m.tree.SetSize(treeWidth, bodyHeight)

	// The preview panel draws a border on every side.
	innerWidth := max(previewWidth-2, 0)
	m.preview.Width = innerWidth
	m.preview.Height = max(bodyHeight-2, 0)
	if innerWidth != m.previewer.width {
		m.previewer = newPreviewer(innerWidth)
		m.updatePreview()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	var panes []string
	if tw, _ := m.tree.Size(); tw > 0 {
		panes = append(panes, m.tree.View())
	}
	if m.preview.Width > 0 {
		border := m.theme.Border
		if m.focused == focusPreview {
			border = m.theme.Primary
		}
		panes = append(panes, m.theme.Panel.BorderForeground(border).Render(m.preview.View()))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(), m.help.ShortHelpView(m.keys.ShortHelp()))

	switch {
	case m.gotoOpen:
		return overlay.New(staticView(m.gotoPrompt.View()), staticView(screen), overlay.Center, overlay.Center, 0, 0).View()
	case m.showHelp:
		modal := RenderHelpModal(m.help, m.keys, m.theme, m.width)
		return overlay.New(staticView(modal), staticView(screen), overlay.Center, overlay.Center, 0, 0).View()
	}
	return screen
}

func (m Model) renderStatus() string {
	r := m.theme.Renderer
	left := m.theme.Status.Background(m.theme.Primary).Bold(true).Render(m.source)

	info := fmt.Sprintf(" %d nodes ", m.tree.TreeView().Tree().Count())
	if m.worker.State() == WorkerProcessing {
		info += "• scanning "
	}
	middle := r.NewStyle().Foreground(m.theme.Subtext).Render(info)

	msgStyle := r.NewStyle().Foreground(m.theme.Success)
	if m.statusErr {
		msgStyle = msgStyle.Foreground(m.theme.Error)
	}
	right := msgStyle.Render(m.status)

	fill := max(m.width-lipgloss.Width(left)-lipgloss.Width(middle)-lipgloss.Width(right), 0)
	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, middle, r.NewStyle().Width(fill).Render(""), right)
	return r.NewStyle().MaxWidth(m.width).Render(bar)
}

// staticView adapts rendered text to tea.Model for the overlay compositor.
type staticView string

func (s staticView) Init() tea.Cmd                       { return nil }
func (s staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s staticView) View() string                        { return string(s) }
