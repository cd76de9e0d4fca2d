// tree.go - bubbletea adapter for TreeView plus navigation state persistence
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/logger"
)

// ViewState is the persisted navigation state of one browsed root.
type ViewState struct {
	Selected string   `json:"selected"`
	Open     []string `json:"open"`
}

// viewStateFile is the on-disk format of tree-state.json.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "roots": {
//	    "/home/me/src": {"selected": "/home/me/src/go.mod", "open": ["/home/me/src"]}
//	  }
//	}
//
// Ids that no longer exist are dropped when the state is restored, so the
// file never needs migrating when the directory changes.
type viewStateFile struct {
	Version int                  `json:"version"`
	Roots   map[string]ViewState `json:"roots"`
}

// ViewStateVersion is the current schema version for view state persistence.
const ViewStateVersion = 1

const viewStateFileName = "tree-state.json"

// ViewStatePath returns the state file inside stateDir (".tv" when empty).
func ViewStatePath(stateDir string) string {
	if stateDir == "" {
		stateDir = ".tv"
	}
	return filepath.Join(stateDir, viewStateFileName)
}

func readViewStateFile(path string) (viewStateFile, error) {
	file := viewStateFile{Version: ViewStateVersion, Roots: map[string]ViewState{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, err
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return viewStateFile{Version: ViewStateVersion, Roots: map[string]ViewState{}}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if file.Roots == nil {
		file.Roots = map[string]ViewState{}
	}
	return file, nil
}

// LoadViewState reads the saved state of root. A missing file or root reports
// false; an unreadable file is logged and also reports false.
func LoadViewState(stateDir, root string) (ViewState, bool) {
	path := ViewStatePath(stateDir)
	file, err := readViewStateFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("invalid view state file, using defaults", "path", path, "error", err)
		}
		return ViewState{}, false
	}
	vs, ok := file.Roots[root]
	return vs, ok
}

// SaveViewState stores the state of root, keeping the entries of other roots.
// The file is replaced atomically.
func SaveViewState(stateDir, root string, vs ViewState) error {
	path := ViewStatePath(stateDir)
	file, err := readViewStateFile(path)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("discarding invalid view state file", "path", path, "error", err)
	}
	file.Version = ViewStateVersion
	file.Roots[root] = vs

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding view state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing view state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing view state: %w", err)
	}
	return nil
}

// SelectionChangedMsg is sent when a command moves the selection.
type SelectionChangedMsg struct {
	ID string
}

// SubmitMsg is sent when the selection is submitted. OK is false when
// nothing was selected.
type SubmitMsg struct {
	ID string
	OK bool
}

// TreeModel wraps a TreeView as a bubbletea component. Copies share the
// underlying view.
type TreeModel struct {
	view     *TreeView
	keys     KeyMap
	renderer *lipgloss.Renderer
	width    int
	height   int

	// Persistence is off while stateDir is empty.
	stateDir string
	stateKey string
}

// NewTreeModel creates a model around view.
func NewTreeModel(view *TreeView, r *lipgloss.Renderer) TreeModel {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return TreeModel{view: view, keys: DefaultKeyMap(), renderer: r}
}

// Init implements tea.Model.
func (t TreeModel) Init() tea.Cmd { return nil }

// SetSize updates the available dimensions for the tree view.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Size returns the dimensions set with SetSize.
func (t TreeModel) Size() (int, int) { return t.width, t.height }

// SetKeyMap replaces the key bindings.
func (t *TreeModel) SetKeyMap(k KeyMap) { t.keys = k }

// KeyMap returns the key bindings.
func (t TreeModel) KeyMap() KeyMap { return t.keys }

// Focus gives the tree focus.
func (t *TreeModel) Focus() { t.view.SetFocus(true) }

// Blur removes focus.
func (t *TreeModel) Blur() { t.view.SetFocus(false) }

// Focused reports whether the tree has focus.
func (t TreeModel) Focused() bool { return t.view.Focused() }

// TreeView returns the wrapped view.
func (t TreeModel) TreeView() *TreeView { return t.view }

// SelectedID returns the selected id, or "".
func (t TreeModel) SelectedID() string {
	id, _ := t.view.CurrentState()
	return id
}

// EnablePersistence saves the navigation state of root under stateDir after
// every change, and restores any saved state right away.
func (t *TreeModel) EnablePersistence(stateDir, root string) {
	t.stateDir = stateDir
	t.stateKey = root
	t.loadState()
}

func (t *TreeModel) loadState() {
	if t.stateDir == "" {
		return
	}
	vs, ok := LoadViewState(t.stateDir, t.stateKey)
	if !ok {
		return
	}
	t.view.State().Restore(t.view.Tree().Root(), vs.Selected, vs.Open)
}

// saveState is best effort: failures are logged and never reach the UI.
func (t TreeModel) saveState() {
	if t.stateDir == "" {
		return
	}
	id, _ := t.view.CurrentState()
	vs := ViewState{Selected: id, Open: t.view.State().OpenIDs()}
	if err := SaveViewState(t.stateDir, t.stateKey, vs); err != nil {
		logger.Warn("failed to save view state", "error", err)
	}
}

// Perform runs cmd against the view, persists the result and turns it into
// a bubbletea command.
func (t TreeModel) Perform(cmd Command) tea.Cmd {
	res := t.view.Perform(cmd)
	if res.Kind == SelectionChanged || cmd.Action == ActionOpen || cmd.Action == ActionClose {
		t.saveState()
	}
	return resultCmd(res)
}

func resultCmd(res Result) tea.Cmd {
	switch res.Kind {
	case SelectionChanged:
		return func() tea.Msg { return SelectionChangedMsg{ID: res.ID} }
	case Submitted:
		return func() tea.Msg { return SubmitMsg{ID: res.ID, OK: res.OK} }
	}
	return nil
}

// Update handles key presses while focused.
func (t TreeModel) Update(msg tea.Msg) (TreeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !t.view.Focused() {
		return t, nil
	}
	cmd, ok := t.keys.CommandFor(keyMsg)
	if !ok {
		return t, nil
	}
	return t, t.Perform(cmd)
}

// HandlesKey reports whether msg is one of the tree bindings.
func (t TreeModel) HandlesKey(msg tea.KeyMsg) bool {
	k := t.keys
	return key.Matches(msg, k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End, k.Submit)
}

// View renders the tree view.
func (t TreeModel) View() string {
	if t.width <= 0 || t.height <= 0 {
		return ""
	}
	buf := NewCellBuffer(t.width, t.height)
	t.view.Render(buf, buf.Area())
	return buf.Render(t.renderer)
}
