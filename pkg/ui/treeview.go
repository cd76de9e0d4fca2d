package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Default TreeView settings.
const (
	DefaultScrollStep = 8
	DefaultIndentSize = 4
)

// Action is a navigation request understood by TreeView.Perform.
type Action int

const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionScrollUp
	ActionScrollDown
	ActionFirstSibling
	ActionLastSibling
	ActionOpen
	ActionClose
	ActionSubmit
)

var actionNames = [...]string{
	ActionMoveUp:       "move-up",
	ActionMoveDown:     "move-down",
	ActionScrollUp:     "scroll-up",
	ActionScrollDown:   "scroll-down",
	ActionFirstSibling: "first-sibling",
	ActionLastSibling:  "last-sibling",
	ActionOpen:         "open",
	ActionClose:        "close",
	ActionSubmit:       "submit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Command is an Action plus its row count. Rows only matters for scrolling;
// zero or less means the configured scroll step.
type Command struct {
	Action Action
	Rows   int
}

// Do returns a command without a row count.
func Do(a Action) Command { return Command{Action: a} }

// ScrollUp moves the selection up n rows.
func ScrollUp(n int) Command { return Command{Action: ActionScrollUp, Rows: n} }

// ScrollDown moves the selection down n rows.
func ScrollDown(n int) Command { return Command{Action: ActionScrollDown, Rows: n} }

// ResultKind tells the host what a command did.
type ResultKind int

const (
	Unchanged ResultKind = iota
	SelectionChanged
	Submitted
)

// Result is returned by TreeView.Perform. ID is the new selection for
// SelectionChanged and the selection at submit time for Submitted, where OK
// is false if nothing was selected.
type Result struct {
	Kind ResultKind
	ID   string
	OK   bool
}

// TreeView is the tree widget: a tree, its navigation state and the
// presentation settings.
type TreeView struct {
	tree  *tree.Tree
	state NavState

	scrollStep      int
	indentSize      int
	highlightSymbol string
	highlightColor  style.Color
	fg, bg          style.Color
	mods            style.Modifier
	inactive        style.Style
	block           Block
	focused         bool
	preserve        bool
}

// Option configures a TreeView.
type Option func(*TreeView)

// WithInitialNode selects id, opening its ancestors. Unknown ids are ignored.
func WithInitialNode(id string) Option {
	return func(v *TreeView) { v.state.Select(v.tree.Root(), id) }
}

// WithScrollStep sets how many rows a page scroll moves.
func WithScrollStep(n int) Option {
	return func(v *TreeView) {
		if n > 0 {
			v.scrollStep = n
		}
	}
}

// WithIndentSize sets the columns of indentation per level.
func WithIndentSize(n int) Option {
	return func(v *TreeView) { v.indentSize = max(n, 0) }
}

// WithHighlightSymbol sets the marker drawn before the selected label.
func WithHighlightSymbol(s string) Option {
	return func(v *TreeView) { v.highlightSymbol = s }
}

// WithHighlightColor sets the color of the selected row.
func WithHighlightColor(c style.Color) Option {
	return func(v *TreeView) { v.highlightColor = c }
}

// WithForeground sets the default text color.
func WithForeground(c style.Color) Option {
	return func(v *TreeView) { v.fg = c }
}

// WithBackground sets the default background color.
func WithBackground(c style.Color) Option {
	return func(v *TreeView) { v.bg = c }
}

// WithInactiveStyle sets the border style used while unfocused.
func WithInactiveStyle(st style.Style) Option {
	return func(v *TreeView) { v.inactive = st }
}

// WithBorders sets the border glyphs.
func WithBorders(k BorderKind) Option {
	return func(v *TreeView) { v.block.Borders = k }
}

// WithTitle sets the block title and its alignment.
func WithTitle(title string, align lipgloss.Position) Option {
	return func(v *TreeView) {
		v.block.Title = title
		v.block.TitleAlign = align
	}
}

// WithModifiers adds text modifiers to every row.
func WithModifiers(m style.Modifier) Option {
	return func(v *TreeView) { v.mods |= m }
}

// WithPreserveState makes SetTree keep the selection and open set.
func WithPreserveState(preserve bool) Option {
	return func(v *TreeView) { v.preserve = preserve }
}

// NewTreeView creates a focused view of t with nothing selected unless
// WithInitialNode is given.
func NewTreeView(t *tree.Tree, opts ...Option) *TreeView {
	if t == nil {
		t = tree.New(nil)
	}
	v := &TreeView{
		tree:       t,
		scrollStep: DefaultScrollStep,
		indentSize: DefaultIndentSize,
		focused:    true,
		inactive:   style.New(style.Gray),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Tree returns the displayed tree.
func (v *TreeView) Tree() *tree.Tree { return v.tree }

// State returns the navigation state. Changes to it show on the next render.
func (v *TreeView) State() *NavState { return &v.state }

// CurrentState returns the selected id.
func (v *TreeView) CurrentState() (string, bool) { return v.state.Selected() }

// Select selects id and opens its ancestors.
func (v *TreeView) Select(id string) bool { return v.state.Select(v.tree.Root(), id) }

// SetFocus changes the highlight and border styles.
func (v *TreeView) SetFocus(focused bool) { v.focused = focused }

// Focused reports whether the view has focus.
func (v *TreeView) Focused() bool { return v.focused }

// ScrollStep returns the configured page size.
func (v *TreeView) ScrollStep() int { return v.scrollStep }

// SetTree replaces the tree, keeping the state when the view was built
// WithPreserveState(true).
func (v *TreeView) SetTree(t *tree.Tree) { v.ReplaceTree(t, v.preserve) }

// ReplaceTree swaps in t and reconciles the navigation state with it.
func (v *TreeView) ReplaceTree(t *tree.Tree, preserve bool) {
	if t == nil {
		t = tree.New(nil)
	}
	v.tree = t
	v.state.TreeChanged(t.Root(), preserve)
}

// Perform applies a command and reports its effect.
func (v *TreeView) Perform(cmd Command) Result {
	root := v.tree.Root()
	prev, had := v.state.Selected()

	switch cmd.Action {
	case ActionMoveUp:
		v.state.MoveUp(root)
	case ActionMoveDown:
		v.state.MoveDown(root)
	case ActionScrollUp:
		v.repeat(v.rows(cmd), v.state.MoveUp)
	case ActionScrollDown:
		v.repeat(v.rows(cmd), v.state.MoveDown)
	case ActionFirstSibling:
		if n := v.state.FirstSibling(root); n != nil {
			v.state.Select(root, n.ID())
		}
	case ActionLastSibling:
		if n := v.state.LastSibling(root); n != nil {
			v.state.Select(root, n.ID())
		}
	case ActionOpen:
		v.state.Open(root)
		return Result{Kind: Unchanged}
	case ActionClose:
		v.state.Close(root)
		return Result{Kind: Unchanged}
	case ActionSubmit:
		id, ok := v.state.Selected()
		return Result{Kind: Submitted, ID: id, OK: ok}
	default:
		return Result{Kind: Unchanged}
	}

	cur, ok := v.state.Selected()
	if !ok || (had && cur == prev) {
		return Result{Kind: Unchanged}
	}
	return Result{Kind: SelectionChanged, ID: cur, OK: true}
}

// repeat applies move up to n times, stopping at the first step that leaves
// the selection where it was.
func (v *TreeView) repeat(n int, move func(root *tree.Node)) int {
	root := v.tree.Root()
	for i := 0; i < n; i++ {
		before, _ := v.state.Selected()
		move(root)
		if after, _ := v.state.Selected(); after == before {
			return i
		}
	}
	return n
}

func (v *TreeView) rows(cmd Command) int {
	if cmd.Rows > 0 {
		return cmd.Rows
	}
	return v.scrollStep
}

// BaseStyle is the style of unselected rows.
func (v *TreeView) BaseStyle() style.Style {
	return style.Style{Fg: v.fg, Bg: v.bg, Mods: v.mods}
}

// HighlightStyle is the style of the selected row. With focus the highlight
// color fills the background; without it only the text is tinted. With no
// color configured at all the row is drawn reversed.
func (v *TreeView) HighlightStyle() style.Style {
	c := v.highlightColor
	if c.IsReset() {
		c = v.fg
	}
	if c.IsReset() {
		return style.Style{Mods: v.mods | style.Reverse}
	}
	if v.focused {
		return style.Style{Fg: style.Black, Bg: c, Mods: v.mods}
	}
	return style.Style{Fg: c, Mods: v.mods}
}

// BorderStyle is the style of the block border for the current focus.
func (v *TreeView) BorderStyle() style.Style {
	if !v.focused {
		return v.inactive
	}
	c := v.highlightColor
	if c.IsReset() {
		c = v.fg
	}
	return style.New(c)
}

// Block returns the frame drawn around the tree.
func (v *TreeView) Block() Block {
	b := v.block
	b.BorderStyle = v.BorderStyle()
	return b
}

// Renderer returns the row renderer for the current settings.
func (v *TreeView) Renderer() Renderer {
	return Renderer{
		Style:           v.BaseStyle(),
		HighlightStyle:  v.HighlightStyle(),
		HighlightSymbol: v.highlightSymbol,
		IndentSize:      v.indentSize,
	}
}

// Render draws the block and the tree inside it.
func (v *TreeView) Render(s Surface, area Rect) {
	if area.Empty() {
		return
	}
	b := v.Block()
	b.Render(s, area)
	v.Renderer().Render(s, b.Inner(area), v.tree.Root(), &v.state)
}

// Visible lists the rows shown with an unbounded height.
func (v *TreeView) Visible() []VisibleRow { return VisibleRows(&v.state, v.tree.Root()) }
