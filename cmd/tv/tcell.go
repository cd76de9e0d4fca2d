package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"

	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/style"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

var newScreen = tcell.NewScreen

// screenSender posts worker messages to the tcell event queue, where the
// loop picks them up as interrupts.
type screenSender struct {
	screen tcell.Screen
}

func (s screenSender) Send(msg tea.Msg) {
	if err := s.screen.PostEvent(tcell.NewEventInterrupt(msg)); err != nil {
		logger.Warn("dropped worker message", "error", err)
	}
}

// tcellApp drives a TreeView directly on a tcell screen: the tree fills the
// screen above a one line status bar.
type tcellApp struct {
	screen  tcell.Screen
	surface *ui.ScreenSurface
	view    *ui.TreeView
	source  string
	status  string
}

func newTcellApp(screen tcell.Screen, t *tree.Tree, source string, opts []ui.Option) *tcellApp {
	opts = append(append([]ui.Option(nil), opts...), ui.WithInitialNode(t.Root().ID()))
	view := ui.NewTreeView(t, opts...)
	view.Perform(ui.Do(ui.ActionOpen))
	view.SetFocus(true)
	return &tcellApp{
		screen:  screen,
		surface: ui.NewScreenSurface(screen),
		view:    view,
		source:  source,
		status:  fmt.Sprintf("%d nodes", t.Count()),
	}
}

func runTcell(t *tree.Tree, worker *ui.BackgroundWorker, target *target) error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer screen.Fini()

	app := newTcellApp(screen, t, target.source.Name(), target.cfg.Tree.Options())
	worker.SetSender(screenSender{screen: screen})
	if err := worker.Start(); err != nil {
		logger.Warn("background rescans disabled", "error", err)
	}
	app.run()
	return nil
}

// run draws and handles events until a quit key or until the screen is
// finalized.
func (a *tcellApp) run() {
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.handle(ev) {
			return
		}
		a.draw()
	}
}

// handle applies one event and reports whether to keep running.
func (a *tcellApp) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuitKey(ev) {
			return false
		}
		cmd, ok := tcellCommand(ev)
		if !ok {
			return true
		}
		res := a.view.Perform(cmd)
		if res.Kind == ui.Submitted && res.OK {
			a.status = res.ID
		}

	case *tcell.EventResize:
		a.screen.Sync()

	case *tcell.EventInterrupt:
		switch msg := ev.Data().(type) {
		case ui.TreeReloadedMsg:
			if msg.Source != a.source || msg.Tree == nil {
				return true
			}
			a.view.ReplaceTree(msg.Tree, true)
			a.status = fmt.Sprintf("reloaded, %d nodes", msg.Tree.Count())
		case ui.TreeReloadErrorMsg:
			a.status = "reload failed: " + msg.Err.Error()
		}
	}
	return true
}

func (a *tcellApp) draw() {
	a.surface.Begin()
	area := a.surface.Area()
	if area.Empty() {
		return
	}
	treeArea := area
	treeArea.H--
	a.view.Render(a.surface, treeArea)

	bar := ui.Rect{X: 0, Y: area.Bottom() - 1, W: area.W, H: 1}
	barStyle := style.New(style.White).Background(style.Gray)
	a.surface.SetStyle(bar, barStyle)
	a.surface.SetStringN(1, bar.Y, a.source+"  "+a.status, area.W-2, barStyle)
	a.surface.Show()
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// tcellCommand maps keys the same way ui.DefaultKeyMap does.
func tcellCommand(ev *tcell.EventKey) (ui.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return ui.Do(ui.ActionMoveUp), true
	case tcell.KeyDown:
		return ui.Do(ui.ActionMoveDown), true
	case tcell.KeyLeft:
		return ui.Do(ui.ActionClose), true
	case tcell.KeyRight:
		return ui.Do(ui.ActionOpen), true
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		return ui.ScrollUp(0), true
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		return ui.ScrollDown(0), true
	case tcell.KeyHome:
		return ui.Do(ui.ActionFirstSibling), true
	case tcell.KeyEnd:
		return ui.Do(ui.ActionLastSibling), true
	case tcell.KeyEnter:
		return ui.Do(ui.ActionSubmit), true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			return ui.Do(ui.ActionMoveUp), true
		case 'j':
			return ui.Do(ui.ActionMoveDown), true
		case 'h':
			return ui.Do(ui.ActionClose), true
		case 'l':
			return ui.Do(ui.ActionOpen), true
		case 'g':
			return ui.Do(ui.ActionFirstSibling), true
		case 'G':
			return ui.Do(ui.ActionLastSibling), true
		}
	}
	return ui.Command{}, false
}
