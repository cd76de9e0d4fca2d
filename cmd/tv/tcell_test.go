package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

func newTestApp(t *testing.T) (*tcellApp, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(30, 6)
	t.Cleanup(screen.Fini)
	return newTcellApp(screen, testutil.FilesystemTree(), "fs", []ui.Option{ui.WithIndentSize(1)}), screen
}

func screenText(screen tcell.SimulationScreen) []string {
	cells, w, h := screen.GetContents()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteString(string(c.Runes))
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func key(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestTcellAppKeys(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, "/", app.view.Tree().Root().ID())
	assert.Contains(t, app.view.State().OpenIDs(), "/")

	assert.True(t, app.handle(key('j')))
	assert.True(t, app.handle(key('l')))
	assert.True(t, app.handle(key('j')))
	id, _ := app.view.CurrentState()
	assert.Equal(t, "/bin/ls", id)

	assert.True(t, app.handle(key('G')))
	id, _ = app.view.CurrentState()
	assert.Equal(t, "/bin/pwd", id)

	assert.True(t, app.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, "/bin/pwd", app.status)

	assert.True(t, app.handle(key('x')), "unbound keys are ignored")
	assert.False(t, app.handle(key('q')))
	assert.False(t, app.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestTcellAppDraw(t *testing.T) {
	app, screen := newTestApp(t)
	app.draw()

	lines := screenText(screen)
	assert.Equal(t, " / ▼", lines[0])
	assert.Equal(t, "  bin ▶", lines[1])
	assert.Equal(t, "  home ▶", lines[2])
	assert.Contains(t, lines[5], "fs")
	assert.Contains(t, lines[5], "8 nodes")
}

func TestTcellAppReload(t *testing.T) {
	app, _ := newTestApp(t)
	app.handle(key('j'))

	next := testutil.FilesystemTree()
	next.Root().AddChild(tree.NewLabelNode("/tmp", "tmp"))

	app.handle(tcell.NewEventInterrupt(ui.TreeReloadedMsg{Tree: next, Source: "elsewhere"}))
	assert.NotSame(t, next, app.view.Tree(), "reloads of other sources are ignored")

	app.handle(tcell.NewEventInterrupt(ui.TreeReloadedMsg{Tree: next, Source: "fs"}))
	assert.Same(t, next, app.view.Tree())
	id, _ := app.view.CurrentState()
	assert.Equal(t, "/bin", id, "selection survives")
	assert.Equal(t, "reloaded, 9 nodes", app.status)

	app.handle(tcell.NewEventInterrupt(ui.TreeReloadErrorMsg{Err: errors.New("gone")}))
	assert.Equal(t, "reload failed: gone", app.status)
}

func TestTcellAppRunUntilQuit(t *testing.T) {
	app, screen := newTestApp(t)
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	app.run()

	id, _ := app.view.CurrentState()
	assert.Equal(t, "/bin", id)
}

func TestScreenSenderPostsInterrupts(t *testing.T) {
	app, screen := newTestApp(t)
	next := testutil.FilesystemTree()
	screenSender{screen: screen}.Send(ui.TreeReloadedMsg{Tree: next, Source: "fs"})
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
	app.run()
	assert.Same(t, next, app.view.Tree())
}
