package export

import (
	"bufio"
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
)

func rowIDs(t *tree.Tree, expanded bool) []string {
	var ids []string
	for _, r := range Snapshot(t, expanded) {
		ids = append(ids, r.Node.ID())
	}
	return ids
}

func TestSnapshot(t *testing.T) {
	fs := testutil.FilesystemTree()

	assert.Equal(t, []string{"/", "/bin", "/home"}, rowIDs(fs, false))
	assert.Equal(t, testutil.IDs(fs), rowIDs(fs, true))
	assert.Nil(t, Snapshot(nil, true))

	rows := Snapshot(fs, true)
	assert.Equal(t, "/ ▼", rowText(rows, 0))
	assert.Equal(t, "ls  ", rowText(rows, 2))
	collapsed := Snapshot(fs, false)
	assert.Equal(t, "bin ▶", rowText(collapsed, 1))
}

func TestSavedSnapshot(t *testing.T) {
	fs := testutil.FilesystemTree()
	dir := t.TempDir()

	rows, selected := SavedSnapshot(fs, dir, "fs")
	assert.Equal(t, Snapshot(fs, false), rows)
	assert.Empty(t, selected)

	require.NoError(t, ui.SaveViewState(dir, "fs", ui.ViewState{
		Selected: "/home/omar/readme.md",
		Open:     []string{"/", "/home", "/gone"},
	}))
	rows, selected = SavedSnapshot(fs, dir, "fs")
	assert.Equal(t, "/home/omar/readme.md", selected)
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.Node.ID())
	}
	assert.Equal(t, []string{"/", "/bin", "/home", "/home/omar", "/home/omar/readme.md", "/home/omar/changelog.md"}, ids)
}

func TestWriteSVG(t *testing.T) {
	fs := testutil.FilesystemTree()
	var buf bytes.Buffer
	err := WriteSVG(&buf, Snapshot(fs, true), Options{Title: "fs <root>", Selected: "/home/omar"})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "readme.md")
	assert.Contains(t, out, "fs &lt;root&gt;", "text is escaped")
	assert.Equal(t, len(testutil.IDs(fs))+1, strings.Count(out, "<text"), "one text per row plus the title")
	assert.Contains(t, out, "fill:#bd93f9", "selected row is highlighted")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriteSVGReportsWriteError(t *testing.T) {
	err := WriteSVG(failingWriter{}, Snapshot(testutil.MockTree(), false), Options{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWritePNG(t *testing.T) {
	fs := testutil.FilesystemTree()
	rows := Snapshot(fs, true)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, rows, Options{Selected: "/bin"}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 2*pngPadding+len(rows)*pngLineHeight, b.Dy())
	// widest row: "changelog.md  " at depth 3
	assert.Equal(t, 2*pngPadding+(3*DefaultOptions().IndentSize+14)*7, b.Dx())

	// background in the corner
	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x28, 0x2a, 0x36}, [3]uint32{r >> 8, g >> 8, bl >> 8})
	// highlight behind the selected second row
	r, g, bl, _ = img.At(1, pngPadding+pngLineHeight+1).RGBA()
	assert.Equal(t, [3]uint32{0xbd, 0x93, 0xf9}, [3]uint32{r >> 8, g >> 8, bl >> 8})
}

func TestWriteMarkdown(t *testing.T) {
	fs := testutil.FilesystemTree()
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, fs.Root(), -1))
	assert.Equal(t, `- /
  - bin
    - ls
    - pwd
  - home
    - omar
      - readme.md
      - changelog.md
`, buf.String())

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, fs.Root(), 1))
	assert.Equal(t, "- /\n  - bin\n  - home\n", buf.String())

	buf.Reset()
	odd := tree.New(tree.NewLabelNode("x", "*bold* [link]"))
	require.NoError(t, WriteMarkdown(&buf, odd.Root(), -1))
	assert.Equal(t, `- \*bold\* \[link\]`+"\n", buf.String())
}

func TestLiveReloadHub(t *testing.T) {
	hub := NewLiveReloadHub("tree <preview>")
	defer hub.Stop()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/tree.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	hub.Publish([]byte("<svg/>"))
	resp, err = http.Get(srv.URL + "/tree.svg")
	require.NoError(t, err)
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<svg/>", body.String())

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	body.Reset()
	body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), "tree &lt;preview&gt;")
	assert.Contains(t, body.String(), "/tree.svg?v=1")
	assert.Contains(t, body.String(), "EventSource('/events')")
	assert.Contains(t, body.String(), `id="tree"`)

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLiveReloadHubEvents(t *testing.T) {
	hub := NewLiveReloadHub("t")
	defer hub.Stop()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	// readEvent returns the next event name and its data line.
	readEvent := func() (string, string) {
		var name string
		for lines.Scan() {
			if n, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
				name = n
			} else if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return name, data
			}
		}
		return "", ""
	}
	name, data := readEvent()
	require.Equal(t, "connected", name)
	assert.Equal(t, "0", data)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Publish([]byte("<svg/>"))
	name, data = readEvent()
	assert.Equal(t, "snapshot", name)
	assert.Equal(t, "1", data)

	hub.Stop()
	for lines.Scan() {
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
