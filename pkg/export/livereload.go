// This file serves the latest SVG snapshot over HTTP. Open pages subscribe
// to /events (Server-Sent Events) and swap the image whenever a new snapshot
// is published.

package export

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
)

// LiveReloadHub holds the latest SVG snapshot and the pages watching it.
type LiveReloadHub struct {
	title string

	mu       sync.RWMutex
	watchers map[chan int]struct{}
	snapshot []byte
	version  int

	done context.Context
	stop context.CancelFunc
}

// NewLiveReloadHub creates a hub. The page shows title above the image.
func NewLiveReloadHub(title string) *LiveReloadHub {
	done, stop := context.WithCancel(context.Background())
	return &LiveReloadHub{
		title:    title,
		watchers: make(map[chan int]struct{}),
		done:     done,
		stop:     stop,
	}
}

// Publish replaces the snapshot and tells every page its new version.
func (h *LiveReloadHub) Publish(svg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = append([]byte(nil), svg...)
	h.version++
	for ch := range h.watchers {
		// Drop a stale pending version so the newest one wins.
		select {
		case <-ch:
		default:
		}
		ch <- h.version
	}
}

// Version counts the published snapshots.
func (h *LiveReloadHub) Version() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// Stop ends every event stream. Snapshots stay readable.
func (h *LiveReloadHub) Stop() {
	h.stop()
}

// ClientCount returns the number of open event streams.
func (h *LiveReloadHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

func (h *LiveReloadHub) subscribe() chan int {
	ch := make(chan int, 1)
	h.mu.Lock()
	h.watchers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *LiveReloadHub) unsubscribe(ch chan int) {
	h.mu.Lock()
	delete(h.watchers, ch)
	h.mu.Unlock()
}

// Handler serves the page at /, the snapshot at /tree.svg and the event
// stream at /events.
func (h *LiveReloadHub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", h.serveEvents)
	mux.HandleFunc("/tree.svg", h.serveSnapshot)
	mux.HandleFunc("/", h.servePage)
	return mux
}

func (h *LiveReloadHub) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	data := h.snapshot
	h.mu.RUnlock()
	if data == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (h *LiveReloadHub) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	title := html.EscapeString(h.title)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="background:#282a36;margin:0;padding:1em">
<img id="tree" src="/tree.svg?v=%d" alt="%s">
%s
</body>
</html>
`, title, h.Version(), title, snapshotScript)
}

// serveEvents streams a "snapshot" event carrying the version number each
// time Publish runs.
func (h *LiveReloadHub) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	fmt.Fprintf(w, "event: connected\ndata: %d\n\n", h.Version())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done.Done():
			return
		case v := <-ch:
			fmt.Fprintf(w, "event: snapshot\ndata: %d\n\n", v)
			flusher.Flush()
		}
	}
}

// snapshotScript points the image at each new version and reconnects with
// backoff when the stream drops.
const snapshotScript = `<script>
(function() {
  if (typeof(EventSource) === 'undefined') return;
  var img = document.getElementById('tree');
  var delay = 1000;

  function connect() {
    var es = new EventSource('/events');
    es.addEventListener('connected', function() { delay = 1000; });
    es.addEventListener('snapshot', function(e) {
      img.src = '/tree.svg?v=' + e.data;
    });
    es.onerror = function() {
      es.close();
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 30000);
    };
  }
  connect();
})();
</script>`
