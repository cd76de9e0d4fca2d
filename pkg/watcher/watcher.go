// Package watcher reports changes below a set of paths, coalescing bursts of
// filesystem events into single notifications.
package watcher

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treeview/pkg/logger"
)

const (
	// DefaultDebounce is the quiet period before a change is reported.
	DefaultDebounce = 200 * time.Millisecond
	// DefaultPollInterval is used when events cannot be trusted.
	DefaultPollInterval = 2 * time.Second
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero reports every event batch at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the polling period used on remote filesystems.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling forces polling even on local filesystems.
func WithPolling(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher watches paths non-recursively. Directories report entries being
// added, removed or renamed; files report writes.
type Watcher struct {
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	changes chan struct{}

	mu       sync.Mutex
	paths    []string
	fsw      *fsnotify.Watcher
	polling  bool
	snapshot map[string]string
	started  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a watcher for paths. Call Start to begin watching.
func New(paths []string, opts ...Option) *Watcher {
	w := &Watcher{
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		changes:      make(chan struct{}, 1),
		paths:        dedupe(paths),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Changes receives one value per settled burst of changes. Pending
// notifications are merged, so a slow reader never blocks the watcher.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Polling reports whether the watcher fell back to polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Paths returns the watched paths.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.paths...)
}

// Start begins watching until ctx is cancelled or Stop is called. Polling is
// chosen when forced or when any path lives on a remote filesystem.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	w.polling = w.forcePoll
	for _, p := range w.paths {
		if fs := DetectFilesystemType(p); fs.IsRemote() {
			logger.Info("remote filesystem, polling for changes", "path", p, "fs", fs.String())
			w.polling = true
			break
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	if w.polling {
		w.snapshot = takeSnapshot(w.paths)
		go w.pollLoop(ctx)
	} else {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			cancel()
			return fmt.Errorf("create fsnotify watcher: %w", err)
		}
		w.fsw = fsw
		w.addAll(w.paths)
		go w.eventLoop(ctx)
	}
	w.started = true
	return nil
}

// addAll adds paths to fsnotify. Paths that vanished meanwhile are skipped.
func (w *Watcher) addAll(paths []string) {
	for _, p := range paths {
		if err := w.fsw.Add(p); err != nil {
			logger.Debug("cannot watch path", "path", p, "error", err)
		}
	}
}

// SetPaths replaces the watched paths, for example after a rescan found new
// directories.
func (w *Watcher) SetPaths(paths []string) {
	paths = dedupe(paths)
	w.mu.Lock()
	defer w.mu.Unlock()

	old := w.paths
	w.paths = paths
	if !w.started {
		return
	}
	if w.polling {
		w.snapshot = takeSnapshot(paths)
		return
	}

	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}
	for _, p := range old {
		if !keep[p] {
			_ = w.fsw.Remove(p)
		}
	}
	w.addAll(paths)
}

// Stop ends watching and waits for the loop to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	cancel, done, fsw := w.cancel, w.done, w.fsw
	w.fsw = nil
	w.mu.Unlock()

	cancel()
	<-done
	if fsw != nil {
		fsw.Close()
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.done)

	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if w.debounce == 0 {
				w.notify()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.notify()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			next := takeSnapshot(w.paths)
			changed := !sameSnapshot(w.snapshot, next)
			w.snapshot = next
			w.mu.Unlock()
			if changed {
				w.notify()
			}
		}
	}
}

// takeSnapshot records a signature per path: size and mtime for files, and
// the sorted entry names for directories.
func takeSnapshot(paths []string) map[string]string {
	snap := make(map[string]string, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			snap[p] = "missing"
			continue
		}
		if !info.IsDir() {
			snap[p] = fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			snap[p] = "unreadable"
			continue
		}
		sig := make([]byte, 0, 16*len(entries))
		for _, e := range entries {
			sig = append(sig, e.Name()...)
			sig = append(sig, 0)
		}
		snap[p] = string(sig)
	}
	return snap
}

func sameSnapshot(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func dedupe(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	j := 0
	for _, p := range out {
		if p == "" || (j > 0 && p == out[j-1]) {
			continue
		}
		out[j] = p
		j++
	}
	return out[:j]
}
