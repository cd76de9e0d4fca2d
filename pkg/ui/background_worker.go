// This file implements the BackgroundWorker that reloads trees off the UI thread.

package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/singleflight"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/watcher"
)

// TreeSource produces the tree to browse.
type TreeSource interface {
	Load(ctx context.Context) (*tree.Tree, error)
	// Name identifies the source, for example the scanned root. It keys the
	// persisted view state.
	Name() string
}

// WatchableSource is a TreeSource that knows which paths to watch for a
// loaded tree.
type WatchableSource interface {
	TreeSource
	WatchPaths(t *tree.Tree) []string
}

// MsgSender delivers messages to the UI. *tea.Program implements it.
type MsgSender interface {
	Send(msg tea.Msg)
}

// WorkerState represents the current state of the background worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading a tree.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	}
	return "unknown"
}

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load" or "watch"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures so far
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// TreeReloadedMsg is sent when a reload produced a tree that differs from
// the previous one.
type TreeReloadedMsg struct {
	Tree   *tree.Tree
	Source string
	Hash   string
}

// TreeReloadErrorMsg is sent when a reload fails. The previous tree stays.
type TreeReloadErrorMsg struct {
	Err         error
	Recoverable bool
}

// BackgroundWorker owns the file watcher and reloads the tree source when
// it reports changes. Overlapping reload requests share one load.
type BackgroundWorker struct {
	debounceDelay time.Duration
	watch         bool
	pollInterval  time.Duration

	mu         sync.RWMutex
	source     TreeSource
	state      WorkerState
	dirty      bool // A change came in while processing
	tree       *tree.Tree
	started    bool
	lastHash   string
	lastError  *WorkerError
	errorCount int

	loads   singleflight.Group
	watcher *watcher.Watcher
	sender  MsgSender

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerConfig configures the BackgroundWorker.
type WorkerConfig struct {
	Source        TreeSource
	DebounceDelay time.Duration
	// Watch enables the file watcher for WatchableSource sources.
	Watch bool
	// PollInterval overrides the watcher's polling period on remote filesystems.
	PollInterval time.Duration
	Sender       MsgSender
}

// NewBackgroundWorker creates a worker. Nothing runs until Start.
func NewBackgroundWorker(cfg WorkerConfig) *BackgroundWorker {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = watcher.DefaultDebounce
	}
	return &BackgroundWorker{
		debounceDelay: cfg.DebounceDelay,
		watch:         cfg.Watch,
		pollInterval:  cfg.PollInterval,
		source:        cfg.Source,
		sender:        cfg.Sender,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// SetSender sets the message destination. The program is usually created
// after the worker, so this is called before Start.
func (w *BackgroundWorker) SetSender(s MsgSender) {
	w.mu.Lock()
	w.sender = s
	w.mu.Unlock()
}

// Start begins watching. Start is idempotent.
func (w *BackgroundWorker) Start() error {
	w.mu.Lock()
	if w.started || w.state == WorkerStopped {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	src, current := w.source, w.tree
	w.mu.Unlock()

	ws, ok := src.(WatchableSource)
	if !w.watch || !ok {
		close(w.done)
		return nil
	}

	fw := watcher.New(ws.WatchPaths(current),
		watcher.WithDebounce(w.debounceDelay),
		watcher.WithPollInterval(w.pollInterval),
	)
	if err := fw.Start(w.ctx); err != nil {
		close(w.done)
		werr := &WorkerError{Phase: "watch", Cause: err, Time: time.Now()}
		w.recordError(werr)
		return werr
	}
	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	go w.processLoop(fw)
	return nil
}

// Stop halts the worker. Stop is idempotent.
func (w *BackgroundWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	fw := w.watcher
	w.mu.Unlock()

	w.cancel()
	if fw != nil {
		fw.Stop()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
			logger.Warn("background worker did not stop in time")
		}
	}
}

// State returns the current worker state.
func (w *BackgroundWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Tree returns the last loaded tree (may be nil).
func (w *BackgroundWorker) Tree() *tree.Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tree
}

// Source returns the current source.
func (w *BackgroundWorker) Source() TreeSource {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.source
}

// LastError returns the most recent error (nil if the last load succeeded).
func (w *BackgroundWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the content hash of the last loaded tree.
func (w *BackgroundWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// ResetHash forces the next load to be reported even if unchanged.
func (w *BackgroundWorker) ResetHash() {
	w.mu.Lock()
	w.lastHash = ""
	w.mu.Unlock()
}

// Load runs the source synchronously and records the result, for the first
// load and for commands that need the tree right away. Concurrent calls,
// including watcher reloads, share one load.
func (w *BackgroundWorker) Load(ctx context.Context) (*tree.Tree, error) {
	w.mu.RLock()
	src := w.source
	w.mu.RUnlock()
	if src == nil {
		return nil, fmt.Errorf("no tree source")
	}
	t, _, _, err := w.loadFrom(ctx, src)
	return t, err
}

// loadFrom loads src and records the tree only if src is still the current
// source once the load returns. current is false when a SetSource happened
// in the meantime; the worker's state is then left alone.
func (w *BackgroundWorker) loadFrom(ctx context.Context, src TreeSource) (t *tree.Tree, hash string, current bool, err error) {
	v, err, _ := w.loads.Do(src.Name(), func() (any, error) {
		var t *tree.Tree
		werr := safeCompute("load", func() error {
			var err error
			t, err = src.Load(ctx)
			return err
		})
		if werr != nil {
			return nil, werr
		}
		return t, nil
	})
	if err == nil {
		t = v.(*tree.Tree)
		hash = analysis.ComputeTreeHash(t)
	}

	w.mu.Lock()
	current = w.source != nil && w.source.Name() == src.Name()
	if current && err == nil {
		w.tree = t
		w.lastHash = hash
	}
	w.mu.Unlock()

	if !current {
		logger.Debug("discarding load of replaced source", "source", src.Name())
		return t, hash, false, err
	}
	if err != nil {
		if werr, ok := err.(*WorkerError); ok {
			w.recordError(werr)
		}
		return nil, "", true, err
	}
	w.recordError(nil)
	w.updateWatchPaths(src, t)
	return t, hash, true, nil
}

// SetSource switches to another source, for example when the browser is
// re-rooted, and loads it right away.
func (w *BackgroundWorker) SetSource(ctx context.Context, src TreeSource) (*tree.Tree, error) {
	w.mu.Lock()
	w.source = src
	w.lastHash = ""
	w.mu.Unlock()
	return w.Load(ctx)
}

// TriggerRefresh reloads in the background. A trigger during a reload
// schedules one more run afterwards.
func (w *BackgroundWorker) TriggerRefresh() {
	w.mu.Lock()
	switch w.state {
	case WorkerStopped:
		w.mu.Unlock()
		return
	case WorkerProcessing:
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// processLoop reloads on every watcher notification.
func (w *BackgroundWorker) processLoop(fw *watcher.Watcher) {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-fw.Changes():
			w.process()
		}
	}
}

func (w *BackgroundWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	prevHash := w.lastHash
	src := w.source
	w.mu.Unlock()

	start := time.Now()
	var (
		t       *tree.Tree
		hash    string
		current bool
		err     error
	)
	if src == nil {
		err = fmt.Errorf("no tree source")
		current = true
	} else {
		t, hash, current, err = w.loadFrom(w.ctx, src)
	}

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	sender := w.sender
	w.mu.Unlock()

	switch {
	case !current:
		// The browser moved to another source while this one was loading.
	case err != nil:
		logger.Warn("reload failed", "source", sourceName(src), "error", err)
		if sender != nil {
			sender.Send(TreeReloadErrorMsg{Err: err, Recoverable: true})
		}
	case hash == prevHash:
		logger.Debug("reload unchanged, skipping", "source", src.Name(), "hash", hashPrefix(hash))
	default:
		logger.Debug("reloaded tree", "source", src.Name(), "nodes", t.Count(),
			"took", time.Since(start), "hash", hashPrefix(hash))
		if sender != nil {
			sender.Send(TreeReloadedMsg{Tree: t, Source: src.Name(), Hash: hash})
		}
	}

	if wasDirty {
		go w.process()
	}
}

func sourceName(src TreeSource) string {
	if src == nil {
		return ""
	}
	return src.Name()
}

func (w *BackgroundWorker) updateWatchPaths(src TreeSource, t *tree.Tree) {
	w.mu.RLock()
	fw := w.watcher
	w.mu.RUnlock()
	if fw == nil {
		return
	}
	if ws, ok := src.(WatchableSource); ok {
		fw.SetPaths(ws.WatchPaths(t))
	}
}

// safeCompute runs fn and turns errors and panics into a WorkerError.
func safeCompute(phase string, fn func() error) (result *WorkerError) {
	defer func() {
		if r := recover(); r != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
				Time:  time.Now(),
			}
		}
	}()
	if err := fn(); err != nil {
		return &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
	}
	return nil
}

// recordError tracks consecutive failures; nil clears them.
func (w *BackgroundWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

// hashPrefix returns up to 16 characters of hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
