// Package watch reports changes to a single task file using fsnotify.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period applied when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// minTick bounds how often pending changes are checked.
const minTick = time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written or replaced
	ChangeRemoved                    // File no longer exists
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is a debounced change of the watched file.
type Change struct {
	Kind ChangeKind
	File string
}

// Watcher monitors one file. Editors often replace files instead of
// writing them in place, so the parent directory is watched and events are
// filtered by name.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel

	changes  chan Change // Internal write channel
	done     chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the file must stay quiet before a change is
	// reported. Zero selects DefaultDebounce.
	Debounce time.Duration
	Logger   *slog.Logger
}

// New creates a watcher for file.
func New(file string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		watcher:  fw,
	}, nil
}

// Start begins watching. On failure the underlying watcher is released and
// Stop returns immediately.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It is safe to call more
// than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
		w.watcher.Close()
		<-w.done // Wait for loop to exit
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(max(w.debounce/2, minTick))
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Debug("file event", "file", event.Name, "op", event.Op.String())
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			if !w.emit() {
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) emit() bool {
	c := Change{Kind: ChangeModified, File: w.File}
	if _, err := os.Stat(w.File); err != nil {
		c.Kind = ChangeRemoved
	}
	select {
	case w.changes <- c:
		return true
	case <-w.quit:
		return false
	}
}
