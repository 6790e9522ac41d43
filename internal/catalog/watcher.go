package catalog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/logging"
	"github.com/Iron-Ham/cobalt/internal/model"
)

// DefaultDebounce is the quiet period after the last write before a reload.
const DefaultDebounce = 100 * time.Millisecond

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Path is the catalogue file to watch.
	Path string
	// Target receives the reloaded repository.
	Target *Reloadable
	// Wrap turns a freshly loaded catalogue into the repository to install,
	// e.g. filtered and cached. The catalogue itself is installed when nil.
	Wrap func(*Catalog) (model.Repository, error)
	// Bus receives catalog.reloaded events. Optional.
	Bus *event.Bus
	// Logger is optional.
	Logger *logging.Logger
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher reloads a catalogue file into a Reloadable whenever it changes.
// A file that fails to load leaves the active repository in place.
type Watcher struct {
	cfg     WatcherConfig
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewWatcher creates a watcher on the directory containing cfg.Path.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Target == nil {
		return nil, fmt.Errorf("catalog watcher: Target is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	cfg.Logger = cfg.Logger.WithComponent("catalog-watcher")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors replace files on save; watching the directory survives that.
	if err := fw.Add(filepath.Dir(cfg.Path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		cfg:     cfg,
		watcher: fw,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching in a new goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.watchLoop()
}

// Stop stops watching and waits for the loop to exit. It is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	close(w.stopCh)
	_ = w.watcher.Close()
	w.mu.Unlock()

	if started {
		<-w.done
	}
}

// Reload loads the file now and installs it on success.
func (w *Watcher) Reload() error {
	c, err := Load(w.cfg.Path)
	if err == nil {
		var repo model.Repository = c
		if w.cfg.Wrap != nil {
			repo, err = w.cfg.Wrap(c)
		}
		if err == nil {
			w.cfg.Target.Swap(repo)
			w.cfg.Logger.Info("catalogue reloaded",
				"path", w.cfg.Path,
				"widgets", len(c.Widgets()),
				"actions", c.ActionCount())
			w.publish(len(c.Widgets()), nil)
			return nil
		}
	}
	w.cfg.Logger.Warn("catalogue reload failed, keeping previous catalogue", "path", w.cfg.Path, "error", err)
	w.publish(0, err)
	return err
}

func (w *Watcher) publish(widgets int, err error) {
	if w.cfg.Bus != nil {
		w.cfg.Bus.Publish(event.NewCatalogReloadedEvent(w.cfg.Path, widgets, err))
	}
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	target := filepath.Clean(w.cfg.Path)
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounceTimer.Reset(w.cfg.Debounce)

		case <-debounceTimer.C:
			_ = w.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Warn("file watcher error", "error", err)
		}
	}
}
