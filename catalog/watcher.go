package catalog

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the vocabulary file watcher
type WatcherConfig struct {
	// Loader rebuilds the catalog on change
	Loader *Loader

	// Live receives each successfully reloaded catalog
	Live *Live

	// Debounce is how long files must be quiet before reloading
	Debounce time.Duration

	// OnReload is called after every reload attempt (optional)
	OnReload func(*Catalog, error)

	// Logger for logging events
	Logger *slog.Logger
}

// Watcher reloads the catalog when vocabulary files change.
// A failed reload leaves the previous catalog published.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before reloading
	pendingMu  sync.Mutex
	pending    map[string]fsnotify.Op
	lastChange time.Time

	// recursive is set when any pattern descends into subdirectories
	recursive bool
}

// NewWatcher creates a new vocabulary watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Loader == nil || config.Live == nil {
		return nil, errors.New("watcher requires a loader and a live catalog")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
	}, nil
}

// Run watches vocabulary directories until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dirs := w.config.Loader.WatchDirs()
	for _, dir := range sortedKeys(dirs) {
		if err := w.addWatches(dir, dirs[dir]); err != nil {
			return err
		}
		w.recursive = w.recursive || dirs[dir]
	}

	w.logger.Info("Vocabulary watcher started",
		"dirs", len(dirs),
		"debounce", w.config.Debounce)

	ticker := time.NewTicker(w.config.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// Reload rebuilds the catalog and publishes it if it loads.
func (w *Watcher) Reload(ctx context.Context) (*Catalog, error) {
	c, err := w.config.Loader.Load(ctx)
	if err != nil {
		w.logger.Warn("Vocabulary reload failed, keeping previous catalog",
			"generation", generationOf(w.config.Live.Current()),
			"error", err)
	} else {
		prev := w.config.Live.Swap(c)
		w.logger.Info("Vocabulary catalog reloaded",
			"previous", generationOf(prev),
			"generation", c.Generation())
	}

	if w.config.OnReload != nil {
		w.config.OnReload(c, err)
	}
	return c, err
}

// addWatches adds a watch on dir, and on its subdirectories when recursive
func (w *Watcher) addWatches(dir string, recursive bool) error {
	if !recursive {
		return w.watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !w.config.Loader.WatchedExtension(path) {
		// New directories under a recursive pattern need their own watch
		if w.recursive && event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !strings.HasPrefix(filepath.Base(path), ".") {
				if err := w.addWatches(path, true); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.lastChange = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("Vocabulary change detected",
		"path", path,
		"op", event.Op.String())
}

// flushPending reloads once changes have been quiet for the debounce period
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 || time.Since(w.lastChange) < w.config.Debounce {
		w.pendingMu.Unlock()
		return
	}
	changed := len(w.pending)
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	w.logger.Debug("Reloading vocabularies", "changed_files", changed)
	_, _ = w.Reload(ctx)
}

func generationOf(c *Catalog) string {
	if c == nil {
		return ""
	}
	return c.Generation()
}
