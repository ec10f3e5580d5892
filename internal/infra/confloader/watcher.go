package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers change notifications for configuration files. The watch
// is placed on the parent directory rather than the file itself: editors
// and config-management tools replace files by rename, which would leave a
// direct watch pinned to a deleted inode after the first save.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once

	mu        sync.RWMutex
	files     map[string]struct{}
	callbacks []func(string)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		logger: slog.Default(),
		done:   make(chan struct{}),
		files:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch registers a file. The file does not have to exist yet; its parent
// directory does. Events for other files in the same directory are
// filtered out.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	if err := w.fsw.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[path] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching for changes", "dir", dir, "file", filepath.Base(path))
	return nil
}

// OnChange registers a callback invoked with the path of a watched file
// whenever it is written or recreated.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events until Stop is called. Most callers want
// StartAsync.
func (w *Watcher) Start() {
	w.logger.Info("configuration watcher started")

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("configuration watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts event processing in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop ends event processing and releases the underlying watches. Safe to
// call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.logger.Info("configuration watcher stopped")
	})
	return err
}

// handleEvent filters raw directory events down to watched-file changes.
// A write is the common case; a create covers rename-replace, where the
// new content lands under a temporary name and is renamed over the
// watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	name := filepath.Clean(event.Name)
	w.mu.RLock()
	_, watched := w.files[name]
	w.mu.RUnlock()
	if !watched {
		return
	}

	w.logger.Debug("configuration file changed", "file", name, "op", event.Op.String())
	w.notifyCallbacks(name)
}

// notifyCallbacks invokes every registered callback.
func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
