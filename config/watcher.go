package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/logger"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events editors produce on save
const DefaultDebounce = 300 * time.Millisecond

// ChangeCallback is called once per debounced burst with the changed path
type ChangeCallback func(path string) error

// Watcher watches a set of files (config and fixtures) and triggers callbacks
// after changes settle. Directories are watched rather than files so that
// editors replacing a file by rename are still seen.
type Watcher struct {
	watcher        *fsnotify.Watcher
	files          map[string]bool
	callbacks      []ChangeCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	pending        string
	logger         *zap.SugaredLogger
	done           chan struct{}
	closeOnce      sync.Once
}

// NewWatcher creates a watcher for the given files
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		files:          make(map[string]bool),
		debouncePeriod: DefaultDebounce,
		logger:         logger.ComponentLogger("config.watcher"),
		done:           make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return w, nil
}

// SetDebounce overrides the debounce period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnChange registers a callback to be called when a watched file changes
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}

			w.logger.Debugw("Watcher detected change",
				logger.FieldFile, name,
				"op", event.Op.String())
			w.scheduleFire(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// scheduleFire debounces rapid file changes
func (w *Watcher) scheduleFire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	path := w.pending
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	for _, callback := range callbacks {
		// Continue calling other callbacks even if one fails
		if err := callback(path); err != nil {
			w.logger.Warnw("Watcher callback error",
				logger.FieldFile, path,
				logger.FieldError, err)
		}
	}
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
