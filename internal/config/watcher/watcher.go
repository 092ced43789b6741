// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors the configuration file's directory with fsnotify,
// so atomic saves (write to temp, rename over) are seen too. Rapid
// changes are debounced into one reload, and the freshly loaded Config is
// handed to the registered handlers.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
)

// ErrWatcherClosed indicates the watcher was already closed.
var ErrWatcherClosed = errors.New("watcher closed")

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = 1 << iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called after each reload. Exactly one of cfg and err is
// non-nil.
type Handler func(cfg *config.Config, err error)

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	mu sync.RWMutex

	path string
	fsw  *fsnotify.Watcher

	handlers []Handler

	// Debounce settings
	debounce time.Duration

	loadOpts []config.Option

	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoadOptions sets extra options passed to config.Load on reload.
func WithLoadOptions(opts ...config.Option) Option {
	return func(w *Watcher) {
		w.loadOpts = append(w.loadOpts, opts...)
	}
}

// New creates a watcher for the config file at path. The file's
// directory must exist.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a handler for reloads.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Run processes file events until ctx is cancelled or the watcher is
// closed. It returns nil on a clean stop.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()
	if closed {
		return ErrWatcherClosed
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.convertOp(ev) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.notify(nil, err)

		case <-fire:
			fire = nil
			w.Reload()
		}
	}
}

// Reload loads the file now and notifies the handlers.
func (w *Watcher) Reload() {
	opts := append([]config.Option{config.WithPath(w.path)}, w.loadOpts...)
	cfg, err := config.Load(opts...)
	if err != nil {
		w.notify(nil, err)
		return
	}
	w.notify(cfg, nil)
}

// Close stops the watcher. Run returns after Close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) notify(cfg *config.Config, err error) {
	w.mu.RLock()
	handlers := w.handlers
	w.mu.RUnlock()

	for _, h := range handlers {
		h(cfg, err)
	}
}

// convertOp returns the operation for events on the watched file, or 0
// for events on other files and chmod-only events.
func (w *Watcher) convertOp(ev fsnotify.Event) Operation {
	if filepath.Clean(ev.Name) != w.path {
		return 0
	}

	var op Operation
	if ev.Op.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if ev.Op.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if ev.Op.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if ev.Op.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
