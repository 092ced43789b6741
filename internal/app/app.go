// Package app wires the calculator core to its outer layers: configuration,
// logging, Lua words, the terminal UI and batch mode.
package app

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
	"github.com/MylesJPritchett/rpn-calc/internal/dispatcher"
	"github.com/MylesJPritchett/rpn-calc/internal/input/line"
	"github.com/MylesJPritchett/rpn-calc/internal/plugin"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer/backend"
)

// Application is the central coordinator for all components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config    *config.Config
	logger    *Logger
	logCloser io.Closer

	// Calculator
	dispatcher *dispatcher.Dispatcher
	plugins    *plugin.Registry

	// Terminal UI
	backend  backend.Backend
	renderer *renderer.Renderer
	display  renderer.Options
	editor   *line.Editor
	mode     Mode
	status   string

	metrics *Metrics

	// State
	running atomic.Bool
	closed  bool

	// Options
	opts Options
}

// Options configures the application. Non-empty fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means the
	// default location, which may be absent.
	ConfigPath string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// LogOutput receives logs when no log file is configured.
	// Nil discards them.
	LogOutput io.Writer

	// MetricsFile receives the Prometheus metrics on Close.
	MetricsFile string

	// Watch reloads the display settings when the config file changes.
	Watch bool

	// Trace makes batch mode print the stack after every line.
	Trace bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		editor:  line.New(),
		mode:    ModeEditing,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Config returns the configuration in effect at startup.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Plugins returns the Lua word registry (nil when plugins are disabled).
func (app *Application) Plugins() *plugin.Registry {
	return app.plugins
}

// Metrics returns the session metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Mode returns the current UI mode.
func (app *Application) Mode() Mode {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.mode
}

// Status returns the status message of the last command.
func (app *Application) Status() string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.status
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Close releases every component in reverse initialization order and
// writes the metrics file when one was requested.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	var errs []error

	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			errs = append(errs, NewComponentError("plugins", "close", err))
		}
	}

	if app.opts.MetricsFile != "" && app.dispatcher.Metrics() != nil {
		if err := app.dispatcher.Metrics().WriteToTextfile(app.opts.MetricsFile); err != nil {
			errs = append(errs, NewComponentError("metrics", "write "+app.opts.MetricsFile, err))
		} else {
			app.logger.Debug("wrote metrics to %s", app.opts.MetricsFile)
		}
	}

	s := app.metrics.Snapshot()
	app.logger.Info("session ended: %d lines, %d keys, %d renders, uptime %s",
		s.Lines, s.Keys, s.Renders, s.Uptime.Round(time.Millisecond))

	if app.logCloser != nil {
		if err := app.logCloser.Close(); err != nil {
			errs = append(errs, NewComponentError("logging", "close", err))
		}
	}

	return errors.Join(errs...)
}
