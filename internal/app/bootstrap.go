package app

import (
	"io"
	"path/filepath"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
	"github.com/MylesJPritchett/rpn-calc/internal/dispatcher"
	"github.com/MylesJPritchett/rpn-calc/internal/engine"
	"github.com/MylesJPritchett/rpn-calc/internal/plugin"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer"
)

// bootstrapper handles application initialization.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initDispatcher,
		b.initPlugins,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}

	b.app.logger.Info("started (config %q, history limit %d, plugins %v)",
		b.app.config.Source, b.app.config.History.MaxEntries, b.app.config.Plugins.Enabled)
	return nil
}

// initConfig loads the configuration and applies option overrides.
func (b *bootstrapper) initConfig() error {
	var opts []config.Option
	if b.opts.ConfigPath != "" {
		opts = append(opts, config.WithPath(b.opts.ConfigPath))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.LogLevel != "" {
		cfg.Logging.Level = b.opts.LogLevel
	}
	if b.opts.LogFile != "" {
		cfg.Logging.File = b.opts.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	b.app.display = renderer.Options{
		Precision: cfg.Display.Precision,
		ShowIndex: cfg.Display.ShowIndex,
	}
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger opens the log destination.
func (b *bootstrapper) initLogger() error {
	cfg := b.app.config.Logging

	out := b.opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	if cfg.File != "" {
		f, err := OpenLogFile(cfg.File)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		out = f
		b.app.logCloser = f
	}

	b.app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Level),
		Output: out,
		Prefix: "rpncalc",
	}).WithSession()
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initDispatcher creates the engine and dispatcher and installs the
// logging and status hooks.
func (b *bootstrapper) initDispatcher() error {
	cfg := b.app.config

	eng := engine.New(engine.WithMaxUndoEntries(cfg.History.MaxEntries))

	dcfg := dispatcher.DefaultConfig()
	if cfg.Metrics.Enabled || b.opts.MetricsFile != "" {
		dcfg = dcfg.WithMetrics()
	}
	d := dispatcher.New(eng, dcfg)

	hook := dispatcher.NewLoggingHook(b.app.logger.WithComponent("dispatcher").Debug)
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)
	d.RegisterPostHook(dispatcher.PostDispatchFunc(b.app.recordStatus))

	b.app.dispatcher = d
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// initPlugins loads Lua words. Script failures are logged, not fatal.
func (b *bootstrapper) initPlugins() error {
	cfg := b.app.config
	if !cfg.Plugins.Enabled {
		return nil
	}

	log := b.app.logger.WithComponent("plugins")
	opts := []plugin.Option{plugin.WithLogFunc(log.Debug)}
	if cfg.Source != "" {
		opts = append(opts, plugin.WithBaseDir(filepath.Dir(cfg.Source)))
	}

	reg, err := plugin.Load(cfg.Plugins, opts...)
	if reg == nil {
		if err != nil {
			return &InitError{Component: "plugins", Err: err}
		}
		return nil
	}
	if err != nil {
		log.Warn("%v", err)
	}
	log.Info("loaded %d words", reg.Len())

	b.app.plugins = reg
	b.app.dispatcher.SetWords(reg)
	b.initOrder = append(b.initOrder, "plugins")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "plugins":
		if b.app.plugins != nil {
			_ = b.app.plugins.Close()
			b.app.plugins = nil
		}
	case "dispatcher":
		b.app.dispatcher = nil
	case "logger":
		if b.app.logCloser != nil {
			_ = b.app.logCloser.Close()
			b.app.logCloser = nil
		}
		b.app.logger = nil
	case "config":
		b.app.config = nil
	}
}
