package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
	"github.com/MylesJPritchett/rpn-calc/internal/config/watcher"
	"github.com/MylesJPritchett/rpn-calc/internal/dispatcher"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer/backend"
)

// Run starts the terminal UI and blocks until the user quits, ctx is
// cancelled or SIGINT/SIGTERM arrives. Quitting is not an error.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.mu.Lock()
	app.renderer = renderer.New(b, app.display)
	app.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// PollEvent blocks, so cancellation reaches the loop as an interrupt.
	g.Go(func() error {
		<-gctx.Done()
		b.PostEvent(backend.Event{Type: backend.EventInterrupt})
		return nil
	})

	if app.opts.Watch && app.config.Source != "" {
		w, err := app.startWatcher()
		if err != nil {
			app.logger.Warn("config watch disabled: %v", err)
		} else {
			defer w.Close()
			g.Go(func() error {
				return w.Run(gctx)
			})
		}
	}

	g.Go(func() error {
		return app.eventLoop(gctx)
	})

	err := g.Wait()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// eventLoop draws the first frame, then handles events until quit or
// cancellation.
func (app *Application) eventLoop(ctx context.Context) error {
	app.render()

	for {
		ev := app.backend.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		if err := app.handleBackendEvent(ev); err != nil {
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		t := StartTimer()
		err := app.handleKey(ev)
		app.metrics.RecordKey(t.Elapsed())
		if err != nil {
			return err
		}
		app.render()
	case backend.EventResize, backend.EventInterrupt:
		app.render()
	}
	return nil
}

// handleKey applies one key press.
func (app *Application) handleKey(ev backend.Event) error {
	app.mu.RLock()
	mode := app.mode
	app.mu.RUnlock()

	switch translateKey(mode, ev) {
	case cmdQuit:
		app.logger.Debug("quit requested in %s mode", mode)
		return ErrQuit
	case cmdStartEditing:
		app.setMode(ModeEditing)
	case cmdStopEditing:
		app.setMode(ModeNormal)
	case cmdSubmit:
		app.Submit()
	case cmdInsert:
		app.editor.Insert(ev.Rune)
	case cmdBackspace:
		app.editor.Backspace()
	case cmdLeft:
		app.editor.Left()
	case cmdRight:
		app.editor.Right()
	case cmdHome:
		app.editor.Home()
	case cmdEnd:
		app.editor.End()
	}
	return nil
}

func (app *Application) setMode(m Mode) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.mode = m
}

// Submit sends the input line to the dispatcher and clears it.
func (app *Application) Submit() dispatcher.Result {
	return app.process(app.editor.Submit())
}

func (app *Application) process(line string) dispatcher.Result {
	app.metrics.RecordLine()
	return app.dispatcher.ProcessLine(line)
}

// recordStatus keeps the message of the last command for the stack title.
func (app *Application) recordStatus(r *dispatcher.Result) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.status = r.Message
}

// render draws the current state.
func (app *Application) render() {
	app.mu.RLock()
	r := app.renderer
	frame := renderer.Frame{
		Editing: app.mode == ModeEditing,
		Status:  app.status,
	}
	app.mu.RUnlock()

	if r == nil {
		return
	}

	frame.Input = app.editor.Text()
	frame.Cursor = app.editor.Cursor()
	frame.Stack = app.dispatcher.Stack()

	t := StartTimer()
	r.Render(frame)
	app.metrics.RecordRender(t.Elapsed())
}

// startWatcher watches the config file and applies the display section
// of each valid reload.
func (app *Application) startWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(app.config.Source)
	if err != nil {
		return nil, NewComponentError("watcher", "start", err)
	}

	log := app.logger.WithComponent("watcher")
	w.OnChange(func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("reload failed, keeping current settings: %v", err)
			return
		}
		app.ApplyDisplay(cfg.Display)
		log.Info("display settings reloaded from %s", w.Path())
	})
	log.Debug("watching %s", w.Path())
	return w, nil
}

// ApplyDisplay switches the stack display settings and redraws.
func (app *Application) ApplyDisplay(d config.DisplayConfig) {
	opts := renderer.Options{Precision: d.Precision, ShowIndex: d.ShowIndex}

	app.mu.Lock()
	app.display = opts
	r := app.renderer
	b := app.backend
	app.mu.Unlock()

	if r != nil {
		r.SetOptions(opts)
	}
	// The event loop owns drawing; wake it up.
	if b != nil && app.running.Load() {
		b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}
