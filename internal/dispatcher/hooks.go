package dispatcher

// PreDispatchHook is called before an action is executed.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch may inspect the resolved action.
	// Returns false to cancel the dispatch.
	PreDispatch(action *Action) bool
}

// PostDispatchHook is called after an action is executed.
type PostDispatchHook interface {
	// PostDispatch is called after dispatch completes.
	// It may inspect or annotate the result.
	PostDispatch(result *Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *Action) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *Action) bool {
	return f(action)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(result *Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(result *Result) {
	f(result)
}

// LoggingHook provides basic logging for dispatch operations.
type LoggingHook struct {
	// LogFunc is called with log messages.
	LogFunc func(format string, args ...any)
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logFunc func(format string, args ...any)) *LoggingHook {
	return &LoggingHook{LogFunc: logFunc}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *Action) bool {
	if h.LogFunc != nil {
		h.LogFunc("dispatching %s: %q", action.Kind, action.Line)
	}
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(result *Result) {
	if h.LogFunc != nil {
		h.LogFunc("dispatch complete: %s", result)
	}
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(action *Action) bool {
	d.mu.RLock()
	hooks := d.preHooks
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(result *Result) {
	d.mu.RLock()
	hooks := d.postHooks
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(result)
	}
}
