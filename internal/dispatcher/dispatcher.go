package dispatcher

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/MylesJPritchett/rpn-calc/internal/engine"
	"github.com/MylesJPritchett/rpn-calc/internal/engine/history"
	"github.com/MylesJPritchett/rpn-calc/internal/engine/ops"
)

// Dispatcher resolves input lines and applies them to an engine.
type Dispatcher struct {
	mu sync.RWMutex

	engine *engine.Engine
	words  WordSet

	// Configuration
	config Config

	// Metrics
	metrics *Metrics

	// Hooks
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a dispatcher driving eng. A nil eng gets a fresh engine.
func New(eng *engine.Engine, config Config) *Dispatcher {
	if eng == nil {
		eng = engine.New()
	}
	d := &Dispatcher{
		engine: eng,
		config: config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a dispatcher over a fresh engine with default
// configuration.
func NewWithDefaults() *Dispatcher {
	return New(nil, DefaultConfig())
}

// Engine returns the engine being driven.
func (d *Dispatcher) Engine() *engine.Engine {
	return d.engine
}

// SetWords sets the user-defined word set consulted after the built-ins.
func (d *Dispatcher) SetWords(words WordSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.words = words
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Stack returns the current stack, bottom first.
func (d *Dispatcher) Stack() []float64 {
	return d.engine.Stack()
}

// Resolve maps a line to the action ProcessLine would run, without
// running it.
func (d *Dispatcher) Resolve(line string) Action {
	d.mu.RLock()
	words := d.words
	d.mu.RUnlock()
	return Resolve(line, words)
}

// ProcessLine resolves one completed input line and applies it.
// The line is used exactly as given: no trimming, no case folding.
func (d *Dispatcher) ProcessLine(line string) Result {
	startTime := time.Now()

	action := d.Resolve(line)

	var result Result
	if !d.runPreHooks(&action) {
		result = Result{Action: action, Status: StatusCancelled, Err: ErrActionCancelled}
	} else if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(action)
	} else {
		result = d.execute(action)
	}

	d.runPostHooks(&result)

	if d.metrics != nil {
		depth, undo, redo := d.engine.Depths()
		d.metrics.RecordDispatch(result, time.Since(startTime), depth, undo, redo)
	}

	return result
}

// execute applies a resolved action to the engine.
func (d *Dispatcher) execute(action Action) Result {
	var err error
	switch action.Kind {
	case KindPush:
		d.engine.Push(action.Value)
	case KindOperator:
		switch action.Op {
		case ops.Undo:
			return historyResult(action, "Undid", d.engine.Revert)
		case ops.Redo:
			return historyResult(action, "Redid", d.engine.Reapply)
		}
		err = d.engine.Apply(action.Op)
	case KindWord:
		err = d.engine.ApplyFunc(action.Word.Name, action.Word.Arity, action.Word.Fn)
	default:
		return Result{Action: action, Status: StatusNoOp, Err: ErrUnrecognized}
	}
	return resultFor(action, err)
}

// executeWithRecovery executes an action with panic recovery.
func (d *Dispatcher) executeWithRecovery(action Action) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = Result{
				Action:  action,
				Status:  StatusRejected,
				Message: fmt.Sprintf("%s failed", action.Name()),
				Err:     fmt.Errorf("%w for %s: %v\n%s", ErrPanic, action.Name(), r, string(stack[:n])),
			}

			if d.metrics != nil {
				d.metrics.RecordPanic()
			}
		}
	}()

	return d.execute(action)
}

// historyResult runs an undo or redo and names the action it moved over.
func historyResult(action Action, verb string, move func() (history.Info, error)) Result {
	info, err := move()
	result := resultFor(action, err)
	if err == nil && info.Label != "" {
		result.Message = verb + " " + info.Label
	}
	return result
}

// resultFor classifies an engine error.
func resultFor(action Action, err error) Result {
	switch {
	case err == nil:
		return Result{Action: action, Status: StatusApplied}
	case errors.Is(err, engine.ErrNothingToUndo):
		return Result{Action: action, Status: StatusNothingToUndo, Message: "Nothing to undo", Err: err}
	case errors.Is(err, engine.ErrNothingToRedo):
		return Result{Action: action, Status: StatusNothingToRedo, Message: "Nothing to redo", Err: err}
	case errors.Is(err, engine.ErrInsufficientOperands):
		return Result{Action: action, Status: StatusRejected, Message: "Not enough operands", Err: err}
	default:
		return Result{Action: action, Status: StatusRejected, Message: fmt.Sprintf("%s failed", action.Name()), Err: err}
	}
}

// RegisterPreHook adds a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook adds a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}
