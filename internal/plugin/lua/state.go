package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second // Timeout for one run
	DefaultInstructionLimit = 1_000_000       // Maximum instructions per run
)

// State wraps gopher-lua with a sandbox and per-run limits.
//
// gopher-lua's LState is not goroutine-safe; every method takes the mutex.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	executionTimeout time.Duration
	instructionLimit int64
	print            PrintFunc

	// Sandbox
	sandbox *Sandbox

	// Tracking
	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the wall-clock limit for one run.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithInstructionLimit sets the maximum instructions per run.
// Zero disables the budget.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		s.instructionLimit = limit
	}
}

// WithPrintFunc routes Lua's print to fn. By default output is dropped.
func WithPrintFunc(fn PrintFunc) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
	}

	for _, opt := range opts {
		opt(state)
	}
	if state.instructionLimit < 0 {
		return nil, fmt.Errorf("instruction limit must not be negative: %d", state.instructionLimit)
	}

	// Create Lua state with limited libraries
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})

	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.instructionLimit, state.print)
	state.sandbox.Install()

	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (type, pairs, ipairs, error, pcall, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, channel, coroutine.
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// Call calls fn with args and returns its results.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(fn lua.LValue, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w (got %s)", ErrNotFunction, fn.Type())
	}

	// Record stack top before pushing anything
	stackTop := s.L.GetTop()

	var results []lua.LValue
	err := s.run(func() error {
		s.L.Push(fn)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		// Collect return values (only the new values added after the call)
		nRet := s.L.GetTop() - stackTop
		results = make([]lua.LValue, 0, max(nRet, 0))
		for i := 0; i < nRet; i++ {
			results = append(results, s.L.Get(stackTop+i+1))
		}
		return nil
	})
	s.L.SetTop(stackTop)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// run executes fn under a fresh instruction budget and the execution
// timeout, with panic recovery. Callers hold the mutex.
func (s *State) run(fn func() error) (err error) {
	s.sandbox.ResetInstructionCount()

	ctx := context.Background()
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(s.sandbox.Context(ctx))
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		err = s.classify(ctx, err)
	}()

	return fn()
}

// classify maps a VM error caused by a limit to the matching sentinel.
func (s *State) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case s.sandbox.Exceeded():
		return fmt.Errorf("%w: %d instructions", ErrInstructionLimit, s.sandbox.InstructionLimit())
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrExecutionTimeout, s.executionTimeout)
	default:
		return err
	}
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}

	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.L.SetGlobal(name, value)
}

// RegisterModule registers a global table with the given functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

// Sandbox returns the sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
