package plugin

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	glua "github.com/yuin/gopher-lua"

	"github.com/MylesJPritchett/rpn-calc/internal/dispatcher"
	"github.com/MylesJPritchett/rpn-calc/internal/plugin/lua"
)

// MaxArity is the largest number of operands a word may take.
const MaxArity = 8

// Registry holds the words registered by Lua scripts.
type Registry struct {
	mu    sync.RWMutex
	state *lua.State
	words map[string]*luaWord

	// regErr is the first registration error of the running script.
	regErr error
	// loading names the script being run, for logs.
	loading string

	logFunc func(format string, args ...any)
	closed  bool
}

type luaWord struct {
	name   string
	arity  int
	fn     *glua.LFunction
	source string
}

type options struct {
	instructionLimit int64
	timeout          time.Duration
	logFunc          func(format string, args ...any)
	baseDir          string
}

// Option configures a Registry.
type Option func(*options)

// WithInstructionLimit sets the instruction budget for each script run
// and each word call.
func WithInstructionLimit(limit int) Option {
	return func(o *options) {
		o.instructionLimit = int64(limit)
	}
}

// WithExecutionTimeout sets the wall-clock limit for each script run and
// each word call.
func WithExecutionTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogFunc receives registration messages and script print output.
func WithLogFunc(fn func(format string, args ...any)) Option {
	return func(o *options) {
		o.logFunc = fn
	}
}

// WithBaseDir resolves relative script paths against dir.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

func buildOptions(opts []Option) options {
	o := options{
		instructionLimit: lua.DefaultInstructionLimit,
		timeout:          lua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRegistry creates an empty registry with its own Lua state.
func NewRegistry(opts ...Option) (*Registry, error) {
	o := buildOptions(opts)

	r := &Registry{
		words:   make(map[string]*luaWord),
		logFunc: o.logFunc,
	}

	state, err := lua.NewState(
		lua.WithInstructionLimit(o.instructionLimit),
		lua.WithExecutionTimeout(o.timeout),
		lua.WithPrintFunc(func(msg string) {
			r.logf("lua: %s", msg)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create lua state: %w", err)
	}
	r.state = state

	state.RegisterModule("rpn", map[string]glua.LGFunction{
		"word": r.wordFunc,
	})
	state.SetGlobal("MAX_ARITY", glua.LNumber(MaxArity))

	return r, nil
}

// LoadFile runs a Lua script so it can register words.
func (r *Registry) LoadFile(path string) error {
	return r.load(path, func() error {
		return r.state.DoFile(path)
	})
}

// LoadString runs Lua source; name identifies it in errors and logs.
func (r *Registry) LoadString(name, code string) error {
	return r.load(name, func() error {
		return r.state.DoString(code)
	})
}

func (r *Registry) load(source string, run func() error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	r.regErr = nil
	r.loading = source
	r.mu.Unlock()

	err := run()

	r.mu.Lock()
	regErr := r.regErr
	r.regErr = nil
	r.loading = ""
	r.mu.Unlock()

	if regErr != nil {
		return fmt.Errorf("%s: %w", source, regErr)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	return nil
}

// wordFunc implements rpn.word(name, arity, fn).
func (r *Registry) wordFunc(L *glua.LState) int {
	name := L.CheckString(1)
	arity := L.CheckInt(2)
	fn := L.CheckFunction(3)

	if err := r.register(name, arity, fn); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (r *Registry) register(name string, arity int, fn *glua.LFunction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := validate(name, arity)
	if err != nil {
		if r.regErr == nil {
			r.regErr = err
		}
		return err
	}

	if _, exists := r.words[name]; exists {
		r.logf("word %q redefined by %s", name, r.loading)
	}
	r.words[name] = &luaWord{name: name, arity: arity, fn: fn, source: r.loading}
	r.logf("registered word %q (arity %d) from %s", name, arity, r.loading)
	return nil
}

func validate(name string, arity int) error {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if dispatcher.IsReserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if arity < 0 || arity > MaxArity {
		return fmt.Errorf("%w: %q has arity %d, want 0..%d", ErrInvalidArity, name, arity, MaxArity)
	}
	return nil
}

// Lookup implements dispatcher.WordSet.
func (r *Registry) Lookup(name string) (dispatcher.Word, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return dispatcher.Word{}, false
	}
	w, ok := r.words[name]
	if !ok {
		return dispatcher.Word{}, false
	}
	return dispatcher.Word{
		Name:  w.name,
		Arity: w.arity,
		Fn:    r.caller(w),
	}, true
}

// caller adapts a Lua function to an engine function.
func (r *Registry) caller(w *luaWord) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		largs := make([]glua.LValue, len(args))
		for i, v := range args {
			largs[i] = glua.LNumber(v)
		}

		results, err := r.state.Call(w.fn, largs...)
		if err != nil {
			return 0, fmt.Errorf("word %q: %w", w.name, err)
		}
		if len(results) == 0 {
			return 0, fmt.Errorf("word %q: %w (got nothing)", w.name, ErrNotNumber)
		}
		n, ok := results[0].(glua.LNumber)
		if !ok {
			return 0, fmt.Errorf("word %q: %w (got %s)", w.name, ErrNotNumber, results[0].Type())
		}
		return float64(n), nil
	}
}

// Names returns the registered word names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.words))
}

// Len returns the number of registered words.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.words)
}

// Close releases the Lua state. Lookups fail afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.words = map[string]*luaWord{}
	r.mu.Unlock()

	return r.state.Close()
}

func (r *Registry) logf(format string, args ...any) {
	if r.logFunc != nil {
		r.logFunc(format, args...)
	}
}
