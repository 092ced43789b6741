package lua

import (
	"context"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// PrintFunc receives the text written by Lua's print.
type PrintFunc func(msg string)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	// Instruction limiting
	instructionLimit int64
	instructionCount int64

	print PrintFunc
}

// NewSandbox creates a new sandbox for the Lua state.
// A non-positive instructionLimit disables the budget.
func NewSandbox(L *lua.LState, instructionLimit int64, print PrintFunc) *Sandbox {
	return &Sandbox{
		L:                L,
		instructionLimit: instructionLimit,
		print:            print,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that load code from outside the state.
	dangerousFuncs := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"module",
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafePrint()
}

// installSafePrint replaces print so script output never reaches the
// terminal the calculator is drawing on.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// ResetInstructionCount resets the instruction counter.
func (s *Sandbox) ResetInstructionCount() {
	atomic.StoreInt64(&s.instructionCount, 0)
}

// InstructionCount returns the current instruction count.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.instructionCount)
}

// InstructionLimit returns the per-run budget.
func (s *Sandbox) InstructionLimit() int64 {
	return s.instructionLimit
}

// IncrementInstructions adds to the instruction count and returns true if limit exceeded.
func (s *Sandbox) IncrementInstructions(n int64) bool {
	if s.instructionLimit <= 0 {
		return false
	}
	count := atomic.AddInt64(&s.instructionCount, n)
	return count > s.instructionLimit
}

// Exceeded reports whether the current run has spent its budget.
func (s *Sandbox) Exceeded() bool {
	return s.instructionLimit > 0 && s.InstructionCount() > s.instructionLimit
}

// budgetContext charges one instruction each time the VM polls Done.
type budgetContext struct {
	context.Context
	sandbox *Sandbox
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Context wraps parent so that the VM stops once the budget is spent.
func (s *Sandbox) Context(parent context.Context) context.Context {
	return &budgetContext{Context: parent, sandbox: s}
}

func (c *budgetContext) Done() <-chan struct{} {
	if c.sandbox.IncrementInstructions(1) {
		return closedChan
	}
	return c.Context.Done()
}

func (c *budgetContext) Err() error {
	if c.sandbox.Exceeded() {
		return ErrInstructionLimit
	}
	return c.Context.Err()
}
