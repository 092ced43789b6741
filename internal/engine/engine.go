package engine

import (
	"fmt"
	"sync"

	"github.com/MylesJPritchett/rpn-calc/internal/engine/history"
	"github.com/MylesJPritchett/rpn-calc/internal/engine/ops"
	"github.com/MylesJPritchett/rpn-calc/internal/engine/stack"
)

// Func computes one value from operands given deepest first. A non-nil
// error rejects the action before anything is changed.
type Func func(args []float64) (float64, error)

// Engine is the calculator state: one operand stack plus its undo/redo
// history. Every mutating method follows the same protocol: validate,
// record the pre-action snapshot, mutate, clear redo.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.Mutex

	// Core components
	stack   *stack.Stack
	history *history.History

	// Configuration
	maxUndoEntries int

	// Initialization
	initValues []float64
}

// New creates a new engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.stack = stack.FromValues(e.initValues)
	e.history = history.New(e.maxUndoEntries)
	e.initValues = nil

	return e
}

// ============================================================================
// Stack access
// ============================================================================

// Stack returns a copy of the stack, most recently pushed last.
func (e *Engine) Stack() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Values()
}

// Len returns the stack depth.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Len()
}

// Peek returns the top of the stack.
func (e *Engine) Peek() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Peek()
}

// ============================================================================
// Mutating actions
// ============================================================================

// Push places v on the stack as one undoable action.
func (e *Engine) Push(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history.Record(e.stack.Snapshot(), fmt.Sprintf("push %v", v))
	e.stack.Push(v)
}

// Apply runs a built-in operation. History operations delegate to Undo
// and Redo. When the stack is too shallow it returns
// ErrInsufficientOperands and changes neither the stack nor the history.
func (e *Engine) Apply(op ops.Op) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOp, int(op))
	}

	switch op {
	case ops.Undo:
		return e.Undo()
	case ops.Redo:
		return e.Redo()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry := op.Entry()
	n := entry.Arity
	if entry.ConsumesAll {
		n = e.stack.Len()
	}
	if e.stack.Len() < n {
		return fmt.Errorf("%s needs %d operands, have %d: %w", op, n, e.stack.Len(), ErrInsufficientOperands)
	}

	e.history.Record(e.stack.Snapshot(), op.String())
	args, _ := e.stack.PopN(n)
	out, _ := op.Eval(args)
	e.stack.Push(out...)
	return nil
}

// ApplyFunc runs a custom function of the given arity under the same
// protocol as Apply. fn sees the operands before anything is popped; if it
// fails, its error is returned and nothing changes.
func (e *Engine) ApplyFunc(label string, arity int, fn Func) error {
	if arity < 0 {
		return fmt.Errorf("%s: %w: %d", label, ErrInvalidArity, arity)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	args, ok := e.stack.PeekN(arity)
	if !ok {
		return fmt.Errorf("%s needs %d operands, have %d: %w", label, arity, e.stack.Len(), ErrInsufficientOperands)
	}

	result, err := fn(args)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	e.history.Record(e.stack.Snapshot(), label)
	e.stack.PopN(arity)
	e.stack.Push(result)
	return nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo restores the stack to its state before the last mutating action.
// Returns ErrNothingToUndo, with nothing changed, when history is empty.
func (e *Engine) Undo() error {
	_, err := e.Revert()
	return err
}

// Redo re-applies the last undone action.
// Returns ErrNothingToRedo, with nothing changed, when there is nothing to redo.
func (e *Engine) Redo() error {
	_, err := e.Reapply()
	return err
}

// Revert is Undo that also describes the action it reverted.
func (e *Engine) Revert() (history.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, _ := e.history.PeekUndo()
	prev, err := e.history.Undo(e.stack.Snapshot())
	if err != nil {
		return history.Info{}, err
	}
	e.stack.Restore(prev)
	return info, nil
}

// Reapply is Redo that also describes the action it re-applied.
func (e *Engine) Reapply() (history.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, _ := e.history.PeekRedo()
	next, err := e.history.Redo(e.stack.Snapshot())
	if err != nil {
		return history.Info{}, err
	}
	e.stack.Restore(next)
	return info, nil
}

// Depths returns the stack depth and the undo and redo counts as one
// consistent reading.
func (e *Engine) Depths() (stackLen, undo, redo int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Len(), e.history.UndoCount(), e.history.RedoCount()
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of undo snapshots.
func (e *Engine) UndoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of redo snapshots.
func (e *Engine) RedoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.RedoCount()
}

// PeekUndo describes the action the next Undo would revert.
func (e *Engine) PeekUndo() (history.Info, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.PeekUndo()
}

// PeekRedo describes the action the next Redo would re-apply.
func (e *Engine) PeekRedo() (history.Info, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.PeekRedo()
}

// UndoHistory returns copies of the undo snapshots, oldest first.
func (e *Engine) UndoHistory() [][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotValues(e.history.UndoSnapshots())
}

// RedoHistory returns copies of the redo snapshots, oldest first.
func (e *Engine) RedoHistory() [][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotValues(e.history.RedoSnapshots())
}

// SetMaxUndoEntries changes the undo bound; zero or less removes it.
func (e *Engine) SetMaxUndoEntries(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.SetMaxEntries(max)
}

// MaxUndoEntries returns the undo bound; zero means unbounded.
func (e *Engine) MaxUndoEntries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.MaxEntries()
}

// ClearHistory removes all undo/redo history. The stack is untouched.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

func snapshotValues(snaps []stack.Snapshot) [][]float64 {
	out := make([][]float64, len(snaps))
	for i, s := range snaps {
		out[i] = s.Values()
	}
	return out
}
