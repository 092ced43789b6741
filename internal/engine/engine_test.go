package engine

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/MylesJPritchett/rpn-calc/internal/engine/ops"
)

var equate = cmp.Options{cmpopts.EquateEmpty(), cmpopts.EquateNaNs()}

// state captures everything an action may touch.
type state struct {
	Stack []float64
	Undo  [][]float64
	Redo  [][]float64
}

func capture(e *Engine) state {
	return state{Stack: e.Stack(), Undo: e.UndoHistory(), Redo: e.RedoHistory()}
}

func assertStack(t *testing.T, e *Engine, want ...float64) {
	t.Helper()
	if diff := cmp.Diff(want, e.Stack(), equate); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("expected empty history")
	}
	if e.MaxUndoEntries() != 0 {
		t.Errorf("expected unbounded history, got %d", e.MaxUndoEntries())
	}
}

func TestNewWithValues(t *testing.T) {
	e := New(WithValues(1, 2, 3))
	assertStack(t, e, 1, 2, 3)
	if e.CanUndo() {
		t.Error("initial values must not be recorded")
	}
}

func TestPush(t *testing.T) {
	e := New()
	e.Push(5.6)
	assertStack(t, e, 5.6)
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", e.UndoCount())
	}
	if v, ok := e.Peek(); !ok || v != 5.6 {
		t.Errorf("Peek() = %v, %v", v, ok)
	}
}

func TestApplyOperators(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		op   ops.Op
		want []float64
	}{
		{"addition", []float64{5, 3}, ops.Add, []float64{8}},
		{"subtraction", []float64{10, 4}, ops.Sub, []float64{6}},
		{"multiplication", []float64{2, 3}, ops.Mul, []float64{6}},
		{"division", []float64{10, 2}, ops.Div, []float64{5}},
		{"modulo", []float64{17, 5}, ops.Mod, []float64{2}},
		{"exponent", []float64{4, 5}, ops.Pow, []float64{625}},
		{"neg", []float64{4}, ops.Neg, []float64{-4}},
		{"abs", []float64{-4}, ops.Abs, []float64{4}},
		{"sqrt", []float64{9}, ops.Sqrt, []float64{3}},
		{"factorial", []float64{5}, ops.Factorial, []float64{120}},
		{"clone", []float64{10, 2}, ops.Dup, []float64{10, 2, 2}},
		{"swap", []float64{1, 2}, ops.Swap, []float64{2, 1}},
		{"drop", []float64{5, 10}, ops.Drop, []float64{5}},
		{"clear", []float64{42}, ops.Clear, nil},
		{"clear empty", nil, ops.Clear, nil},
		{"keeps deeper values", []float64{1, 2, 3}, ops.Add, []float64{1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			for _, v := range tt.in {
				e.Push(v)
			}
			if err := e.Apply(tt.op); err != nil {
				t.Fatalf("Apply(%s) error = %v", tt.op, err)
			}
			assertStack(t, e, tt.want...)
			if e.UndoCount() != len(tt.in)+1 {
				t.Errorf("UndoCount() = %d, want %d", e.UndoCount(), len(tt.in)+1)
			}
		})
	}
}

func TestApplyInvalid(t *testing.T) {
	e := New()
	if err := e.Apply(ops.Invalid); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("Apply(Invalid) error = %v, want ErrInvalidOp", err)
	}
}

// ============================================================================
// Arity guarantee
// ============================================================================

func TestInsufficientOperandsIsStrictNoop(t *testing.T) {
	for _, op := range ops.All() {
		if op.Kind() == ops.KindHistory || op.Arity() == 0 {
			continue
		}
		for depth := 0; depth < op.Arity(); depth++ {
			e := New()
			for i := 0; i < depth; i++ {
				e.Push(float64(i + 1))
			}
			// Leave something on redo so clearing it would be visible.
			e.Push(99)
			if err := e.Undo(); err != nil {
				t.Fatal(err)
			}
			before := capture(e)

			err := e.Apply(op)
			if !errors.Is(err, ErrInsufficientOperands) {
				t.Errorf("%s at depth %d: error = %v, want ErrInsufficientOperands", op, depth, err)
			}
			if diff := cmp.Diff(before, capture(e), equate); diff != "" {
				t.Errorf("%s at depth %d changed state (-before +after):\n%s", op, depth, diff)
			}
		}
	}
}

// ============================================================================
// Undo/Redo
// ============================================================================

func TestUndoRedo(t *testing.T) {
	e := New()
	e.Push(3)
	e.Push(7)
	if err := e.Apply(ops.Add); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, 10)

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	assertStack(t, e, 3, 7)

	if err := e.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	assertStack(t, e, 10)
}

func TestUndoRedoViaApply(t *testing.T) {
	e := New()
	e.Push(1)
	if err := e.Apply(ops.Undo); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e)
	if err := e.Apply(ops.Redo); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, 1)
}

func TestUndoEmptyIsNoop(t *testing.T) {
	e := New(WithValues(4))
	before := capture(e)

	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
	if diff := cmp.Diff(before, capture(e), equate); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestMutatingActionClearsRedo(t *testing.T) {
	actions := map[string]func(e *Engine) error{
		"push":  func(e *Engine) error { e.Push(1); return nil },
		"op":    func(e *Engine) error { return e.Apply(ops.Neg) },
		"clear": func(e *Engine) error { return e.Apply(ops.Clear) },
		"drop":  func(e *Engine) error { return e.Apply(ops.Drop) },
		"swap":  func(e *Engine) error { return e.Apply(ops.Swap) },
		"dup":   func(e *Engine) error { return e.Apply(ops.Dup) },
		"func": func(e *Engine) error {
			return e.ApplyFunc("id", 1, func(a []float64) (float64, error) { return a[0], nil })
		},
	}

	for name, act := range actions {
		t.Run(name, func(t *testing.T) {
			e := New()
			e.Push(1)
			e.Push(2)
			e.Push(3)
			if err := e.Undo(); err != nil {
				t.Fatal(err)
			}
			if !e.CanRedo() {
				t.Fatal("expected redo")
			}
			if err := act(e); err != nil {
				t.Fatal(err)
			}
			if e.CanRedo() {
				t.Errorf("%s must clear redo", name)
			}
		})
	}
}

func TestUndoRedoRoundTripLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	all := ops.All()

	e := New()
	for step := 0; step < 500; step++ {
		before := e.Stack()

		var err error
		if rng.Intn(3) == 0 {
			e.Push(float64(rng.Intn(20) - 5))
		} else {
			op := all[rng.Intn(len(all))]
			if op.Kind() == ops.KindHistory {
				continue
			}
			err = e.Apply(op)
		}
		if errors.Is(err, ErrInsufficientOperands) {
			continue
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		after := e.Stack()

		if err := e.Undo(); err != nil {
			t.Fatalf("step %d: Undo() error = %v", step, err)
		}
		if diff := cmp.Diff(before, e.Stack(), equate); diff != "" {
			t.Fatalf("step %d: undo mismatch (-want +got):\n%s", step, diff)
		}
		if err := e.Redo(); err != nil {
			t.Fatalf("step %d: Redo() error = %v", step, err)
		}
		if diff := cmp.Diff(after, e.Stack(), equate); diff != "" {
			t.Fatalf("step %d: redo mismatch (-want +got):\n%s", step, diff)
		}
	}
}

func TestUndoAllThenRedoAll(t *testing.T) {
	e := New()
	var states [][]float64
	states = append(states, e.Stack())
	for _, v := range []float64{1, 2, 3} {
		e.Push(v)
		states = append(states, e.Stack())
	}
	if err := e.Apply(ops.Mul); err != nil {
		t.Fatal(err)
	}
	states = append(states, e.Stack())

	for i := len(states) - 2; i >= 0; i-- {
		if err := e.Undo(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(states[i], e.Stack(), equate); diff != "" {
			t.Fatalf("undo to %d (-want +got):\n%s", i, diff)
		}
	}
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	for i := 1; i < len(states); i++ {
		if err := e.Redo(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(states[i], e.Stack(), equate); diff != "" {
			t.Fatalf("redo to %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestMaxUndoEntries(t *testing.T) {
	e := New(WithMaxUndoEntries(2))
	for i := 0; i < 5; i++ {
		e.Push(float64(i))
	}
	if e.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", e.UndoCount())
	}
	e.SetMaxUndoEntries(0)
	e.Push(5)
	if e.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", e.UndoCount())
	}
}

func TestClearHistory(t *testing.T) {
	e := New()
	e.Push(1)
	e.ClearHistory()
	if e.CanUndo() {
		t.Error("history should be empty")
	}
	assertStack(t, e, 1)
}

func TestPeekUndoLabel(t *testing.T) {
	e := New()
	e.Push(3)
	e.Push(7)
	if err := e.Apply(ops.Add); err != nil {
		t.Fatal(err)
	}
	info, ok := e.PeekUndo()
	if !ok || info.Label != "add" {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	info, ok = e.PeekRedo()
	if !ok || info.Label != "add" {
		t.Errorf("PeekRedo() = %+v, %v", info, ok)
	}
}

func TestRevertReapplyDescribeAction(t *testing.T) {
	e := New()
	e.Push(3)
	e.Push(7)
	if err := e.Apply(ops.Add); err != nil {
		t.Fatal(err)
	}

	info, err := e.Revert()
	if err != nil || info.Label != "add" || info.Depth != 2 {
		t.Errorf("Revert() = %+v, %v", info, err)
	}
	assertStack(t, e, 3, 7)

	info, err = e.Reapply()
	if err != nil || info.Label != "add" || info.Depth != 1 {
		t.Errorf("Reapply() = %+v, %v", info, err)
	}
	assertStack(t, e, 10)

	if _, err := e.Reapply(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Reapply() on empty redo error = %v, want ErrNothingToRedo", err)
	}
	e.ClearHistory()
	if info, err := e.Revert(); !errors.Is(err, ErrNothingToUndo) || info.Label != "" {
		t.Errorf("Revert() on empty history = %+v, %v", info, err)
	}
}

// ============================================================================
// Custom functions
// ============================================================================

func TestApplyFunc(t *testing.T) {
	e := New(WithValues(3, 4))
	hyp := func(a []float64) (float64, error) { return math.Hypot(a[0], a[1]), nil }

	if err := e.ApplyFunc("hyp", 2, hyp); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, 5)
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", e.UndoCount())
	}
}

func TestApplyFuncOperandOrder(t *testing.T) {
	e := New(WithValues(10, 4))
	var got []float64
	err := e.ApplyFunc("collect", 2, func(a []float64) (float64, error) {
		got = append(got, a...)
		return 0, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{10, 4}, got); diff != "" {
		t.Errorf("operands (-want +got):\n%s", diff)
	}
}

func TestApplyFuncZeroArity(t *testing.T) {
	e := New(WithValues(1))
	if err := e.ApplyFunc("pi", 0, func([]float64) (float64, error) { return math.Pi, nil }); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, 1, math.Pi)
}

func TestApplyFuncFailureIsNoop(t *testing.T) {
	e := New()
	e.Push(1)
	e.Push(2)
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	before := capture(e)

	boom := errors.New("boom")
	err := e.ApplyFunc("bad", 1, func([]float64) (float64, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	err = e.ApplyFunc("deep", 3, func([]float64) (float64, error) { return 0, nil })
	if !errors.Is(err, ErrInsufficientOperands) {
		t.Errorf("error = %v, want ErrInsufficientOperands", err)
	}
	err = e.ApplyFunc("neg", -1, func([]float64) (float64, error) { return 0, nil })
	if !errors.Is(err, ErrInvalidArity) {
		t.Errorf("error = %v, want ErrInvalidArity", err)
	}

	if diff := cmp.Diff(before, capture(e), equate); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

// ============================================================================
// Numeric edge cases
// ============================================================================

func TestDivisionSignedInfinity(t *testing.T) {
	e := New(WithValues(10, 0))
	if err := e.Apply(ops.Div); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, math.Inf(1))

	e = New(WithValues(-10, 0))
	if err := e.Apply(ops.Div); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, math.Inf(-1))
}

func TestNaNFlowsThrough(t *testing.T) {
	e := New(WithValues(-1))
	if err := e.Apply(ops.Sqrt); err != nil {
		t.Fatal(err)
	}
	e.Push(1)
	if err := e.Apply(ops.Add); err != nil {
		t.Fatal(err)
	}
	assertStack(t, e, math.NaN())
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentPushes(t *testing.T) {
	e := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.Push(1)
			}
		}()
	}
	wg.Wait()

	if e.Len() != 800 || e.UndoCount() != 800 {
		t.Errorf("Len()=%d UndoCount()=%d, want 800/800", e.Len(), e.UndoCount())
	}
	if err := e.Apply(ops.Clear); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 {
		t.Error("clear should empty the stack")
	}
}

func TestDepthsConsistentUnderConcurrentPushes(t *testing.T) {
	e := New()
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e.Push(1)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	// Every push from an empty stack adds one value and one undo entry,
	// so a consistent reading always has them equal.
	for {
		n, undo, redo := e.Depths()
		if n != undo || redo != 0 {
			t.Fatalf("Depths() = %d, %d, %d: torn read", n, undo, redo)
		}
		select {
		case <-done:
			if n, undo, _ := e.Depths(); n != 800 || undo != 800 {
				t.Errorf("final Depths() = %d, %d, want 800, 800", n, undo)
			}
			return
		default:
		}
	}
}
