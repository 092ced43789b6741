// Package engine provides the calculator core: an operand stack with
// linear undo/redo history.
//
// The engine is the single owner of calculator state. It is created
// empty, lives as long as its owner, and is driven one action at a time:
//
//	e := engine.New()
//	e.Push(2)
//	e.Push(3)
//	if err := e.Apply(ops.Pow); err != nil {
//	    // errors.Is(err, engine.ErrInsufficientOperands)
//	}
//	fmt.Println(e.Stack()) // [9]
//
// # Action protocol
//
// Every mutating action (push, operator, clear, drop, swap, duplicate,
// custom function) runs in four steps under one lock:
//
//  1. Validate: check the stack depth against the arity and, for custom
//     functions, evaluate them. A failure returns an error and leaves the
//     stack and both histories untouched.
//  2. Record the pre-action snapshot on the undo history.
//  3. Mutate the stack.
//  4. Discard the redo history.
//
// Undo and Redo instead move one snapshot between the two histories and
// restore it. With nothing to move they return ErrNothingToUndo or
// ErrNothingToRedo and change nothing.
//
// # Numeric policy
//
// Operators follow IEEE-754: division by zero yields ±Inf, domain errors
// yield NaN, and factorial wraps modulo 2^64. None of these are errors.
//
// # Subpackages
//
//   - ops: the command vocabulary and pure numeric functions
//   - stack: the operand stack and snapshots
//   - history: undo/redo snapshot sequences
package engine
