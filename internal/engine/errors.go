package engine

import (
	"errors"

	"github.com/MylesJPritchett/rpn-calc/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrInsufficientOperands indicates the stack holds fewer values than the
	// operation consumes. Nothing was changed.
	ErrInsufficientOperands = errors.New("insufficient operands")

	// ErrInvalidOp indicates an operation outside the vocabulary.
	ErrInvalidOp = errors.New("invalid operation")

	// ErrInvalidArity indicates a custom function declared a negative arity.
	ErrInvalidArity = errors.New("invalid arity")

	// ErrNothingToUndo indicates the undo history is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo history is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
