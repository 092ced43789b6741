package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrUnrecognized indicates the line matched no literal, built-in or word.
	ErrUnrecognized = errors.New("dispatcher: unrecognized input")

	// ErrActionCancelled indicates the action was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrPanic indicates action execution panicked.
	ErrPanic = errors.New("dispatcher: action panic")
)
