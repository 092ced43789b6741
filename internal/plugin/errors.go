package plugin

import "errors"

// Word registration and execution errors.
var (
	// ErrReservedName is returned when a word would shadow a numeric
	// literal or a built-in token.
	ErrReservedName = errors.New("word name is reserved")

	// ErrInvalidName is returned for an empty word name or one containing
	// whitespace.
	ErrInvalidName = errors.New("invalid word name")

	// ErrInvalidArity is returned when a word's arity is outside 0..MaxArity.
	ErrInvalidArity = errors.New("invalid word arity")

	// ErrNotNumber is returned when a word does not return a number.
	ErrNotNumber = errors.New("word did not return a number")

	// ErrRegistryClosed is returned when using a closed registry.
	ErrRegistryClosed = errors.New("word registry is closed")
)
