package config

import (
	"errors"
	"fmt"

	"github.com/MylesJPritchett/rpn-calc/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a value fails validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat indicates a config file extension with no loader.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// TypeError describes a setting whose value has the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Value    any
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %T", e.Path, e.Expected, e.Value)
}

// Unwrap returns ErrTypeMismatch.
func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}
