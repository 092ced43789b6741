package engine

// Default configuration values.
const (
	// DefaultMaxUndoEntries keeps every snapshot.
	DefaultMaxUndoEntries = 0
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithValues sets the initial stack contents, bottom first.
// The initial contents are not recorded in history.
func WithValues(values ...float64) Option {
	return func(e *Engine) {
		e.initValues = append([]float64(nil), values...)
	}
}

// WithMaxUndoEntries bounds the undo history. Zero or less keeps every
// snapshot.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max < 0 {
			max = 0
		}
		e.maxUndoEntries = max
	}
}
