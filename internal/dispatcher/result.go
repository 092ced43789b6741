package dispatcher

import "fmt"

// Status is the outcome of processing one line.
type Status int

const (
	// StatusApplied means the action ran and was recorded in history.
	StatusApplied Status = iota
	// StatusRejected means the action could not run; nothing changed.
	StatusRejected
	// StatusNoOp means the line was not recognized; nothing changed.
	StatusNoOp
	// StatusNothingToUndo means undo found an empty history.
	StatusNothingToUndo
	// StatusNothingToRedo means redo found an empty history.
	StatusNothingToRedo
	// StatusCancelled means a pre-dispatch hook vetoed the action.
	StatusCancelled
)

// String returns the status name used in logs and metric labels.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusNoOp:
		return "noop"
	case StatusNothingToUndo:
		return "nothing_to_undo"
	case StatusNothingToRedo:
		return "nothing_to_redo"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result describes what ProcessLine did.
type Result struct {
	Action Action
	Status Status
	// Message is a short user-facing notice, empty when there is nothing to say.
	Message string
	// Err is the underlying cause for non-applied results.
	Err error
}

// Changed reports whether the stack or history was modified.
func (r Result) Changed() bool {
	return r.Status == StatusApplied
}

// String formats the result for logs.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s -> %s (%v)", r.Action.Name(), r.Status, r.Err)
	}
	return fmt.Sprintf("%s -> %s", r.Action.Name(), r.Status)
}
