package history

import (
	"errors"
	"sync"

	"github.com/MylesJPritchett/rpn-calc/internal/engine/stack"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry wraps a snapshot with the label of the action it belongs to.
type entry struct {
	snapshot stack.Snapshot
	label    string
}

// Info provides read-only info about a history entry.
// Used for displaying undo/redo state to users.
type Info struct {
	Label string // Action that produced or consumed the snapshot
	Depth int    // Number of values in the snapshot
}

// History manages undo/redo snapshot sequences for one stack.
type History struct {
	mu sync.Mutex

	undoStack []entry
	redoStack []entry

	// Zero means unbounded.
	maxEntries int
}

// New creates a new history manager. maxEntries <= 0 keeps every snapshot.
func New(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{maxEntries: maxEntries}
}

// Record pushes the pre-action snapshot of a mutating action and clears
// the redo stack.
func (h *History) Record(snap stack.Snapshot, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, entry{snapshot: snap, label: label})

	h.redoStack = nil
	h.trimLocked()
}

// Undo pops the most recent undo snapshot and returns it for restoring.
// current is pushed onto the redo stack. With an empty undo stack it
// returns ErrNothingToUndo and changes nothing.
func (h *History) Undo(current stack.Snapshot) (stack.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return stack.Snapshot{}, ErrNothingToUndo
	}

	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, entry{snapshot: current, label: e.label})
	return e.snapshot, nil
}

// Redo pops the most recent redo snapshot and returns it for restoring.
// current is pushed onto the undo stack. With an empty redo stack it
// returns ErrNothingToRedo and changes nothing.
func (h *History) Redo(current stack.Snapshot) (stack.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return stack.Snapshot{}, ErrNothingToRedo
	}

	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, entry{snapshot: current, label: e.label})
	h.trimLocked()
	return e.snapshot, nil
}

// trimLocked enforces maxEntries. Caller holds the lock.
func (h *History) trimLocked() {
	if h.maxEntries > 0 && len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo snapshots available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo snapshots available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoSnapshots returns the undo snapshots, oldest first.
func (h *History) UndoSnapshots() []stack.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshots(h.undoStack)
}

// RedoSnapshots returns the redo snapshots, oldest first.
func (h *History) RedoSnapshots() []stack.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshots(h.redoStack)
}

// PeekUndo returns info about the next undo without removing it.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo without removing it.
func (h *History) PeekRedo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the undo bound. If the current stack is larger,
// oldest entries are removed. max <= 0 removes the bound.
func (h *History) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the undo bound; zero means unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

func (e entry) info() Info {
	return Info{
		Label: e.label,
		Depth: e.snapshot.Len(),
	}
}

func snapshots(entries []entry) []stack.Snapshot {
	out := make([]stack.Snapshot, len(entries))
	for i, e := range entries {
		out[i] = e.snapshot
	}
	return out
}
