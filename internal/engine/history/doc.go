// Package history provides undo/redo for the calculator engine.
//
// History stores whole-stack snapshots rather than inverse commands: an
// operand stack is small, and a snapshot makes every action trivially
// reversible, including ones whose inputs cannot be recovered from their
// output (drop, clear, factorial).
//
// # Recording
//
// Before a mutating action runs, the engine records the pre-action stack:
//
//	h := history.New(0) // unbounded
//	h.Record(st.Snapshot(), "+")
//	// ... mutate the stack ...
//
// Record always clears the redo sequence.
//
// # Undo and Redo
//
// Undo and Redo take the current stack snapshot and return the one to
// restore. The current snapshot moves to the opposite sequence:
//
//	prev, err := h.Undo(st.Snapshot())
//	if errors.Is(err, history.ErrNothingToUndo) {
//	    // nothing changed
//	}
//	st.Restore(prev)
//
// Neither call touches the histories when its source sequence is empty.
//
// # Bounds
//
// A positive maxEntries evicts the oldest undo snapshots once exceeded.
// Zero means unbounded.
package history
