// Package dispatcher turns completed input lines into engine actions.
//
// The dispatcher is the calculator core's only boundary: the UI hands it a
// finished line and reads back the stack.
//
//	d := dispatcher.NewWithDefaults()
//	d.ProcessLine("2")
//	d.ProcessLine("3")
//	d.ProcessLine("^")
//	fmt.Println(d.Stack()) // [9]
//
// # Resolution
//
// Each line resolves to exactly one Action, checked in order:
//
//  1. A decimal floating-point literal (optionally signed, optional
//     fraction and exponent, or inf/infinity/nan) is a Push.
//  2. An exact, case-sensitive, untrimmed match against the built-in
//     vocabulary (see package ops) is an Operator. The empty line
//     duplicates the top value.
//  3. A registered user word (see package plugin) is a Word. Words can
//     never shadow literals or built-ins.
//  4. Anything else is a NoOp and changes nothing.
//
// # Results
//
// ProcessLine reports what happened through Result.Status:
//
//   - StatusApplied: the action ran and was recorded in history
//   - StatusRejected: too few operands or a failing word; nothing changed
//   - StatusNoOp: the line was not recognized
//   - StatusNothingToUndo / StatusNothingToRedo: empty history
//   - StatusCancelled: a pre-dispatch hook vetoed the action
//
// None of these are errors in the Go sense; Result.Err carries the
// underlying cause for logging.
//
// # Hooks and metrics
//
// Pre-dispatch hooks may veto an action; post-dispatch hooks observe the
// result (the application uses one for logging and status messages).
// When enabled, Prometheus metrics count commands by kind and status and
// track stack and history depth.
package dispatcher
