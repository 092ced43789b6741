// Package lua provides the sandboxed Lua runtime used for user words.
//
// It wraps github.com/yuin/gopher-lua:
//
//	state, err := lua.NewState(lua.WithInstructionLimit(100_000))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile("words.lua"); err != nil {
//	    return err
//	}
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, so a script cannot
// reach the file system or load other code. print is routed to a
// caller-supplied function.
//
// Every run (DoString, DoFile, Call) gets a fresh instruction budget and
// an execution timeout. The budget is counted by the VM itself: the state
// runs with a context whose Done channel is consulted once per
// instruction, and that context reports ErrInstructionLimit once the
// budget is spent.
//
// # Concurrency
//
// gopher-lua's LState is not goroutine-safe. State serializes every call
// with a mutex.
package lua
