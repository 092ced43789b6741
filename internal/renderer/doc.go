// Package renderer draws the calculator screen.
//
// The screen has three regions, top to bottom:
//
//	Press Esc to stop editing, Enter to add ...    help line
//	┌Input─────────────────────────────────────┐
//	│3.5                                        │  input box
//	└───────────────────────────────────────────┘
//	┌Stack─────────────────────────────────────┐
//	│0: 2                                       │  stack, top first
//	│1: 7                                       │
//	└───────────────────────────────────────────┘
//
// A Frame carries everything needed to draw one screen; the renderer keeps
// no calculator state of its own. Drawing goes through a backend.Backend so
// tests can render into memory or a tcell simulation screen.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.Render(renderer.Frame{Editing: true, Stack: d.Stack()})
package renderer
