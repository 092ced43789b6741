package app

import (
	"github.com/MylesJPritchett/rpn-calc/internal/renderer/backend"
)

// Mode is the UI input mode.
type Mode int

const (
	// ModeNormal ignores typing; e starts editing and q quits.
	ModeNormal Mode = iota
	// ModeEditing sends keys to the input line.
	ModeEditing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// command is what a key does in the current mode.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdStartEditing
	cmdStopEditing
	cmdSubmit
	cmdInsert
	cmdBackspace
	cmdLeft
	cmdRight
	cmdHome
	cmdEnd
)

// translateKey maps a key event to a command for mode.
func translateKey(mode Mode, ev backend.Event) command {
	if ev.Key == backend.KeyCtrlC {
		return cmdQuit
	}

	if mode == ModeNormal {
		if ev.Key != backend.KeyRune || ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return cmdNone
		}
		switch ev.Rune {
		case 'q':
			return cmdQuit
		case 'e':
			return cmdStartEditing
		}
		return cmdNone
	}

	switch ev.Key {
	case backend.KeyEscape:
		return cmdStopEditing
	case backend.KeyEnter:
		return cmdSubmit
	case backend.KeyBackspace:
		return cmdBackspace
	case backend.KeyLeft:
		return cmdLeft
	case backend.KeyRight:
		return cmdRight
	case backend.KeyHome:
		return cmdHome
	case backend.KeyEnd:
		return cmdEnd
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return cmdNone
		}
		return cmdInsert
	default:
		return cmdNone
	}
}
