// Package line implements the single-line input editor used by the
// calculator's input box.
//
// The cursor is a rune index in [0, RuneCount]. All operations are
// clamped, so no key sequence can move the cursor out of range.
package line

import (
	"sync"
	"unicode/utf8"
)

// Editor holds the text being edited and a rune cursor.
type Editor struct {
	mu     sync.Mutex
	text   []rune
	cursor int
}

// New creates an empty editor.
func New() *Editor {
	return &Editor{}
}

// NewWithText creates an editor holding text with the cursor at the end.
func NewWithText(text string) *Editor {
	r := []rune(text)
	return &Editor{text: r, cursor: len(r)}
}

// Text returns the current text.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.text)
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// SetCursor moves the cursor, clamped to the text.
func (e *Editor) SetCursor(pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = e.clamp(pos)
}

// Len returns the text length in runes.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.text)
}

// Insert inserts r at the cursor and advances the cursor.
func (e *Editor) Insert(r rune) {
	if r == utf8.RuneError || r < 0x20 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.text = append(e.text, 0)
	copy(e.text[e.cursor+1:], e.text[e.cursor:])
	e.text[e.cursor] = r
	e.cursor++
}

// Backspace deletes the rune left of the cursor. No-op at position 0.
func (e *Editor) Backspace() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor == 0 {
		return
	}
	e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
	e.cursor--
}

// Left moves the cursor one rune left.
func (e *Editor) Left() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = e.clamp(e.cursor - 1)
}

// Right moves the cursor one rune right.
func (e *Editor) Right() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = e.clamp(e.cursor + 1)
}

// Home moves the cursor to the start.
func (e *Editor) Home() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = 0
}

// End moves the cursor past the last rune.
func (e *Editor) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = len(e.text)
}

// Submit returns the text, clears it and resets the cursor.
func (e *Editor) Submit() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := string(e.text)
	e.text = nil
	e.cursor = 0
	return s
}

func (e *Editor) clamp(pos int) int {
	return max(0, min(pos, len(e.text)))
}
