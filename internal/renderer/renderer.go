package renderer

import (
	"sync"

	"github.com/MylesJPritchett/rpn-calc/internal/renderer/backend"
)

// Help texts, one per mode.
const (
	HelpNormal  = "Press q to exit, e to start editing."
	HelpEditing = "Press Esc to stop editing, Enter to add the number to stack or perform operation"
)

// Options configures the renderer.
type Options struct {
	// Precision is the number of decimals shown; -1 means shortest.
	Precision int
	// ShowIndex prefixes each stack entry with its depth.
	ShowIndex bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Precision: -1,
		ShowIndex: true,
	}
}

// Frame is the state to draw.
type Frame struct {
	// Editing selects the editing help text, yellow input and a visible cursor.
	Editing bool
	// Input is the text in the input box.
	Input string
	// Cursor is the rune position of the cursor in Input.
	Cursor int
	// Stack holds the values bottom first.
	Stack []float64
	// Status is shown in the stack box title when non-empty.
	Status string
}

// span is a run of text with one style.
type span struct {
	text  string
	style backend.Style
}

// Renderer draws frames onto a backend.
type Renderer struct {
	mu sync.RWMutex

	// Configuration
	opts Options

	// Backend and screen
	backend backend.Backend
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts Options) *Renderer {
	return &Renderer{backend: b, opts: opts}
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// SetOptions replaces the options. The next Render uses them.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
}

// Backend returns the backend being drawn to.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// Render draws a full frame and shows it.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := r.backend.Size()
	layout := ComputeLayout(width, height)

	r.backend.Clear()
	r.drawHelp(layout.Help, f.Editing)
	cursorX := r.drawInput(layout.Input, f)
	r.drawStack(layout.Stack, f)

	inner := layout.Input.Inner()
	if f.Editing && inner.Width() > 0 && inner.Height() > 0 {
		r.backend.ShowCursor(cursorX, inner.Top)
	} else {
		r.backend.HideCursor()
	}

	r.backend.Show()
}

// ============================================================================
// Regions
// ============================================================================

func (r *Renderer) drawHelp(area Rect, editing bool) {
	if area.Height() == 0 {
		return
	}

	bold := backend.Style{Bold: true}
	var spans []span
	if editing {
		spans = []span{
			{"Press ", backend.DefaultStyle},
			{"Esc", bold},
			{" to stop editing, ", backend.DefaultStyle},
			{"Enter", bold},
			{" to add the number to stack or perform operation", backend.DefaultStyle},
		}
	} else {
		spans = []span{
			{"Press ", backend.Style{Blink: true}},
			{"q", backend.Style{Bold: true, Blink: true}},
			{" to exit, ", backend.Style{Blink: true}},
			{"e", backend.Style{Bold: true, Blink: true}},
			{" to start editing.", backend.Style{Bold: true, Blink: true}},
		}
	}

	x := area.Left
	for _, s := range spans {
		x = r.drawString(x, area.Top, area.Right, s.text, s.style)
	}
}

// drawInput draws the input box and returns the cursor column.
func (r *Renderer) drawInput(area Rect, f Frame) int {
	r.drawBox(area, "Input")

	inner := area.Inner()
	if inner.Width() <= 0 || inner.Height() <= 0 {
		return inner.Left
	}

	style := backend.DefaultStyle
	if f.Editing {
		style = backend.Style{Foreground: backend.ColorYellow}
	}

	// Scroll horizontally so the cursor stays inside the box.
	runes := []rune(f.Input)
	cursor := max(0, min(f.Cursor, len(runes)))
	offset := max(0, cursor-(inner.Width()-1))

	r.drawString(inner.Left, inner.Top, inner.Right, string(runes[offset:]), style)
	return inner.Left + cursor - offset
}

func (r *Renderer) drawStack(area Rect, f Frame) {
	title := "Stack"
	if f.Status != "" {
		title += " - " + f.Status
	}
	r.drawBox(area, title)

	inner := area.Inner()
	if inner.Width() <= 0 || inner.Height() <= 0 {
		return
	}

	lines := FormatStack(f.Stack, r.opts.Precision, r.opts.ShowIndex)
	for i, line := range lines {
		if i >= inner.Height() {
			break
		}
		r.drawString(inner.Left, inner.Top+i, inner.Right, line, backend.DefaultStyle)
	}
}

// ============================================================================
// Primitives
// ============================================================================

// drawBox draws a single-line border with a title on the top edge.
func (r *Renderer) drawBox(area Rect, title string) {
	if area.Width() < 2 || area.Height() < 2 {
		return
	}

	left, top, right, bottom := area.Left, area.Top, area.Right-1, area.Bottom-1
	style := backend.DefaultStyle

	for x := left + 1; x < right; x++ {
		r.backend.SetCell(x, top, backend.Cell{Rune: '─', Style: style})
		r.backend.SetCell(x, bottom, backend.Cell{Rune: '─', Style: style})
	}
	for y := top + 1; y < bottom; y++ {
		r.backend.SetCell(left, y, backend.Cell{Rune: '│', Style: style})
		r.backend.SetCell(right, y, backend.Cell{Rune: '│', Style: style})
	}
	r.backend.SetCell(left, top, backend.Cell{Rune: '┌', Style: style})
	r.backend.SetCell(right, top, backend.Cell{Rune: '┐', Style: style})
	r.backend.SetCell(left, bottom, backend.Cell{Rune: '└', Style: style})
	r.backend.SetCell(right, bottom, backend.Cell{Rune: '┘', Style: style})

	r.drawString(left+1, top, right, title, style)
}

// drawString draws s from x, clipped before limit. Returns the next column.
func (r *Renderer) drawString(x, y, limit int, s string, style backend.Style) int {
	for _, ch := range s {
		if x >= limit {
			break
		}
		r.backend.SetCell(x, y, backend.Cell{Rune: ch, Style: style})
		x++
	}
	return x
}
