package renderer

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the rectangle width.
func (r Rect) Width() int { return max(0, r.Right-r.Left) }

// Height returns the rectangle height.
func (r Rect) Height() int { return max(0, r.Bottom-r.Top) }

// Inner returns the rectangle inside a one-cell border.
func (r Rect) Inner() Rect {
	return Rect{Left: r.Left + 1, Top: r.Top + 1, Right: r.Right - 1, Bottom: r.Bottom - 1}
}

const (
	helpHeight  = 1
	inputHeight = 3
)

// Layout holds the three screen regions.
type Layout struct {
	Help  Rect
	Input Rect
	Stack Rect
}

// ComputeLayout splits a width x height screen into the help line, the
// input box and the stack box. Regions that do not fit are empty.
func ComputeLayout(width, height int) Layout {
	width = max(0, width)
	height = max(0, height)

	row := func(top, h int) Rect {
		top = min(top, height)
		return Rect{Left: 0, Top: top, Right: width, Bottom: min(top+h, height)}
	}

	return Layout{
		Help:  row(0, helpHeight),
		Input: row(helpHeight, inputHeight),
		Stack: row(helpHeight+inputHeight, height-helpHeight-inputHeight),
	}
}
