// Package stack provides the calculator's operand stack.
package stack

// Stack is a LIFO sequence of float64 operands. The last element is the top.
// NaN and infinities are ordinary members.
//
// Stack is not safe for concurrent use; the engine serializes access.
type Stack struct {
	data []float64
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{}
}

// FromValues creates a stack holding a copy of values, bottom first.
func FromValues(values []float64) *Stack {
	return &Stack{data: clone(values)}
}

// Push places v on top of the stack.
func (s *Stack) Push(v ...float64) {
	s.data = append(s.data, v...)
}

// Pop removes and returns the top value. It reports false on an empty stack.
func (s *Stack) Pop() (float64, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, true
}

// PopN removes the top n values and returns them deepest first.
// When fewer than n values are present nothing is removed.
func (s *Stack) PopN(n int) ([]float64, bool) {
	vals, ok := s.PeekN(n)
	if !ok {
		return nil, false
	}
	s.data = s.data[:len(s.data)-n]
	return vals, true
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (float64, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	return s.data[len(s.data)-1], true
}

// PeekN returns a copy of the top n values, deepest first, without
// removing them.
func (s *Stack) PeekN(n int) ([]float64, bool) {
	if n < 0 || n > len(s.data) {
		return nil, false
	}
	return clone(s.data[len(s.data)-n:]), true
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}

// IsEmpty reports whether the stack holds no values.
func (s *Stack) IsEmpty() bool {
	return len(s.data) == 0
}

// Clear removes every value.
func (s *Stack) Clear() {
	s.data = nil
}

// Values returns a copy of the contents, bottom first.
func (s *Stack) Values() []float64 {
	return clone(s.data)
}

// Snapshot returns an immutable copy of the current contents.
func (s *Stack) Snapshot() Snapshot {
	return Snapshot{values: clone(s.data)}
}

// Restore replaces the contents with those captured in snap.
func (s *Stack) Restore(snap Snapshot) {
	s.data = clone(snap.values)
}

// Snapshot is an immutable copy of a stack's contents at one point in time.
type Snapshot struct {
	values []float64
}

// Len returns the number of values captured.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Values returns a copy of the captured values, bottom first.
func (s Snapshot) Values() []float64 {
	return clone(s.values)
}

func clone(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
