// Package ops defines the calculator's command vocabulary.
//
// Every recognized token maps to one Op variant. Each variant carries its
// arity and a pure function from the operands it consumes (deepest first)
// to the values it leaves on the stack. Nothing here touches a stack or a
// history; the engine does that.
package ops

// Op identifies a built-in command.
type Op int

// Built-in commands, in vocabulary order.
const (
	Invalid Op = iota

	Add
	Sub
	Mul
	Div
	Mod
	Pow

	Dup

	Neg
	Abs
	Sqrt
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Deg
	Rad
	Recip
	Log10
	Logn
	Log2

	Factorial

	Swap
	Clear
	Drop

	Undo
	Redo

	opCount
)

// Kind groups operations by how the engine runs them.
type Kind int

const (
	// KindMath replaces its operands with a computed value.
	KindMath Kind = iota
	// KindStack reorders or removes values without computing anything.
	KindStack
	// KindHistory navigates undo/redo history and never records a snapshot.
	KindHistory
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMath:
		return "math"
	case KindStack:
		return "stack"
	case KindHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Entry describes one vocabulary entry.
type Entry struct {
	// Token is the exact input line that selects the operation.
	Token string
	// Name is a printable name; it differs from Token only for the empty token.
	Name string
	// Arity is the number of operands popped from the stack.
	Arity int
	// ConsumesAll makes the operation take the whole stack regardless of Arity.
	ConsumesAll bool
	Kind        Kind
	// Fn maps operands (deepest first) to the values pushed back.
	Fn func(args []float64) []float64
}

var byToken map[string]Op

func init() {
	byToken = make(map[string]Op, int(opCount))
	for op := Invalid + 1; op < opCount; op++ {
		byToken[table[op].Token] = op
	}
}

// Lookup returns the operation selected by token. Matching is exact:
// case-sensitive and without trimming.
func Lookup(token string) (Op, bool) {
	op, ok := byToken[token]
	return op, ok
}

// IsBuiltin reports whether token is part of the built-in vocabulary.
func IsBuiltin(token string) bool {
	_, ok := byToken[token]
	return ok
}

// All returns every valid operation in vocabulary order.
func All() []Op {
	all := make([]Op, 0, int(opCount)-1)
	for op := Invalid + 1; op < opCount; op++ {
		all = append(all, op)
	}
	return all
}

// Valid reports whether op is a defined operation.
func (op Op) Valid() bool {
	return op > Invalid && op < opCount
}

// Entry returns the vocabulary entry for op. Invalid ops return a zero Entry.
func (op Op) Entry() Entry {
	if !op.Valid() {
		return Entry{}
	}
	return table[op]
}

// Token returns the input token for op.
func (op Op) Token() string {
	return op.Entry().Token
}

// Arity returns the number of operands op consumes.
func (op Op) Arity() int {
	return op.Entry().Arity
}

// Kind returns the operation kind.
func (op Op) Kind() Kind {
	return op.Entry().Kind
}

// String returns the operation's printable name.
func (op Op) String() string {
	if !op.Valid() {
		return "invalid"
	}
	return table[op].Name
}

// Eval applies op to args, which must hold exactly the operands op
// consumes, deepest first. It returns the values to push, bottom first.
// History operations and a length mismatch return nil, false.
func (op Op) Eval(args []float64) ([]float64, bool) {
	s := op.Entry()
	if s.Fn == nil {
		return nil, false
	}
	if !s.ConsumesAll && len(args) != s.Arity {
		return nil, false
	}
	return s.Fn(args), true
}
