package dispatcher

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/MylesJPritchett/rpn-calc/internal/engine"
	"github.com/MylesJPritchett/rpn-calc/internal/engine/ops"
)

// ActionKind identifies what a line resolved to.
type ActionKind int

const (
	// KindNoOp is an unrecognized line.
	KindNoOp ActionKind = iota
	// KindPush pushes a numeric literal.
	KindPush
	// KindOperator runs a built-in operation, including undo and redo.
	KindOperator
	// KindWord runs a user-defined word.
	KindWord
)

// String returns the kind name used in logs and metric labels.
func (k ActionKind) String() string {
	switch k {
	case KindNoOp:
		return "noop"
	case KindPush:
		return "push"
	case KindOperator:
		return "operator"
	case KindWord:
		return "word"
	default:
		return "unknown"
	}
}

// Action is the single action a line resolves to.
type Action struct {
	Kind ActionKind
	// Line is the raw input.
	Line string
	// Value is set for KindPush.
	Value float64
	// Op is set for KindOperator.
	Op ops.Op
	// Word is set for KindWord.
	Word Word
}

// Name returns a short description of the action.
func (a Action) Name() string {
	switch a.Kind {
	case KindPush:
		return "push " + strconv.FormatFloat(a.Value, 'g', -1, 64)
	case KindOperator:
		return a.Op.String()
	case KindWord:
		return a.Word.Name
	default:
		return "noop"
	}
}

// Word is a user-defined operation.
type Word struct {
	Name  string
	Arity int
	Fn    engine.Func
}

// WordSet looks up user-defined words by exact name.
type WordSet interface {
	Lookup(name string) (Word, bool)
}

// Resolve maps a line to its action. words may be nil.
func Resolve(line string, words WordSet) Action {
	if v, ok := ParseNumber(line); ok {
		return Action{Kind: KindPush, Line: line, Value: v}
	}
	if op, ok := ops.Lookup(line); ok {
		return Action{Kind: KindOperator, Line: line, Op: op}
	}
	if words != nil {
		if w, ok := words.Lookup(line); ok {
			return Action{Kind: KindWord, Line: line, Word: w}
		}
	}
	return Action{Kind: KindNoOp, Line: line}
}

// IsReserved reports whether name can never resolve to a user word,
// because it is a numeric literal or a built-in token.
func IsReserved(name string) bool {
	if _, ok := ParseNumber(name); ok {
		return true
	}
	return ops.IsBuiltin(name)
}

// ParseNumber parses a decimal floating-point literal.
//
// Accepted: an optional sign, then either digits with an optional
// fractional part and optional exponent ("5", "5.", ".5", "-2.5e-3"), or
// one of inf, infinity, nan in any case. Hexadecimal floats, digit
// separators and surrounding whitespace are rejected. Literals beyond the
// float64 range saturate to ±Inf.
func ParseNumber(s string) (float64, bool) {
	body := s
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}

	switch {
	case strings.EqualFold(body, "nan"):
		return math.NaN(), true
	case strings.EqualFold(body, "inf"), strings.EqualFold(body, "infinity"):
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	case !isDecimal(body):
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// isDecimal reports whether s matches digits [ "." digits ] [ exponent ]
// with at least one mantissa digit.
func isDecimal(s string) bool {
	i := 0
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
