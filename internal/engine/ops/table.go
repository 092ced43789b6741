package ops

import "math"

// table is indexed by Op. The array length ties it to the enumeration, and
// TestTableCoversEveryOp checks that no entry was left zero.
var table = [opCount]Entry{
	Add: binary("+", "add", func(a, b float64) float64 { return a + b }),
	Sub: binary("-", "sub", func(a, b float64) float64 { return a - b }),
	Mul: binary("*", "mul", func(a, b float64) float64 { return a * b }),
	Div: binary("/", "div", func(a, b float64) float64 { return a / b }),
	Mod: binary("%", "mod", math.Mod),
	Pow: binary("^", "pow", Power),

	Dup: {Token: "", Name: "dup", Arity: 1, Kind: KindStack, Fn: func(args []float64) []float64 {
		return []float64{args[0], args[0]}
	}},

	Neg:   unary("neg", func(x float64) float64 { return -x }),
	Abs:   unary("abs", math.Abs),
	Sqrt:  unary("sqrt", math.Sqrt),
	Sin:   unary("sin", math.Sin),
	Cos:   unary("cos", math.Cos),
	Tan:   unary("tan", math.Tan),
	Asin:  unary("asin", math.Asin),
	Acos:  unary("acos", math.Acos),
	Atan:  unary("atan", math.Atan),
	Deg:   unary("deg", Degrees),
	Rad:   unary("rad", Radians),
	Recip: unary("recip", func(x float64) float64 { return 1 / x }),
	Log10: unary("log10", math.Log10),
	Logn:  unary("logn", math.Log),
	Log2:  unary("log2", math.Log2),

	Factorial: {Token: "!", Name: "factorial", Arity: 1, Kind: KindMath, Fn: func(args []float64) []float64 {
		return []float64{Fact(args[0])}
	}},

	Swap: {Token: "swap", Name: "swap", Arity: 2, Kind: KindStack, Fn: func(args []float64) []float64 {
		return []float64{args[1], args[0]}
	}},
	Clear: {Token: "clear", Name: "clear", ConsumesAll: true, Kind: KindStack, Fn: func([]float64) []float64 {
		return nil
	}},
	Drop: {Token: "drop", Name: "drop", Arity: 1, Kind: KindStack, Fn: func([]float64) []float64 {
		return nil
	}},

	Undo: {Token: "undo", Name: "undo", Kind: KindHistory},
	Redo: {Token: "redo", Name: "redo", Kind: KindHistory},
}

// binary builds a two-operand entry. fn receives (deeper, top).
func binary(token, name string, fn func(a, b float64) float64) Entry {
	return Entry{
		Token: token,
		Name:  name,
		Arity: 2,
		Kind:  KindMath,
		Fn: func(args []float64) []float64 {
			return []float64{fn(args[0], args[1])}
		},
	}
}

func unary(token string, fn func(x float64) float64) Entry {
	return Entry{
		Token: token,
		Name:  token,
		Arity: 1,
		Kind:  KindMath,
		Fn: func(args []float64) []float64 {
			return []float64{fn(args[0])}
		},
	}
}
