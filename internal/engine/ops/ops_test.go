package ops

import (
	"math"
	"testing"
)

const epsilon = 1e-12

func TestTableCoversEveryOp(t *testing.T) {
	for op := Invalid + 1; op < opCount; op++ {
		s := table[op]
		if s.Name == "" {
			t.Errorf("op %d has no table entry", op)
		}
		if s.Kind != KindHistory && s.Fn == nil {
			t.Errorf("op %s has no function", s.Name)
		}
		if s.Kind == KindHistory && s.Fn != nil {
			t.Errorf("history op %s must not have a function", s.Name)
		}
	}
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[string]Op)
	for _, op := range All() {
		if prev, ok := seen[op.Token()]; ok {
			t.Errorf("token %q used by %s and %s", op.Token(), prev, op)
		}
		seen[op.Token()] = op
	}
	if len(byToken) != len(All()) {
		t.Errorf("byToken has %d entries, want %d", len(byToken), len(All()))
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		token string
		want  Op
		ok    bool
	}{
		{"+", Add, true},
		{"-", Sub, true},
		{"*", Mul, true},
		{"/", Div, true},
		{"%", Mod, true},
		{"^", Pow, true},
		{"", Dup, true},
		{"neg", Neg, true},
		{"abs", Abs, true},
		{"sqrt", Sqrt, true},
		{"sin", Sin, true},
		{"cos", Cos, true},
		{"tan", Tan, true},
		{"asin", Asin, true},
		{"acos", Acos, true},
		{"atan", Atan, true},
		{"deg", Deg, true},
		{"rad", Rad, true},
		{"recip", Recip, true},
		{"log10", Log10, true},
		{"logn", Logn, true},
		{"log2", Log2, true},
		{"!", Factorial, true},
		{"swap", Swap, true},
		{"clear", Clear, true},
		{"drop", Drop, true},
		{"undo", Undo, true},
		{"redo", Redo, true},

		{"SWAP", Invalid, false},
		{"Sqrt", Invalid, false},
		{" +", Invalid, false},
		{"+ ", Invalid, false},
		{"drop\n", Invalid, false},
		{"inf", Invalid, false},
		{"log", Invalid, false},
		{"dup", Invalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Lookup(tt.token)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.token, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestArity(t *testing.T) {
	tests := map[Op]int{
		Add: 2, Sub: 2, Mul: 2, Div: 2, Mod: 2, Pow: 2, Swap: 2,
		Dup: 1, Neg: 1, Sqrt: 1, Log2: 1, Factorial: 1, Drop: 1,
		Clear: 0, Undo: 0, Redo: 0,
	}
	for op, want := range tests {
		if got := op.Arity(); got != want {
			t.Errorf("%s.Arity() = %d, want %d", op, got, want)
		}
	}
}

func TestBinaryOperandOrder(t *testing.T) {
	// args are [deeper, top].
	tests := []struct {
		op   Op
		args []float64
		want float64
	}{
		{Add, []float64{5, 3}, 8},
		{Sub, []float64{10, 4}, 6},
		{Mul, []float64{2, 3}, 6},
		{Div, []float64{10, 2}, 5},
		{Mod, []float64{17, 5}, 2},
		{Mod, []float64{-17, 5}, -2},
		{Pow, []float64{2, 3}, 9},
		{Pow, []float64{4, 5}, 625},
		{Pow, []float64{0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := tt.op.Eval(tt.args)
			if !ok || len(got) != 1 || got[0] != tt.want {
				t.Errorf("%s%v = %v, want [%v]", tt.op, tt.args, got, tt.want)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	got, _ := Div.Eval([]float64{10, 0})
	if !math.IsInf(got[0], 1) {
		t.Errorf("10/0 = %v, want +Inf", got[0])
	}
	got, _ = Div.Eval([]float64{-10, 0})
	if !math.IsInf(got[0], -1) {
		t.Errorf("-10/0 = %v, want -Inf", got[0])
	}
	got, _ = Div.Eval([]float64{0, 0})
	if !math.IsNaN(got[0]) {
		t.Errorf("0/0 = %v, want NaN", got[0])
	}
	got, _ = Mod.Eval([]float64{1, 0})
	if !math.IsNaN(got[0]) {
		t.Errorf("1%%0 = %v, want NaN", got[0])
	}
}

func TestUnary(t *testing.T) {
	tests := []struct {
		op   Op
		in   float64
		want float64
	}{
		{Neg, 4, -4},
		{Abs, -4, 4},
		{Sqrt, 9, 3},
		{Sin, 9, 0.4121184852417566},
		{Cos, 5, 0.28366218546322625},
		{Tan, 6, -0.29100619138474915},
		{Asin, 1, math.Pi / 2},
		{Acos, 1, 0},
		{Atan, 1, math.Pi / 4},
		{Deg, math.Pi, 180},
		{Rad, 180, math.Pi},
		{Recip, 4, 0.25},
		{Log10, 100, 2},
		{Logn, math.E, 1},
		{Log2, 8, 3},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := tt.op.Eval([]float64{tt.in})
			if !ok || len(got) != 1 {
				t.Fatalf("Eval returned %v, %v", got, ok)
			}
			if math.Abs(got[0]-tt.want) > epsilon {
				t.Errorf("%s(%v) = %v, want %v", tt.op, tt.in, got[0], tt.want)
			}
		})
	}
}

func TestUnaryDomainErrors(t *testing.T) {
	tests := []struct {
		op    Op
		in    float64
		check func(float64) bool
	}{
		{Sqrt, -1, math.IsNaN},
		{Asin, 2, math.IsNaN},
		{Acos, -2, math.IsNaN},
		{Logn, -1, math.IsNaN},
		{Log10, 0, func(x float64) bool { return math.IsInf(x, -1) }},
		{Log2, 0, func(x float64) bool { return math.IsInf(x, -1) }},
		{Recip, 0, func(x float64) bool { return math.IsInf(x, 1) }},
		{Recip, math.Copysign(0, -1), func(x float64) bool { return math.IsInf(x, -1) }},
	}

	for _, tt := range tests {
		got, _ := tt.op.Eval([]float64{tt.in})
		if !tt.check(got[0]) {
			t.Errorf("%s(%v) = %v", tt.op, tt.in, got[0])
		}
	}
}

func TestFactorialCanonical(t *testing.T) {
	want := uint64(1)
	for n := uint64(0); n <= 20; n++ {
		if n > 0 {
			want *= n
		}
		got, _ := Factorial.Eval([]float64{float64(n)})
		if got[0] != float64(want) {
			t.Errorf("%d! = %v, want %d", n, got[0], want)
		}
	}
}

func TestFactorialAbsRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{5, 120},
		{-5, 120},
		{4.6, 120},
		{4.5, 120},
		{4.4, 24},
		{-0.4, 1},
		{0.5, 1},
		{math.NaN(), 1},
	}

	for _, tt := range tests {
		if got := Fact(tt.in); got != tt.want {
			t.Errorf("Fact(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFactorialWraps(t *testing.T) {
	// 21! overflows 64 bits; the result is the product modulo 2^64.
	want := uint64(1)
	for i := uint64(2); i <= 21; i++ {
		want *= i
	}
	if got := FactUint(21); got != want {
		t.Errorf("FactUint(21) = %d, want %d", got, want)
	}

	if got := FactUint(65); got == 0 {
		t.Error("FactUint(65) should not have wrapped to zero")
	}
	for _, n := range []uint64{66, 67, 1000, math.MaxUint64} {
		if got := FactUint(n); got != 0 {
			t.Errorf("FactUint(%d) = %d, want 0", n, got)
		}
	}
	if got := Fact(math.Inf(1)); got != 0 {
		t.Errorf("Fact(+Inf) = %v, want 0", got)
	}
}

func TestFactUintMatchesLoop(t *testing.T) {
	for n := uint64(0); n < 100; n++ {
		want := uint64(1)
		for i := uint64(1); i <= n; i++ {
			want *= i
		}
		if got := FactUint(n); got != want {
			t.Errorf("FactUint(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestStackOps(t *testing.T) {
	got, _ := Dup.Eval([]float64{10})
	if len(got) != 2 || got[0] != 10 || got[1] != 10 {
		t.Errorf("dup = %v", got)
	}
	got, _ = Swap.Eval([]float64{1, 2})
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("swap = %v", got)
	}
	got, _ = Drop.Eval([]float64{1})
	if len(got) != 0 {
		t.Errorf("drop = %v", got)
	}
	got, ok := Clear.Eval([]float64{1, 2, 3})
	if !ok || len(got) != 0 {
		t.Errorf("clear = %v, %v", got, ok)
	}
}

func TestEvalRejects(t *testing.T) {
	if _, ok := Add.Eval([]float64{1}); ok {
		t.Error("Add with one operand should be rejected")
	}
	if _, ok := Undo.Eval(nil); ok {
		t.Error("Undo has no function")
	}
	if _, ok := Invalid.Eval(nil); ok {
		t.Error("Invalid should be rejected")
	}
}

func TestKindString(t *testing.T) {
	if Add.Kind().String() != "math" || Swap.Kind().String() != "stack" || Redo.Kind().String() != "history" {
		t.Error("unexpected kind names")
	}
	if Invalid.String() != "invalid" {
		t.Errorf("Invalid.String() = %q", Invalid.String())
	}
}
