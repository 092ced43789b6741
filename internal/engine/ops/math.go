package ops

import "math"

// wrapLimit is the smallest n whose factorial is a multiple of 2^64, so
// every n! with n >= wrapLimit wraps to exactly zero.
const wrapLimit = 66

// Power raises the top-of-stack value to the power of the value beneath it:
// for a stack [deeper, top] the result is top^deeper. "2 3 ^" yields 9.
func Power(deeper, top float64) float64 {
	return math.Pow(top, deeper)
}

// Degrees converts radians to degrees.
func Degrees(x float64) float64 {
	return x * (180 / math.Pi)
}

// Radians converts degrees to radians.
func Radians(x float64) float64 {
	return x * (math.Pi / 180)
}

// Fact returns the factorial of |x| rounded to the nearest integer.
// The product is accumulated in a uint64 and wraps on overflow.
func Fact(x float64) float64 {
	return float64(FactUint(toUint64(math.Round(math.Abs(x)))))
}

// FactUint computes n! modulo 2^64.
func FactUint(n uint64) uint64 {
	if n >= wrapLimit {
		return 0
	}
	result := uint64(1)
	for i := uint64(2); i <= n; i++ {
		result *= i
	}
	return result
}

// toUint64 converts a non-negative float with saturation: NaN becomes 0
// and values at or above 2^64 become the maximum uint64.
func toUint64(x float64) uint64 {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 1<<64:
		return math.MaxUint64
	default:
		return uint64(x)
	}
}
