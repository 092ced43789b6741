package renderer

import (
	"math"
	"strconv"
)

// FormatValue formats a stack value for display.
//
// A negative precision gives the shortest decimal that round-trips,
// without an exponent. Non-finite values print as NaN, inf and -inf.
func FormatValue(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if precision < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// FormatStack formats values top first, one entry per line, as
// "i: value" when showIndex is set.
func FormatStack(values []float64, precision int, showIndex bool) []string {
	lines := make([]string, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		s := FormatValue(values[i], precision)
		if showIndex {
			s = strconv.Itoa(len(values)-1-i) + ": " + s
		}
		lines = append(lines, s)
	}
	return lines
}
