package utils

import (
	"math"
	"strconv"
	"strings"

	types "distr-calc/internal/calculator/types"
)

func IsOperator(ch byte) bool {
	return strings.IndexByte(types.Operators, ch) >= 0
}

func IsDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func IsNumberChar(ch byte) bool {
	return IsDigit(ch) || ch == '.'
}

// FormatResult renders v without trailing zeros. Magnitudes of 1e21 and
// above switch to exponent form.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.Abs(v) >= 1e21:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
