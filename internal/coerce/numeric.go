// Package coerce converts untyped cell text into numbers.
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Float parses a cell as a number. It accepts surrounding whitespace, a leading
// currency symbol, comma thousands grouping, and (123) for negatives. Anything
// else (including "N/A" and empty cells) is reported as absent.
func Float(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSpace(cleanVal[1 : len(cleanVal)-1])
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "₦"} {
		cleanVal = strings.TrimPrefix(cleanVal, symbol)
	}
	cleanVal = strings.TrimSpace(cleanVal)

	if strings.Contains(cleanVal, ",") {
		if !thousandsGrouped.MatchString(cleanVal) {
			return 0, false
		}
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	if isNegative {
		val = -val
	}
	return val, true
}

// Floats parses every value, returning a parallel validity mask
func Floats(raw []string) ([]float64, []bool) {
	values := make([]float64, len(raw))
	valid := make([]bool, len(raw))
	for i, s := range raw {
		values[i], valid[i] = Float(s)
	}
	return values, valid
}
