package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"dispochart/pkg/contracts/domain"
)

// CoerceNumber converts a cell to a number. Anything that is not a finite
// decimal or exponent literal becomes missing; it never fails.
func CoerceNumber(cell string) domain.Number {
	s := strings.TrimSpace(cell)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return domain.Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Missing
	}
	return domain.NewNumber(v)
}
