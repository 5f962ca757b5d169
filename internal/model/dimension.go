package model

import (
	"regexp"
	"strconv"
	"strings"
)

// DimensionSpec holds the two scalars the engine derives from a profile
// string such as "40x20" or "50x8x2".
type DimensionSpec struct {
	Thickness float64 `json:"thickness"` // mm, first value: visible width in elevation
	Deduction float64 `json:"deduction"` // mm, second value: taken off adjoining spans
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// dimensionTokens returns the numeric values of s from left to right.
func dimensionTokens(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// ParseThickness returns the first number in a profile string.
// Empty or malformed strings yield 0; validation happens upstream and a
// zero thickness shows up plainly on the drawing.
func ParseThickness(s string) float64 {
	values := dimensionTokens(s)
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

// ParseDeduction returns the second number in a profile string, or the
// first one when the string holds a single value. Like ParseThickness it
// falls back to 0 instead of failing.
func ParseDeduction(s string) float64 {
	values := dimensionTokens(s)
	switch {
	case len(values) >= 2:
		return values[1]
	case len(values) == 1:
		return values[0]
	default:
		return 0
	}
}

// ParseDimension returns both scalars of a profile string.
func ParseDimension(s string) DimensionSpec {
	return DimensionSpec{
		Thickness: ParseThickness(s),
		Deduction: ParseDeduction(s),
	}
}
