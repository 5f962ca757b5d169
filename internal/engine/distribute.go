// Package engine computes fabrication measurements for guardrail pieces:
// bar distribution, section free lengths and the bill of materials.
package engine

import (
	"math"

	"github.com/piwi3910/RailCut/internal/model"
)

// gapEpsilon absorbs floating-point error when comparing a spacing to the
// maximum gap, so an exact fit does not get an extra bar.
const gapEpsilon = 1e-9

// Distribute spreads bars of barThickness over freeLength so that every gap,
// including the two end gaps, is equal and no larger than maxGap.
//
// Degenerate inputs (any argument <= 0) return zero bars with LeadIn set to
// freeLength; a negative free length is passed through so callers can spot
// a section too short for its joints.
func Distribute(freeLength, barThickness, maxGap float64) model.Distribution {
	empty := model.Distribution{Count: 0, Gap: 0, LeadIn: freeLength}
	if freeLength <= 0 || barThickness <= 0 || maxGap <= 0 {
		return empty
	}

	// Smallest count that would not overflow the span if bars were packed
	// at exactly maxGap.
	blocks := freeLength / (barThickness + maxGap)
	n := int(math.Ceil(blocks - 1))
	if n < 0 {
		n = 0
	}

	spacing := uniformSpacing(freeLength, barThickness, n)
	// Spacing decreases monotonically with n, one extra bar is always enough.
	if spacing > maxGap+gapEpsilon {
		n++
		spacing = uniformSpacing(freeLength, barThickness, n)
	}

	if n <= 0 {
		return empty
	}
	return model.Distribution{Count: n, Gap: spacing, LeadIn: spacing}
}

// uniformSpacing returns the gap when n bars leave n+1 equal gaps.
func uniformSpacing(freeLength, barThickness float64, n int) float64 {
	return (freeLength - float64(n)*barThickness) / float64(n+1)
}

// BarPositions returns the offset of each bar's leading edge from the start
// of the free length.
func BarPositions(d model.Distribution, barThickness float64) []float64 {
	if d.Count <= 0 {
		return nil
	}
	positions := make([]float64, d.Count)
	for k := range positions {
		positions[k] = d.LeadIn + float64(k)*(barThickness+d.Gap)
	}
	return positions
}
