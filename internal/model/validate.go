package model

import (
	"fmt"
	"strings"
)

// ValidationError lists every field problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks types and ranges before the engine runs. Structural
// alternation of joints and sections is left to the engine, which reports
// it with the position of the offending item.
func (r Request) Validate() error {
	v := &ValidationError{}

	if r.OverallHeight <= 0 {
		v.add("overall_height must be positive")
	}
	if r.BaselineHeight < 0 {
		v.add("baseline_height must not be negative")
	}
	if r.OverallHeight > 0 && r.BaselineHeight >= r.OverallHeight {
		v.add("baseline_height must be below overall_height")
	}
	if r.MaxGap <= 0 {
		v.add("max_gap must be positive")
	}
	if r.Infill != InfillVertical && r.Infill != InfillHorizontal {
		v.add("infill must be %q or %q, got %q", InfillVertical, InfillHorizontal, r.Infill)
	}

	profiles := []struct {
		name  string
		value string
	}{
		{"post_dims", r.PostProfile},
		{"link_dims", r.LinkProfile},
		{"top_rail_dims", r.TopRailProfile},
		{"bottom_rail_dims", r.BottomRailProfile},
		{"bar_dims", r.BarProfile},
	}
	for _, p := range profiles {
		if strings.TrimSpace(p.value) == "" {
			v.add("%s is required", p.name)
		}
	}

	if len(r.Pieces) == 0 {
		v.add("at least one piece is required")
	}
	for i, piece := range r.Pieces {
		if len(piece.Structure) == 0 {
			v.add("piece %d: structure is empty", i+1)
			continue
		}
		for j, it := range piece.Structure {
			if it.Type == ItemSection && it.Length <= 0 {
				v.add("piece %d item %d: section length must be positive", i+1, j+1)
			}
		}
	}

	if len(v.Problems) > 0 {
		return v
	}
	return nil
}
