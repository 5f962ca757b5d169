package model

import (
	"errors"
	"fmt"
)

// ErrInvalidPlate is matched by every PlateFormatError.
var ErrInvalidPlate = errors.New("invalid plate geometry")

// PlateFormatError reports a plate string missing required numeric groups.
type PlateFormatError struct {
	Field string // "dimensions", "holes" or "pitches"
	Value string
	Want  int // number of values required
}

func (e *PlateFormatError) Error() string {
	return fmt.Sprintf("plate %s %q: expected at least %d numeric values", e.Field, e.Value, e.Want)
}

func (e *PlateFormatError) Is(target error) bool {
	return target == ErrInvalidPlate
}

// PlateSpec describes the base plate welded under each post.
type PlateSpec struct {
	Length       float64 `json:"length"`        // mm
	Width        float64 `json:"width"`         // mm
	Thickness    float64 `json:"thickness"`     // mm
	HoleCount    int     `json:"hole_count"`    // anchor holes
	HoleDiameter float64 `json:"hole_diameter"` // mm
	PitchLength  float64 `json:"pitch_length"`  // mm, hole centre distance along the length
	PitchWidth   float64 `json:"pitch_width"`   // mm, hole centre distance along the width
}

// ParsePlate builds a PlateSpec from its three form strings:
// dimensions "LxWxT", holes "N x D" and pitches "PLxPW".
func ParsePlate(dimensions, holes, pitches string) (*PlateSpec, error) {
	dims := dimensionTokens(dimensions)
	if len(dims) < 3 {
		return nil, &PlateFormatError{Field: "dimensions", Value: dimensions, Want: 3}
	}
	h := dimensionTokens(holes)
	if len(h) < 2 {
		return nil, &PlateFormatError{Field: "holes", Value: holes, Want: 2}
	}
	p := dimensionTokens(pitches)
	if len(p) < 2 {
		return nil, &PlateFormatError{Field: "pitches", Value: pitches, Want: 2}
	}
	return &PlateSpec{
		Length:       dims[0],
		Width:        dims[1],
		Thickness:    dims[2],
		HoleCount:    int(h[0]),
		HoleDiameter: h[1],
		PitchLength:  p[0],
		PitchWidth:   p[1],
	}, nil
}
