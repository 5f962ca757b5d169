package export

import "math"

// Canvas is a rectangular drawing area on the page, in page units (mm),
// with Y growing downwards.
type Canvas struct {
	X, Y, W, H float64
}

// ScaleFor returns the largest uniform scale at which a realW x realH
// drawing fits inside canvasW x canvasH. It is 0 when realW <= 0, in which
// case nothing should be drawn.
func ScaleFor(realW, realH, canvasW, canvasH float64) float64 {
	if realW <= 0 {
		return 0
	}
	scale := canvasW / realW
	if realH > 0 {
		scale = math.Min(scale, canvasH/realH)
	}
	return scale
}

// Mapper converts real-world millimetres (Y up) to page coordinates
// (Y down), centred in a canvas.
type Mapper struct {
	Scale   float64
	originX float64 // page X of real x = 0
	originY float64 // page Y of real y = 0
}

// NewMapper fits a realW x realH drawing into the canvas.
func NewMapper(realW, realH float64, c Canvas) Mapper {
	scale := ScaleFor(realW, realH, c.W, c.H)
	return Mapper{
		Scale:   scale,
		originX: c.X + (c.W-realW*scale)/2,
		originY: c.Y + c.H - (c.H-realH*scale)/2,
	}
}

// Valid reports whether the mapper can draw anything.
func (m Mapper) Valid() bool {
	return m.Scale > 0
}

// Transform maps a real-world point to page coordinates.
func (m Mapper) Transform(x, y float64) (float64, float64) {
	return m.originX + x*m.Scale, m.originY - y*m.Scale
}

// Len scales a real-world length.
func (m Mapper) Len(v float64) float64 {
	return v * m.Scale
}
