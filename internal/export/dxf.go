package export

import (
	"fmt"

	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"
)

// DXF layer names, one per member family.
const (
	LayerPosts       = "POSTS"
	LayerLinks       = "LINKS"
	LayerRails       = "RAILS"
	LayerBars        = "BARS"
	LayerAnnotations = "ANNOTATIONS"
)

// pieceSpacing is the vertical gap between stacked piece elevations, in mm.
const pieceSpacing = 500.0

// WriteElevationDXF writes one elevation per piece, in real millimetres,
// to a DXF file. Pieces are stacked upwards from the origin, each one
// overall height plus pieceSpacing above the previous.
func WriteElevationDXF(path string, plan model.Plan) error {
	if len(plan.Pieces) == 0 {
		return ErrEmptyPlan
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerPosts, color.Red},
		{LayerLinks, color.White},
		{LayerRails, color.Cyan},
		{LayerBars, color.Blue},
		{LayerAnnotations, color.Magenta},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, table.LT_CONTINUOUS, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	e := elevation{d: d, plan: plan}
	for i, p := range plan.Pieces {
		e.originY = float64(i) * (plan.OverallHeight + pieceSpacing)
		if err := e.piece(p); err != nil {
			return fmt.Errorf("failed to draw piece %d: %w", p.ID+1, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// elevation draws piece elevations into a drawing.
type elevation struct {
	d       *drawing.Drawing
	plan    model.Plan
	originY float64
}

func (e *elevation) piece(p model.PiecePlan) error {
	plan := e.plan
	height := plan.OverallHeight
	topThk := model.ParseThickness(plan.TopRailProfile)
	botThk := model.ParseThickness(plan.BottomRailProfile)

	cursor := 0.0
	section := 0
	for _, it := range p.Structure {
		switch {
		case it.Type.IsJoint():
			layer := LayerPosts
			if it.Type == model.ItemLink {
				layer = LayerLinks
			}
			w := plan.JointWidth(it.Type)
			if err := e.rect(layer, cursor, 0, w, height); err != nil {
				return err
			}
			cursor += w

		case it.Type == model.ItemSection:
			if section >= len(p.Sections) {
				continue
			}
			sp := p.Sections[section]
			section++

			if err := e.rect(LayerRails, cursor, height-topThk, sp.FreeLength, topThk); err != nil {
				return err
			}
			if err := e.rect(LayerRails, cursor, plan.BaselineHeight, sp.FreeLength, botThk); err != nil {
				return err
			}
			if err := e.bars(cursor, sp); err != nil {
				return err
			}
			cursor += sp.FreeLength
		}
	}

	if err := e.d.ChangeLayer(LayerAnnotations); err != nil {
		return err
	}
	label := fmt.Sprintf("Piece %d - L=%s mm", p.ID+1, formatMM(p.TotalLength))
	_, err := e.d.Text(label, 0, e.originY-100, 0, 50)
	return err
}

// bars draws the infill of one section starting at x.
func (e *elevation) bars(x float64, sp model.SectionPlan) error {
	plan := e.plan
	bottom := plan.BaselineHeight + model.ParseThickness(plan.BottomRailProfile)
	band := plan.InfillBand()

	if plan.Infill == model.InfillHorizontal {
		if plan.InfillDetail == nil {
			return nil
		}
		thk := model.ParseThickness(plan.BarProfile)
		for _, y := range engine.BarPositions(*plan.InfillDetail, thk) {
			if err := e.rect(LayerBars, x, bottom+y, sp.FreeLength, thk); err != nil {
				return err
			}
		}
		return nil
	}

	width := model.ParseDeduction(plan.BarProfile)
	for _, bx := range engine.BarPositions(sp.Distribution, width) {
		if err := e.rect(LayerBars, x+bx, bottom, width, band); err != nil {
			return err
		}
	}
	return nil
}

// rect draws an axis-aligned rectangle from its bottom-left corner, in
// piece coordinates.
func (e *elevation) rect(layer string, x, y, w, h float64) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := e.d.ChangeLayer(layer); err != nil {
		return err
	}
	y += e.originY
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		if _, err := e.d.Line(c[0], c[1], 0, n[0], n[1], 0); err != nil {
			return err
		}
	}
	return nil
}
