package engine

import (
	"github.com/piwi3910/RailCut/internal/model"
)

// Resolver turns pieces into section plans for one request.
type Resolver struct {
	Deductions   map[model.ItemType]float64 // mm taken off adjoining spans, per joint type
	Infill       model.InfillMode
	MaxGap       float64 // mm
	BarThickness float64 // mm, bar width along the run (vertical infill)
}

// NewResolver builds a Resolver from the request's profiles.
func NewResolver(req model.Request) Resolver {
	return Resolver{
		Deductions: map[model.ItemType]float64{
			model.ItemPost: model.ParseDeduction(req.PostProfile),
			model.ItemLink: model.ParseDeduction(req.LinkProfile),
		},
		Infill:       req.Infill,
		MaxGap:       req.MaxGap,
		BarThickness: model.ParseDeduction(req.BarProfile),
	}
}

// Resolve computes the free length of every section of a piece and, for
// vertical infill, its bar distribution.
//
// A joint at either end of the piece is consumed entirely by its single
// neighbouring section; an interior joint is shared, half going to each
// side. Horizontal infill is distributed once for the whole assembly, so
// sections only record their free length here.
func (r Resolver) Resolve(id int, piece model.Piece) (model.PiecePlan, error) {
	items := piece.Items()
	if err := checkAlternation(id+1, items); err != nil {
		return model.PiecePlan{}, err
	}

	sections := make([]model.SectionPlan, 0, len(items)/2)
	last := len(items) - 1
	for i := 1; i < last; i += 2 {
		left, section, right := items[i-1], items[i], items[i+1]

		deductLeft := r.share(left.Type, i-1 == 0)
		deductRight := r.share(right.Type, i+1 == last)
		free := section.Length - deductLeft - deductRight

		var dist model.Distribution
		if r.Infill == model.InfillVertical {
			dist = Distribute(free, r.BarThickness, r.MaxGap)
		}
		sections = append(sections, model.SectionPlan{
			RawLength:    section.Length,
			FreeLength:   free,
			Distribution: dist,
		})
	}

	return model.PiecePlan{
		ID:          id,
		TotalLength: piece.TotalLength(),
		Structure:   piece.Structure,
		Sections:    sections,
	}, nil
}

// share returns the part of a joint's deduction consumed by one section.
func (r Resolver) share(t model.ItemType, terminal bool) float64 {
	d := r.Deductions[t]
	if terminal {
		return d
	}
	return d / 2
}
