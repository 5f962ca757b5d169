package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/RailCut/internal/model"
)

// Aggregate builds the bill of materials for resolved pieces. Lines come in
// cut-list order: posts, links, top rail, bottom rail, then infill.
//
// For horizontal infill it also returns the single distribution computed
// over the height band between the rails; it is nil otherwise.
func Aggregate(req model.Request, pieces []model.PiecePlan) ([]model.NomenclatureLine, *model.Distribution) {
	lines := []model.NomenclatureLine{}

	var posts, links int
	for _, p := range req.Pieces {
		posts += p.CountType(model.ItemPost)
		links += p.CountType(model.ItemLink)
	}
	height := roundMM(req.OverallHeight)
	if posts > 0 {
		lines = append(lines, model.NomenclatureLine{Label: "Posts", Detail: req.PostProfile, Quantity: posts, UnitLength: height})
	}
	if links > 0 {
		lines = append(lines, model.NomenclatureLine{Label: "Links", Detail: req.LinkProfile, Quantity: links, UnitLength: height})
	}

	var railLength float64
	for _, p := range pieces {
		for _, s := range p.Sections {
			railLength += s.FreeLength
		}
	}
	if railLength > 0 {
		lines = append(lines,
			model.NomenclatureLine{Label: "Top rail", Detail: req.TopRailProfile, Quantity: 1, UnitLength: roundMM(railLength)},
			model.NomenclatureLine{Label: "Bottom rail", Detail: req.BottomRailProfile, Quantity: 1, UnitLength: roundMM(railLength)},
		)
	}

	band := req.OverallHeight - req.BaselineHeight - model.ParseThickness(req.TopRailProfile) - model.ParseThickness(req.BottomRailProfile)

	switch req.Infill {
	case model.InfillVertical:
		bars := 0
		for _, p := range pieces {
			for _, s := range p.Sections {
				bars += s.Distribution.Count
			}
		}
		if bars > 0 {
			lines = append(lines, model.NomenclatureLine{Label: "Bars", Detail: req.BarProfile, Quantity: bars, UnitLength: roundMM(band)})
		}
		return lines, nil

	case model.InfillHorizontal:
		dist := Distribute(band, model.ParseThickness(req.BarProfile), req.MaxGap)
		if dist.Count > 0 {
			for _, g := range groupByFreeLength(pieces) {
				lines = append(lines, model.NomenclatureLine{
					Label:      fmt.Sprintf("Bars L=%dmm", g.length),
					Detail:     req.BarProfile,
					Quantity:   dist.Count * g.sections,
					UnitLength: g.length,
				})
			}
		}
		return lines, &dist
	}
	return lines, nil
}

// lengthGroup counts sections sharing one rounded free length.
type lengthGroup struct {
	length   int
	sections int
}

// groupByFreeLength groups sections by rounded free length, in order of
// first appearance. Sections whose rounded length is not positive are
// skipped. Two sections less than half a millimetre apart end up in the
// same group.
func groupByFreeLength(pieces []model.PiecePlan) []lengthGroup {
	var groups []lengthGroup
	index := map[int]int{}
	for _, p := range pieces {
		for _, s := range p.Sections {
			l := roundMM(s.FreeLength)
			if l <= 0 {
				continue
			}
			if i, ok := index[l]; ok {
				groups[i].sections++
				continue
			}
			index[l] = len(groups)
			groups = append(groups, lengthGroup{length: l, sections: 1})
		}
	}
	return groups
}

// roundMM rounds a length to the nearest whole millimetre for display.
func roundMM(v float64) int {
	return int(math.Round(v))
}
