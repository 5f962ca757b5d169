package engine

import (
	"fmt"

	"github.com/piwi3910/RailCut/internal/model"
)

// Process runs the full pipeline for a request: every piece is resolved,
// the bill of materials is aggregated and, for plate fixation, the plate
// geometry is parsed. The first structural error aborts the request.
//
// The result only depends on req, so identical requests yield identical
// plans.
func Process(req model.Request) (model.Plan, error) {
	resolver := NewResolver(req)

	pieces := make([]model.PiecePlan, 0, len(req.Pieces))
	for i, p := range req.Pieces {
		plan, err := resolver.Resolve(i, p)
		if err != nil {
			return model.Plan{}, err
		}
		pieces = append(pieces, plan)
	}

	nomenclature, infill := Aggregate(req, pieces)

	var plate *model.PlateSpec
	if model.IsPlateFixation(req.Fixation) && req.PlateDimensions != "" && req.PlateHoles != "" && req.PlatePitches != "" {
		var err error
		plate, err = model.ParsePlate(req.PlateDimensions, req.PlateHoles, req.PlatePitches)
		if err != nil {
			return model.Plan{}, err
		}
	}

	count := req.PieceCount
	if count <= 0 {
		count = len(req.Pieces)
	}

	return model.Plan{
		Description:       fmt.Sprintf("Guardrail in %d piece(s).", count),
		Nomenclature:      nomenclature,
		Pieces:            pieces,
		OverallHeight:     req.OverallHeight,
		BaselineHeight:    req.BaselineHeight,
		PostProfile:       req.PostProfile,
		LinkProfile:       req.LinkProfile,
		TopRailProfile:    req.TopRailProfile,
		BottomRailProfile: req.BottomRailProfile,
		BarProfile:        req.BarProfile,
		Plate:             plate,
		Infill:            req.Infill,
		InfillDetail:      infill,
	}, nil
}
