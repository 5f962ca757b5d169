package export

import (
	"testing"

	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
)

// buildTestRequest describes two identical two-section pieces and one
// single-section piece on base plates.
func buildTestRequest(infill model.InfillMode) model.Request {
	twoSpans := model.Piece{SectionCount: 2, Structure: []model.StructureItem{
		model.Post(), model.Section(1000), model.Link(), model.Section(1200), model.Post(),
	}}
	oneSpan := model.Piece{SectionCount: 1, Structure: []model.StructureItem{
		model.Post(), model.Section(800), model.Post(), model.Placeholder(),
	}}
	return model.Request{
		OverallHeight:     1020,
		BaselineHeight:    100,
		PostProfile:       "40x40",
		LinkProfile:       "40x20",
		TopRailProfile:    "40x40",
		BottomRailProfile: "40x40",
		BarProfile:        "20x20",
		MaxGap:            110,
		Fixation:          model.FixationPlate,
		Infill:            infill,
		PlateDimensions:   "200x200x10",
		PlateHoles:        "4 x 14",
		PlatePitches:      "160x160",
		PieceCount:        3,
		Pieces:            []model.Piece{twoSpans, twoSpans, oneSpan},
	}
}

func buildTestPlan(t *testing.T, infill model.InfillMode) model.Plan {
	t.Helper()
	plan, err := engine.Process(buildTestRequest(infill))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	return plan
}
