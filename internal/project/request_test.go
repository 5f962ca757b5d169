package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RailCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests", "terrace.json")

	req := model.DefaultFormDraft().ToRequest(model.InfillVertical, "core-drilled")
	req.Pieces = []model.Piece{{
		SectionCount: 1,
		Structure:    []model.StructureItem{model.Post(), model.Section(1500), model.Post()},
	}}
	req.PieceCount = 1

	require.NoError(t, SaveRequest(path, req))

	loaded, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, req, loaded)
}

func TestLoadRequestFrenchValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	data := []byte(`{
		"overall_height": 1020, "baseline_height": 100,
		"post_dims": "40x40", "link_dims": "40x20",
		"top_rail_dims": "40x40", "bottom_rail_dims": "40x40", "bar_dims": "20x20",
		"max_gap": 110, "fixation": "platine", "infill": "barreaudage_horizontal",
		"pieces": [{"section_count": 1, "structure": [
			{"type": "poteau"}, {"type": "section", "length": 1000}, {"type": "rien"}, {"type": "poteau"}
		]}]
	}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, model.InfillHorizontal, req.Infill)
	assert.True(t, model.IsPlateFixation(req.Fixation))
	assert.Equal(t, model.ItemNone, req.Pieces[0].Structure[2].Type)
	assert.Equal(t, 1000.0, req.Pieces[0].TotalLength())
}

func TestLoadRequestErrors(t *testing.T) {
	_, err := LoadRequest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pieces": [{"structure": [{"type": "beam"}]}]}`), 0644))
	_, err = LoadRequest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beam")
}

func TestSavePlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	plan := model.Plan{
		Description:  "Guardrail in 1 piece(s).",
		Nomenclature: []model.NomenclatureLine{{Label: "Posts", Detail: "40x40", Quantity: 2, UnitLength: 1020}},
	}
	require.NoError(t, SavePlan(path, plan))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Guardrail in 1 piece(s).", decoded["description"])
	lines := decoded["nomenclature"].([]any)
	assert.Equal(t, "Posts", lines[0].(map[string]any)["item"])
}
