package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemTypeUnmarshalAliases(t *testing.T) {
	data := []byte(`{"section_count":1,"structure":[
		{"type":"poteau"},
		{"type":"section","length":1500},
		{"type":"rien"},
		{"type":"liaison"}
	]}`)

	var p Piece
	require.NoError(t, json.Unmarshal(data, &p))
	require.Len(t, p.Structure, 4)
	assert.Equal(t, ItemPost, p.Structure[0].Type)
	assert.Equal(t, ItemSection, p.Structure[1].Type)
	assert.Equal(t, 1500.0, p.Structure[1].Length)
	assert.Equal(t, ItemNone, p.Structure[2].Type)
	assert.Equal(t, ItemLink, p.Structure[3].Type)
}

func TestItemTypeUnmarshalUnknown(t *testing.T) {
	var it StructureItem
	err := json.Unmarshal([]byte(`{"type":"gate"}`), &it)
	assert.Error(t, err)
}

func TestInfillModeUnmarshal(t *testing.T) {
	var r Request
	require.NoError(t, json.Unmarshal([]byte(`{"infill":"barreaudage_horizontal"}`), &r))
	assert.Equal(t, InfillHorizontal, r.Infill)

	require.NoError(t, json.Unmarshal([]byte(`{"infill":"Vertical"}`), &r))
	assert.Equal(t, InfillVertical, r.Infill)
}

func TestParseInfillMode(t *testing.T) {
	assert.Equal(t, InfillHorizontal, ParseInfillMode(" HORIZONTAL "))
	assert.Equal(t, InfillVertical, ParseInfillMode("barreaudage_vertical"))
	assert.Equal(t, InfillMode("diagonal"), ParseInfillMode("diagonal"))
}

func TestIsPlateFixation(t *testing.T) {
	assert.True(t, IsPlateFixation("plate"))
	assert.True(t, IsPlateFixation("Platine"))
	assert.False(t, IsPlateFixation("embedded"))
	assert.False(t, IsPlateFixation(""))
}

func TestPieceItemsAndTotalLength(t *testing.T) {
	p := Piece{Structure: []StructureItem{
		Post(), Section(1200), Placeholder(), Link(), Section(800), Post(),
	}}

	items := p.Items()
	assert.Len(t, items, 5)
	for _, it := range items {
		assert.NotEqual(t, ItemNone, it.Type)
	}
	assert.Equal(t, 2000.0, p.TotalLength())
	assert.Equal(t, 2, p.CountType(ItemPost))
	assert.Equal(t, 1, p.CountType(ItemLink))
}

func TestStructureKey(t *testing.T) {
	a := []StructureItem{Post(), Section(1000), Post()}
	b := []StructureItem{Post(), Section(1000), Post()}
	c := []StructureItem{Post(), Section(1000.5), Post()}

	assert.Equal(t, StructureKey(a), StructureKey(b))
	assert.NotEqual(t, StructureKey(a), StructureKey(c))
	assert.Equal(t, "post|section:1000|post", StructureKey(a))
}

func TestPlanGroupIdentical(t *testing.T) {
	shapeA := []StructureItem{Post(), Section(1000), Post()}
	shapeB := []StructureItem{Post(), Section(2000), Link()}
	plan := Plan{Pieces: []PiecePlan{
		{ID: 0, Structure: shapeA, TotalLength: 1000},
		{ID: 1, Structure: shapeB, TotalLength: 2000},
		{ID: 2, Structure: shapeA, TotalLength: 1000},
	}}

	groups := plan.GroupIdentical()
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].Piece.ID)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 1, groups[1].Piece.ID)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, 4000.0, plan.TotalLength())
}

func TestPlanInfillBand(t *testing.T) {
	plan := Plan{
		OverallHeight:     1020,
		BaselineHeight:    100,
		TopRailProfile:    "40x40",
		BottomRailProfile: "30x30",
	}
	assert.Equal(t, 850.0, plan.InfillBand())
}

func TestDraftToRequest(t *testing.T) {
	d := DefaultFormDraft()
	d.Pieces = []Piece{{SectionCount: 1, Structure: []StructureItem{Post(), Section(900), Post()}}}

	req := d.ToRequest(InfillVertical, "plate")
	assert.Equal(t, 1, req.PieceCount)
	assert.Equal(t, 1020.0, req.OverallHeight)
	assert.Equal(t, "plate", req.Fixation)
	assert.NoError(t, req.Validate())
}
