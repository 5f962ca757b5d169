package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RailCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCutListXLSX(t *testing.T) {
	plan := buildTestPlan(t, model.InfillVertical)

	var buf bytes.Buffer
	require.NoError(t, WriteCutListXLSX(&buf, plan))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCutList, SheetSections}, f.GetSheetList())

	rows, err := f.GetRows(SheetCutList)
	require.NoError(t, err)
	require.Len(t, rows, len(plan.Nomenclature)+1)
	assert.Equal(t, cutListHeader, rows[0])
	assert.Equal(t, "Posts", rows[1][0])
	assert.Equal(t, "40x40", rows[1][1])
	assert.Equal(t, "6", rows[1][2])
	assert.Equal(t, "1020", rows[1][3])
	assert.Equal(t, "6120", rows[1][4])

	sections, err := f.GetRows(SheetSections)
	require.NoError(t, err)
	// Two pieces of two sections and one of one.
	require.Len(t, sections, 6)
	assert.Equal(t, sectionsHeader, sections[0])
	assert.Equal(t, []string{"1", "1", "1000", "950"}, sections[1][:4])
	assert.Equal(t, []string{"3", "1", "800", "720"}, sections[5][:4])
}

func TestExportCutListXLSX_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.xlsx")
	require.NoError(t, ExportCutListXLSX(path, buildTestPlan(t, model.InfillHorizontal)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteCutListXLSX_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCutListXLSX(&buf, model.Plan{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetCutList)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 106.7, roundTenth(106.66666))
	assert.Equal(t, -20.0, roundTenth(-20.04))
	assert.Equal(t, 0.0, roundTenth(0))
}

func TestWriteCutListXLSX_StockSheet(t *testing.T) {
	plan := buildTestPlan(t, model.InfillVertical)
	plan.Stock = []model.StockPlan{{
		Profile:     "40x40",
		StockLength: 6000,
		Bars: []model.StockBar{
			{Cuts: []model.Cut{{Length: 1020}, {Length: 950.5}}, Used: 1973.5, Remnant: 4026.5},
		},
		Unplaced: []model.Cut{{Length: 7000}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCutListXLSX(&buf, plan))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCutList, SheetSections, SheetStock}, f.GetSheetList())

	rows, err := f.GetRows(SheetStock)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, stockHeader, rows[0])
	assert.Equal(t, []string{"40x40", "1", "1020 + 950.5", "1973.5", "4026.5"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 3)
	assert.Equal(t, []string{"40x40", "too long", "7000"}, rows[2][:3])
}
