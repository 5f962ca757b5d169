package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/piwi3910/RailCut/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRequest() model.Request {
	req := model.DefaultFormDraft().ToRequest(model.InfillVertical, "")
	req.Pieces = []model.Piece{
		{SectionCount: 2, Structure: []model.StructureItem{
			model.Post(), model.Section(1000), model.Link(), model.Section(1200), model.Post(),
		}},
	}
	req.PieceCount = 1
	return req
}

func TestPlanFromCSV(t *testing.T) {
	path := writeFile(t, "pieces.csv", "piece,type,length\n1,post,\n1,section,1000\n1,post,\n")

	out, _, err := run(t, "plan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Guardrail in 1 piece(s).")
	assert.Contains(t, out, "Posts")
	assert.Contains(t, out, "Top rail")
	assert.Contains(t, out, "Stock")
	assert.Contains(t, out, "40x40")
}

func TestPlanStockFlags(t *testing.T) {
	path := writeFile(t, "pieces.csv", "piece,type,length\n1,post,\n1,section,1000\n1,post,\n")

	out, _, err := run(t, "plan", path, "--stock-length", "0", "--json", "-")
	require.NoError(t, err)
	var plan model.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Empty(t, plan.Stock, "nesting disabled")

	out, _, err = run(t, "plan", path, "--stock-length", "3000", "--kerf", "0", "--json", "-")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.NotEmpty(t, plan.Stock)
	assert.Equal(t, 3000.0, plan.Stock[0].StockLength)

	out, _, err = run(t, "plan", path, "--compare-stock", "3000,6500")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock comparison")
	assert.Contains(t, out, "Stock 3000 mm")
	assert.Contains(t, out, "Stock 6500 mm")
}

func TestPlanJSONToStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, project.SaveRequest(path, testRequest()))

	out, _, err := run(t, "plan", path, "--json", "-")
	require.NoError(t, err)

	var plan model.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Pieces, 1)
	assert.Len(t, plan.Pieces[0].Sections, 2)
	assert.Equal(t, 2200.0, plan.Pieces[0].TotalLength)
}

func TestPlanJSONToStdoutStillWritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.json")
	require.NoError(t, project.SaveRequest(path, testRequest()))
	pdf := filepath.Join(dir, "plan.pdf")
	xlsx := filepath.Join(dir, "cut.xlsx")

	out, stderr, err := run(t, "plan", path, "--json", "-", "--pdf", pdf, "--xlsx", xlsx)
	require.NoError(t, err)

	var plan model.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan), "stdout holds only the plan")
	assert.Len(t, plan.Pieces, 1)
	assert.Contains(t, stderr, "Wrote 2 file(s)")

	for _, p := range []string{pdf, xlsx} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestPlanWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.json")
	require.NoError(t, project.SaveRequest(path, testRequest()))

	outputs := map[string]string{
		"--pdf":    filepath.Join(dir, "plan.pdf"),
		"--xlsx":   filepath.Join(dir, "cut.xlsx"),
		"--dxf":    filepath.Join(dir, "elevation.dxf"),
		"--labels": filepath.Join(dir, "labels.pdf"),
		"--json":   filepath.Join(dir, "out", "plan.json"),
	}
	args := []string{"plan", path}
	for flag, p := range outputs {
		args = append(args, flag, p)
	}

	out, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 5 file(s)")

	for flag, p := range outputs {
		info, err := os.Stat(p)
		require.NoError(t, err, flag)
		assert.Positive(t, info.Size(), flag)
	}
}

func TestPlanErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := run(t, "plan", writeFile(t, "pieces.txt", "x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported input")
	})

	t.Run("import errors", func(t *testing.T) {
		_, stderr, err := run(t, "plan", writeFile(t, "pieces.csv", "piece,type,length\n1,gate,\n"))
		require.Error(t, err)
		assert.Contains(t, stderr, "Unknown item type 'gate'")
	})

	t.Run("structure mismatch", func(t *testing.T) {
		_, _, err := run(t, "plan", writeFile(t, "pieces.csv", "piece,type,length\n1,section,1000\n1,post,\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, engine.ErrStructureMismatch))
	})

	t.Run("invalid infill", func(t *testing.T) {
		_, _, err := run(t, "plan", writeFile(t, "pieces.csv", "1,post,\n1,section,1000\n1,post,\n"), "--infill", "diagonal")
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}
