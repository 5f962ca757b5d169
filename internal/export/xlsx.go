package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/piwi3910/RailCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the cut-list workbook.
const (
	SheetCutList  = "Cut list"
	SheetSections = "Sections"
	SheetStock    = "Stock"
)

var (
	cutListHeader  = []string{"Item", "Details", "Quantity", "Unit length (mm)", "Total length (mm)"}
	sectionsHeader = []string{"Piece", "Section", "Length (mm)", "Free length (mm)", "Bars", "Gap (mm)", "Lead-in (mm)"}
	stockHeader    = []string{"Profile", "Bar", "Cuts (mm)", "Used (mm)", "Remnant (mm)"}
)

// ExportCutListXLSX writes the cut list workbook to a file.
func ExportCutListXLSX(path string, plan model.Plan) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCutListXLSX(out, plan); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteCutListXLSX writes a workbook with the nomenclature on the "Cut list"
// sheet and one row per resolved section on the "Sections" sheet. A nested
// plan also gets a "Stock" sheet with one row per stock bar.
func WriteCutListXLSX(w io.Writer, plan model.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCutList); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSections); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DCDCDC"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	cutList := make([][]any, 0, len(plan.Nomenclature))
	for _, line := range plan.Nomenclature {
		cutList = append(cutList, []any{line.Label, line.Detail, line.Quantity, line.UnitLength, line.Quantity * line.UnitLength})
	}
	if err := writeTable(f, SheetCutList, cutListHeader, cutList, headerStyle, []float64{20, 20, 12, 18, 18}); err != nil {
		return err
	}

	var sections [][]any
	for _, p := range plan.Pieces {
		for i, s := range p.Sections {
			sections = append(sections, []any{
				p.ID + 1,
				i + 1,
				s.RawLength,
				roundTenth(s.FreeLength),
				s.Distribution.Count,
				roundTenth(s.Distribution.Gap),
				roundTenth(s.Distribution.LeadIn),
			})
		}
	}
	if err := writeTable(f, SheetSections, sectionsHeader, sections, headerStyle, []float64{10, 10, 14, 16, 8, 12, 14}); err != nil {
		return err
	}

	if len(plan.Stock) > 0 {
		if err := writeStockSheet(f, plan.Stock, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeStockSheet(f *excelize.File, stock []model.StockPlan, headerStyle int) error {
	if _, err := f.NewSheet(SheetStock); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	var rows [][]any
	for _, s := range stock {
		for i, b := range s.Bars {
			cuts := make([]string, len(b.Cuts))
			for j, c := range b.Cuts {
				cuts[j] = formatMM(c.Length)
			}
			rows = append(rows, []any{s.Profile, i + 1, strings.Join(cuts, " + "), roundTenth(b.Used), roundTenth(b.Remnant)})
		}
		for _, c := range s.Unplaced {
			rows = append(rows, []any{s.Profile, "too long", formatMM(c.Length)})
		}
	}
	return writeTable(f, SheetStock, stockHeader, rows, headerStyle, []float64{12, 10, 48, 12, 14})
}

// writeTable writes a styled header row, the data rows and column widths,
// and freezes the header.
func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int, widths []float64) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// roundTenth rounds to 0.1 mm, the precision shown in the workshop.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
