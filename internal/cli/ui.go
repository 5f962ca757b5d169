package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber      = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning     = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(msg))
}

// printFile prints an indented output file line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printPlan prints the plan description, the section count and the
// nomenclature table.
func printPlan(w io.Writer, plan model.Plan) {
	sections := 0
	for _, p := range plan.Pieces {
		sections += len(p.Sections)
	}
	fmt.Fprintln(w, styleTitle.Render(plan.Description))
	fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		styleDim.Render("pieces"), styleNumber.Render(strconv.Itoa(len(plan.Pieces))),
		styleDim.Render("sections"), styleNumber.Render(strconv.Itoa(sections)),
		styleDim.Render("length"), styleNumber.Render(strconv.FormatFloat(plan.TotalLength(), 'f', -1, 64)+" mm"))
	fmt.Fprintln(w, renderNomenclature(plan.Nomenclature))
}

// renderNomenclature renders the bill of materials as a bordered table.
func renderNomenclature(lines []model.NomenclatureLine) string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.Label,
			l.Detail,
			strconv.Itoa(l.Quantity),
			strconv.Itoa(l.UnitLength),
			strconv.Itoa(l.Quantity * l.UnitLength),
		})
	}

	return renderTable([]string{"Item", "Details", "Qty", "Unit (mm)", "Total (mm)"}, rows, 2)
}

// renderTable renders a bordered table. Columns from firstNumeric on are
// right-aligned.
func renderTable(headers []string, rows [][]string, firstNumeric int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col >= firstNumeric {
				return styleCell.Align(lipgloss.Right)
			}
			return styleCell
		})
	return t.Render()
}

// printStock prints one line per profile with the bars used, the
// efficiency and the remnants worth keeping.
func printStock(w io.Writer, stock []model.StockPlan, minOffcut float64) {
	rows := make([][]string, 0, len(stock))
	for _, s := range stock {
		offcuts := make([]string, 0)
		for _, o := range s.Offcuts(minOffcut) {
			offcuts = append(offcuts, strconv.FormatFloat(o, 'f', 0, 64))
		}
		rows = append(rows, []string{
			s.Profile,
			strconv.Itoa(len(s.Bars)),
			strconv.FormatFloat(s.Efficiency(), 'f', 1, 64) + "%",
			strings.Join(offcuts, ", "),
		})
	}
	fmt.Fprintln(w, styleTitle.Render("Stock"))
	fmt.Fprintln(w, renderTable([]string{"Profile", "Bars", "Efficiency", "Offcuts (mm)"}, rows, 1))
}

// printComparison prints the nesting of each stock scenario side by side.
func printComparison(w io.Writer, results []engine.ComparisonResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Scenario.Name,
			strconv.Itoa(r.BarsUsed),
			strconv.FormatFloat(r.StockLength, 'f', 0, 64),
			strconv.FormatFloat(r.WastePercent, 'f', 1, 64) + "%",
			strconv.Itoa(r.UnplacedCount),
		})
	}
	fmt.Fprintln(w, styleTitle.Render("Stock comparison"))
	fmt.Fprintln(w, renderTable([]string{"Scenario", "Bars", "Stock (mm)", "Waste", "Too long"}, rows, 1))
}
