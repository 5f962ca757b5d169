// Package export renders fabrication plans to drawings and cut lists.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
)

// rgb is a drawing color.
type rgb struct {
	R, G, B int
}

// Member colors, shared by every page of the plan.
var (
	colorPost  = rgb{217, 30, 24}
	colorRail  = rgb{26, 188, 156}
	colorBar   = rgb{52, 152, 219}
	colorDim   = rgb{142, 68, 173}
	colorLink  = rgb{108, 117, 125}
	colorPlate = rgb{44, 62, 80}
	colorText  = rgb{0, 0, 0}
)

func jointColor(t model.ItemType) rgb {
	if t == model.ItemLink {
		return colorLink
	}
	return colorPost
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0

	overviewHeight = 20.0
	pieceMargin    = 40.0
)

// ErrEmptyPlan is returned when a plan has no pieces to draw.
var ErrEmptyPlan = errors.New("plan has no pieces")

// ExportPlanPDF writes the fabrication plan to a PDF file.
func ExportPlanPDF(path string, plan model.Plan) error {
	pdf, err := buildPlanPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePlanPDF writes the fabrication plan as a PDF document to w.
//
// The first page holds an overview strip of all pieces and the
// nomenclature table. Each group of identically built pieces then gets one
// elevation page, and a plate detail page closes the document when the plan
// carries plate geometry.
func WritePlanPDF(w io.Writer, plan model.Plan) error {
	pdf, err := buildPlanPDF(plan)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPlanPDF(plan model.Plan) (*fpdf.Fpdf, error) {
	if len(plan.Pieces) == 0 {
		return nil, ErrEmptyPlan
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "I", 8)
		setText(pdf, colorText)
		pdf.SetXY(marginLeft, pageHeight-marginBottom+3)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	renderOverviewPage(pdf, plan)

	for _, g := range plan.GroupIdentical() {
		pdf.AddPage()
		renderPiecePage(pdf, plan, g)
	}

	if plan.Plate != nil {
		pdf.AddPage()
		renderPlatePage(pdf, plan.PostProfile, *plan.Plate)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render plan: %w", err)
	}
	return pdf, nil
}

// renderOverviewPage draws the title, the strip of all pieces laid end to
// end and the nomenclature table.
func renderOverviewPage(pdf *fpdf.Fpdf, plan model.Plan) {
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 15)
	setText(pdf, colorText)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW, headerHeight, "Fabrication Plan - Guardrail", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(contentW, 5, plan.Description, "", 0, "C", false, 0, "")

	y := marginTop + headerHeight + 10
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentW, 8, "1. Overview", "", 0, "L", false, 0, "")
	y += 10

	total := plan.TotalLength()
	if total > 0 {
		scale := contentW / total
		top := y
		cursor := 0.0

		pdf.SetLineWidth(0.3)
		for _, p := range plan.Pieces {
			cursor = drawStrip(pdf, plan, p, marginLeft, top, scale, cursor)
		}

		drawHorizontalDim(pdf, marginLeft, top+overviewHeight+8, total*scale, fmt.Sprintf("Total length: %s mm", formatMM(total)))
		y = top + overviewHeight + 14
	}

	pdf.SetFont("Helvetica", "B", 12)
	setText(pdf, colorText)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentW, 8, "2. Nomenclature", "", 0, "L", false, 0, "")
	y += 10

	renderNomenclatureTable(pdf, plan.Nomenclature, y)
}

// drawStrip draws one piece of the overview strip starting at real
// position cursor and returns the position after it.
func drawStrip(pdf *fpdf.Fpdf, plan model.Plan, p model.PiecePlan, x0, top, scale, cursor float64) float64 {
	section := 0
	for _, it := range p.Structure {
		switch {
		case it.Type.IsJoint():
			w := plan.JointWidth(it.Type)
			setDraw(pdf, jointColor(it.Type))
			pdf.Rect(x0+cursor*scale, top, w*scale, overviewHeight, "D")
			cursor += w
		case it.Type == model.ItemSection:
			if section >= len(p.Sections) {
				continue
			}
			free := p.Sections[section].FreeLength
			section++
			setDraw(pdf, colorRail)
			pdf.Rect(x0+cursor*scale, top, free*scale, overviewHeight, "D")
			cursor += free
		}
	}
	return cursor
}

// renderNomenclatureTable draws the bill of materials as a bordered table.
func renderNomenclatureTable(pdf *fpdf.Fpdf, lines []model.NomenclatureLine, y float64) {
	colWidths := []float64{60, 80, 40, 60}
	headers := []string{"Item", "Details", "Quantity", "Unit length"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	setText(pdf, colorText)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 7, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 7

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range lines {
		cells := []struct {
			text  string
			align string
		}{
			{line.Label, "L"},
			{line.Detail, "L"},
			{fmt.Sprintf("%d", line.Quantity), "C"},
			{fmt.Sprintf("%d mm", line.UnitLength), "R"},
		}
		xPos = marginLeft
		for i, c := range cells {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, c.text, "1", 0, c.align, false, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
	}
}

// renderPiecePage draws the elevation of one piece with its rails, bars and
// dimensions.
func renderPiecePage(pdf *fpdf.Fpdf, plan model.Plan, g model.PieceGroup) {
	p := g.Piece
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 12)
	setText(pdf, colorText)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW, 8, fmt.Sprintf("Piece detail (length %s mm)", formatMM(p.TotalLength)), "", 0, "C", false, 0, "")
	if g.Count > 1 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetXY(marginLeft, marginTop+8)
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Repeated %d times", g.Count), "", 0, "C", false, 0, "")
	}

	drawLegend(pdf, plan)

	height := plan.OverallHeight
	m := NewMapper(p.TotalLength, height, Canvas{
		X: pieceMargin,
		Y: pieceMargin,
		W: pageWidth - 2*pieceMargin,
		H: pageHeight - 2*pieceMargin - 40,
	})
	if !m.Valid() {
		return
	}

	topThk := model.ParseThickness(plan.TopRailProfile)
	botThk := model.ParseThickness(plan.BottomRailProfile)
	baseline := plan.BaselineHeight

	pdf.SetLineWidth(0.3)
	cursor := 0.0
	section := 0
	for _, it := range p.Structure {
		switch {
		case it.Type.IsJoint():
			w := plan.JointWidth(it.Type)
			setDraw(pdf, jointColor(it.Type))
			rectReal(pdf, m, cursor, height, w, height)
			cursor += w

		case it.Type == model.ItemSection:
			if section >= len(p.Sections) {
				continue
			}
			sp := p.Sections[section]
			section++

			setDraw(pdf, colorRail)
			rectReal(pdf, m, cursor, height, sp.FreeLength, topThk)
			rectReal(pdf, m, cursor, baseline+botThk, sp.FreeLength, botThk)

			setDraw(pdf, colorBar)
			if plan.Infill == model.InfillHorizontal {
				drawHorizontalBars(pdf, m, plan, cursor, sp.FreeLength)
			} else {
				drawVerticalBars(pdf, m, plan, cursor, sp.Distribution)
			}
			cursor += sp.FreeLength
		}
	}

	x0, y0 := m.Transform(0, 0)
	_, yBase := m.Transform(0, baseline)
	drawVerticalDim(pdf, x0-5, y0, m.Len(height), formatMM(height), false)
	drawVerticalDim(pdf, x0-15, y0, y0-yBase, formatMM(baseline), false)
	drawHorizontalDim(pdf, x0, y0+8, m.Len(p.TotalLength), fmt.Sprintf("Total: %s", formatMM(p.TotalLength)))

	sx := 0.0
	for _, it := range p.Structure {
		if it.Type != model.ItemSection {
			continue
		}
		xs, _ := m.Transform(sx, 0)
		drawHorizontalDim(pdf, xs, y0+18, m.Len(it.Length), fmt.Sprintf("Section: %s", formatMM(it.Length)))
		sx += it.Length
	}
}

// drawVerticalBars draws the balusters of one section, between the rails.
func drawVerticalBars(pdf *fpdf.Fpdf, m Mapper, plan model.Plan, start float64, d model.Distribution) {
	if d.Count <= 0 {
		return
	}
	width := model.ParseDeduction(plan.BarProfile)
	top := plan.OverallHeight - model.ParseThickness(plan.TopRailProfile)
	band := plan.InfillBand()
	for _, x := range engine.BarPositions(d, width) {
		rectReal(pdf, m, start+x, top, width, band)
	}
}

// drawHorizontalBars draws the rows of the global horizontal distribution
// across one section.
func drawHorizontalBars(pdf *fpdf.Fpdf, m Mapper, plan model.Plan, start, length float64) {
	d := plan.InfillDetail
	if d == nil || d.Count <= 0 {
		return
	}
	thk := model.ParseThickness(plan.BarProfile)
	bottom := plan.BaselineHeight + model.ParseThickness(plan.BottomRailProfile)
	for _, y := range engine.BarPositions(*d, thk) {
		rectReal(pdf, m, start, bottom+y+thk, length, thk)
	}
}

// drawLegend lists the profiles in the top corners of a piece page.
func drawLegend(pdf *fpdf.Fpdf, plan model.Plan) {
	const y = 30.0
	drawAnnotation(pdf, marginLeft, y, "Post: ", plan.PostProfile, colorPost, "L")
	drawAnnotation(pdf, marginLeft, y+8, "Link: ", plan.LinkProfile, colorLink, "L")
	drawAnnotation(pdf, marginLeft, y+16, "Bar: ", plan.BarProfile, colorBar, "L")
	drawAnnotation(pdf, pageWidth-marginRight, y, "Top rail: ", plan.TopRailProfile, colorRail, "R")
	drawAnnotation(pdf, pageWidth-marginRight, y+8, "Bottom rail: ", plan.BottomRailProfile, colorRail, "R")
	setText(pdf, colorText)
}

// renderPlatePage draws the base plate in top and side view, at 1:1 on
// the page.
func renderPlatePage(pdf *fpdf.Fpdf, postProfile string, plate model.PlateSpec) {
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 12)
	setText(pdf, colorText)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW, 8, "Base plate detail", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "BU", 10)
	pdf.SetXY(marginLeft, marginTop+10)
	pdf.CellFormat(contentW, 6, "Top view", "", 0, "C", false, 0, "")

	cx, cy := pageWidth/2, 80.0
	l, w := plate.Length, plate.Width

	setDraw(pdf, colorPlate)
	pdf.SetLineWidth(0.5)
	pdf.Rect(cx-l/2, cy-w/2, l, w, "D")

	pl, pw := model.ParseThickness(postProfile), model.ParseDeduction(postProfile)
	setDraw(pdf, colorPost)
	pdf.SetLineWidth(0.3)
	pdf.Rect(cx-pl/2, cy-pw/2, pl, pw, "D")

	el, ew := plate.PitchLength, plate.PitchWidth
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	for _, h := range [][2]float64{
		{cx - el/2, cy - ew/2},
		{cx + el/2, cy - ew/2},
		{cx - el/2, cy + ew/2},
		{cx + el/2, cy + ew/2},
	} {
		pdf.Circle(h[0], h[1], plate.HoleDiameter/2, "D")
	}

	drawHorizontalDim(pdf, cx-l/2, cy+w/2+10, l, formatMM(l))
	drawHorizontalDim(pdf, cx-el/2, cy+w/2+20, el, fmt.Sprintf("Pitch %s", formatMM(el)))
	drawVerticalDim(pdf, cx-l/2-10, cy+w/2, w, formatMM(w), false)
	drawVerticalDim(pdf, cx-l/2-20, cy+ew/2, ew, fmt.Sprintf("Pitch %s", formatMM(ew)), false)

	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, colorText)
	pdf.SetXY(marginLeft, cy+w/2+24)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d holes, diameter %s mm", plate.HoleCount, formatMM(plate.HoleDiameter)), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "BU", 10)
	pdf.SetXY(marginLeft, pageHeight-60)
	pdf.CellFormat(contentW, 6, "Side view", "", 0, "C", false, 0, "")

	t := plate.Thickness
	setDraw(pdf, colorPlate)
	pdf.SetLineWidth(0.5)
	pdf.Rect(cx-l/2, pageHeight-40, l, t, "D")
	drawVerticalDim(pdf, cx+l/2+5, pageHeight-40+t, t, formatMM(t), true)
	setText(pdf, colorText)
}

// rectReal draws a rectangle given by its top-left corner in real
// coordinates (Y up).
func rectReal(pdf *fpdf.Fpdf, m Mapper, x, top, w, h float64) {
	px, py := m.Transform(x, top)
	pdf.Rect(px, py, m.Len(w), m.Len(h), "D")
}

// drawHorizontalDim draws a dimension line of the given page width with its
// text above it; y is the baseline of the extension ticks.
func drawHorizontalDim(pdf *fpdf.Fpdf, x, y, width float64, text string) {
	setDraw(pdf, colorDim)
	setText(pdf, colorDim)
	pdf.SetLineWidth(0.2)
	pdf.Line(x, y, x, y-3)
	pdf.Line(x+width, y, x+width, y-3)
	pdf.Line(x, y-1.5, x+width, y-1.5)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(x+width/2-pdf.GetStringWidth(text)/2, y-4.5, text)
}

// drawVerticalDim draws a dimension line rising from y over height, with
// the text on the left unless rightSide is set.
func drawVerticalDim(pdf *fpdf.Fpdf, x, y, height float64, text string, rightSide bool) {
	offset := -1.0
	if rightSide {
		offset = 1
	}
	setDraw(pdf, colorDim)
	setText(pdf, colorDim)
	pdf.SetLineWidth(0.2)
	pdf.Line(x, y, x+3*offset, y)
	pdf.Line(x, y-height, x+3*offset, y-height)
	pdf.Line(x+1.5*offset, y, x+1.5*offset, y-height)
	pdf.SetFont("Helvetica", "", 8)
	if rightSide {
		pdf.Text(x+4, y-height/2+1.5, text)
		return
	}
	pdf.Text(x-pdf.GetStringWidth(text)-1, y-height/2+1.5, text)
}

// drawAnnotation writes a bold title followed by an italic detail. With
// align "R", x is the right edge of the text.
func drawAnnotation(pdf *fpdf.Fpdf, x, y float64, title, detail string, c rgb, align string) {
	setText(pdf, c)
	if detail == "" {
		detail = "-"
	}
	pdf.SetFont("Helvetica", "B", 9)
	titleW := pdf.GetStringWidth(title)
	pdf.SetFont("Helvetica", "I", 9)
	detailW := pdf.GetStringWidth(detail)
	if align == "R" {
		x -= titleW + detailW
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x, y, title)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Text(x+titleW, y, detail)
}

func setDraw(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(c.R, c.G, c.B)
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.R, c.G, c.B)
}

// formatMM prints a length without a trailing ".0" for whole millimetres.
func formatMM(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
