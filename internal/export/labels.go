package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/RailCut/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each cut label's QR code.
type LabelInfo struct {
	Item       string `json:"item"`
	Detail     string `json:"details"`
	Quantity   int    `json:"quantity"`
	UnitLength int    `json:"unit_length_mm"`
	Line       int    `json:"line"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ErrNoLabels is returned when a plan has no nomenclature lines.
var ErrNoLabels = fmt.Errorf("no nomenclature lines to generate labels for")

// ExportLabels writes the cut labels of a plan to a PDF file.
func ExportLabels(path string, plan model.Plan) error {
	pdf, err := buildLabelsPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels writes one QR-coded label per nomenclature line to w. Each
// label shows the item, its profile, quantity and unit length, and the QR
// code carries the same line as JSON so it can be scanned at the saw.
func WriteLabels(w io.Writer, plan model.Plan) error {
	pdf, err := buildLabelsPDF(plan)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabelsPDF(plan model.Plan) (*fpdf.Fpdf, error) {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return nil, fmt.Errorf("failed to render label for %q: %w", label.Item, err)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render labels: %w", err)
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_line_%d", info.Line)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Item, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Detail, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d mm", info.Quantity, info.UnitLength), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Line %d", info.Line), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in width with the
// current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos extracts label information from a plan's nomenclature,
// numbering lines from 1.
func CollectLabelInfos(plan model.Plan) []LabelInfo {
	var labels []LabelInfo
	for i, line := range plan.Nomenclature {
		labels = append(labels, LabelInfo{
			Item:       line.Label,
			Detail:     line.Detail,
			Quantity:   line.Quantity,
			UnitLength: line.UnitLength,
			Line:       i + 1,
		})
	}
	return labels
}
