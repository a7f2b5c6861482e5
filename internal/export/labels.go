package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

// LabelInfo holds the data encoded into each route label's QR code, used
// as a fabrication traveler when chips move between process steps.
type LabelInfo struct {
	RouteID     string  `json:"id"`
	RouteLabel  string  `json:"label"`
	Nodes       int     `json:"nodes"`
	TotalLength float64 `json:"length_um"`
	TraceWidth  float64 `json:"trace_um"`
	GapWidth    float64 `json:"gap_um"`
	TurnRadius  float64 `json:"radius_um"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for a batch of built
// routes. Each label carries the route name, its measured length, and a QR
// code encoding the route metadata as JSON.
func ExportLabels(filepath string, routes []model.Route, results []*path.Result) error {
	if len(routes) == 0 {
		return fmt.Errorf("no routes to generate labels for")
	}
	if len(routes) != len(results) {
		return fmt.Errorf("got %d routes but %d build results", len(routes), len(results))
	}

	labels := CollectLabelInfos(routes, results)

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
			return fmt.Errorf("failed to render label for %q: %w", label.RouteLabel, err)
		}
	}

	return pdf.OutputFileAndClose(filepath)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
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

	imgName := fmt.Sprintf("qr_%s", info.RouteID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Route label (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	routeLabel := info.RouteLabel
	if pdf.GetStringWidth(routeLabel) > textW {
		for len(routeLabel) > 0 && pdf.GetStringWidth(routeLabel+"...") > textW {
			routeLabel = routeLabel[:len(routeLabel)-1]
		}
		routeLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, routeLabel, "", 1, "L", false, 0, "")

	// Measured length
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("L = %.3f um", info.TotalLength), "", 1, "L", false, 0, "")

	// Cross-section and radius
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	cpwInfo := fmt.Sprintf("CPW %.1f/%.1f, r=%.0f, %d nodes",
		info.TraceWidth, info.GapWidth, info.TurnRadius, info.Nodes)
	pdf.CellFormat(textW, 3, cpwInfo, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from built routes for use
// in testing or alternative export formats.
func CollectLabelInfos(routes []model.Route, results []*path.Result) []LabelInfo {
	labels := make([]LabelInfo, 0, len(routes))
	for i, r := range routes {
		labels = append(labels, LabelInfo{
			RouteID:     r.ID,
			RouteLabel:  r.Label,
			Nodes:       len(r.Nodes),
			TotalLength: results[i].TotalLength,
			TraceWidth:  r.Settings.CPW.TraceWidth,
			GapWidth:    r.Settings.CPW.GapWidth,
			TurnRadius:  r.Settings.TurnRadius,
		})
	}
	return labels
}
