package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/qdevlab/cpwroute/internal/bridge"
	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders a built route to a review PDF: a scaled layout diagram
// with bridge markers, followed by a per-node length table.
func ExportPDF(filepath string, route model.Route, result *path.Result, bridges []bridge.Pose) error {
	if result == nil || len(result.Primitives) == 0 {
		return fmt.Errorf("no built geometry to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, route, result, bridges)

	pdf.AddPage()
	renderLengthPage(pdf, route, result)

	return pdf.OutputFileAndClose(filepath)
}

// renderLayoutPage draws the route geometry scaled to fit the page.
func renderLayoutPage(pdf *fpdf.Fpdf, route model.Route, result *path.Result, bridges []bridge.Pose) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Route %s (%s)", route.Label, route.ID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Nodes: %d | Length: %.3f um | Radius: %.1f um | CPW: %.1f/%.1f um | Bridges: %d",
		len(route.Nodes), result.TotalLength, route.Settings.TurnRadius,
		route.Settings.CPW.TraceWidth, route.Settings.CPW.GapWidth, len(bridges))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Bounds of everything to be drawn
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	expand := func(p model.Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	var chains [][]model.Point
	for _, prim := range result.Primitives {
		pts := Discretize(prim, arcSegmentsPerTurn)
		for _, p := range pts {
			expand(p)
		}
		chains = append(chains, pts)
	}
	for _, b := range bridges {
		expand(b.Position)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX < 1 {
		spanX = 1
	}
	if spanY < 1 {
		spanY = 1
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/spanX, drawHeight/spanY)

	// Center the drawing; PDF y grows downward, layout y grows upward.
	offsetX := marginLeft + (drawWidth-spanX*scale)/2
	offsetY := drawAreaTop + (drawHeight-spanY*scale)/2
	toPage := func(p model.Point) (float64, float64) {
		return offsetX + (p.X-minX)*scale, offsetY + (maxY-p.Y)*scale
	}

	// Centerline
	pdf.SetDrawColor(33, 150, 243)
	pdf.SetLineWidth(0.4)
	for _, pts := range chains {
		for i := 0; i+1 < len(pts); i++ {
			x1, y1 := toPage(pts[i])
			x2, y2 := toPage(pts[i+1])
			pdf.Line(x1, y1, x2, y2)
		}
	}

	// External ports
	pdf.SetFillColor(76, 175, 80)
	for _, port := range result.Ports {
		x, y := toPage(port.Position)
		pdf.Circle(x, y, 1.2, "F")
	}

	// Bridge markers
	pdf.SetFillColor(244, 67, 54)
	for _, b := range bridges {
		x, y := toPage(b.Position)
		pdf.Circle(x, y, 0.8, "F")
	}
}

// renderLengthPage prints the per-node length accounting table.
func renderLengthPage(pdf *fpdf.Fpdf, route model.Route, result *path.Result) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(100, 8, "Per-node length accounting", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	y := marginTop + 12.0
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(15, 6, "Node", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Position (um)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Component", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Finalized length", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Cumulative", "1", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	var cum float64
	for i, node := range route.Nodes {
		cum += result.NodeLengths[i]
		y += 6
		if y > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("(%.2f, %.2f)", node.Position.X, node.Position.Y), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, node.Component.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.3f", result.NodeLengths[i]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.3f", cum), "1", 0, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	y += 6
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(95, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(70, 6, fmt.Sprintf("%.3f um", result.TotalLength), "1", 0, "R", false, 0, "")
}
