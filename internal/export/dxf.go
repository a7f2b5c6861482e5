// Package export provides functionality for exporting built waveguide
// paths to fabrication and review formats.
package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"

	"github.com/qdevlab/cpwroute/internal/bridge"
	"github.com/qdevlab/cpwroute/internal/model"
)

// Layer names used in exported DXF drawings.
const (
	layerCenterline = "CENTERLINE"
	layerBridges    = "BRIDGES"
)

// arcSegmentsPerTurn controls arc discretization: a full circle becomes
// this many chords.
const arcSegmentsPerTurn = 64

// WriteDXF writes the path centerline and bridge positions to a DXF file.
// Arcs are discretized into chords; the waveguide cross-section itself is
// the rasterizer's concern, only the routed centerline is exported.
func WriteDXF(filepath string, prims []model.Primitive, bridges []bridge.Pose) error {
	if len(prims) == 0 {
		return fmt.Errorf("no primitives to export")
	}

	d := dxf.NewDrawing()
	d.AddLayer(layerCenterline, dxf.DefaultColor, dxf.DefaultLineType, true)

	for _, p := range prims {
		pts := Discretize(p, arcSegmentsPerTurn)
		for i := 0; i+1 < len(pts); i++ {
			if _, err := d.Line(pts[i].X, pts[i].Y, 0, pts[i+1].X, pts[i+1].Y, 0); err != nil {
				return fmt.Errorf("writing centerline segment: %w", err)
			}
		}
	}

	if len(bridges) > 0 {
		d.AddLayer(layerBridges, dxf.DefaultColor, dxf.DefaultLineType, true)
		for _, b := range bridges {
			if _, err := d.Circle(b.Position.X, b.Position.Y, 0, 1.0); err != nil {
				return fmt.Errorf("writing bridge marker: %w", err)
			}
		}
	}

	return d.SaveAs(filepath)
}

// Discretize converts a primitive into a point chain. Straights yield their
// two endpoints; arcs are sampled so a full turn would use segmentsPerTurn
// chords, with a floor of 4 segments per arc.
func Discretize(p model.Primitive, segmentsPerTurn int) []model.Point {
	switch prim := p.(type) {
	case model.Straight:
		return []model.Point{prim.Start, prim.End}
	case model.Arc:
		steps := int(math.Ceil(math.Abs(prim.Sweep) / (2 * math.Pi) * float64(segmentsPerTurn)))
		if steps < 4 {
			steps = 4
		}
		pts := make([]model.Point, 0, steps+1)
		for i := 0; i <= steps; i++ {
			angle := prim.StartAngle + prim.Sweep*float64(i)/float64(steps)
			pts = append(pts, prim.Center.Plus(model.PointFromAngle(angle).Times(prim.Radius)))
		}
		return pts
	default:
		return []model.Point{p.StartPoint(), p.EndPoint()}
	}
}
