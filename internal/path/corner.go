package path

import (
	"math"

	"github.com/qdevlab/cpwroute/internal/model"
)

// straightEps is the turn angle below which a corner degenerates into a
// straight run. Arcs this small are numerically unstable and contribute
// nothing to the geometry.
const straightEps = 1e-5

// Corner holds the geometry of a single radius-constrained bend between two
// straight runs meeting at a vertex.
type Corner struct {
	TangentIn  model.Point // unit direction entering the vertex
	TangentOut model.Point // unit direction leaving the vertex
	Turn       float64     // signed exterior angle in (-pi, pi), CCW positive
	Radius     float64     // arc radius
	Cut        float64     // distance removed from each adjacent run
	Center     model.Point // arc center
	ArcStart   model.Point // where the arc leaves the incoming run
	ArcEnd     model.Point // where the arc meets the outgoing run
	StartAngle float64     // center angle of ArcStart
}

// IsStraight reports whether the corner degenerated into a straight
// pass-through (turn angle below straightEps).
func (c Corner) IsStraight() bool {
	return math.Abs(c.Turn) < straightEps
}

// Arc returns the corner's arc primitive with the given cross-section.
func (c Corner) Arc(cpw model.CPW) model.Arc {
	return model.Arc{
		Center:     c.Center,
		Radius:     c.Radius,
		StartAngle: c.StartAngle,
		Sweep:      c.Turn,
		CPW:        cpw,
	}
}

// CornerData computes the bend geometry at a vertex from the three
// consecutive waypoints around it. The points must be pairwise distinct.
func CornerData(prev, corner, next model.Point, radius float64) (Corner, error) {
	if prev.DistanceFrom(corner) < 1e-12 || corner.DistanceFrom(next) < 1e-12 {
		return Corner{}, errorf(StageCorner, -1,
			"coincident waypoints around corner (%.3f, %.3f)", corner.X, corner.Y)
	}
	dirIn := corner.Minus(prev).Unit()
	dirOut := next.Minus(corner).Unit()
	return cornerFromDirs(corner, dirIn, dirOut, radius)
}

// cornerFromDirs computes the bend at a vertex given explicit unit tangent
// directions, used when a node's heading override replaces the automatic
// outgoing direction.
func cornerFromDirs(vertex, dirIn, dirOut model.Point, radius float64) (Corner, error) {
	turn := math.Atan2(model.Cross(dirIn, dirOut), model.Dot(dirIn, dirOut))

	c := Corner{TangentIn: dirIn, TangentOut: dirOut, Turn: turn, Radius: radius}
	if c.IsStraight() {
		return c, nil
	}
	if math.Pi-math.Abs(turn) < straightEps {
		return Corner{}, errorf(StageCorner, -1,
			"path reverses on itself at (%.3f, %.3f)", vertex.X, vertex.Y)
	}

	// The arc begins this far before the vertex and ends this far after it.
	c.Cut = radius * math.Tan(math.Abs(turn)/2)
	c.ArcStart = vertex.Minus(dirIn.Times(c.Cut))
	c.ArcEnd = vertex.Plus(dirOut.Times(c.Cut))

	// Center sits one radius to the side of the incoming run, on the inside
	// of the turn.
	normal := model.Perp(dirIn)
	if turn < 0 {
		normal = normal.Times(-1)
	}
	c.Center = c.ArcStart.Plus(normal.Times(radius))
	c.StartAngle = model.Angle(c.Center, c.ArcStart)
	return c, nil
}

// intersectLines returns the intersection of the lines through p1 along d1
// and through p2 along d2. The second return is false when the lines are
// parallel within tolerance.
func intersectLines(p1, d1, p2, d2 model.Point) (model.Point, bool) {
	denom := model.Cross(d1, d2)
	if math.Abs(denom) < 1e-12 {
		return model.Point{}, false
	}
	t := model.Cross(p2.Minus(p1), d2) / denom
	return p1.Plus(d1.Times(t)), true
}
