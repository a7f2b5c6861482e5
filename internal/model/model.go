// Package model defines the core geometric and routing data types shared by
// the path assembler, the spiral packing search, and the import/export layers.
package model

import (
	"math"

	"github.com/jbeda/geom"
)

// Point is a 2D coordinate in micrometers. It aliases geom.Coord so the
// vector arithmetic (Plus, Minus, Times, Unit, DistanceFrom) is available
// directly on route geometry.
type Point = geom.Coord

// PointFromAngle returns the unit vector pointing along the given heading
// (radians, counter-clockwise from +X).
func PointFromAngle(heading float64) Point {
	return Point{X: math.Cos(heading), Y: math.Sin(heading)}
}

// Angle returns the heading of the vector from a to b.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Cross returns the z component of the 2D cross product a x b.
func Cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Dot returns the dot product of a and b.
func Dot(a, b Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Perp returns a rotated 90 degrees counter-clockwise.
func Perp(a Point) Point {
	return Point{X: -a.Y, Y: a.X}
}

// Rotate returns a rotated by the given angle about the origin.
func Rotate(a Point, angle float64) Point {
	s, c := math.Sincos(angle)
	return Point{X: a.X*c - a.Y*s, Y: a.X*s + a.Y*c}
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// CPW describes a coplanar waveguide cross-section: center conductor width
// and the symmetric gap on each side, both in micrometers.
type CPW struct {
	TraceWidth float64 `json:"trace_width"`
	GapWidth   float64 `json:"gap_width"`
}

// Equals reports whether two cross-sections match within tolerance.
func (c CPW) Equals(o CPW) bool {
	const tol = 1e-9
	return math.Abs(c.TraceWidth-o.TraceWidth) < tol && math.Abs(c.GapWidth-o.GapWidth) < tol
}

// Polygon is a closed boundary as a sequence of 2D points. The polygon is
// implicitly closed: the last point connects back to the first.
type Polygon []Point

// BoundingBox returns the axis-aligned bounds of the polygon.
func (p Polygon) BoundingBox() geom.Rect {
	if len(p) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		r.ExpandToContainCoord(pt)
	}
	return r
}

// Translate shifts all points by delta.
func (p Polygon) Translate(delta Point) Polygon {
	result := make(Polygon, len(p))
	for i, pt := range p {
		result[i] = pt.Plus(delta)
	}
	return result
}

// Edge returns the endpoints of edge i, which runs from vertex i to
// vertex (i+1) mod n.
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p)
	return p[i%n], p[(i+1)%n]
}

// Perimeter returns the total edge length of the closed polygon.
func (p Polygon) Perimeter() float64 {
	var total float64
	for i := range p {
		a, b := p.Edge(i)
		total += a.DistanceFrom(b)
	}
	return total
}
