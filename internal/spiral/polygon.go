// Package spiral packs a target-length waveguide into a bounding polygon by
// winding it inward and searching for the maximal turn-to-turn spacing.
package spiral

import (
	"math"

	"github.com/qdevlab/cpwroute/internal/model"
)

// SignedArea returns the polygon's signed area: positive for
// counter-clockwise winding.
func SignedArea(poly model.Polygon) float64 {
	var sum float64
	for i := range poly {
		a, b := poly.Edge(i)
		sum += model.Cross(a, b)
	}
	return sum / 2
}

// MinWidth returns the polygon's narrowest "across" dimension: for each
// edge, the farthest vertex distance from the edge's line, minimized over
// edges. Half of this is an a-priori upper bound on the spiral spacing.
func MinWidth(poly model.Polygon) float64 {
	width := math.Inf(1)
	for i := range poly {
		a, b := poly.Edge(i)
		dir := b.Minus(a)
		if dir.Magnitude() < 1e-12 {
			continue
		}
		u := dir.Unit()
		var farthest float64
		for _, v := range poly {
			d := math.Abs(model.Cross(u, v.Minus(a)))
			if d > farthest {
				farthest = d
			}
		}
		if farthest < width {
			width = farthest
		}
	}
	return width
}

// inwardNormal returns the unit normal pointing into the polygon's interior
// for an edge with the given direction, given the polygon's winding.
func inwardNormal(dir model.Point, ccw bool) model.Point {
	n := model.Perp(dir)
	if !ccw {
		n = n.Times(-1)
	}
	return n
}

// Points generates the spiral's corner points: edge m (counting around the
// polygon repeatedly) is offset inward by spacing*floor(m/n), and corner m
// is the intersection of consecutive offset edge lines. Generation is a
// pure function of its inputs; it stops after limit points or when the
// spiral collapses (offset edges no longer advance in the winding
// direction), whichever comes first. The boolean reports whether the
// spiral was still advancing when generation stopped.
func Points(poly model.Polygon, spacing float64, limit int) ([]model.Point, bool) {
	n := len(poly)
	if n < 3 {
		return nil, false
	}
	ccw := SignedArea(poly) > 0

	// Offset line for global edge index m: base edge m%n shifted inward.
	edgeLine := func(m int) (model.Point, model.Point) {
		a, b := poly.Edge(m % n)
		dir := b.Minus(a).Unit()
		off := inwardNormal(dir, ccw).Times(spacing * float64(m/n))
		return a.Plus(off), dir
	}

	pts := []model.Point{poly[0]}
	for m := 1; m < limit; m++ {
		p1, d1 := edgeLine(m - 1)
		p2, d2 := edgeLine(m)
		corner, ok := intersect(p1, d1, p2, d2)
		if !ok {
			return pts, false
		}
		// The new corner must advance along edge m-1's direction, or the
		// offsets have consumed the polygon and the winding reversed.
		step := corner.Minus(pts[len(pts)-1])
		if step.Magnitude() < 1e-9 || model.Dot(step, d1) <= 0 {
			return pts, false
		}
		pts = append(pts, corner)
	}
	return pts, true
}

// intersect returns the intersection of two lines given by point and unit
// direction.
func intersect(p1, d1, p2, d2 model.Point) (model.Point, bool) {
	denom := model.Cross(d1, d2)
	if math.Abs(denom) < 1e-12 {
		return model.Point{}, false
	}
	t := model.Cross(p2.Minus(p1), d2) / denom
	return p1.Plus(d1.Times(t)), true
}

// BoundingRect builds a rectangular bounding polygon around an origin,
// described by the free space on each side. The spiral starts at the
// top-left corner and winds clockwise inward.
func BoundingRect(origin model.Point, above, below, right, left float64) model.Polygon {
	return model.Polygon{
		{X: origin.X - left, Y: origin.Y + above},
		{X: origin.X + right, Y: origin.Y + above},
		{X: origin.X + right, Y: origin.Y - below},
		{X: origin.X - left, Y: origin.Y - below},
	}
}
