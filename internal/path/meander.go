package path

import (
	"math"

	"github.com/qdevlab/cpwroute/internal/model"
)

// lengthTol is the absolute tolerance for exact-length matching.
const lengthTol = 1e-3

// Meander replaces a straight run from a to b with a serpentine whose total
// length equals target. The serpentine is a chain of quarter turns, half
// turns and perpendicular legs; the leg length is solved in closed form so
// the result is exact, not iterative.
//
// The turn radius is the route's bend radius capped by the anchor span:
// when the span between a and b cannot host the nominal radius, the meander
// uses the largest radius that fits. Exact length takes precedence over the
// nominal radius here; the arcs still join with tangent continuity.
func Meander(a, b model.Point, target float64, settings model.RouteSettings) ([]model.Primitive, error) {
	d := a.DistanceFrom(b)
	if d < 1e-9 {
		return nil, errorf(StageMeander, -1,
			"meander anchors coincide at (%.3f, %.3f)", a.X, a.Y)
	}
	if target < d-lengthTol {
		return nil, errorf(StageMeander, -1,
			"target length %.3f is below the straight-line distance %.3f between (%.3f, %.3f) and (%.3f, %.3f)",
			target, d, a.X, a.Y, b.X, b.Y)
	}

	axis := model.Angle(a, b)
	cpw := settings.CPW
	if target <= d+lengthTol {
		return []model.Primitive{model.Straight{Start: a, End: b, CPW: cpw}}, nil
	}

	maxTurns := settings.MeanderMaxTurns
	if maxTurns <= 0 {
		maxTurns = 64
	}

	// A serpentine with n half turns consumes 2r(n+1) of axis for its arcs
	// and contributes (n+1)*pi*r of arc length plus 2un of leg length. Only
	// odd n close back onto the axis. The radius is capped so that the
	// zero-leg length stays below target, guaranteeing a non-negative leg
	// solution.
	for n := 1; n <= maxTurns; n += 2 {
		r := settings.TurnRadius
		if limit := d / (2 * float64(n+1)); r > limit {
			r = limit
		}
		if limit := 0.9 * (target - d) / (float64(n+1) * (math.Pi - 2)); r > limit {
			r = limit
		}
		if r < 1e-9 {
			break
		}

		u := (target - d - float64(n+1)*r*(math.Pi-2)) / (2 * float64(n))
		if settings.MeanderMaxAmplitude > 0 && 2*r+u > settings.MeanderMaxAmplitude {
			continue // amplitude over cap, try more turns with shorter legs
		}
		return emitSerpentine(a, axis, d, r, u, n, cpw), nil
	}

	return nil, errorf(StageMeander, -1,
		"no serpentine with up to %d turns and amplitude cap %.3f reaches length %.3f over span %.3f",
		maxTurns, settings.MeanderMaxAmplitude, target, d)
}

// emitSerpentine lays out the solved meander between the anchors. n is odd.
func emitSerpentine(a model.Point, axis, d, r, u float64, n int, cpw model.CPW) []model.Primitive {
	var prims []model.Primitive
	pos, heading := a, axis

	straightTo := func(length float64) {
		if length < 1e-12 {
			return
		}
		end := pos.Plus(model.PointFromAngle(heading).Times(length))
		prims = append(prims, model.Straight{Start: pos, End: end, CPW: cpw})
		pos = end
	}
	turn := func(sweep float64) {
		arc, end, h := turnArc(pos, heading, sweep, r, cpw)
		prims = append(prims, arc)
		pos, heading = end, h
	}

	lead := (d - 2*r*float64(n+1)) / 2

	straightTo(lead)
	turn(math.Pi / 2) // leave the axis
	straightTo(u)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			turn(-math.Pi)
		} else {
			turn(math.Pi)
		}
		if i < n-1 {
			straightTo(2 * u)
		} else {
			straightTo(u)
		}
	}
	turn(math.Pi / 2) // rejoin the axis
	straightTo(lead)

	return prims
}

// turnArc builds an arc of the given signed sweep starting at pos with the
// given heading, and returns the arc plus the exit position and heading.
func turnArc(pos model.Point, heading, sweep, radius float64, cpw model.CPW) (model.Arc, model.Point, float64) {
	dir := model.PointFromAngle(heading)
	side := model.Perp(dir)
	if sweep < 0 {
		side = side.Times(-1)
	}
	center := pos.Plus(side.Times(radius))
	startAngle := model.Angle(center, pos)
	arc := model.Arc{
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		Sweep:      sweep,
		CPW:        cpw,
	}
	return arc, arc.EndPoint(), model.NormalizeAngle(heading + sweep)
}
