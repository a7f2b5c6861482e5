package spiral

import (
	"errors"
	"fmt"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

// searchIterCap bounds the bisection; log2(maxSpacing/tolerance) iterations
// suffice, so hitting the cap indicates a modeling bug rather than a
// legitimate input.
const searchIterCap = 100

// maxSpiralPoints bounds corner generation for a single attempt.
const maxSpiralPoints = 65536

// Attempt builds a spiral of exactly the target length inside the polygon
// at a fixed turn-to-turn spacing. It returns a path error when the spacing
// is infeasible: the spiral collapses before reaching the target length, or
// a winding becomes too tight for its corner arcs.
func Attempt(poly model.Polygon, spacing, target float64, settings model.RouteSettings) ([]model.Primitive, error) {
	limit := 4 * len(poly)
	for {
		pts, advancing := Points(poly, spacing, limit)
		if len(pts) < 2 {
			return nil, pathError("spiral produced %d corner points at spacing %.4f", len(pts), spacing)
		}

		res, err := buildSpiral(pts, settings)
		if err != nil {
			return nil, err
		}
		if res.TotalLength >= target {
			return model.TrimToLength(res.Primitives, target), nil
		}
		if !advancing {
			return nil, pathError(
				"spiral collapses at length %.3f before reaching target %.3f (spacing %.4f)",
				res.TotalLength, target, spacing)
		}
		if limit >= maxSpiralPoints {
			return nil, pathError(
				"spiral needs more than %d corners to reach length %.3f (spacing %.4f)",
				maxSpiralPoints, target, spacing)
		}
		limit *= 2
	}
}

// buildSpiral routes the corner points through the assembler as plain
// waypoints.
func buildSpiral(pts []model.Point, settings model.RouteSettings) (*path.Result, error) {
	nodes := make([]model.Node, len(pts))
	for i, p := range pts {
		nodes[i] = model.Node{Position: p}
	}
	asm := &path.Assembler{}
	return asm.Build(model.Route{Label: "spiral", Nodes: nodes, Settings: settings})
}

func pathError(format string, args ...interface{}) error {
	return &path.BuildError{Stage: path.StageSpiral, Node: -1, Detail: fmt.Sprintf(format, args...)}
}

// AutoSpacing finds the maximal turn-to-turn spacing for which a spiral of
// the target length fits inside the polygon, by bisection. Feasibility is
// assumed monotonic: any spacing below a feasible one is also feasible.
// If even zero spacing cannot host the target length the combination is
// structurally impossible and a fatal error is returned.
func AutoSpacing(poly model.Polygon, target float64, settings model.RouteSettings) (float64, []model.Primitive, error) {
	if len(poly) < 3 {
		return 0, nil, pathError("bounding polygon needs at least 3 vertices, got %d", len(poly))
	}
	if target <= 0 {
		return 0, nil, pathError("target length must be positive, got %g", target)
	}
	tol := settings.SpacingTolerance
	if tol <= 0 {
		tol = 0.001
	}

	// Zero spacing distinguishes "try smaller" from "impossible regardless
	// of spacing".
	best, err := Attempt(poly, 0, target, settings)
	if err != nil {
		var be *path.BuildError
		if errors.As(err, &be) {
			be.Detail = "no spacing can fit the requested spiral: " + be.Detail
		}
		return 0, nil, err
	}
	bestSpacing := 0.0

	hi := MinWidth(poly) / 2
	if prims, err := Attempt(poly, hi, target, settings); err == nil {
		return hi, prims, nil
	}

	lo := 0.0
	for iter := 0; hi-lo > tol; iter++ {
		if iter >= searchIterCap {
			return 0, nil, &path.BuildError{Stage: path.StageSearch, Node: -1,
				Detail: fmt.Sprintf("spacing search failed to converge after %d iterations (bounds %.6f..%.6f)",
					searchIterCap, lo, hi)}
		}
		mid := (lo + hi) / 2
		prims, err := Attempt(poly, mid, target, settings)
		if err != nil {
			hi = mid
			continue
		}
		lo = mid
		best, bestSpacing = prims, mid
	}
	return bestSpacing, best, nil
}
