// Package bridge places crossing airbridges along the straight runs of a
// built waveguide path. It is a pure function over the finalized primitive
// list: the path itself is never modified.
package bridge

import (
	"fmt"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

// Pose is one bridge placement: the crossing point on the path and the
// path's travel direction there. The bridge span is perpendicular to the
// heading.
type Pose struct {
	Position model.Point `json:"position"`
	Heading  float64     `json:"heading"`
}

// Mode selects how bridges are distributed.
type Mode int

const (
	// ModePitch places a bridge every Pitch length units along straight
	// runs. The pitch counter restarts at every placed bridge and at every
	// corner; only runs too short to take a bridge carry their length into
	// the next run.
	ModePitch Mode = iota
	// ModeCount distributes Count bridges evenly along the straight run
	// identified by Run.
	ModeCount
)

// Spec configures a placement pass.
type Spec struct {
	Mode      Mode
	Pitch     float64 // ModePitch: spacing along the path
	Count     int     // ModeCount: bridges on the identified run
	Run       int     // ModeCount: index into the path's straight runs
	Clearance float64 // minimum distance from run ends (corners, components)
}

// Place computes bridge poses for the given primitives. Arcs are never
// bridged; each maximal straight primitive is one run.
func Place(prims []model.Primitive, spec Spec) ([]Pose, error) {
	switch spec.Mode {
	case ModePitch:
		return placePitch(prims, spec)
	case ModeCount:
		return placeCount(prims, spec)
	default:
		return nil, fmt.Errorf("unknown bridge placement mode %d", spec.Mode)
	}
}

// straightRuns extracts the straight primitives in path order.
func straightRuns(prims []model.Primitive) []model.Straight {
	var runs []model.Straight
	for _, p := range prims {
		if s, ok := p.(model.Straight); ok && s.Length() > 1e-9 {
			runs = append(runs, s)
		}
	}
	return runs
}

func placePitch(prims []model.Primitive, spec Spec) ([]Pose, error) {
	if spec.Pitch <= 0 {
		return nil, fmt.Errorf("bridge pitch must be positive, got %g", spec.Pitch)
	}
	if spec.Clearance < 0 {
		return nil, fmt.Errorf("bridge clearance must be non-negative, got %g", spec.Clearance)
	}

	var poses []Pose
	carry := 0.0 // accumulated length of runs skipped since the last corner
	for _, run := range straightRuns(prims) {
		length := run.Length()
		if length < 2*spec.Clearance {
			carry += length
			continue
		}
		dir := run.End.Minus(run.Start).Unit()
		heading := run.StartHeading()

		at := spec.Pitch - carry
		if at < spec.Clearance {
			at = spec.Clearance
		}
		placed := false
		for ; at <= length-spec.Clearance; at += spec.Pitch {
			poses = append(poses, Pose{Position: run.Start.Plus(dir.Times(at)), Heading: heading})
			placed = true
		}
		// The counter restarts at the corner closing this run; only runs
		// that took no bridge push their length into the next one.
		if placed {
			carry = 0
		} else {
			carry += length
		}
	}
	return poses, nil
}

func placeCount(prims []model.Primitive, spec Spec) ([]Pose, error) {
	if spec.Count <= 0 {
		return nil, fmt.Errorf("bridge count must be positive, got %d", spec.Count)
	}
	runs := straightRuns(prims)
	if spec.Run < 0 || spec.Run >= len(runs) {
		return nil, fmt.Errorf("straight run index %d out of range (path has %d runs)", spec.Run, len(runs))
	}
	run := runs[spec.Run]
	length := run.Length()
	usable := length - 2*spec.Clearance
	if usable <= 0 {
		return nil, fmt.Errorf("run %d is %.3f long, too short for clearance %.3f on both ends",
			spec.Run, length, spec.Clearance)
	}

	dir := run.End.Minus(run.Start).Unit()
	heading := run.StartHeading()
	spacing := usable / float64(spec.Count+1)
	poses := make([]Pose, 0, spec.Count)
	for i := 1; i <= spec.Count; i++ {
		at := spec.Clearance + spacing*float64(i)
		poses = append(poses, Pose{Position: run.Start.Plus(dir.Times(at)), Heading: heading})
	}
	return poses, nil
}

// FromPlacements extracts the single-bridge markers recorded by the
// assembler for airbridge component nodes.
func FromPlacements(placements []path.Placement) []Pose {
	var poses []Pose
	for _, p := range placements {
		if p.Kind == model.KindAirbridge {
			poses = append(poses, Pose{Position: p.Pose.Position, Heading: p.Pose.Heading})
		}
	}
	return poses
}
