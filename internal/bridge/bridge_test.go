package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

var cpw = model.CPW{TraceWidth: 10, GapWidth: 6}

func straight(x0, y0, x1, y1 float64) model.Straight {
	return model.Straight{Start: model.Point{X: x0, Y: y0}, End: model.Point{X: x1, Y: y1}, CPW: cpw}
}

func TestPitchSingleRun(t *testing.T) {
	prims := []model.Primitive{straight(0, 0, 1000, 0)}
	poses, err := Place(prims, Spec{Mode: ModePitch, Pitch: 250, Clearance: 30})
	require.NoError(t, err)

	require.Len(t, poses, 3)
	assert.InDelta(t, 250, poses[0].Position.X, 1e-9)
	assert.InDelta(t, 500, poses[1].Position.X, 1e-9)
	assert.InDelta(t, 750, poses[2].Position.X, 1e-9)
	for _, p := range poses {
		assert.InDelta(t, 0, p.Heading, 1e-9)
	}
}

func TestPitchSkipsArcs(t *testing.T) {
	prims := []model.Primitive{
		straight(0, 0, 400, 0),
		model.Arc{Center: model.Point{X: 400, Y: 100}, Radius: 100, StartAngle: -math.Pi / 2, Sweep: math.Pi / 2, CPW: cpw},
		straight(500, 100, 500, 500),
	}
	poses, err := Place(prims, Spec{Mode: ModePitch, Pitch: 250, Clearance: 30})
	require.NoError(t, err)

	// All poses lie on the two straights, never on the arc
	for i, p := range poses {
		onFirst := math.Abs(p.Position.Y) < 1e-9 && p.Position.X <= 400
		onSecond := math.Abs(p.Position.X-500) < 1e-9 && p.Position.Y >= 100
		assert.True(t, onFirst || onSecond, "pose %d at (%.1f, %.1f)", i, p.Position.X, p.Position.Y)
	}
}

func TestPitchRestartsAtCorners(t *testing.T) {
	// The first run places a bridge at 100 with 20 left over; the corner
	// restarts the counter, so the second run's first bridge sits a full
	// pitch along it, not 20 early
	prims := []model.Primitive{
		straight(0, 0, 120, 0),
		straight(120, 0, 120, 200),
	}
	poses, err := Place(prims, Spec{Mode: ModePitch, Pitch: 100, Clearance: 10})
	require.NoError(t, err)

	require.Len(t, poses, 2)
	assert.InDelta(t, 100, poses[0].Position.X, 1e-9)
	assert.InDelta(t, 0, poses[0].Position.Y, 1e-9)
	assert.InDelta(t, 120, poses[1].Position.X, 1e-9)
	assert.InDelta(t, 100, poses[1].Position.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, poses[1].Heading, 1e-9)
}

func TestPitchShortRunAccumulatesCarry(t *testing.T) {
	// A run below twice the clearance takes no bridge but still counts
	// toward the pitch
	prims := []model.Primitive{
		straight(0, 0, 40, 0),
		straight(40, 0, 1040, 0),
	}
	poses, err := Place(prims, Spec{Mode: ModePitch, Pitch: 250, Clearance: 30})
	require.NoError(t, err)

	require.Len(t, poses, 4)
	assert.InDelta(t, 250, poses[0].Position.X, 1e-9)
	assert.InDelta(t, 500, poses[1].Position.X, 1e-9)
	assert.InDelta(t, 1000, poses[3].Position.X, 1e-9)
}

func TestPitchClampsToClearance(t *testing.T) {
	// Carry would put the next bridge inside the clearance zone; it is
	// pushed out to the clearance boundary instead
	prims := []model.Primitive{
		straight(0, 0, 240, 0),
		straight(240, 0, 740, 0),
	}
	poses, err := Place(prims, Spec{Mode: ModePitch, Pitch: 250, Clearance: 30})
	require.NoError(t, err)

	require.NotEmpty(t, poses)
	assert.InDelta(t, 270, poses[0].Position.X, 1e-9)
}

func TestPitchRejectsBadSpec(t *testing.T) {
	prims := []model.Primitive{straight(0, 0, 1000, 0)}

	_, err := Place(prims, Spec{Mode: ModePitch, Pitch: 0, Clearance: 30})
	assert.Error(t, err)

	_, err = Place(prims, Spec{Mode: ModePitch, Pitch: 250, Clearance: -1})
	assert.Error(t, err)
}

func TestPitchEmptyPath(t *testing.T) {
	poses, err := Place(nil, Spec{Mode: ModePitch, Pitch: 250, Clearance: 30})
	require.NoError(t, err)
	assert.Empty(t, poses)
}

func TestCountEvenDistribution(t *testing.T) {
	prims := []model.Primitive{straight(0, 0, 1000, 0)}
	poses, err := Place(prims, Spec{Mode: ModeCount, Count: 3, Run: 0, Clearance: 30})
	require.NoError(t, err)

	// Three bridges split the usable 940 um into four equal gaps
	require.Len(t, poses, 3)
	assert.InDelta(t, 265, poses[0].Position.X, 1e-9)
	assert.InDelta(t, 500, poses[1].Position.X, 1e-9)
	assert.InDelta(t, 735, poses[2].Position.X, 1e-9)
}

func TestCountRunIndexSkipsArcs(t *testing.T) {
	prims := []model.Primitive{
		straight(0, 0, 400, 0),
		model.Arc{Center: model.Point{X: 400, Y: 100}, Radius: 100, StartAngle: -math.Pi / 2, Sweep: math.Pi / 2, CPW: cpw},
		straight(500, 100, 500, 600),
	}
	poses, err := Place(prims, Spec{Mode: ModeCount, Count: 1, Run: 1, Clearance: 0})
	require.NoError(t, err)

	// Run 1 is the second straight; one bridge sits at its midpoint
	require.Len(t, poses, 1)
	assert.InDelta(t, 500, poses[0].Position.X, 1e-9)
	assert.InDelta(t, 350, poses[0].Position.Y, 1e-9)
}

func TestCountRejectsBadSpec(t *testing.T) {
	prims := []model.Primitive{straight(0, 0, 1000, 0)}

	_, err := Place(prims, Spec{Mode: ModeCount, Count: 0, Run: 0})
	assert.Error(t, err)

	_, err = Place(prims, Spec{Mode: ModeCount, Count: 1, Run: 5})
	assert.Error(t, err)

	short := []model.Primitive{straight(0, 0, 50, 0)}
	_, err = Place(short, Spec{Mode: ModeCount, Count: 1, Run: 0, Clearance: 30})
	assert.Error(t, err)
}

func TestUnknownMode(t *testing.T) {
	_, err := Place(nil, Spec{Mode: Mode(99)})
	assert.Error(t, err)
}

func TestFromPlacements(t *testing.T) {
	placements := []path.Placement{
		{Kind: model.KindConnector, Node: 1, Pose: path.Port{Position: model.Point{X: 100, Y: 0}}},
		{Kind: model.KindAirbridge, Node: 2, Pose: path.Port{Position: model.Point{X: 500, Y: 0}, Heading: math.Pi / 4}},
		{Kind: model.KindAirbridge, Node: 4, Pose: path.Port{Position: model.Point{X: 900, Y: 200}}},
	}
	poses := FromPlacements(placements)

	require.Len(t, poses, 2)
	assert.InDelta(t, 500, poses[0].Position.X, 1e-9)
	assert.InDelta(t, math.Pi/4, poses[0].Heading, 1e-9)
	assert.InDelta(t, 900, poses[1].Position.X, 1e-9)
}

func TestFromPlacementsEmpty(t *testing.T) {
	assert.Empty(t, FromPlacements(nil))
	assert.Empty(t, FromPlacements([]path.Placement{{Kind: model.KindTaper}}))
}
