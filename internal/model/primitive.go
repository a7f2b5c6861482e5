package model

import "math"

// Primitive is one piece of built waveguide geometry: a straight run or a
// constant-radius arc. Consecutive primitives in a built path share an
// endpoint to within ContinuityTol.
type Primitive interface {
	// Length returns the arc length of the primitive.
	Length() float64
	// StartPoint and EndPoint are the primitive's endpoints in path order.
	StartPoint() Point
	EndPoint() Point
	// StartHeading and EndHeading are the travel directions at the endpoints.
	StartHeading() float64
	EndHeading() float64
	// Transformed returns a copy rotated about the origin and then translated.
	Transformed(rotation float64, delta Point) Primitive
	// Section returns the leading part of the primitive with the given
	// length, used to trim a path to an exact total length.
	Section(length float64) Primitive
}

// ContinuityTol is the maximum allowed gap between the endpoints of
// consecutive primitives in a built path, in micrometers.
const ContinuityTol = 0.01

// Straight is a straight waveguide run.
type Straight struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	CPW   CPW   `json:"cpw"`
}

func (s Straight) Length() float64 { return s.Start.DistanceFrom(s.End) }

func (s Straight) StartPoint() Point { return s.Start }

func (s Straight) EndPoint() Point { return s.End }

func (s Straight) StartHeading() float64 { return Angle(s.Start, s.End) }

func (s Straight) EndHeading() float64 { return Angle(s.Start, s.End) }

func (s Straight) Transformed(rotation float64, delta Point) Primitive {
	return Straight{
		Start: Rotate(s.Start, rotation).Plus(delta),
		End:   Rotate(s.End, rotation).Plus(delta),
		CPW:   s.CPW,
	}
}

func (s Straight) Section(length float64) Primitive {
	full := s.Length()
	if full < 1e-12 || length >= full {
		return s
	}
	dir := s.End.Minus(s.Start).Unit()
	return Straight{Start: s.Start, End: s.Start.Plus(dir.Times(length)), CPW: s.CPW}
}

// Arc is a constant-radius waveguide bend. Sweep is the signed turn angle:
// positive sweeps counter-clockwise from StartAngle. Angles are measured
// from the arc center.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	Sweep      float64 `json:"sweep"`
	CPW        CPW     `json:"cpw"`
}

func (a Arc) Length() float64 { return a.Radius * math.Abs(a.Sweep) }

func (a Arc) pointAt(angle float64) Point {
	return a.Center.Plus(PointFromAngle(angle).Times(a.Radius))
}

func (a Arc) StartPoint() Point { return a.pointAt(a.StartAngle) }
func (a Arc) EndPoint() Point   { return a.pointAt(a.StartAngle + a.Sweep) }

// headingAt returns the travel direction at the given center angle. For a
// counter-clockwise sweep the tangent leads the radial angle by 90 degrees,
// for clockwise it trails by 90 degrees.
func (a Arc) headingAt(angle float64) float64 {
	if a.Sweep >= 0 {
		return NormalizeAngle(angle + math.Pi/2)
	}
	return NormalizeAngle(angle - math.Pi/2)
}

func (a Arc) StartHeading() float64 { return a.headingAt(a.StartAngle) }
func (a Arc) EndHeading() float64   { return a.headingAt(a.StartAngle + a.Sweep) }

func (a Arc) Transformed(rotation float64, delta Point) Primitive {
	return Arc{
		Center:     Rotate(a.Center, rotation).Plus(delta),
		Radius:     a.Radius,
		StartAngle: NormalizeAngle(a.StartAngle + rotation),
		Sweep:      a.Sweep,
		CPW:        a.CPW,
	}
}

func (a Arc) Section(length float64) Primitive {
	full := a.Length()
	if full < 1e-12 || length >= full {
		return a
	}
	frac := length / full
	out := a
	out.Sweep = a.Sweep * frac
	return out
}

// PathLength returns the summed length of a primitive sequence.
func PathLength(prims []Primitive) float64 {
	var total float64
	for _, p := range prims {
		total += p.Length()
	}
	return total
}

// ContinuityGaps returns the endpoint gap between each adjacent primitive
// pair. Index i holds the distance between prims[i].EndPoint() and
// prims[i+1].StartPoint().
func ContinuityGaps(prims []Primitive) []float64 {
	if len(prims) < 2 {
		return nil
	}
	gaps := make([]float64, len(prims)-1)
	for i := 0; i < len(prims)-1; i++ {
		gaps[i] = prims[i].EndPoint().DistanceFrom(prims[i+1].StartPoint())
	}
	return gaps
}

// TrimToLength cuts a primitive sequence so its total length equals target.
// Primitives entirely before the cut are kept as-is; the primitive spanning
// the cut is shortened. If target meets or exceeds the total length the
// sequence is returned unchanged.
func TrimToLength(prims []Primitive, target float64) []Primitive {
	var out []Primitive
	var acc float64
	for _, p := range prims {
		l := p.Length()
		if acc+l < target {
			out = append(out, p)
			acc += l
			continue
		}
		remain := target - acc
		if remain > 1e-12 {
			out = append(out, p.Section(remain))
		}
		return out
	}
	return out
}
