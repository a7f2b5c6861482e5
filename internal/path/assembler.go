package path

import (
	"math"

	"github.com/qdevlab/cpwroute/internal/model"
)

// Port is a named, directed anchor point: a position plus the direction of
// travel through it.
type Port struct {
	Position model.Point `json:"position"`
	Heading  float64     `json:"heading"`
}

// Template is a component's geometry in local coordinates, produced by a
// Factory. The assembler rotates and translates it so the aligned entry
// port meets the incoming path.
type Template struct {
	Kind   model.ComponentKind
	Prims  []model.Primitive
	Ports  map[model.PortName]Port
	CPWOut model.CPW // cross-section presented to the downstream path
}

// Factory produces component templates for the assembler. It is injected
// per build; the engine keeps no global component registry.
type Factory interface {
	// Template returns the local-coordinate geometry for the node's
	// component. current is the running cross-section at the node; the
	// factory must reject a width mismatch unless the kind is a taper.
	Template(node model.Node, current model.CPW) (Template, error)
}

// Placement records one inline component instance in the built path, with
// its transformed port map.
type Placement struct {
	Kind  model.ComponentKind
	Node  int
	Pose  Port
	Ports map[model.PortName]Port
}

// Result is the output of one path build.
type Result struct {
	Primitives  []model.Primitive
	Ports       [2]Port // entry and exit of the whole path
	NodeLengths []float64
	TotalLength float64
	Placements  []Placement
}

// cursor is the routing state threaded through the build: the current tip
// position, tip heading, and the index of the last node whose geometry has
// been finalized. It is a value, created per build and never shared.
type cursor struct {
	pos     model.Point
	heading float64
	node    int
}

// Assembler builds waveguide geometry from a route. A zero Assembler works
// for routes without inline components; routes with components need a
// Factory.
type Assembler struct {
	Factory Factory
}

// Build runs a single forward pass over the route's nodes and emits the
// primitive chain, the external ports, and per-node finalized lengths.
// The route itself is never mutated.
func (a *Assembler) Build(route model.Route) (*Result, error) {
	if err := route.Validate(); err != nil {
		return nil, errorf(StageStructure, -1, "%v", err)
	}

	nodes := route.Nodes
	settings := route.Settings
	res := &Result{NodeLengths: make([]float64, len(nodes))}

	cur := cursor{pos: nodes[0].Position, heading: initialHeading(nodes), node: 0}
	res.Ports[0] = Port{Position: cur.pos, Heading: cur.heading}
	cpw := settings.CPW

	// A component on the first node hangs off the path start: its entry is
	// the path's external port and the path proper begins at its exit.
	if nodes[0].Component != model.KindNone {
		var err error
		cur, cpw, err = a.placeComponent(res, nodes, 0, cur, cpw)
		if err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(nodes); i++ {
		node := nodes[i]
		last := i == len(nodes)-1

		// Corner geometry at this node, if any.
		corner, hasCorner, err := a.cornerAt(nodes, i, cur, settings.TurnRadius)
		if err != nil {
			return nil, err
		}

		// The straight run ends where the corner arc starts, or at the node.
		runEnd := node.Position
		if hasCorner {
			runEnd = corner.ArcStart
		}

		if err := a.emitRun(res, nodes, i, cur, runEnd, cpw, settings); err != nil {
			return nil, err
		}

		if hasCorner {
			arc := corner.Arc(cpw)
			res.Primitives = append(res.Primitives, arc)
			res.NodeLengths[i] += arc.Length()
			cur = cursor{pos: corner.ArcEnd, heading: arc.EndHeading(), node: i}
		} else if !isPassThrough(nodes, i) {
			cur = cursor{pos: runEnd, heading: cur.heading, node: i}
		}

		if node.Component != model.KindNone {
			cur, cpw, err = a.placeComponent(res, nodes, i, cur, cpw)
			if err != nil {
				return nil, err
			}
		}

		if last {
			// Heading-overridden plain endpoints were handled by cornerAt;
			// close out the final run to the node position.
			if node.Component == model.KindNone && cur.pos.DistanceFrom(node.Position) > 1e-9 {
				res.Primitives = append(res.Primitives,
					model.Straight{Start: cur.pos, End: node.Position, CPW: cpw})
				res.NodeLengths[i] += cur.pos.DistanceFrom(node.Position)
				cur = cursor{pos: node.Position, heading: cur.heading, node: i}
			}
		}
	}

	res.Ports[1] = Port{Position: cur.pos, Heading: cur.heading}
	res.TotalLength = model.PathLength(res.Primitives)
	return res, nil
}

// initialHeading is the launch direction at the first node: its heading
// override when present, otherwise toward the second node.
func initialHeading(nodes []model.Node) float64 {
	if nodes[0].Heading != nil {
		return *nodes[0].Heading
	}
	return model.Angle(nodes[0].Position, nodes[1].Position)
}

// isPassThrough reports whether node i is a plain collinear waypoint that
// only extends the pending straight run. Such nodes finalize no geometry
// and contribute zero per-node length.
func isPassThrough(nodes []model.Node, i int) bool {
	n := nodes[i]
	if i == 0 || i == len(nodes)-1 || n.Component != model.KindNone ||
		n.Heading != nil || n.LengthBefore != nil || n.LengthIncrement != nil {
		return false
	}
	dirIn := nodes[i].Position.Minus(nodes[i-1].Position)
	dirOut := nodes[i+1].Position.Minus(nodes[i].Position)
	if dirIn.Magnitude() < 1e-12 || dirOut.Magnitude() < 1e-12 {
		return false
	}
	turn := math.Atan2(model.Cross(dirIn.Unit(), dirOut.Unit()), model.Dot(dirIn.Unit(), dirOut.Unit()))
	return math.Abs(turn) < straightEps
}

// cornerAt computes the corner geometry for node i given the current
// routing state. It returns hasCorner=false for pass-through nodes,
// component nodes (the component supplies the direction change), and a
// final node without a heading override.
func (a *Assembler) cornerAt(nodes []model.Node, i int, cur cursor, radius float64) (Corner, bool, error) {
	node := nodes[i]
	last := i == len(nodes)-1

	if node.Component != model.KindNone {
		return Corner{}, false, nil
	}

	var dirOut model.Point
	vertex := node.Position
	switch {
	case node.Heading != nil && last:
		// Arrive at the endpoint along the forced heading: the corner
		// vertex is where the incoming line meets the reverse exit ray.
		dirOut = model.PointFromAngle(*node.Heading)
		dirIn := model.PointFromAngle(cur.heading)
		v, ok := intersectLines(cur.pos, dirIn, node.Position, dirOut)
		if !ok {
			// Collinear: no corner needed.
			return Corner{}, false, nil
		}
		vertex = v
	case node.Heading != nil:
		dirOut = model.PointFromAngle(*node.Heading)
	case last:
		return Corner{}, false, nil
	default:
		next := nodes[i+1].Position
		if node.Position.DistanceFrom(next) < 1e-12 {
			return Corner{}, false, errorf(StageCorner, i,
				"coincident waypoints at (%.3f, %.3f)", node.Position.X, node.Position.Y)
		}
		dirOut = next.Minus(node.Position).Unit()
	}

	dirIn := model.PointFromAngle(cur.heading)
	c, err := cornerFromDirs(vertex, dirIn, dirOut, radius)
	if err != nil {
		be := err.(*BuildError)
		be.Node = i
		return Corner{}, false, be
	}
	if c.IsStraight() {
		return c, false, nil
	}

	// The incoming straight run must be long enough to host the cut.
	run := cur.pos.DistanceFrom(vertex)
	if run+1e-9 < c.Cut {
		return Corner{}, false, errorf(StageCorner, i,
			"straight run %.3f into (%.3f, %.3f) is shorter than its corner cut %.3f (radius %.3f, turn %.4f rad)",
			run, vertex.X, vertex.Y, c.Cut, radius, c.Turn)
	}
	if last && model.Dot(node.Position.Minus(c.ArcEnd), dirOut) < -1e-9 {
		return Corner{}, false, errorf(StageCorner, i,
			"corner cut %.3f overshoots the endpoint (%.3f, %.3f)", c.Cut, node.Position.X, node.Position.Y)
	}
	return c, true, nil
}

// emitRun emits the straight run (or exact-length meander) from the current
// tip to runEnd, attributing its length to node i.
func (a *Assembler) emitRun(res *Result, nodes []model.Node, i int, cur cursor, runEnd model.Point, cpw model.CPW, settings model.RouteSettings) error {
	node := nodes[i]
	dist := cur.pos.DistanceFrom(runEnd)

	// The run must leave the tip along the current heading. A component
	// whose exit points somewhere else cannot be silently bent back.
	if dist > 1e-9 {
		dev := model.NormalizeAngle(model.Angle(cur.pos, runEnd) - cur.heading)
		if math.Abs(dev) > 1e-6 {
			stage := StageCorner
			if nodes[cur.node].Component != model.KindNone {
				stage = StageComponent
			}
			return errorf(stage, cur.node,
				"tip heading %.6f rad does not point at the next waypoint (deviation %.6f rad)",
				cur.heading, dev)
		}
	}

	switch {
	case node.LengthBefore != nil || node.LengthIncrement != nil:
		target := dist
		if node.LengthBefore != nil {
			target = *node.LengthBefore
		} else {
			target += *node.LengthIncrement
		}
		s := settings
		s.CPW = cpw
		prims, err := Meander(cur.pos, runEnd, target, s)
		if err != nil {
			be := err.(*BuildError)
			be.Node = i
			return be
		}
		res.Primitives = append(res.Primitives, prims...)
		res.NodeLengths[i] += model.PathLength(prims)
	case isPassThrough(nodes, i):
		// Collinear waypoint: the pending run keeps growing, nothing is
		// finalized here.
	case dist > 1e-9:
		res.Primitives = append(res.Primitives, model.Straight{Start: cur.pos, End: runEnd, CPW: cpw})
		res.NodeLengths[i] += dist
	}
	return nil
}

// placeComponent orients and inserts the component at node i, re-seeding
// the routing state from its exit port and propagating any cross-section
// change downstream.
func (a *Assembler) placeComponent(res *Result, nodes []model.Node, i int, cur cursor, cpw model.CPW) (cursor, model.CPW, error) {
	node := nodes[i]
	if a.Factory == nil {
		return cur, cpw, errorf(StageComponent, i, "route has a %s component but no factory was provided", node.Component)
	}
	tpl, err := a.Factory.Template(node, cpw)
	if err != nil {
		if be, ok := err.(*BuildError); ok {
			be.Node = i
			return cur, cpw, be
		}
		return cur, cpw, errorf(StageComponent, i, "%v", err)
	}

	align := node.AlignPorts()
	entry, ok := tpl.Ports[align.Entry]
	if !ok {
		return cur, cpw, errorf(StageComponent, i, "component %s has no port %q", node.Component, align.Entry)
	}
	if _, ok := tpl.Ports[align.Exit]; !ok {
		return cur, cpw, errorf(StageComponent, i, "component %s has no port %q", node.Component, align.Exit)
	}

	// Rotate the template so the entry tangent matches the incoming
	// heading, then translate its entry onto the tip.
	rot := model.NormalizeAngle(cur.heading - entry.Heading)
	delta := cur.pos.Minus(model.Rotate(entry.Position, rot))

	placement := Placement{
		Kind:  tpl.Kind,
		Node:  i,
		Pose:  Port{Position: cur.pos, Heading: cur.heading},
		Ports: make(map[model.PortName]Port, len(tpl.Ports)),
	}
	for name, p := range tpl.Ports {
		placement.Ports[name] = Port{
			Position: model.Rotate(p.Position, rot).Plus(delta),
			Heading:  model.NormalizeAngle(p.Heading + rot),
		}
	}
	res.Placements = append(res.Placements, placement)

	for _, p := range tpl.Prims {
		tp := p.Transformed(rot, delta)
		res.Primitives = append(res.Primitives, tp)
		res.NodeLengths[i] += tp.Length()
	}

	out := placement.Ports[align.Exit]
	return cursor{pos: out.Position, heading: out.Heading, node: i}, tpl.CPWOut, nil
}
