package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Route is an ordered waypoint list plus the settings used to build it.
// The first and last nodes are the route's external ports.
type Route struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Nodes    []Node        `json:"nodes"`
	Settings RouteSettings `json:"settings"`
}

// NewRoute creates a route with a fresh short ID and default settings.
func NewRoute(label string, nodes ...Node) Route {
	return Route{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Nodes:    nodes,
		Settings: DefaultSettings(),
	}
}

// Validate checks the structural invariants of the route before any
// geometry is built.
func (r Route) Validate() error {
	if len(r.Nodes) < 2 {
		return fmt.Errorf("route %q: need at least 2 nodes, got %d", r.Label, len(r.Nodes))
	}
	if r.Settings.TurnRadius <= 0 {
		return fmt.Errorf("route %q: turn radius must be positive, got %g", r.Label, r.Settings.TurnRadius)
	}
	for i, n := range r.Nodes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("route %q node %d: %w", r.Label, i, err)
		}
		if i == 0 && (n.LengthBefore != nil || n.LengthIncrement != nil) {
			return fmt.Errorf("route %q node 0: no segment precedes the first node", r.Label)
		}
	}
	return nil
}

// WaypointNode returns a plain waypoint node at the given position.
func WaypointNode(x, y float64) Node {
	return Node{Position: Point{X: x, Y: y}}
}
