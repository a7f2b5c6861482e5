package model

import "fmt"

// ComponentKind tags the inline component carried by a route node.
type ComponentKind int

const (
	KindNone      ComponentKind = iota // plain waypoint
	KindAirbridge                      // crossing bridge marker
	KindConnector                      // face-crossing connector (flip-chip bump)
	KindCapacitor                      // series gap capacitor
	KindSplitter                       // T-splitter with a branch port
	KindTaper                          // cross-section change, new width downstream
)

func (k ComponentKind) String() string {
	switch k {
	case KindAirbridge:
		return "airbridge"
	case KindConnector:
		return "connector"
	case KindCapacitor:
		return "capacitor"
	case KindSplitter:
		return "splitter"
	case KindTaper:
		return "taper"
	default:
		return "none"
	}
}

// ParseComponentKind converts the serialized tag back to a ComponentKind.
func ParseComponentKind(s string) (ComponentKind, error) {
	switch s {
	case "", "none":
		return KindNone, nil
	case "airbridge":
		return KindAirbridge, nil
	case "connector":
		return KindConnector, nil
	case "capacitor":
		return KindCapacitor, nil
	case "splitter":
		return KindSplitter, nil
	case "taper":
		return KindTaper, nil
	default:
		return KindNone, fmt.Errorf("unknown component kind %q", s)
	}
}

// PortName identifies a named port on a component template.
type PortName string

// Canonical alignment ports used when a node does not override them.
const (
	PortEntry PortName = "entry"
	PortExit  PortName = "exit"
)

// Align selects which two ports of an inline component serve as its entry
// and exit when orienting it along the path.
type Align struct {
	Entry PortName `json:"entry"`
	Exit  PortName `json:"exit"`
}

// DefaultAlign is the canonical entry/exit pair.
func DefaultAlign() Align {
	return Align{Entry: PortEntry, Exit: PortExit}
}

// Node is one waypoint in a composite waveguide route.
//
// Heading, LengthBefore and LengthIncrement are optional; nil means unset.
// LengthBefore requests that the path segment immediately preceding this
// node have exactly the given length, LengthIncrement requests it be longer
// than its straight-line length by the given delta. Setting both is a
// structural error.
type Node struct {
	Position        Point                 `json:"position"`
	Component       ComponentKind         `json:"component,omitempty"`
	Align           *Align                `json:"align,omitempty"`
	Heading         *float64              `json:"heading,omitempty"`
	LengthBefore    *float64              `json:"length_before,omitempty"`
	LengthIncrement *float64              `json:"length_increment,omitempty"`
	Params          map[string]ParamValue `json:"params,omitempty"`
}

// AlignPorts returns the node's alignment pair, falling back to the
// canonical entry/exit ports.
func (n Node) AlignPorts() Align {
	if n.Align != nil {
		return *n.Align
	}
	return DefaultAlign()
}

// Param returns the numeric parameter under key, or fallback when the key
// is absent or not numeric.
func (n Node) Param(key string, fallback float64) float64 {
	if v, ok := n.Params[key]; ok && v.Kind == ParamNumber {
		return v.Number
	}
	return fallback
}

// Validate checks the node's own parameter consistency.
func (n Node) Validate() error {
	if n.LengthBefore != nil && n.LengthIncrement != nil {
		return fmt.Errorf("node at (%.3f, %.3f): length_before and length_increment are mutually exclusive",
			n.Position.X, n.Position.Y)
	}
	if n.LengthBefore != nil && *n.LengthBefore <= 0 {
		return fmt.Errorf("node at (%.3f, %.3f): length_before must be positive, got %g",
			n.Position.X, n.Position.Y, *n.LengthBefore)
	}
	if n.LengthIncrement != nil && *n.LengthIncrement < 0 {
		return fmt.Errorf("node at (%.3f, %.3f): length_increment must be non-negative, got %g",
			n.Position.X, n.Position.Y, *n.LengthIncrement)
	}
	if n.Align != nil && n.Component == KindNone {
		return fmt.Errorf("node at (%.3f, %.3f): align given without a component",
			n.Position.X, n.Position.Y)
	}
	return nil
}
