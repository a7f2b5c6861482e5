package model

// RouteSettings holds the geometric configuration a route is built with.
// All lengths are in micrometers.
type RouteSettings struct {
	TurnRadius float64 `json:"turn_radius"` // minimum bend radius for corner arcs
	CPW        CPW     `json:"cpw"`         // cross-section at the route entry

	// Meander synthesis
	MeanderMaxAmplitude float64 `json:"meander_max_amplitude"` // lateral leg cap, 0 = unbounded
	MeanderMaxTurns     int     `json:"meander_max_turns"`     // serpentine half-turn cap

	// Airbridge placement
	BridgeLength    float64 `json:"bridge_length"`    // footprint along the path
	BridgePitch     float64 `json:"bridge_pitch"`     // default spacing in pitch mode
	BridgeClearance float64 `json:"bridge_clearance"` // minimum distance to corners and component edges

	// Spiral packing
	SpacingTolerance float64 `json:"spacing_tolerance"` // bisection termination width
}

// DefaultSettings returns the settings a new route starts from. The values
// match a typical 50-ohm CPW on silicon.
func DefaultSettings() RouteSettings {
	return RouteSettings{
		TurnRadius:          100,
		CPW:                 CPW{TraceWidth: 10, GapWidth: 6},
		MeanderMaxAmplitude: 0,
		MeanderMaxTurns:     64,
		BridgeLength:        30,
		BridgePitch:         250,
		BridgeClearance:     30,
		SpacingTolerance:    0.001,
	}
}
