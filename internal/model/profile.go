package model

// ProcessProfile captures the cross-section and bridge geometry of one
// fabrication process. Routes built for the same process share a profile
// instead of repeating raw numbers.
type ProcessProfile struct {
	Name        string `json:"name"`        // Profile name
	Description string `json:"description"` // Profile description

	// Cross-section geometry (um)
	TraceWidth float64 `json:"trace_width"`
	GapWidth   float64 `json:"gap_width"`
	TurnRadius float64 `json:"turn_radius"`

	// Airbridge geometry (um)
	BridgeLength    float64 `json:"bridge_length"`
	BridgePitch     float64 `json:"bridge_pitch"`
	BridgeClearance float64 `json:"bridge_clearance"`

	IsBuiltIn bool `json:"is_built_in,omitempty"`
}

// ApplyToSettings copies the profile geometry into a RouteSettings struct.
func (p ProcessProfile) ApplyToSettings(s *RouteSettings) {
	s.TurnRadius = p.TurnRadius
	s.CPW.TraceWidth = p.TraceWidth
	s.CPW.GapWidth = p.GapWidth
	s.BridgeLength = p.BridgeLength
	s.BridgePitch = p.BridgePitch
	s.BridgeClearance = p.BridgeClearance
}

// Built-in process profiles
var ProcessProfiles = []ProcessProfile{
	{
		Name:            "Al standard",
		Description:     "Aluminum on high-resistivity silicon, 50 ohm CPW",
		TraceWidth:      10,
		GapWidth:        6,
		TurnRadius:      100,
		BridgeLength:    30,
		BridgePitch:     250,
		BridgeClearance: 30,
		IsBuiltIn:       true,
	},
	{
		Name:            "Al wide",
		Description:     "Low-loss wide cross-section for long feedlines",
		TraceWidth:      20,
		GapWidth:        12,
		TurnRadius:      200,
		BridgeLength:    40,
		BridgePitch:     300,
		BridgeClearance: 40,
		IsBuiltIn:       true,
	},
	{
		Name:            "NbTiN compact",
		Description:     "High kinetic inductance film, tight packing",
		TraceWidth:      4,
		GapWidth:        2,
		TurnRadius:      50,
		BridgeLength:    20,
		BridgePitch:     150,
		BridgeClearance: 20,
		IsBuiltIn:       true,
	},
}

// FindProcessProfile returns the built-in profile with the given name, or nil.
func FindProcessProfile(name string) *ProcessProfile {
	for i := range ProcessProfiles {
		if ProcessProfiles[i].Name == name {
			return &ProcessProfiles[i]
		}
	}
	return nil
}
