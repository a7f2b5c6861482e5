package model

// AppConfig holds tool-wide preferences and default route settings.
type AppConfig struct {
	// Defaults applied to new routes
	DefaultTurnRadius      float64 `json:"default_turn_radius"`
	DefaultTraceWidth      float64 `json:"default_trace_width"`
	DefaultGapWidth        float64 `json:"default_gap_width"`
	DefaultBridgeLength    float64 `json:"default_bridge_length"`
	DefaultBridgePitch     float64 `json:"default_bridge_pitch"`
	DefaultBridgeClearance float64 `json:"default_bridge_clearance"`

	// Tool preferences
	ArcChordTolerance float64  `json:"arc_chord_tolerance"` // DXF export discretization, µm
	RecentRoutes      []string `json:"recent_routes"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultTurnRadius:      defaults.TurnRadius,
		DefaultTraceWidth:      defaults.CPW.TraceWidth,
		DefaultGapWidth:        defaults.CPW.GapWidth,
		DefaultBridgeLength:    defaults.BridgeLength,
		DefaultBridgePitch:     defaults.BridgePitch,
		DefaultBridgeClearance: defaults.BridgeClearance,
		ArcChordTolerance:      0.5,
		RecentRoutes:           []string{},
	}
}

// ApplyToSettings copies the saved defaults into a RouteSettings struct.
// This is used when creating a new route so it inherits the user's
// preferred values.
func (c AppConfig) ApplyToSettings(s *RouteSettings) {
	s.TurnRadius = c.DefaultTurnRadius
	s.CPW.TraceWidth = c.DefaultTraceWidth
	s.CPW.GapWidth = c.DefaultGapWidth
	s.BridgeLength = c.DefaultBridgeLength
	s.BridgePitch = c.DefaultBridgePitch
	s.BridgeClearance = c.DefaultBridgeClearance
}
