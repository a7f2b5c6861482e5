package model

import (
	"encoding/json"
	"fmt"
)

// DocumentVersion is the current route file schema version. Old versions
// are migrated on load; unknown newer versions are rejected.
const DocumentVersion = 1

// routeDocument is the on-disk envelope for a serialized route.
type routeDocument struct {
	Version int   `json:"version"`
	Route   Route `json:"route"`
}

// MarshalJSON serializes the component kind as its string tag.
func (k ComponentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON restores a component kind from its string tag.
func (k *ComponentKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseComponentKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalRoute serializes a route into its versioned JSON document form.
func MarshalRoute(r Route) ([]byte, error) {
	return json.MarshalIndent(routeDocument{Version: DocumentVersion, Route: r}, "", "  ")
}

// UnmarshalRoute restores a route from its JSON document form. Position is
// restored exactly; all other fields are semantically equal after a
// marshal/unmarshal round trip.
func UnmarshalRoute(data []byte) (Route, error) {
	var doc routeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Route{}, fmt.Errorf("parsing route document: %w", err)
	}
	if doc.Version > DocumentVersion {
		return Route{}, fmt.Errorf("route document version %d is newer than supported version %d",
			doc.Version, DocumentVersion)
	}
	return doc.Route, nil
}
