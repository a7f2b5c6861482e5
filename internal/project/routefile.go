package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qdevlab/cpwroute/internal/model"
)

// SaveRoute writes a route definition to the given path as versioned JSON.
// It creates any missing parent directories automatically.
func SaveRoute(path string, route model.Route) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create route directory: %w", err)
	}
	data, err := model.MarshalRoute(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRoute reads a route definition from the given path.
func LoadRoute(path string) (model.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Route{}, fmt.Errorf("failed to read route file: %w", err)
	}
	route, err := model.UnmarshalRoute(data)
	if err != nil {
		return model.Route{}, fmt.Errorf("failed to parse route file: %w", err)
	}
	return route, nil
}
