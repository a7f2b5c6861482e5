package model

import (
	"time"

	"github.com/google/uuid"
)

// RouteTemplate represents a reusable route skeleton that captures waypoints
// and settings but not build results. Templates are how common structures
// such as feedline ladders or resonator banks are stamped out repeatedly.
type RouteTemplate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Nodes       []Node        `json:"nodes"`
	Settings    RouteSettings `json:"settings"`
}

// NewRouteTemplate creates a new template from the given route data.
func NewRouteTemplate(name, description string, nodes []Node, settings RouteSettings) RouteTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return RouteTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Nodes:       copyNodes(nodes),
		Settings:    settings,
	}
}

// ToRoute creates a new Route from this template. The route gets a fresh ID
// so it is independent of the template.
func (t RouteTemplate) ToRoute(label string) Route {
	r := NewRoute(label)
	r.Nodes = copyNodes(t.Nodes)
	r.Settings = t.Settings
	return r
}

// TemplateStore holds a collection of route templates.
type TemplateStore struct {
	Templates []RouteTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []RouteTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t RouteTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *RouteTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *RouteTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// copyNodes creates a deep copy of a node slice. Pointer directives and the
// parameter map are cloned so a stamped route and its template never share
// mutable state.
func copyNodes(nodes []Node) []Node {
	cp := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Align = copyPtr(n.Align)
		n.Heading = copyPtr(n.Heading)
		n.LengthBefore = copyPtr(n.LengthBefore)
		n.LengthIncrement = copyPtr(n.LengthIncrement)
		if n.Params != nil {
			params := make(map[string]ParamValue, len(n.Params))
			for k, v := range n.Params {
				params[k] = v
			}
			n.Params = params
		}
		cp[i] = n
	}
	return cp
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
