// Package component provides the inline component factory used by the path
// assembler. Templates are generated in local coordinates with the entry
// port at the origin heading +X; the assembler handles orientation.
package component

import (
	"fmt"
	"math"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
)

// PortBranch is the side port of a T-splitter.
const PortBranch = model.PortName("branch")

// TemplateFunc generates a component template from a node's parameters and
// the running cross-section at the node.
type TemplateFunc func(node model.Node, current model.CPW) (path.Template, error)

// Registry maps component kinds to their template generators. It is passed
// to the assembler explicitly; there is no package-level registry.
type Registry struct {
	templates map[model.ComponentKind]TemplateFunc
}

// NewRegistry returns a registry with all built-in component kinds.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[model.ComponentKind]TemplateFunc)}
	r.Register(model.KindAirbridge, airbridgeTemplate)
	r.Register(model.KindConnector, connectorTemplate)
	r.Register(model.KindCapacitor, capacitorTemplate)
	r.Register(model.KindSplitter, splitterTemplate)
	r.Register(model.KindTaper, taperTemplate)
	return r
}

// Register adds or replaces the generator for a kind.
func (r *Registry) Register(kind model.ComponentKind, fn TemplateFunc) {
	r.templates[kind] = fn
}

// Template implements path.Factory.
func (r *Registry) Template(node model.Node, current model.CPW) (path.Template, error) {
	fn, ok := r.templates[node.Component]
	if !ok {
		return path.Template{}, fmt.Errorf("no template registered for component kind %s", node.Component)
	}
	return fn(node, current)
}

// requestedCPW reads the node's explicit cross-section parameters, falling
// back to the running cross-section for unset fields.
func requestedCPW(node model.Node, current model.CPW) model.CPW {
	return model.CPW{
		TraceWidth: node.Param("trace_width", current.TraceWidth),
		GapWidth:   node.Param("gap_width", current.GapWidth),
	}
}

// checkWidth rejects a declared cross-section that differs from the running
// one. Only tapers may change the cross-section; everything else is a
// configuration error, never a silent coercion.
func checkWidth(kind model.ComponentKind, node model.Node, current model.CPW) error {
	req := requestedCPW(node, current)
	if !req.Equals(current) {
		return fmt.Errorf("%s declares cross-section %.3f/%.3f but the path runs at %.3f/%.3f; insert a taper",
			kind, req.TraceWidth, req.GapWidth, current.TraceWidth, current.GapWidth)
	}
	return nil
}

// passThrough builds a template that is a single straight run of the given
// length with entry and exit ports on its axis.
func passThrough(kind model.ComponentKind, length float64, cpw model.CPW) path.Template {
	tpl := path.Template{
		Kind:   kind,
		CPWOut: cpw,
		Ports: map[model.PortName]path.Port{
			model.PortEntry: {Position: model.Point{}, Heading: 0},
			model.PortExit:  {Position: model.Point{X: length}, Heading: 0},
		},
	}
	if length > 0 {
		tpl.Prims = []model.Primitive{
			model.Straight{Start: model.Point{}, End: model.Point{X: length}, CPW: cpw},
		}
	}
	return tpl
}

// airbridgeTemplate is a zero-footprint crossing marker: the path passes
// through unchanged and the placement pose is consumed by the airbridge
// engine.
func airbridgeTemplate(node model.Node, current model.CPW) (path.Template, error) {
	if err := checkWidth(model.KindAirbridge, node, current); err != nil {
		return path.Template{}, err
	}
	return passThrough(model.KindAirbridge, 0, current), nil
}

// connectorTemplate is a face-crossing connector (flip-chip bump): a fixed
// footprint the path traverses without changing cross-section.
func connectorTemplate(node model.Node, current model.CPW) (path.Template, error) {
	if err := checkWidth(model.KindConnector, node, current); err != nil {
		return path.Template{}, err
	}
	length := node.Param("connector_length", 40)
	if length <= 0 {
		return path.Template{}, fmt.Errorf("connector_length must be positive, got %g", length)
	}
	return passThrough(model.KindConnector, length, current), nil
}

// capacitorTemplate is a series gap capacitor: two pads separated by an
// etched gap in the center conductor.
func capacitorTemplate(node model.Node, current model.CPW) (path.Template, error) {
	if err := checkWidth(model.KindCapacitor, node, current); err != nil {
		return path.Template{}, err
	}
	pad := node.Param("pad_length", 20)
	gap := node.Param("cap_gap", 10)
	if pad <= 0 || gap <= 0 {
		return path.Template{}, fmt.Errorf("capacitor needs positive pad_length and cap_gap, got %g and %g", pad, gap)
	}
	total := 2*pad + gap
	return path.Template{
		Kind:   model.KindCapacitor,
		CPWOut: current,
		Prims: []model.Primitive{
			model.Straight{Start: model.Point{}, End: model.Point{X: pad}, CPW: current},
			model.Straight{Start: model.Point{X: pad + gap}, End: model.Point{X: total}, CPW: current},
		},
		Ports: map[model.PortName]path.Port{
			model.PortEntry: {Position: model.Point{}, Heading: 0},
			model.PortExit:  {Position: model.Point{X: total}, Heading: 0},
		},
	}, nil
}

// splitterTemplate is a T-splitter: a straight trunk with a branch port at
// its midpoint heading +90 degrees. Aligning entry/branch routes the path
// onto the branch arm.
func splitterTemplate(node model.Node, current model.CPW) (path.Template, error) {
	if err := checkWidth(model.KindSplitter, node, current); err != nil {
		return path.Template{}, err
	}
	length := node.Param("splitter_length", 60)
	arm := node.Param("arm_length", length/2)
	if length <= 0 || arm <= 0 {
		return path.Template{}, fmt.Errorf("splitter needs positive splitter_length and arm_length, got %g and %g", length, arm)
	}
	mid := length / 2
	return path.Template{
		Kind:   model.KindSplitter,
		CPWOut: current,
		Prims: []model.Primitive{
			model.Straight{Start: model.Point{}, End: model.Point{X: length}, CPW: current},
			model.Straight{Start: model.Point{X: mid}, End: model.Point{X: mid, Y: arm}, CPW: current},
		},
		Ports: map[model.PortName]path.Port{
			model.PortEntry: {Position: model.Point{}, Heading: 0},
			model.PortExit:  {Position: model.Point{X: length}, Heading: 0},
			PortBranch:      {Position: model.Point{X: mid, Y: arm}, Heading: math.Pi / 2},
		},
	}, nil
}

// taperTemplate changes the cross-section: the path continues at the
// node's declared trace/gap widths downstream.
func taperTemplate(node model.Node, current model.CPW) (path.Template, error) {
	length := node.Param("taper_length", 60)
	if length <= 0 {
		return path.Template{}, fmt.Errorf("taper_length must be positive, got %g", length)
	}
	target := requestedCPW(node, current)
	tpl := passThrough(model.KindTaper, length, target)
	tpl.CPWOut = target
	return tpl, nil
}
