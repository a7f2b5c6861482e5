// Package path builds physically valid waveguide geometry from a route's
// node list: straight runs joined by constant-radius corner arcs, inline
// component insertion, and exact-length meander substitution.
package path

import "fmt"

// Stage identifies which part of the build detected an error.
type Stage string

const (
	StageStructure Stage = "structure" // node list or parameter validation
	StageCorner    Stage = "corner"    // corner arc infeasibility
	StageComponent Stage = "component" // component placement or width mismatch
	StageMeander   Stage = "meander"   // length matching infeasibility
	StageSpiral    Stage = "spiral"    // spiral construction infeasibility
	StageSearch    Stage = "search"    // spacing search non-convergence
)

// BuildError is the single error type the engine reports. It carries the
// failing stage, the route node index the failure is attributed to (-1 when
// no single node applies), and a message with the violating quantities.
type BuildError struct {
	Stage  Stage
	Node   int
	Detail string
}

func (e *BuildError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("%s: node %d: %s", e.Stage, e.Node, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Detail)
}

// errorf builds a BuildError with a formatted detail message.
func errorf(stage Stage, node int, format string, args ...interface{}) *BuildError {
	return &BuildError{Stage: stage, Node: node, Detail: fmt.Sprintf(format, args...)}
}
