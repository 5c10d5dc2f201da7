package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotBuilt indicates an operation that needs Build to have run.
var ErrNotBuilt = errors.New("graph has not been built")

// NameClashError reports two files declaring the same node name.
type NameClashError struct {
	Name  string
	Path  string
	Other string
}

func (e *NameClashError) Error() string {
	return fmt.Sprintf("name %s found in both %s and %s", e.Name, e.Path, e.Other)
}

// MissingDependencyError reports a requires target with no matching node.
type MissingDependencyError struct {
	Node       string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s depends on %s but it is missing", e.Node, e.Dependency)
}

// MissingExistsError reports an exists target with no matching node.
type MissingExistsError struct {
	Node   string
	Target string
}

func (e *MissingExistsError) Error() string {
	return fmt.Sprintf("%s expects %s to exist but it is not found", e.Node, e.Target)
}

// CrossLayerError reports a dependency that points at a later layer.
// Layer order alone places later layers after earlier ones, so such a
// dependency can never be satisfied.
type CrossLayerError struct {
	Node            string
	Layer           string
	Dependency      string
	DependencyLayer string
}

func (e *CrossLayerError) Error() string {
	return fmt.Sprintf("%s in layer %s depends on %s in later layer %s",
		e.Node, e.Layer, e.Dependency, e.DependencyLayer)
}

// CycleError reports groups of nodes that depend on each other.
type CycleError struct {
	Cycles []Cycle
}

func (e *CycleError) Error() string {
	var b strings.Builder
	b.WriteString("cyclic dependency detected:\n")
	for i, cycle := range e.Cycles {
		fmt.Fprintf(&b, "  cycle %d:\n", i+1)
		b.WriteString("    participants:\n")
		for _, n := range cycle.Participants {
			fmt.Fprintf(&b, "      - %s (%s)\n", n.Name, n.Path)
		}
		b.WriteString("    edges:\n")
		for _, edge := range cycle.Edges {
			fmt.Fprintf(&b, "      - %s -> %s\n", edge.From, edge.To)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
