// Package graph assembles parsed nodes into layered dependency graphs
// and produces the concatenation order.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/topcat-io/topcat/internal/node"
)

// Graph holds nodes grouped into ordered layers plus the dependency
// edges between nodes of the same layer. A dependency on an earlier
// layer is satisfied by layer order alone and carries no edge.
type Graph struct {
	layers []string
	ranks  map[string]int
	nodes  map[string]*node.Node
	succs  map[string][]string
	preds  map[string][]string
	built  bool
}

// New returns an empty graph over the given layers. Layer order
// determines output order.
func New(layers []string) *Graph {
	ranks := make(map[string]int, len(layers))
	for i, layer := range layers {
		ranks[layer] = i
	}
	return &Graph{
		layers: append([]string(nil), layers...),
		ranks:  ranks,
		nodes:  make(map[string]*node.Node),
		succs:  make(map[string][]string),
		preds:  make(map[string][]string),
	}
}

// Add registers a node. Every node must carry one of the configured
// layers; node.Parser enforces that before nodes reach the graph.
func (g *Graph) Add(n *node.Node) error {
	if other, ok := g.nodes[n.Name]; ok {
		return &NameClashError{Name: n.Name, Path: n.Path, Other: other.Path}
	}
	g.nodes[n.Name] = n
	return nil
}

// Len reports the number of registered nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the named node.
func (g *Graph) Node(name string) (*node.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns every registered node sorted by name.
func (g *Graph) Nodes() []*node.Node {
	names := g.sortedNames()
	out := make([]*node.Node, 0, len(names))
	for _, name := range names {
		out = append(out, g.nodes[name])
	}
	return out
}

// Layers returns the configured layer order.
func (g *Graph) Layers() []string {
	return append([]string(nil), g.layers...)
}

// Build validates every dependency and exists declaration, wires the
// same-layer edges, and rejects cyclic dependencies. Call it once
// after the last Add.
func (g *Graph) Build() error {
	for _, name := range g.sortedNames() {
		n := g.nodes[name]
		for _, target := range n.Exists {
			if _, ok := g.nodes[target]; !ok {
				return &MissingExistsError{Node: n.Name, Target: target}
			}
		}
		for _, dep := range n.Requires {
			d, ok := g.nodes[dep]
			if !ok {
				return &MissingDependencyError{Node: n.Name, Dependency: dep}
			}
			switch {
			case g.ranks[d.Layer] == g.ranks[n.Layer]:
				g.succs[dep] = append(g.succs[dep], n.Name)
				g.preds[n.Name] = append(g.preds[n.Name], dep)
			case g.ranks[d.Layer] > g.ranks[n.Layer]:
				return &CrossLayerError{
					Node:            n.Name,
					Layer:           n.Layer,
					Dependency:      dep,
					DependencyLayer: d.Layer,
				}
			}
		}
	}
	if cycles := g.findCycles(); len(cycles) > 0 {
		return &CycleError{Cycles: cycles}
	}
	g.built = true
	return nil
}

// Selection restricts which nodes Ordered returns. A nil Selection or
// a nil field imposes no restriction.
type Selection struct {
	Required        map[string]bool
	IncludePrefixes []string
	ExcludePrefixes []string
}

func (s *Selection) keep(n *node.Node) bool {
	if s == nil {
		return true
	}
	if s.Required != nil && !s.Required[n.Name] {
		return false
	}
	if len(s.IncludePrefixes) > 0 && !hasAnyPrefix(n.Name, s.IncludePrefixes) {
		return false
	}
	if hasAnyPrefix(n.Name, s.ExcludePrefixes) {
		return false
	}
	return true
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Ordered returns the nodes matching sel in concatenation order:
// layers in configured order, nodes within a layer in dependency
// order. Among nodes whose dependencies have all been emitted, the
// greatest name is emitted first, which keeps the order stable across
// runs regardless of how the files were discovered.
func (g *Graph) Ordered(sel *Selection) ([]*node.Node, error) {
	if !g.built {
		return nil, ErrNotBuilt
	}
	var out []*node.Node
	for _, layer := range g.layers {
		for _, name := range g.orderLayer(layer) {
			n := g.nodes[name]
			if sel.keep(n) {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// RequiredBy returns the transitive dependency closure of the named
// nodes, the named nodes included.
func (g *Graph) RequiredBy(initial []string) (map[string]bool, error) {
	required := make(map[string]bool, len(initial))
	queue := append([]string(nil), initial...)
	for _, name := range initial {
		required[name] = true
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		n, ok := g.nodes[name]
		if !ok {
			return nil, fmt.Errorf("node %q not found during dependency traversal", name)
		}
		for _, dep := range n.Requires {
			if _, ok := g.nodes[dep]; !ok {
				return nil, &MissingDependencyError{Node: name, Dependency: dep}
			}
			if !required[dep] {
				required[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return required, nil
}

func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Graph) layerMembers(layer string) []string {
	var members []string
	for name, n := range g.nodes {
		if n.Layer == layer {
			members = append(members, name)
		}
	}
	sort.Strings(members)
	return members
}
