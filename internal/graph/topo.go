package graph

import (
	"sort"

	"github.com/topcat-io/topcat/internal/node"
)

// orderLayer returns the layer's node names in dependency order. At
// every step the ready set holds the nodes whose same-layer
// dependencies have all been emitted; the greatest name among them is
// emitted next.
func (g *Graph) orderLayer(layer string) []string {
	members := g.layerMembers(layer)

	indegree := make(map[string]int, len(members))
	var ready []string
	for _, name := range members {
		indegree[name] = len(g.preds[name])
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	out := make([]string, 0, len(members))
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		out = append(out, next)
		for _, succ := range g.succs[next] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	return out
}

// Edge is one same-layer dependency edge, pointing from a dependency
// to its dependent.
type Edge struct {
	From string
	To   string
}

// Cycle is one strongly connected group of nodes.
type Cycle struct {
	Participants []*node.Node
	Edges        []Edge
}

// findCycles inspects every layer's subgraph and returns one Cycle
// per strongly connected group, participants sorted by name.
func (g *Graph) findCycles() []Cycle {
	var cycles []Cycle
	for _, layer := range g.layers {
		for _, scc := range stronglyConnected(g.layerMembers(layer), g.succs) {
			if len(scc) == 1 && !hasEdge(g.succs, scc[0], scc[0]) {
				continue
			}
			cycles = append(cycles, g.newCycle(scc))
		}
	}
	return cycles
}

func (g *Graph) newCycle(names []string) Cycle {
	sort.Strings(names)
	members := make(map[string]bool, len(names))
	for _, name := range names {
		members[name] = true
	}

	cycle := Cycle{Participants: make([]*node.Node, 0, len(names))}
	for _, name := range names {
		cycle.Participants = append(cycle.Participants, g.nodes[name])
	}
	for _, from := range names {
		for _, to := range g.succs[from] {
			if members[to] {
				cycle.Edges = append(cycle.Edges, Edge{From: from, To: to})
			}
		}
	}
	return cycle
}

func hasEdge(succs map[string][]string, from, to string) bool {
	for _, succ := range succs[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// stronglyConnected runs Tarjan's algorithm over the given node set,
// following only edges whose both ends are in the set.
func stronglyConnected(names []string, succs map[string][]string) [][]string {
	inSet := make(map[string]bool, len(names))
	for _, name := range names {
		inSet[name] = true
	}

	index := make(map[string]int, len(names))
	lowlink := make(map[string]int, len(names))
	onStack := make(map[string]bool, len(names))
	var stack []string
	var sccs [][]string
	next := 0

	var connect func(v string)
	connect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range succs[v] {
			if !inSet[w] {
				continue
			}
			if _, seen := index[w]; !seen {
				connect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, name := range names {
		if _, seen := index[name]; !seen {
			connect(name)
		}
	}
	return sccs
}
