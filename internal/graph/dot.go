package graph

import (
	"fmt"
	"strings"
)

// DOT renders the dependency edges of the given layers in Graphviz
// format. With no layers it renders every configured layer in one
// digraph.
func (g *Graph) DOT(layers ...string) (string, error) {
	if !g.built {
		return "", ErrNotBuilt
	}
	if len(layers) == 0 {
		layers = g.layers
	}

	ids := make(map[string]int)
	var ordered []string
	for _, layer := range layers {
		for _, name := range g.layerMembers(layer) {
			ids[name] = len(ordered)
			ordered = append(ordered, name)
		}
	}

	var b strings.Builder
	b.WriteString("digraph {\n")
	for i, name := range ordered {
		fmt.Fprintf(&b, "    %d [ label=%q ]\n", i, name)
	}
	for _, from := range ordered {
		for _, to := range g.succs[from] {
			if _, ok := ids[to]; ok {
				fmt.Fprintf(&b, "    %d -> %d [ ]\n", ids[from], ids[to])
			}
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}
