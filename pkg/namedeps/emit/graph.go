// Package emit renders dependency analysis results: graph views for
// visualization and ordered procedural scripts.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

// Node is one reference in a graph view.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	File     string `json:"file"`
	Formula  string `json:"formula,omitempty"`
	Computed bool   `json:"computed"`
}

// GraphView is a drawable projection of a dependency graph.
type GraphView struct {
	Nodes []Node        `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

// BuildGraph projects a dependency graph into one node per reference and one
// edge per dependency, directed from the dependency to its dependent.
func BuildGraph(c *models.Collection, g *models.Graph) GraphView {
	view := GraphView{
		Nodes: make([]Node, 0, c.Len()),
		Edges: g.Edges(),
	}
	for _, ref := range c.References() {
		view.Nodes = append(view.Nodes, Node{
			ID:       ref.Key,
			Label:    ref.Label,
			File:     ref.File,
			Formula:  ref.Formula,
			Computed: ref.IsComputed(),
		})
	}
	if view.Edges == nil {
		view.Edges = []models.Edge{}
	}
	return view
}

// WriteDOT writes the graph view in Graphviz DOT format.
func WriteDOT(w io.Writer, view GraphView) error {
	var b strings.Builder
	b.WriteString("digraph namedeps {\n")
	for _, n := range view.Nodes {
		label := n.Label
		if n.ID != n.Label {
			label = n.ID
		}
		fmt.Fprintf(&b, "  %s [label=%s", dotQuote(n.ID), dotQuote(label))
		if n.Formula != "" {
			fmt.Fprintf(&b, ", tooltip=%s", dotQuote(n.Formula))
		}
		b.WriteString("];\n")
	}
	for _, e := range view.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", dotQuote(e.Source), dotQuote(e.Target))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
