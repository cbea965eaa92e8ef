package models

import "slices"

// Edge is a directed dependency: Target's formula references Source's label.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph maps every reference key to the keys it depends on.
// Node order follows the collection's insertion order.
type Graph struct {
	nodes []string
	index map[string]int
	deps  map[string][]string
	self  []string
}

// NewGraph creates a graph with one empty entry per key.
func NewGraph(keys []string) *Graph {
	g := &Graph{
		nodes: make([]string, 0, len(keys)),
		index: make(map[string]int, len(keys)),
		deps:  make(map[string][]string, len(keys)),
	}
	for _, k := range keys {
		if _, ok := g.index[k]; ok {
			continue
		}
		g.index[k] = len(g.nodes)
		g.nodes = append(g.nodes, k)
		g.deps[k] = []string{}
	}
	return g
}

// AddDependency records that target depends on source. Self-edges, unknown
// keys and duplicates are ignored; it returns whether an edge was added.
func (g *Graph) AddDependency(target, source string) bool {
	if target == source {
		return false
	}
	if _, ok := g.index[target]; !ok {
		return false
	}
	if _, ok := g.index[source]; !ok {
		return false
	}
	if slices.Contains(g.deps[target], source) {
		return false
	}
	g.deps[target] = append(g.deps[target], source)
	return true
}

// MarkSelfReference records a key whose formula mentions its own label.
func (g *Graph) MarkSelfReference(key string) {
	g.self = append(g.self, key)
}

// SelfReferences returns the keys whose formula mentions their own label.
func (g *Graph) SelfReferences() []string {
	return g.self
}

// Nodes returns the node keys in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Index returns the insertion index of key, or -1.
func (g *Graph) Index(key string) int {
	if i, ok := g.index[key]; ok {
		return i
	}
	return -1
}

// Dependencies returns the keys target depends on.
func (g *Graph) Dependencies(target string) []string {
	return g.deps[target]
}

// Dependents returns, for each key, the keys that depend on it.
func (g *Graph) Dependents() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, target := range g.nodes {
		for _, source := range g.deps[target] {
			out[source] = append(out[source], target)
		}
	}
	return out
}

// Edges returns every dependency edge, grouped by target in node order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, target := range g.nodes {
		for _, source := range g.deps[target] {
			out = append(out, Edge{Source: source, Target: target})
		}
	}
	return out
}

// Map returns a copy of the adjacency as key -> dependencies.
func (g *Graph) Map() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, k := range g.nodes {
		deps := make([]string, len(g.deps[k]))
		copy(deps, g.deps[k])
		out[k] = deps
	}
	return out
}
