package models

// Problem describes a recoverable failure attached to a partial result.
type Problem struct {
	// File is the workbook the problem belongs to.
	File string `json:"file"`
	// Name is the defined name being processed (optional).
	Name string `json:"name,omitempty"`
	// Location is the destination Sheet!Range being processed (optional).
	Location string `json:"location,omitempty"`
	// Message describes what failed.
	Message string `json:"message"`
}

// CycleReport describes a dependency cycle that prevents a total order.
type CycleReport struct {
	// Cycle is one concrete cycle path; the first key is repeated at the end.
	Cycle []string `json:"cycle"`
	// Unresolved lists every key that could not be ordered.
	Unresolved []string `json:"unresolved"`
}

// Analysis is the result of analyzing one or more workbooks.
type Analysis struct {
	// Files lists the workbook labels that were read successfully.
	Files []string `json:"files"`
	// References lists every extracted reference in insertion order.
	References []NamedReference `json:"references"`
	// Dependencies maps each reference key to the keys it depends on.
	Dependencies map[string][]string `json:"dependencies"`
	// Edges lists every dependency edge (source -> target).
	Edges []Edge `json:"edges"`
	// Order is the evaluation order; nil when a cycle exists.
	Order []string `json:"order"`
	// Cycle is set when the references cannot be ordered.
	Cycle *CycleReport `json:"cycle,omitempty"`
	// Collisions lists labels defined in more than one file.
	Collisions []Collision `json:"collisions,omitempty"`
	// SelfReferences lists keys whose formula mentions their own label.
	SelfReferences []string `json:"self_references,omitempty"`
	// Problems lists recoverable failures encountered along the way.
	Problems []Problem `json:"problems,omitempty"`
	// Script is the generated procedural code, when requested.
	Script string `json:"script,omitempty"`

	collection *Collection
	graph      *Graph
}

// NewAnalysis creates an analysis result bound to its collection and graph.
func NewAnalysis(c *Collection, g *Graph) *Analysis {
	a := &Analysis{
		Files:        c.Files(),
		References:   c.References(),
		Dependencies: g.Map(),
		Edges:        g.Edges(),
		collection:   c,
		graph:        g,
	}
	if a.Edges == nil {
		a.Edges = []Edge{}
	}
	if self := g.SelfReferences(); len(self) > 0 {
		a.SelfReferences = self
	}
	return a
}

// Collection returns the reference collection behind the analysis.
func (a *Analysis) Collection() *Collection {
	return a.collection
}

// Graph returns the dependency graph behind the analysis.
func (a *Analysis) Graph() *Graph {
	return a.graph
}
