package models

import (
	"reflect"
	"testing"
)

func TestGraph_AddDependency(t *testing.T) {
	g := NewGraph([]string{"A", "B", "C"})

	tests := []struct {
		target, source string
		added          bool
	}{
		{"B", "A", true},
		{"B", "A", false},
		{"A", "A", false},
		{"A", "Missing", false},
		{"C", "B", true},
	}
	for _, tt := range tests {
		if got := g.AddDependency(tt.target, tt.source); got != tt.added {
			t.Errorf("AddDependency(%s, %s) = %v, expected %v", tt.target, tt.source, got, tt.added)
		}
	}

	expected := []Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}
	if got := g.Edges(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected edges %v, got %v", expected, got)
	}
	if got := g.Dependents()["A"]; !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Expected dependents [B], got %v", got)
	}
	if g.Index("C") != 2 || g.Index("Missing") != -1 {
		t.Error("Unexpected index")
	}
}

func TestGraph_MapIsACopy(t *testing.T) {
	g := NewGraph([]string{"A", "B"})
	g.AddDependency("B", "A")

	m := g.Map()
	m["B"][0] = "changed"

	if g.Dependencies("B")[0] != "A" {
		t.Error("Map exposed internal state")
	}
	if deps := m["A"]; deps == nil || len(deps) != 0 {
		t.Errorf("Expected empty, non-nil entry for inputs, got %#v", deps)
	}
}
