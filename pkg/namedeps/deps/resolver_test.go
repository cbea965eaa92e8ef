package deps

import (
	"reflect"
	"testing"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

func ref(key, label, formula string) models.NamedReference {
	return models.NamedReference{Key: key, Label: label, Formula: formula, File: "book.xlsx"}
}

func newCollection(t *testing.T, refs ...models.NamedReference) *models.Collection {
	t.Helper()
	c := models.NewCollection(false)
	for _, r := range refs {
		if err := c.Add(r); err != nil {
			t.Fatalf("Add(%s) failed: %v", r.Key, err)
		}
	}
	return c
}

func TestContainsLabel(t *testing.T) {
	tests := []struct {
		formula  string
		label    string
		expected bool
	}{
		{"=Rate*2", "Rate", true},
		{"=Rate2", "Rate", false},
		{"=MyRate", "Rate", false},
		{"=Tax_Rate", "Rate", false},
		{"=RATE+1", "rate", true},
		{"=SUM(Rate,1)", "Rate", true},
		{"=Sheet1!Rate", "Rate", true},
		{"=a.b+1", "a.b", true},
		{"=axb+1", "a.b", false},
		{"", "Rate", false},
		{"=Rate", "", false},
	}

	for _, tt := range tests {
		if got := ContainsLabel(tt.formula, tt.label); got != tt.expected {
			t.Errorf("ContainsLabel(%q, %q) = %v, expected %v", tt.formula, tt.label, got, tt.expected)
		}
	}
}

func TestResolve_WholeTokens(t *testing.T) {
	c := newCollection(t,
		ref("Rate", "Rate", ""),
		ref("Rate2", "Rate2", ""),
		ref("MyRate", "MyRate", ""),
		ref("Total", "Total", "=Rate*2"),
		ref("Other", "Other", "=rate2+MyRate"),
	)

	g := Resolve(c, nil)

	expected := map[string][]string{
		"Rate":   {},
		"Rate2":  {},
		"MyRate": {},
		"Total":  {"Rate"},
		"Other":  {"Rate2", "MyRate"},
	}
	if got := g.Map(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestResolve_NoSelfEdges(t *testing.T) {
	c := newCollection(t,
		ref("Rate", "Rate", ""),
		ref("Counter", "Counter", "=Counter+Rate"),
	)

	g := Resolve(c, nil)

	for _, e := range g.Edges() {
		if e.Source == e.Target {
			t.Errorf("Unexpected self edge %v", e)
		}
	}
	if deps := g.Dependencies("Counter"); !reflect.DeepEqual(deps, []string{"Rate"}) {
		t.Errorf("Expected [Rate], got %v", deps)
	}
	if self := g.SelfReferences(); !reflect.DeepEqual(self, []string{"Counter"}) {
		t.Errorf("Expected Counter to be marked, got %v", self)
	}
}

func TestResolve_Completeness(t *testing.T) {
	c := newCollection(t,
		ref("A", "A", ""),
		ref("B", "B", "=A+Unknown"),
		ref("C", "C", "=1+1"),
	)

	g := Resolve(c, nil)
	m := g.Map()

	if len(m) != c.Len() {
		t.Fatalf("Expected %d entries, got %d", c.Len(), len(m))
	}
	for _, key := range c.Keys() {
		if _, ok := m[key]; !ok {
			t.Errorf("Missing entry for %s", key)
		}
	}
}

func TestResolve_SharedLabelFansOut(t *testing.T) {
	c := models.NewCollection(true)
	for _, r := range []models.NamedReference{
		{Key: "a.xlsx::Rate", Label: "Rate", File: "a.xlsx"},
		{Key: "b.xlsx::Rate", Label: "Rate", File: "b.xlsx"},
		{Key: "a.xlsx::Base", Label: "Base", File: "a.xlsx"},
		{Key: "a.xlsx::Total", Label: "Total", Formula: "=Base*Rate", File: "a.xlsx"},
	} {
		if err := c.Add(r); err != nil {
			t.Fatal(err)
		}
	}

	g := Resolve(c, nil)

	expected := []string{"a.xlsx::Rate", "b.xlsx::Rate", "a.xlsx::Base"}
	if got := g.Dependencies("a.xlsx::Total"); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
