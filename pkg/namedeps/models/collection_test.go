package models

import (
	"reflect"
	"testing"
)

func part(file string, labels ...string) *Collection {
	c := NewCollection(false)
	for _, label := range labels {
		c.Add(NamedReference{Key: label, Label: label, File: file})
	}
	return c
}

func TestCollection_AddRejectsDuplicates(t *testing.T) {
	c := NewCollection(false)
	if err := c.Add(NamedReference{Key: "Rate", Label: "Rate", Formula: "=1"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(NamedReference{Key: "Rate", Label: "Rate"}); err == nil {
		t.Error("Expected duplicate key error")
	}
	if err := c.Add(NamedReference{Label: "NoKey"}); err == nil {
		t.Error("Expected empty key error")
	}

	ref, _ := c.Get("Rate")
	if ref.Formula != "=1" {
		t.Errorf("Existing entry was overwritten: %+v", ref)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 reference, got %d", c.Len())
	}
}

func TestCollection_InsertionOrder(t *testing.T) {
	c := part("book.xlsx", "Zeta", "Alpha", "Mid")

	if got := c.Keys(); !reflect.DeepEqual(got, []string{"Zeta", "Alpha", "Mid"}) {
		t.Errorf("Unexpected key order %v", got)
	}
	if got := c.ByLabel("alpha"); len(got) != 1 || got[0].Key != "Alpha" {
		t.Errorf("ByLabel(alpha) = %v", got)
	}
}

func TestMerge_NamespacesAndReportsCollisions(t *testing.T) {
	a := part("a.xlsx", "Rate", "Base")
	b := part("b.xlsx", "RATE", "Other")

	merged, collisions, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !merged.Namespaced() {
		t.Error("Expected a namespaced collection")
	}

	expectedKeys := []string{"a.xlsx::Rate", "a.xlsx::Base", "b.xlsx::RATE", "b.xlsx::Other"}
	if got := merged.Keys(); !reflect.DeepEqual(got, expectedKeys) {
		t.Errorf("Expected keys %v, got %v", expectedKeys, got)
	}
	if got := merged.ByLabel("rate"); len(got) != 2 {
		t.Errorf("Expected both Rate references to survive, got %v", got)
	}

	expected := []Collision{{Label: "Rate", Files: []string{"a.xlsx", "b.xlsx"}}}
	if !reflect.DeepEqual(collisions, expected) {
		t.Errorf("Expected collisions %v, got %v", expected, collisions)
	}
	if files := merged.Files(); !reflect.DeepEqual(files, []string{"a.xlsx", "b.xlsx"}) {
		t.Errorf("Unexpected files %v", files)
	}
}

func TestFindCollisions_None(t *testing.T) {
	if got := FindCollisions(part("a.xlsx", "A"), part("b.xlsx", "B")); got != nil {
		t.Errorf("Expected no collisions, got %v", got)
	}
}

func TestQualifiedKey(t *testing.T) {
	tests := []struct {
		file, sheet, label string
		destination        int
		expected           string
	}{
		{"", "", "Rate", 1, "Rate"},
		{"", "Workbook", "Rate", 1, "Rate"},
		{"", "Sheet1", "Rate", 1, "Sheet1!Rate"},
		{"a.xlsx", "", "Rate", 2, "a.xlsx::Rate#2"},
		{"a.xlsx", "Sheet1", "Rate", 3, "a.xlsx::Sheet1!Rate#3"},
	}

	for _, tt := range tests {
		if got := QualifiedKey(tt.file, tt.sheet, tt.label, tt.destination); got != tt.expected {
			t.Errorf("QualifiedKey(%q, %q, %q, %d) = %q, expected %q",
				tt.file, tt.sheet, tt.label, tt.destination, got, tt.expected)
		}
	}
}

func TestNamedReference_Location(t *testing.T) {
	tests := []struct {
		sheet    string
		expected string
	}{
		{"Sheet1", "Sheet1!$B$2"},
		{"My Sheet", "'My Sheet'!$B$2"},
		{"Bob's", "'Bob''s'!$B$2"},
	}

	for _, tt := range tests {
		r := NamedReference{Sheet: tt.sheet, CellRange: "$B$2"}
		if got := r.Location(); got != tt.expected {
			t.Errorf("Location() = %q, expected %q", got, tt.expected)
		}
	}
}
