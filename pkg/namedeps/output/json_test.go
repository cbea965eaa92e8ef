package output

import (
	"strings"
	"testing"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

func TestToJSON(t *testing.T) {
	c := models.NewCollection(false)
	c.Add(models.NamedReference{Key: "Base", Label: "Base", Sheet: "Sheet1", CellRange: "$B$1", File: "book.xlsx"})
	a := models.NewAnalysis(c, models.NewGraph(c.Keys()))
	a.Order = []string{"Base"}

	data, err := ToJSON(a, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	for _, want := range []string{`"order":["Base"]`, `"edges":[]`, `"dependencies":{"Base":[]}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %s in %s", want, data)
		}
	}
	if strings.Contains(string(data), `"cycle"`) {
		t.Errorf("Unexpected cycle field in %s", data)
	}

	pretty, err := ToJSON(a, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pretty), "\n  ") {
		t.Error("Expected indented output")
	}
}

func TestReferencesToJSON_Empty(t *testing.T) {
	data, err := ReferencesToJSON(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}
}
