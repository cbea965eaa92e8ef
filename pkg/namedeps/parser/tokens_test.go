package parser

import (
	"reflect"
	"testing"
)

func TestFormulaFunctions(t *testing.T) {
	tests := []struct {
		formula  string
		expected []string
	}{
		{"", nil},
		{"=A1+B1", nil},
		{"=SUM(A1:A3)+ROUND(Rate,2)+sum(B1)", []string{"SUM", "ROUND"}},
		{"=IF(ISBLANK(A1),0,1)", []string{"IF", "ISBLANK"}},
	}

	for _, tt := range tests {
		got := FormulaFunctions(tt.formula)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("FormulaFunctions(%q) = %v, expected %v", tt.formula, got, tt.expected)
		}
	}
}
