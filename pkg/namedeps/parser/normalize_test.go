package parser

import "testing"

func TestNormalizeFormula(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "=Base*Rate", "=Base*Rate"},
		{"quoted book and sheet", "='[Book1.xlsx]Sheet1'!A1+Rate", "=Sheet1!A1+Rate"},
		{"quoted book and spaced sheet", "='[Book 1.xlsx]Input Sheet'!A1", "=A1"},
		{"quoted external file", `='C:\data\Book1.xlsx'!Rate*2`, "=Rate*2"},
		{"quoted sheet", "='Input Sheet'!B2*Rate", "=B2*Rate"},
		{"bracketed book", "=[Book1.xlsx]Sheet1!Rate+Base", "=Rate+Base"},
		{"indexed link", "=[1]!Rate", "=Rate"},
		{"local sheet kept", "=Sheet1!A1+Rate", "=Sheet1!A1+Rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFormula(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeFormula(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeFormula_Idempotent(t *testing.T) {
	inputs := []string{
		"='[Book1.xlsx]Sheet1'!A1+Rate",
		"='[a.xlsx]b'!'[c.xlsx]d'!X",
		"=''''!A1",
		"=[1]Sheet1!A1*[2]!Rate",
		`=IF(A1="x!",'My Sheet'!B1,0)`,
		"=SUM('Q1'!A1:A3)",
	}

	for _, input := range inputs {
		once := NormalizeFormula(input)
		twice := NormalizeFormula(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}
