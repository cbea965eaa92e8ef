package parser

import (
	"strings"

	"github.com/xuri/efp"
)

// FormulaFunctions returns the distinct function names a formula calls,
// upper-cased, in order of first appearance.
func FormulaFunctions(formula string) []string {
	if formula == "" {
		return nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)

	seen := make(map[string]bool)
	var out []string
	for _, token := range tokens {
		if token.TType != efp.TokenTypeFunction || token.TSubType != efp.TokenSubTypeStart {
			continue
		}
		name := strings.ToUpper(token.TValue)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
