package parser

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefinedName is an entry of a workbook's defined-name table.
type DefinedName struct {
	// Name is the defined name as authored.
	Name string
	// Scope is "Workbook" or the sheet the name is local to.
	Scope string
	// RefersTo is the raw definition text.
	RefersTo string
	// External marks definitions pointing into another workbook.
	External bool
}

// Destination is a (sheet, cell range) pair a defined name resolves to.
type Destination struct {
	Sheet     string
	CellRange string
}

// Cell is the stored content of a single cell.
type Cell struct {
	// Value is the cached display value.
	Value string
	// Formula is the formula text including the leading "=", or empty.
	Formula string
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return strings.HasPrefix(c.Formula, "=")
}

// Workbook is the subset of a spreadsheet model the extractor needs.
type Workbook interface {
	// DefinedNames enumerates the defined-name table.
	DefinedNames() []DefinedName
	// Destinations resolves a defined name to its destinations.
	Destinations(name DefinedName) ([]Destination, error)
	// Cell returns the content of the cell at sheet!coord.
	Cell(sheet, coord string) (Cell, error)
}

// externalRefRe matches a bracketed workbook qualifier in front of a "!".
var externalRefRe = regexp.MustCompile(`\[[^\[\]]+\][^!\[\]]*!`)

// ExcelizeWorkbook adapts an excelize file to the Workbook interface.
type ExcelizeWorkbook struct {
	f *excelize.File
}

// NewExcelizeWorkbook wraps an opened excelize file.
func NewExcelizeWorkbook(f *excelize.File) *ExcelizeWorkbook {
	return &ExcelizeWorkbook{f: f}
}

// DefinedNames returns every defined name of the workbook.
func (w *ExcelizeWorkbook) DefinedNames() []DefinedName {
	definedNames := w.f.GetDefinedName()
	out := make([]DefinedName, 0, len(definedNames))
	for _, dn := range definedNames {
		refersTo := strings.TrimPrefix(strings.TrimSpace(dn.RefersTo), "=")
		scope := dn.Scope
		if scope == "" {
			scope = "Workbook"
		}
		out = append(out, DefinedName{
			Name:     dn.Name,
			Scope:    scope,
			RefersTo: refersTo,
			External: externalRefRe.MatchString(refersTo),
		})
	}
	return out
}

// Destinations parses the definition into sheet/range pairs.
// Parts without a sheet qualifier (constants, expressions) are not destinations.
func (w *ExcelizeWorkbook) Destinations(name DefinedName) ([]Destination, error) {
	return ParseDestinations(name.RefersTo), nil
}

// Cell returns the formula and cached value stored at sheet!coord.
func (w *ExcelizeWorkbook) Cell(sheet, coord string) (Cell, error) {
	formula, err := w.f.GetCellFormula(sheet, coord)
	if err != nil {
		return Cell{}, err
	}
	value, err := w.f.GetCellValue(sheet, coord)
	if err != nil {
		return Cell{}, err
	}
	cell := Cell{Value: value}
	if formula != "" {
		cell.Formula = "=" + strings.TrimPrefix(formula, "=")
	}
	return cell, nil
}

// ParseDestinations parses a defined-name definition.
// Format: 'Sheet Name'!$A$1:$D$10,Sheet2!$B$2 (optionally wrapped in parentheses)
func ParseDestinations(refersTo string) []Destination {
	var dests []Destination

	refersTo = strings.TrimPrefix(strings.TrimSpace(refersTo), "=")
	for strings.HasPrefix(refersTo, "(") && strings.HasSuffix(refersTo, ")") {
		refersTo = strings.TrimSpace(refersTo[1 : len(refersTo)-1])
	}

	for _, part := range splitTopLevel(refersTo, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sheet, rangeStr, ok := splitSheetRange(part)
		if !ok {
			continue
		}
		dests = append(dests, Destination{Sheet: sheet, CellRange: rangeStr})
	}

	return dests
}

// splitSheetRange separates Sheet!Range, unquoting the sheet name.
func splitSheetRange(part string) (sheet, rangeStr string, ok bool) {
	if strings.HasPrefix(part, "'") {
		// quoted sheet: find the closing quote, '' is an escaped quote
		for i := 1; i < len(part); i++ {
			if part[i] != '\'' {
				continue
			}
			if i+1 < len(part) && part[i+1] == '\'' {
				i++
				continue
			}
			if i+1 < len(part) && part[i+1] == '!' {
				sheet = strings.ReplaceAll(part[1:i], "''", "'")
				return sheet, part[i+2:], true
			}
			return "", "", false
		}
		return "", "", false
	}

	idx := strings.Index(part, "!")
	if idx < 0 {
		return "", "", false
	}
	return part[:idx], part[idx+1:], true
}

// splitTopLevel splits s on sep, ignoring separators inside quotes or parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inSingle, inDouble := false, false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case inSingle || inDouble:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
