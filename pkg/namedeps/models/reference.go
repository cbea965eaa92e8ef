// Package models defines data structures for named-reference dependency analysis.
package models

import (
	"strconv"
	"strings"
)

// ScopeWorkbook is the scope of a defined name visible in every sheet.
const ScopeWorkbook = "Workbook"

// NamedReference represents a defined name bound to one destination cell range.
type NamedReference struct {
	// Key is the unique identity of the reference within a Collection.
	Key string `json:"key"`
	// Label is the name as authored in the workbook.
	Label string `json:"label"`
	// Scope is "Workbook" or the name of the sheet the name is local to.
	Scope string `json:"scope"`
	// Sheet is the sheet the destination cell lives on.
	Sheet string `json:"sheet"`
	// CellRange is the raw destination reference (e.g., $B$2 or $A$1:$C$4).
	CellRange string `json:"cell_range"`
	// Formula is the normalized formula of the top-left destination cell.
	// Empty when the cell holds a plain value.
	Formula string `json:"formula,omitempty"`
	// Value is the cached value of the top-left destination cell.
	Value interface{} `json:"value,omitempty"`
	// File is the originating workbook label.
	File string `json:"file"`
}

// IsComputed reports whether the reference is backed by a formula.
// References without a formula are inputs (leaves of the dependency graph).
func (r NamedReference) IsComputed() bool {
	return r.Formula != ""
}

// SheetScoped reports whether the defined name is local to a single sheet.
func (r NamedReference) SheetScoped() bool {
	return r.Scope != "" && r.Scope != ScopeWorkbook
}

// Location returns the destination as Sheet!Range.
func (r NamedReference) Location() string {
	sheet := r.Sheet
	if strings.ContainsAny(sheet, " '!-+(),;") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + r.CellRange
}

// QualifiedKey builds the identity of a reference.
//
// The file component is only set for namespaced (multi-file) collections. The
// sheet component is only set for sheet-scoped names. A destination index above
// one distinguishes the extra destinations of a single defined name.
func QualifiedKey(file, scopeSheet, label string, destination int) string {
	var b strings.Builder
	if file != "" {
		b.WriteString(file)
		b.WriteString("::")
	}
	if scopeSheet != "" && scopeSheet != ScopeWorkbook {
		b.WriteString(scopeSheet)
		b.WriteString("!")
	}
	b.WriteString(label)
	if destination > 1 {
		b.WriteString("#")
		b.WriteString(strconv.Itoa(destination))
	}
	return b.String()
}
