package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TopLeftCell returns the first cell of a range reference like $A$1:$D$10.
// Whole-column (A:C) and whole-row (3:5) ranges resolve to their first cell.
func TopLeftCell(rangeStr string) (string, error) {
	// Remove $ signs
	ref := strings.ReplaceAll(strings.TrimSpace(rangeStr), "$", "")
	if ref == "" {
		return "", fmt.Errorf("empty cell reference")
	}

	// Split by : and keep the first endpoint
	first := strings.SplitN(ref, ":", 2)[0]

	switch {
	case isAllLetters(first):
		first += "1"
	case isAllDigits(first):
		first = "A" + first
	}

	col, row, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return "", fmt.Errorf("invalid cell reference %q: %w", rangeStr, err)
	}
	return excelize.CoordinatesToCellName(col, row)
}

func isAllLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
