package parser

import (
	"regexp"
	"strings"
)

var (
	// '[path\][Book.xlsx]Sheet'!  (workbook and sheet inside one quoted qualifier)
	quotedBookSheetRe = regexp.MustCompile(`'([^'\[\]]*)\[([^\]]+)\]((?:[^']|'')*)'!`)
	// 'C:\path\Book.xlsx'!  (quoted external file qualifier)
	quotedBookRe = regexp.MustCompile(`(?i)'(?:[^']|'')*\.xls[xmb]?'!`)
	// 'Sheet Name'!
	quotedSheetRe = regexp.MustCompile(`'(?:[^']|'')+'!`)
	// [Book.xlsx]Sheet!  or  [1]Sheet!  or  [1]!
	bracketBookRe = regexp.MustCompile(`\[[^\[\]]+\][^!'"\[\](),;:\s=+\-*/^&<>]*!`)

	plainSheetRe = regexp.MustCompile(`^[A-Za-z_\\][A-Za-z0-9_.]*$`)
)

// NormalizeFormula strips external-workbook and sheet qualifiers from formula
// text so that defined names can be matched as plain tokens.
//
// The rules run in order:
//  1. quoted external qualifiers ('[Book.xlsx]Sheet'! keeps the sheet, 'Book.xlsx'! is removed)
//  2. quoted sheet qualifiers ('Sheet Name'!)
//  3. bracketed external qualifiers ([Book.xlsx]Sheet!, [1]Sheet!)
//
// Rules are reapplied until the text stops changing, so the result is
// idempotent. Quotes inside string literals are not tracked.
func NormalizeFormula(formula string) string {
	if formula == "" {
		return ""
	}
	// every pass that changes the text also shortens it
	out := formula
	for {
		next := normalizePass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func normalizePass(s string) string {
	if strings.Contains(s, "'") {
		s = quotedBookSheetRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := quotedBookSheetRe.FindStringSubmatch(m)
			sheet := sub[3]
			if sheet == "" {
				return ""
			}
			if plainSheetRe.MatchString(sheet) {
				return sheet + "!"
			}
			return "'" + sheet + "'!"
		})
		s = quotedBookRe.ReplaceAllString(s, "")
		s = quotedSheetRe.ReplaceAllString(s, "")
	}
	if strings.Contains(s, "[") {
		s = bracketBookRe.ReplaceAllString(s, "")
	}
	return s
}
