package emit

import (
	"fmt"
	"io"
	"strings"
)

var markdownHeaders = []string{"Named Reference", "Explanation", "Excel Formula", "Python Formula"}

// WriteMarkdown writes a documentation table with one row per entry.
func WriteMarkdown(w io.Writer, entries []Entry) error {
	var b strings.Builder
	b.WriteString("| " + strings.Join(markdownHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(markdownHeaders)) + "\n")

	for _, e := range entries {
		explanation := e.Explanation
		if e.Input() {
			explanation = "No formula."
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			markdownCell(e.Key),
			markdownCell(explanation),
			markdownCell(e.Formula),
			markdownCell(e.Translation))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
