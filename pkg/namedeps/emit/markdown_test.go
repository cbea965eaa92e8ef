package emit

import (
	"strings"
	"testing"
)

func TestWriteMarkdown(t *testing.T) {
	entries := []Entry{
		{Key: "Base", Label: "Base"},
		{Key: "Tax", Label: "Tax", Formula: "=Base*0.1", Explanation: "Multiplies | rate", Translation: "base * 0.1"},
	}

	var b strings.Builder
	if err := WriteMarkdown(&b, entries); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}

	expected := `| Named Reference | Explanation | Excel Formula | Python Formula |
| --- | --- | --- | --- |
| Base | No formula. |  |  |
| Tax | Multiplies \| rate | =Base*0.1 | base * 0.1 |
`
	if b.String() != expected {
		t.Errorf("Unexpected markdown:\n%s\nexpected:\n%s", b.String(), expected)
	}
}
