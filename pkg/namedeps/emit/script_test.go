package emit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

type fakeTranslator struct {
	mu           sync.Mutex
	translations map[string]string
	contexts     map[string]string
}

func (f *fakeTranslator) Explain(_ context.Context, formula string) string {
	return "Explains " + formula
}

func (f *fakeTranslator) Translate(_ context.Context, formula, refContext string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.contexts == nil {
		f.contexts = make(map[string]string)
	}
	f.contexts[formula] = refContext
	if t, ok := f.translations[formula]; ok {
		return t
	}
	return Placeholder(errors.New("boom"))
}

func taxCollection(t *testing.T) *models.Collection {
	t.Helper()
	c := models.NewCollection(false)
	for _, r := range []models.NamedReference{
		{Key: "Base", Label: "Base", Sheet: "Sheet1", CellRange: "$B$1", Value: int64(100), File: "book.xlsx"},
		{Key: "Tax", Label: "Tax", Sheet: "Sheet1", CellRange: "$B$2", Formula: "=Base*0.1", File: "book.xlsx"},
		{Key: "Total", Label: "Total", Sheet: "Sheet1", CellRange: "$B$3", Formula: "=Base+Tax", File: "book.xlsx"},
	} {
		if err := c.Add(r); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestScriptEmitter_Emit(t *testing.T) {
	c := taxCollection(t)
	translator := &fakeTranslator{translations: map[string]string{
		"=Base*0.1": "```python\ntax = base * 0.1\n```",
	}}
	emitter := &ScriptEmitter{Translator: translator, Workers: 2, IncludeContext: true}

	script, entries, err := emitter.Emit(context.Background(), c, []string{"Base", "Tax", "Total"})
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	expected := `# Generated by namedeps from: book.xlsx
# Statements follow the dependency order of the named references.

# Base (Sheet1!$B$1): input
base = 100

# Tax (Sheet1!$B$2): =Base*0.1
# Explanation: Explains =Base*0.1
tax = base * 0.1

# Total (Sheet1!$B$3): =Base+Tax
# Explanation: Explains =Base+Tax
total = None  # (Error: boom)
`
	if script != expected {
		t.Errorf("Unexpected script:\n%s\nexpected:\n%s", script, expected)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[1].Failed || !entries[2].Failed {
		t.Errorf("Expected only Total to fail: %+v", entries)
	}

	ctxText := translator.contexts["=Base*0.1"]
	if !strings.Contains(ctxText, "Base (Python variable base) is an input value") {
		t.Errorf("Context is missing the input: %q", ctxText)
	}
	if !strings.Contains(ctxText, "Total (Python variable total) = =Base+Tax") {
		t.Errorf("Context is missing Total: %q", ctxText)
	}
	if strings.Contains(ctxText, "Tax (") {
		t.Errorf("Context should not describe the translated reference: %q", ctxText)
	}
}

func TestScriptEmitter_WithoutContext(t *testing.T) {
	translator := &fakeTranslator{translations: map[string]string{}}
	emitter := &ScriptEmitter{Translator: translator}

	if _, _, err := emitter.Emit(context.Background(), taxCollection(t), []string{"Base", "Tax", "Total"}); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	for formula, refContext := range translator.contexts {
		if refContext != "" {
			t.Errorf("Expected no context for %s, got %q", formula, refContext)
		}
	}
}

func TestScriptEmitter_NoTranslator(t *testing.T) {
	emitter := &ScriptEmitter{}

	script, _, err := emitter.Emit(context.Background(), taxCollection(t), []string{"Base", "Tax", "Total"})
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if !strings.Contains(script, "tax = None  # not translated\n") {
		t.Errorf("Expected untranslated placeholder, got:\n%s", script)
	}
}

func TestScriptEmitter_RequiresOrder(t *testing.T) {
	emitter := &ScriptEmitter{}

	if _, err := emitter.Entries(context.Background(), taxCollection(t), nil); !errors.Is(err, ErrNoOrder) {
		t.Errorf("Expected ErrNoOrder, got %v", err)
	}
	if _, err := emitter.Entries(context.Background(), taxCollection(t), []string{"Nope"}); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		input    string
		ident    string
		expected string
	}{
		{"```python\ntax = base * 0.1\n```", "tax", "base * 0.1"},
		{"  base * 0.1 ", "tax", "base * 0.1"},
		{"tax == 1", "tax", "tax == 1"},
		{"taxes = 1", "tax", "taxes = 1"},
		{"(Error: timeout)", "tax", "(Error: timeout)"},
		{"```\nx = 1\ntax = x\n```", "tax", "x = 1\ntax = x"},
	}

	for _, tt := range tests {
		if got := cleanTranslation(tt.input, tt.ident); got != tt.expected {
			t.Errorf("cleanTranslation(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestWriteScript_MultiLineTranslation(t *testing.T) {
	tests := []struct {
		name        string
		translation string
		want        string
	}{
		{"assigns identifier", "x = base\ntax = x * 0.1", "x = base\ntax = x * 0.1\n"},
		{"assigns with spacing", "x = base\ntax=x * 0.1", "x = base\ntax=x * 0.1\n"},
		{"ends with expression", "x = base\nx * 0.1", "tax = None  # translation did not assign tax\n"},
		{"ends with comparison", "x = base\ntax == x", "tax = None  # translation did not assign tax\n"},
		{"assigns longer name", "x = base\ntaxes = x", "tax = None  # translation did not assign tax\n"},
		{"indented assignment", "if base:\n    tax = base", "tax = None  # translation did not assign tax\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []Entry{{
				Key: "Tax", Label: "Tax", Identifier: "tax", Location: "Sheet1!$B$2",
				Formula: "=Base*0.1", Translation: tt.translation,
			}}
			var b strings.Builder
			if err := WriteScript(&b, entries, []string{"book.xlsx"}); err != nil {
				t.Fatalf("WriteScript failed: %v", err)
			}
			if !strings.HasSuffix(b.String(), tt.want) {
				t.Errorf("Script does not end with %q:\n%s", tt.want, b.String())
			}
		})
	}
}

func TestPyLiteral(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{nil, "None"},
		{int64(3), "3"},
		{0.5, "0.5"},
		{"TRUE", "True"},
		{"false", "False"},
		{"abc", `"abc"`},
	}

	for _, tt := range tests {
		if got := pyLiteral(tt.input); got != tt.expected {
			t.Errorf("pyLiteral(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(errors.New("rate limited"))
	if p != "(Error: rate limited)" {
		t.Errorf("Unexpected placeholder %q", p)
	}
	if !IsPlaceholder(p) || IsPlaceholder("x + 1") {
		t.Error("IsPlaceholder mismatch")
	}
}
