package emit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/parser"
)

// ErrNoOrder indicates a script was requested without an evaluation order,
// typically because the dependency graph has a cycle.
var ErrNoOrder = errors.New("no evaluation order available")

const placeholderPrefix = "(Error: "

// Placeholder converts a collaborator failure into the visible string used in
// place of a result.
func Placeholder(err error) string {
	return placeholderPrefix + err.Error() + ")"
}

// IsPlaceholder reports whether s is a collaborator failure placeholder.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, placeholderPrefix)
}

// Translator explains formulas and translates them into Python expressions.
// Implementations never fail: errors come back as Placeholder strings.
type Translator interface {
	Explain(ctx context.Context, formula string) string
	Translate(ctx context.Context, formula, context string) string
}

// Entry is one reference as it appears in a generated script.
type Entry struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Identifier  string      `json:"identifier"`
	Location    string      `json:"location"`
	Formula     string      `json:"formula,omitempty"`
	Value       interface{} `json:"value,omitempty"`
	Functions   []string    `json:"functions,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	Translation string      `json:"translation,omitempty"`
	Failed      bool        `json:"failed,omitempty"`
}

// Input reports whether the entry is an input declaration.
func (e Entry) Input() bool {
	return e.Formula == ""
}

// ScriptEmitter walks an evaluation order and builds a procedural script.
type ScriptEmitter struct {
	// Translator fills in computed references. Nil leaves them as placeholders.
	Translator Translator
	// Workers bounds concurrent collaborator calls (default 4).
	Workers int
	// IncludeContext passes the other references' formulas to Translate.
	IncludeContext bool
	Logger         *slog.Logger
}

// Entries builds one script entry per key of order.
// Collaborator calls may run concurrently; entries always follow order.
func (s *ScriptEmitter) Entries(ctx context.Context, c *models.Collection, order []string) ([]Entry, error) {
	if order == nil {
		return nil, ErrNoOrder
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idents := Identifiers(c.Keys())
	entries := make([]Entry, len(order))
	for i, key := range order {
		ref, ok := c.Get(key)
		if !ok {
			return nil, fmt.Errorf("order references unknown key %q", key)
		}
		entries[i] = Entry{
			Key:        key,
			Label:      ref.Label,
			Identifier: idents[key],
			Location:   ref.Location(),
			Formula:    ref.Formula,
			Value:      ref.Value,
			Functions:  parser.FormulaFunctions(ref.Formula),
		}
	}
	if s.Translator == nil {
		return entries, nil
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range entries {
		if entries[i].Input() {
			continue
		}
		g.Go(func() error {
			e := &entries[i]
			var refContext string
			if s.IncludeContext {
				refContext = buildContext(c, idents, e.Key)
			}
			e.Explanation = s.Translator.Explain(ctx, e.Formula)
			e.Translation = cleanTranslation(s.Translator.Translate(ctx, e.Formula, refContext), e.Identifier)
			e.Failed = IsPlaceholder(e.Translation)
			if e.Failed {
				logger.Warn("formula translation failed",
					slog.String("key", e.Key),
					slog.String("result", e.Translation))
			}
			return nil
		})
	}
	_ = g.Wait()
	return entries, ctx.Err()
}

// Emit builds the entries for order and renders them as a Python script.
func (s *ScriptEmitter) Emit(ctx context.Context, c *models.Collection, order []string) (string, []Entry, error) {
	entries, err := s.Entries(ctx, c, order)
	if err != nil {
		return "", entries, err
	}
	var b strings.Builder
	if err := WriteScript(&b, entries, c.Files()); err != nil {
		return "", entries, err
	}
	return b.String(), entries, nil
}

// WriteScript renders entries as a Python script, one block per reference.
func WriteScript(w io.Writer, entries []Entry, files []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by namedeps from: %s\n", strings.Join(files, ", "))
	b.WriteString("# Statements follow the dependency order of the named references.\n")

	for _, e := range entries {
		b.WriteString("\n")
		if e.Input() {
			fmt.Fprintf(&b, "# %s (%s): input\n", e.Label, e.Location)
			fmt.Fprintf(&b, "%s = %s\n", e.Identifier, pyLiteral(e.Value))
			continue
		}

		fmt.Fprintf(&b, "# %s (%s): %s\n", e.Label, e.Location, oneLine(e.Formula))
		if len(e.Functions) > 0 {
			fmt.Fprintf(&b, "# Functions: %s\n", strings.Join(e.Functions, ", "))
		}
		if e.Explanation != "" {
			fmt.Fprintf(&b, "# Explanation: %s\n", oneLine(e.Explanation))
		}
		switch {
		case e.Translation == "":
			fmt.Fprintf(&b, "%s = None  # not translated\n", e.Identifier)
		case e.Failed:
			fmt.Fprintf(&b, "%s = None  # %s\n", e.Identifier, oneLine(e.Translation))
		case strings.Contains(e.Translation, "\n"):
			if !assigns(e.Translation, e.Identifier) {
				fmt.Fprintf(&b, "%s = None  # translation did not assign %s\n", e.Identifier, e.Identifier)
				break
			}
			b.WriteString(e.Translation)
			b.WriteString("\n")
		default:
			fmt.Fprintf(&b, "%s = %s\n", e.Identifier, e.Translation)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// buildContext describes every reference except skip, one per line.
func buildContext(c *models.Collection, idents map[string]string, skip string) string {
	var b strings.Builder
	for _, ref := range c.References() {
		if ref.Key == skip {
			continue
		}
		if ref.IsComputed() {
			fmt.Fprintf(&b, "%s (Python variable %s) = %s\n", ref.Label, idents[ref.Key], oneLine(ref.Formula))
		} else {
			fmt.Fprintf(&b, "%s (Python variable %s) is an input value\n", ref.Label, idents[ref.Key])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// cleanTranslation strips markdown fences and a leading "ident =" from a
// translated expression.
func cleanTranslation(s, ident string) string {
	if IsPlaceholder(s) {
		return s
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		lines = lines[1:]
		if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
			lines = lines[:n-1]
		}
		s = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	if !strings.Contains(s, "\n") {
		if rest, ok := strings.CutPrefix(s, ident); ok {
			if trimmed := strings.TrimSpace(rest); strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, "==") {
				s = strings.TrimSpace(trimmed[1:])
			}
		}
	}
	return s
}

// assigns reports whether the last line of block binds ident at top level.
func assigns(block, ident string) bool {
	lines := strings.Split(strings.TrimRight(block, " \t\n"), "\n")
	last := lines[len(lines)-1]
	rest, ok := strings.CutPrefix(last, ident)
	if !ok {
		return false
	}
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==")
}

func pyLiteral(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		switch strings.ToUpper(x) {
		case "TRUE":
			return "True"
		case "FALSE":
			return "False"
		}
		return strconv.Quote(x)
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
