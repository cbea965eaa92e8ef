package llm

import (
	"bytes"
	"context"
	"log/slog"
	"text/template"

	"golang.org/x/sync/singleflight"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
)

// Completer produces a completion for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var explainTemplate = template.Must(template.New("explain").Parse(
	`Explain this Excel formula in one or two sentences:
{{.Formula}}`))

var translateTemplate = template.Must(template.New("translate").Parse(
	`Translate this Excel formula to a single Python expression.
{{- if .Context}}
Other named references in the workbook:
{{.Context}}
Refer to named references by the Python variable names listed above.
{{- end}}
Reply with the expression only, without explanation or markdown.
Formula:
{{.Formula}}`))

type promptData struct {
	Formula string
	Context string
}

// Explainer explains and translates formulas through a Completer.
// Completions are memoized by the full prompt text; failures are returned as
// placeholder strings and never cached.
type Explainer struct {
	client Completer
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewExplainer creates an Explainer. A nil cache gets a fresh MemoryCache.
func NewExplainer(client Completer, cache Cache, logger *slog.Logger) *Explainer {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Explainer{client: client, cache: cache, logger: logger}
}

// Explain returns a natural-language explanation of formula.
func (e *Explainer) Explain(ctx context.Context, formula string) string {
	prompt, err := render(explainTemplate, promptData{Formula: formula})
	if err != nil {
		return emit.Placeholder(err)
	}
	return e.complete(ctx, prompt)
}

// Translate returns a Python expression equivalent to formula.
// refContext describes the other named references and may be empty.
func (e *Explainer) Translate(ctx context.Context, formula, refContext string) string {
	prompt, err := render(translateTemplate, promptData{Formula: formula, Context: refContext})
	if err != nil {
		return emit.Placeholder(err)
	}
	return e.complete(ctx, prompt)
}

func (e *Explainer) complete(ctx context.Context, prompt string) string {
	if cached, ok := e.cache.Get(ctx, prompt); ok {
		return cached
	}

	v, err, _ := e.group.Do(prompt, func() (interface{}, error) {
		out, err := e.client.Complete(ctx, []Message{{Role: "user", Content: prompt}})
		if err != nil {
			return "", err
		}
		e.cache.Set(ctx, prompt, out)
		return out, nil
	})
	if err != nil {
		e.logger.Warn("completion failed", slog.String("error", err.Error()))
		return emit.Placeholder(err)
	}
	return v.(string)
}

var _ emit.Translator = (*Explainer)(nil)

func render(t *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
