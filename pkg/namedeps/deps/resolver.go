// Package deps infers dependencies between named references and orders them
// for evaluation.
//
// Matching is textual: a reference depends on every reference whose label
// appears as a whole token in its formula. Labels that happen to occur inside
// string literals produce false positives, and references hidden behind
// qualifier syntax the normalizer does not strip produce false negatives.
package deps

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

// tokenClass lists the characters a defined name may be built from.
const tokenClass = `\p{L}\p{N}_.\\`

// LabelPattern compiles the case-insensitive whole-token pattern for label.
func LabelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^` + tokenClass + `])` +
		regexp.QuoteMeta(label) +
		`(?:$|[^` + tokenClass + `])`)
}

// ContainsLabel reports whether label occurs in formula as a whole token.
func ContainsLabel(formula, label string) bool {
	if formula == "" || label == "" {
		return false
	}
	return LabelPattern(label).MatchString(formula)
}

// Resolve builds the dependency graph of a collection.
//
// Every reference gets an entry. When several references share a label (for
// example the same name in two files), a formula mentioning that label depends
// on all of them: the formula text alone cannot tell which one was meant.
func Resolve(c *models.Collection, logger *slog.Logger) *models.Graph {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	refs := c.References()
	g := models.NewGraph(c.Keys())

	patterns := make(map[string]*regexp.Regexp)
	for _, ref := range refs {
		folded := strings.ToLower(ref.Label)
		if _, ok := patterns[folded]; !ok && ref.Label != "" {
			patterns[folded] = LabelPattern(ref.Label)
		}
	}

	for _, target := range refs {
		if !target.IsComputed() {
			continue
		}

		// one regexp evaluation per distinct label
		matched := make(map[string]bool, len(patterns))
		for folded, re := range patterns {
			matched[folded] = re.MatchString(target.Formula)
		}

		for _, candidate := range refs {
			if !matched[strings.ToLower(candidate.Label)] {
				continue
			}
			if candidate.Key == target.Key {
				g.MarkSelfReference(target.Key)
				logger.Warn("formula references its own name",
					slog.String("key", target.Key),
					slog.String("formula", target.Formula))
				continue
			}
			g.AddDependency(target.Key, candidate.Key)
		}
	}

	return g
}
