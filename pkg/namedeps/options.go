// Package namedeps extracts named references from Excel workbooks, infers the
// dependencies between them and orders them for evaluation.
package namedeps

import (
	"log/slog"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
)

// Mode represents the analysis mode.
type Mode string

const (
	// ModeGraph extracts references, resolves dependencies and orders them.
	ModeGraph Mode = "graph"
	// ModeScript additionally generates an ordered script through a Translator.
	ModeScript Mode = "script"
)

// Options configures analysis behavior.
type Options struct {
	// Mode specifies the analysis mode (graph, script).
	Mode Mode
	// Namespace specifies whether reference keys carry the file label.
	// If nil, keys are namespaced when more than one workbook is analyzed.
	Namespace *bool
	// IncludeContext specifies whether translations see the other references' formulas.
	// If nil, defaults to true.
	IncludeContext *bool
	// Workers bounds concurrent file extraction and collaborator calls.
	// Zero means 4.
	Workers int
	// Translator explains and translates formulas in script mode.
	Translator emit.Translator
	// Logger receives progress and diagnostics. If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultOptions returns default analysis options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeGraph,
	}
}

// ShouldNamespace returns whether keys are namespaced for the given number of workbooks.
func (o Options) ShouldNamespace(workbooks int) bool {
	if o.Namespace != nil {
		return *o.Namespace
	}
	return workbooks > 1
}

// ShouldIncludeContext returns whether translations receive the other formulas.
func (o Options) ShouldIncludeContext() bool {
	if o.IncludeContext != nil {
		return *o.IncludeContext
	}
	return true
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 4
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
