package namedeps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/deps"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/parser"
)

type extraction struct {
	refs     *models.Collection
	failures []*parser.DestinationError
	err      error
}

// Analyze extracts, resolves and orders the named references of the given
// workbooks.
//
// Local failures (one destination, one unreadable workbook among several) are
// reported in Analysis.Problems. If the references cannot be ordered the
// returned analysis is still populated and the error is a *deps.CycleError.
// In script mode the script is generated once an order exists.
func Analyze(ctx context.Context, sources []Source, opts Options) (*models.Analysis, error) {
	return analyze(ctx, sources, opts, nil, nil)
}

// analyze runs the pipeline. unopened lists workbooks the caller could not
// open; they count as requested inputs and are reported as problems.
func analyze(ctx context.Context, sources []Source, opts Options, unopened []models.Problem, openErrs []error) (*models.Analysis, error) {
	if len(sources) == 0 {
		if len(openErrs) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrNoWorkbooks, errors.Join(openErrs...))
		}
		return nil, ErrNoWorkbooks
	}
	logger := opts.logger()
	names := uniqueNames(sources)
	requested := len(sources) + len(unopened)

	results := make([]extraction, len(sources))
	var g errgroup.Group
	g.SetLimit(opts.workers())
	for i, src := range sources {
		g.Go(func() error {
			refs, failures, err := ExtractReader(src.Reader, names[i], opts)
			results[i] = extraction{refs: refs, failures: failures, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		parts    []*models.Collection
		files    []string
		problems = append([]models.Problem(nil), unopened...)
		errs     = append([]error(nil), openErrs...)
	)
	for i, res := range results {
		if res.err != nil {
			logger.Warn("skipping workbook", "file", names[i], "error", res.err)
			problems = append(problems, models.Problem{File: names[i], Message: res.err.Error()})
			errs = append(errs, res.err)
			continue
		}
		parts = append(parts, res.refs)
		files = append(files, names[i])
		for _, f := range res.failures {
			problems = append(problems, models.Problem{
				File:     f.File,
				Name:     f.Name,
				Location: f.Sheet + "!" + f.CellRange,
				Message:  f.Err.Error(),
			})
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoWorkbooks, errors.Join(errs...))
	}

	refs := parts[0]
	var collisions []models.Collision
	if opts.ShouldNamespace(requested) {
		merged, found, err := models.Merge(parts...)
		if err != nil {
			return nil, NewExtractionError("", "merge", err)
		}
		refs, collisions = merged, found
		for _, c := range collisions {
			logger.Info("label defined in several workbooks", "label", c.Label, "files", c.Files)
		}
	} else if len(parts) > 1 {
		// without namespacing, later files may only add keys that are still free
		refs = models.NewCollection(false)
		collisions = models.FindCollisions(parts...)
		for _, part := range parts {
			for _, ref := range part.References() {
				if err := refs.Add(ref); err != nil {
					problems = append(problems, models.Problem{File: ref.File, Name: ref.Label, Message: err.Error()})
				}
			}
		}
	}

	graph := deps.Resolve(refs, logger)
	analysis := models.NewAnalysis(refs, graph)
	analysis.Files = files
	analysis.Collisions = collisions
	analysis.Problems = problems

	order, err := deps.Sequence(graph)
	if err != nil {
		var cycle *deps.CycleError
		if errors.As(err, &cycle) {
			analysis.Cycle = cycle.Report()
		}
		logger.Warn("references cannot be ordered", "error", err)
		return analysis, err
	}
	analysis.Order = order
	logger.Info("resolved dependencies",
		"references", refs.Len(),
		"edges", len(analysis.Edges))

	if opts.Mode == ModeScript {
		script, err := GenerateScript(ctx, analysis, opts)
		if err != nil {
			return analysis, err
		}
		analysis.Script = script
	}
	return analysis, nil
}

// AnalyzeFiles runs Analyze over files on disk.
// A path that cannot be opened is reported in Analysis.Problems like an
// unreadable workbook; it fails only when no path opens at all.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options) (*models.Analysis, error) {
	var (
		sources  = make([]Source, 0, len(paths))
		unopened []models.Problem
		errs     []error
	)
	for _, path := range paths {
		fh, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			opts.logger().Warn("skipping workbook", "file", path, "error", err)
			unopened = append(unopened, models.Problem{File: filepath.Base(path), Message: err.Error()})
			errs = append(errs, err)
			continue
		}
		defer fh.Close()
		sources = append(sources, Source{Name: filepath.Base(path), Reader: fh})
	}
	return analyze(ctx, sources, opts, unopened, errs)
}

// GenerateScript builds the ordered Python script for an analysis.
// It fails with emit.ErrNoOrder when the analysis has no evaluation order.
func GenerateScript(ctx context.Context, analysis *models.Analysis, opts Options) (string, error) {
	if analysis.Order == nil {
		if analysis.Cycle != nil {
			return "", fmt.Errorf("%w: %w", emit.ErrNoOrder, deps.ErrCycle)
		}
		return "", emit.ErrNoOrder
	}
	script, _, err := NewScriptEmitter(opts).Emit(ctx, analysis.Collection(), analysis.Order)
	return script, err
}

// NewScriptEmitter returns a script emitter configured from opts.
func NewScriptEmitter(opts Options) *emit.ScriptEmitter {
	return &emit.ScriptEmitter{
		Translator:     opts.Translator,
		Workers:        opts.workers(),
		IncludeContext: opts.ShouldIncludeContext(),
		Logger:         opts.logger(),
	}
}

// uniqueNames returns the source labels, suffixing repeated ones until every
// label is distinct, including from names given verbatim by later sources.
func uniqueNames(sources []Source) []string {
	names := make([]string, len(sources))
	taken := make(map[string]bool, len(sources))
	for _, src := range sources {
		taken[src.Name] = true
	}
	used := make(map[string]bool, len(sources))
	for i, src := range sources {
		name := src.Name
		if name == "" {
			name = "workbook" + strconv.Itoa(i+1)
		}
		if used[name] {
			base := name
			for n := 2; used[name] || (taken[name] && name != src.Name); n++ {
				name = base + " (" + strconv.Itoa(n) + ")"
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}
