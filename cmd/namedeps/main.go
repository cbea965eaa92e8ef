// Package main provides the CLI entry point for namedeps.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukaji3/namedeps-go/internal/config"
	"github.com/ukaji3/namedeps-go/internal/graphdb"
	"github.com/ukaji3/namedeps-go/pkg/namedeps"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/output"
)

var (
	outputPath string
	pretty     bool
	format     string
	explain    bool
	noContext  bool
	workers    int
	syncNeo4j  bool
	verbose    bool
	filesDir   string
)

func main() {
	_ = godotenv.Load(".env")

	rootCmd := &cobra.Command{
		Use:   "namedeps [book.xlsx ...]",
		Short: "Analyze dependencies between named references in Excel files",
		Long: `namedeps extracts the defined names of one or more Excel workbooks,
infers which names depend on which and orders them for evaluation.
The result is written as JSON, a Graphviz DOT graph, a Python script
or a Markdown table.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&format, "format", "json", "Output format: json, dot, script, markdown")
	rootCmd.Flags().BoolVar(&explain, "explain", false, "Explain and translate formulas with the LLM service")
	rootCmd.Flags().BoolVar(&noContext, "no-context", false, "Do not pass the other formulas to translations")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent extractions and LLM calls (default: NAMEDEPS_WORKERS or 4)")
	rootCmd.Flags().BoolVar(&syncNeo4j, "neo4j", false, "Write the dependency graph to Neo4j (NEO4J_URI)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.Flags().StringVar(&filesDir, "files-dir", "", "Directory for per-workbook reference files")

	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, args []string) error {
	switch format {
	case "json", "dot", "script", "markdown":
	default:
		return fmt.Errorf("invalid format: %s (must be json, dot, script, or markdown)", format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := analysisOptions(cfg, logger)
	if explain {
		translator, closeFn, err := newTranslator(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()
		opts.Translator = translator
	}
	if explain && format == "json" {
		opts.Mode = namedeps.ModeScript
	}

	analysis, err := namedeps.AnalyzeFiles(ctx, args, opts)
	if analysis == nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	analysisErr := err

	for _, p := range analysis.Problems {
		logger.Warn("problem", "file", p.File, "name", p.Name, "location", p.Location, "message", p.Message)
	}

	if syncNeo4j {
		if err := syncGraph(ctx, cfg.Neo4j, analysis, logger); err != nil {
			return err
		}
	}

	data, err := render(ctx, analysis, opts)
	if err != nil {
		return err
	}

	// Write output
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if filesDir == "" {
		os.Stdout.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
	}

	// Write per-workbook files
	if filesDir != "" {
		if err := writeWorkbookFiles(analysis, filesDir); err != nil {
			return fmt.Errorf("failed to write workbook files: %w", err)
		}
	}

	return analysisErr
}

func analysisOptions(cfg *config.Config, logger *slog.Logger) namedeps.Options {
	opts := namedeps.DefaultOptions()
	opts.Logger = logger
	opts.Workers = cfg.Analysis.Workers
	if workers > 0 {
		opts.Workers = workers
	}
	includeContext := cfg.Analysis.IncludeContext && !noContext
	opts.IncludeContext = &includeContext
	return opts
}

// render formats the analysis according to --format.
func render(ctx context.Context, analysis *models.Analysis, opts namedeps.Options) ([]byte, error) {
	switch format {
	case "dot":
		var b bytes.Buffer
		if err := emit.WriteDOT(&b, emit.BuildGraph(analysis.Collection(), analysis.Graph())); err != nil {
			return nil, fmt.Errorf("render graph: %w", err)
		}
		return b.Bytes(), nil
	case "script", "markdown":
		if analysis.Order == nil {
			return nil, fmt.Errorf("cannot generate %s: %w", format, cycleCause(analysis))
		}
		script, entries, err := namedeps.NewScriptEmitter(opts).Emit(ctx, analysis.Collection(), analysis.Order)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", format, err)
		}
		if format == "script" {
			return []byte(script), nil
		}
		var b bytes.Buffer
		if err := emit.WriteMarkdown(&b, entries); err != nil {
			return nil, fmt.Errorf("render markdown: %w", err)
		}
		return b.Bytes(), nil
	default:
		data, err := output.ToJSON(analysis, pretty)
		if err != nil {
			return nil, fmt.Errorf("serialization failed: %w", err)
		}
		return data, nil
	}
}

func cycleCause(analysis *models.Analysis) error {
	if analysis.Cycle == nil {
		return emit.ErrNoOrder
	}
	return errors.New("dependency cycle: " + strings.Join(analysis.Cycle.Cycle, " -> "))
}

func syncGraph(ctx context.Context, cfg config.Neo4jConfig, analysis *models.Analysis, logger *slog.Logger) error {
	if cfg.URI == "" {
		return errors.New("--neo4j requires NEO4J_URI")
	}
	client, err := graphdb.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	if err := client.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure neo4j indexes: %w", err)
	}
	runID := uuid.New().String()
	if err := client.SyncAnalysis(ctx, runID, analysis); err != nil {
		return fmt.Errorf("sync graph: %w", err)
	}
	logger.Info("graph written to neo4j", "run_id", runID, "references", len(analysis.References))
	return nil
}

func writeWorkbookFiles(analysis *models.Analysis, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	byFile := make(map[string][]models.NamedReference, len(analysis.Files))
	for _, ref := range analysis.References {
		byFile[ref.File] = append(byFile[ref.File], ref)
	}

	names := workbookFileNames(analysis.Files)
	for i, file := range analysis.Files {
		refs := byFile[file]
		if refs == nil {
			refs = []models.NamedReference{}
		}
		jsonData, err := output.ReferencesToJSON(refs, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, names[i])
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// workbookFileNames maps workbook labels to distinct JSON file names.
// A plain extension is dropped and anything outside [A-Za-z0-9._-] becomes "_".
func workbookFileNames(files []string) []string {
	names := make([]string, len(files))
	used := make(map[string]bool, len(files))
	for i, file := range files {
		base := file
		if ext := filepath.Ext(file); isPlainExt(ext) {
			base = strings.TrimSuffix(file, ext)
		}
		base = safeFileName(base)

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name + ".json"
	}
	return names
}

func isPlainExt(ext string) bool {
	if len(ext) < 2 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func safeFileName(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		if r == '.' || r == '-' || r == '_' || (r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')) {
			b.WriteRune(r)
			underscore = r == '_'
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.Trim(b.String(), "_.")
	if name == "" {
		name = "workbook"
	}
	return name
}
