package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ukaji3/namedeps-go/pkg/apierr"
	"github.com/ukaji3/namedeps-go/pkg/namedeps"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/deps"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/emit"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

const defaultMaxUpload = 50 * 1024 * 1024

// Archiver stores uploaded workbooks.
type Archiver interface {
	ArchiveWorkbook(ctx context.Context, objectName string, data []byte) error
}

// GraphSink receives the dependency graph of every analysis.
type GraphSink interface {
	SyncAnalysis(ctx context.Context, runID string, a *models.Analysis) error
}

// AnalyzeHandler analyzes uploaded workbooks.
type AnalyzeHandler struct {
	logger    *slog.Logger
	opts      namedeps.Options
	maxUpload int64

	// NewTranslator builds the formula translator for one request. Nil
	// disables explanations.
	NewTranslator func() emit.Translator
	Archive       Archiver
	Sink          GraphSink
}

func NewAnalyzeHandler(logger *slog.Logger, opts namedeps.Options, maxUpload int64) *AnalyzeHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &AnalyzeHandler{logger: logger, opts: opts, maxUpload: maxUpload}
}

type analyzeResponse struct {
	RunID string `json:"run_id"`
	*models.Analysis
}

// Analyze handles POST /api/v1/analyze with one or more multipart "file" fields.
// Query parameters: explain=true to generate explanations, format=json|dot|script.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "dot" && format != "script" {
		writeAPIError(w, h.logger, apierr.InvalidFormat(format))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, h.logger, apierr.UploadTooLarge(err))
			return
		}
		writeAPIError(w, h.logger, apierr.FileRequired())
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeAPIError(w, h.logger, apierr.FileRequired())
		return
	}

	runID := uuid.New().String()
	logger := h.logger.With(slog.String("run_id", runID))

	sources := make([]namedeps.Source, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			writeAPIError(w, logger, apierr.InternalError(err))
			return
		}
		name := filepath.Base(fh.Filename)
		if name == "" || name == "." {
			name = "upload-" + runID[:8] + ".xlsx"
		}
		h.archive(r.Context(), logger, runID, name, data)
		sources = append(sources, namedeps.Source{Name: name, Reader: bytes.NewReader(data)})
	}

	opts := h.opts
	opts.Logger = logger
	opts.Mode = namedeps.ModeGraph
	if format != "dot" && r.URL.Query().Get("explain") == "true" && h.NewTranslator != nil {
		opts.Translator = h.NewTranslator()
		opts.Mode = namedeps.ModeScript
	}

	analysis, err := namedeps.Analyze(r.Context(), sources, opts)
	switch {
	case errors.Is(err, namedeps.ErrNoWorkbooks):
		names := make([]string, len(sources))
		for i, src := range sources {
			names[i] = src.Name
		}
		writeAPIError(w, logger, apierr.InvalidWorkbook(err, names...))
		return
	case errors.Is(err, deps.ErrCycle):
		if format == "script" {
			var cycle []string
			var ce *deps.CycleError
			if errors.As(err, &ce) {
				cycle = ce.Cycle
			}
			writeAPIError(w, logger, apierr.CycleDetected(err, cycle))
			return
		}
	case err != nil:
		writeAPIError(w, logger, apierr.AnalysisFailed(err))
		return
	}

	if h.Sink != nil {
		if err := h.Sink.SyncAnalysis(r.Context(), runID, analysis); err != nil {
			logger.Warn("graph sync failed", slog.String("error", err.Error()))
		}
	}

	switch format {
	case "dot":
		var b strings.Builder
		if err := emit.WriteDOT(&b, emit.BuildGraph(analysis.Collection(), analysis.Graph())); err != nil {
			writeAPIError(w, logger, apierr.InternalError(err))
			return
		}
		writeText(w, "text/vnd.graphviz; charset=utf-8", b.String())
	case "script":
		script := analysis.Script
		if script == "" {
			script, err = namedeps.GenerateScript(r.Context(), analysis, opts)
			if err != nil {
				writeAPIError(w, logger, apierr.AnalysisFailed(err))
				return
			}
		}
		writeText(w, "text/x-python; charset=utf-8", script)
	default:
		writeJSON(w, http.StatusOK, analyzeResponse{RunID: runID, Analysis: analysis})
	}
}

func (h *AnalyzeHandler) archive(ctx context.Context, logger *slog.Logger, runID, name string, data []byte) {
	if h.Archive == nil {
		return
	}
	objectName := fmt.Sprintf("%s/%s", runID, name)
	if err := h.Archive.ArchiveWorkbook(ctx, objectName, data); err != nil {
		logger.Warn("archive upload failed", slog.String("object", objectName), slog.String("error", err.Error()))
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
