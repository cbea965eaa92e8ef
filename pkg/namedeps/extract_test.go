package namedeps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	buf := workbook(t,
		cellDef{"Base", "B1", 100},
		cellDef{"Tax", "B2", "=Base*0.1"},
	)

	// Save to temp file
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	refs, failures, err := Extract(tmpFile, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("Unexpected failures: %v", failures)
	}
	if refs.Len() != 2 {
		t.Fatalf("Expected 2 references, got %d", refs.Len())
	}
	tax, _ := refs.Get("Tax")
	if tax.File != "test.xlsx" {
		t.Errorf("Expected file label test.xlsx, got %q", tax.File)
	}
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Extract(filepath.Join(dir, "missing.xlsx"), DefaultOptions()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}

	junk := filepath.Join(dir, "junk.xlsx")
	if err := os.WriteFile(junk, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Extract(junk, DefaultOptions())
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) || extractionErr.Component != "open" {
		t.Fatalf("Expected open ExtractionError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestAnalyzeFiles_MissingPath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xlsx")
	if err := os.WriteFile(good, workbook(t, cellDef{"Base", "B1", 1}).Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.xlsx")

	analysis, err := AnalyzeFiles(context.Background(), []string{good, missing}, DefaultOptions())
	if err != nil {
		t.Fatalf("AnalyzeFiles failed: %v", err)
	}
	if len(analysis.Problems) != 1 || analysis.Problems[0].File != "missing.xlsx" {
		t.Fatalf("Expected one problem for missing.xlsx, got %+v", analysis.Problems)
	}
	if !strings.Contains(analysis.Problems[0].Message, "file not found") {
		t.Errorf("Unexpected problem message %q", analysis.Problems[0].Message)
	}
	if _, ok := analysis.Collection().Get("good.xlsx::Base"); !ok {
		t.Errorf("Expected namespaced key for the requested files, got %v", analysis.Collection().Keys())
	}

	_, err = AnalyzeFiles(context.Background(), []string{missing}, DefaultOptions())
	if !errors.Is(err, ErrNoWorkbooks) || !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrNoWorkbooks caused by ErrFileNotFound, got %v", err)
	}
}
