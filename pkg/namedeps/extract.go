package namedeps

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
	"github.com/ukaji3/namedeps-go/pkg/namedeps/parser"
)

// Source is a workbook supplied as a byte stream.
type Source struct {
	// Name labels the workbook (usually its file name, no path).
	Name string
	// Reader yields the xlsx container bytes.
	Reader io.Reader
}

// Extract extracts the named references of an Excel file.
// Destinations that cannot be resolved are skipped and returned as failures.
func Extract(path string, opts Options) (*models.Collection, []*parser.DestinationError, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	return ExtractReader(fh, filepath.Base(path), opts)
}

// ExtractReader extracts the named references of a workbook read from r,
// labelling every reference with name.
func ExtractReader(r io.Reader, name string, opts Options) (*models.Collection, []*parser.DestinationError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, NewExtractionError(name, "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	logger := opts.logger().With("file", name)
	refs, failures := parser.ExtractReferences(parser.NewExcelizeWorkbook(f), name, logger)
	logger.Info("extracted named references",
		"references", refs.Len(),
		"skipped_destinations", len(failures))
	return refs, failures, nil
}
