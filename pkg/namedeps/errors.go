package namedeps

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNoWorkbooks indicates that no workbook could be analyzed.
var ErrNoWorkbooks = errors.New("no workbooks to analyze")

// ExtractionError represents an error during extraction of one workbook.
type ExtractionError struct {
	File      string
	Component string // "open", "names", "merge"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in %q (%s): %v", e.File, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(file, component string, err error) *ExtractionError {
	return &ExtractionError{
		File:      file,
		Component: component,
		Err:       err,
	}
}
