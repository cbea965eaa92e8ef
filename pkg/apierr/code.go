package apierr

import "net/http"

// Code is a machine-readable error identifier.
type Code string

const (
	CodeInternalError   Code = "INTERNAL_ERROR"
	CodeFileRequired    Code = "FILE_REQUIRED"
	CodeUploadTooLarge  Code = "UPLOAD_TOO_LARGE"
	CodeInvalidWorkbook Code = "INVALID_WORKBOOK"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeCycleDetected   Code = "CYCLE_DETECTED"
	CodeAnalysisFailed  Code = "ANALYSIS_FAILED"
)

// Status maps the code to its HTTP status. Unknown codes are server errors.
func (c Code) Status() int {
	switch c {
	case CodeFileRequired, CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeInvalidWorkbook:
		return http.StatusUnprocessableEntity
	case CodeCycleDetected:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
