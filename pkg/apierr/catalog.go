package apierr

func InternalError(cause error) *Error {
	return newError(CodeInternalError, "Internal server error", cause)
}

// --- Upload ---

func FileRequired() *Error {
	return newError(CodeFileRequired, "At least one workbook must be uploaded in the 'file' field", nil)
}

func UploadTooLarge(cause error) *Error {
	return newError(CodeUploadTooLarge, "Upload exceeds the size limit", cause)
}

// --- Analysis ---

// InvalidWorkbook reports that none of files could be read as an xlsx workbook.
func InvalidWorkbook(cause error, files ...string) *Error {
	return newError(CodeInvalidWorkbook, "No uploaded file could be read as an xlsx workbook", cause).WithFiles(files...)
}

func InvalidFormat(format string) *Error {
	return newError(CodeInvalidFormat, "format must be one of: json, dot, script (got "+format+")", nil)
}

// CycleDetected reports a dependency cycle along the given key path.
func CycleDetected(cause error, cycle []string) *Error {
	e := newError(CodeCycleDetected, "Named references form a dependency cycle; no evaluation order exists", cause)
	e.Cycle = cycle
	return e
}

func AnalysisFailed(cause error) *Error {
	return newError(CodeAnalysisFailed, "Analysis failed", cause)
}
