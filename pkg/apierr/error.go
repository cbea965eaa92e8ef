// Package apierr defines the structured errors returned by the HTTP API.
package apierr

import "fmt"

// Error is an API failure. It is written to the client as the "error" object
// of an ErrorResponse; the cause only reaches the logs.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// Files names the uploaded workbooks the failure concerns.
	Files []string `json:"files,omitempty"`
	// Cycle is one offending dependency path, first key repeated at the end.
	Cycle []string `json:"cycle,omitempty"`

	cause error
}

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status the error is served with.
func (e *Error) Status() int { return e.Code.Status() }

// WithFiles attaches the workbook names the failure concerns.
func (e *Error) WithFiles(files ...string) *Error {
	e.Files = append(e.Files, files...)
	return e
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: e}
}
