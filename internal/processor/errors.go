package processor

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category for a run.
type Code string

// Failure codes.
const (
	CodeInputNotFound       Code = "INPUT_NOT_FOUND"
	CodeUnrecognizedSource  Code = "UNRECOGNIZED_SOURCE"
	CodeUnsupportedFormat   Code = "UNSUPPORTED_FORMAT"
	CodeNoAnalyzerAvailable Code = "NO_ANALYZER_AVAILABLE"
	CodeDecodeFailed        Code = "DECODE_FAILED"
	CodeTranscodeFailed     Code = "TRANSCODE_FAILED"
	CodeInterrupted         Code = "INTERRUPTED"
	CodeNoChannelsSelected  Code = "NO_CHANNELS_SELECTED"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
)

// Error is a run failure with a code, a message for the user and the
// buffered output of the child process that failed, if any.
type Error struct {
	Code        Code
	Message     string
	Diagnostics string
	cause       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Diagnostics: e.Diagnostics, cause: err}
}

// WithDiagnostics returns a copy of e carrying child process output.
func (e *Error) WithDiagnostics(diag string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Diagnostics: diag, cause: e.cause}
}

// Sentinel errors for use with errors.Is.
var (
	ErrInputNotFound       = &Error{Code: CodeInputNotFound, Message: "input file not found"}
	ErrUnrecognizedSource  = &Error{Code: CodeUnrecognizedSource, Message: "source format not recognised"}
	ErrUnsupportedFormat   = &Error{Code: CodeUnsupportedFormat, Message: "source format cannot be decoded"}
	ErrNoAnalyzerAvailable = &Error{Code: CodeNoAnalyzerAvailable, Message: "no metadata analyzer available"}
	ErrDecodeFailed        = &Error{Code: CodeDecodeFailed, Message: "decode failed"}
	ErrTranscodeFailed     = &Error{Code: CodeTranscodeFailed, Message: "transcode failed"}
	ErrInterrupted         = &Error{Code: CodeInterrupted, Message: "interrupted"}
	ErrNoChannelsSelected  = &Error{Code: CodeNoChannelsSelected, Message: "channel filter excludes every channel of the layout"}
	ErrInvalidRequest      = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
