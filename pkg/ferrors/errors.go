// Package ferrors provides the structured error type used across the
// depth-feed reader: no user/request/trace identifiers, since this is a
// single-process batch reader with no multi-tenant request to attach
// them to.
package ferrors

import (
	"fmt"
	"runtime"
	"time"
)

// ErrorCode identifies the category of a FeedError.
type ErrorCode string

const (
	// Startup and sink errors: process setup, or a failed write to the
	// snapshot sink.
	ErrStartup ErrorCode = "STARTUP_ERROR"

	// Decode errors: fatal at stream granularity.
	ErrTruncated       ErrorCode = "TRUNCATED_RECORD"
	ErrUnknownEvent    ErrorCode = "UNKNOWN_EVENT_TYPE"
	ErrMsgSizeMismatch ErrorCode = "MSG_SIZE_MISMATCH"

	// Logic errors: recoverable at event granularity.
	ErrDuplicateOrder ErrorCode = "DUPLICATE_ORDER"
	ErrOrderNotFound  ErrorCode = "ORDER_NOT_FOUND"
)

// Severity represents how loudly a FeedError should be treated.
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityWarning Severity = "warning"
)

func severityForCode(code ErrorCode) Severity {
	switch code {
	case ErrStartup, ErrTruncated, ErrUnknownEvent, ErrMsgSizeMismatch:
		return SeverityFatal
	default:
		return SeverityWarning
	}
}

// FeedError is the structured error type returned by the decoder and the
// event loop. It carries enough context to log as a single structured
// zap field without string interpolation at the call site.
type FeedError struct {
	Code      ErrorCode
	Message   string
	Severity  Severity
	Timestamp time.Time
	File      string
	Line      int
	Function  string
	Cause     error
}

func (e *FeedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (caused by: %v)", e.Code, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message)
}

// Unwrap lets errors.Is/As see through FeedError to its cause.
func (e *FeedError) Unwrap() error {
	return e.Cause
}

// New creates a FeedError, capturing the caller's location.
func New(code ErrorCode, message string) *FeedError {
	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}
	return &FeedError{
		Code:      code,
		Message:   message,
		Severity:  severityForCode(code),
		Timestamp: time.Now(),
		File:      file,
		Line:      line,
		Function:  funcName,
	}
}

// Newf creates a FeedError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *FeedError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause to a new FeedError. Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) *FeedError {
	if err == nil {
		return nil
	}
	fe := New(code, message)
	fe.Cause = err
	return fe
}

// IsFatal reports whether the error's severity terminates the stream.
func IsFatal(err error) bool {
	fe, ok := err.(*FeedError)
	if !ok {
		return false
	}
	return fe.Severity == SeverityFatal
}
