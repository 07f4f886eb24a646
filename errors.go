package itol

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrorCode classifies an error for logs, JSON output and exit codes.
type ErrorCode string

const (
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNetwork       ErrorCode = "NETWORK_ERROR"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeServer        ErrorCode = "SERVER_ERROR"
	CodeLocalIO       ErrorCode = "LOCAL_IO_ERROR"
	CodeUnknown       ErrorCode = "UNKNOWN"
)

// Errors for local preconditions. They are wrapped in a ConfigurationError.
var (
	ErrEmptyReference    = errors.New("tree reference is empty")
	ErrProjectRequired   = errors.New("project name is required when an upload ID is set")
	ErrNotUploadable     = errors.New("tree reference is not a local file")
	ErrNotDownloadable   = errors.New("tree reference is not a tree ID or URL")
	ErrArchiveDatasets   = errors.New("datasets cannot be added to an existing zip archive")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrUnknownOption     = errors.New("unknown display option")
	ErrInvalidOption     = errors.New("invalid display option value")
	ErrConfigRequired    = errors.New("config is required")
)

// Errors for dataset records. They are wrapped in a FormatError.
var (
	ErrEmptyDataset     = errors.New("no records")
	ErrUnknownKind      = errors.New("unknown dataset kind")
	ErrKindMismatch     = errors.New("record kind does not match dataset kind")
	ErrArity            = errors.New("wrong number of fields")
	ErrInvalidSelector  = errors.New("invalid node selector")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrOutOfRange       = errors.New("value out of range")
	ErrInvalidStyle     = errors.New("invalid style")
	ErrValueCount       = errors.New("value count differs between records")
	ErrFieldCount       = errors.New("field labels or colors do not match value count")
	ErrUnknownSeparator = errors.New("unknown separator")
	ErrSeparatorInCell  = errors.New("field contains the separator or a newline")
	ErrInvalidSetting   = errors.New("invalid header setting")
	ErrInvalidSequence  = errors.New("invalid sequence")
	ErrInvalidURL       = errors.New("invalid image URL")
)

// ConfigurationError reports a local precondition that was violated. It is
// always raised before any network call.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Code implements Coder.
func (e *ConfigurationError) Code() ErrorCode { return CodeInvalidConfig }

// NewConfigurationError wraps err with the offending field name.
func NewConfigurationError(field string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: err}
}

// FormatError reports a malformed annotation record or dataset.
// Record is the zero-based record index, or -1 when the whole dataset is at fault.
type FormatError struct {
	Kind   string
	Record int
	Field  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "format " + e.Kind
	if e.Record >= 0 {
		msg += " record " + strconv.Itoa(e.Record)
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	return msg + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Code implements Coder.
func (e *FormatError) Code() ErrorCode { return CodeInvalidInput }

// TransportError reports a network-level failure: DNS, connection, timeout.
// Sent is true when the request may have reached the server, in which case
// the outcome of a non-idempotent operation is unknown.
type TransportError struct {
	Op   string
	URL  string
	Sent bool
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Ambiguous reports whether the remote outcome is unknown.
func (e *TransportError) Ambiguous() bool { return e.Sent }

// Code implements Coder.
func (e *TransportError) Code() ErrorCode {
	if e.Timeout() {
		return CodeTimeout
	}
	return CodeNetwork
}

// ServerError reports a failure returned by the iTOL service, either as an
// HTTP status or as an error message in a 2xx body.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Op + ": server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
}

// Code implements Coder.
func (e *ServerError) Code() ErrorCode { return CodeServer }

// Retryable reports whether a retry of an idempotent request may succeed.
func (e *ServerError) Retryable() bool { return e.StatusCode >= 500 }

// LocalIOError reports a failure reading or writing a local file.
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// Code implements Coder.
func (e *LocalIOError) Code() ErrorCode { return CodeLocalIO }

// Coder is implemented by every error in the taxonomy.
type Coder interface {
	Code() ErrorCode
}

// CodeOf returns the code of the first Coder in err's chain.
func CodeOf(err error) ErrorCode {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeUnknown
}

// ExitCode maps err to the process exit status used by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case CodeInvalidConfig:
		return 2
	case CodeInvalidInput:
		return 3
	case CodeNetwork, CodeTimeout:
		return 4
	case CodeServer:
		return 5
	case CodeLocalIO:
		return 6
	default:
		return 1
	}
}
