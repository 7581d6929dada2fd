package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/issuefilter/internal/catalog"
	"github.com/roach88/issuefilter/internal/engine"
	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/parser"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input (invalid filter, rejected apply, failed scenarios)
	ExitCommandError = 2 // Command error (missing catalog, database errors, etc.)
)

// Error codes for failures that carry no domain code of their own.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path or record not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	reported bool // already written to the command's output
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// Reported reports whether err was already written to the command output
// by the formatter, so callers should not print it again.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.reported
}

// reportedExit builds an ExitError for a failure the command has already
// printed.
func reportedExit(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err, reported: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode returns the most specific code carried by err: the code of a
// parse, apply, catalog or engine error, or ErrCodeGeneric.
func ErrorCode(err error) string {
	var (
		pe *parser.ParseError
		ae *filter.ApplyError
		le *catalog.LoadError
		ee *engine.EngineError
	)
	switch {
	case errors.As(err, &pe):
		return string(pe.Code)
	case errors.As(err, &ae):
		return string(ae.Code)
	case errors.As(err, &le):
		return string(le.Code)
	case errors.As(err, &ee):
		return string(ee.Code)
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // domain code ("AMBIGUOUS") or "E001" etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// IsJSON reports whether output is JSON.
func (f *OutputFormatter) IsJSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result. Text output prints text; JSON output
// wraps data in the response envelope.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.IsJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if text != "" {
		fmt.Fprintln(f.Writer, text)
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.IsJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns it as an ExitError with exitCode, so the
// command's RunE can `return f.Fail(...)`.
func (f *OutputFormatter) Fail(exitCode int, err error, details any) error {
	if outErr := f.Error(ErrorCode(err), err.Error(), details); outErr != nil {
		return outErr
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		exitErr.reported = true
		return exitErr
	}
	return reportedExit(exitCode, err.Error(), err)
}

// encode writes v as indented JSON. Filter text is written unescaped so
// "<" and ">" stay readable.
func (f *OutputFormatter) encode(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
