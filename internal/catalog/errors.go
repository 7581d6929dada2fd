package catalog

import (
	"errors"
	"fmt"
)

// LoadError reports a catalog that could not be loaded.
type LoadError struct {
	// Code identifies the error category.
	Code LoadErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the file or directory being loaded.
	Path string

	// Err is the underlying cause. For ErrCodeInvalid it is a
	// *multierror.Error listing every validation problem.
	Err error
}

// LoadErrorCode categorizes load errors.
type LoadErrorCode string

const (
	// ErrCodeNotFound indicates the path does not exist.
	ErrCodeNotFound LoadErrorCode = "NOT_FOUND"

	// ErrCodeUnsupportedFormat indicates an extension other than .yaml,
	// .yml or .cue.
	ErrCodeUnsupportedFormat LoadErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeDecode indicates the file is not a well-formed document.
	ErrCodeDecode LoadErrorCode = "DECODE_FAILED"

	// ErrCodeInvalid indicates a well-formed document with inconsistent
	// content (duplicate ids, dangling references, bad timestamps).
	ErrCodeInvalid LoadErrorCode = "INVALID"
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsInvalid reports whether err is a validation failure.
func IsInvalid(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeInvalid
}
