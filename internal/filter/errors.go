package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ApplyError reports why a qualifier could not be applied to an issue.
type ApplyError struct {
	// Code identifies the rejection category.
	Code ApplyErrorCode

	// Qualifier is the serialized qualifier that was applied.
	Qualifier string

	// Message is a human-readable reason.
	Message string

	// Candidates lists the matching entities for AMBIGUOUS rejections.
	Candidates []string
}

// ApplyErrorCode categorizes apply rejections.
type ApplyErrorCode string

const (
	// ErrCodeUnsupported: the qualifier names no settable field.
	ErrCodeUnsupported ApplyErrorCode = "UNSUPPORTED"

	// ErrCodeAmbiguous: the qualifier matches several target entities, or
	// does not name a concrete target at all.
	ErrCodeAmbiguous ApplyErrorCode = "AMBIGUOUS"

	// ErrCodeNotFound: no entity matches the qualifier's content.
	ErrCodeNotFound ApplyErrorCode = "NOT_FOUND"

	// ErrCodeInvalidContent: the qualifier carries the wrong kind of content.
	ErrCodeInvalidContent ApplyErrorCode = "INVALID_CONTENT"
)

// Error implements the error interface.
func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Candidates) > 0 {
		msg += " [" + strings.Join(e.Candidates, ", ") + "]"
	}
	if e.Qualifier != "" {
		msg += fmt.Sprintf(" (qualifier=%s)", e.Qualifier)
	}
	return msg
}

func hasApplyCode(err error, code ApplyErrorCode) bool {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsAmbiguous returns true if err is an AMBIGUOUS apply rejection.
func IsAmbiguous(err error) bool { return hasApplyCode(err, ErrCodeAmbiguous) }

// IsNotFound returns true if err is a NOT_FOUND apply rejection.
func IsNotFound(err error) bool { return hasApplyCode(err, ErrCodeNotFound) }

// IsUnsupported returns true if err is an UNSUPPORTED apply rejection.
func IsUnsupported(err error) bool { return hasApplyCode(err, ErrCodeUnsupported) }

func newApplyError(code ApplyErrorCode, q Qualifier, format string, args ...any) *ApplyError {
	return &ApplyError{
		Code:      code,
		Qualifier: q.String(),
		Message:   fmt.Sprintf(format, args...),
	}
}
