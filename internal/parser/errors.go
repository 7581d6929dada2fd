package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError reports malformed query text. Pos and End delimit the
// offending bytes of Input.
type ParseError struct {
	// Code identifies the error category.
	Code ParseErrorCode

	// Message is a human-readable description.
	Message string

	// Input is the full query text.
	Input string

	// Pos and End are byte offsets into Input.
	Pos, End int
}

// ParseErrorCode categorizes parse errors.
type ParseErrorCode string

const (
	// ErrCodeUnbalancedParen indicates a missing or stray parenthesis.
	ErrCodeUnbalancedParen ParseErrorCode = "UNBALANCED_PAREN"

	// ErrCodeUnexpectedToken indicates an operator or token in a position
	// the grammar does not allow.
	ErrCodeUnexpectedToken ParseErrorCode = "UNEXPECTED_TOKEN"

	// ErrCodeUnexpectedEnd indicates the input ended inside an expression.
	ErrCodeUnexpectedEnd ParseErrorCode = "UNEXPECTED_END"

	// ErrCodeUnterminatedQuote indicates a quoted string with no closing quote.
	ErrCodeUnterminatedQuote ParseErrorCode = "UNTERMINATED_QUOTE"

	// ErrCodeInvalidRange indicates a malformed number or date range.
	ErrCodeInvalidRange ParseErrorCode = "INVALID_RANGE"

	// ErrCodeInvalidDate indicates a YYYY-MM-DD value that is not a date.
	ErrCodeInvalidDate ParseErrorCode = "INVALID_DATE"

	// ErrCodeEmptyValue indicates "name:" with nothing after the colon.
	ErrCodeEmptyValue ParseErrorCode = "EMPTY_VALUE"
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (at %d)", e.Code, e.Message, e.Pos)
}

// Fragment returns the offending part of the input.
func (e *ParseError) Fragment() string {
	if e.Pos < 0 || e.End > len(e.Input) || e.Pos >= e.End {
		return ""
	}
	return e.Input[e.Pos:e.End]
}

// Underline renders the input with a caret run under the offending span:
//
//	label:bug AND
//	              ^
func (e *ParseError) Underline() string {
	pos := min(max(e.Pos, 0), len(e.Input))
	end := min(max(e.End, pos), len(e.Input))
	col := utf8.RuneCountInString(e.Input[:pos])
	width := max(utf8.RuneCountInString(e.Input[pos:end]), 1)
	return e.Input + "\n" + strings.Repeat(" ", col) + strings.Repeat("^", width)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func newParseError(code ParseErrorCode, input string, pos, end int, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
		Pos:     pos,
		End:     end,
	}
}
