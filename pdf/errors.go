package pdf

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed or out-of-bounds page range expression.
type ParseError struct {
	Expr      string // full expression as entered
	Token     string // offending token, empty when the whole expression is at fault
	PageCount int
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Token)
}

// IndexError reports a slot or page index outside the current page order.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range (have %d)", e.Op, e.Index, e.Len)
}

// ValidationError reports a selection or option that cannot produce a document.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PasswordRequiredError is returned when a document is encrypted and the
// supplied password is missing or wrong.
type PasswordRequiredError struct {
	Cause error
}

func (e *PasswordRequiredError) Error() string {
	return "This PDF is password protected. Please enter the correct password."
}

func (e *PasswordRequiredError) Unwrap() error {
	return e.Cause
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsUserError reports whether err was caused by user input and can be shown verbatim.
func IsUserError(err error) bool {
	var (
		pe *ParseError
		ie *IndexError
		ve *ValidationError
		pw *PasswordRequiredError
	)
	return errors.As(err, &pe) || errors.As(err, &ie) || errors.As(err, &ve) || errors.As(err, &pw)
}
