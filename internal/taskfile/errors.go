package taskfile

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates a problem in a task file. Line and Column are 1-based
// and count runes; both are zero when the position is unknown.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
	// Err is the decoder error behind Msg, if any.
	Err error
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

// Unwrap exposes both ErrSyntax and the underlying decoder error.
func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSyntax}
	}
	return []error{ErrSyntax, e.Err}
}
