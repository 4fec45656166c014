package vobject

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every error returned from the parser.
var ErrSyntax = errors.New("vobject: syntax error")

// SyntaxError describes where parsing stopped. Line and Column are 1-based and
// refer to the unfolded input; Column counts characters, not bytes.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vobject: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
