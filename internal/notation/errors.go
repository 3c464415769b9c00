package notation

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every grammar error.
	ErrSyntax = errors.New("syntax error")

	ErrInvalidStagePrefix = errors.New("couldn't parse stage")
	ErrStageRequired      = errors.New("requires a valid stage")
	ErrMultipleOperators  = errors.New("more than one low-precedence operator at the same depth")
	ErrNoPlaces           = errors.New("token has no places within stage")
	ErrBadSlice           = errors.New("malformed slice")
	ErrEmptyCircular      = errors.New("cannot perform circular slice on empty list")
	ErrTooManyTokens      = errors.New("expansion exceeds the token limit")
)

// MaxTokens bounds the length of any expansion, including repeats and
// counted circular slices.
const MaxTokens = 1 << 20

// SyntaxError reports a grammar problem at a byte offset of the input text.
type SyntaxError struct {
	Pos int
	Msg string
	Err error // optional sentinel, e.g. ErrBadSlice
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at index %d: %v", e.Msg, e.Pos, e.Err)
	}
	return fmt.Sprintf("%s at index %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}
	return []error{ErrSyntax}
}

func syntaxErrorf(pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
