package common

import (
	"errors"
	"fmt"
)

// Error classifications carried in the envelope's "type" field.
const (
	KindSyntaxError         = "SyntaxError"
	KindValueError          = "ValueError"
	KindTypeError           = "TypeError"
	KindNotImplementedError = "NotImplementedError"
	KindRuntimeError        = "RuntimeError"
)

const MsgInvalidFormat = "Invalid AST format"

// Error is a failure with a classification.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Errorf(kind string, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidFormat is returned for documents that are not a discriminated
// record.
func ErrInvalidFormat() *Error {
	return &Error{Kind: KindValueError, Message: MsgInvalidFormat}
}

// SyntaxError is the oracle's report of text that does not conform to the
// grammar. Line, Offset and Text are nil when the oracle could not place it.
type SyntaxError struct {
	Msg    string
	Line   *int    // 1-based line
	Offset *int    // 1-based column
	Text   *string // The offending source line
}

func (e *SyntaxError) Error() string {
	if e.Line != nil && e.Offset != nil {
		return fmt.Sprintf("%d:%d: %s", *e.Line, *e.Offset, e.Msg)
	}
	return e.Msg
}

// Classify returns the classification of err. Unclassified errors are
// runtime errors.
func Classify(err error) string {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return KindSyntaxError
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindRuntimeError
}

// Recovered converts a recovered panic value into a runtime error.
func Recovered(r any) error {
	if err, ok := r.(error); ok {
		return &Error{Kind: KindRuntimeError, Message: err.Error()}
	}
	return &Error{Kind: KindRuntimeError, Message: fmt.Sprint(r)}
}
