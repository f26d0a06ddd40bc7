package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSeparator joins per-line messages in AggregateError.Error. Callers
// split on it to show every problem found in one pass.
const ErrorSeparator = ";;"

var (
	ErrUnrecognizedEntityLine = errors.New("unrecognized entity line")
	ErrMalformedFlagArgument  = errors.New("malformed flag argument")
)

// LineError is a failure scoped to one source line. Err is either a
// *chronodate.Error or wraps one of the parser sentinels.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// AggregateError collects every line failure from one parse.
type AggregateError struct {
	Errors []*LineError
}

// Error joins the line messages with ErrorSeparator. Every ';' inside a
// message is written as a fullwidth '；' so the joined text splits back
// into exactly one part per line.
func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, le := range e.Errors {
		parts = append(parts, semicolon.Replace(le.Error()))
	}
	return strings.Join(parts, ErrorSeparator)
}

var semicolon = strings.NewReplacer(";", "\uff1b")

// Messages returns one unescaped message per failed line, in line order.
func (e *AggregateError) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, le := range e.Errors {
		out[i] = le.Error()
	}
	return out
}

// Unwrap exposes the line errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, le := range e.Errors {
		out[i] = le
	}
	return out
}

// SplitMessages splits an aggregate error message into its per-line parts.
func SplitMessages(msg string) []string {
	if msg == "" {
		return nil
	}
	return strings.Split(msg, ErrorSeparator)
}
