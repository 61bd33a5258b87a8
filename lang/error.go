package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput        = NewError("failed to read input")
	ErrMaxDepthExceeded = NewError("maximum expression depth exceeded")
	ErrInvalidKind      = NewError("invalid expression node kind")
	ErrUnknownName      = NewError("unknown name in strict mode")
	ErrNilExpression    = NewError("nil expression")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports malformed expression source.
// It records the failure location and, when the source text is available,
// renders a caret-annotated snippet of the offending line.
type ParseError struct {
	Msg      string
	Source   string   // The original source input
	Pos      Pos      // Location of the failure
	Expected []string // Tokens that would have been accepted
}

// NewParseError creates a ParseError at the given location.
func NewParseError(msg string, pos Pos, expected ...string) *ParseError {
	return &ParseError{
		Msg:      msg,
		Pos:      pos,
		Expected: expected,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Col))
	buf.WriteString(": ")
	buf.WriteString(e.Msg)

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	if len(e.Expected) > 0 {
		exp := make([]string, len(e.Expected))
		for i, tok := range e.Expected {
			exp[i] = strconv.Quote(tok)
		}

		slices.Sort(exp)

		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(exp, ", "))
	}

	return buf.String()
}

// Snippet renders the offending source line with a caret marking the column.
// Returns "" when no source text is attached.
func (e *ParseError) Snippet() string {
	if e.Source == "" || e.Pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return ""
	}

	line := lines[e.Pos.Line-1]

	var src strings.Builder

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// Print marker pointing to the column.
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	lineNumWidth := len(strconv.Itoa(e.Pos.Line))
	padding := strings.Repeat(" ", lineNumWidth+5)

	if e.Pos.Col > 0 {
		padding += strings.Repeat(" ", e.Pos.Col-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// ArityError reports a resolver invoked with an argument count it does not
// support. It is fatal: resolution aborts with no partial output.
type ArityError struct {
	Op   string
	Want string // accepted count, e.g. "2" or "at least 1"
	Got  int
	Pos  Pos
}

// NewArityError creates an ArityError for the given call.
func NewArityError(call *CallSite, want string) *ArityError {
	return &ArityError{
		Op:   call.Op,
		Want: want,
		Got:  len(call.Args),
		Pos:  call.Pos,
	}
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	msg := fmt.Sprintf(
		"operator %q expects %s argument(s), got %d",
		e.Op, e.Want, e.Got,
	)

	if !e.Pos.IsZero() {
		msg += fmt.Sprintf(" (line %d, column %d)", e.Pos.Line, e.Pos.Col)
	}

	return msg
}

// LogValue implements slog.LogValuer.
func (e *ArityError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("op", e.Op),
		slog.String("want", e.Want),
		slog.Int("got", e.Got),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Col),
	)
}
