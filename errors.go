package strictcsv

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec. Match them with errors.Is; the format
// violations additionally unwrap to ErrInvalidFormat.
var (
	// ErrOutOfMemory indicates an internal capacity limit was exceeded.
	// It is a pre-allocated value so that reporting it never allocates.
	ErrOutOfMemory = errors.New("strictcsv: out of memory")

	// ErrInvalidFieldDelimiter is returned when a parser or writer is
	// constructed with a delimiter of '\r', '\n', or '"'.
	ErrInvalidFieldDelimiter = errors.New("strictcsv: invalid field delimiter")

	// ErrInvalidQuoteStyle is returned when a writer is constructed with an
	// unknown quote style.
	ErrInvalidQuoteStyle = errors.New("strictcsv: invalid quote style")

	// ErrInvalidLineBreak is returned when a writer is constructed with an
	// unknown line break.
	ErrInvalidLineBreak = errors.New("strictcsv: invalid line break")

	// ErrInvalidFormat indicates a structural violation in the input. All
	// parse-time format errors wrap this sentinel.
	ErrInvalidFormat = errors.New("strictcsv: invalid format")

	// ErrBareQuote is returned when a quote appears inside an unquoted field.
	ErrBareQuote = fmt.Errorf("%w: quote in unquoted field must be quoted", ErrInvalidFormat)

	// ErrQuoteTermination is returned when a closing quote is followed by
	// anything other than the field delimiter or a line terminator.
	ErrQuoteTermination = fmt.Errorf("%w: closing quote must be followed by delimiter or line terminator", ErrInvalidFormat)

	// ErrUnclosedQuote is returned when the input ends inside a quoted field.
	ErrUnclosedQuote = fmt.Errorf("%w: unclosed quote", ErrInvalidFormat)
)

// ParseError reports a parse failure together with the position where it was
// detected. Line counts logical input lines starting at 1; Column counts
// bytes from the start of the line starting at 1.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("strictcsv: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Is.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
