package strictcsv

import (
	"bufio"
	"fmt"
	"io"
)

// QuoteStyle controls when the writer wraps a field in quotes.
type QuoteStyle int

const (
	// QuoteMinimal quotes a field only when it contains a quote, the field
	// delimiter, or a line terminator byte.
	QuoteMinimal QuoteStyle = iota
	// QuoteAll quotes every field.
	QuoteAll
)

// String returns the string representation of QuoteStyle.
func (s QuoteStyle) String() string {
	switch s {
	case QuoteMinimal:
		return "minimal"
	case QuoteAll:
		return "all"
	default:
		return "unknown"
	}
}

// LineBreak selects the line terminator emitted after each row.
type LineBreak int

const (
	// LineBreakLF terminates rows with '\n'.
	LineBreakLF LineBreak = iota
	// LineBreakCRLF terminates rows with "\r\n".
	LineBreakCRLF
	// LineBreakCR terminates rows with '\r'.
	LineBreakCR
)

// String returns the string representation of LineBreak.
func (lb LineBreak) String() string {
	switch lb {
	case LineBreakLF:
		return "lf"
	case LineBreakCRLF:
		return "crlf"
	case LineBreakCR:
		return "cr"
	default:
		return "unknown"
	}
}

// bytes returns the terminator byte sequence for the line break.
func (lb LineBreak) bytes() []byte {
	switch lb {
	case LineBreakCRLF:
		return []byte{crChar, lfChar}
	case LineBreakCR:
		return []byte{crChar}
	default:
		return []byte{lfChar}
	}
}

// Writer serializes rows as CSV. Its quoting policy is the inverse of the
// Parser's grammar: any row sequence it emits parses back to the same rows,
// including the distinction between a zero-field row (blank line) and a row
// holding one empty field (a literal "").
//
// Output is buffered; call Flush after the last row. A Writer is not safe
// for concurrent use.
type Writer struct {
	dst       *bufio.Writer
	delim     byte
	style     QuoteStyle
	lineBreak LineBreak
}

// NewWriter returns a Writer with the default configuration: ',' delimiter,
// minimal quoting, LF line breaks.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		dst:       bufio.NewWriter(w),
		delim:     defaultDelimiter,
		style:     QuoteMinimal,
		lineBreak: LineBreakLF,
	}
}

// NewWriterWithOptions returns a Writer with the given configuration. Each
// option is validated: the delimiter must not be '\r', '\n', or '"', and the
// quote style and line break must be known values.
func NewWriterWithOptions(w io.Writer, delim byte, style QuoteStyle, lineBreak LineBreak) (*Writer, error) {
	if !validFieldDelimiter(delim) {
		return nil, ErrInvalidFieldDelimiter
	}
	if style != QuoteMinimal && style != QuoteAll {
		return nil, ErrInvalidQuoteStyle
	}
	if lineBreak != LineBreakLF && lineBreak != LineBreakCRLF && lineBreak != LineBreakCR {
		return nil, ErrInvalidLineBreak
	}
	return &Writer{
		dst:       bufio.NewWriter(w),
		delim:     delim,
		style:     style,
		lineBreak: lineBreak,
	}, nil
}

// WriteRow serializes one row followed by the configured line terminator.
//
// A row with zero fields is written as a bare line terminator. A row whose
// single field is the empty string is written as the two bytes "" so that
// re-parsing recovers one empty field rather than an empty row.
func (w *Writer) WriteRow(row *Row) error {
	return w.WriteFields(row.fields)
}

// WriteFields serializes fields as one row. See WriteRow.
func (w *Writer) WriteFields(fields []string) error {
	switch {
	case len(fields) == 0:
		// Blank line.
	case len(fields) == 1 && fields[0] == "":
		if _, err := w.dst.WriteString(`""`); err != nil {
			return w.ioError(err)
		}
	default:
		for i, field := range fields {
			if i > 0 {
				if err := w.dst.WriteByte(w.delim); err != nil {
					return w.ioError(err)
				}
			}
			if err := w.writeField(field); err != nil {
				return err
			}
		}
	}

	if _, err := w.dst.Write(w.lineBreak.bytes()); err != nil {
		return w.ioError(err)
	}
	return nil
}

// WriteAll writes multiple rows, stopping at the first error, and flushes.
func (w *Writer) WriteAll(rows [][]string) error {
	for _, fields := range rows {
		if err := w.WriteFields(fields); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.dst.Flush(); err != nil {
		return w.ioError(err)
	}
	return nil
}

// writeField emits one field, quoting per the configured style and doubling
// embedded quotes.
func (w *Writer) writeField(field string) error {
	needQuote := w.style == QuoteAll
	if !needQuote {
		for i := 0; i < len(field); i++ {
			switch field[i] {
			case quoteChar, crChar, lfChar, w.delim:
				needQuote = true
			}
			if needQuote {
				break
			}
		}
	}

	if !needQuote {
		if _, err := w.dst.WriteString(field); err != nil {
			return w.ioError(err)
		}
		return nil
	}

	if err := w.dst.WriteByte(quoteChar); err != nil {
		return w.ioError(err)
	}
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c == quoteChar {
			if err := w.dst.WriteByte(quoteChar); err != nil {
				return w.ioError(err)
			}
		}
		if err := w.dst.WriteByte(c); err != nil {
			return w.ioError(err)
		}
	}
	if err := w.dst.WriteByte(quoteChar); err != nil {
		return w.ioError(err)
	}
	return nil
}

func (w *Writer) ioError(err error) error {
	return fmt.Errorf("strictcsv: write failed: %w", err)
}
