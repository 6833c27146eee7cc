package strictcsv

import (
	"bufio"
	"fmt"
	"io"
)

// Framing bytes. The quote character and line terminators are fixed by the
// grammar; only the field delimiter is configurable.
const (
	quoteChar        = '"'
	crChar           = '\r'
	lfChar           = '\n'
	defaultDelimiter = ','
)

// validFieldDelimiter reports whether c may serve as a field delimiter.
func validFieldDelimiter(c byte) bool {
	return c != crChar && c != lfChar && c != quoteChar
}

// parser states. quoted is latched separately and is always false in stStart.
const (
	stStart   = iota // between fields, including at row start
	stInField        // inside a field body
)

// Parser reads CSV rows from a byte stream. It is driven by a two-state
// finite automaton with one byte of lookahead and accepts LF, CR, and CRLF
// line terminators interchangeably.
//
// A Parser is not safe for concurrent use. After NextRow returns a non-EOF
// error, the stream position is unspecified and the Parser should be
// discarded.
type Parser struct {
	src   *bufio.Reader
	delim byte

	// MaxFieldSize caps the decoded size of a single field in bytes.
	// Zero means no limit. A field exceeding the cap fails with
	// ErrOutOfMemory before further buffer growth.
	MaxFieldSize int

	buf    []byte // current field accumulator, reused across rows
	line   int
	column int
	done   bool
}

// NewParser returns a Parser reading from r with the default ',' delimiter.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		src:   bufio.NewReader(r),
		delim: defaultDelimiter,
		buf:   make([]byte, 0, 256),
		line:  1,
	}
}

// NewParserWithDelimiter returns a Parser using the given field delimiter.
// The delimiter must not be '\r', '\n', or '"'.
func NewParserWithDelimiter(r io.Reader, delim byte) (*Parser, error) {
	if !validFieldDelimiter(delim) {
		return nil, ErrInvalidFieldDelimiter
	}
	p := NewParser(r)
	p.delim = delim
	return p, nil
}

// NextRow parses and returns the next row. The three outcomes are statically
// separable: a row with a nil error, a nil row with io.EOF when the input is
// exhausted, or a nil row with a non-EOF error describing the failure.
//
// An empty line yields a row with zero fields; a line containing exactly ""
// yields a row with one empty field.
func (p *Parser) NextRow() (*Row, error) {
	if p.done {
		return nil, io.EOF
	}

	row := NewRow()
	p.buf = p.buf[:0]
	state := stStart
	quoted := false

	for {
		c, eof, err := p.readByte()
		if err != nil {
			return nil, err
		}
		if !eof {
			p.column++
		}

		if state == stStart {
			switch {
			case eof:
				p.done = true
				if row.Len() > 0 {
					// A delimiter preceded this EOF, so the row still owes
					// a trailing empty field.
					p.closeField(row)
					return row, nil
				}
				return nil, io.EOF
			case c == quoteChar:
				quoted = true
				state = stInField
			case c == p.delim:
				p.closeField(row)
			case c == crChar || c == lfChar:
				if err := p.consumeLineEnd(c); err != nil {
					return nil, err
				}
				if row.Len() > 0 {
					p.closeField(row)
				}
				p.endLine()
				return row, nil
			default:
				if err := p.putc(c); err != nil {
					return nil, err
				}
				state = stInField
			}
			continue
		}

		// stInField
		switch {
		case eof:
			p.done = true
			if quoted {
				return nil, p.parseError(ErrUnclosedQuote)
			}
			p.closeField(row)
			return row, nil
		case c == quoteChar:
			if !quoted {
				return nil, p.parseError(ErrBareQuote)
			}
			// One byte of lookahead decides between an escaped quote, the
			// end of the field, the end of the row, and a format error.
			la, laEOF, err := p.readByte()
			if err != nil {
				return nil, err
			}
			if laEOF {
				return nil, p.parseError(ErrQuoteTermination)
			}
			p.column++
			switch {
			case la == quoteChar:
				if err := p.putc(quoteChar); err != nil {
					return nil, err
				}
			case la == p.delim:
				p.closeField(row)
				state = stStart
				quoted = false
			case la == crChar || la == lfChar:
				if err := p.consumeLineEnd(la); err != nil {
					return nil, err
				}
				p.closeField(row)
				p.endLine()
				return row, nil
			default:
				return nil, p.parseError(ErrQuoteTermination)
			}
		case c == crChar || c == lfChar:
			if quoted {
				// Inside quotes, line terminators are field content.
				if err := p.putc(c); err != nil {
					return nil, err
				}
				if c == lfChar {
					p.line++
					p.column = 0
				}
			} else {
				if err := p.consumeLineEnd(c); err != nil {
					return nil, err
				}
				p.closeField(row)
				p.endLine()
				return row, nil
			}
		case c == p.delim:
			if quoted {
				if err := p.putc(c); err != nil {
					return nil, err
				}
			} else {
				p.closeField(row)
				state = stStart
				quoted = false
			}
		default:
			if err := p.putc(c); err != nil {
				return nil, err
			}
		}
	}
}

// ReadAll exhausts the parser, collecting every remaining row's fields. It
// returns the rows accumulated so far together with the first error other
// than io.EOF.
func (p *Parser) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := p.NextRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row.Fields())
	}
}

// readByte reads one byte from the stream. The eof result distinguishes end
// of input from a read failure.
func (p *Parser) readByte() (c byte, eof bool, err error) {
	b, err := p.src.ReadByte()
	if err == io.EOF {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("strictcsv: read failed: %w", err)
	}
	return b, false, nil
}

// consumeLineEnd coalesces CRLF: after a CR terminator, a directly following
// LF belongs to the same line break and is consumed; any other byte is pushed
// back.
func (p *Parser) consumeLineEnd(c byte) error {
	if c != crChar {
		return nil
	}
	b, err := p.src.ReadByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("strictcsv: read failed: %w", err)
	}
	if b == lfChar {
		p.column++
		return nil
	}
	return p.src.UnreadByte()
}

// putc appends one decoded byte to the current field buffer.
func (p *Parser) putc(c byte) error {
	if p.MaxFieldSize > 0 && len(p.buf) >= p.MaxFieldSize {
		return ErrOutOfMemory
	}
	p.buf = append(p.buf, c)
	return nil
}

// closeField appends the buffered field content to row and resets the buffer.
func (p *Parser) closeField(row *Row) {
	row.Append(string(p.buf))
	p.buf = p.buf[:0]
}

func (p *Parser) endLine() {
	p.line++
	p.column = 0
}

func (p *Parser) parseError(err error) error {
	return &ParseError{Line: p.line, Column: p.column, Err: err}
}
