package strictcsv

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_NextRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "simple row",
			input: "a,b,c\n",
			want:  [][]string{{"a", "b", "c"}},
		},
		{
			name:  "empty middle field",
			input: "a,,c\n",
			want:  [][]string{{"a", "", "c"}},
		},
		{
			name:  "empty line is zero-field row",
			input: "\n",
			want:  [][]string{{}},
		},
		{
			name:  "quoted empty string is one empty field",
			input: "\"\"\n",
			want:  [][]string{{""}},
		},
		{
			name:  "escaped quote only",
			input: "\"\"\"\"\n",
			want:  [][]string{{"\""}},
		},
		{
			name:  "quoted delimiter and newline",
			input: "\"a,b\",\"c\nd\"\n",
			want:  [][]string{{"a,b", "c\nd"}},
		},
		{
			name:  "mixed line terminators",
			input: "a\rb\r\nc\nd",
			want:  [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
		},
		{
			name:  "trailing delimiter yields empty final field",
			input: "a,\n",
			want:  [][]string{{"a", ""}},
		},
		{
			name:  "trailing delimiter at EOF without terminator",
			input: "a,",
			want:  [][]string{{"a", ""}},
		},
		{
			name:  "last row without terminator",
			input: "a,b\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "quoted field with escaped quotes inside content",
			input: "\"say \"\"hi\"\"\",x\n",
			want:  [][]string{{"say \"hi\"", "x"}},
		},
		{
			name:  "quoted field ends row at CRLF",
			input: "\"a\"\r\nb\n",
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "quoted field ends row at CR only",
			input: "\"a\"\rb\n",
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "quoted field with embedded CR",
			input: "\"a\rb\"\n",
			want:  [][]string{{"a\rb"}},
		},
		{
			name:  "blank lines between rows",
			input: "a\n\nb\n",
			want:  [][]string{{"a"}, {}, {"b"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "CRLF terminators",
			input: "a,b\r\nc,d\r\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "CR at end of input",
			input: "a\r",
			want:  [][]string{{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewParser(strings.NewReader(tt.input))
			got, err := p.ReadAll()
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i], "row %d", i)
			}

			// Exhausted parser keeps returning io.EOF.
			row, err := p.NextRow()
			assert.Nil(t, row)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestParser_FormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "unclosed quote at EOF",
			input:   "\"oops",
			wantErr: ErrUnclosedQuote,
		},
		{
			name:    "bare quote in unquoted field",
			input:   "ab\"cd\n",
			wantErr: ErrBareQuote,
		},
		{
			name:    "closing quote followed by content",
			input:   "\"a\"b\n",
			wantErr: ErrQuoteTermination,
		},
		{
			name:    "closing quote followed by EOF",
			input:   "\"a\"",
			wantErr: ErrQuoteTermination,
		},
		{
			name:    "unclosed quote with embedded newline",
			input:   "\"a\nb",
			wantErr: ErrUnclosedQuote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewParser(strings.NewReader(tt.input))
			row, err := p.NextRow()
			assert.Nil(t, row)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidFormat)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Positive(t, parseErr.Line)
			assert.Positive(t, parseErr.Column)
		})
	}
}

func TestParser_ParseErrorPosition(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("ok\nab\"cd\n"))

	row, err := p.NextRow()
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, row.Fields())

	_, err = p.NextRow()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, 3, parseErr.Column)
}

func TestNewParserWithDelimiter(t *testing.T) {
	t.Parallel()

	t.Run("custom delimiter", func(t *testing.T) {
		t.Parallel()

		p, err := NewParserWithDelimiter(strings.NewReader("a;b,c;d\n"), ';')
		require.NoError(t, err)

		got, err := p.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b,c", "d"}}, got)
	})

	t.Run("tab delimiter", func(t *testing.T) {
		t.Parallel()

		p, err := NewParserWithDelimiter(strings.NewReader("a\tb\tc\n"), '\t')
		require.NoError(t, err)

		got, err := p.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b", "c"}}, got)
	})

	t.Run("comma stays literal with custom delimiter", func(t *testing.T) {
		t.Parallel()

		p, err := NewParserWithDelimiter(strings.NewReader("1,5;2,5\n"), ';')
		require.NoError(t, err)

		got, err := p.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1,5", "2,5"}}, got)
	})

	t.Run("invalid delimiters rejected", func(t *testing.T) {
		t.Parallel()

		for _, delim := range []byte{'\r', '\n', '"'} {
			_, err := NewParserWithDelimiter(strings.NewReader(""), delim)
			assert.ErrorIs(t, err, ErrInvalidFieldDelimiter)
		}
	})
}

func TestParser_ByteTransparency(t *testing.T) {
	t.Parallel()

	// Every byte except the framing bytes must pass through verbatim.
	var raw []byte
	for b := 0; b < 256; b++ {
		c := byte(b)
		if c == ',' || c == '\r' || c == '\n' || c == '"' {
			continue
		}
		raw = append(raw, c)
	}
	input := string(raw) + "\n"

	p := NewParser(strings.NewReader(input))
	got, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	assert.Equal(t, string(raw), got[0][0])
}

func TestParser_IOError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("disk on fire")
	p := NewParser(io.MultiReader(strings.NewReader("a,b"), &failingReader{err: readErr}))

	row, err := p.NextRow()
	assert.Nil(t, row)
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.NotErrorIs(t, err, ErrInvalidFormat)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestParser_MaxFieldSize(t *testing.T) {
	t.Parallel()

	t.Run("field within limit", func(t *testing.T) {
		t.Parallel()

		p := NewParser(strings.NewReader("abcd\n"))
		p.MaxFieldSize = 4

		got, err := p.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"abcd"}}, got)
	})

	t.Run("field over limit", func(t *testing.T) {
		t.Parallel()

		p := NewParser(strings.NewReader("abcde\n"))
		p.MaxFieldSize = 4

		_, err := p.NextRow()
		assert.ErrorIs(t, err, ErrOutOfMemory)
	})
}

func TestParser_RowsAreIndependent(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("a,b\nc,d\n"))

	first, err := p.NextRow()
	require.NoError(t, err)
	second, err := p.NextRow()
	require.NoError(t, err)

	// The second parse must not clobber the first row's fields.
	assert.Equal(t, []string{"a", "b"}, first.Fields())
	assert.Equal(t, []string{"c", "d"}, second.Fields())
}

// failingReader returns its error on every Read.
type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}
