package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/tokenizer"
	"github.com/tealwasm/tlfront/typeresolver"
)

func TestPrintDiagnostic(t *testing.T) {
	source := "local record Point\n   x: number\nend\nlocal p: Pont\n"
	diag := typeresolver.Diagnostic{
		Severity: typeresolver.SeverityError,
		Kind:     typeresolver.ErrUnknownType,
		Message:  `unknown type "Pont"`,
		Span: tokenizer.Span{
			Start: tokenizer.Position{Line: 4, Column: 10},
			End:   tokenizer.Position{Line: 4, Column: 14},
		},
	}

	var buf bytes.Buffer

	printDiagnostic(&buf, "point.tl", source, diag)

	out := buf.String()
	assert.Contains(t, out, `point.tl:4:10: ERROR: unknown type "Pont"`)
	assert.Contains(t, out, "    4 | local p: Pont")
	assert.Contains(t, out, "      |          ^^^^")
}

func TestPrintDiagnosticWarning(t *testing.T) {
	source := "local record Circle is Shape, Shape\nend\n"
	diag := typeresolver.Diagnostic{
		Severity: typeresolver.SeverityWarning,
		Kind:     typeresolver.ErrDuplicateDecl,
		Message:  `interface "Shape" repeated in is list`,
		Span: tokenizer.Span{
			Start: tokenizer.Position{Line: 1, Column: 31},
			End:   tokenizer.Position{Line: 1, Column: 36},
		},
	}

	var buf bytes.Buffer

	printDiagnostic(&buf, "circle.tl", source, diag)

	out := buf.String()
	assert.Contains(t, out, "circle.tl:1:31: WARN:")
	assert.Contains(t, out, "^^^^^")
}

func TestPrintDiagnosticWideRunes(t *testing.T) {
	// East Asian wide runes occupy two terminal cells; the caret pad
	// has to account for that. The span covers "ok", 21 bytes in but
	// eighteen cells from the left margin.
	source := "local s = \"日本語 ok\"\n"
	diag := typeresolver.Diagnostic{
		Severity: typeresolver.SeverityError,
		Kind:     typeresolver.ErrUnknownType,
		Message:  `unknown type "ok"`,
		Span: tokenizer.Span{
			Start: tokenizer.Position{Line: 1, Column: 22},
			End:   tokenizer.Position{Line: 1, Column: 24},
		},
	}

	var buf bytes.Buffer

	printDiagnostic(&buf, "unit.tl", source, diag)
	assert.Contains(t, buf.String(), "| "+strings.Repeat(" ", 18)+"^^")
}

func TestPrintUnitErrorSyntax(t *testing.T) {
	source := "local (\n"

	_, err := parser.Parse(source)
	assert.Error(t, err)

	var buf bytes.Buffer

	printUnitError(&buf, "broken.tl", source, err)

	out := buf.String()
	assert.Contains(t, out, "broken.tl:1:")
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, "    1 | local (")
	// The header location stands alone; the message must not repeat it.
	assert.NotContains(t, out, "at line")
}

func TestPrintUnitErrorPlain(t *testing.T) {
	var buf bytes.Buffer

	printUnitError(&buf, "unit.tl", "", errors.New("dependency cycle involving unit \"a\""))

	out := buf.String()
	assert.Contains(t, out, "unit.tl: ERROR: dependency cycle")
}

func TestSyntaxMessageRendering(t *testing.T) {
	tests := []struct {
		name string
		err  *parser.SyntaxError
		want string
	}{
		{
			name: "explicit message",
			err:  &parser.SyntaxError{Message: "break outside of loop"},
			want: "break outside of loop",
		},
		{
			name: "end of input",
			err:  &parser.SyntaxError{},
			want: "unexpected end of input",
		},
		{
			name: "expected list",
			err:  &parser.SyntaxError{Got: "(", Expected: []string{"name"}},
			want: "unexpected '(', expected name",
		},
		{
			name: "multiple expectations",
			err:  &parser.SyntaxError{Got: "end", Expected: []string{"expression", "name"}},
			want: "unexpected 'end', expected expression or name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, syntaxMessage(tt.err))
		})
	}
}

func TestLexMessageRendering(t *testing.T) {
	plain := &tokenizer.LexError{Err: tokenizer.ErrUnterminatedString}
	assert.Equal(t, "unterminated string literal", lexMessage(plain))

	detailed := &tokenizer.LexError{Err: tokenizer.ErrInvalidEscape, Detail: `\q`}
	assert.Equal(t, `invalid escape sequence: \q`, lexMessage(detailed))
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"日本語", 6},
		{"Ａ", 2},
		{"aあb", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, displayWidth(tt.input), "displayWidth(%q)", tt.input)
	}
}
