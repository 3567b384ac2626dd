package parser

import (
	"errors"
	"slices"
	"testing"

	"github.com/alecthomas/assert/v2"

	tok "github.com/tealwasm/tlfront/tokenizer"
)

func parseErr(t *testing.T, src string) *SyntaxError {
	t.Helper()
	_, err := Parse(src)
	assert.Error(t, err)
	var syn *SyntaxError
	assert.True(t, errors.As(err, &syn))
	return syn
}

// The parser reports the furthest position any alternative reached, with
// the alternatives that were viable there.
func TestFurthestFailureDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		column   int
		expected string
	}{
		{name: "missing initializer", src: "local x = ", line: 1, column: 11, expected: "expression"},
		{name: "missing then", src: "if x f() end", line: 1, column: 6, expected: "'then'"},
		{name: "unclosed while", src: "while true do f()", line: 1, column: 18, expected: "'end'"},
		{name: "statement after return", src: "return 1 x = 2", line: 1, column: 10, expected: "end of input"},
		{name: "unclosed table", src: "local t = {1, 2", line: 1, column: 16, expected: "'}'"},
		{name: "unclosed call", src: "f(", line: 1, column: 3, expected: "')'"},
		{name: "missing type after colon", src: "local x: = 1", line: 1, column: 10, expected: "type"},
		{name: "missing until condition", src: "repeat f() until", line: 1, column: 17, expected: "expression"},
		{name: "operator without operand", src: "local x = 1 +", line: 1, column: 14, expected: "expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syn := parseErr(t, tt.src)
			assert.Equal(t, tt.line, syn.Pos.Line)
			assert.Equal(t, tt.column, syn.Pos.Column)
			assert.True(t, slices.Contains(syn.Expected, tt.expected))
		})
	}
}

func TestSyntaxErrorRendering(t *testing.T) {
	t.Run("unexpected token", func(t *testing.T) {
		_, err := Parse("if x f() end")
		assert.Error(t, err)
		assert.Equal(t, "syntax error at line 1, column 6: unexpected 'f', expected 'then'", err.Error())
	})

	t.Run("end of input", func(t *testing.T) {
		_, err := Parse("local x = ")
		assert.Error(t, err)
		assert.Equal(t, "syntax error at line 1, column 11: unexpected end of input, expected expression", err.Error())
	})
}

func TestSyntaxErrorsWrapSentinel(t *testing.T) {
	_, err := Parse("if x f() end")
	assert.IsError(t, err, ErrInvalidSyntax)
}

func TestMultilinePositions(t *testing.T) {
	syn := parseErr(t, "local x = 1\nlocal y =\nlocal z = 3")
	assert.Equal(t, 3, syn.Pos.Line)
	assert.Equal(t, 1, syn.Pos.Column)
	assert.True(t, slices.Contains(syn.Expected, "expression"))
}

func TestAssignTargetErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "call result", src: "f() = 1"},
		{name: "method call result", src: "obj:get() = 1"},
		{name: "parenthesized name", src: "(x) = 1"},
		{name: "second target", src: "x, f() = 1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.IsError(t, err, ErrInvalidAssignTarget)
		})
	}
}

func TestIsOperandErrors(t *testing.T) {
	_, err := Parse("return x.y is integer")
	assert.IsError(t, err, ErrIsNeedsName)

	var syn *SyntaxError
	assert.True(t, errors.As(err, &syn))
	assert.Equal(t, 1, syn.Pos.Line)
	assert.Equal(t, 8, syn.Pos.Column)
}

func TestVarargPositionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "function literal", src: "function f(a, ..., b) end"},
		{name: "function type", src: "local x: function(...: string, integer)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.IsError(t, err, ErrVarargNotLast)
		})
	}
}

// A shape violation inside a speculative branch must not fall back to the
// plain-variable reading of the statement.
func TestCriticalErrorsSkipBacktracking(t *testing.T) {
	_, err := Parse("local record R x: function(...: string, integer) end")
	assert.IsError(t, err, ErrVarargNotLast)
}

func TestLexErrorsAbortParse(t *testing.T) {
	_, err := Parse(`local s = "abc`)
	assert.IsError(t, err, tok.ErrUnterminatedString)

	var lex *tok.LexError
	assert.True(t, errors.As(err, &lex))
	assert.Equal(t, 1, lex.Pos.Line)
	assert.Equal(t, 11, lex.Pos.Column)
}
