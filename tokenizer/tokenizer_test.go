package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	src := "local x = 10"
	tokenizer := NewTealTokenizer(src)

	expectedTypes := []TokenType{
		LOCAL, WHITESPACE, IDENTIFIER, WHITESPACE, ASSIGN, WHITESPACE, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorWithOptions(t *testing.T) {
	src := "local x = 10 -- counter\nx = x + 1"
	tokenizer := NewTealTokenizer(src, TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	})

	expectedTypes := []TokenType{
		LOCAL, IDENTIFIER, ASSIGN, NUMBER,
		IDENTIFIER, ASSIGN, IDENTIFIER, PLUS, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestWhitespaceVariants(t *testing.T) {
	tokens, err := NewTealTokenizer("a \t\v\f\r\nb").AllTokens()
	assert.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}

	assert.Equal(t, []TokenType{IDENTIFIER, WHITESPACE, IDENTIFIER, EOF}, types)
	assert.Equal(t, " \t\v\f\r\n", tokens[1].Value)
}

func TestIteratorEarlyTermination(t *testing.T) {
	src := "local x = 10 + 20"
	tokenizer := NewTealTokenizer(src)

	count := 0
	for _, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		count++

		if count >= 5 {
			break
		}
	}

	assert.Equal(t, 5, count)
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "keywords",
			input:    "if then else elseif end while repeat until for in do",
			expected: []TokenType{IF, THEN, ELSE, ELSEIF, END, WHILE, REPEAT, UNTIL, FOR, IN, DO, EOF},
		},
		{
			name:     "declaration keywords",
			input:    "local global function return break goto",
			expected: []TokenType{LOCAL, GLOBAL, FUNCTION, RETURN, BREAK, GOTO, EOF},
		},
		{
			name:     "literal keywords",
			input:    "nil true false",
			expected: []TokenType{NIL, TRUE, FALSE, EOF},
		},
		{
			name:     "logical and cast keywords",
			input:    "and or not as is",
			expected: []TokenType{AND, OR, NOT, AS, IS, EOF},
		},
		{
			name:     "contextual words stay identifiers",
			input:    "record interface enum type where metamethod userdata",
			expected: []TokenType{IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, EOF},
		},
		{
			name:     "arithmetic operators",
			input:    "+ - * / // % ^ #",
			expected: []TokenType{PLUS, MINUS, MULTIPLY, DIVIDE, FLOOR_DIVIDE, MODULO, POWER, LENGTH, EOF},
		},
		{
			name:     "comparison operators",
			input:    "== ~= < <= > >=",
			expected: []TokenType{EQUAL, NOT_EQUAL, LESS_THAN, LESS_EQUAL, GREATER_THAN, GREATER_EQUAL, EOF},
		},
		{
			name:     "shift and concat",
			input:    "<< >> ..",
			expected: []TokenType{SHIFT_LEFT, SHIFT_RIGHT, CONCAT, EOF},
		},
		{
			name:     "punctuation",
			input:    "( ) { } [ ] , ; : :: . ... ? | =",
			expected: []TokenType{OPEN_PAREN, CLOSE_PAREN, OPEN_BRACE, CLOSE_BRACE, OPEN_BRACKET, CLOSE_BRACKET, COMMA, SEMICOLON, COLON, DOUBLE_COLON, DOT, ELLIPSIS, QUESTION, PIPE, ASSIGN, EOF},
		},
		{
			name:     "identifiers with digits and underscores",
			input:    "foo _bar baz2 __index",
			expected: []TokenType{IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)

			actual := make([]TokenType, 0, len(tokens))
			for _, token := range tokens {
				actual = append(actual, token.Type)
			}

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestLongestMatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "number dot dot number",
			input:    "1..2",
			expected: []TokenType{NUMBER, CONCAT, NUMBER, EOF},
		},
		{
			name:     "leading dot float",
			input:    ".5",
			expected: []TokenType{NUMBER, EOF},
		},
		{
			name:     "ellipsis before digit",
			input:    "...5",
			expected: []TokenType{ELLIPSIS, NUMBER, EOF},
		},
		{
			name:     "shift left then assign",
			input:    "x<<=1",
			expected: []TokenType{IDENTIFIER, SHIFT_LEFT, ASSIGN, NUMBER, EOF},
		},
		{
			name:     "double colon then colon",
			input:    ":::",
			expected: []TokenType{DOUBLE_COLON, COLON, EOF},
		},
		{
			name:     "concat between identifiers",
			input:    "a..b",
			expected: []TokenType{IDENTIFIER, CONCAT, IDENTIFIER, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)

			actual := make([]TokenType, 0, len(tokens))
			for _, token := range tokens {
				actual = append(actual, token.Type)
			}

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
	}{
		{name: "double quoted", input: `"hello"`, text: "hello"},
		{name: "single quoted", input: `'hello'`, text: "hello"},
		{name: "empty", input: `""`, text: ""},
		{name: "newline escape", input: `"a\nb"`, text: "a\nb"},
		{name: "carriage return escape", input: `"a\rb"`, text: "a\rb"},
		{name: "tab escape", input: `"a\tb"`, text: "a\tb"},
		{name: "backslash escape", input: `"a\\b"`, text: `a\b`},
		{name: "nul escape", input: `"a\0b"`, text: "a\x00b"},
		{name: "double quote escape", input: `"a\"b"`, text: `a"b`},
		{name: "single quote escape", input: `'a\'b'`, text: "a'b"},
		{name: "hex escape", input: `"\x41"`, text: "A"},
		{name: "hex escape lowercase", input: `"\x6a"`, text: "j"},
		{name: "unicode escape", input: `"\u{1F600}"`, text: "\U0001F600"},
		{name: "unicode escape short", input: `"\u{41}"`, text: "A"},
		{name: "other quote unescaped", input: `"it's"`, text: "it's"},
		{name: "utf8 passthrough", input: `"héllo"`, text: "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, 2, len(tokens))
			assert.Equal(t, STRING, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Value)
			assert.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{name: "unterminated", input: `"abc`, sentinel: ErrUnterminatedString},
		{name: "unterminated single", input: `'abc`, sentinel: ErrUnterminatedString},
		{name: "newline before close", input: "\"abc\ndef\"", sentinel: ErrUnterminatedString},
		{name: "unknown escape", input: `"a\qb"`, sentinel: ErrInvalidEscape},
		{name: "bell escape not supported", input: `"\a"`, sentinel: ErrInvalidEscape},
		{name: "short hex escape", input: `"\x4"`, sentinel: ErrInvalidEscape},
		{name: "unicode without braces", input: `"\u41"`, sentinel: ErrInvalidEscape},
		{name: "unicode empty braces", input: `"\u{}"`, sentinel: ErrInvalidEscape},
		{name: "unicode too many digits", input: `"\u{1234567}"`, sentinel: ErrInvalidEscape},
		{name: "unicode out of range", input: `"\u{110000}"`, sentinel: ErrInvalidEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))

			var lexErr *LexError
			assert.True(t, errors.As(err, &lexErr))
		})
	}
}

func TestUnterminatedStringReportsOpenQuote(t *testing.T) {
	_, err := Tokenize("local s = \"abc")

	var lexErr *LexError
	assert.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 1, lexErr.Pos.Line)
	assert.Equal(t, 11, lexErr.Pos.Column)
}

func TestComments(t *testing.T) {
	t.Run("line comment", func(t *testing.T) {
		tokens, err := NewTealTokenizer("x -- rest of line\ny").AllTokens()
		assert.NoError(t, err)

		types := make([]TokenType, 0, len(tokens))
		for _, token := range tokens {
			types = append(types, token.Type)
		}
		assert.Equal(t, []TokenType{IDENTIFIER, WHITESPACE, LINE_COMMENT, WHITESPACE, IDENTIFIER, EOF}, types)
		assert.Equal(t, "-- rest of line", tokens[2].Value)
	})

	t.Run("block comment", func(t *testing.T) {
		tokens, err := NewTealTokenizer("x --[[ multi\nline --]] y").AllTokens()
		assert.NoError(t, err)

		types := make([]TokenType, 0, len(tokens))
		for _, token := range tokens {
			types = append(types, token.Type)
		}
		assert.Equal(t, []TokenType{IDENTIFIER, WHITESPACE, BLOCK_COMMENT, WHITESPACE, IDENTIFIER, EOF}, types)
		assert.Equal(t, "--[[ multi\nline --]]", tokens[2].Value)
	})

	t.Run("block comment is non greedy", func(t *testing.T) {
		tokens, err := Tokenize("--[[ first --]] x --[[ second --]]")
		assert.NoError(t, err)
		assert.Equal(t, 2, len(tokens))
		assert.Equal(t, IDENTIFIER, tokens[0].Type)
	})

	t.Run("block comment does not nest", func(t *testing.T) {
		// the inner opener is plain comment text, so the first --]] closes it
		tokens, err := Tokenize("--[[ a --[[ b --]] x")
		assert.NoError(t, err)
		assert.Equal(t, 2, len(tokens))
		assert.Equal(t, "x", tokens[0].Value)
	})

	t.Run("unterminated block comment", func(t *testing.T) {
		_, err := Tokenize("--[[ never closed")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnterminatedComment))
	})

	t.Run("dashes inside block comment", func(t *testing.T) {
		tokens, err := Tokenize("--[[ a -- b ---]] x")
		assert.NoError(t, err)
		assert.Equal(t, 2, len(tokens))
		assert.Equal(t, "x", tokens[0].Value)
	})
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("local x\nx = 1")
	assert.NoError(t, err)

	// local
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 1, Column: 6, Offset: 5}, tokens[0].End)
	// x on line 1
	assert.Equal(t, Position{Line: 1, Column: 7, Offset: 6}, tokens[1].Position)
	// x on line 2
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 8}, tokens[2].Position)
	// =
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 10}, tokens[3].Position)
	// 1
	assert.Equal(t, Position{Line: 2, Column: 5, Offset: 12}, tokens[4].Position)
	assert.Equal(t, Position{Line: 2, Column: 6, Offset: 13}, tokens[4].End)
}

func TestUnexpectedCharacter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "at sign", input: "local @ = 1"},
		{name: "bare tilde", input: "x = ~y"},
		{name: "backtick", input: "`x`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedCharacter))
		})
	}
}
