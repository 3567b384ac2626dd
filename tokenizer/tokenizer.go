package tokenizer

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// TealTokenizer is a tokenizer that returns an iterator
type TealTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
}

// NewTealTokenizer creates a new TealTokenizer
func NewTealTokenizer(input string, options ...TokenizerOptions) *TealTokenizer {
	opts := TokenizerOptions{
		SkipWhitespace: false,
		SkipComments:   false,
	}
	if len(options) > 0 {
		opts = options[0]
	}

	return &TealTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. The iterator ends after yielding
// either the EOF token or the first lexical error.
func (t *TealTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 1,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice. On a lexical error it returns the
// tokens scanned so far together with the error.
func (t *TealTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Tokenize scans a whole source and returns parse-ready tokens with
// whitespace and comments already filtered out.
func Tokenize(src string) ([]Token, error) {
	return NewTealTokenizer(src, TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	}).AllTokens()
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int
	line     int
	column   int
	current  rune
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch t.current {
	case 0:
		return Token{Type: EOF, Position: t.pos(), End: t.pos()}, nil
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return t.readWhitespace(), nil
	case '(':
		return t.singleChar(OPEN_PAREN), nil
	case ')':
		return t.singleChar(CLOSE_PAREN), nil
	case '{':
		return t.singleChar(OPEN_BRACE), nil
	case '}':
		return t.singleChar(CLOSE_BRACE), nil
	case '[':
		return t.singleChar(OPEN_BRACKET), nil
	case ']':
		return t.singleChar(CLOSE_BRACKET), nil
	case ',':
		return t.singleChar(COMMA), nil
	case ';':
		return t.singleChar(SEMICOLON), nil
	case '+':
		return t.singleChar(PLUS), nil
	case '*':
		return t.singleChar(MULTIPLY), nil
	case '%':
		return t.singleChar(MODULO), nil
	case '^':
		return t.singleChar(POWER), nil
	case '#':
		return t.singleChar(LENGTH), nil
	case '?':
		return t.singleChar(QUESTION), nil
	case '|':
		return t.singleChar(PIPE), nil
	case '-':
		if t.peekChar() == '-' {
			return t.readComment()
		}
		return t.singleChar(MINUS), nil
	case '/':
		if t.peekChar() == '/' {
			return t.doubleChar(FLOOR_DIVIDE, "//"), nil
		}
		return t.singleChar(DIVIDE), nil
	case '=':
		if t.peekChar() == '=' {
			return t.doubleChar(EQUAL, "=="), nil
		}
		return t.singleChar(ASSIGN), nil
	case '~':
		if t.peekChar() == '=' {
			return t.doubleChar(NOT_EQUAL, "~="), nil
		}
		return Token{}, t.lexErr(ErrUnexpectedCharacter, t.pos(), "'~'")
	case '<':
		if t.peekChar() == '=' {
			return t.doubleChar(LESS_EQUAL, "<="), nil
		}
		if t.peekChar() == '<' {
			return t.doubleChar(SHIFT_LEFT, "<<"), nil
		}
		return t.singleChar(LESS_THAN), nil
	case '>':
		if t.peekChar() == '=' {
			return t.doubleChar(GREATER_EQUAL, ">="), nil
		}
		if t.peekChar() == '>' {
			return t.doubleChar(SHIFT_RIGHT, ">>"), nil
		}
		return t.singleChar(GREATER_THAN), nil
	case ':':
		if t.peekChar() == ':' {
			return t.doubleChar(DOUBLE_COLON, "::"), nil
		}
		return t.singleChar(COLON), nil
	case '.':
		if isDigit(t.peekChar()) {
			return t.readNumber()
		}
		return t.readDots(), nil
	case '\'', '"':
		return t.readString(t.current)
	default:
		if isIdentStart(t.current) {
			return t.readWord(), nil
		}
		if isDigit(t.current) {
			return t.readNumber()
		}
		return Token{}, t.lexErr(ErrUnexpectedCharacter, t.pos(), quoteRune(t.current))
	}
}

// readChar reads the next character. line and column always describe the
// position of the character currently in t.current.
func (t *tokenizer) readChar() {
	if t.current == '\n' {
		t.line++
		t.column = 1
	} else if t.current != 0 {
		t.column++
	}

	if t.position >= len(t.input) {
		t.current = 0
		t.position = len(t.input) + 1
		return
	}

	t.current = rune(t.input[t.position])
	t.position++
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}
	return rune(t.input[t.position])
}

// pos returns the position of the current character, which doubles as the
// exclusive end position of everything scanned before it.
func (t *tokenizer) pos() Position {
	return Position{
		Line:   t.line,
		Column: t.column,
		Offset: t.position - 1,
	}
}

func (t *tokenizer) tokenAt(tokenType TokenType, value string, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Position: start,
		End:      t.pos(),
	}
}

func (t *tokenizer) singleChar(tokenType TokenType) Token {
	start := t.pos()
	value := string(t.current)
	t.readChar()
	return t.tokenAt(tokenType, value, start)
}

func (t *tokenizer) doubleChar(tokenType TokenType, value string) Token {
	start := t.pos()
	t.readChar()
	t.readChar()
	return t.tokenAt(tokenType, value, start)
}

// readDots scans '.', '..' or '...'. The caller has already ruled out a
// leading-dot number.
func (t *tokenizer) readDots() Token {
	start := t.pos()
	t.readChar()
	if t.current != '.' {
		return t.tokenAt(DOT, ".", start)
	}
	t.readChar()
	if t.current != '.' {
		return t.tokenAt(CONCAT, "..", start)
	}
	t.readChar()
	return t.tokenAt(ELLIPSIS, "...", start)
}

// readWhitespace reads whitespace characters
func (t *tokenizer) readWhitespace() Token {
	var builder strings.Builder

	start := t.pos()
	for isWhitespace(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return t.tokenAt(WHITESPACE, builder.String(), start)
}

// readWord reads identifiers and keywords
func (t *tokenizer) readWord() Token {
	var builder strings.Builder

	start := t.pos()
	for isIdentPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	word := builder.String()

	return t.tokenAt(LookupIdent(word), word, start)
}

// readString reads a quoted string literal, decoding escape sequences into
// the token's Text field. Raw bytes between escapes are copied verbatim.
// The closing quote must appear on the same line as the opening one.
func (t *tokenizer) readString(delimiter rune) (Token, error) {
	var raw, text strings.Builder

	start := t.pos()
	raw.WriteRune(delimiter)
	t.readChar()

	for t.current != delimiter {
		if t.current == 0 || t.current == '\n' {
			return Token{}, t.lexErr(ErrUnterminatedString, start, "opened with "+quoteRune(delimiter))
		}
		if t.current != '\\' {
			raw.WriteByte(byte(t.current))
			text.WriteByte(byte(t.current))
			t.readChar()
			continue
		}

		escStart := t.pos()
		raw.WriteRune(t.current)
		t.readChar()

		switch t.current {
		case 'n':
			text.WriteByte('\n')
		case 'r':
			text.WriteByte('\r')
		case 't':
			text.WriteByte('\t')
		case '\\':
			text.WriteByte('\\')
		case '0':
			text.WriteByte(0)
		case '"':
			text.WriteByte('"')
		case '\'':
			text.WriteByte('\'')
		case 'x':
			raw.WriteRune(t.current)
			t.readChar()
			value := 0
			for i := 0; i < 2; i++ {
				digit, ok := hexDigitValue(t.current)
				if !ok {
					return Token{}, t.lexErr(ErrInvalidEscape, escStart, `\x needs two hex digits`)
				}
				value = value*16 + digit
				raw.WriteRune(t.current)
				t.readChar()
			}
			text.WriteByte(byte(value))
			continue
		case 'u':
			raw.WriteRune(t.current)
			t.readChar()
			if t.current != '{' {
				return Token{}, t.lexErr(ErrInvalidEscape, escStart, `\u needs a braced code point`)
			}
			raw.WriteRune(t.current)
			t.readChar()
			value := 0
			digits := 0
			for {
				digit, ok := hexDigitValue(t.current)
				if !ok {
					break
				}
				value = value*16 + digit
				digits++
				if digits > 6 {
					return Token{}, t.lexErr(ErrInvalidEscape, escStart, `\u accepts at most six hex digits`)
				}
				raw.WriteRune(t.current)
				t.readChar()
			}
			if digits == 0 || t.current != '}' {
				return Token{}, t.lexErr(ErrInvalidEscape, escStart, `\u needs a braced code point`)
			}
			if !utf8.ValidRune(rune(value)) {
				return Token{}, t.lexErr(ErrInvalidEscape, escStart, "code point out of range")
			}
			raw.WriteRune(t.current)
			t.readChar()
			text.WriteRune(rune(value))
			continue
		default:
			return Token{}, t.lexErr(ErrInvalidEscape, escStart, quoteRune(t.current))
		}

		raw.WriteRune(t.current)
		t.readChar()
	}

	raw.WriteRune(delimiter)
	t.readChar()

	token := t.tokenAt(STRING, raw.String(), start)
	token.Text = text.String()

	return token, nil
}

// readComment reads a '--' line comment or a '--[[ ... --]]' block comment.
// Block comments end at the first '--]]' and do not nest.
func (t *tokenizer) readComment() (Token, error) {
	var builder strings.Builder

	start := t.pos()
	builder.WriteRune(t.current)
	t.readChar()
	builder.WriteRune(t.current)
	t.readChar()

	if t.current == '[' && t.peekChar() == '[' {
		builder.WriteRune(t.current)
		t.readChar()
		builder.WriteRune(t.current)
		t.readChar()

		for !strings.HasSuffix(builder.String(), "--]]") {
			if t.current == 0 {
				return Token{}, t.lexErr(ErrUnterminatedComment, start, "")
			}
			builder.WriteByte(byte(t.current))
			t.readChar()
		}

		return t.tokenAt(BLOCK_COMMENT, builder.String(), start), nil
	}

	for t.current != 0 && t.current != '\n' {
		builder.WriteByte(byte(t.current))
		t.readChar()
	}

	return t.tokenAt(LINE_COMMENT, builder.String(), start), nil
}

func (t *tokenizer) lexErr(sentinel error, pos Position, detail string) error {
	return &LexError{Err: sentinel, Pos: pos, Detail: detail}
}

func isWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigitValue(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func quoteRune(c rune) string {
	if c == 0 {
		return "end of input"
	}
	return "'" + string(c) + "'"
}
