package tokenizer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidNumber       = errors.New("invalid number literal")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	LINE_COMMENT  // -- line comment
	BLOCK_COMMENT // --[[ block comment --]]

	IDENTIFIER
	NUMBER // numeric literals (decimal, hex, binary)
	STRING // quoted string literals

	// Keywords
	AND
	BREAK
	DO
	ELSE
	ELSEIF
	END
	FALSE
	FOR
	FUNCTION
	GLOBAL
	GOTO
	IF
	IN
	LOCAL
	NIL
	NOT
	OR
	REPEAT
	RETURN
	THEN
	TRUE
	UNTIL
	WHILE
	AS
	IS

	// Operators and punctuation
	PLUS          // +
	MINUS         // -
	MULTIPLY      // *
	DIVIDE        // /
	FLOOR_DIVIDE  // //
	MODULO        // %
	POWER         // ^
	LENGTH        // #
	CONCAT        // ..
	ELLIPSIS      // ...
	ASSIGN        // =
	EQUAL         // ==
	NOT_EQUAL     // ~=
	LESS_THAN     // <
	LESS_EQUAL    // <=
	GREATER_THAN  // >
	GREATER_EQUAL // >=
	SHIFT_LEFT    // <<
	SHIFT_RIGHT   // >>
	OPEN_PAREN    // (
	CLOSE_PAREN   // )
	OPEN_BRACE    // {
	CLOSE_BRACE   // }
	OPEN_BRACKET  // [
	CLOSE_BRACKET // ]
	COMMA         // ,
	SEMICOLON     // ;
	COLON         // :
	DOUBLE_COLON  // ::
	DOT           // .
	QUESTION      // ?
	PIPE          // |
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case AND:
		return "AND"
	case BREAK:
		return "BREAK"
	case DO:
		return "DO"
	case ELSE:
		return "ELSE"
	case ELSEIF:
		return "ELSEIF"
	case END:
		return "END"
	case FALSE:
		return "FALSE"
	case FOR:
		return "FOR"
	case FUNCTION:
		return "FUNCTION"
	case GLOBAL:
		return "GLOBAL"
	case GOTO:
		return "GOTO"
	case IF:
		return "IF"
	case IN:
		return "IN"
	case LOCAL:
		return "LOCAL"
	case NIL:
		return "NIL"
	case NOT:
		return "NOT"
	case OR:
		return "OR"
	case REPEAT:
		return "REPEAT"
	case RETURN:
		return "RETURN"
	case THEN:
		return "THEN"
	case TRUE:
		return "TRUE"
	case UNTIL:
		return "UNTIL"
	case WHILE:
		return "WHILE"
	case AS:
		return "AS"
	case IS:
		return "IS"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case FLOOR_DIVIDE:
		return "FLOOR_DIVIDE"
	case MODULO:
		return "MODULO"
	case POWER:
		return "POWER"
	case LENGTH:
		return "LENGTH"
	case CONCAT:
		return "CONCAT"
	case ELLIPSIS:
		return "ELLIPSIS"
	case ASSIGN:
		return "ASSIGN"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_THAN:
		return "GREATER_THAN"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case SHIFT_LEFT:
		return "SHIFT_LEFT"
	case SHIFT_RIGHT:
		return "SHIFT_RIGHT"
	case OPEN_PAREN:
		return "OPEN_PAREN"
	case CLOSE_PAREN:
		return "CLOSE_PAREN"
	case OPEN_BRACE:
		return "OPEN_BRACE"
	case CLOSE_BRACE:
		return "CLOSE_BRACE"
	case OPEN_BRACKET:
		return "OPEN_BRACKET"
	case CLOSE_BRACKET:
		return "CLOSE_BRACKET"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case COLON:
		return "COLON"
	case DOUBLE_COLON:
		return "DOUBLE_COLON"
	case DOT:
		return "DOT"
	case QUESTION:
		return "QUESTION"
	case PIPE:
		return "PIPE"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int // 0-based byte offset
}

// Span covers a source region from Start up to (but not including) End.
type Span struct {
	Start Position
	End   Position
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string   // raw lexeme as it appears in the source
	Position Position // start of the lexeme
	End      Position // just past the last byte of the lexeme

	// Decoded literal payloads
	Text      string          // STRING: contents with escapes expanded
	Num       decimal.Decimal // NUMBER: exact decoded value
	IsInteger bool            // NUMBER: literal has no fraction and no exponent marker
}

// Span returns the source region the token covers.
func (t Token) Span() Span {
	return Span{Start: t.Position, End: t.End}
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// LexError is a lexical error with the position it occurred at.
// It wraps one of the sentinel errors above, so errors.Is works on it.
type LexError struct {
	Err    error
	Pos    Position
	Detail string
}

func (e *LexError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at line %d, column %d", e.Err.Error(), e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s at line %d, column %d", e.Err.Error(), e.Detail, e.Pos.Line, e.Pos.Column)
}

func (e *LexError) Unwrap() error {
	return e.Err
}
