package parser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// Primitive token parsers. These match single tokens by type (or, for
// contextual keywords, by identifier value) and pass them through
// unchanged; rule-level parsers reduce them into AST nodes.
var (
	identifier = primitiveType("identifier", tok.IDENTIFIER)
	numberLit  = primitiveType("number", tok.NUMBER)
	stringLit  = primitiveType("string", tok.STRING)

	assign       = primitiveType("'='", tok.ASSIGN)
	comma        = primitiveType("','", tok.COMMA)
	semicolon    = primitiveType("';'", tok.SEMICOLON)
	colon        = primitiveType("':'", tok.COLON)
	doubleColon  = primitiveType("'::'", tok.DOUBLE_COLON)
	dot          = primitiveType("'.'", tok.DOT)
	ellipsis     = primitiveType("'...'", tok.ELLIPSIS)
	question     = primitiveType("'?'", tok.QUESTION)
	pipe         = primitiveType("'|'", tok.PIPE)
	lessThan     = primitiveType("'<'", tok.LESS_THAN)
	greaterThan  = primitiveType("'>'", tok.GREATER_THAN)
	openParen    = primitiveType("'('", tok.OPEN_PAREN)
	closeParen   = primitiveType("')'", tok.CLOSE_PAREN)
	openBrace    = primitiveType("'{'", tok.OPEN_BRACE)
	closeBrace   = primitiveType("'}'", tok.CLOSE_BRACE)
	openBracket  = primitiveType("'['", tok.OPEN_BRACKET)
	closeBracket = primitiveType("']'", tok.CLOSE_BRACKET)

	kwAnd      = primitiveType("'and'", tok.AND)
	kwBreak    = primitiveType("'break'", tok.BREAK)
	kwDo       = primitiveType("'do'", tok.DO)
	kwElse     = primitiveType("'else'", tok.ELSE)
	kwElseif   = primitiveType("'elseif'", tok.ELSEIF)
	kwEnd      = primitiveType("'end'", tok.END)
	kwFalse    = primitiveType("'false'", tok.FALSE)
	kwFor      = primitiveType("'for'", tok.FOR)
	kwFunction = primitiveType("'function'", tok.FUNCTION)
	kwGoto     = primitiveType("'goto'", tok.GOTO)
	kwIf       = primitiveType("'if'", tok.IF)
	kwIn       = primitiveType("'in'", tok.IN)
	kwNil      = primitiveType("'nil'", tok.NIL)
	kwNot      = primitiveType("'not'", tok.NOT)
	kwOr       = primitiveType("'or'", tok.OR)
	kwRepeat   = primitiveType("'repeat'", tok.REPEAT)
	kwReturn   = primitiveType("'return'", tok.RETURN)
	kwThen     = primitiveType("'then'", tok.THEN)
	kwTrue     = primitiveType("'true'", tok.TRUE)
	kwUntil    = primitiveType("'until'", tok.UNTIL)
	kwWhile    = primitiveType("'while'", tok.WHILE)
	kwAs       = primitiveType("'as'", tok.AS)
	kwIs       = primitiveType("'is'", tok.IS)

	// Contextual keywords are ordinary identifiers matched by value.
	kwRecord     = keywordValue("'record'", "record")
	kwInterface  = keywordValue("'interface'", "interface")
	kwEnum       = keywordValue("'enum'", "enum")
	kwType       = keywordValue("'type'", "type")
	kwWhere      = keywordValue("'where'", "where")
	kwMetamethod = keywordValue("'metamethod'", "metamethod")
	kwUserdata   = keywordValue("'userdata'", "userdata")

	// scopeKeyword matches 'local' or 'global'.
	scopeKeyword = primitiveType("'local' or 'global'", tok.LOCAL, tok.GLOBAL)

	eos = pc.EOS[Entity]()

	binaryOp = binaryOperator()
	unaryOp  = unaryOperator()
)

// primitiveType matches a single token whose type is one of types.
func primitiveType(typeName string, types ...tok.TokenType) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Original.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// keywordValue matches an identifier token with one of the given spellings.
// Contextual keywords stay usable as plain identifiers elsewhere.
func keywordValue(typeName string, words ...string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && tokens[0].Val.Original.Type == tok.IDENTIFIER {
			value := tokens[0].Val.Original.Value
			if slices.Contains(words, value) {
				return 1, tokens[:1], nil
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// binaryOperator matches any binary operator token.
func binaryOperator() pc.Parser[Entity] {
	return primitiveType("binary operator",
		tok.OR, tok.AND,
		tok.EQUAL, tok.NOT_EQUAL,
		tok.LESS_THAN, tok.LESS_EQUAL, tok.GREATER_THAN, tok.GREATER_EQUAL,
		tok.SHIFT_LEFT, tok.SHIFT_RIGHT,
		tok.CONCAT,
		tok.PLUS, tok.MINUS, tok.MULTIPLY, tok.DIVIDE, tok.FLOOR_DIVIDE, tok.MODULO,
		tok.POWER,
	)
}

// unaryOperator matches 'not', '-' and '#'.
func unaryOperator() pc.Parser[Entity] {
	return primitiveType("unary operator", tok.NOT, tok.MINUS, tok.LENGTH)
}
