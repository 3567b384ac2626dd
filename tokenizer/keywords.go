package tokenizer

// keywords maps reserved words to their token types. Reserved words can
// never be used as identifiers.
var keywords = map[string]TokenType{
	"and":      AND,
	"break":    BREAK,
	"do":       DO,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"end":      END,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"global":   GLOBAL,
	"goto":     GOTO,
	"if":       IF,
	"in":       IN,
	"local":    LOCAL,
	"nil":      NIL,
	"not":      NOT,
	"or":       OR,
	"repeat":   REPEAT,
	"return":   RETURN,
	"then":     THEN,
	"true":     TRUE,
	"until":    UNTIL,
	"while":    WHILE,
	"as":       AS,
	"is":       IS,
}

// ContextualKeywords are words that introduce declarations but are still
// valid identifiers everywhere else (record, enum, and friends). The
// tokenizer emits them as IDENTIFIER; the parser matches them by value in
// the positions where they act as keywords.
var ContextualKeywords = map[string]bool{
	"record":     true,
	"interface":  true,
	"enum":       true,
	"type":       true,
	"where":      true,
	"metamethod": true,
	"userdata":   true,
}

// LookupIdent returns the token type for a scanned word: the keyword type
// if the word is reserved, IDENTIFIER otherwise.
func LookupIdent(word string) TokenType {
	if typ, ok := keywords[word]; ok {
		return typ
	}
	return IDENTIFIER
}

// IsKeyword reports whether word is a reserved word.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
