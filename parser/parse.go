// Package parser turns Teal source into an abstract syntax tree. The
// grammar is ordered-choice with full backtracking; when no alternative
// fits, the error reports the furthest position reached and what was
// viable there.
package parser

import (
	"errors"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// Parse tokenizes src and parses it into a block.
func Parse(src string) (*Block, error) {
	tokens, err := tok.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already tokenized unit. The slice is expected
// to end with the EOF token the tokenizer produces; whitespace and
// comment tokens must already be filtered out.
func ParseTokens(tokens []tok.Token) (*Block, error) {
	endPos := tok.Position{Line: 1, Column: 1}
	if n := len(tokens); n > 0 {
		endPos = tokens[n-1].Position
	}

	s := newSession(endPos)
	g := newGrammar(s)

	pctx := pc.NewParseContext[Entity]()
	_, out, err := g.chunk(pctx, TokenToEntity(tokens))
	if err != nil {
		var crit *criticalError
		if errors.As(err, &crit) {
			return nil, crit.syntax
		}
		return nil, s.syntaxError()
	}
	block, _ := nodeOf(out[0]).(*Block)
	return block, nil
}
