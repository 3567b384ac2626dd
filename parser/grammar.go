package parser

import (
	"errors"
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// session tracks the furthest point any alternative failed during one
// parse. Backtracking discards partial matches but not these notes, so
// when the grammar finally gives up the deepest failure and its viable
// alternatives are still known. That beats reporting the first
// backtrack by a wide margin.
type session struct {
	endPos   tok.Position
	furthest int
	pos      tok.Position
	got      string
	expected []string

	// pendingAngle is the source offset of a '>>' token whose first '>'
	// already closed an inner type argument list. The enclosing list
	// consumes the token for its second half. -1 when no half is open.
	pendingAngle int
}

func newSession(endPos tok.Position) *session {
	return &session{endPos: endPos, furthest: -1, pendingAngle: -1}
}

func (s *session) note(tokens []pc.Token[Entity], name string) {
	var offset int
	var pos tok.Position
	var got string
	if len(tokens) == 0 {
		offset = s.endPos.Offset
		pos = s.endPos
	} else {
		orig := tokens[0].Val.Original
		offset = orig.Position.Offset
		pos = orig.Position
		got = orig.Value
	}
	if offset < s.furthest {
		return
	}
	if offset > s.furthest {
		s.furthest = offset
		s.pos = pos
		s.got = got
		s.expected = s.expected[:0]
	}
	if name != "" && !slices.Contains(s.expected, name) {
		s.expected = append(s.expected, name)
	}
}

func (s *session) syntaxError() *SyntaxError {
	if s.furthest < 0 {
		return &SyntaxError{Pos: s.endPos}
	}
	return &SyntaxError{
		Pos:      s.pos,
		Expected: append([]string(nil), s.expected...),
		Got:      s.got,
	}
}

// grammar binds every rule of one parse to a shared session. Rules are
// bound methods, so mutual recursion needs no forward declarations.
type grammar struct {
	s *session

	chunk      pc.Parser[Entity]
	block      pc.Parser[Entity]
	statement  pc.Parser[Entity]
	expression pc.Parser[Entity]
	prefixExpr pc.Parser[Entity]
	typeExpr   pc.Parser[Entity]
}

func newGrammar(s *session) *grammar {
	g := &grammar{s: s}
	g.expression = pc.Trace("expression", g.parseExpression)
	g.prefixExpr = pc.Trace("prefixexp", g.parsePrefixExpr)
	g.typeExpr = pc.Trace("type", g.parseType)
	g.statement = pc.Trace("statement", g.parseStatement)
	g.block = pc.Trace("block", g.parseBlock)
	g.chunk = pc.Trace("chunk", g.parseChunk)
	return g
}

func (g *grammar) parseChunk(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)
	out, err := c.take("", g.block)
	if err != nil {
		return 0, nil, err
	}
	if _, err := c.take("end of input", eos); err != nil {
		return 0, nil, err
	}
	return c.pos, out, nil
}

// cursor walks a token window with explicit offset bookkeeping. The
// procedural statement and expression rules drive sub-parsers through
// it instead of chaining combinators.
type cursor struct {
	pctx   *pc.ParseContext[Entity]
	tokens []pc.Token[Entity]
	pos    int
	g      *grammar
}

func (g *grammar) cursorFor(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) *cursor {
	return &cursor{pctx: pctx, tokens: tokens, g: g}
}

func (c *cursor) rest() []pc.Token[Entity] {
	return c.tokens[c.pos:]
}

func (c *cursor) mark() int {
	return c.pos
}

func (c *cursor) reset(mark int) {
	c.pos = mark
}

// next consumes the next token unconditionally. Callers must have
// peeked first.
func (c *cursor) next() tok.Token {
	t := c.tokens[c.pos].Val.Original
	c.pos++
	return t
}

// spanFrom covers every token consumed since mark. An empty range
// yields a zero-width span at the current position.
func (c *cursor) spanFrom(mark int) tok.Span {
	if mark == c.pos {
		pos := c.here()
		return tok.Span{Start: pos, End: pos}
	}
	return entitySpan(c.tokens[mark:c.pos])
}

// here is the source position of the next unconsumed token, or the end
// of input.
func (c *cursor) here() tok.Position {
	rest := c.rest()
	if len(rest) == 0 {
		return c.g.s.endPos
	}
	return rest[0].Val.Original.Position
}

func (c *cursor) noteHere(name string) {
	c.g.s.note(c.rest(), name)
}

// take runs p at the cursor and advances on success. A non-match is
// recorded against the session under name before it propagates.
func (c *cursor) take(name string, p pc.Parser[Entity]) ([]pc.Token[Entity], error) {
	consumed, out, err := p(c.pctx, c.rest())
	if err != nil {
		if name != "" && errors.Is(err, pc.ErrNotMatch) {
			c.g.s.note(c.rest(), name)
		}
		return nil, err
	}
	c.pos += consumed
	return out, nil
}

// tryTake is take for optional single tokens. Only safe with primitive
// parsers, which never raise critical errors.
func (c *cursor) tryTake(p pc.Parser[Entity]) ([]pc.Token[Entity], bool) {
	consumed, out, err := p(c.pctx, c.rest())
	if err != nil {
		return nil, false
	}
	c.pos += consumed
	return out, true
}

// option runs a full rule that may legitimately be absent. A non-match
// is not an error, but critical failures still abort the parse.
func (c *cursor) option(p pc.Parser[Entity]) ([]pc.Token[Entity], bool, error) {
	consumed, out, err := p(c.pctx, c.rest())
	if err != nil {
		if errors.Is(err, pc.ErrCritical) {
			return nil, false, err
		}
		return nil, false, nil
	}
	c.pos += consumed
	return out, true, nil
}

func (c *cursor) peek(tt tok.TokenType) bool {
	rest := c.rest()
	return len(rest) > 0 && rest[0].Val.Original.Type == tt
}

func (c *cursor) peekTypeAt(offset int, tt tok.TokenType) bool {
	rest := c.rest()
	return len(rest) > offset && rest[offset].Val.Original.Type == tt
}

func (c *cursor) peekToken() (tok.Token, bool) {
	rest := c.rest()
	if len(rest) == 0 {
		return tok.Token{}, false
	}
	return rest[0].Val.Original, true
}

// takeName consumes one identifier and returns its text and span.
func (c *cursor) takeName(name string) (string, tok.Span, error) {
	out, err := c.take(name, identifier)
	if err != nil {
		return "", tok.Span{}, err
	}
	orig := out[0].Val.Original
	return orig.Value, orig.Span(), nil
}

func (c *cursor) takeExpr() (Expression, error) {
	out, err := c.take("", c.g.expression)
	if err != nil {
		return nil, err
	}
	return exprOf(out[0]), nil
}

func (c *cursor) takeType() (TypeExpression, error) {
	out, err := c.take("", c.g.typeExpr)
	if err != nil {
		return nil, err
	}
	return typeOf(out[0]), nil
}

func (c *cursor) takeBlock() (*Block, error) {
	out, err := c.take("", c.g.block)
	if err != nil {
		return nil, err
	}
	block, _ := nodeOf(out[0]).(*Block)
	return block, nil
}
