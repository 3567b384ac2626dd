package parser

import (
	"errors"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// parseType parses a '|'-separated union of base types. A single base
// type stays unwrapped.
func (g *grammar) parseType(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)

	first, err := g.parseBaseType(c)
	if err != nil {
		if errors.Is(err, pc.ErrNotMatch) {
			g.s.note(tokens, "type")
		}
		return 0, nil, err
	}

	members := []TypeExpression{first}
	for {
		if _, ok := c.tryTake(pipe); !ok {
			break
		}
		next, err := g.parseBaseType(c)
		if err != nil {
			if errors.Is(err, pc.ErrNotMatch) {
				c.noteHere("type")
			}
			return 0, nil, err
		}
		members = append(members, next)
	}

	var node TypeExpression
	if len(members) == 1 {
		node = first
	} else {
		node = &UnionType{
			BaseAstNode: newBase(UNION_TYPE, spanBetween(first.Span(), members[len(members)-1].Span())),
			Members:     members,
		}
	}
	return c.pos, []pc.Token[Entity]{nodeToken(node)}, nil
}

// parseBaseType parses one union member. A parenthesized group nests a
// full type, so unions of unions and function types inside unions both
// need the parens.
func (g *grammar) parseBaseType(c *cursor) (TypeExpression, error) {
	t, ok := c.peekToken()
	if !ok {
		return nil, pc.ErrNotMatch
	}

	switch t.Type {
	case tok.OPEN_PAREN:
		c.next()
		inner, err := c.takeType()
		if err != nil {
			return nil, err
		}
		if _, err := c.take("')'", closeParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tok.NIL:
		c.next()
		return &PrimitiveType{BaseAstNode: newBase(PRIMITIVE_TYPE, t.Span()), Kind: PrimNil}, nil
	case tok.FUNCTION:
		c.next()
		return g.parseFunctionType(c, t)
	case tok.OPEN_BRACE:
		return g.parseArrayOrMapType(c)
	case tok.IDENTIFIER:
		if t.Value == "any" {
			c.next()
			return &AnyType{BaseAstNode: newBase(ANY_TYPE, t.Span())}, nil
		}
		if kind, found := LookupPrimitiveKind(t.Value); found {
			c.next()
			return &PrimitiveType{BaseAstNode: newBase(PRIMITIVE_TYPE, t.Span()), Kind: kind}, nil
		}
		return g.parseNominalType(c)
	default:
		return nil, pc.ErrNotMatch
	}
}

// parseNominalType parses a dotted type path with optional type
// arguments.
func (g *grammar) parseNominalType(c *cursor) (TypeExpression, error) {
	name, span, err := c.takeName("type name")
	if err != nil {
		return nil, err
	}
	path := []string{name}
	end := span.End
	for {
		if _, ok := c.tryTake(dot); !ok {
			break
		}
		seg, segSpan, err := c.takeName("type name")
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
		end = segSpan.End
	}

	args, argsEnd, hasArgs, err := g.parseTypeArgs(c)
	if err != nil {
		return nil, err
	}
	if hasArgs {
		end = argsEnd
	}

	return &NominalType{
		BaseAstNode: newBase(NOMINAL_TYPE, tok.Span{Start: span.Start, End: end}),
		Path:        path,
		Args:        args,
	}, nil
}

// parseTypeArgs speculatively parses '<' typelist '>'. In expression
// positions a '<' after a name may be a comparison instead, so any
// non-critical failure rolls the whole attempt back. A closing '>>'
// from nested arguments is consumed in two halves, keyed by offset
// through the session.
func (g *grammar) parseTypeArgs(c *cursor) ([]TypeExpression, tok.Position, bool, error) {
	if !c.peek(tok.LESS_THAN) {
		return nil, tok.Position{}, false, nil
	}
	mark := c.mark()
	saved := g.s.pendingAngle
	g.s.pendingAngle = -1
	c.next()

	var types []TypeExpression
	first, err := c.takeType()
	if err != nil {
		g.s.pendingAngle = saved
		if errors.Is(err, pc.ErrCritical) {
			return nil, tok.Position{}, false, err
		}
		c.reset(mark)
		return nil, tok.Position{}, false, nil
	}
	types = append(types, first)
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		next, err := c.takeType()
		if err != nil {
			g.s.pendingAngle = saved
			if errors.Is(err, pc.ErrCritical) {
				return nil, tok.Position{}, false, err
			}
			c.reset(mark)
			return nil, tok.Position{}, false, nil
		}
		types = append(types, next)
	}

	if t, ok := c.peekToken(); ok {
		switch t.Type {
		case tok.GREATER_THAN:
			c.next()
			g.s.pendingAngle = saved
			return types, t.End, true, nil
		case tok.SHIFT_RIGHT:
			if g.s.pendingAngle == t.Position.Offset {
				// second half closes this list too
				c.next()
				g.s.pendingAngle = saved
				return types, t.End, true, nil
			}
			g.s.pendingAngle = t.Position.Offset
			mid := tok.Position{Line: t.Position.Line, Column: t.Position.Column + 1, Offset: t.Position.Offset + 1}
			return types, mid, true, nil
		}
	}

	c.noteHere("'>'")
	g.s.pendingAngle = saved
	c.reset(mark)
	return nil, tok.Position{}, false, nil
}

// parseArrayOrMapType parses '{' T '}' as an array type and
// '{' K ':' V '}' as a map type.
func (g *grammar) parseArrayOrMapType(c *cursor) (TypeExpression, error) {
	open := c.next()
	first, err := c.takeType()
	if err != nil {
		return nil, err
	}

	if _, ok := c.tryTake(colon); ok {
		value, err := c.takeType()
		if err != nil {
			return nil, err
		}
		closeOut, err := c.take("'}'", closeBrace)
		if err != nil {
			return nil, err
		}
		return &MapType{
			BaseAstNode: newBase(MAP_TYPE, tok.Span{Start: open.Position, End: closeOut[0].Val.Original.End}),
			Key:         first,
			Value:       value,
		}, nil
	}

	closeOut, err := c.take("'}'", closeBrace)
	if err != nil {
		return nil, err
	}
	return &ArrayType{
		BaseAstNode: newBase(ARRAY_TYPE, tok.Span{Start: open.Position, End: closeOut[0].Val.Original.End}),
		Element:     first,
	}, nil
}

// parseFunctionType parses the type form of 'function'. The bare
// keyword with no signature is a valid type on its own.
func (g *grammar) parseFunctionType(c *cursor, kw tok.Token) (TypeExpression, error) {
	if !c.peek(tok.OPEN_PAREN) {
		return &FunctionType{BaseAstNode: newBase(FUNCTION_TYPE, kw.Span())}, nil
	}
	c.next()

	params, err := g.parseParamTypeList(c)
	if err != nil {
		return nil, err
	}
	closeOut, err := c.take("')'", closeParen)
	if err != nil {
		return nil, err
	}
	end := closeOut[0].Val.Original.End

	returns, err := g.parseReturnTypes(c)
	if err != nil {
		return nil, err
	}
	if len(returns) > 0 {
		end = returns[len(returns)-1].Span().End
	}

	return &FunctionType{
		BaseAstNode: newBase(FUNCTION_TYPE, tok.Span{Start: kw.Position, End: end}),
		Params:      params,
		Returns:     returns,
	}, nil
}

func (g *grammar) parseParamTypeList(c *cursor) ([]ParamType, error) {
	if c.peek(tok.CLOSE_PAREN) {
		return nil, nil
	}
	var params []ParamType
	for {
		p, err := g.parseParamType(c)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
		if _, ok := c.tryTake(comma); !ok {
			break
		}
	}
	for _, p := range params[:len(params)-1] {
		if p.Name == "..." {
			return nil, critical(p.Span.Start, ErrVarargNotLast, "'...' must be the last parameter")
		}
	}
	return params, nil
}

// parseParamType parses one entry of a function type's parameter list:
// '...' with an optional type, a named parameter, or a bare type.
func (g *grammar) parseParamType(c *cursor) (ParamType, error) {
	mark := c.mark()

	if out, ok := c.tryTake(ellipsis); ok {
		p := ParamType{Name: "...", Span: out[0].Val.Original.Span()}
		if _, ok := c.tryTake(colon); ok {
			typ, err := c.takeType()
			if err != nil {
				return ParamType{}, err
			}
			p.ParamType = typ
			p.Span = c.spanFrom(mark)
		}
		return p, nil
	}

	if c.peek(tok.IDENTIFIER) {
		named := c.peekTypeAt(1, tok.COLON) ||
			(c.peekTypeAt(1, tok.QUESTION) && c.peekTypeAt(2, tok.COLON))
		if named {
			name := c.next()
			opt := false
			if _, ok := c.tryTake(question); ok {
				opt = true
			}
			c.next()
			typ, err := c.takeType()
			if err != nil {
				return ParamType{}, err
			}
			return ParamType{Name: name.Value, Opt: opt, ParamType: typ, Span: c.spanFrom(mark)}, nil
		}
	}

	typ, err := c.takeType()
	if err != nil {
		return ParamType{}, err
	}
	p := ParamType{ParamType: typ, Span: c.spanFrom(mark)}
	if _, ok := c.tryTake(question); ok {
		p.Opt = true
		p.Span = c.spanFrom(mark)
	}
	return p, nil
}
