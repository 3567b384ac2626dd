package parser

import (
	"errors"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// parseExpression collects a flat chain of operands and binary
// operators, then folds it by precedence in one pass. Keeping the
// grammar flat avoids a rule per precedence tier and keeps backtracking
// shallow.
func (g *grammar) parseExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)

	chain := &exprChain{}
	first, err := g.parseOperand(c)
	if err != nil {
		if errors.Is(err, pc.ErrNotMatch) {
			g.s.note(tokens, "expression")
		}
		return 0, nil, err
	}
	chain.operands = append(chain.operands, first)

	for {
		opMark := c.mark()
		opOut, ok := c.tryTake(binaryOp)
		if !ok {
			break
		}
		operand, err := g.parseOperand(c)
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return 0, nil, err
			}
			// Nothing usable after the operator. Note the gap, then give
			// the operator back and let the enclosing rule decide.
			c.noteHere("expression")
			c.reset(opMark)
			break
		}
		opOrig := opOut[0].Val.Original
		chain.operands = append(chain.operands, operand)
		chain.operators = append(chain.operators, chainOperator{
			op:   binaryOperators[opOrig.Type],
			span: opOrig.Span(),
		})
	}

	node := buildBinaryTree(chain)
	return c.pos, []pc.Token[Entity]{nodeToken(node)}, nil
}

// parseOperand parses leading unary operators and one chain element.
// Unary operators bind tighter than every binary operator including ^,
// so -x^2 is (-x)^2.
func (g *grammar) parseOperand(c *cursor) (Expression, error) {
	type prefix struct {
		op   Operator
		span tok.Span
	}
	var prefixes []prefix
	for {
		out, ok := c.tryTake(unaryOp)
		if !ok {
			break
		}
		orig := out[0].Val.Original
		prefixes = append(prefixes, prefix{op: unaryOperators[orig.Type], span: orig.Span()})
	}

	expr, err := g.parseChainElement(c)
	if err != nil {
		return nil, err
	}

	for i := len(prefixes) - 1; i >= 0; i-- {
		p := prefixes[i]
		expr = &UnaryExpression{
			BaseAstNode: newBase(UNARY_EXPRESSION, spanBetween(p.span, expr.Span())),
			Op:          p.op,
			Operand:     expr,
		}
	}
	return expr, nil
}

// parseChainElement parses a simple expression and any run of 'as' and
// 'is' suffixes. Casts bind tighter than operators but looser than call
// and index chains, so f(x).y as integer + 1 casts the field access.
func (g *grammar) parseChainElement(c *cursor) (Expression, error) {
	expr, err := g.parseSimpleExp(c)
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := c.tryTake(kwAs); ok {
			types, end, err := g.parseCastTypes(c)
			if err != nil {
				return nil, err
			}
			expr = &CastExpression{
				BaseAstNode: newBase(CAST_EXPRESSION, tok.Span{Start: expr.Span().Start, End: end}),
				Value:       expr,
				Types:       types,
			}
			continue
		}
		if _, ok := c.tryTake(kwIs); ok {
			if _, isName := expr.(*NameExpression); !isName {
				return nil, critical(expr.Span().Start, ErrIsNeedsName, "left side of 'is' must be a plain variable")
			}
			typ, err := c.takeType()
			if err != nil {
				return nil, err
			}
			expr = &IsExpression{
				BaseAstNode: newBase(IS_EXPRESSION, spanBetween(expr.Span(), typ.Span())),
				Value:       expr,
				TestType:    typ,
			}
			continue
		}
		break
	}
	return expr, nil
}

// parseCastTypes parses the right side of 'as': either a single type or
// a parenthesized list for multi-value casts.
func (g *grammar) parseCastTypes(c *cursor) ([]TypeExpression, tok.Position, error) {
	if _, ok := c.tryTake(openParen); ok {
		types, err := g.parseTypeList(c)
		if err != nil {
			return nil, tok.Position{}, err
		}
		out, err := c.take("')'", closeParen)
		if err != nil {
			return nil, tok.Position{}, err
		}
		return types, out[0].Val.Original.End, nil
	}
	typ, err := c.takeType()
	if err != nil {
		return nil, tok.Position{}, err
	}
	return []TypeExpression{typ}, typ.Span().End, nil
}

func (g *grammar) parseSimpleExp(c *cursor) (Expression, error) {
	t, ok := c.peekToken()
	if !ok {
		return nil, pc.ErrNotMatch
	}

	switch t.Type {
	case tok.NIL:
		c.next()
		return &NilLiteral{BaseAstNode: newBase(NIL_LITERAL, t.Span())}, nil
	case tok.TRUE, tok.FALSE:
		c.next()
		return &BooleanLiteral{
			BaseAstNode: newBase(BOOLEAN_LITERAL, t.Span()),
			Value:       t.Type == tok.TRUE,
		}, nil
	case tok.NUMBER:
		c.next()
		return &NumberLiteral{
			BaseAstNode: newBase(NUMBER_LITERAL, t.Span()),
			Value:       t.Num,
			IsInteger:   t.IsInteger,
			Raw:         t.Value,
		}, nil
	case tok.STRING:
		c.next()
		return &StringLiteral{
			BaseAstNode: newBase(STRING_LITERAL, t.Span()),
			Value:       t.Text,
			Raw:         t.Value,
		}, nil
	case tok.ELLIPSIS:
		c.next()
		return &VarargLiteral{BaseAstNode: newBase(VARARG_LITERAL, t.Span())}, nil
	case tok.FUNCTION:
		c.next()
		return g.parseFunctionBody(c, t.Position)
	case tok.OPEN_BRACE:
		return g.parseTableConstructor(c)
	case tok.IDENTIFIER, tok.OPEN_PAREN:
		out, err := c.take("", g.prefixExpr)
		if err != nil {
			return nil, err
		}
		return exprOf(out[0]), nil
	default:
		return nil, pc.ErrNotMatch
	}
}

// parsePrefixExpr parses a name or parenthesized expression followed by
// any run of field, index, call, and method call suffixes. Suffixes are
// greedy: an open paren on the next line still extends the chain.
func (g *grammar) parsePrefixExpr(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)

	var expr Expression
	t, ok := c.peekToken()
	if !ok {
		return 0, nil, pc.ErrNotMatch
	}
	switch t.Type {
	case tok.IDENTIFIER:
		c.next()
		expr = &NameExpression{BaseAstNode: newBase(NAME_EXPRESSION, t.Span()), Name: t.Value}
	case tok.OPEN_PAREN:
		c.next()
		inner, err := c.takeExpr()
		if err != nil {
			return 0, nil, err
		}
		closeOut, err := c.take("')'", closeParen)
		if err != nil {
			return 0, nil, err
		}
		expr = &ParenExpression{
			BaseAstNode: newBase(PAREN_EXPRESSION, tok.Span{Start: t.Position, End: closeOut[0].Val.Original.End}),
			Inner:       inner,
		}
	default:
		return 0, nil, pc.ErrNotMatch
	}

suffixes:
	for {
		nt, ok := c.peekToken()
		if !ok {
			break
		}
		switch nt.Type {
		case tok.DOT:
			c.next()
			name, nameSpan, err := c.takeName("field name")
			if err != nil {
				return 0, nil, err
			}
			expr = &FieldExpression{
				BaseAstNode: newBase(FIELD_EXPRESSION, tok.Span{Start: expr.Span().Start, End: nameSpan.End}),
				Target:      expr,
				Field:       name,
			}
		case tok.OPEN_BRACKET:
			c.next()
			key, err := c.takeExpr()
			if err != nil {
				return 0, nil, err
			}
			closeOut, err := c.take("']'", closeBracket)
			if err != nil {
				return 0, nil, err
			}
			expr = &IndexExpression{
				BaseAstNode: newBase(INDEX_EXPRESSION, tok.Span{Start: expr.Span().Start, End: closeOut[0].Val.Original.End}),
				Target:      expr,
				Key:         key,
			}
		case tok.COLON:
			// In expression position a colon always starts a method
			// call, and a method call always has arguments.
			c.next()
			name, _, err := c.takeName("method name")
			if err != nil {
				return 0, nil, err
			}
			args, end, err := g.parseCallArgs(c)
			if err != nil {
				if errors.Is(err, pc.ErrNotMatch) {
					c.noteHere("function arguments")
				}
				return 0, nil, err
			}
			expr = &MethodCallExpression{
				BaseAstNode: newBase(METHOD_CALL_EXPRESSION, tok.Span{Start: expr.Span().Start, End: end}),
				Target:      expr,
				Method:      name,
				Args:        args,
			}
		case tok.OPEN_PAREN, tok.STRING, tok.OPEN_BRACE:
			args, end, err := g.parseCallArgs(c)
			if err != nil {
				return 0, nil, err
			}
			expr = &CallExpression{
				BaseAstNode: newBase(CALL_EXPRESSION, tok.Span{Start: expr.Span().Start, End: end}),
				Target:      expr,
				Args:        args,
			}
		default:
			break suffixes
		}
	}

	return c.pos, []pc.Token[Entity]{nodeToken(expr)}, nil
}

// parseCallArgs parses one argument form: a parenthesized list, a bare
// string, or a bare table constructor.
func (g *grammar) parseCallArgs(c *cursor) ([]Expression, tok.Position, error) {
	t, ok := c.peekToken()
	if !ok {
		return nil, tok.Position{}, pc.ErrNotMatch
	}

	switch t.Type {
	case tok.OPEN_PAREN:
		c.next()
		var args []Expression
		if !c.peek(tok.CLOSE_PAREN) {
			var err error
			args, err = g.parseExprList(c)
			if err != nil {
				return nil, tok.Position{}, err
			}
		}
		closeOut, err := c.take("')'", closeParen)
		if err != nil {
			return nil, tok.Position{}, err
		}
		return args, closeOut[0].Val.Original.End, nil
	case tok.STRING:
		c.next()
		lit := &StringLiteral{
			BaseAstNode: newBase(STRING_LITERAL, t.Span()),
			Value:       t.Text,
			Raw:         t.Value,
		}
		return []Expression{lit}, t.End, nil
	case tok.OPEN_BRACE:
		ctor, err := g.parseTableConstructor(c)
		if err != nil {
			return nil, tok.Position{}, err
		}
		return []Expression{ctor}, ctor.Span().End, nil
	default:
		return nil, tok.Position{}, pc.ErrNotMatch
	}
}

func (g *grammar) parseExprList(c *cursor) ([]Expression, error) {
	first, err := c.takeExpr()
	if err != nil {
		return nil, err
	}
	exprs := []Expression{first}
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		next, err := c.takeExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return exprs, nil
}

// parseTableConstructor parses '{' fields '}' with ',' or ';'
// separators and an optional trailing separator.
func (g *grammar) parseTableConstructor(c *cursor) (Expression, error) {
	open, err := c.take("'{'", openBrace)
	if err != nil {
		return nil, err
	}
	start := open[0].Val.Original.Position

	var fields []TableField
	for {
		if c.peek(tok.CLOSE_BRACE) {
			break
		}
		field, err := g.parseTableField(c)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if _, ok := c.tryTake(comma); ok {
			continue
		}
		if _, ok := c.tryTake(semicolon); ok {
			continue
		}
		break
	}

	closeOut, err := c.take("'}'", closeBrace)
	if err != nil {
		return nil, err
	}
	return &TableExpression{
		BaseAstNode: newBase(TABLE_EXPRESSION, tok.Span{Start: start, End: closeOut[0].Val.Original.End}),
		Fields:      fields,
	}, nil
}

func (g *grammar) parseTableField(c *cursor) (TableField, error) {
	if c.peek(tok.OPEN_BRACKET) {
		mark := c.mark()
		c.next()
		key, err := c.takeExpr()
		if err != nil {
			return TableField{}, err
		}
		if _, err := c.take("']'", closeBracket); err != nil {
			return TableField{}, err
		}
		if _, err := c.take("'='", assign); err != nil {
			return TableField{}, err
		}
		value, err := c.takeExpr()
		if err != nil {
			return TableField{}, err
		}
		return TableField{Key: key, Value: value, Span: c.spanFrom(mark)}, nil
	}

	// Name '=' expr needs a second token of lookahead to tell it apart
	// from an expression that happens to start with a name.
	if c.peek(tok.IDENTIFIER) && c.peekTypeAt(1, tok.ASSIGN) {
		mark := c.mark()
		name := c.next()
		c.next()
		value, err := c.takeExpr()
		if err != nil {
			return TableField{}, err
		}
		return TableField{Name: name.Value, Value: value, Span: c.spanFrom(mark)}, nil
	}

	// Name ':' type '=' expr is speculative: `{obj:method()}` also starts
	// with Name ':' and must fall back to the expression reading.
	if c.peek(tok.IDENTIFIER) && c.peekTypeAt(1, tok.COLON) {
		mark := c.mark()
		name := c.next()
		c.next()
		fieldType, err := c.takeType()
		if err == nil {
			if _, ok := c.tryTake(assign); ok {
				value, err := c.takeExpr()
				if err != nil {
					return TableField{}, err
				}
				return TableField{Name: name.Value, FieldType: fieldType, Value: value, Span: c.spanFrom(mark)}, nil
			}
		} else if !errors.Is(err, pc.ErrNotMatch) {
			return TableField{}, err
		}
		c.reset(mark)
	}

	mark := c.mark()
	value, err := c.takeExpr()
	if err != nil {
		return TableField{}, err
	}
	return TableField{Value: value, Span: c.spanFrom(mark)}, nil
}

// parseFunctionBody parses everything after the 'function' keyword:
// optional type parameters, the parameter list, optional return types,
// and the body through 'end'. start is the keyword the caller already
// consumed.
func (g *grammar) parseFunctionBody(c *cursor, start tok.Position) (*FunctionExpression, error) {
	typeParams, err := g.parseTypeParams(c)
	if err != nil {
		return nil, err
	}
	if _, err := c.take("'('", openParen); err != nil {
		return nil, err
	}
	params, err := g.parseParamList(c)
	if err != nil {
		return nil, err
	}
	if _, err := c.take("')'", closeParen); err != nil {
		return nil, err
	}
	returns, err := g.parseReturnTypes(c)
	if err != nil {
		return nil, err
	}
	body, err := c.takeBlock()
	if err != nil {
		return nil, err
	}
	endOut, err := c.take("'end'", kwEnd)
	if err != nil {
		return nil, err
	}
	return &FunctionExpression{
		BaseAstNode: newBase(FUNCTION_EXPRESSION, tok.Span{Start: start, End: endOut[0].Val.Original.End}),
		TypeParams:  typeParams,
		Params:      params,
		Returns:     returns,
		Body:        body,
	}, nil
}

// parseTypeParams parses an optional '<' Name {',' Name} '>' list.
func (g *grammar) parseTypeParams(c *cursor) ([]TypeParam, error) {
	if _, ok := c.tryTake(lessThan); !ok {
		return nil, nil
	}
	var params []TypeParam
	for {
		name, span, err := c.takeName("type parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, TypeParam{Name: name, Span: span})
		if _, ok := c.tryTake(comma); !ok {
			break
		}
	}
	if _, err := c.take("'>'", greaterThan); err != nil {
		return nil, err
	}
	return params, nil
}

func (g *grammar) parseParamList(c *cursor) ([]Param, error) {
	if c.peek(tok.CLOSE_PAREN) {
		return nil, nil
	}
	var params []Param
	for {
		param, err := g.parseParam(c)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if _, ok := c.tryTake(comma); !ok {
			break
		}
	}
	for _, p := range params[:len(params)-1] {
		if p.Vararg {
			return nil, critical(p.Span.Start, ErrVarargNotLast, "'...' must be the last parameter")
		}
	}
	return params, nil
}

func (g *grammar) parseParam(c *cursor) (Param, error) {
	mark := c.mark()
	if out, ok := c.tryTake(ellipsis); ok {
		param := Param{Vararg: true, Span: out[0].Val.Original.Span()}
		if _, ok := c.tryTake(colon); ok {
			typ, err := c.takeType()
			if err != nil {
				return Param{}, err
			}
			param.ParamType = typ
			param.Span = c.spanFrom(mark)
		}
		return param, nil
	}

	name, span, err := c.takeName("parameter name")
	if err != nil {
		return Param{}, err
	}
	param := Param{Name: name, Span: span}
	if _, ok := c.tryTake(question); ok {
		param.Opt = true
	}
	if _, ok := c.tryTake(colon); ok {
		typ, err := c.takeType()
		if err != nil {
			return Param{}, err
		}
		param.ParamType = typ
	}
	param.Span = c.spanFrom(mark)
	return param, nil
}

// parseReturnTypes parses an optional ':' followed by either a bare
// type list or a parenthesized one.
func (g *grammar) parseReturnTypes(c *cursor) ([]TypeExpression, error) {
	if _, ok := c.tryTake(colon); !ok {
		return nil, nil
	}
	if _, ok := c.tryTake(openParen); ok {
		types, err := g.parseTypeList(c)
		if err != nil {
			return nil, err
		}
		if _, err := c.take("')'", closeParen); err != nil {
			return nil, err
		}
		return types, nil
	}
	return g.parseTypeList(c)
}

func (g *grammar) parseTypeList(c *cursor) ([]TypeExpression, error) {
	first, err := c.takeType()
	if err != nil {
		return nil, err
	}
	types := []TypeExpression{first}
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		next, err := c.takeType()
		if err != nil {
			return nil, err
		}
		types = append(types, next)
	}
	return types, nil
}
