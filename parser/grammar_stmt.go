package parser

import (
	"errors"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// parseBlock parses statements until none match, then an optional
// return statement. Anything after a return must close the block, so
// the loop stops there.
func (g *grammar) parseBlock(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)

	var stmts []Statement
	var ret *ReturnStatement
	for {
		if _, ok := c.tryTake(semicolon); ok {
			continue
		}
		if c.peek(tok.RETURN) {
			r, err := g.parseReturn(c)
			if err != nil {
				return 0, nil, err
			}
			ret = r
			break
		}
		out, ok, err := c.option(g.statement)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			break
		}
		if stmt, isStmt := nodeOf(out[0]).(Statement); isStmt {
			stmts = append(stmts, stmt)
		}
	}

	block := &Block{
		BaseAstNode: newBase(BLOCK, c.spanFrom(0)),
		Statements:  stmts,
		Return:      ret,
	}
	return c.pos, []pc.Token[Entity]{nodeToken(block)}, nil
}

func (g *grammar) parseReturn(c *cursor) (*ReturnStatement, error) {
	kw := c.next()

	var values []Expression
	out, ok, err := c.option(g.expression)
	if err != nil {
		return nil, err
	}
	if ok {
		values = append(values, exprOf(out[0]))
		for {
			if _, ok := c.tryTake(comma); !ok {
				break
			}
			expr, err := c.takeExpr()
			if err != nil {
				return nil, err
			}
			values = append(values, expr)
		}
	}

	end := kw.End
	if len(values) > 0 {
		end = values[len(values)-1].Span().End
	}
	if semiOut, ok := c.tryTake(semicolon); ok {
		end = semiOut[0].Val.Original.End
	}
	return &ReturnStatement{
		BaseAstNode: newBase(RETURN_STATEMENT, tok.Span{Start: kw.Position, End: end}),
		Values:      values,
	}, nil
}

// parseStatement dispatches on the leading token. Keyword-led forms
// are unambiguous; identifiers and parens fall through to the
// assignment/call rule.
func (g *grammar) parseStatement(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	c := g.cursorFor(pctx, tokens)

	t, ok := c.peekToken()
	if !ok {
		g.s.note(tokens, "statement")
		return 0, nil, pc.ErrNotMatch
	}

	var node Statement
	var err error
	switch t.Type {
	case tok.DOUBLE_COLON:
		node, err = g.parseLabel(c)
	case tok.BREAK:
		c.next()
		node = &BreakStatement{BaseAstNode: newBase(BREAK_STATEMENT, t.Span())}
	case tok.GOTO:
		node, err = g.parseGoto(c)
	case tok.DO:
		node, err = g.parseDo(c)
	case tok.WHILE:
		node, err = g.parseWhile(c)
	case tok.REPEAT:
		node, err = g.parseRepeat(c)
	case tok.IF:
		node, err = g.parseIf(c)
	case tok.FOR:
		node, err = g.parseFor(c)
	case tok.FUNCTION:
		node, err = g.parseFunctionDecl(c)
	case tok.LOCAL, tok.GLOBAL:
		node, err = g.parseScopedDecl(c)
	case tok.IDENTIFIER, tok.OPEN_PAREN:
		node, err = g.parseExprStatement(c)
	default:
		g.s.note(tokens, "statement")
		return 0, nil, pc.ErrNotMatch
	}
	if err != nil {
		if errors.Is(err, pc.ErrNotMatch) {
			g.s.note(tokens, "statement")
		}
		return 0, nil, err
	}
	return c.pos, []pc.Token[Entity]{nodeToken(node)}, nil
}

func (g *grammar) parseLabel(c *cursor) (Statement, error) {
	open := c.next()
	name, _, err := c.takeName("label name")
	if err != nil {
		return nil, err
	}
	closeOut, err := c.take("'::'", doubleColon)
	if err != nil {
		return nil, err
	}
	return &LabelStatement{
		BaseAstNode: newBase(LABEL_STATEMENT, tok.Span{Start: open.Position, End: closeOut[0].Val.Original.End}),
		Name:        name,
	}, nil
}

func (g *grammar) parseGoto(c *cursor) (Statement, error) {
	kw := c.next()
	name, span, err := c.takeName("label name")
	if err != nil {
		return nil, err
	}
	return &GotoStatement{
		BaseAstNode: newBase(GOTO_STATEMENT, tok.Span{Start: kw.Position, End: span.End}),
		Label:       name,
	}, nil
}

func (g *grammar) parseDo(c *cursor) (Statement, error) {
	kw := c.next()
	body, err := c.takeBlock()
	if err != nil {
		return nil, err
	}
	endOut, err := c.take("'end'", kwEnd)
	if err != nil {
		return nil, err
	}
	return &DoStatement{
		BaseAstNode: newBase(DO_STATEMENT, tok.Span{Start: kw.Position, End: endOut[0].Val.Original.End}),
		Body:        body,
	}, nil
}

func (g *grammar) parseWhile(c *cursor) (Statement, error) {
	kw := c.next()
	cond, err := c.takeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := c.take("'do'", kwDo); err != nil {
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
	return &WhileStatement{
		BaseAstNode: newBase(WHILE_STATEMENT, tok.Span{Start: kw.Position, End: endOut[0].Val.Original.End}),
		Condition:   cond,
		Body:        body,
	}, nil
}

func (g *grammar) parseRepeat(c *cursor) (Statement, error) {
	kw := c.next()
	body, err := c.takeBlock()
	if err != nil {
		return nil, err
	}
	if _, err := c.take("'until'", kwUntil); err != nil {
		return nil, err
	}
	cond, err := c.takeExpr()
	if err != nil {
		return nil, err
	}
	return &RepeatStatement{
		BaseAstNode: newBase(REPEAT_STATEMENT, tok.Span{Start: kw.Position, End: cond.Span().End}),
		Body:        body,
		Until:       cond,
	}, nil
}

func (g *grammar) parseIf(c *cursor) (Statement, error) {
	kw := c.next()

	var clauses []IfClause
	clauseKw := kw
	for {
		cond, err := c.takeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := c.take("'then'", kwThen); err != nil {
			return nil, err
		}
		body, err := c.takeBlock()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, IfClause{
			Condition: cond,
			Body:      body,
			Span:      tok.Span{Start: clauseKw.Position, End: body.Span().End},
		})
		if c.peek(tok.ELSEIF) {
			clauseKw = c.next()
			continue
		}
		break
	}

	var elseBlock *Block
	c.noteHere("'elseif'")
	c.noteHere("'else'")
	if _, ok := c.tryTake(kwElse); ok {
		b, err := c.takeBlock()
		if err != nil {
			return nil, err
		}
		elseBlock = b
	}

	endOut, err := c.take("'end'", kwEnd)
	if err != nil {
		return nil, err
	}
	return &IfStatement{
		BaseAstNode: newBase(IF_STATEMENT, tok.Span{Start: kw.Position, End: endOut[0].Val.Original.End}),
		Clauses:     clauses,
		Else:        elseBlock,
	}, nil
}

// parseFor distinguishes the numeric and generic forms with one token
// of lookahead: only the numeric header puts '=' right after the name.
func (g *grammar) parseFor(c *cursor) (Statement, error) {
	kw := c.next()

	if c.peek(tok.IDENTIFIER) && c.peekTypeAt(1, tok.ASSIGN) {
		nameTok := c.next()
		c.next()
		start, err := c.takeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := c.take("','", comma); err != nil {
			return nil, err
		}
		limit, err := c.takeExpr()
		if err != nil {
			return nil, err
		}
		var step Expression
		if _, ok := c.tryTake(comma); ok {
			step, err = c.takeExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := c.take("'do'", kwDo); err != nil {
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
		return &NumericForStatement{
			BaseAstNode: newBase(NUMERIC_FOR_STATEMENT, tok.Span{Start: kw.Position, End: endOut[0].Val.Original.End}),
			Name:        nameTok.Value,
			NameSpan:    nameTok.Span(),
			Start:       start,
			Limit:       limit,
			Step:        step,
			Body:        body,
		}, nil
	}

	names, err := g.parseNameList(c)
	if err != nil {
		return nil, err
	}
	if _, err := c.take("'in'", kwIn); err != nil {
		return nil, err
	}
	exprs, err := g.parseExprList(c)
	if err != nil {
		return nil, err
	}
	if _, err := c.take("'do'", kwDo); err != nil {
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
	return &GenericForStatement{
		BaseAstNode: newBase(GENERIC_FOR_STATEMENT, tok.Span{Start: kw.Position, End: endOut[0].Val.Original.End}),
		Names:       names,
		Exprs:       exprs,
		Body:        body,
	}, nil
}

func (g *grammar) parseNameList(c *cursor) ([]NameDecl, error) {
	name, span, err := c.takeName("name")
	if err != nil {
		return nil, err
	}
	decls := []NameDecl{{Name: name, Span: span}}
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		n, s, err := c.takeName("name")
		if err != nil {
			return nil, err
		}
		decls = append(decls, NameDecl{Name: n, Span: s})
	}
	return decls, nil
}

func (g *grammar) parseFunctionDecl(c *cursor) (Statement, error) {
	kw := c.next()
	name, err := g.parseFunctionName(c)
	if err != nil {
		return nil, err
	}
	fn, err := g.parseFunctionBody(c, kw.Position)
	if err != nil {
		return nil, err
	}
	return &FunctionStatement{
		BaseAstNode: newBase(FUNCTION_STATEMENT, fn.Span()),
		Name:        name,
		Func:        fn,
	}, nil
}

func (g *grammar) parseFunctionName(c *cursor) (FunctionName, error) {
	mark := c.mark()
	name, _, err := c.takeName("function name")
	if err != nil {
		return FunctionName{}, err
	}
	fn := FunctionName{Path: []string{name}}
	for {
		if _, ok := c.tryTake(dot); !ok {
			break
		}
		seg, _, err := c.takeName("name")
		if err != nil {
			return FunctionName{}, err
		}
		fn.Path = append(fn.Path, seg)
	}
	if _, ok := c.tryTake(colon); ok {
		m, _, err := c.takeName("method name")
		if err != nil {
			return FunctionName{}, err
		}
		fn.Method = m
	}
	fn.Span = c.spanFrom(mark)
	return fn, nil
}

// parseScopedDecl parses everything after 'local' or 'global'. The
// contextual keywords record, interface, enum and type are ordinary
// identifiers, so each form is tried and rolled back before the plain
// variable declaration wins. 'local record = 1' declares a variable
// named record.
func (g *grammar) parseScopedDecl(c *cursor) (Statement, error) {
	kw := c.next()
	scope := ScopeLocal
	if kw.Type == tok.GLOBAL {
		scope = ScopeGlobal
	}

	if c.peek(tok.FUNCTION) {
		c.next()
		name, nameSpan, err := c.takeName("function name")
		if err != nil {
			return nil, err
		}
		fn, err := g.parseFunctionBody(c, kw.Position)
		if err != nil {
			return nil, err
		}
		return &ScopedFunctionStatement{
			BaseAstNode: newBase(SCOPED_FUNCTION_STATEMENT, fn.Span()),
			Scope:       scope,
			Name:        name,
			NameSpan:    nameSpan,
			Func:        fn,
		}, nil
	}

	if stmt, ok, err := g.tryTypeDecl(c, scope, kw); ok || err != nil {
		return stmt, err
	}

	return g.parseVariableDecl(c, scope, kw)
}

// tryTypeDecl attempts the record, interface, enum, and type alias
// forms. It reports ok=false with the cursor unchanged when the tokens
// fit none of them.
func (g *grammar) tryTypeDecl(c *cursor, scope DeclScope, kw tok.Token) (Statement, bool, error) {
	t, ok := c.peekToken()
	if !ok || t.Type != tok.IDENTIFIER {
		return nil, false, nil
	}
	mark := c.mark()

	switch t.Value {
	case "record", "interface":
		c.next()
		name, nameSpan, err := c.takeName("")
		if err != nil {
			c.reset(mark)
			return nil, false, nil
		}
		body, err := g.parseRecordBody(c)
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return nil, false, err
			}
			c.reset(mark)
			return nil, false, nil
		}
		return &RecordStatement{
			BaseAstNode: newBase(RECORD_STATEMENT, tok.Span{Start: kw.Position, End: body.Span.End}),
			Scope:       scope,
			Interface:   t.Value == "interface",
			Name:        name,
			NameSpan:    nameSpan,
			Body:        body,
		}, true, nil

	case "enum":
		c.next()
		name, nameSpan, err := c.takeName("")
		if err != nil {
			c.reset(mark)
			return nil, false, nil
		}
		variants, endTok, err := g.parseEnumBody(c)
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return nil, false, err
			}
			c.reset(mark)
			return nil, false, nil
		}
		return &EnumStatement{
			BaseAstNode: newBase(ENUM_STATEMENT, tok.Span{Start: kw.Position, End: endTok.End}),
			Scope:       scope,
			Name:        name,
			NameSpan:    nameSpan,
			Variants:    variants,
		}, true, nil

	case "type":
		c.next()
		name, nameSpan, err := c.takeName("")
		if err != nil {
			c.reset(mark)
			return nil, false, nil
		}
		if _, err := c.take("'='", assign); err != nil {
			c.reset(mark)
			return nil, false, nil
		}
		value, err := c.takeType()
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return nil, false, err
			}
			c.reset(mark)
			return nil, false, nil
		}
		return &TypeAliasStatement{
			BaseAstNode: newBase(TYPE_ALIAS_STATEMENT, tok.Span{Start: kw.Position, End: value.Span().End}),
			Scope:       scope,
			Name:        name,
			NameSpan:    nameSpan,
			Value:       value,
		}, true, nil
	}

	return nil, false, nil
}

func (g *grammar) parseVariableDecl(c *cursor, scope DeclScope, kw tok.Token) (Statement, error) {
	names, err := g.parseAttribNameList(c)
	if err != nil {
		return nil, err
	}

	var types []TypeExpression
	if _, ok := c.tryTake(colon); ok {
		types, err = g.parseTypeList(c)
		if err != nil {
			return nil, err
		}
	}

	var values []Expression
	if _, ok := c.tryTake(assign); ok {
		values, err = g.parseExprList(c)
		if err != nil {
			return nil, err
		}
	}

	end := names[len(names)-1].Span.End
	if len(types) > 0 {
		end = types[len(types)-1].Span().End
	}
	if len(values) > 0 {
		end = values[len(values)-1].Span().End
	}
	return &VariableStatement{
		BaseAstNode: newBase(VARIABLE_STATEMENT, tok.Span{Start: kw.Position, End: end}),
		Scope:       scope,
		Names:       names,
		Types:       types,
		Values:      values,
	}, nil
}

func (g *grammar) parseAttribNameList(c *cursor) ([]NameDecl, error) {
	decl, err := g.parseAttribName(c)
	if err != nil {
		return nil, err
	}
	decls := []NameDecl{decl}
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		d, err := g.parseAttribName(c)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (g *grammar) parseAttribName(c *cursor) (NameDecl, error) {
	mark := c.mark()
	name, span, err := c.takeName("name")
	if err != nil {
		return NameDecl{}, err
	}
	decl := NameDecl{Name: name, Span: span}
	if c.peek(tok.LESS_THAN) {
		c.next()
		attr, _, err := c.takeName("attribute")
		if err != nil {
			return NameDecl{}, err
		}
		if _, err := c.take("'>'", greaterThan); err != nil {
			return NameDecl{}, err
		}
		decl.Attribute = attr
		decl.Span = c.spanFrom(mark)
	}
	return decl, nil
}

// parseExprStatement parses the assignment/call fallback: a prefix
// expression followed by '=' or ',' starts an assignment, a bare call
// stands alone, anything else is not a statement.
func (g *grammar) parseExprStatement(c *cursor) (Statement, error) {
	out, err := c.take("", g.prefixExpr)
	if err != nil {
		return nil, err
	}
	first := exprOf(out[0])

	if c.peek(tok.COMMA) || c.peek(tok.ASSIGN) {
		targets := []Expression{first}
		for {
			if _, ok := c.tryTake(comma); !ok {
				break
			}
			tOut, err := c.take("", g.prefixExpr)
			if err != nil {
				if errors.Is(err, pc.ErrNotMatch) {
					c.noteHere("assignment target")
				}
				return nil, err
			}
			targets = append(targets, exprOf(tOut[0]))
		}
		if _, err := c.take("'='", assign); err != nil {
			return nil, err
		}
		for _, target := range targets {
			if !assignable(target) {
				return nil, critical(target.Span().Start, ErrInvalidAssignTarget, "cannot assign to this expression")
			}
		}
		values, err := g.parseExprList(c)
		if err != nil {
			return nil, err
		}
		return &AssignStatement{
			BaseAstNode: newBase(ASSIGN_STATEMENT, tok.Span{Start: first.Span().Start, End: values[len(values)-1].Span().End}),
			Targets:     targets,
			Values:      values,
		}, nil
	}

	switch first.(type) {
	case *CallExpression, *MethodCallExpression:
		return &CallStatement{
			BaseAstNode: newBase(CALL_STATEMENT, first.Span()),
			Call:        first,
		}, nil
	default:
		c.noteHere("'='")
		return nil, pc.ErrNotMatch
	}
}

// assignable reports whether an expression may stand on the left of an
// assignment. Parenthesized expressions may not.
func assignable(expr Expression) bool {
	switch expr.(type) {
	case *NameExpression, *IndexExpression, *FieldExpression:
		return true
	default:
		return false
	}
}

// parseRecordBody parses the body shared by records and interfaces:
// optional type parameters, an optional 'is' list, an optional 'where'
// clause, then entries through 'end'.
func (g *grammar) parseRecordBody(c *cursor) (*RecordBody, error) {
	mark := c.mark()

	typeParams, err := g.parseTypeParams(c)
	if err != nil {
		return nil, err
	}

	var interfaces []TypeExpression
	if _, ok := c.tryTake(kwIs); ok {
		interfaces, err = g.parseInterfaceList(c)
		if err != nil {
			return nil, err
		}
	}

	var where Expression
	if _, ok := c.tryTake(kwWhere); ok {
		where, err = c.takeExpr()
		if err != nil {
			return nil, err
		}
	}

	var entries []RecordEntry
	for {
		if c.peek(tok.END) {
			break
		}
		entry, err := g.parseRecordEntry(c)
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return nil, err
			}
			break
		}
		entries = append(entries, entry)
	}

	if _, err := c.take("'end'", kwEnd); err != nil {
		return nil, err
	}
	return &RecordBody{
		TypeParams: typeParams,
		Interfaces: interfaces,
		Where:      where,
		Entries:    entries,
		Span:       c.spanFrom(mark),
	}, nil
}

// parseInterfaceList parses the targets of an 'is' clause. Only the
// first element may be an array or map shorthand; the rest must be
// nominal.
func (g *grammar) parseInterfaceList(c *cursor) ([]TypeExpression, error) {
	var list []TypeExpression
	if c.peek(tok.OPEN_BRACE) {
		t, err := g.parseArrayOrMapType(c)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	} else {
		t, err := g.parseNominalType(c)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	for {
		if _, ok := c.tryTake(comma); !ok {
			break
		}
		t, err := g.parseNominalType(c)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}

func (g *grammar) parseEnumBody(c *cursor) ([]EnumVariant, tok.Token, error) {
	var variants []EnumVariant
	for {
		out, ok := c.tryTake(stringLit)
		if !ok {
			break
		}
		orig := out[0].Val.Original
		variants = append(variants, EnumVariant{Value: orig.Text, Raw: orig.Value, Span: orig.Span()})
	}
	c.noteHere("string")
	endOut, err := c.take("'end'", kwEnd)
	if err != nil {
		return nil, tok.Token{}, err
	}
	return variants, endOut[0].Val.Original, nil
}

// parseRecordEntry parses one record body entry. The contextual
// keywords double as field names, so each keyword form checks the
// tokens after it before committing; 'type: string' is a field named
// type.
func (g *grammar) parseRecordEntry(c *cursor) (RecordEntry, error) {
	t, ok := c.peekToken()
	if !ok || t.Type != tok.IDENTIFIER {
		return RecordEntry{}, pc.ErrNotMatch
	}
	mark := c.mark()

	switch t.Value {
	case "userdata":
		if !c.peekTypeAt(1, tok.COLON) {
			c.next()
			return RecordEntry{Userdata: true, Span: t.Span()}, nil
		}
	case "metamethod":
		if c.peekTypeAt(1, tok.IDENTIFIER) && c.peekTypeAt(2, tok.COLON) {
			c.next()
			name := c.next()
			c.next()
			typ, err := c.takeType()
			if err != nil {
				return RecordEntry{}, err
			}
			field := &RecordField{
				Name:       name.Value,
				NameSpan:   name.Span(),
				FieldType:  typ,
				Metamethod: true,
				Span:       c.spanFrom(mark),
			}
			return RecordEntry{Field: field, Span: field.Span}, nil
		}
	case "type":
		if c.peekTypeAt(1, tok.IDENTIFIER) && c.peekTypeAt(2, tok.ASSIGN) {
			kw := c.next()
			name := c.next()
			c.next()
			value, err := c.takeType()
			if err != nil {
				return RecordEntry{}, err
			}
			alias := &TypeAliasStatement{
				BaseAstNode: newBase(TYPE_ALIAS_STATEMENT, tok.Span{Start: kw.Position, End: value.Span().End}),
				Name:        name.Value,
				NameSpan:    name.Span(),
				Value:       value,
			}
			return RecordEntry{Alias: alias, Span: alias.Span()}, nil
		}
	case "record", "interface":
		if c.peekTypeAt(1, tok.IDENTIFIER) {
			kw := c.next()
			name := c.next()
			body, err := g.parseRecordBody(c)
			if err != nil {
				if errors.Is(err, pc.ErrCritical) {
					return RecordEntry{}, err
				}
				c.reset(mark)
				break
			}
			rec := &RecordStatement{
				BaseAstNode: newBase(RECORD_STATEMENT, tok.Span{Start: kw.Position, End: body.Span.End}),
				Interface:   t.Value == "interface",
				Name:        name.Value,
				NameSpan:    name.Span(),
				Body:        body,
			}
			return RecordEntry{Record: rec, Span: rec.Span()}, nil
		}
	case "enum":
		if c.peekTypeAt(1, tok.IDENTIFIER) {
			kw := c.next()
			name := c.next()
			variants, endTok, err := g.parseEnumBody(c)
			if err != nil {
				if errors.Is(err, pc.ErrCritical) {
					return RecordEntry{}, err
				}
				c.reset(mark)
				break
			}
			en := &EnumStatement{
				BaseAstNode: newBase(ENUM_STATEMENT, tok.Span{Start: kw.Position, End: endTok.End}),
				Name:        name.Value,
				NameSpan:    name.Span(),
				Variants:    variants,
			}
			return RecordEntry{Enum: en, Span: en.Span()}, nil
		}
	}

	name := c.next()
	if _, err := c.take("':'", colon); err != nil {
		return RecordEntry{}, err
	}
	typ, err := c.takeType()
	if err != nil {
		return RecordEntry{}, err
	}
	field := &RecordField{
		Name:      name.Value,
		NameSpan:  name.Span(),
		FieldType: typ,
		Span:      c.spanFrom(mark),
	}
	return RecordEntry{Field: field, Span: field.Span}, nil
}
