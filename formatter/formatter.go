// Package formatter renders parsed units back to canonical source.
//
// Output is deterministic: one statement per line, fixed indentation,
// minimal parentheses, `,` separators in tables, no semicolons.
// Reparsing the output yields a structurally identical tree, which is
// what makes the fmt command idempotent.
package formatter

import (
	"fmt"
	"strings"

	"github.com/tealwasm/tlfront/parser"
)

// DefaultIndent is the indent width in spaces.
const DefaultIndent = 3

// Formatter renders ASTs to canonical source text.
type Formatter struct {
	indent string
}

// New creates a formatter with the default indent width.
func New() *Formatter {
	return NewWithIndent(DefaultIndent)
}

// NewWithIndent creates a formatter indenting by width spaces.
func NewWithIndent(width int) *Formatter {
	if width <= 0 {
		width = DefaultIndent
	}
	return &Formatter{indent: strings.Repeat(" ", width)}
}

// Format renders a parsed unit. Output ends with a newline unless the
// unit is empty.
func (f *Formatter) Format(block *parser.Block) string {
	p := &printer{indent: f.indent}
	p.chunk(block)
	return p.sb.String()
}

// FormatSource parses src and renders it back.
func (f *Formatter) FormatSource(src string) (string, error) {
	block, err := parser.Parse(src)
	if err != nil {
		return "", fmt.Errorf("source does not parse: %w", err)
	}
	return f.Format(block), nil
}

type printer struct {
	sb     strings.Builder
	indent string
	depth  int
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.sb.WriteString(p.indent)
	}
}

func (p *printer) chunk(block *parser.Block) {
	for _, s := range block.Statements {
		p.stmt(s)
	}
	if block.Return != nil {
		p.returnStmt(block.Return)
	}
}

func (p *printer) block(b *parser.Block) {
	p.depth++
	p.chunk(b)
	p.depth--
}

func (p *printer) stmt(stmt parser.Statement) {
	p.writeIndent()
	switch s := stmt.(type) {
	case *parser.VariableStatement:
		p.sb.WriteString(scopePrefix(s.Scope))
		for i, name := range s.Names {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(name.Name)
			if name.Attribute != "" {
				p.sb.WriteString(" <" + name.Attribute + ">")
			}
		}
		if len(s.Types) > 0 {
			p.sb.WriteString(": ")
			p.typeList(s.Types)
		}
		if len(s.Values) > 0 {
			p.sb.WriteString(" = ")
			p.exprList(s.Values)
		}
	case *parser.AssignStatement:
		p.exprList(s.Targets)
		p.sb.WriteString(" = ")
		p.exprList(s.Values)
	case *parser.CallStatement:
		p.expr(s.Call)
	case *parser.LabelStatement:
		p.sb.WriteString("::" + s.Name + "::")
	case *parser.BreakStatement:
		p.sb.WriteString("break")
	case *parser.GotoStatement:
		p.sb.WriteString("goto " + s.Label)
	case *parser.DoStatement:
		p.sb.WriteString("do\n")
		p.block(s.Body)
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.WhileStatement:
		p.sb.WriteString("while ")
		p.expr(s.Condition)
		p.sb.WriteString(" do\n")
		p.block(s.Body)
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.RepeatStatement:
		p.sb.WriteString("repeat\n")
		p.block(s.Body)
		p.writeIndent()
		p.sb.WriteString("until ")
		p.expr(s.Until)
	case *parser.IfStatement:
		for i, clause := range s.Clauses {
			if i == 0 {
				p.sb.WriteString("if ")
			} else {
				p.writeIndent()
				p.sb.WriteString("elseif ")
			}
			p.expr(clause.Condition)
			p.sb.WriteString(" then\n")
			p.block(clause.Body)
		}
		if s.Else != nil {
			p.writeIndent()
			p.sb.WriteString("else\n")
			p.block(s.Else)
		}
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.NumericForStatement:
		p.sb.WriteString("for " + s.Name + " = ")
		p.expr(s.Start)
		p.sb.WriteString(", ")
		p.expr(s.Limit)
		if s.Step != nil {
			p.sb.WriteString(", ")
			p.expr(s.Step)
		}
		p.sb.WriteString(" do\n")
		p.block(s.Body)
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.GenericForStatement:
		p.sb.WriteString("for ")
		for i, name := range s.Names {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(name.Name)
		}
		p.sb.WriteString(" in ")
		p.exprList(s.Exprs)
		p.sb.WriteString(" do\n")
		p.block(s.Body)
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.FunctionStatement:
		p.sb.WriteString("function " + s.Name.String())
		p.funcTail(s.Func)
	case *parser.ScopedFunctionStatement:
		p.sb.WriteString(scopePrefix(s.Scope) + "function " + s.Name)
		p.funcTail(s.Func)
	case *parser.RecordStatement:
		p.record(s)
	case *parser.EnumStatement:
		p.sb.WriteString(scopePrefix(s.Scope) + "enum " + s.Name + "\n")
		p.depth++
		for _, v := range s.Variants {
			p.writeIndent()
			p.sb.WriteString(v.Raw + "\n")
		}
		p.depth--
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.TypeAliasStatement:
		p.sb.WriteString(scopePrefix(s.Scope) + "type " + s.Name + " = " + s.Value.String())
	case *parser.ReturnStatement:
		// blocks carry their return separately; handled for completeness
		p.sb.WriteString("return")
		if len(s.Values) > 0 {
			p.sb.WriteByte(' ')
			p.exprList(s.Values)
		}
	}
	p.sb.WriteByte('\n')
}

func (p *printer) returnStmt(s *parser.ReturnStatement) {
	p.writeIndent()
	p.sb.WriteString("return")
	if len(s.Values) > 0 {
		p.sb.WriteByte(' ')
		p.exprList(s.Values)
	}
	p.sb.WriteByte('\n')
}

func (p *printer) record(s *parser.RecordStatement) {
	p.sb.WriteString(scopePrefix(s.Scope))
	if s.Interface {
		p.sb.WriteString("interface ")
	} else {
		p.sb.WriteString("record ")
	}
	p.sb.WriteString(s.Name)
	if len(s.Body.TypeParams) > 0 {
		p.sb.WriteByte('<')
		for i, tp := range s.Body.TypeParams {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(tp.Name)
		}
		p.sb.WriteByte('>')
	}
	if len(s.Body.Interfaces) > 0 {
		p.sb.WriteString(" is ")
		p.typeList(s.Body.Interfaces)
	}
	if s.Body.Where != nil {
		p.sb.WriteString(" where ")
		p.expr(s.Body.Where)
	}
	p.sb.WriteByte('\n')
	p.depth++
	for _, entry := range s.Body.Entries {
		switch {
		case entry.Userdata:
			p.writeIndent()
			p.sb.WriteString("userdata\n")
		case entry.Field != nil:
			p.writeIndent()
			if entry.Field.Metamethod {
				p.sb.WriteString("metamethod ")
			}
			p.sb.WriteString(entry.Field.Name + ": " + entry.Field.FieldType.String() + "\n")
		case entry.Record != nil:
			p.stmt(entry.Record)
		case entry.Enum != nil:
			p.stmt(entry.Enum)
		case entry.Alias != nil:
			p.stmt(entry.Alias)
		}
	}
	p.depth--
	p.writeIndent()
	p.sb.WriteString("end")
}

func (p *printer) funcTail(fn *parser.FunctionExpression) {
	p.signature(fn)
	p.sb.WriteByte('\n')
	p.block(fn.Body)
	p.writeIndent()
	p.sb.WriteString("end")
}

func (p *printer) signature(fn *parser.FunctionExpression) {
	if len(fn.TypeParams) > 0 {
		p.sb.WriteByte('<')
		for i, tp := range fn.TypeParams {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(tp.Name)
		}
		p.sb.WriteByte('>')
	}
	p.sb.WriteByte('(')
	for i, param := range fn.Params {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		if param.Vararg {
			p.sb.WriteString("...")
			if param.ParamType != nil {
				p.sb.WriteString(": " + param.ParamType.String())
			}
			continue
		}
		p.sb.WriteString(param.Name)
		if param.Opt {
			p.sb.WriteByte('?')
		}
		if param.ParamType != nil {
			p.sb.WriteString(": " + param.ParamType.String())
		}
	}
	p.sb.WriteByte(')')
	if len(fn.Returns) > 0 {
		p.sb.WriteString(": ")
		p.typeList(fn.Returns)
	}
}

func (p *printer) exprList(exprs []parser.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.expr(e)
	}
}

func (p *printer) typeList(types []parser.TypeExpression) {
	for i, t := range types {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(t.String())
	}
}

func (p *printer) expr(e parser.Expression) { p.exprIn(e, 0) }

// exprIn prints e in a context that re-attaches binary operators whose
// left binding power exceeds limit; looser operators get parentheses.
// Trees that came from a parse never trigger the parentheses (explicit
// grouping is a ParenExpression node), but hand-built trees stay
// correct.
func (p *printer) exprIn(e parser.Expression, limit int) {
	b, ok := e.(*parser.BinaryExpression)
	if !ok {
		p.operand(e)
		return
	}
	left, right, known := parser.BinaryPower(b.Op)
	wrap := !known || left <= limit
	if wrap {
		p.sb.WriteByte('(')
	}
	leftLimit := left - 1
	if right < left {
		// Right-associative: an equal-power left child cannot re-attach.
		leftLimit = left
	}
	p.exprIn(b.Left, leftLimit)
	p.sb.WriteString(" " + b.Op.String() + " ")
	p.exprIn(b.Right, right)
	if wrap {
		p.sb.WriteByte(')')
	}
}

func (p *printer) operand(e parser.Expression) {
	switch e := e.(type) {
	case *parser.NilLiteral:
		p.sb.WriteString("nil")
	case *parser.BooleanLiteral:
		p.sb.WriteString(e.String())
	case *parser.NumberLiteral:
		p.sb.WriteString(e.Raw)
	case *parser.StringLiteral:
		p.sb.WriteString(e.Raw)
	case *parser.VarargLiteral:
		p.sb.WriteString("...")
	case *parser.NameExpression:
		p.sb.WriteString(e.Name)
	case *parser.ParenExpression:
		p.sb.WriteByte('(')
		p.expr(e.Inner)
		p.sb.WriteByte(')')
	case *parser.UnaryExpression:
		p.unary(e)
	case *parser.IndexExpression:
		p.prefixTarget(e.Target)
		p.sb.WriteByte('[')
		p.expr(e.Key)
		p.sb.WriteByte(']')
	case *parser.FieldExpression:
		p.prefixTarget(e.Target)
		p.sb.WriteString("." + e.Field)
	case *parser.CallExpression:
		p.prefixTarget(e.Target)
		p.sb.WriteByte('(')
		p.exprList(e.Args)
		p.sb.WriteByte(')')
	case *parser.MethodCallExpression:
		p.prefixTarget(e.Target)
		p.sb.WriteString(":" + e.Method + "(")
		p.exprList(e.Args)
		p.sb.WriteByte(')')
	case *parser.FunctionExpression:
		p.sb.WriteString("function")
		p.signature(e)
		p.sb.WriteByte('\n')
		p.block(e.Body)
		p.writeIndent()
		p.sb.WriteString("end")
	case *parser.TableExpression:
		p.table(e)
	case *parser.CastExpression:
		p.castValue(e.Value)
		p.sb.WriteString(" as ")
		if len(e.Types) == 1 {
			p.sb.WriteString(e.Types[0].String())
		} else {
			p.sb.WriteByte('(')
			p.typeList(e.Types)
			p.sb.WriteByte(')')
		}
	case *parser.IsExpression:
		p.castValue(e.Value)
		p.sb.WriteString(" is " + e.TestType.String())
	default:
		p.sb.WriteString(e.String())
	}
}

func (p *printer) unary(e *parser.UnaryExpression) {
	switch e.Op {
	case parser.OpNot:
		p.sb.WriteString("not ")
	case parser.OpNeg:
		p.sb.WriteByte('-')
		if inner, ok := e.Operand.(*parser.UnaryExpression); ok && inner.Op == parser.OpNeg {
			p.sb.WriteByte(' ') // -- would lex as a comment
		}
	case parser.OpLen:
		p.sb.WriteByte('#')
	}
	if _, ok := e.Operand.(*parser.BinaryExpression); ok {
		p.sb.WriteByte('(')
		p.expr(e.Operand)
		p.sb.WriteByte(')')
		return
	}
	p.operand(e.Operand)
}

// prefixTarget prints the target of a call, index, or field suffix.
// Only prefix-shaped expressions may appear bare there; anything else
// needs parentheses to reparse.
func (p *printer) prefixTarget(e parser.Expression) {
	switch e.(type) {
	case *parser.NameExpression, *parser.ParenExpression, *parser.IndexExpression,
		*parser.FieldExpression, *parser.CallExpression, *parser.MethodCallExpression:
		p.operand(e)
	default:
		p.sb.WriteByte('(')
		p.expr(e)
		p.sb.WriteByte(')')
	}
}

// castValue prints the left side of `as` and `is`, which the grammar
// reads as a suffix on a simple expression.
func (p *printer) castValue(e parser.Expression) {
	switch e.(type) {
	case *parser.BinaryExpression, *parser.UnaryExpression:
		p.sb.WriteByte('(')
		p.expr(e)
		p.sb.WriteByte(')')
	default:
		p.operand(e)
	}
}

func (p *printer) table(e *parser.TableExpression) {
	if len(e.Fields) == 0 {
		p.sb.WriteString("{}")
		return
	}
	p.sb.WriteString("{ ")
	for i, field := range e.Fields {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		switch {
		case field.Name != "":
			p.sb.WriteString(field.Name)
			if field.FieldType != nil {
				p.sb.WriteString(": " + field.FieldType.String())
			}
			p.sb.WriteString(" = ")
			p.expr(field.Value)
		case field.Key != nil:
			p.sb.WriteByte('[')
			p.expr(field.Key)
			p.sb.WriteString("] = ")
			p.expr(field.Value)
		default:
			p.expr(field.Value)
		}
	}
	p.sb.WriteString(" }")
}

func scopePrefix(scope parser.DeclScope) string {
	switch scope {
	case parser.ScopeLocal:
		return "local "
	case parser.ScopeGlobal:
		return "global "
	default:
		return ""
	}
}
