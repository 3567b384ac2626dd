package typeresolver

import (
	"strings"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/parser"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// export flattens the unit's top-level declarations into the published
// plain-data table. Types are rendered to canonical source syntax so the
// table carries no AST references.
func (r *resolver) export(block *parser.Block) *tlfront.TypeTable {
	table := &tlfront.TypeTable{Unit: r.opts.Unit}
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *parser.RecordStatement:
			table.Types = append(table.Types, exportRecord(s))
		case *parser.EnumStatement:
			table.Types = append(table.Types, exportEnum(s))
		case *parser.TypeAliasStatement:
			table.Types = append(table.Types, exportAlias(s))
		case *parser.VariableStatement:
			for i, name := range s.Names {
				typ := "any"
				if i < len(s.Types) {
					typ = s.Types[i].String()
				}
				table.Globals = append(table.Globals, &tlfront.ValueDecl{
					Name:  name.Name,
					Kind:  tlfront.DeclVariable,
					Scope: scopeString(s.Scope),
					Type:  typ,
					Span:  exportSpan(name.Span),
				})
			}
		case *parser.ScopedFunctionStatement:
			table.Globals = append(table.Globals, &tlfront.ValueDecl{
				Name:  s.Name,
				Kind:  tlfront.DeclFunction,
				Scope: scopeString(s.Scope),
				Type:  renderSignature(s.Func),
				Span:  exportSpan(s.NameSpan),
			})
		case *parser.FunctionStatement:
			// Dotted and method forms attach to an existing value, they
			// do not declare a unit-level name.
			if len(s.Name.Path) == 1 && s.Name.Method == "" {
				table.Globals = append(table.Globals, &tlfront.ValueDecl{
					Name:  s.Name.Path[0],
					Kind:  tlfront.DeclFunction,
					Scope: tlfront.ScopeGlobal,
					Type:  renderSignature(s.Func),
					Span:  exportSpan(s.Name.Span),
				})
			}
		}
	}
	return table
}

func exportRecord(s *parser.RecordStatement) *tlfront.TypeDecl {
	kind := tlfront.DeclRecord
	if s.Interface {
		kind = tlfront.DeclInterface
	}
	decl := &tlfront.TypeDecl{
		Name:  s.Name,
		Kind:  kind,
		Scope: scopeString(s.Scope),
		Span:  exportSpan(s.Span()),
	}
	for _, tp := range s.Body.TypeParams {
		decl.TypeParams = append(decl.TypeParams, tp.Name)
	}
	for _, ifc := range s.Body.Interfaces {
		decl.Interfaces = append(decl.Interfaces, ifc.String())
	}
	for _, entry := range s.Body.Entries {
		switch {
		case entry.Userdata:
			decl.Userdata = true
		case entry.Field != nil:
			decl.Fields = append(decl.Fields, &tlfront.FieldDecl{
				Name:       entry.Field.Name,
				Type:       entry.Field.FieldType.String(),
				Metamethod: entry.Field.Metamethod,
				Span:       exportSpan(entry.Span),
			})
		case entry.Record != nil:
			decl.Nested = append(decl.Nested, exportRecord(entry.Record))
		case entry.Enum != nil:
			decl.Nested = append(decl.Nested, exportEnum(entry.Enum))
		case entry.Alias != nil:
			decl.Nested = append(decl.Nested, exportAlias(entry.Alias))
		}
	}
	return decl
}

func exportEnum(s *parser.EnumStatement) *tlfront.TypeDecl {
	decl := &tlfront.TypeDecl{
		Name:  s.Name,
		Kind:  tlfront.DeclEnum,
		Scope: scopeString(s.Scope),
		Span:  exportSpan(s.Span()),
	}
	for _, v := range s.Variants {
		decl.Variants = append(decl.Variants, v.Value)
	}
	return decl
}

func exportAlias(s *parser.TypeAliasStatement) *tlfront.TypeDecl {
	return &tlfront.TypeDecl{
		Name:  s.Name,
		Kind:  tlfront.DeclAlias,
		Scope: scopeString(s.Scope),
		Alias: s.Value.String(),
		Span:  exportSpan(s.Span()),
	}
}

// renderSignature renders a declared function's type in the same syntax
// the type grammar accepts. Unannotated parameters and signatures
// without returns come out as the any-typed forms the checker assumes.
func renderSignature(fn *parser.FunctionExpression) string {
	var sb strings.Builder
	sb.WriteString("function")
	if len(fn.TypeParams) > 0 {
		names := make([]string, len(fn.TypeParams))
		for i, tp := range fn.TypeParams {
			names[i] = tp.Name
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	sb.WriteByte('(')
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Vararg {
			sb.WriteString("...")
			if p.ParamType != nil {
				sb.WriteString(": " + p.ParamType.String())
			}
			continue
		}
		sb.WriteString(p.Name)
		if p.Opt {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		if p.ParamType != nil {
			sb.WriteString(p.ParamType.String())
		} else {
			sb.WriteString("any")
		}
	}
	sb.WriteByte(')')
	for i, ret := range fn.Returns {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(ret.String())
	}
	return sb.String()
}

func scopeString(scope parser.DeclScope) string {
	if scope == parser.ScopeGlobal {
		return tlfront.ScopeGlobal
	}
	return tlfront.ScopeLocal
}

func exportSpan(span tok.Span) tlfront.Span {
	return tlfront.Span{
		StartLine:   span.Start.Line,
		StartColumn: span.Start.Column,
		EndLine:     span.End.Line,
		EndColumn:   span.End.Column,
	}
}
