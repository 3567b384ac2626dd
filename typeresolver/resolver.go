// Package typeresolver builds the symbol table for a parsed unit and
// validates every nominal type reference in it.
//
// Resolution works scope by scope in two passes: the first registers
// every type declared directly in a scope, so siblings can reference
// each other before their declaration; the second resolves type
// references, validates is-lists, and checks goto targets. Findings
// accumulate as diagnostics up to a configurable cap instead of
// aborting on the first problem.
package typeresolver

import (
	"fmt"
	"strings"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/parser"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// DefaultMaxErrors caps accumulated diagnostics when Options.MaxErrors
// is zero.
const DefaultMaxErrors = 20

// Options configures one resolution run.
type Options struct {
	Unit         string               // unit name stamped on the published table
	MaxErrors    int                  // diagnostic cap, DefaultMaxErrors when zero
	Dependencies []*tlfront.TypeTable // published tables of already-resolved units
}

// Resolve validates every type reference in block and publishes the
// unit's type table. The table is nil when any error diagnostic was
// produced; partially resolved declarations are never published.
func Resolve(block *parser.Block, opts Options) (*tlfront.TypeTable, []Diagnostic, error) {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = DefaultMaxErrors
	}
	r := &resolver{
		opts: opts,
		root: newScopeFrame(nil),
		ids:  make(map[parser.Statement]declID),
	}
	r.importDependencies()
	r.walkBlock(block, r.root, nil)

	errs := 0
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			errs++
		}
	}
	if errs > 0 {
		return nil, r.diags, fmt.Errorf("%w: %d error(s) in unit %q", ErrResolutionFailed, errs, opts.Unit)
	}
	return r.export(block), r.diags, nil
}

type resolver struct {
	opts   Options
	arena  []*declEntity
	root   *scopeFrame
	ids    map[parser.Statement]declID
	diags  []Diagnostic
	capped bool
}

func (r *resolver) report(d Diagnostic) {
	if r.capped {
		return
	}
	if len(r.diags) >= r.opts.MaxErrors {
		r.capped = true
		r.diags = append(r.diags, Diagnostic{
			Severity: SeverityError,
			Kind:     ErrTooManyErrors,
			Message:  fmt.Sprintf("more than %d problems, reporting stopped", r.opts.MaxErrors),
			Span:     d.Span,
		})
		return
	}
	r.diags = append(r.diags, d)
}

func (r *resolver) errorf(kind error, span tok.Span, format string, args ...any) {
	r.report(Diagnostic{Severity: SeverityError, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span})
}

func (r *resolver) warnf(kind error, span tok.Span, format string, args ...any) {
	r.report(Diagnostic{Severity: SeverityWarning, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span})
}

func (r *resolver) newEntity(kind declKind, name string, span tok.Span) *declEntity {
	ent := &declEntity{id: declID(len(r.arena)), kind: kind, name: name, span: span}
	r.arena = append(r.arena, ent)
	return ent
}

func (r *resolver) entity(id declID) *declEntity { return r.arena[id] }

// importDependencies makes every global declaration of the dependency
// tables visible in the root scope, the way the global declarations of
// an already-loaded unit are visible to the units loaded after it.
func (r *resolver) importDependencies() {
	for _, dep := range r.opts.Dependencies {
		if dep == nil {
			continue
		}
		for _, decl := range dep.Types {
			if decl.Scope != tlfront.ScopeGlobal {
				continue
			}
			id := r.importDecl(decl)
			if _, ok := r.root.declare(decl.Name, id); !ok {
				r.errorf(ErrDuplicateDecl, tok.Span{},
					"type %q from unit %q collides with an earlier import", decl.Name, dep.Unit)
			}
		}
	}
}

func (r *resolver) importDecl(decl *tlfront.TypeDecl) declID {
	ent := r.newEntity(declImported, decl.Name, tok.Span{})
	ent.imported = decl.Kind
	if len(decl.Nested) > 0 {
		ent.nested = make(map[string]declID, len(decl.Nested))
		for _, n := range decl.Nested {
			ent.nested[n.Name] = r.importDecl(n)
		}
	}
	return ent.id
}

// walkBlock resolves one lexical block: register the types its direct
// statements declare, wire alias targets, then walk everything.
func (r *resolver) walkBlock(block *parser.Block, parent *scopeFrame, labels *labelFrame) {
	frame := newScopeFrame(parent)
	lframe := newLabelFrame(labels)

	for _, stmt := range block.Statements {
		if label, ok := stmt.(*parser.LabelStatement); ok {
			lframe.names[label.Name] = true
		}
		r.registerStmt(stmt, frame)
	}
	for _, stmt := range block.Statements {
		r.wireAliases(stmt, frame)
	}
	for _, stmt := range block.Statements {
		r.walkStmt(stmt, frame, lframe)
	}
	if block.Return != nil {
		for _, value := range block.Return.Values {
			r.walkExpr(value, frame)
		}
	}
}

func (r *resolver) registerStmt(stmt parser.Statement, frame *scopeFrame) {
	switch s := stmt.(type) {
	case *parser.RecordStatement:
		r.registerRecord(s, frame, r.bindFrame(s.Scope, frame))
	case *parser.EnumStatement:
		ent := r.newEntity(declEnum, s.Name, s.NameSpan)
		r.ids[s] = ent.id
		r.bind(r.bindFrame(s.Scope, frame), ent)
	case *parser.TypeAliasStatement:
		ent := r.newEntity(declAlias, s.Name, s.NameSpan)
		ent.aliasStmt = s
		r.ids[s] = ent.id
		r.bind(r.bindFrame(s.Scope, frame), ent)
	}
}

// bindFrame picks the frame a declaration's name lands in. Global
// declarations bind at the root so later top-level code and other units
// can see them.
func (r *resolver) bindFrame(scope parser.DeclScope, frame *scopeFrame) *scopeFrame {
	if scope == parser.ScopeGlobal {
		return r.root
	}
	return frame
}

func (r *resolver) bind(frame *scopeFrame, ent *declEntity) {
	existing, ok := frame.declare(ent.name, ent.id)
	if ok {
		return
	}
	prev := r.entity(existing)
	if prev.kind == declImported {
		r.errorf(ErrDuplicateDecl, ent.span, "%s %q collides with an imported type", ent.kind, ent.name)
		return
	}
	r.errorf(ErrDuplicateDecl, ent.span, "%s %q already declared at line %d, column %d",
		ent.kind, ent.name, prev.span.Start.Line, prev.span.Start.Column)
}

// registerRecord registers a record and everything declared inside its
// body. Body contents are registered up front because sibling scans need
// the nested name map before the record itself is walked.
func (r *resolver) registerRecord(s *parser.RecordStatement, lexical, bindTo *scopeFrame) {
	kind := declRecord
	if s.Interface {
		kind = declInterface
	}
	ent := r.newEntity(kind, s.Name, s.NameSpan)
	r.ids[s] = ent.id
	r.bind(bindTo, ent)

	body := newScopeFrame(lexical)
	ent.frame = body
	ent.nested = make(map[string]declID)

	for _, tp := range s.Body.TypeParams {
		r.bind(body, r.newEntity(declTypeParam, tp.Name, tp.Span))
	}
	for _, entry := range s.Body.Entries {
		switch {
		case entry.Record != nil:
			r.registerRecord(entry.Record, body, body)
			r.addNested(ent, entry.Record.Name, r.ids[entry.Record])
		case entry.Enum != nil:
			nested := r.newEntity(declEnum, entry.Enum.Name, entry.Enum.NameSpan)
			r.ids[entry.Enum] = nested.id
			r.bind(body, nested)
			r.addNested(ent, entry.Enum.Name, nested.id)
		case entry.Alias != nil:
			nested := r.newEntity(declAlias, entry.Alias.Name, entry.Alias.NameSpan)
			nested.aliasStmt = entry.Alias
			r.ids[entry.Alias] = nested.id
			r.bind(body, nested)
			r.addNested(ent, entry.Alias.Name, nested.id)
		}
	}
}

func (r *resolver) addNested(parent *declEntity, name string, id declID) {
	if _, ok := parent.nested[name]; !ok {
		parent.nested[name] = id
	}
}

// wireAliases resolves the nominal target of every alias registered in
// this scope, so alias chasing never depends on walk order.
func (r *resolver) wireAliases(stmt parser.Statement, frame *scopeFrame) {
	switch s := stmt.(type) {
	case *parser.TypeAliasStatement:
		r.wireAlias(r.ids[s], frame)
	case *parser.RecordStatement:
		r.wireRecordAliases(s)
	}
}

func (r *resolver) wireRecordAliases(s *parser.RecordStatement) {
	ent := r.entity(r.ids[s])
	for _, entry := range s.Body.Entries {
		switch {
		case entry.Alias != nil:
			r.wireAlias(r.ids[entry.Alias], ent.frame)
		case entry.Record != nil:
			r.wireRecordAliases(entry.Record)
		}
	}
}

func (r *resolver) wireAlias(id declID, scope *scopeFrame) {
	ent := r.entity(id)
	nom, ok := ent.aliasStmt.Value.(*parser.NominalType)
	if !ok {
		return
	}
	if target, found := r.lookupNominal(nom, scope); found {
		ent.target = target
		ent.targetSet = true
	}
}

func (r *resolver) walkStmt(stmt parser.Statement, frame *scopeFrame, labels *labelFrame) {
	switch s := stmt.(type) {
	case *parser.VariableStatement:
		for _, t := range s.Types {
			r.resolveType(t, frame)
		}
		for _, v := range s.Values {
			r.walkExpr(v, frame)
		}
	case *parser.AssignStatement:
		for _, t := range s.Targets {
			r.walkExpr(t, frame)
		}
		for _, v := range s.Values {
			r.walkExpr(v, frame)
		}
	case *parser.CallStatement:
		r.walkExpr(s.Call, frame)
	case *parser.GotoStatement:
		if !labels.visible(s.Label) {
			r.errorf(ErrUnresolvedGoto, s.Span(), "no visible label %q for goto", s.Label)
		}
	case *parser.DoStatement:
		r.walkBlock(s.Body, frame, labels)
	case *parser.WhileStatement:
		r.walkExpr(s.Condition, frame)
		r.walkBlock(s.Body, frame, labels)
	case *parser.RepeatStatement:
		r.walkBlock(s.Body, frame, labels)
		r.walkExpr(s.Until, frame)
	case *parser.IfStatement:
		for _, clause := range s.Clauses {
			r.walkExpr(clause.Condition, frame)
			r.walkBlock(clause.Body, frame, labels)
		}
		if s.Else != nil {
			r.walkBlock(s.Else, frame, labels)
		}
	case *parser.NumericForStatement:
		r.walkExpr(s.Start, frame)
		r.walkExpr(s.Limit, frame)
		if s.Step != nil {
			r.walkExpr(s.Step, frame)
		}
		r.walkBlock(s.Body, frame, labels)
	case *parser.GenericForStatement:
		for _, e := range s.Exprs {
			r.walkExpr(e, frame)
		}
		r.walkBlock(s.Body, frame, labels)
	case *parser.FunctionStatement:
		r.walkFunction(s.Func, frame)
	case *parser.ScopedFunctionStatement:
		r.walkFunction(s.Func, frame)
	case *parser.RecordStatement:
		r.walkRecord(s)
	case *parser.EnumStatement:
		r.checkEnum(s)
	case *parser.TypeAliasStatement:
		r.walkAlias(s, frame)
	}
}

func (r *resolver) walkExpr(expr parser.Expression, frame *scopeFrame) {
	switch e := expr.(type) {
	case *parser.ParenExpression:
		r.walkExpr(e.Inner, frame)
	case *parser.UnaryExpression:
		r.walkExpr(e.Operand, frame)
	case *parser.BinaryExpression:
		r.walkExpr(e.Left, frame)
		r.walkExpr(e.Right, frame)
	case *parser.IndexExpression:
		r.walkExpr(e.Target, frame)
		r.walkExpr(e.Key, frame)
	case *parser.FieldExpression:
		r.walkExpr(e.Target, frame)
	case *parser.CallExpression:
		r.walkExpr(e.Target, frame)
		for _, arg := range e.Args {
			r.walkExpr(arg, frame)
		}
	case *parser.MethodCallExpression:
		r.walkExpr(e.Target, frame)
		for _, arg := range e.Args {
			r.walkExpr(arg, frame)
		}
	case *parser.FunctionExpression:
		r.walkFunction(e, frame)
	case *parser.TableExpression:
		for _, field := range e.Fields {
			if field.FieldType != nil {
				r.resolveType(field.FieldType, frame)
			}
			if field.Key != nil {
				r.walkExpr(field.Key, frame)
			}
			r.walkExpr(field.Value, frame)
		}
	case *parser.CastExpression:
		r.walkExpr(e.Value, frame)
		for _, t := range e.Types {
			r.resolveType(t, frame)
		}
	case *parser.IsExpression:
		r.walkExpr(e.Value, frame)
		r.resolveType(e.TestType, frame)
	}
}

// walkFunction resolves a function literal. Generic parameters are
// visible through the signature and the body; the body starts a fresh
// label chain.
func (r *resolver) walkFunction(fn *parser.FunctionExpression, parent *scopeFrame) {
	frame := newScopeFrame(parent)
	for _, tp := range fn.TypeParams {
		r.bind(frame, r.newEntity(declTypeParam, tp.Name, tp.Span))
	}
	for _, param := range fn.Params {
		if param.ParamType != nil {
			r.resolveType(param.ParamType, frame)
		}
	}
	for _, ret := range fn.Returns {
		r.resolveType(ret, frame)
	}
	r.walkBlock(fn.Body, frame, nil)
}

func (r *resolver) walkRecord(s *parser.RecordStatement) {
	ent := r.entity(r.ids[s])
	frame := ent.frame

	seen := make(map[string]bool)
	for _, ifc := range s.Body.Interfaces {
		r.resolveType(ifc, frame)
		r.checkInterfaceEntry(ifc, frame)
		if nom, ok := ifc.(*parser.NominalType); ok {
			name := nom.String()
			if seen[name] {
				r.warnf(ErrDuplicateDecl, nom.Span(), "interface %q repeated in is list", name)
			}
			seen[name] = true
		}
	}
	if s.Body.Where != nil {
		r.walkExpr(s.Body.Where, frame)
	}
	for _, entry := range s.Body.Entries {
		switch {
		case entry.Field != nil:
			r.resolveType(entry.Field.FieldType, frame)
		case entry.Record != nil:
			r.walkRecord(entry.Record)
		case entry.Enum != nil:
			r.checkEnum(entry.Enum)
		case entry.Alias != nil:
			r.walkAlias(entry.Alias, frame)
		}
	}
}

func (r *resolver) walkAlias(s *parser.TypeAliasStatement, frame *scopeFrame) {
	r.resolveType(s.Value, frame)
	ent := r.entity(r.ids[s])
	switch value := s.Value.(type) {
	case *parser.NominalType:
		if ent.targetSet {
			if _, acyclic := r.chase(ent.id); !acyclic {
				r.errorf(ErrRecursiveType, ent.span, "type alias %q refers back to itself", ent.name)
			}
		}
	case *parser.UnionType:
		for _, member := range value.Members {
			nom, ok := member.(*parser.NominalType)
			if !ok {
				continue
			}
			mid, found := r.lookupNominal(nom, frame)
			if !found {
				continue
			}
			if r.chaseHits(mid, ent.id) {
				r.errorf(ErrRecursiveType, nom.Span(),
					"union member %q refers back to %q without a nominal indirection", nom.String(), ent.name)
			}
		}
	}
}

func (r *resolver) checkEnum(s *parser.EnumStatement) {
	seen := make(map[string]bool, len(s.Variants))
	for _, v := range s.Variants {
		if seen[v.Value] {
			r.errorf(ErrDuplicateVariant, v.Span, "enum %q repeats variant %q", s.Name, v.Value)
			continue
		}
		seen[v.Value] = true
	}
}

// checkInterfaceEntry validates one is-list entry. Array and map
// shorthands are structural and always acceptable; a nominal entry must
// name a record or interface once aliases are chased. Imported aliases
// stay opaque, the exporting unit already validated them.
func (r *resolver) checkInterfaceEntry(t parser.TypeExpression, scope *scopeFrame) {
	nom, ok := t.(*parser.NominalType)
	if !ok {
		return
	}
	id, found := r.lookupNominal(nom, scope)
	if !found {
		return // unknown, already reported
	}
	final, _ := r.chase(id)
	switch final.kind {
	case declRecord, declInterface:
	case declImported:
		switch final.imported {
		case tlfront.DeclRecord, tlfront.DeclInterface, tlfront.DeclAlias:
		default:
			r.errorf(ErrNotAnInterface, nom.Span(), "%q is not a record or interface", nom.String())
		}
	default:
		r.errorf(ErrNotAnInterface, nom.Span(), "%q is not a record or interface", nom.String())
	}
}

// chase follows an alias chain to the entity it ultimately names. The
// second result is false when the chain loops.
func (r *resolver) chase(id declID) (*declEntity, bool) {
	seen := make(map[declID]bool)
	for {
		ent := r.entity(id)
		if ent.kind != declAlias || !ent.targetSet {
			return ent, true
		}
		if seen[id] {
			return ent, false
		}
		seen[id] = true
		id = ent.target
	}
}

// chaseHits reports whether following alias targets from id ever
// reaches target.
func (r *resolver) chaseHits(id, target declID) bool {
	seen := make(map[declID]bool)
	for {
		if id == target {
			return true
		}
		ent := r.entity(id)
		if ent.kind != declAlias || !ent.targetSet || seen[id] {
			return false
		}
		seen[id] = true
		id = ent.target
	}
}

// lookupNominal resolves a dotted path without reporting. The first
// segment walks the scope chain, later segments walk record bodies.
func (r *resolver) lookupNominal(t *parser.NominalType, scope *scopeFrame) (declID, bool) {
	id, ok := scope.lookup(t.Path[0])
	if !ok {
		return 0, false
	}
	for _, segment := range t.Path[1:] {
		next, ok := r.entity(id).nested[segment]
		if !ok {
			return 0, false
		}
		id = next
	}
	return id, true
}

func (r *resolver) resolveNominal(t *parser.NominalType, scope *scopeFrame) {
	if _, ok := r.lookupNominal(t, scope); !ok {
		r.errorf(ErrUnknownType, t.Span(), "unknown type %q", strings.Join(t.Path, "."))
	}
	for _, arg := range t.Args {
		r.resolveType(arg, scope)
	}
}

// resolveType checks every nominal reference inside a type expression.
func (r *resolver) resolveType(t parser.TypeExpression, scope *scopeFrame) {
	switch t := t.(type) {
	case *parser.NominalType:
		r.resolveNominal(t, scope)
	case *parser.ArrayType:
		r.resolveType(t.Element, scope)
	case *parser.MapType:
		r.resolveType(t.Key, scope)
		r.resolveType(t.Value, scope)
	case *parser.FunctionType:
		for _, p := range t.Params {
			if p.ParamType != nil {
				r.resolveType(p.ParamType, scope)
			}
		}
		for _, ret := range t.Returns {
			r.resolveType(ret, scope)
		}
	case *parser.UnionType:
		for _, member := range t.Members {
			r.resolveType(member, scope)
		}
	}
}
