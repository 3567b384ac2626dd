package parser

import (
	"strings"

	"github.com/tealwasm/tlfront/tokenizer"
)

// DeclScope tells whether a declaration binds a local or a global name.
type DeclScope int

const (
	ScopeNone DeclScope = iota
	ScopeLocal
	ScopeGlobal
)

func (s DeclScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeGlobal:
		return "global"
	default:
		return ""
	}
}

// NameDecl is a declared name with an optional angle-bracket attribute,
// as in `local x <const> = 1`.
type NameDecl struct {
	Name      string
	Attribute string
	Span      tokenizer.Span
}

// AssignStatement represents `varlist = exprlist`.
type AssignStatement struct {
	BaseAstNode
	Targets []Expression
	Values  []Expression
}

func (n *AssignStatement) String() string { return "ASSIGN" }
func (n *AssignStatement) stmtNode()      {}

// CallStatement is a function or method call in statement position.
type CallStatement struct {
	BaseAstNode
	Call Expression
}

func (n *CallStatement) String() string { return "CALL" }
func (n *CallStatement) stmtNode()      {}

// LabelStatement represents `::name::`.
type LabelStatement struct {
	BaseAstNode
	Name string
}

func (n *LabelStatement) String() string { return "::" + n.Name + "::" }
func (n *LabelStatement) stmtNode()      {}

// BreakStatement represents `break`.
type BreakStatement struct {
	BaseAstNode
}

func (n *BreakStatement) String() string { return "BREAK" }
func (n *BreakStatement) stmtNode()      {}

// GotoStatement represents `goto label`.
type GotoStatement struct {
	BaseAstNode
	Label string
}

func (n *GotoStatement) String() string { return "GOTO " + n.Label }
func (n *GotoStatement) stmtNode()      {}

// DoStatement represents a nested `do ... end` block.
type DoStatement struct {
	BaseAstNode
	Body *Block
}

func (n *DoStatement) String() string { return "DO" }
func (n *DoStatement) stmtNode()      {}

// WhileStatement represents `while cond do ... end`.
type WhileStatement struct {
	BaseAstNode
	Condition Expression
	Body      *Block
}

func (n *WhileStatement) String() string { return "WHILE" }
func (n *WhileStatement) stmtNode()      {}

// RepeatStatement represents `repeat ... until cond`.
type RepeatStatement struct {
	BaseAstNode
	Body  *Block
	Until Expression
}

func (n *RepeatStatement) String() string { return "REPEAT" }
func (n *RepeatStatement) stmtNode()      {}

// IfClause is one `if`/`elseif` arm of an IfStatement.
type IfClause struct {
	Condition Expression
	Body      *Block
	Span      tokenizer.Span
}

// IfStatement represents the whole if/elseif/else chain.
type IfStatement struct {
	BaseAstNode
	Clauses []IfClause
	Else    *Block
}

func (n *IfStatement) String() string { return "IF" }
func (n *IfStatement) stmtNode()      {}

// NumericForStatement represents `for i = start, limit[, step] do ... end`.
type NumericForStatement struct {
	BaseAstNode
	Name     string
	NameSpan tokenizer.Span
	Start    Expression
	Limit    Expression
	Step     Expression // nil when omitted
	Body     *Block
}

func (n *NumericForStatement) String() string { return "FOR " + n.Name }
func (n *NumericForStatement) stmtNode()      {}

// GenericForStatement represents `for a, b in exprs do ... end`.
type GenericForStatement struct {
	BaseAstNode
	Names []NameDecl
	Exprs []Expression
	Body  *Block
}

func (n *GenericForStatement) String() string { return "FOR IN" }
func (n *GenericForStatement) stmtNode()      {}

// FunctionName is the dotted, optionally method-style target of a
// function declaration, as in `function a.b.c:m()`.
type FunctionName struct {
	Path   []string
	Method string // empty unless declared with a colon
	Span   tokenizer.Span
}

func (f FunctionName) String() string {
	s := strings.Join(f.Path, ".")
	if f.Method != "" {
		s += ":" + f.Method
	}
	return s
}

// FunctionStatement binds a function literal to a dotted name.
type FunctionStatement struct {
	BaseAstNode
	Name FunctionName
	Func *FunctionExpression
}

func (n *FunctionStatement) String() string { return "FUNCTION " + n.Name.String() }
func (n *FunctionStatement) stmtNode()      {}

// ScopedFunctionStatement represents `local function f` / `global function f`.
type ScopedFunctionStatement struct {
	BaseAstNode
	Scope    DeclScope
	Name     string
	NameSpan tokenizer.Span
	Func     *FunctionExpression
}

func (n *ScopedFunctionStatement) String() string {
	return strings.ToUpper(n.Scope.String()) + " FUNCTION " + n.Name
}
func (n *ScopedFunctionStatement) stmtNode() {}

// VariableStatement represents local/global variable declarations with
// optional type annotations and initializers.
type VariableStatement struct {
	BaseAstNode
	Scope  DeclScope
	Names  []NameDecl
	Types  []TypeExpression // nil when no annotation list
	Values []Expression     // nil when no initializer list
}

func (n *VariableStatement) String() string {
	names := make([]string, len(n.Names))
	for i, name := range n.Names {
		names[i] = name.Name
	}
	return strings.ToUpper(n.Scope.String()) + " " + strings.Join(names, ", ")
}
func (n *VariableStatement) stmtNode() {}

// TypeParam is a generic type parameter introduced by a declaration.
type TypeParam struct {
	Name string
	Span tokenizer.Span
}

// RecordField is a field, method, or metamethod signature inside a
// record or interface body.
type RecordField struct {
	Name       string
	NameSpan   tokenizer.Span
	FieldType  TypeExpression
	Metamethod bool
	Span       tokenizer.Span
}

// RecordEntry is one ordered entry of a record body. Exactly one of the
// pointer fields is set, or Userdata is true.
type RecordEntry struct {
	Field    *RecordField
	Alias    *TypeAliasStatement
	Record   *RecordStatement
	Enum     *EnumStatement
	Userdata bool
	Span     tokenizer.Span
}

// RecordBody is the shared body shape of records and interfaces.
type RecordBody struct {
	TypeParams []TypeParam
	Interfaces []TypeExpression // `is` list; first element may be an array or map shorthand
	Where      Expression       // optional `where` clause
	Entries    []RecordEntry
	Span       tokenizer.Span
}

// RecordStatement declares a record or interface type.
type RecordStatement struct {
	BaseAstNode
	Scope     DeclScope
	Interface bool
	Name      string
	NameSpan  tokenizer.Span
	Body      *RecordBody
}

func (n *RecordStatement) String() string {
	if n.Interface {
		return "INTERFACE " + n.Name
	}
	return "RECORD " + n.Name
}
func (n *RecordStatement) stmtNode() {}

// EnumVariant is one string variant of an enum declaration.
type EnumVariant struct {
	Value string // decoded string contents
	Raw   string // raw lexeme including quotes
	Span  tokenizer.Span
}

// EnumStatement declares an enum type with ordered string variants.
type EnumStatement struct {
	BaseAstNode
	Scope    DeclScope
	Name     string
	NameSpan tokenizer.Span
	Variants []EnumVariant
}

func (n *EnumStatement) String() string { return "ENUM " + n.Name }
func (n *EnumStatement) stmtNode()      {}

// TypeAliasStatement represents `local type X = Y`.
type TypeAliasStatement struct {
	BaseAstNode
	Scope    DeclScope
	Name     string
	NameSpan tokenizer.Span
	Value    TypeExpression
}

func (n *TypeAliasStatement) String() string { return "TYPE " + n.Name }
func (n *TypeAliasStatement) stmtNode()      {}

// ReturnStatement is the optional trailing return of a block.
type ReturnStatement struct {
	BaseAstNode
	Values []Expression
}

func (n *ReturnStatement) String() string { return "RETURN" }
func (n *ReturnStatement) stmtNode()      {}
