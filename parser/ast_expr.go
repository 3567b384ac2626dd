package parser

import (
	"github.com/shopspring/decimal"
	"github.com/tealwasm/tlfront/tokenizer"
)

// Operator identifies unary and binary operators.
type Operator int

const (
	OpNone Operator = iota

	// Binary operators
	OpOr
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpConcat
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow

	// Unary operators
	OpNot
	OpNeg
	OpLen
)

// String returns the source form of the operator.
func (o Operator) String() string {
	switch o {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpEq:
		return "=="
	case OpNe:
		return "~="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpConcat:
		return ".."
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpNot:
		return "not"
	case OpLen:
		return "#"
	default:
		return "?"
	}
}

// NilLiteral represents `nil`.
type NilLiteral struct {
	BaseAstNode
}

func (n *NilLiteral) String() string { return "nil" }
func (n *NilLiteral) exprNode()      {}

// BooleanLiteral represents `true` or `false`.
type BooleanLiteral struct {
	BaseAstNode
	Value bool
}

func (n *BooleanLiteral) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}
func (n *BooleanLiteral) exprNode() {}

// NumberLiteral carries the exact decoded value of a numeric literal.
type NumberLiteral struct {
	BaseAstNode
	Value     decimal.Decimal
	IsInteger bool
	Raw       string
}

func (n *NumberLiteral) String() string { return n.Raw }
func (n *NumberLiteral) exprNode()      {}

// StringLiteral carries the decoded contents of a string literal.
type StringLiteral struct {
	BaseAstNode
	Value string // escapes expanded
	Raw   string // lexeme including quotes
}

func (n *StringLiteral) String() string { return n.Raw }
func (n *StringLiteral) exprNode()      {}

// VarargLiteral represents `...`.
type VarargLiteral struct {
	BaseAstNode
}

func (n *VarargLiteral) String() string { return "..." }
func (n *VarargLiteral) exprNode()      {}

// NameExpression is a bare identifier reference.
type NameExpression struct {
	BaseAstNode
	Name string
}

func (n *NameExpression) String() string { return n.Name }
func (n *NameExpression) exprNode()      {}

// ParenExpression keeps explicit parentheses in the tree, since they
// truncate multiple values in Lua-family semantics.
type ParenExpression struct {
	BaseAstNode
	Inner Expression
}

func (n *ParenExpression) String() string { return "(" + n.Inner.String() + ")" }
func (n *ParenExpression) exprNode()      {}

// UnaryExpression represents `not x`, `-x` and `#x`.
type UnaryExpression struct {
	BaseAstNode
	Op      Operator
	Operand Expression
}

func (n *UnaryExpression) String() string { return "UNARY(" + n.Op.String() + ")" }
func (n *UnaryExpression) exprNode()      {}

// BinaryExpression is a binary operator application.
type BinaryExpression struct {
	BaseAstNode
	Op    Operator
	Left  Expression
	Right Expression
}

func (n *BinaryExpression) String() string { return "BINARY(" + n.Op.String() + ")" }
func (n *BinaryExpression) exprNode()      {}

// IndexExpression represents `target[key]`.
type IndexExpression struct {
	BaseAstNode
	Target Expression
	Key    Expression
}

func (n *IndexExpression) String() string { return "INDEX" }
func (n *IndexExpression) exprNode()      {}

// FieldExpression represents `target.field`.
type FieldExpression struct {
	BaseAstNode
	Target Expression
	Field  string
}

func (n *FieldExpression) String() string { return "FIELD ." + n.Field }
func (n *FieldExpression) exprNode()      {}

// CallExpression represents `target(args)`.
type CallExpression struct {
	BaseAstNode
	Target Expression
	Args   []Expression
}

func (n *CallExpression) String() string { return "CALL" }
func (n *CallExpression) exprNode()      {}

// MethodCallExpression represents `target:method(args)`.
type MethodCallExpression struct {
	BaseAstNode
	Target Expression
	Method string
	Args   []Expression
}

func (n *MethodCallExpression) String() string { return "CALL :" + n.Method }
func (n *MethodCallExpression) exprNode()      {}

// Param is one parameter of a function literal.
type Param struct {
	Name      string
	Vararg    bool
	Opt       bool // declared nilable with ?
	ParamType TypeExpression
	Span      tokenizer.Span
}

// FunctionExpression is a function literal, also reused as the body of
// function declaration statements.
type FunctionExpression struct {
	BaseAstNode
	TypeParams []TypeParam
	Params     []Param
	Returns    []TypeExpression
	Body       *Block
}

func (n *FunctionExpression) String() string { return "FUNCTION" }
func (n *FunctionExpression) exprNode()      {}

// TableField is one entry of a table constructor: positional (only Value),
// named (Name and Value), or keyed (Key and Value).
type TableField struct {
	Name      string
	FieldType TypeExpression // optional annotation on a named field
	Key       Expression
	Value     Expression
	Span      tokenizer.Span
}

// TableExpression is a table constructor.
type TableExpression struct {
	BaseAstNode
	Fields []TableField
}

func (n *TableExpression) String() string { return "TABLE" }
func (n *TableExpression) exprNode()      {}

// CastExpression represents `expr as T` and `expr as (T1, T2)`.
type CastExpression struct {
	BaseAstNode
	Value Expression
	Types []TypeExpression
}

func (n *CastExpression) String() string { return "CAST" }
func (n *CastExpression) exprNode()      {}

// IsExpression represents the runtime type test `name is T`.
type IsExpression struct {
	BaseAstNode
	Value    Expression
	TestType TypeExpression
}

func (n *IsExpression) String() string { return "IS" }
func (n *IsExpression) exprNode()      {}
