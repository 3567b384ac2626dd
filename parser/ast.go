package parser

import (
	"github.com/tealwasm/tlfront/tokenizer"
)

// AstNode represents AST (Abstract Syntax Tree) node interface
// All AST nodes must implement this interface.
type AstNode interface {
	Type() NodeType
	Position() tokenizer.Position
	Span() tokenizer.Span
	String() string
}

// Statement is implemented by all statement nodes.
type Statement interface {
	AstNode
	stmtNode()
}

// Expression is implemented by all expression nodes.
type Expression interface {
	AstNode
	exprNode()
}

// TypeExpression is implemented by all type expression nodes.
type TypeExpression interface {
	AstNode
	typeExprNode()
}

// NodeType represents the type of AST node
// This is used for type discrimination and debugging.
type NodeType int

const (
	// Structure
	BLOCK NodeType = iota

	// Statements
	ASSIGN_STATEMENT
	CALL_STATEMENT
	LABEL_STATEMENT
	BREAK_STATEMENT
	GOTO_STATEMENT
	DO_STATEMENT
	WHILE_STATEMENT
	REPEAT_STATEMENT
	IF_STATEMENT
	NUMERIC_FOR_STATEMENT
	GENERIC_FOR_STATEMENT
	FUNCTION_STATEMENT
	SCOPED_FUNCTION_STATEMENT
	VARIABLE_STATEMENT
	RECORD_STATEMENT
	ENUM_STATEMENT
	TYPE_ALIAS_STATEMENT
	RETURN_STATEMENT

	// Expressions and literals
	NIL_LITERAL
	BOOLEAN_LITERAL
	NUMBER_LITERAL
	STRING_LITERAL
	VARARG_LITERAL
	NAME_EXPRESSION
	PAREN_EXPRESSION
	UNARY_EXPRESSION
	BINARY_EXPRESSION
	INDEX_EXPRESSION
	FIELD_EXPRESSION
	CALL_EXPRESSION
	METHOD_CALL_EXPRESSION
	FUNCTION_EXPRESSION
	TABLE_EXPRESSION
	CAST_EXPRESSION
	IS_EXPRESSION

	// Type expressions
	PRIMITIVE_TYPE
	ANY_TYPE
	NOMINAL_TYPE
	ARRAY_TYPE
	MAP_TYPE
	FUNCTION_TYPE
	UNION_TYPE
)

// String returns string representation of NodeType
func (n NodeType) String() string {
	switch n {
	case BLOCK:
		return "BLOCK"
	case ASSIGN_STATEMENT:
		return "ASSIGN_STATEMENT"
	case CALL_STATEMENT:
		return "CALL_STATEMENT"
	case LABEL_STATEMENT:
		return "LABEL_STATEMENT"
	case BREAK_STATEMENT:
		return "BREAK_STATEMENT"
	case GOTO_STATEMENT:
		return "GOTO_STATEMENT"
	case DO_STATEMENT:
		return "DO_STATEMENT"
	case WHILE_STATEMENT:
		return "WHILE_STATEMENT"
	case REPEAT_STATEMENT:
		return "REPEAT_STATEMENT"
	case IF_STATEMENT:
		return "IF_STATEMENT"
	case NUMERIC_FOR_STATEMENT:
		return "NUMERIC_FOR_STATEMENT"
	case GENERIC_FOR_STATEMENT:
		return "GENERIC_FOR_STATEMENT"
	case FUNCTION_STATEMENT:
		return "FUNCTION_STATEMENT"
	case SCOPED_FUNCTION_STATEMENT:
		return "SCOPED_FUNCTION_STATEMENT"
	case VARIABLE_STATEMENT:
		return "VARIABLE_STATEMENT"
	case RECORD_STATEMENT:
		return "RECORD_STATEMENT"
	case ENUM_STATEMENT:
		return "ENUM_STATEMENT"
	case TYPE_ALIAS_STATEMENT:
		return "TYPE_ALIAS_STATEMENT"
	case RETURN_STATEMENT:
		return "RETURN_STATEMENT"
	case NIL_LITERAL:
		return "NIL_LITERAL"
	case BOOLEAN_LITERAL:
		return "BOOLEAN_LITERAL"
	case NUMBER_LITERAL:
		return "NUMBER_LITERAL"
	case STRING_LITERAL:
		return "STRING_LITERAL"
	case VARARG_LITERAL:
		return "VARARG_LITERAL"
	case NAME_EXPRESSION:
		return "NAME_EXPRESSION"
	case PAREN_EXPRESSION:
		return "PAREN_EXPRESSION"
	case UNARY_EXPRESSION:
		return "UNARY_EXPRESSION"
	case BINARY_EXPRESSION:
		return "BINARY_EXPRESSION"
	case INDEX_EXPRESSION:
		return "INDEX_EXPRESSION"
	case FIELD_EXPRESSION:
		return "FIELD_EXPRESSION"
	case CALL_EXPRESSION:
		return "CALL_EXPRESSION"
	case METHOD_CALL_EXPRESSION:
		return "METHOD_CALL_EXPRESSION"
	case FUNCTION_EXPRESSION:
		return "FUNCTION_EXPRESSION"
	case TABLE_EXPRESSION:
		return "TABLE_EXPRESSION"
	case CAST_EXPRESSION:
		return "CAST_EXPRESSION"
	case IS_EXPRESSION:
		return "IS_EXPRESSION"
	case PRIMITIVE_TYPE:
		return "PRIMITIVE_TYPE"
	case ANY_TYPE:
		return "ANY_TYPE"
	case NOMINAL_TYPE:
		return "NOMINAL_TYPE"
	case ARRAY_TYPE:
		return "ARRAY_TYPE"
	case MAP_TYPE:
		return "MAP_TYPE"
	case FUNCTION_TYPE:
		return "FUNCTION_TYPE"
	case UNION_TYPE:
		return "UNION_TYPE"
	default:
		return "UNKNOWN"
	}
}

// BaseAstNode is the base implementation of AST nodes
// Embedding this struct is recommended for all AST node types.
type BaseAstNode struct {
	nodeType NodeType
	span     tokenizer.Span
}

func newBase(nodeType NodeType, span tokenizer.Span) BaseAstNode {
	return BaseAstNode{nodeType: nodeType, span: span}
}

func (n BaseAstNode) Type() NodeType {
	return n.nodeType
}

func (n BaseAstNode) Position() tokenizer.Position {
	return n.span.Start
}

func (n BaseAstNode) Span() tokenizer.Span {
	return n.span
}

// spanBetween joins the start of one span with the end of another.
func spanBetween(start, end tokenizer.Span) tokenizer.Span {
	return tokenizer.Span{Start: start.Start, End: end.End}
}

// Block is a statement sequence with an optional trailing return.
type Block struct {
	BaseAstNode
	Statements []Statement
	Return     *ReturnStatement
}

func (n *Block) String() string {
	return "BLOCK"
}
