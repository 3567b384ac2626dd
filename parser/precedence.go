package parser

import (
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// binding holds the left and right binding power of a binary operator.
// Right-associative operators carry a right power one below their left
// power so the climb re-enters them.
type binding struct {
	left  int
	right int
}

var binaryBinding = map[Operator]binding{
	OpOr:       {1, 1},
	OpAnd:      {2, 2},
	OpEq:       {3, 3},
	OpNe:       {3, 3},
	OpLt:       {4, 4},
	OpLe:       {4, 4},
	OpGt:       {4, 4},
	OpGe:       {4, 4},
	OpShl:      {5, 5},
	OpShr:      {5, 5},
	OpConcat:   {6, 5}, // right-associative
	OpAdd:      {7, 7},
	OpSub:      {7, 7},
	OpMul:      {8, 8},
	OpDiv:      {8, 8},
	OpFloorDiv: {8, 8},
	OpMod:      {8, 8},
	OpPow:      {9, 8}, // right-associative
}

var binaryOperators = map[tok.TokenType]Operator{
	tok.OR:            OpOr,
	tok.AND:           OpAnd,
	tok.EQUAL:         OpEq,
	tok.NOT_EQUAL:     OpNe,
	tok.LESS_THAN:     OpLt,
	tok.LESS_EQUAL:    OpLe,
	tok.GREATER_THAN:  OpGt,
	tok.GREATER_EQUAL: OpGe,
	tok.SHIFT_LEFT:    OpShl,
	tok.SHIFT_RIGHT:   OpShr,
	tok.CONCAT:        OpConcat,
	tok.PLUS:          OpAdd,
	tok.MINUS:         OpSub,
	tok.MULTIPLY:      OpMul,
	tok.DIVIDE:        OpDiv,
	tok.FLOOR_DIVIDE:  OpFloorDiv,
	tok.MODULO:        OpMod,
	tok.POWER:         OpPow,
}

var unaryOperators = map[tok.TokenType]Operator{
	tok.NOT:    OpNot,
	tok.MINUS:  OpNeg,
	tok.LENGTH: OpLen,
}

// BinaryPower reports the binding powers of a binary operator. Callers
// that print trees back to source use it to decide where parentheses
// are required. ok is false for unary and unknown operators.
func BinaryPower(op Operator) (left, right int, ok bool) {
	b, ok := binaryBinding[op]
	return b.left, b.right, ok
}

// exprChain is the flat operand/operator sequence an expression rule
// collects before any precedence is applied. len(operators) is always
// len(operands)-1.
type exprChain struct {
	operands  []Expression
	operators []chainOperator
}

type chainOperator struct {
	op   Operator
	span tok.Span
}

// buildBinaryTree folds a flat chain into a tree by precedence
// climbing. Unary operators are already attached to the operands, so
// only binary binding powers matter here.
func buildBinaryTree(chain *exprChain) Expression {
	pos := 0
	return climb(chain, &pos, 0)
}

func climb(chain *exprChain, pos *int, limit int) Expression {
	left := chain.operands[*pos]
	for *pos < len(chain.operators) {
		op := chain.operators[*pos]
		bp := binaryBinding[op.op]
		if bp.left <= limit {
			break
		}
		*pos++
		right := climb(chain, pos, bp.right)
		left = &BinaryExpression{
			BaseAstNode: newBase(BINARY_EXPRESSION, spanBetween(left.Span(), right.Span())),
			Op:          op.op,
			Left:        left,
			Right:       right,
		}
	}
	return left
}
