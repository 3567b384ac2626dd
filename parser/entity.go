package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// Entity is the value flowing through the combinator pipeline: a raw token
// straight from the tokenizer, or a materialized AST node once a rule has
// reduced its match.
type Entity struct {
	Original tok.Token // the original token (leaf entities)
	Node     AstNode   // the parsed AST node (nil until built)
}

// Span returns the source region the entity covers.
func (e Entity) Span() tok.Span {
	if e.Node != nil {
		return e.Node.Span()
	}
	return e.Original.Span()
}

// TokenToEntity converts tokenizer output into combinator tokens. The EOF
// token is dropped; end of input is the end of the slice.
func TokenToEntity(tokens []tok.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))
	for _, token := range tokens {
		if token.Type == tok.EOF {
			continue
		}
		entity := Entity{
			Original: token,
		}
		pcToken := pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: entity,
			Raw: token.Value,
		}
		results = append(results, pcToken)
	}
	return results
}

// nodeToken wraps a finished AST node back into a combinator token so outer
// rules can consume it.
func nodeToken(node AstNode) pc.Token[Entity] {
	span := node.Span()
	return pc.Token[Entity]{
		Type: "node",
		Pos: &pc.Pos{
			Line:  span.Start.Line,
			Col:   span.Start.Column,
			Index: span.Start.Offset,
		},
		Val: Entity{Node: node},
		Raw: node.String(),
	}
}

// entitySpan joins the spans of the first and last produced entity.
func entitySpan(tokens []pc.Token[Entity]) tok.Span {
	if len(tokens) == 0 {
		return tok.Span{}
	}
	first := tokens[0].Val.Span()
	last := tokens[len(tokens)-1].Val.Span()
	return tok.Span{Start: first.Start, End: last.End}
}

// nodeOf extracts the AST node from a produced entity token.
func nodeOf(token pc.Token[Entity]) AstNode {
	return token.Val.Node
}

// exprOf extracts an expression node from a produced entity token.
func exprOf(token pc.Token[Entity]) Expression {
	expr, _ := token.Val.Node.(Expression)
	return expr
}

// typeOf extracts a type expression node from a produced entity token.
func typeOf(token pc.Token[Entity]) TypeExpression {
	typ, _ := token.Val.Node.(TypeExpression)
	return typ
}
