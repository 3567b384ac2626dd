package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/tokenizer"
)

// marshalTree renders the syntax tree dump for one parsed unit.
func marshalTree(unit string, block *parser.Block) ([]byte, error) {
	return yaml.Marshal(treeDocument(unit, block))
}

// treeDocument renders a parsed unit as a YAML node. The yaml.v3 node
// API keeps mapping keys in build order, so the dump reads top to
// bottom like the source.
func treeDocument(unit string, block *parser.Block) *yaml.Node {
	return yamlMap(
		yamlStr("unit"), yamlStr(unit),
		yamlStr("statements"), blockNode(block),
	)
}

func blockNode(b *parser.Block) *yaml.Node {
	seq := yamlSeq()
	if b == nil {
		return seq
	}

	for _, s := range b.Statements {
		seq.Content = append(seq.Content, stmtNode(s))
	}

	if b.Return != nil {
		seq.Content = append(seq.Content, stmtNode(b.Return))
	}

	return seq
}

func stmtNode(s parser.Statement) *yaml.Node {
	node := yamlMap(
		yamlStr("node"), yamlStr(s.String()),
		yamlStr("span"), yamlStr(formatSpan(s.Span())),
	)

	switch stmt := s.(type) {
	case *parser.DoStatement:
		appendPair(node, "body", blockNode(stmt.Body))
	case *parser.WhileStatement:
		appendPair(node, "body", blockNode(stmt.Body))
	case *parser.RepeatStatement:
		appendPair(node, "body", blockNode(stmt.Body))
	case *parser.IfStatement:
		arms := yamlSeq()
		for _, clause := range stmt.Clauses {
			arms.Content = append(arms.Content, yamlMap(
				yamlStr("span"), yamlStr(formatSpan(clause.Span)),
				yamlStr("body"), blockNode(clause.Body),
			))
		}

		appendPair(node, "clauses", arms)

		if stmt.Else != nil {
			appendPair(node, "else", blockNode(stmt.Else))
		}
	case *parser.NumericForStatement:
		appendPair(node, "body", blockNode(stmt.Body))
	case *parser.GenericForStatement:
		appendPair(node, "body", blockNode(stmt.Body))
	case *parser.FunctionStatement:
		appendPair(node, "body", blockNode(stmt.Func.Body))
	case *parser.ScopedFunctionStatement:
		appendPair(node, "body", blockNode(stmt.Func.Body))
	case *parser.RecordStatement:
		if nested := recordTypes(stmt.Body); len(nested.Content) > 0 {
			appendPair(node, "types", nested)
		}
	}

	return node
}

// recordTypes lists the type declarations nested in a record body.
func recordTypes(body *parser.RecordBody) *yaml.Node {
	seq := yamlSeq()
	if body == nil {
		return seq
	}

	for _, entry := range body.Entries {
		switch {
		case entry.Record != nil:
			seq.Content = append(seq.Content, stmtNode(entry.Record))
		case entry.Enum != nil:
			seq.Content = append(seq.Content, stmtNode(entry.Enum))
		case entry.Alias != nil:
			seq.Content = append(seq.Content, stmtNode(entry.Alias))
		}
	}

	return seq
}

func yamlMap(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func yamlSeq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func yamlStr(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, yamlStr(key), value)
}

func formatSpan(span tokenizer.Span) string {
	return fmt.Sprintf("%d:%d-%d:%d",
		span.Start.Line, span.Start.Column, span.End.Line, span.End.Column)
}
