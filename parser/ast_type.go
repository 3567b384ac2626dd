package parser

import (
	"strings"

	"github.com/tealwasm/tlfront/tokenizer"
)

// PrimitiveKind enumerates the built-in primitive type names.
type PrimitiveKind int

const (
	PrimNil PrimitiveKind = iota
	PrimBoolean
	PrimString
	PrimNumber
	PrimInteger
	PrimF16
	PrimBF16
	PrimF32
	PrimF64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimI8
	PrimI16
	PrimI32
	PrimI64
)

var primitiveKindNames = map[PrimitiveKind]string{
	PrimNil:     "nil",
	PrimBoolean: "boolean",
	PrimString:  "string",
	PrimNumber:  "number",
	PrimInteger: "integer",
	PrimF16:     "f16",
	PrimBF16:    "bf16",
	PrimF32:     "f32",
	PrimF64:     "f64",
	PrimU8:      "u8",
	PrimU16:     "u16",
	PrimU32:     "u32",
	PrimU64:     "u64",
	PrimI8:      "i8",
	PrimI16:     "i16",
	PrimI32:     "i32",
	PrimI64:     "i64",
}

// primitiveKindsByName is the reverse lookup used by the type grammar.
var primitiveKindsByName = func() map[string]PrimitiveKind {
	m := make(map[string]PrimitiveKind, len(primitiveKindNames))
	for kind, name := range primitiveKindNames {
		m[name] = kind
	}
	return m
}()

func (k PrimitiveKind) String() string {
	if name, ok := primitiveKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// LookupPrimitiveKind resolves a primitive type name like "integer" or "u8".
func LookupPrimitiveKind(name string) (PrimitiveKind, bool) {
	kind, ok := primitiveKindsByName[name]
	return kind, ok
}

// PrimitiveType is a built-in primitive type reference.
type PrimitiveType struct {
	BaseAstNode
	Kind PrimitiveKind
}

func (n *PrimitiveType) String() string { return n.Kind.String() }
func (n *PrimitiveType) typeExprNode()  {}

// AnyType is an explicit top type. It is always a distinct variant, never
// a nil sentinel inside other type expressions.
type AnyType struct {
	BaseAstNode
}

func (n *AnyType) String() string { return "any" }
func (n *AnyType) typeExprNode()  {}

// NominalType is a possibly dotted reference to a declared type, with
// optional generic arguments: `foo.Bar<string, integer>`.
type NominalType struct {
	BaseAstNode
	Path []string
	Args []TypeExpression
}

func (n *NominalType) String() string {
	s := strings.Join(n.Path, ".")
	if len(n.Args) > 0 {
		args := make([]string, len(n.Args))
		for i, arg := range n.Args {
			args[i] = arg.String()
		}
		s += "<" + strings.Join(args, ", ") + ">"
	}
	return s
}
func (n *NominalType) typeExprNode() {}

// ArrayType represents `{T}`.
type ArrayType struct {
	BaseAstNode
	Element TypeExpression
}

func (n *ArrayType) String() string { return "{" + n.Element.String() + "}" }
func (n *ArrayType) typeExprNode()  {}

// MapType represents `{K:V}`.
type MapType struct {
	BaseAstNode
	Key   TypeExpression
	Value TypeExpression
}

func (n *MapType) String() string { return "{" + n.Key.String() + ":" + n.Value.String() + "}" }
func (n *MapType) typeExprNode()  {}

// ParamType is one parameter of a function type, optionally named and
// optionally nilable.
type ParamType struct {
	Name      string // empty for unnamed parameters
	Opt       bool
	ParamType TypeExpression
	Span      tokenizer.Span
}

// FunctionType represents `function(a: T, U): R1, R2`.
type FunctionType struct {
	BaseAstNode
	Params  []ParamType
	Returns []TypeExpression
}

func (n *FunctionType) String() string {
	if len(n.Params) == 0 && len(n.Returns) == 0 {
		return "function"
	}
	var sb strings.Builder
	sb.WriteString("function(")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch {
		case p.Name == "...":
			sb.WriteString("...")
			if p.ParamType != nil {
				sb.WriteString(": ")
				sb.WriteString(p.ParamType.String())
			}
		case p.Name != "":
			sb.WriteString(p.Name)
			if p.Opt {
				sb.WriteByte('?')
			}
			sb.WriteString(": ")
			sb.WriteString(p.ParamType.String())
		default:
			sb.WriteString(p.ParamType.String())
			if p.Opt {
				sb.WriteByte('?')
			}
		}
	}
	sb.WriteByte(')')
	for i, r := range n.Returns {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}
func (n *FunctionType) typeExprNode() {}

// UnionType is a |-separated union of base types.
type UnionType struct {
	BaseAstNode
	Members []TypeExpression
}

func (n *UnionType) String() string {
	members := make([]string, len(n.Members))
	for i, member := range n.Members {
		members[i] = member.String()
		if unionMemberNeedsParens(member) {
			members[i] = "(" + members[i] + ")"
		}
	}
	return strings.Join(members, " | ")
}
func (n *UnionType) typeExprNode() {}

// unionMemberNeedsParens reports whether a member is parenthesized in
// canonical form. A nested union would otherwise flatten on reparse,
// and a function signature's return list would absorb the members
// after it. Bare `function` is unambiguous.
func unionMemberNeedsParens(member TypeExpression) bool {
	switch m := member.(type) {
	case *UnionType:
		return true
	case *FunctionType:
		return len(m.Params) > 0 || len(m.Returns) > 0
	default:
		return false
	}
}
