package typeresolver

import (
	"github.com/tealwasm/tlfront/parser"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// declID indexes the declaration arena. Entities refer to each other by
// ID instead of by pointer, so mutually recursive types never form an
// ownership cycle.
type declID int

type declKind int

const (
	declRecord declKind = iota
	declInterface
	declEnum
	declAlias
	declTypeParam
	declImported
)

func (k declKind) String() string {
	switch k {
	case declRecord:
		return "record"
	case declInterface:
		return "interface"
	case declEnum:
		return "enum"
	case declAlias:
		return "type alias"
	case declTypeParam:
		return "generic parameter"
	case declImported:
		return "imported type"
	default:
		return "unknown"
	}
}

// declEntity is one registered nominal type declaration.
type declEntity struct {
	id     declID
	kind   declKind
	name   string
	span   tok.Span
	nested map[string]declID // types declared inside a record body
	frame  *scopeFrame       // record/interface body scope

	aliasStmt *parser.TypeAliasStatement
	target    declID // alias: resolved nominal target
	targetSet bool

	imported string // kind string from the exporting unit's table
}

// scopeFrame is one level of the lexical scope stack. Lookups walk
// outward through parents.
type scopeFrame struct {
	parent *scopeFrame
	types  map[string]declID
}

func newScopeFrame(parent *scopeFrame) *scopeFrame {
	return &scopeFrame{parent: parent, types: make(map[string]declID)}
}

// declare binds name in this frame. When the name is already taken it
// reports the existing binding and false.
func (s *scopeFrame) declare(name string, id declID) (declID, bool) {
	if existing, ok := s.types[name]; ok {
		return existing, false
	}
	s.types[name] = id
	return id, true
}

// lookup resolves name in this frame or any enclosing one.
func (s *scopeFrame) lookup(name string) (declID, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if id, ok := frame.types[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// labelFrame tracks the labels visible inside one block. Function
// literals start a fresh chain: goto never jumps across a function
// boundary.
type labelFrame struct {
	parent *labelFrame
	names  map[string]bool
}

func newLabelFrame(parent *labelFrame) *labelFrame {
	return &labelFrame{parent: parent, names: make(map[string]bool)}
}

func (l *labelFrame) visible(name string) bool {
	for frame := l; frame != nil; frame = frame.parent {
		if frame.names[name] {
			return true
		}
	}
	return false
}
