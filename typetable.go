package tlfront

// Span is a plain source range used by exported tables and diagnostics.
// Lines and columns are 1-based.
type Span struct {
	StartLine   int `json:"startLine" yaml:"startLine"`     // First line of the range
	StartColumn int `json:"startColumn" yaml:"startColumn"` // Column of the first rune
	EndLine     int `json:"endLine" yaml:"endLine"`         // Last line of the range
	EndColumn   int `json:"endColumn" yaml:"endColumn"`     // Column one past the last rune
}

// Declaration kinds used in TypeDecl.Kind and ValueDecl.Kind.
const (
	DeclRecord    = "record"
	DeclInterface = "interface"
	DeclEnum      = "enum"
	DeclAlias     = "alias"
	DeclVariable  = "variable"
	DeclFunction  = "function"
)

// Declaration scopes used in TypeDecl.Scope and ValueDecl.Scope.
const (
	ScopeLocal  = "local"
	ScopeGlobal = "global"
)

// TypeTable is the published symbol table of one resolved compilation
// unit. It is plain data: every type reference is rendered to canonical
// Teal type syntax, so downstream consumers need no AST types. Once a
// table is handed out it is treated as read-only.
type TypeTable struct {
	Unit    string       `json:"unit" yaml:"unit"`       // Unit (module) name
	Types   []*TypeDecl  `json:"types" yaml:"types"`     // Nominal type declarations in source order
	Globals []*ValueDecl `json:"globals" yaml:"globals"` // Unit-level variables and functions in source order
}

// TypeDecl is one record, interface, enum, or type alias declaration.
type TypeDecl struct {
	Name       string       `json:"name" yaml:"name"`                                 // Declared name
	Kind       string       `json:"kind" yaml:"kind"`                                 // record, interface, enum, alias
	Scope      string       `json:"scope" yaml:"scope"`                               // local or global
	TypeParams []string     `json:"typeParams,omitempty" yaml:"typeParams,omitempty"` // Generic parameter names
	Interfaces []string     `json:"interfaces,omitempty" yaml:"interfaces,omitempty"` // Rendered is-clause entries
	Userdata   bool         `json:"userdata,omitempty" yaml:"userdata,omitempty"`     // Record carries a userdata marker
	Fields     []*FieldDecl `json:"fields,omitempty" yaml:"fields,omitempty"`         // Record/interface entries in source order
	Variants   []string     `json:"variants,omitempty" yaml:"variants,omitempty"`     // Enum variants in source order
	Alias      string       `json:"alias,omitempty" yaml:"alias,omitempty"`           // Aliased type, canonical syntax
	Nested     []*TypeDecl  `json:"nested,omitempty" yaml:"nested,omitempty"`         // Types declared inside a record body
	Span       Span         `json:"span" yaml:"span"`                                 // Whole declaration
}

// FieldDecl is one field, method, or metamethod of a record or interface.
type FieldDecl struct {
	Name       string `json:"name" yaml:"name"`                                 // Field name
	Type       string `json:"type" yaml:"type"`                                 // Canonical type syntax
	Metamethod bool   `json:"metamethod,omitempty" yaml:"metamethod,omitempty"` // Declared with the metamethod prefix
	Span       Span   `json:"span" yaml:"span"`                                 // Whole entry
}

// ValueDecl is one unit-level variable or function declaration.
type ValueDecl struct {
	Name  string `json:"name" yaml:"name"`   // Declared name
	Kind  string `json:"kind" yaml:"kind"`   // variable or function
	Scope string `json:"scope" yaml:"scope"` // local or global
	Type  string `json:"type" yaml:"type"`   // Canonical type syntax, "any" when unannotated
	Span  Span   `json:"span" yaml:"span"`   // Whole declaration
}

// Type returns the top-level type declaration with the given name, or nil.
func (t *TypeTable) Type(name string) *TypeDecl {
	for _, d := range t.Types {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Global returns the unit-level value declaration with the given name, or nil.
func (t *TypeTable) Global(name string) *ValueDecl {
	for _, d := range t.Globals {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// NestedType returns the nested type declaration with the given name, or nil.
func (d *TypeDecl) NestedType(name string) *TypeDecl {
	for _, n := range d.Nested {
		if n.Name == name {
			return n
		}
	}
	return nil
}
