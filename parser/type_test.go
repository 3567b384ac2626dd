package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

// typeFrom parses src as the annotation of a local declaration and
// returns the type node.
func typeFrom(t *testing.T, src string) TypeExpression {
	t.Helper()
	block, err := Parse("local x: " + src)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(block.Statements))
	decl, ok := block.Statements[0].(*VariableStatement)
	assert.True(t, ok)
	assert.Equal(t, 1, len(decl.Types))
	return decl.Types[0]
}

func TestPrimitiveTypeNames(t *testing.T) {
	tests := []struct {
		src  string
		kind PrimitiveKind
	}{
		{src: "nil", kind: PrimNil},
		{src: "boolean", kind: PrimBoolean},
		{src: "string", kind: PrimString},
		{src: "number", kind: PrimNumber},
		{src: "integer", kind: PrimInteger},
		{src: "f16", kind: PrimF16},
		{src: "bf16", kind: PrimBF16},
		{src: "f32", kind: PrimF32},
		{src: "f64", kind: PrimF64},
		{src: "u8", kind: PrimU8},
		{src: "u16", kind: PrimU16},
		{src: "u32", kind: PrimU32},
		{src: "u64", kind: PrimU64},
		{src: "i8", kind: PrimI8},
		{src: "i16", kind: PrimI16},
		{src: "i32", kind: PrimI32},
		{src: "i64", kind: PrimI64},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prim, ok := typeFrom(t, tt.src).(*PrimitiveType)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, prim.Kind)
		})
	}
}

func TestAnyType(t *testing.T) {
	_, ok := typeFrom(t, "any").(*AnyType)
	assert.True(t, ok)
}

func TestNominalTypes(t *testing.T) {
	t.Run("simple name", func(t *testing.T) {
		nom, ok := typeFrom(t, "Circle").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"Circle"}, nom.Path)
		assert.Equal(t, 0, len(nom.Args))
	})

	t.Run("dotted path", func(t *testing.T) {
		nom, ok := typeFrom(t, "geo.Shape").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"geo", "Shape"}, nom.Path)
	})

	t.Run("single type argument", func(t *testing.T) {
		nom, ok := typeFrom(t, "List<integer>").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, 1, len(nom.Args))
		prim, ok := nom.Args[0].(*PrimitiveType)
		assert.True(t, ok)
		assert.Equal(t, PrimInteger, prim.Kind)
	})

	t.Run("two type arguments", func(t *testing.T) {
		nom, ok := typeFrom(t, "Map<string, integer>").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, 2, len(nom.Args))
	})

	t.Run("arguments on a dotted path", func(t *testing.T) {
		nom, ok := typeFrom(t, "a.b.C<d.E>").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b", "C"}, nom.Path)
		arg, ok := nom.Args[0].(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"d", "E"}, arg.Path)
	})
}

func TestNestedTypeArguments(t *testing.T) {
	// the closing >> lexes as a shift and must close two lists
	t.Run("two deep", func(t *testing.T) {
		nom, ok := typeFrom(t, "Map<string, List<integer>>").(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"Map"}, nom.Path)
		assert.Equal(t, 2, len(nom.Args))
		inner, ok := nom.Args[1].(*NominalType)
		assert.True(t, ok)
		assert.Equal(t, []string{"List"}, inner.Path)
		assert.Equal(t, 1, len(inner.Args))
	})

	t.Run("three deep", func(t *testing.T) {
		nom, ok := typeFrom(t, "A<B<C<integer>>>").(*NominalType)
		assert.True(t, ok)
		b, ok := nom.Args[0].(*NominalType)
		assert.True(t, ok)
		c, ok := b.Args[0].(*NominalType)
		assert.True(t, ok)
		prim, ok := c.Args[0].(*PrimitiveType)
		assert.True(t, ok)
		assert.Equal(t, PrimInteger, prim.Kind)
	})

	t.Run("four deep", func(t *testing.T) {
		nom, ok := typeFrom(t, "A<B<C<D<integer>>>>").(*NominalType)
		assert.True(t, ok)
		b := nom.Args[0].(*NominalType)
		c := b.Args[0].(*NominalType)
		d := c.Args[0].(*NominalType)
		assert.Equal(t, []string{"D"}, d.Path)
	})
}

func TestArrayAndMapTypes(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		arr, ok := typeFrom(t, "{integer}").(*ArrayType)
		assert.True(t, ok)
		prim, ok := arr.Element.(*PrimitiveType)
		assert.True(t, ok)
		assert.Equal(t, PrimInteger, prim.Kind)
	})

	t.Run("map", func(t *testing.T) {
		m, ok := typeFrom(t, "{string: integer}").(*MapType)
		assert.True(t, ok)
		key, ok := m.Key.(*PrimitiveType)
		assert.True(t, ok)
		assert.Equal(t, PrimString, key.Kind)
	})

	t.Run("array of arrays", func(t *testing.T) {
		arr, ok := typeFrom(t, "{{number}}").(*ArrayType)
		assert.True(t, ok)
		_, ok = arr.Element.(*ArrayType)
		assert.True(t, ok)
	})

	t.Run("map of arrays", func(t *testing.T) {
		m, ok := typeFrom(t, "{string: {integer}}").(*MapType)
		assert.True(t, ok)
		_, ok = m.Value.(*ArrayType)
		assert.True(t, ok)
	})
}

func TestUnionTypes(t *testing.T) {
	t.Run("two members", func(t *testing.T) {
		u, ok := typeFrom(t, "integer | string").(*UnionType)
		assert.True(t, ok)
		assert.Equal(t, 2, len(u.Members))
	})

	t.Run("three members", func(t *testing.T) {
		u, ok := typeFrom(t, "integer | string | nil").(*UnionType)
		assert.True(t, ok)
		assert.Equal(t, 3, len(u.Members))
	})

	t.Run("parenthesized union", func(t *testing.T) {
		u, ok := typeFrom(t, "(integer | string)").(*UnionType)
		assert.True(t, ok)
		assert.Equal(t, 2, len(u.Members))
	})

	t.Run("union with array member", func(t *testing.T) {
		u, ok := typeFrom(t, "{integer} | nil").(*UnionType)
		assert.True(t, ok)
		_, ok = u.Members[0].(*ArrayType)
		assert.True(t, ok)
	})

	t.Run("parenthesized head continues the union", func(t *testing.T) {
		u, ok := typeFrom(t, "(integer | string) | nil").(*UnionType)
		assert.True(t, ok)
		assert.Equal(t, 2, len(u.Members))
		_, ok = u.Members[0].(*UnionType)
		assert.True(t, ok)
	})

	t.Run("function member needs parens", func(t *testing.T) {
		// Without them the union binds to the return type instead.
		u, ok := typeFrom(t, "(function(): integer) | nil").(*UnionType)
		assert.True(t, ok)
		_, ok = u.Members[0].(*FunctionType)
		assert.True(t, ok)

		fn, ok := typeFrom(t, "function(): integer | nil").(*FunctionType)
		assert.True(t, ok)
		_, ok = fn.Returns[0].(*UnionType)
		assert.True(t, ok)
	})
}

func TestFunctionTypes(t *testing.T) {
	t.Run("bare keyword", func(t *testing.T) {
		fn, ok := typeFrom(t, "function").(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, 0, len(fn.Params))
		assert.Equal(t, 0, len(fn.Returns))
	})

	t.Run("empty signature", func(t *testing.T) {
		fn, ok := typeFrom(t, "function()").(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, 0, len(fn.Params))
	})

	t.Run("unnamed parameter and return", func(t *testing.T) {
		fn, ok := typeFrom(t, "function(integer): string").(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, 1, len(fn.Params))
		assert.Equal(t, "", fn.Params[0].Name)
		assert.Equal(t, 1, len(fn.Returns))
	})

	t.Run("named and optional parameters", func(t *testing.T) {
		fn, ok := typeFrom(t, "function(x: integer, y?: string): (boolean, string)").(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, 2, len(fn.Params))
		assert.Equal(t, "x", fn.Params[0].Name)
		assert.False(t, fn.Params[0].Opt)
		assert.Equal(t, "y", fn.Params[1].Name)
		assert.True(t, fn.Params[1].Opt)
		assert.Equal(t, 2, len(fn.Returns))
	})

	t.Run("optional unnamed parameter", func(t *testing.T) {
		fn, ok := typeFrom(t, "function(integer?)").(*FunctionType)
		assert.True(t, ok)
		assert.True(t, fn.Params[0].Opt)
	})

	t.Run("vararg parameter", func(t *testing.T) {
		fn, ok := typeFrom(t, "function(...: any): any").(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, "...", fn.Params[0].Name)
		_, ok = fn.Params[0].ParamType.(*AnyType)
		assert.True(t, ok)
	})

	t.Run("function type parameter", func(t *testing.T) {
		fn, ok := typeFrom(t, "function(function(): integer)").(*FunctionType)
		assert.True(t, ok)
		inner, ok := fn.Params[0].ParamType.(*FunctionType)
		assert.True(t, ok)
		assert.Equal(t, 1, len(inner.Returns))
	})
}
