package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tealwasm/tlfront/parser"
)

func TestMarshalTree(t *testing.T) {
	source := `local record Point
   x: number
   y: number
   record Inner
      z: number
   end
end

local function dist(a: Point, b: Point): number
   if a.x > b.x then
      return a.x - b.x
   end
   return b.x - a.x
end
`

	block, err := parser.Parse(source)
	assert.NoError(t, err)

	data, err := marshalTree("geometry", block)
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "unit: geometry")
	assert.Contains(t, out, "statements:")
	assert.Contains(t, out, "node: RECORD Point")
	assert.Contains(t, out, "node: RECORD Inner")
	assert.Contains(t, out, "node: LOCAL FUNCTION dist")
	assert.Contains(t, out, "node: IF")
	assert.Contains(t, out, "node: RETURN")
	assert.Contains(t, out, "span:")
	assert.Contains(t, out, "1:1-")
}

func TestTreeDocumentControlFlow(t *testing.T) {
	source := `local n = 0
if n > 0 then
   n = 1
elseif n < 0 then
   n = 2
else
   do
      n = 3
   end
end
while n > 0 do
   n = n - 1
end
`

	block, err := parser.Parse(source)
	assert.NoError(t, err)

	data, err := marshalTree("flow", block)
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "clauses:")
	assert.Contains(t, out, "else:")
	assert.Contains(t, out, "node: DO")
	assert.Contains(t, out, "node: WHILE")
	assert.Contains(t, out, "node: ASSIGN")
}

func TestTreeDocumentEnumVariants(t *testing.T) {
	source := `local enum Color
   "red"
   "green"
end
local type Id = number
`

	block, err := parser.Parse(source)
	assert.NoError(t, err)

	data, err := marshalTree("colors", block)
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "node: ENUM Color")
	assert.Contains(t, out, "node: TYPE Id")
}
