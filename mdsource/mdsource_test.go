package mdsource

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/typeresolver"
)

const literateDoc = `---
unit: geometry
dependencies:
  - mathutil
---

# Geometry Types

Shared shapes for the renderer.

## Types

` + "```teal" + `
local record Point
   x: number
   y: number
end
` + "```" + `

Some prose between blocks.

## Operations

` + "```teal" + `
local function origin(): Point
   return { x = 0, y = 0 }
end
` + "```" + `

## Notes

` + "```lua" + `
-- not extracted
` + "```" + `
`

func TestParseLiterateDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(literateDoc))
	assert.NoError(t, err)

	assert.Equal(t, "geometry", doc.Unit)
	assert.Equal(t, []string{"mathutil"}, doc.Dependencies)
	assert.Equal(t, "Geometry Types", doc.Title)

	assert.Equal(t, 2, len(doc.Blocks))
	assert.Equal(t, "types", doc.Blocks[0].Section)
	assert.Equal(t, 14, doc.Blocks[0].StartLine)
	assert.True(t, strings.HasPrefix(doc.Blocks[0].Source, "local record Point"))
	assert.Equal(t, "operations", doc.Blocks[1].Section)
	assert.Equal(t, 25, doc.Blocks[1].StartLine)
}

func TestSourcePadsToDocumentLines(t *testing.T) {
	doc, err := Parse(strings.NewReader(literateDoc))
	assert.NoError(t, err)

	lines := strings.Split(doc.Source(), "\n")
	assert.Equal(t, "local record Point", lines[13])
	assert.Equal(t, "local function origin(): Point", lines[24])
	for _, line := range lines[:13] {
		assert.Equal(t, "", line)
	}
}

func TestSourceResolves(t *testing.T) {
	doc, err := Parse(strings.NewReader(literateDoc))
	assert.NoError(t, err)

	block, err := parser.Parse(doc.Source())
	assert.NoError(t, err)
	table, diags, err := typeresolver.Resolve(block, typeresolver.Options{Unit: doc.Unit})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(diags))
	assert.NotZero(t, table.Type("Point"))
}

func TestDiagnosticsPointIntoDocument(t *testing.T) {
	md := "# T\n\n```teal\nlocal p: Point\n```\n"
	doc, err := Parse(strings.NewReader(md))
	assert.NoError(t, err)
	assert.Equal(t, 4, doc.Blocks[0].StartLine)

	block, err := parser.Parse(doc.Source())
	assert.NoError(t, err)
	_, diags, rerr := typeresolver.Resolve(block, typeresolver.Options{Unit: doc.Unit})
	assert.Error(t, rerr)
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, 4, diags[0].Span.Start.Line)
	assert.Equal(t, 10, diags[0].Span.Start.Column)
}

func TestUnitNameDerivedFromTitle(t *testing.T) {
	md := "# Vector Math 2D\n\n```teal\nlocal x = 1\n```\n"
	doc, err := Parse(strings.NewReader(md))
	assert.NoError(t, err)
	assert.Equal(t, "vector_math_2d", doc.Unit)
	assert.Equal(t, 0, len(doc.Dependencies))
}

func TestBlockBeforeFirstHeading(t *testing.T) {
	md := "```tl\nlocal x = 1\n```\n\n# Later\n"
	doc, err := Parse(strings.NewReader(md))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks))
	assert.Equal(t, "", doc.Blocks[0].Section)
	assert.Equal(t, 2, doc.Blocks[0].StartLine)
}

func TestFrontMatterErrors(t *testing.T) {
	t.Run("unterminated", func(t *testing.T) {
		_, err := Parse(strings.NewReader("---\nunit: x\n"))
		assert.Error(t, err)
		assert.IsError(t, err, ErrInvalidFrontMatter)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		md := "---\nunit: [unclosed\n---\n\n# T\n\n```teal\nx = 1\n```\n"
		_, err := Parse(strings.NewReader(md))
		assert.Error(t, err)
		assert.IsError(t, err, ErrInvalidFrontMatter)
	})
}

func TestNoTealBlocks(t *testing.T) {
	md := "# Doc\n\nProse only.\n\n```lua\nprint(1)\n```\n"
	_, err := Parse(strings.NewReader(md))
	assert.Error(t, err)
	assert.IsError(t, err, ErrNoSource)
}

func TestParseCustomLanguages(t *testing.T) {
	md := "# Doc\n\n```lua\nlocal x = 1\n```\n"

	doc, err := ParseLanguages(strings.NewReader(md), []string{"lua"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks))
	assert.Equal(t, "local x = 1", doc.Blocks[0].Source)
}
