// Package mdsource extracts Teal compile units from literate Markdown
// documents.
//
// A literate unit is a Markdown document with optional YAML front
// matter (unit name, dependency list) and any number of ```teal fenced
// code blocks. The blocks concatenate in document order into one
// compile unit; each block records the document line its source starts
// on, so diagnostics point back into the document.
package mdsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrNoSource           = errors.New("no teal code blocks")
)

// Block is one fenced teal code block of a document.
type Block struct {
	Section   string // lower-cased heading of the enclosing section, "" before the first heading
	Source    string // block contents without the fences
	StartLine int    // 1-based document line of the first source line
}

// Document is one literate unit extracted from Markdown.
type Document struct {
	Unit         string   // front matter `unit`, else derived from the title
	Dependencies []string // front matter `dependencies`
	Title        string   // first level-1 heading
	Blocks       []Block
}

type frontMatter struct {
	Unit         string   `yaml:"unit"`
	Dependencies []string `yaml:"dependencies"`
}

// Parse reads a literate Markdown document and extracts its teal
// blocks. Fences marked "teal" or "tl" are treated as source.
func Parse(r io.Reader) (*Document, error) {
	return ParseLanguages(r, nil)
}

// ParseLanguages is Parse with a custom set of fence language markers.
// A nil or empty set means the default markers.
func ParseLanguages(r io.Reader, languages []string) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	matter, body, bodyLine, err := splitFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
	)
	src := []byte(body)
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Unit: matter.Unit, Dependencies: matter.Dependencies}
	section := ""
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading := headingText(node, src)
			if node.Level == 1 && doc.Title == "" {
				doc.Title = heading
			} else {
				section = strings.ToLower(heading)
			}
		case *ast.FencedCodeBlock:
			if !isTealBlock(node, src, languages) || node.Lines().Len() == 0 {
				return ast.WalkContinue, nil
			}
			source := blockContent(node, src)
			if source == "" {
				return ast.WalkContinue, nil
			}
			doc.Blocks = append(doc.Blocks, Block{
				Section:   section,
				Source:    source,
				StartLine: lineOf(src, node.Lines().At(0).Start) + bodyLine - 1,
			})
		}
		return ast.WalkContinue, nil
	})

	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w in document", ErrNoSource)
	}
	if doc.Unit == "" {
		doc.Unit = deriveUnitName(doc.Title)
	}
	return doc, nil
}

// Source joins the blocks into one parse unit, padded with blank lines
// so every position in the joined source equals its line in the
// original document.
func (d *Document) Source() string {
	var sb strings.Builder
	line := 1
	for _, b := range d.Blocks {
		for line < b.StartLine {
			sb.WriteByte('\n')
			line++
		}
		sb.WriteString(b.Source)
		sb.WriteByte('\n')
		line += strings.Count(b.Source, "\n") + 1
	}
	return sb.String()
}

// splitFrontMatter strips the leading YAML front matter. bodyLine is
// the 1-based document line the remaining content starts on.
func splitFrontMatter(content string) (frontMatter, string, int, error) {
	var matter frontMatter
	if !strings.HasPrefix(content, "---\n") {
		return matter, content, 1, nil
	}
	end := strings.Index(content[4:], "\n---")
	if end == -1 {
		return matter, "", 0, ErrInvalidFrontMatter
	}
	end += 4
	raw := content[4:end]
	if err := yaml.Unmarshal([]byte(raw), &matter); err != nil {
		return matter, "", 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}
	rest := content[end+4:]
	bodyLine := bytes.Count([]byte(content[:end+4]), []byte{'\n'}) + 1
	return matter, rest, bodyLine, nil
}

func headingText(heading ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			seg := node.Segment
			sb.Write(content[seg.Start:seg.Stop])
		case *ast.String:
			sb.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func isTealBlock(block *ast.FencedCodeBlock, content []byte, languages []string) bool {
	if block.Info == nil {
		return false
	}
	seg := block.Info.Segment
	info := strings.TrimSpace(strings.ToLower(string(content[seg.Start:seg.Stop])))
	if len(languages) == 0 {
		return info == "teal" || info == "tl"
	}
	for _, lang := range languages {
		if info == strings.ToLower(lang) {
			return true
		}
	}
	return false
}

func blockContent(block ast.Node, content []byte) string {
	var sb strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(content[seg.Start:seg.Stop])
	}
	return strings.TrimRight(sb.String(), "\n")
}

func lineOf(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte{'\n'}) + 1
}

// deriveUnitName turns a document title into a unit name the way
// snake_case file names are derived from titles.
func deriveUnitName(title string) string {
	var sb strings.Builder
	gap := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if gap && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			gap = false
			sb.WriteRune(r)
		default:
			gap = true
		}
	}
	if sb.Len() == 0 {
		return "unit"
	}
	return sb.String()
}
