package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// MarkdownFormatter formats Teal code blocks within Markdown documents.
// Everything outside the fenced blocks, front matter included, passes
// through untouched.
type MarkdownFormatter struct {
	formatter *Formatter
	languages []string
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{
		formatter: New(),
		languages: []string{"teal", "tl"},
	}
}

// SetFormatter replaces the inner Teal formatter, for custom indent widths
func (f *MarkdownFormatter) SetFormatter(tf *Formatter) {
	if tf != nil {
		f.formatter = tf
	}
}

// SetLanguages replaces the fence language markers treated as Teal source
func (f *MarkdownFormatter) SetLanguages(languages []string) {
	if len(languages) > 0 {
		f.languages = languages
	}
}

// Format formats Teal code blocks within a Markdown document. Blocks
// that do not parse are kept as they are, a literate document may hold
// deliberately broken snippets.
func (f *MarkdownFormatter) Format(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}

	var result strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(markdown))

	var (
		inTealBlock      bool
		tealBlockContent strings.Builder
		blockIndent      string
	)

	blockStartRe := f.blockStartPattern()
	blockEndRe := regexp.MustCompile("^(\\s*)`{3}\\s*$")

	for scanner.Scan() {
		line := scanner.Text()

		if !inTealBlock {
			// Check if this line starts a Teal code block
			if match := blockStartRe.FindStringSubmatch(line); match != nil {
				inTealBlock = true
				blockIndent = match[1] // Capture the indentation
				tealBlockContent.Reset()
				result.WriteString(line)
				result.WriteString("\n")

				continue
			}

			// Regular line, just copy it
			result.WriteString(line)
			result.WriteString("\n")
		} else {
			// We're inside a Teal code block
			if blockEndRe.MatchString(line) {
				// End of the block, format the accumulated content
				inTealBlock = false

				tealContent := tealBlockContent.String()
				if strings.TrimSpace(tealContent) != "" {
					formatted, err := f.formatter.FormatSource(tealContent)
					if err != nil {
						// If formatting fails, use original content
						formatted = tealContent
					}

					// Add the formatted Teal with the fence indentation
					tealLines := strings.Split(strings.TrimRight(formatted, "\n"), "\n")
					for _, tealLine := range tealLines {
						if strings.TrimSpace(tealLine) != "" {
							result.WriteString(blockIndent)
							result.WriteString(tealLine)
						}
						result.WriteString("\n")
					}
				}

				// Add the closing code block marker
				result.WriteString(line)
				result.WriteString("\n")
			} else {
				// Accumulate Teal content (remove the block indentation)
				tealLine := line
				if strings.HasPrefix(line, blockIndent) {
					tealLine = line[len(blockIndent):]
				}
				tealBlockContent.WriteString(tealLine)
				tealBlockContent.WriteString("\n")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	return strings.TrimRight(result.String(), "\n") + "\n", nil
}

// FormatFromReader formats Teal code blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	// Read all input
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// Format the markdown
	formatted, err := f.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	// Write formatted output
	_, err = writer.Write([]byte(formatted))

	return err
}

func (f *MarkdownFormatter) blockStartPattern() *regexp.Regexp {
	quoted := make([]string, len(f.languages))
	for i, lang := range f.languages {
		quoted[i] = regexp.QuoteMeta(lang)
	}

	return regexp.MustCompile("^(\\s*)`{3}(" + strings.Join(quoted, "|") + ")\\s*$")
}

// IsMarkdownFile checks if a file is a Markdown file
func IsMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}
