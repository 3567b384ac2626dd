package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/formatter"
)

var (
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrFormattingErrors = errors.New("some files had formatting errors")
)

// FmtCmd represents the fmt command
type FmtCmd struct {
	Input  string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout, or overwrite input file)"`
	Write  bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check  bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff   bool   `short:"d" help:"Show diff instead of rewriting files"`
}

// Run executes the fmt command
func (cmd *FmtCmd) Run(ctx *Context) error {
	config, err := tlfront.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tealFormatter := formatter.NewWithIndent(config.Format.Indent)

	markdownFormatter := formatter.NewMarkdownFormatter()
	markdownFormatter.SetFormatter(tealFormatter)
	markdownFormatter.SetLanguages(config.Source.Markdown.Languages)

	// Handle different input sources
	if cmd.Input == "" {
		// Read from stdin
		return cmd.formatFromReader(tealFormatter, markdownFormatter, os.Stdin, os.Stdout, "<stdin>")
	}

	// Check if input is a file or directory
	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if info.IsDir() {
		return cmd.formatDirectory(tealFormatter, markdownFormatter, cmd.Input)
	}

	return cmd.formatFile(tealFormatter, markdownFormatter, cmd.Input)
}

// formatFromReader formats teal source from a reader and writes to a writer
func (cmd *FmtCmd) formatFromReader(tealFormatter *formatter.Formatter, markdownFormatter *formatter.MarkdownFormatter, reader io.Reader, writer io.Writer, filename string) error {
	// Read all input
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var formatted string

	// Markdown documents keep their prose; only the teal blocks are
	// rewritten.
	if formatter.IsMarkdownFile(filename) {
		formatted, err = markdownFormatter.Format(string(input))
		if err != nil {
			return fmt.Errorf("failed to format Markdown in %s: %w", filename, err)
		}
	} else {
		formatted, err = tealFormatter.FormatSource(string(input))
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", filename, err)
		}
	}

	// Handle check mode
	if cmd.Check {
		if strings.TrimSpace(string(input)) != strings.TrimSpace(formatted) {
			fmt.Fprintf(os.Stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	}

	// Handle diff mode
	if cmd.Diff {
		return cmd.showDiff(string(input), formatted, filename)
	}

	// Write formatted output
	_, err = writer.Write([]byte(formatted))

	return err
}

// formatFile formats a single file
func (cmd *FmtCmd) formatFile(tealFormatter *formatter.Formatter, markdownFormatter *formatter.MarkdownFormatter, filename string) (err error) {
	// Check if it's a file the formatter understands
	if !isTealFile(filename) && !formatter.IsMarkdownFile(filename) {
		if !cmd.Check {
			fmt.Fprintf(os.Stderr, "Skipping non-teal file: %s\n", filename)
		}

		return nil
	}

	// Read the file
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	// Determine output destination. Check and diff modes return before
	// anything is written.
	var writer io.Writer = os.Stdout

	switch {
	case cmd.Check || cmd.Diff:
	case cmd.Write || cmd.Output == filename:
		// Write to temporary file first
		tempFile, tempErr := os.CreateTemp(filepath.Dir(filename), ".tlfront-fmt-*")
		if tempErr != nil {
			return fmt.Errorf("failed to create temp file: %w", tempErr)
		}

		defer func() {
			tempFile.Close()

			if err == nil {
				// Replace original file with formatted version
				err = os.Rename(tempFile.Name(), filename)
			} else {
				// Clean up temp file on error
				os.Remove(tempFile.Name())
			}
		}()

		writer = tempFile
	case cmd.Output != "":
		// Write to specified output file
		outputFile, createErr := os.Create(cmd.Output)
		if createErr != nil {
			return fmt.Errorf("failed to create output file %s: %w", cmd.Output, createErr)
		}
		defer outputFile.Close()

		writer = outputFile
	}

	return cmd.formatFromReader(tealFormatter, markdownFormatter, file, writer, filename)
}

// formatDirectory formats all teal files in a directory recursively
func (cmd *FmtCmd) formatDirectory(tealFormatter *formatter.Formatter, markdownFormatter *formatter.MarkdownFormatter, dirPath string) error {
	var hasErrors bool

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Only process teal and Markdown files
		if !isTealFile(path) && !formatter.IsMarkdownFile(path) {
			return nil
		}

		// Format the file
		err = cmd.formatFile(tealFormatter, markdownFormatter, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)

			hasErrors = true
			// Continue processing other files
			return nil
		}

		if !cmd.Check && !cmd.Diff {
			fmt.Printf("Formatted: %s\n", path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

// showDiff shows the difference between original and formatted content
func (cmd *FmtCmd) showDiff(original, formatted, filename string) error {
	if strings.TrimSpace(original) == strings.TrimSpace(formatted) {
		// No changes needed
		return nil
	}

	fmt.Printf("--- %s (original)\n", filename)
	fmt.Printf("+++ %s (formatted)\n", filename)

	// Simple line-by-line diff
	originalLines := strings.Split(original, "\n")
	formattedLines := strings.Split(formatted, "\n")

	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}

	for i := range maxLines {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine != formLine {
			if origLine != "" {
				fmt.Printf("-%s\n", origLine)
			}

			if formLine != "" {
				fmt.Printf("+%s\n", formLine)
			}
		}
	}

	return nil
}

// Help returns help text for the fmt command
func (cmd *FmtCmd) Help() string {
	return `Format teal source files and Markdown files with teal code blocks.

The fmt command rewrites teal sources into a canonical style similar to
'go fmt': three-space indentation (configurable through format.indent),
one space around binary operators, and normalized type annotations.
Comments are not preserved; the formatter writes the parsed form.

For Markdown files, teal code blocks are formatted in place while the
surrounding prose is left untouched. Blocks that fail to parse keep
their original text.

Examples:
  # Format a single file and print to stdout
  tlfront fmt geometry.tl
  tlfront fmt README.md

  # Format a file in place
  tlfront fmt -w geometry.tl

  # Format all files in a directory
  tlfront fmt -w ./src/

  # Check if files are properly formatted
  tlfront fmt -c ./src/

  # Show diff of what would be changed
  tlfront fmt -d geometry.tl

  # Format from stdin
  cat geometry.tl | tlfront fmt`
}
