package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/tokenizer"
	"github.com/tealwasm/tlfront/typeresolver"
)

// Color formatting functions for diagnostic output
var (
	errorLabelFmt   = color.New(color.Bold, color.FgRed).SprintFunc()
	warningLabelFmt = color.New(color.Bold, color.FgYellow).SprintFunc()
	locationFmt     = color.New(color.Bold).SprintfFunc()
	gutterFmt       = color.New(color.FgHiBlack).SprintfFunc()
	errorCaretFmt   = color.New(color.FgRed).SprintFunc()
	warningCaretFmt = color.New(color.FgYellow).SprintFunc()
)

// printDiagnostics writes resolver diagnostics for one unit, each with
// a framed source excerpt.
func printDiagnostics(w io.Writer, file, source string, diags []typeresolver.Diagnostic) {
	for _, d := range diags {
		printDiagnostic(w, file, source, d)
	}
}

func printDiagnostic(w io.Writer, file, source string, d typeresolver.Diagnostic) {
	label := errorLabelFmt("ERROR")
	caret := errorCaretFmt

	if d.Severity == typeresolver.SeverityWarning {
		label = warningLabelFmt("WARN")
		caret = warningCaretFmt
	}

	fmt.Fprintf(w, "%s %s: %s\n",
		locationFmt("%s:%d:%d:", file, d.Span.Start.Line, d.Span.Start.Column),
		label, d.Message)
	frameSource(w, source, d.Span, caret)
}

// printUnitError reports a failed unit. Lex and syntax errors carry
// positions, so they get the same source frame as resolver
// diagnostics; everything else is printed plain.
func printUnitError(w io.Writer, file, source string, err error) {
	var (
		synErr *parser.SyntaxError
		lexErr *tokenizer.LexError
	)

	switch {
	case errors.As(err, &synErr):
		printFramedError(w, file, source, synErr.Pos, syntaxMessage(synErr))
	case errors.As(err, &lexErr):
		printFramedError(w, file, source, lexErr.Pos, lexMessage(lexErr))
	default:
		fmt.Fprintf(w, "%s %s: %v\n", locationFmt("%s:", file), errorLabelFmt("ERROR"), err)
	}
}

func printFramedError(w io.Writer, file, source string, pos tokenizer.Position, message string) {
	fmt.Fprintf(w, "%s %s: %s\n",
		locationFmt("%s:%d:%d:", file, pos.Line, pos.Column),
		errorLabelFmt("ERROR"), message)
	frameSource(w, source, tokenizer.Span{Start: pos, End: pos}, errorCaretFmt)
}

// syntaxMessage renders a syntax error without the position prefix its
// Error method carries; the caller prints the location itself.
func syntaxMessage(e *parser.SyntaxError) string {
	if e.Message != "" {
		return e.Message
	}

	got := e.Got
	if got == "" {
		got = "end of input"
	} else {
		got = "'" + got + "'"
	}

	if len(e.Expected) == 0 {
		return "unexpected " + got
	}

	return fmt.Sprintf("unexpected %s, expected %s", got, strings.Join(e.Expected, " or "))
}

func lexMessage(e *tokenizer.LexError) string {
	if e.Detail == "" {
		return e.Err.Error()
	}

	return e.Err.Error() + ": " + e.Detail
}

// frameSource echoes the offending source line with a caret run under
// the spanned columns. Columns are byte offsets, as the tokenizer
// counts them; pad and caret widths are display cells. Tabs are
// echoed as single spaces.
func frameSource(w io.Writer, source string, span tokenizer.Span, caret func(a ...interface{}) string) {
	lines := strings.Split(source, "\n")
	if span.Start.Line < 1 || span.Start.Line > len(lines) {
		return
	}

	line := strings.ReplaceAll(lines[span.Start.Line-1], "\t", " ")

	start := span.Start.Column - 1
	if start < 0 {
		start = 0
	}

	if start > len(line) {
		start = len(line)
	}

	for start > 0 && start < len(line) && !utf8.RuneStart(line[start]) {
		start--
	}

	end := len(line)
	if span.End.Line == span.Start.Line && span.End.Column-1 < end {
		end = span.End.Column - 1
	}

	if end < start {
		end = start
	}

	for end < len(line) && !utf8.RuneStart(line[end]) {
		end++
	}

	pad := displayWidth(line[:start])

	marks := displayWidth(line[start:end])
	if marks < 1 {
		marks = 1
	}

	fmt.Fprintf(w, "%s %s\n", gutterFmt("%5d |", span.Start.Line), line)
	fmt.Fprintf(w, "%s %s%s\n", gutterFmt("      |"),
		strings.Repeat(" ", pad), caret(strings.Repeat("^", marks)))
}

// displayWidth is the number of terminal cells a string occupies. East
// Asian wide and fullwidth runes take two cells, so carets under
// source containing them still line up.
func displayWidth(s string) int {
	cells := 0

	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			cells += 2
		default:
			cells++
		}
	}

	return cells
}
