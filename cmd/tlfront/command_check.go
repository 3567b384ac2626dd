package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/pipeline"
	"github.com/tealwasm/tlfront/typeresolver"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Paths     []string `arg:"" optional:"" help:"Source files or directories (default: source.include from config)"`
	Report    string   `short:"r" help:"Write a JUnit XML report to this file"`
	Parallel  int      `short:"j" help:"Number of parallel workers" default:"0"` // 0 means use the config value
	MaxErrors int      `help:"Stop a unit after this many errors" default:"0"`   // 0 means use the config value
	Strict    bool     `help:"Treat warnings as errors"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := tlfront.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	paths := cmd.Paths
	if len(paths) == 0 {
		paths = config.Source.Include
	}

	sources, err := collectSources(paths, config)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		return ErrNoSources
	}

	if ctx.Verbose {
		color.Blue("Checking %d units", len(sources))
	}

	parallel := cmd.Parallel
	if parallel <= 0 {
		parallel = config.Check.Parallel
	}

	maxErrors := cmd.MaxErrors
	if maxErrors <= 0 {
		maxErrors = config.Check.MaxErrors
	}

	compiler := pipeline.NewCompiler(&pipeline.Options{
		Parallel:  parallel,
		MaxErrors: maxErrors,
	})

	summary, err := compiler.Compile(context.Background(), units(sources))
	if err != nil {
		return fmt.Errorf("check execution failed: %w", err)
	}

	files := make(map[string]string, len(sources))
	contents := make(map[string]string, len(sources))

	for _, s := range sources {
		files[s.Unit.Name] = s.File
		contents[s.Unit.Name] = s.Unit.Source
	}

	strict := cmd.Strict || config.Check.Strict

	var failedUnits []string

	strictFailed := make(map[string]bool)

	for _, r := range summary.Results {
		file := files[r.Unit]
		source := contents[r.Unit]

		if len(r.Diagnostics) > 0 {
			printDiagnostics(color.Output, file, source, r.Diagnostics)
		}

		if r.Err != nil {
			failedUnits = append(failedUnits, r.Unit)

			if len(r.Diagnostics) == 0 {
				printUnitError(color.Output, file, source, r.Err)
			}

			continue
		}

		if strict && hasWarnings(r.Diagnostics) {
			failedUnits = append(failedUnits, r.Unit)
			strictFailed[r.Unit] = true
		}
	}

	reportPath := cmd.Report
	if reportPath == "" && config.Report.Format == "junit" {
		reportPath = config.Report.Output

		if reportPath == "" {
			// junit with no output file goes to stdout and replaces
			// the text summary.
			err = writeJUnitReport(os.Stdout, summary, files, strictFailed)
			if err != nil {
				return err
			}

			if len(failedUnits) > 0 {
				return ErrCheckFailed
			}

			return nil
		}
	}

	if reportPath != "" {
		err = writeJUnitReportFile(reportPath, summary, files, strictFailed)
		if err != nil {
			return err
		}

		if ctx.Verbose {
			color.Blue("Wrote report: %s", reportPath)
		}
	}

	if !ctx.Quiet {
		printCheckSummary(summary, failedUnits, files)
	}

	if len(failedUnits) > 0 {
		return ErrCheckFailed
	}

	return nil
}

// printCheckSummary prints the check execution summary
func printCheckSummary(summary *pipeline.Summary, failedUnits []string, files map[string]string) {
	failed := len(failedUnits)

	fmt.Printf("\n")
	fmt.Printf("=== Check Summary ===\n")
	fmt.Printf("Units: %d total, %d passed, %d failed\n",
		summary.Total, summary.Total-failed, failed)
	fmt.Printf("Duration: %.3fs\n", summary.TotalDuration.Seconds())

	if failed > 0 {
		fmt.Printf("\nFailed units:\n")

		for _, unit := range failedUnits {
			if file, ok := files[unit]; ok {
				fmt.Printf("  %s (%s)\n", unit, file)
			} else {
				fmt.Printf("  %s\n", unit)
			}
		}
	}

	if failed == 0 {
		fmt.Printf("\nAll units passed! ✅\n")
	} else {
		fmt.Printf("\nSome units failed! ❌\n")
	}
}

func hasWarnings(diags []typeresolver.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == typeresolver.SeverityWarning {
			return true
		}
	}

	return false
}

// Help returns help text for the check command
func (cmd *CheckCmd) Help() string {
	return `Parse and type-check teal compilation units.

The check command collects teal sources (.tl files and literate Markdown
documents with teal code blocks), parses each one, resolves declared
types across unit dependencies, and reports diagnostics with source
excerpts. Units without dependencies are checked in parallel.

Dependencies between units come from the front matter of literate
documents or from the units section of tlfront.yaml. A unit is checked
only after every unit it depends on has published its type table.

Examples:
  # Check everything listed in tlfront.yaml
  tlfront check

  # Check specific files and directories
  tlfront check src/geometry.tl docs/

  # Fail on warnings too
  tlfront check --strict

  # Write a JUnit report for CI
  tlfront check -r reports/check.xml

  # Limit the number of workers
  tlfront check -j 2`
}
