package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/pipeline"
)

// DumpCmd represents the dump command
type DumpCmd struct {
	File   string `arg:"" help:"Teal source or literate Markdown file"`
	Tree   bool   `help:"Dump the syntax tree instead of the type table"`
	Format string `help:"Output format" enum:"yaml,json" default:"yaml"`
	Output string `short:"o" help:"Output file (default: stdout)"`
}

// Run executes the dump command
func (cmd *DumpCmd) Run(ctx *Context) error {
	if cmd.Tree && cmd.Format == "json" {
		return ErrTreeDumpFormat
	}

	config, err := tlfront.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	source, ok, err := loadSource(cmd.File, config)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, cmd.File)
	}

	var data []byte

	if cmd.Tree {
		// The tree dump needs only a parse, so it also works on units
		// whose types do not resolve yet.
		block, err := parser.Parse(source.Unit.Source)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", cmd.File, err)
		}

		data, err = marshalTree(source.Unit.Name, block)
		if err != nil {
			return fmt.Errorf("failed to render syntax tree: %w", err)
		}
	} else {
		table, err := cmd.resolveTable(ctx, config, source)
		if err != nil {
			return err
		}

		data, err = cmd.marshalTable(table)
		if err != nil {
			return fmt.Errorf("failed to render type table: %w", err)
		}
	}

	if cmd.Output != "" {
		err = os.MkdirAll(filepath.Dir(cmd.Output), 0755)
		if err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		return os.WriteFile(cmd.Output, data, 0644)
	}

	_, err = os.Stdout.Write(data)

	return err
}

// resolveTable type-checks the unit and returns its published table.
// Units with dependencies are compiled together with the sources the
// configuration names, so imported types resolve the same way they do
// under check.
func (cmd *DumpCmd) resolveTable(ctx *Context, config *tlfront.Config, source unitSource) (*tlfront.TypeTable, error) {
	batch := []unitSource{source}

	if len(source.Unit.Dependencies) > 0 {
		all, err := collectSources(config.Source.Include, config)
		if err != nil {
			return nil, err
		}

		for _, s := range all {
			if s.Unit.Name == source.Unit.Name {
				continue
			}

			batch = append(batch, s)
		}
	}

	if ctx.Verbose && len(batch) > 1 {
		color.Blue("Resolving %s with %d other units", source.Unit.Name, len(batch)-1)
	}

	compiler := pipeline.NewCompiler(&pipeline.Options{
		MaxErrors: config.Check.MaxErrors,
	})

	summary, err := compiler.Compile(context.Background(), units(batch))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cmd.File, err)
	}

	files := make(map[string]string, len(batch))
	contents := make(map[string]string, len(batch))

	for _, s := range batch {
		files[s.Unit.Name] = s.File
		contents[s.Unit.Name] = s.Unit.Source
	}

	for _, r := range summary.Results {
		if r.Err == nil {
			continue
		}

		if len(r.Diagnostics) > 0 {
			printDiagnostics(color.Output, files[r.Unit], contents[r.Unit], r.Diagnostics)
		} else {
			printUnitError(color.Output, files[r.Unit], contents[r.Unit], r.Err)
		}
	}

	for _, r := range summary.Results {
		if r.Unit != source.Unit.Name {
			continue
		}

		if r.Err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", cmd.File, r.Err)
		}

		return r.Table, nil
	}

	return nil, fmt.Errorf("failed to resolve %s: unit missing from results", cmd.File)
}

func (cmd *DumpCmd) marshalTable(table *tlfront.TypeTable) ([]byte, error) {
	if cmd.Format == "json" {
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	}

	return yaml.Marshal(table)
}

// Help returns help text for the dump command
func (cmd *DumpCmd) Help() string {
	return `Dump the type table or syntax tree of a teal unit.

By default the unit is parsed and resolved, and its type table is
printed as YAML: every nominal type with its fields, variants, and
source spans, plus the unit-level globals. The table is what dependent
units see when they import this unit.

With --tree the unit is only parsed and the statement tree is printed
instead, including the spans of every node. Tree dumps work on units
that do not type-check yet.

Examples:
  # Dump the type table as YAML
  tlfront dump geometry.tl

  # Dump the type table as JSON
  tlfront dump --format json geometry.tl

  # Dump the syntax tree of a literate unit
  tlfront dump --tree docs/shapes.md

  # Write the dump to a file
  tlfront dump -o geometry.yaml geometry.tl`
}
