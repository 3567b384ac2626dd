package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing tlfront project")
	}

	// Create project structure
	dirs := []string{
		"src",
		"docs",
	}

	for _, dir := range dirs {
		err := createDir(dir)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if ctx.Verbose {
			color.Green("Created directory: %s", dir)
		}
	}

	// Create sample configuration file
	err := createSampleConfig()
	if err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	// Create sample files
	err = createSampleFiles()
	if err != nil {
		return fmt.Errorf("failed to create sample files: %w", err)
	}

	if !ctx.Quiet {
		color.Green("tlfront project initialized successfully")
		fmt.Println("\nNext steps:")
		fmt.Println("1. Edit tlfront.yaml to configure source directories and units")
		fmt.Println("2. Write teal sources in src/ or literate documents in docs/")
		fmt.Println("3. Run 'tlfront check' to parse and type-check your units")
	}

	return nil
}

func createDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func createSampleConfig() error {
	configContent := `# Source collection settings
source:
  include:
    - "./src"
    - "./docs"
  exclude:
    - ".git"
    - "node_modules"
  markdown:
    # Fence languages treated as teal source in literate documents
    languages: ["teal", "tl"]

# Type checking settings
check:
  max_errors: 20
  parallel: 0      # 0 means one worker per CPU
  strict: false    # true fails the check on warnings too

# Formatting settings
format:
  indent: 3

# Report settings (text or junit)
report:
  format: "text"
  # output: "reports/check.xml"

# Dependencies between units, by unit name. Literate documents can
# declare theirs in front matter instead.
units:
  shapes:
    dependencies:
      - geometry
`

	return writeFile("tlfront.yaml", configContent)
}

func createSampleFiles() error {
	// Create a sample teal unit
	sampleUnit := `global record Vec
   x: number
   y: number
end

global function vec(x: number, y: number): Vec
   return { x = x, y = y }
end
`

	err := writeFile(filepath.Join("src", "geometry.tl"), sampleUnit)
	if err != nil {
		return err
	}

	// Create a sample literate document
	sampleDoc := `---
unit: shapes
dependencies:
  - geometry
---

# Shapes

A segment connects two points from the geometry unit.

` + "```teal" + `
global record Segment
   a: Vec
   b: Vec
end
` + "```" + `
`

	return writeFile(filepath.Join("docs", "shapes.md"), sampleDoc)
}

// writeFile writes content to a file
func writeFile(path, content string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), 0644)
}
