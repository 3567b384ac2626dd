package tlfront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	// Create a temporary config file with unknown keys
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tlfront.yaml")

	configContent := `
check:
  max_errors: 10
  unknown_key: "should cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Load config should fail due to unknown keys
	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	// Create a temporary config file with valid keys
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tlfront.yaml")

	configContent := `
source:
  include:
    - "./src"
  markdown:
    languages: ["teal"]
check:
  max_errors: 50
  strict: true
report:
  format: "junit"
  output: "./check.xml"
units:
  geometry:
    dependencies: ["mathutil"]
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Load config should succeed
	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, []string{"./src"}, config.Source.Include)
	assert.Equal(t, 50, config.Check.MaxErrors)
	assert.True(t, config.Check.Strict)
	assert.Equal(t, "junit", config.Report.Format)
	assert.Equal(t, []string{"mathutil"}, config.Dependencies("geometry"))

	// Defaults fill the fields the file omitted
	assert.Equal(t, []string{".git", "node_modules"}, config.Source.Exclude)
	assert.Equal(t, 3, config.Format.Indent)
	assert.True(t, config.Source.Markdown.IsEnabled())
}

func TestValidateConfig_NegativeMaxErrors(t *testing.T) {
	config := &Config{
		Check: CheckConfig{MaxErrors: -1},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.IsError(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "check.max_errors")
}

func TestValidateConfig_NegativeParallel(t *testing.T) {
	config := &Config{
		Check: CheckConfig{Parallel: -2},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "check.parallel")
}

func TestValidateConfig_NegativeIndent(t *testing.T) {
	config := &Config{
		Format: FormatConfig{Indent: -4},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "format.indent")
}

func TestValidateConfig_InvalidReportFormat(t *testing.T) {
	config := &Config{
		Report: ReportConfig{Format: "xml"},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "report.format")
}

func TestValidateConfig_SelfDependency(t *testing.T) {
	config := &Config{
		Units: map[string]UnitConfig{
			"geometry": {Dependencies: []string{"geometry"}},
		},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "depends on itself")
}

func TestValidateConfig_EmptyMarkdownLanguage(t *testing.T) {
	config := &Config{
		Source: Sources{
			Markdown: MarkdownConfig{Languages: []string{"teal", ""}},
		},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "markdown.languages")
}
