package tlfront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestConfig_Defaults(t *testing.T) {
	config := getDefaultConfig()

	assert.Equal(t, []string{"."}, config.Source.Include)
	assert.Equal(t, []string{".git", "node_modules"}, config.Source.Exclude)
	assert.True(t, config.Source.Markdown.IsEnabled())
	assert.Equal(t, []string{"teal", "tl"}, config.Source.Markdown.Languages)
	assert.Equal(t, 20, config.Check.MaxErrors)
	assert.Equal(t, 0, config.Check.Parallel)
	assert.False(t, config.Check.Strict)
	assert.Equal(t, 3, config.Format.Indent)
	assert.Equal(t, "text", config.Report.Format)
}

func TestConfig_Dependencies(t *testing.T) {
	config := getDefaultConfig()
	config.Units["geometry"] = UnitConfig{Dependencies: []string{"mathutil"}}

	tests := []struct {
		name     string
		unit     string
		expected []string
	}{
		{"configured unit", "geometry", []string{"mathutil"}},
		{"unknown unit", "physics", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.Dependencies(tt.unit))
		})
	}
}

func TestConfig_IsTealFence(t *testing.T) {
	config := getDefaultConfig()

	tests := []struct {
		name     string
		lang     string
		expected bool
	}{
		{"teal fence", "teal", true},
		{"tl fence", "tl", true},
		{"lua fence", "lua", false},
		{"empty fence", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.IsTealFence(tt.lang))
		})
	}
}

func TestMarkdownConfig_IsEnabled(t *testing.T) {
	enabled := false
	disabled := true

	tests := []struct {
		name     string
		config   MarkdownConfig
		expected bool
	}{
		{"unset means enabled", MarkdownConfig{}, true},
		{"disabled false", MarkdownConfig{Disabled: &enabled}, true},
		{"disabled true", MarkdownConfig{Disabled: &disabled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsEnabled())
		})
	}
}

func TestLoadConfig_MissingDefaultFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig(DefaultConfigFile)
	assert.NoError(t, err)
	assert.Equal(t, 20, config.Check.MaxErrors)
	assert.Equal(t, "text", config.Report.Format)
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
	assert.IsError(t, err, ErrConfigFileNotFound)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("TLFRONT_REPORT_DIR", "/tmp/reports")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tlfront.yaml")

	configContent := `
report:
  format: "junit"
  output: "${TLFRONT_REPORT_DIR}/check.xml"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/reports/check.xml", config.Report.Output)
}
