package tlfront

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is the configuration file looked up when no explicit
// path is given.
const DefaultConfigFile = "tlfront.yaml"

// Config represents the tlfront project configuration
type Config struct {
	Source Sources               `yaml:"source"`
	Check  CheckConfig           `yaml:"check"`
	Format FormatConfig          `yaml:"format"`
	Report ReportConfig          `yaml:"report"`
	Units  map[string]UnitConfig `yaml:"units"`
}

// Sources controls which files are collected as compilation units
type Sources struct {
	Include  []string       `yaml:"include"` // files or directories, walked recursively
	Exclude  []string       `yaml:"exclude"` // directory names skipped during the walk
	Markdown MarkdownConfig `yaml:"markdown"`
}

// MarkdownConfig controls extraction of fenced code blocks from literate units
type MarkdownConfig struct {
	Disabled  *bool    `yaml:"disabled"` // Pointer to distinguish between unset and true. If nil or false, extraction is enabled
	Languages []string `yaml:"languages"`
}

// IsEnabled returns true if markdown extraction is not explicitly disabled
func (m *MarkdownConfig) IsEnabled() bool {
	return m.Disabled == nil || !*m.Disabled
}

// CheckConfig represents diagnostics settings for the check command
type CheckConfig struct {
	MaxErrors int  `yaml:"max_errors"` // per-unit diagnostic cap, 0 means the resolver default
	Parallel  int  `yaml:"parallel"`   // worker count, 0 means the CPU count
	Strict    bool `yaml:"strict"`     // treat warnings as failures
}

// FormatConfig represents canonical printing settings
type FormatConfig struct {
	Indent int `yaml:"indent"` // spaces per level, 0 means the formatter default
}

// ReportConfig represents diagnostic report output settings
type ReportConfig struct {
	Format string `yaml:"format"` // text or junit
	Output string `yaml:"output"` // report file path, empty means stdout
}

// UnitConfig carries per-unit settings that plain .tl sources cannot
// declare inline. Literate units declare dependencies in front matter
// instead.
type UnitConfig struct {
	Dependencies []string `yaml:"dependencies"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		if configPath != DefaultConfigFile {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}

		// Return default configuration if the default file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	// Expand environment variables
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Check.MaxErrors < 0 {
		return fmt.Errorf("%w: check.max_errors must be non-negative, got %d", ErrConfigValidation, config.Check.MaxErrors)
	}

	if config.Check.Parallel < 0 {
		return fmt.Errorf("%w: check.parallel must be non-negative, got %d", ErrConfigValidation, config.Check.Parallel)
	}

	if config.Format.Indent < 0 {
		return fmt.Errorf("%w: format.indent must be non-negative, got %d", ErrConfigValidation, config.Format.Indent)
	}

	if config.Report.Format != "" {
		validFormats := map[string]bool{
			"text":  true,
			"junit": true,
		}
		if !validFormats[config.Report.Format] {
			return fmt.Errorf("%w: report.format '%s' is invalid: must be one of text, junit", ErrConfigValidation, config.Report.Format)
		}
	}

	for _, lang := range config.Source.Markdown.Languages {
		if lang == "" {
			return fmt.Errorf("%w: source.markdown.languages must not contain empty entries", ErrConfigValidation)
		}
	}

	for name, unit := range config.Units {
		for _, dep := range unit.Dependencies {
			if dep == name {
				return fmt.Errorf("%w: unit '%s' depends on itself", ErrConfigValidation, name)
			}
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Source: Sources{
			Include: []string{"."},
			Exclude: []string{".git", "node_modules"},
			Markdown: MarkdownConfig{
				Disabled:  nil, // Enabled by default
				Languages: []string{"teal", "tl"},
			},
		},
		Check: CheckConfig{
			MaxErrors: 20,
			Parallel:  0,
			Strict:    false,
		},
		Format: FormatConfig{
			Indent: 3,
		},
		Report: ReportConfig{
			Format: "text",
			Output: "",
		},
		Units: make(map[string]UnitConfig),
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if len(config.Source.Include) == 0 {
		config.Source.Include = []string{"."}
	}

	if len(config.Source.Exclude) == 0 {
		config.Source.Exclude = []string{".git", "node_modules"}
	}

	if len(config.Source.Markdown.Languages) == 0 {
		config.Source.Markdown.Languages = []string{"teal", "tl"}
	}

	if config.Check.MaxErrors == 0 {
		config.Check.MaxErrors = 20
	}

	if config.Format.Indent == 0 {
		config.Format.Indent = 3
	}

	if config.Report.Format == "" {
		config.Report.Format = "text"
	}

	if config.Units == nil {
		config.Units = make(map[string]UnitConfig)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	// Pattern for ${VAR} format
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})

	// Pattern for $VAR format (word boundaries)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}

// expandConfigEnvVars expands environment variables in path-valued fields
func expandConfigEnvVars(config *Config) {
	for i, path := range config.Source.Include {
		config.Source.Include[i] = expandEnvVars(path)
	}

	for i, path := range config.Source.Exclude {
		config.Source.Exclude[i] = expandEnvVars(path)
	}

	config.Report.Output = expandEnvVars(config.Report.Output)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Dependencies returns the configured dependency list for a unit name,
// or nil when the unit has no entry.
func (c *Config) Dependencies(unit string) []string {
	entry, ok := c.Units[unit]
	if !ok {
		return nil
	}

	return entry.Dependencies
}

// IsTealFence reports whether a fenced code block language marker names
// Teal source under this configuration.
func (c *Config) IsTealFence(lang string) bool {
	for _, l := range c.Source.Markdown.Languages {
		if l == lang {
			return true
		}
	}

	return false
}
