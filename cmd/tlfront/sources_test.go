package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tealwasm/tlfront"
)

func defaultTestConfig(t *testing.T) *tlfront.Config {
	t.Helper()

	config, err := tlfront.LoadConfig(tlfront.DefaultConfigFile)
	require.NoError(t, err)

	return config
}

func TestCollectSources(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, filepath.Join("src", "alpha.tl"), "local a = 1\n")
	writeTestFile(t, filepath.Join("src", "nested", "beta.tl"), "local b = 2\n")
	writeTestFile(t, filepath.Join("src", ".git", "ignored.tl"), "local broken (\n")
	writeTestFile(t, filepath.Join("src", "readme.txt"), "not teal\n")
	writeTestFile(t, filepath.Join("docs", "guide.md"),
		"---\nunit: guide\n---\n\n# Guide\n\n```teal\nlocal g = 3\n```\n")
	writeTestFile(t, filepath.Join("docs", "plain.md"), "# Plain\n\nNo code here.\n")

	config := defaultTestConfig(t)

	sources, err := collectSources([]string{"."}, config)
	require.NoError(t, err)

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Unit.Name)
	}

	// Lexical walk order: docs before src, nested dirs in place.
	assert.Equal(t, []string{"guide", "alpha", "beta"}, names)

	for _, s := range sources {
		assert.NotZero(t, s.File, "every unit keeps its source file")
		assert.NotZero(t, s.Unit.Source)
	}
}

func TestCollectSourcesExcludedDirs(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, filepath.Join("node_modules", "dep.tl"), "local d = 1\n")
	writeTestFile(t, "main.tl", "local m = 1\n")

	config := defaultTestConfig(t)

	sources, err := collectSources([]string{"."}, config)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "main", sources[0].Unit.Name)
}

func TestCollectSourcesExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, "alpha.tl", "local a = 1\n")
	writeTestFile(t, "notes.txt", "not teal\n")

	config := defaultTestConfig(t)

	sources, err := collectSources([]string{"alpha.tl"}, config)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "alpha", sources[0].Unit.Name)

	// A file named explicitly must be a teal source.
	_, err = collectSources([]string{"notes.txt"}, config)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = collectSources([]string{"missing.tl"}, config)
	assert.Error(t, err)
}

func TestLoadSourceDependencies(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, "front.md",
		"---\nunit: front\ndependencies:\n  - geometry\n---\n\n# Front\n\n```teal\nlocal f = 1\n```\n")
	writeTestFile(t, "bare.md",
		"---\nunit: bare\n---\n\n# Bare\n\n```teal\nlocal b = 1\n```\n")
	writeTestFile(t, "plain.tl", "local p = 1\n")

	config := defaultTestConfig(t)
	config.Units = map[string]tlfront.UnitConfig{
		"bare":  {Dependencies: []string{"base"}},
		"plain": {Dependencies: []string{"core"}},
	}

	front, ok, err := loadSource("front.md", config)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"geometry"}, front.Unit.Dependencies,
		"front matter dependencies win")

	bare, ok, err := loadSource("bare.md", config)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"base"}, bare.Unit.Dependencies,
		"config dependencies fill in when front matter has none")

	plain, ok, err := loadSource("plain.tl", config)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"core"}, plain.Unit.Dependencies)
}

func TestLoadSourceMarkdownDisabled(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, "guide.md", "# Guide\n\n```teal\nlocal g = 1\n```\n")

	config := defaultTestConfig(t)
	disabled := true
	config.Source.Markdown.Disabled = &disabled

	_, ok, err := loadSource("guide.md", config)
	require.NoError(t, err)
	assert.False(t, ok, "literate sources are skipped when markdown is disabled")
}

func TestUnitName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"geometry.tl", "geometry"},
		{filepath.Join("src", "app.tl"), "app"},
		{"shapes.teal", "shapes"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, unitName(tt.path), "unitName(%q)", tt.path)
	}
}

func TestIsTealFile(t *testing.T) {
	assert.True(t, isTealFile("a.tl"))
	assert.True(t, isTealFile("a.TL"))
	assert.True(t, isTealFile("a.teal"))
	assert.False(t, isTealFile("a.md"))
	assert.False(t, isTealFile("a.lua"))
	assert.False(t, isTealFile("tl"))
}
