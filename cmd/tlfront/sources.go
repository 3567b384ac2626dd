package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/formatter"
	"github.com/tealwasm/tlfront/mdsource"
	"github.com/tealwasm/tlfront/pipeline"
)

// unitSource couples a compilation unit with the file it came from.
type unitSource struct {
	Unit pipeline.Unit
	File string
}

// collectSources gathers compilation units from the given files and
// directories. Directories are walked recursively in lexical order;
// directory names listed in source.exclude are skipped.
func collectSources(paths []string, config *tlfront.Config) ([]unitSource, error) {
	var sources []unitSource

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input: %w", err)
		}

		if !info.IsDir() {
			source, ok, err := loadSource(root, config)
			if err != nil {
				return nil, err
			}

			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, root)
			}

			sources = append(sources, source)

			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if path != root && excludedDir(entry.Name(), config.Source.Exclude) {
					return filepath.SkipDir
				}

				return nil
			}

			source, ok, err := loadSource(path, config)
			if err != nil {
				return err
			}

			if ok {
				sources = append(sources, source)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	return sources, nil
}

// loadSource reads one file and classifies it as a plain teal unit or
// a literate Markdown unit. Files that are neither are reported with
// ok=false so directory walks can pass over them quietly.
func loadSource(path string, config *tlfront.Config) (unitSource, bool, error) {
	switch {
	case isTealFile(path):
		data, err := os.ReadFile(path)
		if err != nil {
			return unitSource{}, false, fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := unitName(path)

		return unitSource{
			Unit: pipeline.Unit{
				Name:         name,
				Source:       string(data),
				Dependencies: config.Dependencies(name),
			},
			File: path,
		}, true, nil

	case formatter.IsMarkdownFile(path):
		if !config.Source.Markdown.IsEnabled() {
			return unitSource{}, false, nil
		}

		file, err := os.Open(path)
		if err != nil {
			return unitSource{}, false, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		doc, err := mdsource.ParseLanguages(file, config.Source.Markdown.Languages)
		if errors.Is(err, mdsource.ErrNoSource) {
			// Ordinary documentation without teal blocks.
			return unitSource{}, false, nil
		}

		if err != nil {
			return unitSource{}, false, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		deps := doc.Dependencies
		if len(deps) == 0 {
			deps = config.Dependencies(doc.Unit)
		}

		return unitSource{
			Unit: pipeline.Unit{
				Name:         doc.Unit,
				Source:       doc.Source(),
				Dependencies: deps,
			},
			File: path,
		}, true, nil
	}

	return unitSource{}, false, nil
}

// isTealFile checks if a file is a plain teal source file
func isTealFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".tl" || ext == ".teal"
}

// unitName derives the unit name from a file path, the base name
// without its extension.
func unitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func excludedDir(name string, exclude []string) bool {
	for _, e := range exclude {
		if name == e {
			return true
		}
	}

	return false
}

// units strips the file bookkeeping off a source list for the
// pipeline.
func units(sources []unitSource) []pipeline.Unit {
	list := make([]pipeline.Unit, len(sources))
	for i, s := range sources {
		list[i] = s.Unit
	}

	return list
}
