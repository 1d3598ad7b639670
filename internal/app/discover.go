package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// ErrNoInputs is returned when no pattern matched a readable file.
var ErrNoInputs = errors.New("no input files matched")

// Discover expands file paths and ** globs into a sorted, de-duplicated
// list of files, dropping any path that matches an exclude pattern.
func Discover(patterns, exclude []string) ([]string, error) {
	excluders := make([]glob.Glob, 0, len(exclude))
	for _, p := range exclude {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		excluders = append(excluders, g)
	}

	seen := map[string]bool{}
	var out []string
	add := func(path string) {
		slash := filepath.ToSlash(filepath.Clean(path))
		for _, g := range excluders {
			if g.Match(slash) || g.Match(filepath.Base(path)) {
				return
			}
		}
		if !seen[slash] {
			seen[slash] = true
			out = append(out, path)
		}
	}

	for _, p := range patterns {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			add(p)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(out)
	return out, nil
}
