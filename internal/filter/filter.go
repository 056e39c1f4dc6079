// Package filter selects files based on include/exclude patterns using
// find -path semantics.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes []*regexp.Regexp
	excludes []*regexp.Regexp
}

// New compiles include/exclude patterns into a reusable filter.
func New(includes, excludes []string) (*Filter, error) {
	inc, err := compileAll(normalize(includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := compileAll(normalize(excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc}, nil
}

// match reports whether the relative path should be included.
func (f *Filter) match(path string, hasIncludes bool) bool {
	included := !hasIncludes || matchAny(f.includes, path)
	excluded := matchAny(f.excludes, path)

	return included && !excluded
}

// compileAll compiles every pattern.
func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, len(patterns))

	for idx, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}

		res[idx] = re
	}

	return res, nil
}

// normalize strips leading "./" from patterns so they match cleaned paths.
func normalize(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// Resolve takes positional args (files and directories) and include/exclude
// patterns. Files are added directly, bypassing filtering; directories are
// walked and filtered. Returns the selected files and the total number of
// files scanned before filtering.
func Resolve(args, includes, excludes []string, hasIncludes bool) ([]string, int, error) {
	f, err := New(includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	var (
		files   []string
		scanned int
	)

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, scanned, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			files = append(files, arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				return nil
			}

			scanned++

			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return fmt.Errorf("relativizing %q: %w", path, err)
			}

			if f.match(filepath.ToSlash(rel), hasIncludes) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, scanned, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	return files, scanned, nil
}
