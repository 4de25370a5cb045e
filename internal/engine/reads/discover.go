package reads

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// Matcher decides whether a file name is a read file worth ingesting.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	m := &Matcher{
		include: make([]glob.Glob, 0, len(include)),
		exclude: make([]glob.Glob, 0, len(exclude)),
	}
	for _, p := range include {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		m.include = append(m.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Match reports whether the base name of path passes the filters.
func (m *Matcher) Match(path string) bool {
	base := filepath.Base(path)
	for _, g := range m.exclude {
		if g.Match(base) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludesDir reports whether a directory should be skipped while walking.
func (m *Matcher) ExcludesDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range m.exclude {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Discover expands paths into read files. Explicit files are always kept;
// directories are walked and filtered through m. Files found under one
// directory are returned in lexical order.
func Discover(paths []string, m *Matcher) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if seen[p] {
			return
		}
		seen[p] = true
		files = append(files, p)
	}

	for _, root := range paths {
		if root == "-" {
			add(root)
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && m.ExcludesDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if m.Match(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}
