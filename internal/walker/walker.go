// Package walker discovers candidate source files under a project root.
// Include and exclude filtering lives here, not in the pipeline: the
// analyzer takes whatever list the walker yields.
package walker

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludes match the file types the React extractor understands.
var DefaultIncludes = []string{
	"**/*.ts",
	"**/*.tsx",
	"**/*.js",
	"**/*.jsx",
}

// DefaultExcludes skip dependency trees, build output, and test/story
// files that describe components rather than define them.
var DefaultExcludes = []string{
	"node_modules/**",
	"dist/**",
	"build/**",
	"out/**",
	"coverage/**",
	".next/**",
	".uimap/**",
	"**/*.test.*",
	"**/*.spec.*",
	"**/*.stories.*",
	"**/__tests__/**",
	"**/__mocks__/**",
}

// Walker lists project files matching include globs and no exclude glob.
type Walker struct {
	root     string
	includes []string
	excludes []string
}

// New creates a Walker rooted at root. Nil patterns select the defaults.
func New(root string, includes, excludes []string) *Walker {
	if includes == nil {
		includes = DefaultIncludes
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}
	return &Walker{root: root, includes: includes, excludes: excludes}
}

// Walk returns absolute paths of matching files, sorted for a stable scan
// order. Hidden directories are skipped outright.
func (w *Walker) Walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || w.excludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.matches(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (w *Walker) matches(rel string) bool {
	included := false
	for _, pattern := range w.includes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// excludedDir prunes directories whose entire subtree is excluded by a
// "dir/**" pattern.
func (w *Walker) excludedDir(rel string) bool {
	for _, pattern := range w.excludes {
		if !strings.HasSuffix(pattern, "/**") {
			continue
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), rel); ok {
			return true
		}
	}
	return false
}
