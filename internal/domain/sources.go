package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"scopemeter.dev/pkg/scopemeter/internal/adapter"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

const recursiveSuffix = "..."

// DefaultSkipDirs are directory names never descended into. tests/ and
// benches/ hold integration test trees, which are excluded as a whole.
var DefaultSkipDirs = []string{".git", "target", "vendor", "node_modules", "tests", "benches"}

// SourceOptions filters the files CollectSources returns.
type SourceOptions struct {
	Extensions []string
	Exclude    []string
	SkipDirs   []string
}

// CollectSources expands path patterns into a sorted, de-duplicated list of
// candidate files. "./..." and "dir/..." walk recursively, a plain directory
// is scanned flat and a file is taken as is. An unreadable root is an error.
//
// Exclude patterns match the walked path as well as the path relative to its
// root, so "^src/gen/" works for any root.
func CollectSources(fs adapter.SourceFSAdapter, paths []m.Path, opts SourceOptions) ([]m.Path, error) {
	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	exclude, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("compile exclude patterns: %w", err)
	}

	skipDirs := opts.SkipDirs
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}

	seen := make(map[m.Path]struct{})
	collected := make([]m.Path, 0)

	add := func(path m.Path) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		collected = append(collected, path)
	}

	for _, pattern := range paths {
		root, recursive := splitPattern(pattern)

		info, err := fs.FileInfo(root)
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if !isExcluded(root, exclude) {
				add(root)
			}

			continue
		}

		err = fs.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				slog.Warn("skipping unreadable path", "path", path, "error", err)

				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if info.IsDir() {
				if path != filepath.Clean(string(root)) && containsName(skipDirs, info.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if !hasExtension(path, opts.Extensions) || isExcluded(m.Path(path), exclude) {
				return nil
			}

			if rel, err := fs.RelPath(root, m.Path(path)); err == nil && isExcluded(rel, exclude) {
				return nil
			}

			add(m.Path(path))

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i] < collected[j]
	})

	return collected, nil
}

func splitPattern(pattern m.Path) (m.Path, bool) {
	p := filepath.ToSlash(string(pattern))
	if !strings.HasSuffix(p, recursiveSuffix) {
		return pattern, false
	}

	root := strings.TrimSuffix(strings.TrimSuffix(p, recursiveSuffix), "/")
	if root == "" {
		root = "."
	}

	return m.Path(filepath.FromSlash(root)), true
}

func hasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	return containsName(extensions, filepath.Ext(path))
}

func isExcluded(path m.Path, exclude []*regexp.Regexp) bool {
	slashed := filepath.ToSlash(string(path))

	for _, re := range exclude {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
