package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beanwright/jbgen/internal/parser"
)

// CollectFiles expands roots into the Java files they name, in root order:
// files are taken as given, directories are walked and contribute their
// files sorted by path. Hidden entries and anything matching an exclude
// pattern are left out of a walk. Duplicates keep their first position.
func CollectFiles(roots []string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}

		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, &parser.FileReadError{Path: root, Err: err}
		}
		if !info.IsDir() {
			add(absRoot)
			continue
		}

		var walked []string
		err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != absRoot && shouldExcludeDir(path, absRoot, excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if !parser.IsJavaFile(path) || shouldExcludeFile(path, absRoot, excludes) {
				return nil
			}
			walked = append(walked, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
		sort.Strings(walked)
		for _, path := range walked {
			add(path)
		}
	}

	return files, nil
}

// shouldExcludeDir checks if a directory should be skipped
func shouldExcludeDir(path, basePath string, patterns []string) bool {
	relPath := filepath.ToSlash(getRelativePath(path, basePath))

	// Always exclude hidden directories
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}

	for _, pattern := range patterns {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if base == dirPattern || relPath == dirPattern {
			return true
		}

		if matched, _ := filepath.Match(dirPattern, relPath); matched {
			return true
		}

		// "**/name" matches a directory called name at any depth.
		if rest, ok := strings.CutPrefix(dirPattern, "**/"); ok {
			if matched, _ := filepath.Match(rest, base); matched {
				return true
			}
		}
	}

	return false
}

// shouldExcludeFile checks if a file should be skipped
func shouldExcludeFile(path, basePath string, patterns []string) bool {
	relPath := filepath.ToSlash(getRelativePath(path, basePath))
	base := filepath.Base(path)

	// Always exclude hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "**") {
			simplePattern := strings.ReplaceAll(pattern, "**/", "")
			simplePattern = strings.ReplaceAll(simplePattern, "**", "")

			if simplePattern != "" {
				if matched, _ := filepath.Match(simplePattern, base); matched {
					return true
				}
			}
		}

		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}

		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// getRelativePath returns path relative to basePath
func getRelativePath(path, basePath string) string {
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		return path
	}
	return rel
}
