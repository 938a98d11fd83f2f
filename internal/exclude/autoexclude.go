// Package exclude detects the build output directories of Java projects so
// batch runs never rewrite generated or copied sources.
package exclude

import (
	"os"
	"path/filepath"
	"strings"
)

// AutoExcludeResult contains the directories to exclude and why.
type AutoExcludeResult struct {
	// Directories to exclude (relative to project root, slash separated)
	Directories []string
	// Reasons maps each directory to why it was excluded
	Reasons map[string]string
}

// buildOutputs maps a build marker file to the output directories that sit
// next to it.
var buildOutputs = map[string][]struct {
	dir    string
	reason string
}{
	"pom.xml": {
		{"target", "Maven build output (pom.xml detected)"},
	},
	"build.gradle": {
		{"build", "Gradle build output (build.gradle detected)"},
		{".gradle", "Gradle cache (build.gradle detected)"},
	},
	"build.gradle.kts": {
		{"build", "Gradle build output (build.gradle.kts detected)"},
		{".gradle", "Gradle cache (build.gradle.kts detected)"},
	},
	"build.xml": {
		{"build", "Ant build output (build.xml detected)"},
	},
	".classpath": {
		{"bin", "Eclipse output folder (.classpath detected)"},
	},
}

// DetectAutoExcludes scans the project root for build output directories.
// Only directories that exist next to a build marker are reported, and the
// walk recurses so nested modules of multi-module builds are covered.
func DetectAutoExcludes(projectRoot string) *AutoExcludeResult {
	result := &AutoExcludeResult{
		Directories: []string{},
		Reasons:     make(map[string]string),
	}

	_ = filepath.WalkDir(projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == projectRoot {
				return nil
			}
			if isExcluded(result.Directories, relPath) {
				return filepath.SkipDir
			}
			// Never descend into VCS metadata or node dependencies.
			switch d.Name() {
			case ".git", ".svn", ".hg", "node_modules":
				return filepath.SkipDir
			}
			return nil
		}

		outputs, ok := buildOutputs[d.Name()]
		if !ok {
			return nil
		}
		relDir := filepath.ToSlash(filepath.Dir(relPath))

		for _, out := range outputs {
			dir := out.dir
			if relDir != "." {
				dir = relDir + "/" + out.dir
			}
			if contains(result.Directories, dir) || !dirExists(filepath.Join(projectRoot, filepath.FromSlash(dir))) {
				continue
			}
			result.Directories = append(result.Directories, dir)
			result.Reasons[dir] = out.reason
		}
		return nil
	})

	return result
}

// isExcluded reports whether relPath is, or lies under, an excluded directory.
func isExcluded(dirs []string, relPath string) bool {
	for _, excluded := range dirs {
		if relPath == excluded || strings.HasPrefix(relPath, excluded+"/") {
			return true
		}
	}
	return false
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// contains checks if a string is in a slice.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
