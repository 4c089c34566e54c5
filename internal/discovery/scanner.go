package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner scans workspace roots for files matching the test file glob
type Scanner struct {
	pattern  string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner for the given glob and directories to skip
func NewScanner(pattern string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{pattern: pattern, skipDirs: skipMap}
}

// Scan finds all test files in the given root directory, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.Matches(root, path) {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	sort.Strings(testfiles)
	return testfiles, err
}

// SkipDir reports whether a directory with this name is never descended into
func (s *Scanner) SkipDir(name string) bool {
	// Skip hidden directories (starting with .)
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return s.skipDirs[name]
}

// Matches reports whether path, relative to root, matches the test file glob
func (s *Scanner) Matches(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	matched, err := doublestar.Match(s.pattern, filepath.ToSlash(rel))
	return err == nil && matched
}
