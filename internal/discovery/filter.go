package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test files by name pattern using wildcard matching.
// Supports patterns like "*spike.test.js" or "*api*"
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string

	for _, test := range tests {
		// Get just the filename from the full path
		testName := filepath.Base(test)

		// filepath.Match supports * and ? wildcards
		matched, err := filepath.Match(pattern, testName)
		if err == nil && matched {
			filtered = append(filtered, test)
			continue
		}

		if strings.Contains(pattern, "*") {
			if containsAllParts(testName, strings.Split(pattern, "*")) {
				filtered = append(filtered, test)
			}
			continue
		}

		// If no wildcards, do a simple contains check
		if !strings.Contains(pattern, "?") && strings.Contains(testName, pattern) {
			filtered = append(filtered, test)
		}
	}

	return filtered
}

// containsAllParts requires at least one non-empty part and every non-empty part present in name
func containsAllParts(name string, parts []string) bool {
	nonEmpty := 0
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !strings.Contains(name, part) {
			return false
		}
		nonEmpty++
	}
	return nonEmpty > 0
}
