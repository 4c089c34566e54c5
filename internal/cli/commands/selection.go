package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"k6x/internal/discovery"
	"k6x/internal/domain"
	"k6x/internal/tree"
)

// filterFiles returns the file nodes whose base name matches pattern
func filterFiles(t *tree.Tree, filter *discovery.Filter, pattern string) []*domain.TestNode {
	files := t.Files()
	if pattern == "" {
		return files
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
	}
	keep := make(map[string]bool)
	for _, path := range filter.FilterByName(paths, pattern) {
		keep[path] = true
	}

	var filtered []*domain.TestNode
	for _, file := range files {
		if keep[file.Path] {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// selectIDs turns command arguments into tree identifiers.
// An argument is a node identifier, a test file path or a directory containing test files.
// Unknown arguments are logged and skipped.
func selectIDs(t *tree.Tree, args []string, log logrus.FieldLogger) []string {
	var ids []string
	for _, arg := range args {
		if _, ok := t.Get(arg); ok {
			ids = append(ids, arg)
			continue
		}

		if node, ok := t.FindByURI(arg); ok {
			ids = append(ids, node.ID)
			continue
		}

		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			dir := tree.FileID(arg) + string(filepath.Separator)
			matched := false
			for _, file := range t.Files() {
				if strings.HasPrefix(file.ID, dir) {
					ids = append(ids, file.ID)
					matched = true
				}
			}
			if matched {
				continue
			}
		}

		log.WithField("selection", arg).Warn("No tests match selection")
	}
	return ids
}

// intersect keeps the leaves of selected whose file is in files
func intersect(selected []*domain.TestNode, files []*domain.TestNode) []string {
	allowed := make(map[string]bool, len(files))
	for _, file := range files {
		allowed[file.ID] = true
	}

	var ids []string
	for _, leaf := range selected {
		if allowed[leaf.Parent] {
			ids = append(ids, leaf.ID)
		}
	}
	return ids
}

// failedIDs returns the identifiers of unresolved failures of a stored report
func failedIDs(report *domain.RunReport) []string {
	var ids []string
	for _, rec := range report.Failures() {
		if !rec.Resolved {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// failedSet marks leaf identifiers that failed in report
func failedSet(report *domain.RunReport) map[string]bool {
	failed := make(map[string]bool)
	if report == nil {
		return failed
	}
	for _, rec := range report.Failures() {
		failed[rec.ID] = true
	}
	return failed
}
