package discovery

import (
	"context"

	"github.com/sirupsen/logrus"

	"k6x/internal/domain"
	"k6x/internal/tree"
)

// Service feeds the test tree from the workspace roots
type Service struct {
	roots   []string
	scanner *Scanner
	parser  *Parser
	tree    *tree.Tree
	log     logrus.FieldLogger
}

// NewService creates a new discovery Service
func NewService(roots []string, scanner *Scanner, parser *Parser, t *tree.Tree, log logrus.FieldLogger) *Service {
	return &Service{
		roots:   roots,
		scanner: scanner,
		parser:  parser,
		tree:    t,
		log:     log.WithField("component", "discovery"),
	}
}

// Refresh clears the tree and rediscovers every root.
// A root that cannot be walked is logged and skipped.
func (s *Service) Refresh(ctx context.Context) error {
	s.tree.Reset()

	for _, root := range s.roots {
		files, err := s.scanner.Scan(root)
		if err != nil {
			s.log.WithError(err).WithField("root", root).Warn("Failed to scan workspace root")
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.DiscoverFile(file)
		}
	}

	s.log.WithField("files", s.tree.Len()).Debug("Discovery finished")
	return nil
}

// DiscoverFile reads one file and replaces its subtree.
// It returns the new file node, or nil when the file holds no tests.
func (s *Service) DiscoverFile(path string) *domain.TestNode {
	entries := s.parser.FindEntries(path)
	node := s.tree.UpsertFile(path, entries)

	s.log.WithFields(logrus.Fields{
		"file":  path,
		"tests": len(entries),
	}).Debug("Discovered file")

	return node
}

// Scanner exposes the glob matcher shared with the watcher
func (s *Service) Scanner() *Scanner {
	return s.scanner
}

// Roots returns the workspace roots
func (s *Service) Roots() []string {
	return s.roots
}

// Tree returns the tree fed by this service
func (s *Service) Tree() *tree.Tree {
	return s.tree
}
