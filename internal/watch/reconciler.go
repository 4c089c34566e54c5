// Package watch keeps the test tree in sync with file-system changes, one
// file at a time.
package watch

import (
	"github.com/sirupsen/logrus"

	"k6x/internal/domain"
	"k6x/internal/tree"
)

// Discoverer rediscovers a single file into the tree
type Discoverer interface {
	DiscoverFile(path string) *domain.TestNode
}

// Reconciler applies file events to the tree
type Reconciler struct {
	discoverer Discoverer
	tree       *tree.Tree
	log        logrus.FieldLogger
}

// NewReconciler creates a new Reconciler
func NewReconciler(discoverer Discoverer, t *tree.Tree, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		discoverer: discoverer,
		tree:       t,
		log:        log.WithField("component", "reconciler"),
	}
}

// Handle applies one event. Create and modify rediscover only that file, which
// drops its node if it no longer holds tests; delete removes the node.
// It returns the file node now in the tree, or nil.
func (r *Reconciler) Handle(ev domain.FileEvent) *domain.TestNode {
	log := r.log.WithFields(logrus.Fields{
		"event": ev.Kind.String(),
		"file":  ev.Path,
	})

	switch ev.Kind {
	case domain.FileCreated, domain.FileModified:
		node := r.discoverer.DiscoverFile(ev.Path)
		if node == nil {
			log.Debug("File holds no tests")
		} else {
			log.WithField("tests", len(node.Children)).Debug("File rediscovered")
		}
		return node
	case domain.FileDeleted:
		if r.tree.RemoveFile(ev.Path) {
			log.Debug("File removed from tree")
		}
	}
	return nil
}

// RemoveDir removes every file node below dir and returns their paths
func (r *Reconciler) RemoveDir(dir string) []string {
	removed := r.tree.RemoveUnder(dir)
	if len(removed) > 0 {
		r.log.WithFields(logrus.Fields{
			"dir":   dir,
			"files": len(removed),
		}).Debug("Directory removed from tree")
	}
	return removed
}
