// Package tree holds the two-level test tree: file nodes at depth 1 and
// leaf test nodes at depth 2, keyed by stable identifiers.
package tree

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"k6x/internal/domain"
)

// LeafSeparator joins a file identifier and a test name
const LeafSeparator = "::"

// Tree is safe for concurrent use. Readers get copies of nodes, never the stored ones.
type Tree struct {
	mu    sync.RWMutex
	nodes map[string]*domain.TestNode
	files []string // file identifiers in insertion order
	base  string   // directory file descriptions are made relative to
}

// New creates an empty tree. base is used to describe file nodes by their relative path.
func New(base string) *Tree {
	return &Tree{
		nodes: make(map[string]*domain.TestNode),
		base:  base,
	}
}

// FileID returns the canonical identifier of a file node
func FileID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// LeafID returns the identifier of a leaf. The line is only used to keep a
// repeated name in the same file unique.
func LeafID(fileID, name string, line int, repeated bool) string {
	if repeated {
		return fmt.Sprintf("%s%s%s@%d", fileID, LeafSeparator, name, line)
	}
	return fileID + LeafSeparator + name
}

// UpsertFile replaces the subtree of path with a file node holding one leaf per entry.
// With no entries the file is only removed: it no longer counts as a test file.
// It returns a copy of the inserted file node, or nil.
func (t *Tree) UpsertFile(path string, entries []domain.Entry) *domain.TestNode {
	id := FileID(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeLocked(id)
	if len(entries) == 0 {
		return nil
	}

	file := &domain.TestNode{
		ID:          id,
		Kind:        domain.KindFile,
		Label:       filepath.Base(id),
		Path:        id,
		Description: t.describe(id),
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		r := entry.Range
		leaf := &domain.TestNode{
			ID:          LeafID(id, entry.Name, r.Start.Line, seen[entry.Name]),
			Kind:        domain.KindTest,
			Label:       entry.Name,
			Path:        id,
			Range:       &r,
			Description: entry.Description,
			Parent:      id,
		}
		seen[entry.Name] = true
		if _, dup := t.nodes[leaf.ID]; dup {
			continue
		}
		t.nodes[leaf.ID] = leaf
		file.Children = append(file.Children, leaf.ID)
	}

	t.nodes[id] = file
	t.files = append(t.files, id)
	return cloneNode(file)
}

// RemoveFile deletes the file node keyed by path and its leaves. It reports whether anything was removed.
func (t *Tree) RemoveFile(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(FileID(path))
}

// RemoveUnder deletes every file node below dir and returns their IDs
func (t *Tree) RemoveUnder(dir string) []string {
	prefix := FileID(dir) + string(filepath.Separator)

	t.mu.Lock()
	defer t.mu.Unlock()

	var matched []string
	for _, id := range t.files {
		if strings.HasPrefix(id, prefix) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		t.removeLocked(id)
	}
	return matched
}

func (t *Tree) removeLocked(id string) bool {
	file, ok := t.nodes[id]
	if !ok || file.Kind != domain.KindFile {
		return false
	}
	for _, child := range file.Children {
		delete(t.nodes, child)
	}
	delete(t.nodes, id)
	for i, fid := range t.files {
		if fid == id {
			t.files = append(t.files[:i], t.files[i+1:]...)
			break
		}
	}
	return true
}

// FindByURI returns the file node discovered from path
func (t *Tree) FindByURI(path string) (*domain.TestNode, bool) {
	return t.Get(FileID(path))
}

// Get returns a copy of the node with the given identifier
func (t *Tree) Get(id string) (*domain.TestNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return cloneNode(node), true
}

// Files returns copies of the file nodes in insertion order
func (t *Tree) Files() []*domain.TestNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files := make([]*domain.TestNode, 0, len(t.files))
	for _, id := range t.files {
		files = append(files, cloneNode(t.nodes[id]))
	}
	return files
}

// Children returns copies of the children of id in insertion order
func (t *Tree) Children(id string) []*domain.TestNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil
	}
	children := make([]*domain.TestNode, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, cloneNode(t.nodes[child]))
	}
	return children
}

// ResolveLeaves flattens a selection into leaves, depth first and in insertion order.
// An empty selection means every leaf. Unknown identifiers are skipped and a leaf
// selected twice is returned once. The result is a snapshot: later mutations do not affect it.
func (t *Tree) ResolveLeaves(ids []string) []*domain.TestNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(ids) == 0 {
		ids = t.files
	}

	var leaves []*domain.TestNode
	seen := make(map[string]bool)
	var collect func(id string)
	collect = func(id string) {
		node, ok := t.nodes[id]
		if !ok {
			return
		}
		if node.IsLeaf() {
			if !seen[id] {
				seen[id] = true
				leaves = append(leaves, cloneNode(node))
			}
			return
		}
		for _, child := range node.Children {
			collect(child)
		}
	}
	for _, id := range ids {
		collect(id)
	}
	return leaves
}

// Reset removes every node
func (t *Tree) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nodes = make(map[string]*domain.TestNode)
	t.files = nil
}

// Base returns the directory file descriptions are relative to
func (t *Tree) Base() string {
	return t.base
}

// Len returns the number of file nodes
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.files)
}

func (t *Tree) describe(id string) string {
	if t.base == "" {
		return id
	}
	rel, err := filepath.Rel(t.base, id)
	if err != nil {
		return id
	}
	return rel
}

func cloneNode(n *domain.TestNode) *domain.TestNode {
	c := *n
	if n.Range != nil {
		r := *n.Range
		c.Range = &r
	}
	c.Children = append([]string(nil), n.Children...)
	return &c
}
