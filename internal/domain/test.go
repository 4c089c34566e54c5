package domain

import "fmt"

// NodeKind tells file containers apart from runnable leaves
type NodeKind int

const (
	KindFile NodeKind = iota
	KindTest
)

func (k NodeKind) String() string {
	if k == KindFile {
		return "file"
	}
	return "test"
}

// Position is a zero-based line/column location in a source file
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans two positions in a source file
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Entry is a test entry point recognised in a script
type Entry struct {
	Name        string
	Description string
	Range       Range
}

// TestNode is either a file node (container) or a leaf test node (runnable)
type TestNode struct {
	ID          string   // Stable identifier
	Kind        NodeKind // File or test
	Label       string   // Display label
	Path        string   // Originating file path
	Range       *Range   // Source range, leaves only
	Description string   // Human readable description
	Children    []string // Child identifiers in insertion order
	Parent      string   // Parent identifier, empty for file nodes
}

// IsLeaf reports whether the node can be run on its own
func (n *TestNode) IsLeaf() bool {
	return n.Kind == KindTest
}
