package domain

// FileEventKind is the kind of file-system change
type FileEventKind int

const (
	FileCreated FileEventKind = iota
	FileModified
	FileDeleted
)

func (k FileEventKind) String() string {
	switch k {
	case FileCreated:
		return "create"
	case FileModified:
		return "modify"
	case FileDeleted:
		return "delete"
	}
	return "unknown"
}

// FileEvent is a change notification for one file
type FileEvent struct {
	Kind FileEventKind
	Path string
}
