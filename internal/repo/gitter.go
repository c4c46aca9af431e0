package repo

import "context"

// Revision represents a specific git point-in-time (tag, branch or hash).
type Revision string

func (r Revision) String() string { return string(r) }

// Change represents a file status detected in the working tree.
type Change struct {
	Path  string
	IsNew bool // True if the file was added or is untracked
}

// Gitter defines the git operations the plugin needs.
type Gitter interface {
	// Changes lists existing files below dir with the given suffix that differ
	// from since, including untracked files. Paths are absolute.
	Changes(ctx context.Context, since Revision, dir, suffix string) ([]Change, error)
}
