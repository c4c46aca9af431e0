package fsh

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// PathResolver provides path resolution operations.
type PathResolver interface {
	// Abs returns the absolute path.
	Abs(path string) (string, error)
	// Exists reports whether something (file, directory or symlink target) is present at path.
	Exists(path string) (bool, error)
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct{}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{}
}

// Abs returns the absolute path.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Exists reports whether path can be stat'ed. A missing path is not an error;
// any other stat failure (e.g. permission denied on a parent) is.
func (r *StandardPathResolver) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
