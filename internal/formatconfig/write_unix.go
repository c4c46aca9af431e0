//go:build !windows

package formatconfig

import (
	"github.com/google/renameio/v2"
)

// writeFileAtomic writes data to a pending file next to path and renames it
// into place, so readers never observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return err
	}
	defer func() {
		_ = pendingFile.Cleanup()
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return err
	}
	return pendingFile.CloseAtomicallyReplace()
}
