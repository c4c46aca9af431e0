//go:build windows

package formatconfig

import (
	"os"
)

// renameio does not support Windows; fall back to a plain write there.
func writeFileAtomic(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
