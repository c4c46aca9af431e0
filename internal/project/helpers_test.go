package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates each path below root; paths ending in "/" become directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("// "+p+"\n"), 0o600))
	}
}

func setupTestPackage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root,
		"Package.swift",
		"Sources/Core/Model.swift",
		"Sources/Core/Nested/Helpers.swift",
		"Sources/Core/README.md",
		"Sources/Core/.hidden/Ignored.swift",
		"Sources/App/main.swift",
		"Sources/Resources/",
		"Sources/Vendor.xcframework/Info.plist",
		"Tests/CoreTests/ModelTests.swift",
		"Plugins/Gen/plugin.swift",
		".build/checkouts/Dep/Sources/Dep/Dep.swift",
	)
	return root
}
