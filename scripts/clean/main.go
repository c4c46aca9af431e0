// Package main removes build output, plugin work directories and coverage files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var targets []string
	targets = append(targets, "bin", "dist", filepath.Join(".build", "swift-format-plugin"))
	for _, pattern := range []string{"coverage*", "*.out", "*.test", "*.coverprofile"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Bad pattern %s: %v\n", pattern, err)
			continue
		}
		targets = append(targets, matches...)
	}

	for _, t := range targets {
		if _, err := os.Lstat(t); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(t); err != nil {
			fmt.Printf("❌ Failed to remove %s: %v\n", t, err)
			continue
		}
		fmt.Printf("✅ Removed %s\n", t)
	}
}
