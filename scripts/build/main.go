// Package main builds bin/swift-format-plugin with the version stamped in.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/swift-format-plugin/internal/app.Version"

func main() {
	ctx := context.Background()

	binaryName := "swift-format-plugin"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := gitVersion(ctx)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s %s...\n", binaryName, version)

	cmd := exec.CommandContext(ctx, "go", "build", "-trimpath", "-ldflags", ldflags, "-o", outputPath,
		"./cmd/swift-format-plugin")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// gitVersion describes HEAD, or returns "dev" outside a git checkout.
func gitVersion(ctx context.Context) string {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
