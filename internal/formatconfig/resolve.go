package formatconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andyballingall/swift-format-plugin/internal/fsh"
)

// Source records where a resolved configuration came from.
type Source string

const (
	SourceProject  Source = "project"
	SourceFallback Source = "fallback"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Path   string
	Source Source
}

// Remarker receives informational diagnostics.
type Remarker interface {
	Remark(msg string)
}

// Resolver picks the configuration document for a run.
type Resolver struct {
	paths   fsh.PathResolver
	remarks Remarker

	writeFile func(path string, data []byte) error
}

// NewResolver creates a Resolver.
func NewResolver(paths fsh.PathResolver, remarks Remarker) *Resolver {
	return &Resolver{
		paths:     paths,
		remarks:   remarks,
		writeFile: writeFileAtomic,
	}
}

// Resolve returns <projectRoot>/.swift-format when it exists. Otherwise it
// writes FallbackJSON to <workDir>/swift-format-fallback.json and returns that.
func (r *Resolver) Resolve(projectRoot, workDir string) (Resolution, error) {
	projectConfig := filepath.Join(projectRoot, ProjectConfigFile)
	exists, err := r.paths.Exists(projectConfig)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to check for %s: %w", projectConfig, err)
	}
	if exists {
		r.remarks.Remark(fmt.Sprintf("Using project configuration at %s.", projectConfig))
		return Resolution{Path: projectConfig, Source: SourceProject}, nil
	}

	fallback := filepath.Join(workDir, FallbackConfigFile)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Resolution{}, &FallbackWriteError{Path: fallback, Wrapped: err}
	}
	if err := r.writeFile(fallback, []byte(FallbackJSON)); err != nil {
		return Resolution{}, &FallbackWriteError{Path: fallback, Wrapped: err}
	}
	r.remarks.Remark("No .swift-format found in project root; using bundled fallback configuration.")
	return Resolution{Path: fallback, Source: SourceFallback}, nil
}

// Init writes the bundled configuration to <projectRoot>/.swift-format so the
// project can start customising it. An existing file is never overwritten.
func Init(projectRoot string) (string, error) {
	path := filepath.Join(projectRoot, ProjectConfigFile)
	if _, err := os.Lstat(path); err == nil {
		return "", &ConfigExistsError{Path: path}
	}
	if err := writeFileAtomic(path, []byte(FallbackJSON)); err != nil {
		return "", fmt.Errorf("failed to write configuration file: %w", err)
	}
	return path, nil
}
