// Package project works out what kind of Swift project lives at a root
// directory and which source files belong to it.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind distinguishes a Swift package from an IDE project.
type Kind string

const (
	// KindPackage is a SwiftPM package: swift-format runs per target over an explicit file list.
	KindPackage Kind = "package"
	// KindProject is an Xcode project (or a plain directory): swift-format runs once, recursively.
	KindProject Kind = "project"
)

// ManifestFile marks the root of a Swift package.
const ManifestFile = "Package.swift"

var projectBundleExts = []string{".xcodeproj", ".xcworkspace"}

// Layout describes the project found at Root.
type Layout struct {
	Root string
	Kind Kind
	// Name is the display name: the package directory name, or the Xcode
	// project name without its extension.
	Name string

	excludes []string
}

// Detect inspects root. A Package.swift wins over an Xcode project bundle
// sitting next to it, matching how the package is built by SwiftPM.
func Detect(root string, excludes []string) (*Layout, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, &NotADirectoryError{Path: root}
	}

	l := &Layout{
		Root:     root,
		Kind:     KindProject,
		Name:     filepath.Base(root),
		excludes: excludes,
	}

	if _, err := os.Stat(filepath.Join(root, ManifestFile)); err == nil {
		l.Kind = KindPackage
		return l, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		for _, bundle := range projectBundleExts {
			if e.IsDir() && ext == bundle {
				l.Name = strings.TrimSuffix(e.Name(), ext)
				return l, nil
			}
		}
	}
	return l, nil
}

// Excluded reports whether the root-relative path rel matches an exclude glob.
func (l *Layout) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range l.excludes {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// skipDir reports whether a directory below the root should never be walked
// (.build, .git, .swiftpm and other hidden directories).
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".")
}
