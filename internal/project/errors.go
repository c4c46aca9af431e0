package project

import (
	"fmt"
	"strings"
)

type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("project root is not a directory: %s", e.Path)
}

type UnknownTargetError struct {
	Name      string
	Available []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("no target named '%s' (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

type NotAPackageError struct {
	Root string
}

func (e *NotAPackageError) Error() string {
	return fmt.Sprintf("%s has no %s; targets can only be selected in a Swift package", e.Root, ManifestFile)
}
