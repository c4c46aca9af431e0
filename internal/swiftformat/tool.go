// Package swiftformat builds swift-format command lines and runs them.
package swiftformat

import (
	"fmt"
	"strings"
)

// Mode is the swift-format subcommand.
type Mode string

const (
	ModeLint   Mode = "lint"
	ModeFormat Mode = "format"
)

const (
	// BinaryName is passed to the platform launcher as the first argument.
	BinaryName = "swift-format"

	xcrunPath = "/usr/bin/xcrun"
	envPath   = "/usr/bin/env"
)

// Tool describes how swift-format is launched.
type Tool struct {
	// Executable is the program that is actually spawned.
	Executable string
	// Prefix is prepended to every argument list (e.g. "swift-format" when the
	// executable is a launcher such as xcrun).
	Prefix []string
	// Parallel adds --parallel to format runs.
	Parallel bool
}

// DefaultTool returns the platform launcher: xcrun resolves swift-format from
// the active Xcode toolchain on macOS; elsewhere the binary is expected on $PATH.
func DefaultTool(goos string) Tool {
	executable := envPath
	if goos == "darwin" {
		executable = xcrunPath
	}
	return Tool{
		Executable: executable,
		Prefix:     []string{BinaryName},
		Parallel:   true,
	}
}

// NewTool returns DefaultTool(goos) unless override names a specific
// swift-format binary, in which case it is run directly with no prefix.
func NewTool(goos, override string, parallel bool) Tool {
	t := DefaultTool(goos)
	if override != "" {
		t.Executable = override
		t.Prefix = nil
	}
	t.Parallel = parallel
	return t
}

// Scope selects what swift-format operates on: an explicit file list, or a
// directory walked with --recursive.
type Scope struct {
	Files     []string
	Recursive string
}

// Files scopes an invocation to an explicit list of files.
func Files(paths ...string) Scope {
	return Scope{Files: paths}
}

// Recursive scopes an invocation to everything below dir.
func Recursive(dir string) Scope {
	return Scope{Recursive: dir}
}

// Subject names what an invocation covers, for diagnostics.
type Subject struct {
	Name      string
	IsProject bool
}

func (s Subject) String() string {
	if s.IsProject {
		return fmt.Sprintf("project %q", s.Name)
	}
	return fmt.Sprintf("target %q", s.Name)
}

// Invocation is a fully built command line.
type Invocation struct {
	Mode       Mode
	Subject    Subject
	Executable string
	Args       []string
}

// DisplayName mirrors how a build log labels the step.
func (inv Invocation) DisplayName() string {
	return fmt.Sprintf("%s %s (%s)", BinaryName, inv.Mode, inv.Subject.Name)
}

// String renders the command line; it is not shell-escaped.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Executable}, inv.Args...), " ")
}

// Invocation builds the argument vector for mode. The order is fixed:
//
//	lint:   <prefix> lint --configuration <cfg> <files...> | --recursive <dir>
//	format: <prefix> format --in-place [--parallel] --configuration <cfg> <files...> | --recursive <dir>
func (t Tool) Invocation(mode Mode, configPath string, scope Scope, subject Subject) Invocation {
	args := make([]string, 0, len(t.Prefix)+6+len(scope.Files))
	args = append(args, t.Prefix...)
	args = append(args, string(mode))
	if mode == ModeFormat {
		args = append(args, "--in-place")
		if t.Parallel {
			args = append(args, "--parallel")
		}
	}
	args = append(args, "--configuration", configPath)
	if scope.Recursive != "" {
		args = append(args, "--recursive", scope.Recursive)
	} else {
		args = append(args, scope.Files...)
	}

	return Invocation{
		Mode:       mode,
		Subject:    subject,
		Executable: t.Executable,
		Args:       args,
	}
}
