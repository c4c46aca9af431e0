package repo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// absPath is a variable for filepath.Abs to allow mocking in tests.
var absPath = filepath.Abs

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	// Executable defaults to "git" on the PATH.
	Executable string
}

func NewCLIGitter() *CLIGitter {
	return &CLIGitter{Executable: "git"}
}

func (g *CLIGitter) git(ctx context.Context, dir string, args ...string) (string, error) {
	//nolint:gosec // arguments are built internally
	cmd := exec.CommandContext(ctx, g.Executable, append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w (output: %s)", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// Changes compares the working tree below dir with since. Deleted files are
// dropped; a rename reports the new path.
func (g *CLIGitter) Changes(ctx context.Context, since Revision, dir, suffix string) ([]Change, error) {
	absDir, err := absPath(dir)
	if err != nil {
		return nil, err
	}

	// --relative keeps paths relative to dir, whatever the repository root is.
	// -z keeps paths unquoted, whatever characters they contain.
	diff, err := g.git(ctx, absDir, "diff", "--name-status", "--relative", "-z", "-M", since.String(), "--", ".")
	if err != nil {
		return nil, err
	}

	var changes []Change
	seen := map[string]bool{}
	add := func(rel string, isNew bool) {
		if !strings.HasSuffix(rel, suffix) {
			return
		}
		path := filepath.Join(absDir, filepath.FromSlash(rel))
		if seen[path] {
			return
		}
		seen[path] = true
		changes = append(changes, Change{Path: path, IsNew: isNew})
	}

	// Records are "status NUL path NUL", or "status NUL old NUL new NUL" for
	// renames and copies.
	fields := nulFields(diff)
	for i := 0; i < len(fields); {
		status := fields[i]
		paths := 1
		if strings.HasPrefix(status, "R") || strings.HasPrefix(status, "C") {
			paths = 2
		}
		if i+paths >= len(fields) {
			break
		}
		path := fields[i+paths]
		i += paths + 1

		if strings.HasPrefix(status, "D") {
			continue
		}
		add(path, paths == 2 || status == "A")
	}

	untracked, err := g.git(ctx, absDir, "ls-files", "--others", "--exclude-standard", "-z", "--", ".")
	if err != nil {
		return nil, err
	}
	for _, path := range nulFields(untracked) {
		add(path, true)
	}

	slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	return changes, nil
}

func nulFields(out string) []string {
	return strings.FieldsFunc(out, func(r rune) bool { return r == 0 })
}
