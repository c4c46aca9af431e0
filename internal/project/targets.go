package project

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// TargetDirs are the SwiftPM conventional target locations, in listing order.
var TargetDirs = []string{"Sources", "Tests", "Plugins"}

// SwiftExt is the extension of files handed to swift-format.
const SwiftExt = ".swift"

// TargetKind says whether a target holds source code.
type TargetKind string

const (
	TargetSource TargetKind = "source"
	TargetBinary TargetKind = "binary"
)

var binaryTargetExts = []string{".xcframework", ".artifactbundle"}

// Target is a SwiftPM target directory.
type Target struct {
	Name string
	Dir  string
	Kind TargetKind
	// Files holds the target's .swift files, sorted. Always empty for binary targets.
	Files []string
}

// IsSource reports whether swift-format can be run over the target.
func (t Target) IsSource() bool {
	return t.Kind == TargetSource
}

// Targets lists the package's targets sorted by name, with their Swift
// source files collected concurrently.
func (l *Layout) Targets(ctx context.Context) ([]Target, error) {
	if l.Kind != KindPackage {
		return nil, &NotAPackageError{Root: l.Root}
	}

	var targets []Target
	for _, group := range TargetDirs {
		entries, err := os.ReadDir(filepath.Join(l.Root, group))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			if !e.IsDir() || skipDir(e.Name()) {
				continue
			}
			if l.Excluded(filepath.Join(group, e.Name())) {
				continue
			}

			name, kind := e.Name(), TargetSource
			if ext := filepath.Ext(name); slices.Contains(binaryTargetExts, ext) {
				name, kind = strings.TrimSuffix(name, ext), TargetBinary
			}
			targets = append(targets, Target{
				Name: name,
				Dir:  filepath.Join(l.Root, group, e.Name()),
				Kind: kind,
			})
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Name != targets[j].Name {
			return targets[i].Name < targets[j].Name
		}
		return targets[i].Dir < targets[j].Dir
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range targets {
		if !targets[i].IsSource() {
			continue
		}
		g.Go(func() error {
			files, err := l.swiftFiles(gctx, targets[i].Dir)
			targets[i].Files = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return targets, nil
}

// swiftFiles walks dir for .swift files, pruning hidden and excluded directories.
func (l *Layout) swiftFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, rErr := filepath.Rel(l.Root, path)
		if rErr != nil {
			return rErr
		}

		if d.IsDir() {
			if path != dir && (skipDir(d.Name()) || l.Excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != SwiftExt || l.Excluded(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// SelectTargets keeps the targets named in names, preserving their order in
// all. An empty names slice selects everything.
func SelectTargets(all []Target, names []string) ([]Target, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]bool, len(all))
	available := make([]string, 0, len(all))
	for _, t := range all {
		byName[t.Name] = true
		available = append(available, t.Name)
	}
	for _, n := range names {
		if !byName[n] {
			return nil, &UnknownTargetError{Name: n, Available: available}
		}
	}

	selected := make([]Target, 0, len(names))
	for _, t := range all {
		if slices.Contains(names, t.Name) {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
