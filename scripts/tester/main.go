// Package main runs the test suite and, on request, checks per-function coverage.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Functions allowed to sit below 100%, with the lowest acceptable figure.
var exceptions = map[string]float64{
	// the permission error path is skipped when tests run as root
	"internal/fsh/path_resolver.go:35": 75.0,
	// the fsnotify Errors channel cannot be provoked reliably
	"internal/project/watcher.go:101": 90.0,
	// git is not always installed where the tests run
	"internal/repo/cli_gitter.go:40": 85.0,
}

func main() {
	coverage := flag.Bool("coverage", false, "Run with -race and fail on uncovered functions")
	summary := flag.Bool("summary", false, "Print the per-function coverage table")
	profile := flag.String("coverprofile", "coverage.out", "Coverage profile to write")
	flag.Parse()

	ctx := context.Background()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"./..."}
	}

	if *coverage || *summary {
		args = append([]string{"-race", "-coverpkg=./internal/...", "-coverprofile=" + *profile}, args...)
	}

	if _, err := exec.LookPath("gotestsum"); err == nil && !*coverage {
		run(ctx, "gotestsum", append([]string{"--"}, args...)...)
	} else {
		run(ctx, "go", append([]string{"test"}, args...)...)
	}

	if !*coverage && !*summary {
		return
	}

	out, err := exec.CommandContext(ctx, "go", "tool", "cover", "-func", *profile).Output()
	if err != nil {
		fmt.Printf("❌ go tool cover failed: %v\n", err)
		os.Exit(1)
	}
	if *summary {
		fmt.Print(string(out))
	}
	if *coverage {
		check(out)
	}
}

func run(ctx context.Context, name string, args ...string) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Hooks export GIT_DIR and friends, which would leak into the git-backed tests.
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "GIT_") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ %s failed: %v\n", name, err)
		os.Exit(1)
	}
}

func check(report []byte) {
	var failures []string
	var total string

	scanner := bufio.NewScanner(bytes.NewReader(report))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if fields[0] == "total:" {
			total = line
			continue
		}
		if strings.Contains(fields[0], "/cmd/") || strings.Contains(fields[0], "/scripts/") {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil || pct >= 100 || excepted(fields[0], pct) {
			continue
		}
		failures = append(failures, line)
	}

	if len(failures) > 0 {
		fmt.Println("❌ Coverage check failed for:")
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		os.Exit(1)
	}
	fmt.Printf("✅ Coverage check passed. %s\n", total)
}

func excepted(location string, pct float64) bool {
	for suffix, floor := range exceptions {
		if strings.Contains(location, suffix) && pct >= floor {
			return true
		}
	}
	return false
}
