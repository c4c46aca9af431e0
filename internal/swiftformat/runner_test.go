package swiftformat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test. It stands in for swift-format when
// the test binary re-executes itself.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("SWIFT_FORMAT_PLUGIN_HELPER") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	fmt.Fprintln(os.Stdout, strings.Join(args, " "))
	fmt.Fprintln(os.Stderr, "helper stderr")
	if os.Getenv("SWIFT_FORMAT_PLUGIN_HELPER_KILL") == "1" {
		self, _ := os.FindProcess(os.Getpid())
		_ = self.Kill()
		time.Sleep(time.Minute)
	}
	code, _ := strconv.Atoi(os.Getenv("SWIFT_FORMAT_PLUGIN_HELPER_EXIT"))
	os.Exit(code)
}

func helperInvocation(t *testing.T, args ...string) Invocation {
	t.Helper()
	return Invocation{
		Mode:       ModeLint,
		Subject:    Subject{Name: "Core"},
		Executable: os.Args[0],
		Args:       append([]string{"-test.run=TestHelperProcess", "--"}, args...),
	}
}

//nolint:paralleltest // t.Setenv is used
func TestExecRunner_Run(t *testing.T) {
	t.Setenv("SWIFT_FORMAT_PLUGIN_HELPER", "1")

	t.Run("success streams output", func(t *testing.T) {
		t.Setenv("SWIFT_FORMAT_PLUGIN_HELPER_EXIT", "0")
		var stdout, stderr bytes.Buffer
		r := NewExecRunner(t.TempDir(), &stdout, &stderr)

		inv := helperInvocation(t, "lint", "--configuration", "c.json", "a.swift")
		res, err := r.Run(context.Background(), inv)
		require.NoError(t, err)
		assert.True(t, res.Success())
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.DryRun)
		assert.Equal(t, inv, res.Invocation)
		assert.Contains(t, stdout.String(), "lint --configuration c.json a.swift\n")
		assert.Contains(t, stderr.String(), "helper stderr")
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		t.Setenv("SWIFT_FORMAT_PLUGIN_HELPER_EXIT", "3")
		var stdout, stderr bytes.Buffer
		r := NewExecRunner("", &stdout, &stderr)

		res, err := r.Run(context.Background(), helperInvocation(t, "format"))
		require.NoError(t, err)
		assert.False(t, res.Success())
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("killed by a signal reports the signal number", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("no signals on windows")
		}
		t.Setenv("SWIFT_FORMAT_PLUGIN_HELPER_EXIT", "0")
		t.Setenv("SWIFT_FORMAT_PLUGIN_HELPER_KILL", "1")
		r := NewExecRunner("", &bytes.Buffer{}, &bytes.Buffer{})

		res, err := r.Run(context.Background(), helperInvocation(t, "lint"))
		require.NoError(t, err)
		assert.False(t, res.Success())
		assert.True(t, res.Signaled)
		assert.Equal(t, int(syscall.SIGKILL), res.ExitCode)
	})

	t.Run("error - executable missing", func(t *testing.T) {
		r := NewExecRunner("", &bytes.Buffer{}, &bytes.Buffer{})
		inv := Invocation{Executable: "/definitely/not/swift-format", Args: []string{"lint"}}

		_, err := r.Run(context.Background(), inv)
		var target *StartError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "/definitely/not/swift-format", target.Executable)
		assert.Contains(t, err.Error(), "failed to start")
	})

	t.Run("error - context already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewExecRunner("", &bytes.Buffer{}, &bytes.Buffer{})

		_, err := r.Run(ctx, helperInvocation(t))
		require.Error(t, err)
	})
}

func TestDryRunner_Run(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := &DryRunner{Out: &out}

	inv := DefaultTool("linux").Invocation(ModeLint, "c.json", Files("a.swift"), Subject{Name: "Core"})
	res, err := r.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.True(t, res.Success())
	assert.Equal(t, "swift-format lint (Core): /usr/bin/env swift-format lint --configuration c.json a.swift\n", out.String())
}

func TestRunnersImplementRunner(t *testing.T) {
	t.Parallel()
	var _ Runner = (*ExecRunner)(nil)
	var _ Runner = (*DryRunner)(nil)
}
