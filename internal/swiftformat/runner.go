package swiftformat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// Result is the outcome of one invocation.
type Result struct {
	Invocation Invocation
	// ExitCode is the process exit status, or the signal number when the
	// process was killed by a signal.
	ExitCode int
	Signaled bool
	Duration time.Duration
	// DryRun is set when the invocation was printed rather than run.
	DryRun bool
}

// Success reports whether swift-format exited cleanly.
func (r Result) Success() bool {
	return r.ExitCode == 0 && !r.Signaled
}

// StartError is returned when the executable could not be spawned at all.
type StartError struct {
	Executable string
	Wrapped    error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Executable, e.Wrapped)
}

func (e *StartError) Unwrap() error {
	return e.Wrapped
}

// Runner runs invocations.
type Runner interface {
	// Run blocks until the process exits. A non-zero exit is reported in the
	// Result; only a failure to start the process is returned as an error.
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner is the concrete Runner using os/exec.
type ExecRunner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner that runs in dir and streams output to stdout/stderr.
func NewExecRunner(dir string, stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Dir: dir, Stdout: stdout, Stderr: stderr}
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	//nolint:gosec // the executable comes from the user's own settings or the platform default
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{Invocation: inv, Duration: time.Since(start)}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.ExitCode, res.Signaled = int(ws.Signal()), true
		}
		return res, nil
	default:
		return res, &StartError{Executable: inv.Executable, Wrapped: err}
	}
}

// DryRunner prints each invocation instead of running it.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(_ context.Context, inv Invocation) (Result, error) {
	fmt.Fprintf(r.Out, "%s: %s\n", inv.DisplayName(), inv)
	return Result{Invocation: inv, DryRun: true}, nil
}
