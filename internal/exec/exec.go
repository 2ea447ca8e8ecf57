// Package exec runs external commands and captures their output.
//
// The Executor interface is the seam between command-building code and the
// operating system: production code uses OSExecutor, tests swap in
// MockExecutor so no real processes are spawned. A nonzero exit status is not
// an error at this layer — callers own exit-code policy, because the wrapped
// CLIs are inconsistent about what nonzero means.
package exec

import (
	"bytes"
	"context"
	"os"
	osexec "os/exec"
)

// Spec describes one subprocess to execute. A Spec is built per call and never
// reused; no state is shared between invocations.
type Spec struct {
	// Binary is the executable name, resolved via PATH.
	Binary string
	// Args is the argument vector, already tokenized and decoded.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds additional KEY=VALUE entries merged over os.Environ.
	Env []string
}

// Result holds the captured output of a completed process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor runs a command to completion and returns its captured output.
//
// Cancelling ctx kills the entire process tree rooted at the spawned process,
// not just the direct child — wrapped CLIs fork their own helpers. The kill
// signal is dispatched at most once, and cancelling after the process has
// already exited is a no-op. Run still returns whatever the close observed;
// cancellation does not produce a distinct outcome of its own.
type Executor interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// OSExecutor spawns real processes.
type OSExecutor struct{}

// NewOSExecutor returns an Executor backed by the operating system.
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

// Run spawns the process described by spec and blocks until it exits or ctx is
// cancelled. The returned error is non-nil only for spawn failures (binary
// missing, permission denied); exit status and output travel in the Result.
func (e *OSExecutor) Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := osexec.Command(spec.Binary, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Own process group so cancellation can reach grandchildren.
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}

	// Watcher lives exactly as long as the process. It fires the tree kill at
	// most once; once done closes, a later cancel finds nobody listening.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			killTree(cmd.Process.Pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	switch err := waitErr.(type) {
	case nil:
		res.ExitCode = 0
	case *osexec.ExitError:
		// Includes processes killed by cancellation; the exit code (or -1 for
		// a signal death) flows through to the caller's classification.
		res.ExitCode = err.ExitCode()
	default:
		return res, waitErr
	}
	return res, nil
}
