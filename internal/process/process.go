// Package process runs a single external command to completion.
//
// A Command is started with optional stdin, its stdout and stderr are captured
// up to MaxOutputSize, and it is bounded by an optional timeout. When the
// timeout expires the whole process group is killed and ErrTimeoutExceeded is
// returned with no result.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/Norgate-AV/ace/internal/ctxlog"
)

const (
	// MaxOutputSize caps how much of each output stream is kept.
	MaxOutputSize = 8 * 1024 * 1024

	// waitDelay bounds how long Wait blocks on pipes still held by
	// grandchildren after the child itself has exited or been killed.
	waitDelay = 500 * time.Millisecond
)

var (
	// ErrCouldNotStartProcess is returned when the executable cannot be found or started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrTimeoutExceeded is returned when the command runs past its timeout.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
)

// Command describes one process invocation.
type Command struct {
	Path    string        // Executable name or path. Names are resolved via PATH.
	Args    []string      // Arguments, not including the executable itself.
	Dir     string        // Working directory, empty for the current one.
	Stdin   io.Reader     // Standard input, nil for none.
	Timeout time.Duration // Zero means no timeout beyond the parent context.
}

// Result is what a finished process left behind.
type Result struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int  // -1 when the process was terminated by a signal
	Signal    int  // terminating signal number, 0 if the process exited normally
	Truncated bool // stdout or stderr exceeded MaxOutputSize
	Duration  time.Duration
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner runs commands. Adapters depend on this so tests can substitute it.
type Runner interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// OSRunner runs commands as real operating system processes.
type OSRunner struct{}

var _ Runner = (*OSRunner)(nil)

// NewRunner returns a Runner backed by the operating system.
func NewRunner() *OSRunner {
	return &OSRunner{}
}

// Run starts c and waits for it to exit or time out.
// A non-zero exit status is not an error; inspect Result.ExitCode instead.
func (r *OSRunner) Run(ctx context.Context, c *Command) (*Result, error) {
	logger := ctxlog.Logger(ctx).With("path", c.Path)

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)

		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	stdout := &cappedBuffer{max: MaxOutputSize}
	stderr := &cappedBuffer{max: MaxOutputSize}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	var killed atomic.Bool

	configureProcAttr(cmd)
	cmd.Cancel = func() error {
		killed.Store(true)
		logger.Info("killing process", "pid", cmd.Process.Pid)

		return killProcessGroup(cmd.Process)
	}

	logger.Debug("starting process", "args", c.Args, "dir", c.Dir, "timeout", c.Timeout)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if killed.Load() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("process interrupted: %w", err)
		}

		logger.Debug("process timed out", "elapsed", elapsed)

		return nil, fmt.Errorf("%w after %s", ErrTimeoutExceeded, c.Timeout)
	}

	res := &Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		ExitCode:  cmd.ProcessState.ExitCode(),
		Signal:    exitSignal(cmd.ProcessState),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  elapsed,
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.As(waitErr, &exitErr):
	case errors.Is(waitErr, exec.ErrWaitDelay):
		logger.Debug("output pipes held open after exit", "error", waitErr)
	default:
		return res, waitErr
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "elapsed", elapsed, "stdoutBytes", len(res.Stdout))

	return res, nil
}

// cappedBuffer keeps the first max bytes written and silently drops the rest,
// so a runaway program cannot exhaust memory or block on a full pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}

	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true

		return len(p), nil
	}

	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
