// Package executor runs compiled programs under a wall clock limit.
package executor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Norgate-AV/ace/internal/ctxlog"
	"github.com/Norgate-AV/ace/internal/process"
)

// Result is the observable outcome of one execution.
type Result struct {
	Stdout    string
	ExitCode  int
	Signal    int
	Truncated bool
	Duration  time.Duration
}

type Executor struct {
	Timeout time.Duration
	runner  process.Runner
}

func New(timeout time.Duration) *Executor {
	return NewWithRunner(timeout, process.NewRunner())
}

func NewWithRunner(timeout time.Duration, r process.Runner) *Executor {
	return &Executor{
		Timeout: timeout,
		runner:  r,
	}
}

// Execute runs artifact with stdin (nil for none) and captures its stdout.
// If the program runs past the timeout it is killed and the returned error
// wraps process.ErrTimeoutExceeded. A non-zero exit is not an error.
func (e *Executor) Execute(ctx context.Context, artifact string, stdin io.Reader) (*Result, error) {
	res, err := e.runner.Run(ctx, &process.Command{
		Path:    artifact,
		Stdin:   stdin,
		Timeout: e.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", artifact, err)
	}

	ctxlog.Debug(ctx, "execution finished",
		"artifact", artifact, "exitCode", res.ExitCode, "signal", res.Signal, "elapsed", res.Duration)

	return &Result{
		Stdout:    string(res.Stdout),
		ExitCode:  res.ExitCode,
		Signal:    res.Signal,
		Truncated: res.Truncated,
		Duration:  res.Duration,
	}, nil
}
