package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Norgate-AV/ace/internal/ctxlog"
	"github.com/Norgate-AV/ace/internal/process"
	"github.com/Norgate-AV/ace/internal/utils"
)

// Outcome is how a compilation ended.
type Outcome int

const (
	Success Outcome = iota
	Failed
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes one compilation.
type Result struct {
	Outcome  Outcome
	Source   string
	Artifact string // where the executable is (or would have been) written
	Stderr   string // compiler diagnostics
	ExitCode int
	Duration time.Duration
}

// Compiler invokes a C compiler as `<path> <src> [flags...] -o <artifact>`.
type Compiler struct {
	Path    string
	Flags   []string
	Timeout time.Duration
	runner  process.Runner
}

// New creates a compiler adapter backed by real processes.
func New(path string, flags []string, timeout time.Duration) *Compiler {
	return NewWithRunner(path, flags, timeout, process.NewRunner())
}

// NewWithRunner creates a compiler adapter that runs commands through r.
func NewWithRunner(path string, flags []string, timeout time.Duration, r process.Runner) *Compiler {
	return &Compiler{
		Path:    path,
		Flags:   flags,
		Timeout: timeout,
		runner:  r,
	}
}

// BuildArgs builds the command arguments for the compiler
func (c *Compiler) BuildArgs(src, artifact string) []string {
	args := make([]string, 0, len(c.Flags)+3)
	args = append(args, src)

	for _, flag := range c.Flags {
		if flag != "" {
			args = append(args, flag)
		}
	}

	return append(args, "-o", artifact)
}

// Compile compiles src into the executable at utils.ArtifactPath(src).
// Compiler errors and timeouts are reported through Result.Outcome; an error
// is returned only when the compiler itself could not be run.
func (c *Compiler) Compile(ctx context.Context, src string) (*Result, error) {
	artifact := utils.ArtifactPath(src)
	args := c.BuildArgs(src, artifact)

	ctxlog.Debug(ctx, "compiling", "compiler", c.Path, "args", args)

	res, err := c.runner.Run(ctx, &process.Command{
		Path:    c.Path,
		Args:    args,
		Timeout: c.Timeout,
	})

	result := &Result{
		Source:   src,
		Artifact: artifact,
	}

	switch {
	case errors.Is(err, process.ErrTimeoutExceeded):
		ctxlog.Warn(ctx, "compilation timed out", "source", src, "timeout", c.Timeout)
		result.Outcome = TimedOut
		result.ExitCode = -1

		return result, nil
	case err != nil:
		return nil, fmt.Errorf("compiler %q: %w", c.Path, err)
	}

	result.ExitCode = res.ExitCode
	result.Duration = res.Duration
	result.Stderr = string(res.Stderr)

	if !res.Success() {
		ctxlog.Info(ctx, "compilation failed", "source", src, "exitCode", res.ExitCode)
		result.Outcome = Failed

		return result, nil
	}

	result.Outcome = Success

	return result, nil
}
