// Package formatter runs an external source formatter and returns what it prints.
package formatter

import (
	"context"
	"fmt"
	"time"

	"github.com/Norgate-AV/ace/internal/ctxlog"
	"github.com/Norgate-AV/ace/internal/process"
)

// DefaultTimeout bounds a formatter run. Formatters are expected to be fast;
// the bound only guards against a hung tool.
const DefaultTimeout = 30 * time.Second

type Formatter struct {
	Path    string
	Timeout time.Duration
	runner  process.Runner
}

func New(path string) *Formatter {
	return NewWithRunner(path, process.NewRunner())
}

func NewWithRunner(path string, r process.Runner) *Formatter {
	return &Formatter{
		Path:    path,
		Timeout: DefaultTimeout,
		runner:  r,
	}
}

// Format runs `<path> <file>` and returns its stdout unmodified, even when
// empty or when the formatter exits non-zero. An error means the formatter
// could not be run at all; it wraps process.ErrCouldNotStartProcess when the
// executable is missing.
func (f *Formatter) Format(ctx context.Context, file string) (string, error) {
	res, err := f.runner.Run(ctx, &process.Command{
		Path:    f.Path,
		Args:    []string{file},
		Timeout: f.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("formatter %q: %w", f.Path, err)
	}

	if !res.Success() {
		ctxlog.Warn(ctx, "formatter exited with non-zero status",
			"file", file, "exitCode", res.ExitCode, "stderr", string(res.Stderr))
	}

	return string(res.Stdout), nil
}
