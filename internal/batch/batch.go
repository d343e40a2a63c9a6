// Package batch drives one run over a target directory: every source file is
// formatted, compiled and executed (once, or once per input fixture), the
// results are written as a Markdown report, and the executables produced
// along the way are removed at the end.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Norgate-AV/ace/internal/compiler"
	"github.com/Norgate-AV/ace/internal/ctxlog"
	"github.com/Norgate-AV/ace/internal/executor"
	"github.com/Norgate-AV/ace/internal/process"
	"github.com/Norgate-AV/ace/internal/report"
	"github.com/Norgate-AV/ace/internal/utils"
)

// ErrToolNotFound is returned by Run when the formatter or compiler could not
// be invoked. The run stops at that file, but cleanup still happens.
var ErrToolNotFound = errors.New("required tool could not be invoked")

type Formatter interface {
	Format(ctx context.Context, file string) (string, error)
}

type Compiler interface {
	Compile(ctx context.Context, src string) (*compiler.Result, error)
}

type Executor interface {
	Execute(ctx context.Context, artifact string, stdin io.Reader) (*executor.Result, error)
}

// Options describes what one run covers.
type Options struct {
	TargetDir  string
	DisplayDir string // TargetDir as given by the user; removed files are listed under it when set
	InputDir   string // empty runs each program once with no stdin
	SourceExt  string
	InputExt   string

	// Used in timeout notes only; the adapters enforce the limits.
	FormatTimeout  time.Duration
	CompileTimeout time.Duration
	ExecTimeout    time.Duration
}

// Summary counts what happened during a run.
type Summary struct {
	Sources         int
	Compiled        int
	CompileErrors   int
	CompileTimeouts int
	Executions      int
	ExecTimeouts    int
	Removed         []string
}

// Driver runs the pipeline for one target directory.
type Driver struct {
	opts      Options
	fs        afero.Fs
	out       *report.Writer
	formatter Formatter
	compiler  Compiler
	executor  Executor
}

// New creates a driver writing its report to out.
func New(opts Options, out io.Writer, f Formatter, c Compiler, e Executor) *Driver {
	return &Driver{
		opts:      opts,
		fs:        FsFactory(),
		out:       report.New(out),
		formatter: f,
		compiler:  c,
		executor:  e,
	}
}

// Run processes every source file in ascending name order and then removes
// the artifacts created during the run. It returns an error wrapping
// ErrToolNotFound when a tool could not be invoked, the context error when
// interrupted, or the first report write error.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	logger := ctxlog.Logger(ctx).With("target", d.opts.TargetDir)

	sources, err := d.listFiles(d.opts.TargetDir, d.opts.SourceExt)
	if err != nil {
		return nil, fmt.Errorf("reading target directory: %w", err)
	}

	var inputs []string
	if d.opts.InputDir != "" {
		if inputs, err = d.listFiles(d.opts.InputDir, d.opts.InputExt); err != nil {
			return nil, fmt.Errorf("reading input directory: %w", err)
		}
	}

	logger.Info("starting batch", "sources", len(sources), "inputs", len(inputs))

	d.out.Heading(1, utils.DirName(d.opts.TargetDir))

	artifacts := d.snapshot(sources)
	summary := &Summary{}

	var runErr error

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if err := d.processFile(ctx, src, inputs, summary); err != nil {
			runErr = err
			break
		}
	}

	d.cleanup(ctx, artifacts, summary)

	logger.Info("batch finished",
		"sources", summary.Sources,
		"compiled", summary.Compiled,
		"compileErrors", summary.CompileErrors,
		"compileTimeouts", summary.CompileTimeouts,
		"executions", summary.Executions,
		"execTimeouts", summary.ExecTimeouts,
		"removed", len(summary.Removed),
	)

	switch {
	case errors.Is(runErr, process.ErrCouldNotStartProcess):
		return summary, errors.Join(ErrToolNotFound, runErr)
	case runErr != nil:
		return summary, runErr
	}

	if err := d.out.Err(); err != nil {
		return summary, fmt.Errorf("writing report: %w", err)
	}

	return summary, nil
}

// processFile handles one source file. A returned error stops the run.
func (d *Driver) processFile(ctx context.Context, src string, inputs []string, summary *Summary) error {
	summary.Sources++

	d.out.Heading(2, filepath.Base(src))
	d.out.Heading(3, "source file")

	formatted, err := d.formatter.Format(ctx, src)

	switch {
	case errors.Is(err, process.ErrTimeoutExceeded):
		// The source is still compiled; only its listing is missing.
		ctxlog.Warn(ctx, "formatter timed out", "source", src, "error", err)
		d.out.Bullet("formatting exceeded %s and was terminated", d.opts.FormatTimeout)
	case err != nil:
		d.writeToolFailure("formatter", err)
		return err
	default:
		d.out.CodeBlock(formatted, d.language(), "")
	}

	res, err := d.compiler.Compile(ctx, src)
	if err != nil {
		d.writeToolFailure("compiler", err)
		return err
	}

	switch res.Outcome {
	case compiler.Failed:
		summary.CompileErrors++

		d.out.Heading(3, "compile error")
		d.out.CodeBlock(res.Stderr, "bash", "")

		return nil
	case compiler.TimedOut:
		// A timed out compile is treated like a failed one: nothing is run.
		summary.CompileTimeouts++

		d.out.Heading(3, "compile timeout")
		d.out.Line("compilation exceeded %s and was terminated", d.opts.CompileTimeout)

		return nil
	}

	summary.Compiled++

	d.out.Heading(3, "execution result")

	if d.opts.InputDir == "" {
		_, err := d.execute(ctx, res.Artifact, "", summary)
		return err
	}

	for _, input := range inputs {
		name := filepath.Base(input)

		content, err := afero.ReadFile(d.fs, input)
		if err != nil {
			d.out.Bullet("could not read input %s: %v", name, err)
			continue
		}

		d.out.Heading(4, "input-"+name)
		d.out.CodeBlock(string(content), "txt", name)
		d.out.Heading(4, "output")

		stop, err := d.execute(ctx, res.Artifact, input, summary)
		if err != nil {
			return err
		}

		if stop {
			break
		}
	}

	return nil
}

// execute runs the artifact once, with the file at input as stdin when set.
// stop is true when the remaining inputs for this artifact should be skipped.
func (d *Driver) execute(ctx context.Context, artifact, input string, summary *Summary) (stop bool, err error) {
	var stdin io.Reader

	if input != "" {
		f, openErr := d.fs.Open(input)
		if openErr != nil {
			d.out.Bullet("could not open input %s: %v", filepath.Base(input), openErr)
			return false, nil
		}

		defer f.Close()

		stdin = f
	}

	summary.Executions++

	res, err := d.executor.Execute(ctx, artifact, stdin)

	switch {
	case err == nil:
	case errors.Is(err, process.ErrTimeoutExceeded):
		summary.ExecTimeouts++
		d.out.Bullet("execution exceeded %s and was terminated", d.opts.ExecTimeout)

		return true, nil
	case ctx.Err() != nil:
		return true, ctx.Err()
	default:
		ctxlog.Warn(ctx, "execution failed", "artifact", artifact, "error", err)
		d.out.Bullet("execution failed: %v", err)

		return true, nil
	}

	d.out.CodeBlock(res.Stdout, "txt", "")
	d.writeExitStatus(res)

	return false, nil
}

// snapshot maps each source's artifact path to whether something already
// existed there before the run. Pre-existing paths are never removed.
func (d *Driver) snapshot(sources []string) map[string]bool {
	artifacts := make(map[string]bool, len(sources))

	for _, src := range sources {
		artifact := utils.ArtifactPath(src)

		exists, err := afero.Exists(d.fs, artifact)
		// When in doubt, treat the path as pre-existing so it is left alone.
		artifacts[artifact] = exists || err != nil
	}

	return artifacts
}
