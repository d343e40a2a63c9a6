package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ace/internal/batch"
	"github.com/Norgate-AV/ace/internal/color"
	"github.com/Norgate-AV/ace/internal/compiler"
	"github.com/Norgate-AV/ace/internal/config"
	"github.com/Norgate-AV/ace/internal/ctxlog"
	"github.com/Norgate-AV/ace/internal/executor"
	"github.com/Norgate-AV/ace/internal/formatter"
	"github.com/Norgate-AV/ace/internal/teewriter"
)

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().LoadForRun(cmd, args)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		if ctxlog.LevelVar.Level() > slog.LevelInfo {
			ctxlog.LevelVar.Set(slog.LevelInfo)
		}

		printConfig(cmd.ErrOrStderr(), cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	out, closeReport, err := openReport(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}

	d := batch.New(batch.Options{
		TargetDir:      cfg.TargetDir,
		DisplayDir:     args[0],
		InputDir:       cfg.InputDir,
		SourceExt:      cfg.SourceExt,
		InputExt:       cfg.InputExt,
		FormatTimeout:  formatter.DefaultTimeout,
		CompileTimeout: cfg.CompileTimeout,
		ExecTimeout:    cfg.ExecTimeout,
	}, out,
		formatter.New(cfg.FormatterPath),
		compiler.New(cfg.CompilerPath, cfg.CompilerFlags, cfg.CompileTimeout),
		executor.New(cfg.ExecTimeout),
	)

	_, runErr := d.Run(ctx)

	if err := closeReport(); err != nil {
		runErr = multierror.Append(runErr, fmt.Errorf("saving report: %w", err)).ErrorOrNil()
	}

	return runErr
}

// openReport returns the writer the report goes to. Unless the report file
// is disabled, everything written to console is also buffered into the file,
// which is flushed and closed by the returned function.
func openReport(console io.Writer, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.NoOutput {
		return console, func() error { return nil }, nil
	}

	path, err := cfg.ReportPath()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}

	tee := teewriter.New(console, bufio.NewWriter(f))

	return tee, func() error {
		var result *multierror.Error

		if err := tee.Flush(); err != nil {
			result = multierror.Append(result, err)
		}

		if err := f.Close(); err != nil {
			result = multierror.Append(result, err)
		}

		return result.ErrorOrNil()
	}, nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	report := "disabled"
	if !cfg.NoOutput {
		if path, err := cfg.ReportPath(); err == nil {
			report = path
		}
	}

	input := cfg.InputDir
	if input == "" {
		input = "(none)"
	}

	fmt.Fprintln(w, color.Colorize("Configuration", color.Bold, color.FgCyan))
	fmt.Fprintf(w, "Target: %s\nInput: %s\nCompiler: %s %s\nFormatter: %s\nCompile timeout: %s\nExecution timeout: %s\nReport: %s\n",
		cfg.TargetDir, input, cfg.CompilerPath, strings.Join(cfg.CompilerFlags, " "),
		cfg.FormatterPath, cfg.CompileTimeout, cfg.ExecTimeout, report)
}
