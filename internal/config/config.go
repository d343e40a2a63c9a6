package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Norgate-AV/ace/internal/utils"
)

// Default configuration values
const (
	DefaultCompilerPath   = "gcc"
	DefaultFormatterPath  = "clang-format"
	DefaultCompileTimeout = 2 // seconds
	DefaultExecTimeout    = 2 // seconds
	DefaultSourceExt      = ".c"
	DefaultInputExt       = ".txt"
	DefaultNoOutput       = false
	DefaultVerbose        = false
)

// Holds the configuration options for ace
type Config struct {
	// Directory scanned for source files
	TargetDir string
	// Optional directory of stdin fixtures
	InputDir string

	// C compiler executable, looked up in PATH when it has no separator
	CompilerPath string
	// Extra compiler flags placed between the source and -o
	CompilerFlags []string

	// Source formatter executable
	FormatterPath string

	CompileTimeout time.Duration
	ExecTimeout    time.Duration

	// File suffixes for sources and fixtures
	SourceExt string
	InputExt  string

	// Do not write the report to a file
	NoOutput bool
	// Report file path, derived from TargetDir when empty
	OutputFile string

	// Enable verbose output
	Verbose bool
}

// Load builds a Config from viper and the positional arguments
// (TARGET_DIR and an optional INPUT_DIR).
func Load(args []string) (*Config, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("requires a target directory and an optional input directory")
	}

	cfg := &Config{
		TargetDir:      args[0],
		CompilerPath:   viper.GetString("compiler_path"),
		CompilerFlags:  viper.GetStringSlice("compiler_flags"),
		FormatterPath:  viper.GetString("formatter_path"),
		CompileTimeout: time.Duration(viper.GetInt("compile_timeout")) * time.Second,
		ExecTimeout:    time.Duration(viper.GetInt("exec_timeout")) * time.Second,
		SourceExt:      viper.GetString("source_ext"),
		InputExt:       viper.GetString("input_ext"),
		NoOutput:       viper.GetBool("nooutput"),
		OutputFile:     viper.GetString("out"),
		Verbose:        viper.GetBool("verbose"),
	}

	if len(args) == 2 {
		cfg.InputDir = args[1]
	}

	// Apply defaults if not set
	if cfg.CompilerPath == "" {
		cfg.CompilerPath = DefaultCompilerPath
	}

	if cfg.FormatterPath == "" {
		cfg.FormatterPath = DefaultFormatterPath
	}

	if cfg.SourceExt == "" {
		cfg.SourceExt = DefaultSourceExt
	}

	if cfg.InputExt == "" {
		cfg.InputExt = DefaultInputExt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	dir, err := resolveDir(c.TargetDir)
	if err != nil {
		return fmt.Errorf("invalid target directory: %w", err)
	}

	c.TargetDir = dir

	if c.InputDir != "" {
		dir, err := resolveDir(c.InputDir)
		if err != nil {
			return fmt.Errorf("invalid input directory: %w", err)
		}

		c.InputDir = dir
	}

	if c.CompileTimeout <= 0 {
		return fmt.Errorf("invalid compile timeout: %s", c.CompileTimeout)
	}

	if c.ExecTimeout <= 0 {
		return fmt.Errorf("invalid execution timeout: %s", c.ExecTimeout)
	}

	for _, ext := range []string{c.SourceExt, c.InputExt} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid file extension: %q", ext)
		}
	}

	c.CompilerPath = resolveTool(c.CompilerPath)
	c.FormatterPath = resolveTool(c.FormatterPath)

	// Resolve output file path
	if c.OutputFile != "" {
		abs, err := filepath.Abs(c.OutputFile)
		if err != nil {
			return fmt.Errorf("invalid output file path: %v", err)
		}

		c.OutputFile = abs
	}

	return nil
}

// ReportPath returns where the report is written: OutputFile when set,
// otherwise <target dir name>_out.md in the working directory.
func (c *Config) ReportPath() (string, error) {
	if c.OutputFile != "" {
		return c.OutputFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return filepath.Join(cwd, utils.ReportFileName(c.TargetDir)), nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("directory not specified")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	return abs, nil
}

// resolveTool makes tool paths containing a separator absolute and leaves
// bare names alone so they are looked up in PATH.
func resolveTool(tool string) string {
	if !strings.ContainsRune(tool, filepath.Separator) && !strings.ContainsRune(tool, '/') {
		return tool
	}

	if abs, err := filepath.Abs(tool); err == nil {
		return abs
	}

	return tool
}
