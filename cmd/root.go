package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ace/internal/color"
	"github.com/Norgate-AV/ace/internal/config"
	"github.com/Norgate-AV/ace/internal/version"
)

// NewRootCmd builds the ace command with its flags.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ace TARGET_DIR [INPUT_DIR]",
		Short: "Auto compile & execute",
		Long: `Compile every C source file in TARGET_DIR, run each program and write the
results as Markdown to the console and to <TARGET_DIR name>_out.md.

When INPUT_DIR is given, every program is run once per .txt file in it,
with that file as standard input.`,
		RunE:          runBatch,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)

	flags := cmd.Flags()
	flags.Bool("nooutput", config.DefaultNoOutput, "Do not write the report file")
	flags.Int("compile-timeout", config.DefaultCompileTimeout, "Compile timeout in seconds")
	flags.Int("exec-timeout", config.DefaultExecTimeout, "Execution timeout in seconds")
	flags.String("compiler", config.DefaultCompilerPath, "C compiler executable")
	flags.String("formatter", config.DefaultFormatterPath, "Source formatter executable")
	flags.StringSlice("cflags", []string{}, "Extra compiler flags, comma separated or repeated")
	flags.StringP("out", "o", "", "Report file path (default <TARGET_DIR name>_out.md)")
	flags.BoolP("verbose", "v", config.DefaultVerbose, "Verbose output")

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Colorize("Error: "+err.Error(), color.FgRed))
		os.Exit(1)
	}
}
