package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// userConfigDir is replaced in tests.
var userConfigDir = os.UserConfigDir

// flagKeys maps command flag names to viper keys.
var flagKeys = map[string]string{
	"compiler":        "compiler_path",
	"cflags":          "compiler_flags",
	"formatter":       "formatter_path",
	"compile-timeout": "compile_timeout",
	"exec-timeout":    "exec_timeout",
	"nooutput":        "nooutput",
	"out":             "out",
	"verbose":         "verbose",
}

// Loader handles configuration loading from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForRun loads configuration for a batch run. Later sources win:
// defaults, global config, local config, then command flags.
func (l *Loader) LoadForRun(cmd *cobra.Command, args []string) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig(args)
	l.bindCommandFlags(cmd)

	return Load(args)
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("compiler_path", DefaultCompilerPath)
	viper.SetDefault("formatter_path", DefaultFormatterPath)
	viper.SetDefault("compile_timeout", DefaultCompileTimeout)
	viper.SetDefault("exec_timeout", DefaultExecTimeout)
	viper.SetDefault("source_ext", DefaultSourceExt)
	viper.SetDefault("input_ext", DefaultInputExt)
	viper.SetDefault("nooutput", DefaultNoOutput)
	viper.SetDefault("verbose", DefaultVerbose)
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() {
	base, err := userConfigDir()
	if err != nil || base == "" {
		return
	}

	globalDir := filepath.Join(base, "ace")

	for _, ext := range ConfigExts {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.MergeInConfig(); err == nil {
				break
			}
		}
	}
}

// loadLocalConfig loads local configuration found from the target directory upwards
func (l *Loader) loadLocalConfig(args []string) {
	if len(args) > 0 {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return // silently ignore, config.Load() will handle validation
		}

		localPath := FindLocalConfig(dir)
		if localPath != "" {
			viper.SetConfigFile(localPath)
			_ = viper.MergeInConfig()
		}
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
