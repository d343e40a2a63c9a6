package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("compiler", "", "C compiler")
	cmd.Flags().StringSlice("cflags", []string{}, "Compiler flags")
	cmd.Flags().String("formatter", "", "Source formatter")
	cmd.Flags().Int("compile-timeout", DefaultCompileTimeout, "Compile timeout")
	cmd.Flags().Int("exec-timeout", DefaultExecTimeout, "Execution timeout")
	cmd.Flags().Bool("nooutput", false, "No report file")
	cmd.Flags().StringP("out", "o", "", "Report file")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")

	return cmd
}

func stubConfigDir(t *testing.T, dir string, err error) {
	t.Helper()

	stubs := gostub.Stub(&userConfigDir, func() (string, error) {
		return dir, err
	})
	t.Cleanup(stubs.Reset)
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_SetupViperDefaults(t *testing.T) {
	viper.Reset()
	loader := NewLoader()
	loader.setupViperDefaults()

	assert.Equal(t, "gcc", viper.GetString("compiler_path"))
	assert.Equal(t, "clang-format", viper.GetString("formatter_path"))
	assert.Equal(t, 2, viper.GetInt("compile_timeout"))
	assert.Equal(t, 2, viper.GetInt("exec_timeout"))
	assert.Equal(t, ".c", viper.GetString("source_ext"))
	assert.Equal(t, ".txt", viper.GetString("input_ext"))
	assert.Equal(t, false, viper.GetBool("nooutput"))
	assert.Equal(t, false, viper.GetBool("verbose"))
}

func TestLoader_LoadGlobalConfig(t *testing.T) {
	tempDir := t.TempDir()
	aceDir := filepath.Join(tempDir, "ace")
	err := os.Mkdir(aceDir, 0o755)
	require.NoError(t, err)

	t.Run("loads yaml config", func(t *testing.T) {
		viper.Reset()
		stubConfigDir(t, tempDir, nil)

		configPath := filepath.Join(aceDir, "config.yml")
		configContent := `compiler_path: "clang"
exec_timeout: 7
verbose: true`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadGlobalConfig()

		assert.Equal(t, "clang", viper.GetString("compiler_path"))
		assert.Equal(t, 7, viper.GetInt("exec_timeout"))
		assert.Equal(t, true, viper.GetBool("verbose"))
	})

	t.Run("loads json config", func(t *testing.T) {
		viper.Reset()
		stubConfigDir(t, tempDir, nil)

		os.Remove(filepath.Join(aceDir, "config.yml"))

		configPath := filepath.Join(aceDir, "config.json")
		configContent := `{
  "formatter_path": "/opt/llvm/bin/clang-format",
  "compile_timeout": 10
}`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadGlobalConfig()

		assert.Equal(t, "/opt/llvm/bin/clang-format", viper.GetString("formatter_path"))
		assert.Equal(t, 10, viper.GetInt("compile_timeout"))
	})

	t.Run("handles missing config dir gracefully", func(t *testing.T) {
		viper.Reset()
		stubConfigDir(t, "", errors.New("no home"))

		loader := NewLoader()

		assert.NotPanics(t, func() {
			loader.loadGlobalConfig()
		})
		assert.Empty(t, viper.GetString("compiler_path"))
	})
}

func TestLoader_LoadLocalConfig(t *testing.T) {
	t.Run("loads local config from target directory", func(t *testing.T) {
		viper.Reset()

		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, ".ace.yml")
		configContent := `compiler_path: "cc"
compiler_flags: ["-Wall", "-std=c11"]`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadLocalConfig([]string{tempDir})

		assert.Equal(t, "cc", viper.GetString("compiler_path"))
		assert.Equal(t, []string{"-Wall", "-std=c11"}, viper.GetStringSlice("compiler_flags"))
	})

	t.Run("walks up directory tree to find config", func(t *testing.T) {
		viper.Reset()

		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "course", "week1")
		err := os.MkdirAll(subDir, 0o755)
		require.NoError(t, err)

		err = os.WriteFile(filepath.Join(tempDir, ".ace.yml"), []byte(`exec_timeout: 9`), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadLocalConfig([]string{subDir})

		assert.Equal(t, 9, viper.GetInt("exec_timeout"))
	})

	t.Run("handles empty args", func(t *testing.T) {
		viper.Reset()

		loader := NewLoader()

		assert.NotPanics(t, func() {
			loader.loadLocalConfig([]string{})
		})
	})
}

func TestLoader_BindCommandFlags(t *testing.T) {
	viper.Reset()

	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("compiler", "clang"))
	require.NoError(t, cmd.Flags().Set("cflags", "-Wall,-O2"))
	require.NoError(t, cmd.Flags().Set("exec-timeout", "5"))
	require.NoError(t, cmd.Flags().Set("nooutput", "true"))
	require.NoError(t, cmd.Flags().Set("out", "custom.md"))

	loader := NewLoader()
	loader.bindCommandFlags(cmd)

	assert.Equal(t, "clang", viper.GetString("compiler_path"))
	assert.Equal(t, []string{"-Wall", "-O2"}, viper.GetStringSlice("compiler_flags"))
	assert.Equal(t, 5, viper.GetInt("exec_timeout"))
	assert.Equal(t, true, viper.GetBool("nooutput"))
	assert.Equal(t, "custom.md", viper.GetString("out"))
}

func TestLoader_LoadForRun_Integration(t *testing.T) {
	t.Run("hierarchical config loading - flags override local override global", func(t *testing.T) {
		viper.Reset()

		globalBase := t.TempDir()
		aceDir := filepath.Join(globalBase, "ace")
		err := os.Mkdir(aceDir, 0o755)
		require.NoError(t, err)

		globalContent := `compiler_path: "clang"
compile_timeout: 4
exec_timeout: 4
verbose: false`
		err = os.WriteFile(filepath.Join(aceDir, "config.yml"), []byte(globalContent), 0o644)
		require.NoError(t, err)

		targetDir := t.TempDir()
		localContent := `exec_timeout: 6
verbose: true`
		err = os.WriteFile(filepath.Join(targetDir, ".ace.yml"), []byte(localContent), 0o644)
		require.NoError(t, err)

		stubConfigDir(t, globalBase, nil)

		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Set("compile-timeout", "8"))

		loader := NewLoader()
		cfg, err := loader.LoadForRun(cmd, []string{targetDir})
		require.NoError(t, err)

		// Flag value should win
		assert.Equal(t, 8*time.Second, cfg.CompileTimeout)
		// Local config should override global
		assert.Equal(t, 6*time.Second, cfg.ExecTimeout)
		assert.Equal(t, true, cfg.Verbose)
		// Global config is the base
		assert.Equal(t, "clang", cfg.CompilerPath)
		assert.Equal(t, "clang-format", cfg.FormatterPath)
	})
}
