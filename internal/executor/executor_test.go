package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ace/internal/process"
)

type mockRunner struct {
	runFunc func(cmd *process.Command) (*process.Result, error)
	calls   []*process.Command
}

func (m *mockRunner) Run(_ context.Context, cmd *process.Command) (*process.Result, error) {
	m.calls = append(m.calls, cmd)
	return m.runFunc(cmd)
}

func TestExecutor_Execute(t *testing.T) {
	runner := &mockRunner{runFunc: func(cmd *process.Command) (*process.Result, error) {
		in, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return nil, err
		}

		return &process.Result{Stdout: []byte("echo:" + string(in)), ExitCode: 2}, nil
	}}
	e := NewWithRunner(3*time.Second, runner)

	res, err := e.Execute(context.Background(), "/work/prog", strings.NewReader("5 7"))
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/work/prog", runner.calls[0].Path)
	assert.Empty(t, runner.calls[0].Args)
	assert.Equal(t, 3*time.Second, runner.calls[0].Timeout)

	assert.Equal(t, "echo:5 7", res.Stdout)
	assert.Equal(t, 2, res.ExitCode)
}

func TestExecutor_Execute_NoStdin(t *testing.T) {
	runner := &mockRunner{runFunc: func(cmd *process.Command) (*process.Result, error) {
		assert.Nil(t, cmd.Stdin)
		return &process.Result{Stdout: []byte("hi\n")}, nil
	}}

	res, err := NewWithRunner(time.Second, runner).Execute(context.Background(), "/work/prog", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", res.Stdout)
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	runner := &mockRunner{runFunc: func(*process.Command) (*process.Result, error) {
		return nil, fmt.Errorf("%w after 1s", process.ErrTimeoutExceeded)
	}}

	res, err := NewWithRunner(time.Second, runner).Execute(context.Background(), "/work/loop", nil)
	require.ErrorIs(t, err, process.ErrTimeoutExceeded)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "/work/loop")
}

func TestExecutor_Execute_RealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "prog")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nread a b\necho $((a + b))\n"), 0o755))

	loop := filepath.Join(dir, "loop")
	require.NoError(t, os.WriteFile(loop, []byte("#!/bin/sh\nwhile :; do :; done\n"), 0o755))

	e := New(500 * time.Millisecond)

	res, err := e.Execute(context.Background(), script, strings.NewReader("3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, "7\n", res.Stdout)

	_, err = e.Execute(context.Background(), loop, nil)
	require.ErrorIs(t, err, process.ErrTimeoutExceeded)
}
