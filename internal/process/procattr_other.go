//go:build !unix

package process

import (
	"os"
	"os/exec"
)

func configureProcAttr(_ *exec.Cmd) {}

func killProcessGroup(p *os.Process) error {
	return p.Kill()
}

func exitSignal(_ *os.ProcessState) int {
	return 0
}
