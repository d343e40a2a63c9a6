package batch

import (
	"errors"
	"strings"

	"github.com/Norgate-AV/ace/internal/codes"
	"github.com/Norgate-AV/ace/internal/executor"
	"github.com/Norgate-AV/ace/internal/process"
)

func (d *Driver) language() string {
	return strings.TrimPrefix(d.opts.SourceExt, ".")
}

func (d *Driver) writeToolFailure(role string, err error) {
	if !errors.Is(err, process.ErrCouldNotStartProcess) {
		return
	}

	d.out.CodeBlock(err.Error(), "txt", "")
	d.out.Line("There is a problem invoking the %s.", role)
	d.out.Line("Please check the following:")
	d.out.Bullet("Is the command correct?")
	d.out.Bullet("Is the command path correct?")
}

func (d *Driver) writeExitStatus(res *executor.Result) {
	switch {
	case res.Signal > 0:
		d.out.Bullet("%s", codes.Describe(res.ExitCode, res.Signal))
	case !codes.IsSuccess(res.ExitCode):
		d.out.Bullet("exit status %d (%s)", res.ExitCode, codes.Describe(res.ExitCode, 0))
	}

	if res.Truncated {
		d.out.Bullet("output truncated")
	}
}
