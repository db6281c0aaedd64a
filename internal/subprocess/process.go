package subprocess

import (
	stderrors "errors"
	"os"
	"os/exec"
)

// process is the running worker as seen by the Supervisor.
type process interface {
	Pid() int
	Kill() error
	// Wait blocks until exit and returns the exit code, -1 when the
	// process was terminated by a signal.
	Wait() (int, error)
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if stderrors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()

	if p.cmd.ProcessState != nil {
		return p.cmd.ProcessState.ExitCode(), err
	}

	return -1, err
}
