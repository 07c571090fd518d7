package executor

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local is responsible for running commands on local machine via exec.Command.
// It runs command as current user.
type Local struct{}

// NewLocal returns a Local instance.
func NewLocal() Local {
	return Local{}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Execute runs the command with sh -c and waits for its completion.
func (l Local) Execute(ctx context.Context, command string) (Status, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command("sh", "-c", command)
	// It is important to set additional Process Group ID for parent process and his children
	// to have ability to kill all the children processes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Starting ", command)
	if err := cmd.Start(); err != nil {
		return Status{}, errors.Wrapf(err, "cannot start %q", command)
	}
	log.Debug("Started with pid ", cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			if _, ok := err.(*exec.ExitError); !ok {
				return Status{}, errors.Wrapf(err, "waiting for %q failed", command)
			}
		}
	case <-ctx.Done():
		// The kill syscall interprets a negated PID N as the process group N belongs to.
		log.Debug("Sending ", syscall.SIGKILL, " to PID ", -cmd.Process.Pid)
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		return Status{}, errors.Wrapf(ctx.Err(), "%q interrupted", command)
	}

	waitStatus := cmd.ProcessState.Sys().(syscall.WaitStatus)
	exitCode := waitStatus.ExitStatus()
	if !waitStatus.Exited() {
		// Show what signal caused the termination.
		exitCode = -int(waitStatus.Signal())
	}

	log.Debugf("Ended %q with status code %d", command, exitCode)
	return Status{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
