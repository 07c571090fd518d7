package executor

import (
	"context"
	"strings"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/command"
	"github.com/sirupsen/logrus"
)

// FailureStatus is returned instead of an exit code when command could not be
// delivered to the host or did not finish in time.
const FailureStatus = -1

// Dispatcher routes commands to executors by host address.
type Dispatcher struct {
	executors map[string]Executor
}

// NewDispatcher returns dispatcher using given executor for each host address.
func NewDispatcher(executors map[string]Executor) *Dispatcher {
	return &Dispatcher{executors: executors}
}

// RunOne executes line on host with given timeout. When capture is set, trimmed
// stdout is returned as well. Transport failures and timeouts are logged and
// reported as FailureStatus with no output.
func (d *Dispatcher) RunOne(ctx context.Context, host string, line command.Line, timeout time.Duration, capture bool) (int, string) {
	rendered := line.Render()

	executor, ok := d.executors[host]
	if !ok {
		logrus.Errorf("No executor configured for host %q", host)
		return FailureStatus, ""
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := executor.Execute(ctx, rendered)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logrus.Errorf("Command timed out after %s on %s", timeout, host)
		} else {
			logrus.Errorf("Command failed on %s: %v", host, err)
		}
		logrus.Debugf("%+v", err)
		return FailureStatus, ""
	}

	if status.ExitCode != 0 {
		LogUnsuccessfulExecution(rendered, host, status)
	}

	if !capture {
		return status.ExitCode, ""
	}
	return status.ExitCode, strings.TrimSpace(status.Stdout)
}

// RunBatch chains lines with && and executes them on host as one session.
// Empty batch succeeds without contacting the host.
func (d *Dispatcher) RunBatch(ctx context.Context, host string, lines []command.Line, timeout time.Duration) (int, string) {
	if len(lines) == 0 {
		return 0, ""
	}
	return d.RunOne(ctx, host, command.Chain(lines), timeout, false)
}
