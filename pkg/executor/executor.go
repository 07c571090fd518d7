package executor

import (
	"context"
)

// Executor runs shell commands on a single machine.
type Executor interface {
	// Execute runs command and blocks until it exits or ctx is done.
	// Returned error means the command could not be run or waited for;
	// a command which ran and failed is reported through Status.ExitCode.
	Execute(ctx context.Context, command string) (Status, error)
	// Name returns user-friendly name of executor.
	Name() string
}
