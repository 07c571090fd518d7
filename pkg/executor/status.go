package executor

// Status represents the outcome of a finished command.
type Status struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
