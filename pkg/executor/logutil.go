package executor

import (
	"bufio"
	"io"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
)

const logTailLines = 3

// LogUnsuccessfulExecution is helper function for logging exit code and the
// last lines of standard output and standard error of failed command.
func LogUnsuccessfulExecution(whatWasExecuted string, whereWasExecuted string, status Status) {
	id := rand.Intn(9999)
	logrus.Warnf("%4d Command %q failed on %q with exit code %d", id, whatWasExecuted, whereWasExecuted, status.ExitCode)
	logrus.Warnf("%4d Last %d lines of stdout", id, logTailLines)
	WarnLogLines(strings.NewReader(tail(status.Stdout, logTailLines)), id)
	logrus.Warnf("%4d Last %d lines of stderr", id, logTailLines)
	WarnLogLines(strings.NewReader(tail(status.Stderr, logTailLines)), id)
}

// WarnLogLines takes reader and some ID and prints each line
// from reader in a separate log.Warnf("%4d <line>", id, line).
// Logrus does not support multi-line logs.
func WarnLogLines(r io.Reader, logID int) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		logrus.Warnf("%4d %s", logID, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logrus.Warnf("%4d Printing from reader failed: %q", logID, err.Error())
	}
}

func tail(output string, lines int) string {
	all := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return strings.Join(all, "\n")
}
