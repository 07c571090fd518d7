package errutil

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ExitUsage is the exit code for invalid invocation (sysexits EX_USAGE).
const ExitUsage = 64

// Check logs the error and exits if it is non-nil.
func Check(err error) {
	if err != nil {
		logrus.Debugf("%+v", err)
		logrus.Fatalf("%v", err)
	}
}

// CheckWithContext checks the error and exits if it is not nil. Logs additional context information.
func CheckWithContext(err error, context string) {
	if err != nil {
		logrus.Debugf("%s: %+v", context, err)
		logrus.Fatalf("%s: %v", context, err)
	}
}

// CheckUsage reports invalid invocation and exits with ExitUsage.
func CheckUsage(err error) {
	if err != nil {
		logrus.Errorf("%v", err)
		os.Exit(ExitUsage)
	}
}
