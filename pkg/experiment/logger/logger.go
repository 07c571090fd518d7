package logger

import (
	"io"
	"os"

	"github.com/intelsdi-x/meshbw/pkg/experiment"
	"github.com/sirupsen/logrus"
)

// TimestampFormat is used for every log line of a run.
const TimestampFormat = "2006-01-02 15:04:05.000"

// Initialize creates run directory and configures logrus to write both to its log file and stderr.
// Returned file must be closed by the caller at exit.
func Initialize(baseDir, appName, runID string) (string, *os.File, error) {
	runDirectory, logFile, err := experiment.CreateRunDir(baseDir, appName, runID)
	if err != nil {
		return "", nil, err
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: TimestampFormat})
	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))

	logrus.Infof("Run directory %q", runDirectory)
	logrus.Info("Starting ", appName, " with run ID ", runID)
	return runDirectory, logFile, nil
}
