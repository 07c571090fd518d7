package experiment

import (
	"fmt"
	"os"
	"path"

	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
)

// LogFileName is the name of the orchestrator log inside a run directory.
const LogFileName = "meshbw.log"

// NewRunID returns random identifier of a single run.
func NewRunID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "cannot generate run ID")
	}
	return id.String(), nil
}

// CreateRunDir creates "<baseDir>/<appName>_<runID>" and opens the log file inside it.
// Caller is responsible for closing the returned file.
func CreateRunDir(baseDir, appName, runID string) (string, *os.File, error) {
	runDir := path.Join(baseDir, fmt.Sprintf("%s_%s", appName, runID))
	if err := os.MkdirAll(runDir, 0777); err != nil {
		return "", nil, errors.Wrapf(err, "cannot create run directory %q", runDir)
	}

	logFile, err := os.OpenFile(path.Join(runDir, LogFileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot create log file in %q", runDir)
	}
	return runDir, logFile, nil
}
