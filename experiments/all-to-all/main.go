package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/conf"
	"github.com/intelsdi-x/meshbw/pkg/executor"
	"github.com/intelsdi-x/meshbw/pkg/experiment"
	"github.com/intelsdi-x/meshbw/pkg/experiment/logger"
	"github.com/intelsdi-x/meshbw/pkg/metadata"
	"github.com/intelsdi-x/meshbw/pkg/summary"
	"github.com/intelsdi-x/meshbw/pkg/utils/errutil"
	"github.com/sirupsen/logrus"
)

const (
	appName = "all-to-all"
	help    = `All-to-all RDMA write bandwidth test.

Every host sends to every other host over every device at the same time using
ib_write_bw. Receivers and senders are started over SSH, their logs are harvested
after the test and a bandwidth report is printed.`
)

func main() {
	os.Exit(run())
}

func run() int {
	conf.SetAppName(appName)
	conf.SetHelp(help)
	experiment.Configure()

	config := configFromFlags()
	errutil.CheckUsage(config.Validate())

	runID, err := experiment.NewRunID()
	errutil.Check(err)

	_, logFile, err := logger.Initialize(runDirFlag.Value(), appName, runID)
	errutil.CheckWithContext(err, "Cannot create run directory")
	defer logFile.Close()

	clientConfig, err := executor.NewClientConfig(sshUserFlag.Value(), sshKeyFlag.Value(), sshConnectTimeoutFlag.Value())
	errutil.CheckWithContext(err, "Cannot prepare SSH client configuration")

	executors := map[string]executor.Executor{}
	for _, host := range config.Hosts {
		executors[host] = executor.NewShell(host, sshPortFlag.Value(), clientConfig)
	}

	e, err := experiment.New(config, executor.NewDispatcher(executors), experiment.NewConsoleObserver(os.Stdout))
	errutil.CheckWithContext(err, "Cannot create experiment")

	archive := openArchive(runID)
	if archive != nil {
		defer archive.Close()
	}

	ctx, stop := notifyInterrupt(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := e.Run(ctx)
	if err == experiment.ErrInterrupted {
		logrus.Error("Run interrupted, hosts cleaned up")
		return 1
	}
	errutil.Check(err)

	if err := summary.Render(os.Stdout, report); err != nil {
		logrus.Errorf("Cannot render report: %v", err)
		return 1
	}

	if archive != nil {
		if err := metadata.RecordReport(archive, report); err != nil {
			logrus.Warnf("Cannot archive results: %v", err)
		}
	}
	return 0
}

// notifyInterrupt cancels returned context on the first of signals and then restores
// default handling, so another signal terminates the process during cleanup.
func notifyInterrupt(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, signals...)
	go func() {
		<-ctx.Done()
		stop()
		if parent.Err() == nil {
			logrus.Warn("Interrupt received, cleaning up hosts. Interrupt again to exit immediately")
		}
	}()
	return ctx, stop
}

// openArchive connects to results database. Failures only disable archiving.
func openArchive(runID string) metadata.Metadata {
	archive, err := metadata.NewDefault(runID)
	if err != nil {
		logrus.Warnf("Results will not be archived: %v", err)
		return nil
	}
	if archive == nil {
		return nil
	}

	if err := metadata.RecordRuntimeEnv(archive, time.Now()); err != nil {
		logrus.Warnf("Cannot archive run configuration: %v", err)
	}
	return archive
}
