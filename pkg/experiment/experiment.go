package experiment

import (
	"context"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/command"
	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/intelsdi-x/meshbw/pkg/summary"
	"github.com/intelsdi-x/meshbw/pkg/utils/err_collection"
	"github.com/intelsdi-x/meshbw/pkg/workloads/ibwritebw"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrInterrupted is returned by Run when its context is cancelled before the run completes.
var ErrInterrupted = errors.New("run interrupted")

// Runner executes rendered commands on named hosts.
// Implemented by executor.Dispatcher.
type Runner interface {
	RunOne(ctx context.Context, host string, line command.Line, timeout time.Duration, capture bool) (int, string)
	RunBatch(ctx context.Context, host string, lines []command.Line, timeout time.Duration) (int, string)
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return interrupted(ctx)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrInterrupted
	case <-timer.C:
		return nil
	}
}

func interrupted(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return nil
}

// Experiment drives a single all-to-all bandwidth run through all phases.
type Experiment struct {
	config   Config
	runner   Runner
	observer Observer
	sleep    sleepFunc

	hosts   []mesh.Host
	devices []mesh.Device
	links   []mesh.Link

	// Hosts which failed Prepare are skipped until Cleanup.
	unavailable map[string]bool
	results     []mesh.Result
	started     bool
}

// New validates config and returns an Experiment ready to Run.
// Nil observer disables progress reporting.
func New(config Config, runner Runner, observer Observer) (*Experiment, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	if observer == nil {
		observer = nopObserver{}
	}

	hosts := mesh.NewHosts(config.Hosts)
	devices := mesh.NewDevices(config.Devices)
	return &Experiment{
		config:      config,
		runner:      runner,
		observer:    observer,
		sleep:       sleepContext,
		hosts:       hosts,
		devices:     devices,
		links:       mesh.Links(config.BasePort, hosts, devices),
		unavailable: map[string]bool{},
	}, nil
}

// Links returns all links of the run in source, destination, device order.
func (e *Experiment) Links() []mesh.Link {
	return append([]mesh.Link(nil), e.links...)
}

// Run executes all phases in order. Cleanup is always attempted on every host, also when ctx is
// cancelled, in which case ErrInterrupted is returned. Per-host and per-link failures never fail the run.
func (e *Experiment) Run(ctx context.Context) (summary.Report, error) {
	if e.started {
		return summary.Report{}, errors.New("experiment can be run only once")
	}
	e.started = true

	logrus.Infof("All-to-all bandwidth test: %d hosts, %d devices, %d links",
		len(e.hosts), len(e.devices), len(e.links))
	defer e.cleanup()

	steps := []struct {
		phase Phase
		run   func(context.Context) error
	}{
		{Prepare, e.prepare},
		{StartServers, e.startServers},
		{StartClients, e.startClients},
		{Wait, e.wait},
		{Collect, e.collect},
	}
	for _, step := range steps {
		if err := interrupted(ctx); err != nil {
			logrus.Warnf("Interrupted before %s, cleaning up", step.phase)
			return summary.Report{}, err
		}
		e.observer.Entered(step.phase)
		if err := step.run(ctx); err != nil {
			logrus.Warnf("Interrupted during %s, cleaning up", step.phase)
			return summary.Report{}, err
		}
	}

	e.observer.Entered(Summarize)
	report := summary.Summarize(e.results)
	if err := interrupted(ctx); err != nil {
		logrus.Warnf("Interrupted during %s, cleaning up", Summarize)
		return summary.Report{}, err
	}
	logrus.Info("Test finished")
	return report, nil
}

func status(code int) string {
	if code == 0 {
		return "OK"
	}
	return "FAIL"
}

func (e *Experiment) available(link mesh.Link) bool {
	return !e.unavailable[link.Src.Address] && !e.unavailable[link.Dst.Address]
}

func (e *Experiment) prepare(ctx context.Context) error {
	logrus.Info("=== Phase 1: prepare hosts ===")
	var errs errcollection.ErrorCollection
	prepare := ibwritebw.PrepareCommand(e.config.Workload)
	for _, host := range e.hosts {
		if err := interrupted(ctx); err != nil {
			return err
		}
		code, _ := e.runner.RunOne(ctx, host.Address, prepare, e.config.CommandTimeout, false)
		logrus.Infof("  %s: %s", host, status(code))
		if code != 0 {
			e.unavailable[host.Address] = true
			errs.Add(errors.Errorf("%s: exit status %d", host, code))
		}
	}
	if err := errs.GetErrIfAny(); err != nil {
		logrus.Warnf("%d of %d hosts skipped: %v", errs.Len(), len(e.hosts), err)
	}
	logrus.Info("Prepare done")
	return interrupted(ctx)
}

// launch dispatches one batch per host and reports failed hosts.
func (e *Experiment) launch(ctx context.Context, role string, batches func(mesh.Host) []command.Line) error {
	var errs errcollection.ErrorCollection
	for _, host := range e.hosts {
		if e.unavailable[host.Address] {
			continue
		}
		if err := interrupted(ctx); err != nil {
			return err
		}
		lines := batches(host)
		code, _ := e.runner.RunBatch(ctx, host.Address, lines, e.config.BatchTimeout)
		logrus.Infof("  %s: %d %s - %s", host, len(lines), role, status(code))
		if code != 0 {
			errs.Add(errors.Errorf("%s: exit status %d", host, code))
		}
	}
	if err := errs.GetErrIfAny(); err != nil {
		logrus.Warnf("Starting %s failed on %d hosts: %v", role, errs.Len(), err)
	}
	return interrupted(ctx)
}

func (e *Experiment) startServers(ctx context.Context) error {
	logrus.Info("=== Phase 2: start servers ===")
	err := e.launch(ctx, "servers", func(dst mesh.Host) (lines []command.Line) {
		for _, link := range mesh.LinksTo(e.links, dst) {
			if e.available(link) {
				lines = append(lines, ibwritebw.ServerCommand(e.config.Workload, link))
			}
		}
		return lines
	})
	if err != nil {
		return err
	}
	logrus.Infof("Waiting %s for servers to get ready", e.config.ServerWait)
	return e.sleep(ctx, e.config.ServerWait)
}

func (e *Experiment) startClients(ctx context.Context) error {
	logrus.Info("=== Phase 3: start clients ===")
	return e.launch(ctx, "clients", func(src mesh.Host) (lines []command.Line) {
		for _, link := range mesh.LinksFrom(e.links, src) {
			if e.available(link) {
				lines = append(lines, ibwritebw.ClientCommand(e.config.Workload, link))
			}
		}
		return lines
	})
}

func (e *Experiment) wait(ctx context.Context) error {
	total := e.config.Workload.Duration
	logrus.Infof("=== Phase 4: test running (%s) ===", total)
	for elapsed := time.Duration(0); elapsed < total; {
		step := e.config.ProgressInterval
		if remaining := total - elapsed; remaining < step {
			step = remaining
		}
		if err := e.sleep(ctx, step); err != nil {
			return err
		}
		elapsed += step
		e.observer.Progress(elapsed, total)
	}
	e.observer.Finished(total)

	logrus.Infof("Waiting %s for processes to exit", e.config.Settle)
	return e.sleep(ctx, e.config.Settle)
}

func (e *Experiment) collect(ctx context.Context) error {
	logrus.Info("=== Phase 5: collect results ===")
	results := make([]mesh.Result, 0, len(e.links))
	for _, link := range e.links {
		if err := interrupted(ctx); err != nil {
			return err
		}
		measurement := mesh.None()
		if e.available(link) {
			sample := ibwritebw.LastSampleCommand(e.config.Workload, link)
			_, out := e.runner.RunOne(ctx, link.Src.Address, sample, e.config.CommandTimeout, true)
			measurement = ibwritebw.ParseMeasurement(out)
		}
		if measurement.Empty() {
			logrus.Debugf("No measurement for %s", link)
		}
		results = append(results, mesh.Result{Link: link, Measurement: measurement})
	}
	e.results = results
	return interrupted(ctx)
}

// cleanup runs once per host with its own context so an interrupted run still gets cleaned.
func (e *Experiment) cleanup() {
	e.observer.Entered(Cleanup)
	logrus.Info("Cleaning up all hosts...")
	kill := ibwritebw.KillCommand(e.config.Workload)
	for _, host := range e.hosts {
		code, _ := e.runner.RunOne(context.Background(), host.Address, kill, e.config.CommandTimeout, false)
		if code != 0 {
			logrus.Warnf("  %s: cleanup failed with status %d", host, code)
		}
	}
	logrus.Info("Cleanup done")
}
