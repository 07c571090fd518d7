package experiment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/command"
	"github.com/intelsdi-x/meshbw/pkg/executor"
	"github.com/intelsdi-x/meshbw/pkg/executor/mocks"
	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/intelsdi-x/meshbw/pkg/workloads/ibwritebw"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

type call struct {
	host     string
	rendered string
}

type fakeRunner struct {
	calls  []call
	onCall func(host, rendered string) (int, string)
}

func (f *fakeRunner) RunOne(ctx context.Context, host string, line command.Line, timeout time.Duration, capture bool) (int, string) {
	rendered := line.Render()
	f.calls = append(f.calls, call{host: host, rendered: rendered})
	if f.onCall == nil {
		return 0, ""
	}
	code, out := f.onCall(host, rendered)
	if !capture {
		out = ""
	}
	return code, out
}

func (f *fakeRunner) RunBatch(ctx context.Context, host string, lines []command.Line, timeout time.Duration) (int, string) {
	if len(lines) == 0 {
		return 0, ""
	}
	return f.RunOne(ctx, host, command.Chain(lines), timeout, false)
}

func (f *fakeRunner) count(host, rendered string) (n int) {
	for _, c := range f.calls {
		if c.host == host && c.rendered == rendered {
			n++
		}
	}
	return n
}

func (f *fakeRunner) hostCalls(host string) (n int) {
	for _, c := range f.calls {
		if c.host == host {
			n++
		}
	}
	return n
}

type phaseObserver struct {
	entered  []Phase
	progress []time.Duration
	finished int
	onEnter  func(Phase)
}

func (o *phaseObserver) Entered(phase Phase) {
	o.entered = append(o.entered, phase)
	if o.onEnter != nil {
		o.onEnter(phase)
	}
}

func (o *phaseObserver) Progress(elapsed, total time.Duration) {
	o.progress = append(o.progress, elapsed)
}

func (o *phaseObserver) Finished(total time.Duration) {
	o.finished++
}

func testConfig(hosts ...string) Config {
	config := DefaultConfig()
	config.Hosts = hosts
	config.Devices = []string{"mlx5_0"}
	config.Workload.Duration = 25 * time.Second
	return config
}

func newTestExperiment(config Config, runner Runner, observer Observer) (*Experiment, *[]time.Duration) {
	e, err := New(config, runner, observer)
	So(err, ShouldBeNil)
	slept := &[]time.Duration{}
	e.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return interrupted(ctx)
	}
	return e, slept
}

func TestConfigValidation(t *testing.T) {
	Convey("Default configuration with hosts and devices should be valid", t, func() {
		So(testConfig("a", "b").Validate(), ShouldBeNil)

		Convey("But not with a single host", func() {
			So(testConfig("a").Validate(), ShouldNotBeNil)
		})

		Convey("But not with duplicated hosts", func() {
			So(testConfig("a", "b", "a").Validate(), ShouldNotBeNil)
		})

		Convey("But not with duplicated devices", func() {
			config := testConfig("a", "b")
			config.Devices = []string{"mlx5_0", "mlx5_0"}
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("But not with more devices than port layout allows", func() {
			config := testConfig("a", "b")
			config.Devices = nil
			for i := 0; i < mesh.MaxDevices+1; i++ {
				config.Devices = append(config.Devices, "mlx5_"+string(rune('a'+i)))
			}
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("But not with fractional test duration", func() {
			config := testConfig("a", "b")
			config.Workload.Duration = 1500 * time.Millisecond
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("But not with fractional server grace", func() {
			config := testConfig("a", "b")
			config.Workload.ServerGrace = 1500 * time.Millisecond
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("But not with zero progress interval", func() {
			config := testConfig("a", "b")
			config.ProgressInterval = 0
			So(config.Validate(), ShouldNotBeNil)
		})
	})

	Convey("New should reject invalid configuration", t, func() {
		_, err := New(testConfig("a"), &fakeRunner{}, nil)
		So(err, ShouldNotBeNil)
	})
}

func TestRun(t *testing.T) {
	hosts := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}

	Convey("When running an experiment on three hosts", t, func() {
		config := testConfig(hosts...)
		kill := ibwritebw.KillCommand(config.Workload).Render()
		prepare := ibwritebw.PrepareCommand(config.Workload).Render()
		runner := &fakeRunner{onCall: func(host, rendered string) (int, string) {
			if strings.Contains(rendered, "grep") {
				return 0, "65536 1000 11.80 12.50"
			}
			return 0, ""
		}}
		observer := &phaseObserver{}
		e, slept := newTestExperiment(config, runner, observer)

		report, err := e.Run(context.Background())

		Convey("All phases should be entered once in order", func() {
			So(err, ShouldBeNil)
			So(observer.entered, ShouldResemble, []Phase{Prepare, StartServers, StartClients, Wait, Collect, Summarize, Cleanup})
		})

		Convey("Every host should be prepared and cleaned exactly once", func() {
			for _, host := range hosts {
				So(runner.count(host, prepare), ShouldEqual, 1)
				So(runner.count(host, kill), ShouldEqual, 1)
			}
		})

		Convey("Every host should get one server batch and one client batch", func() {
			// prepare, servers, clients, 2 collects and cleanup
			for _, host := range hosts {
				So(runner.hostCalls(host), ShouldEqual, 6)
			}
		})

		Convey("Wait should be reported in progress steps before settling", func() {
			So(observer.progress, ShouldResemble, []time.Duration{10 * time.Second, 20 * time.Second, 25 * time.Second})
			So(observer.finished, ShouldEqual, 1)
			So(*slept, ShouldResemble, []time.Duration{
				config.ServerWait,
				10 * time.Second, 10 * time.Second, 5 * time.Second,
				config.Settle,
			})
		})

		Convey("Report should contain a measurement for every link", func() {
			So(report.Rows, ShouldHaveLength, 6)
			So(report.Succeeded, ShouldEqual, 6)
			So(report.Failed, ShouldEqual, 0)
			So(report.Total.Equal(decimal.RequireFromString("75")), ShouldBeTrue)
		})

		Convey("Running it again should fail", func() {
			_, err := e.Run(context.Background())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("When a host fails to prepare", t, func() {
		config := testConfig(hosts...)
		runner := &fakeRunner{onCall: func(host, rendered string) (int, string) {
			if host == "10.0.0.3" && strings.Contains(rendered, "mkdir") {
				return 1, ""
			}
			if strings.Contains(rendered, "grep") {
				return 0, "65536 1000 11.80 12.50"
			}
			return 0, ""
		}}
		e, _ := newTestExperiment(config, runner, nil)

		report, err := e.Run(context.Background())
		So(err, ShouldBeNil)

		Convey("It should only be contacted for prepare and cleanup", func() {
			So(runner.hostCalls("10.0.0.3"), ShouldEqual, 2)
		})

		Convey("Remaining hosts should not start processes towards it", func() {
			for _, c := range runner.calls {
				So(c.rendered, ShouldNotContainSubstring, "-p 10002 ")
				So(c.rendered, ShouldNotContainSubstring, "-p 10012 ")
				So(c.rendered, ShouldNotContainSubstring, " 10.0.0.3 ")
			}
		})

		Convey("Its links should be reported as failed", func() {
			So(report.Succeeded, ShouldEqual, 2)
			So(report.Failed, ShouldEqual, 4)
			for _, link := range report.Failures {
				So(link.Src.Address == "10.0.0.3" || link.Dst.Address == "10.0.0.3", ShouldBeTrue)
			}
		})
	})
}

func TestInterrupt(t *testing.T) {
	hosts := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}

	for _, phase := range []Phase{Prepare, StartServers, StartClients, Wait, Collect, Summarize} {
		phase := phase
		Convey("When interrupted on entering "+phase.String(), t, func() {
			config := testConfig(hosts...)
			kill := ibwritebw.KillCommand(config.Workload).Render()
			runner := &fakeRunner{}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			observer := &phaseObserver{onEnter: func(entered Phase) {
				if entered == phase {
					cancel()
				}
			}}
			e, _ := newTestExperiment(config, runner, observer)

			_, err := e.Run(ctx)

			Convey("Run should report interruption", func() {
				So(err, ShouldEqual, ErrInterrupted)
			})

			Convey("Cleanup should follow immediately", func() {
				So(observer.entered[len(observer.entered)-2], ShouldEqual, phase)
				So(observer.entered[len(observer.entered)-1], ShouldEqual, Cleanup)
			})

			Convey("Every host should be cleaned exactly once", func() {
				for _, host := range hosts {
					So(runner.count(host, kill), ShouldEqual, 1)
				}
			})
		})
	}

	Convey("When interrupted in the middle of starting servers", t, func() {
		config := testConfig(hosts...)
		kill := ibwritebw.KillCommand(config.Workload).Render()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		runner := &fakeRunner{onCall: func(host, rendered string) (int, string) {
			if host == "10.0.0.2" && strings.Contains(rendered, "nohup") {
				cancel()
				return executor.FailureStatus, ""
			}
			return 0, ""
		}}
		e, _ := newTestExperiment(config, runner, nil)

		_, err := e.Run(ctx)
		So(err, ShouldEqual, ErrInterrupted)

		Convey("Remaining hosts should not get servers", func() {
			So(runner.hostCalls("10.0.0.3"), ShouldEqual, 2)
		})

		Convey("Every host should still be cleaned exactly once", func() {
			for _, host := range hosts {
				So(runner.count(host, kill), ShouldEqual, 1)
			}
		})
	})
}

func TestEndToEnd(t *testing.T) {
	Convey("When running on two hosts with one device through dispatcher", t, func() {
		config := testConfig("10.0.0.1", "10.0.0.2")
		config.Workload.Duration = 10 * time.Second

		hostA, hostB := &mocks.Executor{}, &mocks.Executor{}
		links := mesh.Links(config.BasePort, mesh.NewHosts(config.Hosts), mesh.NewDevices(config.Devices))
		So(links, ShouldHaveLength, 2)
		sampleAB := ibwritebw.LastSampleCommand(config.Workload, links[0]).Render()
		sampleBA := ibwritebw.LastSampleCommand(config.Workload, links[1]).Render()

		hostA.On("Execute", mock.Anything, sampleAB).Return(executor.Status{Stdout: " 65536   1000   11.95   12.30\n"}, nil)
		hostA.On("Execute", mock.Anything, mock.Anything).Return(executor.Status{}, nil)
		hostB.On("Execute", mock.Anything, sampleBA).Return(executor.Status{ExitCode: 1}, nil)
		hostB.On("Execute", mock.Anything, mock.Anything).Return(executor.Status{}, nil)

		dispatcher := executor.NewDispatcher(map[string]executor.Executor{
			"10.0.0.1": hostA,
			"10.0.0.2": hostB,
		})
		e, _ := newTestExperiment(config, dispatcher, nil)

		report, err := e.Run(context.Background())
		So(err, ShouldBeNil)

		Convey("Report should show one success and one failure", func() {
			So(report.Succeeded, ShouldEqual, 1)
			So(report.Failed, ShouldEqual, 1)
			So(report.Total.Equal(decimal.RequireFromString("12.30")), ShouldBeTrue)
			So(report.Mean.Valid, ShouldBeTrue)
			So(report.Mean.Decimal.Equal(decimal.RequireFromString("12.30")), ShouldBeTrue)
		})

		Convey("Outbound totals should be attributed to source hosts", func() {
			a, ok := report.HostGbps("10.0.0.1")
			So(ok, ShouldBeTrue)
			So(a.Equal(decimal.RequireFromString("12.30")), ShouldBeTrue)
			b, ok := report.HostGbps("10.0.0.2")
			So(ok, ShouldBeTrue)
			So(b.IsZero(), ShouldBeTrue)
		})

		Convey("Failed link should be listed in the manifest", func() {
			So(report.Failures, ShouldHaveLength, 1)
			So(report.Failures[0].String(), ShouldEqual, "10.0.0.2[mlx5_0]->10.0.0.1")
		})

		Convey("Both hosts should be cleaned up", func() {
			kill := ibwritebw.KillCommand(config.Workload).Render()
			hostA.AssertCalled(t, "Execute", mock.Anything, kill)
			hostB.AssertCalled(t, "Execute", mock.Anything, kill)
		})
	})
}
