package experiment

import (
	"time"

	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/intelsdi-x/meshbw/pkg/workloads/ibwritebw"
	"github.com/pkg/errors"
)

// Config is the immutable description of a run.
type Config struct {
	// Hosts are addresses of benchmarked machines. Order defines host index.
	Hosts []string
	// Devices are network interface names present on every host.
	Devices []string
	// BasePort is added to every packed rendezvous port.
	BasePort int
	// Workload holds measurement program settings including test duration and log directory.
	Workload ibwritebw.Config

	// ServerWait lets receivers reach listening state before senders start.
	ServerWait time.Duration
	// Settle lets measurement processes exit and flush logs after the test.
	Settle time.Duration
	// ProgressInterval is the granularity of wait progress reports.
	ProgressInterval time.Duration

	// CommandTimeout bounds single remote commands.
	CommandTimeout time.Duration
	// BatchTimeout bounds batched remote commands.
	BatchTimeout time.Duration
}

// DefaultConfig returns configuration with defaults of all timings and no hosts or devices.
func DefaultConfig() Config {
	return Config{
		BasePort:         mesh.DefaultBasePort,
		Workload:         ibwritebw.DefaultConfig(),
		ServerWait:       30 * time.Second,
		Settle:           15 * time.Second,
		ProgressInterval: 10 * time.Second,
		CommandTimeout:   30 * time.Second,
		BatchTimeout:     60 * time.Second,
	}
}

// Validate checks configuration before any host is contacted.
func (c Config) Validate() error {
	if err := mesh.ValidateBudget(c.BasePort, len(c.Hosts), len(c.Devices)); err != nil {
		return err
	}
	if err := unique("host", c.Hosts); err != nil {
		return err
	}
	if err := unique("device", c.Devices); err != nil {
		return err
	}

	switch {
	case c.Workload.Duration <= 0:
		return errors.Errorf("test duration must be positive, got %s", c.Workload.Duration)
	case c.Workload.Duration%time.Second != 0:
		return errors.Errorf("test duration must be whole seconds, got %s", c.Workload.Duration)
	case c.Workload.ServerGrace < 0:
		return errors.Errorf("server grace cannot be negative, got %s", c.Workload.ServerGrace)
	case c.Workload.ServerGrace%time.Second != 0:
		return errors.Errorf("server grace must be whole seconds, got %s", c.Workload.ServerGrace)
	case c.Workload.PathToBinary == "":
		return errors.New("path to measurement binary is empty")
	case c.Workload.LogDir == "":
		return errors.New("log directory is empty")
	case c.Workload.QueuePairs <= 0:
		return errors.Errorf("number of queue pairs must be positive, got %d", c.Workload.QueuePairs)
	case c.ServerWait < 0 || c.Settle < 0:
		return errors.New("server wait and settle intervals cannot be negative")
	case c.ProgressInterval <= 0:
		return errors.Errorf("progress interval must be positive, got %s", c.ProgressInterval)
	case c.CommandTimeout <= 0 || c.BatchTimeout <= 0:
		return errors.New("command timeouts must be positive")
	}
	return nil
}

func unique(kind string, items []string) error {
	seen := map[string]bool{}
	for _, item := range items {
		if item == "" {
			return errors.Errorf("empty %s name", kind)
		}
		if seen[item] {
			return errors.Errorf("%s %q is listed more than once", kind, item)
		}
		seen[item] = true
	}
	return nil
}
