package main

import (
	"os/user"
	"path"

	"github.com/intelsdi-x/meshbw/pkg/conf"
	"github.com/intelsdi-x/meshbw/pkg/executor"
	"github.com/intelsdi-x/meshbw/pkg/experiment"
	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/intelsdi-x/meshbw/pkg/workloads/ibwritebw"
)

var (
	defaults         = experiment.DefaultConfig()
	workloadDefaults = ibwritebw.DefaultConfig()

	hostsFlag = conf.NewSliceFlag("hosts", "Addresses of benchmarked hosts (comma separated or repeated)",
		"10.107.204.66", "10.107.204.67", "10.107.204.68", "10.107.204.69", "10.107.204.70", "10.107.204.71")
	devicesFlag = conf.NewSliceFlag("devices", "RDMA devices present on every host (comma separated or repeated)",
		"mlx5_cx6_0", "mlx5_cx6_1", "mlx5_cx6_2", "mlx5_cx6_3")
	basePortFlag = conf.NewIntFlag("base_port", "Port offset of all links", mesh.DefaultBasePort)

	durationFlag         = conf.NewDurationFlag("duration", "Test duration (whole seconds)", workloadDefaults.Duration)
	serverWaitFlag       = conf.NewDurationFlag("server_wait", "Time for servers to start listening before clients start", defaults.ServerWait)
	settleFlag           = conf.NewDurationFlag("settle", "Time for processes to exit and flush logs after the test", defaults.Settle)
	serverGraceFlag      = conf.NewDurationFlag("server_grace", "Time servers run longer than clients (whole seconds)", workloadDefaults.ServerGrace)
	progressIntervalFlag = conf.NewDurationFlag("progress_interval", "Interval of progress reports while waiting", defaults.ProgressInterval)

	logDirFlag    = conf.NewStringFlag("log_dir", "Directory for measurement logs on every host", workloadDefaults.LogDir)
	ibWriteBwFlag = conf.NewStringFlag("ib_write_bw_path", "Path to ib_write_bw on every host", workloadDefaults.PathToBinary)
	qpsFlag       = conf.NewIntFlag("qps", "Number of queue pairs of every link", workloadDefaults.QueuePairs)

	sshUserFlag           = conf.NewStringFlag("ssh_user", "User for SSH connections", currentUser())
	sshKeyFlag            = conf.NewStringFlag("ssh_key", "Private key for SSH connections", defaultKeyPath())
	sshPortFlag           = conf.NewIntFlag("ssh_port", "Port of SSH servers", executor.DefaultSSHPort)
	sshConnectTimeoutFlag = conf.NewDurationFlag("ssh_connect_timeout", "Timeout of SSH connect and handshake", executor.DefaultConnectTimeout)
	commandTimeoutFlag    = conf.NewDurationFlag("command_timeout", "Timeout of single remote commands", defaults.CommandTimeout)
	batchTimeoutFlag      = conf.NewDurationFlag("batch_timeout", "Timeout of batched remote commands", defaults.BatchTimeout)

	runDirFlag = conf.NewStringFlag("run_dir", "Directory where run directory with orchestrator log is created", ".")
)

func currentUser() string {
	current, err := user.Current()
	if err != nil {
		return "root"
	}
	return current.Username
}

func defaultKeyPath() string {
	current, err := user.Current()
	if err != nil {
		return path.Join("/root", ".ssh", "id_rsa")
	}
	return path.Join(current.HomeDir, ".ssh", "id_rsa")
}

// configFromFlags reads flags once into immutable run configuration.
func configFromFlags() experiment.Config {
	config := experiment.DefaultConfig()
	config.Hosts = hostsFlag.Value()
	config.Devices = devicesFlag.Value()
	config.BasePort = basePortFlag.Value()

	config.Workload.PathToBinary = ibWriteBwFlag.Value()
	config.Workload.QueuePairs = qpsFlag.Value()
	config.Workload.Duration = durationFlag.Value()
	config.Workload.ServerGrace = serverGraceFlag.Value()
	config.Workload.LogDir = logDirFlag.Value()

	config.ServerWait = serverWaitFlag.Value()
	config.Settle = settleFlag.Value()
	config.ProgressInterval = progressIntervalFlag.Value()
	config.CommandTimeout = commandTimeoutFlag.Value()
	config.BatchTimeout = batchTimeoutFlag.Value()
	return config
}
