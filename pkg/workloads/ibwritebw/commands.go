package ibwritebw

import (
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/command"
	"github.com/intelsdi-x/meshbw/pkg/mesh"
)

const (
	defaultPath        = "ib_write_bw"
	defaultQueuePairs  = 8
	defaultDuration    = 120 * time.Second
	defaultServerGrace = 60 * time.Second
	defaultLogDir      = "/tmp/ib_bw"

	// Number of log lines searched for the last sample.
	sampleWindow = 5
)

// Config contains all data for running ib_write_bw pairs.
type Config struct {
	PathToBinary string
	QueuePairs   int
	// Duration is the time every sender runs for.
	Duration time.Duration
	// ServerGrace is added to Duration for receivers so they outlive senders.
	ServerGrace time.Duration
	// LogDir is a directory on every host holding receiver and sender logs.
	LogDir string
}

// DefaultConfig is a constructor for Config with default parameters.
func DefaultConfig() Config {
	return Config{
		PathToBinary: defaultPath,
		QueuePairs:   defaultQueuePairs,
		Duration:     defaultDuration,
		ServerGrace:  defaultServerGrace,
		LogDir:       defaultLogDir,
	}
}

// processPattern matches measurement processes but not the shell running pkill,
// whose command line contains the pattern itself.
func (c Config) processPattern() string {
	name := path.Base(c.PathToBinary)
	return "[" + name[:1] + "]" + name[1:]
}

// ServerLog returns receiver log path for given port.
func (c Config) ServerLog(port int) string {
	return path.Join(c.LogDir, fmt.Sprintf("srv_%d.log", port))
}

// ClientLog returns sender log path for given device and port.
func (c Config) ClientLog(device string, port int) string {
	return path.Join(c.LogDir, fmt.Sprintf("cli_%s_%d.log", device, port))
}

func (c Config) baseArgs(link mesh.Link) []string {
	return []string{
		"-F",
		"--report_gbits",
		"--ib-dev=" + link.Dev.Name,
		"--run_infinitely",
		"-D1",
		"-p", strconv.Itoa(link.Port),
		"-q", strconv.Itoa(c.QueuePairs),
	}
}

// ServerCommand returns detached receiver command run on link destination.
func ServerCommand(c Config, link mesh.Link) command.Command {
	server := command.New(c.PathToBinary, c.baseArgs(link)...)
	server.NoHangup = true
	server.Timeout = c.Duration + c.ServerGrace
	server.Background = true
	server.Output = c.ServerLog(link.Port)
	return server
}

// ClientCommand returns detached sender command run on link source.
func ClientCommand(c Config, link mesh.Link) command.Command {
	client := command.New(c.PathToBinary, append(c.baseArgs(link), link.Dst.Address)...)
	client.NoHangup = true
	client.Timeout = c.Duration
	client.Background = true
	client.Output = c.ClientLog(link.Dev.Name, link.Port)
	return client
}

// PrepareCommand kills leftovers of previous run and clears the log directory.
func PrepareCommand(c Config) command.Line {
	removeLogs := command.New("rm", "-f")
	removeLogs.RawArgs = []string{command.Glob(c.LogDir, "*.log")}
	return command.Sequence{
		command.New("pkill", "-9", "-f", c.processPattern()),
		command.New("sleep", "1"),
		command.New("mkdir", "-p", c.LogDir),
		removeLogs,
	}
}

// KillCommand kills all measurement processes and never fails.
func KillCommand(c Config) command.Line {
	kill := command.New("pkill", "-9", "-f", c.processPattern())
	kill.DiscardStderr = true
	kill.AllowFailure = true
	return kill
}

// LastSampleCommand prints the last numeric line from link sender log.
func LastSampleCommand(c Config, link mesh.Link) command.Line {
	logTail := command.New("tail", fmt.Sprintf("-%d", sampleWindow), c.ClientLog(link.Dev.Name, link.Port))
	logTail.DiscardStderr = true
	return command.Pipeline{
		logTail,
		command.New("grep", "-E", `^\s*[0-9]`),
		command.New("tail", "-1"),
	}
}
