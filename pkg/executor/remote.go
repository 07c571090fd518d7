package executor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// Remote is responsible for running commands on remote machine via ssh.
// Every Execute opens its own connection.
type Remote struct {
	sshConfig SSHConfig
}

// NewRemote returns a Remote instance.
func NewRemote(sshConfig SSHConfig) Remote {
	return Remote{
		sshConfig: sshConfig,
	}
}

// Name returns user-friendly name of executor.
func (remote Remote) Name() string {
	return fmt.Sprintf("Remote Executor on %s", remote.sshConfig.Host)
}

func (remote Remote) dial(ctx context.Context) (*ssh.Client, error) {
	address := net.JoinHostPort(remote.sshConfig.Host, strconv.Itoa(remote.sshConfig.Port))

	dialer := net.Dialer{Timeout: remote.sshConfig.ClientConfig.Timeout}
	connection, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to %s", address)
	}

	// Handshake has to respect the caller deadline as well.
	if deadline, ok := ctx.Deadline(); ok {
		connection.SetDeadline(deadline)
	}
	clientConnection, channels, requests, err := ssh.NewClientConn(connection, address, remote.sshConfig.ClientConfig)
	if err != nil {
		connection.Close()
		return nil, errors.Wrapf(err, "ssh handshake with %s failed", address)
	}
	connection.SetDeadline(time.Time{})

	return ssh.NewClient(clientConnection, channels, requests), nil
}

// Execute runs the command in a new ssh session and waits for its completion.
func (remote Remote) Execute(ctx context.Context, command string) (Status, error) {
	client, err := remote.dial(ctx)
	if err != nil {
		return Status{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return Status{}, errors.Wrapf(err, "cannot open ssh session on %s", remote.sshConfig.Host)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	log.Debugf("Starting %q on %s", command, remote.sshConfig.Host)
	if err := session.Start(command); err != nil {
		return Status{}, errors.Wrapf(err, "cannot start %q on %s", command, remote.sshConfig.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	exitCode := 0
	select {
	case err := <-done:
		if err != nil {
			exitError, ok := err.(*ssh.ExitError)
			if !ok {
				return Status{}, errors.Wrapf(err, "waiting for %q on %s failed", command, remote.sshConfig.Host)
			}
			exitCode = exitError.Waitmsg.ExitStatus()
		}
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		client.Close()
		<-done
		return Status{}, errors.Wrapf(ctx.Err(), "%q on %s interrupted", command, remote.sshConfig.Host)
	}

	log.Debugf("Ended %q on %s with status code %d", command, remote.sshConfig.Host, exitCode)
	return Status{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
