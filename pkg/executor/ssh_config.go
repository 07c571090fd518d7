package executor

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

const (
	// DefaultSSHPort represent default port of SSH server (22).
	DefaultSSHPort = 22
	// DefaultConnectTimeout bounds TCP connect and SSH handshake.
	DefaultConnectTimeout = 10 * time.Second
)

// SSHConfig with clientConfig, host and port to connect.
type SSHConfig struct {
	ClientConfig *ssh.ClientConfig
	Host         string
	Port         int
}

// getAuthMethod which uses given key.
func getAuthMethod(keyPath string) (ssh.AuthMethod, error) {
	buffer, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read ssh key %q", keyPath)
	}

	key, err := ssh.ParsePrivateKey(buffer)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse ssh key %q", keyPath)
	}

	return ssh.PublicKeys(key), nil
}

// NewClientConfig creates ssh client configuration for user authenticated with
// private key from keyPath. Host keys are not verified.
func NewClientConfig(username, keyPath string, connectTimeout time.Duration) (*ssh.ClientConfig, error) {
	authMethod, err := getAuthMethod(keyPath)
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User: username,
		Auth: []ssh.AuthMethod{
			authMethod,
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         connectTimeout,
	}, nil
}

// NewSSHConfig creates a new ssh config for given host.
func NewSSHConfig(clientConfig *ssh.ClientConfig, host string, port int) *SSHConfig {
	return &SSHConfig{
		ClientConfig: clientConfig,
		Host:         host,
		Port:         port,
	}
}
