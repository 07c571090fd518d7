package executor

import (
	"github.com/intelsdi-x/meshbw/pkg/net"
	"golang.org/x/crypto/ssh"
)

// NewShell is a wrapper constructor for NewLocal or NewRemote executor depending on host provided.
// We don't want to ssh on localhost if not needed.
func NewShell(host string, port int, clientConfig *ssh.ClientConfig) Executor {
	if net.IsAddrLocal(host) {
		return NewLocal()
	}
	return NewRemote(*NewSSHConfig(clientConfig, host, port))
}
