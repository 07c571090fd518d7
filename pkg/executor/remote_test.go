package executor

import (
	"context"
	"os"
	"os/user"
	"path"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/ssh"
)

// TestRemote needs passwordless ssh to MESHBW_TEST_SSH_HOST for current user.
func TestRemote(t *testing.T) {
	host := os.Getenv("MESHBW_TEST_SSH_HOST")
	if host == "" {
		t.Skip("MESHBW_TEST_SSH_HOST is not set")
	}

	currentUser, err := user.Current()
	if err != nil {
		t.Fatal(err)
	}
	clientConfig, err := NewClientConfig(currentUser.Username, path.Join(currentUser.HomeDir, ".ssh", "id_rsa"), DefaultConnectTimeout)
	if err != nil {
		t.Fatal(err)
	}
	remote := NewRemote(*NewSSHConfig(clientConfig, host, DefaultSSHPort))

	Convey("While using Remote Shell", t, func() {
		ctx := context.Background()

		Convey("whoami should return current user", func() {
			status, err := remote.Execute(ctx, "whoami")
			So(err, ShouldBeNil)
			So(status.ExitCode, ShouldEqual, 0)
			So(strings.TrimSpace(status.Stdout), ShouldEqual, currentUser.Username)
		})

		Convey("Exit code of failed command should be returned", func() {
			status, err := remote.Execute(ctx, "exit 5")
			So(err, ShouldBeNil)
			So(status.ExitCode, ShouldEqual, 5)
		})

		Convey("Command outliving the context should be interrupted", func() {
			ctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_, err := remote.Execute(ctx, "sleep 30")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRemoteUnreachable(t *testing.T) {
	Convey("When host does not accept connections", t, func() {
		clientConfig := &ssh.ClientConfig{
			User:            "nobody",
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         time.Second,
		}
		// Port 1 on loopback is expected to be closed.
		remote := NewRemote(*NewSSHConfig(clientConfig, "127.0.0.1", 1))

		_, err := remote.Execute(context.Background(), "true")

		Convey("Execute should return error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
