package mesh

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// DefaultBasePort is the offset added to every packed rendezvous port.
	DefaultBasePort = 10000

	// MaxHosts is the number of hosts that fit in a single decimal digit.
	MaxHosts = 10
	// MaxDevices is the number of devices that fit in a single decimal digit.
	MaxDevices = 10

	maxPort = 65535
)

// Port returns the rendezvous port of the (src, dst, dev) session.
// Device index takes the hundreds digit, source the tens and destination the units:
// base + dev*100 + src*10 + dst.
// Indices must be below MaxHosts/MaxDevices, see ValidateBudget.
func Port(base, srcIndex, dstIndex, devIndex int) int {
	return base + devIndex*100 + srcIndex*10 + dstIndex
}

// ValidateBudget returns error when given number of hosts or devices would make
// Port produce colliding or invalid ports.
func ValidateBudget(base, hosts, devices int) error {
	if hosts < 2 {
		return errors.Errorf("at least 2 hosts are required, got %d", hosts)
	}
	if devices < 1 {
		return errors.New("at least 1 device is required")
	}
	if hosts > MaxHosts {
		return errors.Errorf("%d hosts exceed port digit budget of %d", hosts, MaxHosts)
	}
	if devices > MaxDevices {
		return errors.Errorf("%d devices exceed port digit budget of %d", devices, MaxDevices)
	}
	if base <= 0 {
		return errors.Errorf("base port must be positive, got %d", base)
	}
	if highest := Port(base, hosts-1, hosts-1, devices-1); highest > maxPort {
		return errors.Errorf("highest rendezvous port %d exceeds %d", highest, maxPort)
	}
	return nil
}

// Host is a benchmarked machine. Index is the position in the configured host list.
type Host struct {
	Address string
	Index   int
}

func (h Host) String() string {
	return h.Address
}

// Device is a network interface present on every host.
type Device struct {
	Name  string
	Index int
}

func (d Device) String() string {
	return d.Name
}

// Link is one directed test session from Src to Dst over Dev.
type Link struct {
	Src  Host
	Dst  Host
	Dev  Device
	Port int
}

// String returns link in src[dev]->dst form.
func (l Link) String() string {
	return fmt.Sprintf("%s[%s]->%s", l.Src, l.Dev, l.Dst)
}

// NewHosts assigns indices to addresses in given order.
func NewHosts(addresses []string) []Host {
	hosts := make([]Host, 0, len(addresses))
	for i, address := range addresses {
		hosts = append(hosts, Host{Address: address, Index: i})
	}
	return hosts
}

// NewDevices assigns indices to device names in given order.
func NewDevices(names []string) []Device {
	devices := make([]Device, 0, len(names))
	for i, name := range names {
		devices = append(devices, Device{Name: name, Index: i})
	}
	return devices
}

// Links returns every (src, dst, dev) combination with src != dst, ordered by
// source, then destination, then device.
func Links(base int, hosts []Host, devices []Device) []Link {
	links := make([]Link, 0, len(hosts)*(len(hosts)-1)*len(devices))
	for _, src := range hosts {
		for _, dst := range hosts {
			if src.Index == dst.Index {
				continue
			}
			for _, dev := range devices {
				links = append(links, Link{
					Src:  src,
					Dst:  dst,
					Dev:  dev,
					Port: Port(base, src.Index, dst.Index, dev.Index),
				})
			}
		}
	}
	return links
}

// LinksFrom returns links having given host as a source.
func LinksFrom(links []Link, src Host) []Link {
	var out []Link
	for _, link := range links {
		if link.Src.Index == src.Index {
			out = append(out, link)
		}
	}
	return out
}

// LinksTo returns links having given host as a destination.
func LinksTo(links []Link, dst Host) []Link {
	var out []Link
	for _, link := range links {
		if link.Dst.Index == dst.Index {
			out = append(out, link)
		}
	}
	return out
}
