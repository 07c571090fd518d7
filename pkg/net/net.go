package net

import (
	"net"
)

// IsAddrLocal returns true when given address points to local machine.
func IsAddrLocal(addr string) bool {
	if addr == "localhost" {
		return true
	}
	ip := net.ParseIP(addr)
	return ip != nil && ip.IsLoopback()
}
