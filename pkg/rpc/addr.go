// Package rpc describes how the client reaches the network's backend
// services: gateway, p2p and store, each behind a gRPC endpoint. It
// carries the layered configuration for those endpoints and a thin
// channel-pooling client over them.
package rpc

import (
	"fmt"
	"net/url"
)

// Addr is a parsed service address of the form scheme://host:port.
type Addr struct {
	Scheme string
	Host   string
}

// ParseAddr parses a service address. Both the scheme and host:port part
// are required.
func ParseAddr(s string) (Addr, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Addr{}, fmt.Errorf("parsing address %q: %w", s, err)
	}
	if u.Scheme == "" || u.Hostname() == "" || u.Port() == "" {
		return Addr{}, fmt.Errorf("address %q is not of the form scheme://host:port", s)
	}
	return Addr{Scheme: u.Scheme, Host: u.Host}, nil
}

func (a Addr) String() string {
	return a.Scheme + "://" + a.Host
}

// Target returns the dial target, without the scheme.
func (a Addr) Target() string {
	return a.Host
}
