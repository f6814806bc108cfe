package rpc

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// DefaultChannels is the per-service gRPC channel count used when the
// configuration leaves it unset.
const DefaultChannels = 16

// Config describes the backend services the client talks to. Every field
// is optional; an absent address means the service is not used.
type Config struct {
	// GatewayAddr is the gateway service RPC address.
	GatewayAddr *Addr
	// P2PAddr is the p2p service RPC address.
	P2PAddr *Addr
	// StoreAddr is the store service RPC address.
	StoreAddr *Addr
	// Channels is the number of concurrent RPC channels per service.
	Channels *int
}

// DefaultGRPC is the stock all-local configuration.
func DefaultGRPC() Config {
	channels := DefaultChannels
	return Config{
		GatewayAddr: mustAddr("grpc://0.0.0.0:4400"),
		P2PAddr:     mustAddr("grpc://0.0.0.0:4401"),
		StoreAddr:   mustAddr("grpc://0.0.0.0:4402"),
		Channels:    &channels,
	}
}

func mustAddr(s string) *Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return &a
}

// configKeys is the stable key order for collected configuration.
var configKeys = []string{"gateway_addr", "p2p_addr", "store_addr", "channels"}

// Keys returns the configuration key names in their stable order.
func (c Config) Keys() []string {
	keys := make([]string, len(configKeys))
	copy(keys, configKeys)
	return keys
}

// Collect flattens the configuration into a key to string mapping for
// layered-configuration merging. Only present fields are emitted.
func (c Config) Collect() map[string]string {
	m := map[string]string{}
	if c.GatewayAddr != nil {
		m["gateway_addr"] = c.GatewayAddr.String()
	}
	if c.P2PAddr != nil {
		m["p2p_addr"] = c.P2PAddr.String()
	}
	if c.StoreAddr != nil {
		m["store_addr"] = c.StoreAddr.String()
	}
	if c.Channels != nil {
		m["channels"] = strconv.Itoa(*c.Channels)
	}
	return m
}

// MergeInto registers the configuration as defaults in v, to be layered
// under config files, environment variables and flags.
func (c Config) MergeInto(v *viper.Viper) {
	for key, value := range c.Collect() {
		v.SetDefault(key, value)
	}
}

// FromViper reads a Config back out of a layered viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	for _, key := range configKeys[:3] {
		s := v.GetString(key)
		if s == "" {
			continue
		}
		a, err := ParseAddr(s)
		if err != nil {
			return Config{}, fmt.Errorf("config key %q: %w", key, err)
		}
		switch key {
		case "gateway_addr":
			c.GatewayAddr = &a
		case "p2p_addr":
			c.P2PAddr = &a
		case "store_addr":
			c.StoreAddr = &a
		}
	}
	if v.IsSet("channels") || v.GetInt("channels") != 0 {
		channels := v.GetInt("channels")
		if channels <= 0 {
			return Config{}, fmt.Errorf("config key \"channels\" must be positive, got %d", channels)
		}
		c.Channels = &channels
	}
	return c, nil
}
