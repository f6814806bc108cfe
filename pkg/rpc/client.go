package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	logging "github.com/ipfs/go-log/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var log = logging.Logger("rpc")

// Client holds channel pools for the configured backend services.
// Services left unconfigured have no pool and report as absent.
type Client struct {
	gateway *pool
	p2p     *pool
	store   *pool
}

// pool is a fixed set of gRPC client connections to one service, handed
// out round-robin.
type pool struct {
	service string
	addr    Addr
	conns   []*grpc.ClientConn
	next    atomic.Uint32
}

func (p *pool) conn() *grpc.ClientConn {
	n := p.next.Add(1)
	return p.conns[int(n-1)%len(p.conns)]
}

func (p *pool) close() error {
	var errs []error
	for _, conn := range p.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dial creates a client for every service cfg configures, with
// cfg.Channels connections each. Connections are established lazily by
// gRPC on first use.
func Dial(cfg Config) (*Client, error) {
	channels := DefaultChannels
	if cfg.Channels != nil {
		channels = *cfg.Channels
	}
	if channels <= 0 {
		return nil, fmt.Errorf("channels must be positive, got %d", channels)
	}

	c := &Client{}
	for _, svc := range []struct {
		name string
		addr *Addr
		pool **pool
	}{
		{"gateway", cfg.GatewayAddr, &c.gateway},
		{"p2p", cfg.P2PAddr, &c.p2p},
		{"store", cfg.StoreAddr, &c.store},
	} {
		if svc.addr == nil {
			continue
		}
		p, err := dialPool(svc.name, *svc.addr, channels)
		if err != nil {
			c.Close()
			return nil, err
		}
		*svc.pool = p
	}
	return c, nil
}

func dialPool(service string, addr Addr, channels int) (*pool, error) {
	log.Debugf("dialing %s at %s with %d channels", service, addr, channels)
	p := &pool{service: service, addr: addr}
	for i := 0; i < channels; i++ {
		conn, err := grpc.NewClient(addr.Target(), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			p.close()
			return nil, fmt.Errorf("dialing %s at %s: %w", service, addr, err)
		}
		p.conns = append(p.conns, conn)
	}
	return p, nil
}

// Gateway returns a connection to the gateway service, or false when it
// is not configured.
func (c *Client) Gateway() (grpc.ClientConnInterface, bool) {
	if c.gateway == nil {
		return nil, false
	}
	return c.gateway.conn(), true
}

// P2P returns a connection to the p2p service, or false when it is not
// configured.
func (c *Client) P2P() (grpc.ClientConnInterface, bool) {
	if c.p2p == nil {
		return nil, false
	}
	return c.p2p.conn(), true
}

// Store returns a connection to the store service, or false when it is
// not configured.
func (c *Client) Store() (grpc.ClientConnInterface, bool) {
	if c.store == nil {
		return nil, false
	}
	return c.store.conn(), true
}

// Close closes every pooled connection.
func (c *Client) Close() error {
	var errs []error
	for _, p := range []*pool{c.gateway, c.p2p, c.store} {
		if p == nil {
			continue
		}
		if err := p.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ServiceStatus is the health-check result for one configured service.
type ServiceStatus struct {
	Service string
	Addr    Addr
	Err     error
}

// Healthy reports whether the service answered the check as serving.
func (s ServiceStatus) Healthy() bool {
	return s.Err == nil
}

// Check health-checks every configured service and returns one status
// per service, in gateway, p2p, store order.
func (c *Client) Check(ctx context.Context) []ServiceStatus {
	var statuses []ServiceStatus
	for _, p := range []*pool{c.gateway, c.p2p, c.store} {
		if p == nil {
			continue
		}
		status := ServiceStatus{Service: p.service, Addr: p.addr}
		resp, err := healthpb.NewHealthClient(p.conn()).Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			status.Err = err
		} else if resp.Status != healthpb.HealthCheckResponse_SERVING {
			status.Err = fmt.Errorf("service reports %s", resp.Status)
		}
		statuses = append(statuses, status)
	}
	return statuses
}
