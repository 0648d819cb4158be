// Package client dials and caches gRPC connections to other ring
// members and exposes the node-to-node RPCs of as typed,
// domain-level calls.
package client

import (
	"errors"
	"sync"

	"chordring/internal/logger"
	"chordring/internal/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrUnreachable is returned by every call below whenever the remote
// node cannot be reached or the RPC itself fails, so the protocol
// engine never has to dereference a missing result.
var ErrUnreachable = errors.New("client: remote node unreachable")

// Pool caches one gRPC connection per remote address, dialing lazily
// and reusing the connection for every subsequent call.
type Pool struct {
	lgr  logger.Logger
	mu   sync.RWMutex
	conn map[string]*grpc.ClientConn
	opts []grpc.DialOption
}

// New creates an empty pool. Pass dial options to override the
// default of insecure transport credentials (this module has no TLS
// material to wire in).
func New(opts ...grpc.DialOption) *Pool {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	return &Pool{
		lgr:  logger.NopLogger{},
		conn: make(map[string]*grpc.ClientConn),
		opts: opts,
	}
}

// Option is a functional option for configuring a Pool.
type Option func(*Pool)

// WithLogger injects a custom logger into the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		p.lgr = l
	}
}

// Apply applies the given options to the pool.
func (p *Pool) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

// get returns (dialing if necessary) the *rpc.NodeClient for addr.
func (p *Pool) get(addr string) (*rpc.NodeClient, error) {
	p.mu.RLock()
	conn, ok := p.conn[addr]
	p.mu.RUnlock()
	if ok {
		return rpc.NewNodeClient(conn), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok = p.conn[addr]; ok {
		return rpc.NewNodeClient(conn), nil
	}

	conn, err := grpc.NewClient(addr, p.opts...)
	if err != nil {
		p.lgr.Warn("client: dial failed", logger.F("addr", addr), logger.F("err", err.Error()))
		return nil, ErrUnreachable
	}
	p.conn[addr] = conn
	p.lgr.Debug("client: dialed new connection", logger.F("addr", addr))
	return rpc.NewNodeClient(conn), nil
}

// Close closes every cached connection.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for addr, c := range p.conn {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conn, addr)
	}
	return firstErr
}

// Evict closes and forgets the cached connection to addr, if any. A
// failed call site uses this to force a fresh dial on the next
// attempt rather than keep reusing a connection to a node that may
// have left the ring.
func (p *Pool) Evict(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.conn[addr]; ok {
		_ = c.Close()
		delete(p.conn, addr)
	}
}
