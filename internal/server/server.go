// Package server hosts the gRPC service that exposes // node-to-node RPC surface, dispatching each inbound call to the
// protocol engine in internal/node (component D/E) via a hand-written
// dispatcher (component B's accept/deserialize/hand-off contract).
package server

import (
	"fmt"
	"net"

	"chordring/internal/logger"
	"chordring/internal/node"
	"chordring/internal/rpc"

	"google.golang.org/grpc"
)

// Server wraps a gRPC server hosting the Chord node-to-node service.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	lgr        logger.Logger
}

// New creates a gRPC server bound to lis and registers n's RPC
// surface against it. grpcOpts lets the caller add interceptors (this
// module uses it for lookuptrace's spans); srvOpts configures the
// Server wrapper itself (currently just WithLogger).
func New(lis net.Listener, n *node.Node, grpcOpts []grpc.ServerOption, srvOpts ...Option) (*Server, error) {
	s := &Server{
		grpcServer: grpc.NewServer(grpcOpts...),
		listener:   lis,
		lgr:        logger.NopLogger{},
	}
	for _, opt := range srvOpts {
		opt(s)
	}
	rpc.RegisterNodeServer(s.grpcServer, NewDispatcher(n, s.lgr))
	return s, nil
}

// Start runs the gRPC server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.grpcServer.Serve(s.listener); err != nil {
		return fmt.Errorf("gRPC server stopped: %w", err)
	}
	return nil
}

// Stop immediately stops the server and closes all active connections.
func (s *Server) Stop() {
	s.grpcServer.Stop()
}

// GracefulStop waits for in-flight RPCs to complete before stopping.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
