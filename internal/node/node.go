// Package node implements the Chord protocol engine
// and the application operations built on top of it (§4.E): the
// educational heart of this module.
package node

import (
	"chordring/internal/client"
	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/routingtable"
	"chordring/internal/storage"
)

// Node ties together a node's routing state, its RPC connections to
// peers, and its local key-value store. All protocol algorithms in
// operation.go are methods on Node.
type Node struct {
	rt    *routingtable.RoutingTable
	pool  *client.Pool
	store storage.Storage
	lgr   logger.Logger
}

// New wires a routing table, RPC pool and storage backend into a
// Node. Mutation of shared state happens inside rt and store, each
// guarded by their own lock; Node itself holds no
// additional lock, since it never mutates either directly.
func New(rt *routingtable.RoutingTable, pool *client.Pool, store storage.Storage, opts ...Option) *Node {
	n := &Node{
		rt:    rt,
		pool:  pool,
		store: store,
		lgr:   logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Self returns this node's own address and identifier.
func (n *Node) Self() *domain.Node { return n.rt.Self() }

// Space returns the identifier space the ring was built for.
func (n *Node) Space() domain.Space { return n.rt.Space() }

// Successor returns finger[1].node (successor alias).
func (n *Node) Successor() *domain.Node { return n.rt.Successor() }

// Predecessor returns the current predecessor, or nil if unset.
func (n *Node) Predecessor() *domain.Node { return n.rt.Predecessor() }

// SetPredecessor overwrites the predecessor pointer; it backs the
// SetPredecessor half of resolution #6's split RPC.
func (n *Node) SetPredecessor(p *domain.Node) { n.rt.SetPredecessor(p) }

// isSelf reports whether addr names this node itself, the "local
// dispatch path" calls for so every RPC-shaped call
// (including ones this node makes to itself during routing) goes
// through the same code path.
func (n *Node) isSelf(addr string) bool {
	return addr == n.Self().Addr
}
