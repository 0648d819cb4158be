// Package routingtable holds a Chord node's routing state: its
// finger table and predecessor pointer.
package routingtable

import (
	"fmt"

	"chordring/internal/domain"
	"chordring/internal/logger"

	"sync"
)

// RoutingTable is a node's finger table plus predecessor pointer.
//
// A single lock guards predecessor and finger[] and is never held
// across an outbound RPC; the key-value data lives in storage behind
// its own lock. This differs from the teacher's per-field locking (appropriate there, since successor
// list and de Bruijn window are updated independently by background
// stabilizers this design has none of). One mutex is simpler and
// matches the recommended shape directly.
type RoutingTable struct {
	logger logger.Logger
	space  domain.Space
	self   *domain.Node

	mu          sync.RWMutex
	predecessor *domain.Node
	finger      []*domain.FingerEntry // 0-indexed; finger[i] is finger[i+1]
}

// New creates a routing table for self with M empty finger entries
// (node == nil) and no predecessor. Use InitSingleNode to bootstrap a
// fresh ring, or Join-time protocol calls to populate it otherwise.
func New(self *domain.Node, space domain.Space, opts ...Option) (*RoutingTable, error) {
	rt := &RoutingTable{
		self:   self,
		space:  space,
		logger: logger.NopLogger{},
		finger: make([]*domain.FingerEntry, space.Bits),
	}
	for k := 1; k <= space.Bits; k++ {
		fe, err := space.NewFingerEntry(self.ID, k)
		if err != nil {
			return nil, fmt.Errorf("routingtable.New: %w", err)
		}
		rt.finger[k-1] = fe
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger.Debug("routing table initialized", logger.FNode("self", self))
	return rt, nil
}

// Space returns the identifier space this table was built for.
func (rt *RoutingTable) Space() domain.Space { return rt.space }

// Self returns the local node owning this table.
func (rt *RoutingTable) Self() *domain.Node { return rt.self }

// InitSingleNode configures the table for a freshly created ring with
// only one member: every finger and the predecessor point at self.
func (rt *RoutingTable) InitSingleNode() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, fe := range rt.finger {
		fe.Node = rt.self
	}
	rt.predecessor = rt.self
	rt.logger.Debug("routing table set to single-node ring")
}

// Finger returns a copy of the k-th finger entry (1-indexed, matching
// finger[1..M]).
func (rt *RoutingTable) Finger(k int) *domain.FingerEntry {
	if k < 1 || k > len(rt.finger) {
		rt.logger.Warn("Finger: index out of range", logger.F("k", k))
		return nil
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	fe := *rt.finger[k-1]
	return &fe
}

// SetFingerNode updates the k-th finger entry's node (1-indexed).
func (rt *RoutingTable) SetFingerNode(k int, n *domain.Node) {
	if k < 1 || k > len(rt.finger) {
		rt.logger.Warn("SetFingerNode: index out of range", logger.F("k", k))
		return
	}
	rt.mu.Lock()
	rt.finger[k-1].Node = n
	rt.mu.Unlock()
	rt.logger.Debug("SetFingerNode: updated", logger.F("k", k), logger.FNode("node", n))
}

// Successor returns finger[1].node, alias for the node's
// immediate successor on the ring.
func (rt *RoutingTable) Successor() *domain.Node {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.finger[0].Node
}

// SetSuccessor updates finger[1].node.
func (rt *RoutingTable) SetSuccessor(n *domain.Node) {
	rt.mu.Lock()
	rt.finger[0].Node = n
	rt.mu.Unlock()
	rt.logger.Debug("SetSuccessor: updated", logger.FNode("node", n))
}

// Predecessor returns the current predecessor, or nil if unset.
func (rt *RoutingTable) Predecessor() *domain.Node {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.predecessor
}

// SetPredecessor updates the predecessor pointer.
func (rt *RoutingTable) SetPredecessor(n *domain.Node) {
	rt.mu.Lock()
	rt.predecessor = n
	rt.mu.Unlock()
	rt.logger.Debug("SetPredecessor: updated", logger.FNode("node", n))
}

// ClosestPrecedingFinger scans finger[M..1] and returns the first
// finger node whose id lies in (self_id, id) on the ring, or self if
// none qualifies. Implements closest_preceding_finger.
func (rt *RoutingTable) ClosestPrecedingFinger(id domain.ID) *domain.Node {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	size := rt.space.Size()
	lo, _ := rt.space.AddMod(rt.self.ID, rt.space.FromUint64(1))
	interval := domain.NewModRange(lo.ToBigInt(), id.ToBigInt(), size)

	for k := len(rt.finger); k >= 1; k-- {
		fe := rt.finger[k-1]
		if fe.Node != nil && interval.ContainsID(fe.Node.ID) {
			return fe.Node
		}
	}
	return rt.self
}

// Snapshot returns a shallow, lock-consistent copy of every finger
// entry in order, for status logging or tests.
func (rt *RoutingTable) Snapshot() []*domain.FingerEntry {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make([]*domain.FingerEntry, len(rt.finger))
	for i, fe := range rt.finger {
		cp := *fe
		out[i] = &cp
	}
	return out
}
