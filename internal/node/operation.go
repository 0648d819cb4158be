package node

import (
	"context"
	"fmt"

	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/telemetry/lookuptrace"
)

// ErrHopLimitExceeded is returned by FindPredecessor when routing
// doesn't converge within the safety-valve hop count (2*M), protecting
// against a malformed ring looping forever instead of failing loudly.
var ErrHopLimitExceeded = fmt.Errorf("node: find_predecessor exceeded hop limit")

// successorOf returns addr's successor, taking the local dispatch
// path when addr is this node itself instead of looping back through
// the RPC pool.
func (n *Node) successorOf(ctx context.Context, addr string) (*domain.Node, error) {
	if n.isSelf(addr) {
		return n.Successor(), nil
	}
	return n.pool.Successor(ctx, addr)
}

// closestPrecedingFingerOf asks addr for its closest finger preceding
// id, again via the local dispatch path when addr is self.
func (n *Node) closestPrecedingFingerOf(ctx context.Context, addr string, id domain.ID) (*domain.Node, error) {
	if n.isSelf(addr) {
		return n.ClosestPrecedingFinger(id), nil
	}
	return n.pool.ClosestPrecedingFinger(ctx, addr, id)
}

// updateFingerTableOf runs update_finger_table(s, k) on addr, locally
// or via RPC.
func (n *Node) updateFingerTableOf(ctx context.Context, addr string, s *domain.Node, k int) error {
	if n.isSelf(addr) {
		return n.UpdateFingerTable(ctx, s, k)
	}
	return n.pool.UpdateFingerTable(ctx, addr, s, k)
}

// succRange returns the half-open interval (p, succ] used by
// find_predecessor's loop termination test: "id ∈ (id(p),
// id(successor_of(p))]", expressed as ModRange(id(p)+1,
// id(successor_of(p))+1, NODES).
func (n *Node) succRange(p, succ *domain.Node) (domain.ModRange, error) {
	sp := n.Space()
	size := sp.Size()
	lo, err := sp.AddMod(p.ID, sp.FromUint64(1))
	if err != nil {
		return domain.ModRange{}, err
	}
	hi, err := sp.AddMod(succ.ID, sp.FromUint64(1))
	if err != nil {
		return domain.ModRange{}, err
	}
	return domain.NewModRange(lo.ToBigInt(), hi.ToBigInt(), size), nil
}

// ClosestPrecedingFinger implements closest_preceding_finger, delegating
// to the routing table (which holds the finger entries and their lock).
func (n *Node) ClosestPrecedingFinger(id domain.ID) *domain.Node {
	return n.rt.ClosestPrecedingFinger(id)
}

// FindPredecessor implements the iterative routing loop that walks the
// ring from self towards id's predecessor, one finger hop at a time. A
// hop limit of 2*M guards against a malformed or inconsistent ring
// looping forever.
func (n *Node) FindPredecessor(ctx context.Context, id domain.ID) (*domain.Node, error) {
	ctx = lookuptrace.WithLookup(ctx)
	p := n.Self()
	maxHops := 2 * n.Space().Bits
	for hop := 0; hop < maxHops; hop++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("find_predecessor: %w", err)
		}
		succ, err := n.successorOf(ctx, p.Addr)
		if err != nil {
			return nil, fmt.Errorf("find_predecessor: successor of %s: %w", p, err)
		}
		if succ == nil {
			return nil, fmt.Errorf("find_predecessor: %s has no successor", p)
		}
		rng, err := n.succRange(p, succ)
		if err != nil {
			return nil, fmt.Errorf("find_predecessor: %w", err)
		}
		if rng.ContainsID(id) {
			return p, nil
		}
		next, err := n.closestPrecedingFingerOf(ctx, p.Addr, id)
		if err != nil {
			return nil, fmt.Errorf("find_predecessor: closest_preceding_finger of %s: %w", p, err)
		}
		if next == nil || next.Equal(p) {
			// No finger makes progress: p is the best answer we have.
			return p, nil
		}
		p = next
	}
	return nil, ErrHopLimitExceeded
}

// FindSuccessor finds id's predecessor, then asks it for its successor.
func (n *Node) FindSuccessor(ctx context.Context, id domain.ID) (*domain.Node, error) {
	pred, err := n.FindPredecessor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find_successor: %w", err)
	}
	succ, err := n.successorOf(ctx, pred.Addr)
	if err != nil {
		return nil, fmt.Errorf("find_successor: successor of %s: %w", pred, err)
	}
	return succ, nil
}

// InitFingerTable implements init_finger_table, run by a freshly
// joining node against a known member np.
//
// Step 4's lower bound uses self_id, not id(np) — the Chord paper's own
// bound.
func (n *Node) InitFingerTable(ctx context.Context, np string) error {
	self := n.Self()
	bits := n.Space().Bits
	size := n.Space().Size()

	fe1 := n.rt.Finger(1)
	succ1, err := n.pool.FindSuccessor(ctx, np, fe1.Start)
	if err != nil {
		return fmt.Errorf("init_finger_table: find_successor(np, finger[1].start): %w", err)
	}
	if succ1 == nil {
		return fmt.Errorf("init_finger_table: np returned no successor")
	}
	n.rt.SetFingerNode(1, succ1)

	pred, err := n.pool.GetPredecessor(ctx, succ1.Addr)
	if err != nil {
		return fmt.Errorf("init_finger_table: get_predecessor of successor: %w", err)
	}
	n.rt.SetPredecessor(pred)

	if err := n.pool.SetPredecessor(ctx, succ1.Addr, self); err != nil {
		return fmt.Errorf("init_finger_table: set_predecessor on successor: %w", err)
	}

	for k := 1; k < bits; k++ {
		fk := n.rt.Finger(k)
		fk1 := n.rt.Finger(k + 1)

		rng := domain.NewModRange(self.ID.ToBigInt(), fk.Node.ID.ToBigInt(), size)
		if rng.ContainsID(fk1.Start) {
			n.rt.SetFingerNode(k+1, fk.Node)
			continue
		}
		succK, err := n.pool.FindSuccessor(ctx, np, fk1.Start)
		if err != nil {
			return fmt.Errorf("init_finger_table: find_successor(np, finger[%d].start): %w", k+1, err)
		}
		n.rt.SetFingerNode(k+1, succK)
	}
	return nil
}

// UpdateOthers implements update_others: for every finger index k, find
// the node whose k-th finger should now point at this node and tell it
// to update.
//
// The predecessor target is find_predecessor(self_id - 2^(k-1))
// directly, with no extra +1.
func (n *Node) UpdateOthers(ctx context.Context) error {
	self := n.Self()
	sp := n.Space()
	bits := sp.Bits

	for k := 1; k <= bits; k++ {
		offset := sp.FromUint64(uint64(1) << uint(k-1))
		preID, err := sp.SubMod(self.ID, offset)
		if err != nil {
			return fmt.Errorf("update_others: computing pre_id for k=%d: %w", k, err)
		}
		p, err := n.FindPredecessor(ctx, preID)
		if err != nil {
			n.lgr.Warn("update_others: find_predecessor failed", logger.F("k", k), logger.F("err", err.Error()))
			continue
		}
		if p == nil {
			continue
		}
		if err := n.updateFingerTableOf(ctx, p.Addr, self, k); err != nil {
			n.lgr.Warn("update_others: update_finger_table failed",
				logger.F("k", k), logger.FNode("target", p), logger.F("err", err.Error()))
		}
	}
	return nil
}

// UpdateFingerTable implements update_finger_table(s, k), called both
// locally (UpdateOthers targeting self) and via RPC
// (another node propagating a join). It stops as soon as s is no
// longer closer to finger[k].start than the current finger node,
// which is what bounds the counter-clockwise propagation chain.
func (n *Node) UpdateFingerTable(ctx context.Context, s *domain.Node, k int) error {
	if k < 1 || k > n.Space().Bits {
		return fmt.Errorf("update_finger_table: invalid finger index %d", k)
	}
	fk := n.rt.Finger(k)
	if fk.Start.Equal(fk.Node.ID) {
		// finger[k].node already sits at finger[k].start: no node can be
		// closer, so there is nothing to update.
		return nil
	}

	size := n.Space().Size()
	rng := domain.NewModRange(fk.Start.ToBigInt(), fk.Node.ID.ToBigInt(), size)
	if !rng.ContainsID(s.ID) {
		return nil
	}

	n.rt.SetFingerNode(k, s)

	pred := n.rt.Predecessor()
	if pred == nil || pred.Equal(s) {
		return nil
	}
	return n.updateFingerTableOf(ctx, pred.Addr, s, k)
}

// MigrateData implements migrate_data, invoked by a newly-joined node
// on its successor. By the time this runs, the successor's own
// predecessor pointer has already been overwritten to the new node
// (init_finger_table's step 3 runs before migrate_data is called) — so
// rather than needing the old predecessor value, the successor computes
// the keys it must give away as the complement of its own new
// responsibility range (new_node, self]: every local resource not in
// that ModRange moves to the new node.
func (n *Node) MigrateData(ctx context.Context) error {
	self := n.Self()
	newNode := n.rt.Predecessor()
	if newNode == nil || newNode.Equal(self) {
		return nil
	}

	sp := n.Space()
	keepLo, err := sp.AddMod(newNode.ID, sp.FromUint64(1))
	if err != nil {
		return fmt.Errorf("migrate_data: %w", err)
	}
	selfPlus1, err := sp.AddMod(self.ID, sp.FromUint64(1))
	if err != nil {
		return fmt.Errorf("migrate_data: %w", err)
	}
	keepRange := domain.NewModRange(keepLo.ToBigInt(), selfPlus1.ToBigInt(), sp.Size())

	var failures int
	for _, res := range n.store.All() {
		if keepRange.ContainsID(res.Key) {
			continue
		}
		if err := n.pool.AddKey(ctx, newNode.Addr, res.RawKey, res.Value); err != nil {
			failures++
			n.lgr.Warn("migrate_data: failed to transfer key",
				logger.F("key", res.RawKey), logger.F("err", err.Error()))
			continue
		}
		n.store.Delete(res.RawKey)
	}
	if failures > 0 {
		n.lgr.Warn("migrate_data: some keys failed to transfer", logger.F("count", failures))
	}
	return nil
}

// Join implements join_network. known == "" is the
// sentinel for "form a new ring" (port-0 convention,
// generalized to an empty address).
func (n *Node) Join(ctx context.Context, known string) error {
	if known == "" {
		n.rt.InitSingleNode()
		n.lgr.Info("join: formed new ring as first node")
		return nil
	}

	if err := n.InitFingerTable(ctx, known); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	succ := n.Successor()
	if succ == nil {
		return fmt.Errorf("join: no successor after init_finger_table")
	}
	if err := n.pool.MigrateData(ctx, succ.Addr); err != nil {
		return fmt.Errorf("join: migrate_data: %w", err)
	}
	if err := n.UpdateOthers(ctx); err != nil {
		return fmt.Errorf("join: update_others: %w", err)
	}
	n.lgr.Info("join: completed", logger.F("known", known))
	return nil
}

// --- Application operations ---

// addKeyAt stores (key, value) on owner, locally or via RPC.
func (n *Node) addKeyAt(ctx context.Context, owner *domain.Node, key, value string) error {
	if n.isSelf(owner.Addr) {
		return n.AddKey(key, value)
	}
	return n.pool.AddKey(ctx, owner.Addr, key, value)
}

// getKeyDataAt retrieves key's value from owner, locally or via RPC.
func (n *Node) getKeyDataAt(ctx context.Context, owner *domain.Node, key string) (value string, found bool, err error) {
	if n.isSelf(owner.Addr) {
		value, found = n.GetKeyData(key)
		return value, found, nil
	}
	return n.pool.GetKeyData(ctx, owner.Addr, key)
}

// Populate implements populate(key, value): hash the
// key, locate its owner, store it there.
func (n *Node) Populate(ctx context.Context, key, value string) (string, error) {
	id := n.Space().NewIdFromString(key)
	owner, err := n.FindSuccessor(ctx, id)
	if err != nil {
		return "", fmt.Errorf("populate: find_successor: %w", err)
	}
	if err := n.addKeyAt(ctx, owner, key, value); err != nil {
		return "", fmt.Errorf("populate: add_key: %w", err)
	}
	return "Added", nil
}

// Query implements query(key): hash the key, locate
// its owner, retrieve its value there. ownerID is returned even on a
// miss, matching get_key_data's (node_id, "Not found") reply.
func (n *Node) Query(ctx context.Context, key string) (ownerID domain.ID, value string, found bool, err error) {
	id := n.Space().NewIdFromString(key)
	owner, err := n.FindSuccessor(ctx, id)
	if err != nil {
		return nil, "", false, fmt.Errorf("query: find_successor: %w", err)
	}
	value, found, err = n.getKeyDataAt(ctx, owner, key)
	if err != nil {
		return nil, "", false, fmt.Errorf("query: get_key_data: %w", err)
	}
	return owner.ID, value, found, nil
}

// AddKey implements add_key(key, value): unconditional
// local insert. The caller (Populate, or the RPC dispatcher on behalf
// of a remote populate/migrate_data) is responsible for having
// resolved this node as the key's owner first.
func (n *Node) AddKey(key, value string) error {
	n.store.Put(domain.Resource{
		Key:    n.Space().NewIdFromString(key),
		RawKey: key,
		Value:  value,
	})
	return nil
}

// GetKeyData implements get_key_data(key): a local
// lookup, not an error when absent.
func (n *Node) GetKeyData(key string) (value string, found bool) {
	res, err := n.store.Get(key)
	if err != nil {
		return "", false
	}
	return res.Value, true
}
