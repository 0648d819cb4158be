package server

import (
	"context"

	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/node"
	"chordring/internal/rpc"
)

// dispatcher implements rpc.NodeServer by mapping each inbound RPC to
// a method on the protocol engine in internal/node — the tagged,
// exhaustively-matched stand-in asks for in place of the
// source's reflection-based method lookup by name.
type dispatcher struct {
	n   *node.Node
	lgr logger.Logger
}

// NewDispatcher wraps n as an rpc.NodeServer.
func NewDispatcher(n *node.Node, lgr logger.Logger) rpc.NodeServer {
	if lgr == nil {
		lgr = logger.NopLogger{}
	}
	return &dispatcher{n: n, lgr: lgr}
}

func toNodeMsg(nd *domain.Node) *rpc.NodeMsg {
	if nd == nil {
		return &rpc.NodeMsg{}
	}
	return &rpc.NodeMsg{ID: []byte(nd.ID), Addr: nd.Addr}
}

func fromNodeMsg(m *rpc.NodeMsg) *domain.Node {
	if m == nil || len(m.ID) == 0 {
		return nil
	}
	return &domain.Node{ID: domain.ID(m.ID), Addr: m.Addr}
}

// Successor replies with finger[1].node.
func (d *dispatcher) Successor(_ context.Context, _ *rpc.Empty) (*rpc.NodeMsg, error) {
	return toNodeMsg(d.n.Successor()), nil
}

// GetPredecessor replies with the current predecessor (nil/empty if
// unset, which is valid ring state, not an error).
func (d *dispatcher) GetPredecessor(_ context.Context, _ *rpc.Empty) (*rpc.NodeMsg, error) {
	return toNodeMsg(d.n.Predecessor()), nil
}

// SetPredecessor overwrites the predecessor pointer: the split
// getter/setter pair in place of the source's single overloaded RPC.
func (d *dispatcher) SetPredecessor(_ context.Context, m *rpc.NodeMsg) (*rpc.Empty, error) {
	d.n.SetPredecessor(fromNodeMsg(m))
	return &rpc.Empty{}, nil
}

// FindSuccessor runs find_successor(id) and replies with the owner.
func (d *dispatcher) FindSuccessor(ctx context.Context, idm *rpc.IDMsg) (*rpc.NodeMsg, error) {
	succ, err := d.n.FindSuccessor(ctx, domain.ID(idm.ID))
	if err != nil {
		d.lgr.Warn("FindSuccessor RPC failed", logger.F("err", err.Error()))
		return nil, err
	}
	return toNodeMsg(succ), nil
}

// FindPredecessor runs find_predecessor(id) and replies with it.
func (d *dispatcher) FindPredecessor(ctx context.Context, idm *rpc.IDMsg) (*rpc.NodeMsg, error) {
	pred, err := d.n.FindPredecessor(ctx, domain.ID(idm.ID))
	if err != nil {
		d.lgr.Warn("FindPredecessor RPC failed", logger.F("err", err.Error()))
		return nil, err
	}
	return toNodeMsg(pred), nil
}

// ClosestPrecedingFinger is a pure local lookup against the finger
// table, never itself an RPC fan-out.
func (d *dispatcher) ClosestPrecedingFinger(_ context.Context, idm *rpc.IDMsg) (*rpc.NodeMsg, error) {
	return toNodeMsg(d.n.ClosestPrecedingFinger(domain.ID(idm.ID))), nil
}

// UpdateFingerTable runs update_finger_table(s, k) locally, possibly
// propagating to the predecessor before replying.
func (d *dispatcher) UpdateFingerTable(ctx context.Context, req *rpc.UpdateFingerTableRequest) (*rpc.Empty, error) {
	if err := d.n.UpdateFingerTable(ctx, fromNodeMsg(req.S), int(req.K)); err != nil {
		d.lgr.Warn("UpdateFingerTable RPC failed", logger.F("err", err.Error()))
		return nil, err
	}
	return &rpc.Empty{}, nil
}

// MigrateData hands over any keys now owned by this node's new
// predecessor.
func (d *dispatcher) MigrateData(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	if err := d.n.MigrateData(ctx); err != nil {
		d.lgr.Warn("MigrateData RPC failed", logger.F("err", err.Error()))
		return nil, err
	}
	return &rpc.Empty{}, nil
}

// AddKey stores (key, value) locally; add_key.
func (d *dispatcher) AddKey(_ context.Context, kv *rpc.KeyValueMsg) (*rpc.AckMsg, error) {
	if err := d.n.AddKey(kv.Key, kv.Value); err != nil {
		return nil, err
	}
	return &rpc.AckMsg{Status: "Added"}, nil
}

// GetKeyData retrieves key's value locally. A miss is data
// ("Not found"), not an error.
func (d *dispatcher) GetKeyData(_ context.Context, k *rpc.KeyMsg) (*rpc.KeyDataMsg, error) {
	value, found := d.n.GetKeyData(k.Key)
	return &rpc.KeyDataMsg{NodeID: []byte(d.n.Self().ID), Value: value, Found: found}, nil
}

// Populate resolves key's owner via find_successor and stores
// (key, value) there; populate.
func (d *dispatcher) Populate(ctx context.Context, kv *rpc.KeyValueMsg) (*rpc.AckMsg, error) {
	status, err := d.n.Populate(ctx, kv.Key, kv.Value)
	if err != nil {
		d.lgr.Warn("Populate RPC failed", logger.F("key", kv.Key), logger.F("err", err.Error()))
		return nil, err
	}
	return &rpc.AckMsg{Status: status}, nil
}

// Query resolves key's owner via find_successor and retrieves its
// stored value; query.
func (d *dispatcher) Query(ctx context.Context, k *rpc.KeyMsg) (*rpc.KeyDataMsg, error) {
	ownerID, value, found, err := d.n.Query(ctx, k.Key)
	if err != nil {
		d.lgr.Warn("Query RPC failed", logger.F("key", k.Key), logger.F("err", err.Error()))
		return nil, err
	}
	return &rpc.KeyDataMsg{NodeID: []byte(ownerID), Value: value, Found: found}, nil
}
