package client

import (
	"context"

	"chordring/internal/domain"
	"chordring/internal/rpc"
)

func toNodeMsg(n *domain.Node) *rpc.NodeMsg {
	if n == nil {
		return nil
	}
	return &rpc.NodeMsg{ID: []byte(n.ID), Addr: n.Addr}
}

func fromNodeMsg(m *rpc.NodeMsg) *domain.Node {
	if m == nil {
		return nil
	}
	return &domain.Node{ID: domain.ID(m.ID), Addr: m.Addr}
}

// wrap normalizes any transport error into ErrUnreachable, evicting
// the cached connection so the next call redials.
func (p *Pool) wrap(addr string, err error) error {
	if err == nil {
		return nil
	}
	p.Evict(addr)
	return ErrUnreachable
}

// Successor asks addr for its immediate successor (finger[1].node).
func (p *Pool) Successor(ctx context.Context, addr string) (*domain.Node, error) {
	c, err := p.get(addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.Successor(ctx)
	if err != nil {
		return nil, p.wrap(addr, err)
	}
	return fromNodeMsg(resp), nil
}

// GetPredecessor asks addr for its predecessor. A nil *domain.Node
// with a nil error means addr currently has no predecessor (this design
// §9 resolution #6: GetPredecessor/SetPredecessor are split RPCs, and
// "no predecessor yet" is valid ring state, not an error).
func (p *Pool) GetPredecessor(ctx context.Context, addr string) (*domain.Node, error) {
	c, err := p.get(addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.GetPredecessor(ctx)
	if err != nil {
		return nil, p.wrap(addr, err)
	}
	if len(resp.ID) == 0 {
		return nil, nil
	}
	return fromNodeMsg(resp), nil
}

// SetPredecessor tells addr that n is its new predecessor.
func (p *Pool) SetPredecessor(ctx context.Context, addr string, n *domain.Node) error {
	c, err := p.get(addr)
	if err != nil {
		return err
	}
	_, err = c.SetPredecessor(ctx, toNodeMsg(n))
	return p.wrap(addr, err)
}

// FindSuccessor asks addr to resolve id's successor.
func (p *Pool) FindSuccessor(ctx context.Context, addr string, id domain.ID) (*domain.Node, error) {
	c, err := p.get(addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.FindSuccessor(ctx, &rpc.IDMsg{ID: []byte(id)})
	if err != nil {
		return nil, p.wrap(addr, err)
	}
	return fromNodeMsg(resp), nil
}

// FindPredecessor asks addr to resolve id's predecessor.
func (p *Pool) FindPredecessor(ctx context.Context, addr string, id domain.ID) (*domain.Node, error) {
	c, err := p.get(addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.FindPredecessor(ctx, &rpc.IDMsg{ID: []byte(id)})
	if err != nil {
		return nil, p.wrap(addr, err)
	}
	return fromNodeMsg(resp), nil
}

// ClosestPrecedingFinger asks addr for the finger closest to id.
func (p *Pool) ClosestPrecedingFinger(ctx context.Context, addr string, id domain.ID) (*domain.Node, error) {
	c, err := p.get(addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.ClosestPrecedingFinger(ctx, &rpc.IDMsg{ID: []byte(id)})
	if err != nil {
		return nil, p.wrap(addr, err)
	}
	return fromNodeMsg(resp), nil
}

// UpdateFingerTable asks addr to run update_finger_table(s, k) locally
//.
func (p *Pool) UpdateFingerTable(ctx context.Context, addr string, s *domain.Node, k int) error {
	c, err := p.get(addr)
	if err != nil {
		return err
	}
	_, err = c.UpdateFingerTable(ctx, &rpc.UpdateFingerTableRequest{S: toNodeMsg(s), K: int32(k)})
	return p.wrap(addr, err)
}

// MigrateData asks addr to hand over any keys this node is now
// responsible for, as part of a fresh join.
func (p *Pool) MigrateData(ctx context.Context, addr string) error {
	c, err := p.get(addr)
	if err != nil {
		return err
	}
	_, err = c.MigrateData(ctx)
	return p.wrap(addr, err)
}

// AddKey stores (key, value) on addr, which must be the key's owner.
func (p *Pool) AddKey(ctx context.Context, addr, key, value string) error {
	c, err := p.get(addr)
	if err != nil {
		return err
	}
	_, err = c.AddKey(ctx, &rpc.KeyValueMsg{Key: key, Value: value})
	return p.wrap(addr, err)
}

// GetKeyData retrieves key's value from addr. found reports whether
// the key exists on that node.
func (p *Pool) GetKeyData(ctx context.Context, addr, key string) (value string, found bool, err error) {
	c, err := p.get(addr)
	if err != nil {
		return "", false, err
	}
	resp, err := c.GetKeyData(ctx, &rpc.KeyMsg{Key: key})
	if err != nil {
		return "", false, p.wrap(addr, err)
	}
	return resp.Value, resp.Found, nil
}

// Populate starts a populate request at addr: addr resolves key's
// owner via find_successor and stores (key, value) there.
func (p *Pool) Populate(ctx context.Context, addr, key, value string) error {
	c, err := p.get(addr)
	if err != nil {
		return err
	}
	_, err = c.Populate(ctx, &rpc.KeyValueMsg{Key: key, Value: value})
	return p.wrap(addr, err)
}

// Query starts a query request at addr: addr resolves key's owner via
// find_successor and returns its stored value.
func (p *Pool) Query(ctx context.Context, addr, key string) (value string, found bool, ownerID []byte, err error) {
	c, err := p.get(addr)
	if err != nil {
		return "", false, nil, err
	}
	resp, err := c.Query(ctx, &rpc.KeyMsg{Key: key})
	if err != nil {
		return "", false, nil, p.wrap(addr, err)
	}
	return resp.Value, resp.Found, resp.NodeID, nil
}
