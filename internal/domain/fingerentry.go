package domain

import (
	"fmt"
	"math/big"
)

// FingerEntry is one row of a node's finger table: the k-th entry
// covers the interval [n + 2^(k-1), n + 2^k) mod NODES and points at
// the node owning that interval's start.
//
// Mirrors original_source/chord_node.py's FingerEntry, with Node kept
// as a *domain.Node pointer instead of a bare port number.
type FingerEntry struct {
	K         int      // 1-indexed finger position, 1..Bits
	Start     ID       // (n + 2^(k-1)) mod NODES
	NextStart ID       // (n + 2^k) mod NODES, or n itself when k == Bits
	Interval  ModRange // [Start, NextStart)
	Node      *Node    // node currently believed to own Start
}

// NewFingerEntry builds the k-th finger entry for a node with
// identifier n, per the formula above.
func (sp Space) NewFingerEntry(n ID, k int) (*FingerEntry, error) {
	if k <= 0 || k > sp.Bits {
		return nil, fmt.Errorf("invalid finger index %d (must be in [1, %d])", k, sp.Bits)
	}
	if err := sp.IsValidID(n); err != nil {
		return nil, fmt.Errorf("invalid node id: %w", err)
	}

	size := sp.Size()
	offsetStart := new(big.Int).Lsh(big.NewInt(1), uint(k-1))
	start, err := sp.AddMod(n, sp.bigToID(offsetStart, size))
	if err != nil {
		return nil, err
	}

	var nextStart ID
	if k < sp.Bits {
		offsetNext := new(big.Int).Lsh(big.NewInt(1), uint(k))
		nextStart, err = sp.AddMod(n, sp.bigToID(offsetNext, size))
		if err != nil {
			return nil, err
		}
	} else {
		nextStart = append(ID(nil), n...)
	}

	interval := NewModRange(start.ToBigInt(), nextStart.ToBigInt(), size)

	return &FingerEntry{
		K:         k,
		Start:     start,
		NextStart: nextStart,
		Interval:  interval,
		Node:      nil,
	}, nil
}

// bigToID reduces v modulo size and renders it as an ID of this space.
func (sp Space) bigToID(v, size *big.Int) ID {
	m := new(big.Int).Mod(v, size)
	buf := make([]byte, sp.ByteLen)
	m.FillBytes(buf)
	return buf
}

// Contains reports whether id falls in this finger's interval.
func (fe *FingerEntry) Contains(id ID) bool {
	return fe.Interval.ContainsID(id)
}
