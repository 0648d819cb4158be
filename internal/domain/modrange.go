package domain

import "math/big"

// ModRange is a half-open interval [start, stop) on a ring of size
// divisor, matching original_source/chord_node.py's ModRange: since the
// interval can wrap past zero, membership is expressed as at most two
// ordinary sub-ranges rather than a single linear comparison.
//
// By this codebase's convention, ModRange(start, stop) with start ==
// stop denotes the empty set, not the full ring — callers that want
// the full ring construct it explicitly via FullRing.
type ModRange struct {
	Start, Stop, Divisor *big.Int
}

// NewModRange builds the interval [start, stop) on a ring of size
// divisor. start and stop are reduced modulo divisor first.
func NewModRange(start, stop, divisor *big.Int) ModRange {
	d := new(big.Int).Set(divisor)
	s := new(big.Int).Mod(start, d)
	e := new(big.Int).Mod(stop, d)
	return ModRange{Start: s, Stop: e, Divisor: d}
}

// FullRing returns the interval covering every point on the ring. It
// cannot be expressed as NewModRange(0, 0, divisor) since start==stop
// is by convention empty; use this constructor instead when the full
// ring is genuinely meant (e.g. "every id belongs to a single-node
// ring").
func FullRing(divisor *big.Int) ModRange {
	return ModRange{Start: big.NewInt(0), Stop: new(big.Int).Set(divisor), Divisor: new(big.Int).Set(divisor)}
}

// Contains reports whether id lies within the interval.
//
//   - start < stop: the linear range [start, stop).
//   - start == stop: empty set, by this package's convention (see the
//     ModRange doc comment) — not the full ring.
//   - start > stop: the wrapped range [start, divisor) ∪ [0, stop).
func (mr ModRange) Contains(id *big.Int) bool {
	x := new(big.Int).Mod(id, mr.Divisor)

	cmp := mr.Start.Cmp(mr.Stop)
	switch {
	case cmp < 0:
		return x.Cmp(mr.Start) >= 0 && x.Cmp(mr.Stop) < 0
	case cmp == 0:
		return false
	default:
		return x.Cmp(mr.Start) >= 0 || x.Cmp(mr.Stop) < 0
	}
}

// ContainsID is the ID-typed convenience wrapper around Contains.
func (mr ModRange) ContainsID(id ID) bool {
	return mr.Contains(id.ToBigInt())
}

// Len returns the number of points covered by the interval.
func (mr ModRange) Len() *big.Int {
	cmp := mr.Start.Cmp(mr.Stop)
	switch {
	case cmp < 0:
		return new(big.Int).Sub(mr.Stop, mr.Start)
	case cmp == 0:
		return big.NewInt(0)
	default:
		total := new(big.Int).Sub(mr.Divisor, mr.Start)
		return total.Add(total, mr.Stop)
	}
}
