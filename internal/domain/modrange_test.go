package domain

import (
	"math/big"
	"testing"
)

func TestModRangeLinear(t *testing.T) {
	divisor := big.NewInt(128)
	mr := NewModRange(big.NewInt(10), big.NewInt(20), divisor)
	for i := int64(10); i < 20; i++ {
		if !mr.Contains(big.NewInt(i)) {
			t.Errorf("expected %d in [10,20)", i)
		}
	}
	if mr.Contains(big.NewInt(9)) || mr.Contains(big.NewInt(20)) {
		t.Errorf("boundary points must be excluded")
	}
}

func TestModRangeWraps(t *testing.T) {
	divisor := big.NewInt(128)
	mr := NewModRange(big.NewInt(120), big.NewInt(5), divisor)
	for _, in := range []int64{120, 125, 127, 0, 4} {
		if !mr.Contains(big.NewInt(in)) {
			t.Errorf("expected %d in wrapped [120,5)", in)
		}
	}
	for _, out := range []int64{5, 6, 100, 119} {
		if mr.Contains(big.NewInt(out)) {
			t.Errorf("expected %d not in wrapped [120,5)", out)
		}
	}
}

// Per this codebase's convention (resolution of §9 open
// question), start == stop is the empty set, not the full ring.
func TestModRangeEmptyWhenStartEqualsStop(t *testing.T) {
	divisor := big.NewInt(128)
	mr := NewModRange(big.NewInt(42), big.NewInt(42), divisor)
	for _, id := range []int64{0, 1, 42, 100, 127} {
		if mr.Contains(big.NewInt(id)) {
			t.Errorf("ModRange(42,42) should be empty, but contains %d", id)
		}
	}
	if mr.Len().Sign() != 0 {
		t.Errorf("Len() = %s, want 0", mr.Len().String())
	}
}

func TestFullRingContainsEverything(t *testing.T) {
	divisor := big.NewInt(128)
	mr := FullRing(divisor)
	for _, id := range []int64{0, 1, 64, 127} {
		if !mr.Contains(big.NewInt(id)) {
			t.Errorf("FullRing should contain %d", id)
		}
	}
	if mr.Len().Cmp(divisor) != 0 {
		t.Errorf("Len() = %s, want %s", mr.Len().String(), divisor.String())
	}
}

func TestModRangeLen(t *testing.T) {
	divisor := big.NewInt(128)
	linear := NewModRange(big.NewInt(10), big.NewInt(20), divisor)
	if linear.Len().Int64() != 10 {
		t.Errorf("Len() = %s, want 10", linear.Len().String())
	}
	wrapped := NewModRange(big.NewInt(120), big.NewInt(5), divisor)
	if wrapped.Len().Int64() != 13 { // (128-120) + 5
		t.Errorf("Len() = %s, want 13", wrapped.Len().String())
	}
}
