package domain

import "testing"

func TestNewFingerEntryFormula(t *testing.T) {
	sp, _ := NewSpace(7) // NODES = 128
	n := sp.FromUint64(10)

	tests := []struct {
		k             int
		wantStart     int64
		wantNextStart int64
	}{
		{1, 11, 12},   // 10+1, 10+2
		{2, 12, 14},   // 10+2, 10+4
		{3, 14, 18},   // 10+4, 10+8
		{7, 74, 10},   // 10+64, wraps to n itself since k == M
	}

	for _, tt := range tests {
		fe, err := sp.NewFingerEntry(n, tt.k)
		if err != nil {
			t.Fatalf("NewFingerEntry(k=%d): %v", tt.k, err)
		}
		if got := fe.Start.ToBigInt().Int64(); got != tt.wantStart {
			t.Errorf("k=%d: Start = %d, want %d", tt.k, got, tt.wantStart)
		}
		if got := fe.NextStart.ToBigInt().Int64(); got != tt.wantNextStart {
			t.Errorf("k=%d: NextStart = %d, want %d", tt.k, got, tt.wantNextStart)
		}
	}
}

func TestNewFingerEntryRejectsBadIndex(t *testing.T) {
	sp, _ := NewSpace(7)
	n := sp.FromUint64(10)
	if _, err := sp.NewFingerEntry(n, 0); err == nil {
		t.Errorf("expected error for k=0")
	}
	if _, err := sp.NewFingerEntry(n, 8); err == nil {
		t.Errorf("expected error for k=8 (> M=7)")
	}
}

func TestFingerEntryContains(t *testing.T) {
	sp, _ := NewSpace(7)
	n := sp.FromUint64(10)
	fe, err := sp.NewFingerEntry(n, 1) // [11, 12)
	if err != nil {
		t.Fatalf("NewFingerEntry: %v", err)
	}
	if !fe.Contains(sp.FromUint64(11)) {
		t.Errorf("expected 11 in finger[1]'s interval")
	}
	if fe.Contains(sp.FromUint64(12)) {
		t.Errorf("expected 12 not in finger[1]'s interval")
	}
}
