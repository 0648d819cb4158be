package domain

import "testing"

func TestNewIdFromStringWithinSpace(t *testing.T) {
	sp, err := NewSpace(7)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	tests := []string{"127.0.0.1:43544", "127.0.0.1:43545", ""}
	for _, s := range tests {
		id := sp.NewIdFromString(s)
		if err := sp.IsValidID(id); err != nil {
			t.Errorf("NewIdFromString(%q) = %x not valid: %v", s, []byte(id), err)
		}
	}
}

func TestFromUint64Masking(t *testing.T) {
	sp, _ := NewSpace(7)
	id := sp.FromUint64(200) // 200 > 127, must be masked to 7 bits
	got := id.ToBigInt().Int64()
	if got != 200&0x7F {
		t.Errorf("FromUint64(200) = %d, want %d", got, 200&0x7F)
	}
}

func TestAddModWraps(t *testing.T) {
	sp, _ := NewSpace(7)
	a := sp.FromUint64(120)
	b := sp.FromUint64(10)
	sum, err := sp.AddMod(a, b)
	if err != nil {
		t.Fatalf("AddMod: %v", err)
	}
	if got := sum.ToBigInt().Int64(); got != 2 { // (120+10) mod 128 = 2
		t.Errorf("AddMod(120,10) mod 128 = %d, want 2", got)
	}
}

func TestSubModWraps(t *testing.T) {
	sp, _ := NewSpace(7)
	a := sp.FromUint64(5)
	b := sp.FromUint64(10)
	diff, err := sp.SubMod(a, b)
	if err != nil {
		t.Fatalf("SubMod: %v", err)
	}
	if got := diff.ToBigInt().Int64(); got != 123 { // (5-10+128) mod 128 = 123
		t.Errorf("SubMod(5,10) mod 128 = %d, want 123", got)
	}
}

func TestFromHexStringRejectsOutOfRange(t *testing.T) {
	sp, _ := NewSpace(7)
	if _, err := sp.FromHexString("ff"); err == nil {
		t.Errorf("FromHexString(0xff) should fail in a 7-bit space")
	}
	id, err := sp.FromHexString("7f")
	if err != nil {
		t.Fatalf("FromHexString(0x7f): %v", err)
	}
	if id.ToBigInt().Int64() != 127 {
		t.Errorf("FromHexString(0x7f) = %d, want 127", id.ToBigInt().Int64())
	}
}

func TestCmpAndEqual(t *testing.T) {
	sp, _ := NewSpace(7)
	a := sp.FromUint64(5)
	b := sp.FromUint64(5)
	c := sp.FromUint64(6)
	if !a.Equal(b) {
		t.Errorf("expected a.Equal(b)")
	}
	if a.Cmp(c) >= 0 {
		t.Errorf("expected a < c")
	}
}
