package storage

import (
	"testing"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

func newTestStore(t *testing.T) (*MemoryStore, domain.Space) {
	t.Helper()
	sp, err := domain.NewSpace(7)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return NewMemoryStore(sp, logger.NopLogger{}), sp
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	s, sp := newTestStore(t)

	res := domain.Resource{Key: sp.NewIdFromString("alice"), RawKey: "alice", Value: "wonderland"}
	s.Put(res)

	got, err := s.Get("alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != "wonderland" {
		t.Errorf("Get = %q, want %q", got.Value, "wonderland")
	}

	s.Delete("alice")
	if _, err := s.Get("alice"); err != domain.ErrResourceNotFound {
		t.Errorf("Get after Delete = %v, want ErrResourceNotFound", err)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Get("missing"); err != domain.ErrResourceNotFound {
		t.Errorf("Get(missing) = %v, want ErrResourceNotFound", err)
	}
}

func TestMemoryStoreAllAndLen(t *testing.T) {
	s, sp := newTestStore(t)
	keys := []string{"a", "b", "c"}
	for _, k := range keys {
		s.Put(domain.Resource{Key: sp.NewIdFromString(k), RawKey: k, Value: k + "-value"})
	}

	if n := s.Len(); n != len(keys) {
		t.Errorf("Len = %d, want %d", n, len(keys))
	}

	all := s.All()
	if len(all) != len(keys) {
		t.Errorf("All returned %d resources, want %d", len(all), len(keys))
	}
	seen := make(map[string]bool)
	for _, res := range all {
		seen[res.RawKey] = true
	}
	for _, k := range keys {
		if !seen[k] {
			t.Errorf("All missing key %q", k)
		}
	}
}

func TestMemoryStoreBetween(t *testing.T) {
	s, sp := newTestStore(t)
	s.Put(domain.Resource{Key: sp.FromUint64(10), RawKey: "ten", Value: "v10"})
	s.Put(domain.Resource{Key: sp.FromUint64(50), RawKey: "fifty", Value: "v50"})
	s.Put(domain.Resource{Key: sp.FromUint64(100), RawKey: "hundred", Value: "v100"})

	res := s.Between(sp.FromUint64(5), sp.FromUint64(60))
	if len(res) != 2 {
		t.Fatalf("Between(5,60) returned %d resources, want 2", len(res))
	}
	got := map[string]bool{}
	for _, r := range res {
		got[r.RawKey] = true
	}
	if !got["ten"] || !got["fifty"] {
		t.Errorf("Between(5,60) = %v, want ten and fifty", got)
	}
}
