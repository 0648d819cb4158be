package client

import (
	"testing"

	"chordring/internal/domain"
)

func TestNodeMsgRoundTrip(t *testing.T) {
	n := &domain.Node{ID: domain.ID{0x01, 0x02}, Addr: "127.0.0.1:9000"}
	got := fromNodeMsg(toNodeMsg(n))
	if !got.Equal(n) || got.Addr != n.Addr {
		t.Errorf("round trip mismatch: got %v, want %v", got, n)
	}
}

func TestNodeMsgRoundTripNil(t *testing.T) {
	if toNodeMsg(nil) != nil {
		t.Errorf("toNodeMsg(nil) should be nil")
	}
	if fromNodeMsg(nil) != nil {
		t.Errorf("fromNodeMsg(nil) should be nil")
	}
}

func TestPoolGetCachesConnection(t *testing.T) {
	p := New()
	defer p.Close()

	c1, err := p.get("127.0.0.1:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	c2, err := p.get("127.0.0.1:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c1 == nil || c2 == nil {
		t.Fatalf("expected non-nil clients")
	}
	p.mu.RLock()
	n := len(p.conn)
	p.mu.RUnlock()
	if n != 1 {
		t.Errorf("expected a single cached connection, got %d", n)
	}
}

func TestPoolEvictRemovesConnection(t *testing.T) {
	p := New()
	defer p.Close()

	if _, err := p.get("127.0.0.1:2"); err != nil {
		t.Fatalf("get: %v", err)
	}
	p.Evict("127.0.0.1:2")
	p.mu.RLock()
	_, ok := p.conn["127.0.0.1:2"]
	p.mu.RUnlock()
	if ok {
		t.Errorf("expected connection to be evicted")
	}
}
