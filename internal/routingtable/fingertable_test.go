package routingtable

import (
	"testing"

	"chordring/internal/domain"
)

func newTestTable(t *testing.T, id uint64) (*RoutingTable, domain.Space) {
	t.Helper()
	sp, err := domain.NewSpace(7)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	self := &domain.Node{ID: sp.FromUint64(id), Addr: "127.0.0.1:0"}
	rt, err := New(self, sp)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt, sp
}

func TestInitSingleNode(t *testing.T) {
	rt, _ := newTestTable(t, 10)
	rt.InitSingleNode()

	if !rt.Successor().Equal(rt.Self()) {
		t.Errorf("successor should be self after InitSingleNode")
	}
	if !rt.Predecessor().Equal(rt.Self()) {
		t.Errorf("predecessor should be self after InitSingleNode")
	}
	for _, fe := range rt.Snapshot() {
		if !fe.Node.Equal(rt.Self()) {
			t.Errorf("finger[%d].node should be self after InitSingleNode", fe.K)
		}
	}
}

func TestSetFingerNodeAndSuccessorAlias(t *testing.T) {
	rt, sp := newTestTable(t, 10)
	other := &domain.Node{ID: sp.FromUint64(20), Addr: "127.0.0.1:1"}

	rt.SetFingerNode(1, other)
	if got := rt.Successor(); got != other {
		t.Errorf("Successor() should alias finger[1].node")
	}
}

func TestClosestPrecedingFingerFallsBackToSelf(t *testing.T) {
	rt, sp := newTestTable(t, 10)
	rt.InitSingleNode() // all fingers point to self

	cpf := rt.ClosestPrecedingFinger(sp.FromUint64(50))
	if !cpf.Equal(rt.Self()) {
		t.Errorf("expected self when no finger qualifies, got %v", cpf)
	}
}

func TestClosestPrecedingFingerPicksFarthestQualifying(t *testing.T) {
	rt, sp := newTestTable(t, 10)
	near := &domain.Node{ID: sp.FromUint64(15), Addr: "127.0.0.1:1"}
	far := &domain.Node{ID: sp.FromUint64(90), Addr: "127.0.0.1:2"}

	// finger[1] covers a low interval, finger[7] covers the farthest
	rt.SetFingerNode(1, near)
	rt.SetFingerNode(7, far)

	got := rt.ClosestPrecedingFinger(sp.FromUint64(100))
	if !got.Equal(far) {
		t.Errorf("expected farthest qualifying finger (id 90), got %v", got)
	}
}
