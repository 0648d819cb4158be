package node

import (
	"context"
	"testing"

	"chordring/internal/client"
	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/routingtable"
	"chordring/internal/storage"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newSingletonNode(t *testing.T, addr string) *Node {
	t.Helper()
	sp, err := domain.NewSpace(7)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	self := &domain.Node{ID: sp.NewIdFromString(addr), Addr: addr}
	rt, err := routingtable.New(self, sp)
	if err != nil {
		t.Fatalf("routingtable.New: %v", err)
	}
	pool := client.New(grpc.WithTransportCredentials(insecure.NewCredentials()))
	store := storage.NewMemoryStore(sp, logger.NopLogger{})
	n := New(rt, pool, store, WithLogger(logger.NopLogger{}))

	if err := n.Join(context.Background(), ""); err != nil {
		t.Fatalf("Join(new ring): %v", err)
	}
	return n
}

func TestJoinFormsSingleNodeRing(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5000")

	if succ := n.Successor(); !succ.Equal(n.Self()) {
		t.Errorf("Successor() = %v, want self %v", succ, n.Self())
	}
	if pred := n.Predecessor(); !pred.Equal(n.Self()) {
		t.Errorf("Predecessor() = %v, want self %v", pred, n.Self())
	}
}

func TestPopulateAndQueryLocalRing(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5001")
	ctx := context.Background()

	status, err := n.Populate(ctx, "hello", "world")
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if status != "Added" {
		t.Errorf("Populate status = %q, want %q", status, "Added")
	}

	ownerID, value, found, err := n.Query(ctx, "hello")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !found {
		t.Fatal("Query: key not found after Populate")
	}
	if value != "world" {
		t.Errorf("Query value = %q, want %q", value, "world")
	}
	if !ownerID.Equal(n.Self().ID) {
		t.Errorf("Query owner = %s, want self %s", ownerID.ToHexString(true), n.Self().ID.ToHexString(true))
	}
}

func TestQueryMissingKey(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5002")
	_, _, found, err := n.Query(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if found {
		t.Error("Query found a key that was never populated")
	}
}

func TestFindSuccessorOnSingleNodeRing(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5003")
	id := n.Space().NewIdFromString("anything")

	succ, err := n.FindSuccessor(context.Background(), id)
	if err != nil {
		t.Fatalf("FindSuccessor: %v", err)
	}
	if !succ.Equal(n.Self()) {
		t.Errorf("FindSuccessor on single-node ring = %v, want self", succ)
	}
}
