package node

import (
	"context"
	"testing"
)

func TestMigrateDataNoopWithoutNewPredecessor(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5100")

	// On a freshly formed single-node ring, predecessor is self: no
	// data should move anywhere.
	if err := n.MigrateData(context.Background()); err != nil {
		t.Fatalf("MigrateData: %v", err)
	}
}

func TestUpdateFingerTableDegenerateSingleNodeRing(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5101")

	// On a single-node ring every finger points at self, and self lies
	// outside each finger's [start, self) interval, so
	// update_finger_table with s = self must be a no-op.
	other := n.Self()
	if err := n.UpdateFingerTable(context.Background(), other, 1); err != nil {
		t.Fatalf("UpdateFingerTable: %v", err)
	}
	if succ := n.Successor(); !succ.Equal(n.Self()) {
		t.Errorf("Successor changed after degenerate UpdateFingerTable: %v", succ)
	}
}

func TestClosestPrecedingFingerReturnsSelfWhenNoFingerQualifies(t *testing.T) {
	n := newSingletonNode(t, "127.0.0.1:5102")
	id := n.Space().NewIdFromString("some-key")

	cpf := n.ClosestPrecedingFinger(id)
	if !cpf.Equal(n.Self()) {
		t.Errorf("ClosestPrecedingFinger on single-node ring = %v, want self", cpf)
	}
}
