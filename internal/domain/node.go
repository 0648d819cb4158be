package domain

import "fmt"

// Node identifies a single participant in the ring: its position
// (ID) and the network address other nodes dial to reach it.
type Node struct {
	ID   ID
	Addr string
}

// String renders the node as "id@addr", handy in log fields.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s@%s", n.ID.ToHexString(false), n.Addr)
}

// Equal reports whether two nodes refer to the same ring position.
// Addr is not compared: the same ID always denotes the same node.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.ID.Equal(other.ID)
}
