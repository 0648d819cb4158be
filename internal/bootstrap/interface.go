// Package bootstrap resolves the initial set of peer addresses a
// node can contact to join the ring.
package bootstrap

import (
	"context"

	"chordring/internal/domain"
)

// Bootstrap discovers known ring members and, for backends that need
// it, advertises this node's own presence.
type Bootstrap interface {
	// Discover returns the addresses of known peers to attempt a join
	// against, in preference order.
	Discover(ctx context.Context) ([]string, error)
	// Register advertises node as a ring member. No-op for backends
	// that have no directory to publish to.
	Register(ctx context.Context, node *domain.Node) error
	// Deregister removes node from the directory, if any.
	Deregister(ctx context.Context, node *domain.Node) error
}
