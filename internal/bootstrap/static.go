package bootstrap

import (
	"context"

	"chordring/internal/domain"
)

// StaticBootstrap returns a fixed, operator-supplied list of peers
// (bootstrap.peers in the configuration). cmd/node joins through the
// first peer only; the others are not tried if that join fails.
type StaticBootstrap struct {
	peers []string
}

// NewStaticBootstrap wraps a fixed peer list. An empty list means
// "form a new ring".
func NewStaticBootstrap(peers []string) *StaticBootstrap {
	return &StaticBootstrap{peers: peers}
}

func (s *StaticBootstrap) Discover(ctx context.Context) ([]string, error) {
	return s.peers, nil
}

func (s *StaticBootstrap) Register(ctx context.Context, node *domain.Node) error {
	return nil
}

func (s *StaticBootstrap) Deregister(ctx context.Context, node *domain.Node) error {
	return nil
}
