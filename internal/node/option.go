package node

import "chordring/internal/logger"

type Option func(*Node)

// WithLogger imposta il lgr usato dal nodo.
func WithLogger(l logger.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.lgr = l
		}
	}
}
