package routingtable

import "chordring/internal/logger"

// Option is a functional option for configuring a RoutingTable.
type Option func(*RoutingTable)

// WithLogger injects a custom logger into the routing table.
func WithLogger(l logger.Logger) Option {
	return func(rt *RoutingTable) {
		rt.logger = l
	}
}
