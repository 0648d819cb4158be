// Package storage holds the key-value data a Chord node is responsible
// for: the local half of "keys" node state.
package storage

import "chordring/internal/domain"

// Storage is the local key-value store backing add_key/get_key_data.
// Keys are plain strings (populate/query's raw key), not identifiers;
// identifiers are only used to decide range membership during
// migrate_data.
type Storage interface {
	// Put inserts or overwrites the value for key, recording its
	// ring identifier for future range queries.
	Put(res domain.Resource)

	// Get returns the value stored under key, or
	// domain.ErrResourceNotFound if absent.
	Get(key string) (domain.Resource, error)

	// Delete removes key. It is a no-op (not an error) if key is
	// already absent, matching migrate_data's "take what you can"
	// semantics.
	Delete(key string)

	// Between returns every resource whose identifier lies in the
	// half-open modular interval (from, to]. migrate_data does not use
	// it; it partitions All() instead.
	Between(from, to domain.ID) []domain.Resource

	// All returns every locally stored resource, used by migrate_data
	// to partition the current key set against the new predecessor.
	All() []domain.Resource

	// Len reports the number of stored keys.
	Len() int
}
