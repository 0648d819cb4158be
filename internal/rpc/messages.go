// Package rpc defines the wire messages and gRPC service description
// for the Chord node-to-node protocol in this design §6.
//
// The retrieval pack this module was built from does not carry any
// .proto sources or protoc-generated code for this service, so rather
// than fabricate a generated client/server pair, this package talks to
// gRPC's lower-level API directly: plain Go structs for messages, a
// custom codec (see codec.go) that transports them with encoding/gob
// instead of protobuf wire format, and a hand-written
// grpc.ServiceDesc (see service.go) instead of a *_grpc.pb.go file.
// This keeps google.golang.org/grpc as the real transport while
// sidestepping protoc, which explicitly allows: the
// serialization codec is named an external collaborator, "opaque to
// the protocol but must be symmetric on both sides."
package rpc

import "google.golang.org/protobuf/types/known/emptypb"

// Empty is the argument/result for RPCs that carry no payload
// (Successor, GetPredecessor, MigrateData), per table.
type Empty = emptypb.Empty

// NodeMsg identifies a ring participant on the wire.
type NodeMsg struct {
	ID   []byte
	Addr string
}

// IDMsg carries a bare ring identifier, used by FindSuccessor,
// FindPredecessor and ClosestPrecedingFinger.
type IDMsg struct {
	ID []byte
}

// UpdateFingerTableRequest is update_finger_table(s, k)'s argument
// pair from this design §4.D.
type UpdateFingerTableRequest struct {
	S *NodeMsg
	K int32
}

// KeyValueMsg is used by add_key/populate: a raw (un-hashed) key and
// its associated value.
type KeyValueMsg struct {
	Key   string
	Value string
}

// KeyMsg is used by get_key_data/query: a raw key with no value.
type KeyMsg struct {
	Key string
}

// AckMsg is the "Added" acknowledgement add_key/populate
// return on success.
type AckMsg struct {
	Status string
}

// KeyDataMsg is get_key_data/query's reply: the responding node's own
// identifier plus either the stored value or "Not found", exactly as
// original_source/chord_node.py's get_key_data returns
// (self.node_id, value) or (self.node_id, "Not found").
type KeyDataMsg struct {
	NodeID []byte
	Value  string
	Found  bool
}
