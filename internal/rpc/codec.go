package rpc

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the name the gob codec is registered under. NodeClient
// forces it on every call via grpc.ForceCodec, which also sends it as
// the call's content-subtype; the server picks the registered codec by
// that subtype, so the wire format is gob, not protobuf's default.
const codecName = "gob"

func init() {
	encoding.RegisterCodec(gobCodec{})
}

// gobCodec implements grpc/encoding.Codec (previously known as
// grpc.Codec) using encoding/gob, mirroring
// original_source/chord_node.py's use of pickle as a generic "encode
// whatever tuple I hand you" object serializer, per // "self-describing object pickler" note.
type gobCodec struct{}

func (gobCodec) Name() string { return codecName }

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob marshal: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("gob unmarshal: %w", err)
	}
	return nil
}
