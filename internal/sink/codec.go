// Package sink delivers binary rows (internal/row) to a downstream store.
// It provides a WriterSink for length-prefixed file/stdout framing and a
// gRPC Ingestor service wired without protoc: a raw-bytes encoding.Codec
// plus a hand-authored grpc.ServiceDesc, per spec.md §11.4.
package sink

import "fmt"

// rawCodecName is the gRPC content-subtype this codec registers under.
// gRPC requires content-subtype names to be lowercase.
const rawCodecName = "raw"

// RawMessage wraps one opaque binary row for transport through the raw
// codec: Marshal/Unmarshal pass Data through unchanged rather than invoking
// a protobuf marshaler, since no .proto file is compiled for this service.
type RawMessage struct {
	Data []byte
}

// rawCodec implements google.golang.org/grpc/encoding.Codec by treating the
// wire bytes as the message's payload verbatim.
type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(*RawMessage)
	if !ok {
		return nil, fmt.Errorf("sink: raw codec cannot marshal %T", v)
	}
	return msg.Data, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(*RawMessage)
	if !ok {
		return fmt.Errorf("sink: raw codec cannot unmarshal into %T", v)
	}
	msg.Data = append([]byte(nil), data...)
	return nil
}

func (rawCodec) Name() string { return rawCodecName }
