package sink

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Sink delivers one serialized binary row (internal/row's Builder.Bytes
// output) downstream.
type Sink interface {
	Write(ctx context.Context, row []byte) error
}

// WriterSink frames each row as a uint32 big-endian length followed by the
// row bytes, matching the projector's own row wire format convention, and
// writes to an underlying io.Writer (a file or stdout).
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write frames and writes row. Safe for concurrent use.
func (s *WriterSink) Write(_ context.Context, row []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(row)))
	if _, err := s.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("sink: write length prefix: %w", err)
	}
	if _, err := s.w.Write(row); err != nil {
		return fmt.Errorf("sink: write row: %w", err)
	}
	return nil
}

// GRPCSink delivers rows to a remote Ingestor service over an established
// gRPC connection.
type GRPCSink struct {
	client IngestorClient
}

// NewGRPCSink wraps an IngestorClient.
func NewGRPCSink(client IngestorClient) *GRPCSink {
	return &GRPCSink{client: client}
}

// Write sends row as one Ingest RPC.
func (s *GRPCSink) Write(ctx context.Context, row []byte) error {
	_, err := s.client.Ingest(ctx, &RawMessage{Data: row})
	if err != nil {
		return fmt.Errorf("sink: ingest rpc: %w", err)
	}
	return nil
}
