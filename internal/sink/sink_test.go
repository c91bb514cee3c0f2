package sink

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"google.golang.org/grpc"
)

func TestWriterSinkFramesRow(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	row := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 'y', 'e', 's'}
	if err := s.Write(context.Background(), row); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 4+len(row) {
		t.Fatalf("len(got) = %d, want %d", len(got), 4+len(row))
	}
	if binary.BigEndian.Uint32(got[0:4]) != uint32(len(row)) {
		t.Fatalf("length prefix = %d, want %d", binary.BigEndian.Uint32(got[0:4]), len(row))
	}
	if !bytes.Equal(got[4:], row) {
		t.Fatalf("payload = % x, want % x", got[4:], row)
	}
}

func TestWriterSinkMultipleRowsAppend(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	if err := s.Write(context.Background(), []byte{1, 2}); err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	if err := s.Write(context.Background(), []byte{3, 4, 5}); err != nil {
		t.Fatalf("Write 2: %v", err)
	}

	want := []byte{0, 0, 0, 2, 1, 2, 0, 0, 0, 3, 3, 4, 5}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("buf = % x, want % x", buf.Bytes(), want)
	}
}

func TestRawCodecRoundTrip(t *testing.T) {
	c := rawCodec{}
	if c.Name() != "raw" {
		t.Fatalf("Name() = %q, want %q", c.Name(), "raw")
	}

	in := &RawMessage{Data: []byte("hello row")}
	wire, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	out := &RawMessage{}
	if err := c.Unmarshal(wire, out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(out.Data, in.Data) {
		t.Fatalf("round trip = %q, want %q", out.Data, in.Data)
	}
}

func TestRawCodecRejectsWrongType(t *testing.T) {
	c := rawCodec{}
	if _, err := c.Marshal("not a RawMessage"); err == nil {
		t.Fatal("Marshal with wrong type: expected error")
	}
	if err := c.Unmarshal([]byte("x"), new(string)); err == nil {
		t.Fatal("Unmarshal into wrong type: expected error")
	}
}

type fakeIngestorServer struct {
	received *RawMessage
	ack      *RawMessage
	err      error
}

func (f *fakeIngestorServer) Ingest(_ context.Context, in *RawMessage) (*RawMessage, error) {
	f.received = in
	if f.err != nil {
		return nil, f.err
	}
	return f.ack, nil
}

func TestIngestHandlerDispatchesWithoutInterceptor(t *testing.T) {
	srv := &fakeIngestorServer{ack: &RawMessage{Data: []byte("ok")}}
	row := []byte{0x00, 0x01}

	dec := func(v interface{}) error {
		v.(*RawMessage).Data = row
		return nil
	}

	out, err := ingestIngestHandler(srv, context.Background(), dec, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if srv.received == nil || !bytes.Equal(srv.received.Data, row) {
		t.Fatalf("server received %v, want %v", srv.received, row)
	}
	ack, ok := out.(*RawMessage)
	if !ok || !bytes.Equal(ack.Data, []byte("ok")) {
		t.Fatalf("handler output = %v, want ack with data %q", out, "ok")
	}
}

func TestIngestHandlerRunsInterceptor(t *testing.T) {
	srv := &fakeIngestorServer{ack: &RawMessage{Data: []byte("ok")}}
	dec := func(v interface{}) error { return nil }

	var sawFullMethod string
	interceptor := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		sawFullMethod = info.FullMethod
		return handler(ctx, req)
	}

	_, err := ingestIngestHandler(srv, context.Background(), dec, interceptor)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if sawFullMethod != "/projector.Ingestor/Ingest" {
		t.Fatalf("FullMethod = %q, want /projector.Ingestor/Ingest", sawFullMethod)
	}
}
