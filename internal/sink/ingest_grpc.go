// This file plays the role a protoc-gen-go-grpc output would: a unary
// Ingest RPC for the Ingestor service, hand-authored against grpc-go's
// public ServiceDesc/MethodDesc machinery because no .proto compiler runs
// in this build, per spec.md §11.4.
package sink

import (
	"context"

	"google.golang.org/grpc"
)

// IngestorClient is the client API for the Ingestor service.
type IngestorClient interface {
	// Ingest delivers one binary row and receives an acknowledgement,
	// itself an opaque RawMessage (empty on success).
	Ingest(ctx context.Context, in *RawMessage, opts ...grpc.CallOption) (*RawMessage, error)
}

type ingestorClient struct {
	cc grpc.ClientConnInterface
}

// NewIngestorClient builds an IngestorClient over an established connection.
func NewIngestorClient(cc grpc.ClientConnInterface) IngestorClient {
	return &ingestorClient{cc: cc}
}

func (c *ingestorClient) Ingest(ctx context.Context, in *RawMessage, opts ...grpc.CallOption) (*RawMessage, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(rawCodecName)}, opts...)
	out := new(RawMessage)
	if err := c.cc.Invoke(ctx, "/projector.Ingestor/Ingest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// IngestorServer is the server API for the Ingestor service.
type IngestorServer interface {
	Ingest(context.Context, *RawMessage) (*RawMessage, error)
}

// RegisterIngestorServer registers srv with s under the Ingestor service
// descriptor.
func RegisterIngestorServer(s grpc.ServiceRegistrar, srv IngestorServer) {
	s.RegisterService(&ingestorServiceDesc, srv)
}

func ingestIngestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IngestorServer).Ingest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/projector.Ingestor/Ingest",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IngestorServer).Ingest(ctx, req.(*RawMessage))
	}
	return interceptor(ctx, in, info, handler)
}

var ingestorServiceDesc = grpc.ServiceDesc{
	ServiceName: "projector.Ingestor",
	HandlerType: (*IngestorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ingest",
			Handler:    ingestIngestHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "projector/ingest.proto",
}
