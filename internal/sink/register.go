package sink

import "google.golang.org/grpc/encoding"

func init() {
	encoding.RegisterCodec(rawCodec{})
}
