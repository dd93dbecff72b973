package pb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec, registered under the "proto" name
// so it becomes grpc's default wire codec for this process. The hand
// generated message types in this package carry protobuf struct tags for
// documentation parity with race.proto, but without a protoc run there is
// no compiled file descriptor to marshal them through the real binary
// protobuf wire format safely; JSON gives the same gRPC transport and
// streaming semantics with a marshaler that needs no generated descriptor.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "proto"
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
