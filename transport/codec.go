// Package transport is the default gRPC implementation of
// raftengine.OutboundSink: it carries the consensus library's own wire
// messages between members, the same hand-registered-service technique
// internal/bootstrap uses for its leader-discovery RPC, this time for the
// driver's steady-state traffic instead of the one-shot startup poll.
package transport

import (
	"github.com/pkg/errors"
	"google.golang.org/grpc/encoding"
)

// rawCodecName is registered as a grpc call content-subtype so raft
// messages can cross the wire as the bytes etcdraftpb.Message.Marshal
// already produces, without a second protobuf encoding pass and without a
// .proto/protoc toolchain (not available in this environment).
const rawCodecName = "raftmsg"

type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	b, ok := v.(*[]byte)
	if !ok {
		return nil, errors.Errorf("transport: marshal: unsupported type %T", v)
	}
	return *b, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	b, ok := v.(*[]byte)
	if !ok {
		return errors.Errorf("transport: unmarshal: unsupported type %T", v)
	}
	*b = append((*b)[:0], data...)
	return nil
}

func (rawCodec) Name() string { return rawCodecName }

func init() {
	encoding.RegisterCodec(rawCodec{})
}
