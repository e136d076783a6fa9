package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	etcdraftpb "go.etcd.io/raft/v3/raftpb"
)

const (
	serviceName = "metasrv.raft.Transport"
	methodName  = "/" + serviceName + "/Step"
)

// StepTarget accepts one inbound raft wire message. raftengine.Engine
// satisfies this with its Push method.
type StepTarget interface {
	Push(m etcdraftpb.Message) error
}

// GRPCSink is the default OutboundSink: one short-lived connection per
// message, dialed with the raw codec in codec.go. Good enough for a
// control-plane's message volume; a connection-reuse pool is left to a
// deployment that needs it (Design Notes, open question).
type GRPCSink struct {
	DialTimeout time.Duration
}

func (s GRPCSink) dialTimeout() time.Duration {
	if s.DialTimeout > 0 {
		return s.DialTimeout
	}
	return 2 * time.Second
}

// Send implements raftengine.OutboundSink.
func (s GRPCSink) Send(ctx context.Context, to uint64, addr string, msg etcdraftpb.Message) error {
	buf, err := msg.Marshal()
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout())
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rawCodecName)),
	)
	if err != nil {
		return errors.Wrapf(err, "transport: dial %x at %s", to, addr)
	}
	defer conn.Close()

	var reply []byte
	if err := conn.Invoke(ctx, methodName, &buf, &reply); err != nil {
		return errors.Wrapf(err, "transport: step %x at %s", to, addr)
	}
	return nil
}

// RegisterServer wires an inbound Step RPC into srv, forwarding decoded
// messages to target.Push — the receiving side of what GRPCSink.Send dials.
func RegisterServer(srv *grpc.Server, target StepTarget) {
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*StepTarget)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Step",
				Handler:    stepHandler,
			},
		},
		Metadata: "transport.proto",
	}, target)
}

func stepHandler(srvIface interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var buf []byte
	if err := dec(&buf); err != nil {
		return nil, err
	}

	var msg etcdraftpb.Message
	if err := msg.Unmarshal(buf); err != nil {
		return nil, err
	}

	target := srvIface.(StepTarget)
	if err := target.Push(msg); err != nil {
		return nil, err
	}

	reply := []byte{}
	return &reply, nil
}
