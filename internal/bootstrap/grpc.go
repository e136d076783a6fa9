package bootstrap

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// serviceName/methodName stand in for the service a .proto file would
// normally describe. spec.md §4.F leaves the wire shape of the bootstrap
// RPC out of scope as long as it is stable across restarts; a hand
// registered grpc.ServiceDesc plus the json codec in codec.go gives it
// exactly that without generated stubs.
const (
	serviceName = "metasrv.bootstrap.Discovery"
	methodName  = "/" + serviceName + "/GetLeader"
)

type getLeaderRequest struct{}

type wireResponse struct {
	Known      bool   `json:"known"`
	LeaderID   uint64 `json:"leader_id"`
	LeaderAddr string `json:"leader_addr"`
}

// GRPCDiscoverer is the default Discoverer: one short-lived connection per
// poll, dialed with the json codec registered in codec.go.
type GRPCDiscoverer struct {
	DialTimeout time.Duration
}

func (d GRPCDiscoverer) dialTimeout() time.Duration {
	if d.DialTimeout > 0 {
		return d.DialTimeout
	}
	return 2 * time.Second
}

// GetLeader implements Discoverer.
func (d GRPCDiscoverer) GetLeader(ctx context.Context, peer Peer) (Response, error) {
	dialCtx, cancel := context.WithTimeout(ctx, d.dialTimeout())
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, peer.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	)
	if err != nil {
		return Response{}, errors.Wrapf(err, "bootstrap: dial %s", peer.Address)
	}
	defer conn.Close()

	var out wireResponse
	if err := conn.Invoke(ctx, methodName, &getLeaderRequest{}, &out); err != nil {
		return Response{}, errors.Wrapf(err, "bootstrap: GetLeader %s", peer.Address)
	}
	return Response{Known: out.Known, LeaderID: out.LeaderID, LeaderAddr: out.LeaderAddr}, nil
}

// RegisterServer wires a GetLeader handler answering q's view of
// leadership into srv, matching the method GRPCDiscoverer dials.
func RegisterServer(srv *grpc.Server, q LeaderQuery) {
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*LeaderQuery)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetLeader",
				Handler:    getLeaderHandler,
			},
		},
		Metadata: "bootstrap.proto",
	}, q)
}

func getLeaderHandler(srvIface interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var req getLeaderRequest
	if err := dec(&req); err != nil {
		return nil, err
	}
	q := srvIface.(LeaderQuery)
	id, addr, known := q.CurrentLeader()
	return &wireResponse{Known: known, LeaderID: id, LeaderAddr: addr}, nil
}
