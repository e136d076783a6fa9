package raft_test

import (
	"context"
	"io"
	"net"

	"google.golang.org/grpc"

	"github.com/metasrv/raft"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/storage/kv"
	"github.com/metasrv/raft/internal/storage/logstore"
	"github.com/metasrv/raft/internal/storage/snapshotter"
	"github.com/metasrv/raft/transport"
)

type stateMachine struct{}

func (stateMachine) Apply([]byte) error                    { return nil }
func (stateMachine) Snapshot() (r io.ReadCloser, err error) { return }
func (stateMachine) Restore(io.ReadCloser) (err error)      { return }

func Example_gRPC() {
	const addr = "127.0.0.1:8080"

	store, err := kv.Open("/var/lib/metasrv/data", 256)
	if err != nil {
		panic(err)
	}
	snaps, err := snapshotter.Open("/var/lib/metasrv/snapshots")
	if err != nil {
		panic(err)
	}
	ls := logstore.New(store, snaps)

	reporter := raft.NewReporterProxy()
	pool := membership.New(membership.NewConfig(reporter), 1)

	node := raft.NewNode(1, addr, stateMachine{}, ls, pool, transport.GRPCSink{}, reporter)

	srv := grpc.NewServer()
	transport.RegisterServer(srv, node)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		panic(err)
	}
	go srv.Serve(lis)

	if err := node.Start(context.Background()); err != nil {
		panic(err)
	}
}
