// Package raftengine owns the single-threaded driver loop that turns a
// consensus node's readiness notifications into durable writes and applied
// state, and the reverse: client calls into committed log entries.
//
// The teacher's own top-level Config/StateMachine/Operator surface (raft.go,
// config.go, option.go in the original project) was not among the retrieved
// files — only internal/raftengine/engine.go survived. The interfaces below
// are rebuilt from engine.go's call sites (cfg.TickInterval(), cfg.Pool(),
// cfg.StateMachine(), ...) in the same small accessor-method shape used by
// internal/membership.Config.
package raftengine

import (
	"context"
	"errors"
	"io"
	"time"

	"go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/bootstrap"
	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/storage"
	"github.com/metasrv/raft/raftlog"
)

var (
	// ErrStopped is returned by the Engine methods after a call to
	// Shutdown or when it has not started.
	ErrStopped = errors.New("raft: node not ready yet or has been stopped")
	// ErrNoLeader is returned by the Engine methods when leader lost, or
	// no elected cluster leader.
	ErrNoLeader = errors.New("raft: no elected cluster leader")
	// ErrAlreadySnapshotting is returned when a snapshot is already in
	// progress and another one is requested.
	ErrAlreadySnapshotting = errors.New("raft: already snapshotting")
	// ErrFailedPrecondition signals that there is nothing new to snapshot;
	// the automatic snapshot trigger treats it as a skip. CreateSnapshot
	// does not return it: with nothing new it returns the existing
	// snapshot.
	ErrFailedPrecondition = errors.New("raft: precondition failed")
)

// StateMachine is the opaque application the driver replicates commands to
// and checkpoints via periodic snapshots.
type StateMachine interface {
	Apply(data []byte) error
	Snapshot() (io.ReadCloser, error)
	Restore(io.ReadCloser) error
}

// OutboundSink delivers one raft wire message to a remote member. It stands
// in for the teacher's membership.Member.Send, which this rebuild drops
// from the Member interface: how a message reaches a peer is transport
// policy, not membership bookkeeping (see internal/membership doc comment).
type OutboundSink interface {
	Send(ctx context.Context, to uint64, addr string, msg etcdraftpb.Message) error
}

// Config is the configuration an Engine is built from.
type Config interface {
	LocalID() uint64
	LocalAddress() string
	TickInterval() time.Duration
	SnapInterval() uint64
	DrainTimeout() time.Duration
	StateMachine() StateMachine
	Storage() storage.Storage
	Pool() membership.Pool
	Sink() OutboundSink
	Logger() raftlog.Logger
	StateChangeCh() chan raft.StateType
	Bootstrap() bootstrap.Config
}

// Engine represents the underlying raft node processor.
type Engine interface {
	LinearizableRead(ctx context.Context) error
	Push(m etcdraftpb.Message) error
	TransferLeadership(context.Context, uint64) error
	Status() (raft.Status, error)
	Shutdown(context.Context) error
	ProposeReplicate(ctx context.Context, data []byte) error
	ProposeConfChange(ctx context.Context, m *clusterpb.Member, t etcdraftpb.ConfChangeType) error
	ForgetLeader(ctx context.Context) error
	CreateSnapshot() (etcdraftpb.Snapshot, error)
	Start(ctx context.Context) error
	ReportUnreachable(id uint64)
	ReportSnapshot(id uint64, status raft.SnapshotStatus)
	ReportShutdown(id uint64)
}
