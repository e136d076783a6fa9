// Package raft is the public entry point for running one member of a
// replicated metadata control plane: construct a Node, Start it, and
// propose writes through it once it has a leader.
package raft

import (
	"context"

	etcdraft "go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/bootstrap"
	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/raftengine"
	"github.com/metasrv/raft/internal/storage"
)

// StateMachine is the application Node replicates commands to and
// checkpoints via periodic snapshots.
type StateMachine = raftengine.StateMachine

// OutboundSink delivers one raft wire message to a remote member; see
// package transport for the default gRPC implementation.
type OutboundSink = raftengine.OutboundSink

// Option configures a Node built by NewNode.
type Option = raftengine.Option

// Peer names a bootstrap candidate (internal/bootstrap.Peer).
type Peer = bootstrap.Peer

// Member is a cluster participant's address and role.
type Member = clusterpb.Member

var (
	// WithTickInterval overrides the default 100ms driver tick period.
	WithTickInterval = raftengine.WithTickInterval
	// WithSnapInterval sets how many applied entries accumulate between
	// automatic snapshots.
	WithSnapInterval = raftengine.WithSnapInterval
	// WithDrainTimeout bounds how long Shutdown waits for in-flight work.
	WithDrainTimeout = raftengine.WithDrainTimeout
	// WithLogger overrides the default discard logger.
	WithLogger = raftengine.WithLogger
	// WithStateChangeCh lets the caller observe raft.StateType transitions.
	WithStateChangeCh = raftengine.WithStateChangeCh
	// WithPeers supplies the bootstrap candidate list polled at startup.
	WithPeers = raftengine.WithPeers
	// WithDiscoverer overrides the default gRPC bootstrap discoverer.
	WithDiscoverer = raftengine.WithDiscoverer
	// WithElectionTimeout bounds the bootstrap peer poll.
	WithElectionTimeout = raftengine.WithElectionTimeout
)

// Node is one running cluster member.
type Node struct {
	eng raftengine.Engine
}

// ReporterProxy is a membership.Reporter that can be built and handed to a
// Pool's Config before the Node that will answer its reports exists yet
// (the Pool itself is a required NewNode argument, so something has to
// break the cycle). Build one with NewReporterProxy, pass it to the Pool's
// Config, then pass the same proxy to NewNode.
type ReporterProxy = raftengine.ReporterProxy

// NewReporterProxy returns an unbound ReporterProxy.
func NewReporterProxy() *ReporterProxy { return raftengine.NewReporterProxy() }

// NewNode constructs a Node identified by id at addr. fsm receives applied
// commands, store and pool hold its durable log and membership state, and
// sink delivers outbound raft traffic (transport.GRPCSink by default).
// reporter is the ReporterProxy earlier handed to pool's Config; NewNode
// binds it to the running Engine so the Pool's failure reports reach it.
func NewNode(
	id uint64,
	addr string,
	fsm StateMachine,
	store storage.Storage,
	pool membership.Pool,
	sink OutboundSink,
	reporter *ReporterProxy,
	opts ...Option,
) *Node {
	cfg := raftengine.NewConfig(id, addr, fsm, store, pool, sink, opts...)
	eng := raftengine.New(cfg)
	if reporter != nil {
		reporter.Bind(eng)
	}
	return &Node{eng: eng}
}

// Start runs the node's driver loop until ctx is cancelled or Shutdown is
// called. It blocks; run it in its own goroutine.
func (n *Node) Start(ctx context.Context) error { return n.eng.Start(ctx) }

// Push feeds one inbound raft wire message to the node. It is the
// receiving side of an OutboundSink.Send on the sender's node.
func (n *Node) Push(m etcdraftpb.Message) error { return n.eng.Push(m) }

// ProposeReplicate replicates data and blocks until it is applied.
func (n *Node) ProposeReplicate(ctx context.Context, data []byte) error {
	return n.eng.ProposeReplicate(ctx, data)
}

// AddVoter proposes adding m as a full voting member.
func (n *Node) AddVoter(ctx context.Context, m Member) error {
	return n.eng.ProposeConfChange(ctx, &m, etcdraftpb.ConfChangeAddNode)
}

// AddLearner proposes adding m as a non-voting learner.
func (n *Node) AddLearner(ctx context.Context, m Member) error {
	return n.eng.ProposeConfChange(ctx, &m, etcdraftpb.ConfChangeAddLearnerNode)
}

// RemoveMember proposes removing m from the cluster.
func (n *Node) RemoveMember(ctx context.Context, m Member) error {
	return n.eng.ProposeConfChange(ctx, &m, etcdraftpb.ConfChangeRemoveNode)
}

// LinearizableRead blocks until this node's applied state is at least as
// fresh as the leader's at the time of the call.
func (n *Node) LinearizableRead(ctx context.Context) error { return n.eng.LinearizableRead(ctx) }

// TransferLeadership attempts to hand leadership to member to.
func (n *Node) TransferLeadership(ctx context.Context, to uint64) error {
	return n.eng.TransferLeadership(ctx, to)
}

// CreateSnapshot checkpoints now, unless already up to date.
func (n *Node) CreateSnapshot() (etcdraftpb.Snapshot, error) { return n.eng.CreateSnapshot() }

// ForgetLeader clears this node's notion of the current leader, forcing a
// fresh election on the next heartbeat timeout.
func (n *Node) ForgetLeader(ctx context.Context) error { return n.eng.ForgetLeader(ctx) }

// ReportUnreachable tells the driver a send to id has failed, so it can
// back off replication attempts to that member.
func (n *Node) ReportUnreachable(id uint64) { n.eng.ReportUnreachable(id) }

// ReportSnapshot tells the driver whether a previously sent snapshot to id
// was applied.
func (n *Node) ReportSnapshot(id uint64, status etcdraft.SnapshotStatus) {
	n.eng.ReportSnapshot(id, status)
}

// Status reports the underlying consensus node's current role and progress.
func (n *Node) Status() (etcdraft.Status, error) { return n.eng.Status() }

// Shutdown drains in-flight work and stops the driver loop.
func (n *Node) Shutdown(ctx context.Context) error { return n.eng.Shutdown(ctx) }
