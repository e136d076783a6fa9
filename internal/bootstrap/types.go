// Package bootstrap decides who leads a cluster the moment a node starts,
// before the consensus library has produced a single Ready. spec.md §4.E:
// a lone node in its own member list is trivially the leader; otherwise the
// node polls its peers with a bounded timeout and only declares itself
// leader unilaterally if that poll comes back empty-handed.
package bootstrap

import (
	"context"
	"time"

	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/raftlog"
)

// Peer is one other member to poll during election.
type Peer struct {
	ID      uint64
	Address string
}

// Response is what a polled peer reports about cluster leadership. Known
// is false for the RPC's "NotLeader" indication (spec.md §4.F) — the peer
// is up but does not itself know of an elected leader yet.
type Response struct {
	Known      bool
	LeaderID   uint64
	LeaderAddr string
}

// Discoverer queries one peer's view of cluster leadership. GRPCDiscoverer
// in grpc.go is the default transport; it exists as an interface so tests
// and alternate deployments can swap it out.
type Discoverer interface {
	GetLeader(ctx context.Context, peer Peer) (Response, error)
}

// LeaderQuery is implemented by the consensus driver so RegisterServer can
// answer this node's own view of leadership for the GetLeader RPC.
type LeaderQuery interface {
	CurrentLeader() (id uint64, addr string, known bool)
}

// Config parameterizes one election attempt.
type Config struct {
	LocalID    uint64
	LocalAddr  string
	Peers      []Peer
	Timeout    time.Duration
	Discoverer Discoverer
	Logger     raftlog.Logger
}

// Result is the outcome of Elect.
type Result struct {
	// LeaderID and LeaderAddr are zero when no leader is known yet and the
	// node should simply start as a follower and let the consensus term
	// mechanism settle leadership.
	LeaderID   uint64
	LeaderAddr string
	// IsSelf is true when the local node should come up as leader: either
	// it is the sole configured member, a peer named it leader, or the
	// peer poll failed to reach quorum within the bounded timeout.
	IsSelf bool
}

// InitialSnapshot builds the synthetic snapshot a node applies when it
// elects itself leader of a brand-new cluster: index and term 1, with
// itself as the only voter. Callers must only apply this when storage
// reports no prior state (Storage.Exist() == false) — a node that is
// still leader after a restart must not re-seed its own log.
func InitialSnapshot(localID uint64) etcdraftpb.Snapshot {
	return etcdraftpb.Snapshot{
		Metadata: etcdraftpb.SnapshotMetadata{
			Index: 1,
			Term:  1,
			ConfState: etcdraftpb.ConfState{
				Voters: []uint64{localID},
			},
		},
	}
}
