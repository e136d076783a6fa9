// Package membership tracks the cluster's member records: who belongs,
// their address and type (voter/staging/learner), and whether the driver
// still considers them reachable. It holds no transport of its own —
// delivering a message to a member is the driver's OutboundSink contract
// (internal/raftengine), not membership's job — matching spec.md's
// component F split between "who is in the cluster" and "how a message
// reaches them."
package membership

import (
	"context"
	"time"

	"go.etcd.io/raft/v3"

	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/raftlog"
)

// Member represents one cluster participant as membership tracks it.
type Member interface {
	ID() uint64
	Address() string
	Type() clusterpb.MemberType
	ActiveSince() time.Time
	IsActive() bool
	Update(m clusterpb.Member) error
	Raw() clusterpb.Member
	Close() error
}

// Reporter is notified of member liveness events observed while the
// driver tries to replicate to them, so membership can mark a member
// inactive without owning the transport that detected the failure.
type Reporter interface {
	ReportUnreachable(id uint64)
	ReportShutdown(id uint64)
	ReportSnapshot(id uint64, status raft.SnapshotStatus)
}

// Config is the configuration a Pool is built from.
type Config interface {
	DrainTimeout() time.Duration
	Reporter() Reporter
	Logger() raftlog.Logger
}

// Pool is the set of members the local node currently knows about.
type Pool interface {
	NextID(ctx context.Context) uint64
	Members() []Member
	Get(ctx context.Context, id uint64) (Member, bool)
	Add(ctx context.Context, m clusterpb.Member) error
	Update(ctx context.Context, m clusterpb.Member) error
	Remove(ctx context.Context, m clusterpb.Member) error
	Snapshot(ctx context.Context) []clusterpb.Member
	Restore(ctx context.Context, members []clusterpb.Member)
	RegisterTypeMatcher(func(clusterpb.Member) clusterpb.MemberType)
	TearDown(ctx context.Context) error
}
