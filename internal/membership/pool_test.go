package membership_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/raftlog"
)

type stubConfig struct{}

func (stubConfig) DrainTimeout() time.Duration { return time.Second }
func (stubConfig) Reporter() membership.Reporter { return nil }
func (stubConfig) Logger() raftlog.Logger        { return raftlog.Discard() }

func TestPoolAddGetRemove(t *testing.T) {
	p := membership.New(stubConfig{}, 1)
	ctx := context.Background()

	m := clusterpb.Member{ID: 1, Address: "10.0.0.1:8080", Type: clusterpb.VoterMember}
	require.NoError(t, p.Add(ctx, m))

	got, ok := p.Get(ctx, 1)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1:8080", got.Address())
	require.True(t, got.IsActive())

	require.NoError(t, p.Remove(ctx, m))
	_, ok = p.Get(ctx, 1)
	require.False(t, ok)
}

func TestPoolAddDuplicateFails(t *testing.T) {
	p := membership.New(stubConfig{}, 1)
	ctx := context.Background()
	m := clusterpb.Member{ID: 1, Address: "a", Type: clusterpb.VoterMember}
	require.NoError(t, p.Add(ctx, m))
	require.Error(t, p.Add(ctx, m))
}

func TestPoolSnapshotAndRestore(t *testing.T) {
	p := membership.New(stubConfig{}, 1)
	ctx := context.Background()
	require.NoError(t, p.Add(ctx, clusterpb.Member{ID: 1, Address: "a", Type: clusterpb.VoterMember}))
	require.NoError(t, p.Add(ctx, clusterpb.Member{ID: 2, Address: "b", Type: clusterpb.VoterMember}))

	snap := p.Snapshot(ctx)
	require.Len(t, snap, 2)

	p.Restore(ctx, []clusterpb.Member{{ID: 3, Address: "c", Type: clusterpb.VoterMember}})
	require.Len(t, p.Members(), 1)
	_, ok := p.Get(ctx, 3)
	require.True(t, ok)
}

func TestPoolReportUnreachableMarksInactive(t *testing.T) {
	p := membership.New(stubConfig{}, 1)
	ctx := context.Background()
	require.NoError(t, p.Add(ctx, clusterpb.Member{ID: 1, Address: "a", Type: clusterpb.VoterMember}))

	reporter := p.(membership.Reporter)
	reporter.ReportUnreachable(1)

	m, ok := p.Get(ctx, 1)
	require.True(t, ok)
	require.False(t, m.IsActive())
}

func TestPoolNextIDMonotonic(t *testing.T) {
	p := membership.New(stubConfig{}, 7)
	ctx := context.Background()
	a := p.NextID(ctx)
	b := p.NextID(ctx)
	require.Greater(t, b, a)
}
