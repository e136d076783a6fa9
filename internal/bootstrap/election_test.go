package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metasrv/raft/internal/bootstrap"
)

type stubDiscoverer struct {
	responses map[uint64]bootstrap.Response
	errs      map[uint64]error
	delay     time.Duration
}

func (s stubDiscoverer) GetLeader(ctx context.Context, peer bootstrap.Peer) (bootstrap.Response, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return bootstrap.Response{}, ctx.Err()
		}
	}
	if err, ok := s.errs[peer.ID]; ok {
		return bootstrap.Response{}, err
	}
	return s.responses[peer.ID], nil
}

func TestElectSingleNodeIsSelf(t *testing.T) {
	res, err := bootstrap.Elect(context.Background(), bootstrap.Config{
		LocalID:   1,
		LocalAddr: "127.0.0.1:9000",
	})
	require.NoError(t, err)
	require.True(t, res.IsSelf)
	require.EqualValues(t, 1, res.LeaderID)
}

func TestElectFindsExistingLeader(t *testing.T) {
	d := stubDiscoverer{
		responses: map[uint64]bootstrap.Response{
			2: {Known: true, LeaderID: 2, LeaderAddr: "peer-2:9000"},
		},
	}
	res, err := bootstrap.Elect(context.Background(), bootstrap.Config{
		LocalID:    1,
		LocalAddr:  "local:9000",
		Peers:      []bootstrap.Peer{{ID: 2, Address: "peer-2:9000"}, {ID: 3, Address: "peer-3:9000"}},
		Discoverer: d,
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	require.False(t, res.IsSelf)
	require.EqualValues(t, 2, res.LeaderID)
	require.Equal(t, "peer-2:9000", res.LeaderAddr)
}

func TestElectBecomesProvisionalLeaderOnTotalFailure(t *testing.T) {
	d := stubDiscoverer{
		errs: map[uint64]error{
			2: assertErr,
			3: assertErr,
		},
	}
	res, err := bootstrap.Elect(context.Background(), bootstrap.Config{
		LocalID:    1,
		LocalAddr:  "local:9000",
		Peers:      []bootstrap.Peer{{ID: 2, Address: "peer-2:9000"}, {ID: 3, Address: "peer-3:9000"}},
		Discoverer: d,
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	require.True(t, res.IsSelf)
	require.EqualValues(t, 1, res.LeaderID)
}

func TestElectJoinsAsFollowerWhenQuorumKnowsNoLeader(t *testing.T) {
	d := stubDiscoverer{
		responses: map[uint64]bootstrap.Response{
			2: {Known: false},
			3: {Known: false},
		},
	}
	res, err := bootstrap.Elect(context.Background(), bootstrap.Config{
		LocalID:    1,
		LocalAddr:  "local:9000",
		Peers:      []bootstrap.Peer{{ID: 2, Address: "peer-2:9000"}, {ID: 3, Address: "peer-3:9000"}},
		Discoverer: d,
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	require.False(t, res.IsSelf)
	require.Zero(t, res.LeaderID)
}

func TestInitialSnapshotHasSingleVoter(t *testing.T) {
	snap := bootstrap.InitialSnapshot(7)
	require.EqualValues(t, 1, snap.Metadata.Index)
	require.EqualValues(t, 1, snap.Metadata.Term)
	require.Equal(t, []uint64{7}, snap.Metadata.ConfState.Voters)
}

var assertErr = errDial{}

type errDial struct{}

func (errDial) Error() string { return "dial failed" }
