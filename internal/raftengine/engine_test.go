package raftengine_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/raftengine"
	"github.com/metasrv/raft/internal/storage/kv"
	"github.com/metasrv/raft/internal/storage/logstore"
	"github.com/metasrv/raft/internal/storage/snapshotter"
)

// recordingFSM collects every applied payload in order. Snapshot/Restore
// round-trip the same bytes so CreateSnapshot has something real to read.
type recordingFSM struct {
	mu      sync.Mutex
	applied [][]byte
}

func (f *recordingFSM) Apply(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), data...)
	f.applied = append(f.applied, cp)
	return nil
}

func (f *recordingFSM) Snapshot() (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var buf bytes.Buffer
	for _, d := range f.applied {
		buf.Write(d)
		buf.WriteByte('\n')
	}
	return io.NopCloser(&buf), nil
}

func (f *recordingFSM) Restore(r io.ReadCloser) error {
	defer r.Close()
	_, err := io.Copy(io.Discard, r)
	return err
}

func (f *recordingFSM) Applied() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.applied))
	copy(out, f.applied)
	return out
}

// nopSink is an OutboundSink for single-node tests, which never send any
// message anywhere since there is no second member to address.
type nopSink struct{}

func (nopSink) Send(context.Context, uint64, string, etcdraftpb.Message) error { return nil }

func newTestEngine(t *testing.T) (raftengine.Engine, *recordingFSM) {
	t.Helper()
	store, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	snaps, err := snapshotter.Open(t.TempDir())
	require.NoError(t, err)

	ls := logstore.New(store, snaps)

	reporter := raftengine.NewReporterProxy()
	pool := membership.New(membership.NewConfig(reporter), 1)

	fsm := &recordingFSM{}
	cfg := raftengine.NewConfig(1, "127.0.0.1:0", fsm, ls, pool, nopSink{},
		raftengine.WithTickInterval(10*time.Millisecond),
		raftengine.WithElectionTimeout(time.Second),
	)
	eng := raftengine.New(cfg)
	reporter.Bind(eng)
	return eng, fsm
}

func startEngine(t *testing.T, eng raftengine.Engine) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- eng.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errc:
		case <-time.After(5 * time.Second):
			t.Fatal("engine did not stop after cancel")
		}
	})

	require.Eventually(t, func() bool {
		_, err := eng.Status()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "engine never became ready")

	return ctx, cancel
}

func TestSingleNodeBecomesLeaderAndApplies(t *testing.T) {
	eng, fsm := newTestEngine(t)
	ctx, _ := startEngine(t, eng)

	require.Eventually(t, func() bool {
		status, err := eng.Status()
		return err == nil && status.Lead == status.ID
	}, 2*time.Second, 10*time.Millisecond, "single node never elected itself leader")

	require.NoError(t, eng.ProposeReplicate(ctx, []byte("hello")))
	require.NoError(t, eng.ProposeReplicate(ctx, []byte("world")))

	applied := fsm.Applied()
	require.Len(t, applied, 2)
	require.Equal(t, []byte("hello"), applied[0])
	require.Equal(t, []byte("world"), applied[1])
}

func TestLinearizableReadSucceedsOnLeader(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx, _ := startEngine(t, eng)

	require.Eventually(t, func() bool {
		status, err := eng.Status()
		return err == nil && status.Lead == status.ID
	}, 2*time.Second, 10*time.Millisecond, "single node never elected itself leader")

	require.NoError(t, eng.LinearizableRead(ctx))
}

func TestProposeReplicateBeforeStartFails(t *testing.T) {
	eng, _ := newTestEngine(t)
	err := eng.ProposeReplicate(context.Background(), []byte("too early"))
	require.ErrorIs(t, err, raftengine.ErrStopped)
}

func TestCreateSnapshotAfterApply(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx, _ := startEngine(t, eng)

	require.Eventually(t, func() bool {
		status, err := eng.Status()
		return err == nil && status.Lead == status.ID
	}, 2*time.Second, 10*time.Millisecond, "single node never elected itself leader")

	require.NoError(t, eng.ProposeReplicate(ctx, []byte("checkpoint me")))

	snap, err := eng.CreateSnapshot()
	require.NoError(t, err)
	require.False(t, snap.Metadata.Index == 0)
}

func TestShutdownStopsTheDriverLoop(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	errc := make(chan error, 1)
	go func() { errc <- eng.Start(ctx) }()

	require.Eventually(t, func() bool {
		_, err := eng.Status()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "engine never became ready")

	require.NoError(t, eng.Shutdown(context.Background()))

	select {
	case <-errc:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	err := eng.ProposeReplicate(context.Background(), []byte("after shutdown"))
	require.ErrorIs(t, err, raftengine.ErrStopped)
}
