package logstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/storage/kv"
	"github.com/metasrv/raft/internal/storage/logstore"
	"github.com/metasrv/raft/internal/storage/snapshotter"
)

func newLogStore(t *testing.T) *logstore.LogStore {
	t.Helper()
	store, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	snaps, err := snapshotter.Open(t.TempDir())
	require.NoError(t, err)

	ls := logstore.New(store, snaps)
	_, _, _, _, err = ls.Boot(nil)
	require.NoError(t, err)
	return ls
}

func TestBootOnFreshDirIsEmpty(t *testing.T) {
	ls := newLogStore(t)
	fi, err := ls.FirstIndex()
	require.NoError(t, err)
	require.EqualValues(t, 1, fi)

	li, err := ls.LastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 0, li)
}

func TestAppendIsContiguousAndReadable(t *testing.T) {
	ls := newLogStore(t)

	entries := []etcdraftpb.Entry{
		{Index: 1, Term: 1, Data: []byte("a")},
		{Index: 2, Term: 1, Data: []byte("b")},
		{Index: 3, Term: 1, Data: []byte("c")},
	}
	require.NoError(t, ls.Append(entries))

	li, err := ls.LastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 3, li)

	got, err := ls.Entries(1, 4, ^uint64(0))
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []byte("b"), got[1].Data)
}

func TestAppendTruncatesDivergentSuffix(t *testing.T) {
	ls := newLogStore(t)

	require.NoError(t, ls.Append([]etcdraftpb.Entry{
		{Index: 1, Term: 1},
		{Index: 2, Term: 1},
		{Index: 3, Term: 1},
	}))

	// A new leader at term 2 overwrites from index 2 onward.
	require.NoError(t, ls.Append([]etcdraftpb.Entry{
		{Index: 2, Term: 2},
	}))

	li, err := ls.LastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 2, li)

	term, err := ls.Term(2)
	require.NoError(t, err)
	require.EqualValues(t, 2, term)

	_, err = ls.Entries(3, 4, ^uint64(0))
	require.ErrorIs(t, err, raft.ErrUnavailable)
}

func TestEntriesBelowFirstIndexAreCompacted(t *testing.T) {
	ls := newLogStore(t)
	require.NoError(t, ls.Append([]etcdraftpb.Entry{
		{Index: 1, Term: 1}, {Index: 2, Term: 1}, {Index: 3, Term: 1},
	}))
	require.NoError(t, ls.Compact(3))

	_, err := ls.Entries(1, 4, ^uint64(0))
	require.ErrorIs(t, err, raft.ErrCompacted)

	fi, err := ls.FirstIndex()
	require.NoError(t, err)
	require.EqualValues(t, 3, fi)
}

func TestCommitIndexOfUntrackedIndexIsNotFatal(t *testing.T) {
	ls := newLogStore(t)
	require.NoError(t, ls.CommitIndex(42))
}

func TestBootReturnsOnlyUncommittedEntries(t *testing.T) {
	dir := t.TempDir()
	snapDir := t.TempDir()

	store, err := kv.Open(dir, 256)
	require.NoError(t, err)
	snaps, err := snapshotter.Open(snapDir)
	require.NoError(t, err)

	ls := logstore.New(store, snaps)
	_, _, _, _, err = ls.Boot(nil)
	require.NoError(t, err)

	require.NoError(t, ls.Append([]etcdraftpb.Entry{
		{Index: 1, Term: 1}, {Index: 2, Term: 1}, {Index: 3, Term: 1},
	}))
	require.NoError(t, ls.CommitIndex(1))
	require.NoError(t, ls.Close())

	store2, err := kv.Open(dir, 256)
	require.NoError(t, err)
	defer store2.Close()
	snaps2, err := snapshotter.Open(snapDir)
	require.NoError(t, err)

	reopened := logstore.New(store2, snaps2)
	_, hs, ents, _, err := reopened.Boot(nil)
	require.NoError(t, err)
	require.Len(t, ents, 2)
	require.EqualValues(t, 2, ents[0].Index)
	require.EqualValues(t, 3, ents[1].Index)
	require.NotNil(t, hs)
}

func TestCreateSnapshotAndApplySnapshot(t *testing.T) {
	ls := newLogStore(t)
	require.NoError(t, ls.Append([]etcdraftpb.Entry{
		{Index: 1, Term: 1}, {Index: 2, Term: 1}, {Index: 3, Term: 1},
	}))

	cs := &etcdraftpb.ConfState{Voters: []uint64{1}}
	snap, err := ls.CreateSnapshot(context.Background(), 2, cs, []byte("state"))
	require.NoError(t, err)
	require.EqualValues(t, 2, snap.Metadata.Index)

	other := newLogStore(t)
	require.NoError(t, other.ApplySnapshot(snap))

	fi, err := other.FirstIndex()
	require.NoError(t, err)
	require.EqualValues(t, 3, fi)
}
