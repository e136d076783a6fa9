package snapshotter_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/storage"
	"github.com/metasrv/raft/internal/storage/snapshotter"
)

func TestWriteThenRead(t *testing.T) {
	sn, err := snapshotter.Open(t.TempDir())
	require.NoError(t, err)

	snap := &storage.Snapshot{
		Raw:     etcdraftpb.Snapshot{Metadata: etcdraftpb.SnapshotMetadata{Term: 3, Index: 7}},
		Members: []clusterpb.Member{{ID: 1, Address: "a:1", Type: clusterpb.VoterMember}},
		Data:    io.NopCloser(bytes.NewBufferString("state-bytes")),
	}
	require.NoError(t, sn.Write(snap))

	got, err := sn.Read(3, 7)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	require.EqualValues(t, 1, got.Members[0].ID)

	data, err := io.ReadAll(got.Data)
	require.NoError(t, err)
	require.Equal(t, "state-bytes", string(data))
}

func TestWriterCloseThenReader(t *testing.T) {
	sn, err := snapshotter.Open(t.TempDir())
	require.NoError(t, err)

	w, err := sn.Writer(1, 5)
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := sn.Reader(1, 5)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestReadMissingSnapshot(t *testing.T) {
	sn, err := snapshotter.Open(t.TempDir())
	require.NoError(t, err)

	_, err = sn.Read(9, 9)
	require.Error(t, err)
}
