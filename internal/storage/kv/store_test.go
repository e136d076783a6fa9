package kv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metasrv/raft/internal/storage/kv"
)

func TestStoreWriteReadDelete(t *testing.T) {
	s, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Read(kv.CFMeta, []byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(kv.CFMeta, []byte("k1"), []byte("v1")))
	v, ok, err := s.Read(kv.CFMeta, []byte("k1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, s.Delete(kv.CFMeta, []byte("k1")))
	_, ok, err = s.Read(kv.CFMeta, []byte("k1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreReadPrefixAndScanAll(t *testing.T) {
	s, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(kv.CFCluster, []byte("member/1"), []byte("a")))
	require.NoError(t, s.Write(kv.CFCluster, []byte("member/2"), []byte("b")))
	require.NoError(t, s.Write(kv.CFCluster, []byte("other/1"), []byte("c")))

	rows, err := s.ReadPrefix(kv.CFCluster, []byte("member/"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	all, err := s.ScanAll(kv.CFCluster)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestBatchCommitIsAtomic(t *testing.T) {
	s, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	defer s.Close()

	b := s.NewBatch()
	b.Put(kv.CFMeta, []byte("a"), []byte("1"))
	b.Put(kv.CFMeta, []byte("b"), []byte("2"))
	require.NoError(t, b.Commit())

	_, ok, err := s.Read(kv.CFMeta, []byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = s.Read(kv.CFMeta, []byte("b"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCachedStoreReadsThroughAndInvalidatesOnDelete(t *testing.T) {
	s, err := kv.Open(t.TempDir(), 256)
	require.NoError(t, err)
	defer s.Close()

	cs, err := kv.NewCachedStore(s, 1<<20)
	require.NoError(t, err)
	defer cs.Close()

	require.NoError(t, cs.Write(kv.CFMeta, []byte("k"), []byte("v")))
	v, ok, err := cs.Read(kv.CFMeta, []byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, cs.Delete(kv.CFMeta, []byte("k")))
	_, ok, err = cs.Read(kv.CFMeta, []byte("k"))
	require.NoError(t, err)
	require.False(t, ok)
}
