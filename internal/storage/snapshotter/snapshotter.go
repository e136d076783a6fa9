// Package snapshotter is component B': file-based storage for the opaque
// Snapshot.Data blob the consensus metadata column family never holds
// directly (spec.md §6). Grounded on other_examples' raft_rocks.go, which
// pairs a grocksdb-backed raft.Storage with go.etcd.io/etcd/server/v3's
// etcdserver/api/snap.Snapshotter for exactly this split: entries and
// hard/conf state in the KV engine, snapshot bytes on the filesystem.
package snapshotter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/etcd/client/pkg/v3/fileutil"
	"go.etcd.io/etcd/server/v3/etcdserver/api/snap"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"
	"go.uber.org/zap"

	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/storage"
)

// Snapshotter persists full application snapshots under dir, one file per
// (term, index) pair, named the same way the etcd snap package names its
// own files (%016x-%016x.snap). The embedded *snap.Snapshotter is used
// only by LoadNewest, to find whichever snapshot is newest without the
// caller already knowing its (term, index). Startup does not go through
// LoadNewest: the driver reads the snapshot the log store names via Read.
type Snapshotter struct {
	dir string
	s   *snap.Snapshotter
}

// Open ensures dir exists and returns a Snapshotter rooted there.
func Open(dir string) (*Snapshotter, error) {
	if !fileutil.Exist(dir) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Wrapf(err, "snapshotter: mkdir %s", dir)
		}
	}
	return &Snapshotter{dir: dir, s: snap.New(zap.NewNop(), dir)}, nil
}

// fileName mirrors the naming convention the etcd snap package itself
// uses for the files it writes (%016x-%016x.snap), letting Reader locate
// a specific (term, index) pair's file directly instead of only ever
// loading "the newest" snapshot.
func fileName(term, index uint64) string {
	return fmt.Sprintf("%016x-%016x.snap", term, index)
}

type envelope struct {
	Members []clusterpb.Member `json:"members"`
}

// Write persists snap's metadata, member list, and Data stream to disk
// under this snapshotter's own (term, index) naming, via
// fileutil.WriteAndSyncFile, which writes the file in place and fsyncs it
// (no temporary file or rename).
func (sn *Snapshotter) Write(snap *storage.Snapshot) error {
	var data []byte
	if snap.Data != nil {
		defer snap.Data.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, snap.Data); err != nil {
			return errors.Wrap(err, "snapshotter: read data stream")
		}
		data = buf.Bytes()
	}

	env := envelope{Members: snap.Members}
	envData, err := jsonMarshal(env)
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}

	raw := snap.Raw
	raw.Data = append(envData, data...)

	out, err := raw.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}

	path := filepath.Join(sn.dir, fileName(raw.Metadata.Term, raw.Metadata.Index))
	if err := fileutil.WriteAndSyncFile(path, out, 0o600); err != nil {
		return errors.Wrapf(storage.ErrStorageIO, "snapshotter: write %s: %v", path, err)
	}
	return nil
}

// LoadNewest finds and loads whichever snapshot go.etcd.io/etcd/server/v3's
// own Snapshotter considers newest in this directory, for use at startup
// before the caller knows which (term, index) pair to ask for. Returns
// snap.ErrNoSnapshot if the directory holds none.
func (sn *Snapshotter) LoadNewest() (*storage.Snapshot, error) {
	raw, err := sn.s.Load()
	if err != nil {
		return nil, errors.Wrap(storage.ErrStorageIO, err.Error())
	}
	return sn.Read(raw.Metadata.Term, raw.Metadata.Index)
}

// Writer returns an io.WriteCloser that buffers bytes and, on Close,
// persists them as the opaque Data portion of a (term, index) snapshot
// with no recorded members — used by callers that stream an
// application-defined snapshot body independently of the membership list.
func (sn *Snapshotter) Writer(term, index uint64) (io.WriteCloser, error) {
	return &pendingWrite{sn: sn, term: term, index: index}, nil
}

type pendingWrite struct {
	sn    *Snapshotter
	term  uint64
	index uint64
	buf   bytes.Buffer
}

func (w *pendingWrite) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *pendingWrite) Close() error {
	snap := &storage.Snapshot{
		Raw:  etcdraftpb.Snapshot{Metadata: etcdraftpb.SnapshotMetadata{Term: w.term, Index: w.index}},
		Data: io.NopCloser(&w.buf),
	}
	return w.sn.Write(snap)
}

// Read loads the snapshot at (term, index) by its well-known filename.
func (sn *Snapshotter) Read(term, index uint64) (*storage.Snapshot, error) {
	return sn.ReadFrom(filepath.Join(sn.dir, fileName(term, index)))
}

// Reader returns an io.ReadCloser over the Data portion of the snapshot
// at (term, index).
func (sn *Snapshotter) Reader(term, index uint64) (io.ReadCloser, error) {
	s, err := sn.Read(term, index)
	if err != nil {
		return nil, err
	}
	return s.Data, nil
}

// ReadFrom loads a snapshot from an explicit file path, used when a
// snapshot arrives out of band (e.g. transferred from a peer) rather than
// through this Snapshotter's own Write.
func (sn *Snapshotter) ReadFrom(path string) (*storage.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(snap.ErrNoSnapshot, "snapshotter: %s", path)
		}
		return nil, errors.Wrapf(storage.ErrStorageIO, "snapshotter: read %s: %v", path, err)
	}

	var raw etcdraftpb.Snapshot
	if err := raw.Unmarshal(b); err != nil {
		return nil, errors.Wrap(storage.ErrDecode, err.Error())
	}

	env, rest, err := splitEnvelope(raw.Data)
	if err != nil {
		return nil, err
	}

	return &storage.Snapshot{
		Raw:     raw,
		Members: env.Members,
		Data:    io.NopCloser(bytes.NewReader(rest)),
	}, nil
}
