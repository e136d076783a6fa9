// Package storage defines the contract the consensus driver persists
// through (spec.md §4.B) and the error taxonomy of spec.md §7.
package storage

import (
	"context"
	"errors"
	"io"

	"go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/clusterpb"
)

// Error taxonomy, spec.md §7. The consensus-protocol conditions
// (Compacted/Unavailable/SnapshotOutOfDate/SnapshotTemporarilyUnavailable)
// are not redeclared here: go.etcd.io/raft/v3 already defines sentinels for
// them (raft.ErrCompacted, raft.ErrUnavailable, raft.ErrSnapOutOfDate,
// raft.ErrSnapshotTemporarilyUnavailable) and the consensus node tests
// against those exact values, so wrapping them in a parallel type would
// break the contract it must satisfy.
var (
	// ErrStorageIO means the underlying KV engine failed. Fatal to the
	// current ready cycle; the driver re-enters without advancing.
	ErrStorageIO = errors.New("raft/storage: engine I/O error")
	// ErrEncode means serialization of a value to be persisted failed.
	ErrEncode = errors.New("raft/storage: encode error")
	// ErrDecode means a persisted value could not be deserialized.
	ErrDecode = errors.New("raft/storage: decode error")
	// ErrInvariantViolation means a contiguity or monotonicity invariant
	// (spec.md §3) was violated. The process must abort.
	ErrInvariantViolation = errors.New("raft/storage: invariant violation")
)

// Snapshot is the full application-level snapshot: the consensus metadata
// plus the opaque state-machine bytes and the membership list at that
// point, matching spec.md's "Snapshot: metadata + opaque application state
// bytes" plus the cluster topology the engine additionally checkpoints.
type Snapshot struct {
	Raw     etcdraftpb.Snapshot
	Members []clusterpb.Member
	Data    io.ReadCloser
}

// Snapshotter persists and retrieves the opaque Snapshot.Data blob. Kept
// separate from Storage because this data can be arbitrarily large
// (state-machine dependent) while Storage's column family holds only the
// snapshot metadata (spec.md §6).
type Snapshotter interface {
	Writer(term, index uint64) (io.WriteCloser, error)
	Reader(term, index uint64) (io.ReadCloser, error)
	Write(*Snapshot) error
	Read(term, index uint64) (*Snapshot, error)
	ReadFrom(path string) (*Snapshot, error)
}

// Storage is the full contract the driver (component D) persists through:
// the consensus library's own raft.Storage plus the operations spec.md §4.B
// adds on top of it.
type Storage interface {
	raft.Storage

	// Append validates continuity (spec.md invariant 3), truncates any
	// divergent suffix, writes entries, and marks each index uncommitted.
	Append(entries []etcdraftpb.Entry) error

	// ApplySnapshot overwrites storage with snapshot's contents. Fails
	// with raft.ErrSnapOutOfDate if snapshot predates the current log.
	ApplySnapshot(snapshot etcdraftpb.Snapshot) error

	// CreateSnapshot synthesizes a snapshot at index i with the given
	// ConfState and opaque data, and persists its metadata.
	CreateSnapshot(ctx context.Context, i uint64, cs *etcdraftpb.ConfState, data []byte) (etcdraftpb.Snapshot, error)

	// Compact discards entries below compactIndex.
	Compact(compactIndex uint64) error

	// CommitIndex removes idx from the uncommitted-index map. Called by
	// the driver after the application has accepted entry idx. A commit
	// for an index not present in the map is a no-op, logged but not
	// fatal (Design Notes, open question 3).
	CommitIndex(idx uint64) error

	// SaveEntries persists es and, if hs is non-nil, the new hard state,
	// in that order (entries before hard state), as one logical write.
	SaveEntries(ctx context.Context, hs *etcdraftpb.HardState, es []etcdraftpb.Entry) error

	// SaveSnapshot persists snap's metadata (not its Data — see
	// Snapshotter) as the durability step of the ready cycle.
	SaveSnapshot(ctx context.Context, snap *etcdraftpb.Snapshot) error

	// SaveConfState persists a conf state produced by applying a
	// membership-change entry outside of a snapshot.
	SaveConfState(ctx context.Context, cs *etcdraftpb.ConfState) error

	// Snapshotter returns the opaque-data snapshot store.
	Snapshotter() Snapshotter

	// Boot opens (or initializes) the backing engine and returns
	// whatever state already exists.
	Boot(meta []byte) (outMeta []byte, hs *etcdraftpb.HardState, ents []etcdraftpb.Entry, snap *Snapshot, err error)

	// Exist reports whether a prior Boot already initialized this data
	// directory.
	Exist() bool

	// Close releases the backing engine's resources.
	Close() error
}
