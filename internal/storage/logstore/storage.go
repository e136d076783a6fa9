// Package logstore is component B: the durable replicated log, built on
// top of component A (internal/storage/kv) instead of the teacher's
// mmap-backed internal/storage/raftwal. Grounded on the same
// other_examples grocksdb raft.Storage implementation as component A for
// the entry-key-per-index layout, and on spec.md §3/§4.B/§8 for the
// invariants (contiguity, monotonicity, truncate-on-conflict, uncommitted
// index bookkeeping) the teacher's raftwal.DiskStorage does not need to
// enforce the same way because it owns its own WAL format.
package logstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/storage"
	"github.com/metasrv/raft/internal/storage/kv"
)

// LogStore implements storage.Storage: go.etcd.io/raft/v3's raft.Storage
// contract plus the append/snapshot/compact/commit operations the driver
// needs on top of it.
type LogStore struct {
	mu sync.RWMutex

	store *kv.Store
	snaps storage.Snapshotter

	firstIndex uint64
	lastIndex  uint64
	hardState  etcdraftpb.HardState
	confState  etcdraftpb.ConfState
	snapshot   etcdraftpb.Snapshot

	uncommitted map[uint64]struct{}
}

// New wraps store as a LogStore. Boot must be called before use.
func New(store *kv.Store, snaps storage.Snapshotter) *LogStore {
	return &LogStore{
		store:       store,
		snaps:       snaps,
		uncommitted: make(map[uint64]struct{}),
	}
}

var _ storage.Storage = (*LogStore)(nil)

// Exist reports whether Boot has already initialized persisted state in
// this store (first/last index keys present).
func (s *LogStore) Exist() bool {
	_, ok, err := s.store.Read(kv.CFMeta, []byte(keyFirstIndex))
	return err == nil && ok
}

// Boot loads persisted state, initializing it to empty defaults the first
// time it is called against a fresh data directory. meta is an opaque
// caller-supplied blob (e.g. this node's own cluster identity) persisted
// alongside the log and handed back unchanged on every subsequent Boot.
func (s *LogStore) Boot(meta []byte) ([]byte, *etcdraftpb.HardState, []etcdraftpb.Entry, *storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.existLocked() {
		if err := s.initLocked(meta); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	if err := s.loadLocked(); err != nil {
		return nil, nil, nil, nil, err
	}

	// Only the entries still marked uncommitted are returned here, not the
	// whole stored range: per the uncommitted map's purpose ("used to
	// resume application on restart"), these are exactly what the driver
	// must re-present to the application sink, and their lowest index
	// minus one is the applied index the driver lost on crash/restart.
	ents, err := s.uncommittedEntriesLocked()
	if err != nil && !errors.Is(err, raft.ErrUnavailable) {
		return nil, nil, nil, nil, err
	}

	outMeta, _, err := s.readMetaLocked()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var snap *storage.Snapshot
	if !raft.IsEmptySnap(s.snapshot) {
		snap, err = s.snaps.Read(s.snapshot.Metadata.Term, s.snapshot.Metadata.Index)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	hs := s.hardState
	return outMeta, &hs, ents, snap, nil
}

func (s *LogStore) existLocked() bool {
	_, ok, err := s.store.Read(kv.CFMeta, []byte(keyFirstIndex))
	return err == nil && ok
}

func (s *LogStore) initLocked(meta []byte) error {
	b := s.store.NewBatch()
	b.Put(kv.CFMeta, []byte(keyFirstIndex), encodeUint64(1))
	b.Put(kv.CFMeta, []byte(keyLastIndex), encodeUint64(0))
	if meta != nil {
		b.Put(kv.CFMeta, []byte("metasrv_meta"), meta)
	}
	if err := b.Commit(); err != nil {
		return storageErr(err, "init")
	}
	return nil
}

func (s *LogStore) readMetaLocked() ([]byte, bool, error) {
	v, ok, err := s.store.Read(kv.CFMeta, []byte("metasrv_meta"))
	if err != nil {
		return nil, false, storageErr(err, "read meta")
	}
	return v, ok, nil
}

func (s *LogStore) loadLocked() error {
	fi, ok, err := s.store.Read(kv.CFMeta, []byte(keyFirstIndex))
	if err != nil {
		return storageErr(err, "load first index")
	}
	if ok {
		s.firstIndex = decodeUint64(fi)
	} else {
		s.firstIndex = 1
	}

	li, ok, err := s.store.Read(kv.CFMeta, []byte(keyLastIndex))
	if err != nil {
		return storageErr(err, "load last index")
	}
	if ok {
		s.lastIndex = decodeUint64(li)
	} else {
		s.lastIndex = s.firstIndex - 1
	}

	hsb, ok, err := s.store.Read(kv.CFMeta, []byte(keyHardState))
	if err != nil {
		return storageErr(err, "load hard state")
	}
	if ok {
		if err := s.hardState.Unmarshal(hsb); err != nil {
			return errors.Wrap(storage.ErrDecode, err.Error())
		}
	}

	csb, ok, err := s.store.Read(kv.CFMeta, []byte(keyConfState))
	if err != nil {
		return storageErr(err, "load conf state")
	}
	if ok {
		if err := s.confState.Unmarshal(csb); err != nil {
			return errors.Wrap(storage.ErrDecode, err.Error())
		}
	}

	snb, ok, err := s.store.Read(kv.CFMeta, []byte(keySnapshot))
	if err != nil {
		return storageErr(err, "load snapshot metadata")
	}
	if ok {
		if err := s.snapshot.Unmarshal(snb); err != nil {
			return errors.Wrap(storage.ErrDecode, err.Error())
		}
	}

	ucb, ok, err := s.store.Read(kv.CFMeta, []byte(keyUncommitIndex))
	if err != nil {
		return storageErr(err, "load uncommitted index set")
	}
	s.uncommitted = make(map[uint64]struct{})
	if ok {
		idxs, err := decodeUncommitted(ucb)
		if err != nil {
			// spec.md §7: decode corruption on this optional value is
			// logged and skipped, not fatal — the set is derivable from
			// which log entries remain unacknowledged, it just loses the
			// fast path until the next commit rewrites it.
			glog.Warningf("logstore: uncommitted index map corrupt, resetting: %v", err)
		} else {
			s.uncommitted = idxs
		}
	}

	return nil
}

// InitialState implements raft.Storage.
func (s *LogStore) InitialState() (etcdraftpb.HardState, etcdraftpb.ConfState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hardState, s.confState, nil
}

// Entries implements raft.Storage: returns [lo, hi) capped at maxSize bytes.
func (s *LogStore) Entries(lo, hi, maxSize uint64) ([]etcdraftpb.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entriesLocked(lo, hi, maxSize)
}

func (s *LogStore) entriesLocked(lo, hi, maxSize uint64) ([]etcdraftpb.Entry, error) {
	if lo > hi {
		return nil, errors.Wrapf(storage.ErrInvariantViolation, "entries: lo=%d > hi=%d", lo, hi)
	}
	if lo < s.firstIndex {
		return nil, raft.ErrCompacted
	}
	if hi > s.lastIndex+1 {
		return nil, raft.ErrUnavailable
	}
	if lo == hi {
		return nil, nil
	}

	var ents []etcdraftpb.Entry
	size := uint64(0)
	for i := lo; i < hi; i++ {
		b, ok, err := s.store.Read(kv.CFMeta, entryKey(i))
		if err != nil {
			return nil, storageErr(err, "read entry")
		}
		if !ok {
			return nil, raft.ErrUnavailable
		}
		var e etcdraftpb.Entry
		if err := e.Unmarshal(b); err != nil {
			return nil, errors.Wrap(storage.ErrDecode, err.Error())
		}
		entSize := uint64(e.Size())
		if len(ents) > 0 && size+entSize > maxSize {
			break
		}
		ents = append(ents, e)
		size += entSize
	}
	return ents, nil
}

// uncommittedEntriesLocked reads back every entry still marked pending in
// the uncommitted-index map, in ascending index order, for Boot to hand to
// the driver.
func (s *LogStore) uncommittedEntriesLocked() ([]etcdraftpb.Entry, error) {
	if len(s.uncommitted) == 0 {
		return nil, nil
	}
	idxs := make([]uint64, 0, len(s.uncommitted))
	for i := range s.uncommitted {
		idxs = append(idxs, i)
	}
	sort.Slice(idxs, func(a, b int) bool { return idxs[a] < idxs[b] })

	ents := make([]etcdraftpb.Entry, 0, len(idxs))
	for _, i := range idxs {
		b, ok, err := s.store.Read(kv.CFMeta, entryKey(i))
		if err != nil {
			return nil, storageErr(err, "read uncommitted entry")
		}
		if !ok {
			// The index was marked uncommitted but the entry itself is
			// gone (compacted by a snapshot since). Not fatal: the
			// snapshot already carries the state that entry would have
			// produced.
			continue
		}
		var e etcdraftpb.Entry
		if err := e.Unmarshal(b); err != nil {
			return nil, errors.Wrap(storage.ErrDecode, err.Error())
		}
		ents = append(ents, e)
	}
	return ents, nil
}

// Term implements raft.Storage.
func (s *LogStore) Term(i uint64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.termLocked(i)
}

// termLocked assumes the caller already holds s.mu (read or write).
func (s *LogStore) termLocked(i uint64) (uint64, error) {
	if i == s.snapshot.Metadata.Index {
		return s.snapshot.Metadata.Term, nil
	}
	if i < s.firstIndex-1 {
		return 0, raft.ErrCompacted
	}
	if i > s.lastIndex {
		return 0, raft.ErrUnavailable
	}
	if i == s.firstIndex-1 {
		if !raft.IsEmptySnap(s.snapshot) && s.snapshot.Metadata.Index == i {
			return s.snapshot.Metadata.Term, nil
		}
		return 0, raft.ErrCompacted
	}

	b, ok, err := s.store.Read(kv.CFMeta, entryKey(i))
	if err != nil {
		return 0, storageErr(err, "read entry")
	}
	if !ok {
		return 0, raft.ErrUnavailable
	}
	var e etcdraftpb.Entry
	if err := e.Unmarshal(b); err != nil {
		return 0, errors.Wrap(storage.ErrDecode, err.Error())
	}
	return e.Term, nil
}

// FirstIndex implements raft.Storage.
func (s *LogStore) FirstIndex() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firstIndex, nil
}

// LastIndex implements raft.Storage.
func (s *LogStore) LastIndex() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastIndex, nil
}

// Snapshot implements raft.Storage: synthesizes a snapshot whose metadata
// tracks the current commit rather than handing back whatever blob was
// last persisted. If the commit index has advanced past the last persisted
// snapshot, it returns SnapshotTemporarilyUnavailable, and keeps doing so
// until a snapshot at the current commit index has been persisted. Nothing
// in the driver reacts to that error by creating a snapshot: new snapshots
// come only from the driver's SnapInterval trigger or an explicit
// CreateSnapshot call.
func (s *LogStore) Snapshot() (etcdraftpb.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	commit := s.hardState.Commit
	if commit < s.snapshot.Metadata.Index {
		glog.Fatalf("logstore: hard_state.commit %d below snapshot index %d", commit, s.snapshot.Metadata.Index)
	}
	if commit == s.snapshot.Metadata.Index {
		return s.snapshot, nil
	}
	return etcdraftpb.Snapshot{}, raft.ErrSnapshotTemporarilyUnavailable
}

// Append validates contiguity, truncates any divergent suffix (spec.md
// invariant 3), writes the entries, and marks each newly-written index
// uncommitted.
func (s *LogStore) Append(entries []etcdraftpb.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	first := entries[0].Index
	last := entries[len(entries)-1].Index
	if last < s.firstIndex {
		// Entirely compacted already; nothing to do.
		return nil
	}
	if s.firstIndex > first {
		entries = entries[s.firstIndex-first:]
		first = s.firstIndex
	}
	if len(entries) == 0 {
		return nil
	}
	if first > s.lastIndex+1 {
		return errors.Wrapf(storage.ErrInvariantViolation, "append: gap at index %d, last=%d", first, s.lastIndex)
	}

	b := s.store.NewBatch()
	// Any entries already on disk at or beyond first are now superseded:
	// either they are exactly what we're about to rewrite, or they
	// diverged (different term at the same index) and must be dropped,
	// per spec.md invariant 3.
	for i := first; i <= s.lastIndex; i++ {
		b.Delete(kv.CFMeta, entryKey(i))
		delete(s.uncommitted, i)
	}
	for _, e := range entries {
		data, err := e.Marshal()
		if err != nil {
			return errors.Wrap(storage.ErrEncode, err.Error())
		}
		b.Put(kv.CFMeta, entryKey(e.Index), data)
		s.uncommitted[e.Index] = struct{}{}
	}
	b.Put(kv.CFMeta, []byte(keyLastIndex), encodeUint64(last))
	if err := s.putUncommittedLocked(b); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return storageErr(err, "append")
	}

	s.lastIndex = last
	glog.V(2).Infof("logstore: appended through index %d", last)
	return nil
}

func (s *LogStore) putUncommittedLocked(b *kv.Batch) error {
	b.Put(kv.CFMeta, []byte(keyUncommitIndex), encodeUncommitted(s.uncommitted))
	return nil
}

// CommitIndex removes idx from the uncommitted set. A commit for an index
// not present is logged and treated as a no-op (Design Notes open
// question 3) rather than a fatal invariant violation.
func (s *LogStore) CommitIndex(idx uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.uncommitted[idx]; !ok {
		glog.V(1).Infof("logstore: commit of untracked index %d, ignoring", idx)
		return nil
	}
	delete(s.uncommitted, idx)

	b := s.store.NewBatch()
	if err := s.putUncommittedLocked(b); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return storageErr(err, "commit index")
	}
	return nil
}

// SaveEntries persists entries then, if hs is non-nil, the hard state, as
// two separate writes (the entry batch first, then the hard state) — the
// durability step of the ready cycle (spec.md
// §4.D step "persist entries and hard state").
func (s *LogStore) SaveEntries(ctx context.Context, hs *etcdraftpb.HardState, es []etcdraftpb.Entry) error {
	if len(es) > 0 {
		if err := s.Append(es); err != nil {
			return err
		}
	}
	if hs == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := hs.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}
	if err := s.store.Write(kv.CFMeta, []byte(keyHardState), data); err != nil {
		return storageErr(err, "save hard state")
	}
	s.hardState = *hs
	return nil
}

// SaveConfState persists a conf state produced by applying a membership
// change entry (as opposed to one that arrives bundled in a snapshot).
func (s *LogStore) SaveConfState(ctx context.Context, cs *etcdraftpb.ConfState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := cs.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}
	if err := s.store.Write(kv.CFMeta, []byte(keyConfState), data); err != nil {
		return storageErr(err, "save conf state")
	}
	s.confState = *cs
	return nil
}

// SaveSnapshot persists only the snapshot's metadata; its opaque Data
// bytes are the Snapshotter's concern (spec.md §6).
func (s *LogStore) SaveSnapshot(ctx context.Context, snap *etcdraftpb.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := etcdraftpb.Snapshot{Metadata: snap.Metadata}
	data, err := meta.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}
	csData, err := snap.Metadata.ConfState.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}

	b := s.store.NewBatch()
	b.Put(kv.CFMeta, []byte(keySnapshot), data)
	b.Put(kv.CFMeta, []byte(keyConfState), csData)
	if err := b.Commit(); err != nil {
		return storageErr(err, "save snapshot metadata")
	}

	s.snapshot = meta
	s.confState = snap.Metadata.ConfState
	return nil
}

// CreateSnapshot synthesizes a snapshot at index i, persists its metadata,
// and hands data to the Snapshotter.
func (s *LogStore) CreateSnapshot(ctx context.Context, i uint64, cs *etcdraftpb.ConfState, data []byte) (etcdraftpb.Snapshot, error) {
	s.mu.Lock()
	if i < s.firstIndex-1 {
		s.mu.Unlock()
		return etcdraftpb.Snapshot{}, raft.ErrSnapOutOfDate
	}
	if i > s.lastIndex {
		s.mu.Unlock()
		return etcdraftpb.Snapshot{}, errors.Wrapf(storage.ErrInvariantViolation, "snapshot index %d beyond last index %d", i, s.lastIndex)
	}

	term, err := s.termLocked(i)
	s.mu.Unlock()
	if err != nil {
		return etcdraftpb.Snapshot{}, err
	}

	if cs == nil {
		cs = &etcdraftpb.ConfState{}
	}
	snap := etcdraftpb.Snapshot{
		Data: data,
		Metadata: etcdraftpb.SnapshotMetadata{
			Index:     i,
			Term:      term,
			ConfState: *cs,
		},
	}

	if err := s.SaveSnapshot(ctx, &snap); err != nil {
		return etcdraftpb.Snapshot{}, err
	}

	return snap, nil
}

// ApplySnapshot overwrites storage with snapshot's contents, discarding
// any log entries it makes obsolete.
func (s *LogStore) ApplySnapshot(snap etcdraftpb.Snapshot) error {
	if raft.IsEmptySnap(snap) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Metadata.Index <= s.firstIndex-1 {
		return raft.ErrSnapOutOfDate
	}

	b := s.store.NewBatch()
	for i := s.firstIndex; i <= s.lastIndex && i <= snap.Metadata.Index; i++ {
		b.Delete(kv.CFMeta, entryKey(i))
		delete(s.uncommitted, i)
	}

	newFirst := snap.Metadata.Index + 1
	newLast := s.lastIndex
	if snap.Metadata.Index > s.lastIndex {
		newLast = snap.Metadata.Index
	}

	meta := etcdraftpb.Snapshot{Metadata: snap.Metadata}
	metaData, err := meta.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}
	csData, err := snap.Metadata.ConfState.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}

	hs := s.hardState
	if snap.Metadata.Term > hs.Term {
		hs.Term = snap.Metadata.Term
	}
	hs.Commit = snap.Metadata.Index
	hsData, err := hs.Marshal()
	if err != nil {
		return errors.Wrap(storage.ErrEncode, err.Error())
	}

	b.Put(kv.CFMeta, []byte(keySnapshot), metaData)
	b.Put(kv.CFMeta, []byte(keyConfState), csData)
	b.Put(kv.CFMeta, []byte(keyHardState), hsData)
	b.Put(kv.CFMeta, []byte(keyFirstIndex), encodeUint64(newFirst))
	b.Put(kv.CFMeta, []byte(keyLastIndex), encodeUint64(newLast))
	if err := s.putUncommittedLocked(b); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return storageErr(err, "apply snapshot")
	}

	s.firstIndex = newFirst
	s.lastIndex = newLast
	s.snapshot = meta
	s.confState = snap.Metadata.ConfState
	s.hardState = hs

	glog.V(1).Infof("logstore: applied snapshot at index %d term %d", snap.Metadata.Index, snap.Metadata.Term)
	return nil
}

// Compact discards entries below compactIndex, used after a snapshot has
// made them redundant (spec.md §4.B).
func (s *LogStore) Compact(compactIndex uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if compactIndex <= s.firstIndex {
		return raft.ErrCompacted
	}
	if compactIndex > s.lastIndex+1 {
		return errors.Wrapf(storage.ErrInvariantViolation, "compact index %d beyond last index %d", compactIndex, s.lastIndex)
	}

	b := s.store.NewBatch()
	for i := s.firstIndex; i < compactIndex; i++ {
		b.Delete(kv.CFMeta, entryKey(i))
		delete(s.uncommitted, i)
	}
	b.Put(kv.CFMeta, []byte(keyFirstIndex), encodeUint64(compactIndex))
	if err := s.putUncommittedLocked(b); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return storageErr(err, "compact")
	}

	s.firstIndex = compactIndex
	glog.V(1).Infof("logstore: compacted through index %d", compactIndex)
	return nil
}

// Snapshotter returns the opaque-data snapshot store this LogStore was
// constructed with.
func (s *LogStore) Snapshotter() storage.Snapshotter { return s.snaps }

// Close releases the backing engine.
func (s *LogStore) Close() error { return s.store.Close() }

func storageErr(err error, op string) error {
	return errors.Wrapf(storage.ErrStorageIO, "%s: %v", op, err)
}

// encodeUint64/decodeUint64 store first_index/last_index as UTF-8 JSON
// numbers per spec.md §6 ("for human debuggability"), rather than a fixed
// binary width — these two keys are read once at Boot and written once
// per ready cycle, not a throughput-sensitive path.
func encodeUint64(v uint64) []byte {
	b, _ := json.Marshal(v)
	return b
}

func decodeUint64(b []byte) uint64 {
	var v uint64
	_ = json.Unmarshal(b, &v)
	return v
}

// encodeUncommitted/decodeUncommitted implement spec.md §6's "compact
// binary encoding of map<u64, i8>" for the uncommitted-index set: a
// 4-byte count followed by each index as 8 bytes big-endian plus a
// 1-byte marker (unused, always zero — the map's value carries no
// information beyond membership, but the wire shape is a map, not a set,
// per spec).
func encodeUncommitted(idxs map[uint64]struct{}) []byte {
	buf := make([]byte, 4, 4+len(idxs)*9)
	binary.BigEndian.PutUint32(buf, uint32(len(idxs)))
	for i := range idxs {
		var entry [9]byte
		binary.BigEndian.PutUint64(entry[:8], i)
		buf = append(buf, entry[:]...)
	}
	return buf
}

func decodeUncommitted(b []byte) (map[uint64]struct{}, error) {
	out := make(map[uint64]struct{})
	if len(b) < 4 {
		return out, nil
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	for i := uint32(0); i < n; i++ {
		if len(b) < 9 {
			return nil, errors.Wrap(storage.ErrDecode, "logstore: truncated uncommitted index map")
		}
		out[binary.BigEndian.Uint64(b[:8])] = struct{}{}
		b = b[9:]
	}
	return out, nil
}
