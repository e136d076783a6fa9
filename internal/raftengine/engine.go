package raftengine

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/etcd/pkg/v3/idutil"
	"go.etcd.io/raft/v3"
	etcdraftpb "go.etcd.io/raft/v3/raftpb"

	"github.com/metasrv/raft/internal/atomic"
	"github.com/metasrv/raft/internal/bootstrap"
	"github.com/metasrv/raft/internal/clusterpb"
	"github.com/metasrv/raft/internal/membership"
	"github.com/metasrv/raft/internal/msgbus"
	"github.com/metasrv/raft/internal/storage"
	"github.com/metasrv/raft/raftlog"
)

// New construct and return new engine from the provided config.
func New(cfg Config) Engine {
	eng := &engine{}
	eng.cfg = cfg
	eng.fsm = cfg.StateMachine()
	eng.storage = cfg.Storage()
	eng.msgbus = msgbus.New()
	eng.pool = cfg.Pool()
	eng.sink = cfg.Sink()
	eng.started = atomic.NewBool()
	eng.appliedIndex = atomic.NewUint64()
	eng.snapIndex = atomic.NewUint64()
	eng.snapshoting = atomic.NewBool()
	eng.logger = cfg.Logger()
	eng.statec = cfg.StateChangeCh()
	return eng
}

type engine struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg Config
	fsm StateMachine

	localID   uint64
	localAddr string

	node raft.Node

	// wg waits for the background goroutines the engine itself spawns
	// (snapshotting, delayed member removal) before Shutdown returns.
	wg sync.WaitGroup
	// propwg waits for all in-flight proposals before Shutdown tears the
	// node down from under them.
	propwg sync.WaitGroup
	// processwg waits for the raft message processing goroutines.
	processwg sync.WaitGroup

	storage storage.Storage
	msgbus  *msgbus.MsgBus
	idgen   *idutil.Generator
	pool    membership.Pool
	sink    OutboundSink

	started      *atomic.Bool
	snapIndex    *atomic.Uint64
	snapshoting  *atomic.Bool
	appliedIndex *atomic.Uint64

	proposec  chan etcdraftpb.Message
	msgc      chan etcdraftpb.Message
	snapshotc chan chan error

	confState *etcdraftpb.ConfState
	logger    raftlog.Logger
	statec    chan raft.StateType
	leader    bool
}

// Start boots storage, resolves initial leadership (spec.md §4.E) if this
// is a brand new data directory, and runs the driver loop until the
// context is cancelled or Shutdown is called.
func (eng *engine) Start(ctx context.Context) error {
	if eng.started.True() {
		return errors.New("raft: already started")
	}

	eng.localID = eng.cfg.LocalID()
	eng.localAddr = eng.cfg.LocalAddress()
	eng.idgen = idutil.NewGenerator(uint16(eng.localID), time.Now())

	freshCluster := !eng.storage.Exist()

	_, hs, ents, snap, err := eng.storage.Boot(nil)
	if err != nil {
		return fmt.Errorf("raft: boot storage: %w", err)
	}

	var confState etcdraftpb.ConfState
	if snap != nil {
		confState = snap.Raw.Metadata.ConfState
	}

	// Recover applied index (DESIGN.md, applied-index recovery): ents
	// holds only entries Boot found still marked uncommitted. If there
	// are none, everything up to the persisted commit was already
	// applied by a prior process; otherwise the gap just below the
	// first uncommitted entry is the last index this process applied.
	var appliedIndex uint64
	if len(ents) == 0 {
		if hs != nil {
			appliedIndex = hs.Commit
		}
	} else {
		appliedIndex = ents[0].Index - 1
	}

	rc := &raft.Config{
		ID:                        eng.localID,
		ElectionTick:              10,
		HeartbeatTick:             3,
		Applied:                   appliedIndex,
		Storage:                   eng.storage,
		MaxSizePerMsg:             1024 * 1024,
		MaxInflightMsgs:           256,
		MaxUncommittedEntriesSize: 1 << 30,
		Logger:                    raftLoggerAdapter{eng.logger},
	}

	if freshCluster {
		result, err := bootstrap.Elect(ctx, eng.cfg.Bootstrap())
		if err != nil {
			return fmt.Errorf("raft: bootstrap election: %w", err)
		}

		if result.IsSelf {
			initial := bootstrap.InitialSnapshot(eng.localID)
			if err := eng.storage.ApplySnapshot(initial); err != nil {
				return fmt.Errorf("raft: apply initial snapshot: %w", err)
			}
			if err := eng.pool.Add(ctx, clusterpb.Member{
				ID:      eng.localID,
				Address: eng.localAddr,
				Type:    clusterpb.VoterMember,
			}); err != nil {
				return fmt.Errorf("raft: register local member: %w", err)
			}
			confState = initial.Metadata.ConfState
			eng.node = raft.StartNode(rc, []raft.Peer{{ID: eng.localID}})
		} else {
			eng.logger.Infof("raft.engine: joining cluster, leader hint %x at %s", result.LeaderID, result.LeaderAddr)
			eng.node = raft.RestartNode(rc)
		}
	} else {
		eng.node = raft.RestartNode(rc)
	}

	eng.confState = &confState

	eng.appliedIndex.Set(appliedIndex)
	if len(ents) > 0 {
		eng.publishCommitted(ctx, ents)
	}
	eng.snapIndex.Set(eng.appliedIndex.Get())

	eng.ctx, eng.cancel = context.WithCancel(ctx)
	eng.proposec = make(chan etcdraftpb.Message, 4096)
	eng.msgc = make(chan etcdraftpb.Message, 4096)
	eng.snapshotc = make(chan chan error)
	eng.started.Set()

	eng.process(eng.ctx, eng.proposec)
	eng.process(eng.ctx, eng.msgc)
	return eng.eventLoop(eng.ctx)
}

// eventLoop is the single owner of the consensus node's Ready channel, the
// storage writes it drives, and the applied/commit bookkeeping that
// follows — the strict-order ready cycle the application half of the
// system relies on never being reordered or run concurrently with itself.
func (eng *engine) eventLoop(ctx context.Context) error {
	eng.wg.Add(1)
	defer eng.wg.Done()

	ticker := time.NewTicker(eng.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			eng.node.Tick()
		case rd := <-eng.node.Ready():
			if err := eng.do(ctx, rd); err != nil {
				eng.logger.Errorf("raft.engine: ready cycle: %v", err)
				return err
			}
		case c := <-eng.snapshotc:
			c <- eng.createSnapshot(ctx)
		case <-eng.ctx.Done():
			return ErrStopped
		}
	}
}

// do runs one ready cycle in the order the driver contract requires:
// leader fast-path send, apply snapshot, apply already-durable committed
// entries, append and persist this cycle's new entries/hard state, then
// the follower-path send that must wait for that persistence, then
// advance. go.etcd.io/raft/v3's Node.Advance folds what some raft
// implementations split into an "advance" step plus a second light-weight
// ready (a further commit-index persist, message batch, and committed
// entries) into this single call — there is no second batch to process
// here (see DESIGN.md).
func (eng *engine) do(ctx context.Context, rd raft.Ready) error {
	if rd.SoftState != nil {
		eng.leader = rd.RaftState == raft.StateLeader
		if rd.SoftState.Lead == raft.None {
			eng.msgbus.BroadcastToAll(ErrNoLeader)
		}
		eng.publishStateChange(rd.SoftState.RaftState)
	}

	var wg sync.WaitGroup
	if eng.leader && len(rd.Messages) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.send(ctx, rd.Messages)
		}()
	}

	if err := eng.publishSnapshot(ctx, &rd.Snapshot); err != nil {
		return err
	}

	prevIndex := eng.appliedIndex.Get()
	eng.publishCommitted(ctx, rd.CommittedEntries)
	eng.publishAppliedIndices(prevIndex, eng.appliedIndex.Get())

	var hs *etcdraftpb.HardState
	if !raft.IsEmptyHardState(rd.HardState) {
		hs = &rd.HardState
	}
	if err := eng.storage.SaveEntries(ctx, hs, rd.Entries); err != nil {
		return err
	}

	if !eng.leader && len(rd.Messages) > 0 {
		eng.send(ctx, rd.Messages)
	} else {
		wg.Wait()
	}

	eng.publishReadState(rd.ReadStates)
	eng.promotions(ctx)
	eng.maybeCreateSnapshot(ctx)

	eng.node.Advance()
	return nil
}

func (eng *engine) publishStateChange(st raft.StateType) {
	if eng.statec == nil {
		return
	}
	go func() {
		select {
		case <-eng.statec:
		case eng.statec <- st:
		default:
		}
	}()
}

func (eng *engine) publishReadState(rss []raft.ReadState) {
	for _, rs := range rss {
		id := binary.BigEndian.Uint64(rs.RequestCtx)
		eng.msgbus.Broadcast(id, rs.Index)
	}
}

func (eng *engine) publishAppliedIndices(prev, curr uint64) {
	for i := prev + 1; i < curr+1; i++ {
		eng.msgbus.Broadcast(i, nil)
	}
}

func (eng *engine) publishSnapshot(ctx context.Context, snap *etcdraftpb.Snapshot) error {
	if raft.IsEmptySnap(*snap) {
		return nil
	}

	if snap.Metadata.Index <= eng.appliedIndex.Get() {
		return fmt.Errorf(
			"raft: snapshot index [%d] should be > applied index [%d]",
			snap.Metadata.Index, eng.appliedIndex.Get(),
		)
	}

	if err := eng.storage.SaveSnapshot(ctx, snap); err != nil {
		return err
	}

	meta := snap.Metadata
	sf, err := eng.storage.Snapshotter().Read(meta.Term, meta.Index)
	if err != nil {
		return err
	}

	return eng.applySnapshotFile(ctx, sf)
}

func (eng *engine) applySnapshotFile(ctx context.Context, sf *storage.Snapshot) error {
	snap := sf.Raw

	if err := eng.storage.ApplySnapshot(snap); err != nil {
		return err
	}

	eng.pool.Restore(ctx, sf.Members)

	if err := eng.fsm.Restore(sf.Data); err != nil {
		return err
	}

	eng.confState = &snap.Metadata.ConfState
	eng.snapIndex.Set(snap.Metadata.Index)
	eng.appliedIndex.Set(snap.Metadata.Index)
	return nil
}

// publishCommitted applies each committed entry and, once applied, marks
// it committed in storage so the uncommitted-index bookkeeping (spec.md
// §4.B) stops tracking it.
func (eng *engine) publishCommitted(ctx context.Context, ents []etcdraftpb.Entry) {
	for _, ent := range ents {
		switch {
		case ent.Type == etcdraftpb.EntryConfChange:
			eng.applyConfChange(ctx, ent)
		case len(ent.Data) > 0:
			eng.applyReplicate(ent)
		}

		eng.appliedIndex.Set(ent.Index)
		eng.recordApplied(ent.Index)

		if err := eng.storage.CommitIndex(ent.Index); err != nil {
			eng.logger.Warningf("raft.engine: commit index %d: %v", ent.Index, err)
		}
	}
}

func (eng *engine) applyReplicate(ent etcdraftpb.Entry) {
	var err error
	r := new(clusterpb.Replicate)
	defer func() {
		eng.msgbus.Broadcast(r.CID, err)
		if err != nil {
			eng.logger.Warningf("raft.engine: applying replicated data: %v", err)
		}
	}()

	if err = r.Unmarshal(ent.Data); err != nil {
		return
	}

	eng.logger.V(1).Infof("raft.engine: applying replicated data, change id => %d", r.CID)
	err = eng.fsm.Apply(r.Data)
}

func (eng *engine) applyConfChange(ctx context.Context, ent etcdraftpb.Entry) {
	var err error
	cc := new(etcdraftpb.ConfChange)
	mem := new(clusterpb.Member)

	defer func() {
		eng.msgbus.Broadcast(cc.ID, err)
		if err != nil {
			eng.logger.Warningf("raft.engine: applying conf change: %v", err)
		}
	}()

	if err = cc.Unmarshal(ent.Data); err != nil {
		return
	}

	if len(cc.Context) == 0 {
		return
	}
	if err = mem.Unmarshal(cc.Context); err != nil {
		return
	}

	switch cc.Type {
	case etcdraftpb.ConfChangeAddNode, etcdraftpb.ConfChangeAddLearnerNode:
		err = eng.pool.Add(ctx, *mem)
	case etcdraftpb.ConfChangeUpdateNode:
		err = eng.pool.Update(ctx, *mem)
	case etcdraftpb.ConfChangeRemoveNode:
		eng.wg.Add(1)
		go func(mem clusterpb.Member) {
			defer eng.wg.Done()
			select {
			// give the commit ack time to go out before the connection
			// to this member is torn down.
			case <-time.After(eng.cfg.TickInterval() * 2):
				if rerr := eng.pool.Remove(ctx, mem); rerr != nil {
					eng.logger.Errorf("raft.engine: removing member %x: %v", mem.ID, rerr)
				}
			case <-ctx.Done():
			}
		}(*mem)
	}

	if err != nil {
		return
	}

	cs := eng.node.ApplyConfChange(cc)
	eng.confState = cs
	if serr := eng.storage.SaveConfState(ctx, cs); serr != nil {
		eng.logger.Errorf("raft.engine: persisting conf state: %v", serr)
	}
}

// process steps every message off c into the consensus node. raft.Node's
// Step/Propose/ProposeConfChange/Tick are all safe to call concurrently
// with each other and with the Ready consumer — Node itself serializes
// them internally — so this can run independently of eventLoop without
// reintroducing a second mutator of storage or applied state.
func (eng *engine) process(ctx context.Context, c chan etcdraftpb.Message) {
	eng.processwg.Add(1)
	go func() {
		defer eng.processwg.Done()
		for m := range c {
			if ctx.Err() != nil {
				return
			}
			if err := eng.node.Step(ctx, m); err != nil {
				eng.logger.Warningf("raft.engine: step raft message: %v", err)
			}
		}
	}()
}

func (eng *engine) send(ctx context.Context, msgs []etcdraftpb.Message) {
	for _, m := range msgs {
		if m.To == eng.localID {
			if err := eng.node.Step(ctx, m); err != nil {
				eng.logger.Warningf("raft.engine: looping message %s to self: %v", m.Type, err)
			}
			continue
		}

		mem, ok := eng.pool.Get(ctx, m.To)
		if !ok {
			eng.logger.Warningf("raft.engine: sending %s to unknown member %x", m.Type, m.To)
			continue
		}

		if eng.forceSnapshot(ctx, m) {
			continue
		}

		if err := eng.sink.Send(ctx, mem.ID(), mem.Address(), m); err != nil {
			eng.logger.Warningf("raft.engine: sending %s to member %x: %v", m.Type, m.To, err)
			eng.ReportUnreachable(m.To)
			if rep, ok := eng.pool.(membership.Reporter); ok {
				rep.ReportUnreachable(m.To)
			}
		}
	}
}

func (eng *engine) forceSnapshot(ctx context.Context, msg etcdraftpb.Message) bool {
	if msg.Type != etcdraftpb.MsgSnap {
		return false
	}

	cs := msg.Snapshot.Metadata.ConfState
	for _, set := range [][]uint64{cs.Voters, cs.Learners, cs.VotersOutgoing} {
		for _, id := range set {
			if id == msg.To {
				return false
			}
		}
	}

	eng.logger.V(1).Infof("raft.engine: forcing new snapshot, %x is not in the conf state", msg.To)
	defer eng.ReportSnapshot(msg.To, raft.SnapshotFailure)

	if err := eng.createSnapshot(ctx); err != nil {
		eng.logger.Warningf("raft.engine: forcing new snapshot: %v", err)
	}
	return true
}

func (eng *engine) promotions(ctx context.Context) {
	rs := eng.node.Status()
	if rs.Progress == nil {
		return
	}

	var promotions []clusterpb.Member
	reachable, voters := 0, 0

	for _, mem := range eng.pool.Members() {
		raw := mem.Raw()
		if raw.Type == clusterpb.VoterMember {
			voters++
			if mem.IsActive() {
				reachable++
			}
		}

		if raw.Type != clusterpb.StagingMember {
			continue
		}

		leaderMatch := rs.Progress[rs.ID].Match
		stagingMatch := rs.Progress[raw.ID].Match
		if float64(stagingMatch) < float64(leaderMatch)*0.9 {
			continue
		}

		raw.Type = clusterpb.VoterMember
		promotions = append(promotions, raw)
	}

	// quorum already degraded; promoting more voters would only make it
	// harder to regain.
	if reachable < voters/2+1 {
		return
	}

	for _, m := range promotions {
		eng.logger.Infof("raft.engine: promoting staging member %x", m.ID)
		pctx, cancel := context.WithTimeout(ctx, eng.cfg.TickInterval()*5)
		_, err := eng.proposeConfChange(pctx, &m, etcdraftpb.ConfChangeAddNode)
		if err != nil {
			eng.logger.Warningf("raft.engine: promoting staging member %x: %v", m.ID, err)
		}
		cancel()
	}
}

func (eng *engine) maybeCreateSnapshot(ctx context.Context) {
	if eng.appliedIndex.Get()-eng.snapIndex.Get() <= eng.cfg.SnapInterval() || eng.snapshoting.True() {
		return
	}

	if err := eng.createSnapshot(ctx); err != nil {
		if errors.Is(err, ErrFailedPrecondition) {
			return
		}
		eng.logger.Errorf("raft.engine: creating new snapshot at index %d failed: %v", eng.appliedIndex.Get(), err)
	}
}

func (eng *engine) createSnapshot(ctx context.Context) error {
	appliedIndex := eng.appliedIndex.Get()
	snapIndex := eng.snapIndex.Get()

	if appliedIndex == snapIndex {
		return nil
	}
	if eng.snapshoting.True() {
		return ErrAlreadySnapshotting
	}
	eng.snapshoting.Set()

	r, err := eng.fsm.Snapshot()
	if err != nil {
		eng.snapshoting.UnSet()
		return err
	}

	eng.logger.Infof("raft.engine: starting snapshot [applied %d | last snapshot %d]", appliedIndex, snapIndex)

	snap, err := eng.storage.CreateSnapshot(ctx, appliedIndex, eng.confState, nil)
	if err != nil {
		eng.snapshoting.UnSet()
		return err
	}

	ss := storage.Snapshot{
		Raw:     snap,
		Members: eng.pool.Snapshot(ctx),
		Data:    r,
	}

	fn := func() (err error) {
		defer eng.snapshoting.UnSet()
		start := time.Now()
		defer func() { snapshotDuration.WithLabelValues(snapshotResultLabel(err)).Observe(time.Since(start).Seconds()) }()

		if err := eng.storage.Snapshotter().Write(&ss); err != nil {
			return err
		}
		if err := eng.storage.SaveSnapshot(ctx, &snap); err != nil {
			return err
		}

		eng.snapIndex.Set(appliedIndex)

		if appliedIndex <= eng.cfg.SnapInterval() {
			return nil
		}

		compactIndex := appliedIndex - eng.cfg.SnapInterval()
		if err := eng.storage.Compact(compactIndex); err != nil {
			return err
		}
		eng.logger.Infof("raft.engine: compacted log at index %d", compactIndex)
		return nil
	}

	eng.wg.Add(1)
	go func() {
		defer eng.wg.Done()
		if err := fn(); err != nil {
			eng.snapIndex.Set(snapIndex)
			eng.logger.Errorf("raft.engine: creating new snapshot at index %d failed: %v", appliedIndex, err)
		}
	}()
	return nil
}

// LinearizableRead blocks until a read-index round trip confirms this
// node's applied state is at least as fresh as the leader's at the time
// of the call.
func (eng *engine) LinearizableRead(ctx context.Context) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.propwg.Add(1)
	defer eng.propwg.Done()

	index, err := func() (uint64, error) {
		dur := eng.cfg.TickInterval() * 5
		buf := make([]byte, 8)
		id := eng.idgen.Next()
		binary.BigEndian.PutUint64(buf, id)

		sub := eng.msgbus.SubscribeOnce(id)
		defer sub.Unsubscribe()

		t := time.NewTicker(dur)
		defer t.Stop()

		for {
			if err := eng.node.ReadIndex(ctx, buf); err != nil {
				return 0, err
			}

			select {
			case <-t.C:
			case v := <-sub.Chan():
				if err, ok := v.(error); ok {
					return 0, err
				}
				return v.(uint64), nil
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-eng.ctx.Done():
				return 0, ErrStopped
			}
		}
	}()
	if err != nil {
		return err
	}

	if index <= eng.appliedIndex.Get() {
		return nil
	}
	return eng.wait(ctx, index)
}

func (eng *engine) ReportUnreachable(id uint64) {
	if eng.started.False() {
		return
	}
	eng.node.ReportUnreachable(id)
}

func (eng *engine) ReportSnapshot(id uint64, status raft.SnapshotStatus) {
	if eng.started.False() {
		return
	}
	eng.node.ReportSnapshot(id, status)
}

func (eng *engine) ReportShutdown(id uint64) {
	if eng.started.False() {
		return
	}
	eng.logger.Info("raft.engine: this member was removed from the cluster, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), eng.cfg.DrainTimeout())
	defer cancel()
	if err := eng.Shutdown(ctx); err != nil {
		eng.logger.Fatal(err)
	}
}

func (eng *engine) Push(msg etcdraftpb.Message) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.propwg.Add(1)
	defer eng.propwg.Done()

	if err := eng.ctx.Err(); err != nil {
		return err
	}

	c := eng.msgc
	if msg.Type == etcdraftpb.MsgProp {
		c = eng.proposec
	}

	select {
	case c <- msg:
	case <-eng.ctx.Done():
		return eng.ctx.Err()
	default:
		return errors.New("raft: inbound queue full")
	}
	return nil
}

func (eng *engine) Status() (raft.Status, error) {
	if eng.started.False() {
		return raft.Status{}, ErrStopped
	}
	return eng.node.Status(), nil
}

func (eng *engine) Shutdown(ctx context.Context) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.started.UnSet()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		eng.cancel()
	}()

	fns := []func() error{
		nopClose(eng.propwg.Wait),
		nopClose(func() {
			close(eng.proposec)
			close(eng.msgc)
			eng.processwg.Wait()
		}),
		nopClose(eng.cancel),
		nopClose(eng.wg.Wait),
		nopClose(func() { close(eng.snapshotc) }),
		nopClose(eng.node.Stop),
		eng.msgbus.Close,
		func() error { return eng.pool.TearDown(ctx) },
		eng.storage.Close,
	}

	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (eng *engine) TransferLeadership(ctx context.Context, transferee uint64) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.propwg.Add(1)
	defer eng.propwg.Done()

	eng.logger.Infof("raft.engine: transferring leadership %x -> %x", eng.node.Status().Lead, transferee)
	eng.node.TransferLeadership(ctx, eng.node.Status().Lead, transferee)

	ticker := time.NewTicker(eng.cfg.TickInterval() / 10)
	defer ticker.Stop()
	for {
		if lead := eng.node.Status().Lead; lead != raft.None && lead == transferee {
			return nil
		}
		select {
		case <-eng.ctx.Done():
			return ErrStopped
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProposeReplicate proposes data for replication and blocks until it is
// applied (or its application fails).
func (eng *engine) ProposeReplicate(ctx context.Context, data []byte) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.propwg.Add(1)
	defer eng.propwg.Done()

	r := &clusterpb.Replicate{CID: eng.idgen.Next(), Data: data}
	buf, err := r.Marshal()
	if err != nil {
		return err
	}

	eng.logger.V(1).Infof("raft.engine: proposing replicate data, change id => %d", r.CID)

	if err := eng.node.Propose(ctx, buf); err != nil {
		proposalsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	err = eng.wait(ctx, r.CID)
	if err != nil {
		proposalsTotal.WithLabelValues("failed").Inc()
		return err
	}
	proposalsTotal.WithLabelValues("applied").Inc()
	return nil
}

func (eng *engine) ProposeConfChange(ctx context.Context, m *clusterpb.Member, t etcdraftpb.ConfChangeType) error {
	if eng.started.False() {
		return ErrStopped
	}
	eng.propwg.Add(1)
	defer eng.propwg.Done()

	id, err := eng.proposeConfChange(ctx, m, t)
	if err != nil {
		return err
	}
	return eng.wait(ctx, id)
}

func (eng *engine) proposeConfChange(ctx context.Context, m *clusterpb.Member, t etcdraftpb.ConfChangeType) (uint64, error) {
	buf, err := m.Marshal()
	if err != nil {
		return 0, err
	}

	cc := etcdraftpb.ConfChange{
		ID:      eng.idgen.Next(),
		Type:    t,
		NodeID:  m.ID,
		Context: buf,
	}

	eng.logger.V(1).Infof("raft.engine: proposing conf change, change id => %d", cc.ID)
	return cc.ID, eng.node.ProposeConfChange(ctx, cc)
}

func (eng *engine) ForgetLeader(ctx context.Context) error {
	return eng.node.ForgetLeader(ctx)
}

// CreateSnapshot asks the driver loop to checkpoint now, unless it is
// already up to date, and returns the resulting metadata.
func (eng *engine) CreateSnapshot() (etcdraftpb.Snapshot, error) {
	if eng.started.False() {
		return etcdraftpb.Snapshot{}, ErrStopped
	}

	if eng.appliedIndex.Get() == eng.snapIndex.Get() {
		return eng.storage.Snapshot()
	}

	c := make(chan error, 1)
	eng.snapshotc <- c
	if err := <-c; err != nil {
		return etcdraftpb.Snapshot{}, err
	}
	return eng.storage.Snapshot()
}

func (eng *engine) wait(ctx context.Context, id uint64) error {
	sub := eng.msgbus.SubscribeOnce(id)
	defer sub.Unsubscribe()

	select {
	case v := <-sub.Chan():
		if v != nil {
			return v.(error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-eng.ctx.Done():
		return ErrStopped
	}
}

func nopClose(fn func()) func() error {
	return func() error {
		fn()
		return nil
	}
}
