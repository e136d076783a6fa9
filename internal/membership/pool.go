package membership

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/etcd/pkg/v3/idutil"
	"go.etcd.io/raft/v3"

	"github.com/metasrv/raft/internal/clusterpb"
)

// pool is the concrete Pool implementation. No source file for this type
// was present among the retrieved teacher files (only internal/membership
// /types.go's interfaces were); built directly from that contract plus
// its call sites in internal/raftengine.
type pool struct {
	mu      sync.RWMutex
	cfg     Config
	members map[uint64]*member
	gen     *idutil.Generator
	matcher func(clusterpb.Member) clusterpb.MemberType
}

var (
	_ Pool     = (*pool)(nil)
	_ Reporter = (*pool)(nil)
)

// New builds an empty Pool seeded with localID for change-ID generation —
// the same kind of idutil.Generator the driver uses for propose/conf-change
// IDs, seeded the same way (the low 16 bits of localID and the current
// time), so the two generators do not have separate ID ranges.
func New(cfg Config, localID uint64) Pool {
	return &pool{
		cfg:     cfg,
		members: make(map[uint64]*member),
		gen:     idutil.NewGenerator(uint16(localID), time.Now()),
	}
}

func (p *pool) NextID(ctx context.Context) uint64 {
	return p.gen.Next()
}

func (p *pool) Members() []Member {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Member, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, m)
	}
	return out
}

func (p *pool) Get(ctx context.Context, id uint64) (Member, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.members[id]
	return m, ok
}

func (p *pool) Add(ctx context.Context, m clusterpb.Member) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.members[m.ID]; ok {
		return errors.Errorf("membership: member %d already exists", m.ID)
	}
	if p.matcher != nil {
		m.Type = p.matcher(m)
	}
	nm := newMember(m)
	nm.markActive()
	p.members[m.ID] = nm
	return nil
}

func (p *pool) Update(ctx context.Context, m clusterpb.Member) error {
	p.mu.RLock()
	existing, ok := p.members[m.ID]
	p.mu.RUnlock()
	if !ok {
		return errors.Errorf("membership: member %d not found", m.ID)
	}
	return existing.Update(m)
}

func (p *pool) Remove(ctx context.Context, m clusterpb.Member) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	existing, ok := p.members[m.ID]
	if !ok {
		return errors.Errorf("membership: member %d not found", m.ID)
	}
	delete(p.members, m.ID)
	return existing.Close()
}

func (p *pool) Snapshot(ctx context.Context) []clusterpb.Member {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]clusterpb.Member, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, m.Raw())
	}
	return out
}

func (p *pool) Restore(ctx context.Context, members []clusterpb.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members = make(map[uint64]*member, len(members))
	for _, m := range members {
		nm := newMember(m)
		nm.markActive()
		p.members[m.ID] = nm
	}
}

func (p *pool) RegisterTypeMatcher(fn func(clusterpb.Member) clusterpb.MemberType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matcher = fn
}

func (p *pool) TearDown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, m := range p.members {
		_ = m.Close()
		delete(p.members, id)
	}
	return nil
}

// ReportUnreachable, ReportShutdown, and ReportSnapshot implement
// Reporter directly against the pool's own member records, so whatever
// observes a delivery failure (the driver's OutboundSink, the bootstrap
// dialer) can report it here without the pool depending on that
// transport in turn.
func (p *pool) ReportUnreachable(id uint64) {
	p.mu.RLock()
	m, ok := p.members[id]
	p.mu.RUnlock()
	if ok {
		m.markInactive()
	}
}

func (p *pool) ReportShutdown(id uint64) {
	p.mu.RLock()
	m, ok := p.members[id]
	p.mu.RUnlock()
	if ok {
		m.markInactive()
	}
}

func (p *pool) ReportSnapshot(id uint64, status raft.SnapshotStatus) {
	p.mu.RLock()
	m, ok := p.members[id]
	p.mu.RUnlock()
	if ok && status == raft.SnapshotFailure {
		m.markInactive()
	}
}
