package membership

import (
	"sync"
	"time"

	"github.com/metasrv/raft/internal/clusterpb"
)

// member is the concrete Member implementation the pool hands out.
type member struct {
	mu          sync.RWMutex
	raw         clusterpb.Member
	activeSince time.Time
	active      bool
}

func newMember(m clusterpb.Member) *member {
	return &member{raw: m, activeSince: time.Time{}, active: m.Type != clusterpb.StagingMember}
}

func (m *member) ID() uint64 { return m.raw.ID }

func (m *member) Address() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw.Address
}

func (m *member) Type() clusterpb.MemberType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw.Type
}

func (m *member) ActiveSince() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeSince
}

func (m *member) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

func (m *member) markActive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		m.activeSince = time.Now()
	}
	m.active = true
}

func (m *member) markInactive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
}

func (m *member) Update(n clusterpb.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = n
	return nil
}

func (m *member) Raw() clusterpb.Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw
}

func (m *member) Close() error { return nil }
