// Package msgbus implements the one-shot wait/broadcast mechanism the driver
// uses to turn an async propose/conf-change/read-index into a synchronous
// call: a caller subscribes on a change ID before submitting it to the
// consensus node, and the apply path broadcasts on that same ID once the
// entry (or error) is observed.
//
// No source file for this package was present among the retrieved teacher
// files, only its call sites in internal/raftengine (SubscribeOnce,
// Broadcast, BroadcastToAll, Close). Reimplemented from those call sites in
// the same minimal-dependency style as internal/atomic.
package msgbus

import "sync"

// MsgBus fans a broadcast value out to whoever subscribed on its ID.
type MsgBus struct {
	mu     sync.Mutex
	subs   map[uint64][]chan interface{}
	closed bool
}

// New returns an empty MsgBus.
func New() *MsgBus {
	return &MsgBus{subs: make(map[uint64][]chan interface{})}
}

// Subscription is a one-shot subscription on a single ID.
type Subscription struct {
	bus *MsgBus
	id  uint64
	c   chan interface{}
}

// Chan returns the channel the broadcast value arrives on.
func (s *Subscription) Chan() <-chan interface{} { return s.c }

// Unsubscribe removes the subscription. Safe to call even if the value was
// already delivered or the bus closed.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	subs := s.bus.subs[s.id]
	for i, c := range subs {
		if c == s.c {
			s.bus.subs[s.id] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(s.bus.subs[s.id]) == 0 {
		delete(s.bus.subs, s.id)
	}
}

// SubscribeOnce registers a one-shot subscriber for id. The returned channel
// receives at most one value, whatever is later passed to Broadcast(id, v).
func (b *MsgBus) SubscribeOnce(id uint64) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := make(chan interface{}, 1)
	if b.closed {
		close(c)
		return &Subscription{bus: b, id: id, c: c}
	}
	b.subs[id] = append(b.subs[id], c)
	return &Subscription{bus: b, id: id, c: c}
}

// Broadcast delivers v to every subscriber currently registered on id, then
// forgets them (each subscriber is one-shot).
func (b *MsgBus) Broadcast(id uint64, v interface{}) {
	b.mu.Lock()
	subs := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()

	for _, c := range subs {
		c <- v
	}
}

// BroadcastToAll delivers v to every subscriber on every ID, used when the
// engine loses its leader and every pending proposal must be unblocked with
// the same error.
func (b *MsgBus) BroadcastToAll(v interface{}) {
	b.mu.Lock()
	all := b.subs
	b.subs = make(map[uint64][]chan interface{})
	b.mu.Unlock()

	for _, subs := range all {
		for _, c := range subs {
			c <- v
		}
	}
}

// Close unblocks every remaining subscriber with a nil value and marks the
// bus closed; further SubscribeOnce calls return an already-closed channel.
func (b *MsgBus) Close() error {
	b.mu.Lock()
	b.closed = true
	all := b.subs
	b.subs = make(map[uint64][]chan interface{})
	b.mu.Unlock()

	for _, subs := range all {
		for _, c := range subs {
			close(c)
		}
	}
	return nil
}
