// Package atomic provides the small set of lock-free counters and flags the
// driver loop needs (applied index, snapshot index, started/snapshotting
// flags) without pulling in a dedicated atomics library for four methods.
package atomic

import (
	"strconv"
	"sync/atomic"
)

// Bool is a lock-free boolean flag.
type Bool struct {
	v int32
}

// NewBool returns an unset Bool.
func NewBool() *Bool { return &Bool{} }

func (b *Bool) Set()         { atomic.StoreInt32(&b.v, 1) }
func (b *Bool) UnSet()       { atomic.StoreInt32(&b.v, 0) }
func (b *Bool) True() bool   { return atomic.LoadInt32(&b.v) == 1 }
func (b *Bool) False() bool  { return !b.True() }
func (b *Bool) String() string {
	if b.True() {
		return "true"
	}
	return "false"
}

// Uint64 is a lock-free uint64 counter.
type Uint64 struct {
	v uint64
}

// NewUint64 returns a zeroed Uint64.
func NewUint64() *Uint64 { return &Uint64{} }

func (u *Uint64) Get() uint64    { return atomic.LoadUint64(&u.v) }
func (u *Uint64) Set(v uint64)   { atomic.StoreUint64(&u.v, v) }
func (u *Uint64) String() string { return strconv.FormatUint(u.Get(), 10) }
