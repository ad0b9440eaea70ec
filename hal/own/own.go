// Package own is the ownership arbiter: a fixed-size atomic bitmap with one
// bit per physical resource. A set bit means the resource is claimed.
//
// Claims are a single compare-and-swap that fails if the bit is already set;
// there is no path that forces a bit on. sync/atomic operations are
// sequentially consistent, so a successful TryAcquire happens-before any
// register access made through the resulting handle, and every register
// access made before Release is visible to the next acquirer.
package own

import (
	"sync/atomic"

	"nucleo-hal/errcode"
)

const wordBits = 32

// Set is a bitmap of n claimable resources.
type Set struct {
	n     int
	words []atomic.Uint32
}

// New returns a Set of n free resources. Allocate it once at start-up.
func New(n int) *Set {
	if n < 0 {
		n = 0
	}
	return &Set{n: n, words: make([]atomic.Uint32, (n+wordBits-1)/wordBits)}
}

// Len reports the number of resources tracked.
func (s *Set) Len() int { return s.n }

func (s *Set) locate(id int) (w *atomic.Uint32, mask uint32, ok bool) {
	if id < 0 || id >= s.n {
		return nil, 0, false
	}
	return &s.words[id/wordBits], 1 << uint(id%wordBits), true
}

// TryAcquire claims id. It returns errcode.Conflict, without mutating
// anything, when id is already held.
func (s *Set) TryAcquire(id int) error {
	w, mask, ok := s.locate(id)
	if !ok {
		return errcode.InvalidParams
	}
	for {
		old := w.Load()
		if old&mask != 0 {
			return errcode.Conflict
		}
		if w.CompareAndSwap(old, old|mask) {
			return nil
		}
	}
}

// Release frees id. Releasing a free or out-of-range id is a no-op.
func (s *Set) Release(id int) {
	w, mask, ok := s.locate(id)
	if !ok {
		return
	}
	w.And(^mask)
}

// Held reports whether id is currently claimed.
func (s *Set) Held(id int) bool {
	w, mask, ok := s.locate(id)
	return ok && w.Load()&mask != 0
}

// Count returns the number of claimed resources.
func (s *Set) Count() int {
	n := 0
	for i := range s.words {
		v := s.words[i].Load()
		for v != 0 {
			v &= v - 1
			n++
		}
	}
	return n
}
