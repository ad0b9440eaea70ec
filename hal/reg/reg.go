// Package reg is the register file: named, fixed-address, 32-bit cells with
// load, store and compare-and-swap, plus the masked read-modify-write helpers
// every peripheral package builds on.
package reg

// Addr is the absolute address of a 32-bit register.
type Addr uintptr

// Off returns a+off.
func (a Addr) Off(off uint32) Addr { return a + Addr(off) }

// File is the access surface for memory-mapped registers. Implementations
// must make each call a single atomic access to the cell.
type File interface {
	Load(a Addr) uint32
	Store(a Addr, v uint32)
	CompareAndSwap(a Addr, old, new uint32) bool
}

// Update runs a CAS loop on a: fn receives the current value and returns the
// replacement, or ok=false to leave the register untouched. Update returns
// the value observed before the successful swap and whether a swap happened.
func Update(f File, a Addr, fn func(uint32) (uint32, bool)) (uint32, bool) {
	for {
		old := f.Load(a)
		v, ok := fn(old)
		if !ok {
			return old, false
		}
		if f.CompareAndSwap(a, old, v) {
			return old, true
		}
	}
}

// Modify replaces the bits selected by mask with value&mask, leaving every
// other bit as it was.
//
// The update closure always yields a value, so Update can only report "no
// update" if the File breaks its contract; that is a fatal condition.
func Modify(f File, a Addr, mask, value uint32) {
	if _, ok := Update(f, a, func(v uint32) (uint32, bool) {
		return v&^mask | value&mask, true
	}); !ok {
		panic("reg: unreachable: masked update reported no write")
	}
}

// SetBits ORs mask into a.
func SetBits(f File, a Addr, mask uint32) { Modify(f, a, mask, mask) }

// ClearBits clears mask in a.
func ClearBits(f File, a Addr, mask uint32) { Modify(f, a, mask, 0) }

// HasBits reports whether every bit in mask is set in a.
func HasBits(f File, a Addr, mask uint32) bool { return f.Load(a)&mask == mask }
