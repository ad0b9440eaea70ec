package reg

import (
	"sync/atomic"
	"unsafe"
)

// MMIO accesses the physical register at each address. Only meaningful on
// the target; dereferencing peripheral addresses on a host faults.
//
// sync/atomic compiles to LDREX/STREX on Cortex-M4, so CompareAndSwap is a
// true exclusive-access RMW on the peripheral bus.
type MMIO struct{}

var _ File = MMIO{}

func cell(a Addr) *uint32 { return (*uint32)(unsafe.Pointer(uintptr(a))) }

func (MMIO) Load(a Addr) uint32     { return atomic.LoadUint32(cell(a)) }
func (MMIO) Store(a Addr, v uint32) { atomic.StoreUint32(cell(a), v) }
func (MMIO) CompareAndSwap(a Addr, old, new uint32) bool {
	return atomic.CompareAndSwapUint32(cell(a), old, new)
}
