package reg

import (
	"sync"
	"sync/atomic"
)

// WriteHook intercepts stores to a register that does not simply latch the
// written value (set/reset and key registers). The hook owns the side
// effects; the cell itself keeps whatever the hook leaves in it.
type WriteHook func(m *Mock, v uint32)

// Mock is an in-memory register file for host builds and tests. Cells are
// created on first touch and start at zero. Every Store and every successful
// CompareAndSwap counts as one write; Peek, Poke and Apply bypass the counters
// so tests can stage and inspect state without disturbing them.
type Mock struct {
	mu    sync.Mutex
	cells map[Addr]*mockCell
	hooks map[Addr]WriteHook

	writes atomic.Uint64
}

type mockCell struct {
	v      atomic.Uint32
	writes atomic.Uint64
}

var _ File = (*Mock)(nil)

// NewMock returns an empty register file.
func NewMock() *Mock {
	return &Mock{
		cells: make(map[Addr]*mockCell),
		hooks: make(map[Addr]WriteHook),
	}
}

func (m *Mock) cell(a Addr) *mockCell {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[a]
	if !ok {
		c = &mockCell{}
		m.cells[a] = c
	}
	return c
}

func (m *Mock) hook(a Addr) WriteHook {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hooks[a]
}

// OnWrite installs h for stores to a, replacing any previous hook.
func (m *Mock) OnWrite(a Addr, h WriteHook) {
	m.mu.Lock()
	m.hooks[a] = h
	m.mu.Unlock()
}

func (m *Mock) Load(a Addr) uint32 { return m.cell(a).v.Load() }

func (m *Mock) Store(a Addr, v uint32) {
	c := m.cell(a)
	m.writes.Add(1)
	c.writes.Add(1)
	if h := m.hook(a); h != nil {
		h(m, v)
		return
	}
	c.v.Store(v)
}

func (m *Mock) CompareAndSwap(a Addr, old, new uint32) bool {
	if m.hook(a) != nil {
		panic("reg: read-modify-write on a write-only register")
	}
	c := m.cell(a)
	if !c.v.CompareAndSwap(old, new) {
		return false
	}
	m.writes.Add(1)
	c.writes.Add(1)
	return true
}

// Peek reads a without touching the counters.
func (m *Mock) Peek(a Addr) uint32 { return m.cell(a).v.Load() }

// Poke writes a directly, skipping hooks and counters.
func (m *Mock) Poke(a Addr, v uint32) { m.cell(a).v.Store(v) }

// Apply performs an uncounted masked update; hooks use it for side effects.
func (m *Mock) Apply(a Addr, mask, value uint32) {
	c := m.cell(a)
	for {
		old := c.v.Load()
		if c.v.CompareAndSwap(old, old&^mask|value&mask) {
			return
		}
	}
}

// Writes returns the number of counted writes across all registers.
func (m *Mock) Writes() uint64 { return m.writes.Load() }

// WritesTo returns the number of counted writes to a.
func (m *Mock) WritesTo(a Addr) uint64 { return m.cell(a).writes.Load() }

// ResetCounters zeroes every write counter.
func (m *Mock) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes.Store(0)
	for _, c := range m.cells {
		c.writes.Store(0)
	}
}
