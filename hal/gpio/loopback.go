package gpio

import (
	"sync"

	"nucleo-hal/hal/reg"
)

// Loopback makes m behave like the GPIO blocks for host simulation:
// BSRR and BRR writes update ODR and are reflected in IDR, and LCKR
// implements the key sequence. Bits of IDR not driven through BSRR/BRR keep
// whatever a test pokes into them.
func Loopback(m *reg.Mock) {
	for p := Port(0); p < NumPorts; p++ {
		base := p.Base()
		odr, idr, lckr := base.Off(OffsetODR), base.Off(OffsetIDR), base.Off(OffsetLCKR)

		m.OnWrite(base.Off(OffsetBSRR), func(m *reg.Mock, v uint32) {
			set, clr := v&0xFFFF, v>>16
			clr &^= set // set wins when both halves name the same pin
			m.Apply(odr, set|clr, set)
			m.Apply(idr, set|clr, set)
		})
		m.OnWrite(base.Off(OffsetBRR), func(m *reg.Mock, v uint32) {
			clr := v & 0xFFFF
			m.Apply(odr, clr, 0)
			m.Apply(idr, clr, 0)
		})

		var (
			mu      sync.Mutex
			step    int
			pending uint32
		)
		m.OnWrite(lckr, func(m *reg.Mock, v uint32) {
			mu.Lock()
			defer mu.Unlock()
			if m.Peek(lckr)&lckk != 0 {
				return
			}
			key, bits := v&lckk != 0, v&0xFFFF
			switch {
			case step == 1 && !key && bits == pending:
				step = 2
			case step == 2 && key && bits == pending:
				m.Poke(lckr, lckk|bits)
				step = 0
			case key:
				pending, step = bits, 1
			default:
				step = 0
			}
		})
	}
}
