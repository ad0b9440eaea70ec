package uart

import (
	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/internal/trace"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
)

// lease is a generation-checked claim on a device bit. Like gpio handles,
// a lease goes stale once the handle holding it is consumed.
type lease struct {
	rec *devRecord
	gen uint32
}

func (l lease) live() *devRecord {
	if l.rec == nil {
		panic("uart: use of zero serial handle")
	}
	if l.rec.gen.Load() != l.gen {
		panic("uart: use of stale " + l.rec.dev.Name + " handle")
	}
	return l.rec
}

func (l lease) advance() lease {
	rec := l.live()
	if !rec.gen.CompareAndSwap(l.gen, l.gen+1) {
		panic("uart: " + rec.dev.Name + " handle consumed concurrently")
	}
	return lease{rec: rec, gen: l.gen + 1}
}

// port is the state shared by all serial handle types.
type port struct {
	l     lease
	tx    gpio.Alternate
	rx    gpio.Alternate
	hasRX bool
	cfg   Config
}

func (p port) device() *Device { return p.l.live().dev }

func (p port) regs() reg.File { return p.l.live().c.regs }

// Device returns the capability record of the underlying device.
func (p port) Device() *Device { return p.device() }

// Config returns the configuration the device was opened with.
func (p port) Config() Config { p.l.live(); return p.cfg }

// TX returns the transmit pin, e.g. "PG7".
func (p port) TX() gpio.ID { return p.tx.ID() }

// RX returns the receive pin, if one was claimed.
func (p port) RX() (gpio.ID, bool) {
	if !p.hasRX {
		return gpio.ID{}, false
	}
	return p.rx.ID(), true
}

// Release disables the device, turns its clock off and frees the device
// and both pins. Releasing a stale handle does nothing.
func (p port) Release() {
	rec := p.l.rec
	if rec == nil || !rec.gen.CompareAndSwap(p.l.gen, p.l.gen+1) {
		return
	}
	dev, regs := rec.dev, rec.c.regs
	reg.ClearBits(regs, dev.at(OffsetCR1), UE|TE|RE)
	rcc.Disable(regs, dev.Clock)
	rec.c.owners.Release(int(dev.ID))
	p.tx.Release()
	if p.hasRX {
		p.rx.Release()
	}
	if trace.Enabled() {
		trace.Printf("uart", "%s: released", dev.Name)
	}
}

// directionBits is TE, plus RE when a receive pin is held.
func (p port) directionBits() uint32 {
	if p.hasRX {
		return TE | RE
	}
	return TE
}

// Disabled is an opened device with its transmitter and receiver off.
type Disabled struct{ port }

// EnableAsync turns on the transmitter, the receiver if present, and the
// device.
func (d Disabled) EnableAsync() (Async, error) {
	dev, regs := d.device(), d.regs()
	reg.ClearBits(regs, dev.at(OffsetCR2), syncMask)
	reg.SetBits(regs, dev.at(OffsetCR1), d.directionBits()|UE)
	p := d.port
	p.l = d.l.advance()
	return Async{p}, nil
}

// EnableSync turns on synchronous mode with a clock on the CK pin. Devices
// without synchronous support report errcode.UnsupportedMode and d stays
// valid.
func (d Disabled) EnableSync(sc SyncConfig) (Sync, error) {
	dev, regs := d.device(), d.regs()
	if !dev.Features.Has(FeatureSync) {
		return Sync{}, &errcode.E{C: errcode.UnsupportedMode, Op: "uart.EnableSync", Msg: dev.Name}
	}
	if !sc.valid() {
		return Sync{}, &errcode.E{C: errcode.InvalidConfiguration, Op: "uart.EnableSync", Msg: dev.Name}
	}
	reg.Modify(regs, dev.at(OffsetCR2), syncMask, syncBits(sc))
	reg.SetBits(regs, dev.at(OffsetCR1), d.directionBits()|UE)
	p := d.port
	p.l = d.l.advance()
	return Sync{port: p, sync: sc}, nil
}

// Async is a device running in asynchronous mode.
type Async struct{ port }

// Disable turns the device off and returns it to Disabled.
func (a Async) Disable() Disabled {
	return Disabled{a.disable()}
}

func (p port) disable() port {
	dev, regs := p.device(), p.regs()
	reg.ClearBits(regs, dev.at(OffsetCR1), UE|TE|RE)
	q := p
	q.l = p.l.advance()
	return q
}

// Sync is a device running in synchronous mode.
type Sync struct {
	port
	sync SyncConfig
}

// Disable turns the device and its clock output off and returns it to
// Disabled.
func (s Sync) Disable() Disabled {
	p := s.disable()
	reg.ClearBits(p.regs(), p.device().at(OffsetCR2), syncMask)
	return Disabled{p}
}

// SyncConfig returns the clock settings in effect.
func (s Sync) SyncConfig() SyncConfig { s.l.live(); return s.sync }
