package gpio

import (
	"nucleo-hal/errcode"
	"nucleo-hal/hal/reg"
)

type handle struct {
	rec *pinRecord
	gen uint32
}

// live returns the record, panicking if h has been consumed or released.
func (h handle) live() *pinRecord {
	if h.rec == nil {
		panic("gpio: use of zero pin handle")
	}
	if h.rec.gen.Load() != h.gen {
		panic("gpio: use of stale pin handle " + h.rec.id.String())
	}
	return h.rec
}

// advance retires h and returns its successor.
func (h handle) advance() handle {
	rec := h.live()
	if !rec.gen.CompareAndSwap(h.gen, h.gen+1) {
		panic("gpio: pin handle " + rec.id.String() + " consumed concurrently")
	}
	return handle{rec: rec, gen: h.gen + 1}
}

// release retires h and frees the pin. A stale or zero handle is ignored so
// that double release cannot free a pin someone else has since claimed.
func (h handle) release() {
	if h.rec == nil {
		return
	}
	if h.rec.gen.CompareAndSwap(h.gen, h.gen+1) {
		h.rec.c.owners.Release(h.rec.id.index())
	}
}

// into rewrites the pin's 2-bit MODER field to the code for to and returns
// the successor handle. A locked pin is refused and h stays valid.
func (h handle) into(from, to State) (handle, error) {
	rec := h.live()
	code, ok := to.code()
	if !ok || !Legal(from, to) {
		panic("gpio: illegal transition " + from.String() + " -> " + to.String())
	}
	if rec.locked() {
		return h, &errcode.E{C: errcode.Locked, Op: "gpio.into", Msg: rec.id.String() + " -> " + to.String()}
	}
	reg.WriteField(rec.c.regs, rec.base().Off(OffsetMODER), 2, uint8(rec.id.Num), code)
	return h.advance(), nil
}

func (r *pinRecord) locked() bool {
	v := r.c.regs.Load(r.base().Off(OffsetLCKR))
	return v&lckk != 0 && v&(1<<r.id.Num) != 0
}

// Undefined is a freshly claimed pin whose mode has not been set.
type Undefined struct{ h handle }

func (p Undefined) ID() ID { return p.h.live().id }

// Release frees the pin.
func (p Undefined) Release() { p.h.release() }

func (p Undefined) IntoInput() (Input, error) {
	h, err := p.h.into(StateUndefined, StateInput)
	if err != nil {
		return Input{}, err
	}
	return Input{configured{h}}, nil
}

func (p Undefined) IntoOutput() (Output, error) {
	h, err := p.h.into(StateUndefined, StateOutput)
	if err != nil {
		return Output{}, err
	}
	return Output{configured{h}}, nil
}

func (p Undefined) IntoAnalog() (Analog, error) {
	h, err := p.h.into(StateUndefined, StateAnalog)
	if err != nil {
		return Analog{}, err
	}
	return Analog{configured{h}}, nil
}

func (p Undefined) IntoAlternate() (Alternate, error) {
	h, err := p.h.into(StateUndefined, StateAlternate)
	if err != nil {
		return Alternate{}, err
	}
	return Alternate{configured{h}}, nil
}

// Input is a pin in digital input mode.
type Input struct{ configured }

func (p Input) IntoOutput() (Output, error) {
	h, err := p.h.into(StateInput, StateOutput)
	if err != nil {
		return Output{}, err
	}
	return Output{configured{h}}, nil
}

func (p Input) IntoAnalog() (Analog, error) {
	h, err := p.h.into(StateInput, StateAnalog)
	if err != nil {
		return Analog{}, err
	}
	return Analog{configured{h}}, nil
}

func (p Input) IntoAlternate() (Alternate, error) {
	h, err := p.h.into(StateInput, StateAlternate)
	if err != nil {
		return Alternate{}, err
	}
	return Alternate{configured{h}}, nil
}

// Output is a pin in general-purpose output mode.
type Output struct{ configured }

func (p Output) IntoInput() (Input, error) {
	h, err := p.h.into(StateOutput, StateInput)
	if err != nil {
		return Input{}, err
	}
	return Input{configured{h}}, nil
}

func (p Output) IntoAnalog() (Analog, error) {
	h, err := p.h.into(StateOutput, StateAnalog)
	if err != nil {
		return Analog{}, err
	}
	return Analog{configured{h}}, nil
}

func (p Output) IntoAlternate() (Alternate, error) {
	h, err := p.h.into(StateOutput, StateAlternate)
	if err != nil {
		return Alternate{}, err
	}
	return Alternate{configured{h}}, nil
}

// Analog is a pin in analog mode.
type Analog struct{ configured }

func (p Analog) IntoInput() (Input, error) {
	h, err := p.h.into(StateAnalog, StateInput)
	if err != nil {
		return Input{}, err
	}
	return Input{configured{h}}, nil
}

func (p Analog) IntoOutput() (Output, error) {
	h, err := p.h.into(StateAnalog, StateOutput)
	if err != nil {
		return Output{}, err
	}
	return Output{configured{h}}, nil
}

func (p Analog) IntoAlternate() (Alternate, error) {
	h, err := p.h.into(StateAnalog, StateAlternate)
	if err != nil {
		return Alternate{}, err
	}
	return Alternate{configured{h}}, nil
}

// Alternate is a pin routed to a peripheral.
type Alternate struct{ configured }

func (p Alternate) IntoInput() (Input, error) {
	h, err := p.h.into(StateAlternate, StateInput)
	if err != nil {
		return Input{}, err
	}
	return Input{configured{h}}, nil
}

func (p Alternate) IntoOutput() (Output, error) {
	h, err := p.h.into(StateAlternate, StateOutput)
	if err != nil {
		return Output{}, err
	}
	return Output{configured{h}}, nil
}

func (p Alternate) IntoAnalog() (Analog, error) {
	h, err := p.h.into(StateAlternate, StateAnalog)
	if err != nil {
		return Analog{}, err
	}
	return Analog{configured{h}}, nil
}

// SetFunction selects the alternate function. Pins 0..7 are programmed in
// AFRL, pins 8..15 in AFRH.
func (p Alternate) SetFunction(af AF) error {
	rec := p.h.live()
	if !af.Valid() {
		return &errcode.E{C: errcode.InvalidFunction, Op: "gpio.SetFunction", Msg: rec.id.String()}
	}
	off, idx := afrSlot(rec.id.Num)
	reg.WriteField(rec.c.regs, rec.base().Off(off), 4, idx, uint32(af))
	return nil
}

// Function reads back the alternate-function code.
func (p Alternate) Function() AF {
	rec := p.h.live()
	off, idx := afrSlot(rec.id.Num)
	return AF(reg.ReadField(rec.c.regs, rec.base().Off(off), 4, idx))
}
