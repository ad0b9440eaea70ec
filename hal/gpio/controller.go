package gpio

import (
	"sync/atomic"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/own"
	"nucleo-hal/hal/reg"
)

// Controller binds the GPIO register blocks to a pin ownership bitmap.
// Pin records are allocated once with the controller; Take, transitions and
// field edits do not allocate.
type Controller struct {
	regs   reg.File
	owners *own.Set
	pins   [NumPins]pinRecord
}

// pinRecord is the per-pin anchor every handle points at. gen advances each
// time a handle for the pin is consumed or released.
type pinRecord struct {
	c   *Controller
	id  ID
	gen atomic.Uint32
}

func (r *pinRecord) base() reg.Addr { return r.id.Port.Base() }

// New returns a controller over regs with every pin free.
func New(regs reg.File) *Controller {
	c := &Controller{regs: regs, owners: own.New(NumPins)}
	for i := range c.pins {
		c.pins[i].c = c
		c.pins[i].id = idFromIndex(i)
	}
	return c
}

// Take claims the pin and returns its Undefined handle. A pin that is
// already claimed yields errcode.Conflict and nothing changes.
func (c *Controller) Take(port Port, num Num) (Undefined, error) {
	id := P(port, num)
	if !id.Valid() {
		return Undefined{}, &errcode.E{C: errcode.InvalidParams, Op: "gpio.Take", Msg: id.String()}
	}
	if err := c.owners.TryAcquire(id.index()); err != nil {
		return Undefined{}, err
	}
	rec := &c.pins[id.index()]
	return Undefined{h: handle{rec: rec, gen: rec.gen.Load()}}, nil
}

// TakeID is Take for an ID.
func (c *Controller) TakeID(id ID) (Undefined, error) { return c.Take(id.Port, id.Num) }

// Held reports whether id is currently claimed.
func (c *Controller) Held(id ID) bool { return id.Valid() && c.owners.Held(id.index()) }

// Claimed returns the number of claimed pins.
func (c *Controller) Claimed() int { return c.owners.Count() }

// Regs returns the register file the controller writes through.
func (c *Controller) Regs() reg.File { return c.regs }

// Mode reads the MODER field of id straight from the register.
func (c *Controller) Mode(id ID) uint32 {
	return reg.ReadField(c.regs, id.Port.Base().Off(OffsetMODER), 2, uint8(id.Num))
}

// ---- process-wide controller ----

var defaultController atomic.Pointer[Controller]

// Configure installs the process-wide controller over regs. Only the first
// call installs; later calls return the installed controller unchanged, so
// claims made through it survive a repeated bring-up.
func Configure(regs reg.File) *Controller {
	if c := defaultController.Load(); c != nil {
		return c
	}
	c := New(regs)
	if !defaultController.CompareAndSwap(nil, c) {
		return defaultController.Load()
	}
	return c
}

// Default returns the process-wide controller or panics if Configure has not
// run.
func Default() *Controller {
	c := defaultController.Load()
	if c == nil {
		panic("gpio: controller not configured")
	}
	return c
}

// Take claims a pin on the process-wide controller.
func Take(port Port, num Num) (Undefined, error) { return Default().Take(port, num) }
