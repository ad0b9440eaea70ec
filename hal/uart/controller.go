package uart

import (
	"sync/atomic"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/internal/trace"
	"nucleo-hal/hal/own"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
)

// Pins names the transmit pin and the optional receive pin. RXPort and
// RXPin must be both set or both nil.
type Pins struct {
	TXPort gpio.Port
	TXPin  gpio.Num
	RXPort *gpio.Port
	RXPin  *gpio.Num
}

// TXOnly is a Pins with no receive line.
func TXOnly(tx gpio.ID) Pins { return Pins{TXPort: tx.Port, TXPin: tx.Num} }

// TXRX is a Pins with both lines.
func TXRX(tx, rx gpio.ID) Pins {
	return Pins{TXPort: tx.Port, TXPin: tx.Num, RXPort: &rx.Port, RXPin: &rx.Num}
}

func (p Pins) tx() gpio.ID { return gpio.P(p.TXPort, p.TXPin) }

func (p Pins) rx() (gpio.ID, bool) {
	if p.RXPort == nil || p.RXPin == nil {
		return gpio.ID{}, false
	}
	return gpio.P(*p.RXPort, *p.RXPin), true
}

// Controller arbitrates the serial devices. It shares its register file and
// pin ownership with a gpio.Controller.
type Controller struct {
	regs    reg.File
	pins    *gpio.Controller
	clocks  rcc.Clocks
	owners  *own.Set
	records [NumDevices]devRecord
}

// devRecord anchors device leases the way gpio pin records anchor pin
// handles.
type devRecord struct {
	c   *Controller
	dev *Device
	gen atomic.Uint32
}

// New returns a controller with every device free.
func New(pins *gpio.Controller, clocks rcc.Clocks) *Controller {
	c := &Controller{regs: pins.Regs(), pins: pins, clocks: clocks, owners: own.New(NumDevices)}
	for i := range c.records {
		c.records[i].c = c
		c.records[i].dev = &devices[i]
	}
	return c
}

// Held reports whether id is claimed.
func (c *Controller) Held(id DeviceID) bool { return id.Valid() && c.owners.Held(int(id)) }

// Clocks returns the bus frequencies used for divisor computation.
func (c *Controller) Clocks() rcc.Clocks { return c.clocks }

// Open claims the pins and the device, routes the pins, enables the device
// clock and programs cfg. Validation runs before anything is claimed, so a
// rejected configuration makes no register writes. A failure after that
// point releases everything claimed so far.
func (c *Controller) Open(id DeviceID, pins Pins, cfg Config) (Disabled, error) {
	const op = "uart.Open"
	dev, ok := Lookup(id)
	if !ok {
		return Disabled{}, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "unknown device"}
	}
	if (pins.RXPort == nil) != (pins.RXPin == nil) {
		return Disabled{}, &errcode.E{C: errcode.PinConfig, Op: op, Msg: dev.Name + ": rx port and pin must be given together"}
	}
	brr, err := cfg.Validate(dev, c.clocks)
	if err != nil {
		return Disabled{}, err
	}

	txID := pins.tx()
	txAF, ok := dev.TXFunction(txID)
	if !ok {
		return Disabled{}, &errcode.E{C: errcode.PinConfig, Op: op, Msg: dev.Name + ": no tx route on " + txID.String()}
	}
	rxID, hasRX := pins.rx()
	var rxAF gpio.AF
	if hasRX {
		if rxAF, ok = dev.RXFunction(rxID); !ok {
			return Disabled{}, &errcode.E{C: errcode.PinConfig, Op: op, Msg: dev.Name + ": no rx route on " + rxID.String()}
		}
		if rxID == txID {
			return Disabled{}, &errcode.E{C: errcode.PinConfig, Op: op, Msg: dev.Name + ": tx and rx on the same pin"}
		}
	}

	tx, err := c.claim(txID)
	if err != nil {
		return Disabled{}, wrapClaim(op, dev, err)
	}
	var rx gpio.Alternate
	if hasRX {
		if rx, err = c.claim(rxID); err != nil {
			if trace.Enabled() {
				trace.Printf("uart", "%s: rollback %s", dev.Name, txID)
			}
			tx.Release()
			return Disabled{}, wrapClaim(op, dev, err)
		}
	}

	rec := &c.records[id]
	if err := c.owners.TryAcquire(int(id)); err != nil {
		if trace.Enabled() {
			trace.Printf("uart", "%s: busy, rollback pins", dev.Name)
		}
		tx.Release()
		if hasRX {
			rx.Release()
		}
		return Disabled{}, &errcode.E{C: errcode.DeviceUnavailable, Op: op, Msg: dev.Name, Err: err}
	}

	mustRoute(tx, txAF)
	if hasRX {
		mustRoute(rx, rxAF)
	}
	rcc.Enable(c.regs, dev.Clock)
	rcc.SelectSource(c.regs, dev.Selector, cfg.ClockSource)
	program(c.regs, dev, cfg, brr)
	if trace.Enabled() {
		trace.Printf("uart", "%s: open brr=%x", dev.Name, brr)
	}

	return Disabled{port{l: lease{rec: rec, gen: rec.gen.Load()}, tx: tx, rx: rx, hasRX: hasRX, cfg: cfg}}, nil
}

// claim takes a pin and moves it to Alternate, releasing it again if the
// transition is refused.
func (c *Controller) claim(id gpio.ID) (gpio.Alternate, error) {
	u, err := c.pins.TakeID(id)
	if err != nil {
		return gpio.Alternate{}, err
	}
	alt, err := u.IntoAlternate()
	if err != nil {
		u.Release()
		return gpio.Alternate{}, err
	}
	return alt, nil
}

// mustRoute programs an AF that came from the capability table, so the
// code is always in range.
func mustRoute(p gpio.Alternate, af gpio.AF) {
	if err := p.SetFunction(af); err != nil {
		panic("uart: capability table holds invalid function: " + err.Error())
	}
}

func wrapClaim(op string, dev *Device, err error) error {
	c := errcode.PinConfig
	if errcode.Of(err) == errcode.Conflict {
		c = errcode.DeviceUnavailable
	}
	return &errcode.E{C: c, Op: op, Msg: dev.Name, Err: err}
}

// ---- process-wide controller ----

var defaultController atomic.Pointer[Controller]

// Configure installs the process-wide serial controller. As with
// gpio.Configure, only the first call installs; later calls return the
// installed controller and its device claims.
func Configure(pins *gpio.Controller, clocks rcc.Clocks) *Controller {
	if c := defaultController.Load(); c != nil {
		return c
	}
	c := New(pins, clocks)
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
		panic("uart: controller not configured")
	}
	return c
}

// Open opens a device on the process-wide controller.
func Open(id DeviceID, pins Pins, cfg Config) (Disabled, error) {
	return Default().Open(id, pins, cfg)
}
