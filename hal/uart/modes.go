package uart

import "nucleo-hal/errcode"

// SmartCardConfig holds the ISO 7816 settings: whether a parity error is
// answered with a NACK, and the guard time in baud clocks.
type SmartCardConfig struct {
	NACK      bool
	GuardTime uint8
}

// SmartCard, IrDA, RS485 and SingleWire are the special modes a device may
// list in its Features. Their enable sequences are not written yet, so no
// value of these types is ever handed out.
type (
	SmartCard struct {
		port
		sc SmartCardConfig
	}
	IrDA       struct{ port }
	RS485      struct{ port }
	SingleWire struct{ port }
)

// modeCheck refuses a mode the device lacks with errcode.UnsupportedMode and
// an available one with errcode.NotImplemented. Either way nothing is
// written and d stays valid.
func (d Disabled) modeCheck(op string, f Features) error {
	dev := d.device()
	if !dev.Features.Has(f) {
		return &errcode.E{C: errcode.UnsupportedMode, Op: "uart." + op, Msg: dev.Name}
	}
	return d.notImplemented(op)
}

// EnableSmartCard would switch the device to smart card mode.
func (d Disabled) EnableSmartCard(sc SmartCardConfig) (SmartCard, error) {
	return SmartCard{}, d.modeCheck("EnableSmartCard", FeatureSmartCard)
}

func (d Disabled) EnableIrDA() (IrDA, error) {
	return IrDA{}, d.modeCheck("EnableIrDA", FeatureIrDA)
}

// EnableRS485 would enable driver-enable control on the RTS pin.
func (d Disabled) EnableRS485() (RS485, error) {
	return RS485{}, d.modeCheck("EnableRS485", FeatureRS485)
}

// EnableSingleWire would switch the device to half-duplex on the TX pin.
func (d Disabled) EnableSingleWire() (SingleWire, error) {
	return SingleWire{}, d.modeCheck("EnableSingleWire", FeatureSingleWire)
}

// SmartCardConfig returns the smart card settings in effect.
func (s SmartCard) SmartCardConfig() SmartCardConfig { s.l.live(); return s.sc }
