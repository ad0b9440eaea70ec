package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Ownership
	Conflict          Code = "conflict"
	DeviceUnavailable Code = "device_unavailable"

	// Configuration rejection
	BaudNotSupported     Code = "baud_not_supported"
	PinConfig            Code = "pin_config"
	InvalidConfiguration Code = "invalid_configuration"
	InvalidFunction      Code = "invalid_function"
	InvalidParams        Code = "invalid_params"
	UnsupportedMode      Code = "unsupported_mode"
	FeatureNotSupported  Code = "feature_not_supported"
	ClockError           Code = "clock_error"
	Locked               Code = "locked"

	// Declared, not yet sequenced in hardware.
	NotImplemented Code = "not_implemented"

	// Transfer-time conditions reported by the serial contracts.
	ParityError   Code = "parity_error"
	FramingError  Code = "framing_error"
	NoiseError    Code = "noise_error"
	OverrunError  Code = "overrun_error"
	BreakDetected Code = "break_detected"
	Timeout       Code = "timeout"
	BufferFull    Code = "buffer_full"
	BufferEmpty   Code = "buffer_empty"
	DMAError      Code = "dma_error"
	InvalidMode   Code = "invalid_mode"
	BusError      Code = "bus_error"

	Error Code = "error" // generic fallback
)

// Class groups codes by how a caller is expected to react.
type Class uint8

const (
	ClassOther         Class = iota
	ClassConflict            // resource held elsewhere; retry after release
	ClassRejected            // configuration refused; nothing is held
	ClassUnimplemented       // declared contract without hardware sequencing
	ClassTransfer            // line or buffer condition during a transfer
)

func (c Class) String() string {
	switch c {
	case ClassConflict:
		return "conflict"
	case ClassRejected:
		return "rejected"
	case ClassUnimplemented:
		return "unimplemented"
	case ClassTransfer:
		return "transfer"
	default:
		return "other"
	}
}

// Class reports the taxonomy class of c.
func (c Code) Class() Class {
	switch c {
	case Conflict, DeviceUnavailable:
		return ClassConflict
	case BaudNotSupported, PinConfig, InvalidConfiguration, InvalidFunction,
		InvalidParams, UnsupportedMode, FeatureNotSupported, ClockError, Locked:
		return ClassRejected
	case NotImplemented:
		return ClassUnimplemented
	case ParityError, FramingError, NoiseError, OverrunError, BreakDetected,
		Timeout, BufferFull, BufferEmpty, DMAError, InvalidMode, BusError:
		return ClassTransfer
	}
	return ClassOther
}

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped code directly.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E for op with code c and an optional cause.
func Wrap(c Code, op string, cause error) *E {
	return &E{C: c, Op: op, Err: cause}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// ClassOf reports the taxonomy class of err.
func ClassOf(err error) Class { return Of(err).Class() }
