// Package fmtx is a fmt subset that also builds for the MCU. Host builds
// delegate to fmt; tinygo builds use a small formatter with no reflection.
package fmtx

import "io"

// DefaultOutput receives Print and Printf. Firmware points it at the
// semihosting console during bring-up.
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
