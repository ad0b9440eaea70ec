// Package trace emits tagged debug lines such as "[uart] rollback: PA10".
// Output goes to fmtx.DefaultOutput, which firmware points at semihosting.
package trace

import (
	"sync/atomic"

	"nucleo-hal/x/fmtx"
)

var enabled atomic.Bool

// Enable switches tracing on or off.
func Enable(on bool) { enabled.Store(on) }

// Enabled reports whether tracing is on. Hot paths test it before calling
// Printf so the arguments are not boxed while tracing is off.
func Enabled() bool { return enabled.Load() }

// Printf writes "[tag] " followed by the formatted message and a newline.
func Printf(tag, format string, a ...any) {
	if !enabled.Load() {
		return
	}
	fmtx.Fprintf(fmtx.DefaultOutput, "["+tag+"] "+format+"\n", a...)
}
