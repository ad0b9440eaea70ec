// Package semih writes to the debugger console through the ARM
// semihosting trap (bkpt 0xAB). Host builds print to Console instead.
package semih

import "unsafe"

// SysWrite0 is the semihosting operation that prints a NUL-terminated
// string.
const SysWrite0 = 0x04

// Write0 prints the NUL-terminated string at msg. The debugger's status is
// not reported; the return value is always 0.
func Write0(msg *byte) uint32 {
	if msg == nil {
		return 0
	}
	trap(SysWrite0, unsafe.Pointer(msg))
	return 0
}

// WriteDebug prints the NUL-terminated string at msg.
func WriteDebug(msg *byte) { Write0(msg) }

// Writer adapts the console to io.Writer. Output is copied through a fixed
// buffer so no allocation happens per call; a Writer must not be shared
// between contexts that can preempt each other.
type Writer struct {
	buf [128]byte
}

func (w *Writer) Write(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		chunk := copy(w.buf[:len(w.buf)-1], p[n:])
		// An embedded NUL would end the string early; drop it.
		end := 0
		for i := 0; i < chunk; i++ {
			if c := w.buf[i]; c != 0 {
				w.buf[end] = c
				end++
			}
		}
		w.buf[end] = 0
		Write0(&w.buf[0])
		n += chunk
	}
	return n, nil
}

// cstrlen returns the length of the NUL-terminated string at p.
func cstrlen(p *byte) int {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
