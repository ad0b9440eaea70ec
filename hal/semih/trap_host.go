//go:build !(tinygo && cortexm)

package semih

import (
	"io"
	"os"
	"unsafe"
)

// Console receives semihosting output on builds without a debugger trap.
var Console io.Writer = os.Stderr

func trap(op int, arg unsafe.Pointer) {
	if op != SysWrite0 {
		return
	}
	p := (*byte)(arg)
	Console.Write(unsafe.Slice(p, cstrlen(p)))
}
