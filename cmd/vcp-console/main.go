// Command vcp-console talks to the Nucleo board's ST-LINK virtual COM port
// (or any other serial plan of the board) using the frame format the
// firmware is configured with.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/tarm/serial"
	"golang.org/x/term"

	"nucleo-hal/x/fmtx"
)

func main() {
	var o options
	var keys, raw bool
	flag.StringVar(&o.Device, "port", "/dev/ttyACM0", "serial device")
	flag.StringVar(&o.Plan, "plan", "vcp", "board serial plan (vcp, arduino)")
	flag.UintVar(&o.Baud, "baud", 0, "override baud rate")
	flag.UintVar(&o.Bits, "bits", 0, "override data bits (7, 8)")
	flag.StringVar(&o.Parity, "parity", "", "override parity (none, even, odd)")
	flag.StringVar(&o.Stop, "stop", "", "override stop bits (1, 1.5, 2)")
	flag.DurationVar(&o.Timeout, "timeout", 100*time.Millisecond, "read timeout")
	flag.BoolVar(&raw, "raw", false, "put the terminal in raw mode and pass bytes through")
	flag.BoolVar(&keys, "keys", false, "translate keypresses to VT100 sequences; Ctrl-] quits")
	flag.Parse()

	if err := run(o, raw, keys); err != nil {
		fmtx.Fprintf(os.Stderr, "vcp-console: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, raw, keys bool) error {
	cfg, err := frameConfig(o)
	if err != nil {
		return err
	}
	pc, err := portConfig(o.Device, cfg, o.Timeout)
	if err != nil {
		return err
	}
	port, err := serial.OpenPort(pc)
	if err != nil {
		return fmtx.Errorf("open %s: %w", o.Device, err)
	}
	defer port.Close()
	fmtx.Fprintf(os.Stderr, "[vcp] %s %d baud\n", o.Device, cfg.Baud)

	go copyFromPort(os.Stdout, port)

	stdin := int(os.Stdin.Fd())
	switch {
	case keys:
		return pumpKeys(port)
	case raw && term.IsTerminal(stdin):
		old, err := term.MakeRaw(stdin)
		if err != nil {
			return err
		}
		defer term.Restore(stdin, old)
		_, err = io.Copy(port, os.Stdin)
		return err
	default:
		_, err = io.Copy(port, os.Stdin)
		return err
	}
}

// copyFromPort echoes the board's output. Read timeouts surface as zero
// length reads and are skipped.
func copyFromPort(w io.Writer, r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			w.Write(buf[:n])
		}
		if err != nil && err != io.EOF {
			return
		}
	}
}
