//go:build tinygo

package logging

import (
	"io"
	"machine"
)

// Output always writes to the USB serial console on the MCU; the name is
// ignored since there is no filesystem.
func Output(string) (io.Writer, func() error, error) {
	return machine.Serial, func() error { return nil }, nil
}
