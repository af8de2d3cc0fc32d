//go:build rp2040

package logging

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"wifiwake-go/services/board"
)

// Mirror returns a writer that copies the console to the board's log UART
// when the board has one.
func Mirror(console io.Writer, plan *board.UARTPlan) io.Writer {
	if plan == nil {
		return console
	}
	var hw *uartx.UART
	switch plan.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return console
	}
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: plan.Baud,
		TX:       machine.Pin(plan.TX),
		RX:       machine.Pin(plan.RX),
	})
	return io.MultiWriter(console, hw)
}
