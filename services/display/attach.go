package display

import (
	"wifiwake-go/services/board"
)

// Attach brings up the panel described by d. When the board has no
// display, or disabled is set, it returns Nop. On a wiring error it also
// returns Nop alongside the error, so the cycle can go on without output.
// release frees the display pins and bus.
func Attach(d board.Descriptor, res board.Resources, disabled bool) (r Reporter, release func() error, err error) {
	noop := func() error { return nil }
	if disabled || !d.HasDisplay {
		return Nop{}, noop, nil
	}
	w, err := board.Open(d, res)
	if err != nil {
		return Nop{}, noop, err
	}
	return NewSSD1306(w.Bus, d.DisplayAddr, d.DisplayWidth, d.DisplayHeight), w.Close, nil
}
