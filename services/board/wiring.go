package board

import (
	"tinygo.org/x/drivers"

	"wifiwake-go/errcode"
)

// Wiring is the display-side hardware brought up for one cycle.
type Wiring struct {
	Desc  Descriptor
	Bus   drivers.I2C
	power Pin
	res   Resources
}

// Open powers the display rail (if the board has one) and claims the I²C
// bus. Boards without a display return errcode.NoDisplay.
func Open(d Descriptor, res Resources) (*Wiring, error) {
	if !d.HasDisplay {
		return nil, errcode.NoDisplay
	}
	w := &Wiring{Desc: d, res: res}
	if d.PowerEnablePin != NoPin {
		p, err := res.Pin(d.PowerEnablePin)
		if err != nil {
			return nil, errcode.Wrap(errcode.UnknownPin, "board.open", err)
		}
		if err := p.ConfigureOutput(true); err != nil {
			return nil, errcode.Wrap(errcode.UnknownPin, "board.open", err)
		}
		w.power = p
	}
	bus, err := res.I2C(d.I2C)
	if err != nil {
		w.Close()
		return nil, errcode.Wrap(errcode.UnknownBus, "board.open", err)
	}
	w.Bus = bus
	return w, nil
}

// Close releases the power-enable pin and the platform resources. The rail
// is left as-is; deep sleep drops it.
func (w *Wiring) Close() error {
	if w == nil {
		return nil
	}
	w.power = nil
	w.Bus = nil
	return w.res.Close()
}
