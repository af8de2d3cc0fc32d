//go:build rp2040

package board

import (
	"machine"

	"tinygo.org/x/drivers"

	"wifiwake-go/errcode"
)

// MachineResources maps plans onto TinyGo's machine package. Pin numbers
// are RP2 GP numbers.
type MachineResources struct{}

func NewMachineResources() MachineResources { return MachineResources{} }

func (MachineResources) I2C(plan I2CPlan) (drivers.I2C, error) {
	var hw *machine.I2C
	switch plan.Bus {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, errcode.UnknownBus
	}
	sda := machine.Pin(plan.SDA)
	scl := machine.Pin(plan.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{
		SCL:       scl,
		SDA:       sda,
		Frequency: plan.Hz,
	}); err != nil {
		return nil, err
	}
	return hw, nil
}

func (MachineResources) Pin(n int) (Pin, error) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, errcode.UnknownPin
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, nil
}

// Close is a no-op: buses are process-scoped and deep sleep resets them.
func (MachineResources) Close() error { return nil }

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }
