//go:build linux && !tinygo

package board

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// PeriphResources backs Resources with periph.io on Linux single-board
// computers. A periph i2c.Bus already satisfies drivers.I2C (same Tx).
type PeriphResources struct {
	mu    sync.Mutex
	buses []i2c.BusCloser
}

// NewPeriphResources initialises periph's host drivers.
func NewPeriphResources() (*PeriphResources, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return &PeriphResources{}, nil
}

func (r *PeriphResources) I2C(plan I2CPlan) (drivers.I2C, error) {
	b, err := i2creg.Open(plan.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", plan.Bus, err)
	}
	if plan.Hz > 0 {
		// Most Linux adapters fix the clock in the device tree; ignore refusal.
		_ = b.SetSpeed(physic.Frequency(plan.Hz) * physic.Hertz)
	}
	r.mu.Lock()
	r.buses = append(r.buses, b)
	r.mu.Unlock()
	return b, nil
}

func (r *PeriphResources) Pin(n int) (Pin, error) {
	name := fmt.Sprintf("GPIO%d", n)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pin %d (%s) not found in hardware", n, name)
	}
	return &periphPin{p: p, n: n}, nil
}

func (r *PeriphResources) Close() error {
	r.mu.Lock()
	buses := r.buses
	r.buses = nil
	r.mu.Unlock()

	var first error
	for _, b := range buses {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type periphPin struct {
	p gpio.PinIO
	n int
}

func (p *periphPin) ConfigureOutput(initial bool) error {
	return p.p.Out(gpio.Level(initial))
}

func (p *periphPin) Set(level bool) { _ = p.p.Out(gpio.Level(level)) }
func (p *periphPin) Get() bool      { return p.p.Read() == gpio.High }
func (p *periphPin) Number() int    { return p.n }
