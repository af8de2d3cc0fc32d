//go:build !tinygo

package board

import (
	"sync"

	"tinygo.org/x/drivers"

	"wifiwake-go/errcode"
)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements drivers.I2C for host-side runs and tests. It records
// every write; reads return zeros. Set Err to make every Tx fail.
type HostI2C struct {
	mu  sync.Mutex
	Err error
	txs []Tx
}

// Tx is one recorded transfer.
type Tx struct {
	Addr uint16
	W    []byte
	Rn   int
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.txs = append(h.txs, Tx{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)})
	for i := range r {
		r[i] = 0
	}
	return nil
}

// Transfers returns a copy of the recorded transfers.
func (h *HostI2C) Transfers() []Tx {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Tx(nil), h.txs...)
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements Pin for host-side tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

func (p *FakePin) Number() int { return p.number }

// ----------------------------- Resources (host) ------------------------------

// HostResources hands out stable fakes: one HostI2C per bus name and one
// FakePin per number, so tests can inspect what the board layer did.
type HostResources struct {
	mu     sync.Mutex
	buses  map[string]*HostI2C
	pins   map[int]*FakePin
	closed int
	// MaxPin rejects pin numbers above it; zero allows any.
	MaxPin int
}

func NewHostResources() *HostResources {
	return &HostResources{buses: map[string]*HostI2C{}, pins: map[int]*FakePin{}}
}

func (h *HostResources) I2C(plan I2CPlan) (drivers.I2C, error) {
	return h.Bus(plan.Bus), nil
}

// Bus returns the fake bus for id, creating it on first use.
func (h *HostResources) Bus(id string) *HostI2C {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buses[id]
	if !ok {
		b = &HostI2C{}
		h.buses[id] = b
	}
	return b
}

func (h *HostResources) Pin(n int) (Pin, error) {
	p, err := h.FakePin(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FakePin returns the fake behind pin n.
func (h *HostResources) FakePin(n int) (*FakePin, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n < 0 || (h.MaxPin > 0 && n > h.MaxPin) {
		return nil, errcode.UnknownPin
	}
	p, ok := h.pins[n]
	if !ok {
		p = &FakePin{number: n}
		h.pins[n] = p
	}
	return p, nil
}

func (h *HostResources) Close() error {
	h.mu.Lock()
	h.closed++
	h.mu.Unlock()
	return nil
}

// Closed reports how many times Close was called.
func (h *HostResources) Closed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
