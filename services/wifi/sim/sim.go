// Package sim is a wireless adapter driven by a YAML fixture. The host
// runner uses it in place of a radio; tests use it to script scans.
package sim

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"wifiwake-go/errcode"
	"wifiwake-go/services/wifi"
	"wifiwake-go/types"
)

// Fixture describes what the simulated radio sees and does.
type Fixture struct {
	Adapters  int                      `yaml:"adapters"`
	ScanDelay time.Duration            `yaml:"scan_delay"`
	ScanError string                   `yaml:"scan_error"`
	Silent    bool                     `yaml:"silent"` // never deliver a report
	Networks  []types.NetworkCandidate `yaml:"networks"`
	Connect   ConnectFixture           `yaml:"connect"`
}

type ConnectFixture struct {
	Status types.ConnectionStatus `yaml:"status"`
	Delay  time.Duration          `yaml:"delay"`
	Error  string                 `yaml:"error"` // adapter rejects the request
}

// DefaultFixture is one adapter reporting nothing.
func DefaultFixture() Fixture {
	return Fixture{Adapters: 1, Connect: ConnectFixture{Status: types.StatusSuccess}}
}

func ParseFixture(raw []byte) (Fixture, error) {
	f := DefaultFixture()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixture{}, errcode.Wrap(errcode.InvalidConfig, "sim.fixture", err)
	}
	if f.Adapters < 0 {
		return Fixture{}, &errcode.E{C: errcode.InvalidConfig, Op: "sim.fixture", Msg: "adapters is negative"}
	}
	return f, nil
}

func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, errcode.Wrap(errcode.InvalidConfig, "sim.fixture", err)
	}
	return ParseFixture(raw)
}

// Report is the fixture's networks as one scan report.
func (f Fixture) Report() types.NetworkReport {
	return types.NetworkReport{Networks: append([]types.NetworkCandidate(nil), f.Networks...)}
}

// Finder hands out Fixture.Adapters adapters sharing the fixture.
type Finder struct {
	fx Fixture

	mu       sync.Mutex
	adapters []*Adapter
}

func NewFinder(fx Fixture) *Finder { return &Finder{fx: fx} }

func (f *Finder) FindAllAdapters() ([]wifi.Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adapters == nil {
		for i := 0; i < f.fx.Adapters; i++ {
			f.adapters = append(f.adapters, &Adapter{fx: f.fx})
		}
	}
	out := make([]wifi.Adapter, len(f.adapters))
	for i, a := range f.adapters {
		out[i] = a
	}
	return out, nil
}

// Adapter returns the i'th simulated adapter, for inspection.
func (f *Finder) Adapter(i int) *Adapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.adapters) {
		return nil
	}
	return f.adapters[i]
}

// Adapter replays the fixture. Reports are delivered on a fresh goroutine
// after ScanDelay.
type Adapter struct {
	fx Fixture

	mu          sync.Mutex
	handler     wifi.NetworksChanged
	scans       int
	disconnects int
	connects    []types.NetworkCandidate
	connected   *types.NetworkCandidate
	closed      bool
}

func (a *Adapter) OnNetworksChanged(fn wifi.NetworksChanged) {
	a.mu.Lock()
	a.handler = fn
	a.mu.Unlock()
}

func (a *Adapter) ScanAsync() error {
	a.mu.Lock()
	a.scans++
	h, closed := a.handler, a.closed
	a.mu.Unlock()
	if closed {
		return errors.New("adapter closed")
	}
	if a.fx.ScanError != "" {
		return errors.New(a.fx.ScanError)
	}
	if a.fx.Silent || h == nil {
		return nil
	}
	go func() {
		if a.fx.ScanDelay > 0 {
			time.Sleep(a.fx.ScanDelay)
		}
		h(a, a.fx.Report())
	}()
	return nil
}

func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnects++
	a.connected = nil
	return nil
}

func (a *Adapter) Connect(c types.NetworkCandidate, _ types.ReconnectionKind, _ string) (types.ConnectionResult, error) {
	if a.fx.Connect.Delay > 0 {
		time.Sleep(a.fx.Connect.Delay)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects = append(a.connects, c)
	if a.fx.Connect.Error != "" {
		return types.ConnectionResult{Status: types.StatusUnspecifiedFailure},
			&errcode.E{C: errcode.ConnectFailed, Op: "sim.connect", Msg: a.fx.Connect.Error}
	}
	st := a.fx.Connect.Status
	if st == types.StatusSuccess {
		a.connected = &c
	}
	return types.ConnectionResult{Status: st}, nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}

// Stats is a snapshot of what the adapter was asked to do.
type Stats struct {
	Scans       int
	Disconnects int
	Connects    []types.NetworkCandidate
	Connected   *types.NetworkCandidate
	Closed      bool
}

func (a *Adapter) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := Stats{
		Scans:       a.scans,
		Disconnects: a.disconnects,
		Connects:    append([]types.NetworkCandidate(nil), a.connects...),
		Closed:      a.closed,
	}
	if a.connected != nil {
		c := *a.connected
		s.Connected = &c
	}
	return s
}
