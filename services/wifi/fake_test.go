package wifi

import (
	"errors"
	"sync"

	"wifiwake-go/types"
)

type connectCall struct {
	Candidate  types.NetworkCandidate
	Kind       types.ReconnectionKind
	Credential string
}

// fakeAdapter delivers report from a new goroutine on each ScanAsync.
type fakeAdapter struct {
	mu          sync.Mutex
	report      types.NetworkReport
	status      types.ConnectionStatus
	connectErr  error
	scanErr     error
	panicOnScan bool
	silent      bool

	handler     NetworksChanged
	scans       int
	disconnects int
	connects    []connectCall
	closed      bool
}

func (f *fakeAdapter) ScanAsync() error {
	f.mu.Lock()
	f.scans++
	h := f.handler
	f.mu.Unlock()
	if f.panicOnScan {
		panic("radio fault")
	}
	if f.scanErr != nil {
		return f.scanErr
	}
	if !f.silent && h != nil {
		go h(f, f.report)
	}
	return nil
}

func (f *fakeAdapter) OnNetworksChanged(fn NetworksChanged) {
	f.mu.Lock()
	f.handler = fn
	f.mu.Unlock()
}

func (f *fakeAdapter) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return errors.New("not connected")
}

func (f *fakeAdapter) Connect(c types.NetworkCandidate, k types.ReconnectionKind, cred string) (types.ConnectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, connectCall{c, k, cred})
	return types.ConnectionResult{Status: f.status}, f.connectErr
}

func (f *fakeAdapter) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeAdapter) counts() (scans, disconnects int, connects []connectCall, closed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans, f.disconnects, append([]connectCall(nil), f.connects...), f.closed
}

func finderOf(as ...Adapter) Finder {
	return FinderFunc(func() ([]Adapter, error) { return as, nil })
}

func net(ssid string, rssi int) types.NetworkCandidate {
	return types.NetworkCandidate{SSID: ssid, BSSID: "aa:bb:cc:00:00:" + ssid[:1], RSSI: rssi, SignalBars: 2}
}

func report(ns ...types.NetworkCandidate) types.NetworkReport {
	return types.NetworkReport{Networks: ns}
}
