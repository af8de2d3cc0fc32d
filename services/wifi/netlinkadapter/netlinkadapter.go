//go:build pyportal || nano_rp2040 || metro_m4_airlift || arduino_mkrwifi1010 || matrixportal_m4

// Package netlinkadapter runs the scan worker on a TinyGo netlink radio.
//
// netlink exposes no scan primitive, so a scan is an association probe
// against the target network: when it answers, the report holds that one
// network; otherwise the report is empty. Signal strength is not exposed
// and is reported as 0 dBm.
package netlinkadapter

import (
	"errors"
	"sync"
	"time"

	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"wifiwake-go/services/wifi"
	"wifiwake-go/types"
)

// Finder probes the board's radio once.
type Finder struct {
	TargetSSID string
	Credential string
	// ProbeTimeout bounds the association probe.
	ProbeTimeout time.Duration
}

func (f Finder) FindAllAdapters() ([]wifi.Adapter, error) {
	link, _ := probe.Probe()
	if link == nil {
		return nil, nil
	}
	timeout := f.ProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return []wifi.Adapter{&Adapter{link: link, target: f.TargetSSID, cred: f.Credential, timeout: timeout}}, nil
}

type Adapter struct {
	link    netlink.Netlinker
	target  string
	cred    string
	timeout time.Duration

	mu      sync.Mutex
	handler wifi.NetworksChanged
}

func (a *Adapter) OnNetworksChanged(fn wifi.NetworksChanged) {
	a.mu.Lock()
	a.handler = fn
	a.mu.Unlock()
}

func (a *Adapter) ScanAsync() error {
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()
	go func() {
		var r types.NetworkReport
		if a.associate(a.target, a.cred, types.ReconnectManual) == nil {
			r.Networks = []types.NetworkCandidate{{SSID: a.target}}
			a.link.NetDisconnect()
		}
		if h != nil {
			h(a, r)
		}
	}()
	return nil
}

func (a *Adapter) associate(ssid, cred string, kind types.ReconnectionKind) error {
	p := &netlink.ConnectParams{
		Ssid:           ssid,
		Passphrase:     cred,
		ConnectTimeout: a.timeout,
	}
	if kind == types.ReconnectAutomatic {
		p.WatchdogTimeout = 10 * time.Second
	}
	return a.link.NetConnect(p)
}

func (a *Adapter) Disconnect() error {
	a.link.NetDisconnect()
	return nil
}

func (a *Adapter) Connect(c types.NetworkCandidate, kind types.ReconnectionKind, credential string) (types.ConnectionResult, error) {
	err := a.associate(c.SSID, credential, kind)
	return types.ConnectionResult{Status: statusOf(err)}, nil
}

func (a *Adapter) Close() error { return nil }

func statusOf(err error) types.ConnectionStatus {
	switch {
	case err == nil:
		return types.StatusSuccess
	case errors.Is(err, netlink.ErrAuthFailure):
		return types.StatusInvalidCredential
	case errors.Is(err, netlink.ErrConnectTimeout):
		return types.StatusTimeout
	case errors.Is(err, netlink.ErrConnectFailed):
		return types.StatusNetworkNotAvailable
	default:
		return types.StatusUnspecifiedFailure
	}
}
