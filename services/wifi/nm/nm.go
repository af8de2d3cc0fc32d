//go:build !tinygo

// Package nm drives a Linux wireless interface through NetworkManager's
// D-Bus API.
package nm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"wifiwake-go/errcode"
	"wifiwake-go/services/logging"
	"wifiwake-go/services/wifi"
	"wifiwake-go/types"
)

const (
	nmBus          = "org.freedesktop.NetworkManager"
	nmPath         = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmDevice       = nmBus + ".Device"
	nmWireless     = nmBus + ".Device.Wireless"
	nmAccessPoint  = nmBus + ".AccessPoint"
	nmActive       = nmBus + ".Connection.Active"
	dbusProperties = "org.freedesktop.DBus.Properties"

	errNotActive  = nmBus + ".Device.NotActive"
	errNotAllowed = nmBus + ".Device.NotAllowed"
)

// Client finds wireless devices. It shares the process-wide system bus
// connection and never closes it.
type Client struct {
	conn *dbus.Conn
	log  *slog.Logger

	// Interface restricts FindAllAdapters to one device, e.g. "wlan0".
	Interface string
	// ScanWait bounds the wait for LastScan; cached results are delivered
	// when it expires.
	ScanWait time.Duration
	// ConnectTimeout bounds the wait for activation.
	ConnectTimeout time.Duration
}

func NewClient(log *slog.Logger) (*Client, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, errcode.Wrap(errcode.NoAdapter, "nm.bus", err)
	}
	return &Client{
		conn:           conn,
		log:            logging.Or(log),
		ScanWait:       30 * time.Second,
		ConnectTimeout: 20 * time.Second,
	}, nil
}

func (c *Client) FindAllAdapters() ([]wifi.Adapter, error) {
	var devices []dbus.ObjectPath
	if err := c.conn.Object(nmBus, nmPath).Call(nmBus+".GetDevices", 0).Store(&devices); err != nil {
		return nil, fmt.Errorf("GetDevices: %w", err)
	}
	var out []wifi.Adapter
	for _, p := range devices {
		kind, err := getProperty[uint32](c.conn, p, nmDevice, "DeviceType")
		if err != nil || kind != deviceTypeWiFi {
			continue
		}
		name, _ := getProperty[string](c.conn, p, nmDevice, "Interface")
		if c.Interface != "" && name != c.Interface {
			continue
		}
		out = append(out, &Adapter{c: c, dev: p, name: name})
	}
	return out, nil
}

// Adapter is one NetworkManager wireless device.
type Adapter struct {
	c    *Client
	dev  dbus.ObjectPath
	name string

	mu      sync.Mutex
	handler wifi.NetworksChanged
	sigCh   chan *dbus.Signal
	stop    chan struct{}
	pending bool
}

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) OnNetworksChanged(fn wifi.NetworksChanged) {
	a.mu.Lock()
	a.handler = fn
	a.mu.Unlock()
}

// ScanAsync requests a scan and returns. The report is delivered once the
// device's LastScan changes, or with cached results if NetworkManager
// refuses the scan or ScanWait expires.
func (a *Adapter) ScanAsync() error {
	if err := a.watch(); err != nil {
		return err
	}
	a.mu.Lock()
	a.pending = true
	a.mu.Unlock()

	call := a.c.conn.Object(nmBus, a.dev).Call(nmWireless+".RequestScan", 0, map[string]dbus.Variant{})
	if call.Err != nil {
		var de dbus.Error
		if errors.As(call.Err, &de) && de.Name == errNotAllowed {
			a.c.log.Debug("scan refused, using cached results", "device", a.name)
			go a.deliver()
			return nil
		}
		a.mu.Lock()
		a.pending = false
		a.mu.Unlock()
		return fmt.Errorf("RequestScan: %w", call.Err)
	}

	wait := a.c.ScanWait
	go func() {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-t.C:
			a.c.log.Warn("scan completion not signalled", "device", a.name, "wait", wait)
			a.deliver()
		case <-a.stop:
		}
	}()
	return nil
}

// watch subscribes to property changes on the device, once.
func (a *Adapter) watch() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sigCh != nil {
		return nil
	}
	rule := fmt.Sprintf("type='signal',sender='%s',interface='%s',member='PropertiesChanged',path='%s'",
		nmBus, dbusProperties, a.dev)
	if call := a.c.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule); call.Err != nil {
		return fmt.Errorf("AddMatch: %w", call.Err)
	}
	a.sigCh = make(chan *dbus.Signal, 16)
	a.stop = make(chan struct{})
	a.c.conn.Signal(a.sigCh)

	go func(sigCh chan *dbus.Signal, stop chan struct{}) {
		for {
			select {
			case <-stop:
				return
			case sig, ok := <-sigCh:
				if !ok {
					return
				}
				if sig.Path != a.dev || sig.Name != dbusProperties+".PropertiesChanged" || len(sig.Body) < 2 {
					continue
				}
				if iface, _ := sig.Body[0].(string); iface != nmWireless {
					continue
				}
				changed, _ := sig.Body[1].(map[string]dbus.Variant)
				if _, ok := changed["LastScan"]; ok {
					a.deliver()
				}
			}
		}
	}(a.sigCh, a.stop)
	return nil
}

// deliver reports the current access point list to the handler, at most
// once per ScanAsync.
func (a *Adapter) deliver() {
	a.mu.Lock()
	h, pending := a.handler, a.pending
	a.pending = false
	a.mu.Unlock()
	if !pending || h == nil {
		return
	}
	report, err := a.accessPoints()
	if err != nil {
		a.c.log.Error("read access points", "device", a.name, "err", err)
	}
	h(a, report)
}

func (a *Adapter) accessPoints() (types.NetworkReport, error) {
	var aps []dbus.ObjectPath
	if err := a.c.conn.Object(nmBus, a.dev).Call(nmWireless+".GetAllAccessPoints", 0).Store(&aps); err != nil {
		return types.NetworkReport{}, fmt.Errorf("GetAllAccessPoints: %w", err)
	}
	var r types.NetworkReport
	for _, p := range aps {
		ssid, err := getProperty[[]byte](a.c.conn, p, nmAccessPoint, "Ssid")
		if err != nil {
			continue
		}
		hw, _ := getProperty[string](a.c.conn, p, nmAccessPoint, "HwAddress")
		strength, _ := getProperty[uint8](a.c.conn, p, nmAccessPoint, "Strength")
		r.Networks = append(r.Networks, candidate(ssid, hw, strength))
	}
	return r, nil
}

// Disconnect is idempotent: a device that is not active is not an error.
func (a *Adapter) Disconnect() error {
	call := a.c.conn.Object(nmBus, a.dev).Call(nmDevice+".Disconnect", 0)
	if call.Err != nil {
		var de dbus.Error
		if errors.As(call.Err, &de) && de.Name == errNotActive {
			return nil
		}
		return fmt.Errorf("Disconnect: %w", call.Err)
	}
	return nil
}

// Connect activates a profile for c on this device and waits for the
// activation to settle or ConnectTimeout.
func (a *Adapter) Connect(c types.NetworkCandidate, kind types.ReconnectionKind, credential string) (types.ConnectionResult, error) {
	fail := types.ConnectionResult{Status: types.StatusUnspecifiedFailure}

	s := make(map[string]map[string]dbus.Variant)
	for group, kv := range settings(c, kind, credential) {
		s[group] = make(map[string]dbus.Variant, len(kv))
		for k, v := range kv {
			s[group][k] = dbus.MakeVariant(v)
		}
	}
	// Volatile profiles are dropped by NetworkManager once deactivated, so
	// repeated cycles do not accumulate saved connections.
	var (
		profile, active dbus.ObjectPath
		result          map[string]dbus.Variant
	)
	err := a.c.conn.Object(nmBus, nmPath).
		Call(nmBus+".AddAndActivateConnection2", 0, s, a.dev, dbus.ObjectPath("/"), activateOptions()).
		Store(&profile, &active, &result)
	if err != nil {
		return fail, errcode.Wrap(errcode.ConnectFailed, "nm.AddAndActivateConnection2", err)
	}

	deadline := time.Now().Add(a.c.ConnectTimeout)
	for time.Now().Before(deadline) {
		state, err := getProperty[uint32](a.c.conn, active, nmActive, "State")
		if err != nil {
			// The active connection object vanishes when activation fails.
			return types.ConnectionResult{Status: a.failureStatus()}, nil
		}
		switch state {
		case activated:
			return types.ConnectionResult{Status: types.StatusSuccess}, nil
		case deactivating, deactivated:
			return types.ConnectionResult{Status: a.failureStatus()}, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return types.ConnectionResult{Status: types.StatusTimeout}, nil
}

func activateOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{"persist": dbus.MakeVariant("volatile")}
}

func (a *Adapter) failureStatus() types.ConnectionStatus {
	v, err := a.c.conn.Object(nmBus, a.dev).GetProperty(nmDevice + ".StateReason")
	if err != nil {
		return types.StatusUnspecifiedFailure
	}
	sr, ok := v.Value().([]any)
	if !ok || len(sr) != 2 {
		return types.StatusUnspecifiedFailure
	}
	reason, _ := sr[1].(uint32)
	return StatusFromReason(reason)
}

// Close stops the signal listener. The bus connection stays open.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sigCh == nil {
		return nil
	}
	a.c.conn.RemoveSignal(a.sigCh)
	close(a.stop)
	a.sigCh = nil
	return nil
}

func getProperty[T any](conn *dbus.Conn, path dbus.ObjectPath, iface, property string) (T, error) {
	var zero T
	v, err := conn.Object(nmBus, path).GetProperty(iface + "." + property)
	if err != nil {
		return zero, err
	}
	val, ok := v.Value().(T)
	if !ok {
		return zero, fmt.Errorf("property %s.%s has unexpected type %T", iface, property, v.Value())
	}
	return val, nil
}
