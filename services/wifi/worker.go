package wifi

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"wifiwake-go/errcode"
	"wifiwake-go/services/display"
	"wifiwake-go/services/logging"
	"wifiwake-go/types"
	"wifiwake-go/x/handoff"
	"wifiwake-go/x/strconvx"
)

// Outcome is what one scan callback did.
type Outcome struct {
	Report    types.NetworkReport
	Selection Selection
	Connected bool
}

type WorkerConfig struct {
	TargetSSID string
	Credential string
	Capacity   int

	// OnOutcome, if set, is called from the callback before scan-complete
	// is signalled.
	OnOutcome func(Outcome)
}

// Worker owns the wireless adapter for the life of the process.
type Worker struct {
	cfg    WorkerConfig
	finder Finder
	disp   display.Reporter
	log    *slog.Logger
}

func NewWorker(cfg WorkerConfig, f Finder, disp display.Reporter, log *slog.Logger) *Worker {
	if disp == nil {
		disp = display.Nop{}
	}
	return &Worker{cfg: cfg, finder: f, disp: disp, log: logging.Or(log)}
}

// Run acquires the first adapter, registers the scan callback and then
// issues one ScanAsync per start-scan signal. It returns when ctx is done
// or on the first failure; a failed worker is not restarted.
func (w *Worker) Run(ctx context.Context, c *handoff.Cycle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errcode.E{C: errcode.AdapterPanic, Op: "wifi.worker", Msg: fmt.Sprint(r)}
			w.log.Error("scan worker panic", "message", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	adapters, err := w.finder.FindAllAdapters()
	if err != nil {
		w.log.Error("scan worker", "message", err.Error())
		return errcode.Wrap(errcode.NoAdapter, "wifi.find", err)
	}
	if len(adapters) == 0 {
		w.log.Error("scan worker", "message", "no wireless adapter")
		return &errcode.E{C: errcode.NoAdapter, Op: "wifi.find"}
	}
	a := adapters[0]
	defer a.Close()

	done := c.ScanComplete
	a.OnNetworksChanged(func(a Adapter, r types.NetworkReport) { w.onNetworksChanged(a, r, done) })

	for {
		if err := c.StartScan.Wait(ctx); err != nil {
			return nil
		}
		w.log.Info("starting WiFi scan")
		if err := a.ScanAsync(); err != nil {
			w.log.Error("scan worker", "message", err.Error())
			return errcode.Wrap(errcode.ScanFailed, "wifi.scan", err)
		}
	}
}

// onNetworksChanged runs on the adapter's goroutine. It is the only writer
// of the selection; done is set last, even after a panic.
func (w *Worker) onNetworksChanged(a Adapter, report types.NetworkReport, done *handoff.Signal) {
	defer done.Set()
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("scan callback panic", "message", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	for _, n := range report.Networks {
		w.log.Info("network", "ssid", n.SSID, "bssid", n.BSSID, "rssi", n.RSSI, "signal_level", n.SignalBars)
	}

	sel := Select(report, w.cfg.TargetSSID, w.cfg.Capacity)
	connected := Connect(a, sel, w.cfg.Credential)

	for i, n := range sel.Retained {
		mark := connected && i == sel.Best
		w.log.Info("our network", "ssid", n.SSID, "bssid", n.BSSID, "rssi", n.RSSI,
			"signal_level", n.SignalBars, "connected", mark)
		w.disp.WriteRow(i+1, n.SSID+" "+strconvx.Itoa(n.RSSI), mark)
	}

	if w.cfg.OnOutcome != nil {
		w.cfg.OnOutcome(Outcome{Report: report, Selection: sel, Connected: connected})
	}
}
