//go:build nano_rp2040

package main

import (
	"context"
	"time"

	"wifiwake-go/services/board"
	"wifiwake-go/services/config"
	"wifiwake-go/services/cycle"
	"wifiwake-go/services/display"
	"wifiwake-go/services/logging"
	"wifiwake-go/services/power"
	"wifiwake-go/services/wifi"
	"wifiwake-go/services/wifi/netlinkadapter"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		println("config:", err.Error())
	}

	// This target's radio is reached through netlink; the board is fixed.
	desc, _ := board.Resolve(board.VariantNanoRP2040)

	console, _, _ := logging.Output("")
	log := logging.New(cfg.Log, logging.Mirror(console, desc.LogUART))

	disp, release, err := display.Attach(desc, board.NewMachineResources(), cfg.DisableDisplay)
	if err != nil {
		log.Warn("display unavailable", "err", err)
	}

	finder := netlinkadapter.Finder{TargetSSID: cfg.TargetSSID, Credential: cfg.Credential}
	worker := wifi.NewWorker(wifi.WorkerConfig{
		TargetSSID: cfg.TargetSSID,
		Credential: cfg.Credential,
		Capacity:   cfg.Capacity,
	}, finder, disp, log)

	o := &cycle.Orchestrator{
		Timing:  cycle.Timing(cfg.Timing),
		Worker:  worker,
		Power:   power.NewWatchdog(),
		Display: disp,
		Release: release,
		Log:     log,
	}
	// Run does not return: the watchdog resets the chip after the wake delay.
	if _, err := o.Run(context.Background()); err != nil {
		println("sleep:", err.Error())
	}
	select {}
}
