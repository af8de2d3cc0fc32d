//go:build rp2040

package power

import (
	"machine"
	"time"
)

// Watchdog emulates timer-gated deep sleep on RP2040: idle for the wake
// duration, then let the hardware watchdog reset the chip.
type Watchdog struct {
	wake time.Duration
}

func NewWatchdog() *Watchdog { return &Watchdog{} }

func (w *Watchdog) EnableWakeupByTimer(d time.Duration) error {
	w.wake = d
	return nil
}

// StartDeepSleep never returns.
func (w *Watchdog) StartDeepSleep() error {
	time.Sleep(w.wake)
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	machine.Watchdog.Start()
	for {
		time.Sleep(time.Second)
	}
}
