//go:build linux && !tinygo

package power

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RTC suspends a Linux host with an RTC wake alarm. StartDeepSleep blocks
// until the kernel resumes, then returns; the caller exits and lets the
// service manager restart it.
type RTC struct {
	// Dir is the RTC class directory, e.g. /sys/class/rtc/rtc0.
	Dir string
	// StateFile is normally /sys/power/state.
	StateFile string
	// Mode is written to StateFile: "mem" (suspend-to-RAM) or "disk".
	Mode string

	now func() time.Time
}

func NewRTC() *RTC {
	return &RTC{
		Dir:       "/sys/class/rtc/rtc0",
		StateFile: "/sys/power/state",
		Mode:      "mem",
		now:       time.Now,
	}
}

// EnableWakeupByTimer programs the alarm d from now. The alarm is cleared
// first; the kernel rejects a new value while one is pending.
func (r *RTC) EnableWakeupByTimer(d time.Duration) error {
	alarm := filepath.Join(r.Dir, "wakealarm")
	if err := os.WriteFile(alarm, []byte("0"), 0o644); err != nil {
		return fmt.Errorf("clear wakealarm: %w", err)
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	at := now().Add(d).Unix()
	if err := os.WriteFile(alarm, []byte(strconv.FormatInt(at, 10)), 0o644); err != nil {
		return fmt.Errorf("set wakealarm: %w", err)
	}
	return nil
}

func (r *RTC) StartDeepSleep() error {
	mode := r.Mode
	if mode == "" {
		mode = "mem"
	}
	if err := os.WriteFile(r.StateFile, []byte(mode), 0o644); err != nil {
		return fmt.Errorf("enter %s: %w", mode, err)
	}
	return nil
}
