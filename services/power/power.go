// Package power arms the wake timer and enters deep sleep.
package power

import (
	"sync"
	"time"
)

// Schedule is the sleep the cycle commits to.
type Schedule struct {
	WakeAfter time.Duration
}

// Manager is the platform's power control. StartDeepSleep does not return
// on real hardware; resumption is a full restart. Host implementations may
// return after resume so the process can exit and be restarted.
type Manager interface {
	EnableWakeupByTimer(d time.Duration) error
	StartDeepSleep() error
}

// Fake records calls. StartDeepSleep returns immediately.
type Fake struct {
	mu        sync.Mutex
	wake      time.Duration
	armed     int
	slept     int
	sleptAt   time.Time
	ArmErr    error
	SleepErr  error
	OnSleep   func()
	sleepSeen chan struct{}
}

func NewFake() *Fake { return &Fake{sleepSeen: make(chan struct{})} }

func (f *Fake) EnableWakeupByTimer(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed++
	f.wake = d
	return f.ArmErr
}

func (f *Fake) StartDeepSleep() error {
	f.mu.Lock()
	f.slept++
	f.sleptAt = time.Now()
	first := f.slept == 1
	cb := f.OnSleep
	f.mu.Unlock()
	if first && f.sleepSeen != nil {
		close(f.sleepSeen)
	}
	if cb != nil {
		cb()
	}
	return f.SleepErr
}

// Slept is closed on the first StartDeepSleep.
func (f *Fake) Slept() <-chan struct{} { return f.sleepSeen }

// State returns the armed duration and call counts.
func (f *Fake) State() (wake time.Duration, armed, slept int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wake, f.armed, f.slept
}

// SleptAt is the time of the last StartDeepSleep call.
func (f *Fake) SleptAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sleptAt
}
