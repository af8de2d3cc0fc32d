// Package handoff provides a single-slot, auto-resetting signal for one
// producer and one consumer.
package handoff

import (
	"context"
	"time"
)

// Signal starts unset. Set marks it; a wait consumes the mark.
type Signal struct {
	ch chan struct{}
}

func New() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Set never blocks. Setting an already-set signal is a no-op.
func (s *Signal) Set() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// IsSet reports whether a mark is pending, without consuming it.
func (s *Signal) IsSet() bool { return len(s.ch) > 0 }

// Wait blocks until the signal is set or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout blocks for at most d. It returns true when the signal was
// observed (and consumed), false on timeout. d <= 0 polls.
func (s *Signal) WaitTimeout(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-s.ch:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.ch:
		return true
	case <-t.C:
		return false
	}
}

// Cycle is the pair of signals shared by the orchestrator and the scan
// worker for one duty cycle.
type Cycle struct {
	StartScan    *Signal
	ScanComplete *Signal
}

func NewCycle() *Cycle {
	return &Cycle{StartScan: New(), ScanComplete: New()}
}
