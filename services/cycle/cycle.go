// Package cycle runs one power-on: start the scan worker, trigger a single
// scan, wait a bounded time for it, then arm the wake timer and sleep.
package cycle

import (
	"context"
	"log/slog"
	"time"

	"wifiwake-go/services/display"
	"wifiwake-go/services/logging"
	"wifiwake-go/services/power"
	"wifiwake-go/x/handoff"
)

type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseWorkerStarted
	PhaseScanTriggered
	PhaseWaitComplete
	PhaseSleeping
)

var phaseNames = [...]string{
	PhaseInit:          "init",
	PhaseWorkerStarted: "worker_started",
	PhaseScanTriggered: "scan_triggered",
	PhaseWaitComplete:  "wait_complete",
	PhaseSleeping:      "sleeping",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

type Timing struct {
	Settle      time.Duration
	ScanTimeout time.Duration
	WakeAfter   time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Settle:      100 * time.Millisecond,
		ScanTimeout: 60_000 * time.Millisecond,
		WakeAfter:   time.Minute,
	}
}

// Worker is the scan side of the cycle. Run blocks until ctx is done or
// the worker fails; its error is already logged by the worker.
type Worker interface {
	Run(ctx context.Context, c *handoff.Cycle) error
}

// Mark records when a phase was entered.
type Mark struct {
	Phase Phase
	At    time.Time
}

// Outcome is only returned on platforms where StartDeepSleep returns.
type Outcome struct {
	// Completed is false when the scan-complete wait timed out.
	Completed bool
	Started   time.Time
	Phases    []Mark
}

// Elapsed is the time from Init to Sleeping.
func (o Outcome) Elapsed() time.Duration {
	if len(o.Phases) == 0 {
		return 0
	}
	return o.Phases[len(o.Phases)-1].At.Sub(o.Started)
}

type Orchestrator struct {
	Timing  Timing
	Worker  Worker
	Power   power.Manager
	Display display.Reporter
	// Release frees display pins and bus before sleeping. Optional.
	Release func() error
	Log     *slog.Logger
	// Observer sees each phase as it is entered, on the orchestrator
	// goroutine. Optional.
	Observer func(Phase)
	// BeforeSleep runs after the wake timer is armed and before
	// StartDeepSleep, with the outcome so far. Optional.
	BeforeSleep func(Outcome)
}

// Run executes the phases in order and does not go back. Once Sleeping is
// entered nothing cancels it. ctx only bounds the worker goroutine, which
// is cancelled when Run returns.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	log := logging.Or(o.Log)
	disp := o.Display
	if disp == nil {
		disp = display.Nop{}
	}
	t := o.Timing
	if t == (Timing{}) {
		t = DefaultTiming()
	}

	out := Outcome{Started: time.Now()}
	enter := func(p Phase) {
		out.Phases = append(out.Phases, Mark{Phase: p, At: time.Now()})
		log.Debug("cycle phase", "phase", p.String())
		if o.Observer != nil {
			o.Observer(p)
		}
	}

	enter(PhaseInit)
	state := handoff.NewCycle()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = o.Worker.Run(wctx, state) }()
	enter(PhaseWorkerStarted)

	time.Sleep(t.Settle)
	display.OpenFrame(disp)
	state.StartScan.Set()
	enter(PhaseScanTriggered)

	enter(PhaseWaitComplete)
	out.Completed = state.ScanComplete.WaitTimeout(t.ScanTimeout)
	if !out.Completed {
		log.Warn("scan did not complete in time", "timeout", t.ScanTimeout)
	}

	enter(PhaseSleeping)
	if err := display.CloseFrame(disp); err != nil {
		log.Error("display present", "err", err)
	}
	if o.Release != nil {
		if err := o.Release(); err != nil {
			log.Error("release display resources", "err", err)
		}
	}
	sched := power.Schedule{WakeAfter: t.WakeAfter}
	if err := o.Power.EnableWakeupByTimer(sched.WakeAfter); err != nil {
		log.Error("arm wake timer", "err", err)
	}
	if o.BeforeSleep != nil {
		o.BeforeSleep(out)
	}
	log.Info("entering deep sleep", "wake_after", sched.WakeAfter, "completed", out.Completed)
	return out, o.Power.StartDeepSleep()
}
