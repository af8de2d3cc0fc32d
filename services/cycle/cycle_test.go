package cycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiwake-go/services/display"
	"wifiwake-go/services/power"
	"wifiwake-go/services/wifi"
	"wifiwake-go/services/wifi/sim"
	"wifiwake-go/types"
	"wifiwake-go/x/handoff"
)

// idleWorker never answers the start-scan signal.
type idleWorker struct{ started chan struct{} }

func (w idleWorker) Run(ctx context.Context, _ *handoff.Cycle) error {
	close(w.started)
	<-ctx.Done()
	return nil
}

func fastTiming() Timing {
	return Timing{Settle: time.Millisecond, ScanTimeout: 2 * time.Second, WakeAfter: time.Minute}
}

func simWorker(fx sim.Fixture) (*wifi.Worker, *sim.Finder, *display.Recorder) {
	f := sim.NewFinder(fx)
	rec := display.NewRecorder(128, 32)
	w := wifi.NewWorker(wifi.WorkerConfig{TargetSSID: "home", Credential: "pw", Capacity: 5}, f, rec, nil)
	return w, f, rec
}

func TestCycleCompletes(t *testing.T) {
	fx := sim.DefaultFixture()
	fx.Networks = []types.NetworkCandidate{
		{SSID: "Other", RSSI: -50},
		{SSID: "home", RSSI: -60},
		{SSID: "home", RSSI: -40},
	}
	w, f, rec := simWorker(fx)
	pm := power.NewFake()
	released := 0

	var phases []Phase
	o := &Orchestrator{
		Timing:   fastTiming(),
		Worker:   w,
		Power:    pm,
		Display:  rec,
		Release:  func() error { released++; return nil },
		Observer: func(p Phase) { phases = append(phases, p) },
	}
	out, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.Equal(t, []Phase{PhaseInit, PhaseWorkerStarted, PhaseScanTriggered, PhaseWaitComplete, PhaseSleeping}, phases)
	assert.Len(t, out.Phases, 5)
	assert.Equal(t, 1, released)

	wake, armed, slept := pm.State()
	assert.Equal(t, time.Minute, wake)
	assert.Equal(t, 1, armed)
	assert.Equal(t, 1, slept)

	assert.Equal(t, []string{
		"clear", "hline 0,0,128", "hline 0,31,128",
		"row 1", "row 2",
		"vline 0,0,32", "vline 127,0,32", "present",
	}, rec.Calls())

	st := f.Adapter(0).Stats()
	require.NotNil(t, st.Connected)
	assert.Equal(t, -40, st.Connected.RSSI)
}

func TestCycleTimesOutAndStillSleeps(t *testing.T) {
	started := make(chan struct{})
	pm := power.NewFake()
	tm := fastTiming()
	tm.ScanTimeout = 150 * time.Millisecond

	o := &Orchestrator{Timing: tm, Worker: idleWorker{started}, Power: pm}
	begin := time.Now()
	out, err := o.Run(context.Background())
	require.NoError(t, err)

	<-started
	assert.False(t, out.Completed)
	var waitAt, sleepAt time.Time
	for _, m := range out.Phases {
		switch m.Phase {
		case PhaseWaitComplete:
			waitAt = m.At
		case PhaseSleeping:
			sleepAt = m.At
		}
	}
	assert.GreaterOrEqual(t, sleepAt.Sub(waitAt), tm.ScanTimeout)
	assert.Less(t, time.Since(begin), tm.ScanTimeout+time.Second)

	wake, _, slept := pm.State()
	assert.Equal(t, time.Minute, wake)
	assert.Equal(t, 1, slept)
}

func TestCycleWorkerFailureStillSleeps(t *testing.T) {
	w, _, _ := simWorker(sim.Fixture{Adapters: 0})
	pm := power.NewFake()
	tm := fastTiming()
	tm.ScanTimeout = 50 * time.Millisecond

	out, err := (&Orchestrator{Timing: tm, Worker: w, Power: pm}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Completed)
	_, _, slept := pm.State()
	assert.Equal(t, 1, slept)
}

func TestCycleArmErrorStillSleeps(t *testing.T) {
	w, _, _ := simWorker(sim.DefaultFixture())
	pm := power.NewFake()
	pm.ArmErr = errors.New("no rtc")
	relErr := errors.New("pin busy")

	_, err := (&Orchestrator{
		Timing:  fastTiming(),
		Worker:  w,
		Power:   pm,
		Release: func() error { return relErr },
	}).Run(context.Background())
	require.NoError(t, err)
	_, armed, slept := pm.State()
	assert.Equal(t, 1, armed)
	assert.Equal(t, 1, slept)
}

func TestCycleSleepErrorReturned(t *testing.T) {
	w, _, _ := simWorker(sim.DefaultFixture())
	pm := power.NewFake()
	pm.SleepErr = errors.New("suspend denied")
	var seen Outcome
	_, err := (&Orchestrator{
		Timing:      fastTiming(),
		Worker:      w,
		Power:       pm,
		BeforeSleep: func(o Outcome) { seen = o },
	}).Run(context.Background())
	assert.EqualError(t, err, "suspend denied")
	assert.True(t, seen.Completed)
	assert.Len(t, seen.Phases, 5)
}

func TestDefaultTiming(t *testing.T) {
	d := DefaultTiming()
	assert.Equal(t, 100*time.Millisecond, d.Settle)
	assert.Equal(t, 60*time.Second, d.ScanTimeout)
	assert.Equal(t, time.Minute, d.WakeAfter)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "wait_complete", PhaseWaitComplete.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
