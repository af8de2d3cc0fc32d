package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wifiwake-go/bus"
	"wifiwake-go/services/board"
	"wifiwake-go/services/config"
	"wifiwake-go/services/cycle"
	"wifiwake-go/services/display"
	"wifiwake-go/services/logging"
	"wifiwake-go/services/power"
	"wifiwake-go/services/status"
	"wifiwake-go/services/wifi"
	"wifiwake-go/services/wifi/nm"
	"wifiwake-go/services/wifi/sim"
)

var (
	runConfig    string
	runFixture   string
	runDryRun    bool
	runBoard     string
	runNoDisplay bool
	runIface     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one duty cycle",
	Long: `Run one duty cycle and suspend until the wake alarm fires.

With --sim the radio is replaced by a fixture. With --dry-run nothing touches
hardware: the display is recorded and printed, and the host does not
suspend.`,
	Args: cobra.NoArgs,
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVarP(&runConfig, "config", "c", "", "YAML configuration file")
	f.StringVar(&runFixture, "sim", "", "fixture YAML replacing the radio")
	f.BoolVar(&runDryRun, "dry-run", false, "record the display and skip suspend")
	f.StringVar(&runBoard, "board", "", "board variant (overrides config)")
	f.BoolVar(&runNoDisplay, "no-display", false, "do not drive the display")
	f.StringVar(&runIface, "iface", "", "wireless interface to use (default: first found)")
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if runConfig != "" {
		var err error
		if cfg, err = config.Load(runConfig); err != nil {
			return cfg, err
		}
	}
	if runBoard != "" {
		cfg.Board = runBoard
	}
	if runNoDisplay {
		cfg.DisableDisplay = true
	}
	return cfg, cfg.Validate()
}

func runCycle(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := logging.Open(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	desc, err := board.ResolveName(cfg.Board)
	if err != nil {
		return err
	}

	finder, err := openFinder(log)
	if err != nil {
		return err
	}

	var (
		disp    display.Reporter
		release func() error
		pm      power.Manager
		rec     *display.Recorder
	)
	if runDryRun {
		rec = display.NewRecorder(desc.DisplayWidth, desc.DisplayHeight)
		disp, release, pm = rec, nil, power.NewFake()
		if cfg.DisableDisplay || !desc.HasDisplay {
			disp = display.Nop{}
		}
	} else {
		disp, release = attachDisplay(desc, cfg.DisableDisplay, log)
		if pm, err = platformPower(); err != nil {
			return err
		}
	}

	wcfg := wifi.WorkerConfig{
		TargetSSID: cfg.TargetSSID,
		Credential: cfg.Credential,
		Capacity:   cfg.Capacity,
	}
	o := &cycle.Orchestrator{
		Timing:  cycle.Timing(cfg.Timing),
		Power:   pm,
		Display: disp,
		Release: release,
		Log:     log,
	}
	if cfg.Status.Broker != "" {
		conn := bus.NewBus(4).NewConnection("status")
		defer conn.Disconnect()
		col := status.NewCollector(conn, desc.Variant.String(), cfg.TargetSSID, cfg.Timing.WakeAfter)
		wcfg.OnOutcome = col.OnOutcome
		o.Observer = col.OnPhase
		o.BeforeSleep = func(out cycle.Outcome) { publishStatus(cmd.Context(), cfg.Status, col.Summary(out), log) }
	}
	o.Worker = wifi.NewWorker(wcfg, finder, disp, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out, err := o.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("resumed", "completed", out.Completed, "elapsed", out.Elapsed())

	if rec != nil {
		for _, r := range rec.Rows() {
			mark := ""
			if r.Selected {
				mark = " *"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s%s\n", r.Index, r.Label, mark)
		}
	}
	return nil
}

func openFinder(log *slog.Logger) (wifi.Finder, error) {
	if runFixture != "" {
		fx, err := sim.LoadFixture(runFixture)
		if err != nil {
			return nil, err
		}
		return sim.NewFinder(fx), nil
	}
	c, err := nm.NewClient(log)
	if err != nil {
		return nil, err
	}
	c.Interface = runIface
	return c, nil
}

func attachDisplay(desc board.Descriptor, disabled bool, log *slog.Logger) (display.Reporter, func() error) {
	if disabled || !desc.HasDisplay {
		return display.Nop{}, nil
	}
	res, err := platformResources()
	if err != nil {
		log.Warn("display unavailable", "err", err)
		return display.Nop{}, nil
	}
	disp, release, err := display.Attach(desc, res, disabled)
	if err != nil {
		log.Warn("display unavailable", "err", err)
		_ = res.Close()
		return display.Nop{}, nil
	}
	return disp, release
}

func publishStatus(ctx context.Context, sc config.Status, s status.Summary, log *slog.Logger) {
	id := sc.ClientID
	if id == "" {
		id = "wifiwake-" + s.CycleID
	}
	p, err := status.Dial(sc.Broker, id, sc.Timeout)
	if err != nil {
		log.Error("status broker unavailable", "broker", sc.Broker, "err", err)
		return
	}
	defer p.Close()
	_ = status.Send(ctx, p, sc.Topic, s, sc.Timeout, log)
}
