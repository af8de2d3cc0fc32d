// Package status publishes a one-shot JSON summary of a cycle to MQTT.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"wifiwake-go/bus"
	"wifiwake-go/services/cycle"
	"wifiwake-go/services/logging"
	"wifiwake-go/services/wifi"
	"wifiwake-go/types"
)

// Publisher is the MQTT surface the summary needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, qos byte, retain bool) error
	Close() error
}

// Summary is the retained per-cycle message.
type Summary struct {
	CycleID   string                  `json:"cycle_id"`
	Board     string                  `json:"board"`
	Target    string                  `json:"target_ssid"`
	StartedAt time.Time               `json:"started_at"`
	Completed bool                    `json:"completed"`
	Connected bool                    `json:"connected"`
	Retained  int                     `json:"retained"`
	Selected  *types.NetworkCandidate `json:"selected,omitempty"`
	PhasesMS  map[string]int64        `json:"phases_ms"`
	LastPhase string                  `json:"last_phase,omitempty"`
	WakeAfter string                  `json:"wake_after"`
}

// NewCycleID returns a ULID stamped with t.
func NewCycleID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Topics the collector reads and writes on the cycle bus.
var (
	TopicOutcome = bus.T("wifi", "outcome")
	TopicPhase   = bus.T("cycle", "phase")
)

// Collector assembles a Summary from retained bus messages. OnOutcome and
// OnPhase plug into wifi.WorkerConfig.OnOutcome and cycle.Orchestrator.Observer.
type Collector struct {
	Board     string
	Target    string
	WakeAfter time.Duration

	conn *bus.Connection
}

func NewCollector(conn *bus.Connection, board, target string, wake time.Duration) *Collector {
	return &Collector{Board: board, Target: target, WakeAfter: wake, conn: conn}
}

// OnOutcome retains the scan result. A later scan replaces it.
func (c *Collector) OnOutcome(o wifi.Outcome) { c.conn.Publish(TopicOutcome, o, true) }

// OnPhase retains the phase just entered.
func (c *Collector) OnPhase(p cycle.Phase) { c.conn.Publish(TopicPhase, p, true) }

// Summary combines the cycle outcome with the scan result, if one arrived.
func (c *Collector) Summary(out cycle.Outcome) Summary {
	s := Summary{
		CycleID:   NewCycleID(out.Started),
		Board:     c.Board,
		Target:    c.Target,
		StartedAt: out.Started.UTC(),
		Completed: out.Completed,
		PhasesMS:  make(map[string]int64, len(out.Phases)),
		WakeAfter: c.WakeAfter.String(),
	}
	for _, m := range out.Phases {
		s.PhasesMS[m.Phase.String()] = m.At.Sub(out.Started).Milliseconds()
	}
	if m := c.conn.Bus().Retained(TopicPhase); m != nil {
		if p, ok := m.Payload.(cycle.Phase); ok {
			s.LastPhase = p.String()
		}
	}
	if m := c.conn.Bus().Retained(TopicOutcome); m != nil {
		if o, ok := m.Payload.(wifi.Outcome); ok {
			s.Connected = o.Connected
			s.Retained = len(o.Selection.Retained)
			if n, ok := o.Selection.Selected(); ok {
				s.Selected = &n
			}
		}
	}
	return s
}

// Send publishes s as a retained QoS 1 message, bounded by timeout.
func Send(ctx context.Context, p Publisher, topic string, s Summary, timeout time.Duration, log *slog.Logger) error {
	log = logging.Or(log)
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Publish(ctx, topic, payload, 1, true); err != nil {
		log.Error("status publish failed", "topic", topic, "err", err)
		return err
	}
	log.Info("status published", "topic", topic, "cycle_id", s.CycleID)
	return nil
}
