package game

import (
	"fmt"
	"math"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-activity reports (~10s at 60TPS).
const reportWindowTicks = 600

// SimReport is a snapshot of the session at one tick.
type SimReport struct {
	Tick  int
	Turn  int
	State TurnState

	Money     int64
	Balls     int
	TestBalls int
	Pending   int
	MaxLevel  int // highest ball level in play

	VerticalSpeed float64 // Σ|vy| over live balls

	// Region counts and levels by kind.
	Regions       map[RegionKind]int
	RegionLevels  map[RegionKind]int // sum of levels
	MaxMultiplier int                // highest multiplier factor
}

// SimReporter collects periodic reports from a session and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current session state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(s *Session) {
	rpt := SimReport{
		Tick:         s.tick,
		Turn:         s.turn.Turn,
		State:        s.turn.State(),
		Money:        s.wallet.Money,
		Pending:      s.sched.Pending(),
		Regions:      make(map[RegionKind]int),
		RegionLevels: make(map[RegionKind]int),
	}
	for _, b := range s.balls {
		rpt.Balls++
		if b.IsTest {
			rpt.TestBalls++
		}
		if b.Level > rpt.MaxLevel {
			rpt.MaxLevel = b.Level
		}
		rpt.VerticalSpeed += math.Abs(b.Velocity().Y)
	}
	for _, reg := range s.reg.All() {
		rpt.Regions[reg.Kind]++
		rpt.RegionLevels[reg.Kind] += reg.Level
		if reg.Kind == KindMultiplier && reg.Factor > rpt.MaxMultiplier {
			rpt.MaxMultiplier = reg.Factor
		}
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgBalls         float64
	PeakBalls        int
	AvgVerticalSpeed float64
	StuckSamples     int
	MoneyGained      int64
	TurnsAdvanced    int
}

// WindowSummary returns an aggregated summary over the recent time window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks

	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	oldest := window[len(window)-1]
	wr := &WindowReport{
		FromTick:      oldest.Tick,
		ToTick:        latest.Tick,
		SampleCount:   len(window),
		MoneyGained:   latest.Money - oldest.Money,
		TurnsAdvanced: latest.Turn - oldest.Turn,
	}
	for _, rpt := range window {
		wr.AvgBalls += float64(rpt.Balls)
		wr.AvgVerticalSpeed += rpt.VerticalSpeed
		if rpt.Balls > wr.PeakBalls {
			wr.PeakBalls = rpt.Balls
		}
		if rpt.State == TurnStuck {
			wr.StuckSamples++
		}
	}
	n := float64(len(window))
	wr.AvgBalls /= n
	wr.AvgVerticalSpeed /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Activity Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  balls        avg %5.1f  peak %d\n", wr.AvgBalls, wr.PeakBalls)
	fmt.Fprintf(&sb, "  Σ|vy|        avg %5.2f  stuck samples %d\n", wr.AvgVerticalSpeed, wr.StuckSamples)
	fmt.Fprintf(&sb, "  money gained %d  turns advanced %d\n", wr.MoneyGained, wr.TurnsAdvanced)
	return sb.String()
}

// FormatSessionReport summarises a whole session: turn, wallet, regions and
// the effect counters.
func FormatSessionReport(s *Session) string {
	var sb strings.Builder
	w := s.wallet
	fmt.Fprintf(&sb, "=== Ball Drop Session (T=%d, %.1fs) ===\n", s.tick, s.sched.Now().Seconds())
	fmt.Fprintf(&sb, "turn %d  state %s  loadout %d×L%d  spawn x %.0f\n",
		s.turn.Turn, s.turn.State(), s.loadout.Count, s.loadout.Level, s.SpawnX())
	fmt.Fprintf(&sb, "money %d  diamonds %d  keys %d\n", w.Money, w.Diamonds, w.Keys)

	sb.WriteString("\n--- Regions ---\n")
	for _, kind := range []RegionKind{KindMultiplier, KindCash, KindLevelUp, KindPortal, KindPermanentCash} {
		rs := s.reg.Regions(kind)
		if len(rs) == 0 {
			continue
		}
		levels := make([]string, len(rs))
		for i, r := range rs {
			switch kind {
			case KindMultiplier:
				levels[i] = fmt.Sprintf("×%d", r.Factor)
			case KindPortal:
				levels[i] = r.Color.String()
			default:
				levels[i] = fmt.Sprintf("L%d", r.Level)
			}
		}
		fmt.Fprintf(&sb, "  %-15s %d  [%s]\n", kind, len(rs), strings.Join(levels, " "))
	}
	walls := 0
	for _, wall := range s.reg.Walls() {
		if wall.Removable() {
			walls++
		}
	}
	fmt.Fprintf(&sb, "  %-15s %d  floor=%v\n", "walls", walls, s.reg.HasFloor())

	st := s.Stats
	sb.WriteString("\n--- Effects ---\n")
	fmt.Fprintf(&sb, "  spawned     %d real, %d test, %d clones\n", st.BallsSpawned, st.TestBallsSpawned, st.Clones)
	fmt.Fprintf(&sb, "  cash        %d payouts, %d money (+%d from clears)\n", st.CashPayouts, st.MoneyFromCash, st.MoneyFromClear)
	fmt.Fprintf(&sb, "  level-ups   %d\n", st.LevelUps)
	fmt.Fprintf(&sb, "  portals     %d teleports, %d without exit\n", st.Teleports, st.DeadPortals)
	fmt.Fprintf(&sb, "  turns       %d completed, %d test batches, %d stuck\n", st.TurnsCompleted, st.TestBatches, st.StuckEvents)
	fmt.Fprintf(&sb, "  fallen      %d\n", st.Fallen)
	if st.CueFailures > 0 {
		fmt.Fprintf(&sb, "  cue errors  %d\n", st.CueFailures)
	}
	d := s.disp.Stats
	fmt.Fprintf(&sb, "  dispatch    %d routed, %d stale, %d ignored\n", d.Routed, d.Stale, d.Ignored)
	return sb.String()
}
