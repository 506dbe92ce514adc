package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Garsondee/Ball-Drop/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	ticks       int
	turns       int
	finished    bool
	money       int64
	peakBalls   int
	forceClears int
	itemsTaken  int
	offersSeen  int
	maxLevel    int

	stats         game.SessionStats
	windowSummary *game.WindowReport
	session       *game.Session
	logTail       string // last stretch of the event log, kept for capped runs
}

// logTailTicks is how much of the event log a capped run keeps (~10s).
const logTailTicks = 600

// action is what the auto-player did on one tick.
type action int

const (
	actWait action = iota
	actDrop
	actChoose
	actDismiss
	actForceClear
)

func (a action) String() string {
	switch a {
	case actDrop:
		return "drop"
	case actChoose:
		return "choose"
	case actDismiss:
		return "dismiss"
	case actForceClear:
		return "force_clear"
	default:
		return "wait"
	}
}

func main() {
	var runs int
	var turns int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var dumpPath string
	var takeItems bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless sessions")
	flag.IntVar(&turns, "turns", 10, "turns to complete per session")
	flag.IntVar(&maxTicks, "max-ticks", 60*60*10, "tick cap per session")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.StringVar(&dumpPath, "dump", "", "write a msgpack snapshot of the last run to this file")
	flag.BoolVar(&takeItems, "items", true, "take the ball count item when offered")
	flag.BoolVar(&verbose, "verbose", false, "record per-ball spawn events in the log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if turns <= 0 {
		fmt.Println("error: -turns must be > 0")
		return
	}
	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("=== Headless Ball Drop Report ===\n")
	fmt.Printf("runs=%d turns=%d max_ticks=%d seed_base=%d seed_step=%d items=%v\n\n",
		runs, turns, maxTicks, seedBase, seedStep, takeItems)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runOne(i+1, seed, cfg, turns, maxTicks, takeItems, verbose)
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)

	if dumpPath != "" {
		if err := dumpSnapshot(dumpPath, all[len(all)-1].session); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nsnapshot written to %s\n", dumpPath)
	}
}

func runOne(runIndex int, seed int64, cfg game.Config, turns, maxTicks int, takeItems, verbose bool) runStats {
	ts := game.NewTestSim(
		game.WithSeed(seed),
		game.WithVerbose(verbose),
		game.WithConfig(func(c *game.Config) { *c = cfg }),
	)
	s := ts.Session
	reporter := game.NewSimReporter(0)
	rs := runStats{runIndex: runIndex, seed: ts.Seed(), session: s}

	target := s.Turn() + turns
	for rs.ticks < maxTicks && s.Turn() < target {
		switch autoStep(s, takeItems) {
		case actChoose:
			rs.itemsTaken++
			rs.offersSeen++
		case actDismiss:
			rs.offersSeen++
		case actForceClear:
			rs.forceClears++
		}
		s.Tick()
		rs.ticks++
		if n := len(s.Balls()); n > rs.peakBalls {
			rs.peakBalls = n
		}
		for _, b := range s.Balls() {
			if b.Level > rs.maxLevel {
				rs.maxLevel = b.Level
			}
		}
		if rs.ticks%60 == 0 {
			reporter.Collect(s)
		}
	}
	reporter.Collect(s)

	rs.turns = s.Turn() - 1
	rs.finished = s.Turn() >= target
	rs.money = s.Wallet().Money
	rs.stats = s.Stats
	rs.windowSummary = reporter.WindowSummary()
	if !rs.finished {
		now := s.TickCount()
		rs.logTail = ts.SimLog.FormatRange(now-logTailTicks, now)
	}
	return rs
}

// autoStep plays one decision for the session: resolve an open offer, clear
// a stuck tank, or drop when the tank is ready.
func autoStep(s *game.Session, takeItems bool) action {
	items := s.Items()
	if items.OfferOpen {
		if takeItems && items.Offered(game.ItemBallCount) {
			if err := s.ChooseItem(game.ItemBallCount); err == nil {
				return actChoose
			}
		}
		s.DismissOffer()
		return actDismiss
	}
	if s.TurnState() == game.TurnStuck {
		if _, err := s.ForceClear(); err == nil {
			return actForceClear
		}
	}
	if s.DropReady() {
		if err := s.Drop(); err == nil {
			return actDrop
		}
	}
	return actWait
}

func dumpSnapshot(path string, s *game.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := game.EncodeSnapshot(f, s.Snapshot(nil)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printRun(rs runStats) {
	status := "done"
	if !rs.finished {
		status = "tick_cap"
	}
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s turns=%d ticks=%d money=%d\n", status, rs.turns, rs.ticks, rs.money)
	fmt.Printf("balls: spawned=%d clones=%d fallen=%d peak=%d max_level=%d\n",
		rs.stats.BallsSpawned, rs.stats.Clones, rs.stats.Fallen, rs.peakBalls, rs.maxLevel)
	fmt.Printf("effects: cash_payouts=%d money_cash=%d money_clear=%d level_ups=%d teleports=%d dead_portals=%d\n",
		rs.stats.CashPayouts, rs.stats.MoneyFromCash, rs.stats.MoneyFromClear, rs.stats.LevelUps, rs.stats.Teleports, rs.stats.DeadPortals)
	fmt.Printf("control: stuck=%d force_clears=%d offers=%d items_taken=%d\n",
		rs.stats.StuckEvents, rs.forceClears, rs.offersSeen, rs.itemsTaken)
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	if rs.logTail != "" {
		fmt.Printf("last %d ticks of the log:\n%s", logTailTicks, rs.logTail)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	var money, cash, clones, stuck, ticks, turns int64
	var capped []string
	for _, rs := range all {
		money += rs.money
		cash += int64(rs.stats.CashPayouts)
		clones += int64(rs.stats.Clones)
		stuck += int64(rs.stats.StuckEvents)
		ticks += int64(rs.ticks)
		turns += int64(rs.turns)
		if !rs.finished {
			capped = append(capped, fmt.Sprintf("%d", rs.runIndex))
		}
	}
	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_per_run: money=%.1f cash_payouts=%.1f clones=%.1f stuck=%.1f ticks=%.1f\n",
		avg(money, n), avg(cash, n), avg(clones, n), avg(stuck, n), avg(ticks, n))
	fmt.Printf("money_per_turn=%.2f\n", ratio(money, turns))
	fmt.Printf("tick_capped_runs=%s\n", joinOrNone(capped))
}

func avg(sum int64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func ratio(a, b int64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ",")
}
