package game

import (
	"errors"
	"math"
	"testing"
	"time"
)

// dumpLog prints the SimLog so failures show what the session did.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, e := range ts.SimLog.Entries() {
		t.Log(e.String())
	}
}

func newDropSim(opts ...SimOption) *TestSim {
	base := []SimOption{WithoutStartingLayout(), WithSpawnX(400), WithLoadout(1, 3)}
	return NewTestSim(append(base, opts...)...)
}

func TestRealDropAdvancesTurn(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if s.DropReady() {
		t.Fatal("drop should not be ready while a batch is pending")
	}
	if ticks := ts.RunUntilIdle(3000); ticks < 0 {
		dumpLog(t, ts)
		t.Fatalf("batch never finished: state=%s balls=%d", s.TurnState(), len(s.Balls()))
	}
	if s.Turn() != 2 {
		t.Fatalf("turn: got %d, want 2", s.Turn())
	}
	// Every ball falls straight through the permanent band.
	if m := s.Wallet().Money; m != 3 {
		dumpLog(t, ts)
		t.Fatalf("money: got %d, want 3", m)
	}
	if s.Stats.Fallen != 3 || s.Stats.TurnsCompleted != 1 {
		t.Fatalf("stats: %+v", s.Stats)
	}
	if !s.Items().OfferOpen {
		t.Fatal("expected an item offer from turn 2")
	}
}

func TestTestDropKeepsTurn(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	spawnX := s.SpawnX()
	if err := s.DropTest(); err != nil {
		t.Fatalf("drop test: %v", err)
	}
	if s.TestBallCount() != 3 {
		t.Fatalf("test ball count: %d", s.TestBallCount())
	}
	if ts.RunUntilIdle(3000) < 0 {
		t.Fatal("test batch never finished")
	}
	if s.Turn() != 1 || s.Wallet().Money != 0 {
		t.Fatalf("turn=%d money=%d after a test batch", s.Turn(), s.Wallet().Money)
	}
	if s.Items().OfferOpen || s.SpawnX() != spawnX {
		t.Fatal("a test batch must not roll an offer or a new spawn x")
	}
	if s.Stats.TestBatches != 1 || s.Stats.TestBallsSpawned != 3 {
		t.Fatalf("stats: %+v", s.Stats)
	}
}

func TestDropRejectedWhileActive(t *testing.T) {
	ts := newDropSim()
	if err := ts.Session.Drop(); err != nil {
		t.Fatalf("first drop: %v", err)
	}
	ts.RunTicks(5)
	if err := ts.Session.Drop(); !errors.Is(err, ErrDropNotReady) {
		t.Fatalf("second drop: got %v, want ErrDropNotReady", err)
	}
	if err := ts.Session.DropTest(); !errors.Is(err, ErrDropNotReady) {
		t.Fatalf("test drop while active: got %v", err)
	}
}

func TestDropSpawnsAtFixedCadence(t *testing.T) {
	ts := newDropSim(WithLoadout(1, 10))
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	due := ts.Session.sched.DueTimes()
	if len(due) != 10 {
		t.Fatalf("scheduled %d spawns, want 10", len(due))
	}
	d := s.Config().SpawnDelay
	for i, got := range due {
		if got != d*time.Duration(i) {
			t.Fatalf("spawn %d due at %s, want %s", i, got, d*time.Duration(i))
		}
	}
	ts.RunTicks(1)
	if s.Stats.BallsSpawned != 1 {
		t.Fatalf("first spawn should fire on the next tick, spawned %d", s.Stats.BallsSpawned)
	}
	b := s.Balls()[0]
	if math.Abs(b.Position().X-400) > 1e-9 {
		t.Fatalf("ball spawned at x=%g, want 400", b.Position().X)
	}
}

func TestForceClearLiquidatesBalls(t *testing.T) {
	ts := newDropSim(WithFloor())
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ts.RunUntil(func(ts *TestSim) bool { return ts.Session.PendingSpawns() == 0 }, 200) < 0 {
		t.Fatal("spawns never finished")
	}
	before := s.Wallet().Money
	paid, err := s.ForceClear()
	if err != nil {
		t.Fatalf("force clear: %v", err)
	}
	if paid != 3 || s.Wallet().Money != before+3 {
		t.Fatalf("paid=%d money %d -> %d", paid, before, s.Wallet().Money)
	}
	if len(s.Balls()) != 0 || s.Turn() != 2 || s.TurnState() != TurnIdle {
		t.Fatalf("after clear: balls=%d turn=%d state=%s", len(s.Balls()), s.Turn(), s.TurnState())
	}
	ts.RunTicks(5)
	if s.Turn() != 2 {
		t.Fatalf("turn advanced twice: %d", s.Turn())
	}
}

func TestForceClearTestBatchPaysNothing(t *testing.T) {
	ts := newDropSim(WithFloor())
	s := ts.Session
	if err := s.DropTest(); err != nil {
		t.Fatalf("drop test: %v", err)
	}
	ts.RunTicks(60)
	if s.TestBallCount() != 3 {
		t.Fatalf("test ball count before clear: %d", s.TestBallCount())
	}
	paid, err := s.ForceClear()
	if err != nil {
		t.Fatalf("force clear: %v", err)
	}
	if paid != 0 || s.Wallet().Money != 0 || s.Turn() != 1 {
		t.Fatalf("paid=%d money=%d turn=%d", paid, s.Wallet().Money, s.Turn())
	}
	if s.TestBallCount() != 0 || s.Snapshot(nil).TestBalls != 0 {
		t.Fatalf("test ball count after clear: %d, snapshot %d", s.TestBallCount(), s.Snapshot(nil).TestBalls)
	}
}

func TestClearAllResetsTestBallCount(t *testing.T) {
	ts := newDropSim(WithFloor())
	s := ts.Session
	if err := s.DropTest(); err != nil {
		t.Fatalf("drop test: %v", err)
	}
	ts.RunTicks(60)
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if s.TestBallCount() != 0 || s.Snapshot(nil).TestBalls != 0 {
		t.Fatalf("test ball count after clear all: %d", s.TestBallCount())
	}
}

func TestForceClearCancelsPendingSpawns(t *testing.T) {
	ts := newDropSim(WithLoadout(1, 10))
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	ts.RunTicks(16) // two spawns at 250ms cadence
	spawned := s.Stats.BallsSpawned
	if _, err := s.ForceClear(); err != nil {
		t.Fatalf("force clear: %v", err)
	}
	if s.PendingSpawns() != 0 {
		t.Fatalf("pending spawns survived the clear: %d", s.PendingSpawns())
	}
	ts.RunTicks(300)
	if s.Stats.BallsSpawned != spawned {
		t.Fatalf("spawns fired after the clear: %d -> %d", spawned, s.Stats.BallsSpawned)
	}
}

func TestForceClearCanKeepPendingSpawns(t *testing.T) {
	ts := newDropSim(
		WithLoadout(1, 10),
		WithConfig(func(c *Config) { c.KeepPendingSpawnsOnClear = true }),
	)
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	ts.RunTicks(16)
	if _, err := s.ForceClear(); err != nil {
		t.Fatalf("force clear: %v", err)
	}
	if s.PendingSpawns() == 0 {
		t.Fatal("pending spawns should outlive the clear when configured")
	}
	if ts.RunUntilIdle(3000) < 0 {
		t.Fatal("batch never finished")
	}
	if s.Stats.BallsSpawned != 10 {
		t.Fatalf("spawned %d, want all 10", s.Stats.BallsSpawned)
	}
}

func TestClearAllKeepsTankAndBand(t *testing.T) {
	ts := newDropSim(
		WithFloor(),
		WithRegion(KindCash, 300, 300),
		WithWall(WallBar, 500, 400, 0),
	)
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	ts.RunTicks(20)
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	reg := s.Registry()
	if reg.Count(KindCash) != 0 || reg.HasFloor() || reg.Permanent() == nil {
		t.Fatalf("cash=%d floor=%v", reg.Count(KindCash), reg.HasFloor())
	}
	if len(s.Balls()) != 0 || s.PendingSpawns() != 0 {
		t.Fatalf("balls=%d pending=%d", len(s.Balls()), s.PendingSpawns())
	}
	if len(reg.Walls()) != 3 {
		t.Fatalf("walls left: %d", len(reg.Walls()))
	}
}

func TestFallenBallsPayNothing(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	line := s.Config().TankHeight + s.Config().FallenBuffer
	b := ts.AddBall(Vec{X: 100, Y: line - 1}, 5, false)
	b.Body().SetVelocity(Vec{X: 0, Y: 4})
	ts.RunTicks(1)
	if len(s.Balls()) != 0 || s.Stats.Fallen != 1 || s.Wallet().Money != 0 {
		t.Fatalf("balls=%d fallen=%d money=%d", len(s.Balls()), s.Stats.Fallen, s.Wallet().Money)
	}
}

func TestMultiplierInLiveDrop(t *testing.T) {
	ts := newDropSim(WithLoadout(1, 1), WithRegion(KindMultiplier, 400, 300))
	s := ts.Session
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ts.RunUntilIdle(3000) < 0 {
		dumpLog(t, ts)
		t.Fatal("batch never finished")
	}
	if s.Stats.Clones != 1 || s.Stats.BallsSpawned != 2 {
		dumpLog(t, ts)
		t.Fatalf("clones=%d spawned=%d", s.Stats.Clones, s.Stats.BallsSpawned)
	}
	if s.DispatchStats().Routed == 0 {
		t.Fatal("no ball/region pairs were dispatched")
	}
}

func TestItemOfferAndChoice(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	if err := s.ChooseItem(ItemBallCount); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("choosing before any offer: %v", err)
	}
	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ts.RunUntilIdle(3000) < 0 {
		t.Fatal("batch never finished")
	}

	offer := s.Items().Offer
	if len(offer) != 4 || offer[3] != ItemBallCount {
		t.Fatalf("offer: %v", offer)
	}
	if err := s.Drop(); !errors.Is(err, ErrDropNotReady) {
		t.Fatalf("drop with the offer open: %v", err)
	}
	if err := s.ChooseItem(ItemKind(99)); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("unknown item: %v", err)
	}
	if err := s.ChooseItem(ItemBallCount); err != nil {
		t.Fatalf("choose ball count: %v", err)
	}
	if s.Loadout().Count != 4 {
		t.Fatalf("loadout count: %d", s.Loadout().Count)
	}
	if err := s.ChooseItem(ItemBallCount); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("second item in one turn: %v", err)
	}
	if !s.DropReady() {
		t.Fatal("drop should be ready after taking the item")
	}
}

func TestItemWallPlacement(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	s.items.Offer = []ItemKind{ItemWallSquare, ItemWallBar, ItemCash, ItemBallCount}
	s.items.OfferOpen = true

	if err := s.ChooseItem(ItemWallSquare); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !s.Items().IsPlacing() || math.Abs(s.Items().Rotation-math.Pi/4) > 1e-9 {
		t.Fatalf("placing=%v rotation=%g", s.Items().IsPlacing(), s.Items().Rotation)
	}
	if s.DropReady() {
		t.Fatal("drop must wait for the placement")
	}
	s.RotateItem(-3)
	walls := len(s.Registry().Walls())
	out, err := s.PlaceAt(Vec{X: 400, Y: 400}, false)
	if err != nil || out != PlaceCreated {
		t.Fatalf("place: %s %v", out, err)
	}
	ws := s.Registry().Walls()
	if len(ws) != walls+1 {
		t.Fatalf("walls: %d -> %d", walls, len(ws))
	}
	if got := ws[len(ws)-1].Rotation; math.Abs(got-(math.Pi/4-0.3)) > 1e-9 {
		t.Fatalf("wall rotation %g", got)
	}
	if s.Items().IsPlacing() || !s.Items().Used {
		t.Fatal("item should be consumed")
	}
}

func TestItemRegionPlacementRetriesAfterRejection(t *testing.T) {
	ts := newDropSim(WithPortal(PortalBlue, 400, 300))
	s := ts.Session
	s.items.Offer = []ItemKind{ItemWallSquare, ItemWallBar, ItemCash, ItemBallCount}
	s.items.OfferOpen = true
	if err := s.ChooseItem(ItemCash); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if out, _ := s.PlaceAt(Vec{X: 410, Y: 300}, false); out != PlaceRejected {
		t.Fatalf("cash on a portal: %s", out)
	}
	if !s.Items().IsPlacing() {
		t.Fatal("a rejected placement must keep the item")
	}
	if out, _ := s.PlaceAt(Vec{X: 400, Y: 550}, false); out != PlaceCreated {
		t.Fatalf("second try: %s", out)
	}
	if s.Registry().Count(KindCash) != 1 {
		t.Fatalf("cash regions: %d", s.Registry().Count(KindCash))
	}
}

func TestSandboxTools(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	p := Vec{X: 400, Y: 300}

	if out, _ := s.PlaceAt(p, false); out != PlaceRejected {
		t.Fatalf("no tool selected: %s", out)
	}
	s.SelectTool(ToolCash)
	if out, _ := s.PlaceAt(p, false); out != PlaceCreated {
		t.Fatalf("cash: %s", out)
	}
	if out, _ := s.PlaceAt(p, false); out != PlaceUpgraded {
		t.Fatalf("cash again: %s", out)
	}
	s.SelectTool(ToolPortal)
	if out, _ := s.PlaceAt(Vec{X: 150, Y: 150}, true); out != PlaceCreated {
		t.Fatalf("orange portal: %s", out)
	}
	if s.Registry().Portal(PortalOrange) == nil {
		t.Fatal("secondary click should place the orange portal")
	}
	s.SelectTool(ToolRemove)
	if out, _ := s.PlaceAt(p, false); out != PlaceRemoved {
		t.Fatalf("remove: %s", out)
	}
	if s.Registry().Count(KindCash) != 0 {
		t.Fatal("cash region not removed")
	}
	if err := s.DrawWall(Vec{X: 100, Y: 100}, Vec{X: 105, Y: 100}); !errors.Is(err, ErrWallTooShort) {
		t.Fatalf("short wall: %v", err)
	}
	if err := s.DrawWall(Vec{X: 100, Y: 500}, Vec{X: 300, Y: 520}); err != nil {
		t.Fatalf("wall: %v", err)
	}
}

func TestPauseFreezesSession(t *testing.T) {
	ts := newDropSim()
	s := ts.Session
	if !s.TogglePause() {
		t.Fatal("expected paused")
	}
	ts.RunTicks(10)
	if s.TickCount() != 0 {
		t.Fatalf("ticked while paused: %d", s.TickCount())
	}
	if err := s.Drop(); !errors.Is(err, ErrPaused) {
		t.Fatalf("drop while paused: %v", err)
	}
	if _, err := s.PlaceAt(Vec{X: 400, Y: 300}, false); !errors.Is(err, ErrPaused) {
		t.Fatalf("place while paused: %v", err)
	}
	if _, err := s.ToggleFloor(); !errors.Is(err, ErrPaused) {
		t.Fatalf("floor while paused: %v", err)
	}
	s.TogglePause()
	ts.RunTicks(10)
	if s.TickCount() != 10 {
		t.Fatalf("ticks after resume: %d", s.TickCount())
	}
}

func TestStartingLayout(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		ts := NewTestSim(WithSeed(seed))
		reg := ts.Session.Registry()
		if reg.Portal(PortalBlue) == nil || reg.Portal(PortalOrange) == nil {
			t.Fatalf("seed %d: portals missing", seed)
		}
		mults := reg.Regions(KindMultiplier)
		for i, a := range mults {
			if a.Factor != 2 {
				t.Fatalf("seed %d: starting multiplier factor %d", seed, a.Factor)
			}
			if math.IsNaN(a.Center.X) || math.IsNaN(a.Center.Y) {
				t.Fatalf("seed %d: multiplier at NaN", seed)
			}
			for _, b := range mults[i+1:] {
				if a.Center.Dist(b.Center) < layoutMultSpacing {
					t.Fatalf("seed %d: multipliers %.0f apart", seed, a.Center.Dist(b.Center))
				}
			}
		}
		if len(mults) == 0 {
			t.Fatalf("seed %d: no starting multipliers", seed)
		}
	}
}
