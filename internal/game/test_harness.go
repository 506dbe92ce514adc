package game

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

// TestSim is a headless session harness used by tests and the headless
// report. It has no Ebiten dependency and supports deterministic seeding
// and structured logging.
type TestSim struct {
	Session *Session
	SimLog  *SimLog

	cfg  Config
	rng  *rand.Rand
	cue  Cue
	seed int64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptConfig simOptionKind = iota // tank size, seed, verbose: applied before the session exists
	simOptWorld                       // regions, walls, balls: applied to the built session
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.seed = seed
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithTankSize sets the tank dimensions.
func WithTankSize(w, h float64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.cfg.TankWidth = w
		ts.cfg.TankHeight = h
	}}
}

// WithoutStartingLayout starts from an empty tank with only the tank walls
// and the permanent cash band.
func WithoutStartingLayout() SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.cfg.StartingLayout = false
	}}
}

// WithConfig edits the config before the session is built.
func WithConfig(edit func(*Config)) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		edit(&ts.cfg)
	}}
}

// WithTestCue installs c as the payout cue.
func WithTestCue(c Cue) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.cue = c
	}}
}

// WithRegion creates a region of kind at (x,y) without placement checks.
func WithRegion(kind RegionKind, x, y float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.reg.Create(kind, Vec{X: x, Y: y}, 0)
	}}
}

// WithPortal creates a portal of color at (x,y).
func WithPortal(color PortalColor, x, y float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.reg.CreatePortal(Vec{X: x, Y: y}, color)
	}}
}

// WithWall adds a stock wall of shape at (x,y).
func WithWall(shape WallShape, x, y, rot float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.reg.AddWall(shape, Vec{X: x, Y: y}, rot)
	}}
}

// WithFloor puts the tank floor in place.
func WithFloor() SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.reg.SetFloor(true)
	}}
}

// WithSpawnX pins the turn's spawn x.
func WithSpawnX(x float64) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.SetSpawnX(x)
	}}
}

// WithLoadout sets the level and count of the next drop.
func WithLoadout(level, count int) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) {
		ts.Session.loadout = Loadout{Level: level, Count: count}
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Config (tank size, seed, verbose, cue)
//  2. World contents (regions, portals, walls, spawn x, loadout)
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{cfg: DefaultConfig()}
	for _, o := range opts {
		if o.kind == simOptConfig {
			o.fn(ts)
		}
	}
	if ts.rng == nil {
		ts.seed = 1
		ts.rng = rand.New(rand.NewSource(ts.seed)) // #nosec G404 -- test harness
	}
	if ts.SimLog == nil {
		ts.SimLog = NewSimLog(false)
	}

	sessOpts := []SessionOption{WithRand(ts.rng), WithSimLog(ts.SimLog)}
	if ts.cue != nil {
		sessOpts = append(sessOpts, WithCue(ts.cue))
	}
	s, err := NewSession(ts.cfg, sessOpts...)
	if err != nil {
		panic(fmt.Sprintf("test sim: %v", err))
	}
	ts.Session = s

	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(ts)
		}
	}
	return ts
}

// Seed returns the seed the harness was built with.
func (ts *TestSim) Seed() int64 { return ts.seed }

// RunTicks advances the session n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Session.Tick()
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the number of ticks run when the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if predicate(ts) {
			return i
		}
		ts.Session.Tick()
	}
	if predicate(ts) {
		return maxTicks
	}
	return -1
}

// RunUntilIdle runs until no balls or pending spawns remain and the turn
// controller is back to Idle.
func (ts *TestSim) RunUntilIdle(maxTicks int) int {
	return ts.RunUntil(func(ts *TestSim) bool {
		s := ts.Session
		return s.TurnState() == TurnIdle && len(s.balls) == 0 && s.PendingSpawns() == 0
	}, maxTicks)
}

// AddBall spawns a ball at p immediately, outside any drop.
func (ts *TestSim) AddBall(p Vec, level int, test bool) *Ball {
	return ts.Session.spawnBall(p, level, test)
}

// Touch delivers a collision-start between b and r as if physics had
// reported it.
func (ts *TestSim) Touch(b *Ball, r *Region) {
	ts.Session.disp.Dispatch([]physics.Pair{{A: b.body, B: r.body}})
}

// Region returns the first region of kind, or nil.
func (ts *TestSim) Region(kind RegionKind) *Region {
	rs := ts.Session.reg.Regions(kind)
	if len(rs) == 0 {
		return nil
	}
	return rs[0]
}
