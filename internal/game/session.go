package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

// Command errors.
var (
	ErrDropNotReady    = errors.New("drop not ready: balls still in play or item choice pending")
	ErrItemUnavailable = errors.New("item not offered this turn")
	ErrUnknownItem     = errors.New("unknown item")
	ErrPaused          = errors.New("session is paused")
	ErrWallTooShort    = errors.New("wall segment too short")
)

// Cue is a fire-and-forget side effect such as a sound.
type Cue interface {
	Play() error
}

// Tool is the sandbox tool bound to clicks on the tank.
type Tool int

const (
	ToolNone Tool = iota
	ToolMultiplier
	ToolCash
	ToolLevelUp
	ToolPortal
	ToolRemove
	ToolWall
)

func (t Tool) String() string {
	switch t {
	case ToolMultiplier:
		return "multiplier"
	case ToolCash:
		return "cash"
	case ToolLevelUp:
		return "level_up"
	case ToolPortal:
		return "portal"
	case ToolRemove:
		return "remove"
	case ToolWall:
		return "wall"
	default:
		return "none"
	}
}

func (t Tool) regionKind() (RegionKind, bool) {
	switch t {
	case ToolMultiplier:
		return KindMultiplier, true
	case ToolCash:
		return KindCash, true
	case ToolLevelUp:
		return KindLevelUp, true
	}
	return 0, false
}

// Loadout is what the next drop releases.
type Loadout struct {
	Level int
	Count int
}

// CashFeedback is a floating "+$" marker left by a cash payout.
type CashFeedback struct {
	Amount int64
	Pos    Vec
	Age    int // ticks since the payout
}

const cashFeedbackTicks = 60

// Alpha is the marker's opacity, fading linearly to zero.
func (f CashFeedback) Alpha() float64 {
	return math.Max(0, 1-float64(f.Age)/cashFeedbackTicks)
}

// Rise is how far the marker has floated up.
func (f CashFeedback) Rise() float64 { return float64(f.Age) * 0.5 }

// SessionStats counts what happened over a session.
type SessionStats struct {
	BallsSpawned     int
	TestBallsSpawned int
	Clones           int
	CashPayouts      int
	MoneyFromCash    int64
	MoneyFromClear   int64
	LevelUps         int
	Teleports        int
	DeadPortals      int // blue portal entered with no orange exit
	Fallen           int
	TurnsCompleted   int
	TestBatches      int
	StuckEvents      int
	CueFailures      int
}

// Session is one running sandbox: the physics world, the region registry,
// the balls, the wallet and the turn controller. It is not safe for
// concurrent use; everything runs on the caller's tick goroutine.
type Session struct {
	cfg   Config
	rng   *rand.Rand
	world *physics.World
	reg   *Registry
	disp  *Dispatcher
	sched *Scheduler
	turn  *TurnController
	items ItemState
	cue   Cue
	log   *SimLog

	wallet Wallet
	balls  []*Ball
	byBody map[*physics.Body]*Ball

	tick          int
	paused        bool
	spawnX        float64
	hasSpawnX     bool
	loadout       Loadout
	tool          Tool
	testBallCount int
	feedback      []CashFeedback

	Stats SessionStats
}

// SessionOption customises NewSession.
type SessionOption func(*Session)

// WithRand makes the session draw from rng.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// WithCue sets the cue fired on every cash payout.
func WithCue(c Cue) SessionOption {
	return func(s *Session) { s.cue = c }
}

// WithSimLog records session events into sl.
func WithSimLog(sl *SimLog) SessionOption {
	return func(s *Session) { s.log = sl }
}

// NewSession builds a tank from cfg: tank walls, the permanent cash band,
// and the starting layout when enabled. The floor starts dropped.
func NewSession(cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s := &Session{
		cfg:     cfg,
		sched:   &Scheduler{},
		turn:    NewTurnController(cfg.VelocityThreshold, cfg.VelocityDebounce),
		byBody:  make(map[*physics.Body]*Ball),
		loadout: Loadout{Level: cfg.StartBallLevel, Count: cfg.StartBallCount},
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	if s.log == nil {
		s.log = NewSimLog(false)
	}

	s.world = physics.NewWorld(cfg.TankWidth, cfg.TankHeight+cfg.FallenBuffer, cfg.CellSize)
	s.world.Gravity = Vec{X: 0, Y: cfg.Gravity}
	s.world.Substeps = cfg.Substeps
	s.reg = NewRegistry(cfg, s.world)
	s.disp = NewDispatcher(s.reg, s, s)

	s.reg.AddTankWalls()
	s.reg.CreatePermanentCash()
	if cfg.StartingLayout {
		s.buildStartingLayout()
	}
	s.rollSpawnX()
	s.log.Add(0, "--", catTurn, "session_start", fmt.Sprintf("turn 1, loadout %d×L%d", s.loadout.Count, s.loadout.Level), 1)
	return s, nil
}

// Accessors used by the renderer, the harness and reports.

func (s *Session) Config() Config { return s.cfg }
func (s *Session) Registry() *Registry { return s.reg }
func (s *Session) World() *physics.World { return s.world }
func (s *Session) Log() *SimLog { return s.log }
func (s *Session) Wallet() Wallet { return s.wallet }
func (s *Session) Turn() int { return s.turn.Turn }
func (s *Session) TurnState() TurnState { return s.turn.State() }
func (s *Session) Loadout() Loadout { return s.loadout }
func (s *Session) Tool() Tool { return s.tool }
func (s *Session) Items() ItemState { return s.items }
func (s *Session) Paused() bool { return s.paused }
func (s *Session) TickCount() int { return s.tick }
func (s *Session) Now() time.Duration { return s.sched.Now() }
func (s *Session) PendingSpawns() int { return s.sched.Pending() }
func (s *Session) TestBallCount() int { return s.testBallCount }
func (s *Session) Feedback() []CashFeedback { return s.feedback }
func (s *Session) DispatchStats() DispatchStats { return s.disp.Stats }

// SpawnX returns the x coordinate every ball of this turn drops from.
func (s *Session) SpawnX() float64 {
	if !s.hasSpawnX {
		s.rollSpawnX()
	}
	return s.spawnX
}

// DropReady reports whether Drop would be accepted.
func (s *Session) DropReady() bool {
	return !s.paused && s.turn.DropReady() && !s.items.OfferOpen && !s.items.IsPlacing()
}

// Balls returns the live balls, oldest first.
func (s *Session) Balls() []*Ball {
	out := make([]*Ball, len(s.balls))
	copy(out, s.balls)
	return out
}

// BallFor resolves a physics body to its ball.
func (s *Session) BallFor(b *physics.Body) (*Ball, bool) {
	ball, ok := s.byBody[b]
	return ball, ok
}

// Tick advances the session by one fixed step: due spawns fire, physics
// steps, collisions are dispatched, fallen balls are removed and the turn
// controller samples the result.
func (s *Session) Tick() {
	if s.paused {
		return
	}
	s.tick++
	s.sched.Advance(s.cfg.TickDuration)
	s.sched.RunDue()

	s.disp.Dispatch(s.world.Step())
	s.removeFallen()
	s.observe()
	s.ageFeedback()
}

func (s *Session) removeFallen() {
	line := s.cfg.fallenLine()
	kept := s.balls[:0]
	for _, b := range s.balls {
		if b.Position().Y > line {
			s.world.Remove(b.body)
			delete(s.byBody, b.body)
			s.Stats.Fallen++
			s.log.AddVerbose(s.tick, ballLabel(b), catSpawn, "fallen", fmt.Sprintf("y=%.0f", b.Position().Y), b.Position().Y)
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(s.balls); i++ {
		s.balls[i] = nil
	}
	s.balls = kept
}

func (s *Session) observe() {
	obs := Observation{Pending: s.sched.Pending(), Now: s.sched.Now()}
	for _, b := range s.balls {
		obs.Balls++
		if b.IsTest {
			obs.TestBalls++
		}
		obs.VerticalSpeed += math.Abs(b.Velocity().Y)
	}
	s.log.AddVerbose(s.tick, "--", catTurn, "sample", fmt.Sprintf("balls=%d vy=%.3f", obs.Balls, obs.VerticalSpeed), obs.VerticalSpeed)

	switch ev := s.turn.Observe(obs); ev {
	case TurnStarted:
		s.log.Add(s.tick, "--", catTurn, "active", fmt.Sprintf("turn %d", s.turn.Turn), float64(s.turn.Turn))
	case TurnBecameStuck:
		s.Stats.StuckEvents++
		s.log.Add(s.tick, "--", catTurn, "stuck", fmt.Sprintf("%d balls, Σ|vy|=%.3f", obs.Balls, obs.VerticalSpeed), obs.VerticalSpeed)
	case TurnUnstuck:
		s.log.Add(s.tick, "--", catTurn, "unstuck", fmt.Sprintf("Σ|vy|=%.3f", obs.VerticalSpeed), obs.VerticalSpeed)
	case TestBatchCompleted:
		s.Stats.TestBatches++
		s.log.Add(s.tick, "--", catTurn, "test_batch_done", fmt.Sprintf("turn stays %d", s.turn.Turn), float64(s.turn.Turn))
	case TurnCompleted:
		s.Stats.TurnsCompleted++
		s.startTurn()
	}
}

// startTurn resets the turn-scoped state after a real batch finished.
func (s *Session) startTurn() {
	s.items.reset()
	s.rollSpawnX()
	if s.turn.Turn >= s.cfg.ItemOfferFromTurn {
		s.items.rollOffer(s.rng)
		s.log.Add(s.tick, "--", catTurn, "item_offer", fmt.Sprint(s.items.Offer), float64(len(s.items.Offer)))
	}
	s.log.Add(s.tick, "--", catTurn, "turn_start", fmt.Sprintf("turn %d spawn x=%.0f", s.turn.Turn, s.spawnX), float64(s.turn.Turn))
}

// rollSpawnX commits a new spawn x for the turn, uniform between the side
// margins.
func (s *Session) rollSpawnX() {
	lo := s.cfg.SpawnMargin + s.cfg.BallRadius
	hi := s.cfg.TankWidth - s.cfg.SpawnMargin - s.cfg.BallRadius
	s.spawnX = lo + s.rng.Float64()*(hi-lo)
	s.hasSpawnX = true
}

// SetSpawnX overrides the committed spawn x for the current turn.
func (s *Session) SetSpawnX(x float64) {
	s.spawnX = x
	s.hasSpawnX = true
}

func (s *Session) ageFeedback() {
	kept := s.feedback[:0]
	for _, f := range s.feedback {
		f.Age++
		if f.Age < cashFeedbackTicks {
			kept = append(kept, f)
		}
	}
	s.feedback = kept
}

// spawnBall adds a ball body at p and registers it.
func (s *Session) spawnBall(p Vec, level int, isTest bool) *Ball {
	body := s.world.AddCircle(physics.KindBall, p, s.cfg.BallRadius, physics.BodyOptions{
		Restitution: s.cfg.Restitution,
		Friction:    s.cfg.Friction,
		Density:     s.cfg.Density,
	})
	b := newBall(body, level, isTest)
	s.balls = append(s.balls, b)
	s.byBody[body] = b
	if isTest {
		s.Stats.TestBallsSpawned++
	} else {
		s.Stats.BallsSpawned++
	}
	return b
}

// removeAllBalls deletes every ball and returns how many were not test balls.
func (s *Session) removeAllBalls() int {
	n := 0
	for _, b := range s.balls {
		s.world.Remove(b.body)
		if !b.IsTest {
			n++
		}
	}
	s.balls = nil
	s.byBody = make(map[*physics.Body]*Ball)
	return n
}

// Drop schedules the loadout as a batch of real balls from the turn's
// spawn x, one every SpawnDelay.
func (s *Session) Drop() error {
	return s.drop(false)
}

// DropTest schedules a batch of level-1 test balls. Test balls never pay
// out and never advance the turn.
func (s *Session) DropTest() error {
	return s.drop(true)
}

func (s *Session) drop(test bool) error {
	if s.paused {
		return ErrPaused
	}
	if !s.DropReady() {
		return ErrDropNotReady
	}
	x := s.SpawnX()
	y := s.cfg.spawnY()
	level := s.loadout.Level
	key := "drop"
	if test {
		level = 1
		key = "drop_test"
		s.testBallCount = s.loadout.Count
	}
	s.turn.BeginBatch(test)
	s.sched.ScheduleBatch(s.loadout.Count, s.cfg.SpawnDelay, func(int) {
		b := s.spawnBall(Vec{X: x, Y: y}, level, test)
		s.log.AddVerbose(s.tick, ballLabel(b), catSpawn, "spawn", fmt.Sprintf("x=%.0f level %d", x, level), float64(level))
	})
	s.log.Add(s.tick, "--", catSpawn, key, fmt.Sprintf("%d balls level %d at x=%.0f", s.loadout.Count, level, x), float64(s.loadout.Count))
	return nil
}

// ForceClear liquidates every ball in play for 1 money per real ball and
// returns the number liquidated. Pending spawns are cancelled unless the
// config keeps them.
func (s *Session) ForceClear() (int, error) {
	if s.paused {
		return 0, ErrPaused
	}
	paid := s.removeAllBalls()
	s.wallet.AddMoney(int64(paid))
	s.Stats.MoneyFromClear += int64(paid)
	s.testBallCount = 0
	s.turn.ClearStuck()
	cancelled := 0
	if !s.cfg.KeepPendingSpawnsOnClear {
		cancelled = s.sched.Cancel()
	}
	s.log.Add(s.tick, "--", catEconomy, "force_clear", fmt.Sprintf("+%d money, %d spawns cancelled", paid, cancelled), float64(paid))
	s.observe()
	return paid, nil
}

// ClearAll removes every ball, user region and user wall and drops the
// floor. The permanent cash band and the tank remain.
func (s *Session) ClearAll() error {
	if s.paused {
		return ErrPaused
	}
	s.removeAllBalls()
	s.reg.Clear()
	s.reg.SetFloor(false)
	s.feedback = nil
	s.testBallCount = 0
	s.turn.ClearStuck()
	if !s.cfg.KeepPendingSpawnsOnClear {
		s.sched.Cancel()
	}
	s.log.Add(s.tick, "--", catRegion, "clear_all", "", 0)
	s.observe()
	return nil
}

// TogglePause stops or resumes ticking and returns the new paused state.
func (s *Session) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// ToggleFloor adds or drops the tank floor and reports whether it is now in
// place.
func (s *Session) ToggleFloor() (bool, error) {
	if s.paused {
		return s.reg.HasFloor(), ErrPaused
	}
	on := s.reg.SetFloor(!s.reg.HasFloor())
	s.log.Add(s.tick, "--", catRegion, "floor", fmt.Sprintf("on=%v", on), 0)
	return on, nil
}

// SelectTool binds clicks to t.
func (s *Session) SelectTool(t Tool) { s.tool = t }

// PlaceAt applies a primary or secondary click at p. A pending item takes
// precedence over the selected tool. For the portal tool, secondary places
// the orange exit.
func (s *Session) PlaceAt(p Vec, secondary bool) (PlaceOutcome, error) {
	if s.paused {
		return PlaceRejected, ErrPaused
	}
	if s.items.IsPlacing() {
		return s.placeItem(p), nil
	}
	switch s.tool {
	case ToolPortal:
		color := PortalBlue
		if secondary {
			color = PortalOrange
		}
		out, r := s.reg.PlacePortal(p, color)
		s.logPlacement(out, KindPortal, r, p)
		return out, nil
	case ToolRemove:
		if s.RemoveAt(p) {
			return PlaceRemoved, nil
		}
		return PlaceRejected, nil
	}
	kind, ok := s.tool.regionKind()
	if !ok {
		return PlaceRejected, nil
	}
	out, r := s.reg.Place(kind, p, 0)
	s.logPlacement(out, kind, r, p)
	return out, nil
}

func (s *Session) logPlacement(out PlaceOutcome, kind RegionKind, r *Region, p Vec) {
	if out == PlaceRejected {
		s.log.Add(s.tick, "--", catRegion, "rejected", fmt.Sprintf("%s at (%.0f,%.0f)", kind, p.X, p.Y), 0)
		return
	}
	s.log.Add(s.tick, regionLabel(r), catRegion, out.String(), fmt.Sprintf("level %d at (%.0f,%.0f)", r.Level, r.Center.X, r.Center.Y), float64(r.Level))
}

func (s *Session) placeItem(p Vec) PlaceOutcome {
	k := s.items.Placing
	if shape, ok := k.WallShape(); ok {
		w := s.reg.AddWall(shape, p, s.items.Rotation)
		s.items.consume()
		s.log.Add(s.tick, "--", catRegion, "wall_item", fmt.Sprintf("%s at (%.0f,%.0f)", w.Shape, p.X, p.Y), 0)
		return PlaceCreated
	}
	kind, _ := k.RegionKind()
	out, r := s.reg.Place(kind, p, s.items.Rotation)
	s.logPlacement(out, kind, r, p)
	if out != PlaceRejected {
		s.items.consume()
	}
	return out
}

// RemoveAt deletes the topmost removable region or wall under p.
func (s *Session) RemoveAt(p Vec) bool {
	if s.paused {
		return false
	}
	rm, ok := s.reg.RemoveAt(p)
	if !ok {
		return false
	}
	if rm.Region != nil {
		s.log.Add(s.tick, regionLabel(rm.Region), catRegion, "removed", "", 0)
	} else {
		s.log.Add(s.tick, "--", catRegion, "wall_removed", rm.Wall.Shape.String(), 0)
	}
	return true
}

// DrawWall lays a wall along the segment a→b.
func (s *Session) DrawWall(a, b Vec) error {
	if s.paused {
		return ErrPaused
	}
	if s.reg.AddSegmentWall(a, b) == nil {
		return ErrWallTooShort
	}
	s.log.Add(s.tick, "--", catRegion, "wall_drawn", fmt.Sprintf("len %.0f", b.Dist(a)), b.Dist(a))
	return nil
}

// ChooseItem takes one item from the turn's offer. Ball upgrades apply at
// once; placement items enter placement mode until a valid click.
func (s *Session) ChooseItem(k ItemKind) error {
	if s.paused {
		return ErrPaused
	}
	if _, ok := itemNames[k]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, int(k))
	}
	if !s.items.Offered(k) {
		return fmt.Errorf("%w: %s", ErrItemUnavailable, k)
	}
	switch k {
	case ItemBallLevel:
		s.loadout.Level++
		s.items.consume()
	case ItemBallCount:
		s.loadout.Count++
		s.items.consume()
	default:
		s.items.beginPlacing(k)
	}
	s.log.Add(s.tick, "--", catTurn, "item_chosen", k.String(), 0)
	return nil
}

// DismissOffer closes the item offer without using an item.
func (s *Session) DismissOffer() {
	s.items.OfferOpen = false
}

// CancelPlacement leaves item placement mode; the item stays available.
func (s *Session) CancelPlacement() {
	s.items.placing = false
}

// RotateItem turns the pending item by steps of 0.1 rad.
func (s *Session) RotateItem(steps int) {
	s.items.rotate(steps)
}
