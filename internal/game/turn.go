package game

import "time"

// TurnState is the phase of the drop cycle.
type TurnState int

const (
	TurnIdle   TurnState = iota // no balls, drop allowed
	TurnActive                  // balls in play
	TurnStuck                   // balls in play but barely moving
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnActive:
		return "active"
	case TurnStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// TurnEvent is the transition produced by one observation.
type TurnEvent int

const (
	TurnNoChange TurnEvent = iota
	TurnStarted
	TurnBecameStuck
	TurnUnstuck
	TurnCompleted      // a real batch finished; the turn counter advanced
	TestBatchCompleted // a test batch finished; nothing advanced
)

func (e TurnEvent) String() string {
	switch e {
	case TurnStarted:
		return "started"
	case TurnBecameStuck:
		return "stuck"
	case TurnUnstuck:
		return "unstuck"
	case TurnCompleted:
		return "completed"
	case TestBatchCompleted:
		return "test_completed"
	default:
		return "none"
	}
}

// Observation is the aggregate state the controller samples each tick.
type Observation struct {
	Balls         int           // live balls
	TestBalls     int           // live test balls
	Pending       int           // spawns scheduled but not yet created
	VerticalSpeed float64       // Σ|vy| over live balls
	Now           time.Duration // simulated time
}

// TurnController tracks the drop cycle: Idle → Active → (Stuck) → Idle.
type TurnController struct {
	Turn int

	threshold float64
	debounce  time.Duration

	state        TurnState
	batchWasTest bool
	slow         bool // Σ|vy| has stayed below threshold since slowSince
	slowSince    time.Duration
	lastNow      time.Duration
}

// NewTurnController starts at turn 1 in the Idle state.
func NewTurnController(threshold float64, debounce time.Duration) *TurnController {
	return &TurnController{Turn: 1, threshold: threshold, debounce: debounce}
}

func (tc *TurnController) State() TurnState { return tc.state }

// DropReady reports whether a new batch may be dropped.
func (tc *TurnController) DropReady() bool { return tc.state == TurnIdle }

// Stuck reports whether the balls in play have stalled.
func (tc *TurnController) Stuck() bool { return tc.state == TurnStuck }

// BatchIsTest reports whether the batch in play is a test batch.
func (tc *TurnController) BatchIsTest() bool { return tc.batchWasTest }

// SlowFor returns how long the vertical speed has stayed below threshold as
// of the last observation.
func (tc *TurnController) SlowFor() time.Duration {
	if !tc.slow {
		return 0
	}
	return tc.lastNow - tc.slowSince
}

// BeginBatch marks the start of a drop. Test batches never advance the turn.
func (tc *TurnController) BeginBatch(test bool) {
	if tc.state == TurnIdle {
		tc.batchWasTest = test
	} else if test {
		tc.batchWasTest = true
	}
	if tc.state == TurnIdle {
		tc.state = TurnActive
	}
}

// ClearStuck drops the stuck flag and restarts the debounce timer.
func (tc *TurnController) ClearStuck() {
	tc.slow = false
	if tc.state == TurnStuck {
		tc.state = TurnActive
	}
}

// Observe advances the state machine by one sample.
func (tc *TurnController) Observe(o Observation) TurnEvent {
	tc.lastNow = o.Now
	present := o.Balls > 0 || o.Pending > 0

	if !present {
		tc.slow = false
		if tc.state == TurnIdle {
			return TurnNoChange
		}
		tc.state = TurnIdle
		wasTest := tc.batchWasTest
		tc.batchWasTest = false
		if wasTest {
			return TestBatchCompleted
		}
		tc.Turn++
		return TurnCompleted
	}

	ev := TurnNoChange
	if tc.state == TurnIdle {
		tc.state = TurnActive
		ev = TurnStarted
	}
	if o.TestBalls > 0 && o.TestBalls == o.Balls && o.Pending == 0 && ev == TurnStarted {
		tc.batchWasTest = true
	}

	if o.Balls == 0 {
		tc.slow = false
		if tc.state == TurnStuck {
			tc.state = TurnActive
			return TurnUnstuck
		}
		return ev
	}

	if o.VerticalSpeed >= tc.threshold {
		tc.slow = false
		if tc.state == TurnStuck {
			tc.state = TurnActive
			return TurnUnstuck
		}
		return ev
	}

	if !tc.slow {
		tc.slow = true
		tc.slowSince = o.Now
	}
	if tc.state != TurnStuck && o.Now-tc.slowSince >= tc.debounce {
		tc.state = TurnStuck
		return TurnBecameStuck
	}
	return ev
}
