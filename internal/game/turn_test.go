package game

import (
	"testing"
	"time"
)

const testDebounce = time.Second

func newTestTurn() *TurnController { return NewTurnController(0.5, testDebounce) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestTurnIncrementsOnRealBatch(t *testing.T) {
	tc := newTestTurn()
	tc.BeginBatch(false)
	if tc.State() != TurnActive || tc.DropReady() {
		t.Fatalf("after BeginBatch: state %s", tc.State())
	}
	tc.Observe(Observation{Pending: 10, Now: 0})
	tc.Observe(Observation{Balls: 4, Pending: 6, VerticalSpeed: 8, Now: ms(100)})
	if ev := tc.Observe(Observation{Now: ms(200)}); ev != TurnCompleted {
		t.Fatalf("expected TurnCompleted, got %s", ev)
	}
	if tc.Turn != 2 || tc.State() != TurnIdle {
		t.Fatalf("turn=%d state=%s", tc.Turn, tc.State())
	}
	if ev := tc.Observe(Observation{Now: ms(300)}); ev != TurnNoChange || tc.Turn != 2 {
		t.Fatalf("idle tick changed the turn: %s turn=%d", ev, tc.Turn)
	}
}

func TestTurnTestBatchKeepsTurn(t *testing.T) {
	tc := newTestTurn()
	tc.BeginBatch(true)
	tc.Observe(Observation{Balls: 3, TestBalls: 3, VerticalSpeed: 4, Now: 0})
	if ev := tc.Observe(Observation{Now: ms(50)}); ev != TestBatchCompleted {
		t.Fatalf("expected TestBatchCompleted, got %s", ev)
	}
	if tc.Turn != 1 || tc.BatchIsTest() {
		t.Fatalf("turn=%d test=%v", tc.Turn, tc.BatchIsTest())
	}

	// The next real batch counts again.
	tc.BeginBatch(false)
	tc.Observe(Observation{Balls: 1, VerticalSpeed: 4, Now: ms(100)})
	if ev := tc.Observe(Observation{Now: ms(150)}); ev != TurnCompleted || tc.Turn != 2 {
		t.Fatalf("got %s turn=%d", ev, tc.Turn)
	}
}

func TestTurnStartedFromIdle(t *testing.T) {
	tc := newTestTurn()
	if ev := tc.Observe(Observation{Balls: 2, TestBalls: 2, VerticalSpeed: 3}); ev != TurnStarted {
		t.Fatalf("balls appearing while idle: got %s", ev)
	}
	if !tc.BatchIsTest() {
		t.Fatal("a batch of only test balls should be latched as a test batch")
	}
}

func TestTurnBecomesStuckAfterDebounce(t *testing.T) {
	tc := newTestTurn()
	tc.BeginBatch(false)
	tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: 0})
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(999)}); ev != TurnNoChange || tc.Stuck() {
		t.Fatalf("stuck before the debounce elapsed: %s", ev)
	}
	if tc.SlowFor() != ms(999) {
		t.Fatalf("slow for %s", tc.SlowFor())
	}
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(1000)}); ev != TurnBecameStuck || !tc.Stuck() {
		t.Fatalf("expected stuck at the debounce, got %s", ev)
	}
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.2, Now: ms(1100)}); ev != TurnNoChange {
		t.Fatalf("stuck should not re-fire, got %s", ev)
	}
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.6, Now: ms(1200)}); ev != TurnUnstuck || tc.Stuck() {
		t.Fatalf("one fast sample should clear stuck, got %s", ev)
	}
	if tc.SlowFor() != 0 {
		t.Fatalf("timer not reset: %s", tc.SlowFor())
	}
}

func TestTurnFastSampleResetsDebounce(t *testing.T) {
	tc := newTestTurn()
	tc.BeginBatch(false)
	tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: 0})
	tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(600)})
	tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.9, Now: ms(700)})
	tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(800)})
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(1500)}); ev == TurnBecameStuck {
		t.Fatal("debounce was not reset by the fast sample")
	}
	if ev := tc.Observe(Observation{Balls: 3, VerticalSpeed: 0.1, Now: ms(1800)}); ev != TurnBecameStuck {
		t.Fatalf("expected stuck a full debounce after the reset, got %s", ev)
	}
}

func TestTurnPendingSpawnsDoNotCountAsSlow(t *testing.T) {
	tc := newTestTurn()
	tc.BeginBatch(false)
	for i := 0; i < 5; i++ {
		if ev := tc.Observe(Observation{Pending: 3, Now: ms(i * 500)}); ev != TurnNoChange {
			t.Fatalf("empty tank with pending spawns: %s", ev)
		}
	}
	if tc.Stuck() || tc.State() != TurnActive {
		t.Fatalf("state %s", tc.State())
	}
}

func TestTurnForceClearAfterStuck(t *testing.T) {
	for _, test := range []bool{false, true} {
		tc := newTestTurn()
		tc.BeginBatch(test)
		tc.Observe(Observation{Balls: 2, VerticalSpeed: 0, Now: 0})
		tc.Observe(Observation{Balls: 2, VerticalSpeed: 0, Now: testDebounce})
		if !tc.Stuck() {
			t.Fatal("setup: expected stuck")
		}
		tc.ClearStuck()
		if tc.State() != TurnActive {
			t.Fatalf("ClearStuck left state %s", tc.State())
		}
		tc.Observe(Observation{Now: testDebounce + ms(10)})
		tc.Observe(Observation{Now: testDebounce + ms(20)})
		want := 2
		if test {
			want = 1
		}
		if tc.Turn != want {
			t.Fatalf("test=%v: turn %d, want %d", test, tc.Turn, want)
		}
	}
}
