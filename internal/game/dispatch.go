package game

import "github.com/Garsondee/Ball-Drop/internal/physics"

// regionIndex resolves sensor bodies to regions.
type regionIndex interface {
	Lookup(b *physics.Body) (*Region, bool)
}

// ballIndex resolves ball bodies to game-side ball state.
type ballIndex interface {
	BallFor(b *physics.Body) (*Ball, bool)
}

// effectHandler applies a region's effect to a ball.
type effectHandler interface {
	multiply(b *Ball, r *Region)
	payCash(b *Ball, r *Region)
	levelUp(b *Ball, r *Region)
	teleport(b *Ball, r *Region)
}

// DispatchStats counts what the dispatcher did with the pairs it saw.
type DispatchStats struct {
	Routed  int // ball/region pairs handed to an effect
	Stale   int // sensor or ball no longer registered
	Ignored int // pairs that are not ball/region
}

// Dispatcher routes collision-start pairs between a ball and a region
// sensor to the effect for that region's kind.
type Dispatcher struct {
	regions regionIndex
	balls   ballIndex
	fx      effectHandler

	Stats DispatchStats
}

// NewDispatcher wires a dispatcher to its lookups and effects.
func NewDispatcher(regions regionIndex, balls ballIndex, fx effectHandler) *Dispatcher {
	return &Dispatcher{regions: regions, balls: balls, fx: fx}
}

// Dispatch handles every pair in order. Effects run to completion before
// the next pair is looked at.
func (d *Dispatcher) Dispatch(pairs []physics.Pair) {
	for _, p := range pairs {
		d.dispatchOne(p)
	}
}

func (d *Dispatcher) dispatchOne(p physics.Pair) {
	ballBody, sensor := classify(p)
	if ballBody == nil {
		d.Stats.Ignored++
		return
	}
	r, ok := d.regions.Lookup(sensor)
	if !ok {
		d.Stats.Stale++
		return
	}
	b, ok := d.balls.BallFor(ballBody)
	if !ok {
		d.Stats.Stale++
		return
	}
	d.Stats.Routed++
	switch r.Kind {
	case KindMultiplier:
		d.fx.multiply(b, r)
	case KindCash, KindPermanentCash:
		d.fx.payCash(b, r)
	case KindLevelUp:
		d.fx.levelUp(b, r)
	case KindPortal:
		d.fx.teleport(b, r)
	}
}

// classify returns the ball and sensor bodies of a pair, or nils when the
// pair is anything other than exactly one ball against one region sensor.
func classify(p physics.Pair) (ball, sensor *physics.Body) {
	a, b := p.A, p.B
	if a == nil || b == nil {
		return nil, nil
	}
	if b.Kind() == physics.KindBall {
		a, b = b, a
	}
	if a.Kind() != physics.KindBall || b.Kind() != physics.KindRegion || !b.IsSensor() {
		return nil, nil
	}
	return a, b
}
