package game

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

// regionSet records which regions already acted on a ball.
type regionSet map[uuid.UUID]struct{}

func (s regionSet) has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s regionSet) add(id uuid.UUID) { s[id] = struct{}{} }

// Ball is the game-side state of a falling ball. Position and velocity live
// on the physics body.
type Ball struct {
	Level      int
	IsTest     bool
	UsedPortal bool
	Color      color.RGBA

	multipliedBy    regionSet
	cashTriggeredBy regionSet
	leveledUpBy     regionSet

	body *physics.Body
}

func newBall(body *physics.Body, level int, isTest bool) *Ball {
	b := &Ball{
		Level:           level,
		IsTest:          isTest,
		multipliedBy:    make(regionSet),
		cashTriggeredBy: make(regionSet),
		leveledUpBy:     make(regionSet),
		body:            body,
	}
	b.recolor()
	return b
}

// recolor derives the display colour from the ball's state.
func (b *Ball) recolor() {
	switch {
	case b.IsTest:
		b.Color = testBallColor
	case b.UsedPortal:
		b.Color = traveledBallColor
	default:
		b.Color = LevelColor(b.Level)
	}
}

// Body returns the physics body of the ball.
func (b *Ball) Body() *physics.Body { return b.body }

// Position returns the ball's centre.
func (b *Ball) Position() Vec { return b.body.Position() }

// Velocity returns the ball's velocity in pixels per tick.
func (b *Ball) Velocity() Vec { return b.body.Velocity() }

// MultipliedBy reports whether region id already cloned this ball.
func (b *Ball) MultipliedBy(id uuid.UUID) bool { return b.multipliedBy.has(id) }

// CashTriggeredBy reports whether region id already paid out for this ball.
func (b *Ball) CashTriggeredBy(id uuid.UUID) bool { return b.cashTriggeredBy.has(id) }

// LeveledUpBy reports whether region id already levelled this ball.
func (b *Ball) LeveledUpBy(id uuid.UUID) bool { return b.leveledUpBy.has(id) }

// effectiveLevel guards payout maths against unset levels.
func effectiveLevel(level int) int {
	if level < 1 {
		return 1
	}
	return level
}
