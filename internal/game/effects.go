package game

import "fmt"

// multiply clones a ball factor-1 times on its first pass through r. Clones
// start near the parent with a damped copy of its velocity and are already
// marked as multiplied by r.
func (s *Session) multiply(b *Ball, r *Region) {
	if b.multipliedBy.has(r.ID) {
		return
	}
	b.multipliedBy.add(r.ID)

	pos, vel := b.Position(), b.Velocity()
	radius := s.cfg.BallRadius
	n := r.Factor - 1
	for i := 0; i < n; i++ {
		jitter := Vec{
			X: (s.rng.Float64()*2 - 1) * radius,
			Y: (s.rng.Float64()*2 - 1) * radius,
		}
		c := s.spawnBall(pos.Add(jitter), b.Level, b.IsTest)
		c.UsedPortal = b.UsedPortal
		c.Color = b.Color
		c.multipliedBy.add(r.ID)
		c.body.SetVelocity(vel.Scale(0.5 + s.rng.Float64()*0.5))
		if b.IsTest {
			s.testBallCount++
		}
	}
	if n > 0 {
		s.Stats.Clones += n
		s.log.Add(s.tick, regionLabel(r), catEffect, "multiply", fmt.Sprintf("%s ×%d", ballLabel(b), r.Factor), float64(n))
	}
}

// payCash credits level × region level once per ball and region. Test
// balls never pay.
func (s *Session) payCash(b *Ball, r *Region) {
	if b.IsTest || b.cashTriggeredBy.has(r.ID) {
		return
	}
	b.cashTriggeredBy.add(r.ID)

	amount := int64(CashPayout(b.Level, r.Level))
	s.wallet.AddMoney(amount)
	s.Stats.CashPayouts++
	s.Stats.MoneyFromCash += amount
	s.feedback = append(s.feedback, CashFeedback{Amount: amount, Pos: b.Position()})
	s.log.Add(s.tick, regionLabel(r), catEconomy, "cash_payout",
		fmt.Sprintf("%s level %d × %d = %d", ballLabel(b), b.Level, r.Level, amount), float64(amount))

	if s.cue == nil {
		return
	}
	if err := s.cue.Play(); err != nil {
		s.Stats.CueFailures++
		s.log.Add(s.tick, regionLabel(r), catAudio, "cue_failed", err.Error(), 0)
	}
}

// CashPayout is what a ball of ballLevel earns in a cash region of
// regionLevel. Levels below 1 count as 1.
func CashPayout(ballLevel, regionLevel int) int {
	return effectiveLevel(ballLevel) * effectiveLevel(regionLevel)
}

// levelUp raises a ball's level by the region's level once per ball and
// region. Test balls are unaffected.
func (s *Session) levelUp(b *Ball, r *Region) {
	if b.IsTest || b.leveledUpBy.has(r.ID) {
		return
	}
	b.leveledUpBy.add(r.ID)

	b.Level = effectiveLevel(b.Level) + effectiveLevel(r.Level)
	b.Color = LevelColor(b.Level)
	s.Stats.LevelUps++
	s.log.Add(s.tick, regionLabel(r), catEffect, "level_up", fmt.Sprintf("%s → level %d", ballLabel(b), b.Level), float64(b.Level))
}

// teleport moves a ball entering the blue portal to the orange one. Each
// ball may travel once. Velocity survives the jump unchanged and only the
// multiplier markers are forgotten.
func (s *Session) teleport(b *Ball, r *Region) {
	if r.Color != PortalBlue || b.UsedPortal {
		return
	}
	exit := s.reg.Portal(PortalOrange)
	if exit == nil {
		s.Stats.DeadPortals++
		if !s.cfg.PortalKeepsChargeWithoutExit {
			b.UsedPortal = true
		}
		s.log.Add(s.tick, regionLabel(r), catEffect, "portal_no_exit", ballLabel(b), 0)
		return
	}

	vel := b.Velocity()
	b.body.SetPosition(exit.Center)
	b.body.SetVelocity(vel)
	b.UsedPortal = true
	b.Color = traveledBallColor
	b.multipliedBy = make(regionSet)
	s.Stats.Teleports++
	s.log.Add(s.tick, regionLabel(r), catEffect, "teleport",
		fmt.Sprintf("%s → (%.0f,%.0f)", ballLabel(b), exit.Center.X, exit.Center.Y), 0)
}
