package game

import (
	"fmt"
	"math"
)

// Starting layout tuning.
const (
	layoutMargin      = 50.0
	layoutTopReserve  = 150.0 // kept clear for spawning
	layoutPortalRaise = 50.0
	layoutWallSpacing = 80.0
	layoutMultSpacing = 100.0
	layoutAttempts    = 50
	layoutWallCount   = 3
	layoutMultiplierN = 3 // one per vertical third
)

var layoutWallShapes = []WallShape{WallSquare, WallCircle, WallTriangle, WallHexagon}

// buildStartingLayout places the portal pair, three random walls and three
// 2× multipliers, in that order so later pieces avoid earlier ones.
func (s *Session) buildStartingLayout() {
	s.placeStartingPortals()
	s.placeStartingWalls()
	s.placeStartingMultipliers()
}

// placeStartingPortals puts blue in a random bottom corner, raised off the
// floor, and orange in the opposite top corner.
func (s *Session) placeStartingPortals() {
	w, h := s.cfg.TankWidth, s.cfg.TankHeight
	pw, ph := s.cfg.RegionWidth, s.cfg.RegionHeight
	left := layoutMargin + pw/2
	right := w - layoutMargin - pw/2
	bottom := h - layoutMargin - ph/2 - layoutPortalRaise
	top := layoutMargin + ph/2

	blue, orange := Vec{X: left, Y: bottom}, Vec{X: right, Y: top}
	if s.rng.Intn(2) == 1 {
		blue, orange = Vec{X: right, Y: bottom}, Vec{X: left, Y: top}
	}
	s.reg.CreatePortal(blue, PortalBlue)
	s.reg.CreatePortal(orange, PortalOrange)
	s.log.Add(0, "--", catRegion, "layout_portals", fmt.Sprintf("blue (%.0f,%.0f) orange (%.0f,%.0f)", blue.X, blue.Y, orange.X, orange.Y), 0)
}

// nearMoneyBand reports whether p lies within pad of the permanent cash band.
func (s *Session) nearMoneyBand(p Vec, pad float64) bool {
	perm := s.reg.Permanent()
	if perm == nil {
		return false
	}
	return perm.Bounds().Expand(pad).Contains(p)
}

func (s *Session) nearPortal(p Vec, dist float64) bool {
	for _, r := range s.reg.Regions(KindPortal) {
		if r.Center.Dist(p) < dist {
			return true
		}
	}
	return false
}

func (s *Session) placeStartingWalls() {
	w, h := s.cfg.TankWidth, s.cfg.TankHeight
	var placed []Vec
	for i := 0; i < layoutWallCount; i++ {
		for attempt := 0; attempt < layoutAttempts; attempt++ {
			p := Vec{
				X: layoutMargin + s.rng.Float64()*(w-2*layoutMargin),
				Y: layoutTopReserve + s.rng.Float64()*(h-layoutTopReserve-layoutMargin),
			}
			shape := layoutWallShapes[s.rng.Intn(len(layoutWallShapes))]
			rot := s.rng.Float64() * 2 * math.Pi
			if s.nearMoneyBand(p, layoutWallSpacing) || s.nearPortal(p, layoutWallSpacing) || tooClose(p, placed, layoutWallSpacing) {
				continue
			}
			s.reg.AddWall(shape, p, rot)
			placed = append(placed, p)
			break
		}
	}
	s.log.Add(0, "--", catRegion, "layout_walls", fmt.Sprintf("%d of %d placed", len(placed), layoutWallCount), float64(len(placed)))
}

// placeStartingMultipliers puts one multiplier in each vertical third of
// the play area, clear of static bodies, portals and the money band.
func (s *Session) placeStartingMultipliers() {
	w, h := s.cfg.TankWidth, s.cfg.TankHeight
	band := (h - layoutTopReserve - layoutMargin) / layoutMultiplierN

	var avoid []Vec
	for _, wall := range s.reg.Walls() {
		avoid = append(avoid, wall.Center)
	}
	for _, r := range s.reg.All() {
		if r.Kind != KindPermanentCash {
			avoid = append(avoid, r.Center)
		}
	}

	placed := 0
	for third := 0; third < layoutMultiplierN; third++ {
		y0 := layoutTopReserve + float64(third)*band
		for attempt := 0; attempt < layoutAttempts; attempt++ {
			p := Vec{
				X: layoutMargin + s.rng.Float64()*(w-2*layoutMargin),
				Y: y0 + s.rng.Float64()*band,
			}
			if s.nearMoneyBand(p, layoutMultSpacing) || tooClose(p, avoid, layoutMultSpacing) {
				continue
			}
			r := s.reg.Create(KindMultiplier, p, 0)
			r.Factor = 2
			avoid = append(avoid, p)
			placed++
			break
		}
	}
	s.log.Add(0, "--", catRegion, "layout_multipliers", fmt.Sprintf("%d of %d placed", placed, layoutMultiplierN), float64(placed))
}

func tooClose(p Vec, others []Vec, dist float64) bool {
	for _, o := range others {
		if o.Dist(p) < dist {
			return true
		}
	}
	return false
}
