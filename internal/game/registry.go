package game

import (
	"math"

	"github.com/google/uuid"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

var sensorOpts = physics.BodyOptions{Static: true, Sensor: true}

// Registry owns every region and wall in the tank together with their
// physics bodies. It is the only place bodies for static objects are added
// to or removed from the world.
type Registry struct {
	cfg   Config
	world *physics.World

	multipliers []*Region
	cash        []*Region
	levelUps    []*Region
	portals     []*Region
	permanent   *Region

	walls []*Wall
	floor *Wall

	byBody map[*physics.Body]*Region
}

// NewRegistry creates an empty registry bound to world.
func NewRegistry(cfg Config, world *physics.World) *Registry {
	return &Registry{
		cfg:    cfg,
		world:  world,
		byBody: make(map[*physics.Body]*Region),
	}
}

// Regions returns the regions of one kind, oldest first.
func (rg *Registry) Regions(kind RegionKind) []*Region {
	var src []*Region
	switch kind {
	case KindMultiplier:
		src = rg.multipliers
	case KindCash:
		src = rg.cash
	case KindLevelUp:
		src = rg.levelUps
	case KindPortal:
		src = rg.portals
	case KindPermanentCash:
		if rg.permanent != nil {
			src = []*Region{rg.permanent}
		}
	}
	out := make([]*Region, len(src))
	copy(out, src)
	return out
}

// All returns every region: multipliers, cash, level-up, portals, then the
// permanent cash region if present.
func (rg *Registry) All() []*Region {
	out := make([]*Region, 0, len(rg.multipliers)+len(rg.cash)+len(rg.levelUps)+len(rg.portals)+1)
	out = append(out, rg.multipliers...)
	out = append(out, rg.cash...)
	out = append(out, rg.levelUps...)
	out = append(out, rg.portals...)
	if rg.permanent != nil {
		out = append(out, rg.permanent)
	}
	return out
}

// Count returns the number of regions of kind.
func (rg *Registry) Count(kind RegionKind) int { return len(*rg.slot(kind)) }

// Lookup resolves a sensor body to the region that owns it.
func (rg *Registry) Lookup(b *physics.Body) (*Region, bool) {
	r, ok := rg.byBody[b]
	return r, ok
}

// Portal returns the live portal of color, or nil.
func (rg *Registry) Portal(color PortalColor) *Region {
	for _, p := range rg.portals {
		if p.Color == color {
			return p
		}
	}
	return nil
}

// Permanent returns the permanent cash region, or nil before it is created.
func (rg *Registry) Permanent() *Region { return rg.permanent }

func (rg *Registry) slot(kind RegionKind) *[]*Region {
	switch kind {
	case KindMultiplier:
		return &rg.multipliers
	case KindCash:
		return &rg.cash
	case KindLevelUp:
		return &rg.levelUps
	case KindPortal:
		return &rg.portals
	}
	empty := []*Region{}
	if rg.permanent != nil {
		empty = append(empty, rg.permanent)
	}
	return &empty
}

// Create allocates a new region of kind at center, registers its sensor and
// appends it to the kind's collection. Portals go through CreatePortal.
func (rg *Registry) Create(kind RegionKind, center Vec, rotation float64) *Region {
	if kind == KindPortal {
		return rg.CreatePortal(center, PortalBlue)
	}
	if kind == KindPermanentCash {
		return rg.CreatePermanentCash()
	}
	r := rg.newRegion(kind, center, rg.cfg.RegionWidth, rg.cfg.RegionHeight, rotation)
	if kind == KindMultiplier {
		r.Factor = rg.cfg.MultiplierFactor
	}
	s := rg.slot(kind)
	*s = append(*s, r)
	return r
}

// CreatePortal places a portal of color, retiring any existing portal of
// the same color first.
func (rg *Registry) CreatePortal(center Vec, color PortalColor) *Region {
	for i := len(rg.portals) - 1; i >= 0; i-- {
		if rg.portals[i].Color == color {
			rg.unregister(rg.portals[i])
			rg.portals = append(rg.portals[:i], rg.portals[i+1:]...)
		}
	}
	r := rg.newRegion(KindPortal, center, rg.cfg.RegionWidth, rg.cfg.RegionHeight, 0)
	r.Color = color
	rg.portals = append(rg.portals, r)
	return r
}

// CreatePermanentCash creates the bottom money band once; later calls return
// the existing region.
func (rg *Registry) CreatePermanentCash() *Region {
	if rg.permanent != nil {
		return rg.permanent
	}
	w := rg.cfg.TankWidth * rg.cfg.PermanentCashFrac
	h := rg.cfg.PermanentCashHeight
	center := Vec{X: rg.cfg.TankWidth / 2, Y: rg.cfg.TankHeight - h/2}
	rg.permanent = rg.newRegion(KindPermanentCash, center, w, h, 0)
	return rg.permanent
}

func (rg *Registry) newRegion(kind RegionKind, center Vec, w, h, rot float64) *Region {
	r := &Region{
		ID:       uuid.New(),
		Kind:     kind,
		Center:   center,
		Width:    w,
		Height:   h,
		Rotation: rot,
		Level:    1,
	}
	r.body = rg.world.AddRect(physics.KindRegion, center, w, h, rot, sensorOpts)
	rg.byBody[r.body] = r
	return r
}

func (rg *Registry) unregister(r *Region) {
	rg.world.Remove(r.body)
	delete(rg.byBody, r.body)
}

// Upgrade raises a region's level in place. Multipliers also recompute
// their factor as level+1.
func (rg *Registry) Upgrade(r *Region) {
	r.Level++
	if r.Kind == KindMultiplier {
		r.Factor = r.Level + 1
	}
}

// PlaceOutcome is the result of a placement attempt.
type PlaceOutcome int

const (
	PlaceRejected PlaceOutcome = iota
	PlaceCreated
	PlaceUpgraded
	PlaceRemoved
)

func (o PlaceOutcome) String() string {
	switch o {
	case PlaceCreated:
		return "created"
	case PlaceUpgraded:
		return "upgraded"
	case PlaceRemoved:
		return "removed"
	default:
		return "rejected"
	}
}

// Place validates a placement of kind at p and commits it: an upgrade of the
// matched region, a new region, or nothing when rejected.
func (rg *Registry) Place(kind RegionKind, p Vec, rotation float64) (PlaceOutcome, *Region) {
	pl := rg.ValidatePlacement(p, kind)
	if !pl.CanPlace {
		return PlaceRejected, nil
	}
	if pl.Upgrade != nil {
		rg.Upgrade(pl.Upgrade)
		return PlaceUpgraded, pl.Upgrade
	}
	return PlaceCreated, rg.Create(kind, p, rotation)
}

// PlacePortal places a portal of color unless it conflicts with a region of
// another kind. Portals never upgrade; same-colour placement replaces.
func (rg *Registry) PlacePortal(p Vec, color PortalColor) (PlaceOutcome, *Region) {
	if rg.ValidatePlacement(p, KindPortal).Conflict {
		return PlaceRejected, nil
	}
	return PlaceCreated, rg.CreatePortal(p, color)
}

// Walls returns every wall currently in the world, including the tank.
func (rg *Registry) Walls() []*Wall {
	out := make([]*Wall, 0, len(rg.walls)+1)
	out = append(out, rg.walls...)
	if rg.floor != nil {
		out = append(out, rg.floor)
	}
	return out
}

// AddTankWalls builds the left, right and top tank walls. The floor is
// managed separately through SetFloor.
func (rg *Registry) AddTankWalls() {
	w, h, t := rg.cfg.TankWidth, rg.cfg.TankHeight, rg.cfg.WallThickness
	rg.addRectWall(WallTank, Vec{X: t / 2, Y: h / 2}, t, h, 0)
	rg.addRectWall(WallTank, Vec{X: w - t/2, Y: h / 2}, t, h, 0)
	rg.addRectWall(WallTank, Vec{X: w / 2, Y: t / 2}, w, t, 0)
}

// SetFloor adds or removes the tank floor. It reports whether the floor is
// present afterwards.
func (rg *Registry) SetFloor(on bool) bool {
	if on && rg.floor == nil {
		w, h, t := rg.cfg.TankWidth, rg.cfg.TankHeight, rg.cfg.WallThickness
		c := Vec{X: w / 2, Y: h - t/2}
		rg.floor = &Wall{Shape: WallTank, Center: c, Size: w, body: rg.world.AddRect(physics.KindWall, c, w, t, 0, wallOpts())}
	} else if !on && rg.floor != nil {
		rg.world.Remove(rg.floor.body)
		rg.floor = nil
	}
	return rg.floor != nil
}

// HasFloor reports whether the tank floor is in place.
func (rg *Registry) HasFloor() bool { return rg.floor != nil }

func wallOpts() physics.BodyOptions { return physics.BodyOptions{Static: true} }

func (rg *Registry) addRectWall(shape WallShape, c Vec, w, h, rot float64) *Wall {
	wall := &Wall{Shape: shape, Center: c, Size: w, Rotation: rot}
	wall.body = rg.world.AddRect(physics.KindWall, c, w, h, rot, wallOpts())
	rg.walls = append(rg.walls, wall)
	return wall
}

// AddWall places a stock wall item of shape at center.
func (rg *Registry) AddWall(shape WallShape, center Vec, rotation float64) *Wall {
	switch shape {
	case WallSquare:
		return rg.addRectWall(shape, center, wallSquareSize, wallSquareSize, rotation)
	case WallBar:
		return rg.addRectWall(shape, center, wallBarLength, wallBarThickness, rotation)
	case WallCircle:
		wall := &Wall{Shape: shape, Center: center, Size: wallCircleRadius}
		wall.body = rg.world.AddCircle(physics.KindWall, center, wallCircleRadius, wallOpts())
		rg.walls = append(rg.walls, wall)
		return wall
	case WallTriangle:
		return rg.addPolyWall(shape, center, wallTriangleSize, rotation, trianglePolygon(wallTriangleSize, rotation))
	case WallHexagon:
		return rg.addPolyWall(shape, center, wallHexagonSize, rotation, regularPolygon(6, wallHexagonSize/2, rotation))
	}
	return nil
}

func (rg *Registry) addPolyWall(shape WallShape, c Vec, size, rot float64, local []Vec) *Wall {
	wall := &Wall{Shape: shape, Center: c, Size: size, Rotation: rot}
	wall.body = rg.world.AddPolygon(physics.KindWall, c, local, wallOpts())
	rg.walls = append(rg.walls, wall)
	return wall
}

// AddSegmentWall places a wall of the configured thickness along a→b.
// Degenerate segments shorter than the thickness are ignored.
func (rg *Registry) AddSegmentWall(a, b Vec) *Wall {
	d := b.Sub(a)
	length := d.Len()
	if length < rg.cfg.WallThickness {
		return nil
	}
	rot := normalizeAngle(math.Atan2(d.Y, d.X))
	c := a.Add(d.Scale(0.5))
	return rg.addRectWall(WallSegment, c, length, rg.cfg.WallThickness, rot)
}

// Removed describes what RemoveAt took out of the tank.
type Removed struct {
	Region *Region
	Wall   *Wall
}

// RemoveAt deletes the topmost removable object under p. Portals are tried
// first, then level-up, cash and multiplier regions, then walls; within a
// collection the newest object wins. The permanent cash region and tank
// walls are never removed.
func (rg *Registry) RemoveAt(p Vec) (Removed, bool) {
	for _, kind := range []RegionKind{KindPortal, KindLevelUp, KindCash, KindMultiplier} {
		s := rg.slot(kind)
		for i := len(*s) - 1; i >= 0; i-- {
			r := (*s)[i]
			if !r.Contains(p) {
				continue
			}
			rg.unregister(r)
			*s = append((*s)[:i], (*s)[i+1:]...)
			return Removed{Region: r}, true
		}
	}
	for i := len(rg.walls) - 1; i >= 0; i-- {
		w := rg.walls[i]
		if !w.Removable() || !w.Contains(p) {
			continue
		}
		rg.world.Remove(w.body)
		rg.walls = append(rg.walls[:i], rg.walls[i+1:]...)
		return Removed{Wall: w}, true
	}
	return Removed{}, false
}

// WallAt returns the topmost removable wall containing p.
func (rg *Registry) WallAt(p Vec) *Wall {
	for i := len(rg.walls) - 1; i >= 0; i-- {
		if w := rg.walls[i]; w.Removable() && w.Contains(p) {
			return w
		}
	}
	return nil
}

// RegionAt returns the region RemoveAt would delete at p, without removing it.
func (rg *Registry) RegionAt(p Vec) *Region {
	for _, kind := range []RegionKind{KindPortal, KindLevelUp, KindCash, KindMultiplier} {
		s := *rg.slot(kind)
		for i := len(s) - 1; i >= 0; i-- {
			if s[i].Contains(p) {
				return s[i]
			}
		}
	}
	return nil
}

// Clear removes every user region and wall. Tank walls and the permanent
// cash region stay.
func (rg *Registry) Clear() {
	for _, kind := range []RegionKind{KindMultiplier, KindCash, KindLevelUp, KindPortal} {
		s := rg.slot(kind)
		for _, r := range *s {
			rg.unregister(r)
		}
		*s = nil
	}
	kept := rg.walls[:0]
	for _, w := range rg.walls {
		if w.Removable() {
			rg.world.Remove(w.body)
			continue
		}
		kept = append(kept, w)
	}
	rg.walls = kept
}
