package physics

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"
)

// Pair is a collision-start notification: two bodies that began touching
// during the last Step. Order is not significant.
type Pair struct {
	A *Body
	B *Body
}

// Other returns the body in the pair that is not b, or nil if b is not in it.
func (p Pair) Other(b *Body) *Body {
	switch b {
	case p.A:
		return p.B
	case p.B:
		return p.A
	}
	return nil
}

type pairKey struct{ lo, hi uint64 }

func keyOf(a, b *Body) pairKey {
	if a.id < b.id {
		return pairKey{a.id, b.id}
	}
	return pairKey{b.id, a.id}
}

// World integrates dynamic circles against static walls, static sensors and
// each other. A resolv Space serves as the broadphase grid; narrowphase and
// response are circle-vs-circle and circle-vs-polygon.
type World struct {
	Gravity      Vec     // added to every dynamic body's velocity each tick
	Substeps     int     // integration substeps per Step
	RestingSpeed float64 // impacts slower than this do not bounce

	bodies   []*Body
	nextID   uint64
	space    *resolv.Space
	touching map[pairKey]struct{}
}

// NewWorld creates a world whose broadphase grid covers width×height pixels.
// Bodies outside the grid still integrate but never collide.
func NewWorld(width, height float64, cellSize int) *World {
	if cellSize <= 0 {
		cellSize = 32
	}
	return &World{
		Gravity:      Vec{0, 0.2},
		Substeps:     2,
		RestingSpeed: 1,
		space:        resolv.NewSpace(int(math.Ceil(width)), int(math.Ceil(height)), cellSize, cellSize),
		touching:     make(map[pairKey]struct{}),
	}
}

// AddCircle adds a circular body centred on center.
func (w *World) AddCircle(kind Kind, center Vec, radius float64, opts BodyOptions) *Body {
	b := &Body{kind: kind, opts: opts, pos: center, radius: radius}
	w.add(b)
	return b
}

// AddPolygon adds a polygon body; local holds vertices relative to center.
func (w *World) AddPolygon(kind Kind, center Vec, local []Vec, opts BodyOptions) *Body {
	vs := make([]Vec, len(local))
	copy(vs, local)
	b := &Body{kind: kind, opts: opts, pos: center, local: vs}
	w.add(b)
	return b
}

// AddRect adds a w×h rectangle centred on center, rotated by rot radians.
func (w *World) AddRect(kind Kind, center Vec, width, height, rot float64, opts BodyOptions) *Body {
	b := w.AddPolygon(kind, center, RectVertices(width, height, rot), opts)
	b.angle = rot
	return b
}

func (w *World) add(b *Body) {
	w.nextID++
	b.id = w.nextID
	b.world = w
	b.obj = resolv.NewObject(0, 0, 1, 1, b.kind.String())
	b.obj.Data = b
	w.space.Add(b.obj)
	b.sync()
	w.bodies = append(w.bodies, b)
}

// Remove takes b out of the world. It reports false if b was not present.
func (w *World) Remove(b *Body) bool {
	if b == nil || b.world != w {
		return false
	}
	for i, o := range w.bodies {
		if o == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.space.Remove(b.obj)
	b.world = nil
	return true
}

// Bodies returns a copy of the bodies currently in the world, in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Len returns the number of bodies in the world.
func (w *World) Len() int { return len(w.bodies) }

// Step advances the simulation by one tick and returns the pairs that
// started touching during it. Pairs that were already touching at the end
// of the previous Step are not reported again.
func (w *World) Step() []Pair {
	n := w.Substeps
	if n < 1 {
		n = 1
	}
	inv := 1 / float64(n)
	current := make(map[pairKey]struct{}, len(w.touching))
	var started []Pair

	for s := 0; s < n; s++ {
		for _, b := range w.bodies {
			if b.opts.Static {
				continue
			}
			b.vel = b.vel.Add(w.Gravity.Scale(inv))
			b.pos = b.pos.Add(b.vel.Scale(inv))
			b.sync()
		}
		for _, b := range w.bodies {
			if b.opts.Static || !b.IsCircle() {
				continue
			}
			for _, o := range w.candidates(b) {
				if !o.opts.Static && o.id < b.id {
					continue // dynamic pairs are handled from the lower id
				}
				normal, depth, ok := contact(b, o)
				if !ok {
					continue
				}
				key := keyOf(b, o)
				if _, seen := current[key]; !seen {
					current[key] = struct{}{}
					if _, was := w.touching[key]; !was {
						started = append(started, Pair{A: b, B: o})
					}
				}
				if b.opts.Sensor || o.opts.Sensor {
					continue
				}
				w.resolve(b, o, normal, depth)
			}
		}
	}
	w.touching = current
	return started
}

func (w *World) candidates(b *Body) []*Body {
	col := b.obj.Check(0, 0)
	if col == nil {
		return nil
	}
	out := make([]*Body, 0, len(col.Objects))
	for _, obj := range col.Objects {
		o, ok := obj.Data.(*Body)
		if !ok || o == b || o.world != w {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// contact tests circle b against o. The normal points from o towards b.
func contact(b, o *Body) (Vec, float64, bool) {
	if o.IsCircle() {
		d := b.pos.Sub(o.pos)
		dist := d.Len()
		depth := b.radius + o.radius - dist
		if depth <= 0 {
			return Vec{}, 0, false
		}
		if dist < 1e-9 {
			return Vec{0, -1}, depth, true
		}
		return d.Scale(1 / dist), depth, true
	}

	verts := o.Vertices()
	if len(verts) < 3 {
		return Vec{}, 0, false
	}
	best := math.Inf(1)
	var closest Vec
	for i := range verts {
		cp := ClosestPointOnSegment(b.pos, verts[i], verts[(i+1)%len(verts)])
		if d := cp.Dist(b.pos); d < best {
			best = d
			closest = cp
		}
	}
	if PointInPolygon(b.pos, verts) {
		n := closest.Sub(b.pos).Norm()
		if n == (Vec{}) {
			n = Vec{0, -1}
		}
		return n, b.radius + best, true
	}
	if best >= b.radius {
		return Vec{}, 0, false
	}
	return b.pos.Sub(closest).Norm(), b.radius - best, true
}

func (w *World) resolve(b, o *Body, n Vec, depth float64) {
	e := math.Max(b.opts.Restitution, o.opts.Restitution)
	if o.opts.Static {
		b.pos = b.pos.Add(n.Scale(depth))
		b.sync()
		vn := b.vel.Dot(n)
		if vn >= 0 {
			return
		}
		if -vn < w.RestingSpeed {
			e = 0
		}
		b.vel = b.vel.Sub(n.Scale((1 + e) * vn))
		if f := math.Min(b.opts.Friction, o.opts.Friction); f > 0 {
			t := b.vel.Sub(n.Scale(b.vel.Dot(n)))
			b.vel = b.vel.Sub(t.Scale(math.Min(f, 1)))
		}
		return
	}

	ib, io := 1/b.mass(), 1/o.mass()
	total := ib + io
	b.pos = b.pos.Add(n.Scale(depth * ib / total))
	o.pos = o.pos.Sub(n.Scale(depth * io / total))
	b.sync()
	o.sync()

	rel := b.vel.Sub(o.vel).Dot(n)
	if rel >= 0 {
		return
	}
	if -rel < w.RestingSpeed {
		e = 0
	}
	j := -(1 + e) * rel / total
	b.vel = b.vel.Add(n.Scale(j * ib))
	o.vel = o.vel.Sub(n.Scale(j * io))
}
