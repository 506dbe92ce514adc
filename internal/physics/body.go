package physics

import (
	"math"

	"github.com/solarlune/resolv"
)

// Kind is the explicit role tag carried by every body. Collision consumers
// branch on it instead of inspecting shapes.
type Kind uint8

const (
	KindBall Kind = iota + 1
	KindWall
	KindRegion
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindWall:
		return "wall"
	case KindRegion:
		return "region"
	default:
		return "unknown"
	}
}

// BodyOptions configures a body at creation time.
type BodyOptions struct {
	Static      bool
	Sensor      bool // overlap events only, no collision response
	Restitution float64
	Friction    float64
	Density     float64
}

// Body is a rigid body owned by a World. Circles have a positive radius;
// every other body is a convex or simple polygon described in local space.
type Body struct {
	id     uint64
	kind   Kind
	opts   BodyOptions
	pos    Vec
	vel    Vec
	angle  float64
	radius float64
	local  []Vec

	obj   *resolv.Object
	world *World
}

func (b *Body) ID() uint64 { return b.id }
func (b *Body) Kind() Kind { return b.kind }
func (b *Body) IsSensor() bool { return b.opts.Sensor }
func (b *Body) IsStatic() bool { return b.opts.Static }
func (b *Body) IsCircle() bool { return b.radius > 0 }
func (b *Body) Radius() float64 { return b.radius }
func (b *Body) Angle() float64 { return b.angle }
func (b *Body) Position() Vec { return b.pos }
func (b *Body) Velocity() Vec { return b.vel }
func (b *Body) InWorld() bool { return b.world != nil }

// SetPosition moves the body without touching its velocity.
func (b *Body) SetPosition(p Vec) {
	b.pos = p
	b.sync()
}

// SetVelocity overwrites the body's velocity (pixels per tick).
func (b *Body) SetVelocity(v Vec) {
	b.vel = v
}

// Vertices returns the polygon in world space. Circles return nil.
func (b *Body) Vertices() []Vec {
	if b.IsCircle() {
		return nil
	}
	out := make([]Vec, len(b.local))
	for i, v := range b.local {
		out[i] = b.pos.Add(v)
	}
	return out
}

// Bounds returns the world-space bounding box of the body.
func (b *Body) Bounds() (min, max Vec) {
	if b.IsCircle() {
		r := Vec{b.radius, b.radius}
		return b.pos.Sub(r), b.pos.Add(r)
	}
	min = Vec{math.Inf(1), math.Inf(1)}
	max = Vec{math.Inf(-1), math.Inf(-1)}
	for _, v := range b.local {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return b.pos.Add(min), b.pos.Add(max)
}

// ContainsPoint reports whether p lies inside the body's shape.
func (b *Body) ContainsPoint(p Vec) bool {
	if b.IsCircle() {
		return p.Dist(b.pos) <= b.radius
	}
	return PointInPolygon(p, b.Vertices())
}

func (b *Body) mass() float64 {
	d := b.opts.Density
	if d <= 0 {
		d = 1
	}
	r := b.radius
	if r <= 0 {
		r = 1
	}
	return d * math.Pi * r * r
}

// sync pushes the body's bounding box into the broadphase grid.
func (b *Body) sync() {
	if b.obj == nil {
		return
	}
	min, max := b.Bounds()
	b.obj.X = min.X
	b.obj.Y = min.Y
	b.obj.W = max.X - min.X
	b.obj.H = max.Y - min.Y
	b.obj.Update()
}
