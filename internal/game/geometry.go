package game

import (
	"math"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

// Vec is the world-space vector shared with the physics layer.
type Vec = physics.Vec

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	X1, Y1 float64
	X2, Y2 float64
}

// RectAround returns the w×h box centred on c.
func RectAround(c Vec, w, h float64) Rect {
	return Rect{X1: c.X - w/2, Y1: c.Y - h/2, X2: c.X + w/2, Y2: c.Y + h/2}
}

func (r Rect) Center() Vec { return Vec{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2} }
func (r Rect) Width() float64 { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Overlaps reports whether r and o share any point. Touching edges count.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X2 < o.X1 || r.X1 > o.X2 || r.Y2 < o.Y1 || r.Y1 > o.Y2)
}

// Corners returns the four corners of r: top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Vec {
	return [4]Vec{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y1},
		{X: r.X1, Y: r.Y2},
		{X: r.X2, Y: r.Y2},
	}
}

// Expand grows r by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X1: r.X1 - pad, Y1: r.Y1 - pad, X2: r.X2 + pad, Y2: r.Y2 + pad}
}

// withinBuffer is the proximity test used by placement: it fires when any
// corner of footprint lies strictly closer than buffer to center, or when
// center itself falls inside footprint. Corners are used instead of the
// footprint's own centre so that wide regions cannot reach into the buffer.
func withinBuffer(footprint Rect, center Vec, buffer float64) bool {
	for _, c := range footprint.Corners() {
		if c.Dist(center) < buffer {
			return true
		}
	}
	return footprint.Contains(center)
}

// normalizeAngle wraps a into [0, 2π).
func normalizeAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// regularPolygon returns n vertices on a circle of the given radius,
// starting at angle rot.
func regularPolygon(n int, radius, rot float64) []Vec {
	vs := make([]Vec, n)
	for i := 0; i < n; i++ {
		a := float64(i)*2*math.Pi/float64(n) + rot
		vs[i] = Vec{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	return vs
}

// trianglePolygon returns the equilateral-style triangle used for wall items:
// apex up, base corners at ±30° below the centre, rotated by rot.
func trianglePolygon(size, rot float64) []Vec {
	h := size / 2
	vs := []Vec{
		{X: 0, Y: -h},
		{X: -h * math.Cos(math.Pi/6), Y: h * math.Sin(math.Pi/6)},
		{X: h * math.Cos(math.Pi/6), Y: h * math.Sin(math.Pi/6)},
	}
	for i := range vs {
		vs[i] = vs[i].Rotate(rot)
	}
	return vs
}
