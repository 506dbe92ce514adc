package physics

import "math"

// Vec is a 2D vector in world pixels.
type Vec struct {
	X float64
	Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }
func (v Vec) Perp() Vec { return Vec{-v.Y, v.X} }
func (v Vec) Eq(o Vec, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Rotate returns v rotated by angle radians about the origin.
func (v Vec) Rotate(angle float64) Vec {
	if angle == 0 {
		return v
	}
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Norm returns the unit vector of v, or the zero vector for zero-length input.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l < 1e-12 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// PointInPolygon reports whether p lies inside the polygon (even-odd rule).
func PointInPolygon(p Vec, poly []Vec) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ClosestPointOnSegment returns the point on segment ab nearest to p.
func ClosestPointOnSegment(p, a, b Vec) Vec {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den < 1e-12 {
		return a
	}
	t := p.Sub(a).Dot(ab) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// RectVertices returns the four corners of a w×h rectangle centred on the
// origin and rotated by rot, in clockwise screen order starting top-left.
func RectVertices(w, h, rot float64) []Vec {
	hw, hh := w/2, h/2
	vs := []Vec{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i := range vs {
		vs[i] = vs[i].Rotate(rot)
	}
	return vs
}
