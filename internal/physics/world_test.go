package physics

import (
	"math"
	"testing"
)

func newTestWorld() *World {
	return NewWorld(400, 400, 20)
}

func TestWorld_BallFallsUnderGravity(t *testing.T) {
	w := newTestWorld()
	b := w.AddCircle(KindBall, V(100, 50), 5, BodyOptions{Density: 0.001})
	for i := 0; i < 10; i++ {
		w.Step()
	}
	if b.Position().Y <= 50 {
		t.Fatalf("expected ball to fall, y=%.2f", b.Position().Y)
	}
	if math.Abs(b.Velocity().Y-2.0) > 1e-9 {
		t.Fatalf("expected vy=2.0 after 10 ticks at g=0.2, got %.4f", b.Velocity().Y)
	}
	if b.Position().X != 100 {
		t.Fatalf("expected x unchanged, got %.2f", b.Position().X)
	}
}

func TestWorld_SensorReportsStartOnce(t *testing.T) {
	w := newTestWorld()
	w.Gravity = Vec{}
	sensor := w.AddRect(KindRegion, V(100, 100), 90, 20, 0, BodyOptions{Static: true, Sensor: true})
	b := w.AddCircle(KindBall, V(100, 70), 5, BodyOptions{})
	b.SetVelocity(V(0, 2))

	starts := 0
	for i := 0; i < 30; i++ {
		for _, p := range w.Step() {
			if p.Other(b) == sensor {
				starts++
			}
		}
	}
	if starts != 1 {
		t.Fatalf("expected exactly one collision-start with the sensor, got %d", starts)
	}
	if b.Velocity().Y != 2 {
		t.Fatalf("sensor must not change velocity, got vy=%.3f", b.Velocity().Y)
	}
}

func TestWorld_SensorReentryReportsAgain(t *testing.T) {
	w := newTestWorld()
	w.Gravity = Vec{}
	sensor := w.AddRect(KindRegion, V(100, 100), 90, 20, 0, BodyOptions{Static: true, Sensor: true})
	b := w.AddCircle(KindBall, V(100, 100), 5, BodyOptions{})

	first := w.Step()
	if len(first) != 1 || first[0].Other(b) != sensor {
		t.Fatalf("expected start on first step, got %d pairs", len(first))
	}
	b.SetPosition(V(300, 300))
	w.Step()
	b.SetPosition(V(100, 100))
	again := w.Step()
	if len(again) != 1 {
		t.Fatalf("expected a new start after leaving and re-entering, got %d", len(again))
	}
}

func TestWorld_BallBouncesOffStaticFloor(t *testing.T) {
	w := newTestWorld()
	w.Gravity = Vec{}
	w.AddRect(KindWall, V(200, 300), 400, 20, 0, BodyOptions{Static: true})
	b := w.AddCircle(KindBall, V(200, 270), 5, BodyOptions{Restitution: 0.6})
	b.SetVelocity(V(0, 5))

	for i := 0; i < 10; i++ {
		w.Step()
	}
	if b.Velocity().Y >= 0 {
		t.Fatalf("expected ball moving up after bounce, vy=%.3f", b.Velocity().Y)
	}
	if b.Position().Y > 290-5+0.5 {
		t.Fatalf("ball penetrated the floor: y=%.2f", b.Position().Y)
	}
}

func TestWorld_BallComesToRestOnFloor(t *testing.T) {
	w := newTestWorld()
	w.AddRect(KindWall, V(200, 300), 400, 20, 0, BodyOptions{Static: true})
	b := w.AddCircle(KindBall, V(200, 200), 5, BodyOptions{Restitution: 0.6})

	for i := 0; i < 600; i++ {
		w.Step()
	}
	if math.Abs(b.Velocity().Y) > 1e-9 {
		t.Fatalf("expected ball at rest, vy=%.4f", b.Velocity().Y)
	}
}

func TestWorld_BallsSeparate(t *testing.T) {
	w := newTestWorld()
	w.Gravity = Vec{}
	a := w.AddCircle(KindBall, V(100, 100), 5, BodyOptions{Density: 0.001})
	b := w.AddCircle(KindBall, V(104, 100), 5, BodyOptions{Density: 0.001})
	w.Step()
	if d := a.Position().Dist(b.Position()); d < 10-1e-6 {
		t.Fatalf("expected overlapping balls pushed apart, distance %.3f", d)
	}
}

func TestWorld_RemoveStopsEvents(t *testing.T) {
	w := newTestWorld()
	w.Gravity = Vec{}
	sensor := w.AddRect(KindRegion, V(100, 100), 90, 20, 0, BodyOptions{Static: true, Sensor: true})
	if !w.Remove(sensor) {
		t.Fatal("expected Remove to report true")
	}
	if w.Remove(sensor) {
		t.Fatal("second Remove must report false")
	}
	w.AddCircle(KindBall, V(100, 100), 5, BodyOptions{})
	if pairs := w.Step(); len(pairs) != 0 {
		t.Fatalf("removed sensor still produced %d pairs", len(pairs))
	}
	if w.Len() != 1 {
		t.Fatalf("expected one body left, got %d", w.Len())
	}
}

func TestPointInPolygon(t *testing.T) {
	sq := []Vec{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !PointInPolygon(V(5, 5), sq) {
		t.Fatal("centre should be inside")
	}
	if PointInPolygon(V(15, 5), sq) {
		t.Fatal("point right of square should be outside")
	}
}

func TestRectVertices_Rotated(t *testing.T) {
	vs := RectVertices(10, 10, math.Pi/4)
	for _, v := range vs {
		if math.Abs(v.Len()-math.Sqrt(50)) > 1e-9 {
			t.Fatalf("corner at wrong distance: %+v", v)
		}
	}
}
