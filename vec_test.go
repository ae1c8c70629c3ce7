package main

import (
	"math"
	"testing"
)

func TestVecNormalized(t *testing.T) {
	v := Vec2{3, 4}.Normalized()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", v.Length())
	}

	// Zero vector must not divide by zero
	z := Vec2{}.Normalized()
	if z.X != 0 || z.Y != 0 {
		t.Errorf("zero vector should normalize to itself, got %+v", z)
	}
}

func TestVecDotAndScale(t *testing.T) {
	a := Vec2{2, 3}
	b := Vec2{4, -1}
	if a.Dot(b) != 5 {
		t.Errorf("expected dot 5, got %f", a.Dot(b))
	}
	s := a.Scale(2)
	if s.X != 4 || s.Y != 6 {
		t.Errorf("scale mismatch: %+v", s)
	}
}

func TestRectVertices(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	v := r.Vertices()
	want := [4]Vec2{{10, 20}, {40, 20}, {40, 60}, {10, 60}}
	if v != want {
		t.Errorf("vertices mismatch: got %v want %v", v, want)
	}
	if r.Top() != 20 || r.Bottom() != 60 || r.Left() != 10 || r.Right() != 40 {
		t.Error("edge accessors mismatch")
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if !a.Overlaps(Rect{5, 5, 10, 10}) {
		t.Error("overlapping rects should overlap")
	}
	if a.Overlaps(Rect{20, 20, 5, 5}) {
		t.Error("distant rects should not overlap")
	}
	// Exactly touching edges do not count as overlap
	if a.Overlaps(Rect{10, 0, 5, 5}) {
		t.Error("touching rects should not overlap")
	}
}

func TestPolygonArea(t *testing.T) {
	// 10x20 rectangle, clockwise
	p := NewPolygon([]Vec2{{0, 0}, {10, 0}, {10, 20}, {0, 20}})
	if math.Abs(p.Area()-200) > 1e-9 {
		t.Errorf("expected area 200, got %f", p.Area())
	}

	// Right triangle, half the rectangle
	tri := NewPolygon([]Vec2{{0, 0}, {10, 0}, {10, 20}})
	if math.Abs(tri.Area()-100) > 1e-9 {
		t.Errorf("expected area 100, got %f", tri.Area())
	}
}

func TestPolygonIsRectangle(t *testing.T) {
	p := NewPolygon([]Vec2{{0, 0}, {10, 0}, {10, 20}, {0, 20}})
	if !p.IsRectangle() {
		t.Error("axis-aligned rectangle should report IsRectangle")
	}
	tri := NewPolygon([]Vec2{{0, 0}, {10, 0}, {10, 20}})
	if tri.IsRectangle() {
		t.Error("triangle should not report IsRectangle")
	}
}

func TestPolygonAABB(t *testing.T) {
	p := NewPolygon([]Vec2{{5, 1}, {9, 4}, {2, 8}})
	aabb := p.AABB()
	if aabb.X != 2 || aabb.Y != 1 || aabb.W != 7 || aabb.H != 7 {
		t.Errorf("aabb mismatch: %+v", aabb)
	}
}

func TestPolygonEdgesClose(t *testing.T) {
	p := NewPolygon([]Vec2{{0, 0}, {10, 0}, {10, 10}})
	edges := p.Edges()
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	last := edges[len(edges)-1]
	if last.A != (Vec2{10, 10}) || last.B != (Vec2{0, 0}) {
		t.Error("polygon must close last->first")
	}
}
