package main

import "testing"

func polyLevel(polys ...[]MapPoint) *Level {
	return NewLevel(MapData{
		Title:    "poly-test",
		Width:    1000,
		Height:   1000,
		Polygons: polys,
	})
}

func TestSegmentsIntersect(t *testing.T) {
	// Crossing diagonals
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{0, 10}, Vec2{10, 0}) {
		t.Error("crossing segments should intersect")
	}
	// Disjoint
	if SegmentsIntersect(Vec2{0, 0}, Vec2{1, 1}, Vec2{5, 5}, Vec2{6, 6}) {
		t.Error("disjoint collinear segments should not intersect")
	}
	if SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 5}, Vec2{10, 5}) {
		t.Error("parallel segments should not intersect")
	}
	// Lines cross but outside both segments
	if SegmentsIntersect(Vec2{0, 0}, Vec2{1, 1}, Vec2{10, 0}, Vec2{10, 20}) {
		t.Error("intersection beyond segment ends should not count")
	}
}

func TestRectPolygonCollide(t *testing.T) {
	square := NewPolygon([]Vec2{{200, 100}, {300, 100}, {300, 200}, {200, 200}})

	// Polygon vertex inside the box
	if !RectPolygonCollide(Rect{180, 80, 64, 64}, square) {
		t.Error("vertex inside box should collide")
	}
	// Edges cross, no vertex containment
	if !RectPolygonCollide(Rect{160, 118, 64, 64}, square) {
		t.Error("crossing edges should collide")
	}
	// Well separated
	if RectPolygonCollide(Rect{0, 0, 64, 64}, square) {
		t.Error("separated shapes should not collide")
	}
}

func TestMinimumTranslationSeparated(t *testing.T) {
	square := NewPolygon([]Vec2{{200, 100}, {300, 100}, {300, 200}, {200, 200}})
	mtv := minimumTranslation(Rect{0, 0, 64, 64}, square)
	if mtv != (Vec2{}) {
		t.Errorf("separated shapes should give zero MTV, got %+v", mtv)
	}
}

// Property: after resolving a move against an obstacle, the corrected
// collider either no longer registers a collision or its remaining MTV is
// the zero vector (exactly touching).
func TestPolygonMTVNonPenetration(t *testing.T) {
	l := polyLevel(rect(200, 100, 100, 100))
	obstacle := l.Polygons[0]

	// Approaching from the left: right face of the box penetrates 24 units
	// past the obstacle's left face, so the MTV pushes it back to touching.
	got := ResolvePolygonMovement(l, Vec2{100, 118}, Vec2{160, 118}, ColliderSize, ColliderSize)
	if got.X != 136 || got.Y != 118 {
		t.Errorf("expected correction to (136, 118), got %+v", got)
	}
	box := Rect{X: got.X, Y: got.Y, W: ColliderSize, H: ColliderSize}
	if RectPolygonCollide(box, obstacle) && minimumTranslation(box, obstacle) != (Vec2{}) {
		t.Error("corrected collider still penetrates the obstacle")
	}
}

func TestPolygonMTVDirection(t *testing.T) {
	l := polyLevel(rect(200, 100, 100, 100))

	// Approaching from the right: the box must be pushed back out to the
	// obstacle's right face, not through it.
	got := ResolvePolygonMovement(l, Vec2{340, 118}, Vec2{280, 118}, ColliderSize, ColliderSize)
	if got.X != 300 || got.Y != 118 {
		t.Errorf("expected correction to (300, 118), got %+v", got)
	}
}

func TestPolygonBroadPhaseSkip(t *testing.T) {
	l := polyLevel(rect(600, 600, 100, 100))
	end := Vec2{10, 10}
	got := ResolvePolygonMovement(l, Vec2{0, 0}, end, ColliderSize, ColliderSize)
	if got != end {
		t.Errorf("distant obstacle must not affect movement: %+v", got)
	}
}

func TestPolygonFreeMovement(t *testing.T) {
	// Moving alongside the obstacle without touching it
	l := polyLevel(rect(200, 100, 100, 100))
	end := Vec2{220, 300}
	got := ResolvePolygonMovement(l, Vec2{100, 300}, end, ColliderSize, ColliderSize)
	if got != end {
		t.Errorf("non-colliding movement should pass through: %+v", got)
	}
}
