package main

import "math"

const intersectEpsilon = 1e-10

// SegmentsIntersect solves the parametric line intersection of a-b and
// c-d and reports a hit when both parameters land in [0,1]. Parallel
// segments never intersect (degenerate case, avoids NaN propagation).
func SegmentsIntersect(a, b, c, d Vec2) bool {
	d1 := b.Sub(a)
	d2 := d.Sub(c)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < intersectEpsilon {
		return false
	}
	diff := c.Sub(a)
	t := (diff.X*d2.Y - diff.Y*d2.X) / denom
	u := (diff.X*d1.Y - diff.Y*d1.X) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// RectPolygonCollide is the narrow-phase test: a polygon vertex inside the
// box is an immediate hit, otherwise every box edge is tested against
// every polygon edge. A box entirely inside the polygon is not detected,
// which is acceptable here: colliders are small relative to the level
// geometry and per-tick displacement is bounded by speed and tick time.
func RectPolygonCollide(box Rect, poly *Polygon) bool {
	for _, v := range poly.Vertices {
		if box.Contains(v) {
			return true
		}
	}
	rv := box.Vertices()
	for i := 0; i < 4; i++ {
		a := rv[i]
		b := rv[(i+1)%4]
		n := len(poly.Vertices)
		for j := 0; j < n; j++ {
			if SegmentsIntersect(a, b, poly.Vertices[j], poly.Vertices[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

// minimumTranslation computes the smallest displacement that separates the
// box from the polygon, projecting both onto each polygon edge normal.
// Returns the zero vector when some axis already separates the shapes.
// Single-iteration MTV over convex obstacles only.
func minimumTranslation(box Rect, poly *Polygon) Vec2 {
	rv := box.Vertices()
	n := len(poly.Vertices)

	best := math.MaxFloat64
	var mtv Vec2

	for i := 0; i < n; i++ {
		a := poly.Vertices[i]
		b := poly.Vertices[(i+1)%n]
		edge := b.Sub(a)
		if edge.X == 0 && edge.Y == 0 {
			continue
		}
		normal := Vec2{-edge.Y, edge.X}.Normalized()

		minRect, maxRect := projectOnto(rv[:], normal)
		minPoly, maxPoly := projectOnto(poly.Vertices, normal)

		overlap := math.Min(maxRect, maxPoly) - math.Max(minRect, minPoly)
		if overlap <= 0 {
			return Vec2{}
		}
		if overlap < best {
			best = overlap
			mtv = normal.Scale(overlap)
			// Push the box out on its own side of the polygon.
			if minRect < minPoly {
				mtv = mtv.Scale(-1)
			}
		}
	}

	if best == math.MaxFloat64 {
		return Vec2{}
	}
	return mtv
}

func projectOnto(points []Vec2, axis Vec2) (min, max float64) {
	min = math.MaxFloat64
	max = -math.MaxFloat64
	for _, p := range points {
		d := p.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// ResolvePolygonMovement moves the collider from start to end against the
// level's polygon obstacles. Polygons whose AABB overlaps neither the
// start nor the end box are skipped entirely; survivors get the narrow
// phase and, on a confirmed hit, an MTV correction applied to the end
// position.
func ResolvePolygonMovement(l *Level, start, end Vec2, w, h float64) Vec2 {
	startBox := Rect{X: start.X, Y: start.Y, W: w, H: h}
	corrected := end

	for _, poly := range l.Polygons {
		aabb := poly.AABB()
		endBox := Rect{X: corrected.X, Y: corrected.Y, W: w, H: h}
		if !aabb.Overlaps(startBox) && !aabb.Overlaps(endBox) {
			continue
		}
		if !RectPolygonCollide(endBox, poly) {
			continue
		}
		mtv := minimumTranslation(endBox, poly)
		corrected.X += mtv.X
		corrected.Y += mtv.Y
	}
	return corrected
}
