package main

import (
	"math"
	"sort"
)

// Viewport dimensions in world units, shared with the client renderer.
const (
	ViewportW = 1280.0
	ViewportH = 720.0
)

// angleEpsilon perturbs each vertex ray to either side so the sweep does
// not miss the silhouette edge exactly at a vertex. Tuned to the current
// coordinate scale (tile size 160, viewport 1280); rescale world units and
// this needs revisiting.
const angleEpsilon = 0.00001

// VisPoint is one vertex of the visibility polygon, tagged with the ray
// angle that produced it.
type VisPoint struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Angle float64 `json:"a" msgpack:"a"`
}

// occluderSegments collects the segments the sweep casts against: the four
// viewport border edges always, plus level geometry clipped to the
// viewport by AABB. Tile levels contribute the four edges of each occupied
// cell; polygon levels contribute each polygon's edges.
func occluderSegments(viewX, viewY float64, level *Level) []Segment {
	view := Rect{X: viewX, Y: viewY, W: ViewportW, H: ViewportH}
	vv := view.Vertices()

	segs := []Segment{
		{A: vv[0], B: vv[1]},
		{A: vv[1], B: vv[2]},
		{A: vv[2], B: vv[3]},
		{A: vv[3], B: vv[0]},
	}
	if level == nil {
		return segs
	}

	switch level.Kind {
	case GeometryPolygons:
		for _, poly := range level.Polygons {
			if !poly.AABB().Overlaps(view) {
				continue
			}
			segs = append(segs, poly.Edges()...)
		}

	case GeometryTiles:
		ts := level.TileSize
		minCol := int(math.Max(0, view.X/ts))
		maxCol := int((view.X + view.W) / ts)
		minRow := int(math.Max(0, view.Y/ts))
		maxRow := int((view.Y + view.H) / ts)
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				if !level.Occupied(col, row) {
					continue
				}
				cell := Rect{X: float64(col) * ts, Y: float64(row) * ts, W: ts, H: ts}
				cv := cell.Vertices()
				segs = append(segs,
					Segment{A: cv[0], B: cv[1]},
					Segment{A: cv[1], B: cv[2]},
					Segment{A: cv[2], B: cv[3]},
					Segment{A: cv[3], B: cv[0]},
				)
			}
		}
	}
	return segs
}

// rayIntersect casts a unit ray from origin along (dx, dy) against one
// segment. Returns the ray parameter and hit point; ok is false for
// parallel segments, hits behind the origin, or hits outside the segment.
func rayIntersect(origin Vec2, dx, dy float64, seg Segment) (float64, Vec2, bool) {
	sx := seg.B.X - seg.A.X
	sy := seg.B.Y - seg.A.Y

	denom := dx*sy - dy*sx
	if math.Abs(denom) < intersectEpsilon {
		return 0, Vec2{}, false
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y
	t := (diffX*sy - diffY*sx) / denom
	u := (diffX*dy - diffY*dx) / denom

	if t < 0 || u < 0 || u > 1 {
		return 0, Vec2{}, false
	}
	return t, Vec2{origin.X + t*dx, origin.Y + t*dy}, true
}

// ComputeVisibilityPolygon sweeps rays from the origin at every
// vertex-adjacent angle and returns the nearest hit per ray, sorted by
// angle. The result is star-shaped around the origin and can be used
// directly as a fill path or clip mask. Angles with no hit are dropped
// (cannot happen while the viewport border is included).
func ComputeVisibilityPolygon(originX, originY, viewX, viewY float64, level *Level) []VisPoint {
	origin := Vec2{originX, originY}
	segs := occluderSegments(viewX, viewY, level)

	endpoints := make(map[Vec2]struct{})
	for _, s := range segs {
		endpoints[s.A] = struct{}{}
		endpoints[s.B] = struct{}{}
	}

	angles := make([]float64, 0, len(endpoints)*3)
	for p := range endpoints {
		a := math.Atan2(p.Y-origin.Y, p.X-origin.X)
		angles = append(angles, a-angleEpsilon, a, a+angleEpsilon)
	}

	points := make([]VisPoint, 0, len(angles))
	for _, a := range angles {
		dx := math.Cos(a)
		dy := math.Sin(a)

		nearest := math.MaxFloat64
		var hit Vec2
		found := false
		for _, s := range segs {
			t, p, ok := rayIntersect(origin, dx, dy, s)
			if ok && t < nearest {
				nearest = t
				hit = p
				found = true
			}
		}
		if !found {
			continue
		}
		points = append(points, VisPoint{X: hit.X, Y: hit.Y, Angle: a})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Angle < points[j].Angle
	})
	return points
}

// LineOfSight reports whether the straight segment from a to b crosses
// any polygon edge of the level. Tile levels and lobbies (no geometry)
// never occlude. Used server-side for the seeker's spotted pings.
func LineOfSight(a, b Vec2, level *Level) bool {
	if level == nil || level.Kind != GeometryPolygons {
		return true
	}
	// Padded so axis-aligned sight lines still have a usable bound.
	span := Rect{
		X: math.Min(a.X, b.X) - 1,
		Y: math.Min(a.Y, b.Y) - 1,
		W: math.Abs(b.X-a.X) + 2,
		H: math.Abs(b.Y-a.Y) + 2,
	}
	for _, poly := range level.Polygons {
		if !poly.AABB().Overlaps(span) {
			continue
		}
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			if SegmentsIntersect(a, b, poly.Vertices[i], poly.Vertices[(i+1)%n]) {
				return false
			}
		}
	}
	return true
}
