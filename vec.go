package main

import "math"

// Vec2 is a 2D point or direction.
type Vec2 struct {
	X, Y float64
}

// Length returns the euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Dot returns the dot product with o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Scale returns the vector multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Normalized returns the unit vector in the direction of v.
// A zero vector is returned unchanged (guarding the division).
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }

// Vertices returns the four corners clockwise from top-left.
func (r Rect) Vertices() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Overlaps reports whether two boxes overlap (interval test on both axes).
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Contains reports whether the point lies strictly inside the box.
func (r Rect) Contains(p Vec2) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

// Area returns width times height.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Segment is a directed edge between two points.
type Segment struct {
	A, B Vec2
}

// Polygon is an ordered, implicitly closed list of at least 3 vertices.
type Polygon struct {
	Vertices []Vec2
	aabb     Rect
	hasAABB  bool
}

// NewPolygon builds a polygon and precomputes its AABB for broad phase.
func NewPolygon(vertices []Vec2) *Polygon {
	p := &Polygon{Vertices: vertices}
	p.aabb = p.computeAABB()
	p.hasAABB = true
	return p
}

// AABB returns the polygon's axis-aligned bound.
func (p *Polygon) AABB() Rect {
	if !p.hasAABB {
		p.aabb = p.computeAABB()
		p.hasAABB = true
	}
	return p.aabb
}

func (p *Polygon) computeAABB() Rect {
	if len(p.Vertices) == 0 {
		return Rect{}
	}
	minX, minY := p.Vertices[0].X, p.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range p.Vertices[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Area returns the absolute polygon area (shoelace formula).
func (p *Polygon) Area() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// IsRectangle reports whether the polygon fills its own AABB, used to
// fast-path rectangular obstacles.
func (p *Polygon) IsRectangle() bool {
	return math.Abs(p.Area()-p.AABB().Area()) < 1e-9
}

// Edges returns the polygon's edges including the closing last->first edge.
func (p *Polygon) Edges() []Segment {
	n := len(p.Vertices)
	edges := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Segment{A: p.Vertices[i], B: p.Vertices[(i+1)%n]})
	}
	return edges
}
