package main

// GeometryKind distinguishes the two static-geometry representations a
// level can carry.
type GeometryKind int

const (
	GeometryNone     GeometryKind = 0
	GeometryTiles    GeometryKind = 1
	GeometryPolygons GeometryKind = 2
)

// Level is the immutable geometry provider for one loaded map. It is built
// once from MapData when a map is loaded and replaced wholesale on
// lobby/play transitions, never mutated in place.
type Level struct {
	Title  string
	Width  float64
	Height float64
	StartX float64
	StartY float64

	Kind GeometryKind

	// Tile variant
	TileSize float64
	cols     int
	rows     int
	blocks   []bool

	// Polygon variant
	Polygons []*Polygon
}

// MapData is the serialized level record consumed from the map-loading
// collaborator. Polygon maps carry Polygons; tile maps carry Blocks as a
// 0/1 row-major grid.
type MapData struct {
	Title    string       `json:"title"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	StartX   float64      `json:"startX"`
	StartY   float64      `json:"startY"`
	TileSize float64      `json:"tileSize,omitempty"`
	Blocks   []int        `json:"blocks,omitempty"`
	Polygons [][]MapPoint `json:"polygons,omitempty"`
}

// MapPoint is one vertex in serialized polygon data.
type MapPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewLevel builds a Level from deserialized map data. Maps with neither
// blocks nor polygons yield a pass-through level (lobbies legitimately
// have no geometry).
func NewLevel(data MapData) *Level {
	l := &Level{
		Title:  data.Title,
		Width:  data.Width,
		Height: data.Height,
		StartX: data.StartX,
		StartY: data.StartY,
	}

	switch {
	case len(data.Polygons) > 0:
		l.Kind = GeometryPolygons
		l.Polygons = make([]*Polygon, 0, len(data.Polygons))
		for _, pts := range data.Polygons {
			if len(pts) < 3 {
				continue
			}
			verts := make([]Vec2, len(pts))
			for i, pt := range pts {
				verts[i] = Vec2{pt.X, pt.Y}
			}
			l.Polygons = append(l.Polygons, NewPolygon(verts))
		}

	case len(data.Blocks) > 0 && data.TileSize > 0:
		l.Kind = GeometryTiles
		l.TileSize = data.TileSize
		l.cols = int(data.Width / data.TileSize)
		l.rows = int(data.Height / data.TileSize)
		l.blocks = make([]bool, l.cols*l.rows)
		for i := 0; i < len(data.Blocks) && i < len(l.blocks); i++ {
			l.blocks[i] = data.Blocks[i] != 0
		}
	}

	return l
}

// Occupied reports whether the tile at (col, row) blocks movement.
// Out-of-range lookups are unoccupied, never an error: levels are not
// padded and colliders can sit at the grid boundary.
func (l *Level) Occupied(col, row int) bool {
	if l == nil || l.Kind != GeometryTiles {
		return false
	}
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return false
	}
	return l.blocks[row*l.cols+col]
}

// HasGeometry reports whether the level carries any static geometry.
func (l *Level) HasGeometry() bool {
	return l != nil && l.Kind != GeometryNone
}

// ToMapData serializes the level back into the wire map record sent to
// clients on join and on phase transitions.
func (l *Level) ToMapData() MapData {
	data := MapData{
		Title:  l.Title,
		Width:  l.Width,
		Height: l.Height,
		StartX: l.StartX,
		StartY: l.StartY,
	}
	switch l.Kind {
	case GeometryTiles:
		data.TileSize = l.TileSize
		data.Blocks = make([]int, len(l.blocks))
		for i, b := range l.blocks {
			if b {
				data.Blocks[i] = 1
			}
		}
	case GeometryPolygons:
		data.Polygons = make([][]MapPoint, len(l.Polygons))
		for i, poly := range l.Polygons {
			pts := make([]MapPoint, len(poly.Vertices))
			for j, v := range poly.Vertices {
				pts[j] = MapPoint{X: v.X, Y: v.Y}
			}
			data.Polygons[i] = pts
		}
	}
	return data
}
