package main

// tileEpsilon insets the collider's far edges when sampling tile indices,
// so a box resting exactly on a tile boundary does not register the
// neighboring tile as a hit while sliding along it.
const tileEpsilon = 1e-7

// ResolveTileAxis applies a single-axis delta against the tile grid.
// The four collider corners after the move are converted to tile indices
// by truncating division; if any lands on an occupied tile the position
// snaps to the tile boundary in the direction of travel instead.
// Axes are resolved independently (horizontal then vertical) so diagonal
// movement cannot tunnel through corners.
func ResolveTileAxis(l *Level, box Rect, delta float64, horizontal bool) float64 {
	ts := l.TileSize
	if horizontal {
		if delta == 0 {
			return box.X
		}
		newX := box.X + delta
		col0 := int(newX / ts)
		col1 := int((newX + box.W - tileEpsilon) / ts)
		row0 := int(box.Y / ts)
		row1 := int((box.Y + box.H - tileEpsilon) / ts)
		if l.Occupied(col0, row0) || l.Occupied(col0, row1) ||
			l.Occupied(col1, row0) || l.Occupied(col1, row1) {
			if delta > 0 {
				return float64(col1)*ts - box.W
			}
			return float64(col0+1) * ts
		}
		return newX
	}

	if delta == 0 {
		return box.Y
	}
	newY := box.Y + delta
	col0 := int(box.X / ts)
	col1 := int((box.X + box.W - tileEpsilon) / ts)
	row0 := int(newY / ts)
	row1 := int((newY + box.H - tileEpsilon) / ts)
	if l.Occupied(col0, row0) || l.Occupied(col1, row0) ||
		l.Occupied(col0, row1) || l.Occupied(col1, row1) {
		if delta > 0 {
			return float64(row1)*ts - box.H
		}
		return float64(row0+1) * ts
	}
	return newY
}

// ResolveTileMovement resolves a full displacement against the tile grid,
// horizontal axis first, then vertical with the corrected x.
func ResolveTileMovement(l *Level, pos Vec2, delta Vec2, w, h float64) Vec2 {
	box := Rect{X: pos.X, Y: pos.Y, W: w, H: h}
	box.X = ResolveTileAxis(l, box, delta.X, true)
	box.Y = ResolveTileAxis(l, box, delta.Y, false)
	return Vec2{box.X, box.Y}
}
