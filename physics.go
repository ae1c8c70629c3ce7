package main

// Input bitmask bits, OR-combined. Opposite bits cancel on their axis.
const (
	InputLeft  uint8 = 1 << 0
	InputRight uint8 = 1 << 1
	InputUp    uint8 = 1 << 2
	InputDown  uint8 = 1 << 3
)

const (
	// PlayerSpeed is the movement speed in world units per second.
	PlayerSpeed = 512.0

	// ColliderSize is the square collider box tracked by the physics
	// position (x, y is its top-left corner). The sprite box is drawn
	// around it at SpriteOffset; both constants are shared with the
	// client so prediction and server authority agree.
	ColliderSize = 64.0
	SpriteOffset = 16.0
	SpriteSize   = ColliderSize + 2*SpriteOffset
)

// Reconciliation tuning for client-side prediction: predicted positions
// blend toward the authoritative one, except past SnapDistance where the
// client snaps immediately to avoid visible rubber-banding.
const (
	ReconcileBlend = 0.2
	SnapDistance   = 128.0
)

// InputDirection decodes the input bitmask into a per-axis -1/0/+1
// direction, normalized when both axes are active so diagonal movement is
// not sqrt(2) faster than single-axis movement.
func InputDirection(mask uint8) Vec2 {
	var dir Vec2
	if mask&InputLeft != 0 {
		dir.X -= 1
	}
	if mask&InputRight != 0 {
		dir.X += 1
	}
	if mask&InputUp != 0 {
		dir.Y -= 1
	}
	if mask&InputDown != 0 {
		dir.Y += 1
	}
	if dir.X != 0 && dir.Y != 0 {
		dir = dir.Normalized()
	}
	return dir
}

// ResolveMovement dispatches a displacement to whichever collision
// strategy matches the level's geometry representation.
func ResolveMovement(l *Level, pos Vec2, delta Vec2) Vec2 {
	switch l.Kind {
	case GeometryTiles:
		return ResolveTileMovement(l, pos, delta, ColliderSize, ColliderSize)
	case GeometryPolygons:
		return ResolvePolygonMovement(l, pos, Vec2{pos.X + delta.X, pos.Y + delta.Y}, ColliderSize, ColliderSize)
	default:
		return Vec2{pos.X + delta.X, pos.Y + delta.Y}
	}
}

// Step advances one player by dt seconds. Dead players (caught hiders,
// spectating as ghosts) and levels without geometry move unobstructed;
// missing level data is never an error.
func Step(alive bool, x, y float64, mask uint8, level *Level, dt float64) (Vec2, float64, float64) {
	dir := InputDirection(mask)
	delta := dir.Scale(PlayerSpeed * dt)

	if !alive || !level.HasGeometry() {
		return dir, x + delta.X, y + delta.Y
	}

	pos := ResolveMovement(level, Vec2{x, y}, delta)
	return dir, pos.X, pos.Y
}

// Reconcile moves a locally predicted position toward the authoritative
// server position. Small errors blend smoothly; errors beyond
// SnapDistance snap outright.
func Reconcile(local, authoritative Vec2) Vec2 {
	diff := authoritative.Sub(local)
	if diff.Length() > SnapDistance {
		return authoritative
	}
	return Vec2{
		X: local.X + diff.X*ReconcileBlend,
		Y: local.Y + diff.Y*ReconcileBlend,
	}
}
