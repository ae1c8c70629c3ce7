package main

// Player roles
const (
	RoleHider  = 0
	RoleSeeker = 1
)

// Player holds one connection's kinematic and round state. It is mutated
// only inside the owning Game's tick sweep; message handlers and the tick
// never touch it concurrently (both run under the Game mutex).
type Player struct {
	ID   string
	Name string

	// Collider-box origin in world units. The renderer draws the sprite
	// box at (X-SpriteOffset, Y-SpriteOffset).
	X, Y float64

	Mask  uint8 // latest input bitmask
	Dir   Vec2  // last normalized movement direction
	Role  int
	Alive bool // caught hiders turn into ghosts and pass through walls
	Ready bool

	Catches int // hiders tagged this round (seeker only)

	// AuthPlayerID links to a persistent account, 0 for guests
	AuthPlayerID int64
}

// NewPlayer creates a player at the level's spawn point.
func NewPlayer(id, name string, level *Level) *Player {
	p := &Player{
		ID:    id,
		Name:  name,
		Role:  RoleHider,
		Alive: true,
	}
	p.MoveToSpawn(level)
	return p
}

// MoveToSpawn places the player at the level's start position.
func (p *Player) MoveToSpawn(level *Level) {
	if level == nil {
		return
	}
	p.X = level.StartX
	p.Y = level.StartY
}

// Center returns the middle of the collider box, used for catch distance
// and line-of-sight checks.
func (p *Player) Center() Vec2 {
	return Vec2{p.X + ColliderSize/2, p.Y + ColliderSize/2}
}

// Collider returns the player's collision box.
func (p *Player) Collider() Rect {
	return Rect{X: p.X, Y: p.Y, W: ColliderSize, H: ColliderSize}
}

// ResetForRound clears round state when a new round starts or the session
// returns to the lobby.
func (p *Player) ResetForRound(level *Level) {
	p.Role = RoleHider
	p.Alive = true
	p.Ready = false
	p.Catches = 0
	p.Mask = 0
	p.Dir = Vec2{}
	p.MoveToSpawn(level)
}

// ToState converts to the protocol state entry.
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     p.X,
		Y:     p.Y,
		Role:  p.Role,
		Alive: p.Alive,
		Ready: p.Ready,
	}
}
